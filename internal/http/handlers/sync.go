package handlers

import (
	"errors"
	"strconv"

	"github.com/hawk7227/dropshipping-management-sub002/internal/errcode"
	"github.com/hawk7227/dropshipping-management-sub002/internal/http/response"
	"github.com/hawk7227/dropshipping-management-sub002/internal/queue"
	"github.com/hawk7227/dropshipping-management-sub002/internal/repository"
	"github.com/hawk7227/dropshipping-management-sub002/internal/service"

	"github.com/gin-gonic/gin"
)

// SyncProduct pushes one product to Shopify. With async=true and the
// queue enabled the push happens in the worker.
func (h *Handler) SyncProduct(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	async, _ := strconv.ParseBool(c.DefaultQuery("async", "false"))
	if async && h.QueueClient.Enabled() {
		if err := h.QueueClient.EnqueueShopifySync(queue.ShopifySyncPayload{ProductID: id}); err != nil {
			respondError(c, response.CodeInternal, errcode.QueueEnqueueFailed, err)
			return
		}
		response.Success(c, gin.H{"queued": true, "product_id": id})
		return
	}

	outcome, err := h.SyncService.Sync(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			respondError(c, response.CodeNotFound, errcode.ProdNotFound, nil)
		case errors.Is(err, service.ErrNotSyncable):
			respondError(c, response.CodeBadRequest, errcode.ProdNotSyncable, nil)
		case errors.Is(err, service.ErrNoProvider):
			respondError(c, response.CodeBadRequest, errcode.ConfigMissingKey, err)
		default:
			respondError(c, response.CodeInternal, errcode.ShopSyncFailed, err)
		}
		return
	}
	if !outcome.Success {
		entry := errcode.Lookup(errcode.ShopSyncFailed)
		response.ErrorWithData(c, response.CodeInternal, entry.Message, outcome)
		return
	}
	response.Success(c, outcome)
}

// SyncAll pushes every syncable product sequentially.
func (h *Handler) SyncAll(c *gin.Context) {
	result, err := h.SyncService.SyncAll(c.Request.Context())
	if err != nil {
		if errors.Is(err, service.ErrNoProvider) {
			respondError(c, response.CodeBadRequest, errcode.ConfigMissingKey, err)
			return
		}
		respondError(c, response.CodeInternal, errcode.ShopSyncFailed, err)
		return
	}
	response.Success(c, result)
}

// SyncLogs lists the push audit trail.
func (h *Handler) SyncLogs(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	filter := repository.SyncLogListFilter{
		Page:     page,
		PageSize: pageSize,
		Status:   c.Query("status"),
	}
	if raw := c.Query("product_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			respondError(c, response.CodeBadRequest, errcode.ValidBadPagination, err)
			return
		}
		filter.ProductID = uint(id)
	}

	logs, total, err := h.SyncLogRepo.List(filter)
	if err != nil {
		respondError(c, response.CodeInternal, errcode.DBQueryFailed, err)
		return
	}
	response.SuccessWithPage(c, logs, buildPagination(page, pageSize, total))
}
