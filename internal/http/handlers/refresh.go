package handlers

import (
	"errors"
	"strconv"

	"github.com/hawk7227/dropshipping-management-sub002/internal/errcode"
	"github.com/hawk7227/dropshipping-management-sub002/internal/http/response"
	"github.com/hawk7227/dropshipping-management-sub002/internal/keepa"
	"github.com/hawk7227/dropshipping-management-sub002/internal/queue"
	"github.com/hawk7227/dropshipping-management-sub002/internal/service"

	"github.com/gin-gonic/gin"
)

// RefreshProduct re-pulls vendor signals for one product. With
// async=true and the queue enabled the pull happens in the worker.
func (h *Handler) RefreshProduct(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	async, _ := strconv.ParseBool(c.DefaultQuery("async", "false"))
	if async && h.QueueClient.Enabled() {
		if err := h.QueueClient.EnqueuePriceRefresh(queue.PriceRefreshPayload{ProductID: id}); err != nil {
			respondError(c, response.CodeInternal, errcode.QueueEnqueueFailed, err)
			return
		}
		response.Success(c, gin.H{"queued": true, "product_id": id})
		return
	}

	outcome, err := h.RefreshService.Refresh(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			respondError(c, response.CodeNotFound, errcode.ProdNotFound, nil)
		case errors.Is(err, service.ErrNoProvider):
			respondError(c, response.CodeBadRequest, errcode.ConfigMissingKey, err)
		case errors.Is(err, keepa.ErrTokensDrained):
			respondError(c, response.CodeTooManyRequests, errcode.KeepaTokensDrained, err)
		default:
			respondError(c, response.CodeInternal, errcode.KeepaRequestFailed, err)
		}
		return
	}
	response.Success(c, outcome)
}

// RefreshDue refreshes every product whose next check has passed.
func (h *Handler) RefreshDue(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit <= 0 || limit > 500 {
		limit = 50
	}

	outcomes, err := h.RefreshService.RefreshDue(c.Request.Context(), limit)
	if err != nil {
		if errors.Is(err, service.ErrNoProvider) {
			respondError(c, response.CodeBadRequest, errcode.ConfigMissingKey, err)
			return
		}
		respondError(c, response.CodeInternal, errcode.KeepaRequestFailed, err)
		return
	}
	response.Success(c, gin.H{
		"count": len(outcomes),
		"items": outcomes,
	})
}
