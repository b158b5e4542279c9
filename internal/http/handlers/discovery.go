package handlers

import (
	"errors"
	"strconv"

	"github.com/hawk7227/dropshipping-management-sub002/internal/errcode"
	"github.com/hawk7227/dropshipping-management-sub002/internal/http/response"
	"github.com/hawk7227/dropshipping-management-sub002/internal/queue"
	"github.com/hawk7227/dropshipping-management-sub002/internal/rainforest"
	"github.com/hawk7227/dropshipping-management-sub002/internal/service"

	"github.com/gin-gonic/gin"
)

// DiscoveryImportRequest submits evaluated candidates for import.
type DiscoveryImportRequest struct {
	Term  string               `json:"term"`
	Items []service.ImportItem `json:"items" binding:"required"`
	Async bool                 `json:"async"`
}

// DiscoverySearch runs one vendor search and evaluates every hit.
func (h *Handler) DiscoverySearch(c *gin.Context) {
	term := c.Query("term")
	if term == "" {
		respondError(c, response.CodeBadRequest, errcode.ValidMissingField, nil)
		return
	}
	category := c.Query("category")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}

	report, err := h.DiscoveryService.Search(c.Request.Context(), term, category, page)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNoProvider):
			respondError(c, response.CodeBadRequest, errcode.ConfigMissingKey, err)
		case errors.Is(err, rainforest.ErrQuotaExceeded):
			respondError(c, response.CodeTooManyRequests, errcode.DiscQuotaExceeded, err)
		default:
			respondError(c, response.CodeInternal, errcode.DiscSearchFailed, err)
		}
		return
	}
	if report.Evaluated == 0 {
		respondError(c, response.CodeNotFound, errcode.DiscEmptyResults, nil)
		return
	}
	response.Success(c, report)
}

// DiscoveryImport imports a candidate batch, inline or via the queue.
func (h *Handler) DiscoveryImport(c *gin.Context) {
	var req DiscoveryImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, errcode.ValidMissingField, err)
		return
	}
	if len(req.Items) == 0 {
		respondError(c, response.CodeBadRequest, errcode.ValidMissingField, nil)
		return
	}

	if req.Async && h.QueueClient.Enabled() {
		payload := queue.DiscoveryImportPayload{Term: req.Term}
		for _, item := range req.Items {
			image := ""
			if len(item.Images) > 0 {
				image = item.Images[0]
			}
			payload.Items = append(payload.Items, queue.DiscoveryImportItem{
				ASIN:        item.ASIN,
				Title:       item.Title,
				Brand:       item.Brand,
				Category:    item.Category,
				Description: item.Description,
				ImageURL:    image,
				Price:       item.Price,
				Rating:      item.Rating,
				ReviewCount: item.ReviewCount,
				IsPrime:     item.IsPrime,
				BSR:         item.BSR,
			})
		}
		if err := h.QueueClient.EnqueueDiscoveryImport(payload); err != nil {
			respondError(c, response.CodeInternal, errcode.QueueEnqueueFailed, err)
			return
		}
		response.Success(c, gin.H{"queued": true, "count": len(req.Items)})
		return
	}

	result, err := h.DiscoveryService.Import(req.Items)
	if err != nil {
		if errors.Is(err, service.ErrBatchTooLarge) {
			respondError(c, response.CodeBadRequest, errcode.ImportBatchTooLarge, nil)
			return
		}
		respondError(c, response.CodeInternal, errcode.DBQueryFailed, err)
		return
	}
	response.Success(c, result)
}
