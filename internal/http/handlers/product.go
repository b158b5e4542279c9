package handlers

import (
	"errors"
	"strconv"
	"strings"

	"github.com/hawk7227/dropshipping-management-sub002/internal/errcode"
	"github.com/hawk7227/dropshipping-management-sub002/internal/http/response"
	"github.com/hawk7227/dropshipping-management-sub002/internal/repository"
	"github.com/hawk7227/dropshipping-management-sub002/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// ProductCreateRequest is the create-product body.
type ProductCreateRequest struct {
	ASIN        string                 `json:"asin" binding:"required"`
	Title       string                 `json:"title" binding:"required"`
	Description string                 `json:"description"`
	Brand       string                 `json:"brand"`
	Category    string                 `json:"category"`
	Features    []string               `json:"features"`
	Specs       map[string]interface{} `json:"specs"`
	Images      []string               `json:"images"`
	AmazonPrice float64                `json:"amazon_price" binding:"required"`
	Rating      float64                `json:"rating"`
	ReviewCount int                    `json:"review_count"`
	IsPrime     bool                   `json:"is_prime"`
	BSR         int                    `json:"bsr"`
	Status      string                 `json:"status"`
}

// ProductUpdateRequest is the partial-update body; absent fields stay
// untouched.
type ProductUpdateRequest struct {
	Title       *string                `json:"title"`
	Description *string                `json:"description"`
	Brand       *string                `json:"brand"`
	Category    *string                `json:"category"`
	Features    []string               `json:"features"`
	Specs       map[string]interface{} `json:"specs"`
	Images      []string               `json:"images"`
	AmazonPrice *float64               `json:"amazon_price"`
	Rating      *float64               `json:"rating"`
	ReviewCount *int                   `json:"review_count"`
	IsPrime     *bool                  `json:"is_prime"`
	BSR         *int                   `json:"bsr"`
	Status      *string                `json:"status"`
}

// BulkStatusRequest flips the status on a batch of products.
type BulkStatusRequest struct {
	IDs    []uint `json:"ids" binding:"required"`
	Status string `json:"status" binding:"required"`
}

// BulkDeleteRequest removes a batch of products.
type BulkDeleteRequest struct {
	IDs []uint `json:"ids" binding:"required"`
}

// ListProducts returns a filtered catalog page.
func (h *Handler) ListProducts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	filter := repository.ProductListFilter{
		Page:       page,
		PageSize:   pageSize,
		Search:     c.Query("search"),
		DemandTier: c.Query("demand_tier"),
		OrderBy:    c.Query("order_by"),
	}
	if raw := c.Query("status"); raw != "" {
		filter.Statuses = strings.Split(raw, ",")
	}
	if raw := c.Query("min_demand_score"); raw != "" {
		filter.MinDemandScore, _ = strconv.Atoi(raw)
	}
	if raw := c.Query("max_bsr"); raw != "" {
		filter.MaxBSR, _ = strconv.Atoi(raw)
	}
	if raw := c.Query("min_margin"); raw != "" {
		filter.MinMargin, _ = strconv.ParseFloat(raw, 64)
	}
	if raw := c.Query("prime"); raw != "" {
		filter.OnlyPrime, _ = strconv.ParseBool(raw)
	}

	products, total, err := h.ProductService.List(filter)
	if err != nil {
		if errors.Is(err, service.ErrInvalidStatus) {
			respondError(c, response.CodeBadRequest, errcode.ValidBadStatus, err)
			return
		}
		respondError(c, response.CodeInternal, errcode.DBQueryFailed, err)
		return
	}

	response.SuccessWithPage(c, products, buildPagination(page, pageSize, total))
}

// GetProduct returns one product by id.
func (h *Handler) GetProduct(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	product, err := h.ProductService.Get(id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondError(c, response.CodeNotFound, errcode.ProdNotFound, nil)
			return
		}
		respondError(c, response.CodeInternal, errcode.DBQueryFailed, err)
		return
	}
	response.Success(c, product)
}

// CreateProduct inserts a catalog item and derives its pricing.
func (h *Handler) CreateProduct(c *gin.Context) {
	var req ProductCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, errcode.ValidMissingField, err)
		return
	}

	product, err := h.ProductService.Create(service.CreateProductInput{
		ASIN:        req.ASIN,
		Title:       req.Title,
		Description: req.Description,
		Brand:       req.Brand,
		Category:    req.Category,
		Features:    req.Features,
		Specs:       req.Specs,
		Images:      req.Images,
		AmazonPrice: decimal.NewFromFloat(req.AmazonPrice),
		Rating:      req.Rating,
		ReviewCount: req.ReviewCount,
		IsPrime:     req.IsPrime,
		BSR:         req.BSR,
		Status:      req.Status,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidASIN):
			respondError(c, response.CodeBadRequest, errcode.ValidInvalidASIN, nil)
		case errors.Is(err, service.ErrMissingTitle):
			respondError(c, response.CodeBadRequest, errcode.ValidMissingField, nil)
		case errors.Is(err, service.ErrInvalidCost):
			respondError(c, response.CodeBadRequest, errcode.PriceCalcInvalidCost, nil)
		case errors.Is(err, service.ErrInvalidStatus):
			respondError(c, response.CodeBadRequest, errcode.ValidBadStatus, nil)
		case errors.Is(err, service.ErrDuplicateASIN):
			respondError(c, response.CodeBadRequest, errcode.ProdAlreadyExists, nil)
		default:
			respondError(c, response.CodeInternal, errcode.DBQueryFailed, err)
		}
		return
	}

	response.Success(c, product)
}

// UpdateProduct applies a partial update.
func (h *Handler) UpdateProduct(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req ProductUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, errcode.ValidMissingField, err)
		return
	}

	input := service.UpdateProductInput{
		Title:       req.Title,
		Description: req.Description,
		Brand:       req.Brand,
		Category:    req.Category,
		Features:    req.Features,
		Specs:       req.Specs,
		Images:      req.Images,
		Rating:      req.Rating,
		ReviewCount: req.ReviewCount,
		IsPrime:     req.IsPrime,
		BSR:         req.BSR,
		Status:      req.Status,
	}
	if req.AmazonPrice != nil {
		cost := decimal.NewFromFloat(*req.AmazonPrice)
		input.AmazonPrice = &cost
	}

	product, err := h.ProductService.Update(id, input)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			respondError(c, response.CodeNotFound, errcode.ProdNotFound, nil)
		case errors.Is(err, service.ErrMissingTitle):
			respondError(c, response.CodeBadRequest, errcode.ValidMissingField, nil)
		case errors.Is(err, service.ErrInvalidCost):
			respondError(c, response.CodeBadRequest, errcode.PriceCalcInvalidCost, nil)
		case errors.Is(err, service.ErrInvalidStatus):
			respondError(c, response.CodeBadRequest, errcode.ValidBadStatus, nil)
		default:
			respondError(c, response.CodeInternal, errcode.DBQueryFailed, err)
		}
		return
	}

	response.Success(c, product)
}

// ArchiveProduct soft-removes a product from the working set.
func (h *Handler) ArchiveProduct(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	if err := h.ProductService.Archive(id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondError(c, response.CodeNotFound, errcode.ProdNotFound, nil)
			return
		}
		respondError(c, response.CodeInternal, errcode.DBQueryFailed, err)
		return
	}
	response.Success(c, gin.H{"archived": true})
}

// DeleteProduct removes a product permanently.
func (h *Handler) DeleteProduct(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	if err := h.ProductService.Delete(id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondError(c, response.CodeNotFound, errcode.ProdNotFound, nil)
			return
		}
		respondError(c, response.CodeInternal, errcode.DBQueryFailed, err)
		return
	}
	response.Success(c, gin.H{"deleted": true})
}

// BulkUpdateStatus flips the status on a batch, partial-success.
func (h *Handler) BulkUpdateStatus(c *gin.Context) {
	var req BulkStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, errcode.ValidMissingField, err)
		return
	}

	result, err := h.ProductService.BulkUpdateStatus(req.IDs, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBatchTooLarge):
			respondError(c, response.CodeBadRequest, errcode.ImportBatchTooLarge, nil)
		case errors.Is(err, service.ErrInvalidStatus):
			respondError(c, response.CodeBadRequest, errcode.ValidBadStatus, nil)
		default:
			respondError(c, response.CodeInternal, errcode.DBQueryFailed, err)
		}
		return
	}
	response.Success(c, result)
}

// BulkDelete removes a batch, partial-success.
func (h *Handler) BulkDelete(c *gin.Context) {
	var req BulkDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, errcode.ValidMissingField, err)
		return
	}

	result, err := h.ProductService.BulkDelete(req.IDs)
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

// ProductStats returns catalog totals per status.
func (h *Handler) ProductStats(c *gin.Context) {
	counts, err := h.ProductService.CountByStatus()
	if err != nil {
		respondError(c, response.CodeInternal, errcode.DBQueryFailed, err)
		return
	}
	response.Success(c, gin.H{"by_status": counts})
}

// ProductPriceHistory returns recent snapshots for one product.
func (h *Handler) ProductPriceHistory(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	if _, err := h.ProductService.Get(id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondError(c, response.CodeNotFound, errcode.ProdNotFound, nil)
			return
		}
		respondError(c, response.CodeInternal, errcode.DBQueryFailed, err)
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "30"))
	if limit <= 0 || limit > 365 {
		limit = 30
	}
	entries, err := h.PriceHistoryRepo.ListRecent(repository.PriceHistoryFilter{
		ProductID: id,
		Limit:     limit,
	})
	if err != nil {
		respondError(c, response.CodeInternal, errcode.DBQueryFailed, err)
		return
	}
	response.Success(c, entries)
}
