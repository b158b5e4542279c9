package handlers

import (
	"strconv"
	"strings"

	"github.com/hawk7227/dropshipping-management-sub002/internal/errcode"
	"github.com/hawk7227/dropshipping-management-sub002/internal/http/response"
	"github.com/hawk7227/dropshipping-management-sub002/internal/service"

	"github.com/gin-gonic/gin"
)

// ExportRequest selects the rows and shape of one export run.
type ExportRequest struct {
	Statuses          []string `json:"statuses"`
	MinDemandScore    int      `json:"min_demand_score"`
	MaxBSR            int      `json:"max_bsr"`
	MinMargin         float64  `json:"min_margin"`
	Format            string   `json:"format"`
	IncludeMetafields *bool    `json:"include_metafields"`
	Download          bool     `json:"download"`
}

// ExportShopify produces the Shopify import CSV.
func (h *Handler) ExportShopify(c *gin.Context) {
	req, ok := bindExportRequest(c)
	if !ok {
		return
	}

	result := h.ExportService.Shopify(service.ExportInput{
		Statuses:          req.Statuses,
		MinDemandScore:    req.MinDemandScore,
		MaxBSR:            req.MaxBSR,
		MinMargin:         req.MinMargin,
		IncludeMetafields: req.IncludeMetafields,
	})
	writeExportResult(c, req, result, "shopify-products.csv")
}

// ExportMaster produces the internal master sheet, CSV or JSON.
func (h *Handler) ExportMaster(c *gin.Context) {
	req, ok := bindExportRequest(c)
	if !ok {
		return
	}

	result := h.ExportService.Master(service.ExportInput{
		Statuses:       req.Statuses,
		MinDemandScore: req.MinDemandScore,
		MaxBSR:         req.MaxBSR,
		MinMargin:      req.MinMargin,
		Format:         req.Format,
	})
	writeExportResult(c, req, result, "master-sheet."+formatExtension(result.Format))
}

// bindExportRequest accepts the filter either as a JSON body (POST) or
// query parameters (GET download links).
func bindExportRequest(c *gin.Context) (*ExportRequest, bool) {
	var req ExportRequest
	if c.Request.Method == "POST" {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, response.CodeBadRequest, errcode.ValidMissingField, err)
			return nil, false
		}
		return &req, true
	}

	if raw := c.Query("status"); raw != "" {
		req.Statuses = strings.Split(raw, ",")
	}
	if raw := c.Query("min_demand_score"); raw != "" {
		req.MinDemandScore, _ = strconv.Atoi(raw)
	}
	if raw := c.Query("max_bsr"); raw != "" {
		req.MaxBSR, _ = strconv.Atoi(raw)
	}
	if raw := c.Query("min_margin"); raw != "" {
		req.MinMargin, _ = strconv.ParseFloat(raw, 64)
	}
	if raw := c.Query("include_metafields"); raw != "" {
		parsed, _ := strconv.ParseBool(raw)
		req.IncludeMetafields = &parsed
	}
	req.Format = c.Query("format")
	req.Download, _ = strconv.ParseBool(c.DefaultQuery("download", "false"))
	return &req, true
}

func writeExportResult(c *gin.Context, req *ExportRequest, result *service.ExportResult, filename string) {
	if !result.Success {
		response.ErrorWithData(c, response.CodeBadRequest, result.Error, gin.H{"format": result.Format})
		return
	}

	if req.Download {
		contentType := "text/csv"
		if result.Format == "json" {
			contentType = "application/json"
		}
		c.Header("Content-Disposition", "attachment; filename="+filename)
		c.Data(200, contentType, []byte(result.CSV))
		return
	}

	response.Success(c, result)
}

func formatExtension(format string) string {
	if format == "json" {
		return "json"
	}
	return "csv"
}
