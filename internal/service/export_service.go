package service

import (
	"github.com/hawk7227/dropshipping-management-sub002/internal/config"
	"github.com/hawk7227/dropshipping-management-sub002/internal/constants"
	"github.com/hawk7227/dropshipping-management-sub002/internal/export"
	"github.com/hawk7227/dropshipping-management-sub002/internal/logger"
	"github.com/hawk7227/dropshipping-management-sub002/internal/models"
	"github.com/hawk7227/dropshipping-management-sub002/internal/repository"
)

// ExportService turns catalog queries into downloadable exports. All
// failures land in the result struct; nothing panics or errors across
// this boundary.
type ExportService struct {
	repo repository.ProductRepository
	cfg  config.ExportConfig
}

// NewExportService creates the export service.
func NewExportService(repo repository.ProductRepository, cfg config.ExportConfig) *ExportService {
	return &ExportService{repo: repo, cfg: cfg}
}

// ExportInput selects and shapes one export run.
type ExportInput struct {
	Statuses          []string
	MinDemandScore    int
	MaxBSR            int
	MinMargin         float64
	Format            string // master export only: csv / json
	IncludeMetafields *bool  // nil = config default
}

// ExportResult is the tagged outcome of one export run.
type ExportResult struct {
	Success      bool   `json:"success"`
	CSV          string `json:"csv"`
	Format       string `json:"format"`
	ProductCount int    `json:"product_count"`
	Error        string `json:"error,omitempty"`
}

// Shopify exports the filtered catalog in Shopify bulk-import shape.
func (s *ExportService) Shopify(input ExportInput) *ExportResult {
	products, err := s.query(input)
	if err != nil {
		logger.Errorw("export_query_failed", "error", err)
		return &ExportResult{Format: constants.ExportFormatCSV, Error: err.Error()}
	}

	opts := export.Options{
		Vendor:            s.cfg.Vendor,
		SEODescriptionMax: s.cfg.SEODescriptionMax,
		DefaultPublished:  s.cfg.DefaultPublished,
		IncludeMetafields: s.cfg.IncludeMetafields,
	}
	if input.IncludeMetafields != nil {
		opts.IncludeMetafields = *input.IncludeMetafields
	}

	body, err := export.ShopifyCSV(products, opts)
	if err != nil {
		logger.Errorw("export_render_failed", "error", err)
		return &ExportResult{Format: constants.ExportFormatCSV, Error: err.Error()}
	}

	logger.Infow("export_shopify_done", "product_count", len(products))
	return &ExportResult{
		Success:      true,
		CSV:          body,
		Format:       constants.ExportFormatCSV,
		ProductCount: len(products),
	}
}

// Master exports the full-detail catalog as CSV or JSON.
func (s *ExportService) Master(input ExportInput) *ExportResult {
	format := input.Format
	if format == "" {
		format = constants.ExportFormatCSV
	}
	if format != constants.ExportFormatCSV && format != constants.ExportFormatJSON {
		return &ExportResult{Format: format, Error: ErrBadFormat.Error()}
	}

	products, err := s.query(input)
	if err != nil {
		logger.Errorw("export_query_failed", "error", err)
		return &ExportResult{Format: format, Error: err.Error()}
	}

	var body string
	if format == constants.ExportFormatJSON {
		body, err = export.MasterJSON(products)
	} else {
		body, err = export.MasterCSV(products)
	}
	if err != nil {
		logger.Errorw("export_render_failed", "error", err)
		return &ExportResult{Format: format, Error: err.Error()}
	}

	logger.Infow("export_master_done", "format", format, "product_count", len(products))
	return &ExportResult{
		Success:      true,
		CSV:          body,
		Format:       format,
		ProductCount: len(products),
	}
}

func (s *ExportService) query(input ExportInput) ([]models.Product, error) {
	filter := repository.ProductListFilter{
		Statuses:       input.Statuses,
		MinDemandScore: input.MinDemandScore,
		MaxBSR:         input.MaxBSR,
		MinMargin:      input.MinMargin,
		OrderBy:        "demand_score DESC, id ASC",
	}
	products, _, err := s.repo.List(filter)
	return products, err
}
