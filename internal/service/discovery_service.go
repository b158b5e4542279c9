package service

import (
	"context"
	"strings"

	"github.com/hawk7227/dropshipping-management-sub002/internal/cache"
	"github.com/hawk7227/dropshipping-management-sub002/internal/constants"
	"github.com/hawk7227/dropshipping-management-sub002/internal/logger"
	"github.com/hawk7227/dropshipping-management-sub002/internal/pricing"
	"github.com/hawk7227/dropshipping-management-sub002/internal/rainforest"

	"github.com/shopspring/decimal"
)

// ProductSearcher is the slice of the Rainforest client discovery
// depends on.
type ProductSearcher interface {
	Search(ctx context.Context, input rainforest.SearchInput) (*rainforest.SearchResult, error)
	EstimateCost(requests int) float64
	TokensPerMinute() int
}

// DiscoveryService runs vendor searches through the discovery filters
// and imports the survivors as pending catalog items.
type DiscoveryService struct {
	products *ProductService
	searcher ProductSearcher
	engine   *pricing.Engine
}

// NewDiscoveryService creates the discovery service.
func NewDiscoveryService(products *ProductService, searcher ProductSearcher, engine *pricing.Engine) *DiscoveryService {
	return &DiscoveryService{products: products, searcher: searcher, engine: engine}
}

// Candidate is one search hit with its evaluation attached.
type Candidate struct {
	ASIN        string   `json:"asin"`
	Title       string   `json:"title"`
	Brand       string   `json:"brand"`
	Category    string   `json:"category"`
	Price       float64  `json:"price"`
	Rating      float64  `json:"rating"`
	ReviewCount int      `json:"review_count"`
	IsPrime     bool     `json:"is_prime"`
	Image       string   `json:"image"`
	Meets       bool     `json:"meets"`
	Reasons     []string `json:"reasons,omitempty"`
}

// SearchReport is the evaluated result of one discovery search.
type SearchReport struct {
	Term            string         `json:"term"`
	TotalResults    int            `json:"total_results"`
	Evaluated       int            `json:"evaluated"`
	Eligible        int            `json:"eligible"`
	Rejected        int            `json:"rejected"`
	RejectionCounts map[string]int `json:"rejection_counts"`
	Candidates      []Candidate    `json:"candidates"`
	EstimatedCost   float64        `json:"estimated_cost"`
	TokensPerMinute int            `json:"tokens_per_minute"`
	TokensUsed      int64          `json:"tokens_used"`
}

// Search runs one vendor search page and evaluates every hit against
// the discovery filters. Nothing is written; import is a second step.
func (s *DiscoveryService) Search(ctx context.Context, term, category string, page int) (*SearchReport, error) {
	if s.searcher == nil {
		return nil, ErrNoProvider
	}
	usage, err := cache.ConsumeTokens(ctx, "rainforest", 1, s.searcher.TokensPerMinute())
	if err != nil {
		logger.Warnw("token_usage_record_failed", "provider", "rainforest", "error", err)
	}
	result, err := s.searcher.Search(ctx, rainforest.SearchInput{
		Term:     term,
		Category: category,
		Page:     page,
	})
	if err != nil {
		return nil, err
	}

	report := &SearchReport{
		Term:            term,
		TotalResults:    result.TotalResults,
		RejectionCounts: map[string]int{},
		EstimatedCost:   s.searcher.EstimateCost(1),
		TokensPerMinute: s.searcher.TokensPerMinute(),
		TokensUsed:      usage.Used,
	}
	for _, hit := range result.Products {
		evaluation := s.engine.MeetsDiscoveryCriteria(pricing.DiscoveryInput{
			Price:       decimal.NewFromFloat(hit.Price),
			Rating:      hit.Rating,
			ReviewCount: hit.ReviewCount,
			IsPrime:     hit.IsPrime,
			Category:    hit.Category,
			Title:       hit.Title,
		})
		candidate := Candidate{
			ASIN:        hit.ASIN,
			Title:       hit.Title,
			Brand:       hit.Brand,
			Category:    hit.Category,
			Price:       hit.Price,
			Rating:      hit.Rating,
			ReviewCount: hit.ReviewCount,
			IsPrime:     hit.IsPrime,
			Image:       hit.Image,
			Meets:       evaluation.Meets,
			Reasons:     evaluation.Reasons,
		}
		report.Evaluated++
		if evaluation.Meets {
			report.Eligible++
		} else {
			report.Rejected++
			for _, reason := range evaluation.Reasons {
				report.RejectionCounts[reason]++
			}
		}
		report.Candidates = append(report.Candidates, candidate)
	}

	logger.Infow("discovery_search_done",
		"term", term,
		"evaluated", report.Evaluated,
		"eligible", report.Eligible,
		"rejected", report.Rejected,
	)
	return report, nil
}

// ImportItem is one candidate submitted for import.
type ImportItem struct {
	ASIN        string                 `json:"asin"`
	Title       string                 `json:"title"`
	Description string                 `json:"description"`
	Brand       string                 `json:"brand"`
	Category    string                 `json:"category"`
	Features    []string               `json:"features"`
	Specs       map[string]interface{} `json:"specs"`
	Images      []string               `json:"images"`
	Price       float64                `json:"price"`
	Rating      float64                `json:"rating"`
	ReviewCount int                    `json:"review_count"`
	IsPrime     bool                   `json:"is_prime"`
	BSR         int                    `json:"bsr"`
}

// ImportItemOutcome is one item's import result.
type ImportItemOutcome struct {
	ASIN    string `json:"asin"`
	ID      uint   `json:"id,omitempty"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// ImportResult summarizes a partial-success import batch.
type ImportResult struct {
	Total     int                 `json:"total"`
	Succeeded int                 `json:"succeeded"`
	Failed    int                 `json:"failed"`
	Items     []ImportItemOutcome `json:"items"`
}

// Import re-checks each item against the discovery filters and creates
// the survivors as pending products. Items failing a filter or already
// present record a per-item failure; the batch never aborts midway.
func (s *DiscoveryService) Import(items []ImportItem) (*ImportResult, error) {
	if len(items) > constants.BulkBatchMax {
		return nil, ErrBatchTooLarge
	}

	result := &ImportResult{Total: len(items)}
	for _, item := range items {
		outcome := ImportItemOutcome{ASIN: item.ASIN}

		evaluation := s.engine.MeetsDiscoveryCriteria(pricing.DiscoveryInput{
			Price:       decimal.NewFromFloat(item.Price),
			Rating:      item.Rating,
			ReviewCount: item.ReviewCount,
			IsPrime:     item.IsPrime,
			Category:    item.Category,
			Title:       item.Title,
		})
		if !evaluation.Meets {
			outcome.Error = "rejected: " + joinReasons(evaluation.Reasons)
			result.Failed++
			result.Items = append(result.Items, outcome)
			continue
		}

		product, err := s.products.Create(CreateProductInput{
			ASIN:        item.ASIN,
			Title:       item.Title,
			Description: item.Description,
			Brand:       item.Brand,
			Category:    item.Category,
			Features:    item.Features,
			Specs:       item.Specs,
			Images:      item.Images,
			AmazonPrice: decimal.NewFromFloat(item.Price),
			Rating:      item.Rating,
			ReviewCount: item.ReviewCount,
			IsPrime:     item.IsPrime,
			BSR:         item.BSR,
		})
		if err != nil {
			outcome.Error = err.Error()
			result.Failed++
		} else {
			outcome.ID = product.ID
			outcome.Success = true
			result.Succeeded++
		}
		result.Items = append(result.Items, outcome)
	}

	logger.Infow("discovery_import_done",
		"total", result.Total,
		"succeeded", result.Succeeded,
		"failed", result.Failed,
	)
	return result, nil
}

func joinReasons(reasons []string) string {
	return strings.Join(reasons, "; ")
}
