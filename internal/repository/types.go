package repository

import "time"

// ProductListFilter narrows a catalog listing. All criteria are
// optional and AND-combined.
type ProductListFilter struct {
	Page           int
	PageSize       int
	Statuses       []string
	MinDemandScore int
	MaxBSR         int
	MinMargin      float64
	Search         string
	OnlyPrime      bool
	DemandTier     string
	OrderBy        string // e.g. "demand_score DESC"
}

// PriceHistoryFilter bounds a history fetch.
type PriceHistoryFilter struct {
	ProductID uint
	Since     *time.Time
	Limit     int
}

// SyncLogListFilter narrows the sync audit listing.
type SyncLogListFilter struct {
	Page      int
	PageSize  int
	ProductID uint
	Status    string
}
