package service

import "errors"

var (
	ErrNotFound      = errors.New("record not found")
	ErrInvalidASIN   = errors.New("invalid asin")
	ErrDuplicateASIN = errors.New("asin already exists")
	ErrInvalidStatus = errors.New("invalid product status")
	ErrInvalidCost   = errors.New("cost price must be positive")
	ErrMissingTitle  = errors.New("title is required")
	ErrBatchTooLarge = errors.New("batch exceeds maximum size")
	ErrNotSyncable   = errors.New("product status not syncable")
	ErrBadFormat     = errors.New("unsupported export format")
	ErrNoProvider    = errors.New("external provider not configured")
)
