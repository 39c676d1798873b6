package storage

import (
	"context"

	"howmuch-apple/models"
)

// ListingWriter is the interface any storage backend must satisfy.
type ListingWriter interface {
	// Write stores listings and reports how many were new.
	Write(ctx context.Context, listings []*models.Listing) (int, error)
	Clear(ctx context.Context) error
	Close() error
}

// ListingReader looks up stored listings for analysis.
type ListingReader interface {
	FetchMatching(ctx context.Context, filter models.ListingFilter) ([]*models.Listing, error)
}

// ListingStore is a backend that can both import and answer queries.
type ListingStore interface {
	ListingWriter
	ListingReader
}

var _ ListingStore = (*PostgresStore)(nil)
