package cmd

import (
	"context"
	"errors"
	"testing"

	"howmuch-apple/models"
	"howmuch-apple/storage"
	"howmuch-apple/utils"
)

type memoryStore struct {
	rows     []*models.Listing
	cleared  bool
	fetchErr error
}

var _ storage.ListingStore = (*memoryStore)(nil)

func (m *memoryStore) Write(_ context.Context, listings []*models.Listing) (int, error) {
	m.rows = append(m.rows, listings...)
	return len(listings), nil
}

func (m *memoryStore) Clear(context.Context) error {
	m.rows, m.cleared = nil, true
	return nil
}

func (m *memoryStore) Close() error { return nil }

func (m *memoryStore) FetchMatching(context.Context, models.ListingFilter) ([]*models.Listing, error) {
	return m.rows, m.fetchErr
}

func TestStoreListings(t *testing.T) {
	logger = utils.Discard()
	old := &models.Listing{Model: "iPhone 15", Price: 700_000}
	fresh := []*models.Listing{{Model: "iPhone 16", Price: 900_000}}

	store := &memoryStore{rows: []*models.Listing{old}}
	stored, err := storeListings(context.Background(), store, fresh, false, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(stored) != 2 {
		t.Errorf("report rows: got %d, want 2", len(stored))
	}

	store = &memoryStore{rows: []*models.Listing{old}}
	stored, err = storeListings(context.Background(), store, fresh, true, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !store.cleared || len(stored) != 1 {
		t.Errorf("replace: cleared=%v rows=%d", store.cleared, len(stored))
	}
}

func TestStoreListingsReportFallsBackToCleaned(t *testing.T) {
	logger = utils.Discard()
	fresh := []*models.Listing{{Model: "iPhone 16", Price: 900_000}}

	store := &memoryStore{fetchErr: errors.New("connection reset")}
	stored, err := storeListings(context.Background(), store, fresh, false, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(stored) != 1 || stored[0] != fresh[0] {
		t.Errorf("expected the cleaned rows back, got %v", stored)
	}

	if stored, _ := storeListings(context.Background(), &memoryStore{}, fresh, false, false); stored != nil {
		t.Errorf("no report: got %v", stored)
	}
}
