package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"howmuch-apple/models"
	"howmuch-apple/storage"
)

var insightNow = time.Date(2026, 3, 20, 12, 0, 0, 0, time.UTC)

func sampleListings() []*models.Listing {
	week := 7 * 24 * time.Hour
	return []*models.Listing{
		{Model: "iPhone 16 Pro", Price: 1_200_000, City: "관악구", District: "신림동", Source: "당근마켓", SourceURL: "https://a/1", PostedAt: insightNow.Add(-1 * time.Hour)},
		{Model: "iPhone 16 Pro", Price: 1_000_000, City: "관악구", District: "신림동", Source: "번개장터", SourceURL: "https://a/2", PostedAt: insightNow.Add(-week - time.Hour)},
		{Model: "iPhone 16 Pro", Price: 1_100_000, City: "관악구", District: "봉천동", Source: "중고나라", SourceURL: "https://a/3", PostedAt: insightNow.Add(-2 * time.Hour)},
		{Model: "iPhone 16 Pro", Price: 1_300_000, City: "관악구", District: "남현동", Source: "당근마켓", SourceURL: "https://a/4", PostedAt: insightNow.Add(-10 * week)},
		{Model: "iPhone 16 Pro", Price: 0, City: "관악구", District: "남현동", Source: "당근마켓", SourceURL: "https://a/5", PostedAt: insightNow},
	}
}

var gwanakFilter = models.ListingFilter{Product: "iPhone", Model: "iPhone 16 Pro", Province: "서울특별시", City: "관악구"}

func TestAggregateSummary(t *testing.T) {
	r := AggregateListings(gwanakFilter, sampleListings(), insightNow)
	s := r.Summary
	if s.ListingCount != 4 {
		t.Errorf("ListingCount: got %d, want 4", s.ListingCount)
	}
	if s.AvgPrice != 1_150_000 {
		t.Errorf("AvgPrice: got %d, want 1150000", s.AvgPrice)
	}
	if s.MinPrice != 1_000_000 || s.MaxPrice != 1_300_000 {
		t.Errorf("Min/Max: got %d/%d", s.MinPrice, s.MaxPrice)
	}
	if s.AsOfDate != "2026-03-20 12:00" {
		t.Errorf("AsOfDate: got %q", s.AsOfDate)
	}
}

func TestAggregateGroupsByDistrict(t *testing.T) {
	r := AggregateListings(gwanakFilter, sampleListings(), insightNow)
	rows := r.ByDistrict()
	if len(rows) != 3 {
		t.Fatalf("rows: got %d, want 3", len(rows))
	}

	total := 0
	byName := map[string]models.DistrictPrice{}
	for _, row := range rows {
		total += row.ListingCount
		byName[row.District] = row
	}
	if total != r.Summary.ListingCount {
		t.Errorf("row counts sum to %d, summary says %d", total, r.Summary.ListingCount)
	}
	if got := byName["신림동"]; got.ListingCount != 2 || got.AvgPrice != 1_100_000 {
		t.Errorf("신림동: got %+v", got)
	}
}

func TestAggregateGroupsByCityForProvince(t *testing.T) {
	f := models.ListingFilter{Product: "iPhone", Province: "서울특별시"}
	r := AggregateListings(f, sampleListings(), insightNow)
	if len(r.ByDistrict()) != 1 || r.ByDistrict()[0].District != "관악구" {
		t.Errorf("expected a single 관악구 row, got %+v", r.ByDistrict())
	}
}

func TestAggregateLowestListingsAscending(t *testing.T) {
	r := AggregateListings(gwanakFilter, sampleListings(), insightNow)
	if len(r.LowestListings) != 4 {
		t.Fatalf("LowestListings len: got %d, want 4", len(r.LowestListings))
	}
	for i := 1; i < len(r.LowestListings); i++ {
		if r.LowestListings[i-1].Price > r.LowestListings[i].Price {
			t.Fatalf("listings not ascending at %d", i)
		}
	}
	if r.LowestListings[0].LocationLabel != "관악구 신림동" {
		t.Errorf("LocationLabel: got %q", r.LowestListings[0].LocationLabel)
	}
}

func TestAggregateWeeklyTrend(t *testing.T) {
	r := AggregateListings(gwanakFilter, sampleListings(), insightNow)
	pts := r.Trend.Points
	// One listing a week ago, two this week; the ten-week-old one is outside.
	if len(pts) != 2 {
		t.Fatalf("trend points: got %d, want 2", len(pts))
	}
	if pts[0].Price != 1_000_000 || pts[1].Price != 1_150_000 {
		t.Errorf("trend prices: got %d, %d", pts[0].Price, pts[1].Price)
	}
	if r.Trend.ChangeRatePct != 15 {
		t.Errorf("ChangeRatePct: got %.1f, want 15", r.Trend.ChangeRatePct)
	}
}

func TestAggregateEmptyInput(t *testing.T) {
	r := AggregateListings(gwanakFilter, nil, insightNow)
	if r.Summary.ListingCount != 0 {
		t.Errorf("expected 0 listings for empty input")
	}
	if r.LowestListings == nil || r.Regional.ByDistrict == nil {
		t.Errorf("empty result should carry empty, non-nil slices")
	}
}

type fakeSource struct {
	listings []*models.Listing
	err      error
	got      models.ListingFilter
}

func (f *fakeSource) FetchMatching(_ context.Context, filter models.ListingFilter) ([]*models.Listing, error) {
	f.got = filter
	return f.listings, f.err
}

var _ storage.ListingReader = (*fakeSource)(nil)

func TestStoredAnalyzer(t *testing.T) {
	src := &fakeSource{listings: sampleListings()}
	a := NewStoredAnalyzer(src, newTestLogger())
	a.now = func() time.Time { return insightNow }

	req := models.APIRequest{
		Product: "iPhone",
		Spec:    map[string]string{"model": "iPhone 16 Pro"},
		Region:  map[string]string{"sd": "서울특별시", "sgg": "관악구"},
	}
	r, err := a.FetchPriceAnalysis(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if src.got != gwanakFilter {
		t.Errorf("filter: got %+v", src.got)
	}
	if r.Summary.ListingCount != 4 {
		t.Errorf("ListingCount: got %d", r.Summary.ListingCount)
	}
}

func TestStoredAnalyzerErrors(t *testing.T) {
	a := NewStoredAnalyzer(&fakeSource{}, newTestLogger())
	if _, err := a.FetchPriceAnalysis(context.Background(), models.APIRequest{}); !errors.Is(err, ErrEmptyResult) {
		t.Errorf("no rows: got %v, want ErrEmptyResult", err)
	}

	a = NewStoredAnalyzer(&fakeSource{err: errors.New("connection refused")}, newTestLogger())
	if _, err := a.FetchPriceAnalysis(context.Background(), models.APIRequest{}); !errors.Is(err, ErrStoreUnavailable) {
		t.Errorf("store error: got %v, want ErrStoreUnavailable", err)
	}
}

func TestFormatWon(t *testing.T) {
	if got := FormatWon(1150000); got != "1,150,000원" {
		t.Errorf("FormatWon: got %q", got)
	}
}
