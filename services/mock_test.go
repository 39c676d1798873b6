package services

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"howmuch-apple/models"
)

func gwanakRequest() models.APIRequest {
	return models.APIRequest{
		Product: "iPhone",
		Spec:    map[string]string{"model": "iPhone 16 Pro"},
		Region:  map[string]string{"sd": "서울특별시", "sgg": "관악구", "emd": "신림동"},
	}
}

func TestMockRowsMatchSelectedCity(t *testing.T) {
	m := NewMockAnalyzer(testDirectory(), 42, newTestLogger())
	r, err := m.FetchPriceAnalysis(context.Background(), gwanakRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := names(r.ByDistrict())
	want := testDirectory().Districts("서울특별시", "관악구")
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Errorf("rows: got %v, want %v", got, want)
	}
}

func TestMockListingCountIsSumOfRows(t *testing.T) {
	m := NewMockAnalyzer(testDirectory(), 7, newTestLogger())
	r, _ := m.FetchPriceAnalysis(context.Background(), gwanakRequest())

	sum := 0
	for _, row := range r.ByDistrict() {
		sum += row.ListingCount
	}
	if r.Summary.ListingCount != sum {
		t.Errorf("ListingCount %d != sum of rows %d", r.Summary.ListingCount, sum)
	}
}

func TestMockShape(t *testing.T) {
	m := NewMockAnalyzer(testDirectory(), 1, newTestLogger())
	r, _ := m.FetchPriceAnalysis(context.Background(), gwanakRequest())

	if len(r.Trend.Points) != 7 || r.Trend.PeriodCount != 7 {
		t.Errorf("trend: %d points, period %d", len(r.Trend.Points), r.Trend.PeriodCount)
	}
	if r.Trend.ChangeRatePct != ChangeRatePct(r.Trend.Points) {
		t.Errorf("change rate %.1f disagrees with points", r.Trend.ChangeRatePct)
	}
	if len(r.LowestListings) != 12 {
		t.Fatalf("listings: got %d", len(r.LowestListings))
	}
	for i := 1; i < len(r.LowestListings); i++ {
		if r.LowestListings[i-1].Price > r.LowestListings[i].Price {
			t.Fatalf("listings not ascending at %d", i)
		}
	}
	if !strings.HasPrefix(r.LowestListings[0].LocationLabel, "관악구 ") {
		t.Errorf("label should carry the city: %q", r.LowestListings[0].LocationLabel)
	}
	if r.Summary.MinPrice != r.LowestListings[0].Price {
		t.Errorf("MinPrice %d should be the cheapest listing %d", r.Summary.MinPrice, r.LowestListings[0].Price)
	}
	if r.Summary.Model != "iPhone 16 Pro" {
		t.Errorf("Model: got %q", r.Summary.Model)
	}
}

func TestMockRowLevels(t *testing.T) {
	m := NewMockAnalyzer(testDirectory(), 3, newTestLogger())

	province, _ := m.FetchPriceAnalysis(context.Background(), models.APIRequest{
		Product: "iPad", Region: map[string]string{"sd": "서울특별시"},
	})
	if got := names(province.ByDistrict()); fmt.Sprint(got) != "[관악구 강남구]" {
		t.Errorf("province rows: got %v", got)
	}

	all, _ := m.FetchPriceAnalysis(context.Background(), models.APIRequest{Product: "iPad"})
	if got := names(all.ByDistrict()); fmt.Sprint(got) != "[서울특별시 부산광역시]" {
		t.Errorf("nationwide rows: got %v", got)
	}
}

func TestMockWithoutDirectoryFallsBack(t *testing.T) {
	m := NewMockAnalyzer(nil, 3, newTestLogger())
	r, err := m.FetchPriceAnalysis(context.Background(), gwanakRequest())
	if err != nil {
		t.Fatal(err)
	}
	if len(r.ByDistrict()) == 0 {
		t.Error("breakdown must never be empty")
	}
}

func TestMockHonoursCancelledContext(t *testing.T) {
	m := NewMockAnalyzer(testDirectory(), 3, newTestLogger())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := m.FetchPriceAnalysis(ctx, gwanakRequest()); err == nil {
		t.Error("expected error for cancelled context")
	}
}

func TestWeekLabel(t *testing.T) {
	tests := map[string]string{
		"2026-01-01": "1월 1주",
		"2026-01-14": "1월 2주",
		"2026-02-15": "2월 3주",
		"2026-03-29": "3월 5주",
	}
	for day, want := range tests {
		ts, _ := timeParseDay(day)
		if got := WeekLabel(ts); got != want {
			t.Errorf("WeekLabel(%s) = %q; want %q", day, got, want)
		}
	}
}
