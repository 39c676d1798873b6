package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"howmuch-apple/models"
)

const liveSuccessBody = `{
  "status": "success",
  "data": {
    "summary_info": {"model_name": "iPhone 16 Pro", "average_price": 1250000,
      "lowest_listing_price": 1050000, "highest_listing_price": 1400000,
      "listing_count": 104, "data_date": "2026-10-31 11:00"},
    "regional_analysis": {"detail_by_district": [
      {"emd": "신림동", "average_price": 1180000, "listing_count": 31}]},
    "price_trend": {"trend_period": 7, "change_rate": -4.5,
      "chart_data": [{"period": "1월 1주", "price": 1320000}, {"period": "2월 3주", "price": 1260000}]},
    "lowest_price_listings": [{"listing_price": 1050000, "district_detail": "관악구 신림동",
      "source": "당근마켓", "source_url": "https://www.daangn.com/articles/1"}]
  }
}`

func TestLiveAnalyzerSuccess(t *testing.T) {
	var got models.APIRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/v1/analytics/summary" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type: got %q", ct)
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.Write([]byte(liveSuccessBody))
	}))
	defer srv.Close()

	a := NewLiveAnalyzer(srv.URL+"/api/v1/analytics/summary", srv.Client(), newTestLogger())
	r, err := a.FetchPriceAnalysis(context.Background(), gwanakRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Product != "iPhone" || got.Region["emd"] != "신림동" {
		t.Errorf("request body: %+v", got)
	}
	if r.Summary.ListingCount != 104 || r.Summary.AvgPrice != 1250000 {
		t.Errorf("summary: %+v", r.Summary)
	}
	if len(r.ByDistrict()) != 1 || r.ByDistrict()[0].District != "신림동" {
		t.Errorf("districts: %+v", r.ByDistrict())
	}
	if len(r.Trend.Points) != 2 || r.Trend.Points[0].Label != "1월 1주" {
		t.Errorf("trend: %+v", r.Trend)
	}
	if r.LowestListings[0].SourceURL != "https://www.daangn.com/articles/1" {
		t.Errorf("listing: %+v", r.LowestListings[0])
	}
}

func TestLiveAnalyzerErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{"server error", http.StatusInternalServerError, `{"detail":"boom"}`, ErrAnalysisFailed},
		{"not found", http.StatusNotFound, ``, ErrAnalysisFailed},
		{"failure status", http.StatusOK, `{"status":"error","data":null}`, ErrEmptyResult},
		{"missing data", http.StatusOK, `{"status":"success"}`, ErrEmptyResult},
		{"malformed", http.StatusOK, `<html>`, ErrEmptyResult},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			a := NewLiveAnalyzer(srv.URL, srv.Client(), newTestLogger())
			_, err := a.FetchPriceAnalysis(context.Background(), gwanakRequest())
			if !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
		})
	}
}

func TestLiveAnalyzerNetworkUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	a := NewLiveAnalyzer(url, nil, newTestLogger())
	_, err := a.FetchPriceAnalysis(context.Background(), gwanakRequest())
	if !errors.Is(err, ErrNetworkUnavailable) {
		t.Errorf("got %v, want ErrNetworkUnavailable", err)
	}
	if Outcome(err) != "network_unavailable" {
		t.Errorf("Outcome: got %q", Outcome(err))
	}
}

func TestOutcome(t *testing.T) {
	tests := map[error]string{
		nil:               "success",
		ErrEmptyResult:    "empty",
		ErrAnalysisFailed: "failure",
	}
	for err, want := range tests {
		if got := Outcome(err); got != want {
			t.Errorf("Outcome(%v) = %q; want %q", err, got, want)
		}
	}
}

type countingAnalyzer struct{ calls int }

func (c *countingAnalyzer) FetchPriceAnalysis(context.Context, models.APIRequest) (*models.PriceAnalysisResult, error) {
	c.calls++
	return &models.PriceAnalysisResult{}, nil
}

func TestInstrumentedDelegates(t *testing.T) {
	next := &countingAnalyzer{}
	a := Instrumented{Mode: "test", Next: next}
	if _, err := a.FetchPriceAnalysis(context.Background(), models.APIRequest{}); err != nil {
		t.Fatal(err)
	}
	if next.calls != 1 {
		t.Errorf("calls: got %d", next.calls)
	}
}
