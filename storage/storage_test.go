package storage

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"howmuch-apple/models"
)

func TestReadRawListings(t *testing.T) {
	in := "url,model,price,city,district,source,posted_at,product,province\n" +
		"https://www.daangn.com/articles/1,iPhone 16 Pro,\"1,150,000원\",관악구,신림동,당근마켓,2026-02-14,iphone,서울특별시\n" +
		"https://m.bunjang.co.kr/products/2,iPhone 16 Pro,115만원,관악구,봉천동,번개장터,,iphone,서울특별시\n"

	got, err := ReadRawListings(strings.NewReader(in))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(got))
	}
	if got[0].RawPrice != "1,150,000원" {
		t.Errorf("RawPrice: got %q", got[0].RawPrice)
	}
	if got[1].District != "봉천동" || got[1].SourceURL != "https://m.bunjang.co.kr/products/2" {
		t.Errorf("row 2 mismatched: %+v", got[1])
	}
}

func TestReadRawListingsMissingColumn(t *testing.T) {
	_, err := ReadRawListings(strings.NewReader("model,url\niPhone,https://a/1\n"))
	if err == nil || !strings.Contains(err.Error(), "price") {
		t.Errorf("expected missing price column error, got %v", err)
	}
}

func TestReadRawListingsEmpty(t *testing.T) {
	if _, err := ReadRawListings(strings.NewReader("")); err == nil {
		t.Error("expected error for empty input")
	}
}

func TestWriteAnalysisCSV(t *testing.T) {
	r := &models.PriceAnalysisResult{
		Summary: models.PriceSummary{Model: "iPhone 16 Pro", AvgPrice: 1150000, MinPrice: 980000, MaxPrice: 1300000, ListingCount: 3, AsOfDate: "2026-03-20 12:00"},
		Regional: models.RegionalAnalysis{ByDistrict: []models.DistrictPrice{
			{District: "신림동", AvgPrice: 1100000, ListingCount: 2},
			{District: "봉천동", AvgPrice: 1250000, ListingCount: 1},
		}},
		LowestListings: []models.LowestListing{
			{Price: 980000, LocationLabel: "관악구 신림동", Source: "당근마켓", SourceURL: "https://a/1"},
		},
	}

	var buf bytes.Buffer
	if err := WriteAnalysisCSV(&buf, r); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"iPhone 16 Pro,1150000,980000,1300000,3,2026-03-20 12:00",
		"신림동,1100000,2",
		"980000,관악구 신림동,당근마켓,https://a/1",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestBuildInsertBatch(t *testing.T) {
	batch := []*models.Listing{
		{Product: "iPhone", Model: "iPhone 16 Pro", Price: 1, SourceURL: "https://a/1", PostedAt: time.Now()},
		{Product: "iPhone", Model: "iPhone 16 Pro", Price: 2, SourceURL: "https://a/2", PostedAt: time.Now()},
	}
	query, args := buildInsertBatch(batch)
	if len(args) != 2*insertColumns {
		t.Errorf("args: got %d, want %d", len(args), 2*insertColumns)
	}
	if !strings.Contains(query, "$18)") {
		t.Errorf("expected 18 placeholders, query: %s", query)
	}
	if !strings.Contains(query, "ON CONFLICT (source_url) DO NOTHING") {
		t.Error("insert must skip duplicate URLs")
	}
}

func TestBuildMatchQuery(t *testing.T) {
	query, args := buildMatchQuery(models.ListingFilter{Product: "iPhone", City: "관악구"})
	if !strings.Contains(query, "WHERE product = $1 AND city = $2") {
		t.Errorf("unexpected WHERE clause: %s", query)
	}
	if len(args) != 2 || args[1] != "관악구" {
		t.Errorf("args: got %v", args)
	}

	query, args = buildMatchQuery(models.ListingFilter{})
	if strings.Contains(query, "WHERE") || len(args) != 0 {
		t.Errorf("empty filter should match everything: %s %v", query, args)
	}
}
