package cmd

import (
	"context"
	"testing"

	"howmuch-apple/config"
	"howmuch-apple/models"
	"howmuch-apple/services"
	"howmuch-apple/utils"
)

func TestBuildAnalyzerRejectsUnknownMode(t *testing.T) {
	cfg := &config.Config{AnalyzerMode: "psychic"}
	_, _, err := buildAnalyzer(context.Background(), cfg, services.NewRegionDirectory(nil), utils.Discard())
	if err == nil {
		t.Fatal("expected an error for an unknown mode")
	}
}

func TestBuildAnalyzerMock(t *testing.T) {
	cfg := &config.Config{AnalyzerMode: config.ModeMock, MockSeed: 7}
	analyzer, closeFn, err := buildAnalyzer(context.Background(), cfg, services.NewRegionDirectory(nil), utils.Discard())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer closeFn()

	res, err := analyzer.FetchPriceAnalysis(context.Background(), models.APIRequest{Product: "iPhone"})
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if res.Summary.ListingCount == 0 {
		t.Error("expected mock listings")
	}
}

func TestLoadStaticDataKeepsOutcomesSeparate(t *testing.T) {
	cfg := &config.Config{
		RegionDataPath:    "../static/locations_final.json",
		DeviceOptionsPath: "../static/missing.json",
	}
	directory, catalog := loadStaticData(context.Background(), cfg, utils.Discard())

	if !directory.Ready() {
		t.Fatalf("regions should load: %v", directory.Err())
	}
	if len(directory.Cities("서울특별시")) == 0 {
		t.Error("expected Seoul cities")
	}
	if catalog.Ready() {
		t.Error("device options should have failed")
	}
}
