package services

import (
	"context"
	"errors"
	"time"

	"howmuch-apple/metrics"
	"howmuch-apple/models"
)

var (
	// ErrNetworkUnavailable means the backend could not be reached at all.
	ErrNetworkUnavailable = errors.New("price backend unreachable")
	// ErrAnalysisFailed means the backend answered with a non-2xx status.
	ErrAnalysisFailed = errors.New("price analysis failed")
	// ErrEmptyResult means the response was malformed or carried no data.
	ErrEmptyResult = errors.New("price analysis returned no data")
	// ErrStoreUnavailable means the listing database could not answer.
	ErrStoreUnavailable = errors.New("listing store unavailable")
)

// PriceAnalyzer produces a PriceAnalysisResult for one backend request. The
// live client, the mock generator and the stored-listing aggregator all
// satisfy it, so views never know which one is wired.
type PriceAnalyzer interface {
	FetchPriceAnalysis(ctx context.Context, req models.APIRequest) (*models.PriceAnalysisResult, error)
}

// Outcome classifies a fetch error for metrics and user-facing copy.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, ErrNetworkUnavailable):
		return "network_unavailable"
	case errors.Is(err, ErrEmptyResult):
		return "empty"
	default:
		return "failure"
	}
}

// Instrumented records fetch counts and latency for the wrapped analyzer.
type Instrumented struct {
	Mode string
	Next PriceAnalyzer
}

func (i Instrumented) FetchPriceAnalysis(ctx context.Context, req models.APIRequest) (*models.PriceAnalysisResult, error) {
	start := time.Now()
	res, err := i.Next.FetchPriceAnalysis(ctx, req)
	metrics.RecordAnalysis(i.Mode, Outcome(err), time.Since(start).Seconds())
	return res, err
}
