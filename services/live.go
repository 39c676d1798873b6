package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"howmuch-apple/models"
	"howmuch-apple/utils"
)

// LiveAnalyzer posts requests to the configured price backend endpoint.
type LiveAnalyzer struct {
	endpoint string
	client   *http.Client
	logger   *utils.Logger
}

// NewLiveAnalyzer creates a client for endpoint. A nil client means a plain
// http.Client with no timeout; callers wait until the transport gives up.
func NewLiveAnalyzer(endpoint string, client *http.Client, logger *utils.Logger) *LiveAnalyzer {
	if client == nil {
		client = &http.Client{}
	}
	return &LiveAnalyzer{endpoint: endpoint, client: client, logger: logger}
}

func (a *LiveAnalyzer) FetchPriceAnalysis(ctx context.Context, req models.APIRequest) (*models.PriceAnalysisResult, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("live: encode request: %w", err)
	}
	a.logger.Debug("[live] POST %s %s", a.endpoint, payload)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, a.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("live: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(httpReq)
	if err != nil {
		a.logger.Warn("[live] Backend unreachable at %s: %v", a.endpoint, err)
		return nil, fmt.Errorf("%w: %v", ErrNetworkUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w: status %d: %s", ErrAnalysisFailed, resp.StatusCode, bytes.TrimSpace(snippet))
	}

	var envelope models.APIResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrEmptyResult, err)
	}
	if envelope.Status != models.APIStatusSuccess || envelope.Data == nil {
		return nil, fmt.Errorf("%w: status %q", ErrEmptyResult, envelope.Status)
	}
	return envelope.Data, nil
}
