// Package api is the HTTP client for the analysis backend: starting an
// analysis and fetching result snapshots. The SSE stream itself lives
// in the stream package.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"
)

var tickerPattern = regexp.MustCompile(`^[A-Z]{1,5}$`)

// ValidateTicker normalizes and validates a ticker symbol before any
// request is made. It returns the cleaned ticker or an error suitable
// for showing to the user.
func ValidateTicker(raw string) (string, error) {
	cleaned := strings.ToUpper(strings.TrimSpace(raw))
	if !tickerPattern.MatchString(cleaned) {
		return "", fmt.Errorf("invalid ticker %q: expected 1-5 letters", raw)
	}
	return cleaned, nil
}

// Client talks to the analysis backend.
type Client struct {
	baseURL string
	httpc   *http.Client
}

// NewClient creates a client for the given base URL, e.g.
// http://localhost:8000.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: 30 * time.Second},
	}
}

// WithTimeout overrides the default request timeout.
func (c *Client) WithTimeout(d time.Duration) *Client {
	if d > 0 {
		c.httpc.Timeout = d
	}
	return c
}

// StartAnalysis kicks off a pipeline run for the ticker and returns
// the analysis id that keys the event stream and the result snapshot.
func (c *Client) StartAnalysis(ctx context.Context, ticker string) (*AnalyzeResponse, error) {
	body, err := json.Marshal(map[string]string{"ticker": ticker})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/analyze", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("start analysis: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("start analysis: backend returned %s", resp.Status)
	}

	var out AnalyzeResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("start analysis: decode response: %w", err)
	}
	return &out, nil
}

// GetResults fetches the current result snapshot. Safe to call
// repeatedly; the backend returns whatever has completed so far.
func (c *Client) GetResults(ctx context.Context, analysisID string) (*AnalysisStatus, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/results/"+analysisID, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get results: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("get results: backend returned %s", resp.Status)
	}

	var out AnalysisStatus
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("get results: decode response: %w", err)
	}
	return &out, nil
}

// StreamURL returns the SSE endpoint for an analysis.
func (c *Client) StreamURL(analysisID string) string {
	return c.baseURL + "/api/stream/" + analysisID
}
