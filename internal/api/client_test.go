package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestValidateTicker(t *testing.T) {
	cases := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"nvda", "NVDA", false},
		{"  msft ", "MSFT", false},
		{"GOOGL", "GOOGL", false},
		{"", "", true},
		{"TOOLONG", "", true},
		{"BRK.B", "", true},
		{"12AB", "", true},
	}
	for _, tc := range cases {
		got, err := ValidateTicker(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ValidateTicker(%q) = %q, want error", tc.in, got)
			}
			continue
		}
		if err != nil || got != tc.want {
			t.Errorf("ValidateTicker(%q) = %q, %v, want %q", tc.in, got, err, tc.want)
		}
	}
}

func TestStartAnalysis(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/analyze" {
			t.Errorf("got %s %s", r.Method, r.URL.Path)
		}
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decoding request: %v", err)
		}
		if body["ticker"] != "NVDA" {
			t.Errorf("ticker = %q, want NVDA", body["ticker"])
		}
		json.NewEncoder(w).Encode(AnalyzeResponse{
			AnalysisID: "abc123",
			Ticker:     "NVDA",
			Status:     "started",
			SSEURL:     "/api/stream/abc123",
		})
	}))
	defer srv.Close()

	resp, err := NewClient(srv.URL).StartAnalysis(context.Background(), "NVDA")
	if err != nil {
		t.Fatalf("StartAnalysis: %v", err)
	}
	if resp.AnalysisID != "abc123" {
		t.Errorf("AnalysisID = %q, want abc123", resp.AnalysisID)
	}
}

func TestStartAnalysisBackendError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	if _, err := NewClient(srv.URL).StartAnalysis(context.Background(), "NVDA"); err == nil {
		t.Fatal("want error on 503")
	}
}

func TestGetResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/results/abc123" {
			t.Errorf("path = %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(AnalysisStatus{
			AnalysisID: "abc123",
			Ticker:     "NVDA",
			Status:     "running",
			Result:     &AnalysisResult{F1: "undervalued"},
		})
	}))
	defer srv.Close()

	status, err := NewClient(srv.URL).GetResults(context.Background(), "abc123")
	if err != nil {
		t.Fatalf("GetResults: %v", err)
	}
	if status.Result == nil || status.Result.F1 != "undervalued" {
		t.Errorf("Result = %+v", status.Result)
	}
}

func TestStreamURL(t *testing.T) {
	c := NewClient("http://localhost:8000/")
	if got := c.StreamURL("abc"); got != "http://localhost:8000/api/stream/abc" {
		t.Errorf("StreamURL = %q", got)
	}
}
