package crds

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestBestRefs(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("Expected POST, got %s", r.Method)
		}
		if r.URL.Path != "/bestrefs" {
			t.Errorf("Expected path /bestrefs, got %s", r.URL.Path)
		}

		var req bestRefsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("Failed to decode request: %v", err)
		}

		if req.Parameters.Instrument != "NIRISS" {
			t.Errorf("Expected instrument 'NIRISS', got '%s'", req.Parameters.Instrument)
		}
		if req.Parameters.Subarray != "NIS_SUBSTRIP256" {
			t.Errorf("Expected subarray 'NIS_SUBSTRIP256', got '%s'", req.Parameters.Subarray)
		}
		if len(req.RefTypes) != 2 {
			t.Errorf("Expected 2 reference types, got %d", len(req.RefTypes))
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(bestRefsResponse{
			References: map[string]string{
				"superbias": "jwst_niriss_superbias_0181.fits",
				"linearity": "jwst_niriss_linearity_0017.fits",
			},
		}); err != nil {
			t.Fatalf("Failed to encode response: %v", err)
		}
	}))
	defer server.Close()

	client, err := NewClient(Config{BaseURL: server.URL})
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}

	params := DatasetParams{
		Instrument:  "NIRISS",
		Detector:    "NIS",
		Filter:      "CLEAR",
		Pupil:       "GR700XD",
		ReadPattern: "NISRAPID",
		Subarray:    "NIS_SUBSTRIP256",
		DateObs:     "2022-07-04",
		TimeObs:     "01:23:45.678",
	}

	refs, err := client.BestRefs(context.Background(), params, []string{"superbias", "linearity"})
	if err != nil {
		t.Fatalf("BestRefs failed: %v", err)
	}

	if refs["superbias"] != "jwst_niriss_superbias_0181.fits" {
		t.Errorf("Unexpected superbias reference: %s", refs["superbias"])
	}

	if refs["linearity"] != "jwst_niriss_linearity_0017.fits" {
		t.Errorf("Unexpected linearity reference: %s", refs["linearity"])
	}
}

func TestBestRefsServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "context unavailable", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client, err := NewClient(Config{BaseURL: server.URL})
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}

	_, err = client.BestRefs(context.Background(), DatasetParams{}, []string{"superbias"})
	if err == nil {
		t.Fatalf("Expected an error for a 503 response")
	}
	if !strings.Contains(err.Error(), "HTTP 503") {
		t.Errorf("Expected the error to carry the HTTP status, got: %v", err)
	}
}

func TestBestRefsMatchFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(bestRefsResponse{
			Error: "no match for instrument UNKNOWN",
		}); err != nil {
			t.Fatalf("Failed to encode response: %v", err)
		}
	}))
	defer server.Close()

	client, err := NewClient(Config{BaseURL: server.URL})
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}

	_, err = client.BestRefs(context.Background(), DatasetParams{Instrument: "UNKNOWN"}, []string{"superbias"})
	if err == nil {
		t.Fatalf("Expected an error when the server reports a match failure")
	}
	if !strings.Contains(err.Error(), "no match") {
		t.Errorf("Expected the server message to be surfaced, got: %v", err)
	}
}

func TestNewClientDefaults(t *testing.T) {
	client, err := NewClient(Config{})
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}

	if client.baseURL != DefaultServerURL {
		t.Errorf("Expected default server URL '%s', got '%s'", DefaultServerURL, client.baseURL)
	}
}
