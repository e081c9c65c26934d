// Package crds talks to a Calibration Reference Data System service to
// resolve "crds" reference file sentinels into concrete filenames.
package crds

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/vandalt/mirage/pkg/logger"
)

// DefaultServerURL is the operational CRDS server for JWST.
const DefaultServerURL = "https://jwst-crds.stsci.edu"

// Client is a minimal best-references client.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Config holds the configuration for a CRDS client.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// NewClient creates a CRDS client for the given server.
func NewClient(cfg Config) (*Client, error) {
	base := cfg.BaseURL
	if base == "" {
		base = DefaultServerURL
	}

	u, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("invalid CRDS server URL: %w", err)
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		baseURL: u.String(),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

// DatasetParams identifies an exposure for best-reference matching.
type DatasetParams struct {
	Instrument  string `json:"instrument"`
	Detector    string `json:"detector"`
	Filter      string `json:"filter"`
	Pupil       string `json:"pupil"`
	ReadPattern string `json:"readpatt"`
	Subarray    string `json:"subarray"`
	DateObs     string `json:"date_obs"`
	TimeObs     string `json:"time_obs"`
}

// bestRefsRequest is the wire format of a best-references query.
type bestRefsRequest struct {
	Parameters DatasetParams `json:"parameters"`
	RefTypes   []string      `json:"reftypes"`
}

// bestRefsResponse is the wire format of a best-references result.
type bestRefsResponse struct {
	References map[string]string `json:"references"`
	Error      string            `json:"error,omitempty"`
}

// BestRefs returns the best reference file for each requested reference
// type, keyed by type (e.g. "superbias", "linearity").
func (c *Client) BestRefs(ctx context.Context, p DatasetParams, refTypes []string) (map[string]string, error) {
	body := bestRefsRequest{Parameters: p, RefTypes: refTypes}

	resp, err := c.doRequest(ctx, http.MethodPost, "/bestrefs", body)
	if err != nil {
		return nil, err
	}

	var result bestRefsResponse
	if err := decodeResponse(resp, &result); err != nil {
		return nil, fmt.Errorf("failed to decode bestrefs response: %w", err)
	}

	if result.Error != "" {
		return nil, fmt.Errorf("CRDS bestrefs failed: %s", result.Error)
	}

	return result.References, nil
}

// doRequest performs an HTTP request against the CRDS server.
func (c *Client) doRequest(ctx context.Context, method, path string, body interface{}) (*http.Response, error) {
	fullURL := c.baseURL + path

	var bodyReader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	if resp.StatusCode >= 400 {
		defer func(body io.ReadCloser) {
			if err := body.Close(); err != nil {
				logger.Errorf("failed to close response body: %v", err)
			}
		}(resp.Body)
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(bodyBytes))
	}

	return resp, nil
}

// decodeResponse decodes a JSON response into the provided interface
func decodeResponse(resp *http.Response, v interface{}) error {
	defer func(body io.ReadCloser) {
		if err := body.Close(); err != nil {
			logger.Errorf("failed to close response body: %v", err)
		}
	}(resp.Body)

	if v == nil {
		return nil
	}

	return json.NewDecoder(resp.Body).Decode(v)
}
