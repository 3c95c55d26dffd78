package smoketest

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	json "github.com/goccy/go-json"
)

// HTTPClient wraps http.Client with timeout
type HTTPClient struct {
	client  *http.Client
	timeout time.Duration
}

// newHTTPClient creates a new HTTP client with timeout
func newHTTPClient(timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client: &http.Client{
			Timeout: timeout,
		},
		timeout: timeout,
	}
}

// Get performs a GET request
func (c *HTTPClient) Get(ctx context.Context, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	return resp, nil
}

// marshalJSON marshals a struct to JSON
func marshalJSON(v interface{}) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal failed: %w", err)
	}
	return data, nil
}

// unmarshalJSON unmarshals JSON to a struct
func unmarshalJSON(data []byte, v interface{}) error {
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("unmarshal failed: %w", err)
	}
	return nil
}

// readResponseBody reads and closes the response body
func readResponseBody(resp *http.Response) ([]byte, error) {
	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read body: %w", err)
	}
	return body, nil
}

// fetchTitles retrieves the full catalog title list.
func fetchTitles(ctx context.Context, client *HTTPClient, baseURL string) ([]string, error) {
	resp, err := client.Get(ctx, baseURL+"/api/v1/titles")
	if err != nil {
		return nil, err
	}
	body, err := readResponseBody(resp)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != StatusOK {
		return nil, fmt.Errorf("titles request failed with status %d", resp.StatusCode)
	}

	var titles titlesResponse
	if err := unmarshalJSON(body, &titles); err != nil {
		return nil, err
	}
	return titles.Titles, nil
}

// fetchRecommendations performs one similarity lookup.
func fetchRecommendations(ctx context.Context, client *HTTPClient, baseURL, title string) ([]Recommendation, error) {
	lookup := baseURL + "/api/v1/recommendations?title=" + url.QueryEscape(title)
	resp, err := client.Get(ctx, lookup)
	if err != nil {
		return nil, err
	}
	body, err := readResponseBody(resp)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != StatusOK {
		return nil, fmt.Errorf("recommendations request for %q failed with status %d", title, resp.StatusCode)
	}

	var recs recommendationsResponse
	if err := unmarshalJSON(body, &recs); err != nil {
		return nil, err
	}
	return recs.Results, nil
}
