package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// IdentityFunc supplies the acting user's id for the identity header.
// It returns false when no user is selected.
type IdentityFunc func() (int64, bool)

// TokenFunc supplies an optional API token for the Authorization header.
// It returns the empty string when no token is configured.
type TokenFunc func() string

// RequestError is the uniform failure for any non-2xx response. The
// gateway performs no retries and no interpretation of error bodies;
// callers decide how to recover.
type RequestError struct {
	Status int
	Method string
	Path   string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("request failed (%d) on %s %s", e.Status, e.Method, e.Path)
}

// Client is a thin HTTP client for the scheduler backend REST API. It
// handles JSON marshaling and attaches the acting user's identity to
// every call.
type Client struct {
	baseURL    string
	httpClient *http.Client
	identity   IdentityFunc
	token      TokenFunc
}

// NewClient creates a backend client. identity may be nil when no
// acting user is ever set; token may be nil when the backend is open.
func NewClient(baseURL string, timeout time.Duration, identity IdentityFunc, token TokenFunc) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		identity:   identity,
		token:      token,
	}
}

// get performs an HTTP GET request and unmarshals the JSON response.
func (c *Client) get(ctx context.Context, path string, result interface{}) error {
	return c.do(ctx, http.MethodGet, path, nil, result)
}

// post performs an HTTP POST request with an optional JSON body.
func (c *Client) post(ctx context.Context, path string, body, result interface{}) error {
	return c.do(ctx, http.MethodPost, path, body, result)
}

// put performs an HTTP PUT request with a JSON body.
func (c *Client) put(ctx context.Context, path string, body, result interface{}) error {
	return c.do(ctx, http.MethodPut, path, body, result)
}

// delete performs an HTTP DELETE request.
func (c *Client) delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

// do builds the request, attaches identity, and handles JSON
// (de)serialization. A 204 or zero-length body yields a nil result.
func (c *Client) do(ctx context.Context, method, path string, body, result interface{}) error {
	url := c.baseURL + path

	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.identity != nil {
		if id, ok := c.identity(); ok {
			req.Header.Set("X-Current-User-ID", strconv.FormatInt(id, 10))
		}
	}
	if c.token != nil {
		if tok := c.token(); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("executing request %s %s: %w", method, path, err)
	}

	respBody, readErr := io.ReadAll(resp.Body)
	resp.Body.Close()
	if readErr != nil {
		return fmt.Errorf("reading response body: %w", readErr)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &RequestError{Status: resp.StatusCode, Method: method, Path: path}
	}

	if result == nil || resp.StatusCode == http.StatusNoContent || len(respBody) == 0 {
		return nil
	}

	if err := json.Unmarshal(respBody, result); err != nil {
		return fmt.Errorf("unmarshaling response from %s %s: %w", method, path, err)
	}

	return nil
}
