// HTTP transport for the generation backend
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"

	"github.com/desertthunder/chordgen/internal/shared"
	"golang.org/x/time/rate"
)

const (
	defaultBaseURL    = "http://127.0.0.1:5000"
	defaultRateLimit  = 5.0
	requestIDHeader   = "X-Request-ID"
	contentTypeHeader = "Content-Type"
	jsonContentType   = "application/json"
)

// APIService performs raw HTTP requests against the backend, throttled by a shared [rate.Limiter].
type APIService struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewAPIService creates a new API service for baseURL. A non-positive rps uses the default limit.
func NewAPIService(baseURL string, client *http.Client, rps float64) *APIService {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if client == nil {
		client = http.DefaultClient
	}
	if rps <= 0 {
		rps = defaultRateLimit
	}

	return &APIService{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: client,
		limiter:    rate.NewLimiter(rate.Limit(rps), 1),
	}
}

// BaseURL returns the backend base URL without a trailing slash.
func (a *APIService) BaseURL() string {
	return a.baseURL
}

// APIResponse represents a raw API response with status and body.
type APIResponse struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
	IsJSON     bool
	JSONData   any
}

// OK reports whether the status code is 2xx.
func (r *APIResponse) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Get performs a GET request to the specified path and returns the raw response.
func (a *APIService) Get(ctx context.Context, path string) (*APIResponse, error) {
	return a.do(ctx, http.MethodGet, a.baseURL+path, nil)
}

// Post performs a POST request with the given JSON data and returns the raw response.
func (a *APIService) Post(ctx context.Context, path string, data []byte) (*APIResponse, error) {
	return a.do(ctx, http.MethodPost, a.baseURL+path, data)
}

// Stream performs a GET request to an absolute URL and returns the open body for 2xx responses.
func (a *APIService) Stream(ctx context.Context, fullURL string) (io.ReadCloser, error) {
	resp, err := a.send(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		resp.Body.Close()
		return nil, fmt.Errorf("%w: GET %s returned status %d", shared.ErrAPIRequest, fullURL, resp.StatusCode)
	}

	return resp.Body, nil
}

func (a *APIService) do(ctx context.Context, method, fullURL string, data []byte) (*APIResponse, error) {
	resp, err := a.send(ctx, method, fullURL, data)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	apiResp := &APIResponse{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       body,
	}

	var jsonData any
	if err := json.Unmarshal(body, &jsonData); err == nil {
		apiResp.IsJSON = true
		apiResp.JSONData = jsonData
	}

	return apiResp, nil
}

func (a *APIService) send(ctx context.Context, method, fullURL string, data []byte) (*http.Response, error) {
	if err := a.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	var body io.Reader
	if data != nil {
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set(requestIDHeader, shared.GenerateID())
	if data != nil {
		req.Header.Set(contentTypeHeader, jsonContentType)
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		var netErr net.Error
		if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
			return nil, fmt.Errorf("%w: %s %s: %v", shared.ErrTimeout, method, fullURL, err)
		}
		return nil, fmt.Errorf("request failed: %w", err)
	}

	return resp, nil
}
