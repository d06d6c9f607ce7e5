package api

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/servicem8/sm8-cli/internal/debug"
	"github.com/servicem8/sm8-cli/internal/validation"
)

const (
	// DefaultBaseURL is the production ServiceM8 API host.
	DefaultBaseURL = "https://api.servicem8.com"

	DefaultTimeout = 30 * time.Second
)

// Client is the ServiceM8 API client.
//
// The client is a thin transport: it authenticates, serializes and maps
// errors, nothing more. It never retries; callers that want retry or
// backoff wrap their calls around it.
type Client struct {
	BaseURL   string
	APIKey    string
	HTTP      *http.Client
	UserAgent string

	skipURLValidation bool // internal flag for testing only
	validatedBaseURL  bool
	validateMu        sync.Mutex
}

// Compile-time interface implementation checks
var (
	_ Requester    = (*Client)(nil)
	_ PathResolver = (*Client)(nil)
	_ HTTPExecutor = (*Client)(nil)
)

var validateAPIURL = validation.ValidateAPIURL

// New creates a new ServiceM8 API client. An empty baseURL selects the
// production host.
func New(baseURL, apiKey string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	baseTransport, ok := http.DefaultTransport.(*http.Transport)
	if !ok {
		baseTransport = &http.Transport{}
	}
	transport := baseTransport.Clone()
	if transport.TLSClientConfig == nil {
		transport.TLSClientConfig = &tls.Config{}
	} else {
		transport.TLSClientConfig = transport.TLSClientConfig.Clone()
	}
	transport.TLSClientConfig.MinVersion = tls.VersionTLS12
	transport.TLSClientConfig.InsecureSkipVerify = false

	// Allow localhost URLs when SM8_TESTING=1 is set (for integration tests)
	skipValidation := os.Getenv("SM8_TESTING") == "1"

	return &Client{
		BaseURL:           strings.TrimRight(baseURL, "/"),
		APIKey:            apiKey,
		skipURLValidation: skipValidation,
		HTTP: &http.Client{
			Timeout:   DefaultTimeout,
			Transport: transport,
		},
	}
}

// newTestClient creates a client with URL validation disabled for testing
func newTestClient(baseURL, apiKey string) *Client {
	c := New(baseURL, apiKey)
	c.skipURLValidation = true
	return c
}

func (c *Client) ensureBaseURLValidated() error {
	if c.skipURLValidation {
		return nil
	}

	c.validateMu.Lock()
	defer c.validateMu.Unlock()

	if c.validatedBaseURL {
		return nil
	}

	if err := validateAPIURL(c.BaseURL); err != nil {
		return fmt.Errorf("URL validation failed: %w", err)
	}

	c.validatedBaseURL = true
	return nil
}

// dataPath returns the full URL for a data-plane endpoint under /api_1.0.
func (c *Client) dataPath(path string) string {
	return fmt.Sprintf("%s/api_1.0/%s", c.BaseURL, strings.TrimPrefix(path, "/"))
}

// servicePath returns the full URL for a root-level endpoint.
func (c *Client) servicePath(path string) string {
	return fmt.Sprintf("%s/%s", c.BaseURL, strings.TrimPrefix(path, "/"))
}

// Response holds a decoded transport result: status, headers and raw body.
// ServiceM8 carries pagination cursors and created-record UUIDs in
// response headers, so callers need more than the body.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
}

// Decode unmarshals the response body into v.
func (r *Response) Decode(v any) error {
	if len(r.Body) == 0 {
		return nil
	}
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("unexpected API response format (JSON decode failed): %w", err)
	}
	return nil
}

// emptyBody reports whether body should be omitted from the request.
// nil and empty maps send no body at all.
func emptyBody(body any) bool {
	switch b := body.(type) {
	case nil:
		return true
	case map[string]any:
		return len(b) == 0
	case map[string]string:
		return len(b) == 0
	}
	return false
}

// request performs an HTTP request against a full URL. Empty query maps,
// empty bodies and empty header maps are dropped entirely; individual
// query or header values that are empty strings are skipped.
func (c *Client) request(ctx context.Context, method, rawURL string, query map[string]string, body any, headers map[string]string) (*Response, error) {
	if err := c.ensureBaseURLValidated(); err != nil {
		return nil, err
	}

	var jsonBody []byte
	contentType := ""
	if !emptyBody(body) {
		var err error
		jsonBody, err = json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		contentType = "application/json"
	}

	if qs := encodeQuery(query); qs != "" {
		rawURL += "?" + qs
	}

	return c.send(ctx, method, rawURL, jsonBody, contentType, headers)
}

// encodeQuery builds a query string, skipping empty values. Returns ""
// when nothing remains so callers can omit the "?" separator.
func encodeQuery(query map[string]string) string {
	if len(query) == 0 {
		return ""
	}
	values := url.Values{}
	for k, v := range query {
		if v == "" {
			continue
		}
		values.Set(k, v)
	}
	return values.Encode()
}

// send executes a single HTTP round trip. contentType can be empty to
// omit the Content-Type header.
func (c *Client) send(ctx context.Context, method, rawURL string, body []byte, contentType string, headers map[string]string) (*Response, error) {
	var bodyReader io.Reader
	if body != nil {
		bodyReader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if c.APIKey != "" {
		req.Header.Set("X-API-Key", c.APIKey)
	}
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	for k, v := range headers {
		if v == "" {
			continue
		}
		req.Header.Set(k, v)
	}

	start := time.Now()
	resp, err := c.HTTP.Do(req)
	if err != nil {
		debug.LogRequestError(ctx, method, rawURL, err)
		return nil, fmt.Errorf("request failed: %w", err)
	}

	respBody, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	debug.LogRequest(ctx, method, rawURL, resp.StatusCode, time.Since(start))

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, &AuthError{Reason: sanitizeErrorBody(string(respBody))}
	}
	if resp.StatusCode >= 400 {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Body:       sanitizeErrorBody(string(respBody)),
			RequestID:  requestIDFromHeader(resp.Header),
		}
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       respBody,
	}, nil
}

// postFile performs a multipart POST uploading a single file under the
// "file" form field. Used by the attachment upload step.
func (c *Client) postFile(ctx context.Context, rawURL, filename string, content []byte) (*Response, error) {
	if err := c.ensureBaseURLValidated(); err != nil {
		return nil, err
	}

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("failed to create form file %s: %w", filename, err)
	}
	if _, err := part.Write(content); err != nil {
		return nil, fmt.Errorf("failed to write file content %s: %w", filename, err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to close multipart writer: %w", err)
	}

	return c.send(ctx, http.MethodPost, rawURL, body.Bytes(), writer.FormDataContentType(), nil)
}

// Ping checks the credential by fetching a single tax rate record, the
// cheapest authenticated call the API offers.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.request(ctx, http.MethodGet, c.dataPath("taxrate.json"), map[string]string{"cursor": "-1"}, nil, nil)
	return err
}

func requestIDFromHeader(header http.Header) string {
	if header == nil {
		return ""
	}
	if id := header.Get("X-Request-Id"); id != "" {
		return id
	}
	return ""
}

// sanitizeErrorBody extracts a safe error message from an API response
// without exposing potentially sensitive data like keys or account info.
func sanitizeErrorBody(body string) string {
	var errResp struct {
		Error   string `json:"error"`
		Message string `json:"message"`
		Errors  []any  `json:"errors"`
	}
	if err := json.Unmarshal([]byte(body), &errResp); err != nil {
		return "API request failed (response body redacted for security)"
	}

	if errResp.Error != "" {
		return errResp.Error
	}
	if errResp.Message != "" {
		return errResp.Message
	}

	var lines []string
	for _, e := range errResp.Errors {
		if s, ok := e.(string); ok {
			lines = append(lines, "  "+s)
		}
	}
	if len(lines) > 0 {
		return "API errors:\n" + strings.Join(lines, "\n")
	}

	return "API request failed (response body redacted for security)"
}

// APIError represents an error response from the API
type APIError struct {
	StatusCode int
	Body       string
	RequestID  string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error (status %d): %s", e.StatusCode, e.Body)
}
