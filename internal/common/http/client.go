// internal/common/http/client.go
package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"racket-advisor/internal/common/errors"
	"racket-advisor/internal/common/logger"
	"racket-advisor/internal/common/metrics"
)

// Options configures a backend client. Zero Timeout means no timeout and
// zero MaxRetries means a single attempt.
type Options struct {
	BaseURL    string
	Timeout    time.Duration
	MaxRetries int
	Backoff    time.Duration
}

// Client sends requests to the advisor backend and maps failures onto the
// shared error taxonomy.
type Client struct {
	baseURL    string
	httpClient *http.Client
	maxRetries int
	backoff    time.Duration
	logger     logger.Logger
}

// RequestBuilder creates a fresh request for every attempt.
type RequestBuilder func(ctx context.Context) (*http.Request, error)

// FilePart is a single file attached to a multipart body.
type FilePart struct {
	Field    string
	FileName string
	Data     []byte
}

func NewClient(opts Options, log logger.Logger) *Client {
	backoff := opts.Backoff
	if backoff <= 0 {
		backoff = 200 * time.Millisecond
	}
	return &Client{
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout: opts.Timeout,
		},
		maxRetries: opts.MaxRetries,
		backoff:    backoff,
		logger:     log.Named("http"),
	}
}

func (c *Client) Do(req *http.Request) (*http.Response, error) {
	return c.httpClient.Do(req)
}

func (c *Client) DoWithContext(ctx context.Context, req *http.Request) (*http.Response, error) {
	req = req.WithContext(ctx)
	return c.httpClient.Do(req)
}

// URL joins path onto the configured base URL.
func (c *Client) URL(path string) string {
	if path == "" {
		return c.baseURL
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.baseURL + path
}

// Send runs build/do/read with the configured retry policy and returns the
// body of the first 2xx response.
func (c *Client) Send(ctx context.Context, endpoint string, build RequestBuilder) ([]byte, error) {
	attempts := c.maxRetries + 1
	var lastErr error

	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			delay := c.backoff * time.Duration(1<<uint(attempt-1))
			c.logger.Warn("Retrying backend request", map[string]interface{}{
				"endpoint": endpoint,
				"attempt":  attempt + 1,
				"delay":    delay.String(),
				"error":    lastErr.Error(),
			})
			select {
			case <-ctx.Done():
				return nil, errors.NewNetworkFailureError(endpoint, ctx.Err())
			case <-time.After(delay):
			}
		}

		body, err := c.attempt(ctx, endpoint, build)
		if err == nil {
			return body, nil
		}
		lastErr = err
		if !errors.IsRetryable(err) || ctx.Err() != nil {
			break
		}
	}
	return nil, lastErr
}

func (c *Client) attempt(ctx context.Context, endpoint string, build RequestBuilder) ([]byte, error) {
	req, err := build(ctx)
	if err != nil {
		return nil, errors.NewInvalidPayloadError(err.Error())
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.ObserveBackendRequest(endpoint, metrics.OutcomeNetwork, time.Since(start))
		return nil, errors.NewNetworkFailureError(endpoint, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.ObserveBackendRequest(endpoint, metrics.OutcomeNetwork, time.Since(start))
		return nil, errors.NewNetworkFailureError(endpoint, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		metrics.ObserveBackendRequest(endpoint, metrics.OutcomeHTTPError, time.Since(start))
		c.logger.Debug("Backend returned error status", map[string]interface{}{
			"endpoint": endpoint,
			"status":   resp.StatusCode,
		})
		return nil, errors.NewHTTPError(endpoint, resp.StatusCode, string(data))
	}

	metrics.ObserveBackendRequest(endpoint, metrics.OutcomeOK, time.Since(start))
	return data, nil
}

// PostJSON posts payload encoded as JSON.
func (c *Client) PostJSON(ctx context.Context, endpoint, path string, payload interface{}) ([]byte, error) {
	return c.sendJSON(ctx, http.MethodPost, endpoint, path, payload)
}

// PutJSON puts payload encoded as JSON.
func (c *Client) PutJSON(ctx context.Context, endpoint, path string, payload interface{}) ([]byte, error) {
	return c.sendJSON(ctx, http.MethodPut, endpoint, path, payload)
}

func (c *Client) sendJSON(ctx context.Context, method, endpoint, path string, payload interface{}) ([]byte, error) {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.NewInvalidPayloadError(err.Error())
	}
	target := c.URL(path)

	return c.Send(ctx, endpoint, func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, method, target, bytes.NewReader(encoded))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		return req, nil
	})
}

// Get issues a GET with optional query parameters.
func (c *Client) Get(ctx context.Context, endpoint, path string, query url.Values) ([]byte, error) {
	target := c.URL(path)
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	return c.Send(ctx, endpoint, func(ctx context.Context) (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	})
}

// Delete issues a DELETE.
func (c *Client) Delete(ctx context.Context, endpoint, path string) ([]byte, error) {
	target := c.URL(path)
	return c.Send(ctx, endpoint, func(ctx context.Context) (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodDelete, target, nil)
	})
}

// PostMultipart posts a multipart/form-data body with the file first and the
// text fields after it in key order.
func (c *Client) PostMultipart(ctx context.Context, endpoint, path string, file FilePart, fields map[string]string) ([]byte, error) {
	body, contentType, err := encodeMultipart(file, fields)
	if err != nil {
		return nil, errors.NewInvalidPayloadError(err.Error())
	}
	target := c.URL(path)

	return c.Send(ctx, endpoint, func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", contentType)
		return req, nil
	})
}

func encodeMultipart(file FilePart, fields map[string]string) ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	part, err := w.CreateFormFile(file.Field, file.FileName)
	if err != nil {
		return nil, "", fmt.Errorf("create form file: %w", err)
	}
	if _, err := part.Write(file.Data); err != nil {
		return nil, "", fmt.Errorf("write form file: %w", err)
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := w.WriteField(k, fields[k]); err != nil {
			return nil, "", fmt.Errorf("write field %s: %w", k, err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart writer: %w", err)
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}

// DecodeJSON decodes a response body keeping numbers as json.Number so the
// normalizers see exactly what the backend sent.
func DecodeJSON(body []byte) (interface{}, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}
