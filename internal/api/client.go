// Package api owns the single configured HTTP channel to the arrienda
// backend. Every other component talks to the server through a Client.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

type Client struct {
	baseURL string
	httpc   *http.Client
	limiter *rate.Limiter
	logger  *slog.Logger

	mu    sync.RWMutex
	token string
}

func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: timeout},
		// Bursty UI interactions get throttled instead of hammering the API.
		limiter: rate.NewLimiter(rate.Every(100*time.Millisecond), 8),
		logger:  logger.With("component", "api"),
	}
}

// SetToken installs the bearer token attached to subsequent requests.
// An empty token clears it. The session store is the only caller.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *Client) currentToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// Get performs a GET against path and returns the raw response body.
func (c *Client) Get(ctx context.Context, path string) ([]byte, error) {
	return c.do(ctx, http.MethodGet, path, nil, "")
}

// PostJSON marshals in as the request body and returns the raw response body.
func (c *Client) PostJSON(ctx context.Context, path string, in any) ([]byte, error) {
	body, err := json.Marshal(in)
	if err != nil {
		return nil, fmt.Errorf("encode request body: %w", err)
	}
	return c.do(ctx, http.MethodPost, path, bytes.NewReader(body), "application/json")
}

// PutJSON marshals in as the request body and returns the raw response body.
func (c *Client) PutJSON(ctx context.Context, path string, in any) ([]byte, error) {
	body, err := json.Marshal(in)
	if err != nil {
		return nil, fmt.Errorf("encode request body: %w", err)
	}
	return c.do(ctx, http.MethodPut, path, bytes.NewReader(body), "application/json")
}

// PostMultipart sends an already-assembled multipart body. contentType must
// be the writer's FormDataContentType, which carries the boundary.
func (c *Client) PostMultipart(ctx context.Context, path string, body io.Reader, contentType string) ([]byte, error) {
	return c.do(ctx, http.MethodPost, path, body, contentType)
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}

	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	// The backend is reachable through an ngrok tunnel during development;
	// without this header ngrok answers with an HTML interstitial.
	req.Header.Set("ngrok-skip-browser-warning", "true")
	req.Header.Set("X-Request-ID", requestID)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token := c.currentToken(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	c.logger.Debug("request", "method", method, "path", path, "request_id", requestID)

	res, err := c.httpc.Do(req)
	if err != nil {
		c.logger.Debug("request failed", "path", path, "request_id", requestID, "err", err)
		return nil, &NetworkError{Err: err}
	}
	defer res.Body.Close()

	payload, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}

	c.logger.Debug("response", "path", path, "request_id", requestID, "status", res.StatusCode)

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, &RemoteError{Status: res.StatusCode, Message: remoteMessage(payload)}
	}

	return payload, nil
}
