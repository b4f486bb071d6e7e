// Package transport provides the single configured HTTP pipeline shared by
// every domain facade. It attaches the bearer token on the way out and clears
// the session on an authentication rejection on the way in; no other component
// touches the Authorization header.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"firstlog/internal/models"
	"firstlog/internal/observability"
	"firstlog/internal/tokens"
)

// Client is the shared request pipeline.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	tokens  *tokens.Manager
	log     *observability.HTTPLogger
	metrics *observability.RequestMetrics

	mu             sync.RWMutex
	onUnauthorized func()
}

// New creates a Client for the given base endpoint. The timeout applies to
// every request; on timeout the operation fails like any other network error.
func New(baseURL string, timeout time.Duration, tm *tokens.Manager) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", baseURL, err)
	}
	return &Client{
		baseURL: base,
		http:    &http.Client{Timeout: timeout},
		tokens:  tm,
		log:     observability.NewHTTPLogger("transport"),
		metrics: observability.NewRequestMetrics(),
	}, nil
}

// SetUnauthorizedHook registers the callback invoked after a 401 response has
// cleared the local token. The session coordinator uses it to drop the user.
func (c *Client) SetUnauthorizedHook(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onUnauthorized = fn
}

// Do performs one request against the backend and returns the raw body.
// A nil body sends no payload; otherwise body is JSON-encoded.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body any) ([]byte, error) {
	requestID := uuid.NewString()
	ctx = observability.WithCorrelationID(ctx, requestID)

	span, ctx := observability.NewSpan(ctx, "HTTP "+method+" "+path)
	span.AddAttributes(
		attribute.String("http.method", method),
		attribute.String("http.route", path),
		attribute.String("request.id", requestID),
	)
	defer span.End()
	defer c.metrics.TrackRequest(method, path)()

	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + "/" + strings.TrimLeft(path, "/")
	if query != nil {
		u.RawQuery = query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, models.NewValidationError("unencodable request body")
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return nil, models.NewNetworkError(err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	// Outbound interceptor: attach the bearer token when one is held.
	// Requests proceed unauthenticated when no token exists; some
	// endpoints are public.
	if token := c.tokens.Access(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	c.log.LogRequest(ctx, method, path)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		observability.RequestsTotal.WithLabelValues(method, path, "error").Inc()
		c.log.LogError(ctx, method, path, err)
		netErr := models.NewNetworkError(err)
		span.SetError(netErr)
		return nil, netErr
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		observability.RequestsTotal.WithLabelValues(method, path, "error").Inc()
		c.log.LogError(ctx, method, path, err)
		netErr := models.NewNetworkError(err)
		span.SetError(netErr)
		return nil, netErr
	}

	observability.RequestsTotal.WithLabelValues(method, path, strconv.Itoa(resp.StatusCode)).Inc()
	c.log.LogResponse(ctx, method, path, resp.StatusCode, time.Since(start).Milliseconds())
	span.AddAttributes(attribute.Int("http.status_code", resp.StatusCode))

	// Inbound interceptor: an authentication rejection purges the local
	// session synchronously, then the error still reaches the caller.
	// This is the only place session invalidation happens automatically.
	if resp.StatusCode == http.StatusUnauthorized {
		c.tokens.Clear(ctx)
		observability.SessionInvalidations.Inc()
		c.mu.RLock()
		hook := c.onUnauthorized
		c.mu.RUnlock()
		if hook != nil {
			hook()
		}
		authErr := models.NewUnauthorizedError(fmt.Sprintf("%s %s: authentication rejected", method, path))
		span.SetError(authErr)
		return nil, authErr
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := models.NewAPIError(resp.StatusCode, fmt.Sprintf("%s %s: status %d", method, path, resp.StatusCode))
		span.SetError(apiErr)
		return nil, apiErr
	}

	return raw, nil
}

// Get issues a GET request.
func (c *Client) Get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	return c.Do(ctx, http.MethodGet, path, query, nil)
}

// Post issues a POST request with an optional JSON body.
func (c *Client) Post(ctx context.Context, path string, body any) ([]byte, error) {
	return c.Do(ctx, http.MethodPost, path, nil, body)
}

// Put issues a PUT request with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body any) ([]byte, error) {
	return c.Do(ctx, http.MethodPut, path, nil, body)
}

// Delete issues a DELETE request.
func (c *Client) Delete(ctx context.Context, path string) ([]byte, error) {
	return c.Do(ctx, http.MethodDelete, path, nil, nil)
}
