// Package envelope talks to collaborator services. Every response body is
// {"data": ..., "error": {"code": ..., "message": ...}} and is unwrapped once here.
package envelope

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/MikeRez0/ypfulfillment/internal/core/domain"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.uber.org/zap"
)

const maxBody = 1 << 20

type Envelope[T any] struct {
	Data  *T        `json:"data"`
	Error *APIError `json:"error,omitempty"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap maps collaborator error codes onto domain errors.
func (e *APIError) Unwrap() error {
	switch e.Code {
	case "insufficient_stock":
		return domain.ErrInsufficientStock
	case "not_found":
		return domain.ErrDataNotFound
	case "invalid_request", "validation":
		return domain.ErrBadRequest
	}
	return nil
}

// RetryAfterError is returned on 429 responses.
type RetryAfterError struct {
	RetryAfter time.Duration
}

func (e *RetryAfterError) Error() string {
	return fmt.Sprintf("Too Many Requests. Retry-After: %s", e.RetryAfter)
}

func (e *RetryAfterError) Unwrap() error {
	return domain.ErrCollaboratorUnavailable
}

// ErrEmptyData is returned when a successful envelope carries no payload.
var ErrEmptyData = errors.New("envelope has no data")

// Decode unwraps one envelope from r.
func Decode[T any](r io.Reader) (T, error) {
	var zero T
	var env Envelope[T]
	if err := json.NewDecoder(io.LimitReader(r, maxBody)).Decode(&env); err != nil {
		return zero, fmt.Errorf("error on response decode: %w", err)
	}
	if env.Error != nil {
		return zero, env.Error
	}
	if env.Data == nil {
		return zero, ErrEmptyData
	}
	return *env.Data, nil
}

// Client is the shared HTTP plumbing of the collaborator clients.
type Client struct {
	base   string
	http   *http.Client
	logger *zap.Logger
}

func NewClient(host string, timeout time.Duration, logger *zap.Logger) *Client {
	base := strings.TrimRight(host, "/")
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		base = "http://" + base
	}
	return &Client{
		base:   base,
		http:   &http.Client{Timeout: timeout},
		logger: logger,
	}
}

// Call sends body as JSON and decodes the envelope of the response.
func Call[T any](ctx context.Context, c *Client, method, path string, query url.Values, body any) (T, error) {
	var zero T

	requestStr := c.base + path
	if len(query) > 0 {
		requestStr += "?" + query.Encode()
	}

	var payload io.Reader = http.NoBody
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return zero, fmt.Errorf("error on request encode: %w", err)
		}
		payload = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, requestStr, payload)
	if err != nil {
		return zero, fmt.Errorf("error on %s : %w", requestStr, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := c.http.Do(req)
	if err != nil {
		return zero, fmt.Errorf("request error %s : %w: %w", requestStr, domain.ErrCollaboratorUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		retryAfter := 10 * time.Second
		if sec, err := strconv.Atoi(resp.Header.Get("Retry-After")); err == nil {
			retryAfter = time.Duration(sec) * time.Second
		}
		return zero, &RetryAfterError{RetryAfter: retryAfter}
	case resp.StatusCode >= http.StatusInternalServerError:
		c.logger.Warn("unexpected status for request",
			zap.String("request", requestStr), zap.Int("status", resp.StatusCode))
		return zero, fmt.Errorf("bad response %v for request %s: %w",
			resp.StatusCode, requestStr, domain.ErrCollaboratorUnavailable)
	}

	return Decode[T](resp.Body)
}
