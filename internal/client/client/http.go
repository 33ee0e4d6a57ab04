package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/dmitrijs2005/pengaduan/internal/client/config"
	"github.com/dmitrijs2005/pengaduan/internal/common"
	"github.com/dmitrijs2005/pengaduan/internal/logging"
	"github.com/google/uuid"
)

// maxResponseSize caps how much of a response body is read.
const maxResponseSize = 8 << 20

// TokenSource yields the bearer token for an outgoing request, or "" when
// there is none. It is consulted on every request.
type TokenSource interface {
	Token(ctx context.Context) string
}

type TokenFunc func(ctx context.Context) string

func (f TokenFunc) Token(ctx context.Context) string { return f(ctx) }

type tokenKey struct{}

// WithToken makes requests issued with ctx use token instead of the
// client's TokenSource.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

// HTTPClient is the JSON-over-HTTP implementation of Client.
type HTTPClient struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
	log     logging.Logger
}

var _ Client = (*HTTPClient)(nil)

// NewHTTPClient builds a client for cfg.APIBaseURL. tokens may be nil.
// Cookies are never stored or sent.
func NewHTTPClient(cfg *config.Config, tokens TokenSource, log logging.Logger) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(cfg.APIBaseURL, "/"),
		http:    &http.Client{Timeout: cfg.RequestTimeout},
		tokens:  tokens,
		log:     log.With("component", "api"),
	}
}

// TokenFrom returns the token set by WithToken, if any.
func TokenFrom(ctx context.Context) (string, bool) {
	t, ok := ctx.Value(tokenKey{}).(string)
	return t, ok
}

func (c *HTTPClient) token(ctx context.Context) string {
	if t, ok := TokenFrom(ctx); ok {
		return t
	}
	if c.tokens == nil {
		return ""
	}
	return c.tokens.Token(ctx)
}

func (c *HTTPClient) url(endpoint string, params url.Values) string {
	u := c.baseURL + "/" + strings.TrimLeft(endpoint, "/")
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	return u
}

// doJSON sends in (when non-nil) as JSON and decodes the response into out
// (when non-nil).
func (c *HTTPClient) doJSON(ctx context.Context, method, endpoint string, params url.Values, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s request: %w", endpoint, err)
		}
		body = bytes.NewReader(b)
	}
	return c.do(ctx, method, endpoint, params, body, "application/json", out)
}

func (c *HTTPClient) do(ctx context.Context, method, endpoint string, params url.Values, body io.Reader, contentType string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.url(endpoint, params), body)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, endpoint, err)
	}

	reqID := uuid.NewString()
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	req.Header.Set(common.RequestIDHeaderName, reqID)
	if token := c.token(ctx); token != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+token)
	}

	log := c.log.With("request_id", reqID, "method", method, "endpoint", endpoint)

	resp, err := c.http.Do(req)
	if err != nil {
		log.Debug(ctx, "request failed", "error", err)
		return c.mapError(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		log.Debug(ctx, "reading response failed", "error", err)
		return c.mapError(err)
	}
	log.Debug(ctx, "request settled", "status", resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp.StatusCode, data)
	}
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s response: %w", endpoint, err)
	}
	return nil
}

// mapError classifies transport failures. Cancellation is passed through so
// callers can tell an abandoned request from an unreachable server.
func (c *HTTPClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}

func decodeAPIError(status int, body []byte) error {
	apiErr := &APIError{Status: status}

	var payload struct {
		Message string      `json:"message"`
		Errors  FieldErrors `json:"errors"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		apiErr.Message = payload.Message
		apiErr.Errors = payload.Errors
	}
	return apiErr
}
