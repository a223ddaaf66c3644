// Package gateway contains thin clients for the four backend microservices
// (usuarios, productos, compras, reviews).
//
// Every call is tenant-scoped and one-shot: no retries, no caching. Errors
// are mapped onto the domain taxonomy so handlers never inspect HTTP
// details: a non-2xx response becomes EGATEWAY with the server's message,
// a transport failure becomes ENETWORK.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mundolibro/storefront/internal/domain"
)

// TokenSource supplies the stored bearer token for authenticated calls.
// The session container implements this; an empty token means the request
// goes out anonymous (allowed for catalog browsing only).
type TokenSource interface {
	Token() string
}

// StatusError carries the HTTP status and server-provided message of a
// failed backend call. It is always wrapped inside a domain.Error with code
// EGATEWAY; use errors.As to recover the status.
type StatusError struct {
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend returned %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("backend returned %d", e.Status)
}

// Client wraps one backend base URL with a shared http.Client and token
// source. The per-service gateways embed it.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
	logger  *slog.Logger
}

// ClientConfig configures a backend client.
type ClientConfig struct {
	BaseURL string
	Timeout time.Duration
	Tokens  TokenSource    // optional, nil for services that never authenticate
	Logger  *slog.Logger   // optional, defaults to slog.Default()
}

// NewClient creates a client for one backend service.
func NewClient(cfg ClientConfig) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("gateway: base URL is required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: cfg.Timeout},
		tokens:  cfg.Tokens,
		logger:  logger,
	}, nil
}

// envelope is the outer response shape used by the usuarios, productos and
// compras services. Body may be a JSON object or a JSON-encoded string that
// must be decoded a second time.
type envelope struct {
	StatusCode int             `json:"statusCode"`
	Body       json.RawMessage `json:"body"`
	Message    string          `json:"message"`
}

// serverMessage is the error payload most services return on failure.
type serverMessage struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// do performs one request and decodes the raw response body into out.
// out may be nil when the caller only cares about success.
func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, body any, out any) error {
	raw, err := c.roundTrip(ctx, op, method, path, query, body)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return domain.WrapError(err, domain.EGATEWAY, op, "malformed response from backend")
	}
	return nil
}

// doEnveloped performs one request against an envelope-wrapped endpoint,
// unwraps the outer envelope and decodes the (possibly string-encoded)
// body into out. Returns the embedded statusCode, which some services use
// to signal failures inside an HTTP 200.
func (c *Client) doEnveloped(ctx context.Context, op, method, path string, query url.Values, body any, out any) (int, error) {
	raw, err := c.roundTrip(ctx, op, method, path, query, body)
	if err != nil {
		return 0, err
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return 0, domain.WrapError(err, domain.EGATEWAY, op, "malformed response envelope from backend")
	}

	if out != nil && len(env.Body) > 0 {
		if err := decodeBody(env.Body, out); err != nil {
			return env.StatusCode, domain.WrapError(err, domain.EGATEWAY, op, "malformed response body from backend")
		}
	}
	return env.StatusCode, nil
}

// decodeBody decodes an envelope body into out. Bodies that arrive as
// JSON-encoded strings (the double-encoding contract of the productos and
// compras services) are decoded twice: once to a string, then to out.
func decodeBody(raw json.RawMessage, out any) error {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var inner string
		if err := json.Unmarshal(trimmed, &inner); err != nil {
			return err
		}
		return json.Unmarshal([]byte(inner), out)
	}
	return json.Unmarshal(trimmed, out)
}

// roundTrip builds, sends and checks one request, returning the raw
// response body on 2xx.
func (c *Client) roundTrip(ctx context.Context, op, method, path string, query url.Values, body any) ([]byte, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, domain.WrapError(err, domain.EINTERNAL, op, "failed to encode request")
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, domain.WrapError(err, domain.EINTERNAL, op, "failed to build request")
	}
	req.Header.Set("Content-Type", "application/json")
	// The backends expect the raw stored token, no "Bearer " prefix.
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("backend request failed", "op", op, "url", u, "error", err)
		return nil, domain.WrapError(err, domain.ENETWORK, op, "backend service unreachable")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, domain.WrapError(err, domain.ENETWORK, op, "failed to read backend response")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := extractMessage(raw)
		c.logger.Warn("backend returned error status",
			"op", op, "url", u, "status", resp.StatusCode, "message", msg)
		return nil, &domain.Error{
			Code:    domain.EGATEWAY,
			Op:      op,
			Message: userFacing(msg, resp.StatusCode),
			Err:     &StatusError{Status: resp.StatusCode, Message: msg},
		}
	}

	return raw, nil
}

// extractMessage pulls the server-provided error message out of a failure
// body, tolerating both bare and enveloped shapes.
func extractMessage(raw []byte) string {
	var sm serverMessage
	if err := json.Unmarshal(raw, &sm); err == nil {
		if sm.Message != "" {
			return sm.Message
		}
		if sm.Error != "" {
			return sm.Error
		}
	}
	return ""
}

func userFacing(serverMsg string, status int) string {
	if serverMsg != "" {
		return serverMsg
	}
	return fmt.Sprintf("service request failed (%s)", http.StatusText(status))
}
