// Package gateway implements the typed HTTP clients for the five backend
// resource groups. One core Client carries the base URLs, the HTTP client,
// the token provider and the forced-logout hook; each group is a thin typed
// wrapper over it.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/fixit237/fixit-go/internal/core/domain"
	"github.com/fixit237/fixit-go/internal/metrics"
)

// Resource group labels, used for logging and metrics.
const (
	groupAuth         = "auth"
	groupArtisan      = "artisan"
	groupUser         = "user"
	groupBooking      = "booking"
	groupChat         = "chat"
	groupNotification = "notification"
)

// TokenProvider yields the cached bearer token, or "" when none is cached.
// An empty token still sends the request, unauthenticated.
type TokenProvider func(ctx context.Context) string

// UnauthorizedHook clears the local session after a 401 on a session-guarded
// call. It runs before the error is returned, so no later call in the same
// user action can reuse the stale token.
type UnauthorizedHook func(ctx context.Context)

// APIError carries the backend's error message for a non-2xx response.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string { return e.Message }

// Options configures the core Client.
type Options struct {
	// BaseURL is the API root (…/api). ServerURL is the bare server root,
	// which uploaded image paths are joined onto.
	BaseURL   string
	ServerURL string
	Timeout   time.Duration
	Token     TokenProvider
	// OnUnauthorized may be nil; 401s on guarded calls then surface as
	// ErrSessionExpired without local side effects.
	OnUnauthorized UnauthorizedHook
	Logger         zerolog.Logger
}

// Client is the shared HTTP core behind all resource groups.
type Client struct {
	baseURL        string
	serverURL      string
	http           *http.Client
	token          TokenProvider
	onUnauthorized UnauthorizedHook
	log            zerolog.Logger
}

func NewClient(opts Options) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	token := opts.Token
	if token == nil {
		token = func(context.Context) string { return "" }
	}
	return &Client{
		baseURL:        strings.TrimRight(opts.BaseURL, "/"),
		serverURL:      strings.TrimRight(opts.ServerURL, "/"),
		http:           &http.Client{Timeout: timeout},
		token:          token,
		onUnauthorized: opts.OnUnauthorized,
		log:            opts.Logger,
	}
}

// call describes one backend request.
type call struct {
	group  string
	op     string // human name used in fallback error messages
	method string
	path   string
	query  url.Values
	body   any
	// sessionGuard marks calls where a 401 must force local logout before
	// the error surfaces. Booking and chat calls set it.
	sessionGuard bool
}

// doJSON executes a JSON request and decodes a 2xx body into out (out may
// be nil). Non-2xx responses become an *APIError carrying the backend's
// message field, or ErrSessionExpired on a guarded 401.
func (c *Client) doJSON(ctx context.Context, req call, out any) error {
	var body io.Reader
	if req.body != nil {
		raw, err := json.Marshal(req.body)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", req.op, err)
		}
		body = bytes.NewReader(raw)
	}

	httpReq, err := c.newRequest(ctx, req, body)
	if err != nil {
		return err
	}
	if req.body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	return c.execute(httpReq, req, out)
}

// doUpload executes a multipart request with a single "image" field carrying
// the file at path. The part's MIME type is inferred from the file extension.
func (c *Client) doUpload(ctx context.Context, req call, filePath string, out any) error {
	file, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("%s: open image: %w", req.op, err)
	}
	defer file.Close()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	filename := filepath.Base(filePath)
	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename=%q`, filename))
	header.Set("Content-Type", inferImageMIME(filename))

	part, err := writer.CreatePart(header)
	if err != nil {
		return fmt.Errorf("%s: build form: %w", req.op, err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return fmt.Errorf("%s: read image: %w", req.op, err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("%s: build form: %w", req.op, err)
	}

	httpReq, err := c.newRequest(ctx, req, &buf)
	if err != nil {
		return err
	}
	httpReq.Header.Set("Content-Type", writer.FormDataContentType())

	return c.execute(httpReq, req, out)
}

func (c *Client) newRequest(ctx context.Context, req call, body io.Reader) (*http.Request, error) {
	u := c.baseURL + req.path
	if len(req.query) > 0 {
		u += "?" + req.query.Encode()
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, u, body)
	if err != nil {
		return nil, fmt.Errorf("%s: build request: %w", req.op, err)
	}
	if token := c.token(ctx); token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}
	return httpReq, nil
}

func (c *Client) execute(httpReq *http.Request, req call, out any) error {
	start := time.Now()
	resp, err := c.http.Do(httpReq)
	metrics.GatewayRequestDuration.WithLabelValues(req.group).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.GatewayRequestsTotal.WithLabelValues(req.group, "error").Inc()
		c.log.Error().Err(err).Str("group", req.group).Str("path", req.path).Msg("request failed")
		return fmt.Errorf("%s: %w", req.op, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.GatewayRequestsTotal.WithLabelValues(req.group, "error").Inc()
		return fmt.Errorf("%s: read response: %w", req.op, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if resp.StatusCode == http.StatusUnauthorized && req.sessionGuard {
			metrics.GatewayRequestsTotal.WithLabelValues(req.group, "unauthorized").Inc()
			c.log.Warn().Str("group", req.group).Str("path", req.path).Msg("401, clearing local session")
			if c.onUnauthorized != nil {
				c.onUnauthorized(httpReq.Context())
			}
			return domain.ErrSessionExpired
		}
		metrics.GatewayRequestsTotal.WithLabelValues(req.group, "error").Inc()
		return &APIError{Status: resp.StatusCode, Message: errorMessage(raw, req.op)}
	}

	metrics.GatewayRequestsTotal.WithLabelValues(req.group, "ok").Inc()
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%s: decode response: %w", req.op, err)
	}
	return nil
}

// errorMessage extracts the backend's message field from an error body,
// falling back to "<operation> failed" when the body is not parseable JSON
// or lacks the field.
func errorMessage(raw []byte, op string) string {
	var envelope struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil && envelope.Message != "" {
		return envelope.Message
	}
	return op + " failed"
}

// inferImageMIME derives an image MIME type from the filename extension,
// defaulting to image/jpeg when there is none.
func inferImageMIME(filename string) string {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	if ext == "" {
		return "image/jpeg"
	}
	return "image/" + ext
}
