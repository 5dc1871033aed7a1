// Package transport is the single point of egress for calls to the costume
// API. It wraps a resty client whose interceptor chains stamp credentials,
// log traffic and normalize failures.
//
// Transport stack, outermost first:
//  1. resty (interceptors, JSON codec, base URL, 15s deadline)
//  2. httpcache (ETag/Last-Modified conditional GETs; dropped on Reset)
//  3. the base round-tripper (http.DefaultTransport unless overridden)
//
// A rate-limited response (429) is a failure carrying an HTTP response and is
// returned to the caller like any other status error.
package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/gregjones/httpcache"
	"github.com/natefinch/atomic"

	"github.com/ericfisherdev/costumedesk/internal/domain/model"
	"github.com/ericfisherdev/costumedesk/internal/domain/port/driven"
)

// Defaults applied by New when the corresponding option is not given.
const (
	DefaultTimeout    = 15 * time.Second
	DefaultAuthScheme = "Basic"
	DefaultMaxRetries = 3

	headerRequestID = "X-Request-ID"
	userAgent       = "costumedesk"
)

// CredentialSource supplies the token stamped on outbound requests.
// An empty string means no credential is present.
type CredentialSource interface {
	Token() string
}

// BasicAuth carries username and password for the login handshake.
type BasicAuth struct {
	Username string
	Password string
}

// Request describes one call. It is built per call and not modified after
// it is handed to the client.
type Request struct {
	Method     string
	Path       string            // Relative to the base URL; may contain {name} templates.
	PathParams map[string]string // Values for Path templates; escaped by resty.
	Query      url.Values
	Body       any
	BasicAuth  *BasicAuth // Overrides the stamped credential when set.
}

// Client is the shared Transport Client.
type Client struct {
	rest        *resty.Client
	creds       CredentialSource
	notifier    driven.Notifier
	logger      *slog.Logger
	scheme      string
	cache       *resettableCache
	base        http.RoundTripper
	timeout     time.Duration
	useCache    bool
	downloadDir string
	sleep       func(ctx context.Context, d time.Duration) error
}

// Option configures a Client during construction in New.
type Option func(*Client) error

// WithTimeout overrides the per-request deadline. Must be > 0.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) error {
		if d <= 0 {
			return fmt.Errorf("timeout must be > 0")
		}
		c.timeout = d
		return nil
	}
}

// WithAuthScheme sets the scheme label placed before the token in the
// Authorization header.
func WithAuthScheme(scheme string) Option {
	return func(c *Client) error {
		if scheme == "" {
			return fmt.Errorf("auth scheme must not be empty")
		}
		c.scheme = scheme
		return nil
	}
}

// WithNotifier sets the user-facing channel failed calls are reported on.
func WithNotifier(n driven.Notifier) Option {
	return func(c *Client) error {
		c.notifier = n
		return nil
	}
}

// WithLogger sets the logger used for request/response traces.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) error {
		c.logger = l
		return nil
	}
}

// WithBaseTransport replaces the innermost round-tripper.
func WithBaseTransport(rt http.RoundTripper) Option {
	return func(c *Client) error {
		c.base = rt
		return nil
	}
}

// WithCache toggles the conditional-GET response cache.
func WithCache(enabled bool) Option {
	return func(c *Client) error {
		c.useCache = enabled
		return nil
	}
}

// WithDownloadDir sets the directory Download writes into.
func WithDownloadDir(dir string) Option {
	return func(c *Client) error {
		c.downloadDir = dir
		return nil
	}
}

// WithSleepFunc replaces the wait used between retry attempts.
func WithSleepFunc(sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(c *Client) error {
		c.sleep = sleep
		return nil
	}
}

// New builds a Client rooted at baseURL that stamps tokens read from creds.
func New(baseURL string, creds CredentialSource, opts ...Option) (*Client, error) {
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}
	if creds == nil {
		return nil, errors.New("credential source is required")
	}

	c := &Client{
		creds:       creds,
		notifier:    driven.NotifierFunc(func(context.Context, model.Notification) {}),
		logger:      slog.Default(),
		scheme:      DefaultAuthScheme,
		base:        http.DefaultTransport,
		timeout:     DefaultTimeout,
		useCache:    true,
		downloadDir: ".",
		sleep:       sleepContext,
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	rt := c.base
	if c.useCache {
		c.cache = newResettableCache()
		rt = &httpcache.Transport{Transport: c.base, Cache: c.cache, MarkCachedResponses: true}
	}
	c.rest = resty.NewWithClient(&http.Client{Transport: rt}).
		SetBaseURL(baseURL).
		SetTimeout(c.timeout).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", userAgent)

	// Outbound chain, in registration order.
	c.rest.OnBeforeRequest(c.stampRequestID)
	c.rest.OnBeforeRequest(c.stampCredential)
	c.rest.OnBeforeRequest(c.logRequest)
	// Inbound chain. Runs only for parsed responses; failures are normalized in execute.
	c.rest.OnAfterResponse(c.logResponse)

	return c, nil
}

// BaseURL returns the API root all request paths are relative to.
func (c *Client) BaseURL() string {
	return c.rest.BaseURL
}

// Reset drops cached responses. It is subscribed to the auth gate's reset
// event so responses fetched under one credential are never served to another.
func (c *Client) Reset() {
	if c.cache != nil {
		c.cache.Reset()
	}
}

// Issue sends req and decodes a successful JSON payload into out (which may
// be nil to discard it). On failure the resolved message is published to the
// notifier and the original *Error is returned.
func (c *Client) Issue(ctx context.Context, req Request, out any) error {
	if err := c.execute(ctx, req, out); err != nil {
		return c.fail(ctx, err)
	}
	return nil
}

// Download fetches path as a binary payload and saves it as filename inside
// the download directory, returning the written path. The file is staged in
// a temporary file that is removed on every failure path, and the response
// body is always closed.
func (c *Client) Download(ctx context.Context, path, filename string) (string, error) {
	body, err := c.openDownload(ctx, path)
	if err != nil {
		return "", c.fail(ctx, err)
	}
	defer func() { _ = body.Close() }()

	target := filepath.Join(c.downloadDir, filepath.Base(filepath.Clean("/"+filename)))
	if err := atomic.WriteFile(target, body); err != nil {
		return "", c.fail(ctx, &Error{Method: http.MethodGet, Path: path, Err: fmt.Errorf("save %s: %w", target, err)})
	}
	if err := os.Chmod(target, 0o644); err != nil {
		c.logger.Warn("could not set download permissions", "path", target, "error", err)
	}

	c.logger.Info("download saved", "path", path, "file", target)
	return target, nil
}

// DownloadTo fetches path as a binary payload and copies it to w without
// touching the filesystem. Nothing is written to w unless the server answered
// with a success status. It returns the number of bytes copied.
func (c *Client) DownloadTo(ctx context.Context, path string, w io.Writer) (int64, error) {
	body, err := c.openDownload(ctx, path)
	if err != nil {
		return 0, c.fail(ctx, err)
	}
	defer func() { _ = body.Close() }()

	n, err := io.Copy(w, body)
	if err != nil {
		return n, c.fail(ctx, &Error{Method: http.MethodGet, Path: path, Err: fmt.Errorf("copy payload: %w", err)})
	}

	c.logger.Info("download streamed", "path", path, "bytes", n)
	return n, nil
}

// openDownload issues the GET for a binary payload. On success the caller
// owns the returned body; on failure it is already closed.
func (c *Client) openDownload(ctx context.Context, path string) (io.ReadCloser, error) {
	req := Request{Method: http.MethodGet, Path: path}
	start := time.Now()

	resp, err := c.rest.R().
		SetContext(ctx).
		SetDoNotParseResponse(true).
		SetHeader("Accept", "*/*").
		Get(path)
	if err != nil {
		observe(req.Method, 0, start)
		return nil, &Error{Method: req.Method, Path: path, Err: err}
	}
	observe(req.Method, resp.StatusCode(), start)

	body := resp.RawBody()
	if resp.IsError() {
		raw, _ := io.ReadAll(io.LimitReader(body, maxErrorBody))
		_ = body.Close()
		return nil, newStatusError(req, resp.StatusCode(), raw, nil)
	}
	return body, nil
}

// execute performs a single attempt without notifying.
func (c *Client) execute(ctx context.Context, req Request, out any) error {
	r := c.rest.R().
		SetContext(ctx).
		SetError(&serverMessage{})
	if len(req.PathParams) > 0 {
		r.SetPathParams(req.PathParams)
	}
	if len(req.Query) > 0 {
		r.SetQueryParamsFromValues(req.Query)
	}
	if req.Body != nil {
		r.SetBody(req.Body)
	}
	if req.BasicAuth != nil {
		r.SetBasicAuth(req.BasicAuth.Username, req.BasicAuth.Password)
	}
	if out != nil {
		r.SetResult(out)
	}

	start := time.Now()
	resp, err := r.Execute(req.Method, req.Path)
	if err != nil {
		observe(req.Method, 0, start)
		return &Error{Method: req.Method, Path: req.Path, Err: err}
	}
	observe(req.Method, resp.StatusCode(), start)

	if resp.IsError() {
		parsed, _ := resp.Error().(*serverMessage)
		return newStatusError(req, resp.StatusCode(), resp.Body(), parsed)
	}
	return nil
}

// fail is the inbound error interceptor: log, notify, return err unchanged.
// A notifier installed on ctx takes precedence over the configured one.
func (c *Client) fail(ctx context.Context, err error) error {
	msg := UserMessage(err)
	c.logger.Warn("request failed",
		"status", driven.HTTPStatus(err),
		"message", msg,
		"error", err,
	)
	driven.NotifierFromContext(ctx, c.notifier).Notify(ctx, model.Notification{
		Level:     model.NotificationError,
		Message:   msg,
		CreatedAt: time.Now(),
	})
	return err
}

func (c *Client) stampRequestID(_ *resty.Client, r *resty.Request) error {
	if r.Header.Get(headerRequestID) == "" {
		r.SetHeader(headerRequestID, uuid.NewString())
	}
	return nil
}

func (c *Client) stampCredential(_ *resty.Client, r *resty.Request) error {
	if token := c.creds.Token(); token != "" {
		r.SetHeader("Authorization", c.scheme+" "+token)
	}
	return nil
}

func (c *Client) logRequest(_ *resty.Client, r *resty.Request) error {
	c.logger.Debug("sending request",
		"method", r.Method,
		"url", r.URL,
		"params", r.QueryParam.Encode(),
		"request_id", r.Header.Get(headerRequestID),
	)
	return nil
}

func (c *Client) logResponse(_ *resty.Client, resp *resty.Response) error {
	c.logger.Debug("received response",
		"url", resp.Request.URL,
		"status", resp.StatusCode(),
		"duration", resp.Time().Round(time.Millisecond),
		"from_cache", resp.Header().Get(httpcache.XFromCache) == "1",
		"payload", truncate(resp.Body(), 256),
	)
	return nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "…(" + strconv.Itoa(len(b)-n) + " more bytes)"
}
