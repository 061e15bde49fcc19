package drivers

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/arbiterfs/arbiter/httppool"
	"github.com/arbiterfs/arbiter/interfaces"
)

// HTTP is the driver for the http and https schemes. Paths handed to it are
// scheme-stripped ("host/rest"); the driver re-applies its own scheme when
// building request URLs. All requests go through the shared connection pool
// and a short retry loop for transient server failures.
type HTTP struct {
	scheme string
	pool   *httppool.Pool
	exec   *retryExecutor
	log    *slog.Logger
}

// NewHTTP creates the driver for the http scheme.
func NewHTTP(pool *httppool.Pool, log *slog.Logger) *HTTP {
	return newHTTP("http", pool, log)
}

// NewHTTPS creates the driver for the https scheme.
func NewHTTPS(pool *httppool.Pool, log *slog.Logger) *HTTP {
	return newHTTP("https", pool, log)
}

func newHTTP(scheme string, pool *httppool.Pool, log *slog.Logger) *HTTP {
	if log == nil {
		log = slog.Default()
	}
	return &HTTP{
		scheme: scheme,
		pool:   pool,
		exec:   newRetryExecutor(httpAttempts, log),
		log:    log,
	}
}

// Type returns the URI scheme for this driver.
func (d *HTTP) Type() string { return d.scheme }

// IsRemote reports true.
func (d *HTTP) IsRemote() bool { return true }

// Get retrieves the resource at path.
func (d *HTTP) Get(ctx context.Context, path string) ([]byte, error) {
	return d.GetWith(ctx, path, nil, nil)
}

// GetWith retrieves the resource at path with extra headers and query
// parameters.
func (d *HTTP) GetWith(ctx context.Context, path string, headers http.Header, query url.Values) ([]byte, error) {
	target := d.url(path, query)

	res, err := d.exec.Do(ctx, func() (*httppool.Response, error) {
		return d.pool.Get(ctx, target, headers)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: GET %s: %v", interfaces.ErrRequestFailed, target, err)
	}
	if !res.Ok() {
		return nil, statusError("GET", target, res.StatusCode)
	}
	return res.Body, nil
}

// GetSize returns the Content-Length reported by a HEAD of path.
func (d *HTTP) GetSize(ctx context.Context, path string) (int64, error) {
	target := d.url(path, nil)

	res, err := d.exec.Do(ctx, func() (*httppool.Response, error) {
		return d.pool.Head(ctx, target, nil)
	})
	if err != nil {
		return 0, fmt.Errorf("%w: HEAD %s: %v", interfaces.ErrRequestFailed, target, err)
	}
	if !res.Ok() {
		return 0, statusError("HEAD", target, res.StatusCode)
	}
	if res.ContentLength < 0 {
		return 0, fmt.Errorf("%w: HEAD %s: no content length", interfaces.ErrRequestFailed, target)
	}
	return res.ContentLength, nil
}

// Put writes data to path.
func (d *HTTP) Put(ctx context.Context, path string, data []byte) error {
	return d.PutWith(ctx, path, data, nil, nil)
}

// PutWith writes data to path with extra headers and query parameters.
func (d *HTTP) PutWith(ctx context.Context, path string, data []byte, headers http.Header, query url.Values) error {
	target := d.url(path, query)

	res, err := d.exec.Do(ctx, func() (*httppool.Response, error) {
		return d.pool.Put(ctx, target, data, headers)
	})
	if err != nil {
		return fmt.Errorf("%w: PUT %s: %v", interfaces.ErrRequestFailed, target, err)
	}
	if !res.Ok() {
		return statusError("PUT", target, res.StatusCode)
	}
	return nil
}

// Resolve cannot enumerate remote HTTP servers; globs are rejected and a
// concrete path resolves to itself, scheme-prefixed.
func (d *HTTP) Resolve(ctx context.Context, path string, verbose bool) ([]string, error) {
	if strings.HasSuffix(path, "*") {
		return nil, fmt.Errorf("%w: cannot resolve globs over %s", interfaces.ErrInvalidArgument, d.scheme)
	}
	return []string{d.scheme + "://" + path}, nil
}

func (d *HTTP) url(path string, query url.Values) string {
	target := d.scheme + "://" + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	return target
}

// statusError maps a terminal HTTP status to the error taxonomy.
func statusError(method, target string, status int) error {
	switch {
	case status == http.StatusNotFound:
		return fmt.Errorf("%w: %s %s", interfaces.ErrNotFound, method, target)
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return fmt.Errorf("%w: %s %s: status %d", interfaces.ErrAuthRejected, method, target, status)
	default:
		return fmt.Errorf("%w: %s %s: status %d", interfaces.ErrRequestFailed, method, target, status)
	}
}
