// Package httppool provides a bounded connection pool shared by all
// HTTP-derived drivers. The pool caps the number of in-flight requests with
// a fixed number of slots; a slot is held for the duration of a single
// request (including reading the body) and is released on every exit path.
package httppool

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/hashicorp/go-cleanhttp"
)

// DefaultSize is the number of concurrent request slots a pool created by
// New provides.
const DefaultSize = 32

// Response is a fully-buffered HTTP response: the status code, response
// headers and the complete body. Whole-object buffering is deliberate; the
// client deals in complete objects, not streams.
type Response struct {
	StatusCode int
	Header     http.Header

	// ContentLength is the length advertised by the response, which for
	// HEAD requests is the only size information available.
	ContentLength int64

	Body []byte
}

// Ok reports whether the response carries a 2xx status.
func (r *Response) Ok() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// ServerError reports whether the response carries a 5xx status, the only
// class of failure the retry executor considers transient.
func (r *Response) ServerError() bool {
	return r.StatusCode >= 500 && r.StatusCode < 600
}

// Pool is a bounded set of request slots in front of a shared pooled HTTP
// client. The zero value is not usable; construct with New or NewWithClient.
type Pool struct {
	client *http.Client
	slots  chan struct{}
	log    *slog.Logger
}

// New creates a pool with the given number of request slots backed by a
// connection-reusing HTTP client. A size of zero or less falls back to
// DefaultSize.
func New(size int, log *slog.Logger) *Pool {
	return NewWithClient(size, cleanhttp.DefaultPooledClient(), log)
}

// NewWithClient creates a pool around a caller-supplied HTTP client. Tests
// use this to substitute a scripted transport.
func NewWithClient(size int, client *http.Client, log *slog.Logger) *Pool {
	if size <= 0 {
		size = DefaultSize
	}
	if log == nil {
		log = slog.Default()
	}
	return &Pool{
		client: client,
		slots:  make(chan struct{}, size),
		log:    log,
	}
}

// Size returns the number of request slots.
func (p *Pool) Size() int {
	return cap(p.slots)
}

// Do acquires a slot, performs req, reads the full body and releases the
// slot. It blocks while all slots are busy; ctx aborts the wait. A non-nil
// Response is returned for every completed HTTP exchange regardless of
// status code; the error return is reserved for transport-level failures
// where no response was received at all.
func (p *Pool) Do(ctx context.Context, req *http.Request) (*Response, error) {
	select {
	case p.slots <- struct{}{}:
	case <-ctx.Done():
		return nil, fmt.Errorf("waiting for request slot: %w", ctx.Err())
	}
	defer func() { <-p.slots }()

	res, err := p.client.Do(req.WithContext(ctx))
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	p.log.Debug("HTTP exchange",
		slog.String("method", req.Method),
		slog.String("url", req.URL.String()),
		slog.Int("status", res.StatusCode),
		slog.Int("size", len(body)))

	return &Response{
		StatusCode:    res.StatusCode,
		Header:        res.Header,
		ContentLength: res.ContentLength,
		Body:          body,
	}, nil
}

// Get performs a GET of url with the given headers.
func (p *Pool) Get(ctx context.Context, url string, headers http.Header) (*Response, error) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	applyHeaders(req, headers)
	return p.Do(ctx, req)
}

// Head performs a HEAD of url with the given headers.
func (p *Pool) Head(ctx context.Context, url string, headers http.Header) (*Response, error) {
	req, err := http.NewRequest(http.MethodHead, url, nil)
	if err != nil {
		return nil, err
	}
	applyHeaders(req, headers)
	return p.Do(ctx, req)
}

// Put performs a PUT of data to url with the given headers. The request is
// sent with an explicit Content-Length so the body goes out as a single
// buffered payload, never chunked.
func (p *Pool) Put(ctx context.Context, url string, data []byte, headers http.Header) (*Response, error) {
	req, err := http.NewRequest(http.MethodPut, url, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	req.ContentLength = int64(len(data))
	applyHeaders(req, headers)
	return p.Do(ctx, req)
}

func applyHeaders(req *http.Request, headers http.Header) {
	for name, values := range headers {
		for _, v := range values {
			req.Header.Add(name, v)
		}
	}
}
