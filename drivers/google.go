package drivers

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/arbiterfs/arbiter/httppool"
	"github.com/arbiterfs/arbiter/interfaces"
)

const googleStorageHost = "https://storage.googleapis.com"

// GoogleAuth holds a static Google Cloud Storage OAuth bearer token.
type GoogleAuth struct {
	Token string
}

// Google is the driver for the "gs" scheme: token-authenticated access to
// Google Cloud Storage through its XML-compatible object endpoints. Paths
// are "bucket/object" strings, as with S3.
type Google struct {
	auth GoogleAuth
	pool *httppool.Pool
	exec *retryExecutor
	log  *slog.Logger
}

// NewGoogle creates the Google Cloud Storage driver.
func NewGoogle(auth GoogleAuth, pool *httppool.Pool, log *slog.Logger) *Google {
	if log == nil {
		log = slog.Default()
	}
	return &Google{
		auth: auth,
		pool: pool,
		exec: newRetryExecutor(httpAttempts, log),
		log:  log,
	}
}

// Type returns the URI scheme for this driver.
func (d *Google) Type() string { return "gs" }

// IsRemote reports true.
func (d *Google) IsRemote() bool { return true }

func (d *Google) headers() http.Header {
	return http.Header{"Authorization": {"Bearer " + d.auth.Token}}
}

// Get retrieves the object at "bucket/object".
func (d *Google) Get(ctx context.Context, path string) ([]byte, error) {
	target := googleStorageHost + "/" + path

	res, err := d.exec.Do(ctx, func() (*httppool.Response, error) {
		return d.pool.Get(ctx, target, d.headers())
	})
	if err != nil {
		return nil, fmt.Errorf("%w: GET gs://%s: %v", interfaces.ErrRequestFailed, path, err)
	}
	if !res.Ok() {
		return nil, statusError("GET", "gs://"+path, res.StatusCode)
	}
	return res.Body, nil
}

// GetSize returns the Content-Length reported by a HEAD of the object.
func (d *Google) GetSize(ctx context.Context, path string) (int64, error) {
	target := googleStorageHost + "/" + path

	res, err := d.exec.Do(ctx, func() (*httppool.Response, error) {
		return d.pool.Head(ctx, target, d.headers())
	})
	if err != nil {
		return 0, fmt.Errorf("%w: HEAD gs://%s: %v", interfaces.ErrRequestFailed, path, err)
	}
	if !res.Ok() {
		return 0, statusError("HEAD", "gs://"+path, res.StatusCode)
	}
	if res.ContentLength < 0 {
		return 0, fmt.Errorf("%w: HEAD gs://%s: no content length", interfaces.ErrRequestFailed, path)
	}
	return res.ContentLength, nil
}

// Put uploads data to "bucket/object".
func (d *Google) Put(ctx context.Context, path string, data []byte) error {
	target := googleStorageHost + "/" + path

	res, err := d.exec.Do(ctx, func() (*httppool.Response, error) {
		return d.pool.Put(ctx, target, data, d.headers())
	})
	if err != nil {
		return fmt.Errorf("%w: PUT gs://%s: %v", interfaces.ErrRequestFailed, path, err)
	}
	if !res.Ok() {
		return statusError("PUT", "gs://"+path, res.StatusCode)
	}
	return nil
}

// Resolve rejects globs; enumeration is not part of this driver's surface.
func (d *Google) Resolve(ctx context.Context, path string, verbose bool) ([]string, error) {
	if strings.HasSuffix(path, "*") {
		return nil, fmt.Errorf("%w: cannot resolve globs over gs", interfaces.ErrInvalidArgument)
	}
	return []string{"gs://" + path}, nil
}
