package drivers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/arbiterfs/arbiter/httppool"
	"github.com/arbiterfs/arbiter/interfaces"
)

const (
	dropboxContentHost = "https://content.dropboxapi.com/1"
	dropboxAPIHost     = "https://api.dropboxapi.com/1"
)

// DropboxAuth holds a static Dropbox OAuth bearer token.
type DropboxAuth struct {
	Token string
}

// Dropbox is the driver for the "dropbox" scheme: a token-authenticated
// HTTP-derived backend. Paths are relative to the app root.
type Dropbox struct {
	auth DropboxAuth
	pool *httppool.Pool
	exec *retryExecutor
	log  *slog.Logger
}

// NewDropbox creates the Dropbox driver.
func NewDropbox(auth DropboxAuth, pool *httppool.Pool, log *slog.Logger) *Dropbox {
	if log == nil {
		log = slog.Default()
	}
	return &Dropbox{
		auth: auth,
		pool: pool,
		exec: newRetryExecutor(httpAttempts, log),
		log:  log,
	}
}

// Type returns the URI scheme for this driver.
func (d *Dropbox) Type() string { return "dropbox" }

// IsRemote reports true.
func (d *Dropbox) IsRemote() bool { return true }

func (d *Dropbox) headers() http.Header {
	return http.Header{"Authorization": {"Bearer " + d.auth.Token}}
}

// Get retrieves the file at path.
func (d *Dropbox) Get(ctx context.Context, path string) ([]byte, error) {
	target := dropboxContentHost + "/files/auto/" + path

	res, err := d.exec.Do(ctx, func() (*httppool.Response, error) {
		return d.pool.Get(ctx, target, d.headers())
	})
	if err != nil {
		return nil, fmt.Errorf("%w: GET dropbox://%s: %v", interfaces.ErrRequestFailed, path, err)
	}
	if !res.Ok() {
		return nil, statusError("GET", "dropbox://"+path, res.StatusCode)
	}
	return res.Body, nil
}

// GetSize returns the byte size reported by the metadata endpoint.
func (d *Dropbox) GetSize(ctx context.Context, path string) (int64, error) {
	target := dropboxAPIHost + "/metadata/auto/" + path

	res, err := d.exec.Do(ctx, func() (*httppool.Response, error) {
		return d.pool.Get(ctx, target, d.headers())
	})
	if err != nil {
		return 0, fmt.Errorf("%w: GET dropbox://%s: %v", interfaces.ErrRequestFailed, path, err)
	}
	if !res.Ok() {
		return 0, statusError("GET", "dropbox://"+path, res.StatusCode)
	}

	var meta struct {
		Bytes int64 `json:"bytes"`
	}
	if err := json.Unmarshal(res.Body, &meta); err != nil {
		return 0, fmt.Errorf("%w: dropbox metadata for %s: %v", interfaces.ErrMalformedResponse, path, err)
	}
	return meta.Bytes, nil
}

// Put uploads data to path.
func (d *Dropbox) Put(ctx context.Context, path string, data []byte) error {
	target := dropboxContentHost + "/files_put/auto/" + path

	res, err := d.exec.Do(ctx, func() (*httppool.Response, error) {
		return d.pool.Put(ctx, target, data, d.headers())
	})
	if err != nil {
		return fmt.Errorf("%w: PUT dropbox://%s: %v", interfaces.ErrRequestFailed, path, err)
	}
	if !res.Ok() {
		return statusError("PUT", "dropbox://"+path, res.StatusCode)
	}
	return nil
}

// Resolve rejects globs; enumeration is not part of this driver's surface.
func (d *Dropbox) Resolve(ctx context.Context, path string, verbose bool) ([]string, error) {
	if strings.HasSuffix(path, "*") {
		return nil, fmt.Errorf("%w: cannot resolve globs over dropbox", interfaces.ErrInvalidArgument)
	}
	return []string{"dropbox://" + path}, nil
}
