package arbiter

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"sync"

	"github.com/arbiterfs/arbiter/drivers"
	"github.com/arbiterfs/arbiter/httppool"
	"github.com/arbiterfs/arbiter/interfaces"
)

// Arbiter is the uniform storage-access client. It owns a registry mapping
// URI schemes to drivers and dispatches every operation to the driver
// selected by the path's scheme. The registry is populated once at
// construction; AddDriver is the only mutation point. Safe for concurrent
// use.
type Arbiter struct {
	mu      sync.RWMutex
	drivers map[string]interfaces.Driver

	pool *httppool.Pool
	log  *slog.Logger

	// progress receives verbose per-file copy output.
	progress io.Writer
}

// New creates a client with no inline configuration. The file and test
// drivers are always registered, the HTTP family always, and the
// credentialed drivers only when the config file provides their
// credentials.
func New(log *slog.Logger) (*Arbiter, error) {
	return NewWithConfig("", log)
}

// NewWithConfig creates a client from an inline JSON configuration
// document, merged with the optional on-disk config file (inline wins).
// A missing credential section is not an error, just reduced scheme
// coverage.
func NewWithConfig(inline string, log *slog.Logger) (*Arbiter, error) {
	if log == nil {
		log = slog.Default()
	}

	fs := drivers.NewFs(log)
	pool := httppool.New(httppool.DefaultSize, log)

	a := &Arbiter{
		drivers:  make(map[string]interfaces.Driver),
		pool:     pool,
		log:      log,
		progress: os.Stdout,
	}
	a.drivers["file"] = fs
	a.drivers["test"] = drivers.NewTest()
	a.drivers["http"] = drivers.NewHTTP(pool, log)
	a.drivers["https"] = drivers.NewHTTPS(pool, log)

	cfg, err := loadConfig(context.Background(), inline, fs, log)
	if err != nil {
		return nil, err
	}

	if cfg.S3.Complete() {
		auth := drivers.AwsAuth{Access: cfg.S3.Access, Secret: cfg.S3.SecretKey()}
		a.drivers["s3"] = drivers.NewS3(auth, pool, log)
		log.Debug("Registered S3 driver", slog.String("access", cfg.S3.Access))
	}
	if cfg.Dropbox.Complete() {
		a.drivers["dropbox"] = drivers.NewDropbox(drivers.DropboxAuth{Token: cfg.Dropbox.Token}, pool, log)
		log.Debug("Registered Dropbox driver")
	}
	if cfg.GS.Complete() {
		a.drivers["gs"] = drivers.NewGoogle(drivers.GoogleAuth{Token: cfg.GS.Token}, pool, log)
		log.Debug("Registered Google Storage driver")
	}

	return a, nil
}

// SetProgressWriter redirects verbose copy progress, which otherwise goes
// to stdout.
func (a *Arbiter) SetProgressWriter(w io.Writer) {
	a.progress = w
}

// HasDriver reports whether a driver is registered for the path's scheme.
func (a *Arbiter) HasDriver(path string) bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	_, ok := a.drivers[Scheme(path)]
	return ok
}

// AddDriver registers a driver under a scheme, replacing any existing
// registration.
func (a *Arbiter) AddDriver(scheme string, driver interfaces.Driver) error {
	if driver == nil {
		return fmt.Errorf("%w: cannot add nil driver for %s", interfaces.ErrInvalidArgument, scheme)
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.drivers[scheme] = driver
	return nil
}

// Get retrieves the full contents of the object at path.
func (a *Arbiter) Get(ctx context.Context, path string) ([]byte, error) {
	driver, err := a.driverFor(path)
	if err != nil {
		return nil, err
	}
	return driver.Get(ctx, StripScheme(path))
}

// TryGet converts any Get failure into absence.
func (a *Arbiter) TryGet(ctx context.Context, path string) ([]byte, bool) {
	data, err := a.Get(ctx, path)
	if err != nil {
		return nil, false
	}
	return data, true
}

// GetSize returns the size of the object at path.
func (a *Arbiter) GetSize(ctx context.Context, path string) (int64, error) {
	driver, err := a.driverFor(path)
	if err != nil {
		return 0, err
	}
	return driver.GetSize(ctx, StripScheme(path))
}

// TryGetSize converts any GetSize failure into absence.
func (a *Arbiter) TryGetSize(ctx context.Context, path string) (int64, bool) {
	size, err := a.GetSize(ctx, path)
	if err != nil {
		return 0, false
	}
	return size, true
}

// Exists reports whether the object at path exists, i.e. whether its size
// can be retrieved.
func (a *Arbiter) Exists(ctx context.Context, path string) bool {
	_, ok := a.TryGetSize(ctx, path)
	return ok
}

// Put writes data to path.
func (a *Arbiter) Put(ctx context.Context, path string, data []byte) error {
	driver, err := a.driverFor(path)
	if err != nil {
		return err
	}
	return driver.Put(ctx, StripScheme(path), data)
}

// Resolve expands a glob path into the concrete paths it matches.
func (a *Arbiter) Resolve(ctx context.Context, path string, verbose bool) ([]string, error) {
	driver, err := a.driverFor(path)
	if err != nil {
		return nil, err
	}
	return driver.Resolve(ctx, StripScheme(path), verbose)
}

// IsRemote reports whether the path is served by a remote driver.
func (a *Arbiter) IsRemote(path string) (bool, error) {
	driver, err := a.driverFor(path)
	if err != nil {
		return false, err
	}
	return driver.IsRemote(), nil
}

// IsLocal is the complement of IsRemote.
func (a *Arbiter) IsLocal(path string) (bool, error) {
	remote, err := a.IsRemote(path)
	return !remote, err
}

// IsHTTPDerived reports whether the path's driver has HTTP capability.
func (a *Arbiter) IsHTTPDerived(path string) bool {
	_, err := a.HTTPDriverFor(path)
	return err == nil
}

// HTTPDriverFor returns the path's driver as an HTTPDriver, or
// ErrNotHTTPDerived when the driver lacks the capability.
func (a *Arbiter) HTTPDriverFor(path string) (interfaces.HTTPDriver, error) {
	driver, err := a.driverFor(path)
	if err != nil {
		return nil, err
	}
	httpDriver, ok := driver.(interfaces.HTTPDriver)
	if !ok {
		return nil, fmt.Errorf("%w: %s", interfaces.ErrNotHTTPDerived, path)
	}
	return httpDriver, nil
}

// GetWith retrieves path with caller-supplied headers and query
// parameters; only HTTP-derived drivers support it.
func (a *Arbiter) GetWith(ctx context.Context, path string, headers http.Header, query url.Values) ([]byte, error) {
	driver, err := a.HTTPDriverFor(path)
	if err != nil {
		return nil, err
	}
	return driver.GetWith(ctx, StripScheme(path), headers, query)
}

// PutWith writes data to path with caller-supplied headers and query
// parameters; only HTTP-derived drivers support it.
func (a *Arbiter) PutWith(ctx context.Context, path string, data []byte, headers http.Header, query url.Values) error {
	driver, err := a.HTTPDriverFor(path)
	if err != nil {
		return err
	}
	return driver.PutWith(ctx, StripScheme(path), data, headers, query)
}

// Endpoint binds the path's driver to the path as a root for relative
// addressing.
func (a *Arbiter) Endpoint(root string) (Endpoint, error) {
	driver, err := a.driverFor(root)
	if err != nil {
		return Endpoint{}, err
	}
	return newEndpoint(driver, StripScheme(root)), nil
}

// driverFor resolves a path to its registered driver. Missing drivers are
// a hard failure, never a silent no-op.
func (a *Arbiter) driverFor(path string) (interfaces.Driver, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	driver, ok := a.drivers[Scheme(path)]
	if !ok {
		return nil, fmt.Errorf("%w: no driver for %s", interfaces.ErrNotFound, path)
	}
	return driver, nil
}
