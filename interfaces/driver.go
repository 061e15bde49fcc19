package interfaces

import (
	"context"
	"net/http"
	"net/url"
)

// Driver is a storage backend bound to a single URI scheme. Implementations
// are stateless apart from credentials and the connection pool they were
// constructed with, and are safe for concurrent use.
type Driver interface {
	// Type returns the URI scheme this driver is registered under.
	Type() string

	// IsRemote reports whether paths served by this driver live outside
	// the local filesystem.
	IsRemote() bool

	// Get retrieves the full contents of the object at path.
	// Returns ErrNotFound if the object does not exist.
	Get(ctx context.Context, path string) ([]byte, error)

	// GetSize returns the size in bytes of the object at path.
	// Returns ErrNotFound if the object does not exist.
	GetSize(ctx context.Context, path string) (int64, error)

	// Put writes data to path, replacing any existing object.
	Put(ctx context.Context, path string, data []byte) error

	// Resolve expands a glob path into the concrete paths it matches.
	// A path ending in "*" matches immediate children only; a path ending
	// in "**" matches recursively. A path with no glob suffix resolves to
	// itself. Remote drivers return scheme-prefixed paths.
	Resolve(ctx context.Context, path string, verbose bool) ([]string, error)
}

// Copier is an optional driver capability: a specialized copy between two
// paths served by the same driver, avoiding a full download and re-upload.
type Copier interface {
	Copy(ctx context.Context, src, dst string) error
}

// HTTPDriver is the capability set of HTTP-derived drivers, extending the
// base operations with caller-supplied headers and query parameters.
type HTTPDriver interface {
	Driver

	// GetWith performs a GET with extra headers and query parameters.
	GetWith(ctx context.Context, path string, headers http.Header, query url.Values) ([]byte, error)

	// PutWith performs a PUT with extra headers and query parameters.
	PutWith(ctx context.Context, path string, data []byte, headers http.Header, query url.Values) error
}
