package arbiter

import (
	"context"
	"strings"

	"github.com/arbiterfs/arbiter/interfaces"
)

// Endpoint is a driver bound to a root path, so that callers can address
// objects relative to a common "directory" regardless of which backend
// serves it. Endpoints are cheap copyable values; the driver reference is
// borrowed from the client's registry.
type Endpoint struct {
	driver interfaces.Driver
	root   string
}

// newEndpoint binds a driver to a scheme-stripped root, normalized to end
// with a separator when non-empty.
func newEndpoint(driver interfaces.Driver, root string) Endpoint {
	if root != "" && !strings.HasSuffix(root, "/") {
		root += "/"
	}
	return Endpoint{driver: driver, root: root}
}

// Type returns the scheme of the underlying driver.
func (e Endpoint) Type() string { return e.driver.Type() }

// IsRemote mirrors the underlying driver.
func (e Endpoint) IsRemote() bool { return e.driver.IsRemote() }

// IsLocal is the complement of IsRemote.
func (e Endpoint) IsLocal() bool { return !e.driver.IsRemote() }

// Root returns the scheme-stripped root path.
func (e Endpoint) Root() string { return e.root }

// PrefixedRoot returns the root with the driver's scheme prefix for remote
// drivers, and the bare root for local ones.
func (e Endpoint) PrefixedRoot() string {
	return e.softPrefix() + e.root
}

// FullPath resolves a sub-path against the root, collapsing duplicate
// separators.
func (e Endpoint) FullPath(sub string) string {
	return joinPath(e.root, sub)
}

// PrefixedFullPath is FullPath with the scheme prefix applied for remote
// drivers.
func (e Endpoint) PrefixedFullPath(sub string) string {
	return e.softPrefix() + e.FullPath(sub)
}

// Get retrieves the object at the resolved sub-path.
func (e Endpoint) Get(ctx context.Context, sub string) ([]byte, error) {
	return e.driver.Get(ctx, e.FullPath(sub))
}

// TryGet converts any Get failure into absence.
func (e Endpoint) TryGet(ctx context.Context, sub string) ([]byte, bool) {
	data, err := e.driver.Get(ctx, e.FullPath(sub))
	if err != nil {
		return nil, false
	}
	return data, true
}

// Put writes data to the resolved sub-path.
func (e Endpoint) Put(ctx context.Context, sub string, data []byte) error {
	return e.driver.Put(ctx, e.FullPath(sub), data)
}

// GetSize returns the size of the object at the resolved sub-path.
func (e Endpoint) GetSize(ctx context.Context, sub string) (int64, error) {
	return e.driver.GetSize(ctx, e.FullPath(sub))
}

func (e Endpoint) softPrefix() string {
	if e.driver.IsRemote() {
		return e.driver.Type() + schemeDelimiter
	}
	return ""
}
