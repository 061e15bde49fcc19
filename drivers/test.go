package drivers

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/arbiterfs/arbiter/interfaces"
)

// Test is an in-memory driver registered under the "test" scheme. It exists
// so that backend-agnostic code can be exercised without touching the
// filesystem or the network. Objects live in a flat map keyed by path;
// "directories" are purely a naming convention, as with object stores.
type Test struct {
	mu      sync.RWMutex
	objects map[string][]byte
}

// NewTest creates an empty in-memory driver.
func NewTest() *Test {
	return &Test{objects: make(map[string][]byte)}
}

// Type returns the URI scheme for this driver.
func (d *Test) Type() string { return "test" }

// IsRemote reports true: the in-memory store has no filesystem backing, so
// callers must not attempt directory creation against its paths.
func (d *Test) IsRemote() bool { return true }

// Get returns the object stored at path.
func (d *Test) Get(ctx context.Context, path string) ([]byte, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	data, ok := d.objects[path]
	if !ok {
		return nil, fmt.Errorf("%w: test://%s", interfaces.ErrNotFound, path)
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

// GetSize returns the size of the object stored at path.
func (d *Test) GetSize(ctx context.Context, path string) (int64, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	data, ok := d.objects[path]
	if !ok {
		return 0, fmt.Errorf("%w: test://%s", interfaces.ErrNotFound, path)
	}
	return int64(len(data)), nil
}

// Put stores data at path, replacing any existing object.
func (d *Test) Put(ctx context.Context, path string, data []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	stored := make([]byte, len(data))
	copy(stored, data)
	d.objects[path] = stored
	return nil
}

// Copy duplicates an object under a new path.
func (d *Test) Copy(ctx context.Context, src, dst string) error {
	data, err := d.Get(ctx, src)
	if err != nil {
		return err
	}
	return d.Put(ctx, dst, data)
}

// Resolve expands a glob over stored paths. A trailing "*" matches
// immediate children of the prefix, a trailing "**" matches recursively.
// Results are scheme-prefixed and sorted.
func (d *Test) Resolve(ctx context.Context, path string, verbose bool) ([]string, error) {
	if !strings.HasSuffix(path, "*") {
		return []string{"test://" + path}, nil
	}

	recursive := strings.HasSuffix(path, "**")
	prefix := strings.TrimRight(path, "*")

	d.mu.RLock()
	defer d.mu.RUnlock()

	var results []string
	for key := range d.objects {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		if !recursive && strings.Contains(key[len(prefix):], "/") {
			continue
		}
		results = append(results, "test://"+key)
	}
	sort.Strings(results)
	return results, nil
}
