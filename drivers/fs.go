package drivers

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"

	"github.com/arbiterfs/arbiter/interfaces"
)

// Fs is the local filesystem driver, registered under the "file" scheme.
// Bare paths with no scheme prefix also resolve to this driver.
type Fs struct {
	log *slog.Logger
}

// NewFs creates the local filesystem driver.
func NewFs(log *slog.Logger) *Fs {
	if log == nil {
		log = slog.Default()
	}
	return &Fs{log: log}
}

// Type returns the URI scheme for this driver.
func (d *Fs) Type() string { return "file" }

// IsRemote reports false; filesystem paths are local by definition.
func (d *Fs) IsRemote() bool { return false }

// Get reads the full contents of the file at path.
func (d *Fs) Get(ctx context.Context, path string) ([]byte, error) {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return nil, fmt.Errorf("expanding %s: %w", path, err)
	}

	data, err := os.ReadFile(expanded)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", interfaces.ErrNotFound, path)
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return data, nil
}

// GetSize returns the size of the file at path.
func (d *Fs) GetSize(ctx context.Context, path string) (int64, error) {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return 0, fmt.Errorf("expanding %s: %w", path, err)
	}

	info, err := os.Stat(expanded)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, fmt.Errorf("%w: %s", interfaces.ErrNotFound, path)
		}
		return 0, fmt.Errorf("stat %s: %w", path, err)
	}
	return info.Size(), nil
}

// Put writes data to path, creating intermediate directories as needed.
func (d *Fs) Put(ctx context.Context, path string, data []byte) error {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return fmt.Errorf("expanding %s: %w", path, err)
	}

	if dir := filepath.Dir(expanded); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating directory for %s: %w", path, err)
		}
	}

	if err := os.WriteFile(expanded, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	d.log.Debug("Wrote local file",
		slog.String("path", expanded),
		slog.Int("size", len(data)))

	return nil
}

// Copy duplicates a local file without involving the caller's buffers.
func (d *Fs) Copy(ctx context.Context, src, dst string) error {
	data, err := d.Get(ctx, src)
	if err != nil {
		return err
	}
	return d.Put(ctx, dst, data)
}

// Resolve expands a glob path. A trailing "*" matches immediate children,
// a trailing "**" matches recursively; both exclude directories from the
// results. A path with no trailing glob resolves to itself.
func (d *Fs) Resolve(ctx context.Context, path string, verbose bool) ([]string, error) {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return nil, fmt.Errorf("expanding %s: %w", path, err)
	}

	if !strings.HasSuffix(expanded, "*") {
		return []string{expanded}, nil
	}

	if strings.HasSuffix(expanded, "**") {
		root := strings.TrimSuffix(expanded, "**")
		if root == "" {
			root = "."
		}
		return d.walk(root)
	}

	matches, err := filepath.Glob(expanded)
	if err != nil {
		return nil, fmt.Errorf("%w: bad glob %s: %v", interfaces.ErrInvalidArgument, path, err)
	}

	var results []string
	for _, m := range matches {
		info, err := os.Stat(m)
		if err != nil || info.IsDir() {
			continue
		}
		results = append(results, m)
	}
	return results, nil
}

// walk collects every regular file under root, depth-first in lexical
// order.
func (d *Fs) walk(root string) ([]string, error) {
	var results []string
	err := filepath.WalkDir(root, func(p string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			return nil
		}
		results = append(results, p)
		return nil
	})
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", interfaces.ErrNotFound, root)
		}
		return nil, fmt.Errorf("walking %s: %w", root, err)
	}
	return results, nil
}
