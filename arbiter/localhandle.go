package arbiter

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"

	"github.com/arbiterfs/arbiter/interfaces"
)

// LocalHandle is a guaranteed-local view of a path: remote objects are
// materialized into a temporary file, local paths are passed through.
// Release removes the temporary copy; it is a no-op for passthrough
// handles.
type LocalHandle struct {
	localPath string
	erase     bool
}

// LocalPath returns the path of the local file.
func (h *LocalHandle) LocalPath() string {
	return h.localPath
}

// Release removes the materialized copy, if any. Safe to call more than
// once.
func (h *LocalHandle) Release() error {
	if !h.erase {
		return nil
	}
	h.erase = false
	if err := os.Remove(h.localPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing %s: %w", h.localPath, err)
	}
	return nil
}

// LocalHandle materializes path into tempDir when it is remote, preserving
// the extension under a random basename; local paths come back unchanged
// (tilde-expanded) with no copy. An empty tempDir uses the system temp
// directory.
func (a *Arbiter) LocalHandle(ctx context.Context, path, tempDir string) (*LocalHandle, error) {
	remote, err := a.IsRemote(path)
	if err != nil {
		return nil, err
	}

	if !remote {
		expanded, err := ExpandTilde(StripScheme(path))
		if err != nil {
			return nil, fmt.Errorf("expanding %s: %w", path, err)
		}
		return &LocalHandle{localPath: expanded}, nil
	}

	if tempDir == "" {
		tempDir = os.TempDir()
	}

	tempEndpoint, err := a.Endpoint(tempDir)
	if err != nil {
		return nil, err
	}
	if tempEndpoint.IsRemote() {
		return nil, fmt.Errorf("%w: temporary endpoint %s must be local", interfaces.ErrInvalidArgument, tempDir)
	}

	basename := uuid.NewString()
	if ext := Extension(path); ext != "" {
		basename += "." + ext
	}

	data, err := a.Get(ctx, path)
	if err != nil {
		return nil, err
	}
	if err := tempEndpoint.Put(ctx, basename, data); err != nil {
		return nil, err
	}

	return &LocalHandle{
		localPath: tempEndpoint.FullPath(basename),
		erase:     true,
	}, nil
}
