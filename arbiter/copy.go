package arbiter

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/arbiterfs/arbiter/interfaces"
)

// Copy copies src to dst. A src denoting a single file delegates to
// CopyFile; a directory or glob src resolves recursively and mirrors the
// relative structure under dst. A multi-file copy that fails partway leaves
// already-copied files in place; the first error aborts.
func (a *Arbiter) Copy(ctx context.Context, src, dst string, verbose bool) error {
	if src == "" {
		return fmt.Errorf("%w: cannot copy from empty source", interfaces.ErrInvalidArgument)
	}
	if dst == "" {
		return fmt.Errorf("%w: cannot copy to empty destination", interfaces.ErrInvalidArgument)
	}

	// The filesystem driver expands "~" when resolving, so the common
	// prefix must be expanded the same way or it never matches the
	// resolved paths. Scheme-prefixed paths come back unchanged.
	src, err := ExpandTilde(src)
	if err != nil {
		return fmt.Errorf("expanding %s: %w", src, err)
	}
	dst, err = ExpandTilde(dst)
	if err != nil {
		return fmt.Errorf("expanding %s: %w", dst, err)
	}

	// A directory source already ends with a separator; globify it so the
	// resolve layer flattens it recursively.
	srcToResolve := src
	if IsDirectory(src) {
		srcToResolve += "**"
	}

	if !strings.HasSuffix(srcToResolve, "*") {
		return a.CopyFile(ctx, src, dst, verbose)
	}

	// Every resolved path shares the source root as a common prefix;
	// stripping it yields the relative structure to mirror under dst.
	srcEndpoint, err := a.Endpoint(stripGlob(src))
	if err != nil {
		return err
	}
	commonPrefix := srcEndpoint.PrefixedRoot()

	dstEndpoint, err := a.Endpoint(dst)
	if err != nil {
		return err
	}

	if commonPrefix == dstEndpoint.PrefixedRoot() {
		return fmt.Errorf("%w: cannot copy directory %s to itself", interfaces.ErrInvalidArgument, src)
	}

	paths, err := a.Resolve(ctx, srcToResolve, verbose)
	if err != nil {
		return err
	}

	for i, path := range paths {
		subpath := strings.TrimPrefix(path, commonPrefix)

		if verbose {
			fmt.Fprintf(a.progress, "%d / %d: %s -> %s\n",
				i+1, len(paths), path, dstEndpoint.PrefixedFullPath(subpath))
		}

		if dstEndpoint.IsLocal() {
			if err := mkdirp(Dirname(dstEndpoint.FullPath(subpath))); err != nil {
				return err
			}
		}

		data, err := a.Get(ctx, path)
		if err != nil {
			return err
		}
		if err := dstEndpoint.Put(ctx, subpath, data); err != nil {
			return err
		}
	}

	return nil
}

// CopyFile copies a single file to dst. A dst denoting a directory keeps
// the source's basename. Same-scheme copies defer to the driver's
// specialized Copy when it has one; everything else is a full get+put.
func (a *Arbiter) CopyFile(ctx context.Context, file, dst string, verbose bool) error {
	if file == "" {
		return fmt.Errorf("%w: cannot copy from empty source", interfaces.ErrInvalidArgument)
	}
	if dst == "" {
		return fmt.Errorf("%w: cannot copy to empty destination", interfaces.ErrInvalidArgument)
	}

	dstEndpoint, err := a.Endpoint(dst)
	if err != nil {
		return err
	}

	if IsDirectory(dst) {
		dst += Basename(file)
	}

	if verbose {
		fmt.Fprintf(a.progress, "%s -> %s\n", file, dst)
	}

	if dstEndpoint.IsLocal() {
		if err := mkdirp(Dirname(StripScheme(dst))); err != nil {
			return err
		}
	}

	srcDriver, err := a.driverFor(file)
	if err != nil {
		return err
	}
	dstDriver, err := a.driverFor(dst)
	if err != nil {
		return err
	}

	if srcDriver.Type() == dstDriver.Type() {
		if copier, ok := srcDriver.(interfaces.Copier); ok {
			return copier.Copy(ctx, StripScheme(file), StripScheme(dst))
		}
	}

	data, err := a.Get(ctx, file)
	if err != nil {
		return err
	}
	return a.Put(ctx, dst, data)
}

// mkdirp creates a local directory and its parents; succeeding when the
// directory already exists.
func mkdirp(dir string) error {
	if dir == "" {
		return nil
	}
	expanded, err := ExpandTilde(dir)
	if err != nil {
		return fmt.Errorf("expanding %s: %w", dir, err)
	}
	if err := os.MkdirAll(expanded, 0755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}
	return nil
}
