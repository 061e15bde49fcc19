package arbiter

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/mitchellh/go-homedir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arbiterfs/arbiter/interfaces"
)

func TestCopyArgumentValidation(t *testing.T) {
	a := newTestClient(t, "")
	ctx := context.Background()

	assert.ErrorIs(t, a.Copy(ctx, "", "test://dst/", false), interfaces.ErrInvalidArgument)
	assert.ErrorIs(t, a.Copy(ctx, "test://src/", "", false), interfaces.ErrInvalidArgument)
	assert.ErrorIs(t, a.CopyFile(ctx, "", "test://dst/", false), interfaces.ErrInvalidArgument)
	assert.ErrorIs(t, a.CopyFile(ctx, "test://src/x", "", false), interfaces.ErrInvalidArgument)
}

func TestCopyDirectoryToItself(t *testing.T) {
	a := newTestClient(t, "")
	ctx := context.Background()

	require.NoError(t, a.Put(ctx, "test://dir/a", []byte("a")))

	err := a.Copy(ctx, "test://dir/", "test://dir/", false)
	require.Error(t, err)
	assert.ErrorIs(t, err, interfaces.ErrInvalidArgument)
	assert.Contains(t, err.Error(), "itself")

	// Glob forms of the same root are rejected too.
	err = a.Copy(ctx, "test://dir/*", "test://dir/", false)
	assert.ErrorIs(t, err, interfaces.ErrInvalidArgument)
}

func TestCopyFileIntoDirectoryKeepsBasename(t *testing.T) {
	a := newTestClient(t, "")
	ctx := context.Background()

	require.NoError(t, a.Put(ctx, "test://src/report.txt", []byte("contents")))

	require.NoError(t, a.CopyFile(ctx, "test://src/report.txt", "test://dst/dir/", false))

	data, err := a.Get(ctx, "test://dst/dir/report.txt")
	require.NoError(t, err)
	assert.Equal(t, []byte("contents"), data)
}

func TestCopyFileCrossBackend(t *testing.T) {
	a := newTestClient(t, "")
	ctx := context.Background()
	dir := t.TempDir()

	local := filepath.Join(dir, "data.bin")
	require.NoError(t, os.WriteFile(local, []byte("local bytes"), 0644))

	t.Run("local to in-memory", func(t *testing.T) {
		require.NoError(t, a.CopyFile(ctx, local, "test://uploaded/data.bin", false))
		data, err := a.Get(ctx, "test://uploaded/data.bin")
		require.NoError(t, err)
		assert.Equal(t, []byte("local bytes"), data)
	})

	t.Run("in-memory to local creates directories", func(t *testing.T) {
		dst := filepath.Join(dir, "nested", "out", "data.bin")
		require.NoError(t, a.CopyFile(ctx, "test://uploaded/data.bin", dst, false))

		data, err := os.ReadFile(dst)
		require.NoError(t, err)
		assert.Equal(t, []byte("local bytes"), data)
	})
}

func TestCopyGlobMirrorsStructure(t *testing.T) {
	a := newTestClient(t, "")
	ctx := context.Background()
	dir := t.TempDir()

	files := map[string]string{
		"tree/top.txt":        "top",
		"tree/sub/mid.txt":    "mid",
		"tree/sub/deep/b.txt": "deep",
	}
	for name, contents := range files {
		require.NoError(t, os.WriteFile(mkpath(t, dir, name), []byte(contents), 0644))
	}

	require.NoError(t, a.Copy(ctx, dir+"/tree/", "test://mirror/", false))

	for name, contents := range files {
		rel := name[len("tree/"):]
		data, err := a.Get(ctx, "test://mirror/"+rel)
		require.NoError(t, err, "expected %s to be copied", rel)
		assert.Equal(t, []byte(contents), data)
	}
}

func TestCopySingleLevelGlob(t *testing.T) {
	a := newTestClient(t, "")
	ctx := context.Background()
	dir := t.TempDir()

	require.NoError(t, os.WriteFile(mkpath(t, dir, "tree/top.txt"), []byte("top"), 0644))
	require.NoError(t, os.WriteFile(mkpath(t, dir, "tree/sub/mid.txt"), []byte("mid"), 0644))

	require.NoError(t, a.Copy(ctx, dir+"/tree/*", "test://single/", false))

	_, err := a.Get(ctx, "test://single/top.txt")
	require.NoError(t, err)

	_, err = a.Get(ctx, "test://single/sub/mid.txt")
	assert.ErrorIs(t, err, interfaces.ErrNotFound)
}

func TestCopyTildeSource(t *testing.T) {
	homedir.DisableCache = true
	homedir.Reset()
	t.Cleanup(func() {
		homedir.DisableCache = false
		homedir.Reset()
	})

	home := t.TempDir()
	t.Setenv("HOME", home)

	a := newTestClient(t, "")
	ctx := context.Background()

	require.NoError(t, os.MkdirAll(filepath.Join(home, "data"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(home, "data", "x.txt"), []byte("tilde"), 0644))

	require.NoError(t, a.Copy(ctx, "~/data/", "test://out/", false))

	// The resolved source paths are absolute; the destination must carry
	// only the structure below the source root.
	data, err := a.Get(ctx, "test://out/x.txt")
	require.NoError(t, err)
	assert.Equal(t, []byte("tilde"), data)
}

func TestCopyVerboseProgress(t *testing.T) {
	a := newTestClient(t, "")
	ctx := context.Background()

	var progress bytes.Buffer
	a.SetProgressWriter(&progress)

	require.NoError(t, a.Put(ctx, "test://vsrc/a.txt", []byte("a")))
	require.NoError(t, a.Put(ctx, "test://vsrc/b.txt", []byte("b")))

	require.NoError(t, a.Copy(ctx, "test://vsrc/", "test://vdst/", true))

	out := progress.String()
	assert.Contains(t, out, "1 / 2: ")
	assert.Contains(t, out, "2 / 2: ")
	assert.Contains(t, out, "test://vdst/")
}

func TestCopyRemoteToLocal(t *testing.T) {
	a := newTestClient(t, "")
	ctx := context.Background()
	dir := t.TempDir()

	require.NoError(t, a.Put(ctx, "test://pull/x/one", []byte("1")))
	require.NoError(t, a.Put(ctx, "test://pull/x/y/two", []byte("2")))

	require.NoError(t, a.Copy(ctx, "test://pull/", dir+"/out/", false))

	one, err := os.ReadFile(filepath.Join(dir, "out", "x", "one"))
	require.NoError(t, err)
	assert.Equal(t, []byte("1"), one)

	two, err := os.ReadFile(filepath.Join(dir, "out", "x", "y", "two"))
	require.NoError(t, err)
	assert.Equal(t, []byte("2"), two)
}

// mkpath joins dir and name, creating intermediate directories.
func mkpath(t *testing.T, dir, name string) string {
	t.Helper()
	full := filepath.Join(dir, filepath.FromSlash(name))
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0755))
	return full
}

func ExampleArbiter_Copy() {
	a, _ := New(nil)
	_ = a.Put(context.Background(), "test://docs/readme.md", []byte("hello"))
	_ = a.Copy(context.Background(), "test://docs/", "test://backup/", false)

	data, _ := a.Get(context.Background(), "test://backup/readme.md")
	fmt.Println(string(data))
	// Output: hello
}
