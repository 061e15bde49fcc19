package drivers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arbiterfs/arbiter/interfaces"
)

func TestInMemoryGetPut(t *testing.T) {
	d := NewTest()
	ctx := context.Background()

	require.NoError(t, d.Put(ctx, "bucket/obj", []byte("stored")))

	data, err := d.Get(ctx, "bucket/obj")
	require.NoError(t, err)
	assert.Equal(t, []byte("stored"), data)

	size, err := d.GetSize(ctx, "bucket/obj")
	require.NoError(t, err)
	assert.Equal(t, int64(6), size)

	_, err = d.Get(ctx, "bucket/missing")
	assert.ErrorIs(t, err, interfaces.ErrNotFound)
	_, err = d.GetSize(ctx, "bucket/missing")
	assert.ErrorIs(t, err, interfaces.ErrNotFound)
}

func TestInMemoryBufferIsolation(t *testing.T) {
	d := NewTest()
	ctx := context.Background()

	in := []byte("original")
	require.NoError(t, d.Put(ctx, "obj", in))
	in[0] = 'X'

	out, err := d.Get(ctx, "obj")
	require.NoError(t, err)
	assert.Equal(t, []byte("original"), out)

	out[0] = 'Y'
	again, err := d.Get(ctx, "obj")
	require.NoError(t, err)
	assert.Equal(t, []byte("original"), again)
}

func TestInMemoryCopy(t *testing.T) {
	d := NewTest()
	ctx := context.Background()

	require.NoError(t, d.Put(ctx, "src", []byte("payload")))
	require.NoError(t, d.Copy(ctx, "src", "dst"))

	data, err := d.Get(ctx, "dst")
	require.NoError(t, err)
	assert.Equal(t, []byte("payload"), data)

	err = d.Copy(ctx, "absent", "dst")
	assert.ErrorIs(t, err, interfaces.ErrNotFound)
}

func TestInMemoryResolve(t *testing.T) {
	d := NewTest()
	ctx := context.Background()

	for _, path := range []string{"dir/a", "dir/b", "dir/sub/c", "other/d"} {
		require.NoError(t, d.Put(ctx, path, []byte(path)))
	}

	t.Run("no glob resolves to itself", func(t *testing.T) {
		results, err := d.Resolve(ctx, "dir/a", false)
		require.NoError(t, err)
		assert.Equal(t, []string{"test://dir/a"}, results)
	})

	t.Run("single star is one level", func(t *testing.T) {
		results, err := d.Resolve(ctx, "dir/*", false)
		require.NoError(t, err)
		assert.Equal(t, []string{"test://dir/a", "test://dir/b"}, results)
	})

	t.Run("double star recurses", func(t *testing.T) {
		results, err := d.Resolve(ctx, "dir/**", false)
		require.NoError(t, err)
		assert.Equal(t, []string{"test://dir/a", "test://dir/b", "test://dir/sub/c"}, results)
	})

	t.Run("no matches is empty", func(t *testing.T) {
		results, err := d.Resolve(ctx, "nothing/*", false)
		require.NoError(t, err)
		assert.Empty(t, results)
	})
}

func TestInMemoryProperties(t *testing.T) {
	d := NewTest()
	assert.Equal(t, "test", d.Type())
	assert.True(t, d.IsRemote())
}
