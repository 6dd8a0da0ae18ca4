package handle

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromPath(t *testing.T) {
	t.Run("handle is fixed length with zero tail", func(t *testing.T) {
		dir := t.TempDir()
		fh := FromPath(dir)

		require.Len(t, fh, Size)
		for _, b := range fh[16:] {
			assert.Zero(t, b)
		}
	})

	t.Run("distinct objects get distinct handles", func(t *testing.T) {
		dir := t.TempDir()
		a := filepath.Join(dir, "a")
		b := filepath.Join(dir, "b")
		require.NoError(t, os.WriteFile(a, []byte("a"), 0o644))
		require.NoError(t, os.WriteFile(b, []byte("b"), 0o644))

		assert.NotEqual(t, FromPath(a), FromPath(b))
	})

	t.Run("vanished path encodes the sentinel", func(t *testing.T) {
		fh := FromPath("/does/not/exist/anywhere")
		_, _, ok := Decode(fh)
		assert.False(t, ok)
	})
}

func TestDecode(t *testing.T) {
	t.Run("round trips dev and ino", func(t *testing.T) {
		fh := make([]byte, Size)
		binary.BigEndian.PutUint64(fh[0:8], 0x11)
		binary.BigEndian.PutUint64(fh[8:16], 0x2222)

		dev, ino, ok := Decode(fh)
		require.True(t, ok)
		assert.Equal(t, uint64(0x11), dev)
		assert.Equal(t, uint64(0x2222), ino)
	})

	t.Run("rejects wrong lengths", func(t *testing.T) {
		for _, n := range []int{0, 4, 16, 31, 33, 64} {
			_, _, ok := Decode(make([]byte, n))
			assert.False(t, ok, "length %d", n)
		}
	})

	t.Run("rejects zero inode", func(t *testing.T) {
		fh := make([]byte, Size)
		binary.BigEndian.PutUint64(fh[0:8], 7)
		_, _, ok := Decode(fh)
		assert.False(t, ok)
	})
}

func TestResolver(t *testing.T) {
	t.Run("resolves a nested file", func(t *testing.T) {
		dir := t.TempDir()
		sub := filepath.Join(dir, "sub")
		require.NoError(t, os.Mkdir(sub, 0o755))
		file := filepath.Join(sub, "data.bin")
		require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

		r := NewResolver([]string{dir}, 0)
		path, ok := r.Resolve(FromPath(file))
		require.True(t, ok)
		assert.Equal(t, file, path)
	})

	t.Run("resolves the root itself", func(t *testing.T) {
		dir := t.TempDir()
		r := NewResolver([]string{dir}, 0)

		path, ok := r.Resolve(FromPath(dir))
		require.True(t, ok)
		assert.Equal(t, dir, path)
	})

	t.Run("searches multiple roots", func(t *testing.T) {
		first := t.TempDir()
		second := t.TempDir()
		file := filepath.Join(second, "here.txt")
		require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

		r := NewResolver([]string{first, second}, 0)
		path, ok := r.Resolve(FromPath(file))
		require.True(t, ok)
		assert.Equal(t, file, path)
	})

	t.Run("fails for a deleted object", func(t *testing.T) {
		dir := t.TempDir()
		file := filepath.Join(dir, "gone.txt")
		require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

		fh := FromPath(file)
		require.NoError(t, os.Remove(file))

		r := NewResolver([]string{dir}, 0)
		_, ok := r.Resolve(fh)
		assert.False(t, ok)
	})

	t.Run("cache survives a rename via revalidation", func(t *testing.T) {
		dir := t.TempDir()
		oldPath := filepath.Join(dir, "old.txt")
		require.NoError(t, os.WriteFile(oldPath, []byte("x"), 0o644))
		fh := FromPath(oldPath)

		r := NewResolver([]string{dir}, 0)

		// prime the cache with the old path
		path, ok := r.Resolve(fh)
		require.True(t, ok)
		require.Equal(t, oldPath, path)

		// rename keeps the inode; the cached entry no longer matches and
		// the walk must find the new name
		newPath := filepath.Join(dir, "new.txt")
		require.NoError(t, os.Rename(oldPath, newPath))

		path, ok = r.Resolve(fh)
		require.True(t, ok)
		assert.Equal(t, newPath, path)
	})

	t.Run("rejects malformed handles", func(t *testing.T) {
		r := NewResolver([]string{t.TempDir()}, 0)
		_, ok := r.Resolve([]byte{1, 2, 3})
		assert.False(t, ok)
		_, ok = r.Resolve(nil)
		assert.False(t, ok)
	})
}
