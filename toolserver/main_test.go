package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thomasfsr/fitgenius/src/config"
)

func TestOpenObjects(t *testing.T) {
	ctx := context.Background()

	t.Run("none", func(t *testing.T) {
		s, closeFn, err := openObjects(ctx, &config.Config{ObjectStore: "none"})
		require.NoError(t, err)
		defer closeFn()
		assert.Nil(t, s)
	})

	t.Run("dir", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "uploads")
		s, closeFn, err := openObjects(ctx, &config.Config{ObjectStore: "dir", ObjectDir: dir})
		require.NoError(t, err)
		defer closeFn()
		require.NoError(t, s.Put(ctx, "body/a.jpg", "image/jpeg", []byte("x")))
		assert.FileExists(t, filepath.Join(dir, "body", "a.jpg"))
	})

	t.Run("redis", func(t *testing.T) {
		mr := miniredis.RunT(t)
		s, closeFn, err := openObjects(ctx, &config.Config{ObjectStore: "redis", RedisURL: "redis://" + mr.Addr() + "/0"})
		require.NoError(t, err)
		defer closeFn()
		require.NoError(t, s.Put(ctx, "body/a.jpg", "image/jpeg", []byte("x")))
		data, _, err := s.Get(ctx, "body/a.jpg")
		require.NoError(t, err)
		assert.Equal(t, []byte("x"), data)
	})

	t.Run("unreachable redis", func(t *testing.T) {
		_, _, err := openObjects(ctx, &config.Config{ObjectStore: "redis", RedisURL: "redis://127.0.0.1:1/0"})
		require.Error(t, err)
	})
}
