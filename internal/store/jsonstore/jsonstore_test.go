package jsonstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/cart/internal/store"
)

func TestMissingFileIsAbsent(t *testing.T) {
	s, err := New(filepath.Join(t.TempDir(), "cart.json"))
	require.NoError(t, err)

	_, ok, err := s.Get(context.Background(), store.CartKey)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSetThenGet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "cart.json")
	s, err := New(path)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, store.CartKey, []byte(`[{"id":"1"}]`)))
	require.NoError(t, s.Set(ctx, "other", []byte("x")))

	v, ok, err := s.Get(ctx, store.CartKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `[{"id":"1"}]`, string(v))

	// a second store over the same file sees both slots
	s2, err := New(path)
	require.NoError(t, err)
	v, ok, err = s2.Get(ctx, "other")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "x", string(v))
}

func TestCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cart.json")
	require.NoError(t, os.WriteFile(path, []byte("{nope"), 0o644))
	s, err := New(path)
	require.NoError(t, err)

	_, _, err = s.Get(context.Background(), store.CartKey)
	assert.ErrorContains(t, err, "json unmarshal")
}

func TestDefaultPath(t *testing.T) {
	s, err := New("")
	require.NoError(t, err)
	assert.Equal(t, DefaultFileName, filepath.Base(s.Path()))
}
