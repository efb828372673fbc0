package redisstore

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/cart/internal/store"
)

func TestRoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx := context.Background()

	s, err := Connect(ctx, Options{Addr: mr.Addr()}, nil)
	require.NoError(t, err)
	defer s.Close()

	_, ok, err := s.Get(ctx, store.CartKey)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set(ctx, store.CartKey, []byte(`[]`)))
	v, ok, err := s.Get(ctx, store.CartKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "[]", string(v))

	got, err := mr.Get(store.CartKey)
	require.NoError(t, err)
	assert.Equal(t, "[]", got)
}

func TestServerDown(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx := context.Background()
	s, err := Connect(ctx, Options{Addr: mr.Addr()}, nil)
	require.NoError(t, err)
	defer s.Close()

	mr.Close()
	assert.Error(t, s.Set(ctx, store.CartKey, []byte("[]")))
	_, _, err = s.Get(ctx, store.CartKey)
	assert.Error(t, err)
}

func TestConnectFails(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := Connect(context.Background(), Options{Addr: addr}, nil)
	assert.Error(t, err)
}
