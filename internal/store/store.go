// Package store defines the key-value slot the cart is persisted to.
// Backends live in the sub-packages.
package store

import (
	"context"
	"errors"
)

// CartKey is the single slot holding the serialized cart.
const CartKey = "@GoMarketplace:CartProducts"

// ErrClosed is returned by backends used after Close.
var ErrClosed = errors.New("store: closed")

// Storage is a minimal blob store. Get reports ok=false for a key that
// was never written. Set overwrites.
type Storage interface {
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte) error
}
