package cart

import (
	"context"
	"errors"
)

// ErrNoStore means the context carries no *Store.
var ErrNoStore = errors.New("cart: no Store in context")

type ctxKey struct{}

// NewContext returns a copy of ctx carrying s.
func NewContext(ctx context.Context, s *Store) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext returns the Store carried by ctx.
func FromContext(ctx context.Context) (*Store, error) {
	s, ok := ctx.Value(ctxKey{}).(*Store)
	if !ok || s == nil {
		return nil, ErrNoStore
	}
	return s, nil
}

// MustFromContext is FromContext that panics. Reaching the panic is a
// wiring mistake, not a runtime condition.
func MustFromContext(ctx context.Context) *Store {
	s, err := FromContext(ctx)
	if err != nil {
		panic("cart: MustFromContext called without a Store in context")
	}
	return s
}
