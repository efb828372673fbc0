// Package cart owns the in-memory shopping cart and mirrors it to a
// storage slot after every change.
//
// Mutations update memory synchronously and persist in the background.
// Each returns a *Write the caller may wait on or ignore. By default
// concurrent writes race and the slot holds whichever finished last; use
// WithOrderedWrites to make the slot always end at the latest cart.
package cart

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"

	"go.uber.org/zap"

	"github.com/idilsaglam/cart/internal/model"
	"github.com/idilsaglam/cart/internal/store"
)

type Option func(*Store)

// WithLogger sets the logger. Default is a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithErrorHandler is called with every failed persist.
func WithErrorHandler(fn func(error)) Option {
	return func(s *Store) { s.onError = fn }
}

// WithOrderedWrites serializes persists and skips snapshots already
// superseded by a newer one.
func WithOrderedWrites() Option {
	return func(s *Store) { s.ordered = true }
}

// WithKey overrides the storage slot. Default is store.CartKey.
func WithKey(key string) Option {
	return func(s *Store) { s.key = key }
}

type Store struct {
	storage store.Storage
	key     string
	logger  *zap.Logger
	onError func(error)
	ordered bool

	mu       sync.Mutex
	products []model.Product
	seq      uint64
	subs     map[int]func([]model.Product)
	nextSub  int

	// notifyMu is taken before mu by every writer of products so
	// subscribers see snapshots in mutation order.
	notifyMu sync.Mutex

	ready   chan struct{}
	loadErr error

	pending map[*Write]struct{} // guarded by mu
	writeMu sync.Mutex
	written uint64
}

// New returns a store and starts loading the persisted cart in the
// background. Products is empty until Ready is closed.
func New(ctx context.Context, storage store.Storage, opts ...Option) *Store {
	s := &Store{
		storage:  storage,
		key:      store.CartKey,
		logger:   zap.NewNop(),
		products: []model.Product{},
		subs:     make(map[int]func([]model.Product)),
		pending:  make(map[*Write]struct{}),
		ready:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	go s.load(ctx)
	return s
}

// Open is New followed by waiting for the load. A storage read failure is
// returned; a malformed blob leaves the cart empty and is not an error.
func Open(ctx context.Context, storage store.Storage, opts ...Option) (*Store, error) {
	s := New(ctx, storage, opts...)
	select {
	case <-s.ready:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	if err := s.loadErr; err != nil && !errors.Is(err, ErrMalformed) {
		return nil, err
	}
	return s, nil
}

func (s *Store) load(ctx context.Context) {
	defer close(s.ready)

	b, ok, err := s.storage.Get(ctx, s.key)
	if err != nil {
		s.loadErr = fmt.Errorf("load cart: %w", err)
		s.logger.Error("cart load failed", zap.String("key", s.key), zap.Error(err))
		return
	}
	if !ok {
		s.logger.Debug("no persisted cart", zap.String("key", s.key))
		return
	}
	products, err := Decode(b)
	if err != nil {
		s.loadErr = err
		s.logger.Warn("discarding persisted cart", zap.String("key", s.key), zap.Int("bytes", len(b)), zap.Error(err))
		return
	}

	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()
	s.mu.Lock()
	s.products = products
	s.notifyLocked()
	s.logger.Debug("cart loaded", zap.String("key", s.key), zap.Int("entries", len(products)))
}

// Ready is closed once the initial load has finished.
func (s *Store) Ready() <-chan struct{} { return s.ready }

// LoadErr reports why the initial load failed. nil before Ready closes.
func (s *Store) LoadErr() error {
	select {
	case <-s.ready:
		return s.loadErr
	default:
		return nil
	}
}

// Products returns a copy of the cart.
func (s *Store) Products() []model.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return clone(s.products)
}

// AddToCart appends in with quantity 1, or increments the entry that
// already has its id. A NaN or infinite price is stored as 0, which is
// what a JSON round trip of such a price yields.
func (s *Store) AddToCart(in model.ProductInput) *Write {
	if math.IsNaN(in.Price) || math.IsInf(in.Price, 0) {
		in.Price = 0
	}
	return s.mutate("add", func(ps []model.Product) []model.Product {
		if indexOf(ps, in.ID) >= 0 {
			return increment(ps, in.ID)
		}
		return append(ps, model.Product{
			ID:       in.ID,
			Title:    in.Title,
			ImageURL: in.ImageURL,
			Price:    in.Price,
			Quantity: 1,
		})
	})
}

// Increment adds one to the entry with id. An unknown id leaves the cart
// as is; it is still persisted.
func (s *Store) Increment(id string) *Write {
	return s.mutate("increment", func(ps []model.Product) []model.Product {
		return increment(ps, id)
	})
}

// Decrement removes one from the entry with id and drops it at zero.
func (s *Store) Decrement(id string) *Write {
	return s.mutate("decrement", func(ps []model.Product) []model.Product {
		if i := indexOf(ps, id); i >= 0 {
			ps[i].Quantity--
		}
		out := ps[:0]
		for _, p := range ps {
			if p.Quantity > 0 {
				out = append(out, p)
			}
		}
		return out
	})
}

// Clear empties the cart.
func (s *Store) Clear() *Write {
	return s.mutate("clear", func([]model.Product) []model.Product {
		return []model.Product{}
	})
}

// Subscribe registers fn to receive a snapshot after every change to the
// in-memory cart, in mutation order. fn runs on the mutating goroutine:
// it must not block or mutate the store. The returned func unregisters it.
func (s *Store) Subscribe(fn func([]model.Product)) (cancel func()) {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
		})
	}
}

// Flush waits for the initial load and for every persist started so far.
func (s *Store) Flush(ctx context.Context) error {
	select {
	case <-s.ready:
	case <-ctx.Done():
		return ctx.Err()
	}
	s.mu.Lock()
	writes := make([]*Write, 0, len(s.pending))
	for w := range s.pending {
		writes = append(writes, w)
	}
	s.mu.Unlock()
	for _, w := range writes {
		select {
		case <-w.Done():
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

func (s *Store) mutate(op string, fn func([]model.Product) []model.Product) *Write {
	w := newWrite()
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()
	s.mu.Lock()
	s.products = fn(clone(s.products))
	s.seq++
	seq := s.seq
	snap := clone(s.products)
	s.pending[w] = struct{}{}
	s.notifyLocked()
	s.persist(w, op, seq, snap)
	return w
}

// notifyLocked must be called with notifyMu and mu held. It releases mu
// before running the callbacks.
func (s *Store) notifyLocked() {
	subs := make([]func([]model.Product), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	snap := s.products
	s.mu.Unlock()
	for _, fn := range subs {
		fn(clone(snap))
	}
}

// persist runs off the mutating goroutine so failures never reach onError
// while notifyMu is held.
func (s *Store) persist(w *Write, op string, seq uint64, snap []model.Product) {
	go func() {
		b, err := Encode(snap)
		if err != nil {
			s.settle(w, s.fail(op, err))
			return
		}
		s.settle(w, s.write(op, seq, b))
	}()
}

func (s *Store) settle(w *Write, err error) {
	s.mu.Lock()
	delete(s.pending, w)
	s.mu.Unlock()
	w.finish(err)
}

func (s *Store) write(op string, seq uint64, b []byte) error {
	if s.ordered {
		s.writeMu.Lock()
		defer s.writeMu.Unlock()
		if seq < s.written {
			s.logger.Debug("skipping superseded cart write", zap.String("op", op), zap.Uint64("seq", seq))
			return nil
		}
		s.written = seq
	}
	if err := s.storage.Set(context.Background(), s.key, b); err != nil {
		return s.fail(op, err)
	}
	s.logger.Debug("cart persisted", zap.String("op", op), zap.Uint64("seq", seq), zap.Int("bytes", len(b)))
	return nil
}

func (s *Store) fail(op string, err error) error {
	err = fmt.Errorf("persist cart after %s: %w", op, err)
	s.logger.Error("cart write failed", zap.String("key", s.key), zap.String("op", op), zap.Error(err))
	if s.onError != nil {
		s.onError(err)
	}
	return err
}

func indexOf(ps []model.Product, id string) int {
	for i := range ps {
		if ps[i].ID == id {
			return i
		}
	}
	return -1
}

func increment(ps []model.Product, id string) []model.Product {
	if i := indexOf(ps, id); i >= 0 {
		ps[i].Quantity++
	}
	return ps
}

func clone(ps []model.Product) []model.Product {
	out := make([]model.Product, len(ps))
	copy(out, ps)
	return out
}
