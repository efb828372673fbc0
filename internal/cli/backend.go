package cli

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/idilsaglam/cart/internal/config"
	"github.com/idilsaglam/cart/internal/store"
	"github.com/idilsaglam/cart/internal/store/jsonstore"
	"github.com/idilsaglam/cart/internal/store/memstore"
	"github.com/idilsaglam/cart/internal/store/redisstore"
	"github.com/idilsaglam/cart/internal/store/sqlitestore"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// OpenStorage returns the backend cfg names. The closer must be called
// once the cart has flushed.
func OpenStorage(ctx context.Context, cfg config.Config, logger *zap.Logger) (store.Storage, io.Closer, error) {
	switch cfg.Backend {
	case config.BackendJSON:
		s, err := jsonstore.New(cfg.File)
		if err != nil {
			return nil, nil, fmt.Errorf("json store: %w", err)
		}
		return s, nopCloser{}, nil
	case config.BackendSQLite:
		s, err := sqlitestore.Open(cfg.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("sqlite store: %w", err)
		}
		return s, s, nil
	case config.BackendRedis:
		s, err := redisstore.Connect(ctx, redisstore.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("redis store: %w", err)
		}
		return s, s, nil
	case config.BackendMemory:
		s := memstore.New()
		return s, s, nil
	}
	return nil, nil, fmt.Errorf("unknown backend %q", cfg.Backend)
}
