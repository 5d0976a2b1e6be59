package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jonathan/talent-match/internal/config"
	"github.com/jonathan/talent-match/internal/db"
	"github.com/jonathan/talent-match/internal/localstore"
	"github.com/jonathan/talent-match/internal/scorecache"
)

// backends holds the connections a long-running command opens
type backends struct {
	database *db.DB
	cache    *scorecache.Cache
	closers  []func()
}

func (b *backends) Close() {
	for i := len(b.closers) - 1; i >= 0; i-- {
		b.closers[i]()
	}
}

// openBackends connects to Postgres when database-url is set and builds the score cache on the
// configured backend.
func openBackends(ctx context.Context, cfg *config.Config, log *zap.Logger) (*backends, error) {
	b := &backends{}

	if cfg.DatabaseURL != "" {
		database, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		b.database = database
		b.closers = append(b.closers, database.Close)
	}

	var store scorecache.Store
	switch cfg.Cache.Backend {
	case config.BackendMemory:
		store = scorecache.NewMemoryStore()
	case config.BackendSQLite:
		local, err := localstore.Open(ctx, cfg.Cache.SQLitePath)
		if err != nil {
			b.Close()
			return nil, err
		}
		b.closers = append(b.closers, func() { _ = local.Close() })
		store = local
	case config.BackendPostgres:
		if b.database == nil {
			return nil, fmt.Errorf("cache backend %q requires database-url", cfg.Cache.Backend)
		}
		store = b.database
	default:
		b.Close()
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Cache.Backend)
	}

	b.cache = scorecache.New(store, &scorecache.Config{TTL: cfg.Cache.TTL, Logger: log})
	log.Debug("score cache ready", zap.String("backend", cfg.Cache.Backend), zap.Duration("ttl", cfg.Cache.TTL))
	return b, nil
}
