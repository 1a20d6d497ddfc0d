// Package app opens the external backends selected by configuration.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"gorm.io/gorm"

	"legumes/internal/auth"
	"legumes/internal/cache"
	"legumes/internal/config"
	"legumes/internal/db"
	"legumes/internal/identity"
	"legumes/internal/logging"
	"legumes/internal/repository"
	"legumes/internal/store"
)

// Backends are the long-lived clients shared by every request.
type Backends struct {
	Provider identity.Provider
	Store    store.Client
	Cache    *cache.Client
	DB       *gorm.DB
}

// Open connects the identity provider, the record store and redis.
// SQL schemas are migrated when a SQL backend is selected.
func Open(ctx context.Context, cfg *config.Config, log logging.Logger) (*Backends, error) {
	b := &Backends{Cache: cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)}
	if err := b.Cache.Ping(ctx); err != nil {
		log.Warn(ctx, "redis unavailable, caching and rate limits disabled until it recovers", "addr", cfg.RedisAddr, "error", err)
	}

	if cfg.UsesSQL() {
		gdb, err := db.Open(cfg.DBDriver, cfg.DatabaseDSN)
		if err != nil {
			return nil, errors.Join(err, b.Close())
		}
		b.DB = gdb
	}

	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}

	switch cfg.IdentityBackend {
	case config.BackendLocal:
		if err := db.MigrateAccounts(b.DB); err != nil {
			return nil, errors.Join(fmt.Errorf("migrate accounts: %w", err), b.Close())
		}
		jwtService := auth.NewJWTService(cfg.JWTSecret, cfg.TokenTTL)
		b.Provider = identity.NewLocalProvider(repository.NewAccountRepository(b.DB), jwtService)
	default:
		b.Provider = identity.NewGoTrueClient(cfg.ServiceURL, cfg.ServiceKey, httpClient)
	}

	switch cfg.StoreBackend {
	case config.BackendSQL:
		if err := db.Migrate(ctx, b.DB, cfg.DBDriver); err != nil {
			return nil, errors.Join(err, b.Close())
		}
		b.Store = store.NewGormClient(b.DB)
	default:
		b.Store = store.NewRESTClient(cfg.ServiceURL, cfg.ServiceKey, httpClient)
	}

	log.Info(ctx, "backends ready", "identity", cfg.IdentityBackend, "store", cfg.StoreBackend)
	return b, nil
}

// Close releases connections.
func (b *Backends) Close() error {
	var errs []error
	if b.DB != nil {
		if sqlDB, err := b.DB.DB(); err == nil {
			errs = append(errs, sqlDB.Close())
		}
	}
	errs = append(errs, b.Cache.Close())
	return errors.Join(errs...)
}
