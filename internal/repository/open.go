package repository

import (
	"context"
	"fmt"

	"github.com/unclebandit/campaign-scheduler/internal/config"
	"github.com/unclebandit/campaign-scheduler/internal/db"
)

// Open builds the store named by cfg.StoreDriver. The returned func releases its
// connections.
func Open(ctx context.Context, cfg config.Config) (CampaignStore, func(), error) {
	switch cfg.StoreDriver {
	case config.StorePostgres:
		conn, err := db.Open(ctx, db.Options{
			Host:     cfg.DBHost,
			Port:     cfg.DBPort,
			User:     cfg.DBUser,
			Password: cfg.DBPassword,
			Name:     cfg.DBName,
			SSLMode:  cfg.DBSSLMode,
		})
		if err != nil {
			return nil, nil, err
		}
		store := &PostgresStore{DB: conn, Key: cfg.StoreKey}
		if err := store.EnsureSchema(ctx); err != nil {
			conn.Close()
			return nil, nil, err
		}
		return store, func() { conn.Close() }, nil

	case config.StoreRedis:
		store := NewRedisStore(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.StoreKey)
		if err := store.Ping(ctx); err != nil {
			store.Close()
			return nil, nil, fmt.Errorf("ping redis: %w", err)
		}
		return store, func() { store.Close() }, nil

	case config.StoreMemory:
		return NewMemoryStore(), func() {}, nil
	}
	return nil, nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
}
