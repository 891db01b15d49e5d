// Package store builds the monitor's report store from configuration.
package store

import (
	"fmt"
	"log/slog"

	"github.com/hipstereclipse/vacmon/cmd/vacmond/config"
	"github.com/hipstereclipse/vacmon/pkg/storage"
)

// New creates the configured storage backend.
// Redis stores are pinged on creation, so a bad address fails fast.
func New(cfg *config.Config, logger *slog.Logger) (storage.Store, error) {
	switch cfg.Storage {
	case "redis":
		store, err := storage.NewRedisStore(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.RedisTTL)
		if err != nil {
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		logger.Info("using redis storage", "addr", cfg.RedisAddr, "ttl", cfg.RedisTTL)
		return store, nil
	case "memory":
		logger.Info("using in-memory storage")
		return storage.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage)
	}
}
