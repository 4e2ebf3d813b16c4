package cli

import (
	"fmt"
	"log/slog"

	"github.com/aretw0/itfview/internal/config"
	"github.com/aretw0/itfview/pkg/adapters/file"
	"github.com/aretw0/itfview/pkg/adapters/memory"
	"github.com/aretw0/itfview/pkg/adapters/redis"
	"github.com/aretw0/itfview/pkg/session"
	backend "github.com/redis/go-redis/v9"
)

// setupPersistence builds the session manager for the configured backend.
// The returned func releases backend connections.
func setupPersistence(cfg config.Config, logger *slog.Logger) (*session.Manager, func() error, error) {
	opts := []session.Option{
		session.WithDefaults(cfg.View),
		session.WithLogger(logger),
	}
	noop := func() error { return nil }

	switch cfg.Store.Backend {
	case config.BackendMemory, "":
		return session.NewManager(memory.NewStore(), opts...), noop, nil

	case config.BackendFile:
		logger.Info("Using file store", "path", cfg.Store.Path)
		return session.NewManager(file.New(cfg.Store.Path), opts...), noop, nil

	case config.BackendRedis:
		rc := cfg.Store.Redis
		client := backend.NewClient(&backend.Options{
			Addr:     rc.Addr,
			Password: rc.Password,
			DB:       rc.DB,
		})
		store := redis.NewFromClient(client, redis.WithPrefix(rc.Prefix), redis.WithTTL(rc.TTL))
		opts = append(opts, session.WithLocker(redis.NewLocker(client, rc.Prefix)))
		logger.Info("Using redis store", "addr", rc.Addr, "db", rc.DB, "prefix", rc.Prefix)
		return session.NewManager(store, opts...), store.Close, nil
	}
	return nil, nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
}
