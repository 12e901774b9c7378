package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"floorforge/internal/config"
	"floorforge/pkg/cache"
	"floorforge/pkg/store"
)

// openCache builds the scene cache backend selected by the config.
func openCache(ctx context.Context, configPath string, disabled bool, logger *log.Logger) (cache.Cache, error) {
	if disabled {
		return cache.NewNullCache(), nil
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	switch cfg.Cache.Backend {
	case "", "none":
		return cache.NewNullCache(), nil

	case "file":
		dir := cfg.Cache.Dir
		if dir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return nil, fmt.Errorf("get home dir: %w", err)
			}
			dir = filepath.Join(home, ".cache", "floorforge")
		}
		logger.Debug("using file cache", "dir", dir)
		return cache.NewFileCache(dir)

	case "redis":
		logger.Debug("using redis cache", "addr", cfg.Cache.RedisAddr)
		return cache.NewRedisCache(ctx, cache.RedisConfig{Addr: cfg.Cache.RedisAddr})

	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Cache.Backend)
	}
}

// openStore builds the layout store backend selected by the config.
func openStore(ctx context.Context, cfg *config.Config, logger *log.Logger) (store.Store, error) {
	switch cfg.Store.Backend {
	case "", "file":
		logger.Debug("using file store", "dir", cfg.Store.Dir)
		return store.NewFileStore(cfg.Store.Dir)

	case "memory":
		return store.NewMemoryStore(), nil

	case "mongo":
		logger.Debug("using mongo store", "uri", cfg.Store.MongoURI)
		return store.NewMongoStore(ctx, store.MongoConfig{
			URI:      cfg.Store.MongoURI,
			Database: cfg.Store.MongoDB,
		})

	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}
