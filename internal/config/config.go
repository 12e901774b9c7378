// Package config loads floorforge configuration from a TOML file with
// environment-variable overrides.
//
// Configuration resolution order, later wins:
//
//  1. Built-in defaults
//  2. The TOML file, if present
//  3. FLOORFORGE_* environment variables
//
// A missing config file is not an error; the defaults describe a fully
// local setup (file store, no cache).
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Config is the top-level configuration.
type Config struct {
	Listen string      `toml:"listen"`
	Cache  CacheConfig `toml:"cache"`
	Store  StoreConfig `toml:"store"`
}

// CacheConfig selects and parameterizes the scene cache backend.
type CacheConfig struct {
	Backend   string `toml:"backend"` // "none", "file", or "redis"
	Dir       string `toml:"dir"`
	RedisAddr string `toml:"redis_addr"`
}

// StoreConfig selects and parameterizes the layout store backend.
type StoreConfig struct {
	Backend  string `toml:"backend"` // "file", "memory", or "mongo"
	Dir      string `toml:"dir"`
	MongoURI string `toml:"mongo_uri"`
	MongoDB  string `toml:"mongo_db"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Listen: ":8420",
		Cache:  CacheConfig{Backend: "none"},
		Store:  StoreConfig{Backend: "file"},
	}
}

// Load reads configuration from path, falling back to defaults when path is
// empty or the file does not exist, then applies environment overrides.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("decode config %s: %w", path, err)
			}
		}
	}

	applyEnv(cfg)
	return cfg, nil
}

// applyEnv overlays FLOORFORGE_* environment variables.
func applyEnv(cfg *Config) {
	setFromEnv(&cfg.Listen, "FLOORFORGE_LISTEN")
	setFromEnv(&cfg.Cache.Backend, "FLOORFORGE_CACHE_BACKEND")
	setFromEnv(&cfg.Cache.Dir, "FLOORFORGE_CACHE_DIR")
	setFromEnv(&cfg.Cache.RedisAddr, "FLOORFORGE_REDIS_ADDR")
	setFromEnv(&cfg.Store.Backend, "FLOORFORGE_STORE_BACKEND")
	setFromEnv(&cfg.Store.Dir, "FLOORFORGE_STORE_DIR")
	setFromEnv(&cfg.Store.MongoURI, "FLOORFORGE_MONGO_URI")
	setFromEnv(&cfg.Store.MongoDB, "FLOORFORGE_MONGO_DB")
}

func setFromEnv(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
