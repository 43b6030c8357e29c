package main

import (
	"context"
	"fmt"

	"github.com/hiveflow/hiveflow/internal/config"
	"github.com/hiveflow/hiveflow/internal/memory"
)

// openStore builds the coordination store selected by configuration,
// with an optional command-line override.
func openStore(ctx context.Context, cfg *config.Config, override string) (memory.Store, error) {
	backend := cfg.Store.Backend
	if override != "" {
		backend = override
	}

	switch backend {
	case "memory":
		return memory.NewMemStore(), nil
	case "sqlite":
		path := cfg.Store.SQLitePath
		if path == "" {
			path = memory.DefaultDBPath()
		}
		return memory.OpenSQLite(path)
	case "redis":
		return memory.OpenRedis(ctx, cfg.Store.RedisURL)
	default:
		return nil, fmt.Errorf("unknown store backend %q (want memory, sqlite, or redis)", backend)
	}
}
