package store

import (
	"context"
	"fmt"

	"github.com/monochain/monochain/internal/chain"
	"github.com/monochain/monochain/internal/config"
)

// Open builds the configured chain.Store backend.
func Open(ctx context.Context, cfg config.StoreConfig) (chain.Store, error) {
	switch cfg.Backend {
	case config.BackendMemory:
		return NewMemory(), nil
	case config.BackendFile:
		return OpenFile(cfg.Path)
	case config.BackendPostgres:
		return OpenPostgres(ctx, cfg.ConnString)
	default:
		return nil, fmt.Errorf("unknown store backend: %s", cfg.Backend)
	}
}
