package config

import (
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/viper"
)

const (
	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendPostgres = "postgres"
)

type StoreConfig struct {
	Backend    string
	Path       string
	ConnString string
}

func (c StoreConfig) Validate() error {
	switch c.Backend {
	case BackendMemory:
		return nil
	case BackendFile:
		if c.Path == "" {
			return fmt.Errorf("missing chain file path for the file backend")
		}
		return nil
	case BackendPostgres:
		if c.ConnString == "" {
			return fmt.Errorf("missing PostgreSQL connection string")
		}
		if _, err := pgxpool.ParseConfig(c.ConnString); err != nil {
			return fmt.Errorf("failed to parse PostgreSQL connection string: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("store backend must be one of %s|%s|%s, got %q", BackendMemory, BackendFile, BackendPostgres, c.Backend)
	}
}

func LoadStoreConfigFromCLI() StoreConfig {
	return StoreConfig{
		Backend:    viper.GetString("store"),
		Path:       viper.GetString("chain-file"),
		ConnString: viper.GetString("postgres-conn"),
	}
}
