package cmd

import (
	"context"
	"fmt"

	"github.com/Rana718/Seedling/internal/config"
	"github.com/Rana718/Seedling/internal/database"
	"github.com/Rana718/Seedling/internal/schema"
)

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// openStore connects to the configured database. The caller must Close it.
func openStore(ctx context.Context, cfg *config.Config) (database.Store, error) {
	dbURL, err := cfg.GetDatabaseURL()
	if err != nil {
		return nil, fmt.Errorf("failed to get database URL: %w", err)
	}
	return database.Open(ctx, cfg.Database.Provider, dbURL)
}

func loadSchema(path string) (*schema.Schema, error) {
	s, err := schema.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load schema %s: %w", path, err)
	}
	return s, nil
}
