package database

import (
	"context"
	"fmt"

	"github.com/Rana718/Seedling/internal/database/mysql"
	"github.com/Rana718/Seedling/internal/database/postgres"
	"github.com/Rana718/Seedling/internal/database/sqlite"
)

func NewAdapter(provider string) Store {
	switch provider {
	case "postgresql", "postgres":
		return postgres.New()
	case "mysql":
		return mysql.New()
	default:
		return sqlite.New()
	}
}

// Open connects to the store for provider and verifies the connection. The
// caller owns the returned store and must Close it.
func Open(ctx context.Context, provider, url string) (Store, error) {
	store := NewAdapter(provider)
	if err := store.Connect(ctx, url); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := store.Ping(ctx); err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return store, nil
}
