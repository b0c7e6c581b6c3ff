// Package di provides dependency injection for database connections.
package di

import (
	"fmt"

	"github.com/aristath/stockcircle/internal/config"
	"github.com/aristath/stockcircle/internal/database"
	"github.com/rs/zerolog"
)

// InitializeDatabases opens client.db and applies its schema
func InitializeDatabases(cfg *config.Config, log zerolog.Logger) (*Container, error) {
	container := &Container{Config: cfg}

	// client.db - durable client storage (session identity)
	db, err := database.New(database.Config{
		Path: cfg.DatabasePath(),
		Name: "client",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize client database: %w", err)
	}

	if err := db.Migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate client database: %w", err)
	}
	container.DB = db

	log.Info().Str("path", db.Path()).Msg("Client database initialized")
	return container, nil
}
