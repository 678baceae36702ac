package di

import (
	"context"
	"fmt"

	"github.com/aristath/breakeven/internal/config"
	"github.com/aristath/breakeven/internal/database"
	"github.com/rs/zerolog"
)

// InitializeDatabases opens and migrates the history database
func InitializeDatabases(cfg *config.Config, log zerolog.Logger) (*Container, error) {
	container := &Container{}

	historyDB, err := database.New(database.Config{
		Path: cfg.HistoryDBPath(),
		Name: "history",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize history database: %w", err)
	}

	if err := historyDB.Migrate(context.Background()); err != nil {
		_ = historyDB.Close()
		return nil, fmt.Errorf("failed to migrate history database: %w", err)
	}

	container.HistoryDB = historyDB
	container.closers = append(container.closers, historyDB.Close)

	log.Info().Str("path", historyDB.Path()).Msg("History database initialized")

	return container, nil
}
