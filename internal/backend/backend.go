// Package backend selects and constructs the registry repository from
// configuration.
package backend

import (
	"context"
	"fmt"
	"log/slog"

	"fintrack/internal/config"
	"fintrack/internal/ledger"
	"fintrack/internal/storage"
)

// Repository persists the complete registry snapshot. Both backends rewrite
// the snapshot wholesale on Save; there is no incremental persistence.
type Repository interface {
	Load(ctx context.Context) (*ledger.Registry, error)
	Save(ctx context.Context, reg *ledger.Registry) error
	Close() error
}

// New builds the repository named by cfg.DataBackend.
func New(logger *slog.Logger, cfg *config.Config) (Repository, error) {
	switch cfg.DataBackend {
	case "file":
		repo, err := storage.NewFileRepository(cfg.DataFile)
		if err != nil {
			return nil, fmt.Errorf("initialize file backend: %w", err)
		}
		logger.Info("Initialized file backend", "path", cfg.DataFile)
		return repo, nil

	case "sqlite":
		repo, err := storage.NewSQLiteRepository(cfg.SQLiteDB)
		if err != nil {
			return nil, fmt.Errorf("initialize sqlite backend: %w", err)
		}
		logger.Info("Initialized sqlite backend", "db_path", cfg.SQLiteDB)
		return repo, nil

	default:
		return nil, fmt.Errorf("unsupported data backend: %s", cfg.DataBackend)
	}
}
