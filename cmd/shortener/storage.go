package main

import (
	"context"
	"fmt"

	"github.com/tempizhere/shortlinks/internal/app"
	"github.com/tempizhere/shortlinks/internal/config"
	"github.com/tempizhere/shortlinks/internal/repository"
	"go.uber.org/zap"
)

// storage выбранный персистентный слой
type storage struct {
	persister repository.Persister
	pinger    app.Pinger
	close     func() error
	kind      string
}

// openStorage выбирает хранилище: база данных, если задан DSN, иначе файл, иначе память
func openStorage(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*storage, error) {
	switch {
	case cfg.DatabaseDSN != "":
		db, dialect, err := repository.OpenDB(ctx, cfg.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}
		repo, err := repository.NewSQLRepository(ctx, db, dialect, logger)
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("init sql repository: %w", err)
		}
		return &storage{persister: repo, pinger: repo, close: repo.Close, kind: dialect.String()}, nil
	case cfg.FileStoragePath != "":
		repo := repository.NewFileRepository(cfg.FileStoragePath, logger)
		return &storage{persister: repo, close: noopClose, kind: "file"}, nil
	default:
		return &storage{persister: repository.NewMemoryRepository(), close: noopClose, kind: "memory"}, nil
	}
}

func noopClose() error { return nil }
