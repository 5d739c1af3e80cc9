package store

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/boardio/boardio/internal/common/config"
	"github.com/boardio/boardio/internal/common/logger"
)

// Provide creates the store selected by the database configuration and
// returns it together with a cleanup function.
func Provide(ctx context.Context, cfg *config.Config, log *logger.Logger) (Store, func() error, error) {
	switch cfg.Database.Driver {
	case "memory":
		s := NewMemoryStore()
		log.Info("Store initialized", zap.String("db_driver", "memory"))
		return s, func() error { return nil }, nil

	case "sqlite":
		s, err := NewSQLiteStore(cfg.Database.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open sqlite store: %w", err)
		}
		log.Info("Store initialized",
			zap.String("db_driver", "sqlite"),
			zap.String("db_path", cfg.Database.Path))
		return s, s.Close, nil

	case "postgres":
		s, err := NewPostgresStore(ctx, cfg.Database)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open postgres store: %w", err)
		}
		log.Info("Store initialized",
			zap.String("db_driver", "postgres"),
			zap.String("db_host", cfg.Database.Host))
		return s, s.Close, nil

	default:
		return nil, nil, fmt.Errorf("unsupported database driver: %s", cfg.Database.Driver)
	}
}
