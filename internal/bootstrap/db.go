package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/GoSim-25-26J-441/tee-designer/config"
	"github.com/GoSim-25-26J-441/tee-designer/internal/designer/repository"
	"github.com/GoSim-25-26J-441/tee-designer/internal/storage/postgres"
	"github.com/GoSim-25-26J-441/tee-designer/internal/storage/sqlite"
)

type StoreOptions struct {
	ConnectTO time.Duration
	// Redis is reused when the backend is redis; it may be nil otherwise.
	Redis *redis.Client
}

// OpenStore opens the slot store selected by STORE_BACKEND. close releases SQL connections.
func OpenStore(ctx context.Context, cfg *config.Config, opt StoreOptions) (repository.SlotStore, func() error, error) {
	if opt.ConnectTO == 0 {
		opt.ConnectTO = 5 * time.Second
	}
	cctx, cancel := context.WithTimeout(ctx, opt.ConnectTO)
	defer cancel()

	noop := func() error { return nil }

	switch cfg.Store.Backend {
	case "redis":
		if opt.Redis == nil {
			return nil, nil, fmt.Errorf("redis store requires a redis client")
		}
		return repository.NewRedisSlotStore(opt.Redis, cfg.Redis.SlotTTL), noop, nil

	case "postgres":
		db, err := postgres.NewConnection(cctx, &cfg.Database)
		if err != nil {
			return nil, nil, fmt.Errorf("db connect: %w", err)
		}
		return migrated(cctx, db, repository.DriverPostgres)

	case "sqlite":
		db, err := sqlite.NewConnection(cctx, &cfg.SQLite)
		if err != nil {
			return nil, nil, fmt.Errorf("db connect: %w", err)
		}
		return migrated(cctx, db, repository.DriverSQLite)
	}

	return nil, nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
}

func migrated(ctx context.Context, db *sql.DB, driver string) (repository.SlotStore, func() error, error) {
	store := repository.NewSQLSlotStore(db, driver)
	if err := store.Migrate(ctx); err != nil {
		db.Close()
		return nil, nil, err
	}
	return store, db.Close, nil
}
