// Package app assembles the adapters selected by configuration. It is the
// composition root shared by the sorter CLI and the HTTP server.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"parcel-sorting-service/internal/adapters/parcelsource"
	"parcel-sorting-service/internal/adapters/repositories"
	"parcel-sorting-service/internal/adapters/routedetails"
	"parcel-sorting-service/internal/adapters/storage"
	"parcel-sorting-service/internal/config"
	"parcel-sorting-service/internal/domain"
	"parcel-sorting-service/internal/platform/db"
	"parcel-sorting-service/internal/ports"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// FromDatabase selects the Postgres parcel repository instead of a CSV file.
const FromDatabase = "-"

type Components struct {
	Depots       []*domain.Depot
	Source       ports.ParcelSource
	Syncer       *routedetails.Client
	Store        ports.DepotStore
	HealthChecks map[string]func(ctx context.Context) error

	db      *sql.DB
	closers []func() error
}

// Build wires depots, the parcel source at parcelsPath (or Postgres for
// FromDatabase), the route details client and the configured depot store.
func Build(ctx context.Context, cfg config.Config, parcelsPath string, logger *zap.Logger) (_ *Components, err error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	c := &Components{HealthChecks: map[string]func(ctx context.Context) error{}}
	defer func() {
		if err != nil {
			_ = c.Close()
		}
	}()

	if c.Depots, err = config.LoadDepots(cfg.DepotsFile); err != nil {
		return nil, fmt.Errorf("build: %w", err)
	}

	if parcelsPath == FromDatabase {
		conn, err := c.database(ctx, cfg)
		if err != nil {
			return nil, err
		}
		c.Source = repositories.NewPostgresParcelRepository(conn)
	} else {
		c.Source = parcelsource.NewCSVFile(parcelsPath)
	}

	c.Syncer, err = routedetails.NewClient(
		cfg.RouteServiceURL,
		cfg.RouteServiceToken,
		cfg.Concurrency,
		routedetails.WithMaxAttempts(cfg.MaxAttempts),
		routedetails.WithBackoff(cfg.Backoff),
		routedetails.WithHTTPClient(&http.Client{Timeout: cfg.HTTPTimeout}),
		routedetails.WithRateLimit(cfg.RateLimit),
		routedetails.WithLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("build: %w", err)
	}

	switch cfg.Store {
	case "postgres":
		conn, err := c.database(ctx, cfg)
		if err != nil {
			return nil, err
		}
		c.Store = repositories.NewPostgresDepotStore(conn)
	case "redis":
		rdb, err := storage.OpenRedis(ctx, cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("build: %w", err)
		}
		c.closers = append(c.closers, rdb.Close)
		c.HealthChecks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
		c.Store = storage.NewRedisDepotStore(rdb, cfg.RedisTTL)
	default:
		store, err := storage.NewJSONFileStore(cfg.OutputDir)
		if err != nil {
			return nil, fmt.Errorf("build: %w", err)
		}
		c.Store = store
	}

	logger.Info("components ready",
		zap.Int("depots", len(c.Depots)),
		zap.String("parcels", parcelsPath),
		zap.String("store", cfg.Store),
		zap.Int("concurrency", c.Syncer.Limit()),
	)

	return c, nil
}

// database opens Postgres once and makes sure the schema exists.
func (c *Components) database(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if c.db != nil {
		return c.db, nil
	}
	if cfg.DatabaseURL == "" {
		return nil, errors.New("build: DATABASE_URL is required for postgres")
	}

	conn, err := db.Open(ctx, cfg.DatabaseURL, db.DefaultPoolConfig())
	if err != nil {
		return nil, fmt.Errorf("build: %w", err)
	}
	c.closers = append(c.closers, conn.Close)
	c.HealthChecks["postgres"] = conn.PingContext

	if err := repositories.InitSchema(ctx, conn); err != nil {
		return nil, fmt.Errorf("build: %w", err)
	}

	c.db = conn
	return conn, nil
}

// Close releases database and redis connections.
func (c *Components) Close() error {
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil && !errors.Is(err, redis.ErrClosed) {
			errs = append(errs, err)
		}
	}
	c.closers = nil
	return errors.Join(errs...)
}
