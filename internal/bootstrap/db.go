package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shopgraph/shopgraph/config"
	"github.com/shopgraph/shopgraph/internal/storage/postgres"
)

type DBOptions struct {
	ConnectTO time.Duration
	PingTO    time.Duration
}

// OpenDB opens the service-side Postgres pool. The service only pings
// it from the health endpoint; all data reads go to the graph store.
func OpenDB(ctx context.Context, cfg *config.DatabaseConfig, opt DBOptions) (*pgxpool.Pool, error) {
	if opt.ConnectTO == 0 {
		opt.ConnectTO = 5 * time.Second
	}
	if opt.PingTO == 0 {
		opt.PingTO = 2 * time.Second
	}

	cctx, cancel := context.WithTimeout(ctx, opt.ConnectTO)
	defer cancel()

	pool, err := pgxpool.New(cctx, postgres.DSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("db connect: %w", err)
	}

	pctx, pcancel := context.WithTimeout(ctx, opt.PingTO)
	defer pcancel()

	if err := pool.Ping(pctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("db ping: %w", err)
	}

	return pool, nil
}
