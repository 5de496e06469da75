package etl

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/shopgraph/shopgraph/config"
	"github.com/shopgraph/shopgraph/internal/etl/domain"
	"github.com/shopgraph/shopgraph/internal/etl/extract"
	"github.com/shopgraph/shopgraph/internal/etl/load"
	"github.com/shopgraph/shopgraph/internal/etl/schema"
	"github.com/shopgraph/shopgraph/internal/graphstore"
	"github.com/shopgraph/shopgraph/internal/storage/postgres"
)

// GraphStore is what one pipeline run needs from the graph client.
type GraphStore interface {
	Run(ctx context.Context, query string, params map[string]any) error
	Single(ctx context.Context, query string, params map[string]any) (map[string]any, error)
}

// Runner owns one pipeline run end to end: wait for both stores, open
// them, apply schema, then extract and load each entity set in
// dependency order. Connections live exactly as long as the run. Runs
// are idempotent, so rerunning against unchanged sources is always safe.
type Runner struct {
	cfg    *config.Config
	policy RetryPolicy

	// Probe overrides for tests; nil means dial the real dependency.
	sourceProbe func(context.Context) error
	storeProbe  func(context.Context) error
}

func NewRunner(cfg *config.Config) *Runner {
	return &Runner{
		cfg: cfg,
		policy: RetryPolicy{
			MaxAttempts: cfg.ETL.ReadyMaxAttempts,
			Delay:       time.Duration(cfg.ETL.ReadyDelaySeconds) * time.Second,
		},
	}
}

// Run executes the full pipeline once. The returned report always
// carries whatever counts were reached, even when the run aborts.
func (r *Runner) Run(ctx context.Context) (*domain.RunReport, error) {
	report := &domain.RunReport{
		RunID:     uuid.NewString(),
		StartedAt: time.Now(),
	}
	log.Printf("Starting ETL run %s", report.RunID)

	if err := r.awaitSource(ctx); err != nil {
		return report, fmt.Errorf("%w: %v", domain.ErrSourceUnavailable, err)
	}
	if err := r.awaitStore(ctx); err != nil {
		return report, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}

	db, err := postgres.NewConnection(ctx, &r.cfg.Database)
	if err != nil {
		return report, fmt.Errorf("%w: %v", domain.ErrSourceUnavailable, err)
	}
	defer db.Close()

	store, err := graphstore.Open(&r.cfg.Neo4j)
	if err != nil {
		return report, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	defer store.Close(ctx)

	if err := r.execute(ctx, db, store, report); err != nil {
		return report, err
	}

	report.Duration = time.Since(report.StartedAt)
	for _, e := range report.Entities {
		log.Printf("  %s: %d extracted, %d loaded, %d failed", e.Entity, e.Extracted, e.Loaded, e.Failed)
	}
	log.Printf("ETL run %s done in %s (%d row failures)", report.RunID, report.Duration.Round(time.Millisecond), report.TotalFailed())
	return report, nil
}

// execute runs the schema and load stages against already-open stores.
// Split out from Run so the sequencing is testable without real
// connections.
func (r *Runner) execute(ctx context.Context, db *sql.DB, store GraphStore, report *domain.RunReport) error {
	schemaRep, err := schema.New(store).ApplyFile(ctx, r.cfg.ETL.SchemaFile)
	if err != nil {
		log.Printf("Schema step failed (continuing without constraints): %v", err)
	}
	report.SchemaApplied = schemaRep.Applied
	report.SchemaFailed = schemaRep.Failed

	ex := extract.New(db)
	ld := load.New(store,
		load.WithBatchSize(r.cfg.ETL.BatchSize),
		load.WithMergeRate(r.cfg.ETL.MergeRatePerSec),
	)

	// Node sets first, then the relationships that reference them.
	categories, err := ex.Categories(ctx)
	if err != nil {
		return fmt.Errorf("extract categories: %w", err)
	}
	report.Entities = append(report.Entities, ld.Categories(ctx, categories))

	customers, err := ex.Customers(ctx)
	if err != nil {
		return fmt.Errorf("extract customers: %w", err)
	}
	report.Entities = append(report.Entities, ld.Customers(ctx, customers))

	products, err := ex.Products(ctx)
	if err != nil {
		return fmt.Errorf("extract products: %w", err)
	}
	report.Entities = append(report.Entities, ld.Products(ctx, products))

	orders, err := ex.Orders(ctx)
	if err != nil {
		return fmt.Errorf("extract orders: %w", err)
	}
	report.Entities = append(report.Entities, ld.Orders(ctx, orders))

	items, err := ex.OrderItems(ctx)
	if err != nil {
		return fmt.Errorf("extract order items: %w", err)
	}
	report.Entities = append(report.Entities, ld.OrderItems(ctx, items))

	events, err := ex.Events(ctx)
	if err != nil {
		return fmt.Errorf("extract events: %w", err)
	}
	report.Entities = append(report.Entities, ld.Events(ctx, events))

	return nil
}

func (r *Runner) awaitSource(ctx context.Context) error {
	probe := r.sourceProbe
	if probe == nil {
		probe = r.pingSource
	}
	return r.policy.await(ctx, "PostgreSQL", probe)
}

func (r *Runner) awaitStore(ctx context.Context) error {
	probe := r.storeProbe
	if probe == nil {
		probe = r.pingStore
	}
	return r.policy.await(ctx, "Neo4j", probe)
}

func (r *Runner) pingSource(ctx context.Context) error {
	db, err := sql.Open("postgres", postgres.DSN(&r.cfg.Database))
	if err != nil {
		return err
	}
	defer db.Close()
	return db.PingContext(ctx)
}

func (r *Runner) pingStore(ctx context.Context) error {
	store, err := graphstore.Open(&r.cfg.Neo4j)
	if err != nil {
		return err
	}
	defer store.Close(ctx)
	return store.VerifyConnectivity(ctx)
}
