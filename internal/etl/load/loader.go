package load

import (
	"context"
	"fmt"
	"log"

	"golang.org/x/time/rate"

	"github.com/shopgraph/shopgraph/internal/etl/domain"
)

// Store is the write surface the loader needs from the graph client.
type Store interface {
	Run(ctx context.Context, query string, params map[string]any) error
	Single(ctx context.Context, query string, params map[string]any) (map[string]any, error)
}

const DefaultBatchSize = 500

// Loader upserts extracted rows into the graph, one entity set at a time.
// Every write is a merge keyed by natural id, so replaying the same
// snapshot changes nothing. A single bad row is logged and skipped; it
// never takes the batch or the run down with it.
type Loader struct {
	store     Store
	batchSize int
	limiter   *rate.Limiter
}

type Option func(*Loader)

// WithBatchSize sets the chunk size used to walk an entity set.
func WithBatchSize(n int) Option {
	return func(l *Loader) {
		if n > 0 {
			l.batchSize = n
		}
	}
}

// WithMergeRate caps merge statements per second, for runs against a
// shared store. Zero leaves writes unthrottled.
func WithMergeRate(perSec int) Option {
	return func(l *Loader) {
		if perSec > 0 {
			l.limiter = rate.NewLimiter(rate.Limit(perSec), perSec)
		}
	}
}

func New(store Store, opts ...Option) *Loader {
	l := &Loader{store: store, batchSize: DefaultBatchSize}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// merge runs one write statement, honoring the rate limit when set.
func (l *Loader) merge(ctx context.Context, query string, params map[string]any) error {
	if l.limiter != nil {
		if err := l.limiter.Wait(ctx); err != nil {
			return err
		}
	}
	return l.store.Run(ctx, query, params)
}

// mergeChecked runs a relationship merge whose endpoints must already
// exist. The statement ends in RETURN count(r) AS merged; a zero count
// means a MATCH found nothing and the edge was not written.
func (l *Loader) mergeChecked(ctx context.Context, query string, params map[string]any) error {
	if l.limiter != nil {
		if err := l.limiter.Wait(ctx); err != nil {
			return err
		}
	}

	rec, err := l.store.Single(ctx, query, params)
	if err != nil {
		return err
	}
	if merged, ok := rec["merged"].(int64); !ok || merged == 0 {
		return domain.ErrMissingEndpoint
	}
	return nil
}

func (l *Loader) Categories(ctx context.Context, rows []domain.CategoryRow) domain.EntityReport {
	const q = `
MERGE (c:Category {id: $id})
SET c.name = $name
`
	rep := domain.EntityReport{Entity: "categories", Extracted: len(rows)}
	for start := 0; start < len(rows); start += l.batchSize {
		end := min(start+l.batchSize, len(rows))
		for _, row := range rows[start:end] {
			err := l.merge(ctx, q, map[string]any{"id": row.ID, "name": row.Name})
			if err != nil {
				log.Printf("Category %d merge failed (skipping): %v", row.ID, err)
				rep.Failed++
				continue
			}
			rep.Loaded++
		}
		l.progress(rep.Entity, end, len(rows))
	}
	return rep
}

// Products also merges the category endpoint, so a product arriving
// before its category still gets its IN_CATEGORY edge; the category
// load fills in the name later.
func (l *Loader) Products(ctx context.Context, rows []domain.ProductRow) domain.EntityReport {
	const q = `
MERGE (p:Product {id: $id})
SET p.name = $name, p.price = $price
WITH p
MERGE (c:Category {id: $category_id})
MERGE (p)-[:IN_CATEGORY]->(c)
`
	rep := domain.EntityReport{Entity: "products", Extracted: len(rows)}
	for start := 0; start < len(rows); start += l.batchSize {
		end := min(start+l.batchSize, len(rows))
		for _, row := range rows[start:end] {
			price, err := domain.ParsePrice(row.Price)
			if err == nil {
				err = l.merge(ctx, q, map[string]any{
					"id":          row.ID,
					"name":        row.Name,
					"price":       price,
					"category_id": row.CategoryID,
				})
			}
			if err != nil {
				log.Printf("Product %d merge failed (skipping): %v", row.ID, err)
				rep.Failed++
				continue
			}
			rep.Loaded++
		}
		l.progress(rep.Entity, end, len(rows))
	}
	return rep
}

func (l *Loader) Customers(ctx context.Context, rows []domain.CustomerRow) domain.EntityReport {
	const q = `
MERGE (c:Customer {id: $id})
SET c.name = $name, c.join_date = date($join_date)
`
	rep := domain.EntityReport{Entity: "customers", Extracted: len(rows)}
	for start := 0; start < len(rows); start += l.batchSize {
		end := min(start+l.batchSize, len(rows))
		for _, row := range rows[start:end] {
			joinDate, err := domain.NormalizeDate(row.JoinDate)
			if err == nil {
				err = l.merge(ctx, q, map[string]any{
					"id":        row.ID,
					"name":      row.Name,
					"join_date": joinDate,
				})
			}
			if err != nil {
				log.Printf("Customer %d merge failed (skipping): %v", row.ID, err)
				rep.Failed++
				continue
			}
			rep.Loaded++
		}
		l.progress(rep.Entity, end, len(rows))
	}
	return rep
}

// Orders merges the customer endpoint for the same reason Products
// merges the category.
func (l *Loader) Orders(ctx context.Context, rows []domain.OrderRow) domain.EntityReport {
	const q = `
MERGE (o:Order {id: $id})
SET o.ts = datetime($ts)
WITH o
MERGE (c:Customer {id: $customer_id})
MERGE (c)-[:PLACED]->(o)
`
	rep := domain.EntityReport{Entity: "orders", Extracted: len(rows)}
	for start := 0; start < len(rows); start += l.batchSize {
		end := min(start+l.batchSize, len(rows))
		for _, row := range rows[start:end] {
			ts, err := domain.NormalizeTimestamp(row.Timestamp)
			if err == nil {
				err = l.merge(ctx, q, map[string]any{
					"id":          row.ID,
					"customer_id": row.CustomerID,
					"ts":          ts,
				})
			}
			if err != nil {
				log.Printf("Order %d merge failed (skipping): %v", row.ID, err)
				rep.Failed++
				continue
			}
			rep.Loaded++
		}
		l.progress(rep.Entity, end, len(rows))
	}
	return rep
}

// OrderItems requires both the order and the product to exist already;
// a row referencing an absent endpoint is reported and skipped.
func (l *Loader) OrderItems(ctx context.Context, rows []domain.OrderItemRow) domain.EntityReport {
	const q = `
MATCH (o:Order {id: $order_id})
MATCH (p:Product {id: $product_id})
MERGE (o)-[r:CONTAINS]->(p)
SET r.quantity = $quantity
RETURN count(r) AS merged
`
	rep := domain.EntityReport{Entity: "order_items", Extracted: len(rows)}
	for start := 0; start < len(rows); start += l.batchSize {
		end := min(start+l.batchSize, len(rows))
		for _, row := range rows[start:end] {
			err := validQuantity(row.Quantity)
			if err == nil {
				err = l.mergeChecked(ctx, q, map[string]any{
					"order_id":   row.OrderID,
					"product_id": row.ProductID,
					"quantity":   row.Quantity,
				})
			}
			if err != nil {
				log.Printf("Order item (%d,%d) merge failed (skipping): %v", row.OrderID, row.ProductID, err)
				rep.Failed++
				continue
			}
			rep.Loaded++
		}
		l.progress(rep.Entity, end, len(rows))
	}
	return rep
}

// Events writes one typed interaction edge per (customer, product, type).
// The relationship type comes from the allow-list, never from raw source
// text, so event data cannot inject labels. Replays overwrite ts.
func (l *Loader) Events(ctx context.Context, rows []domain.EventRow) domain.EntityReport {
	const tmpl = `
MATCH (c:Customer {id: $customer_id})
MATCH (p:Product {id: $product_id})
MERGE (c)-[r:%s]->(p)
SET r.ts = datetime($ts)
RETURN count(r) AS merged
`
	rep := domain.EntityReport{Entity: "events", Extracted: len(rows)}
	for start := 0; start < len(rows); start += l.batchSize {
		end := min(start+l.batchSize, len(rows))
		for _, row := range rows[start:end] {
			kind, err := domain.ParseInteractionType(row.EventType)
			var ts string
			if err == nil {
				ts, err = domain.NormalizeTimestamp(row.Timestamp)
			}
			if err == nil {
				err = l.mergeChecked(ctx, fmt.Sprintf(tmpl, kind), map[string]any{
					"customer_id": row.CustomerID,
					"product_id":  row.ProductID,
					"ts":          ts,
				})
			}
			if err != nil {
				log.Printf("Event (%d,%d,%s) merge failed (skipping): %v", row.CustomerID, row.ProductID, row.EventType, err)
				rep.Failed++
				continue
			}
			rep.Loaded++
		}
		l.progress(rep.Entity, end, len(rows))
	}
	return rep
}

func (l *Loader) progress(entity string, done, total int) {
	if total > l.batchSize {
		log.Printf("Loading %s: %d/%d rows processed", entity, done, total)
	}
}

func validQuantity(q int64) error {
	if q <= 0 {
		return fmt.Errorf("%w: quantity %d not positive", domain.ErrRowMergeFailed, q)
	}
	return nil
}
