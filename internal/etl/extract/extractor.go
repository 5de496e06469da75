package extract

import (
	"context"
	"database/sql"

	"github.com/shopgraph/shopgraph/internal/etl/domain"
)

// Extractor reads full snapshots of the six relational entity sets. All
// reads are plain autocommit queries; nothing here opens a transaction or
// writes. Timestamp and price columns are scanned as text so the loader
// can normalize them before they reach the graph store.
type Extractor struct {
	db *sql.DB
}

func New(db *sql.DB) *Extractor {
	return &Extractor{db: db}
}

func (e *Extractor) Categories(ctx context.Context) ([]domain.CategoryRow, error) {
	const q = `
SELECT id, name
FROM categories
ORDER BY id;
`
	rows, err := e.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.CategoryRow, 0, 16)
	for rows.Next() {
		var r domain.CategoryRow
		if err := rows.Scan(&r.ID, &r.Name); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (e *Extractor) Products(ctx context.Context) ([]domain.ProductRow, error) {
	const q = `
SELECT id, name, price, category_id
FROM products
ORDER BY id;
`
	rows, err := e.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.ProductRow, 0, 64)
	for rows.Next() {
		var r domain.ProductRow
		if err := rows.Scan(&r.ID, &r.Name, &r.Price, &r.CategoryID); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (e *Extractor) Customers(ctx context.Context) ([]domain.CustomerRow, error) {
	const q = `
SELECT id, name, join_date
FROM customers
ORDER BY id;
`
	rows, err := e.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.CustomerRow, 0, 64)
	for rows.Next() {
		var r domain.CustomerRow
		if err := rows.Scan(&r.ID, &r.Name, &r.JoinDate); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (e *Extractor) Orders(ctx context.Context) ([]domain.OrderRow, error) {
	const q = `
SELECT id, customer_id, ts
FROM orders
ORDER BY id;
`
	rows, err := e.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.OrderRow, 0, 128)
	for rows.Next() {
		var r domain.OrderRow
		if err := rows.Scan(&r.ID, &r.CustomerID, &r.Timestamp); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (e *Extractor) OrderItems(ctx context.Context) ([]domain.OrderItemRow, error) {
	const q = `
SELECT order_id, product_id, quantity
FROM order_items
ORDER BY order_id, product_id;
`
	rows, err := e.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.OrderItemRow, 0, 256)
	for rows.Next() {
		var r domain.OrderItemRow
		if err := rows.Scan(&r.OrderID, &r.ProductID, &r.Quantity); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (e *Extractor) Events(ctx context.Context) ([]domain.EventRow, error) {
	const q = `
SELECT customer_id, product_id, event_type, ts
FROM events
ORDER BY customer_id, product_id, ts;
`
	rows, err := e.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.EventRow, 0, 256)
	for rows.Next() {
		var r domain.EventRow
		if err := rows.Scan(&r.CustomerID, &r.ProductID, &r.EventType, &r.Timestamp); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
