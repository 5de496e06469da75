package catalog

import (
	"context"
)

// Stats holds node counts per entity label.
type Stats struct {
	Customers  int64 `json:"customers"`
	Products   int64 `json:"products"`
	Orders     int64 `json:"orders"`
	Categories int64 `json:"categories"`
}

// Product is one catalog entry with its category name.
type Product struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Category string  `json:"category"`
}

type OrderItem struct {
	ProductID   int64   `json:"product_id"`
	ProductName string  `json:"product_name"`
	Quantity    int64   `json:"quantity"`
	Price       float64 `json:"price"`
}

// Order is one order in a customer's history, items grouped under it.
type Order struct {
	OrderID   int64       `json:"order_id"`
	OrderDate string      `json:"order_date"`
	Items     []OrderItem `json:"items"`
}

// Reader is the read surface the service needs from the graph client.
type Reader interface {
	Collect(ctx context.Context, query string, params map[string]any) ([]map[string]any, error)
}

// Service answers the non-recommendation reads over the loaded graph.
type Service struct {
	store Reader
}

func NewService(store Reader) *Service {
	return &Service{store: store}
}

// Stats counts nodes per label. Four separate counts rather than one
// statement: a label with zero nodes must still report zero, and chained
// aggregations drop the row entirely when one stage matches nothing.
func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	var out Stats
	counts := []struct {
		query string
		dst   *int64
	}{
		{`MATCH (c:Customer) RETURN count(c) AS count`, &out.Customers},
		{`MATCH (p:Product) RETURN count(p) AS count`, &out.Products},
		{`MATCH (o:Order) RETURN count(o) AS count`, &out.Orders},
		{`MATCH (c:Category) RETURN count(c) AS count`, &out.Categories},
	}

	for _, c := range counts {
		rows, err := s.store.Collect(ctx, c.query, nil)
		if err != nil {
			return nil, err
		}
		if len(rows) > 0 {
			if n, ok := rows[0]["count"].(int64); ok {
				*c.dst = n
			}
		}
	}
	return &out, nil
}

// Products lists every product with its category, ordered by name.
func (s *Service) Products(ctx context.Context) ([]Product, error) {
	const q = `
MATCH (p:Product)-[:IN_CATEGORY]->(c:Category)
RETURN p.id AS id, p.name AS name, p.price AS price,
       c.name AS category
ORDER BY p.name, p.id
`
	rows, err := s.store.Collect(ctx, q, nil)
	if err != nil {
		return nil, err
	}

	out := make([]Product, 0, len(rows))
	for _, row := range rows {
		var p Product
		if v, ok := row["id"].(int64); ok {
			p.ID = v
		}
		if v, ok := row["name"].(string); ok {
			p.Name = v
		}
		switch v := row["price"].(type) {
		case float64:
			p.Price = v
		case int64:
			p.Price = float64(v)
		}
		if v, ok := row["category"].(string); ok {
			p.Category = v
		}
		out = append(out, p)
	}
	return out, nil
}

// CustomerOrders returns the customer's order history, newest order
// first, items grouped per order. An unknown customer yields an empty
// history.
func (s *Service) CustomerOrders(ctx context.Context, customerID int64) ([]Order, error) {
	const q = `
MATCH (c:Customer {id: $customer_id})-[:PLACED]->(o:Order)-[r:CONTAINS]->(p:Product)
RETURN o.id AS order_id, toString(o.ts) AS order_date,
       p.id AS product_id, p.name AS product_name,
       r.quantity AS quantity, p.price AS price
ORDER BY o.ts DESC, o.id, p.id
`
	rows, err := s.store.Collect(ctx, q, map[string]any{"customer_id": customerID})
	if err != nil {
		return nil, err
	}

	orders := make([]Order, 0, 8)
	index := make(map[int64]int)
	for _, row := range rows {
		orderID, _ := row["order_id"].(int64)
		i, ok := index[orderID]
		if !ok {
			i = len(orders)
			index[orderID] = i
			date, _ := row["order_date"].(string)
			orders = append(orders, Order{OrderID: orderID, OrderDate: date, Items: []OrderItem{}})
		}

		var item OrderItem
		if v, ok := row["product_id"].(int64); ok {
			item.ProductID = v
		}
		if v, ok := row["product_name"].(string); ok {
			item.ProductName = v
		}
		if v, ok := row["quantity"].(int64); ok {
			item.Quantity = v
		}
		switch v := row["price"].(type) {
		case float64:
			item.Price = v
		case int64:
			item.Price = float64(v)
		}
		orders[i].Items = append(orders[i].Items, item)
	}
	return orders, nil
}
