package recommendations

import (
	"context"
)

// DefaultLimit is the result size used when the caller does not ask for
// a specific one.
const DefaultLimit = 5

// Recommendation is one ranked product together with the metric that
// ranked it: distinct neighbors for collaborative, category relevance
// for content-based, units sold for popularity, shared orders for
// frequently-bought-together.
type Recommendation struct {
	ProductID int64   `json:"product_id"`
	Name      string  `json:"product_name"`
	Price     float64 `json:"price"`
	Category  string  `json:"category"`
	Score     int64   `json:"score"`
}

// Reader is the read surface the engine needs from the graph client.
type Reader interface {
	Collect(ctx context.Context, query string, params map[string]any) ([]map[string]any, error)
}

// Engine evaluates the four ranking strategies. It holds no state beyond
// the store handle, so one Engine serves any number of concurrent
// queries. Unknown customer or product ids simply match nothing and come
// back as empty lists. Every ranking step breaks score ties by product
// id ascending, so results are stable across runs.
type Engine struct {
	store Reader
}

func NewEngine(store Reader) *Engine {
	return &Engine{store: store}
}

// Collaborative recommends products bought by the customers whose
// purchase sets overlap the target's the most (top ten neighbors by
// shared distinct products), excluding anything the target already
// bought. Score is the number of distinct neighbors who bought the
// candidate.
func (e *Engine) Collaborative(ctx context.Context, customerID int64, limit int) ([]Recommendation, error) {
	const q = `
MATCH (c:Customer {id: $customer_id})-[:PLACED]->(:Order)-[:CONTAINS]->(p:Product)
WITH c, collect(DISTINCT p) AS customer_products

MATCH (other:Customer)-[:PLACED]->(:Order)-[:CONTAINS]->(p:Product)
WHERE other <> c AND p IN customer_products
WITH c, other, count(DISTINCT p) AS common_products, customer_products
ORDER BY common_products DESC, other.id ASC
LIMIT 10

MATCH (other)-[:PLACED]->(:Order)-[:CONTAINS]->(rec:Product)
WHERE NOT rec IN customer_products
WITH rec, count(DISTINCT other) AS score
ORDER BY score DESC, rec.id ASC
LIMIT $limit

MATCH (rec)-[:IN_CATEGORY]->(cat:Category)
RETURN rec.id AS product_id, rec.name AS product_name,
       rec.price AS price, cat.name AS category, score
ORDER BY score DESC, product_id ASC
`
	return e.query(ctx, q, map[string]any{
		"customer_id": customerID,
		"limit":       normalizeLimit(limit),
	})
}

// ContentBased recommends unpurchased products from the categories the
// customer has bought in.
func (e *Engine) ContentBased(ctx context.Context, customerID int64, limit int) ([]Recommendation, error) {
	const q = `
MATCH (c:Customer {id: $customer_id})-[:PLACED]->(:Order)-[:CONTAINS]->(p:Product)-[:IN_CATEGORY]->(cat:Category)
WITH c, collect(DISTINCT cat) AS liked_categories

MATCH (rec:Product)-[:IN_CATEGORY]->(cat:Category)
WHERE cat IN liked_categories
AND NOT EXISTS {
    MATCH (c)-[:PLACED]->(:Order)-[:CONTAINS]->(rec)
}
WITH rec, cat, count(*) AS score
ORDER BY score DESC, rec.id ASC
LIMIT $limit

RETURN rec.id AS product_id, rec.name AS product_name,
       rec.price AS price, cat.name AS category, score
ORDER BY score DESC, product_id ASC
`
	return e.query(ctx, q, map[string]any{
		"customer_id": customerID,
		"limit":       normalizeLimit(limit),
	})
}

// Popular ranks all products by total units sold across every order. No
// customer context: the same list comes back for everyone.
func (e *Engine) Popular(ctx context.Context, limit int) ([]Recommendation, error) {
	const q = `
MATCH (p:Product)<-[r:CONTAINS]-(:Order)
WITH p, sum(r.quantity) AS score
ORDER BY score DESC, p.id ASC
LIMIT $limit

MATCH (p)-[:IN_CATEGORY]->(cat:Category)
RETURN p.id AS product_id, p.name AS product_name,
       p.price AS price, cat.name AS category, score
ORDER BY score DESC, product_id ASC
`
	return e.query(ctx, q, map[string]any{
		"limit": normalizeLimit(limit),
	})
}

// FrequentlyBoughtTogether ranks the products sharing orders with the
// given one by the number of distinct shared orders. The product itself
// is never part of the answer.
func (e *Engine) FrequentlyBoughtTogether(ctx context.Context, productID int64, limit int) ([]Recommendation, error) {
	const q = `
MATCH (p:Product {id: $product_id})<-[:CONTAINS]-(o:Order)-[:CONTAINS]->(rec:Product)
WHERE rec <> p
WITH rec, count(DISTINCT o) AS score
ORDER BY score DESC, rec.id ASC
LIMIT $limit

MATCH (rec)-[:IN_CATEGORY]->(cat:Category)
RETURN rec.id AS product_id, rec.name AS product_name,
       rec.price AS price, cat.name AS category, score
ORDER BY score DESC, product_id ASC
`
	return e.query(ctx, q, map[string]any{
		"product_id": productID,
		"limit":      normalizeLimit(limit),
	})
}

func (e *Engine) query(ctx context.Context, q string, params map[string]any) ([]Recommendation, error) {
	rows, err := e.store.Collect(ctx, q, params)
	if err != nil {
		return nil, err
	}

	out := make([]Recommendation, 0, len(rows))
	for _, row := range rows {
		out = append(out, fromRecord(row))
	}
	return out, nil
}

func fromRecord(rec map[string]any) Recommendation {
	var out Recommendation
	if v, ok := rec["product_id"].(int64); ok {
		out.ProductID = v
	}
	if v, ok := rec["product_name"].(string); ok {
		out.Name = v
	}
	switch p := rec["price"].(type) {
	case float64:
		out.Price = p
	case int64:
		out.Price = float64(p)
	}
	if v, ok := rec["category"].(string); ok {
		out.Category = v
	}
	if v, ok := rec["score"].(int64); ok {
		out.Score = v
	}
	return out
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	return limit
}
