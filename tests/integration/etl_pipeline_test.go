package integration

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopgraph/shopgraph/config"
	"github.com/shopgraph/shopgraph/internal/catalog"
	"github.com/shopgraph/shopgraph/internal/etl/domain"
	"github.com/shopgraph/shopgraph/internal/etl/load"
	"github.com/shopgraph/shopgraph/internal/etl/schema"
	"github.com/shopgraph/shopgraph/internal/graphstore"
	"github.com/shopgraph/shopgraph/internal/recommendations"
)

// setupTestGraph connects to a disposable Neo4j instance and wipes it.
// Skips the test unless TEST_NEO4J_URI is set; every run starts from an
// empty graph, so point it at a throwaway database only.
func setupTestGraph(t *testing.T) *graphstore.Client {
	uri := os.Getenv("TEST_NEO4J_URI")
	if uri == "" {
		t.Skip("TEST_NEO4J_URI not set, skipping Neo4j integration test")
	}

	cfg := &config.Neo4jConfig{
		URI:      uri,
		User:     envOr("TEST_NEO4J_USER", "neo4j"),
		Password: envOr("TEST_NEO4J_PASSWORD", "password"),
	}

	store, err := graphstore.Open(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close(context.Background()) })

	require.NoError(t, store.VerifyConnectivity(context.Background()))
	require.NoError(t, store.Run(context.Background(), "MATCH (n) DETACH DELETE n", nil))
	return store
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// fixture is a small shop: two customers with overlapping purchases in
// Books, one alone in Garden, one who only browses.
func loadFixture(t *testing.T, store *graphstore.Client) {
	ctx := context.Background()
	loader := load.New(store)

	rep := loader.Categories(ctx, []domain.CategoryRow{
		{ID: 1, Name: "Books"},
		{ID: 2, Name: "Garden"},
	})
	require.Zero(t, rep.Failed)

	rep = loader.Customers(ctx, []domain.CustomerRow{
		{ID: 1, Name: "Alice", JoinDate: "2023-01-10"},
		{ID: 2, Name: "Bob", JoinDate: "2023-02-20"},
		{ID: 3, Name: "Cara", JoinDate: "2023-03-30"},
		{ID: 4, Name: "Dan", JoinDate: "2023-04-01"}, // browses, never orders
	})
	require.Zero(t, rep.Failed)

	rep = loader.Products(ctx, []domain.ProductRow{
		{ID: 10, Name: "Go Guide", Price: "19.99", CategoryID: 1},
		{ID: 11, Name: "SQL Primer", Price: "24.50", CategoryID: 1},
		{ID: 12, Name: "Graph Atlas", Price: "39.00", CategoryID: 1},
		{ID: 20, Name: "Trowel", Price: "7.50", CategoryID: 2},
	})
	require.Zero(t, rep.Failed)

	rep = loader.Orders(ctx, []domain.OrderRow{
		{ID: 100, CustomerID: 1, Timestamp: "2024-03-01 10:00:00"},
		{ID: 101, CustomerID: 2, Timestamp: "2024-03-02 11:00:00"},
		{ID: 102, CustomerID: 3, Timestamp: "2024-03-03 12:00:00"},
	})
	require.Zero(t, rep.Failed)

	rep = loader.OrderItems(ctx, []domain.OrderItemRow{
		{OrderID: 100, ProductID: 10, Quantity: 1},
		{OrderID: 100, ProductID: 11, Quantity: 2},
		{OrderID: 101, ProductID: 10, Quantity: 1},
		{OrderID: 101, ProductID: 12, Quantity: 1},
		{OrderID: 102, ProductID: 20, Quantity: 3},
	})
	require.Zero(t, rep.Failed)

	rep = loader.Events(ctx, []domain.EventRow{
		{CustomerID: 1, ProductID: 12, EventType: "VIEW", Timestamp: "2024-03-01 09:00:00"},
		{CustomerID: 2, ProductID: 11, EventType: "ADD_TO_CART", Timestamp: "2024-03-02 10:30:00"},
		{CustomerID: 4, ProductID: 20, EventType: "CLICK", Timestamp: "2024-03-04 08:00:00"},
	})
	require.Zero(t, rep.Failed)
}

func TestPipelineLoadIsIdempotent(t *testing.T) {
	store := setupTestGraph(t)
	ctx := context.Background()

	_, err := schema.New(store).ApplyFile(ctx, "../../queries.cypher")
	require.NoError(t, err)

	loadFixture(t, store)
	first, err := catalog.NewService(store).Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, &catalog.Stats{Customers: 4, Products: 4, Orders: 3, Categories: 2}, first)

	// Replaying the same snapshot must not grow the graph.
	loadFixture(t, store)
	second, err := catalog.NewService(store).Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	rows, err := store.Collect(ctx, "MATCH ()-[r:CONTAINS]->() RETURN count(r) AS count", nil)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(5), rows[0]["count"], "edge count must survive a replay unchanged")
}

func TestRecommendationsOverLoadedGraph(t *testing.T) {
	store := setupTestGraph(t)
	ctx := context.Background()
	loadFixture(t, store)
	engine := recommendations.NewEngine(store)

	t.Run("collaborative suggests the neighbor's other book", func(t *testing.T) {
		// Alice and Bob share Go Guide; Bob also bought Graph Atlas.
		recs, err := engine.Collaborative(ctx, 1, 5)
		require.NoError(t, err)
		require.NotEmpty(t, recs)
		assert.Equal(t, int64(12), recs[0].ProductID)
		for _, r := range recs {
			assert.NotContains(t, []int64{10, 11}, r.ProductID, "own purchases must never come back")
		}
	})

	t.Run("content-based fills in unpurchased category products", func(t *testing.T) {
		recs, err := engine.ContentBased(ctx, 1, 5)
		require.NoError(t, err)
		require.Len(t, recs, 1)
		assert.Equal(t, int64(12), recs[0].ProductID)
		assert.Equal(t, "Books", recs[0].Category)
	})

	t.Run("popularity ranks by units with id tie-break", func(t *testing.T) {
		recs, err := engine.Popular(ctx, 10)
		require.NoError(t, err)
		require.Len(t, recs, 4)
		// Units: Trowel 3, Go Guide 2, SQL Primer 2, Graph Atlas 1.
		assert.Equal(t, int64(20), recs[0].ProductID)
		assert.Equal(t, int64(10), recs[1].ProductID)
		assert.Equal(t, int64(11), recs[2].ProductID)
		assert.Equal(t, int64(12), recs[3].ProductID)
	})

	t.Run("bought-together never returns the product itself", func(t *testing.T) {
		recs, err := engine.FrequentlyBoughtTogether(ctx, 10, 5)
		require.NoError(t, err)
		require.Len(t, recs, 2)
		for _, r := range recs {
			assert.NotEqual(t, int64(10), r.ProductID)
		}
	})

	t.Run("unknown ids come back empty", func(t *testing.T) {
		recs, err := engine.Collaborative(ctx, 99999, 5)
		require.NoError(t, err)
		assert.Empty(t, recs)
	})

	t.Run("a customer with no orders gets empty lists, not errors", func(t *testing.T) {
		recs, err := engine.Collaborative(ctx, 4, 5)
		require.NoError(t, err)
		assert.Empty(t, recs)

		recs, err = engine.ContentBased(ctx, 4, 5)
		require.NoError(t, err)
		assert.Empty(t, recs)
	})
}

// A product row can arrive before its category's. The product load must
// still produce the IN_CATEGORY edge, and the later category load fills
// in the name without duplicating anything.
func TestProductBeforeCategoryKeepsRelationship(t *testing.T) {
	store := setupTestGraph(t)
	ctx := context.Background()
	loader := load.New(store)

	rep := loader.Products(ctx, []domain.ProductRow{
		{ID: 10, Name: "Go Guide", Price: "29.99", CategoryID: 1},
	})
	require.Zero(t, rep.Failed)

	rep = loader.Categories(ctx, []domain.CategoryRow{{ID: 1, Name: "Books"}})
	require.Zero(t, rep.Failed)

	// A second product pass must not add a second edge.
	rep = loader.Products(ctx, []domain.ProductRow{
		{ID: 10, Name: "Go Guide", Price: "29.99", CategoryID: 1},
	})
	require.Zero(t, rep.Failed)

	rows, err := store.Collect(ctx, "MATCH (:Product {id: 10})-[r:IN_CATEGORY]->(c:Category) RETURN count(r) AS edges, collect(c.name) AS names", nil)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(1), rows[0]["edges"])
	assert.Equal(t, []any{"Books"}, rows[0]["names"])

	products, err := catalog.NewService(store).Products(ctx)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, catalog.Product{ID: 10, Name: "Go Guide", Price: 29.99, Category: "Books"}, products[0])
}

func TestCustomerOrderHistoryOverLoadedGraph(t *testing.T) {
	store := setupTestGraph(t)
	ctx := context.Background()
	loadFixture(t, store)

	orders, err := catalog.NewService(store).CustomerOrders(ctx, 1)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, int64(100), orders[0].OrderID)
	assert.Len(t, orders[0].Items, 2)
}

func TestLoaderSkipsRowsWithMissingEndpoints(t *testing.T) {
	store := setupTestGraph(t)
	ctx := context.Background()
	loadFixture(t, store)
	loader := load.New(store)

	rep := loader.OrderItems(ctx, []domain.OrderItemRow{
		{OrderID: 999, ProductID: 10, Quantity: 1}, // order never loaded
		{OrderID: 100, ProductID: 10, Quantity: 1},
	})
	assert.Equal(t, 1, rep.Failed)
	assert.Equal(t, 1, rep.Loaded)

	rep = loader.Events(ctx, []domain.EventRow{
		{CustomerID: 999, ProductID: 10, EventType: "VIEW", Timestamp: "2024-03-01 09:00:00"},
	})
	assert.Equal(t, 1, rep.Failed)
}
