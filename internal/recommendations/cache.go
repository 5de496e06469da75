package recommendations

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

const cacheKeyPrefix = "rec:" // rec:{strategy}:{id}:{limit}

// Provider is the query surface handlers depend on. Engine implements it
// directly; Cache wraps an Engine when Redis is configured.
type Provider interface {
	Collaborative(ctx context.Context, customerID int64, limit int) ([]Recommendation, error)
	ContentBased(ctx context.Context, customerID int64, limit int) ([]Recommendation, error)
	Popular(ctx context.Context, limit int) ([]Recommendation, error)
	FrequentlyBoughtTogether(ctx context.Context, productID int64, limit int) ([]Recommendation, error)
}

// Cache is a read-through layer over an Engine. Ranked lists only move
// when the pipeline reruns, so short TTLs buy a lot. Redis trouble is
// logged and absorbed: a broken cache degrades to querying the graph,
// never to a failed request.
type Cache struct {
	engine *Engine
	client *redis.Client
	ttl    time.Duration
}

func NewCache(engine *Engine, client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{engine: engine, client: client, ttl: ttl}
}

func (c *Cache) Collaborative(ctx context.Context, customerID int64, limit int) ([]Recommendation, error) {
	key := c.key("collaborative", customerID, limit)
	if recs, ok := c.get(ctx, key); ok {
		return recs, nil
	}

	recs, err := c.engine.Collaborative(ctx, customerID, limit)
	if err != nil {
		return nil, err
	}
	c.put(ctx, key, recs)
	return recs, nil
}

func (c *Cache) ContentBased(ctx context.Context, customerID int64, limit int) ([]Recommendation, error) {
	key := c.key("content", customerID, limit)
	if recs, ok := c.get(ctx, key); ok {
		return recs, nil
	}

	recs, err := c.engine.ContentBased(ctx, customerID, limit)
	if err != nil {
		return nil, err
	}
	c.put(ctx, key, recs)
	return recs, nil
}

func (c *Cache) Popular(ctx context.Context, limit int) ([]Recommendation, error) {
	key := c.key("popular", 0, limit)
	if recs, ok := c.get(ctx, key); ok {
		return recs, nil
	}

	recs, err := c.engine.Popular(ctx, limit)
	if err != nil {
		return nil, err
	}
	c.put(ctx, key, recs)
	return recs, nil
}

func (c *Cache) FrequentlyBoughtTogether(ctx context.Context, productID int64, limit int) ([]Recommendation, error) {
	key := c.key("fbt", productID, limit)
	if recs, ok := c.get(ctx, key); ok {
		return recs, nil
	}

	recs, err := c.engine.FrequentlyBoughtTogether(ctx, productID, limit)
	if err != nil {
		return nil, err
	}
	c.put(ctx, key, recs)
	return recs, nil
}

func (c *Cache) key(strategy string, id int64, limit int) string {
	return fmt.Sprintf("%s%s:%d:%d", cacheKeyPrefix, strategy, id, normalizeLimit(limit))
}

func (c *Cache) get(ctx context.Context, key string) ([]Recommendation, bool) {
	data, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		log.Printf("Recommendation cache read failed (querying store): %v", err)
		return nil, false
	}

	var recs []Recommendation
	if err := json.Unmarshal([]byte(data), &recs); err != nil {
		return nil, false
	}
	return recs, true
}

func (c *Cache) put(ctx context.Context, key string, recs []Recommendation) {
	data, err := json.Marshal(recs)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		log.Printf("Recommendation cache write failed: %v", err)
	}
}
