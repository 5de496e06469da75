package recommendations

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupCache(t *testing.T, reader *fakeReader) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewCache(NewEngine(reader), client, 5*time.Minute), mr
}

func TestCacheServesSecondCallWithoutStore(t *testing.T) {
	reader := &fakeReader{rows: []map[string]any{
		rankedRow(4, "Go Guide", 19.99, "Books", 2),
	}}
	cache, _ := setupCache(t, reader)
	ctx := context.Background()

	first, err := cache.Collaborative(ctx, 7, 5)
	require.NoError(t, err)
	second, err := cache.Collaborative(ctx, 7, 5)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, reader.calls, "second call must come from the cache")
}

func TestCacheKeysSeparateStrategiesAndArguments(t *testing.T) {
	reader := &fakeReader{}
	cache, mr := setupCache(t, reader)
	ctx := context.Background()

	_, err := cache.Collaborative(ctx, 7, 5)
	require.NoError(t, err)
	_, err = cache.ContentBased(ctx, 7, 5)
	require.NoError(t, err)
	_, err = cache.Collaborative(ctx, 8, 5)
	require.NoError(t, err)
	_, err = cache.Popular(ctx, 3)
	require.NoError(t, err)
	_, err = cache.FrequentlyBoughtTogether(ctx, 4, 5)
	require.NoError(t, err)

	assert.Equal(t, 5, reader.calls, "distinct (strategy, id, limit) triples never share an entry")
	for _, key := range []string{"rec:collaborative:7:5", "rec:content:7:5", "rec:collaborative:8:5", "rec:popular:0:3", "rec:fbt:4:5"} {
		assert.Truef(t, mr.Exists(key), "expected cache key %s", key)
	}
}

func TestCacheDefaultLimitSharesEntryWithExplicitDefault(t *testing.T) {
	reader := &fakeReader{}
	cache, _ := setupCache(t, reader)
	ctx := context.Background()

	_, err := cache.Popular(ctx, 0)
	require.NoError(t, err)
	_, err = cache.Popular(ctx, DefaultLimit)
	require.NoError(t, err)

	assert.Equal(t, 1, reader.calls, "limit 0 and the default limit are the same query")
}

func TestCacheEntriesExpire(t *testing.T) {
	reader := &fakeReader{}
	cache, mr := setupCache(t, reader)
	ctx := context.Background()

	_, err := cache.Popular(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, 5*time.Minute, mr.TTL("rec:popular:0:5"))

	mr.FastForward(6 * time.Minute)

	_, err = cache.Popular(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, 2, reader.calls, "an expired entry goes back to the store")
}

func TestCacheDegradesWhenRedisIsDown(t *testing.T) {
	reader := &fakeReader{rows: []map[string]any{
		rankedRow(2, "Mug", 4.00, "Kitchen", 12),
	}}
	cache, mr := setupCache(t, reader)
	mr.Close()

	got, err := cache.Popular(context.Background(), 5)
	require.NoError(t, err, "cache trouble must not fail the request")
	require.Len(t, got, 1)
	assert.Equal(t, int64(2), got[0].ProductID)
}

func TestCacheIgnoresCorruptEntries(t *testing.T) {
	reader := &fakeReader{rows: []map[string]any{
		rankedRow(2, "Mug", 4.00, "Kitchen", 12),
	}}
	cache, mr := setupCache(t, reader)
	require.NoError(t, mr.Set("rec:popular:0:5", "not json"))

	got, err := cache.Popular(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 1, reader.calls, "corrupt entry falls through to the store")
}
