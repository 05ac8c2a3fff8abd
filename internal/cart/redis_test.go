package cart

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newRedisStore(t *testing.T) (*Store, *miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewStore(NewRedisPersister(rdb), zap.NewNop()), mr, rdb
}

func TestRedisPersisterRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, mr, _ := newRedisStore(t)

	_, err := store.Add(ctx, "u1", product(3, 180))
	require.NoError(t, err)

	assert.True(t, mr.Exists(Key("u1")))
	ttl := mr.TTL(Key("u1"))
	assert.Equal(t, CartTTL, ttl)

	items, err := store.Items(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 3, items[0].ID)

	_, err = store.Remove(ctx, "u1", 3)
	require.NoError(t, err)
	assert.False(t, mr.Exists(Key("u1")), "empty cart deletes the key")
}

func TestRedisPersisterMigratesLegacyValue(t *testing.T) {
	ctx := context.Background()
	store, mr, _ := newRedisStore(t)
	require.NoError(t, mr.Set(Key("u1"), `[{"product_id":"2","name":"Jaggery Powder","price":150,"quantity":2}]`))

	items, err := store.Items(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Quantity)
}

func TestRedisPersisterWatch(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	store, _, _ := newRedisStore(t)

	events, stop, err := store.Watch(ctx, "u1")
	require.NoError(t, err)
	defer stop()

	_, err = store.Add(ctx, "u1", product(1, 120))
	require.NoError(t, err)
	require.NoError(t, store.Clear(ctx, "u1"))

	for _, want := range []Event{EventUpdated, EventCleared} {
		select {
		case got := <-events:
			assert.Equal(t, want, got)
		case <-time.After(2 * time.Second):
			t.Fatalf("no %s event", want)
		}
	}
}
