package cart

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MikeMC777/storefront/internal/money"
	"github.com/MikeMC777/storefront/internal/product"
)

func setupTestRedis(t *testing.T, ttl time.Duration) (*miniredis.Miniredis, *RedisStore) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, NewRedisStore(rdb, ttl)
}

func TestRedisStore_CRUD(t *testing.T) {
	ctx := context.Background()
	mr, s := setupTestRedis(t, 0)
	c := Cart{Items: []product.Product{item("a", 1)}, TotalPrice: money.NewFromFloat(7)}

	require.NoError(t, s.Create(ctx, "c1", c))
	assert.ErrorIs(t, s.Create(ctx, "c1", c), ErrAlreadyExist)

	raw, err := mr.Get(Key("c1"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"items":[{"id":"a","name":"Item a","description":"","price":1,"image":""}],"totalPrice":7}`, raw)

	got, err := s.Get(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "a", got.Items[0].ID)
	assert.Equal(t, "7", got.TotalPrice.String())

	c.Items = append(c.Items, item("b", 2))
	require.NoError(t, s.Put(ctx, "c1", c))
	got, err = s.Get(ctx, "c1")
	require.NoError(t, err)
	assert.Len(t, got.Items, 2)
	assert.Equal(t, "7", got.TotalPrice.String())

	assert.ErrorIs(t, s.Put(ctx, "nope", c), ErrNotFound)
	assert.False(t, mr.Exists(Key("nope")), "put must not create a missing cart")

	_, err = s.Get(ctx, "nope")
	assert.ErrorIs(t, err, ErrNotFound)

	ok, err := s.Delete(ctx, "c1")
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = s.Delete(ctx, "c1")
	require.NoError(t, err)
	assert.False(t, ok)
	_, err = s.Get(ctx, "c1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisStore_TTL(t *testing.T) {
	ctx := context.Background()
	mr, s := setupTestRedis(t, 10*time.Minute)

	require.NoError(t, s.Create(ctx, "c1", Cart{}))
	assert.Equal(t, 10*time.Minute, mr.TTL(Key("c1")))

	mr.FastForward(6 * time.Minute)
	require.NoError(t, s.Put(ctx, "c1", Cart{TotalPrice: money.NewFromFloat(1)}))
	assert.Equal(t, 10*time.Minute, mr.TTL(Key("c1")), "put refreshes the ttl")

	mr.FastForward(6 * time.Minute)
	_, err := s.Append(ctx, "c1", item("a", 1))
	require.NoError(t, err)
	assert.Equal(t, 10*time.Minute, mr.TTL(Key("c1")), "append refreshes the ttl")

	mr.FastForward(11 * time.Minute)
	_, err = s.Get(ctx, "c1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisStore_NoTTL(t *testing.T) {
	mr, s := setupTestRedis(t, 0)

	require.NoError(t, s.Create(context.Background(), "c1", Cart{}))
	assert.Equal(t, time.Duration(0), mr.TTL(Key("c1")))
}

func TestRedisStore_Append(t *testing.T) {
	ctx := context.Background()
	_, s := setupTestRedis(t, 0)
	require.NoError(t, s.Create(ctx, "c1", Cart{Items: []product.Product{item("a", 1)}, TotalPrice: money.NewFromFloat(3)}))

	got, err := s.Append(ctx, "c1", item("b", 2))
	require.NoError(t, err)
	require.Len(t, got.Items, 2)
	assert.Equal(t, "b", got.Items[1].ID)
	assert.Equal(t, "3", got.TotalPrice.String())

	_, err = s.Append(ctx, "nope", item("x", 1))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisStore_ConcurrentAppendKeepsEveryItem(t *testing.T) {
	ctx := context.Background()
	_, s := setupTestRedis(t, time.Hour)
	require.NoError(t, s.Create(ctx, "c1", Cart{}))

	testConcurrentAppend(t, s, 20)
}

// testConcurrentAppend fires n appends at once and checks none was lost.
func testConcurrentAppend(t *testing.T, s Store, n int) {
	t.Helper()
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if _, err := s.Append(ctx, "c1", item(fmt.Sprintf("p%d", i), 1)); err != nil {
				errs <- err
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	got, err := s.Get(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, got.Items, n)
	seen := map[string]bool{}
	for _, it := range got.Items {
		seen[it.ID] = true
	}
	assert.Len(t, seen, n)
}
