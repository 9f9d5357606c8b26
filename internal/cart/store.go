// Package cart provides the cart shape and its key-value storage.
package cart

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MikeMC777/storefront/internal/product"
)

var (
	ErrNotFound     = errors.New("cart not found")
	ErrAlreadyExist = errors.New("cart already exists")
	ErrConflict     = errors.New("cart changed concurrently")
)

// maxAppendRetries bounds the optimistic retry loop of RedisStore.Append.
const maxAppendRetries = 100

// Store keeps carts under an opaque id. The id is not part of the Cart
// shape.
type Store interface {
	Create(ctx context.Context, id string, c Cart) error
	Get(ctx context.Context, id string) (*Cart, error)
	Put(ctx context.Context, id string, c Cart) error
	// Append adds p after the existing items as one atomic step and
	// returns the stored cart. TotalPrice is left as it is.
	Append(ctx context.Context, id string, p product.Product) (*Cart, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// RedisStore stores each cart as a JSON value at cart:<id>.
type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisStore returns a store whose keys expire after ttl; zero keeps
// them forever.
func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, ttl: ttl}
}

func Key(id string) string { return "cart:" + id }

func (s *RedisStore) Create(ctx context.Context, id string, c Cart) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	b, err := json.Marshal(c)
	if err != nil {
		return err
	}
	ok, err := s.rdb.SetNX(ctx, Key(id), b, s.ttl).Result()
	if err != nil {
		return err
	}
	if !ok {
		return ErrAlreadyExist
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, id string) (*Cart, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	b, err := s.rdb.Get(ctx, Key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var c Cart
	if err := json.Unmarshal(b, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// Put replaces an existing cart and refreshes its TTL.
func (s *RedisStore) Put(ctx context.Context, id string, c Cart) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	b, err := json.Marshal(c)
	if err != nil {
		return err
	}
	ok, err := s.rdb.SetXX(ctx, Key(id), b, s.ttl).Result()
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

// Append reads and rewrites the cart inside WATCH/MULTI. A concurrent
// writer aborts the transaction and the read is retried.
func (s *RedisStore) Append(ctx context.Context, id string, p product.Product) (*Cart, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	key := Key(id)
	var out Cart
	txf := func(tx *redis.Tx) error {
		b, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		var c Cart
		if err := json.Unmarshal(b, &c); err != nil {
			return err
		}
		c.Items = append(c.Items, p)
		nb, err := json.Marshal(c)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.SetXX(ctx, key, nb, s.ttl)
			return nil
		})
		if err != nil {
			return err
		}
		out = c
		return nil
	}

	for i := 0; i < maxAppendRetries; i++ {
		err := s.rdb.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return &out, nil
	}
	return nil, ErrConflict
}

func (s *RedisStore) Delete(ctx context.Context, id string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	n, err := s.rdb.Del(ctx, Key(id)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
