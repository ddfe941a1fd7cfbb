package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/SARVESHVARADKAR123/postbox/internal/domain"
)

// ErrMiss is returned by Get when the key is not cached or was invalidated.
var ErrMiss = errors.New("cache miss")

// tombstone marks an id whose message was deleted. Set never overwrites it,
// so a read that raced the delete cannot repopulate the key.
const tombstone = "-"

// MessageCache caches Get results under "message:<id>" for TTL.
type MessageCache struct {
	R   *redis.Client
	TTL time.Duration
}

func NewClient(ctx context.Context, addr string) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, err
	}
	return rdb, nil
}

func key(id string) string { return "message:" + id }

func (c *MessageCache) Get(ctx context.Context, id string) ([]domain.Message, error) {
	b, err := c.R.Get(ctx, key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, err
	}
	if string(b) == tombstone {
		return nil, ErrMiss
	}
	var msgs []domain.Message
	return msgs, json.Unmarshal(b, &msgs)
}

// Set caches msgs unless the key already holds an entry or a tombstone.
func (c *MessageCache) Set(ctx context.Context, id string, msgs []domain.Message) error {
	b, err := json.Marshal(msgs)
	if err != nil {
		return err
	}
	return c.R.SetNX(ctx, key(id), b, c.TTL).Err()
}

// Invalidate replaces whatever is cached for id with a tombstone that lives
// for TTL.
func (c *MessageCache) Invalidate(ctx context.Context, id string) error {
	return c.R.Set(ctx, key(id), tombstone, c.TTL).Err()
}
