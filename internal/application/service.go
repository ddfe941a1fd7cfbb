package application

import (
	"context"

	"github.com/SARVESHVARADKAR123/postbox/internal/domain"
)

// Publisher sends an encoded command envelope to the bus, keyed by message id.
type Publisher interface {
	Publish(ctx context.Context, key string, value []byte) error
}

// Cache is the optional read-through cache for Get results. After
// Invalidate, Get misses and Set is ignored until the entry expires.
type Cache interface {
	Get(ctx context.Context, id string) ([]domain.Message, error)
	Set(ctx context.Context, id string, msgs []domain.Message) error
	Invalidate(ctx context.Context, id string) error
}
