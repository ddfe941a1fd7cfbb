package repository

import (
	"context"

	"github.com/SARVESHVARADKAR123/postbox/internal/domain"
)

// Reader is the read side used by the ingress gateway. The gateway never
// holds a Writer.
type Reader interface {
	// ListMessages returns every decodable record in no particular order.
	ListMessages(ctx context.Context) ([]domain.Message, error)
	// GetMessages returns the records whose id equals messageID.
	GetMessages(ctx context.Context, messageID string) ([]domain.Message, error)
}

// Writer is the write side used by the command processor.
type Writer interface {
	// PutMessage inserts msg unless a record with the same id exists and
	// reports whether a row was written.
	PutMessage(ctx context.Context, msg *domain.Message) (bool, error)
	// DeleteMessage removes a record. Deleting a missing id is not an error.
	DeleteMessage(ctx context.Context, messageID string) error
}

type Repository interface {
	Reader
	Writer
}
