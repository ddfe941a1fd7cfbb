package application

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/SARVESHVARADKAR123/postbox/internal/command"
	"github.com/SARVESHVARADKAR123/postbox/internal/domain"
	"github.com/SARVESHVARADKAR123/postbox/internal/observability"
	"github.com/SARVESHVARADKAR123/postbox/internal/repository"
)

// Ingress serves reads from the store and turns writes into bus commands.
type Ingress struct {
	store  repository.Reader
	pub    Publisher
	cache  Cache
	limits domain.Limits
	newID  func() string
}

// NewIngress wires the gateway. cache may be nil.
func NewIngress(store repository.Reader, pub Publisher, cache Cache, limits domain.Limits) *Ingress {
	return &Ingress{
		store:  store,
		pub:    pub,
		cache:  cache,
		limits: limits,
		newID:  uuid.NewString,
	}
}

func (s *Ingress) ListMessages(ctx context.Context) ([]domain.MessageHead, error) {
	msgs, err := s.store.ListMessages(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}

	heads := make([]domain.MessageHead, 0, len(msgs))
	for _, m := range msgs {
		heads = append(heads, m.Head())
	}
	return heads, nil
}

func (s *Ingress) GetMessages(ctx context.Context, messageID string) ([]domain.Message, error) {
	log := observability.GetLogger(ctx)

	if s.cache != nil {
		msgs, err := s.cache.Get(ctx, messageID)
		if err == nil {
			return msgs, nil
		}
		log.Debug("message cache lookup missed",
			zap.String("message_id", messageID),
			zap.Error(err),
		)
	}

	msgs, err := s.store.GetMessages(ctx, messageID)
	if err != nil {
		return nil, fmt.Errorf("failed to get message %s: %w", messageID, err)
	}

	if s.cache != nil && len(msgs) > 0 {
		if err := s.cache.Set(ctx, messageID, msgs); err != nil {
			log.Warn("failed to cache message",
				zap.String("message_id", messageID),
				zap.Error(err),
			)
		}
	}

	return msgs, nil
}

// CreateMessage validates a raw creation body and publishes a Put command.
// It returns the id assigned to the new message.
func (s *Ingress) CreateMessage(ctx context.Context, body []byte) (string, error) {
	req, err := domain.ParseMessageRequest(body)
	if err != nil {
		return "", err
	}

	put := command.NewPut(s.newID(), req.Sanitize(s.limits))
	if err := s.publish(ctx, put); err != nil {
		return "", err
	}

	observability.GetLogger(ctx).Info("message queued",
		zap.String("message_id", put.MessageID),
	)
	return put.MessageID, nil
}

// DeleteMessage publishes a Delete command without checking that the id exists.
func (s *Ingress) DeleteMessage(ctx context.Context, messageID string) error {
	if messageID == "" {
		return domain.ErrInvalidMessageID
	}

	if err := s.publish(ctx, command.Delete{MessageID: messageID}); err != nil {
		return err
	}

	observability.GetLogger(ctx).Info("message deletion queued",
		zap.String("message_id", messageID),
	)
	return nil
}

func (s *Ingress) publish(ctx context.Context, c command.Command) error {
	payload, err := command.Marshal(command.Envelope{Command: c})
	if err != nil {
		return fmt.Errorf("failed to encode %s command: %w", c.Kind(), err)
	}

	if err := s.pub.Publish(ctx, c.MessageKey(), payload); err != nil {
		observability.CommandsPublishedTotal.WithLabelValues(c.Kind(), "error").Inc()
		return fmt.Errorf("failed to publish %s command: %w", c.Kind(), err)
	}

	observability.CommandsPublishedTotal.WithLabelValues(c.Kind(), "ok").Inc()
	return nil
}
