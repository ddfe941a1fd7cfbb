package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/SARVESHVARADKAR123/postbox/internal/command"
	"github.com/SARVESHVARADKAR123/postbox/internal/domain"
	"github.com/SARVESHVARADKAR123/postbox/internal/observability"
	"github.com/SARVESHVARADKAR123/postbox/internal/repository"
)

// Processor applies bus commands to the message store.
type Processor struct {
	store       repository.Writer
	cache       Cache
	limits      domain.Limits
	concurrency int

	newID  func() string
	now    func() time.Time
	tracer trace.Tracer
}

// NewProcessor wires the processor. cache may be nil.
func NewProcessor(store repository.Writer, cache Cache, limits domain.Limits, concurrency int) *Processor {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Processor{
		store:       store,
		cache:       cache,
		limits:      limits,
		concurrency: concurrency,
		newID:       uuid.NewString,
		now:         func() time.Time { return time.Now().UTC() },
		tracer:      otel.Tracer("message-processor"),
	}
}

// HandleBatch applies every decodable delivery. Undecodable ones are dropped
// and a failing command never stops the rest of the batch.
func (p *Processor) HandleBatch(ctx context.Context, batch []command.Delivery) {
	observability.BatchSize.Observe(float64(len(batch)))

	g := new(errgroup.Group)
	g.SetLimit(p.concurrency)

	for _, d := range batch {
		env, ok := command.Parse(d.Payload)
		if !ok {
			observability.GetLogger(ctx).Debug("dropping malformed command",
				zap.Int("bytes", len(d.Payload)),
			)
			observability.CommandsDroppedTotal.Inc()
			continue
		}

		cctx := otel.GetTextMapPropagator().Extract(ctx, propagation.MapCarrier(d.Headers))
		g.Go(func() error {
			if err := p.Apply(cctx, env); err != nil {
				observability.GetLogger(cctx).Error("failed to apply command",
					zap.String("command", env.Command.Kind()),
					zap.String("message_id", env.Command.MessageKey()),
					zap.Error(err),
				)
			}
			return nil
		})
	}

	_ = g.Wait()
}

func (p *Processor) Apply(ctx context.Context, env command.Envelope) error {
	if env.Command == nil {
		return fmt.Errorf("%w: empty envelope", domain.ErrUnknownCommand)
	}

	ctx, span := p.tracer.Start(ctx, "apply "+env.Command.Kind())
	defer span.End()

	var err error
	switch c := env.Command.(type) {
	case command.Put:
		err = p.put(ctx, c)
	case command.Delete:
		err = p.delete(ctx, c)
	default:
		err = fmt.Errorf("%w: %T", domain.ErrUnknownCommand, c)
	}

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

func (p *Processor) put(ctx context.Context, c command.Put) error {
	log := observability.GetLogger(ctx)

	id := c.MessageID
	if id == "" {
		id = p.newID()
	}
	trace.SpanFromContext(ctx).SetAttributes(attribute.String("message.id", id))

	req := domain.MessageRequest{
		From:     c.From,
		Subject:  c.Subject,
		Contents: c.Contents,
	}.Sanitize(p.limits)

	msg := &domain.Message{
		ID:        id,
		From:      req.From,
		Subject:   req.Subject,
		Contents:  req.Contents,
		Timestamp: p.now(),
	}

	inserted, err := p.store.PutMessage(ctx, msg)
	if err != nil {
		observability.CommandsAppliedTotal.WithLabelValues(command.KindPut, "error").Inc()
		return fmt.Errorf("failed to create message %s: %w", id, err)
	}

	if !inserted {
		observability.CommandsAppliedTotal.WithLabelValues(command.KindPut, "duplicate").Inc()
		log.Debug("message already exists", zap.String("message_id", id))
		return nil
	}

	observability.CommandsAppliedTotal.WithLabelValues(command.KindPut, "ok").Inc()
	log.Info("message created", zap.String("message_id", id))
	return nil
}

func (p *Processor) delete(ctx context.Context, c command.Delete) error {
	log := observability.GetLogger(ctx)
	trace.SpanFromContext(ctx).SetAttributes(attribute.String("message.id", c.MessageID))

	if err := p.store.DeleteMessage(ctx, c.MessageID); err != nil {
		observability.CommandsAppliedTotal.WithLabelValues(command.KindDelete, "error").Inc()
		return fmt.Errorf("failed to delete message %s: %w", c.MessageID, err)
	}

	if p.cache != nil {
		if err := p.cache.Invalidate(ctx, c.MessageID); err != nil {
			log.Warn("failed to invalidate cached message",
				zap.String("message_id", c.MessageID),
				zap.Error(err),
			)
		}
	}

	observability.CommandsAppliedTotal.WithLabelValues(command.KindDelete, "ok").Inc()
	log.Info("message deleted", zap.String("message_id", c.MessageID))
	return nil
}
