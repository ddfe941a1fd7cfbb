package kafka

import (
	"context"
	"errors"

	"github.com/SARVESHVARADKAR123/postbox/internal/command"
	"github.com/SARVESHVARADKAR123/postbox/internal/observability"
	"github.com/twmb/franz-go/pkg/kgo"
	"go.uber.org/zap"
)

// Handler receives every record of one poll. It must not fail the batch.
type Handler interface {
	HandleBatch(ctx context.Context, batch []command.Delivery)
}

// Consumer reads the dispatch topic as part of a consumer group. Offsets are
// committed only after a polled batch was handed to the handler, so every
// record is delivered at least once.
type Consumer struct {
	client  *kgo.Client
	handler Handler
	commit  func(ctx context.Context) error
	done    chan struct{}
}

func New(brokers []string, topic, group string, handler Handler) (*Consumer, error) {
	c := &Consumer{handler: handler, done: make(chan struct{})}

	cl, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.ConsumerGroup(group),
		kgo.ConsumeTopics(topic),
		kgo.DisableAutoCommit(),
		kgo.BlockRebalanceOnPoll(),
		kgo.OnPartitionsRevoked(func(ctx context.Context, cl *kgo.Client, _ map[string][]int32) {
			log := observability.GetLogger(ctx)
			log.Info("kafka partitions revoked")
			if err := cl.CommitUncommittedOffsets(ctx); err != nil {
				log.Error("kafka commit on revoke failed", zap.Error(err))
			}
		}),
		kgo.OnPartitionsAssigned(func(ctx context.Context, _ *kgo.Client, _ map[string][]int32) {
			observability.GetLogger(ctx).Info("kafka partitions assigned")
		}),
	)
	if err != nil {
		return nil, err
	}
	c.client = cl
	c.commit = cl.CommitUncommittedOffsets
	return c, nil
}

func (c *Consumer) Start(ctx context.Context) {
	go func() {
		defer close(c.done)

		log := observability.GetLogger(ctx)
		log.Info("kafka consumer started")
		for {
			fetches := c.client.PollFetches(ctx)
			if fetches.IsClientClosed() {
				return
			}

			stopping := false
			for _, ferr := range fetches.Errors() {
				if errors.Is(ferr.Err, context.Canceled) {
					stopping = true
					continue
				}
				log.Error("kafka fetch error", zap.String("topic", ferr.Topic), zap.Int32("partition", ferr.Partition), zap.Error(ferr.Err))
			}

			batch := make([]command.Delivery, 0, fetches.NumRecords())
			fetches.EachRecord(func(r *kgo.Record) {
				batch = append(batch, toDelivery(r))
			})
			c.process(ctx, batch)
			c.client.AllowRebalance()

			if stopping || ctx.Err() != nil {
				log.Info("kafka consumer loop stopping: context canceled")
				return
			}
		}
	}()
}

// process applies and commits a polled batch. Cancellation of ctx does not
// reach the handler or the commit: once polled, a batch is finished so the
// offsets committed on revoke never cover unapplied records.
func (c *Consumer) process(ctx context.Context, batch []command.Delivery) {
	if len(batch) == 0 {
		return
	}

	ctx = context.WithoutCancel(ctx)
	c.handler.HandleBatch(ctx, batch)
	if err := c.commit(ctx); err != nil {
		observability.GetLogger(ctx).Error("kafka offset commit failed", zap.Error(err))
	}
}

func toDelivery(r *kgo.Record) command.Delivery {
	d := command.Delivery{Payload: r.Value}
	if len(r.Headers) > 0 {
		d.Headers = make(map[string]string, len(r.Headers))
		for _, h := range r.Headers {
			d.Headers[h.Key] = string(h.Value)
		}
	}
	return d
}

// Close leaves the consumer group and releases the client.
func (c *Consumer) Close() {
	if c.client != nil {
		c.client.Close()
	}
}

// Done is closed once the poll loop has returned.
func (c *Consumer) Done() <-chan struct{} { return c.done }
