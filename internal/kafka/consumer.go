package kafka

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/twmb/franz-go/pkg/kgo"
	"vn.io.arda/realtime/internal/application"
	"vn.io.arda/realtime/internal/kafka/registry"

	// Blank import triggers init() in each handler file,
	// registering all event handlers into the registry.
	_ "vn.io.arda/realtime/internal/kafka/handlers"
)

// Consumer wraps the franz-go Kafka client. It turns portal mutation events
// into dispatcher calls; the durable rows are written by the producing
// services before the event is published.
type Consumer struct {
	client     *kgo.Client
	dispatcher *application.Dispatcher
}

// New creates a Consumer with the given brokers, group ID, and topics.
func New(brokers []string, groupID string, topics []string, dispatcher *application.Dispatcher) (*Consumer, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.ConsumerGroup(groupID),
		kgo.ConsumeTopics(topics...),
		kgo.DisableAutoCommit(),
	)
	if err != nil {
		return nil, err
	}
	return &Consumer{client: client, dispatcher: dispatcher}, nil
}

// Start begins polling Kafka and processing records. Blocks until ctx is cancelled.
func (c *Consumer) Start(ctx context.Context) {
	log.Info().Msg("kafka consumer started")

	for {
		fetches := c.client.PollFetches(ctx)
		if fetches.IsClientClosed() || ctx.Err() != nil {
			break
		}

		fetches.EachError(func(topic string, partition int32, err error) {
			log.Error().Err(err).Str("topic", topic).Int32("partition", partition).Msg("kafka fetch error")
		})

		fetches.EachRecord(func(r *kgo.Record) {
			c.process(ctx, r)
		})

		if err := c.client.CommitUncommittedOffsets(ctx); err != nil {
			log.Error().Err(err).Msg("kafka commit error")
		}
	}

	c.client.Close()
	log.Info().Msg("kafka consumer stopped")
}

// process routes a record through the handler registry and feeds the result
// to the dispatcher. Push is best-effort, so nothing here can fail the
// record; at worst a client waits for its next poll.
func (c *Consumer) process(ctx context.Context, r *kgo.Record) {
	log.Debug().
		Str("topic", r.Topic).
		Str("key", string(r.Key)).
		Msg("processing kafka record")

	// notify-commands doesn't use eventType routing
	emit := registry.DispatchDirect(r.Topic, r.Value)
	if emit == nil {
		emit = registry.Dispatch(r.Topic, r.Value)
	}

	if emit == nil {
		log.Debug().Str("topic", r.Topic).Msg("no handler matched, skipping")
		return
	}

	c.dispatcher.DispatchBulk(ctx, emit.Notices, emit.Refreshes)
}
