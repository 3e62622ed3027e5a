package events

import (
	"context"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	wmNats "github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	natsgo "github.com/nats-io/nats.go"

	"platefinder/config"
	"platefinder/logging"
)

// NewPublisher returns a NATS publisher when cfg.NATSURL is set and an
// in-process channel otherwise. The in-process channel is also returned as
// a subscriber so events can be drained locally; it is nil for NATS.
func NewPublisher(cfg config.EventsConfig, logger watermill.LoggerAdapter) (message.Publisher, message.Subscriber, error) {
	if cfg.NATSURL == "" {
		ch := gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: 64}, logger)
		return ch, ch, nil
	}
	pub, err := NewNATSPublisher(cfg.NATSURL, logger)
	if err != nil {
		return nil, nil, err
	}
	return pub, nil, nil
}

// NewNATSPublisher connects to a core NATS server. Subjects are topic names.
func NewNATSPublisher(url string, logger watermill.LoggerAdapter) (message.Publisher, error) {
	natsOpts := []natsgo.Option{
		natsgo.Name("platefinder"),
		natsgo.RetryOnFailedConnect(true),
		natsgo.MaxReconnects(-1),
		natsgo.ReconnectWait(2 * time.Second),
		natsgo.DisconnectErrHandler(func(_ *natsgo.Conn, err error) {
			if err != nil {
				logger.Error("NATS disconnected", err, nil)
			}
		}),
		natsgo.ReconnectHandler(func(nc *natsgo.Conn) {
			logger.Info("NATS reconnected", watermill.LogFields{"url": nc.ConnectedUrl()})
		}),
	}

	pub, err := wmNats.NewPublisher(wmNats.PublisherConfig{
		URL:         url,
		NatsOptions: natsOpts,
		Marshaler:   &wmNats.NATSMarshaler{},
		JetStream:   wmNats.JetStreamConfig{Disabled: true},
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("create nats publisher: %w", err)
	}
	return pub, nil
}

// Drain logs every event delivered on topic until ctx is done. It is used
// with the in-process channel, which has no other consumer.
func Drain(ctx context.Context, sub message.Subscriber, topic string) error {
	msgs, err := sub.Subscribe(ctx, topic)
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", topic, err)
	}
	go func() {
		for msg := range msgs {
			logging.Debug().
				Str("event_type", msg.Metadata.Get(MetadataEventType)).
				Str("message_id", msg.UUID).
				RawJSON("payload", msg.Payload).
				Msg("user event")
			msg.Ack()
		}
	}()
	return nil
}
