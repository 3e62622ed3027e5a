// Package events publishes user interaction events reported by the web
// client to a broker topic.
package events

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/go-playground/validator/v10"
	json "github.com/goccy/go-json"
	"github.com/google/uuid"

	"platefinder/logging"
	"platefinder/metrics"
	"platefinder/models"
)

// MetadataEventType carries the event type; brokers that partition use it
// as the message key.
const MetadataEventType = "event_type"

// ValidationError reports an event rejected before publishing.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string {
	return "invalid event: " + e.Err.Error()
}

func (e *ValidationError) Unwrap() error { return e.Err }

type Tracker struct {
	pub      message.Publisher
	topic    string
	validate *validator.Validate
	now      func() time.Time
}

func NewTracker(pub message.Publisher, topic string) *Tracker {
	return &Tracker{
		pub:      pub,
		topic:    topic,
		validate: validator.New(),
		now:      time.Now,
	}
}

// Track validates ev and publishes it. A missing timestamp is set to the
// current time. Rejected events return *ValidationError.
func (t *Tracker) Track(ctx context.Context, ev models.Event) error {
	if err := t.validate.Struct(ev); err != nil {
		return &ValidationError{Err: err}
	}
	if ev.Timestamp == "" {
		ev.Timestamp = t.now().UTC().Format(time.RFC3339)
	}

	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encode %s: %w", ev.EventType, err)
	}

	msg := message.NewMessage(uuid.New().String(), payload)
	msg.Metadata.Set(MetadataEventType, ev.EventType)
	if id := logging.RequestIDFromContext(ctx); id != "" {
		msg.Metadata.Set("request_id", id)
	}
	msg.SetContext(ctx)

	if err := t.pub.Publish(t.topic, msg); err != nil {
		metrics.RecordEvent(ev.EventType, "error")
		logging.Ctx(ctx).Error().Err(err).Str("event_type", ev.EventType).Msg("failed to publish event")
		return fmt.Errorf("publish %s: %w", ev.EventType, err)
	}

	metrics.RecordEvent(ev.EventType, "ok")
	logging.Ctx(ctx).Debug().Str("event_type", ev.EventType).Str("message_id", msg.UUID).Msg("event published")
	return nil
}

// IsValidationError reports whether err was caused by a rejected event.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
