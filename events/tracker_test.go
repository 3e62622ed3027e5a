package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"platefinder/config"
	"platefinder/logging"
	"platefinder/models"
)

const testTopic = "user-events"

func newChannel(t *testing.T) *gochannel.GoChannel {
	t.Helper()
	ch := gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: 8}, watermill.NopLogger{})
	t.Cleanup(func() { ch.Close() })
	return ch
}

func receive(t *testing.T, msgs <-chan *message.Message) *message.Message {
	t.Helper()
	select {
	case msg := <-msgs:
		msg.Ack()
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("no message received")
		return nil
	}
}

func TestTrackPublishes(t *testing.T) {
	ch := newChannel(t)
	msgs, err := ch.Subscribe(context.Background(), testTopic)
	require.NoError(t, err)

	tracker := NewTracker(ch, testTopic)
	tracker.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }

	uid := int64(7)
	ctx := logging.ContextWithRequestID(context.Background(), "req-1")
	err = tracker.Track(ctx, models.Event{
		EventType: "CUISINE_SELECTED",
		UserID:    &uid,
		Data:      map[string]any{"cuisine": "Thai"},
	})
	require.NoError(t, err)

	msg := receive(t, msgs)
	assert.Equal(t, "CUISINE_SELECTED", msg.Metadata.Get(MetadataEventType))
	assert.Equal(t, "req-1", msg.Metadata.Get("request_id"))
	assert.NotEmpty(t, msg.UUID)

	var got models.Event
	require.NoError(t, json.Unmarshal(msg.Payload, &got))
	assert.Equal(t, "2026-03-01T12:00:00Z", got.Timestamp)
	require.NotNil(t, got.UserID)
	assert.Equal(t, int64(7), *got.UserID)
	assert.Equal(t, "Thai", got.Data["cuisine"])
}

func TestTrackKeepsClientTimestamp(t *testing.T) {
	ch := newChannel(t)
	msgs, err := ch.Subscribe(context.Background(), testTopic)
	require.NoError(t, err)

	require.NoError(t, NewTracker(ch, testTopic).Track(context.Background(), models.Event{
		EventType: "SEARCH_PERFORMED",
		Timestamp: "2025-12-31T23:59:59Z",
	}))

	var got models.Event
	require.NoError(t, json.Unmarshal(receive(t, msgs).Payload, &got))
	assert.Equal(t, "2025-12-31T23:59:59Z", got.Timestamp)
}

func TestTrackRejectsInvalidEvents(t *testing.T) {
	tracker := NewTracker(newChannel(t), testTopic)

	for _, eventType := range []string{"", "RESTAURANT_DELETED", "cuisine_selected"} {
		t.Run(eventType, func(t *testing.T) {
			err := tracker.Track(context.Background(), models.Event{EventType: eventType})
			require.Error(t, err)
			assert.True(t, IsValidationError(err))
		})
	}
}

type failingPublisher struct{}

func (failingPublisher) Publish(string, ...*message.Message) error { return errors.New("broker down") }
func (failingPublisher) Close() error                              { return nil }

func TestTrackPublishFailure(t *testing.T) {
	err := NewTracker(failingPublisher{}, testTopic).Track(context.Background(), models.Event{EventType: "RESTAURANT_VIEWED"})
	require.Error(t, err)
	assert.False(t, IsValidationError(err))
	assert.Contains(t, err.Error(), "broker down")
}

func TestNewPublisherInProcess(t *testing.T) {
	pub, sub, err := NewPublisher(config.EventsConfig{Topic: testTopic}, NewLoggerAdapter())
	require.NoError(t, err)
	require.NotNil(t, sub)
	t.Cleanup(func() { pub.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, Drain(ctx, sub, testTopic))

	assert.NoError(t, NewTracker(pub, testTopic).Track(ctx, models.Event{EventType: "RESTAURANT_BOOKMARKED"}))
}

func TestLoggerAdapterWith(t *testing.T) {
	l := NewLoggerAdapter().With(watermill.LogFields{"topic": testTopic})
	adapter, ok := l.(*zerologAdapter)
	require.True(t, ok)
	assert.Equal(t, testTopic, adapter.fields["topic"])

	l.Info("info", nil)
	l.Error("error", errors.New("boom"), watermill.LogFields{"n": 1})
}
