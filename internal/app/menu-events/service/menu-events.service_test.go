package menu_events_service

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/init-pkg/mess-menu/domain/app"
	"github.com/init-pkg/mess-menu/internal/config"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	gobreaker "github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/require"
)

type publishedMessage struct {
	exchange string
	key      string
	msg      amqp.Publishing
}

type fakeChannel struct {
	closed     bool
	declared   []string
	published  []publishedMessage
	publishErr error
}

func (f *fakeChannel) ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error {
	f.declared = append(f.declared, name+"/"+kind)
	return nil
}

func (f *fakeChannel) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	if f.publishErr != nil {
		return f.publishErr
	}
	f.published = append(f.published, publishedMessage{exchange, key, msg})
	return nil
}

func (f *fakeChannel) IsClosed() bool {
	return f.closed
}

func newTestService(channels ...*fakeChannel) (*MenuEventsService, *int) {
	cfg := &config.Config{}
	cfg.Infrastructure.RabbitMQ.Exchange = "mess-menu.events"

	opened := 0
	s := New(nil, cfg, slog.New(slog.DiscardHandler))
	s.open = func() (channel, error) {
		if opened >= len(channels) {
			return nil, errors.New("connection closed")
		}
		ch := channels[opened]
		opened++
		return ch, nil
	}
	return s, &opened
}

func TestPublishMenuUploaded(t *testing.T) {
	ch := &fakeChannel{}
	s, opened := newTestService(ch)

	uploadedAt := time.Date(2024, time.March, 1, 8, 0, 0, 0, time.UTC)
	event := app.MenuUploadedEvent{
		Count:      2,
		Dates:      []time.Time{time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)},
		UploadedAt: uploadedAt,
	}

	require.NoError(t, s.PublishMenuUploaded(context.Background(), event))
	require.NoError(t, s.PublishMenuUploaded(context.Background(), event))

	assert.Equal(t, 1, *opened)
	assert.Equal(t, []string{"mess-menu.events/topic"}, ch.declared)
	require.Len(t, ch.published, 2)

	published := ch.published[0]
	assert.Equal(t, "mess-menu.events", published.exchange)
	assert.Equal(t, app.MenuUploadedEventType, published.key)
	assert.Equal(t, "application/json", published.msg.ContentType)
	assert.Equal(t, uploadedAt, published.msg.Timestamp)
	_, err := uuid.Parse(published.msg.MessageId)
	assert.NoError(t, err)
	assert.NotEqual(t, published.msg.MessageId, ch.published[1].msg.MessageId)

	var decoded app.MenuUploadedEvent
	require.NoError(t, json.Unmarshal(published.msg.Body, &decoded))
	assert.Equal(t, app.MenuUploadedEventType, decoded.Type)
	assert.Equal(t, 2, decoded.Count)
	assert.Equal(t, published.msg.MessageId, decoded.ID)
}

func TestPublishReopensClosedChannel(t *testing.T) {
	first := &fakeChannel{}
	second := &fakeChannel{}
	s, opened := newTestService(first, second)

	require.NoError(t, s.PublishMenuUploaded(context.Background(), app.MenuUploadedEvent{Count: 1}))
	first.closed = true
	require.NoError(t, s.PublishMenuUploaded(context.Background(), app.MenuUploadedEvent{Count: 1}))

	assert.Equal(t, 2, *opened)
	assert.Len(t, first.published, 1)
	assert.Len(t, second.published, 1)
}

func TestPublishError(t *testing.T) {
	boom := errors.New("channel/connection is not open")
	s, _ := newTestService(&fakeChannel{publishErr: boom})

	err := s.PublishMenuUploaded(context.Background(), app.MenuUploadedEvent{Count: 1})
	assert.ErrorIs(t, err, boom)
}

func TestPublishBreakerOpensAfterRepeatedFailures(t *testing.T) {
	boom := errors.New("channel/connection is not open")
	ch := &fakeChannel{publishErr: boom}
	s, _ := newTestService(ch)

	for range breakerFailureThreshold {
		assert.ErrorIs(t, s.PublishMenuUploaded(context.Background(), app.MenuUploadedEvent{Count: 1}), boom)
	}

	ch.publishErr = nil
	err := s.PublishMenuUploaded(context.Background(), app.MenuUploadedEvent{Count: 1})
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Empty(t, ch.published)
}

func TestPublishDisabled(t *testing.T) {
	s := New(nil, &config.Config{}, slog.New(slog.DiscardHandler))
	assert.NoError(t, s.PublishMenuUploaded(context.Background(), app.MenuUploadedEvent{Count: 1}))
}
