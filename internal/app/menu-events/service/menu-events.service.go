package menu_events_service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/init-pkg/mess-menu/domain/app"
	"github.com/init-pkg/mess-menu/internal/config"
	"github.com/init-pkg/mess-menu/internal/metrics"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	gobreaker "github.com/sony/gobreaker/v2"
)

const (
	exchangeKind = "topic"

	breakerFailureThreshold = 3
	breakerOpenTimeout      = 30 * time.Second
)

type channel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	IsClosed() bool
}

// MenuEventsService publishes upload notifications to a topic exchange.
// Without a broker connection publishing is a no-op.
type MenuEventsService struct {
	open     func() (channel, error)
	exchange string
	breaker  *gobreaker.CircuitBreaker[struct{}]
	log      *slog.Logger

	mu sync.Mutex
	ch channel
}

var _ app.MenuEventPublisher = &MenuEventsService{}

func New(conn *amqp.Connection, cfg *config.Config, log *slog.Logger) *MenuEventsService {
	s := &MenuEventsService{
		exchange: cfg.Infrastructure.RabbitMQ.Exchange,
		log:      log,
	}

	// An unreachable broker fails fast instead of delaying every upload.
	s.breaker = gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
		Name:    "rabbitmq-publish",
		Timeout: breakerOpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= breakerFailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("Circuit breaker state changed", "name", name, "from", from.String(), "to", to.String())
		},
	})

	if conn != nil {
		s.open = func() (channel, error) {
			ch, err := conn.Channel()
			if err != nil {
				return nil, err
			}
			return ch, nil
		}
	}

	return s
}

func (this *MenuEventsService) PublishMenuUploaded(ctx context.Context, event app.MenuUploadedEvent) error {
	if this.open == nil {
		return nil
	}

	event.Type = app.MenuUploadedEventType
	if event.ID == "" {
		event.ID = uuid.NewString()
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode %s event: %w", event.Type, err)
	}

	_, err = this.breaker.Execute(func() (struct{}, error) {
		return struct{}{}, this.publish(ctx, event, body)
	})
	if err != nil {
		metrics.MenuEventsPublished.WithLabelValues("error").Inc()
		return err
	}

	metrics.MenuEventsPublished.WithLabelValues("success").Inc()
	this.log.Debug("Menu event published", "id", event.ID, "type", event.Type, "exchange", this.exchange, "count", event.Count)
	return nil
}

func (this *MenuEventsService) publish(ctx context.Context, event app.MenuUploadedEvent, body []byte) error {
	this.mu.Lock()
	defer this.mu.Unlock()

	ch, err := this.channel()
	if err != nil {
		return err
	}

	err = ch.PublishWithContext(ctx, this.exchange, event.Type, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    event.ID,
		Type:         event.Type,
		Timestamp:    event.UploadedAt,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("publish %s event: %w", event.Type, err)
	}

	return nil
}

// channel reopens the channel after the broker closed it. Caller holds mu.
func (this *MenuEventsService) channel() (channel, error) {
	if this.ch != nil && !this.ch.IsClosed() {
		return this.ch, nil
	}

	ch, err := this.open()
	if err != nil {
		return nil, fmt.Errorf("open rabbitmq channel: %w", err)
	}

	if err := ch.ExchangeDeclare(this.exchange, exchangeKind, true, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("declare exchange %s: %w", this.exchange, err)
	}

	this.ch = ch
	return ch, nil
}
