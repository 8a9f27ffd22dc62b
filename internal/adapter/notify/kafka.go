package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/MikeRez0/ypfulfillment/internal/adapter/config"
	"github.com/MikeRez0/ypfulfillment/internal/core/domain"
	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.uber.org/zap"
)

// Writer is the part of *kafka.Writer the notifier uses.
type Writer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Keyed payloads choose their own partition key.
type Keyed interface {
	EventKey() string
}

type Kafka struct {
	writer Writer
	logger *zap.Logger
}

func NewKafka(cfg *config.Notify, log *zap.Logger) *Kafka {
	return NewKafkaWithWriter(&kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		Balancer:               &kafka.Hash{},
		BatchTimeout:           10 * time.Millisecond,
		AllowAutoTopicCreation: true,
	}, log)
}

func NewKafkaWithWriter(w Writer, log *zap.Logger) *Kafka {
	return &Kafka{writer: w, logger: log}
}

type message struct {
	Kind       domain.EventKind `json:"kind"`
	UserID     string           `json:"user_id"`
	Payload    any              `json:"payload"`
	OccurredAt time.Time        `json:"occurred_at"`
}

func (k *Kafka) Notify(ctx context.Context, userID string, kind domain.EventKind, payload any) error {
	value, err := json.Marshal(message{
		Kind:       kind,
		UserID:     userID,
		Payload:    payload,
		OccurredAt: time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("encode %s event: %w", kind, err)
	}

	key := userID
	if keyed, ok := payload.(Keyed); ok {
		key = keyed.EventKey()
	}

	carrier := propagation.MapCarrier{}
	otel.GetTextMapPropagator().Inject(ctx, carrier)
	headers := make([]kafka.Header, 0, len(carrier)+1)
	headers = append(headers, kafka.Header{Key: "event-kind", Value: []byte(kind)})
	for h, v := range carrier {
		headers = append(headers, kafka.Header{Key: h, Value: []byte(v)})
	}

	err = k.writer.WriteMessages(ctx, kafka.Message{
		Key:     []byte(key),
		Value:   value,
		Headers: headers,
	})
	if err != nil {
		return fmt.Errorf("publish %s event: %w", kind, err)
	}
	k.logger.Debug("event published", zap.String("kind", string(kind)), zap.String("key", key))
	return nil
}

func (k *Kafka) Close() error {
	return k.writer.Close()
}

// Nop drops every notification.
type Nop struct{}

func (Nop) Notify(context.Context, string, domain.EventKind, any) error {
	return nil
}
