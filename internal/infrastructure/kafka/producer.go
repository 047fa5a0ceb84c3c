package kafka

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/honeynil/bankfront/internal/models"
	pkgerrors "github.com/honeynil/bankfront/pkg/errors"
	"github.com/segmentio/kafka-go"
)

//go:generate mockgen -destination=mocks/mock_publisher.go -package=mocks . ActivityPublisher

// ActivityPublisher publishes audited user actions.
type ActivityPublisher interface {
	Publish(ctx context.Context, a models.Activity) error
	Close() error
}

type Producer struct {
	writer *kafka.Writer
	topic  string
}

func NewProducer(brokers []string, topic string) *Producer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchTimeout: 10 * time.Millisecond,
		WriteTimeout: 5 * time.Second,
	}
	return &Producer{writer: writer, topic: topic}
}

// Publish fills in the id and timestamp when missing and writes the event
// keyed by phone, so one user's events stay ordered within a partition.
func (p *Producer) Publish(ctx context.Context, a models.Activity) error {
	value, err := encodeActivity(&a)
	if err != nil {
		return err
	}
	msg := kafka.Message{
		Topic: p.topic,
		Key:   []byte(a.Phone),
		Value: value,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		slog.Error("failed to send Kafka message", "topic", p.topic, "type", a.Type, "error", err)
		return err
	}
	slog.Info("Kafka message sent", "topic", p.topic, "type", a.Type, "id", a.ID)
	return nil
}

func (p *Producer) Close() error {
	if err := p.writer.Close(); err != nil {
		slog.Error("failed to close Kafka writer", "error", err)
		return err
	}
	slog.Info("Kafka writer closed")
	return nil
}

func encodeActivity(a *models.Activity) ([]byte, error) {
	if !a.Type.Valid() {
		return nil, pkgerrors.ErrInvalidInput
	}
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	return json.Marshal(a)
}

// NopPublisher drops events; used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, models.Activity) error { return nil }
func (NopPublisher) Close() error                                   { return nil }
