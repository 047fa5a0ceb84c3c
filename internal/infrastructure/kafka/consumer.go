package kafka

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/honeynil/bankfront/internal/models"
	"github.com/honeynil/bankfront/internal/repository"
	pkgerrors "github.com/honeynil/bankfront/pkg/errors"
	"github.com/segmentio/kafka-go"
)

const (
	maxStoreAttempts = 3
	retryBackoff     = 500 * time.Millisecond
)

// messageReader is the part of *kafka.Reader the consumer uses.
type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Consumer stores activity events. An offset is committed once its event is
// stored, found to be unusable, or still failing after maxStoreAttempts; in
// the last two cases the event is logged and dropped.
type Consumer struct {
	reader       messageReader
	topic        string
	activityRepo repository.ActivityRepository
	backoff      time.Duration
}

func NewConsumer(brokers []string, topic, groupID string, activityRepo repository.ActivityRepository) *Consumer {
	return &Consumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:  brokers,
			Topic:    topic,
			GroupID:  groupID,
			MinBytes: 10e3,
			MaxBytes: 10e6,
		}),
		topic:        topic,
		activityRepo: activityRepo,
		backoff:      retryBackoff,
	}
}

// Consume reads activity events until ctx is cancelled.
func (c *Consumer) Consume(ctx context.Context) {
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || stderrors.Is(err, context.Canceled) {
				slog.Info("activity consumer stopped")
				return
			}
			slog.Error("failed to read Kafka message", "topic", c.topic, "error", err)
			if !c.wait(ctx, c.backoff) {
				slog.Info("activity consumer stopped")
				return
			}
			continue
		}

		slog.Debug("Kafka message received", "topic", msg.Topic, "partition", msg.Partition, "offset", msg.Offset)
		if err := c.store(ctx, msg.Value); err != nil {
			if ctx.Err() != nil {
				return
			}
			// TODO: Send to dead-letter queue
			slog.Error("dropping activity event", "offset", msg.Offset, "error", err)
		}
		if err := c.reader.CommitMessages(ctx, msg); err != nil && ctx.Err() == nil {
			slog.Error("failed to commit offset", "offset", msg.Offset, "error", err)
		}
	}
}

// store retries transient repository failures; malformed events fail at once.
func (c *Consumer) store(ctx context.Context, value []byte) error {
	var err error
	for attempt := 1; attempt <= maxStoreAttempts; attempt++ {
		err = c.handle(ctx, value)
		if err == nil || permanent(err) {
			return err
		}
		if attempt == maxStoreAttempts {
			break
		}
		if !c.wait(ctx, c.backoff*time.Duration(attempt)) {
			return ctx.Err()
		}
	}
	return fmt.Errorf("after %d attempts: %w", maxStoreAttempts, err)
}

// wait reports false when ctx ended first.
func (c *Consumer) wait(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

func permanent(err error) bool {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	return stderrors.As(err, &syntaxErr) ||
		stderrors.As(err, &typeErr) ||
		stderrors.Is(err, pkgerrors.ErrInvalidInput) ||
		stderrors.Is(err, pkgerrors.ErrNilActivity)
}

func (c *Consumer) handle(ctx context.Context, value []byte) error {
	var event models.Activity
	if err := json.Unmarshal(value, &event); err != nil {
		slog.Error("failed to unmarshal activity event", "error", err)
		return err
	}
	if err := c.activityRepo.Create(ctx, &event); err != nil {
		slog.Error("failed to store activity", "id", event.ID, "type", event.Type, "error", err)
		return err
	}
	slog.Info("activity stored", "id", event.ID, "type", event.Type)
	return nil
}

func (c *Consumer) Close() error {
	return c.reader.Close()
}
