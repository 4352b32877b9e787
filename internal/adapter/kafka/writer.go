package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/matsuesunset/sunset-service/internal/config"
	"github.com/matsuesunset/sunset-service/internal/domain"
)

// messageWriter is the subset of *kafkago.Writer used by Writer.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Writer publishes sunset forecasts to a Kafka topic.
// It implements domain.Publisher.
type Writer struct {
	writer messageWriter
	topic  string
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured forecast topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:                   kafkago.TCP(cfg.KafkaBrokers...),
		Topic:                  cfg.KafkaTopic,
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireAll,
		BatchTimeout:           10 * time.Millisecond,
		AllowAutoTopicCreation: true,
	}
	return &Writer{writer: w, topic: cfg.KafkaTopic, logger: logger}
}

// Publish writes one forecast keyed by its date, so a compacted topic keeps
// the latest forecast per evening.
func (w *Writer) Publish(ctx context.Context, fc domain.SunsetForecast) error {
	msg, err := serializeToMessage(fc)
	if err != nil {
		return err
	}
	if err := w.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write to %s: %w", w.topic, err)
	}
	w.logger.Debug("forecast published", "topic", w.topic, "date", fc.Date, "score", fc.Score)
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a SunsetForecast into a Kafka message.
func serializeToMessage(fc domain.SunsetForecast) (kafkago.Message, error) {
	data, err := json.Marshal(fc)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize sunset forecast: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(fc.Date),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "source", Value: []byte(fc.Source)},
			{Key: "computed_at", Value: []byte(fc.ComputedAt.Format(time.RFC3339))},
		},
	}, nil
}
