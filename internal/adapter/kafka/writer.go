// Package kafka publishes watchlist records to a Kafka topic as an optional
// machine-readable sink alongside the CSV files.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/tanya221998/NASA-CEOS/internal/domain"
)

// Writer produces watchlist messages to a Kafka topic.
// It implements pipeline.Publisher.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the watchlist topic.
func NewWriter(brokers []string, topic string, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// PublishWatchlist serializes and publishes all watchlist records in a single
// WriteMessages call for efficiency. Publishing nothing is a no-op, not an
// error, so empty watchlists don't touch the broker.
func (w *Writer) PublishWatchlist(ctx context.Context, records []domain.ApproachRecord) error {
	if len(records) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(records))
	for i := range records {
		msg, err := serializeToMessage(records[i])
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		return err
	}
	w.logger.Info("watchlist published", "topic", w.writer.Topic, "records", len(records))
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals an ApproachRecord into a Kafka message keyed by
// designation, so repeated runs compact per object on log-compacted topics.
func serializeToMessage(rec domain.ApproachRecord) (kafkago.Message, error) {
	data, err := json.Marshal(rec)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize approach record: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(rec.Designation),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "close_approach_time", Value: []byte(rec.TimeRaw)},
			{Key: "pha", Value: []byte(fmt.Sprintf("%t", rec.PHA))},
		},
	}, nil
}
