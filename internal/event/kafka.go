package event

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/maxviazov/catalog-service/internal/config"
	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
)

// KafkaBus publishes events through a single shared writer; the topic is set
// per message so product and offer streams share the connection pool.
type KafkaBus struct {
	writer *kafka.Writer
	log    zerolog.Logger
}

func NewKafkaBus(cfg *config.KafkaConfig, logger *zerolog.Logger) *KafkaBus {
	w := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Balancer:     &kafka.LeastBytes{},
		WriteTimeout: time.Duration(cfg.WriteTimeoutSec) * time.Second,
		RequiredAcks: kafka.RequireOne,
		Transport:    &kafka.Transport{ClientID: cfg.ClientID},
	}
	l := logger.With().Str("module", "event").Str("component", "kafka").Logger()
	return &KafkaBus{writer: w, log: l}
}

// Publish marshals and writes the batch in one call. Messages are keyed by
// event_id so all mutations of an aggregate land on the same partition.
func (b *KafkaBus) Publish(ctx context.Context, topic string, events []Event) error {
	if len(events) == 0 {
		return nil
	}
	msgs := make([]kafka.Message, 0, len(events))
	for _, e := range events {
		value, err := json.Marshal(e)
		if err != nil {
			return &PublishError{Topic: topic, Err: fmt.Errorf("marshal event %s: %w", e.EventID, err)}
		}
		msgs = append(msgs, kafka.Message{
			Topic: topic,
			Key:   []byte(e.EventID),
			Value: value,
		})
	}
	if err := b.writer.WriteMessages(ctx, msgs...); err != nil {
		b.log.Error().Err(err).Str("topic", topic).Int("events", len(msgs)).Msg("publish failed")
		return &PublishError{Topic: topic, Err: err}
	}
	b.log.Debug().Str("topic", topic).Int("events", len(msgs)).Msg("events published")
	return nil
}

func (b *KafkaBus) Close() error { return b.writer.Close() }

var _ Bus = (*KafkaBus)(nil)
