// Package stream mirrors audit entries onto a Kafka topic for downstream
// compliance consumers.
package stream

import (
	"context"
	"encoding/json"
	"fmt"

	"healthbridge/internal/audit"
	"healthbridge/internal/platform/kafka/producer"
)

// DefaultTopic receives one JSON message per audit entry.
const DefaultTopic = "healthbridge.audit.entries"

// Producer is the subset of the Kafka producer used by the sink.
type Producer interface {
	Produce(ctx context.Context, msg *producer.Message) error
}

// KafkaSink implements audit.Sink.
type KafkaSink struct {
	producer Producer
	topic    string
}

func NewKafkaSink(p Producer, topic string) *KafkaSink {
	if topic == "" {
		topic = DefaultTopic
	}
	return &KafkaSink{producer: p, topic: topic}
}

// Publish writes entry keyed by its target so all entries about one patient
// land on the same partition in order.
func (s *KafkaSink) Publish(ctx context.Context, entry audit.Entry) error {
	payload, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal audit entry: %w", err)
	}
	key := entry.TargetID
	if key == "" {
		key = entry.ActorID
	}
	msg := &producer.Message{
		Topic: s.topic,
		Key:   []byte(key),
		Value: payload,
		Headers: map[string]string{
			"action":     string(entry.Action),
			"actor_role": string(entry.ActorRole),
			"entry_id":   entry.ID.String(),
		},
	}
	if err := s.producer.Produce(ctx, msg); err != nil {
		return fmt.Errorf("produce audit entry: %w", err)
	}
	return nil
}
