package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"TradeIQ/internal/domain/models"
	"TradeIQ/pkg/kafka"
)

// KafkaEventPublisher fans detected volatility events out on a Kafka topic
// keyed by instrument, so downstream consumers see per-instrument ordering.
type KafkaEventPublisher struct {
	producer *kafka.Producer
	topic    string
}

func NewKafkaEventPublisher(producer *kafka.Producer, topic string) *KafkaEventPublisher {
	return &KafkaEventPublisher{producer: producer, topic: topic}
}

func (p *KafkaEventPublisher) PublishEvent(ctx context.Context, event models.VolatilityEvent) error {
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal volatility event: %w", err)
	}
	return p.producer.Publish(ctx, p.topic, []byte(event.Instrument), value)
}

func (p *KafkaEventPublisher) Close() error {
	return p.producer.Close()
}
