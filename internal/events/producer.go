// Package events streams order lifecycle messages to Kafka. The bot only
// emits order_created; an external payment watcher consumes it and drives
// the pending → paid transition out of process.
package events

import (
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"

	"github.com/mironalisherovich1-cpu/ESCOBAR1/internal/models"
)

type Producer struct {
	Writer *kafka.Writer
}

func NewProducer(brokers []string, topic string) *Producer {
	writer := kafka.NewWriter(kafka.WriterConfig{
		Brokers: brokers,
		Topic:   topic,
	})
	return &Producer{Writer: writer}
}

// PublishOrderCreated streams the new order, keyed by its payment
// reference so the watcher can match incoming payments.
func (p *Producer) PublishOrderCreated(order models.Order) error {
	msgBytes, err := json.Marshal(order)
	if err != nil {
		return err
	}
	return p.Writer.WriteMessages(context.Background(),
		kafka.Message{
			Key:   []byte(order.PaymentID),
			Value: msgBytes,
		},
	)
}

func (p *Producer) Close() error {
	return p.Writer.Close()
}

// NopPublisher stands in when Kafka is disabled.
type NopPublisher struct{}

func (NopPublisher) PublishOrderCreated(models.Order) error { return nil }
