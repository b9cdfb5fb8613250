package kafka

import (
	"context"
	"encoding/json"

	"ndelight-api/internal/models"

	"github.com/segmentio/kafka-go"
)

// Producer streams booking lifecycle events for downstream ops tooling
// (reconciliation, analytics). Publishing is best-effort: the booking flow
// never fails because a broker is down.
type Producer struct {
	writer       *kafka.Writer
	topicCreated string
	topicPaid    string
}

func NewProducer(brokers []string, topicCreated, topicPaid string) *Producer {
	writer := &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Balancer: &kafka.LeastBytes{},
	}
	return &Producer{writer: writer, topicCreated: topicCreated, topicPaid: topicPaid}
}

func (p *Producer) publish(topic, key string, value interface{}) error {
	msgBytes, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(context.Background(), kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: msgBytes,
	})
}

func (p *Producer) BookingCreated(booking models.Booking) error {
	return p.publish(p.topicCreated, booking.ID, booking)
}

func (p *Producer) BookingPaid(booking models.Booking) error {
	return p.publish(p.topicPaid, booking.ID, booking)
}

func (p *Producer) Close() error {
	return p.writer.Close()
}

// Noop satisfies the booking publisher when Kafka is disabled.
type Noop struct{}

func (Noop) BookingCreated(models.Booking) error { return nil }
func (Noop) BookingPaid(models.Booking) error    { return nil }
