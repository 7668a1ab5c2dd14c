package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"carrental-backend/internal/logger"

	"github.com/segmentio/kafka-go"
)

// EventType labels booking lifecycle events on the wire.
type EventType string

const (
	EventBookingCreated   EventType = "booking.created"
	EventBookingConfirmed EventType = "booking.confirmed"
	EventBookingApproved  EventType = "booking.approved"
	EventBookingRejected  EventType = "booking.rejected"
	EventRentalStarted    EventType = "rental.started"
	EventVehicleReturned  EventType = "vehicle.returned"
	EventBookingCompleted EventType = "booking.completed"
)

// BookingEvent is the payload published for every booking status change.
type BookingEvent struct {
	Type          EventType `json:"type"`
	BookingID     int64     `json:"booking_id"`
	CustomerID    int64     `json:"customer_id"`
	CustomerEmail string    `json:"customer_email,omitempty"`
	CarID         int64     `json:"car_id"`
	Status        string    `json:"status"`
	AmountCents   int64     `json:"amount_cents,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}

type Producer struct {
	topic  string
	writer *kafka.Writer
}

func NewProducer(brokers []string, topic string) *Producer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 50 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
	}
	return &Producer{topic: topic, writer: writer}
}

// Publish writes one event keyed by booking ID, so events for the same
// booking stay ordered within a partition.
func (p *Producer) Publish(ctx context.Context, event BookingEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	logger.ExternalServiceCall("kafka", "publish", "topic", p.topic, "type", event.Type, "booking_id", event.BookingID)
	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(fmt.Sprintf("booking-%d", event.BookingID)),
		Value: data,
		Time:  time.Now(),
	})
	logger.ExternalServiceResult("kafka", "publish", err, "topic", p.topic, "type", event.Type)
	if err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}
	return nil
}

func (p *Producer) Close() error {
	if p.writer != nil {
		return p.writer.Close()
	}
	return nil
}
