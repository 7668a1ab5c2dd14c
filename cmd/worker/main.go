package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"carrental-backend/internal/config"
	"carrental-backend/internal/events"
	"carrental-backend/internal/logger"
	"carrental-backend/internal/service"
)

// The worker tails the booking event stream: every event becomes a
// structured audit log line, and money-moving events are forwarded to the
// operations mailbox when one is configured.
func main() {
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting event worker...", "brokers", cfg.Kafka.Brokers, "topic", cfg.Kafka.BookingsTopic, "group", cfg.Kafka.ConsumerGroup)

	consumer := events.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.ConsumerGroup, cfg.Kafka.BookingsTopic)
	defer consumer.Close()

	emailSvc := service.NewEmailService(cfg.Email)
	opsEmail := cfg.Scheduler.OpsEmail

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		cancel()
	}()

	err = consumer.Consume(ctx, func(ctx context.Context, event events.BookingEvent) error {
		logger.Info("booking event",
			"type", event.Type,
			"booking_id", event.BookingID,
			"customer_id", event.CustomerID,
			"car_id", event.CarID,
			"status", event.Status,
			"amount_cents", event.AmountCents,
			"occurred_at", event.OccurredAt,
		)

		if opsEmail == "" {
			return nil
		}
		switch event.Type {
		case events.EventBookingRejected:
			subject := fmt.Sprintf("Refund issued for booking #%d", event.BookingID)
			body := fmt.Sprintf("Booking #%d was rejected; a refund of %d cents was recorded.\n", event.BookingID, event.AmountCents)
			if err := emailSvc.SendOpsSummary(ctx, opsEmail, subject, body); err != nil {
				logger.Warn("ops notification failed", "error", err)
			}
		case events.EventVehicleReturned:
			if event.AmountCents > 0 {
				subject := fmt.Sprintf("Outstanding settlement for booking #%d", event.BookingID)
				body := fmt.Sprintf("Booking #%d was returned with %d cents still due.\n", event.BookingID, event.AmountCents)
				if err := emailSvc.SendOpsSummary(ctx, opsEmail, subject, body); err != nil {
					logger.Warn("ops notification failed", "error", err)
				}
			}
		}
		return nil
	})
	if err != nil && ctx.Err() == nil {
		logger.Error("Consumer stopped with error", "error", err)
		os.Exit(1)
	}
	logger.Info("Worker stopped")
}
