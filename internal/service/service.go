package service

import (
	"context"
	"time"

	"carrental-backend/internal/domain"
	"carrental-backend/internal/events"
)

type FleetService interface {
	AddCar(ctx context.Context, actor domain.Actor, car *domain.Car) error
	BrowseCatalog(ctx context.Context) ([]domain.Car, error)
	GetCar(ctx context.Context, id int64) (*domain.Car, error)
	UpdateCar(ctx context.Context, actor domain.Actor, car *domain.Car) error
	RemoveCar(ctx context.Context, actor domain.Actor, id int64) error
	ListCars(ctx context.Context, page, pageSize int32) ([]domain.Car, int32, error)
	SearchCars(ctx context.Context, query, carType, fuelType string, maxRentPerDayCents int64, pickup, ret time.Time, page, pageSize int32) ([]domain.Car, int32, error)
	CheckAvailability(ctx context.Context, carID int64, pickup, ret time.Time) (bool, error)
	DashboardCounters(ctx context.Context, actor domain.Actor) (*domain.DashboardCounters, error)
}

type CreateBookingRequest struct {
	CarID         int64
	PickupDate    time.Time
	ReturnDate    time.Time
	LicenseNumber string
	NICNumber     string
}

type BookingService interface {
	CreateBooking(ctx context.Context, actor domain.Actor, req CreateBookingRequest) (*domain.Booking, error)
	ConfirmBooking(ctx context.Context, actor domain.Actor, bookingID int64) (*domain.Booking, error)
	ApproveBooking(ctx context.Context, actor domain.Actor, bookingID int64) (*domain.Booking, error)
	RejectBooking(ctx context.Context, actor domain.Actor, bookingID int64, reason string) (*domain.Booking, error)
	GetBooking(ctx context.Context, actor domain.Actor, bookingID int64) (*domain.Booking, error)
	ListBookings(ctx context.Context, actor domain.Actor, status string, page, pageSize int32) ([]domain.Booking, int32, error)
}

type ProcessReturnRequest struct {
	RentID           int64
	OdometerEnd      int64
	ActualReturnDate time.Time
	HasDamage        bool
	DamageReason     string
	DamageCents      int64
}

type RentalService interface {
	StartRent(ctx context.Context, actor domain.Actor, bookingID int64, odometerStart int64) (*domain.Rent, error)
	ProcessReturn(ctx context.Context, actor domain.Actor, req ProcessReturnRequest) (*domain.Return, error)
	ProcessFinalPayment(ctx context.Context, actor domain.Actor, returnID int64) (*domain.Return, error)
	GetRent(ctx context.Context, rentID int64) (*domain.Rent, error)
	GetRentByBooking(ctx context.Context, bookingID int64) (*domain.Rent, error)
	ListRents(ctx context.Context, page, pageSize int32) ([]domain.Rent, int32, error)
	ListActiveRents(ctx context.Context) ([]domain.Rent, error)
	GetReturn(ctx context.Context, rentID int64) (*domain.Return, error)
	ListPendingSettlements(ctx context.Context) ([]domain.Return, error)
}

// PaymentOutcome is the gateway's answer to a confirmation attempt.
type PaymentOutcome string

const (
	PaymentSucceeded PaymentOutcome = "succeeded"
	PaymentPending   PaymentOutcome = "pending"
	PaymentFailed    PaymentOutcome = "failed"
)

// PaymentGateway abstracts the external payment processor. The demo gateway
// mints intent IDs locally and always confirms.
type PaymentGateway interface {
	CreateIntent(ctx context.Context, amountCents int64, bookingID int64) (string, error)
	ConfirmIntent(ctx context.Context, intentID string) (PaymentOutcome, error)
}

type PaymentService interface {
	// ConfirmPayment promotes a pending ledger row to Paid once the gateway
	// reports the intent settled, confirming the booking if it is still
	// awaiting its advance.
	ConfirmPayment(ctx context.Context, intentID string) (*domain.Payment, error)
	GetPayment(ctx context.Context, id int64) (*domain.Payment, error)
	ListPayments(ctx context.Context, bookingID int64) ([]domain.Payment, error)
	ListAllPayments(ctx context.Context, page, pageSize int32) ([]domain.Payment, int32, error)
	OutstandingDue(ctx context.Context, bookingID int64) (int64, error)
}

type EmailService interface {
	SendBookingCreated(ctx context.Context, email, name string, bookingID int64, carName string) error
	SendBookingConfirmed(ctx context.Context, email, name string, bookingID int64, advanceCents int64) error
	SendBookingApproved(ctx context.Context, email, name string, bookingID int64) error
	SendBookingRejected(ctx context.Context, email, name string, bookingID int64, reason string, refundCents int64) error
	SendReturnSettlement(ctx context.Context, email, name string, bookingID, finalDueCents int64) error
	SendFinalPaymentReminder(ctx context.Context, email, name string, bookingID, finalDueCents int64) error
	SendOpsSummary(ctx context.Context, email, subject, body string) error
}

// EventPublisher decouples services from the Kafka producer.
type EventPublisher interface {
	Publish(ctx context.Context, event events.BookingEvent) error
}

// CatalogCache fronts car catalog reads. A failing cache degrades to the
// database, never to an error.
type CatalogCache interface {
	GetCars(ctx context.Context) ([]domain.Car, error)
	SetCars(ctx context.Context, cars []domain.Car) error
	InvalidateCars(ctx context.Context) error
}
