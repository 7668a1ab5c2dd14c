package repository

import (
	"context"
	"time"

	"carrental-backend/internal/domain"
)

type CarRepository interface {
	Create(ctx context.Context, car *domain.Car) error
	GetByID(ctx context.Context, id int64) (*domain.Car, error)
	Update(ctx context.Context, car *domain.Car) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, page, pageSize int32) ([]domain.Car, int32, error)

	// Search filters the catalog. When pickup and ret are non-zero only cars
	// bookable for that range are returned.
	Search(ctx context.Context, query, carType, fuelType string, maxRentPerDayCents int64, pickup, ret time.Time, page, pageSize int32) ([]domain.Car, int32, error)
	CountByStatus(ctx context.Context) (available, rented, unavailable int64, err error)
}

type CustomerRepository interface {
	Create(ctx context.Context, customer *domain.Customer) error
	GetByID(ctx context.Context, id int64) (*domain.Customer, error)
	GetByEmail(ctx context.Context, email string) (*domain.Customer, error)
	Update(ctx context.Context, customer *domain.Customer) error
}

type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) error
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	Update(ctx context.Context, booking *domain.Booking) error
	ListByCustomer(ctx context.Context, customerID int64, status string, page, pageSize int32) ([]domain.Booking, int32, error)
	ListByStatus(ctx context.Context, status string, page, pageSize int32) ([]domain.Booking, int32, error)

	// ListBlocking returns bookings for a car whose status still claims the
	// car and whose date range overlaps [pickup, ret] inclusively.
	ListBlocking(ctx context.Context, carID int64, pickup, ret time.Time) ([]domain.Booking, error)

	// CountActiveByCar counts the car's bookings that have not reached a
	// terminal status.
	CountActiveByCar(ctx context.Context, carID int64) (int64, error)
	CountByStatus(ctx context.Context, statuses ...domain.BookingStatus) (int64, error)
}

type RentRepository interface {
	Create(ctx context.Context, rent *domain.Rent) error
	GetByID(ctx context.Context, id int64) (*domain.Rent, error)
	GetByBookingID(ctx context.Context, bookingID int64) (*domain.Rent, error)
	Update(ctx context.Context, rent *domain.Rent) error
	List(ctx context.Context, page, pageSize int32) ([]domain.Rent, int32, error)
	ListActive(ctx context.Context) ([]domain.Rent, error)

	CreateReturn(ctx context.Context, ret *domain.Return) error
	GetReturnByID(ctx context.Context, id int64) (*domain.Return, error)
	GetReturnByRentID(ctx context.Context, rentID int64) (*domain.Return, error)
	UpdateReturn(ctx context.Context, ret *domain.Return) error
	ListReturnsPendingPayment(ctx context.Context) ([]domain.Return, error)
	CountReturnsPendingPayment(ctx context.Context) (int64, error)
}

type PaymentRepository interface {
	Create(ctx context.Context, payment *domain.Payment) error
	GetByID(ctx context.Context, id int64) (*domain.Payment, error)
	GetByIntentID(ctx context.Context, intentID string) (*domain.Payment, error)
	Update(ctx context.Context, payment *domain.Payment) error
	ListByBooking(ctx context.Context, bookingID int64) ([]domain.Payment, error)
	List(ctx context.Context, page, pageSize int32) ([]domain.Payment, int32, error)
}

// Store bundles all repositories plus transactional execution. ExecTx runs fn
// against a store bound to a single database transaction; booking status
// flips and their car updates always go through it so the two rows change
// atomically.
type Store interface {
	CarRepository() CarRepository
	CustomerRepository() CustomerRepository
	BookingRepository() BookingRepository
	RentRepository() RentRepository
	PaymentRepository() PaymentRepository

	ExecTx(ctx context.Context, fn func(Store) error) error
}
