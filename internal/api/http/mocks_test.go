package http

import (
	"context"
	"time"

	"carrental-backend/internal/domain"
	"carrental-backend/internal/service"

	"github.com/stretchr/testify/mock"
)

type MockFleetService struct {
	mock.Mock
}

func (m *MockFleetService) AddCar(ctx context.Context, actor domain.Actor, car *domain.Car) error {
	args := m.Called(ctx, actor, car)
	return args.Error(0)
}
func (m *MockFleetService) BrowseCatalog(ctx context.Context) ([]domain.Car, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Car), args.Error(1)
}
func (m *MockFleetService) GetCar(ctx context.Context, id int64) (*domain.Car, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Car), args.Error(1)
}
func (m *MockFleetService) UpdateCar(ctx context.Context, actor domain.Actor, car *domain.Car) error {
	args := m.Called(ctx, actor, car)
	return args.Error(0)
}
func (m *MockFleetService) RemoveCar(ctx context.Context, actor domain.Actor, id int64) error {
	args := m.Called(ctx, actor, id)
	return args.Error(0)
}
func (m *MockFleetService) ListCars(ctx context.Context, page, pageSize int32) ([]domain.Car, int32, error) {
	args := m.Called(ctx, page, pageSize)
	return args.Get(0).([]domain.Car), args.Get(1).(int32), args.Error(2)
}
func (m *MockFleetService) SearchCars(ctx context.Context, query, carType, fuelType string, maxRentPerDayCents int64, pickup, ret time.Time, page, pageSize int32) ([]domain.Car, int32, error) {
	args := m.Called(ctx, query, carType, fuelType, maxRentPerDayCents, pickup, ret, page, pageSize)
	return args.Get(0).([]domain.Car), args.Get(1).(int32), args.Error(2)
}
func (m *MockFleetService) DashboardCounters(ctx context.Context, actor domain.Actor) (*domain.DashboardCounters, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DashboardCounters), args.Error(1)
}
func (m *MockFleetService) CheckAvailability(ctx context.Context, carID int64, pickup, ret time.Time) (bool, error) {
	args := m.Called(ctx, carID, pickup, ret)
	return args.Bool(0), args.Error(1)
}

type MockBookingService struct {
	mock.Mock
}

func (m *MockBookingService) CreateBooking(ctx context.Context, actor domain.Actor, req service.CreateBookingRequest) (*domain.Booking, error) {
	args := m.Called(ctx, actor, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}
func (m *MockBookingService) ConfirmBooking(ctx context.Context, actor domain.Actor, bookingID int64) (*domain.Booking, error) {
	args := m.Called(ctx, actor, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}
func (m *MockBookingService) ApproveBooking(ctx context.Context, actor domain.Actor, bookingID int64) (*domain.Booking, error) {
	args := m.Called(ctx, actor, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}
func (m *MockBookingService) RejectBooking(ctx context.Context, actor domain.Actor, bookingID int64, reason string) (*domain.Booking, error) {
	args := m.Called(ctx, actor, bookingID, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}
func (m *MockBookingService) GetBooking(ctx context.Context, actor domain.Actor, bookingID int64) (*domain.Booking, error) {
	args := m.Called(ctx, actor, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}
func (m *MockBookingService) ListBookings(ctx context.Context, actor domain.Actor, status string, page, pageSize int32) ([]domain.Booking, int32, error) {
	args := m.Called(ctx, actor, status, page, pageSize)
	return args.Get(0).([]domain.Booking), args.Get(1).(int32), args.Error(2)
}

type MockRentalService struct {
	mock.Mock
}

func (m *MockRentalService) StartRent(ctx context.Context, actor domain.Actor, bookingID int64, odometerStart int64) (*domain.Rent, error) {
	args := m.Called(ctx, actor, bookingID, odometerStart)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Rent), args.Error(1)
}
func (m *MockRentalService) ProcessReturn(ctx context.Context, actor domain.Actor, req service.ProcessReturnRequest) (*domain.Return, error) {
	args := m.Called(ctx, actor, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Return), args.Error(1)
}
func (m *MockRentalService) ProcessFinalPayment(ctx context.Context, actor domain.Actor, returnID int64) (*domain.Return, error) {
	args := m.Called(ctx, actor, returnID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Return), args.Error(1)
}
func (m *MockRentalService) GetRent(ctx context.Context, rentID int64) (*domain.Rent, error) {
	args := m.Called(ctx, rentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Rent), args.Error(1)
}
func (m *MockRentalService) ListRents(ctx context.Context, page, pageSize int32) ([]domain.Rent, int32, error) {
	args := m.Called(ctx, page, pageSize)
	return args.Get(0).([]domain.Rent), args.Get(1).(int32), args.Error(2)
}
func (m *MockRentalService) ListActiveRents(ctx context.Context) ([]domain.Rent, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Rent), args.Error(1)
}
func (m *MockRentalService) GetRentByBooking(ctx context.Context, bookingID int64) (*domain.Rent, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Rent), args.Error(1)
}
func (m *MockRentalService) GetReturn(ctx context.Context, rentID int64) (*domain.Return, error) {
	args := m.Called(ctx, rentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Return), args.Error(1)
}
func (m *MockRentalService) ListPendingSettlements(ctx context.Context) ([]domain.Return, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Return), args.Error(1)
}

type MockPaymentService struct {
	mock.Mock
}

func (m *MockPaymentService) ConfirmPayment(ctx context.Context, intentID string) (*domain.Payment, error) {
	args := m.Called(ctx, intentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}
func (m *MockPaymentService) GetPayment(ctx context.Context, id int64) (*domain.Payment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}
func (m *MockPaymentService) ListPayments(ctx context.Context, bookingID int64) ([]domain.Payment, error) {
	args := m.Called(ctx, bookingID)
	return args.Get(0).([]domain.Payment), args.Error(1)
}
func (m *MockPaymentService) ListAllPayments(ctx context.Context, page, pageSize int32) ([]domain.Payment, int32, error) {
	args := m.Called(ctx, page, pageSize)
	return args.Get(0).([]domain.Payment), args.Get(1).(int32), args.Error(2)
}
func (m *MockPaymentService) OutstandingDue(ctx context.Context, bookingID int64) (int64, error) {
	args := m.Called(ctx, bookingID)
	return args.Get(0).(int64), args.Error(1)
}
