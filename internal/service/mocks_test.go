package service

import (
	"context"
	"time"

	"carrental-backend/internal/domain"
	"carrental-backend/internal/events"
	"carrental-backend/internal/repository"

	"github.com/stretchr/testify/mock"
)

// MockCarRepo
type MockCarRepo struct {
	mock.Mock
}

func (m *MockCarRepo) Create(ctx context.Context, car *domain.Car) error {
	args := m.Called(ctx, car)
	return args.Error(0)
}
func (m *MockCarRepo) GetByID(ctx context.Context, id int64) (*domain.Car, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Car), args.Error(1)
}
func (m *MockCarRepo) Update(ctx context.Context, car *domain.Car) error {
	args := m.Called(ctx, car)
	return args.Error(0)
}
func (m *MockCarRepo) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockCarRepo) List(ctx context.Context, page, pageSize int32) ([]domain.Car, int32, error) {
	args := m.Called(ctx, page, pageSize)
	return args.Get(0).([]domain.Car), args.Get(1).(int32), args.Error(2)
}
func (m *MockCarRepo) Search(ctx context.Context, query, carType, fuelType string, maxRentPerDayCents int64, pickup, ret time.Time, page, pageSize int32) ([]domain.Car, int32, error) {
	args := m.Called(ctx, query, carType, fuelType, maxRentPerDayCents, pickup, ret, page, pageSize)
	return args.Get(0).([]domain.Car), args.Get(1).(int32), args.Error(2)
}
func (m *MockCarRepo) CountByStatus(ctx context.Context) (int64, int64, int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Get(1).(int64), args.Get(2).(int64), args.Error(3)
}

// MockCustomerRepo
type MockCustomerRepo struct {
	mock.Mock
}

func (m *MockCustomerRepo) Create(ctx context.Context, customer *domain.Customer) error {
	args := m.Called(ctx, customer)
	return args.Error(0)
}
func (m *MockCustomerRepo) GetByID(ctx context.Context, id int64) (*domain.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Customer), args.Error(1)
}
func (m *MockCustomerRepo) GetByEmail(ctx context.Context, email string) (*domain.Customer, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Customer), args.Error(1)
}
func (m *MockCustomerRepo) Update(ctx context.Context, customer *domain.Customer) error {
	args := m.Called(ctx, customer)
	return args.Error(0)
}

// MockBookingRepo
type MockBookingRepo struct {
	mock.Mock
}

func (m *MockBookingRepo) Create(ctx context.Context, booking *domain.Booking) error {
	args := m.Called(ctx, booking)
	return args.Error(0)
}
func (m *MockBookingRepo) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}
func (m *MockBookingRepo) Update(ctx context.Context, booking *domain.Booking) error {
	args := m.Called(ctx, booking)
	return args.Error(0)
}
func (m *MockBookingRepo) ListByCustomer(ctx context.Context, customerID int64, status string, page, pageSize int32) ([]domain.Booking, int32, error) {
	args := m.Called(ctx, customerID, status, page, pageSize)
	return args.Get(0).([]domain.Booking), args.Get(1).(int32), args.Error(2)
}
func (m *MockBookingRepo) ListByStatus(ctx context.Context, status string, page, pageSize int32) ([]domain.Booking, int32, error) {
	args := m.Called(ctx, status, page, pageSize)
	return args.Get(0).([]domain.Booking), args.Get(1).(int32), args.Error(2)
}
func (m *MockBookingRepo) ListBlocking(ctx context.Context, carID int64, pickup, ret time.Time) ([]domain.Booking, error) {
	args := m.Called(ctx, carID, pickup, ret)
	return args.Get(0).([]domain.Booking), args.Error(1)
}
func (m *MockBookingRepo) CountActiveByCar(ctx context.Context, carID int64) (int64, error) {
	args := m.Called(ctx, carID)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockBookingRepo) CountByStatus(ctx context.Context, statuses ...domain.BookingStatus) (int64, error) {
	callArgs := make([]interface{}, 0, len(statuses)+1)
	callArgs = append(callArgs, ctx)
	for _, s := range statuses {
		callArgs = append(callArgs, s)
	}
	args := m.Called(callArgs...)
	return args.Get(0).(int64), args.Error(1)
}

// MockRentRepo
type MockRentRepo struct {
	mock.Mock
}

func (m *MockRentRepo) Create(ctx context.Context, rent *domain.Rent) error {
	args := m.Called(ctx, rent)
	return args.Error(0)
}
func (m *MockRentRepo) GetByID(ctx context.Context, id int64) (*domain.Rent, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Rent), args.Error(1)
}
func (m *MockRentRepo) GetByBookingID(ctx context.Context, bookingID int64) (*domain.Rent, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Rent), args.Error(1)
}
func (m *MockRentRepo) Update(ctx context.Context, rent *domain.Rent) error {
	args := m.Called(ctx, rent)
	return args.Error(0)
}
func (m *MockRentRepo) List(ctx context.Context, page, pageSize int32) ([]domain.Rent, int32, error) {
	args := m.Called(ctx, page, pageSize)
	return args.Get(0).([]domain.Rent), args.Get(1).(int32), args.Error(2)
}
func (m *MockRentRepo) ListActive(ctx context.Context) ([]domain.Rent, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Rent), args.Error(1)
}
func (m *MockRentRepo) CreateReturn(ctx context.Context, ret *domain.Return) error {
	args := m.Called(ctx, ret)
	return args.Error(0)
}
func (m *MockRentRepo) GetReturnByID(ctx context.Context, id int64) (*domain.Return, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Return), args.Error(1)
}
func (m *MockRentRepo) GetReturnByRentID(ctx context.Context, rentID int64) (*domain.Return, error) {
	args := m.Called(ctx, rentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Return), args.Error(1)
}
func (m *MockRentRepo) UpdateReturn(ctx context.Context, ret *domain.Return) error {
	args := m.Called(ctx, ret)
	return args.Error(0)
}
func (m *MockRentRepo) ListReturnsPendingPayment(ctx context.Context) ([]domain.Return, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Return), args.Error(1)
}
func (m *MockRentRepo) CountReturnsPendingPayment(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockPaymentRepo
type MockPaymentRepo struct {
	mock.Mock
}

func (m *MockPaymentRepo) Create(ctx context.Context, payment *domain.Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}
func (m *MockPaymentRepo) GetByID(ctx context.Context, id int64) (*domain.Payment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}
func (m *MockPaymentRepo) Update(ctx context.Context, payment *domain.Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}
func (m *MockPaymentRepo) GetByIntentID(ctx context.Context, intentID string) (*domain.Payment, error) {
	args := m.Called(ctx, intentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}
func (m *MockPaymentRepo) ListByBooking(ctx context.Context, bookingID int64) ([]domain.Payment, error) {
	args := m.Called(ctx, bookingID)
	return args.Get(0).([]domain.Payment), args.Error(1)
}
func (m *MockPaymentRepo) List(ctx context.Context, page, pageSize int32) ([]domain.Payment, int32, error) {
	args := m.Called(ctx, page, pageSize)
	return args.Get(0).([]domain.Payment), args.Get(1).(int32), args.Error(2)
}

// mockStore bundles the repo mocks; ExecTx runs the callback against the
// same store, mirroring the transactional wrapper.
type mockStore struct {
	cars      *MockCarRepo
	customers *MockCustomerRepo
	bookings  *MockBookingRepo
	rents     *MockRentRepo
	payments  *MockPaymentRepo
}

func newMockStore() *mockStore {
	return &mockStore{
		cars:      new(MockCarRepo),
		customers: new(MockCustomerRepo),
		bookings:  new(MockBookingRepo),
		rents:     new(MockRentRepo),
		payments:  new(MockPaymentRepo),
	}
}

func (s *mockStore) CarRepository() repository.CarRepository           { return s.cars }
func (s *mockStore) CustomerRepository() repository.CustomerRepository { return s.customers }
func (s *mockStore) BookingRepository() repository.BookingRepository   { return s.bookings }
func (s *mockStore) RentRepository() repository.RentRepository         { return s.rents }
func (s *mockStore) PaymentRepository() repository.PaymentRepository   { return s.payments }

func (s *mockStore) ExecTx(ctx context.Context, fn func(repository.Store) error) error {
	return fn(s)
}

// stubGateway confirms every intent with a fixed outcome.
type stubGateway struct {
	outcome  PaymentOutcome
	intents  []string
	confirms []string
}

func newStubGateway() *stubGateway {
	return &stubGateway{outcome: PaymentSucceeded}
}

func (g *stubGateway) CreateIntent(ctx context.Context, amountCents int64, bookingID int64) (string, error) {
	intentID := "pi_test_1"
	g.intents = append(g.intents, intentID)
	return intentID, nil
}

func (g *stubGateway) ConfirmIntent(ctx context.Context, intentID string) (PaymentOutcome, error) {
	g.confirms = append(g.confirms, intentID)
	return g.outcome, nil
}

// stubEmail records which notifications went out.
type stubEmail struct {
	sent []string
}

func (e *stubEmail) SendBookingCreated(ctx context.Context, email, name string, bookingID int64, carName string) error {
	e.sent = append(e.sent, "created")
	return nil
}
func (e *stubEmail) SendBookingConfirmed(ctx context.Context, email, name string, bookingID int64, advanceCents int64) error {
	e.sent = append(e.sent, "confirmed")
	return nil
}
func (e *stubEmail) SendBookingApproved(ctx context.Context, email, name string, bookingID int64) error {
	e.sent = append(e.sent, "approved")
	return nil
}
func (e *stubEmail) SendBookingRejected(ctx context.Context, email, name string, bookingID int64, reason string, refundCents int64) error {
	e.sent = append(e.sent, "rejected")
	return nil
}
func (e *stubEmail) SendReturnSettlement(ctx context.Context, email, name string, bookingID, finalDueCents int64) error {
	e.sent = append(e.sent, "settlement")
	return nil
}
func (e *stubEmail) SendFinalPaymentReminder(ctx context.Context, email, name string, bookingID, finalDueCents int64) error {
	e.sent = append(e.sent, "reminder")
	return nil
}
func (e *stubEmail) SendOpsSummary(ctx context.Context, email, subject, body string) error {
	e.sent = append(e.sent, "ops")
	return nil
}

// stubPublisher captures published events.
type stubPublisher struct {
	published []events.BookingEvent
}

func (p *stubPublisher) Publish(ctx context.Context, event events.BookingEvent) error {
	p.published = append(p.published, event)
	return nil
}

// stubCache is an in-memory CatalogCache.
type stubCache struct {
	cars        []domain.Car
	invalidated int
}

func (c *stubCache) GetCars(ctx context.Context) ([]domain.Car, error) {
	return c.cars, nil
}
func (c *stubCache) SetCars(ctx context.Context, cars []domain.Car) error {
	c.cars = cars
	return nil
}
func (c *stubCache) InvalidateCars(ctx context.Context) error {
	c.cars = nil
	c.invalidated++
	return nil
}
