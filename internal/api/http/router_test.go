package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"carrental-backend/internal/domain"
	"carrental-backend/internal/security"
	"carrental-backend/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-jwt-secret-that-is-long-enough!"

type fixture struct {
	fleet    *MockFleetService
	bookings *MockBookingService
	rentals  *MockRentalService
	payments *MockPaymentService
	tokens   security.TokenManager
	router   http.Handler
}

func newFixture() *fixture {
	f := &fixture{
		fleet:    new(MockFleetService),
		bookings: new(MockBookingService),
		rentals:  new(MockRentalService),
		payments: new(MockPaymentService),
		tokens:   security.NewTokenManager(testSecret, 15),
	}
	f.router = NewRouter(f.fleet, f.bookings, f.rentals, f.payments, f.tokens)
	return f
}

func (f *fixture) request(t *testing.T, method, path string, body interface{}, actor *domain.Actor) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	if actor != nil {
		token, err := f.tokens.GenerateAccessToken(*actor)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	f := newFixture()

	rec := f.request(t, http.MethodGet, "/healthz", nil, nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestListCarsRoute(t *testing.T) {
	t.Run("unpaged serves the catalog", func(t *testing.T) {
		f := newFixture()
		f.fleet.On("BrowseCatalog", mock.Anything).
			Return([]domain.Car{{ID: 1, Name: "Corolla"}}, nil)

		rec := f.request(t, http.MethodGet, "/api/v1/cars", nil, nil)

		assert.Equal(t, http.StatusOK, rec.Code)
		var resp pagedCarsResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Len(t, resp.Cars, 1)
		assert.Equal(t, int32(1), resp.Total)
		f.fleet.AssertNotCalled(t, "ListCars", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("paged hits the database listing", func(t *testing.T) {
		f := newFixture()
		f.fleet.On("ListCars", mock.Anything, int32(2), int32(10)).
			Return([]domain.Car{}, int32(25), nil)

		rec := f.request(t, http.MethodGet, "/api/v1/cars?page=2&page_size=10", nil, nil)

		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestGetCarRoute(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		f := newFixture()
		f.fleet.On("GetCar", mock.Anything, int64(3)).
			Return(&domain.Car{ID: 3, Name: "Corolla"}, nil)

		rec := f.request(t, http.MethodGet, "/api/v1/cars/3", nil, nil)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("missing car maps to 404", func(t *testing.T) {
		f := newFixture()
		f.fleet.On("GetCar", mock.Anything, int64(99)).
			Return(nil, domain.NotFoundError{Resource: "car"})

		rec := f.request(t, http.MethodGet, "/api/v1/cars/99", nil, nil)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestCheckAvailabilityRoute(t *testing.T) {
	t.Run("reports availability", func(t *testing.T) {
		f := newFixture()
		f.fleet.On("CheckAvailability", mock.Anything, int64(3), mock.Anything, mock.Anything).
			Return(true, nil)

		rec := f.request(t, http.MethodGet, "/api/v1/cars/3/availability?pickup_date=2026-09-16&return_date=2026-09-20", nil, nil)

		assert.Equal(t, http.StatusOK, rec.Code)
		var resp availabilityResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.True(t, resp.Available)
	})

	t.Run("malformed date maps to 400", func(t *testing.T) {
		f := newFixture()

		rec := f.request(t, http.MethodGet, "/api/v1/cars/3/availability?pickup_date=16-09-2026&return_date=2026-09-20", nil, nil)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestFleetMutationRoutes(t *testing.T) {
	staff := &domain.Actor{Role: domain.RoleStaff, ID: 2, DisplayName: "Kamala"}

	t.Run("add car requires a token", func(t *testing.T) {
		f := newFixture()

		rec := f.request(t, http.MethodPost, "/api/v1/cars", carRequest{Name: "Corolla"}, nil)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		f.fleet.AssertNotCalled(t, "AddCar", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("add car", func(t *testing.T) {
		f := newFixture()
		f.fleet.On("AddCar", mock.Anything, *staff, mock.AnythingOfType("*domain.Car")).Return(nil)

		rec := f.request(t, http.MethodPost, "/api/v1/cars", carRequest{
			Name:            "Corolla",
			NumberPlate:     "CAB-1234",
			RentPerDayCents: 5000,
		}, staff)

		assert.Equal(t, http.StatusCreated, rec.Code)
	})

	t.Run("customer mutation maps to 400", func(t *testing.T) {
		f := newFixture()
		customer := &domain.Actor{Role: domain.RoleCustomer, ID: 7}
		f.fleet.On("AddCar", mock.Anything, *customer, mock.AnythingOfType("*domain.Car")).
			Return(domain.ValidationError{Field: "actor", Msg: "only staff can manage the fleet"})

		rec := f.request(t, http.MethodPost, "/api/v1/cars", carRequest{Name: "Corolla"}, customer)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("remove rented car maps to 409", func(t *testing.T) {
		f := newFixture()
		f.fleet.On("RemoveCar", mock.Anything, *staff, int64(3)).
			Return(domain.ConflictError{Resource: "car", Msg: "car is currently rented"})

		rec := f.request(t, http.MethodDelete, "/api/v1/cars/3", nil, staff)

		assert.Equal(t, http.StatusConflict, rec.Code)
	})
}

func TestBookingRoutes(t *testing.T) {
	customer := &domain.Actor{Role: domain.RoleCustomer, ID: 7}
	staff := &domain.Actor{Role: domain.RoleStaff, ID: 2, DisplayName: "Kamala"}

	t.Run("create booking", func(t *testing.T) {
		f := newFixture()
		f.bookings.On("CreateBooking", mock.Anything, *customer, mock.AnythingOfType("service.CreateBookingRequest")).
			Return(&domain.Booking{ID: 42, Status: domain.BookingStatusPending}, nil)

		rec := f.request(t, http.MethodPost, "/api/v1/bookings", createBookingRequest{
			CarID:      3,
			PickupDate: "2026-09-10",
			ReturnDate: "2026-09-13",
		}, customer)

		assert.Equal(t, http.StatusCreated, rec.Code)
	})

	t.Run("create booking with bad date maps to 400", func(t *testing.T) {
		f := newFixture()

		rec := f.request(t, http.MethodPost, "/api/v1/bookings", createBookingRequest{
			CarID:      3,
			PickupDate: "tomorrow",
			ReturnDate: "2026-09-13",
		}, customer)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		f.bookings.AssertNotCalled(t, "CreateBooking", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("confirm booking", func(t *testing.T) {
		f := newFixture()
		f.bookings.On("ConfirmBooking", mock.Anything, *customer, int64(42)).
			Return(&domain.Booking{ID: 42, Status: domain.BookingStatusConfirmed}, nil)

		rec := f.request(t, http.MethodPost, "/api/v1/bookings/42/confirm", nil, customer)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("reject booking conflict maps to 409", func(t *testing.T) {
		f := newFixture()
		f.bookings.On("RejectBooking", mock.Anything, *staff, int64(42), "no driver").
			Return(nil, domain.ConflictError{Resource: "booking", Msg: "booking cannot be rejected from status RENTED"})

		rec := f.request(t, http.MethodPost, "/api/v1/bookings/42/reject", rejectBookingRequest{Reason: "no driver"}, staff)

		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("outstanding balance gates on booking visibility", func(t *testing.T) {
		f := newFixture()
		f.bookings.On("GetBooking", mock.Anything, *customer, int64(42)).
			Return(nil, domain.NotFoundError{Resource: "booking"})

		rec := f.request(t, http.MethodGet, "/api/v1/bookings/42/outstanding", nil, customer)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		f.payments.AssertNotCalled(t, "OutstandingDue", mock.Anything, mock.Anything)
	})

	t.Run("outstanding balance", func(t *testing.T) {
		f := newFixture()
		f.bookings.On("GetBooking", mock.Anything, *customer, int64(42)).
			Return(&domain.Booking{ID: 42, CustomerID: 7}, nil)
		f.payments.On("OutstandingDue", mock.Anything, int64(42)).Return(int64(7000), nil)

		rec := f.request(t, http.MethodGet, "/api/v1/bookings/42/outstanding", nil, customer)

		assert.Equal(t, http.StatusOK, rec.Code)
		var resp outstandingResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, int64(7000), resp.OutstandingCents)
	})
}

func TestRentalRoutes(t *testing.T) {
	staff := &domain.Actor{Role: domain.RoleStaff, ID: 2}
	customer := &domain.Actor{Role: domain.RoleCustomer, ID: 7}

	t.Run("start rent", func(t *testing.T) {
		f := newFixture()
		f.rentals.On("StartRent", mock.Anything, *staff, int64(42), int64(1000)).
			Return(&domain.Rent{ID: 11, BookingID: 42, OdometerStart: 1000}, nil)

		rec := f.request(t, http.MethodPost, "/api/v1/bookings/42/rent", startRentRequest{OdometerStart: 1000}, staff)

		assert.Equal(t, http.StatusCreated, rec.Code)
	})

	t.Run("process return", func(t *testing.T) {
		f := newFixture()
		f.rentals.On("ProcessReturn", mock.Anything, *staff, service.ProcessReturnRequest{
			RentID:      11,
			OdometerEnd: 1400,
		}).Return(&domain.Return{ID: 5, RentID: 11, FinalPaymentDueCents: 7000}, nil)

		rec := f.request(t, http.MethodPost, "/api/v1/rents/11/return", processReturnRequest{OdometerEnd: 1400}, staff)

		assert.Equal(t, http.StatusCreated, rec.Code)
	})

	t.Run("settle return", func(t *testing.T) {
		f := newFixture()
		f.rentals.On("ProcessFinalPayment", mock.Anything, *customer, int64(5)).
			Return(&domain.Return{ID: 5, PaymentStatus: domain.ReturnPaymentCompleted}, nil)

		rec := f.request(t, http.MethodPost, "/api/v1/returns/5/settle", nil, customer)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("pending settlements are staff only", func(t *testing.T) {
		f := newFixture()

		rec := f.request(t, http.MethodGet, "/api/v1/settlements/pending", nil, customer)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		f.rentals.AssertNotCalled(t, "ListPendingSettlements", mock.Anything)
	})
}

func TestSearchCarsRoute(t *testing.T) {
	t.Run("passes the date range through", func(t *testing.T) {
		f := newFixture()
		pickup := time.Date(2026, 9, 16, 0, 0, 0, 0, time.UTC)
		ret := time.Date(2026, 9, 20, 0, 0, 0, 0, time.UTC)
		f.fleet.On("SearchCars", mock.Anything, "corolla", "", "", int64(0), pickup, ret, int32(0), int32(0)).
			Return([]domain.Car{{ID: 1, Name: "Corolla"}}, int32(1), nil)

		rec := f.request(t, http.MethodGet, "/api/v1/cars/search?q=corolla&pickup_date=2026-09-16&return_date=2026-09-20", nil, nil)

		assert.Equal(t, http.StatusOK, rec.Code)
		var resp pagedCarsResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, int32(1), resp.Total)
	})

	t.Run("malformed pickup date maps to 400", func(t *testing.T) {
		f := newFixture()

		rec := f.request(t, http.MethodGet, "/api/v1/cars/search?pickup_date=16-09-2026&return_date=2026-09-20", nil, nil)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		f.fleet.AssertNotCalled(t, "SearchCars", mock.Anything, mock.Anything, mock.Anything, mock.Anything,
			mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestRentOverviewRoutes(t *testing.T) {
	staff := &domain.Actor{Role: domain.RoleStaff, ID: 2}
	customer := &domain.Actor{Role: domain.RoleCustomer, ID: 7}

	t.Run("lists rents in pages", func(t *testing.T) {
		f := newFixture()
		f.rentals.On("ListRents", mock.Anything, int32(2), int32(10)).
			Return([]domain.Rent{{ID: 11, BookingID: 42}}, int32(14), nil)

		rec := f.request(t, http.MethodGet, "/api/v1/rents?page=2&page_size=10", nil, staff)

		assert.Equal(t, http.StatusOK, rec.Code)
		var resp pagedRentsResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, int32(14), resp.Total)
	})

	t.Run("active filter narrows to open rents", func(t *testing.T) {
		f := newFixture()
		f.rentals.On("ListActiveRents", mock.Anything).
			Return([]domain.Rent{{ID: 11, BookingID: 42}}, nil)

		rec := f.request(t, http.MethodGet, "/api/v1/rents?active=true", nil, staff)

		assert.Equal(t, http.StatusOK, rec.Code)
		f.rentals.AssertNotCalled(t, "ListRents", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("rent overview is staff only", func(t *testing.T) {
		f := newFixture()

		rec := f.request(t, http.MethodGet, "/api/v1/rents", nil, customer)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		f.rentals.AssertNotCalled(t, "ListRents", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("fetches a rent by id", func(t *testing.T) {
		f := newFixture()
		f.rentals.On("GetRent", mock.Anything, int64(11)).
			Return(&domain.Rent{ID: 11, BookingID: 42}, nil)

		rec := f.request(t, http.MethodGet, "/api/v1/rents/11", nil, staff)

		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestPaymentRoutes(t *testing.T) {
	staff := &domain.Actor{Role: domain.RoleStaff, ID: 2}
	customer := &domain.Actor{Role: domain.RoleCustomer, ID: 7}

	t.Run("confirm payment", func(t *testing.T) {
		f := newFixture()
		f.payments.On("ConfirmPayment", mock.Anything, "pi_test_1").
			Return(&domain.Payment{ID: 9, BookingID: 42, Status: domain.PaymentStatusPaid}, nil)

		rec := f.request(t, http.MethodPost, "/api/v1/payments/confirm", confirmPaymentRequest{IntentID: "pi_test_1"}, customer)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("confirm without an intent maps to 400", func(t *testing.T) {
		f := newFixture()

		rec := f.request(t, http.MethodPost, "/api/v1/payments/confirm", confirmPaymentRequest{}, customer)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		f.payments.AssertNotCalled(t, "ConfirmPayment", mock.Anything, mock.Anything)
	})

	t.Run("confirm on an unsettled intent maps to 409", func(t *testing.T) {
		f := newFixture()
		f.payments.On("ConfirmPayment", mock.Anything, "pi_test_1").
			Return(nil, domain.ConflictError{Resource: "payment", Msg: "payment has not settled"})

		rec := f.request(t, http.MethodPost, "/api/v1/payments/confirm", confirmPaymentRequest{IntentID: "pi_test_1"}, customer)

		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("ledger listing is staff only", func(t *testing.T) {
		f := newFixture()

		rec := f.request(t, http.MethodGet, "/api/v1/payments", nil, customer)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		f.payments.AssertNotCalled(t, "ListAllPayments", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("lists the ledger in pages", func(t *testing.T) {
		f := newFixture()
		f.payments.On("ListAllPayments", mock.Anything, int32(1), int32(20)).
			Return([]domain.Payment{{ID: 9, BookingID: 42}}, int32(1), nil)

		rec := f.request(t, http.MethodGet, "/api/v1/payments?page=1&page_size=20", nil, staff)

		assert.Equal(t, http.StatusOK, rec.Code)
		var resp pagedPaymentsResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Len(t, resp.Payments, 1)
	})

	t.Run("fetches a payment by id", func(t *testing.T) {
		f := newFixture()
		f.payments.On("GetPayment", mock.Anything, int64(9)).
			Return(&domain.Payment{ID: 9, BookingID: 42}, nil)

		rec := f.request(t, http.MethodGet, "/api/v1/payments/9", nil, staff)

		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestDashboardRoute(t *testing.T) {
	t.Run("serves the counters to staff", func(t *testing.T) {
		f := newFixture()
		admin := &domain.Actor{Role: domain.RoleAdmin, ID: 1}
		f.fleet.On("DashboardCounters", mock.Anything, *admin).
			Return(&domain.DashboardCounters{FleetTotal: 12, CarsAvailable: 8}, nil)

		rec := f.request(t, http.MethodGet, "/api/v1/admin/dashboard", nil, admin)

		assert.Equal(t, http.StatusOK, rec.Code)
		var resp domain.DashboardCounters
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, int64(12), resp.FleetTotal)
	})

	t.Run("customer maps to 400", func(t *testing.T) {
		f := newFixture()
		customer := &domain.Actor{Role: domain.RoleCustomer, ID: 7}
		f.fleet.On("DashboardCounters", mock.Anything, *customer).
			Return(nil, domain.ValidationError{Field: "actor", Msg: "only staff can view the dashboard"})

		rec := f.request(t, http.MethodGet, "/api/v1/admin/dashboard", nil, customer)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("requires a token", func(t *testing.T) {
		f := newFixture()

		rec := f.request(t, http.MethodGet, "/api/v1/admin/dashboard", nil, nil)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestAuthMiddleware(t *testing.T) {
	f := newFixture()

	t.Run("rejects garbage tokens", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings", nil)
		req.Header.Set("Authorization", "Bearer not-a-token")
		rec := httptest.NewRecorder()

		f.router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("rejects missing bearer prefix", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings", nil)
		req.Header.Set("Authorization", "token abc")
		rec := httptest.NewRecorder()

		f.router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
