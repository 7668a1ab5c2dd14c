package service

import (
	"context"
	"strings"
	"testing"

	"carrental-backend/internal/config"
	"carrental-backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestDemoGateway(t *testing.T) {
	gateway := NewDemoGateway()
	ctx := context.Background()

	intentID, err := gateway.CreateIntent(ctx, 7500, 42)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(intentID, "pi_demo_"))

	outcome, err := gateway.ConfirmIntent(ctx, intentID)
	require.NoError(t, err)
	assert.Equal(t, PaymentSucceeded, outcome)
}

func TestNewGateway(t *testing.T) {
	t.Run("demo mode", func(t *testing.T) {
		gateway, err := NewGateway(config.PaymentsConfig{Mode: "demo"})
		require.NoError(t, err)
		assert.NotNil(t, gateway)
	})

	t.Run("unknown mode", func(t *testing.T) {
		_, err := NewGateway(config.PaymentsConfig{Mode: "stripe"})
		assert.Error(t, err)
	})
}

func TestConfirmPayment(t *testing.T) {
	ctx := context.Background()

	pendingAdvance := func() *domain.Payment {
		return &domain.Payment{
			ID:          9,
			BookingID:   42,
			AmountCents: 7500,
			Type:        domain.PaymentTypeAdvance,
			Status:      domain.PaymentStatusPending,
			IntentID:    "pi_test_1",
		}
	}

	t.Run("promotes the payment and confirms the booking", func(t *testing.T) {
		store := newMockStore()
		gateway := newStubGateway()
		svc := NewPaymentService(store, gateway)

		store.payments.On("GetByIntentID", ctx, "pi_test_1").Return(pendingAdvance(), nil)
		store.payments.On("Update", ctx, mock.AnythingOfType("*domain.Payment")).Return(nil)
		store.bookings.On("GetByID", ctx, int64(42)).
			Return(&domain.Booking{ID: 42, CustomerID: 7, Status: domain.BookingStatusPending}, nil)
		var confirmed *domain.Booking
		store.bookings.On("Update", ctx, mock.AnythingOfType("*domain.Booking")).
			Run(func(args mock.Arguments) { confirmed = args.Get(1).(*domain.Booking) }).
			Return(nil)

		payment, err := svc.ConfirmPayment(ctx, "pi_test_1")

		require.NoError(t, err)
		assert.Equal(t, domain.PaymentStatusPaid, payment.Status)
		require.NotNil(t, confirmed)
		assert.Equal(t, domain.BookingStatusConfirmed, confirmed.Status)
		assert.Equal(t, []string{"pi_test_1"}, gateway.confirms)
	})

	t.Run("leaves an already confirmed booking alone", func(t *testing.T) {
		store := newMockStore()
		svc := NewPaymentService(store, newStubGateway())

		store.payments.On("GetByIntentID", ctx, "pi_test_1").Return(pendingAdvance(), nil)
		store.payments.On("Update", ctx, mock.AnythingOfType("*domain.Payment")).Return(nil)
		store.bookings.On("GetByID", ctx, int64(42)).
			Return(&domain.Booking{ID: 42, CustomerID: 7, Status: domain.BookingStatusConfirmed}, nil)

		payment, err := svc.ConfirmPayment(ctx, "pi_test_1")

		require.NoError(t, err)
		assert.Equal(t, domain.PaymentStatusPaid, payment.Status)
		store.bookings.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("confirming a paid intent is a no-op", func(t *testing.T) {
		store := newMockStore()
		gateway := newStubGateway()
		svc := NewPaymentService(store, gateway)

		paid := pendingAdvance()
		paid.Status = domain.PaymentStatusPaid
		store.payments.On("GetByIntentID", ctx, "pi_test_1").Return(paid, nil)

		payment, err := svc.ConfirmPayment(ctx, "pi_test_1")

		require.NoError(t, err)
		assert.Equal(t, domain.PaymentStatusPaid, payment.Status)
		assert.Empty(t, gateway.confirms)
		store.payments.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("refuses a refunded row", func(t *testing.T) {
		store := newMockStore()
		svc := NewPaymentService(store, newStubGateway())

		refunded := pendingAdvance()
		refunded.Status = domain.PaymentStatusRefunded
		store.payments.On("GetByIntentID", ctx, "pi_test_1").Return(refunded, nil)

		_, err := svc.ConfirmPayment(ctx, "pi_test_1")

		assert.True(t, domain.IsConflict(err))
	})

	t.Run("unsettled intent stays pending", func(t *testing.T) {
		store := newMockStore()
		gateway := newStubGateway()
		gateway.outcome = PaymentPending
		svc := NewPaymentService(store, gateway)

		store.payments.On("GetByIntentID", ctx, "pi_test_1").Return(pendingAdvance(), nil)

		_, err := svc.ConfirmPayment(ctx, "pi_test_1")

		assert.True(t, domain.IsConflict(err))
		store.payments.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})
}

func TestOutstandingDue(t *testing.T) {
	ctx := context.Background()

	t.Run("no rent means nothing outstanding", func(t *testing.T) {
		store := newMockStore()
		svc := NewPaymentService(store, newStubGateway())

		store.rents.On("GetByBookingID", ctx, int64(42)).
			Return(nil, domain.NotFoundError{Resource: "rent"})

		due, err := svc.OutstandingDue(ctx, 42)

		require.NoError(t, err)
		assert.Equal(t, int64(0), due)
	})

	t.Run("pending settlement reports the balance", func(t *testing.T) {
		store := newMockStore()
		svc := NewPaymentService(store, newStubGateway())

		store.rents.On("GetByBookingID", ctx, int64(42)).
			Return(&domain.Rent{ID: 11, BookingID: 42}, nil)
		store.rents.On("GetReturnByRentID", ctx, int64(11)).
			Return(&domain.Return{ID: 5, RentID: 11, FinalPaymentDueCents: 7000, PaymentStatus: domain.ReturnPaymentPending}, nil)

		due, err := svc.OutstandingDue(ctx, 42)

		require.NoError(t, err)
		assert.Equal(t, int64(7000), due)
	})

	t.Run("completed settlement owes nothing", func(t *testing.T) {
		store := newMockStore()
		svc := NewPaymentService(store, newStubGateway())

		store.rents.On("GetByBookingID", ctx, int64(42)).
			Return(&domain.Rent{ID: 11, BookingID: 42}, nil)
		store.rents.On("GetReturnByRentID", ctx, int64(11)).
			Return(&domain.Return{ID: 5, RentID: 11, FinalPaymentDueCents: 7000, PaymentStatus: domain.ReturnPaymentCompleted}, nil)

		due, err := svc.OutstandingDue(ctx, 42)

		require.NoError(t, err)
		assert.Equal(t, int64(0), due)
	})
}
