package service

import (
	"context"
	"fmt"

	"carrental-backend/internal/config"
	"carrental-backend/internal/domain"
	"carrental-backend/internal/logger"
	"carrental-backend/internal/repository"

	"github.com/google/uuid"
)

// NewGateway selects the gateway implementation for the configured payments
// mode. "demo" is the only supported mode.
func NewGateway(cfg config.PaymentsConfig) (PaymentGateway, error) {
	switch cfg.Mode {
	case "", "demo":
		return NewDemoGateway(), nil
	default:
		return nil, fmt.Errorf("unsupported payments mode %q", cfg.Mode)
	}
}

// demoGateway is the stand-in payment processor. It mints intent IDs locally
// and confirms every intent immediately.
type demoGateway struct{}

func NewDemoGateway() PaymentGateway {
	return &demoGateway{}
}

func (g *demoGateway) CreateIntent(ctx context.Context, amountCents int64, bookingID int64) (string, error) {
	intentID := fmt.Sprintf("pi_demo_%s", uuid.NewString())
	logger.ExternalServiceCall("payments", "create_intent", "intent_id", intentID, "amount_cents", amountCents, "booking_id", bookingID)
	return intentID, nil
}

func (g *demoGateway) ConfirmIntent(ctx context.Context, intentID string) (PaymentOutcome, error) {
	logger.ExternalServiceCall("payments", "confirm_intent", "intent_id", intentID)
	return PaymentSucceeded, nil
}

type paymentService struct {
	store   repository.Store
	gateway PaymentGateway
}

func NewPaymentService(store repository.Store, gateway PaymentGateway) PaymentService {
	return &paymentService{store: store, gateway: gateway}
}

// ConfirmPayment flips a pending ledger row to Paid once the gateway reports
// the intent settled. A booking still waiting on its advance moves to
// Confirmed in the same transaction. Confirming an already paid intent is a
// no-op.
func (s *paymentService) ConfirmPayment(ctx context.Context, intentID string) (*domain.Payment, error) {
	payment, err := s.store.PaymentRepository().GetByIntentID(ctx, intentID)
	if err != nil {
		return nil, err
	}
	if payment.Status == domain.PaymentStatusPaid {
		return payment, nil
	}
	if payment.Status != domain.PaymentStatusPending {
		return nil, domain.ConflictError{Resource: "payment", Msg: "payment cannot be confirmed from status " + string(payment.Status)}
	}

	outcome, err := s.gateway.ConfirmIntent(ctx, intentID)
	if err != nil {
		return nil, err
	}
	if outcome != PaymentSucceeded {
		return nil, domain.ConflictError{Resource: "payment", Msg: "payment has not settled"}
	}

	err = s.store.ExecTx(ctx, func(tx repository.Store) error {
		payment.Status = domain.PaymentStatusPaid
		if err := tx.PaymentRepository().Update(ctx, payment); err != nil {
			return err
		}

		booking, err := tx.BookingRepository().GetByID(ctx, payment.BookingID)
		if err != nil {
			return err
		}
		if booking.Status == domain.BookingStatusPending {
			booking.Status = domain.BookingStatusConfirmed
			return tx.BookingRepository().Update(ctx, booking)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return payment, nil
}

func (s *paymentService) GetPayment(ctx context.Context, id int64) (*domain.Payment, error) {
	return s.store.PaymentRepository().GetByID(ctx, id)
}

func (s *paymentService) ListPayments(ctx context.Context, bookingID int64) ([]domain.Payment, error) {
	return s.store.PaymentRepository().ListByBooking(ctx, bookingID)
}

func (s *paymentService) ListAllPayments(ctx context.Context, page, pageSize int32) ([]domain.Payment, int32, error) {
	return s.store.PaymentRepository().List(ctx, normalizePage(page), normalizePageSize(pageSize))
}

// OutstandingDue reports the unsettled balance for a booking. The Return row
// is authoritative; the ledger is audit only. A booking without a return has
// nothing outstanding yet.
func (s *paymentService) OutstandingDue(ctx context.Context, bookingID int64) (int64, error) {
	rent, err := s.store.RentRepository().GetByBookingID(ctx, bookingID)
	if err != nil {
		if domain.IsNotFound(err) {
			return 0, nil
		}
		return 0, err
	}

	ret, err := s.store.RentRepository().GetReturnByRentID(ctx, rent.ID)
	if err != nil {
		if domain.IsNotFound(err) {
			return 0, nil
		}
		return 0, err
	}

	if ret.PaymentStatus == domain.ReturnPaymentCompleted {
		return 0, nil
	}
	if ret.FinalPaymentDueCents < 0 {
		return 0, nil
	}
	return ret.FinalPaymentDueCents, nil
}
