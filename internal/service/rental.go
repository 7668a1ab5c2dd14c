package service

import (
	"context"
	"time"

	"carrental-backend/internal/domain"
	"carrental-backend/internal/events"
	"carrental-backend/internal/logger"
	"carrental-backend/internal/repository"
	"carrental-backend/internal/utils"
)

type rentalService struct {
	store     repository.Store
	gateway   PaymentGateway
	emailSvc  EmailService
	publisher EventPublisher
	now       func() time.Time
}

func NewRentalService(store repository.Store, gateway PaymentGateway, emailSvc EmailService, publisher EventPublisher) RentalService {
	return &rentalService{
		store:     store,
		gateway:   gateway,
		emailSvc:  emailSvc,
		publisher: publisher,
		now:       time.Now,
	}
}

// StartRent hands the car over against an approved booking. The rent record,
// the booking status, and the car status commit as one transaction. Starting
// an already started rental returns the existing rent untouched, so retried
// requests cannot double-book the car.
func (s *rentalService) StartRent(ctx context.Context, actor domain.Actor, bookingID int64, odometerStart int64) (*domain.Rent, error) {
	if !actor.IsStaff() {
		return nil, domain.ValidationError{Field: "actor", Msg: "only staff can start rentals"}
	}
	if odometerStart < 0 {
		return nil, domain.ValidationError{Field: "odometer_start", Msg: "odometer reading cannot be negative"}
	}

	booking, err := s.store.BookingRepository().GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if booking.Status == domain.BookingStatusRented {
		existing, err := s.store.RentRepository().GetByBookingID(ctx, bookingID)
		if err != nil {
			return nil, err
		}
		return existing, nil
	}
	if !booking.Status.CanTransitionTo(domain.BookingStatusRented) {
		return nil, domain.ConflictError{Resource: "booking", Msg: "rental cannot start from status " + string(booking.Status)}
	}

	if existing, err := s.store.RentRepository().GetByBookingID(ctx, bookingID); err == nil {
		return existing, nil
	} else if !domain.IsNotFound(err) {
		return nil, err
	}

	car, err := s.store.CarRepository().GetByID(ctx, booking.CarID)
	if err != nil {
		return nil, err
	}

	rent := &domain.Rent{
		BookingID:     bookingID,
		OdometerStart: odometerStart,
		RentDate:      s.now(),
	}
	err = s.store.ExecTx(ctx, func(tx repository.Store) error {
		if err := tx.RentRepository().Create(ctx, rent); err != nil {
			return err
		}

		booking.Status = domain.BookingStatusRented
		if err := tx.BookingRepository().Update(ctx, booking); err != nil {
			return err
		}

		car.MarkRented()
		car.LastOdometer = odometerStart
		return tx.CarRepository().Update(ctx, car)
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.EventRentalStarted, booking, "", 0)
	return rent, nil
}

// ProcessReturn settles the rental: extra-kilometre and damage charges are
// computed against the original booking, the car goes back into the fleet,
// and the booking moves to Returned. When nothing is owed the settlement
// completes immediately.
func (s *rentalService) ProcessReturn(ctx context.Context, actor domain.Actor, req ProcessReturnRequest) (*domain.Return, error) {
	if !actor.IsStaff() {
		return nil, domain.ValidationError{Field: "actor", Msg: "only staff can process returns"}
	}
	if req.HasDamage && req.DamageReason == "" {
		return nil, domain.ValidationError{Field: "damage_reason", Msg: "damage reason is required when damage is charged"}
	}
	if req.DamageCents < 0 {
		return nil, domain.ValidationError{Field: "damage_cents", Msg: "damage amount cannot be negative"}
	}

	rent, err := s.store.RentRepository().GetByID(ctx, req.RentID)
	if err != nil {
		return nil, err
	}
	if rent.Returned() {
		return nil, domain.ConflictError{Resource: "rent", Msg: "vehicle already returned"}
	}
	if req.OdometerEnd < rent.OdometerStart {
		return nil, domain.ValidationError{Field: "odometer_end", Msg: "end odometer cannot be below start odometer"}
	}

	booking, err := s.store.BookingRepository().GetByID(ctx, rent.BookingID)
	if err != nil {
		return nil, err
	}
	if !booking.Status.CanTransitionTo(domain.BookingStatusReturned) {
		return nil, domain.ConflictError{Resource: "booking", Msg: "return cannot be processed from status " + string(booking.Status)}
	}

	car, err := s.store.CarRepository().GetByID(ctx, booking.CarID)
	if err != nil {
		return nil, err
	}

	damageCents := int64(0)
	if req.HasDamage {
		damageCents = req.DamageCents
	}

	returnDate := req.ActualReturnDate
	if returnDate.IsZero() {
		returnDate = s.now()
	}

	settlement := utils.CalculateSettlement(booking, car, req.OdometerEnd-rent.OdometerStart, damageCents)

	ret := &domain.Return{
		RentID:            rent.ID,
		ReturnDate:        returnDate,
		OdometerEnd:       req.OdometerEnd,
		ExtraKM:           settlement.ExtraKM,
		ExtraChargeCents:  settlement.ExtraChargeCents,
		DamageCharged:     req.HasDamage,
		DamageReason:      req.DamageReason,
		DamageAmountCents: damageCents,
		TotalDueCents:     booking.TotalCostCents + settlement.ExtraChargeCents + damageCents,
		AdvancePaidCents:  domain.AdvanceCents(booking.TotalCostCents),
		PaymentStatus:     domain.ReturnPaymentPending,
	}
	ret.FinalPaymentDueCents = ret.TotalDueCents - ret.AdvancePaidCents
	if ret.FinalPaymentDueCents <= 0 {
		ret.PaymentStatus = domain.ReturnPaymentCompleted
		ret.FinalPaymentDate = &returnDate
	}

	err = s.store.ExecTx(ctx, func(tx repository.Store) error {
		if err := tx.RentRepository().CreateReturn(ctx, ret); err != nil {
			return err
		}

		rent.OdometerEnd = &req.OdometerEnd
		rent.ActualReturnDate = &returnDate
		if err := tx.RentRepository().Update(ctx, rent); err != nil {
			return err
		}

		booking.Status = domain.BookingStatusReturned
		if err := tx.BookingRepository().Update(ctx, booking); err != nil {
			return err
		}

		car.MarkAvailable()
		car.LastOdometer = req.OdometerEnd
		return tx.CarRepository().Update(ctx, car)
	})
	if err != nil {
		return nil, err
	}

	customer, cerr := s.store.CustomerRepository().GetByID(ctx, booking.CustomerID)
	if cerr == nil {
		s.publish(ctx, events.EventVehicleReturned, booking, customer.Email, ret.FinalPaymentDueCents)
		_ = s.emailSvc.SendReturnSettlement(ctx, customer.Email, customer.Name, booking.ID, ret.FinalPaymentDueCents)
	}

	return ret, nil
}

// ProcessFinalPayment collects the outstanding balance and closes the
// booking. Settling an already completed return fails with a conflict.
func (s *rentalService) ProcessFinalPayment(ctx context.Context, actor domain.Actor, returnID int64) (*domain.Return, error) {
	ret, booking, err := s.loadSettlement(ctx, returnID)
	if err != nil {
		return nil, err
	}
	if actor.Role == domain.RoleCustomer && booking.CustomerID != actor.ID {
		return nil, domain.NotFoundError{Resource: "return"}
	}
	if ret.PaymentStatus == domain.ReturnPaymentCompleted {
		return nil, domain.ConflictError{Resource: "return", Msg: "settlement already completed"}
	}

	var intentID string
	if ret.FinalPaymentDueCents > 0 {
		intentID, err = s.gateway.CreateIntent(ctx, ret.FinalPaymentDueCents, booking.ID)
		if err != nil {
			return nil, err
		}
		outcome, err := s.gateway.ConfirmIntent(ctx, intentID)
		if err != nil {
			return nil, err
		}
		if outcome == PaymentFailed {
			return nil, domain.ConflictError{Resource: "payment", Msg: "final payment failed"}
		}
	}

	paidAt := s.now()
	err = s.store.ExecTx(ctx, func(tx repository.Store) error {
		ret.PaymentStatus = domain.ReturnPaymentCompleted
		ret.FinalPaymentDate = &paidAt
		if err := tx.RentRepository().UpdateReturn(ctx, ret); err != nil {
			return err
		}

		if ret.FinalPaymentDueCents > 0 {
			payment := &domain.Payment{
				BookingID:   booking.ID,
				AmountCents: ret.FinalPaymentDueCents,
				PaymentDate: paidAt,
				Type:        domain.PaymentTypeFinal,
				Status:      domain.PaymentStatusPaid,
				IntentID:    intentID,
			}
			if err := tx.PaymentRepository().Create(ctx, payment); err != nil {
				return err
			}
		}

		booking.Status = domain.BookingStatusCompleted
		return tx.BookingRepository().Update(ctx, booking)
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.EventBookingCompleted, booking, "", ret.FinalPaymentDueCents)
	return ret, nil
}

func (s *rentalService) GetRent(ctx context.Context, rentID int64) (*domain.Rent, error) {
	return s.store.RentRepository().GetByID(ctx, rentID)
}

func (s *rentalService) GetRentByBooking(ctx context.Context, bookingID int64) (*domain.Rent, error) {
	return s.store.RentRepository().GetByBookingID(ctx, bookingID)
}

func (s *rentalService) ListRents(ctx context.Context, page, pageSize int32) ([]domain.Rent, int32, error) {
	return s.store.RentRepository().List(ctx, normalizePage(page), normalizePageSize(pageSize))
}

func (s *rentalService) ListActiveRents(ctx context.Context) ([]domain.Rent, error) {
	return s.store.RentRepository().ListActive(ctx)
}

func (s *rentalService) GetReturn(ctx context.Context, rentID int64) (*domain.Return, error) {
	return s.store.RentRepository().GetReturnByRentID(ctx, rentID)
}

func (s *rentalService) ListPendingSettlements(ctx context.Context) ([]domain.Return, error) {
	return s.store.RentRepository().ListReturnsPendingPayment(ctx)
}

func (s *rentalService) loadSettlement(ctx context.Context, returnID int64) (*domain.Return, *domain.Booking, error) {
	ret, err := s.store.RentRepository().GetReturnByID(ctx, returnID)
	if err != nil {
		return nil, nil, err
	}
	rent, err := s.store.RentRepository().GetByID(ctx, ret.RentID)
	if err != nil {
		return nil, nil, err
	}
	booking, err := s.store.BookingRepository().GetByID(ctx, rent.BookingID)
	if err != nil {
		return nil, nil, err
	}
	return ret, booking, nil
}

func (s *rentalService) publish(ctx context.Context, eventType events.EventType, booking *domain.Booking, email string, amountCents int64) {
	if s.publisher == nil {
		return
	}
	err := s.publisher.Publish(ctx, events.BookingEvent{
		Type:          eventType,
		BookingID:     booking.ID,
		CustomerID:    booking.CustomerID,
		CustomerEmail: email,
		CarID:         booking.CarID,
		Status:        string(booking.Status),
		AmountCents:   amountCents,
		OccurredAt:    s.now(),
	})
	if err != nil {
		logger.Warn("failed to publish booking event", "type", eventType, "booking_id", booking.ID, "error", err)
	}
}
