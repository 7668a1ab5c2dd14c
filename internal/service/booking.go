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

type bookingService struct {
	store     repository.Store
	fleet     FleetService
	gateway   PaymentGateway
	emailSvc  EmailService
	publisher EventPublisher
	now       func() time.Time
}

func NewBookingService(store repository.Store, fleet FleetService, gateway PaymentGateway, emailSvc EmailService, publisher EventPublisher) BookingService {
	return &bookingService{
		store:     store,
		fleet:     fleet,
		gateway:   gateway,
		emailSvc:  emailSvc,
		publisher: publisher,
		now:       time.Now,
	}
}

func (s *bookingService) CreateBooking(ctx context.Context, actor domain.Actor, req CreateBookingRequest) (*domain.Booking, error) {
	if actor.Role != domain.RoleCustomer {
		return nil, domain.ValidationError{Field: "actor", Msg: "only customers can create bookings"}
	}
	if !req.ReturnDate.After(req.PickupDate) {
		return nil, domain.ValidationError{Field: "return_date", Msg: "return date must be after pickup date"}
	}
	today := s.now().Truncate(24 * time.Hour)
	if req.PickupDate.Before(today) {
		return nil, domain.ValidationError{Field: "pickup_date", Msg: "pickup date cannot be in the past"}
	}

	customer, err := s.store.CustomerRepository().GetByID(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	// Documents supplied with the request take precedence over the profile.
	if req.LicenseNumber != "" {
		customer.LicenseNumber = req.LicenseNumber
	}
	if req.NICNumber != "" {
		customer.NICNumber = req.NICNumber
	}
	if !customer.ProfileComplete() {
		return nil, domain.ValidationError{Field: "license_number", Msg: "license and NIC numbers are required"}
	}

	car, err := s.store.CarRepository().GetByID(ctx, req.CarID)
	if err != nil {
		return nil, err
	}

	available, err := s.fleet.CheckAvailability(ctx, req.CarID, req.PickupDate, req.ReturnDate)
	if err != nil {
		return nil, err
	}
	if !available {
		return nil, domain.ConflictError{Resource: "car", Msg: "car is not available for the requested dates"}
	}

	booking := &domain.Booking{
		CustomerID:     actor.ID,
		CarID:          req.CarID,
		PickupDate:     req.PickupDate,
		ReturnDate:     req.ReturnDate,
		TotalCostCents: utils.CalculateRentalCost(req.PickupDate, req.ReturnDate, car.RentPerDayCents),
		Status:         domain.BookingStatusPending,
		LicenseNumber:  customer.LicenseNumber,
		NICNumber:      customer.NICNumber,
	}
	if err := s.store.BookingRepository().Create(ctx, booking); err != nil {
		return nil, err
	}

	s.publish(ctx, events.EventBookingCreated, booking, customer.Email, 0)
	_ = s.emailSvc.SendBookingCreated(ctx, customer.Email, customer.Name, booking.ID, car.Name)

	return booking, nil
}

// ConfirmBooking collects the advance payment and moves Pending to Confirmed.
// The ledger row and the status flip commit together.
func (s *bookingService) ConfirmBooking(ctx context.Context, actor domain.Actor, bookingID int64) (*domain.Booking, error) {
	booking, err := s.store.BookingRepository().GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if actor.Role == domain.RoleCustomer && booking.CustomerID != actor.ID {
		return nil, domain.NotFoundError{Resource: "booking"}
	}
	if !booking.Status.CanTransitionTo(domain.BookingStatusConfirmed) {
		return nil, domain.ConflictError{Resource: "booking", Msg: "booking cannot be confirmed from status " + string(booking.Status)}
	}

	advance := domain.AdvanceCents(booking.TotalCostCents)
	intentID, err := s.gateway.CreateIntent(ctx, advance, booking.ID)
	if err != nil {
		return nil, err
	}
	outcome, err := s.gateway.ConfirmIntent(ctx, intentID)
	if err != nil {
		return nil, err
	}
	if outcome == PaymentFailed {
		return nil, domain.ConflictError{Resource: "payment", Msg: "advance payment failed"}
	}

	paymentStatus := domain.PaymentStatusPending
	if outcome == PaymentSucceeded {
		paymentStatus = domain.PaymentStatusPaid
	}

	err = s.store.ExecTx(ctx, func(tx repository.Store) error {
		payment := &domain.Payment{
			BookingID:   booking.ID,
			AmountCents: advance,
			PaymentDate: s.now(),
			Type:        domain.PaymentTypeAdvance,
			Status:      paymentStatus,
			IntentID:    intentID,
		}
		if err := tx.PaymentRepository().Create(ctx, payment); err != nil {
			return err
		}
		booking.Status = domain.BookingStatusConfirmed
		return tx.BookingRepository().Update(ctx, booking)
	})
	if err != nil {
		return nil, err
	}

	customer, cerr := s.store.CustomerRepository().GetByID(ctx, booking.CustomerID)
	if cerr == nil {
		s.publish(ctx, events.EventBookingConfirmed, booking, customer.Email, advance)
		_ = s.emailSvc.SendBookingConfirmed(ctx, customer.Email, customer.Name, booking.ID, advance)
	}

	return booking, nil
}

func (s *bookingService) ApproveBooking(ctx context.Context, actor domain.Actor, bookingID int64) (*domain.Booking, error) {
	if !actor.IsStaff() {
		return nil, domain.ValidationError{Field: "actor", Msg: "only staff can approve bookings"}
	}

	booking, err := s.store.BookingRepository().GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !booking.Status.CanTransitionTo(domain.BookingStatusApproved) {
		return nil, domain.ConflictError{Resource: "booking", Msg: "booking cannot be approved from status " + string(booking.Status)}
	}

	approvedAt := s.now()
	booking.Status = domain.BookingStatusApproved
	booking.ApprovedBy = &actor.DisplayName
	booking.ApprovedAt = &approvedAt
	if err := s.store.BookingRepository().Update(ctx, booking); err != nil {
		return nil, err
	}

	customer, cerr := s.store.CustomerRepository().GetByID(ctx, booking.CustomerID)
	if cerr == nil {
		s.publish(ctx, events.EventBookingApproved, booking, customer.Email, 0)
		_ = s.emailSvc.SendBookingApproved(ctx, customer.Email, customer.Name, booking.ID)
	}

	return booking, nil
}

// RejectBooking refunds the advance fraction and terminates the booking.
// Rejecting an already rejected booking succeeds without a second refund, so
// duplicate UI submissions are harmless.
func (s *bookingService) RejectBooking(ctx context.Context, actor domain.Actor, bookingID int64, reason string) (*domain.Booking, error) {
	if !actor.IsStaff() {
		return nil, domain.ValidationError{Field: "actor", Msg: "only staff can reject bookings"}
	}
	if reason == "" {
		return nil, domain.ValidationError{Field: "reason", Msg: "rejection reason is required"}
	}

	booking, err := s.store.BookingRepository().GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.Status == domain.BookingStatusRejected {
		return booking, nil
	}
	if !booking.Status.CanTransitionTo(domain.BookingStatusRejected) {
		return nil, domain.ConflictError{Resource: "booking", Msg: "booking cannot be rejected from status " + string(booking.Status)}
	}

	refund := domain.AdvanceCents(booking.TotalCostCents)
	rejectedAt := s.now()
	err = s.store.ExecTx(ctx, func(tx repository.Store) error {
		booking.Status = domain.BookingStatusRejected
		booking.RejectReason = reason
		booking.ApprovedBy = &actor.DisplayName
		booking.ApprovedAt = &rejectedAt
		if err := tx.BookingRepository().Update(ctx, booking); err != nil {
			return err
		}

		payment := &domain.Payment{
			BookingID:   booking.ID,
			AmountCents: -refund,
			PaymentDate: rejectedAt,
			Type:        domain.PaymentTypeRefund,
			Status:      domain.PaymentStatusRefunded,
		}
		return tx.PaymentRepository().Create(ctx, payment)
	})
	if err != nil {
		return nil, err
	}

	customer, cerr := s.store.CustomerRepository().GetByID(ctx, booking.CustomerID)
	if cerr == nil {
		s.publish(ctx, events.EventBookingRejected, booking, customer.Email, refund)
		_ = s.emailSvc.SendBookingRejected(ctx, customer.Email, customer.Name, booking.ID, reason, refund)
	}

	return booking, nil
}

func (s *bookingService) GetBooking(ctx context.Context, actor domain.Actor, bookingID int64) (*domain.Booking, error) {
	booking, err := s.store.BookingRepository().GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if actor.Role == domain.RoleCustomer && booking.CustomerID != actor.ID {
		return nil, domain.NotFoundError{Resource: "booking"}
	}
	return booking, nil
}

func (s *bookingService) ListBookings(ctx context.Context, actor domain.Actor, status string, page, pageSize int32) ([]domain.Booking, int32, error) {
	if status != "" {
		if _, err := domain.ParseBookingStatus(status); err != nil {
			return nil, 0, err
		}
	}

	page = normalizePage(page)
	pageSize = normalizePageSize(pageSize)
	if actor.Role == domain.RoleCustomer {
		return s.store.BookingRepository().ListByCustomer(ctx, actor.ID, status, page, pageSize)
	}
	return s.store.BookingRepository().ListByStatus(ctx, status, page, pageSize)
}

// publish emits a lifecycle event; failures are logged, never propagated.
func (s *bookingService) publish(ctx context.Context, eventType events.EventType, booking *domain.Booking, email string, amountCents int64) {
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
