package jobs

import (
	"context"
	"fmt"

	"carrental-backend/internal/domain"
	"carrental-backend/internal/logger"
)

// SendPaymentReminders emails every customer whose return settlement still
// has an outstanding balance.
func (jr *JobRunner) SendPaymentReminders() {
	jr.runWithRecovery("SendPaymentReminders", func() {
		ctx := context.Background()

		pending, err := jr.store.RentRepository().ListReturnsPendingPayment(ctx)
		if err != nil {
			logger.Error("Failed to list pending settlements", "error", err)
			return
		}

		count := 0
		for _, ret := range pending {
			rent, err := jr.store.RentRepository().GetByID(ctx, ret.RentID)
			if err != nil {
				logger.Error("Failed to load rent for settlement", "return_id", ret.ID, "error", err)
				continue
			}
			booking, err := jr.store.BookingRepository().GetByID(ctx, rent.BookingID)
			if err != nil {
				logger.Error("Failed to load booking for settlement", "return_id", ret.ID, "error", err)
				continue
			}
			customer, err := jr.store.CustomerRepository().GetByID(ctx, booking.CustomerID)
			if err != nil {
				logger.Error("Failed to load customer for settlement", "return_id", ret.ID, "error", err)
				continue
			}

			if err := jr.emailSvc.SendFinalPaymentReminder(ctx, customer.Email, customer.Name, booking.ID, ret.FinalPaymentDueCents); err != nil {
				logger.Error("Failed to send payment reminder", "booking_id", booking.ID, "error", err)
				continue
			}
			count++
		}

		logger.Info("Payment reminders sent", "count", count)
	})
}

// SendFleetSummary emails operations a snapshot of fleet and booking counts.
func (jr *JobRunner) SendFleetSummary() {
	jr.runWithRecovery("SendFleetSummary", func() {
		ctx := context.Background()

		opsEmail := jr.config.Scheduler.OpsEmail
		if opsEmail == "" {
			logger.Warn("Fleet summary skipped, no ops email configured")
			return
		}

		available, rented, unavailable, err := jr.store.CarRepository().CountByStatus(ctx)
		if err != nil {
			logger.Error("Failed to query fleet counts", "error", err)
			return
		}

		pendingBookings, err := jr.store.BookingRepository().CountByStatus(ctx, domain.BookingStatusPending, domain.BookingStatusConfirmed)
		if err != nil {
			logger.Error("Failed to query booking counts", "error", err)
			return
		}
		activeRentals, err := jr.store.BookingRepository().CountByStatus(ctx, domain.BookingStatusRented)
		if err != nil {
			logger.Error("Failed to query rental counts", "error", err)
			return
		}
		pendingSettlements, err := jr.store.RentRepository().CountReturnsPendingPayment(ctx)
		if err != nil {
			logger.Error("Failed to query settlement counts", "error", err)
			return
		}

		body := fmt.Sprintf(
			"Fleet: %d available, %d rented, %d unavailable.\nBookings awaiting action: %d.\nActive rentals: %d.\nSettlements awaiting payment: %d.\n",
			available, rented, unavailable, pendingBookings, activeRentals, pendingSettlements)

		if err := jr.emailSvc.SendOpsSummary(ctx, opsEmail, "Weekly fleet summary", body); err != nil {
			logger.Error("Failed to send fleet summary", "error", err)
		}
	})
}
