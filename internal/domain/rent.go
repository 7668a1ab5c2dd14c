package domain

import "time"

// Rent is the physical hand-over record for an approved booking. Exactly one
// Rent exists per booking; the pairing is enforced by an existence check at
// rental start, not by a database constraint.
type Rent struct {
	ID               int64      `json:"id"`
	BookingID        int64      `json:"booking_id"`
	OdometerStart    int64      `json:"odometer_start"`
	RentDate         time.Time  `json:"rent_date"`
	OdometerEnd      *int64     `json:"odometer_end,omitempty"`
	ActualReturnDate *time.Time `json:"actual_return_date,omitempty"`
}

// Returned reports whether the vehicle has already been handed back.
func (r *Rent) Returned() bool {
	return r.ActualReturnDate != nil
}

type ReturnPaymentStatus string

const (
	ReturnPaymentPending   ReturnPaymentStatus = "PENDING"
	ReturnPaymentCompleted ReturnPaymentStatus = "COMPLETED"
)

// Return captures the settlement computed when a rented car comes back.
// It is the authoritative record for the outstanding balance; the payment
// ledger is audit only.
type Return struct {
	ID                   int64               `json:"id"`
	RentID               int64               `json:"rent_id"`
	ReturnDate           time.Time           `json:"return_date"`
	OdometerEnd          int64               `json:"odometer_end"`
	ExtraKM              int64               `json:"extra_km"`
	ExtraChargeCents     int64               `json:"extra_charge_cents"`
	DamageCharged        bool                `json:"damage_charged"`
	DamageReason         string              `json:"damage_reason,omitempty"`
	DamageAmountCents    int64               `json:"damage_amount_cents"`
	TotalDueCents        int64               `json:"total_due_cents"`
	AdvancePaidCents     int64               `json:"advance_paid_cents"`
	FinalPaymentDueCents int64               `json:"final_payment_due_cents"`
	PaymentStatus        ReturnPaymentStatus `json:"payment_status"`
	FinalPaymentDate     *time.Time          `json:"final_payment_date,omitempty"`
	CreatedAt            time.Time           `json:"created_at"`
}
