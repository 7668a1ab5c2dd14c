package domain

import "time"

type PaymentType string

const (
	PaymentTypeAdvance PaymentType = "ADVANCE"
	PaymentTypeRefund  PaymentType = "REFUND"
	PaymentTypeFinal   PaymentType = "FINAL"
)

type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "PENDING"
	PaymentStatusPaid     PaymentStatus = "PAID"
	PaymentStatusRefunded PaymentStatus = "REFUNDED"
)

// AdvanceCents returns the advance collected up front, half the total cost.
// Refunds on rejection pay back the same amount. Integer arithmetic only; the
// half-cent case cannot occur because costs are whole multiples of the daily
// rate, but we truncate deterministically anyway.
func AdvanceCents(totalCostCents int64) int64 {
	return totalCostCents / 2
}

// Payment is one row of the append-only money ledger for a booking.
// Amount is negative for refunds. The only permitted mutation after insert
// is the Pending -> Paid status flip on gateway confirmation.
type Payment struct {
	ID          int64         `json:"id"`
	BookingID   int64         `json:"booking_id"`
	AmountCents int64         `json:"amount_cents"`
	PaymentDate time.Time     `json:"payment_date"`
	Type        PaymentType   `json:"type"`
	Status      PaymentStatus `json:"status"`
	IntentID    string        `json:"intent_id,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
}
