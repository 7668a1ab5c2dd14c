package domain

import "time"

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "PENDING"
	BookingStatusConfirmed BookingStatus = "CONFIRMED"
	BookingStatusApproved  BookingStatus = "APPROVED"
	BookingStatusRejected  BookingStatus = "REJECTED"
	BookingStatusRented    BookingStatus = "RENTED"
	BookingStatusReturned  BookingStatus = "RETURNED"
	BookingStatusCompleted BookingStatus = "COMPLETED"
)

// ParseBookingStatus rejects anything outside the closed status set.
func ParseBookingStatus(s string) (BookingStatus, error) {
	switch BookingStatus(s) {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusApproved,
		BookingStatusRejected, BookingStatusRented, BookingStatusReturned,
		BookingStatusCompleted:
		return BookingStatus(s), nil
	}
	return "", ValidationError{Field: "status", Msg: "unknown booking status: " + s}
}

// CanTransitionTo encodes the lifecycle state machine:
//
//	Pending -> Confirmed -> Approved -> Rented -> Returned -> Completed
//	                     \-> Rejected
//
// Rejected and Completed are terminal.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	switch s {
	case BookingStatusPending:
		return next == BookingStatusConfirmed
	case BookingStatusConfirmed:
		return next == BookingStatusApproved || next == BookingStatusRejected
	case BookingStatusApproved:
		return next == BookingStatusRented
	case BookingStatusRented:
		return next == BookingStatusReturned
	case BookingStatusReturned:
		return next == BookingStatusCompleted
	case BookingStatusRejected, BookingStatusCompleted:
		return false
	}
	return false
}

// Terminal reports whether no further transition is defined from s.
func (s BookingStatus) Terminal() bool {
	return s == BookingStatusRejected || s == BookingStatusCompleted
}

// BlocksAvailability reports whether a booking in this status still claims
// its car for the booked date range. Rejected, Returned and Completed
// bookings no longer block.
func (s BookingStatus) BlocksAvailability() bool {
	switch s {
	case BookingStatusRejected, BookingStatusReturned, BookingStatusCompleted:
		return false
	}
	return true
}

type Booking struct {
	ID             int64         `json:"id"`
	CustomerID     int64         `json:"customer_id"`
	CarID          int64         `json:"car_id"`
	PickupDate     time.Time     `json:"pickup_date"`
	ReturnDate     time.Time     `json:"return_date"`
	TotalCostCents int64         `json:"total_cost_cents"`
	Status         BookingStatus `json:"status"`
	LicenseNumber  string        `json:"license_number"`
	NICNumber      string        `json:"nic_number"`
	RejectReason   string        `json:"reject_reason,omitempty"`
	ApprovedBy     *string       `json:"approved_by,omitempty"`
	ApprovedAt     *time.Time    `json:"approved_at,omitempty"`
	CreatedAt      time.Time     `json:"created_at"`
}

// Overlaps reports whether the booking's date range overlaps [pickup, ret]
// with inclusive boundaries. A requested pickup on the day of an existing
// return counts as overlapping; same-day turnover is not allowed.
func (b *Booking) Overlaps(pickup, ret time.Time) bool {
	if !b.PickupDate.After(pickup) && !b.ReturnDate.Before(pickup) {
		return true
	}
	if !b.PickupDate.After(ret) && !b.ReturnDate.Before(ret) {
		return true
	}
	return !b.PickupDate.Before(pickup) && !b.ReturnDate.After(ret)
}
