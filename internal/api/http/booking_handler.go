package http

import (
	"context"
	"net/http"

	"carrental-backend/internal/domain"
	"carrental-backend/internal/service"
)

type BookingHandler struct {
	bookings service.BookingService
	payments service.PaymentService
}

func NewBookingHandler(bookings service.BookingService, payments service.PaymentService) *BookingHandler {
	return &BookingHandler{bookings: bookings, payments: payments}
}

type createBookingRequest struct {
	CarID         int64  `json:"car_id"`
	PickupDate    string `json:"pickup_date"`
	ReturnDate    string `json:"return_date"`
	LicenseNumber string `json:"license_number"`
	NICNumber     string `json:"nic_number"`
}

func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: errMissingAuth.Error()})
		return
	}

	var req createBookingRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	pickup, err := parseDate(req.PickupDate, "pickup_date")
	if err != nil {
		writeError(w, r, err)
		return
	}
	ret, err := parseDate(req.ReturnDate, "return_date")
	if err != nil {
		writeError(w, r, err)
		return
	}

	booking, err := h.bookings.CreateBooking(r.Context(), actor, service.CreateBookingRequest{
		CarID:         req.CarID,
		PickupDate:    pickup,
		ReturnDate:    ret,
		LicenseNumber: req.LicenseNumber,
		NICNumber:     req.NICNumber,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, booking)
}

func (h *BookingHandler) ConfirmBooking(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.bookings.ConfirmBooking)
}

func (h *BookingHandler) ApproveBooking(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.bookings.ApproveBooking)
}

type rejectBookingRequest struct {
	Reason string `json:"reason"`
}

func (h *BookingHandler) RejectBooking(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: errMissingAuth.Error()})
		return
	}

	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req rejectBookingRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	booking, err := h.bookings.RejectBooking(r.Context(), actor, id, req.Reason)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func (h *BookingHandler) GetBooking(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: errMissingAuth.Error()})
		return
	}

	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	booking, err := h.bookings.GetBooking(r.Context(), actor, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

type pagedBookingsResponse struct {
	Bookings []domain.Booking `json:"bookings"`
	Total    int32            `json:"total"`
}

func (h *BookingHandler) ListBookings(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: errMissingAuth.Error()})
		return
	}

	page, pageSize := pagination(r)
	bookings, total, err := h.bookings.ListBookings(r.Context(), actor, r.URL.Query().Get("status"), page, pageSize)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pagedBookingsResponse{Bookings: bookings, Total: total})
}

func (h *BookingHandler) ListPayments(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: errMissingAuth.Error()})
		return
	}

	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	// Customers may only see their own ledger.
	if _, err := h.bookings.GetBooking(r.Context(), actor, id); err != nil {
		writeError(w, r, err)
		return
	}

	payments, err := h.payments.ListPayments(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, payments)
}

type outstandingResponse struct {
	BookingID        int64 `json:"booking_id"`
	OutstandingCents int64 `json:"outstanding_cents"`
}

func (h *BookingHandler) GetOutstanding(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: errMissingAuth.Error()})
		return
	}

	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if _, err := h.bookings.GetBooking(r.Context(), actor, id); err != nil {
		writeError(w, r, err)
		return
	}

	due, err := h.payments.OutstandingDue(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, outstandingResponse{BookingID: id, OutstandingCents: due})
}

type confirmPaymentRequest struct {
	IntentID string `json:"intent_id"`
}

// ConfirmPayment settles a pending payment intent, typically the advance of
// a booking awaiting confirmation.
func (h *BookingHandler) ConfirmPayment(w http.ResponseWriter, r *http.Request) {
	if _, ok := actorFrom(r); !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: errMissingAuth.Error()})
		return
	}

	var req confirmPaymentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.IntentID == "" {
		writeError(w, r, domain.ValidationError{Field: "intent_id", Msg: "intent_id is required"})
		return
	}

	payment, err := h.payments.ConfirmPayment(r.Context(), req.IntentID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, payment)
}

func (h *BookingHandler) GetPayment(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok || !actor.IsStaff() {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: errMissingAuth.Error()})
		return
	}

	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	payment, err := h.payments.GetPayment(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, payment)
}

type pagedPaymentsResponse struct {
	Payments []domain.Payment `json:"payments"`
	Total    int32            `json:"total"`
}

func (h *BookingHandler) ListAllPayments(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok || !actor.IsStaff() {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: errMissingAuth.Error()})
		return
	}

	page, pageSize := pagination(r)
	payments, total, err := h.payments.ListAllPayments(r.Context(), page, pageSize)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pagedPaymentsResponse{Payments: payments, Total: total})
}

func (h *BookingHandler) transition(w http.ResponseWriter, r *http.Request, fn func(context.Context, domain.Actor, int64) (*domain.Booking, error)) {
	actor, ok := actorFrom(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: errMissingAuth.Error()})
		return
	}

	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	booking, err := fn(r.Context(), actor, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}
