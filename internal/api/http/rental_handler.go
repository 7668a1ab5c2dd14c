package http

import (
	"net/http"

	"carrental-backend/internal/domain"
	"carrental-backend/internal/service"
)

type RentalHandler struct {
	rentals service.RentalService
}

func NewRentalHandler(rentals service.RentalService) *RentalHandler {
	return &RentalHandler{rentals: rentals}
}

type startRentRequest struct {
	OdometerStart int64 `json:"odometer_start"`
}

func (h *RentalHandler) StartRent(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: errMissingAuth.Error()})
		return
	}

	bookingID, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req startRentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	rent, err := h.rentals.StartRent(r.Context(), actor, bookingID, req.OdometerStart)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, rent)
}

type processReturnRequest struct {
	OdometerEnd      int64  `json:"odometer_end"`
	ActualReturnDate string `json:"actual_return_date"`
	HasDamage        bool   `json:"has_damage"`
	DamageReason     string `json:"damage_reason"`
	DamageCents      int64  `json:"damage_cents"`
}

func (h *RentalHandler) ProcessReturn(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: errMissingAuth.Error()})
		return
	}

	rentID, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req processReturnRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	svcReq := service.ProcessReturnRequest{
		RentID:       rentID,
		OdometerEnd:  req.OdometerEnd,
		HasDamage:    req.HasDamage,
		DamageReason: req.DamageReason,
		DamageCents:  req.DamageCents,
	}
	if req.ActualReturnDate != "" {
		actualDate, err := parseDate(req.ActualReturnDate, "actual_return_date")
		if err != nil {
			writeError(w, r, err)
			return
		}
		svcReq.ActualReturnDate = actualDate
	}

	ret, err := h.rentals.ProcessReturn(r.Context(), actor, svcReq)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, ret)
}

func (h *RentalHandler) ProcessFinalPayment(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: errMissingAuth.Error()})
		return
	}

	returnID, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	ret, err := h.rentals.ProcessFinalPayment(r.Context(), actor, returnID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ret)
}

func (h *RentalHandler) GetRent(w http.ResponseWriter, r *http.Request) {
	bookingID, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	rent, err := h.rentals.GetRentByBooking(r.Context(), bookingID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rent)
}

func (h *RentalHandler) GetReturn(w http.ResponseWriter, r *http.Request) {
	rentID, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	ret, err := h.rentals.GetReturn(r.Context(), rentID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ret)
}

func (h *RentalHandler) GetRentByID(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	rent, err := h.rentals.GetRent(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rent)
}

type pagedRentsResponse struct {
	Rents []domain.Rent `json:"rents"`
	Total int32         `json:"total"`
}

// ListRents serves the staff rent overview; ?active=true narrows it to
// vehicles still out.
func (h *RentalHandler) ListRents(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok || !actor.IsStaff() {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: errMissingAuth.Error()})
		return
	}

	if r.URL.Query().Get("active") == "true" {
		rents, err := h.rentals.ListActiveRents(r.Context())
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, pagedRentsResponse{Rents: rents, Total: int32(len(rents))})
		return
	}

	page, pageSize := pagination(r)
	rents, total, err := h.rentals.ListRents(r.Context(), page, pageSize)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pagedRentsResponse{Rents: rents, Total: total})
}

func (h *RentalHandler) ListPendingSettlements(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok || !actor.IsStaff() {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: errMissingAuth.Error()})
		return
	}

	settlements, err := h.rentals.ListPendingSettlements(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, settlements)
}
