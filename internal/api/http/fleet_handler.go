package http

import (
	"net/http"
	"strconv"
	"time"

	"carrental-backend/internal/domain"
	"carrental-backend/internal/service"

	"github.com/gorilla/mux"
)

type FleetHandler struct {
	fleet service.FleetService
}

func NewFleetHandler(fleet service.FleetService) *FleetHandler {
	return &FleetHandler{fleet: fleet}
}

type carRequest struct {
	Name            string `json:"name"`
	Model           string `json:"model"`
	Brand           string `json:"brand"`
	NumberPlate     string `json:"number_plate"`
	CarType         string `json:"car_type"`
	FuelType        string `json:"fuel_type"`
	SeatingCapacity int    `json:"seating_capacity"`
	ImageURL        string `json:"image_url"`
	RentPerDayCents int64  `json:"rent_per_day_cents"`
	PerKmRateCents  int64  `json:"per_km_rate_cents"`
	AllowedKmPerDay int64  `json:"allowed_km_per_day"`
}

func (req *carRequest) toDomain() *domain.Car {
	return &domain.Car{
		Name:            req.Name,
		Model:           req.Model,
		Brand:           req.Brand,
		NumberPlate:     req.NumberPlate,
		CarType:         req.CarType,
		FuelType:        req.FuelType,
		SeatingCapacity: req.SeatingCapacity,
		ImageURL:        req.ImageURL,
		RentPerDayCents: req.RentPerDayCents,
		PerKmRateCents:  req.PerKmRateCents,
		AllowedKmPerDay: req.AllowedKmPerDay,
	}
}

type pagedCarsResponse struct {
	Cars  []domain.Car `json:"cars"`
	Total int32        `json:"total"`
}

// ListCars serves the catalog. Without paging parameters the cached full
// catalog is returned; with them, a database page.
func (h *FleetHandler) ListCars(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("page") == "" {
		cars, err := h.fleet.BrowseCatalog(r.Context())
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, pagedCarsResponse{Cars: cars, Total: int32(len(cars))})
		return
	}

	page, pageSize := pagination(r)
	cars, total, err := h.fleet.ListCars(r.Context(), page, pageSize)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pagedCarsResponse{Cars: cars, Total: total})
}

func (h *FleetHandler) SearchCars(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	maxRent, _ := strconv.ParseInt(q.Get("max_rent_per_day_cents"), 10, 64)
	page, pageSize := pagination(r)

	var pickup, ret time.Time
	var err error
	if q.Get("pickup_date") != "" {
		if pickup, err = parseDate(q.Get("pickup_date"), "pickup_date"); err != nil {
			writeError(w, r, err)
			return
		}
	}
	if q.Get("return_date") != "" {
		if ret, err = parseDate(q.Get("return_date"), "return_date"); err != nil {
			writeError(w, r, err)
			return
		}
	}

	cars, total, err := h.fleet.SearchCars(r.Context(), q.Get("q"), q.Get("car_type"), q.Get("fuel_type"), maxRent, pickup, ret, page, pageSize)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pagedCarsResponse{Cars: cars, Total: total})
}

func (h *FleetHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: errMissingAuth.Error()})
		return
	}

	counters, err := h.fleet.DashboardCounters(r.Context(), actor)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, counters)
}

func (h *FleetHandler) GetCar(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	car, err := h.fleet.GetCar(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, car)
}

type availabilityResponse struct {
	CarID     int64  `json:"car_id"`
	Pickup    string `json:"pickup_date"`
	Return    string `json:"return_date"`
	Available bool   `json:"available"`
}

func (h *FleetHandler) CheckAvailability(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	q := r.URL.Query()
	pickup, err := parseDate(q.Get("pickup_date"), "pickup_date")
	if err != nil {
		writeError(w, r, err)
		return
	}
	ret, err := parseDate(q.Get("return_date"), "return_date")
	if err != nil {
		writeError(w, r, err)
		return
	}

	available, err := h.fleet.CheckAvailability(r.Context(), id, pickup, ret)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, availabilityResponse{
		CarID:     id,
		Pickup:    q.Get("pickup_date"),
		Return:    q.Get("return_date"),
		Available: available,
	})
}

func (h *FleetHandler) AddCar(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: errMissingAuth.Error()})
		return
	}

	var req carRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	car := req.toDomain()
	if err := h.fleet.AddCar(r.Context(), actor, car); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, car)
}

func (h *FleetHandler) UpdateCar(w http.ResponseWriter, r *http.Request) {
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

	var req carRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	car := req.toDomain()
	car.ID = id
	if err := h.fleet.UpdateCar(r.Context(), actor, car); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, car)
}

func (h *FleetHandler) RemoveCar(w http.ResponseWriter, r *http.Request) {
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
	if err := h.fleet.RemoveCar(r.Context(), actor, id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(mux.Vars(r)[name], 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.ValidationError{Field: name, Msg: "invalid identifier"}
	}
	return id, nil
}

func parseDate(value, field string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, domain.ValidationError{Field: field, Msg: "expected yyyy-mm-dd"}
	}
	return t, nil
}

func pagination(r *http.Request) (int32, int32) {
	q := r.URL.Query()
	page, _ := strconv.ParseInt(q.Get("page"), 10, 32)
	pageSize, _ := strconv.ParseInt(q.Get("page_size"), 10, 32)
	return int32(page), int32(pageSize)
}
