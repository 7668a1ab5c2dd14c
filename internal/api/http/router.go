package http

import (
	"net/http"

	"carrental-backend/internal/security"
	"carrental-backend/internal/service"

	"github.com/gorilla/mux"
)

// NewRouter wires the public catalog routes and the authenticated booking
// and rental routes.
func NewRouter(
	fleet service.FleetService,
	bookings service.BookingService,
	rentals service.RentalService,
	payments service.PaymentService,
	tokens security.TokenManager,
) *mux.Router {
	fleetHandler := NewFleetHandler(fleet)
	bookingHandler := NewBookingHandler(bookings, payments)
	rentalHandler := NewRentalHandler(rentals)

	router := mux.NewRouter()
	router.Use(LoggingMiddleware)

	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	// Public catalog
	api := router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/cars", fleetHandler.ListCars).Methods(http.MethodGet)
	api.HandleFunc("/cars/search", fleetHandler.SearchCars).Methods(http.MethodGet)
	api.HandleFunc("/cars/{id:[0-9]+}", fleetHandler.GetCar).Methods(http.MethodGet)
	api.HandleFunc("/cars/{id:[0-9]+}/availability", fleetHandler.CheckAvailability).Methods(http.MethodGet)

	// Authenticated
	authed := api.NewRoute().Subrouter()
	authed.Use(AuthMiddleware(tokens))

	authed.HandleFunc("/cars", fleetHandler.AddCar).Methods(http.MethodPost)
	authed.HandleFunc("/cars/{id:[0-9]+}", fleetHandler.UpdateCar).Methods(http.MethodPut)
	authed.HandleFunc("/cars/{id:[0-9]+}", fleetHandler.RemoveCar).Methods(http.MethodDelete)

	authed.HandleFunc("/bookings", bookingHandler.CreateBooking).Methods(http.MethodPost)
	authed.HandleFunc("/bookings", bookingHandler.ListBookings).Methods(http.MethodGet)
	authed.HandleFunc("/bookings/{id:[0-9]+}", bookingHandler.GetBooking).Methods(http.MethodGet)
	authed.HandleFunc("/bookings/{id:[0-9]+}/confirm", bookingHandler.ConfirmBooking).Methods(http.MethodPost)
	authed.HandleFunc("/bookings/{id:[0-9]+}/approve", bookingHandler.ApproveBooking).Methods(http.MethodPost)
	authed.HandleFunc("/bookings/{id:[0-9]+}/reject", bookingHandler.RejectBooking).Methods(http.MethodPost)
	authed.HandleFunc("/bookings/{id:[0-9]+}/payments", bookingHandler.ListPayments).Methods(http.MethodGet)
	authed.HandleFunc("/bookings/{id:[0-9]+}/outstanding", bookingHandler.GetOutstanding).Methods(http.MethodGet)

	authed.HandleFunc("/bookings/{id:[0-9]+}/rent", rentalHandler.StartRent).Methods(http.MethodPost)
	authed.HandleFunc("/bookings/{id:[0-9]+}/rent", rentalHandler.GetRent).Methods(http.MethodGet)
	authed.HandleFunc("/rents", rentalHandler.ListRents).Methods(http.MethodGet)
	authed.HandleFunc("/rents/{id:[0-9]+}", rentalHandler.GetRentByID).Methods(http.MethodGet)
	authed.HandleFunc("/rents/{id:[0-9]+}/return", rentalHandler.ProcessReturn).Methods(http.MethodPost)
	authed.HandleFunc("/rents/{id:[0-9]+}/return", rentalHandler.GetReturn).Methods(http.MethodGet)
	authed.HandleFunc("/returns/{id:[0-9]+}/settle", rentalHandler.ProcessFinalPayment).Methods(http.MethodPost)
	authed.HandleFunc("/settlements/pending", rentalHandler.ListPendingSettlements).Methods(http.MethodGet)

	authed.HandleFunc("/payments", bookingHandler.ListAllPayments).Methods(http.MethodGet)
	authed.HandleFunc("/payments/confirm", bookingHandler.ConfirmPayment).Methods(http.MethodPost)
	authed.HandleFunc("/payments/{id:[0-9]+}", bookingHandler.GetPayment).Methods(http.MethodGet)

	authed.HandleFunc("/admin/dashboard", fleetHandler.Dashboard).Methods(http.MethodGet)

	return router
}
