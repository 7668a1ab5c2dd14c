package domain

// DashboardCounters is the staff dashboard snapshot of fleet and booking
// activity.
type DashboardCounters struct {
	FleetTotal                int64 `json:"fleet_total"`
	CarsAvailable             int64 `json:"cars_available"`
	CarsRented                int64 `json:"cars_rented"`
	CarsUnavailable           int64 `json:"cars_unavailable"`
	BookingsAwaitingAction    int64 `json:"bookings_awaiting_action"`
	ActiveRentals             int64 `json:"active_rentals"`
	SettlementsPendingPayment int64 `json:"settlements_pending_payment"`
}
