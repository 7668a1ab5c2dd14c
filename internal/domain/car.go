package domain

import "time"

type CarStatus string

const (
	CarStatusAvailable   CarStatus = "AVAILABLE"
	CarStatusRented      CarStatus = "RENTED"
	CarStatusUnavailable CarStatus = "UNAVAILABLE"
)

// ParseCarStatus rejects anything outside the closed status set.
func ParseCarStatus(s string) (CarStatus, error) {
	switch CarStatus(s) {
	case CarStatusAvailable, CarStatusRented, CarStatusUnavailable:
		return CarStatus(s), nil
	}
	return "", ValidationError{Field: "status", Msg: "unknown car status: " + s}
}

type Car struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name"`
	Model           string    `json:"model"`
	Brand           string    `json:"brand"`
	NumberPlate     string    `json:"number_plate"`
	CarType         string    `json:"car_type"`
	FuelType        string    `json:"fuel_type"`
	SeatingCapacity int       `json:"seating_capacity"`
	ImageURL        string    `json:"image_url,omitempty"`
	RentPerDayCents int64     `json:"rent_per_day_cents"`
	PerKmRateCents  int64     `json:"per_km_rate_cents"`
	AllowedKmPerDay int64     `json:"allowed_km_per_day"`
	IsAvailable     bool      `json:"is_available"`
	Status          CarStatus `json:"status"`
	LastOdometer    int64     `json:"last_odometer"`
	CreatedAt       time.Time `json:"created_at"`
}

// MarkRented and MarkAvailable are the only sanctioned ways to flip a car's
// rental state; they keep Status and IsAvailable in lockstep.
func (c *Car) MarkRented() {
	c.Status = CarStatusRented
	c.IsAvailable = false
}

func (c *Car) MarkAvailable() {
	c.Status = CarStatusAvailable
	c.IsAvailable = true
}

// StatusConsistent reports whether Status and IsAvailable agree.
func (c *Car) StatusConsistent() bool {
	if c.IsAvailable {
		return c.Status == CarStatusAvailable
	}
	return c.Status == CarStatusRented || c.Status == CarStatusUnavailable
}
