package domain

import "time"

type Customer struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	PhoneNumber   string    `json:"phone_number"`
	Address       string    `json:"address,omitempty"`
	LicenseNumber string    `json:"license_number,omitempty"`
	NICNumber     string    `json:"nic_number,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// ProfileComplete reports whether the customer carries the identity documents
// required before a booking can be confirmed.
func (c *Customer) ProfileComplete() bool {
	return c.LicenseNumber != "" && c.NICNumber != ""
}
