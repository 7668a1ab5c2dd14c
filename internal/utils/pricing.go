package utils

import (
	"time"

	"carrental-backend/internal/domain"
)

// SettlementBreakdown provides the detailed charge breakdown computed at
// vehicle return.
type SettlementBreakdown struct {
	Days             int64
	RentalCostCents  int64
	AllowedKM        int64
	DrivenKM         int64
	ExtraKM          int64
	ExtraChargeCents int64
	DamageCents      int64
	TotalDueCents    int64
	AdvancePaidCents int64
	FinalDueCents    int64
}

// RentalDays returns the number of chargeable days between pickup and return.
// The difference is measured in whole days and is never less than one, so a
// same-day rental is charged as a single day.
func RentalDays(pickup, ret time.Time) int64 {
	days := int64(ret.Sub(pickup).Hours() / 24)
	if days < 1 {
		days = 1
	}
	return days
}

// CalculateRentalCost returns days * daily rate in cents.
func CalculateRentalCost(pickup, ret time.Time, rentPerDayCents int64) int64 {
	return RentalDays(pickup, ret) * rentPerDayCents
}

// AllowedKilometers computes the free-kilometre budget for a booking. The
// budget always derives from the originally booked dates; returning late or
// early does not change it.
func AllowedKilometers(pickup, ret time.Time, allowedKmPerDay int64) int64 {
	return RentalDays(pickup, ret) * allowedKmPerDay
}

// CalculateExtraCharge bills every kilometre driven beyond the allowance at
// the car's per-kilometre rate. Driving under the allowance earns no credit.
func CalculateExtraCharge(drivenKM, allowedKM, perKmRateCents int64) (extraKM, extraChargeCents int64) {
	extraKM = drivenKM - allowedKM
	if extraKM < 0 {
		extraKM = 0
	}
	return extraKM, extraKM * perKmRateCents
}

// CalculateSettlement computes the full return-time settlement for a booking
// against its car's tariff. drivenKM is odometer end minus odometer start;
// damageCents is zero when no damage was assessed.
func CalculateSettlement(booking *domain.Booking, car *domain.Car, drivenKM, damageCents int64) SettlementBreakdown {
	days := RentalDays(booking.PickupDate, booking.ReturnDate)
	rentalCost := days * car.RentPerDayCents
	allowed := days * car.AllowedKmPerDay
	extraKM, extraCharge := CalculateExtraCharge(drivenKM, allowed, car.PerKmRateCents)

	totalDue := rentalCost + extraCharge + damageCents
	advance := domain.AdvanceCents(booking.TotalCostCents)

	return SettlementBreakdown{
		Days:             days,
		RentalCostCents:  rentalCost,
		AllowedKM:        allowed,
		DrivenKM:         drivenKM,
		ExtraKM:          extraKM,
		ExtraChargeCents: extraCharge,
		DamageCents:      damageCents,
		TotalDueCents:    totalDue,
		AdvancePaidCents: advance,
		FinalDueCents:    totalDue - advance,
	}
}
