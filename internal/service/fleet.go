package service

import (
	"context"
	"time"

	"carrental-backend/internal/domain"
	"carrental-backend/internal/logger"
	"carrental-backend/internal/repository"
)

// catalogPageLimit bounds the catalog snapshot cached in Redis.
const catalogPageLimit = 1000

type fleetService struct {
	store repository.Store
	cache CatalogCache
}

func NewFleetService(store repository.Store, cache CatalogCache) FleetService {
	return &fleetService{store: store, cache: cache}
}

func (s *fleetService) AddCar(ctx context.Context, actor domain.Actor, car *domain.Car) error {
	if !actor.IsStaff() {
		return domain.ValidationError{Field: "actor", Msg: "only staff can manage the fleet"}
	}
	if err := validateCar(car); err != nil {
		return err
	}

	car.MarkAvailable()
	if err := s.store.CarRepository().Create(ctx, car); err != nil {
		return err
	}
	s.invalidateCatalog(ctx)
	return nil
}

func (s *fleetService) GetCar(ctx context.Context, id int64) (*domain.Car, error) {
	return s.store.CarRepository().GetByID(ctx, id)
}

func (s *fleetService) UpdateCar(ctx context.Context, actor domain.Actor, car *domain.Car) error {
	if !actor.IsStaff() {
		return domain.ValidationError{Field: "actor", Msg: "only staff can manage the fleet"}
	}
	if err := validateCar(car); err != nil {
		return err
	}

	existing, err := s.store.CarRepository().GetByID(ctx, car.ID)
	if err != nil {
		return err
	}
	// Rental state is owned by the booking lifecycle, not fleet CRUD.
	car.Status = existing.Status
	car.IsAvailable = existing.IsAvailable
	car.LastOdometer = existing.LastOdometer

	if err := s.store.CarRepository().Update(ctx, car); err != nil {
		return err
	}
	s.invalidateCatalog(ctx)
	return nil
}

func (s *fleetService) RemoveCar(ctx context.Context, actor domain.Actor, id int64) error {
	if !actor.IsStaff() {
		return domain.ValidationError{Field: "actor", Msg: "only staff can manage the fleet"}
	}

	car, err := s.store.CarRepository().GetByID(ctx, id)
	if err != nil {
		return err
	}
	if car.Status == domain.CarStatusRented {
		return domain.ConflictError{Resource: "car", Msg: "car is currently rented"}
	}

	// A booking anywhere between Pending and Returned still needs the car.
	active, err := s.store.BookingRepository().CountActiveByCar(ctx, id)
	if err != nil {
		return err
	}
	if active > 0 {
		return domain.ConflictError{Resource: "car", Msg: "car has bookings in progress"}
	}

	if err := s.store.CarRepository().Delete(ctx, id); err != nil {
		return err
	}
	s.invalidateCatalog(ctx)
	return nil
}

// BrowseCatalog serves the public catalog through the cache, falling back to
// the database when the cache is cold or unreachable.
func (s *fleetService) BrowseCatalog(ctx context.Context) ([]domain.Car, error) {
	if s.cache != nil {
		cars, err := s.cache.GetCars(ctx)
		if err != nil {
			logger.Warn("catalog cache read failed", "error", err)
		} else if cars != nil {
			return cars, nil
		}
	}

	cars, _, err := s.store.CarRepository().List(ctx, 1, catalogPageLimit)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetCars(ctx, cars); err != nil {
			logger.Warn("catalog cache write failed", "error", err)
		}
	}
	return cars, nil
}

func (s *fleetService) ListCars(ctx context.Context, page, pageSize int32) ([]domain.Car, int32, error) {
	return s.store.CarRepository().List(ctx, normalizePage(page), normalizePageSize(pageSize))
}

// SearchCars filters the catalog, optionally down to cars bookable for a date
// range. The range follows the same inclusive overlap rule as
// CheckAvailability.
func (s *fleetService) SearchCars(ctx context.Context, query, carType, fuelType string, maxRentPerDayCents int64, pickup, ret time.Time, page, pageSize int32) ([]domain.Car, int32, error) {
	if pickup.IsZero() != ret.IsZero() {
		return nil, 0, domain.ValidationError{Field: "pickup_date", Msg: "pickup and return dates must be given together"}
	}
	if !pickup.IsZero() && !ret.After(pickup) {
		return nil, 0, domain.ValidationError{Field: "return_date", Msg: "return date must be after pickup date"}
	}
	return s.store.CarRepository().Search(ctx, query, carType, fuelType, maxRentPerDayCents, pickup, ret, normalizePage(page), normalizePageSize(pageSize))
}

// CheckAvailability reports whether the car can be booked for [pickup, ret].
// The car's own availability flag gates everything; beyond that, any booking
// still claiming the car with an overlapping date range blocks the request.
// Boundaries are inclusive, so a pickup on the day of an existing return is a
// conflict.
func (s *fleetService) CheckAvailability(ctx context.Context, carID int64, pickup, ret time.Time) (bool, error) {
	car, err := s.store.CarRepository().GetByID(ctx, carID)
	if err != nil {
		return false, err
	}
	if !car.IsAvailable {
		return false, nil
	}

	blocking, err := s.store.BookingRepository().ListBlocking(ctx, carID, pickup, ret)
	if err != nil {
		return false, err
	}
	return len(blocking) == 0, nil
}

// DashboardCounters assembles the staff dashboard numbers.
func (s *fleetService) DashboardCounters(ctx context.Context, actor domain.Actor) (*domain.DashboardCounters, error) {
	if !actor.IsStaff() {
		return nil, domain.ValidationError{Field: "actor", Msg: "only staff can view the dashboard"}
	}

	available, rented, unavailable, err := s.store.CarRepository().CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	awaiting, err := s.store.BookingRepository().CountByStatus(ctx, domain.BookingStatusPending, domain.BookingStatusConfirmed)
	if err != nil {
		return nil, err
	}
	activeRentals, err := s.store.BookingRepository().CountByStatus(ctx, domain.BookingStatusRented)
	if err != nil {
		return nil, err
	}
	settlements, err := s.store.RentRepository().CountReturnsPendingPayment(ctx)
	if err != nil {
		return nil, err
	}

	return &domain.DashboardCounters{
		FleetTotal:                available + rented + unavailable,
		CarsAvailable:             available,
		CarsRented:                rented,
		CarsUnavailable:           unavailable,
		BookingsAwaitingAction:    awaiting,
		ActiveRentals:             activeRentals,
		SettlementsPendingPayment: settlements,
	}, nil
}

func (s *fleetService) invalidateCatalog(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateCars(ctx); err != nil {
		logger.Warn("catalog cache invalidation failed", "error", err)
	}
}

func validateCar(car *domain.Car) error {
	if car.Name == "" {
		return domain.ValidationError{Field: "name", Msg: "name is required"}
	}
	if car.NumberPlate == "" {
		return domain.ValidationError{Field: "number_plate", Msg: "number plate is required"}
	}
	if car.RentPerDayCents <= 0 {
		return domain.ValidationError{Field: "rent_per_day_cents", Msg: "daily rate must be positive"}
	}
	if car.PerKmRateCents < 0 {
		return domain.ValidationError{Field: "per_km_rate_cents", Msg: "per-km rate cannot be negative"}
	}
	if car.AllowedKmPerDay < 0 {
		return domain.ValidationError{Field: "allowed_km_per_day", Msg: "allowed km per day cannot be negative"}
	}
	return nil
}

func normalizePage(page int32) int32 {
	if page < 1 {
		return 1
	}
	return page
}

func normalizePageSize(pageSize int32) int32 {
	if pageSize < 1 {
		return 20
	}
	if pageSize > 100 {
		return 100
	}
	return pageSize
}
