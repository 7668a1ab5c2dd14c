package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"carrental-backend/internal/domain"
	"carrental-backend/internal/repository"
)

type carRepository struct {
	db DBTX
}

func NewCarRepository(db DBTX) repository.CarRepository {
	return &carRepository{db: db}
}

const carColumns = `id, name, model, brand, number_plate, car_type, fuel_type, seating_capacity, image_url, rent_per_day_cents, per_km_rate_cents, allowed_km_per_day, is_available, status, last_odometer, created_on`

func scanCar(row interface{ Scan(...interface{}) error }, c *domain.Car) error {
	return row.Scan(&c.ID, &c.Name, &c.Model, &c.Brand, &c.NumberPlate, &c.CarType, &c.FuelType,
		&c.SeatingCapacity, &c.ImageURL, &c.RentPerDayCents, &c.PerKmRateCents, &c.AllowedKmPerDay,
		&c.IsAvailable, &c.Status, &c.LastOdometer, &c.CreatedAt)
}

func (r *carRepository) Create(ctx context.Context, c *domain.Car) error {
	query := `INSERT INTO cars (name, model, brand, number_plate, car_type, fuel_type, seating_capacity, image_url, rent_per_day_cents, per_km_rate_cents, allowed_km_per_day, is_available, status, last_odometer, created_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15) RETURNING id`
	return r.db.QueryRowContext(ctx, query, c.Name, c.Model, c.Brand, c.NumberPlate, c.CarType, c.FuelType,
		c.SeatingCapacity, c.ImageURL, c.RentPerDayCents, c.PerKmRateCents, c.AllowedKmPerDay,
		c.IsAvailable, c.Status, c.LastOdometer, time.Now()).Scan(&c.ID)
}

func (r *carRepository) GetByID(ctx context.Context, id int64) (*domain.Car, error) {
	c := &domain.Car{}
	query := `SELECT ` + carColumns + ` FROM cars WHERE id = $1`
	err := scanCar(r.db.QueryRowContext(ctx, query, id), c)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFoundError{Resource: "car"}
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *carRepository) Update(ctx context.Context, c *domain.Car) error {
	query := `UPDATE cars SET name=$1, model=$2, brand=$3, number_plate=$4, car_type=$5, fuel_type=$6, seating_capacity=$7, image_url=$8, rent_per_day_cents=$9, per_km_rate_cents=$10, allowed_km_per_day=$11, is_available=$12, status=$13, last_odometer=$14 WHERE id=$15`
	res, err := r.db.ExecContext(ctx, query, c.Name, c.Model, c.Brand, c.NumberPlate, c.CarType, c.FuelType,
		c.SeatingCapacity, c.ImageURL, c.RentPerDayCents, c.PerKmRateCents, c.AllowedKmPerDay,
		c.IsAvailable, c.Status, c.LastOdometer, c.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NotFoundError{Resource: "car"}
	}
	return nil
}

func (r *carRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM cars WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NotFoundError{Resource: "car"}
	}
	return nil
}

func (r *carRepository) List(ctx context.Context, page, pageSize int32) ([]domain.Car, int32, error) {
	var count int32
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM cars`).Scan(&count); err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	query := `SELECT ` + carColumns + ` FROM cars ORDER BY created_on DESC LIMIT $1 OFFSET $2`
	rows, err := r.db.QueryContext(ctx, query, pageSize, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var cars []domain.Car
	for rows.Next() {
		var c domain.Car
		if err := scanCar(rows, &c); err != nil {
			return nil, 0, err
		}
		cars = append(cars, c)
	}
	return cars, count, rows.Err()
}

func (r *carRepository) CountByStatus(ctx context.Context) (available, rented, unavailable int64, err error) {
	query := `SELECT
			count(*) FILTER (WHERE status = 'AVAILABLE'),
			count(*) FILTER (WHERE status = 'RENTED'),
			count(*) FILTER (WHERE status = 'UNAVAILABLE')
		FROM cars`
	err = r.db.QueryRowContext(ctx, query).Scan(&available, &rented, &unavailable)
	return available, rented, unavailable, err
}

func (r *carRepository) Search(ctx context.Context, query, carType, fuelType string, maxRentPerDayCents int64, pickup, ret time.Time, page, pageSize int32) ([]domain.Car, int32, error) {
	sqlStr := `SELECT ` + carColumns + ` FROM cars WHERE 1=1`
	args := []interface{}{}
	argIdx := 1

	if query != "" {
		sqlStr += fmt.Sprintf(" AND (name ILIKE $%d OR model ILIKE $%d OR brand ILIKE $%d)", argIdx, argIdx, argIdx)
		args = append(args, "%"+query+"%")
		argIdx++
	}
	if carType != "" {
		sqlStr += fmt.Sprintf(" AND car_type = $%d", argIdx)
		args = append(args, carType)
		argIdx++
	}
	if fuelType != "" {
		sqlStr += fmt.Sprintf(" AND fuel_type = $%d", argIdx)
		args = append(args, fuelType)
		argIdx++
	}
	if maxRentPerDayCents > 0 {
		sqlStr += fmt.Sprintf(" AND rent_per_day_cents <= $%d", argIdx)
		args = append(args, maxRentPerDayCents)
		argIdx++
	}
	if !pickup.IsZero() && !ret.IsZero() {
		// Same inclusive overlap rule as the availability check.
		sqlStr += fmt.Sprintf(" AND is_available = TRUE AND NOT EXISTS (SELECT 1 FROM bookings b WHERE b.car_id = cars.id AND b.status NOT IN ('REJECTED', 'RETURNED', 'COMPLETED') AND b.pickup_date <= $%d AND b.return_date >= $%d)", argIdx+1, argIdx)
		args = append(args, pickup, ret)
		argIdx += 2
	}

	var count int32
	countSql := "SELECT count(*) FROM (" + sqlStr + ") as sub"
	if err := r.db.QueryRowContext(ctx, countSql, args...).Scan(&count); err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	sqlStr += fmt.Sprintf(" ORDER BY created_on DESC LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, pageSize, offset)

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var cars []domain.Car
	for rows.Next() {
		var c domain.Car
		if err := scanCar(rows, &c); err != nil {
			return nil, 0, err
		}
		cars = append(cars, c)
	}
	return cars, count, rows.Err()
}
