package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"carrental-backend/internal/domain"
	"carrental-backend/internal/repository"
)

type bookingRepository struct {
	db DBTX
}

func NewBookingRepository(db DBTX) repository.BookingRepository {
	return &bookingRepository{db: db}
}

const bookingColumns = `id, customer_id, car_id, pickup_date, return_date, total_cost_cents, status, license_number, nic_number, reject_reason, approved_by, approved_on, created_on`

func scanBooking(row interface{ Scan(...interface{}) error }, b *domain.Booking) error {
	return row.Scan(&b.ID, &b.CustomerID, &b.CarID, &b.PickupDate, &b.ReturnDate, &b.TotalCostCents,
		&b.Status, &b.LicenseNumber, &b.NICNumber, &b.RejectReason, &b.ApprovedBy, &b.ApprovedAt, &b.CreatedAt)
}

func (r *bookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	query := `INSERT INTO bookings (customer_id, car_id, pickup_date, return_date, total_cost_cents, status, license_number, nic_number, reject_reason, created_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING id`
	return r.db.QueryRowContext(ctx, query, b.CustomerID, b.CarID, b.PickupDate, b.ReturnDate,
		b.TotalCostCents, b.Status, b.LicenseNumber, b.NICNumber, b.RejectReason, time.Now()).Scan(&b.ID)
}

func (r *bookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	b := &domain.Booking{}
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`
	err := scanBooking(r.db.QueryRowContext(ctx, query, id), b)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFoundError{Resource: "booking"}
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (r *bookingRepository) Update(ctx context.Context, b *domain.Booking) error {
	query := `UPDATE bookings SET status=$1, reject_reason=$2, approved_by=$3, approved_on=$4 WHERE id=$5`
	res, err := r.db.ExecContext(ctx, query, b.Status, b.RejectReason, b.ApprovedBy, b.ApprovedAt, b.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NotFoundError{Resource: "booking"}
	}
	return nil
}

func (r *bookingRepository) ListByCustomer(ctx context.Context, customerID int64, status string, page, pageSize int32) ([]domain.Booking, int32, error) {
	sqlStr := `SELECT ` + bookingColumns + ` FROM bookings WHERE customer_id = $1`
	args := []interface{}{customerID}
	argIdx := 2
	if status != "" {
		sqlStr += " AND status = $2"
		args = append(args, status)
		argIdx++
	}
	return r.listPage(ctx, sqlStr, args, argIdx, page, pageSize)
}

func (r *bookingRepository) ListByStatus(ctx context.Context, status string, page, pageSize int32) ([]domain.Booking, int32, error) {
	sqlStr := `SELECT ` + bookingColumns + ` FROM bookings WHERE 1=1`
	args := []interface{}{}
	argIdx := 1
	if status != "" {
		sqlStr = `SELECT ` + bookingColumns + ` FROM bookings WHERE status = $1`
		args = append(args, status)
		argIdx++
	}
	return r.listPage(ctx, sqlStr, args, argIdx, page, pageSize)
}

func (r *bookingRepository) listPage(ctx context.Context, sqlStr string, args []interface{}, argIdx int, page, pageSize int32) ([]domain.Booking, int32, error) {
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

	var bookings []domain.Booking
	for rows.Next() {
		var b domain.Booking
		if err := scanBooking(rows, &b); err != nil {
			return nil, 0, err
		}
		bookings = append(bookings, b)
	}
	return bookings, count, rows.Err()
}

// ListBlocking filters on both sides: the status set that still claims the
// car and the inclusive date overlap against [pickup, ret].
func (r *bookingRepository) ListBlocking(ctx context.Context, carID int64, pickup, ret time.Time) ([]domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings
	          WHERE car_id = $1
	            AND status NOT IN ('REJECTED', 'RETURNED', 'COMPLETED')
	            AND pickup_date <= $3 AND return_date >= $2`
	rows, err := r.db.QueryContext(ctx, query, carID, pickup, ret)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []domain.Booking
	for rows.Next() {
		var b domain.Booking
		if err := scanBooking(rows, &b); err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

// CountActiveByCar counts bookings for a car that have not reached Rejected
// or Completed. Cars with such bookings cannot leave the fleet.
func (r *bookingRepository) CountActiveByCar(ctx context.Context, carID int64) (int64, error) {
	query := `SELECT count(*) FROM bookings WHERE car_id = $1 AND status NOT IN ('REJECTED', 'COMPLETED')`
	var count int64
	err := r.db.QueryRowContext(ctx, query, carID).Scan(&count)
	return count, err
}

func (r *bookingRepository) CountByStatus(ctx context.Context, statuses ...domain.BookingStatus) (int64, error) {
	placeholders := make([]string, len(statuses))
	args := make([]interface{}, len(statuses))
	for i, s := range statuses {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = string(s)
	}
	query := `SELECT count(*) FROM bookings WHERE status IN (` + strings.Join(placeholders, ", ") + `)`
	var count int64
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&count)
	return count, err
}
