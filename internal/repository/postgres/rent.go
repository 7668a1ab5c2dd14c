package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"carrental-backend/internal/domain"
	"carrental-backend/internal/repository"
)

type rentRepository struct {
	db DBTX
}

func NewRentRepository(db DBTX) repository.RentRepository {
	return &rentRepository{db: db}
}

const rentColumns = `id, booking_id, odometer_start, rent_date, odometer_end, actual_return_date`

func scanRent(row interface{ Scan(...interface{}) error }, rt *domain.Rent) error {
	return row.Scan(&rt.ID, &rt.BookingID, &rt.OdometerStart, &rt.RentDate, &rt.OdometerEnd, &rt.ActualReturnDate)
}

func (r *rentRepository) Create(ctx context.Context, rt *domain.Rent) error {
	query := `INSERT INTO rents (booking_id, odometer_start, rent_date) VALUES ($1, $2, $3) RETURNING id`
	return r.db.QueryRowContext(ctx, query, rt.BookingID, rt.OdometerStart, rt.RentDate).Scan(&rt.ID)
}

func (r *rentRepository) GetByID(ctx context.Context, id int64) (*domain.Rent, error) {
	rt := &domain.Rent{}
	query := `SELECT ` + rentColumns + ` FROM rents WHERE id = $1`
	err := scanRent(r.db.QueryRowContext(ctx, query, id), rt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFoundError{Resource: "rent"}
	}
	if err != nil {
		return nil, err
	}
	return rt, nil
}

func (r *rentRepository) GetByBookingID(ctx context.Context, bookingID int64) (*domain.Rent, error) {
	rt := &domain.Rent{}
	query := `SELECT ` + rentColumns + ` FROM rents WHERE booking_id = $1`
	err := scanRent(r.db.QueryRowContext(ctx, query, bookingID), rt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFoundError{Resource: "rent"}
	}
	if err != nil {
		return nil, err
	}
	return rt, nil
}

func (r *rentRepository) List(ctx context.Context, page, pageSize int32) ([]domain.Rent, int32, error) {
	var count int32
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM rents`).Scan(&count); err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	query := `SELECT ` + rentColumns + ` FROM rents ORDER BY rent_date DESC LIMIT $1 OFFSET $2`
	rows, err := r.db.QueryContext(ctx, query, pageSize, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var rents []domain.Rent
	for rows.Next() {
		var rt domain.Rent
		if err := scanRent(rows, &rt); err != nil {
			return nil, 0, err
		}
		rents = append(rents, rt)
	}
	return rents, count, rows.Err()
}

// ListActive returns rents whose vehicle is still out.
func (r *rentRepository) ListActive(ctx context.Context) ([]domain.Rent, error) {
	query := `SELECT ` + rentColumns + ` FROM rents WHERE actual_return_date IS NULL ORDER BY rent_date`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rents []domain.Rent
	for rows.Next() {
		var rt domain.Rent
		if err := scanRent(rows, &rt); err != nil {
			return nil, err
		}
		rents = append(rents, rt)
	}
	return rents, rows.Err()
}

func (r *rentRepository) Update(ctx context.Context, rt *domain.Rent) error {
	query := `UPDATE rents SET odometer_end=$1, actual_return_date=$2 WHERE id=$3`
	res, err := r.db.ExecContext(ctx, query, rt.OdometerEnd, rt.ActualReturnDate, rt.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NotFoundError{Resource: "rent"}
	}
	return nil
}

const returnColumns = `id, rent_id, return_date, odometer_end, extra_km, extra_charge_cents, damage_charged, damage_reason, damage_amount_cents, total_due_cents, advance_paid_cents, final_payment_due_cents, payment_status, final_payment_date, created_on`

func scanReturn(row interface{ Scan(...interface{}) error }, ret *domain.Return) error {
	return row.Scan(&ret.ID, &ret.RentID, &ret.ReturnDate, &ret.OdometerEnd, &ret.ExtraKM,
		&ret.ExtraChargeCents, &ret.DamageCharged, &ret.DamageReason, &ret.DamageAmountCents,
		&ret.TotalDueCents, &ret.AdvancePaidCents, &ret.FinalPaymentDueCents, &ret.PaymentStatus,
		&ret.FinalPaymentDate, &ret.CreatedAt)
}

func (r *rentRepository) CreateReturn(ctx context.Context, ret *domain.Return) error {
	query := `INSERT INTO returns (rent_id, return_date, odometer_end, extra_km, extra_charge_cents, damage_charged, damage_reason, damage_amount_cents, total_due_cents, advance_paid_cents, final_payment_due_cents, payment_status, final_payment_date, created_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14) RETURNING id`
	return r.db.QueryRowContext(ctx, query, ret.RentID, ret.ReturnDate, ret.OdometerEnd, ret.ExtraKM,
		ret.ExtraChargeCents, ret.DamageCharged, ret.DamageReason, ret.DamageAmountCents,
		ret.TotalDueCents, ret.AdvancePaidCents, ret.FinalPaymentDueCents, ret.PaymentStatus,
		ret.FinalPaymentDate, time.Now()).Scan(&ret.ID)
}

func (r *rentRepository) GetReturnByID(ctx context.Context, id int64) (*domain.Return, error) {
	ret := &domain.Return{}
	query := `SELECT ` + returnColumns + ` FROM returns WHERE id = $1`
	err := scanReturn(r.db.QueryRowContext(ctx, query, id), ret)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFoundError{Resource: "return"}
	}
	if err != nil {
		return nil, err
	}
	return ret, nil
}

func (r *rentRepository) GetReturnByRentID(ctx context.Context, rentID int64) (*domain.Return, error) {
	ret := &domain.Return{}
	query := `SELECT ` + returnColumns + ` FROM returns WHERE rent_id = $1`
	err := scanReturn(r.db.QueryRowContext(ctx, query, rentID), ret)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFoundError{Resource: "return"}
	}
	if err != nil {
		return nil, err
	}
	return ret, nil
}

func (r *rentRepository) UpdateReturn(ctx context.Context, ret *domain.Return) error {
	query := `UPDATE returns SET payment_status=$1, final_payment_date=$2 WHERE id=$3`
	res, err := r.db.ExecContext(ctx, query, ret.PaymentStatus, ret.FinalPaymentDate, ret.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NotFoundError{Resource: "return"}
	}
	return nil
}

func (r *rentRepository) ListReturnsPendingPayment(ctx context.Context) ([]domain.Return, error) {
	query := `SELECT ` + returnColumns + ` FROM returns WHERE payment_status = 'PENDING' AND final_payment_due_cents > 0 ORDER BY return_date`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var returns []domain.Return
	for rows.Next() {
		var ret domain.Return
		if err := scanReturn(rows, &ret); err != nil {
			return nil, err
		}
		returns = append(returns, ret)
	}
	return returns, rows.Err()
}

func (r *rentRepository) CountReturnsPendingPayment(ctx context.Context) (int64, error) {
	query := `SELECT count(*) FROM returns WHERE payment_status = 'PENDING' AND final_payment_due_cents > 0`
	var count int64
	err := r.db.QueryRowContext(ctx, query).Scan(&count)
	return count, err
}
