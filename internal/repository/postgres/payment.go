package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"carrental-backend/internal/domain"
	"carrental-backend/internal/logger"
	"carrental-backend/internal/repository"
)

type paymentRepository struct {
	db DBTX
}

func NewPaymentRepository(db DBTX) repository.PaymentRepository {
	return &paymentRepository{db: db}
}

const paymentColumns = `id, booking_id, amount_cents, payment_date, type, status, intent_id, created_on`

func (r *paymentRepository) Create(ctx context.Context, p *domain.Payment) error {
	logger.DatabaseCall("INSERT", "payments", "bookingID", p.BookingID, "type", p.Type, "amountCents", p.AmountCents)
	query := `INSERT INTO payments (booking_id, amount_cents, payment_date, type, status, intent_id, created_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	err := r.db.QueryRowContext(ctx, query, p.BookingID, p.AmountCents, p.PaymentDate, p.Type,
		p.Status, p.IntentID, time.Now()).Scan(&p.ID)
	logger.DatabaseResult("INSERT", 1, err, "paymentID", p.ID)
	return err
}

func (r *paymentRepository) GetByID(ctx context.Context, id int64) (*domain.Payment, error) {
	p := &domain.Payment{}
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&p.ID, &p.BookingID, &p.AmountCents,
		&p.PaymentDate, &p.Type, &p.Status, &p.IntentID, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFoundError{Resource: "payment"}
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *paymentRepository) GetByIntentID(ctx context.Context, intentID string) (*domain.Payment, error) {
	p := &domain.Payment{}
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE intent_id = $1`
	err := r.db.QueryRowContext(ctx, query, intentID).Scan(&p.ID, &p.BookingID, &p.AmountCents,
		&p.PaymentDate, &p.Type, &p.Status, &p.IntentID, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFoundError{Resource: "payment"}
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Update only flips status; ledger rows are otherwise immutable after insert.
func (r *paymentRepository) Update(ctx context.Context, p *domain.Payment) error {
	query := `UPDATE payments SET status=$1 WHERE id=$2`
	res, err := r.db.ExecContext(ctx, query, p.Status, p.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NotFoundError{Resource: "payment"}
	}
	return nil
}

func (r *paymentRepository) ListByBooking(ctx context.Context, bookingID int64) ([]domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE booking_id = $1 ORDER BY created_on`
	rows, err := r.db.QueryContext(ctx, query, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []domain.Payment
	for rows.Next() {
		var p domain.Payment
		if err := rows.Scan(&p.ID, &p.BookingID, &p.AmountCents, &p.PaymentDate, &p.Type,
			&p.Status, &p.IntentID, &p.CreatedAt); err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

func (r *paymentRepository) List(ctx context.Context, page, pageSize int32) ([]domain.Payment, int32, error) {
	var count int32
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM payments`).Scan(&count); err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	query := `SELECT ` + paymentColumns + ` FROM payments ORDER BY created_on DESC LIMIT $1 OFFSET $2`
	rows, err := r.db.QueryContext(ctx, query, pageSize, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var payments []domain.Payment
	for rows.Next() {
		var p domain.Payment
		if err := rows.Scan(&p.ID, &p.BookingID, &p.AmountCents, &p.PaymentDate, &p.Type,
			&p.Status, &p.IntentID, &p.CreatedAt); err != nil {
			return nil, 0, err
		}
		payments = append(payments, p)
	}
	return payments, count, rows.Err()
}
