package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"carrental-backend/internal/repository"

	_ "github.com/lib/pq"
)

// DBTX is the subset of database/sql used by the repositories. Both *sql.DB
// and *sql.Tx satisfy it, so the same repository code runs inside and outside
// a transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

type Store struct {
	db *sql.DB

	cars      repository.CarRepository
	customers repository.CustomerRepository
	bookings  repository.BookingRepository
	rents     repository.RentRepository
	payments  repository.PaymentRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:        db,
		cars:      NewCarRepository(db),
		customers: NewCustomerRepository(db),
		bookings:  NewBookingRepository(db),
		rents:     NewRentRepository(db),
		payments:  NewPaymentRepository(db),
	}
}

func (s *Store) CarRepository() repository.CarRepository           { return s.cars }
func (s *Store) CustomerRepository() repository.CustomerRepository { return s.customers }
func (s *Store) BookingRepository() repository.BookingRepository   { return s.bookings }
func (s *Store) RentRepository() repository.RentRepository         { return s.rents }
func (s *Store) PaymentRepository() repository.PaymentRepository   { return s.payments }

// txStore is a Store view bound to one open transaction. Nested ExecTx calls
// reuse the same transaction rather than opening a second one.
type txStore struct {
	Store
}

func (s *txStore) ExecTx(ctx context.Context, fn func(repository.Store) error) error {
	return fn(s)
}

// ExecTx runs fn inside a database transaction and commits on success.
func (s *Store) ExecTx(ctx context.Context, fn func(repository.Store) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	ts := &txStore{Store: Store{
		db:        s.db,
		cars:      NewCarRepository(tx),
		customers: NewCustomerRepository(tx),
		bookings:  NewBookingRepository(tx),
		rents:     NewRentRepository(tx),
		payments:  NewPaymentRepository(tx),
	}}

	if err := fn(ts); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("tx error: %v, rollback error: %w", err, rbErr)
		}
		return err
	}
	return tx.Commit()
}
