package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"carrental-backend/internal/domain"
	"carrental-backend/internal/repository"
)

type customerRepository struct {
	db DBTX
}

func NewCustomerRepository(db DBTX) repository.CustomerRepository {
	return &customerRepository{db: db}
}

const customerColumns = `id, name, email, phone_number, address, license_number, nic_number, created_on`

func (r *customerRepository) Create(ctx context.Context, c *domain.Customer) error {
	query := `INSERT INTO customers (name, email, phone_number, address, license_number, nic_number, created_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	return r.db.QueryRowContext(ctx, query, c.Name, c.Email, c.PhoneNumber, c.Address,
		c.LicenseNumber, c.NICNumber, time.Now()).Scan(&c.ID)
}

func (r *customerRepository) GetByID(ctx context.Context, id int64) (*domain.Customer, error) {
	c := &domain.Customer{}
	query := `SELECT ` + customerColumns + ` FROM customers WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&c.ID, &c.Name, &c.Email, &c.PhoneNumber,
		&c.Address, &c.LicenseNumber, &c.NICNumber, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFoundError{Resource: "customer"}
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *customerRepository) GetByEmail(ctx context.Context, email string) (*domain.Customer, error) {
	c := &domain.Customer{}
	query := `SELECT ` + customerColumns + ` FROM customers WHERE email = $1`
	err := r.db.QueryRowContext(ctx, query, email).Scan(&c.ID, &c.Name, &c.Email, &c.PhoneNumber,
		&c.Address, &c.LicenseNumber, &c.NICNumber, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFoundError{Resource: "customer"}
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *customerRepository) Update(ctx context.Context, c *domain.Customer) error {
	query := `UPDATE customers SET name=$1, email=$2, phone_number=$3, address=$4, license_number=$5, nic_number=$6 WHERE id=$7`
	res, err := r.db.ExecContext(ctx, query, c.Name, c.Email, c.PhoneNumber, c.Address,
		c.LicenseNumber, c.NICNumber, c.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NotFoundError{Resource: "customer"}
	}
	return nil
}
