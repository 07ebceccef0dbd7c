package postgres

import (
	"context"
	"fmt"

	"eventrental-backend/internal/domain"
	"eventrental-backend/internal/repository"
)

type customerRepository struct {
	q DBTX
}

func NewCustomerRepository(q DBTX) repository.CustomerRepository {
	return &customerRepository{q: q}
}

const customerColumns = `id, name, COALESCE(company, ''), COALESCE(contact_name, ''), COALESCE(phone, ''),
	COALESCE(address, ''), COALESCE(city, ''), COALESCE(state, ''), COALESCE(zip, ''), COALESCE(fax, ''),
	COALESCE(notes, ''), created_at, updated_at`

func scanCustomer(s scanner) (domain.Customer, error) {
	var c domain.Customer
	err := s.Scan(&c.ID, &c.Name, &c.Company, &c.ContactName, &c.Phone, &c.Address, &c.City, &c.State, &c.Zip, &c.Fax, &c.Notes, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

func (r *customerRepository) Create(ctx context.Context, c *domain.Customer) error {
	query := `INSERT INTO customers (name, company, contact_name, phone, address, city, state, zip, fax, notes, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $11) RETURNING id, created_at, updated_at`
	err := r.q.QueryRowContext(ctx, query, c.Name, nullString(c.Company), nullString(c.ContactName), nullString(c.Phone),
		nullString(c.Address), nullString(c.City), nullString(c.State), nullString(c.Zip), nullString(c.Fax), nullString(c.Notes), now()).
		Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create customer: %w", mapError(err))
	}
	return nil
}

func (r *customerRepository) GetByID(ctx context.Context, id int64) (*domain.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE id = $1`
	c, err := scanCustomer(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("get customer %d: %w", id, mapError(err))
	}
	return &c, nil
}

func (r *customerRepository) List(ctx context.Context, f repository.CustomerFilter) ([]domain.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers`
	var args []any
	if f.Search != "" {
		query += ` WHERE name ILIKE $1 OR company ILIKE $1 OR contact_name ILIKE $1`
		args = append(args, "%"+f.Search+"%")
	}
	query += ` ORDER BY name`

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	return collect(rows, scanCustomer)
}

func (r *customerRepository) Update(ctx context.Context, c *domain.Customer) error {
	query := `UPDATE customers SET name=$1, company=$2, contact_name=$3, phone=$4, address=$5, city=$6, state=$7,
	          zip=$8, fax=$9, notes=$10, updated_at=$11 WHERE id=$12`
	return execOne(ctx, r.q, "update customer", query, c.Name, nullString(c.Company), nullString(c.ContactName),
		nullString(c.Phone), nullString(c.Address), nullString(c.City), nullString(c.State), nullString(c.Zip),
		nullString(c.Fax), nullString(c.Notes), now(), c.ID)
}

func (r *customerRepository) Delete(ctx context.Context, id int64) error {
	return execOne(ctx, r.q, "delete customer", `DELETE FROM customers WHERE id = $1`, id)
}
