package postgres

import (
	"context"
	"fmt"

	"eventrental-backend/internal/domain"
	"eventrental-backend/internal/repository"
)

type employeeRepository struct {
	q DBTX
}

func NewEmployeeRepository(q DBTX) repository.EmployeeRepository {
	return &employeeRepository{q: q}
}

const employeeColumns = `id, name, role, COALESCE(phone, ''), COALESCE(beeper, ''), COALESCE(address, ''),
	COALESCE(city, ''), COALESCE(state, ''), COALESCE(zip, ''), COALESCE(email, ''), COALESCE(skills, ''),
	hourly_rate, status, COALESCE(notes, ''), created_at, updated_at`

func scanEmployee(s scanner) (domain.Employee, error) {
	var e domain.Employee
	err := s.Scan(&e.ID, &e.Name, &e.Role, &e.Phone, &e.Beeper, &e.Address, &e.City, &e.State, &e.Zip,
		&e.Email, &e.Skills, &e.HourlyRate, &e.Status, &e.Notes, &e.CreatedAt, &e.UpdatedAt)
	return e, err
}

func (r *employeeRepository) Create(ctx context.Context, e *domain.Employee) error {
	query := `INSERT INTO employees (name, role, phone, beeper, address, city, state, zip, email, skills, hourly_rate, status, notes, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $14) RETURNING id, created_at, updated_at`
	err := r.q.QueryRowContext(ctx, query, e.Name, e.Role, nullString(e.Phone), nullString(e.Beeper), nullString(e.Address),
		nullString(e.City), nullString(e.State), nullString(e.Zip), nullString(e.Email), nullString(e.Skills),
		e.HourlyRate, e.Status, nullString(e.Notes), now()).
		Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create employee: %w", mapError(err))
	}
	return nil
}

func (r *employeeRepository) GetByID(ctx context.Context, id int64) (*domain.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE id = $1`
	e, err := scanEmployee(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("get employee %d: %w", id, mapError(err))
	}
	return &e, nil
}

func (r *employeeRepository) List(ctx context.Context, f repository.EmployeeFilter) ([]domain.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE 1=1`
	var args []any
	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		query += fmt.Sprintf(` AND (name ILIKE $%d OR skills ILIKE $%d)`, len(args), len(args))
	}
	if f.Status != "" {
		args = append(args, f.Status)
		query += fmt.Sprintf(` AND status = $%d`, len(args))
	}
	query += ` ORDER BY name`

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	return collect(rows, scanEmployee)
}

func (r *employeeRepository) Update(ctx context.Context, e *domain.Employee) error {
	query := `UPDATE employees SET name=$1, role=$2, phone=$3, beeper=$4, address=$5, city=$6, state=$7, zip=$8,
	          email=$9, skills=$10, hourly_rate=$11, status=$12, notes=$13, updated_at=$14 WHERE id=$15`
	return execOne(ctx, r.q, "update employee", query, e.Name, e.Role, nullString(e.Phone), nullString(e.Beeper),
		nullString(e.Address), nullString(e.City), nullString(e.State), nullString(e.Zip), nullString(e.Email),
		nullString(e.Skills), e.HourlyRate, e.Status, nullString(e.Notes), now(), e.ID)
}

func (r *employeeRepository) Delete(ctx context.Context, id int64) error {
	return execOne(ctx, r.q, "delete employee", `DELETE FROM employees WHERE id = $1`, id)
}
