package postgres

import (
	"context"
	"fmt"

	"eventrental-backend/internal/domain"
	"eventrental-backend/internal/repository"
)

type orderWorkerRepository struct {
	q DBTX
}

func NewOrderWorkerRepository(q DBTX) repository.OrderWorkerRepository {
	return &orderWorkerRepository{q: q}
}

const orderWorkerColumns = `w.id, w.order_id, w.employee_id, COALESCE(w.role, ''), COALESCE(w.notes, ''), w.created_at,
	COALESCE(e.name, ''), COALESCE(e.role, ''), COALESCE(e.phone, '')`

func scanOrderWorker(s scanner) (domain.OrderWorker, error) {
	var w domain.OrderWorker
	err := s.Scan(&w.ID, &w.OrderID, &w.EmployeeID, &w.Role, &w.Notes, &w.CreatedAt,
		&w.EmployeeName, &w.EmployeeRole, &w.EmployeePhone)
	return w, err
}

func (r *orderWorkerRepository) Create(ctx context.Context, w *domain.OrderWorker) error {
	query := `INSERT INTO order_workers (order_id, employee_id, role, notes, created_at)
	          VALUES ($1, $2, $3, $4, $5) RETURNING id, created_at`
	err := r.q.QueryRowContext(ctx, query, w.OrderID, w.EmployeeID, nullString(w.Role), nullString(w.Notes), now()).
		Scan(&w.ID, &w.CreatedAt)
	if err != nil {
		return fmt.Errorf("create order worker: %w", mapError(err))
	}
	return nil
}

func (r *orderWorkerRepository) GetByOrderAndEmployee(ctx context.Context, orderID, employeeID int64) (*domain.OrderWorker, error) {
	query := `SELECT ` + orderWorkerColumns + ` FROM order_workers w JOIN employees e ON e.id = w.employee_id
	          WHERE w.order_id = $1 AND w.employee_id = $2`
	w, err := scanOrderWorker(r.q.QueryRowContext(ctx, query, orderID, employeeID))
	if err != nil {
		return nil, fmt.Errorf("get order worker: %w", mapError(err))
	}
	return &w, nil
}

func (r *orderWorkerRepository) Delete(ctx context.Context, orderID, workerID int64) error {
	return execOne(ctx, r.q, "delete order worker", `DELETE FROM order_workers WHERE id = $1 AND order_id = $2`, workerID, orderID)
}

func (r *orderWorkerRepository) ListByOrder(ctx context.Context, orderID int64) ([]domain.OrderWorker, error) {
	query := `SELECT ` + orderWorkerColumns + ` FROM order_workers w JOIN employees e ON e.id = w.employee_id
	          WHERE w.order_id = $1 ORDER BY e.name`
	rows, err := r.q.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("list order workers: %w", err)
	}
	return collect(rows, scanOrderWorker)
}
