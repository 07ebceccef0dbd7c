package postgres

import (
	"context"
	"fmt"

	"eventrental-backend/internal/domain"
	"eventrental-backend/internal/repository"
)

type equipmentRepository struct {
	q DBTX
}

func NewEquipmentRepository(q DBTX) repository.EquipmentRepository {
	return &equipmentRepository{q: q}
}

const equipmentColumns = `id, COALESCE(serial_number, ''), name, category, sale_price, rental_rate,
	COALESCE(description, ''), COALESCE(specifications, ''), status, maintenance_due_date, created_at, updated_at`

func scanEquipment(s scanner) (domain.Equipment, error) {
	var e domain.Equipment
	err := s.Scan(&e.ID, &e.SerialNumber, &e.Name, &e.Category, &e.SalePrice, &e.RentalRate,
		&e.Description, &e.Specifications, &e.Status, &e.MaintenanceDueDate, &e.CreatedAt, &e.UpdatedAt)
	return e, err
}

func (r *equipmentRepository) Create(ctx context.Context, e *domain.Equipment) error {
	query := `INSERT INTO equipment (serial_number, name, category, sale_price, rental_rate, description, specifications, status, maintenance_due_date, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10) RETURNING id, created_at, updated_at`
	err := r.q.QueryRowContext(ctx, query, nullString(e.SerialNumber), e.Name, e.Category, e.SalePrice, e.RentalRate,
		nullString(e.Description), nullString(e.Specifications), e.Status, e.MaintenanceDueDate, now()).
		Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create equipment: %w", mapError(err))
	}
	return nil
}

func (r *equipmentRepository) GetByID(ctx context.Context, id int64) (*domain.Equipment, error) {
	query := `SELECT ` + equipmentColumns + ` FROM equipment WHERE id = $1`
	e, err := scanEquipment(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("get equipment %d: %w", id, mapError(err))
	}
	return &e, nil
}

func (r *equipmentRepository) List(ctx context.Context, f repository.EquipmentFilter) ([]domain.Equipment, error) {
	query := `SELECT ` + equipmentColumns + ` FROM equipment WHERE 1=1`
	var args []any
	if f.Category != "" {
		args = append(args, f.Category)
		query += fmt.Sprintf(` AND category = $%d`, len(args))
	}
	if f.Status != "" {
		args = append(args, f.Status)
		query += fmt.Sprintf(` AND status = $%d`, len(args))
	}
	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		query += fmt.Sprintf(` AND (name ILIKE $%d OR serial_number ILIKE $%d OR description ILIKE $%d)`, len(args), len(args), len(args))
	}
	query += ` ORDER BY name`

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list equipment: %w", err)
	}
	return collect(rows, scanEquipment)
}

func (r *equipmentRepository) Update(ctx context.Context, e *domain.Equipment) error {
	query := `UPDATE equipment SET serial_number=$1, name=$2, category=$3, sale_price=$4, rental_rate=$5, description=$6,
	          specifications=$7, maintenance_due_date=$8, updated_at=$9 WHERE id=$10`
	return execOne(ctx, r.q, "update equipment", query, nullString(e.SerialNumber), e.Name, e.Category, e.SalePrice,
		e.RentalRate, nullString(e.Description), nullString(e.Specifications), e.MaintenanceDueDate, now(), e.ID)
}

func (r *equipmentRepository) UpdateStatus(ctx context.Context, id int64, status domain.EquipmentStatus) error {
	query := `UPDATE equipment SET status=$1, updated_at=$2 WHERE id=$3`
	return execOne(ctx, r.q, "update equipment status", query, status, now(), id)
}

func (r *equipmentRepository) Delete(ctx context.Context, id int64) error {
	return execOne(ctx, r.q, "delete equipment", `DELETE FROM equipment WHERE id = $1`, id)
}

func (r *equipmentRepository) ListIDs(ctx context.Context) ([]int64, error) {
	rows, err := r.q.QueryContext(ctx, `SELECT id FROM equipment ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list equipment ids: %w", err)
	}
	return collect(rows, scanID)
}

func scanID(s scanner) (int64, error) {
	var id int64
	err := s.Scan(&id)
	return id, err
}
