package postgres

import (
	"context"
	"errors"
	"fmt"

	"eventrental-backend/internal/domain"
	"eventrental-backend/internal/repository"
)

type reservationRepository struct {
	q DBTX
}

func NewReservationRepository(q DBTX) repository.ReservationRepository {
	return &reservationRepository{q: q}
}

const reservationColumns = `r.id, r.equipment_id, r.order_id, COALESCE(r.customer_name, ''), r.reservation_date, r.event_date,
	COALESCE(r.time_out::text, ''), COALESCE(r.time_due_in::text, ''), COALESCE(r.time_returned::text, ''),
	COALESCE(r.condition_notes, ''), r.status, r.created_at, r.updated_at,
	COALESCE(e.name, ''), COALESCE(e.serial_number, ''), COALESCE(o.order_number, '')`

const reservationFrom = ` FROM reservations r
	LEFT JOIN equipment e ON e.id = r.equipment_id
	LEFT JOIN orders o ON o.id = r.order_id`

func scanReservation(s scanner) (domain.Reservation, error) {
	var rs domain.Reservation
	err := s.Scan(&rs.ID, &rs.EquipmentID, &rs.OrderID, &rs.CustomerName, &rs.ReservationDate, &rs.EventDate,
		&rs.TimeOut, &rs.TimeDueIn, &rs.TimeReturned, &rs.ConditionNotes, &rs.Status, &rs.CreatedAt, &rs.UpdatedAt,
		&rs.EquipmentName, &rs.EquipmentSerial, &rs.OrderNumber)
	return rs, err
}

func (r *reservationRepository) Create(ctx context.Context, rs *domain.Reservation) error {
	query := `INSERT INTO reservations (equipment_id, order_id, customer_name, reservation_date, event_date, time_out, time_due_in,
	          time_returned, condition_notes, status, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $11) RETURNING id, created_at, updated_at`
	err := r.q.QueryRowContext(ctx, query, rs.EquipmentID, rs.OrderID, nullString(rs.CustomerName), rs.ReservationDate,
		rs.EventDate, nullString(rs.TimeOut), nullString(rs.TimeDueIn), nullString(rs.TimeReturned),
		nullString(rs.ConditionNotes), rs.Status, now()).
		Scan(&rs.ID, &rs.CreatedAt, &rs.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create reservation: %w", mapError(err))
	}
	return nil
}

func (r *reservationRepository) GetByID(ctx context.Context, id int64) (*domain.Reservation, error) {
	query := `SELECT ` + reservationColumns + reservationFrom + ` WHERE r.id = $1`
	rs, err := scanReservation(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("get reservation %d: %w", id, mapError(err))
	}
	return &rs, nil
}

func (r *reservationRepository) Update(ctx context.Context, rs *domain.Reservation) error {
	query := `UPDATE reservations SET equipment_id=$1, order_id=$2, customer_name=$3, reservation_date=$4, event_date=$5,
	          time_out=$6, time_due_in=$7, time_returned=$8, condition_notes=$9, status=$10, updated_at=$11 WHERE id=$12`
	return execOne(ctx, r.q, "update reservation", query, rs.EquipmentID, rs.OrderID, nullString(rs.CustomerName),
		rs.ReservationDate, rs.EventDate, nullString(rs.TimeOut), nullString(rs.TimeDueIn), nullString(rs.TimeReturned),
		nullString(rs.ConditionNotes), rs.Status, now(), rs.ID)
}

func (r *reservationRepository) Delete(ctx context.Context, id int64) error {
	return execOne(ctx, r.q, "delete reservation", `DELETE FROM reservations WHERE id = $1`, id)
}

func (r *reservationRepository) List(ctx context.Context, f repository.ReservationFilter) ([]domain.Reservation, error) {
	query := `SELECT ` + reservationColumns + reservationFrom + ` WHERE 1=1`
	var args []any
	if !f.Start.IsZero() {
		args = append(args, f.Start)
		query += fmt.Sprintf(` AND r.event_date >= $%d`, len(args))
	}
	if !f.End.IsZero() {
		args = append(args, f.End)
		query += fmt.Sprintf(` AND r.event_date <= $%d`, len(args))
	}
	if f.EquipmentID != 0 {
		args = append(args, f.EquipmentID)
		query += fmt.Sprintf(` AND r.equipment_id = $%d`, len(args))
	}
	query += ` ORDER BY r.event_date, r.id`

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list reservations: %w", err)
	}
	return collect(rows, scanReservation)
}

func (r *reservationRepository) FindActiveOnDate(ctx context.Context, equipmentID int64, date domain.Date, excludeID int64) (*domain.Reservation, error) {
	query := `SELECT ` + reservationColumns + reservationFrom + `
	          WHERE r.equipment_id = $1 AND r.event_date = $2 AND r.status IN ('reserved', 'out') AND r.id <> $3
	          ORDER BY r.id LIMIT 1`
	rs, err := scanReservation(r.q.QueryRowContext(ctx, query, equipmentID, date, excludeID))
	if err != nil {
		err = mapError(err)
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("find active reservation: %w", err)
	}
	return &rs, nil
}

func (r *reservationRepository) ListActiveByEquipment(ctx context.Context, equipmentID int64) ([]domain.Reservation, error) {
	query := `SELECT ` + reservationColumns + reservationFrom + `
	          WHERE r.equipment_id = $1 AND r.status IN ('reserved', 'out')
	          ORDER BY r.updated_at DESC, r.id DESC`
	rows, err := r.q.QueryContext(ctx, query, equipmentID)
	if err != nil {
		return nil, fmt.Errorf("list active reservations: %w", err)
	}
	return collect(rows, scanReservation)
}

func (r *reservationRepository) ListByEquipment(ctx context.Context, equipmentID int64) ([]domain.Reservation, error) {
	query := `SELECT ` + reservationColumns + reservationFrom + `
	          WHERE r.equipment_id = $1 ORDER BY r.event_date DESC, r.id DESC`
	rows, err := r.q.QueryContext(ctx, query, equipmentID)
	if err != nil {
		return nil, fmt.Errorf("list equipment reservations: %w", err)
	}
	return collect(rows, scanReservation)
}
