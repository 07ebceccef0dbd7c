package postgres

import (
	"context"
	"errors"
	"fmt"

	"eventrental-backend/internal/domain"
	"eventrental-backend/internal/repository"
)

type scheduleRepository struct {
	q DBTX
}

func NewScheduleRepository(q DBTX) repository.ScheduleRepository {
	return &scheduleRepository{q: q}
}

const scheduleColumns = `s.id, s.employee_id, s.order_id, s.schedule_date,
	COALESCE(s.required_time_in::text, ''), COALESCE(s.required_time_out::text, ''),
	COALESCE(s.actual_time_in::text, ''), COALESCE(s.actual_time_out::text, ''),
	s.hours_worked, s.overtime_hours, COALESCE(s.notes, ''), s.status, s.created_at, s.updated_at,
	COALESCE(e.name, ''), COALESCE(e.role, ''), COALESCE(o.order_number, ''), COALESCE(c.name, '')`

const scheduleFrom = ` FROM employee_schedules s
	LEFT JOIN employees e ON e.id = s.employee_id
	LEFT JOIN orders o ON o.id = s.order_id
	LEFT JOIN customers c ON c.id = o.customer_id`

func scanSchedule(sc scanner) (domain.EmployeeSchedule, error) {
	var s domain.EmployeeSchedule
	err := sc.Scan(&s.ID, &s.EmployeeID, &s.OrderID, &s.ScheduleDate,
		&s.RequiredTimeIn, &s.RequiredTimeOut, &s.ActualTimeIn, &s.ActualTimeOut,
		&s.HoursWorked, &s.OvertimeHours, &s.Notes, &s.Status, &s.CreatedAt, &s.UpdatedAt,
		&s.EmployeeName, &s.EmployeeRole, &s.OrderNumber, &s.CustomerName)
	return s, err
}

func (r *scheduleRepository) Create(ctx context.Context, s *domain.EmployeeSchedule) error {
	query := `INSERT INTO employee_schedules (employee_id, order_id, schedule_date, required_time_in, required_time_out,
	          actual_time_in, actual_time_out, hours_worked, overtime_hours, notes, status, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $12) RETURNING id, created_at, updated_at`
	err := r.q.QueryRowContext(ctx, query, s.EmployeeID, s.OrderID, s.ScheduleDate,
		nullString(s.RequiredTimeIn), nullString(s.RequiredTimeOut), nullString(s.ActualTimeIn), nullString(s.ActualTimeOut),
		s.HoursWorked, s.OvertimeHours, nullString(s.Notes), s.Status, now()).
		Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create schedule: %w", mapError(err))
	}
	return nil
}

func (r *scheduleRepository) GetByID(ctx context.Context, id int64) (*domain.EmployeeSchedule, error) {
	query := `SELECT ` + scheduleColumns + scheduleFrom + ` WHERE s.id = $1`
	s, err := scanSchedule(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("get schedule %d: %w", id, mapError(err))
	}
	return &s, nil
}

func (r *scheduleRepository) Update(ctx context.Context, s *domain.EmployeeSchedule) error {
	query := `UPDATE employee_schedules SET employee_id=$1, order_id=$2, schedule_date=$3, required_time_in=$4,
	          required_time_out=$5, actual_time_in=$6, actual_time_out=$7, hours_worked=$8, overtime_hours=$9,
	          notes=$10, status=$11, updated_at=$12 WHERE id=$13`
	return execOne(ctx, r.q, "update schedule", query, s.EmployeeID, s.OrderID, s.ScheduleDate,
		nullString(s.RequiredTimeIn), nullString(s.RequiredTimeOut), nullString(s.ActualTimeIn), nullString(s.ActualTimeOut),
		s.HoursWorked, s.OvertimeHours, nullString(s.Notes), s.Status, now(), s.ID)
}

func (r *scheduleRepository) Delete(ctx context.Context, id int64) error {
	return execOne(ctx, r.q, "delete schedule", `DELETE FROM employee_schedules WHERE id = $1`, id)
}

func (r *scheduleRepository) List(ctx context.Context, f repository.ScheduleFilter) ([]domain.EmployeeSchedule, error) {
	query := `SELECT ` + scheduleColumns + scheduleFrom + ` WHERE 1=1`
	var args []any
	if f.EmployeeID != 0 {
		args = append(args, f.EmployeeID)
		query += fmt.Sprintf(` AND s.employee_id = $%d`, len(args))
	}
	if !f.Start.IsZero() {
		args = append(args, f.Start)
		query += fmt.Sprintf(` AND s.schedule_date >= $%d`, len(args))
	}
	if !f.End.IsZero() {
		args = append(args, f.End)
		query += fmt.Sprintf(` AND s.schedule_date <= $%d`, len(args))
	}
	if f.Status != "" {
		args = append(args, f.Status)
		query += fmt.Sprintf(` AND s.status = $%d`, len(args))
	}
	query += ` ORDER BY s.schedule_date, s.required_time_in, s.id`

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list schedules: %w", err)
	}
	return collect(rows, scanSchedule)
}

func (r *scheduleRepository) FindActiveOnDate(ctx context.Context, employeeID int64, date domain.Date, excludeID int64) (*domain.EmployeeSchedule, error) {
	query := `SELECT ` + scheduleColumns + scheduleFrom + `
	          WHERE s.employee_id = $1 AND s.schedule_date = $2 AND s.status <> 'cancelled' AND s.id <> $3
	          ORDER BY s.id LIMIT 1`
	s, err := scanSchedule(r.q.QueryRowContext(ctx, query, employeeID, date, excludeID))
	if err != nil {
		err = mapError(err)
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("find active schedule: %w", err)
	}
	return &s, nil
}
