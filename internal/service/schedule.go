package service

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"eventrental-backend/internal/apperror"
	"eventrental-backend/internal/domain"
	"eventrental-backend/internal/logger"
	"eventrental-backend/internal/repository"
)

// SchedulePatch carries the fields of a schedule update. Nil fields keep their
// current value; an OrderID of 0 unlinks the order.
type SchedulePatch struct {
	EmployeeID      *int64                 `json:"employee_id"`
	OrderID         *int64                 `json:"order_id"`
	ScheduleDate    *domain.Date           `json:"schedule_date"`
	RequiredTimeIn  *string                `json:"required_time_in"`
	RequiredTimeOut *string                `json:"required_time_out"`
	ActualTimeIn    *string                `json:"actual_time_in"`
	ActualTimeOut   *string                `json:"actual_time_out"`
	HoursWorked     *decimal.NullDecimal   `json:"hours_worked"`
	OvertimeHours   *decimal.Decimal       `json:"overtime_hours"`
	Notes           *string                `json:"notes"`
	Status          *domain.ScheduleStatus `json:"status"`
}

func (p SchedulePatch) apply(s *domain.EmployeeSchedule) {
	if p.EmployeeID != nil {
		s.EmployeeID = *p.EmployeeID
	}
	if p.OrderID != nil {
		s.OrderID = nil
		if *p.OrderID != 0 {
			id := *p.OrderID
			s.OrderID = &id
		}
	}
	if p.ScheduleDate != nil {
		s.ScheduleDate = *p.ScheduleDate
	}
	setString(&s.RequiredTimeIn, p.RequiredTimeIn)
	setString(&s.RequiredTimeOut, p.RequiredTimeOut)
	setString(&s.ActualTimeIn, p.ActualTimeIn)
	setString(&s.ActualTimeOut, p.ActualTimeOut)
	if p.HoursWorked != nil {
		s.HoursWorked = *p.HoursWorked
	}
	if p.OvertimeHours != nil {
		s.OvertimeHours = *p.OvertimeHours
	}
	setString(&s.Notes, p.Notes)
	if p.Status != nil {
		s.Status = *p.Status
	}
}

type scheduleService struct {
	store repository.Store
}

func NewScheduleService(store repository.Store) ScheduleService {
	return &scheduleService{store: store}
}

func (s *scheduleService) ListSchedules(ctx context.Context, f repository.ScheduleFilter) ([]domain.EmployeeSchedule, error) {
	if f.Status != "" && !f.Status.Valid() {
		return nil, apperror.Validationf("invalid schedule status %q", f.Status)
	}
	list, err := s.store.Schedules().List(ctx, f)
	if err != nil {
		return nil, storeErr(err, "")
	}
	return list, nil
}

func (s *scheduleService) GetSchedule(ctx context.Context, id int64) (*domain.EmployeeSchedule, error) {
	entry, err := s.store.Schedules().GetByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, "Schedule not found")
	}
	return entry, nil
}

func (s *scheduleService) CreateSchedule(ctx context.Context, entry *domain.EmployeeSchedule) (_ *domain.EmployeeSchedule, err error) {
	logger.EnterMethod(ctx, "scheduleService.CreateSchedule", "employeeID", entry.EmployeeID, "date", entry.ScheduleDate)
	defer func() { exit(ctx, "scheduleService.CreateSchedule", err, "employeeID", entry.EmployeeID) }()

	if entry.EmployeeID == 0 || entry.ScheduleDate.IsZero() {
		return nil, apperror.Validation("Employee ID and schedule date are required")
	}
	if entry.Status == "" {
		entry.Status = domain.ScheduleStatusScheduled
	}
	if !entry.Status.Valid() {
		return nil, apperror.Validationf("invalid schedule status %q", entry.Status)
	}

	var out *domain.EmployeeSchedule
	err = s.store.WithTx(ctx, func(tx repository.Store) error {
		if err := s.checkRefs(ctx, tx, entry); err != nil {
			return err
		}
		if entry.Status.Blocks() {
			if err := s.rejectConflict(ctx, tx, entry.EmployeeID, entry.ScheduleDate, 0); err != nil {
				return err
			}
		}
		if err := tx.Schedules().Create(ctx, entry); err != nil {
			return err
		}
		var err error
		out, err = tx.Schedules().GetByID(ctx, entry.ID)
		return err
	})
	if err != nil {
		return nil, storeErr(err, "Schedule not found")
	}
	return out, nil
}

// UpdateSchedule applies patch. The conflict check excludes the entry itself
// and runs whenever a non-cancelled result changes employee or day, or
// returns from cancelled.
func (s *scheduleService) UpdateSchedule(ctx context.Context, id int64, patch SchedulePatch) (_ *domain.EmployeeSchedule, err error) {
	logger.EnterMethod(ctx, "scheduleService.UpdateSchedule", "scheduleID", id)
	defer func() { exit(ctx, "scheduleService.UpdateSchedule", err, "scheduleID", id) }()

	var out *domain.EmployeeSchedule
	err = s.store.WithTx(ctx, func(tx repository.Store) error {
		cur, err := tx.Schedules().GetByID(ctx, id)
		if err != nil {
			return err
		}
		next := *cur
		patch.apply(&next)

		if next.EmployeeID == 0 || next.ScheduleDate.IsZero() {
			return apperror.Validation("Employee ID and schedule date are required")
		}
		if !next.Status.Valid() {
			return apperror.Validationf("invalid schedule status %q", next.Status)
		}
		if err := s.checkRefs(ctx, tx, &next); err != nil {
			return err
		}

		moved := next.EmployeeID != cur.EmployeeID || !next.ScheduleDate.Equal(cur.ScheduleDate)
		if next.Status.Blocks() && (moved || !cur.Status.Blocks()) {
			if err := s.rejectConflict(ctx, tx, next.EmployeeID, next.ScheduleDate, id); err != nil {
				return err
			}
		}

		if err := tx.Schedules().Update(ctx, &next); err != nil {
			return err
		}
		out, err = tx.Schedules().GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, storeErr(err, "Schedule not found")
	}
	return out, nil
}

func (s *scheduleService) DeleteSchedule(ctx context.Context, id int64) (err error) {
	logger.EnterMethod(ctx, "scheduleService.DeleteSchedule", "scheduleID", id)
	defer func() { exit(ctx, "scheduleService.DeleteSchedule", err, "scheduleID", id) }()

	return storeErr(s.store.Schedules().Delete(ctx, id), "Schedule not found")
}

func (s *scheduleService) CheckAvailability(ctx context.Context, employeeID int64, date domain.Date, excludeScheduleID int64) (*StaffAvailability, error) {
	if date.IsZero() {
		return nil, apperror.Validation("date is required")
	}
	if _, err := s.store.Employees().GetByID(ctx, employeeID); err != nil {
		return nil, storeErr(err, "Employee not found")
	}
	held, err := checkScheduleConflict(ctx, s.store, employeeID, date, excludeScheduleID)
	if err != nil {
		return nil, storeErr(err, "")
	}
	return &StaffAvailability{EmployeeID: employeeID, Date: date, Available: held == nil, Conflict: held}, nil
}

func (s *scheduleService) rejectConflict(ctx context.Context, tx repository.Store, employeeID int64, date domain.Date, excludeID int64) error {
	held, err := checkScheduleConflict(ctx, tx, employeeID, date, excludeID)
	if err != nil {
		return err
	}
	if held != nil {
		return apperror.Conflict(msgEmployeeScheduled, apperror.WithConflict(held))
	}
	return nil
}

func (s *scheduleService) checkRefs(ctx context.Context, tx repository.Store, entry *domain.EmployeeSchedule) error {
	if _, err := tx.Employees().GetByID(ctx, entry.EmployeeID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperror.Validation("employee does not exist", apperror.WithCause(err))
		}
		return err
	}
	if entry.OrderID != nil {
		if _, err := tx.Orders().GetByID(ctx, *entry.OrderID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return apperror.Validation("order does not exist", apperror.WithCause(err))
			}
			return err
		}
	}
	return nil
}
