package service

import (
	"context"
	"fmt"

	"eventrental-backend/internal/domain"
	"eventrental-backend/internal/repository"
)

// StaffAvailability is the conflict checker's answer for one employee and day.
type StaffAvailability struct {
	EmployeeID int64                    `json:"employee_id"`
	Date       domain.Date              `json:"date"`
	Available  bool                     `json:"available"`
	Conflict   *domain.EmployeeSchedule `json:"conflict,omitempty"`
}

// checkScheduleConflict returns the non-cancelled entry occupying the
// employee's day, or nil. excludeID (0 for none) is the entry being edited.
func checkScheduleConflict(ctx context.Context, store repository.Store, employeeID int64, date domain.Date, excludeID int64) (*domain.EmployeeSchedule, error) {
	held, err := store.Schedules().FindActiveOnDate(ctx, employeeID, date, excludeID)
	if err != nil {
		return nil, fmt.Errorf("check schedule conflict: %w", err)
	}
	return held, nil
}
