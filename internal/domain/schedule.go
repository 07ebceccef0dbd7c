package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type ScheduleStatus string

const (
	ScheduleStatusScheduled ScheduleStatus = "scheduled"
	ScheduleStatusCompleted ScheduleStatus = "completed"
	ScheduleStatusCancelled ScheduleStatus = "cancelled"
)

func (s ScheduleStatus) Valid() bool {
	switch s {
	case ScheduleStatusScheduled, ScheduleStatusCompleted, ScheduleStatusCancelled:
		return true
	}
	return false
}

// Blocks reports whether an entry in this status occupies the employee's day.
func (s ScheduleStatus) Blocks() bool {
	return s != ScheduleStatusCancelled
}

// EmployeeSchedule is one employee's shift on one day.
type EmployeeSchedule struct {
	ID              int64               `json:"id"`
	EmployeeID      int64               `json:"employee_id"`
	OrderID         *int64              `json:"order_id"`
	ScheduleDate    Date                `json:"schedule_date"`
	RequiredTimeIn  string              `json:"required_time_in"`
	RequiredTimeOut string              `json:"required_time_out"`
	ActualTimeIn    string              `json:"actual_time_in"`
	ActualTimeOut   string              `json:"actual_time_out"`
	HoursWorked     decimal.NullDecimal `json:"hours_worked"`
	OvertimeHours   decimal.Decimal     `json:"overtime_hours"`
	Notes           string              `json:"notes"`
	Status          ScheduleStatus      `json:"status"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`

	EmployeeName string `json:"employee_name,omitempty"`
	EmployeeRole string `json:"employee_role,omitempty"`
	OrderNumber  string `json:"order_number,omitempty"`
	CustomerName string `json:"customer_name,omitempty"`
}
