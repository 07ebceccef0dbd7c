package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Customer struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Company     string    `json:"company"`
	ContactName string    `json:"contact_name"`
	Phone       string    `json:"phone"`
	Address     string    `json:"address"`
	City        string    `json:"city"`
	State       string    `json:"state"`
	Zip         string    `json:"zip"`
	Fax         string    `json:"fax"`
	Notes       string    `json:"notes"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

const (
	EmployeeRoleContract = "contract"
	EmployeeStatusActive = "active"
)

type Employee struct {
	ID         int64               `json:"id"`
	Name       string              `json:"name"`
	Role       string              `json:"role"`
	Phone      string              `json:"phone"`
	Beeper     string              `json:"beeper"`
	Address    string              `json:"address"`
	City       string              `json:"city"`
	State      string              `json:"state"`
	Zip        string              `json:"zip"`
	Email      string              `json:"email"`
	Skills     string              `json:"skills"`
	HourlyRate decimal.NullDecimal `json:"hourly_rate"`
	Status     string              `json:"status"`
	Notes      string              `json:"notes"`
	CreatedAt  time.Time           `json:"created_at"`
	UpdatedAt  time.Time           `json:"updated_at"`
}
