package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type EquipmentCategory string

const (
	EquipmentCategoryAudio    EquipmentCategory = "audio"
	EquipmentCategoryVideo    EquipmentCategory = "video"
	EquipmentCategoryLighting EquipmentCategory = "lighting"
	EquipmentCategoryOther    EquipmentCategory = "other"
)

func (c EquipmentCategory) Valid() bool {
	switch c {
	case EquipmentCategoryAudio, EquipmentCategoryVideo, EquipmentCategoryLighting, EquipmentCategoryOther:
		return true
	}
	return false
}

type EquipmentStatus string

const (
	EquipmentStatusAvailable   EquipmentStatus = "available"
	EquipmentStatusReserved    EquipmentStatus = "reserved"
	EquipmentStatusOut         EquipmentStatus = "out"
	EquipmentStatusMaintenance EquipmentStatus = "maintenance"
)

func (s EquipmentStatus) Valid() bool {
	switch s {
	case EquipmentStatusAvailable, EquipmentStatusReserved, EquipmentStatusOut, EquipmentStatusMaintenance:
		return true
	}
	return false
}

// Equipment is one physical inventory unit. Status mirrors the unit's active
// reservations unless an operator has put it into maintenance.
type Equipment struct {
	ID                 int64               `json:"id"`
	SerialNumber       string              `json:"serial_number"`
	Name               string              `json:"name"`
	Category           EquipmentCategory   `json:"category"`
	SalePrice          decimal.NullDecimal `json:"sale_price"`
	RentalRate         decimal.NullDecimal `json:"rental_rate"`
	Description        string              `json:"description"`
	Specifications     string              `json:"specifications"`
	Status             EquipmentStatus     `json:"status"`
	MaintenanceDueDate Date                `json:"maintenance_due_date"`
	CreatedAt          time.Time           `json:"created_at"`
	UpdatedAt          time.Time           `json:"updated_at"`
}

// EquipmentHistory lists every order line and reservation referencing a unit.
type EquipmentHistory struct {
	OrderItems   []OrderItem   `json:"order_items"`
	Reservations []Reservation `json:"reservations"`
}
