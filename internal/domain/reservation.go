package domain

import "time"

type ReservationStatus string

const (
	ReservationStatusReserved  ReservationStatus = "reserved"
	ReservationStatusOut       ReservationStatus = "out"
	ReservationStatusReturned  ReservationStatus = "returned"
	ReservationStatusCancelled ReservationStatus = "cancelled"
)

// ActiveReservationStatuses hold the equipment against other bookings.
var ActiveReservationStatuses = []ReservationStatus{ReservationStatusReserved, ReservationStatusOut}

func (s ReservationStatus) Valid() bool {
	switch s {
	case ReservationStatusReserved, ReservationStatusOut, ReservationStatusReturned, ReservationStatusCancelled:
		return true
	}
	return false
}

// IsActive reports whether the status blocks the equipment for its event date.
func (s ReservationStatus) IsActive() bool {
	return s == ReservationStatusReserved || s == ReservationStatusOut
}

// IsTerminal reports whether the status releases the equipment.
func (s ReservationStatus) IsTerminal() bool {
	return s == ReservationStatusReturned || s == ReservationStatusCancelled
}

// Reservation books one equipment unit for one event date.
type Reservation struct {
	ID              int64             `json:"id"`
	EquipmentID     int64             `json:"equipment_id"`
	OrderID         *int64            `json:"order_id"`
	CustomerName    string            `json:"customer_name"`
	ReservationDate Date              `json:"reservation_date"`
	EventDate       Date              `json:"event_date"`
	TimeOut         string            `json:"time_out"`
	TimeDueIn       string            `json:"time_due_in"`
	TimeReturned    string            `json:"time_returned"`
	ConditionNotes  string            `json:"condition_notes"`
	Status          ReservationStatus `json:"status"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`

	EquipmentName   string `json:"equipment_name,omitempty"`
	EquipmentSerial string `json:"equipment_serial,omitempty"`
	OrderNumber     string `json:"order_number,omitempty"`
}
