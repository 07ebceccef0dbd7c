package service

import (
	"context"
	"fmt"

	"eventrental-backend/internal/domain"
	"eventrental-backend/internal/repository"
)

// Availability is the ledger's answer for one unit on one date.
type Availability struct {
	EquipmentID int64               `json:"equipment_id"`
	Date        domain.Date         `json:"date"`
	Available   bool                `json:"available"`
	Conflict    *domain.Reservation `json:"conflict,omitempty"`
}

// checkEquipmentAvailability returns the reserved or out reservation holding
// the unit on date, or nil when the unit is free. excludeID (0 for none) lets
// a reservation ignore itself when it is moved.
func checkEquipmentAvailability(ctx context.Context, store repository.Store, equipmentID int64, date domain.Date, excludeID int64) (*domain.Reservation, error) {
	held, err := store.Reservations().FindActiveOnDate(ctx, equipmentID, date, excludeID)
	if err != nil {
		return nil, fmt.Errorf("check equipment availability: %w", err)
	}
	return held, nil
}
