package service

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"eventrental-backend/internal/domain"
	"eventrental-backend/internal/logger"
	"eventrental-backend/internal/repository"
)

// DeriveEquipmentStatus computes a unit's status from its active reservations.
// Maintenance is an operator override and is kept as is. Otherwise the most
// recently updated active reservation decides, with the higher id winning a
// tie.
func DeriveEquipmentStatus(current domain.EquipmentStatus, active []domain.Reservation) domain.EquipmentStatus {
	if current == domain.EquipmentStatusMaintenance {
		return current
	}
	var latest *domain.Reservation
	for i := range active {
		rs := &active[i]
		if !rs.Status.IsActive() {
			continue
		}
		if latest == nil || newerReservation(rs, latest) {
			latest = rs
		}
	}
	if latest == nil {
		return domain.EquipmentStatusAvailable
	}
	if latest.Status == domain.ReservationStatusOut {
		return domain.EquipmentStatusOut
	}
	return domain.EquipmentStatusReserved
}

func newerReservation(a, b *domain.Reservation) bool {
	if c := a.UpdatedAt.Compare(b.UpdatedAt); c != 0 {
		return c > 0
	}
	return cmp.Compare(a.ID, b.ID) > 0
}

// reconcileEquipmentStatus re-derives one unit's status and writes it only
// when it changed.
func reconcileEquipmentStatus(ctx context.Context, store repository.Store, equipmentID int64) (*domain.Equipment, bool, error) {
	eq, err := store.Equipment().GetByID(ctx, equipmentID)
	if err != nil {
		return nil, false, fmt.Errorf("load equipment: %w", err)
	}
	active, err := store.Reservations().ListActiveByEquipment(ctx, equipmentID)
	if err != nil {
		return nil, false, fmt.Errorf("load active reservations: %w", err)
	}
	next := DeriveEquipmentStatus(eq.Status, active)
	if next == eq.Status {
		return eq, false, nil
	}
	if err := store.Equipment().UpdateStatus(ctx, equipmentID, next); err != nil {
		return nil, false, fmt.Errorf("store equipment status: %w", err)
	}
	logger.InfoContext(ctx, "Equipment status changed", "equipmentID", equipmentID, "from", eq.Status, "to", next)
	eq.Status = next
	return eq, true, nil
}

// reconcileEquipmentIDs reconciles each distinct id once.
func reconcileEquipmentIDs(ctx context.Context, store repository.Store, ids ...int64) error {
	ids = slices.Clone(ids)
	slices.Sort(ids)
	for _, id := range slices.Compact(ids) {
		if id == 0 {
			continue
		}
		if _, _, err := reconcileEquipmentStatus(ctx, store, id); err != nil {
			return err
		}
	}
	return nil
}
