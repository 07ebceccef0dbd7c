package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"eventrental-backend/internal/apperror"
	"eventrental-backend/internal/domain"
	"eventrental-backend/internal/logger"
	"eventrental-backend/internal/repository"
)

type equipmentService struct {
	store repository.Store
}

func NewEquipmentService(store repository.Store) EquipmentService {
	return &equipmentService{store: store}
}

func (s *equipmentService) CreateEquipment(ctx context.Context, e *domain.Equipment) (_ *domain.Equipment, err error) {
	logger.EnterMethod(ctx, "equipmentService.CreateEquipment", "serial", e.SerialNumber)
	defer func() { exit(ctx, "equipmentService.CreateEquipment", err) }()

	e.Name = strings.TrimSpace(e.Name)
	if e.Name == "" {
		return nil, apperror.Validation("name is required")
	}
	if e.Category == "" {
		e.Category = domain.EquipmentCategoryOther
	}
	if !e.Category.Valid() {
		return nil, apperror.Validationf("invalid category %q", e.Category)
	}
	// New units start available; status is owned by the synchronizer.
	e.Status = domain.EquipmentStatusAvailable

	if err := s.store.Equipment().Create(ctx, e); err != nil {
		return nil, storeErr(err, "Equipment not found")
	}
	logger.InfoContext(ctx, "Equipment created", "equipmentID", e.ID, "serial", e.SerialNumber)
	return e, nil
}

func (s *equipmentService) GetEquipment(ctx context.Context, id int64) (*domain.Equipment, error) {
	e, err := s.store.Equipment().GetByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, "Equipment not found")
	}
	return e, nil
}

func (s *equipmentService) ListEquipment(ctx context.Context, f repository.EquipmentFilter) ([]domain.Equipment, error) {
	if f.Category != "" && !f.Category.Valid() {
		return nil, apperror.Validationf("invalid category %q", f.Category)
	}
	if f.Status != "" && !f.Status.Valid() {
		return nil, apperror.Validationf("invalid status %q", f.Status)
	}
	list, err := s.store.Equipment().List(ctx, f)
	if err != nil {
		return nil, storeErr(err, "")
	}
	return list, nil
}

func (s *equipmentService) UpdateEquipment(ctx context.Context, e *domain.Equipment) (_ *domain.Equipment, err error) {
	logger.EnterMethod(ctx, "equipmentService.UpdateEquipment", "equipmentID", e.ID)
	defer func() { exit(ctx, "equipmentService.UpdateEquipment", err, "equipmentID", e.ID) }()

	var out *domain.Equipment
	err = s.store.WithTx(ctx, func(tx repository.Store) error {
		cur, err := tx.Equipment().GetByID(ctx, e.ID)
		if err != nil {
			return err
		}
		e.Name = strings.TrimSpace(e.Name)
		if e.Name == "" {
			e.Name = cur.Name
		}
		if e.Category == "" {
			e.Category = cur.Category
		}
		if !e.Category.Valid() {
			return apperror.Validationf("invalid category %q", e.Category)
		}
		e.Status = cur.Status
		if err := tx.Equipment().Update(ctx, e); err != nil {
			return err
		}
		out, err = tx.Equipment().GetByID(ctx, e.ID)
		return err
	})
	if err != nil {
		return nil, storeErr(err, "Equipment not found")
	}
	return out, nil
}

func (s *equipmentService) DeleteEquipment(ctx context.Context, id int64) (err error) {
	logger.EnterMethod(ctx, "equipmentService.DeleteEquipment", "equipmentID", id)
	defer func() { exit(ctx, "equipmentService.DeleteEquipment", err, "equipmentID", id) }()

	if err := s.store.Equipment().Delete(ctx, id); err != nil {
		return storeErr(err, "Equipment not found")
	}
	return nil
}

func (s *equipmentService) GetHistory(ctx context.Context, id int64) (*domain.EquipmentHistory, error) {
	if _, err := s.store.Equipment().GetByID(ctx, id); err != nil {
		return nil, storeErr(err, "Equipment not found")
	}
	items, err := s.store.OrderItems().ListByEquipment(ctx, id)
	if err != nil {
		return nil, storeErr(err, "")
	}
	reservations, err := s.store.Reservations().ListByEquipment(ctx, id)
	if err != nil {
		return nil, storeErr(err, "")
	}
	return &domain.EquipmentHistory{OrderItems: items, Reservations: reservations}, nil
}

// SetMaintenance puts a unit into maintenance or takes it out again. Leaving
// maintenance re-derives the status from the unit's reservations.
func (s *equipmentService) SetMaintenance(ctx context.Context, id int64, on bool) (_ *domain.Equipment, err error) {
	logger.EnterMethod(ctx, "equipmentService.SetMaintenance", "equipmentID", id, "on", on)
	defer func() { exit(ctx, "equipmentService.SetMaintenance", err, "equipmentID", id) }()

	var out *domain.Equipment
	err = s.store.WithTx(ctx, func(tx repository.Store) error {
		cur, err := tx.Equipment().GetByID(ctx, id)
		if err != nil {
			return err
		}
		next := domain.EquipmentStatusMaintenance
		if !on {
			active, err := tx.Reservations().ListActiveByEquipment(ctx, id)
			if err != nil {
				return err
			}
			next = DeriveEquipmentStatus(domain.EquipmentStatusAvailable, active)
		}
		if next != cur.Status {
			if err := tx.Equipment().UpdateStatus(ctx, id, next); err != nil {
				return err
			}
			logger.InfoContext(ctx, "Equipment status changed", "equipmentID", id, "from", cur.Status, "to", next)
		}
		out, err = tx.Equipment().GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, storeErr(err, "Equipment not found")
	}
	return out, nil
}

func (s *equipmentService) ReconcileStatus(ctx context.Context, id int64) (_ *domain.Equipment, err error) {
	logger.EnterMethod(ctx, "equipmentService.ReconcileStatus", "equipmentID", id)
	defer func() { exit(ctx, "equipmentService.ReconcileStatus", err, "equipmentID", id) }()

	var out *domain.Equipment
	err = s.store.WithTx(ctx, func(tx repository.Store) error {
		eq, _, err := reconcileEquipmentStatus(ctx, tx, id)
		out = eq
		return err
	})
	if err != nil {
		return nil, storeErr(err, "Equipment not found")
	}
	return out, nil
}

// ReconcileAll re-derives every unit's status, one transaction per unit.
func (s *equipmentService) ReconcileAll(ctx context.Context) (int, error) {
	logger.EnterMethod(ctx, "equipmentService.ReconcileAll")

	ids, err := s.store.Equipment().ListIDs(ctx)
	if err != nil {
		err = storeErr(err, "")
		logger.ExitMethodWithError(ctx, "equipmentService.ReconcileAll", err)
		return 0, err
	}

	changed := 0
	var errs []error
	for _, id := range ids {
		if ctx.Err() != nil {
			errs = append(errs, ctx.Err())
			break
		}
		var moved bool
		err := s.store.WithTx(ctx, func(tx repository.Store) error {
			var err error
			_, moved, err = reconcileEquipmentStatus(ctx, tx, id)
			return err
		})
		switch {
		case errors.Is(err, repository.ErrNotFound):
		case err != nil:
			logger.ErrorContext(ctx, "Failed to reconcile equipment status", "equipmentID", id, "error", err)
			errs = append(errs, fmt.Errorf("equipment %d: %w", id, err))
		case moved:
			changed++
		}
	}

	err = errors.Join(errs...)
	logger.ExitMethod(ctx, "equipmentService.ReconcileAll", "equipment", len(ids), "changed", changed, "failed", len(errs))
	return changed, err
}

func (s *equipmentService) CheckAvailability(ctx context.Context, id int64, date domain.Date, excludeReservationID int64) (*Availability, error) {
	if date.IsZero() {
		return nil, apperror.Validation("date is required")
	}
	if _, err := s.store.Equipment().GetByID(ctx, id); err != nil {
		return nil, storeErr(err, "Equipment not found")
	}
	held, err := checkEquipmentAvailability(ctx, s.store, id, date, excludeReservationID)
	if err != nil {
		return nil, storeErr(err, "")
	}
	return &Availability{EquipmentID: id, Date: date, Available: held == nil, Conflict: held}, nil
}
