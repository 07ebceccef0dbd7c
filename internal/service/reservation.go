package service

import (
	"context"
	"errors"

	"eventrental-backend/internal/apperror"
	"eventrental-backend/internal/domain"
	"eventrental-backend/internal/logger"
	"eventrental-backend/internal/repository"
)

// ReservationPatch carries the fields of a reservation update. Nil fields keep
// their current value; an OrderID of 0 unlinks the order.
type ReservationPatch struct {
	EquipmentID    *int64                    `json:"equipment_id"`
	OrderID        *int64                    `json:"order_id"`
	CustomerName   *string                   `json:"customer_name"`
	EventDate      *domain.Date              `json:"event_date"`
	TimeOut        *string                   `json:"time_out"`
	TimeDueIn      *string                   `json:"time_due_in"`
	TimeReturned   *string                   `json:"time_returned"`
	ConditionNotes *string                   `json:"condition_notes"`
	Status         *domain.ReservationStatus `json:"status"`
}

func (p ReservationPatch) apply(r *domain.Reservation) {
	if p.EquipmentID != nil {
		r.EquipmentID = *p.EquipmentID
	}
	if p.OrderID != nil {
		r.OrderID = nil
		if *p.OrderID != 0 {
			id := *p.OrderID
			r.OrderID = &id
		}
	}
	setString(&r.CustomerName, p.CustomerName)
	if p.EventDate != nil {
		r.EventDate = *p.EventDate
	}
	setString(&r.TimeOut, p.TimeOut)
	setString(&r.TimeDueIn, p.TimeDueIn)
	setString(&r.TimeReturned, p.TimeReturned)
	setString(&r.ConditionNotes, p.ConditionNotes)
	if p.Status != nil {
		r.Status = *p.Status
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

type reservationService struct {
	store repository.Store
}

func NewReservationService(store repository.Store) ReservationService {
	return &reservationService{store: store}
}

func (s *reservationService) ListReservations(ctx context.Context, f repository.ReservationFilter) ([]domain.Reservation, error) {
	list, err := s.store.Reservations().List(ctx, f)
	if err != nil {
		return nil, storeErr(err, "")
	}
	return list, nil
}

func (s *reservationService) GetReservation(ctx context.Context, id int64) (*domain.Reservation, error) {
	r, err := s.store.Reservations().GetByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, "Reservation not found")
	}
	return r, nil
}

// CreateReservation books a unit for a date. An active booking is rejected
// when the unit is already held that day; on success the unit's status is
// re-derived in the same transaction.
func (s *reservationService) CreateReservation(ctx context.Context, r *domain.Reservation) (_ *domain.Reservation, err error) {
	logger.EnterMethod(ctx, "reservationService.CreateReservation", "equipmentID", r.EquipmentID, "eventDate", r.EventDate)
	defer func() { exit(ctx, "reservationService.CreateReservation", err, "equipmentID", r.EquipmentID) }()

	if r.EquipmentID == 0 || r.EventDate.IsZero() {
		return nil, apperror.Validation("Equipment and event date are required")
	}
	if r.ReservationDate.IsZero() {
		r.ReservationDate = domain.Today()
	}
	if r.Status == "" {
		r.Status = domain.ReservationStatusReserved
	}
	if !r.Status.Valid() {
		return nil, apperror.Validationf("invalid reservation status %q", r.Status)
	}

	var out *domain.Reservation
	err = s.store.WithTx(ctx, func(tx repository.Store) error {
		if err := s.checkRefs(ctx, tx, r); err != nil {
			return err
		}
		if r.Status.IsActive() {
			held, err := checkEquipmentAvailability(ctx, tx, r.EquipmentID, r.EventDate, 0)
			if err != nil {
				return err
			}
			if held != nil {
				return apperror.Conflict(msgEquipmentReserved, apperror.WithConflict(held))
			}
		}
		if err := tx.Reservations().Create(ctx, r); err != nil {
			return err
		}
		if err := reconcileEquipmentIDs(ctx, tx, r.EquipmentID); err != nil {
			return err
		}
		var err error
		out, err = tx.Reservations().GetByID(ctx, r.ID)
		return err
	})
	if err != nil {
		return nil, storeErr(err, "Reservation not found")
	}
	logger.InfoContext(ctx, "Reservation created", "reservationID", out.ID, "equipmentID", out.EquipmentID, "eventDate", out.EventDate)
	return out, nil
}

// UpdateReservation applies patch. Moving an active booking, or re-activating
// one, is checked against the ledger with the reservation itself excluded.
// Both the old and the new unit are reconciled.
func (s *reservationService) UpdateReservation(ctx context.Context, id int64, patch ReservationPatch) (_ *domain.Reservation, err error) {
	logger.EnterMethod(ctx, "reservationService.UpdateReservation", "reservationID", id)
	defer func() { exit(ctx, "reservationService.UpdateReservation", err, "reservationID", id) }()

	var out *domain.Reservation
	err = s.store.WithTx(ctx, func(tx repository.Store) error {
		cur, err := tx.Reservations().GetByID(ctx, id)
		if err != nil {
			return err
		}
		next := *cur
		patch.apply(&next)

		if next.EquipmentID == 0 || next.EventDate.IsZero() {
			return apperror.Validation("Equipment and event date are required")
		}
		if !next.Status.Valid() {
			return apperror.Validationf("invalid reservation status %q", next.Status)
		}
		if err := s.checkRefs(ctx, tx, &next); err != nil {
			return err
		}

		moved := next.EquipmentID != cur.EquipmentID || !next.EventDate.Equal(cur.EventDate)
		if next.Status.IsActive() && (moved || !cur.Status.IsActive()) {
			held, err := checkEquipmentAvailability(ctx, tx, next.EquipmentID, next.EventDate, id)
			if err != nil {
				return err
			}
			if held != nil {
				return apperror.Conflict(msgEquipmentReserved, apperror.WithConflict(held))
			}
		}

		if err := tx.Reservations().Update(ctx, &next); err != nil {
			return err
		}
		if err := reconcileEquipmentIDs(ctx, tx, cur.EquipmentID, next.EquipmentID); err != nil {
			return err
		}
		out, err = tx.Reservations().GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, storeErr(err, "Reservation not found")
	}
	return out, nil
}

func (s *reservationService) DeleteReservation(ctx context.Context, id int64) (err error) {
	logger.EnterMethod(ctx, "reservationService.DeleteReservation", "reservationID", id)
	defer func() { exit(ctx, "reservationService.DeleteReservation", err, "reservationID", id) }()

	err = s.store.WithTx(ctx, func(tx repository.Store) error {
		cur, err := tx.Reservations().GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := tx.Reservations().Delete(ctx, id); err != nil {
			return err
		}
		return reconcileEquipmentIDs(ctx, tx, cur.EquipmentID)
	})
	return storeErr(err, "Reservation not found")
}

func (s *reservationService) checkRefs(ctx context.Context, tx repository.Store, r *domain.Reservation) error {
	if _, err := tx.Equipment().GetByID(ctx, r.EquipmentID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperror.Validation("equipment does not exist", apperror.WithCause(err))
		}
		return err
	}
	if r.OrderID != nil {
		if _, err := tx.Orders().GetByID(ctx, *r.OrderID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return apperror.Validation("order does not exist", apperror.WithCause(err))
			}
			return err
		}
	}
	return nil
}
