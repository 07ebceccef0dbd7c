package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	"eventrental-backend/internal/domain"
	"eventrental-backend/internal/repository"
)

type reservationRepository struct{ s *Store }

func (st *state) joinReservation(rs domain.Reservation) domain.Reservation {
	if e, ok := st.equipment[rs.EquipmentID]; ok {
		rs.EquipmentName = e.Name
		rs.EquipmentSerial = e.SerialNumber
	}
	rs.OrderNumber = ""
	if rs.OrderID != nil {
		if o, ok := st.orders[*rs.OrderID]; ok {
			rs.OrderNumber = o.OrderNumber
		}
	}
	return rs
}

func (st *state) activeReservation(equipmentID int64, date domain.Date, excludeID int64) (domain.Reservation, bool) {
	var found domain.Reservation
	ok := false
	for _, rs := range st.reservations {
		if rs.EquipmentID != equipmentID || !rs.EventDate.Equal(date) || !rs.Status.IsActive() || rs.ID == excludeID {
			continue
		}
		if !ok || rs.ID < found.ID {
			found, ok = rs, true
		}
	}
	return found, ok
}

func (st *state) checkReservation(rs *domain.Reservation) error {
	if _, ok := st.equipment[rs.EquipmentID]; !ok {
		return referenced("reservations_equipment_id_fkey")
	}
	if rs.OrderID != nil {
		if _, ok := st.orders[*rs.OrderID]; !ok {
			return referenced("reservations_order_id_fkey")
		}
	}
	if rs.Status.IsActive() {
		if _, taken := st.activeReservation(rs.EquipmentID, rs.EventDate, rs.ID); taken {
			return duplicate(repository.ConstraintReservationActive)
		}
	}
	return nil
}

func (r reservationRepository) Create(ctx context.Context, rs *domain.Reservation) error {
	return r.s.do(func(st *state, now func() time.Time) error {
		if err := st.checkReservation(rs); err != nil {
			return fmt.Errorf("create reservation: %w", err)
		}
		rs.ID = st.nextID()
		rs.CreatedAt = now()
		rs.UpdatedAt = rs.CreatedAt
		st.reservations[rs.ID] = *rs
		return nil
	})
}

func (r reservationRepository) GetByID(ctx context.Context, id int64) (*domain.Reservation, error) {
	var out domain.Reservation
	err := r.s.do(func(st *state, _ func() time.Time) error {
		rs, ok := st.reservations[id]
		if !ok {
			return notFound("reservation", id)
		}
		out = st.joinReservation(rs)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r reservationRepository) Update(ctx context.Context, rs *domain.Reservation) error {
	return r.s.do(func(st *state, now func() time.Time) error {
		cur, ok := st.reservations[rs.ID]
		if !ok {
			return fmt.Errorf("update reservation: %w", repository.ErrNotFound)
		}
		if err := st.checkReservation(rs); err != nil {
			return fmt.Errorf("update reservation: %w", err)
		}
		rs.CreatedAt = cur.CreatedAt
		rs.UpdatedAt = now()
		st.reservations[rs.ID] = *rs
		return nil
	})
}

func (r reservationRepository) Delete(ctx context.Context, id int64) error {
	return r.s.do(func(st *state, _ func() time.Time) error {
		if _, ok := st.reservations[id]; !ok {
			return fmt.Errorf("delete reservation: %w", repository.ErrNotFound)
		}
		delete(st.reservations, id)
		return nil
	})
}

func (r reservationRepository) List(ctx context.Context, f repository.ReservationFilter) ([]domain.Reservation, error) {
	out := r.filter(func(rs domain.Reservation) bool {
		if !f.Start.IsZero() && rs.EventDate.Before(f.Start) {
			return false
		}
		if !f.End.IsZero() && rs.EventDate.After(f.End) {
			return false
		}
		return f.EquipmentID == 0 || rs.EquipmentID == f.EquipmentID
	})
	slices.SortFunc(out, func(a, b domain.Reservation) int {
		if c := a.EventDate.Time().Compare(b.EventDate.Time()); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out, nil
}

func (r reservationRepository) FindActiveOnDate(ctx context.Context, equipmentID int64, date domain.Date, excludeID int64) (*domain.Reservation, error) {
	var out *domain.Reservation
	err := r.s.do(func(st *state, _ func() time.Time) error {
		if rs, ok := st.activeReservation(equipmentID, date, excludeID); ok {
			joined := st.joinReservation(rs)
			out = &joined
		}
		return nil
	})
	return out, err
}

func (r reservationRepository) ListActiveByEquipment(ctx context.Context, equipmentID int64) ([]domain.Reservation, error) {
	out := r.filter(func(rs domain.Reservation) bool {
		return rs.EquipmentID == equipmentID && rs.Status.IsActive()
	})
	slices.SortFunc(out, func(a, b domain.Reservation) int {
		if c := b.UpdatedAt.Compare(a.UpdatedAt); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})
	return out, nil
}

func (r reservationRepository) ListByEquipment(ctx context.Context, equipmentID int64) ([]domain.Reservation, error) {
	out := r.filter(func(rs domain.Reservation) bool { return rs.EquipmentID == equipmentID })
	slices.SortFunc(out, func(a, b domain.Reservation) int {
		if c := b.EventDate.Time().Compare(a.EventDate.Time()); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})
	return out, nil
}

func (r reservationRepository) filter(keep func(domain.Reservation) bool) []domain.Reservation {
	out := []domain.Reservation{}
	_ = r.s.do(func(st *state, _ func() time.Time) error {
		for _, rs := range st.reservations {
			if keep(rs) {
				out = append(out, st.joinReservation(rs))
			}
		}
		return nil
	})
	return out
}

type scheduleRepository struct{ s *Store }

func (st *state) joinSchedule(s domain.EmployeeSchedule) domain.EmployeeSchedule {
	if e, ok := st.employees[s.EmployeeID]; ok {
		s.EmployeeName = e.Name
		s.EmployeeRole = e.Role
	}
	s.OrderNumber, s.CustomerName = "", ""
	if s.OrderID != nil {
		if o, ok := st.orders[*s.OrderID]; ok {
			s.OrderNumber = o.OrderNumber
			if c, ok := st.customers[o.CustomerID]; ok {
				s.CustomerName = c.Name
			}
		}
	}
	return s
}

func (st *state) activeSchedule(employeeID int64, date domain.Date, excludeID int64) (domain.EmployeeSchedule, bool) {
	var found domain.EmployeeSchedule
	ok := false
	for _, s := range st.schedules {
		if s.EmployeeID != employeeID || !s.ScheduleDate.Equal(date) || !s.Status.Blocks() || s.ID == excludeID {
			continue
		}
		if !ok || s.ID < found.ID {
			found, ok = s, true
		}
	}
	return found, ok
}

func (st *state) checkSchedule(s *domain.EmployeeSchedule) error {
	if _, ok := st.employees[s.EmployeeID]; !ok {
		return referenced("employee_schedules_employee_id_fkey")
	}
	if s.OrderID != nil {
		if _, ok := st.orders[*s.OrderID]; !ok {
			return referenced("employee_schedules_order_id_fkey")
		}
	}
	if s.Status.Blocks() {
		if _, taken := st.activeSchedule(s.EmployeeID, s.ScheduleDate, s.ID); taken {
			return duplicate(repository.ConstraintScheduleActive)
		}
	}
	return nil
}

func (r scheduleRepository) Create(ctx context.Context, s *domain.EmployeeSchedule) error {
	return r.s.do(func(st *state, now func() time.Time) error {
		if err := st.checkSchedule(s); err != nil {
			return fmt.Errorf("create schedule: %w", err)
		}
		s.ID = st.nextID()
		s.CreatedAt = now()
		s.UpdatedAt = s.CreatedAt
		st.schedules[s.ID] = *s
		return nil
	})
}

func (r scheduleRepository) GetByID(ctx context.Context, id int64) (*domain.EmployeeSchedule, error) {
	var out domain.EmployeeSchedule
	err := r.s.do(func(st *state, _ func() time.Time) error {
		s, ok := st.schedules[id]
		if !ok {
			return notFound("schedule", id)
		}
		out = st.joinSchedule(s)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r scheduleRepository) Update(ctx context.Context, s *domain.EmployeeSchedule) error {
	return r.s.do(func(st *state, now func() time.Time) error {
		cur, ok := st.schedules[s.ID]
		if !ok {
			return fmt.Errorf("update schedule: %w", repository.ErrNotFound)
		}
		if err := st.checkSchedule(s); err != nil {
			return fmt.Errorf("update schedule: %w", err)
		}
		s.CreatedAt = cur.CreatedAt
		s.UpdatedAt = now()
		st.schedules[s.ID] = *s
		return nil
	})
}

func (r scheduleRepository) Delete(ctx context.Context, id int64) error {
	return r.s.do(func(st *state, _ func() time.Time) error {
		if _, ok := st.schedules[id]; !ok {
			return fmt.Errorf("delete schedule: %w", repository.ErrNotFound)
		}
		delete(st.schedules, id)
		return nil
	})
}

func (r scheduleRepository) List(ctx context.Context, f repository.ScheduleFilter) ([]domain.EmployeeSchedule, error) {
	out := []domain.EmployeeSchedule{}
	err := r.s.do(func(st *state, _ func() time.Time) error {
		for _, s := range st.schedules {
			if f.EmployeeID != 0 && s.EmployeeID != f.EmployeeID {
				continue
			}
			if !f.Start.IsZero() && s.ScheduleDate.Before(f.Start) {
				continue
			}
			if !f.End.IsZero() && s.ScheduleDate.After(f.End) {
				continue
			}
			if f.Status != "" && s.Status != f.Status {
				continue
			}
			out = append(out, st.joinSchedule(s))
		}
		return nil
	})
	slices.SortFunc(out, func(a, b domain.EmployeeSchedule) int {
		if c := a.ScheduleDate.Time().Compare(b.ScheduleDate.Time()); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out, err
}

func (r scheduleRepository) FindActiveOnDate(ctx context.Context, employeeID int64, date domain.Date, excludeID int64) (*domain.EmployeeSchedule, error) {
	var out *domain.EmployeeSchedule
	err := r.s.do(func(st *state, _ func() time.Time) error {
		if s, ok := st.activeSchedule(employeeID, date, excludeID); ok {
			joined := st.joinSchedule(s)
			out = &joined
		}
		return nil
	})
	return out, err
}
