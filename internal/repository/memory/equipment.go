package memory

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"eventrental-backend/internal/domain"
	"eventrental-backend/internal/repository"
)

type equipmentRepository struct{ s *Store }

func (st *state) serialTaken(serial string, exceptID int64) bool {
	if serial == "" {
		return false
	}
	for id, e := range st.equipment {
		if id != exceptID && e.SerialNumber == serial {
			return true
		}
	}
	return false
}

func (r equipmentRepository) Create(ctx context.Context, e *domain.Equipment) error {
	return r.s.do(func(st *state, now func() time.Time) error {
		if st.serialTaken(e.SerialNumber, 0) {
			return fmt.Errorf("create equipment: %w", duplicate(repository.ConstraintEquipmentSerial))
		}
		e.ID = st.nextID()
		e.CreatedAt = now()
		e.UpdatedAt = e.CreatedAt
		st.equipment[e.ID] = *e
		return nil
	})
}

func (r equipmentRepository) GetByID(ctx context.Context, id int64) (*domain.Equipment, error) {
	var out domain.Equipment
	err := r.s.do(func(st *state, _ func() time.Time) error {
		e, ok := st.equipment[id]
		if !ok {
			return notFound("equipment", id)
		}
		out = e
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r equipmentRepository) List(ctx context.Context, f repository.EquipmentFilter) ([]domain.Equipment, error) {
	out := []domain.Equipment{}
	err := r.s.do(func(st *state, _ func() time.Time) error {
		for _, e := range st.equipment {
			if f.Category != "" && e.Category != f.Category {
				continue
			}
			if f.Status != "" && e.Status != f.Status {
				continue
			}
			if f.Search != "" && !containsFold(e.Name, f.Search) && !containsFold(e.SerialNumber, f.Search) && !containsFold(e.Description, f.Search) {
				continue
			}
			out = append(out, e)
		}
		return nil
	})
	slices.SortFunc(out, func(a, b domain.Equipment) int { return strings.Compare(a.Name, b.Name) })
	return out, err
}

func (r equipmentRepository) Update(ctx context.Context, e *domain.Equipment) error {
	return r.s.do(func(st *state, now func() time.Time) error {
		cur, ok := st.equipment[e.ID]
		if !ok {
			return fmt.Errorf("update equipment: %w", repository.ErrNotFound)
		}
		if st.serialTaken(e.SerialNumber, e.ID) {
			return fmt.Errorf("update equipment: %w", duplicate(repository.ConstraintEquipmentSerial))
		}
		e.Status = cur.Status
		e.CreatedAt = cur.CreatedAt
		e.UpdatedAt = now()
		st.equipment[e.ID] = *e
		return nil
	})
}

func (r equipmentRepository) UpdateStatus(ctx context.Context, id int64, status domain.EquipmentStatus) error {
	return r.s.do(func(st *state, now func() time.Time) error {
		e, ok := st.equipment[id]
		if !ok {
			return fmt.Errorf("update equipment status: %w", repository.ErrNotFound)
		}
		e.Status = status
		e.UpdatedAt = now()
		st.equipment[id] = e
		return nil
	})
}

// Delete removes the unit and its reservations; order lines keep their
// history with the equipment link cleared.
func (r equipmentRepository) Delete(ctx context.Context, id int64) error {
	return r.s.do(func(st *state, _ func() time.Time) error {
		if _, ok := st.equipment[id]; !ok {
			return fmt.Errorf("delete equipment: %w", repository.ErrNotFound)
		}
		delete(st.equipment, id)
		for rid, rs := range st.reservations {
			if rs.EquipmentID == id {
				delete(st.reservations, rid)
			}
		}
		for iid, it := range st.items {
			if it.EquipmentID != nil && *it.EquipmentID == id {
				it.EquipmentID = nil
				st.items[iid] = it
			}
		}
		return nil
	})
}

func (r equipmentRepository) ListIDs(ctx context.Context) ([]int64, error) {
	var ids []int64
	err := r.s.do(func(st *state, _ func() time.Time) error {
		for id := range st.equipment {
			ids = append(ids, id)
		}
		return nil
	})
	slices.Sort(ids)
	return ids, err
}
