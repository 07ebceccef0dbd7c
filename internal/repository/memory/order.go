package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"eventrental-backend/internal/domain"
	"eventrental-backend/internal/repository"
)

type orderRepository struct{ s *Store }

func (st *state) joinOrder(o domain.Order) domain.Order {
	if c, ok := st.customers[o.CustomerID]; ok {
		o.CustomerName = c.Name
		o.CustomerCompany = c.Company
	}
	return o
}

func (r orderRepository) Create(ctx context.Context, o *domain.Order) error {
	return r.s.do(func(st *state, now func() time.Time) error {
		if _, ok := st.customers[o.CustomerID]; !ok {
			return fmt.Errorf("create order: %w", referenced("orders_customer_id_fkey"))
		}
		for _, other := range st.orders {
			if other.OrderNumber == o.OrderNumber {
				return fmt.Errorf("create order: %w", duplicate(repository.ConstraintOrderNumber))
			}
		}
		o.ID = st.nextID()
		o.ApplyTotals(domain.OrderTotals{Sales: decimal.Zero, Rental: decimal.Zero, Operator: decimal.Zero, Total: decimal.Zero})
		o.CreatedAt = now()
		o.UpdatedAt = o.CreatedAt
		stored := *o
		stored.Items = nil
		stored.CustomerName, stored.CustomerCompany = "", ""
		st.orders[o.ID] = stored
		return nil
	})
}

func (r orderRepository) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	var out domain.Order
	err := r.s.do(func(st *state, _ func() time.Time) error {
		o, ok := st.orders[id]
		if !ok {
			return notFound("order", id)
		}
		out = st.joinOrder(o)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r orderRepository) List(ctx context.Context, f repository.OrderFilter) ([]domain.Order, error) {
	out := []domain.Order{}
	err := r.s.do(func(st *state, _ func() time.Time) error {
		for _, o := range st.orders {
			if f.Type != "" && o.Type != f.Type {
				continue
			}
			if f.Status != "" && o.Status != f.Status {
				continue
			}
			if f.CustomerID != 0 && o.CustomerID != f.CustomerID {
				continue
			}
			out = append(out, st.joinOrder(o))
		}
		return nil
	})
	slices.SortFunc(out, func(a, b domain.Order) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})
	return out, err
}

func (r orderRepository) Update(ctx context.Context, o *domain.Order) error {
	return r.s.do(func(st *state, now func() time.Time) error {
		cur, ok := st.orders[o.ID]
		if !ok {
			return fmt.Errorf("update order: %w", repository.ErrNotFound)
		}
		if _, ok := st.customers[o.CustomerID]; !ok {
			return fmt.Errorf("update order: %w", referenced("orders_customer_id_fkey"))
		}
		next := *o
		next.OrderNumber = cur.OrderNumber
		next.ApplyTotals(cur.Totals())
		next.CreatedAt = cur.CreatedAt
		next.UpdatedAt = now()
		next.Items = nil
		next.CustomerName, next.CustomerCompany = "", ""
		st.orders[o.ID] = next
		return nil
	})
}

func (r orderRepository) UpdateTotals(ctx context.Context, id int64, t domain.OrderTotals) error {
	return r.s.do(func(st *state, now func() time.Time) error {
		o, ok := st.orders[id]
		if !ok {
			return fmt.Errorf("update order totals: %w", repository.ErrNotFound)
		}
		o.ApplyTotals(t)
		o.UpdatedAt = now()
		st.orders[id] = o
		return nil
	})
}

// Delete cascades to items and worker assignments and clears the order link
// on reservations and schedules.
func (r orderRepository) Delete(ctx context.Context, id int64) error {
	return r.s.do(func(st *state, _ func() time.Time) error {
		if _, ok := st.orders[id]; !ok {
			return fmt.Errorf("delete order: %w", repository.ErrNotFound)
		}
		delete(st.orders, id)
		for iid, it := range st.items {
			if it.OrderID == id {
				delete(st.items, iid)
			}
		}
		for wid, w := range st.workers {
			if w.OrderID == id {
				delete(st.workers, wid)
			}
		}
		for rid, rs := range st.reservations {
			if rs.OrderID != nil && *rs.OrderID == id {
				rs.OrderID = nil
				st.reservations[rid] = rs
			}
		}
		for sid, s := range st.schedules {
			if s.OrderID != nil && *s.OrderID == id {
				s.OrderID = nil
				st.schedules[sid] = s
			}
		}
		return nil
	})
}

func (r orderRepository) ListIDs(ctx context.Context) ([]int64, error) {
	var ids []int64
	err := r.s.do(func(st *state, _ func() time.Time) error {
		for id := range st.orders {
			ids = append(ids, id)
		}
		return nil
	})
	slices.Sort(ids)
	return ids, err
}

type orderItemRepository struct{ s *Store }

func (st *state) joinItem(it domain.OrderItem) domain.OrderItem {
	if it.EquipmentID != nil {
		if e, ok := st.equipment[*it.EquipmentID]; ok {
			it.EquipmentName = e.Name
			it.EquipmentSerial = e.SerialNumber
		}
	}
	if o, ok := st.orders[it.OrderID]; ok {
		it.OrderNumber = o.OrderNumber
	}
	return it
}

func (r orderItemRepository) Create(ctx context.Context, it *domain.OrderItem) error {
	return r.s.do(func(st *state, now func() time.Time) error {
		if _, ok := st.orders[it.OrderID]; !ok {
			return fmt.Errorf("create order item: %w", referenced("order_items_order_id_fkey"))
		}
		if it.EquipmentID != nil {
			if _, ok := st.equipment[*it.EquipmentID]; !ok {
				return fmt.Errorf("create order item: %w", referenced("order_items_equipment_id_fkey"))
			}
		}
		it.ID = st.nextID()
		it.CreatedAt = now()
		st.items[it.ID] = *it
		return nil
	})
}

func (r orderItemRepository) Delete(ctx context.Context, orderID, itemID int64) error {
	return r.s.do(func(st *state, _ func() time.Time) error {
		it, ok := st.items[itemID]
		if !ok || it.OrderID != orderID {
			return fmt.Errorf("delete order item: %w", repository.ErrNotFound)
		}
		delete(st.items, itemID)
		return nil
	})
}

func (r orderItemRepository) ListByOrder(ctx context.Context, orderID int64) ([]domain.OrderItem, error) {
	out := []domain.OrderItem{}
	err := r.s.do(func(st *state, _ func() time.Time) error {
		for _, it := range st.items {
			if it.OrderID == orderID {
				it = st.joinItem(it)
				it.OrderNumber = ""
				out = append(out, it)
			}
		}
		return nil
	})
	slices.SortFunc(out, func(a, b domain.OrderItem) int { return cmp.Compare(a.ID, b.ID) })
	return out, err
}

func (r orderItemRepository) ListTotalsByOrder(ctx context.Context, orderID int64) ([]domain.ItemTotal, error) {
	items, err := r.ListByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	out := make([]domain.ItemTotal, 0, len(items))
	for _, it := range items {
		out = append(out, domain.ItemTotal{ItemType: it.ItemType, Total: it.Total.String()})
	}
	return out, nil
}

func (r orderItemRepository) ListByEquipment(ctx context.Context, equipmentID int64) ([]domain.OrderItem, error) {
	out := []domain.OrderItem{}
	err := r.s.do(func(st *state, _ func() time.Time) error {
		for _, it := range st.items {
			if it.EquipmentID != nil && *it.EquipmentID == equipmentID {
				out = append(out, st.joinItem(it))
			}
		}
		return nil
	})
	slices.SortFunc(out, func(a, b domain.OrderItem) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})
	return out, err
}

type orderWorkerRepository struct{ s *Store }

func (st *state) joinWorker(w domain.OrderWorker) domain.OrderWorker {
	if e, ok := st.employees[w.EmployeeID]; ok {
		w.EmployeeName = e.Name
		w.EmployeeRole = e.Role
		w.EmployeePhone = e.Phone
	}
	return w
}

func (r orderWorkerRepository) Create(ctx context.Context, w *domain.OrderWorker) error {
	return r.s.do(func(st *state, now func() time.Time) error {
		if _, ok := st.orders[w.OrderID]; !ok {
			return fmt.Errorf("create order worker: %w", referenced("order_workers_order_id_fkey"))
		}
		if _, ok := st.employees[w.EmployeeID]; !ok {
			return fmt.Errorf("create order worker: %w", referenced("order_workers_employee_id_fkey"))
		}
		for _, other := range st.workers {
			if other.OrderID == w.OrderID && other.EmployeeID == w.EmployeeID {
				return fmt.Errorf("create order worker: %w", duplicate(repository.ConstraintOrderWorker))
			}
		}
		w.ID = st.nextID()
		w.CreatedAt = now()
		st.workers[w.ID] = *w
		return nil
	})
}

func (r orderWorkerRepository) GetByOrderAndEmployee(ctx context.Context, orderID, employeeID int64) (*domain.OrderWorker, error) {
	var out *domain.OrderWorker
	err := r.s.do(func(st *state, _ func() time.Time) error {
		for _, w := range st.workers {
			if w.OrderID == orderID && w.EmployeeID == employeeID {
				joined := st.joinWorker(w)
				out = &joined
				return nil
			}
		}
		return fmt.Errorf("get order worker: %w", repository.ErrNotFound)
	})
	return out, err
}

func (r orderWorkerRepository) Delete(ctx context.Context, orderID, workerID int64) error {
	return r.s.do(func(st *state, _ func() time.Time) error {
		w, ok := st.workers[workerID]
		if !ok || w.OrderID != orderID {
			return fmt.Errorf("delete order worker: %w", repository.ErrNotFound)
		}
		delete(st.workers, workerID)
		return nil
	})
}

func (r orderWorkerRepository) ListByOrder(ctx context.Context, orderID int64) ([]domain.OrderWorker, error) {
	out := []domain.OrderWorker{}
	err := r.s.do(func(st *state, _ func() time.Time) error {
		for _, w := range st.workers {
			if w.OrderID == orderID {
				out = append(out, st.joinWorker(w))
			}
		}
		return nil
	})
	slices.SortFunc(out, func(a, b domain.OrderWorker) int {
		if c := strings.Compare(a.EmployeeName, b.EmployeeName); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out, err
}
