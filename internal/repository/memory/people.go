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

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

type customerRepository struct{ s *Store }

func (r customerRepository) Create(ctx context.Context, c *domain.Customer) error {
	return r.s.do(func(st *state, now func() time.Time) error {
		c.ID = st.nextID()
		c.CreatedAt = now()
		c.UpdatedAt = c.CreatedAt
		st.customers[c.ID] = *c
		return nil
	})
}

func (r customerRepository) GetByID(ctx context.Context, id int64) (*domain.Customer, error) {
	var out domain.Customer
	err := r.s.do(func(st *state, _ func() time.Time) error {
		c, ok := st.customers[id]
		if !ok {
			return notFound("customer", id)
		}
		out = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r customerRepository) List(ctx context.Context, f repository.CustomerFilter) ([]domain.Customer, error) {
	out := []domain.Customer{}
	err := r.s.do(func(st *state, _ func() time.Time) error {
		for _, c := range st.customers {
			if f.Search != "" && !containsFold(c.Name, f.Search) && !containsFold(c.Company, f.Search) && !containsFold(c.ContactName, f.Search) {
				continue
			}
			out = append(out, c)
		}
		return nil
	})
	slices.SortFunc(out, func(a, b domain.Customer) int { return strings.Compare(a.Name, b.Name) })
	return out, err
}

func (r customerRepository) Update(ctx context.Context, c *domain.Customer) error {
	return r.s.do(func(st *state, now func() time.Time) error {
		cur, ok := st.customers[c.ID]
		if !ok {
			return fmt.Errorf("update customer: %w", repository.ErrNotFound)
		}
		c.CreatedAt = cur.CreatedAt
		c.UpdatedAt = now()
		st.customers[c.ID] = *c
		return nil
	})
}

func (r customerRepository) Delete(ctx context.Context, id int64) error {
	return r.s.do(func(st *state, _ func() time.Time) error {
		if _, ok := st.customers[id]; !ok {
			return fmt.Errorf("delete customer: %w", repository.ErrNotFound)
		}
		for _, o := range st.orders {
			if o.CustomerID == id {
				return fmt.Errorf("delete customer: %w", referenced("orders_customer_id_fkey"))
			}
		}
		delete(st.customers, id)
		return nil
	})
}

type employeeRepository struct{ s *Store }

func (r employeeRepository) Create(ctx context.Context, e *domain.Employee) error {
	return r.s.do(func(st *state, now func() time.Time) error {
		e.ID = st.nextID()
		e.CreatedAt = now()
		e.UpdatedAt = e.CreatedAt
		st.employees[e.ID] = *e
		return nil
	})
}

func (r employeeRepository) GetByID(ctx context.Context, id int64) (*domain.Employee, error) {
	var out domain.Employee
	err := r.s.do(func(st *state, _ func() time.Time) error {
		e, ok := st.employees[id]
		if !ok {
			return notFound("employee", id)
		}
		out = e
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r employeeRepository) List(ctx context.Context, f repository.EmployeeFilter) ([]domain.Employee, error) {
	out := []domain.Employee{}
	err := r.s.do(func(st *state, _ func() time.Time) error {
		for _, e := range st.employees {
			if f.Search != "" && !containsFold(e.Name, f.Search) && !containsFold(e.Skills, f.Search) {
				continue
			}
			if f.Status != "" && e.Status != f.Status {
				continue
			}
			out = append(out, e)
		}
		return nil
	})
	slices.SortFunc(out, func(a, b domain.Employee) int { return strings.Compare(a.Name, b.Name) })
	return out, err
}

func (r employeeRepository) Update(ctx context.Context, e *domain.Employee) error {
	return r.s.do(func(st *state, now func() time.Time) error {
		cur, ok := st.employees[e.ID]
		if !ok {
			return fmt.Errorf("update employee: %w", repository.ErrNotFound)
		}
		e.CreatedAt = cur.CreatedAt
		e.UpdatedAt = now()
		st.employees[e.ID] = *e
		return nil
	})
}

// Delete removes the employee with their schedule entries and order
// assignments.
func (r employeeRepository) Delete(ctx context.Context, id int64) error {
	return r.s.do(func(st *state, _ func() time.Time) error {
		if _, ok := st.employees[id]; !ok {
			return fmt.Errorf("delete employee: %w", repository.ErrNotFound)
		}
		delete(st.employees, id)
		for sid, s := range st.schedules {
			if s.EmployeeID == id {
				delete(st.schedules, sid)
			}
		}
		for wid, w := range st.workers {
			if w.EmployeeID == id {
				delete(st.workers, wid)
			}
		}
		return nil
	})
}
