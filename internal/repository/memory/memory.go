// Package memory is an in-process repository.Store for local runs and tests.
// It enforces the same uniqueness, reference and cascade rules as the
// PostgreSQL schema.
package memory

import (
	"context"
	"fmt"
	"maps"
	"sync"
	"time"

	"eventrental-backend/internal/domain"
	"eventrental-backend/internal/repository"
)

type state struct {
	seq          int64
	customers    map[int64]domain.Customer
	employees    map[int64]domain.Employee
	equipment    map[int64]domain.Equipment
	orders       map[int64]domain.Order
	items        map[int64]domain.OrderItem
	workers      map[int64]domain.OrderWorker
	reservations map[int64]domain.Reservation
	schedules    map[int64]domain.EmployeeSchedule
}

func newState() *state {
	return &state{
		customers:    map[int64]domain.Customer{},
		employees:    map[int64]domain.Employee{},
		equipment:    map[int64]domain.Equipment{},
		orders:       map[int64]domain.Order{},
		items:        map[int64]domain.OrderItem{},
		workers:      map[int64]domain.OrderWorker{},
		reservations: map[int64]domain.Reservation{},
		schedules:    map[int64]domain.EmployeeSchedule{},
	}
}

func (st *state) clone() *state {
	return &state{
		seq:          st.seq,
		customers:    maps.Clone(st.customers),
		employees:    maps.Clone(st.employees),
		equipment:    maps.Clone(st.equipment),
		orders:       maps.Clone(st.orders),
		items:        maps.Clone(st.items),
		workers:      maps.Clone(st.workers),
		reservations: maps.Clone(st.reservations),
		schedules:    maps.Clone(st.schedules),
	}
}

func (st *state) nextID() int64 {
	st.seq++
	return st.seq
}

type backend struct {
	mu    sync.Mutex
	state *state
	last  time.Time
}

// now returns a strictly increasing UTC timestamp so updated_at orders writes.
func (b *backend) now() time.Time {
	t := time.Now().UTC()
	if !t.After(b.last) {
		t = b.last.Add(time.Microsecond)
	}
	b.last = t
	return t
}

// Store implements repository.Store. A Store returned inside WithTx works on a
// private copy of the data that is published on commit.
type Store struct {
	b  *backend
	tx *state
}

func NewStore() *Store {
	return &Store{b: &backend{state: newState()}}
}

var _ repository.Store = (*Store)(nil)

// do runs fn against the live state, or the transaction's copy.
func (s *Store) do(fn func(st *state, now func() time.Time) error) error {
	if s.tx != nil {
		return fn(s.tx, s.b.now)
	}
	s.b.mu.Lock()
	defer s.b.mu.Unlock()
	return fn(s.b.state, s.b.now)
}

func (s *Store) WithTx(ctx context.Context, fn func(repository.Store) error) error {
	if s.tx != nil {
		return fn(s)
	}
	s.b.mu.Lock()
	defer s.b.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	tx := s.b.state.clone()
	if err := fn(&Store{b: s.b, tx: tx}); err != nil {
		return err
	}
	s.b.state = tx
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (s *Store) Customers() repository.CustomerRepository       { return customerRepository{s} }
func (s *Store) Employees() repository.EmployeeRepository       { return employeeRepository{s} }
func (s *Store) Equipment() repository.EquipmentRepository      { return equipmentRepository{s} }
func (s *Store) Orders() repository.OrderRepository             { return orderRepository{s} }
func (s *Store) OrderItems() repository.OrderItemRepository     { return orderItemRepository{s} }
func (s *Store) OrderWorkers() repository.OrderWorkerRepository { return orderWorkerRepository{s} }
func (s *Store) Reservations() repository.ReservationRepository { return reservationRepository{s} }
func (s *Store) Schedules() repository.ScheduleRepository       { return scheduleRepository{s} }

func notFound(what string, id int64) error {
	return fmt.Errorf("get %s %d: %w", what, id, repository.ErrNotFound)
}

func duplicate(constraint string) error {
	return &repository.ConstraintError{Constraint: constraint, Err: repository.ErrDuplicate}
}

func referenced(constraint string) error {
	return &repository.ConstraintError{Constraint: constraint, Err: repository.ErrReferenced}
}
