package service_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"eventrental-backend/internal/apperror"
	"eventrental-backend/internal/domain"
	"eventrental-backend/internal/repository"
	"eventrental-backend/internal/repository/memory"
)

type fixture struct {
	store     *memory.Store
	customer  *domain.Customer
	equipment *domain.Equipment
	employee  *domain.Employee
	order     *domain.Order
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	s := memory.NewStore()

	c := &domain.Customer{Name: "Acme Events"}
	require.NoError(t, s.Customers().Create(ctx, c))
	eq := &domain.Equipment{Name: "Line array", SerialNumber: "LA-001", Category: domain.EquipmentCategoryAudio, Status: domain.EquipmentStatusAvailable}
	require.NoError(t, s.Equipment().Create(ctx, eq))
	emp := &domain.Employee{Name: "Dana Reyes", Role: domain.EmployeeRoleContract, Status: domain.EmployeeStatusActive}
	require.NoError(t, s.Employees().Create(ctx, emp))
	o := &domain.Order{CustomerID: c.ID, OrderNumber: "ORD-2507-0001", Type: domain.OrderTypeOrder, Status: domain.OrderStatusDraft}
	require.NoError(t, s.Orders().Create(ctx, o))

	return &fixture{store: s, customer: c, equipment: eq, employee: emp, order: o}
}

// createConcurrently runs create n times at once and counts the outcomes.
func createConcurrently(n int, create func() error) (ok, conflicts int, others []error) {
	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	start := make(chan struct{})
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			err := create()
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case apperror.IsKind(err, apperror.KindConflict):
				conflicts++
			default:
				others = append(others, err)
			}
		}()
	}
	close(start)
	wg.Wait()
	return ok, conflicts, others
}

func (f *fixture) equipmentStatus(t *testing.T, id int64) domain.EquipmentStatus {
	t.Helper()
	eq, err := f.store.Equipment().GetByID(context.Background(), id)
	require.NoError(t, err)
	return eq.Status
}

// mockReservationRepo lets a test take over single reservation queries while
// the rest of the repository keeps its in-memory behavior.
type mockReservationRepo struct {
	mock.Mock
	repository.ReservationRepository
}

func (m *mockReservationRepo) FindActiveOnDate(ctx context.Context, equipmentID int64, date domain.Date, excludeID int64) (*domain.Reservation, error) {
	args := m.Called(ctx, equipmentID, date, excludeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}

type mockScheduleRepo struct {
	mock.Mock
	repository.ScheduleRepository
}

func (m *mockScheduleRepo) FindActiveOnDate(ctx context.Context, employeeID int64, date domain.Date, excludeID int64) (*domain.EmployeeSchedule, error) {
	args := m.Called(ctx, employeeID, date, excludeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EmployeeSchedule), args.Error(1)
}

type mockItemRepo struct {
	mock.Mock
	repository.OrderItemRepository
}

func (m *mockItemRepo) ListTotalsByOrder(ctx context.Context, orderID int64) ([]domain.ItemTotal, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ItemTotal), args.Error(1)
}

// stubStore swaps individual repositories of a real store, including inside
// its transactions.
type stubStore struct {
	repository.Store
	reservations *mockReservationRepo
	schedules    *mockScheduleRepo
	items        *mockItemRepo
}

func (s *stubStore) Reservations() repository.ReservationRepository {
	if s.reservations == nil {
		return s.Store.Reservations()
	}
	s.reservations.ReservationRepository = s.Store.Reservations()
	return s.reservations
}

func (s *stubStore) Schedules() repository.ScheduleRepository {
	if s.schedules == nil {
		return s.Store.Schedules()
	}
	s.schedules.ScheduleRepository = s.Store.Schedules()
	return s.schedules
}

func (s *stubStore) OrderItems() repository.OrderItemRepository {
	if s.items == nil {
		return s.Store.OrderItems()
	}
	s.items.OrderItemRepository = s.Store.OrderItems()
	return s.items
}

func (s *stubStore) WithTx(ctx context.Context, fn func(repository.Store) error) error {
	return s.Store.WithTx(ctx, func(tx repository.Store) error {
		return fn(&stubStore{Store: tx, reservations: s.reservations, schedules: s.schedules, items: s.items})
	})
}
