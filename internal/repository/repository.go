package repository

import (
	"context"
	"errors"

	"eventrental-backend/internal/domain"
)

var (
	// ErrNotFound is returned when a keyed lookup matches no row.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a write violates a uniqueness rule.
	ErrDuplicate = errors.New("duplicate record")
	// ErrReferenced is returned when a write names a missing parent row or a
	// delete would orphan a child row.
	ErrReferenced = errors.New("referenced record missing or in use")
	// ErrInvalidValue is returned when the database rejects a value as out of
	// range or malformed for its column.
	ErrInvalidValue = errors.New("invalid value")
)

// Constraint names surfaced with ErrDuplicate.
const (
	ConstraintReservationActive = "reservations_active_equipment_date_key"
	ConstraintScheduleActive    = "employee_schedules_active_employee_date_key"
	ConstraintEquipmentSerial   = "equipment_serial_number_key"
	ConstraintOrderNumber       = "orders_order_number_key"
	ConstraintOrderWorker       = "order_workers_order_employee_key"
)

// ConstraintError names the rule a write broke. It unwraps to ErrDuplicate or
// ErrReferenced.
type ConstraintError struct {
	Constraint string
	Err        error
}

func (e *ConstraintError) Error() string {
	if e.Constraint == "" {
		return e.Err.Error()
	}
	return e.Err.Error() + " (" + e.Constraint + ")"
}

func (e *ConstraintError) Unwrap() error { return e.Err }

// IsConstraint reports whether err is a violation of the named constraint.
func IsConstraint(err error, constraint string) bool {
	var ce *ConstraintError
	return errors.As(err, &ce) && ce.Constraint == constraint
}

type CustomerFilter struct {
	Search string
}

type EmployeeFilter struct {
	Search string
	Status string
}

type EquipmentFilter struct {
	Category domain.EquipmentCategory
	Status   domain.EquipmentStatus
	Search   string
}

type OrderFilter struct {
	Type       domain.OrderType
	Status     domain.OrderStatus
	CustomerID int64
}

type ReservationFilter struct {
	Start       domain.Date
	End         domain.Date
	EquipmentID int64
}

type ScheduleFilter struct {
	EmployeeID int64
	Start      domain.Date
	End        domain.Date
	Status     domain.ScheduleStatus
}

type CustomerRepository interface {
	Create(ctx context.Context, c *domain.Customer) error
	GetByID(ctx context.Context, id int64) (*domain.Customer, error)
	List(ctx context.Context, f CustomerFilter) ([]domain.Customer, error)
	Update(ctx context.Context, c *domain.Customer) error
	Delete(ctx context.Context, id int64) error
}

type EmployeeRepository interface {
	Create(ctx context.Context, e *domain.Employee) error
	GetByID(ctx context.Context, id int64) (*domain.Employee, error)
	List(ctx context.Context, f EmployeeFilter) ([]domain.Employee, error)
	Update(ctx context.Context, e *domain.Employee) error
	Delete(ctx context.Context, id int64) error
}

type EquipmentRepository interface {
	Create(ctx context.Context, e *domain.Equipment) error
	GetByID(ctx context.Context, id int64) (*domain.Equipment, error)
	List(ctx context.Context, f EquipmentFilter) ([]domain.Equipment, error)
	// Update writes every column except status.
	Update(ctx context.Context, e *domain.Equipment) error
	UpdateStatus(ctx context.Context, id int64, status domain.EquipmentStatus) error
	Delete(ctx context.Context, id int64) error
	ListIDs(ctx context.Context) ([]int64, error)
}

type OrderRepository interface {
	Create(ctx context.Context, o *domain.Order) error
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
	List(ctx context.Context, f OrderFilter) ([]domain.Order, error)
	// Update writes header fields only; totals are left untouched.
	Update(ctx context.Context, o *domain.Order) error
	UpdateTotals(ctx context.Context, id int64, t domain.OrderTotals) error
	Delete(ctx context.Context, id int64) error
	ListIDs(ctx context.Context) ([]int64, error)
}

type OrderItemRepository interface {
	Create(ctx context.Context, item *domain.OrderItem) error
	Delete(ctx context.Context, orderID, itemID int64) error
	ListByOrder(ctx context.Context, orderID int64) ([]domain.OrderItem, error)
	ListTotalsByOrder(ctx context.Context, orderID int64) ([]domain.ItemTotal, error)
	ListByEquipment(ctx context.Context, equipmentID int64) ([]domain.OrderItem, error)
}

type OrderWorkerRepository interface {
	Create(ctx context.Context, w *domain.OrderWorker) error
	GetByOrderAndEmployee(ctx context.Context, orderID, employeeID int64) (*domain.OrderWorker, error)
	Delete(ctx context.Context, orderID, workerID int64) error
	ListByOrder(ctx context.Context, orderID int64) ([]domain.OrderWorker, error)
}

type ReservationRepository interface {
	Create(ctx context.Context, r *domain.Reservation) error
	GetByID(ctx context.Context, id int64) (*domain.Reservation, error)
	Update(ctx context.Context, r *domain.Reservation) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, f ReservationFilter) ([]domain.Reservation, error)
	// FindActiveOnDate returns the reserved/out reservation holding the
	// equipment on date, ignoring excludeID (0 excludes nothing). It returns
	// nil, nil when the slot is free.
	FindActiveOnDate(ctx context.Context, equipmentID int64, date domain.Date, excludeID int64) (*domain.Reservation, error)
	ListActiveByEquipment(ctx context.Context, equipmentID int64) ([]domain.Reservation, error)
	ListByEquipment(ctx context.Context, equipmentID int64) ([]domain.Reservation, error)
}

type ScheduleRepository interface {
	Create(ctx context.Context, s *domain.EmployeeSchedule) error
	GetByID(ctx context.Context, id int64) (*domain.EmployeeSchedule, error)
	Update(ctx context.Context, s *domain.EmployeeSchedule) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, f ScheduleFilter) ([]domain.EmployeeSchedule, error)
	// FindActiveOnDate returns the non-cancelled entry occupying the
	// employee's day, ignoring excludeID. It returns nil, nil when free.
	FindActiveOnDate(ctx context.Context, employeeID int64, date domain.Date, excludeID int64) (*domain.EmployeeSchedule, error)
}

// Store groups the repositories that share one connection or transaction.
type Store interface {
	Customers() CustomerRepository
	Employees() EmployeeRepository
	Equipment() EquipmentRepository
	Orders() OrderRepository
	OrderItems() OrderItemRepository
	OrderWorkers() OrderWorkerRepository
	Reservations() ReservationRepository
	Schedules() ScheduleRepository

	// WithTx runs fn against a Store bound to one serializable transaction.
	// The transaction commits when fn returns nil and rolls back otherwise.
	// Calls nested inside fn join the outer transaction.
	WithTx(ctx context.Context, fn func(Store) error) error

	Ping(ctx context.Context) error
}
