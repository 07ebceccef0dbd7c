package service

import (
	"context"

	"eventrental-backend/internal/domain"
	"eventrental-backend/internal/repository"
)

type CustomerService interface {
	CreateCustomer(ctx context.Context, c *domain.Customer) (*domain.Customer, error)
	GetCustomer(ctx context.Context, id int64) (*domain.Customer, error)
	ListCustomers(ctx context.Context, f repository.CustomerFilter) ([]domain.Customer, error)
	UpdateCustomer(ctx context.Context, c *domain.Customer) (*domain.Customer, error)
	DeleteCustomer(ctx context.Context, id int64) error
}

type EmployeeService interface {
	CreateEmployee(ctx context.Context, e *domain.Employee) (*domain.Employee, error)
	GetEmployee(ctx context.Context, id int64) (*domain.Employee, error)
	ListEmployees(ctx context.Context, f repository.EmployeeFilter) ([]domain.Employee, error)
	UpdateEmployee(ctx context.Context, e *domain.Employee) (*domain.Employee, error)
	DeleteEmployee(ctx context.Context, id int64) error
}

type EquipmentService interface {
	CreateEquipment(ctx context.Context, e *domain.Equipment) (*domain.Equipment, error)
	GetEquipment(ctx context.Context, id int64) (*domain.Equipment, error)
	ListEquipment(ctx context.Context, f repository.EquipmentFilter) ([]domain.Equipment, error)
	// UpdateEquipment never changes status; see SetMaintenance and ReconcileStatus.
	UpdateEquipment(ctx context.Context, e *domain.Equipment) (*domain.Equipment, error)
	DeleteEquipment(ctx context.Context, id int64) error
	GetHistory(ctx context.Context, id int64) (*domain.EquipmentHistory, error)
	SetMaintenance(ctx context.Context, id int64, on bool) (*domain.Equipment, error)
	ReconcileStatus(ctx context.Context, id int64) (*domain.Equipment, error)
	ReconcileAll(ctx context.Context) (changed int, err error)
	CheckAvailability(ctx context.Context, id int64, date domain.Date, excludeReservationID int64) (*Availability, error)
}

type OrderService interface {
	CreateOrder(ctx context.Context, o *domain.Order) (*domain.Order, error)
	// GetOrder returns the order with its items.
	GetOrder(ctx context.Context, id int64) (*domain.Order, error)
	ListOrders(ctx context.Context, f repository.OrderFilter) ([]domain.Order, error)
	UpdateOrder(ctx context.Context, o *domain.Order) (*domain.Order, error)
	DeleteOrder(ctx context.Context, id int64) error
	RecalculateTotals(ctx context.Context, id int64) (*domain.Order, error)
	RecalculateAll(ctx context.Context) (changed int, err error)

	ListItems(ctx context.Context, orderID int64) ([]domain.OrderItem, error)
	// AddItem prices and stores the item and returns it with the re-totalled order.
	AddItem(ctx context.Context, item *domain.OrderItem) (*domain.OrderItem, *domain.Order, error)
	DeleteItem(ctx context.Context, orderID, itemID int64) (*domain.Order, error)

	ListWorkers(ctx context.Context, orderID int64) ([]domain.OrderWorker, error)
	AssignWorker(ctx context.Context, w *domain.OrderWorker) (*domain.OrderWorker, error)
	RemoveWorker(ctx context.Context, orderID, workerID int64) error
}

type ReservationService interface {
	ListReservations(ctx context.Context, f repository.ReservationFilter) ([]domain.Reservation, error)
	GetReservation(ctx context.Context, id int64) (*domain.Reservation, error)
	CreateReservation(ctx context.Context, r *domain.Reservation) (*domain.Reservation, error)
	UpdateReservation(ctx context.Context, id int64, patch ReservationPatch) (*domain.Reservation, error)
	DeleteReservation(ctx context.Context, id int64) error
}

type ScheduleService interface {
	ListSchedules(ctx context.Context, f repository.ScheduleFilter) ([]domain.EmployeeSchedule, error)
	GetSchedule(ctx context.Context, id int64) (*domain.EmployeeSchedule, error)
	CreateSchedule(ctx context.Context, s *domain.EmployeeSchedule) (*domain.EmployeeSchedule, error)
	UpdateSchedule(ctx context.Context, id int64, patch SchedulePatch) (*domain.EmployeeSchedule, error)
	DeleteSchedule(ctx context.Context, id int64) error
	CheckAvailability(ctx context.Context, employeeID int64, date domain.Date, excludeScheduleID int64) (*StaffAvailability, error)
}
