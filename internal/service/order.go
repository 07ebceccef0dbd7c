package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"eventrental-backend/internal/apperror"
	"eventrental-backend/internal/domain"
	"eventrental-backend/internal/logger"
	"eventrental-backend/internal/repository"
	"eventrental-backend/internal/utils"
)

type orderService struct {
	store   repository.Store
	numbers OrderNumberGenerator
	now     func() time.Time
}

func NewOrderService(store repository.Store, numbers OrderNumberGenerator) OrderService {
	if numbers == nil {
		numbers = NewOrderNumberGenerator()
	}
	return &orderService{store: store, numbers: numbers, now: time.Now}
}

func (s *orderService) CreateOrder(ctx context.Context, o *domain.Order) (_ *domain.Order, err error) {
	logger.EnterMethod(ctx, "orderService.CreateOrder", "customerID", o.CustomerID)
	defer func() { exit(ctx, "orderService.CreateOrder", err) }()

	if o.CustomerID == 0 {
		return nil, apperror.Validation("customer_id is required")
	}
	if o.Type == "" {
		o.Type = domain.OrderTypeProposal
	}
	if o.Status == "" {
		o.Status = domain.OrderStatusDraft
	}
	if err := validateOrderHeader(o); err != nil {
		return nil, err
	}

	generated := o.OrderNumber == ""
	var created *domain.Order
	for attempt := 1; ; attempt++ {
		if generated {
			o.OrderNumber = s.numbers.Next(s.now())
		}
		err = s.store.WithTx(ctx, func(tx repository.Store) error {
			if _, err := tx.Customers().GetByID(ctx, o.CustomerID); err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					return apperror.Validation("customer does not exist", apperror.WithCause(err))
				}
				return err
			}
			if err := tx.Orders().Create(ctx, o); err != nil {
				return err
			}
			created, err = tx.Orders().GetByID(ctx, o.ID)
			return err
		})
		if generated && attempt < orderNumberAttempts && repository.IsConstraint(err, repository.ConstraintOrderNumber) {
			logger.WarnContext(ctx, "Order number clash, regenerating", "orderNumber", o.OrderNumber, "attempt", attempt)
			continue
		}
		break
	}
	if err != nil {
		return nil, storeErr(err, "Order not found")
	}
	logger.InfoContext(ctx, "Order created", "orderID", created.ID, "orderNumber", created.OrderNumber)
	return created, nil
}

func validateOrderHeader(o *domain.Order) error {
	if !o.Type.Valid() {
		return apperror.Validationf("invalid order type %q", o.Type)
	}
	if !o.Status.Valid() {
		return apperror.Validationf("invalid order status %q", o.Status)
	}
	return nil
}

func (s *orderService) GetOrder(ctx context.Context, id int64) (*domain.Order, error) {
	o, err := s.store.Orders().GetByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, "Order not found")
	}
	items, err := s.store.OrderItems().ListByOrder(ctx, id)
	if err != nil {
		return nil, storeErr(err, "Order not found")
	}
	o.Items = items
	return o, nil
}

func (s *orderService) ListOrders(ctx context.Context, f repository.OrderFilter) ([]domain.Order, error) {
	if f.Type != "" && !f.Type.Valid() {
		return nil, apperror.Validationf("invalid order type %q", f.Type)
	}
	if f.Status != "" && !f.Status.Valid() {
		return nil, apperror.Validationf("invalid order status %q", f.Status)
	}
	orders, err := s.store.Orders().List(ctx, f)
	if err != nil {
		return nil, storeErr(err, "")
	}
	return orders, nil
}

// UpdateOrder replaces the header fields. Empty customer, type and status keep
// their current values; the order number and totals are never changed here.
func (s *orderService) UpdateOrder(ctx context.Context, o *domain.Order) (_ *domain.Order, err error) {
	logger.EnterMethod(ctx, "orderService.UpdateOrder", "orderID", o.ID)
	defer func() { exit(ctx, "orderService.UpdateOrder", err, "orderID", o.ID) }()

	var updated *domain.Order
	err = s.store.WithTx(ctx, func(tx repository.Store) error {
		cur, err := tx.Orders().GetByID(ctx, o.ID)
		if err != nil {
			return err
		}
		if o.CustomerID == 0 {
			o.CustomerID = cur.CustomerID
		}
		if o.Type == "" {
			o.Type = cur.Type
		}
		if o.Status == "" {
			o.Status = cur.Status
		}
		if err := validateOrderHeader(o); err != nil {
			return err
		}
		if o.CustomerID != cur.CustomerID {
			if _, err := tx.Customers().GetByID(ctx, o.CustomerID); err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					return apperror.Validation("customer does not exist", apperror.WithCause(err))
				}
				return err
			}
		}
		if err := tx.Orders().Update(ctx, o); err != nil {
			return err
		}
		updated, err = tx.Orders().GetByID(ctx, o.ID)
		return err
	})
	if err != nil {
		return nil, storeErr(err, "Order not found")
	}
	return updated, nil
}

func (s *orderService) DeleteOrder(ctx context.Context, id int64) (err error) {
	logger.EnterMethod(ctx, "orderService.DeleteOrder", "orderID", id)
	defer func() { exit(ctx, "orderService.DeleteOrder", err, "orderID", id) }()

	if err := s.store.Orders().Delete(ctx, id); err != nil {
		return storeErr(err, "Order not found")
	}
	return nil
}

func (s *orderService) RecalculateTotals(ctx context.Context, id int64) (_ *domain.Order, err error) {
	logger.EnterMethod(ctx, "orderService.RecalculateTotals", "orderID", id)
	defer func() { exit(ctx, "orderService.RecalculateTotals", err, "orderID", id) }()

	var out *domain.Order
	err = s.store.WithTx(ctx, func(tx repository.Store) error {
		if _, err := tx.Orders().GetByID(ctx, id); err != nil {
			return err
		}
		if _, err := recalculateOrderTotals(ctx, tx, id); err != nil {
			return err
		}
		out, err = tx.Orders().GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, storeErr(err, "Order not found")
	}
	return out, nil
}

// RecalculateAll re-derives the totals of every order, one transaction per
// order. A failing order does not stop the sweep.
func (s *orderService) RecalculateAll(ctx context.Context) (int, error) {
	logger.EnterMethod(ctx, "orderService.RecalculateAll")

	ids, err := s.store.Orders().ListIDs(ctx)
	if err != nil {
		err = storeErr(err, "")
		logger.ExitMethodWithError(ctx, "orderService.RecalculateAll", err)
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
			before, err := tx.Orders().GetByID(ctx, id)
			if err != nil {
				return err
			}
			after, err := recalculateOrderTotals(ctx, tx, id)
			if err != nil {
				return err
			}
			moved = !before.Totals().Equal(after)
			return nil
		})
		switch {
		case errors.Is(err, repository.ErrNotFound):
			// deleted since ListIDs
		case err != nil:
			logger.ErrorContext(ctx, "Failed to recalculate order totals", "orderID", id, "error", err)
			errs = append(errs, fmt.Errorf("order %d: %w", id, err))
		case moved:
			changed++
		}
	}

	err = errors.Join(errs...)
	logger.ExitMethod(ctx, "orderService.RecalculateAll", "orders", len(ids), "changed", changed, "failed", len(errs))
	return changed, err
}

func (s *orderService) ListItems(ctx context.Context, orderID int64) ([]domain.OrderItem, error) {
	if _, err := s.store.Orders().GetByID(ctx, orderID); err != nil {
		return nil, storeErr(err, "Order not found")
	}
	items, err := s.store.OrderItems().ListByOrder(ctx, orderID)
	if err != nil {
		return nil, storeErr(err, "")
	}
	return items, nil
}

// AddItem prices the item, stores it and re-totals its order in one
// transaction. Price and hours are rounded to their column scale first, and
// the returned item carries the values as stored.
func (s *orderService) AddItem(ctx context.Context, item *domain.OrderItem) (_ *domain.OrderItem, _ *domain.Order, err error) {
	logger.EnterMethod(ctx, "orderService.AddItem", "orderID", item.OrderID, "itemType", item.ItemType)
	defer func() { exit(ctx, "orderService.AddItem", err, "orderID", item.OrderID) }()

	if item.ItemType == "" {
		return nil, nil, apperror.Validation("item_type is required")
	}
	if !item.ItemType.Valid() {
		return nil, nil, apperror.Validationf("invalid item_type %q", item.ItemType)
	}
	if !item.RentalStart.IsZero() && !item.RentalEnd.IsZero() && item.RentalEnd.Before(item.RentalStart) {
		return nil, nil, apperror.Validation("rental_end must not be before rental_start")
	}
	if item.Quantity < 0 {
		return nil, nil, apperror.Validation("quantity must not be negative")
	}
	item.Quantity = utils.NormalizeQuantity(item.Quantity)
	item.UnitPrice = utils.RoundInput(item.UnitPrice, utils.PriceScale)
	item.Hours = utils.RoundInput(item.Hours, utils.HoursScale)
	item.Total = utils.CalculateLineTotal(utils.LineItemInput{
		Type:        item.ItemType,
		Quantity:    item.Quantity,
		UnitPrice:   item.UnitPrice,
		RentalStart: item.RentalStart,
		RentalEnd:   item.RentalEnd,
		Hours:       item.Hours,
	})

	var order *domain.Order
	err = s.store.WithTx(ctx, func(tx repository.Store) error {
		if _, err := tx.Orders().GetByID(ctx, item.OrderID); err != nil {
			return err
		}
		if item.EquipmentID != nil {
			eq, err := tx.Equipment().GetByID(ctx, *item.EquipmentID)
			if err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					return apperror.Validation("equipment does not exist", apperror.WithCause(err))
				}
				return err
			}
			item.EquipmentName = eq.Name
			item.EquipmentSerial = eq.SerialNumber
		}
		if err := tx.OrderItems().Create(ctx, item); err != nil {
			return err
		}
		if _, err := recalculateOrderTotals(ctx, tx, item.OrderID); err != nil {
			return err
		}
		var err error
		order, err = tx.Orders().GetByID(ctx, item.OrderID)
		return err
	})
	if err != nil {
		return nil, nil, storeErr(err, "Order not found")
	}
	logger.InfoContext(ctx, "Order item added", "orderID", item.OrderID, "itemID", item.ID, "total", item.Total.String(), "orderTotal", order.TotalCost.String())
	return item, order, nil
}

func (s *orderService) DeleteItem(ctx context.Context, orderID, itemID int64) (_ *domain.Order, err error) {
	logger.EnterMethod(ctx, "orderService.DeleteItem", "orderID", orderID, "itemID", itemID)
	defer func() { exit(ctx, "orderService.DeleteItem", err, "orderID", orderID, "itemID", itemID) }()

	var order *domain.Order
	err = s.store.WithTx(ctx, func(tx repository.Store) error {
		if err := tx.OrderItems().Delete(ctx, orderID, itemID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return apperror.NotFound("Item not found", apperror.WithCause(err))
			}
			return err
		}
		if _, err := recalculateOrderTotals(ctx, tx, orderID); err != nil {
			return err
		}
		var err error
		order, err = tx.Orders().GetByID(ctx, orderID)
		return err
	})
	if err != nil {
		return nil, storeErr(err, "Order not found")
	}
	return order, nil
}

func (s *orderService) ListWorkers(ctx context.Context, orderID int64) ([]domain.OrderWorker, error) {
	if _, err := s.store.Orders().GetByID(ctx, orderID); err != nil {
		return nil, storeErr(err, "Order not found")
	}
	workers, err := s.store.OrderWorkers().ListByOrder(ctx, orderID)
	if err != nil {
		return nil, storeErr(err, "")
	}
	return workers, nil
}

func (s *orderService) AssignWorker(ctx context.Context, w *domain.OrderWorker) (_ *domain.OrderWorker, err error) {
	logger.EnterMethod(ctx, "orderService.AssignWorker", "orderID", w.OrderID, "employeeID", w.EmployeeID)
	defer func() { exit(ctx, "orderService.AssignWorker", err, "orderID", w.OrderID) }()

	if w.EmployeeID == 0 {
		return nil, apperror.Validation("employee_id is required")
	}

	var out *domain.OrderWorker
	err = s.store.WithTx(ctx, func(tx repository.Store) error {
		if _, err := tx.Orders().GetByID(ctx, w.OrderID); err != nil {
			return err
		}
		if _, err := tx.Employees().GetByID(ctx, w.EmployeeID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return apperror.Validation("employee does not exist", apperror.WithCause(err))
			}
			return err
		}
		existing, err := tx.OrderWorkers().GetByOrderAndEmployee(ctx, w.OrderID, w.EmployeeID)
		switch {
		case err == nil:
			return apperror.Conflict(msgWorkerAssigned, apperror.WithConflict(existing))
		case !errors.Is(err, repository.ErrNotFound):
			return err
		}
		if err := tx.OrderWorkers().Create(ctx, w); err != nil {
			return err
		}
		out, err = tx.OrderWorkers().GetByOrderAndEmployee(ctx, w.OrderID, w.EmployeeID)
		return err
	})
	if err != nil {
		return nil, storeErr(err, "Order not found")
	}
	return out, nil
}

func (s *orderService) RemoveWorker(ctx context.Context, orderID, workerID int64) (err error) {
	logger.EnterMethod(ctx, "orderService.RemoveWorker", "orderID", orderID, "workerID", workerID)
	defer func() { exit(ctx, "orderService.RemoveWorker", err, "orderID", orderID, "workerID", workerID) }()

	if err := s.store.OrderWorkers().Delete(ctx, orderID, workerID); err != nil {
		return storeErr(err, "Worker not found")
	}
	return nil
}
