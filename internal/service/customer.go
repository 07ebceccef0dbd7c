package service

import (
	"context"
	"errors"
	"strings"

	"eventrental-backend/internal/apperror"
	"eventrental-backend/internal/domain"
	"eventrental-backend/internal/logger"
	"eventrental-backend/internal/repository"
)

type customerService struct {
	store repository.Store
}

func NewCustomerService(store repository.Store) CustomerService {
	return &customerService{store: store}
}

func (s *customerService) CreateCustomer(ctx context.Context, c *domain.Customer) (*domain.Customer, error) {
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return nil, apperror.Validation("name is required")
	}
	if err := s.store.Customers().Create(ctx, c); err != nil {
		return nil, storeErr(err, "Customer not found")
	}
	logger.InfoContext(ctx, "Customer created", "customerID", c.ID)
	return c, nil
}

func (s *customerService) GetCustomer(ctx context.Context, id int64) (*domain.Customer, error) {
	c, err := s.store.Customers().GetByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, "Customer not found")
	}
	return c, nil
}

func (s *customerService) ListCustomers(ctx context.Context, f repository.CustomerFilter) ([]domain.Customer, error) {
	list, err := s.store.Customers().List(ctx, f)
	if err != nil {
		return nil, storeErr(err, "")
	}
	return list, nil
}

func (s *customerService) UpdateCustomer(ctx context.Context, c *domain.Customer) (*domain.Customer, error) {
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return nil, apperror.Validation("name is required")
	}
	var out *domain.Customer
	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		if err := tx.Customers().Update(ctx, c); err != nil {
			return err
		}
		var err error
		out, err = tx.Customers().GetByID(ctx, c.ID)
		return err
	})
	if err != nil {
		return nil, storeErr(err, "Customer not found")
	}
	return out, nil
}

// DeleteCustomer refuses while orders still reference the customer.
func (s *customerService) DeleteCustomer(ctx context.Context, id int64) error {
	if err := s.store.Customers().Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrReferenced) {
			return apperror.Conflict("Customer has orders", apperror.WithCause(err))
		}
		return storeErr(err, "Customer not found")
	}
	logger.InfoContext(ctx, "Customer deleted", "customerID", id)
	return nil
}
