package service

import (
	"context"
	"strings"

	"eventrental-backend/internal/apperror"
	"eventrental-backend/internal/domain"
	"eventrental-backend/internal/logger"
	"eventrental-backend/internal/repository"
)

type employeeService struct {
	store repository.Store
}

func NewEmployeeService(store repository.Store) EmployeeService {
	return &employeeService{store: store}
}

func (s *employeeService) CreateEmployee(ctx context.Context, e *domain.Employee) (*domain.Employee, error) {
	e.Name = strings.TrimSpace(e.Name)
	if e.Name == "" {
		return nil, apperror.Validation("name is required")
	}
	if e.Role == "" {
		e.Role = domain.EmployeeRoleContract
	}
	if e.Status == "" {
		e.Status = domain.EmployeeStatusActive
	}
	if err := s.store.Employees().Create(ctx, e); err != nil {
		return nil, storeErr(err, "Employee not found")
	}
	logger.InfoContext(ctx, "Employee created", "employeeID", e.ID)
	return e, nil
}

func (s *employeeService) GetEmployee(ctx context.Context, id int64) (*domain.Employee, error) {
	e, err := s.store.Employees().GetByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, "Employee not found")
	}
	return e, nil
}

func (s *employeeService) ListEmployees(ctx context.Context, f repository.EmployeeFilter) ([]domain.Employee, error) {
	list, err := s.store.Employees().List(ctx, f)
	if err != nil {
		return nil, storeErr(err, "")
	}
	return list, nil
}

func (s *employeeService) UpdateEmployee(ctx context.Context, e *domain.Employee) (*domain.Employee, error) {
	e.Name = strings.TrimSpace(e.Name)
	if e.Name == "" {
		return nil, apperror.Validation("name is required")
	}
	var out *domain.Employee
	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		cur, err := tx.Employees().GetByID(ctx, e.ID)
		if err != nil {
			return err
		}
		if e.Role == "" {
			e.Role = cur.Role
		}
		if e.Status == "" {
			e.Status = cur.Status
		}
		if err := tx.Employees().Update(ctx, e); err != nil {
			return err
		}
		out, err = tx.Employees().GetByID(ctx, e.ID)
		return err
	})
	if err != nil {
		return nil, storeErr(err, "Employee not found")
	}
	return out, nil
}

// DeleteEmployee also removes the employee's schedule entries and worker
// assignments.
func (s *employeeService) DeleteEmployee(ctx context.Context, id int64) error {
	if err := s.store.Employees().Delete(ctx, id); err != nil {
		return storeErr(err, "Employee not found")
	}
	logger.InfoContext(ctx, "Employee deleted", "employeeID", id)
	return nil
}
