package jobs

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"eventrental-backend/internal/config"
	"eventrental-backend/internal/service"
)

type MockEquipmentService struct {
	mock.Mock
	service.EquipmentService
}

func (m *MockEquipmentService) ReconcileAll(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

type MockOrderService struct {
	mock.Mock
	service.OrderService
}

func (m *MockOrderService) RecalculateAll(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func newRunner() (*JobRunner, *MockEquipmentService, *MockOrderService) {
	eq := new(MockEquipmentService)
	orders := new(MockOrderService)
	return NewJobRunner(&Services{Equipment: eq, Orders: orders}, &config.Config{}), eq, orders
}

func TestJobRunner_ReconcileEquipmentStatus(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		jr, eq, _ := newRunner()
		eq.On("ReconcileAll", mock.Anything).Return(2, nil).Once()

		jr.ReconcileEquipmentStatus()
		eq.AssertExpectations(t)
	})

	t.Run("ErrorIsLogged", func(t *testing.T) {
		jr, eq, _ := newRunner()
		eq.On("ReconcileAll", mock.Anything).Return(1, errors.New("order 7: storage failure")).Once()

		assert.NotPanics(t, jr.ReconcileEquipmentStatus)
		eq.AssertExpectations(t)
	})
}

func TestJobRunner_RecalculateOrderTotals(t *testing.T) {
	jr, _, orders := newRunner()
	orders.On("RecalculateAll", mock.Anything).Return(0, nil).Once()

	jr.RecalculateOrderTotals()
	orders.AssertExpectations(t)
}

func TestJobRunner_RecoversFromPanic(t *testing.T) {
	jr, _, orders := newRunner()
	orders.On("RecalculateAll", mock.Anything).Run(func(mock.Arguments) { panic("boom") }).Once()

	assert.NotPanics(t, jr.RecalculateOrderTotals)
}

func TestJobRunner_Run(t *testing.T) {
	t.Run("All", func(t *testing.T) {
		jr, eq, orders := newRunner()
		eq.On("ReconcileAll", mock.Anything).Return(0, nil).Once()
		orders.On("RecalculateAll", mock.Anything).Return(0, nil).Once()

		assert.NoError(t, jr.Run(AllJobs))
		eq.AssertExpectations(t)
		orders.AssertExpectations(t)
	})

	t.Run("Single", func(t *testing.T) {
		jr, eq, orders := newRunner()
		eq.On("ReconcileAll", mock.Anything).Return(0, nil).Once()

		assert.NoError(t, jr.Run(ReconcileEquipmentStatusJob))
		eq.AssertExpectations(t)
		orders.AssertNotCalled(t, "RecalculateAll", mock.Anything)
	})

	t.Run("Unknown", func(t *testing.T) {
		jr, _, _ := newRunner()
		err := jr.Run("send-invoices")
		assert.ErrorContains(t, err, "unknown job")
	})
}
