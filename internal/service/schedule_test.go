package service_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"eventrental-backend/internal/apperror"
	"eventrental-backend/internal/domain"
	"eventrental-backend/internal/repository"
	"eventrental-backend/internal/service"
)

func TestScheduleService_CreateSchedule(t *testing.T) {
	ctx := context.Background()
	july4 := domain.MustParseDate("2025-07-04")

	t.Run("ConflictCarriesCollidingEntry", func(t *testing.T) {
		f := newFixture(t)
		svc := service.NewScheduleService(f.store)

		first, err := svc.CreateSchedule(ctx, &domain.EmployeeSchedule{EmployeeID: f.employee.ID, ScheduleDate: july4, OrderID: &f.order.ID})
		require.NoError(t, err)
		assert.Equal(t, domain.ScheduleStatusScheduled, first.Status)
		assert.Equal(t, "Acme Events", first.CustomerName)

		_, err = svc.CreateSchedule(ctx, &domain.EmployeeSchedule{EmployeeID: f.employee.ID, ScheduleDate: july4})
		require.True(t, apperror.IsKind(err, apperror.KindConflict))
		held, ok := apperror.From(err).Detail(apperror.DetailConflict)
		require.True(t, ok)
		assert.Equal(t, first.ID, held.(*domain.EmployeeSchedule).ID)
	})

	t.Run("CancelledDoesNotBlock", func(t *testing.T) {
		f := newFixture(t)
		svc := service.NewScheduleService(f.store)

		_, err := svc.CreateSchedule(ctx, &domain.EmployeeSchedule{EmployeeID: f.employee.ID, ScheduleDate: july4, Status: domain.ScheduleStatusCancelled})
		require.NoError(t, err)
		_, err = svc.CreateSchedule(ctx, &domain.EmployeeSchedule{EmployeeID: f.employee.ID, ScheduleDate: july4})
		assert.NoError(t, err)
	})

	t.Run("CompletedBlocks", func(t *testing.T) {
		f := newFixture(t)
		svc := service.NewScheduleService(f.store)

		_, err := svc.CreateSchedule(ctx, &domain.EmployeeSchedule{EmployeeID: f.employee.ID, ScheduleDate: july4, Status: domain.ScheduleStatusCompleted})
		require.NoError(t, err)
		_, err = svc.CreateSchedule(ctx, &domain.EmployeeSchedule{EmployeeID: f.employee.ID, ScheduleDate: july4})
		assert.True(t, apperror.IsKind(err, apperror.KindConflict))
	})

	t.Run("ConcurrentBookingsOneWins", func(t *testing.T) {
		f := newFixture(t)
		svc := service.NewScheduleService(f.store)

		ok, conflicts, others := createConcurrently(8, func() error {
			_, err := svc.CreateSchedule(ctx, &domain.EmployeeSchedule{EmployeeID: f.employee.ID, ScheduleDate: july4})
			return err
		})
		assert.Empty(t, others)
		assert.Equal(t, 1, ok)
		assert.Equal(t, 7, conflicts)
	})

	t.Run("UniqueIndexAfterPassingCheckIsConflict", func(t *testing.T) {
		f := newFixture(t)
		_, err := service.NewScheduleService(f.store).CreateSchedule(ctx, &domain.EmployeeSchedule{EmployeeID: f.employee.ID, ScheduleDate: july4})
		require.NoError(t, err)

		schedules := new(mockScheduleRepo)
		schedules.On("FindActiveOnDate", mock.Anything, f.employee.ID, july4, int64(0)).Return(nil, nil)
		svc := service.NewScheduleService(&stubStore{Store: f.store, schedules: schedules})

		_, err = svc.CreateSchedule(ctx, &domain.EmployeeSchedule{EmployeeID: f.employee.ID, ScheduleDate: july4})
		require.True(t, apperror.IsKind(err, apperror.KindConflict), "got %v", err)
		assert.Equal(t, http.StatusConflict, apperror.From(err).HTTPStatus())
		assert.Equal(t, "Employee already has a schedule for this date", apperror.From(err).Message())
		assert.True(t, repository.IsConstraint(err, repository.ConstraintScheduleActive))
		schedules.AssertExpectations(t)

		all, err := f.store.Schedules().List(ctx, repository.ScheduleFilter{EmployeeID: f.employee.ID})
		require.NoError(t, err)
		assert.Len(t, all, 1)
	})

	t.Run("Validation", func(t *testing.T) {
		f := newFixture(t)
		svc := service.NewScheduleService(f.store)

		_, err := svc.CreateSchedule(ctx, &domain.EmployeeSchedule{ScheduleDate: july4})
		assert.True(t, apperror.IsKind(err, apperror.KindValidation))
		_, err = svc.CreateSchedule(ctx, &domain.EmployeeSchedule{EmployeeID: f.employee.ID})
		assert.True(t, apperror.IsKind(err, apperror.KindValidation))
		_, err = svc.CreateSchedule(ctx, &domain.EmployeeSchedule{EmployeeID: 9999, ScheduleDate: july4})
		assert.True(t, apperror.IsKind(err, apperror.KindValidation))
	})
}

func TestScheduleService_UpdateSchedule(t *testing.T) {
	ctx := context.Background()
	july4 := domain.MustParseDate("2025-07-04")
	july5 := domain.MustParseDate("2025-07-05")

	f := newFixture(t)
	svc := service.NewScheduleService(f.store)

	a, err := svc.CreateSchedule(ctx, &domain.EmployeeSchedule{EmployeeID: f.employee.ID, ScheduleDate: july4})
	require.NoError(t, err)
	b, err := svc.CreateSchedule(ctx, &domain.EmployeeSchedule{EmployeeID: f.employee.ID, ScheduleDate: july5})
	require.NoError(t, err)

	t.Run("EditInPlaceExcludesSelf", func(t *testing.T) {
		in, out := "07:00", "23:00"
		got, err := svc.UpdateSchedule(ctx, a.ID, service.SchedulePatch{RequiredTimeIn: &in, RequiredTimeOut: &out})
		require.NoError(t, err)
		assert.Equal(t, "07:00", got.RequiredTimeIn)
	})

	t.Run("MoveOntoBusyDayConflicts", func(t *testing.T) {
		date := july4
		_, err := svc.UpdateSchedule(ctx, b.ID, service.SchedulePatch{ScheduleDate: &date})
		assert.True(t, apperror.IsKind(err, apperror.KindConflict))
	})

	t.Run("CancelThenMove", func(t *testing.T) {
		cancelled := domain.ScheduleStatusCancelled
		_, err := svc.UpdateSchedule(ctx, a.ID, service.SchedulePatch{Status: &cancelled})
		require.NoError(t, err)

		date := july4
		moved, err := svc.UpdateSchedule(ctx, b.ID, service.SchedulePatch{ScheduleDate: &date})
		require.NoError(t, err)
		assert.Equal(t, july4, moved.ScheduleDate)

		scheduled := domain.ScheduleStatusScheduled
		_, err = svc.UpdateSchedule(ctx, a.ID, service.SchedulePatch{Status: &scheduled})
		assert.True(t, apperror.IsKind(err, apperror.KindConflict))
	})

	t.Run("ListByEmployee", func(t *testing.T) {
		list, err := svc.ListSchedules(ctx, repository.ScheduleFilter{EmployeeID: f.employee.ID, Status: domain.ScheduleStatusScheduled})
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, b.ID, list[0].ID)
	})
}

func TestScheduleService_CheckAvailability(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	svc := service.NewScheduleService(f.store)
	july4 := domain.MustParseDate("2025-07-04")

	entry, err := svc.CreateSchedule(ctx, &domain.EmployeeSchedule{EmployeeID: f.employee.ID, ScheduleDate: july4})
	require.NoError(t, err)

	got, err := svc.CheckAvailability(ctx, f.employee.ID, july4, 0)
	require.NoError(t, err)
	assert.False(t, got.Available)
	assert.Equal(t, entry.ID, got.Conflict.ID)

	got, err = svc.CheckAvailability(ctx, f.employee.ID, july4, entry.ID)
	require.NoError(t, err)
	assert.True(t, got.Available)

	_, err = svc.CheckAvailability(ctx, 9999, july4, 0)
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
}

func TestPeopleServices(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	customers := service.NewCustomerService(f.store)
	employees := service.NewEmployeeService(f.store)

	t.Run("CustomerWithOrdersCannotBeDeleted", func(t *testing.T) {
		err := customers.DeleteCustomer(ctx, f.customer.ID)
		assert.True(t, apperror.IsKind(err, apperror.KindConflict))
	})

	t.Run("CustomerNameRequired", func(t *testing.T) {
		_, err := customers.CreateCustomer(ctx, &domain.Customer{Name: "  "})
		assert.True(t, apperror.IsKind(err, apperror.KindValidation))
	})

	t.Run("EmployeeDefaults", func(t *testing.T) {
		e, err := employees.CreateEmployee(ctx, &domain.Employee{Name: "Sam"})
		require.NoError(t, err)
		assert.Equal(t, domain.EmployeeRoleContract, e.Role)
		assert.Equal(t, domain.EmployeeStatusActive, e.Status)

		e, err = employees.UpdateEmployee(ctx, &domain.Employee{ID: e.ID, Name: "Sam Ortiz"})
		require.NoError(t, err)
		assert.Equal(t, domain.EmployeeRoleContract, e.Role)
	})

	t.Run("EmployeeDeleteRemovesSchedule", func(t *testing.T) {
		schedules := service.NewScheduleService(f.store)
		entry, err := schedules.CreateSchedule(ctx, &domain.EmployeeSchedule{EmployeeID: f.employee.ID, ScheduleDate: domain.MustParseDate("2025-07-04")})
		require.NoError(t, err)

		require.NoError(t, employees.DeleteEmployee(ctx, f.employee.ID))
		_, err = schedules.GetSchedule(ctx, entry.ID)
		assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
	})
}
