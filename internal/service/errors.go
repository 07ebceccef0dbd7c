package service

import (
	"context"
	"errors"

	"eventrental-backend/internal/apperror"
	"eventrental-backend/internal/logger"
	"eventrental-backend/internal/repository"
)

// storeErr classifies a repository error. Already classified errors pass
// through untouched.
func storeErr(err error, notFound string) error {
	if err == nil {
		return nil
	}
	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		return err
	}
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return apperror.NotFound(notFound, apperror.WithCause(err))
	case repository.IsConstraint(err, repository.ConstraintReservationActive):
		return apperror.Conflict(msgEquipmentReserved, apperror.WithCause(err))
	case repository.IsConstraint(err, repository.ConstraintScheduleActive):
		return apperror.Conflict(msgEmployeeScheduled, apperror.WithCause(err))
	case repository.IsConstraint(err, repository.ConstraintEquipmentSerial):
		return apperror.Conflict("Serial number already exists", apperror.WithCause(err))
	case repository.IsConstraint(err, repository.ConstraintOrderNumber):
		return apperror.Conflict("Order number already exists", apperror.WithCause(err))
	case repository.IsConstraint(err, repository.ConstraintOrderWorker):
		return apperror.Conflict(msgWorkerAssigned, apperror.WithCause(err))
	case errors.Is(err, repository.ErrDuplicate):
		return apperror.Conflict("Record already exists", apperror.WithCause(err))
	case errors.Is(err, repository.ErrReferenced):
		return apperror.Conflict("Record is referenced by other records", apperror.WithCause(err))
	case errors.Is(err, repository.ErrInvalidValue):
		return apperror.Validation("Invalid field value", apperror.WithCause(err))
	default:
		return apperror.Internal("storage failure", apperror.WithCause(err))
	}
}

// exit logs the outcome of a service method. Rejections the caller can fix
// are not errors of the service.
func exit(ctx context.Context, method string, err error, args ...any) {
	if err == nil {
		logger.ExitMethod(ctx, method, args...)
		return
	}
	if apperror.From(err).Kind() == apperror.KindInternal {
		logger.ExitMethodWithError(ctx, method, err, args...)
		return
	}
	logger.InfoContext(ctx, "← Method rejected", append([]any{"method", method, "error", err.Error()}, args...)...)
}

const (
	msgEquipmentReserved = "Equipment is already reserved for this date"
	msgEmployeeScheduled = "Employee already has a schedule for this date"
	msgWorkerAssigned    = "Worker already assigned"
)
