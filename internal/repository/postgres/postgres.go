package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"eventrental-backend/internal/logger"
	"eventrental-backend/internal/repository"
)

const maxTxAttempts = 3

// DBTX is the subset of *sql.DB and *sql.Tx the repositories need.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store is the PostgreSQL implementation of repository.Store.
type Store struct {
	db *sql.DB
	q  DBTX
	tx *sql.Tx

	customers    repository.CustomerRepository
	employees    repository.EmployeeRepository
	equipment    repository.EquipmentRepository
	orders       repository.OrderRepository
	orderItems   repository.OrderItemRepository
	orderWorkers repository.OrderWorkerRepository
	reservations repository.ReservationRepository
	schedules    repository.ScheduleRepository
}

func NewStore(db *sql.DB) *Store {
	return newStore(db, db, nil)
}

func newStore(db *sql.DB, q DBTX, tx *sql.Tx) *Store {
	return &Store{
		db:           db,
		q:            q,
		tx:           tx,
		customers:    NewCustomerRepository(q),
		employees:    NewEmployeeRepository(q),
		equipment:    NewEquipmentRepository(q),
		orders:       NewOrderRepository(q),
		orderItems:   NewOrderItemRepository(q),
		orderWorkers: NewOrderWorkerRepository(q),
		reservations: NewReservationRepository(q),
		schedules:    NewScheduleRepository(q),
	}
}

func (s *Store) Customers() repository.CustomerRepository       { return s.customers }
func (s *Store) Employees() repository.EmployeeRepository       { return s.employees }
func (s *Store) Equipment() repository.EquipmentRepository      { return s.equipment }
func (s *Store) Orders() repository.OrderRepository             { return s.orders }
func (s *Store) OrderItems() repository.OrderItemRepository     { return s.orderItems }
func (s *Store) OrderWorkers() repository.OrderWorkerRepository { return s.orderWorkers }
func (s *Store) Reservations() repository.ReservationRepository { return s.reservations }
func (s *Store) Schedules() repository.ScheduleRepository       { return s.schedules }

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// WithTx runs fn in a serializable transaction, retrying serialization
// failures up to maxTxAttempts times.
func (s *Store) WithTx(ctx context.Context, fn func(repository.Store) error) error {
	if s.tx != nil {
		return fn(s)
	}

	var err error
	for attempt := 1; attempt <= maxTxAttempts; attempt++ {
		err = s.runTx(ctx, fn)
		if err == nil || !isSerializationFailure(err) {
			return err
		}
		logger.WarnContext(ctx, "Serializable transaction aborted, retrying", "attempt", attempt, "error", err)
	}
	return err
}

func (s *Store) runTx(ctx context.Context, fn func(repository.Store) error) (err error) {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				logger.ErrorContext(ctx, "Failed to roll back transaction", "error", rbErr)
			}
		}
	}()

	if err = fn(newStore(s.db, tx, tx)); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", mapError(err))
	}
	return nil
}

func isSerializationFailure(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "40001" || pqErr.Code == "40P01"
	}
	return false
}

// mapError translates driver errors into repository sentinels.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return repository.ErrNotFound
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "23505":
			return &repository.ConstraintError{Constraint: pqErr.Constraint, Err: repository.ErrDuplicate}
		case "23503":
			return &repository.ConstraintError{Constraint: pqErr.Constraint, Err: repository.ErrReferenced}
		}
		// class 22: data exception (numeric overflow, bad date/time text, ...)
		if pqErr.Code.Class() == "22" {
			return fmt.Errorf("%w: %s", repository.ErrInvalidValue, pqErr.Message)
		}
	}
	return err
}

// execOne runs a keyed UPDATE/DELETE and reports ErrNotFound when no row matched.
func execOne(ctx context.Context, q DBTX, operation, query string, args ...any) error {
	logger.DatabaseCall(ctx, operation, query)
	res, err := q.ExecContext(ctx, query, args...)
	if err != nil {
		logger.DatabaseResult(ctx, operation, 0, err)
		return fmt.Errorf("%s: %w", operation, mapError(err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", operation, err)
	}
	logger.DatabaseResult(ctx, operation, n, nil)
	if n == 0 {
		return fmt.Errorf("%s: %w", operation, repository.ErrNotFound)
	}
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func now() time.Time {
	return time.Now().UTC()
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func collect[T any](rows *sql.Rows, scan func(scanner) (T, error)) ([]T, error) {
	defer rows.Close()
	out := []T{}
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}
