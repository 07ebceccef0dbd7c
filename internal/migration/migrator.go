package migration

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/pressly/goose/v3"

	"eventrental-backend/internal/logger"
)

//go:embed sql/*.sql
var migrations embed.FS

const migrationsDir = "sql"

// Migrator applies the embedded goose migrations.
type Migrator struct {
	db *sql.DB
}

func New(db *sql.DB) (*Migrator, error) {
	goose.SetBaseFS(migrations)
	goose.SetLogger(gooseLogger{})
	if err := goose.SetDialect("postgres"); err != nil {
		return nil, fmt.Errorf("set goose dialect: %w", err)
	}
	return &Migrator{db: db}, nil
}

// Up applies all pending migrations.
func (m *Migrator) Up(ctx context.Context) error {
	if err := goose.UpContext(ctx, m.db, migrationsDir); err != nil {
		if isNoMigrationErr(err) {
			logger.Info("No migrations to apply")
			return nil
		}
		return fmt.Errorf("apply migrations: %w", err)
	}
	logger.Info("Migrations applied")
	return nil
}

// Down rolls back one migration, or every migration when all is true.
func (m *Migrator) Down(ctx context.Context, all bool) error {
	var err error
	if all {
		err = goose.DownToContext(ctx, m.db, migrationsDir, 0)
	} else {
		err = goose.DownContext(ctx, m.db, migrationsDir)
	}
	if err != nil {
		if isNoMigrationErr(err) {
			logger.Info("No migrations to roll back")
			return nil
		}
		return fmt.Errorf("roll back migrations: %w", err)
	}
	logger.Info("Migrations rolled back", "all", all)
	return nil
}

func isNoMigrationErr(err error) bool {
	if errors.Is(err, goose.ErrNoNextVersion) || errors.Is(err, goose.ErrNoMigrationFiles) {
		return true
	}
	return strings.Contains(err.Error(), "no migrations")
}

// gooseLogger routes goose output through the service logger.
type gooseLogger struct{}

func (gooseLogger) Printf(format string, v ...any) {
	logger.Info(strings.TrimSpace(fmt.Sprintf(format, v...)), "component", "goose")
}

func (gooseLogger) Fatalf(format string, v ...any) {
	logger.Error(strings.TrimSpace(fmt.Sprintf(format, v...)), "component", "goose")
	os.Exit(1)
}
