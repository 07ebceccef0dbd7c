package jobs

import (
	"context"
	"fmt"
	"sort"
	"time"

	"eventrental-backend/internal/config"
	"eventrental-backend/internal/logger"
	"eventrental-backend/internal/service"
)

// Job names accepted by Run.
const (
	ReconcileEquipmentStatusJob = "reconcile-equipment-status"
	RecalculateOrderTotalsJob   = "recalculate-order-totals"
	AllJobs                     = "all"
)

const jobTimeout = 10 * time.Minute

// JobRunner coordinates all scheduled jobs
type JobRunner struct {
	services *Services
	config   *config.Config
}

// Services holds all service dependencies needed by jobs
type Services struct {
	Equipment service.EquipmentService
	Orders    service.OrderService
}

// NewJobRunner creates a new job runner with all dependencies
func NewJobRunner(services *Services, cfg *config.Config) *JobRunner {
	return &JobRunner{
		services: services,
		config:   cfg,
	}
}

func (jr *JobRunner) Config() *config.Config {
	return jr.config
}

// runWithRecovery wraps job execution with panic recovery
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func(ctx context.Context)) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Job panicked", "job", jobName, "panic", r)
		}
	}()

	ctx, cancel := context.WithTimeout(logger.NewContext(context.Background(), "job", jobName), jobTimeout)
	defer cancel()

	start := time.Now()
	logger.Info("Starting job", "job", jobName)
	jobFunc(ctx)
	logger.Info("Job completed", "job", jobName, "duration_ms", time.Since(start).Milliseconds())
}

// ReconcileEquipmentStatus re-derives every unit's status from its active
// reservations, repairing drift left by direct edits or failed writes.
func (jr *JobRunner) ReconcileEquipmentStatus() {
	jr.runWithRecovery(ReconcileEquipmentStatusJob, func(ctx context.Context) {
		changed, err := jr.services.Equipment.ReconcileAll(ctx)
		if err != nil {
			logger.ErrorContext(ctx, "Equipment status reconciliation incomplete", "changed", changed, "error", err)
			return
		}
		logger.InfoContext(ctx, "Reconciled equipment status", "changed", changed)
	})
}

// RecalculateOrderTotals recomputes the stored totals of every order from its
// items.
func (jr *JobRunner) RecalculateOrderTotals() {
	jr.runWithRecovery(RecalculateOrderTotalsJob, func(ctx context.Context) {
		changed, err := jr.services.Orders.RecalculateAll(ctx)
		if err != nil {
			logger.ErrorContext(ctx, "Order totals recalculation incomplete", "changed", changed, "error", err)
			return
		}
		logger.InfoContext(ctx, "Recalculated order totals", "changed", changed)
	})
}

// RunAll runs every job once (for manual execution)
func (jr *JobRunner) RunAll() {
	jr.ReconcileEquipmentStatus()
	jr.RecalculateOrderTotals()
}

func (jr *JobRunner) jobs() map[string]func() {
	return map[string]func(){
		ReconcileEquipmentStatusJob: jr.ReconcileEquipmentStatus,
		RecalculateOrderTotalsJob:   jr.RecalculateOrderTotals,
		AllJobs:                     jr.RunAll,
	}
}

// Run executes the named job once.
func (jr *JobRunner) Run(name string) error {
	job, ok := jr.jobs()[name]
	if !ok {
		return fmt.Errorf("unknown job %q (available: %v)", name, JobNames())
	}
	job()
	return nil
}

// JobNames lists the names Run accepts.
func JobNames() []string {
	names := []string{ReconcileEquipmentStatusJob, RecalculateOrderTotalsJob, AllJobs}
	sort.Strings(names)
	return names
}
