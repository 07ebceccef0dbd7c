package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"google.golang.org/grpc/health"

	apigrpc "eventrental-backend/internal/api/grpc"
	httpapi "eventrental-backend/internal/api/http"
	"eventrental-backend/internal/config"
	"eventrental-backend/internal/logger"
	"eventrental-backend/internal/migration"
	"eventrental-backend/internal/repository"
	"eventrental-backend/internal/repository/memory"
	"eventrental-backend/internal/repository/postgres"
	"eventrental-backend/internal/security"
	"eventrental-backend/internal/service"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Event Rental Backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "http_address", cfg.GetHTTPAddress(), "grpc_address", cfg.GetGRPCAddress())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore := openStore(ctx, cfg)
	defer closeStore()

	// Initialize Security
	var tokenManager security.TokenManager
	if cfg.JWT.Enabled() {
		tokenManager = security.NewTokenManager(cfg.JWT.Secret, cfg.JWT.Issuer, time.Duration(cfg.JWT.AccessTokenExpiry)*time.Minute)
		logger.Info("API authentication enabled", "issuer", cfg.JWT.Issuer)
	} else {
		logger.Warn("JWT secret not set, API authentication disabled")
	}

	// Initialize Services
	services := httpapi.Services{
		Customers:    service.NewCustomerService(store),
		Employees:    service.NewEmployeeService(store),
		Equipment:    service.NewEquipmentService(store),
		Orders:       service.NewOrderService(store, service.NewOrderNumberGenerator()),
		Reservations: service.NewReservationService(store),
		Schedules:    service.NewScheduleService(store),
	}

	// Set up HTTP server
	httpServer := &http.Server{
		Addr:         cfg.GetHTTPAddress(),
		Handler:      httpapi.NewRouter(services, store, tokenManager),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeoutSeconds) * time.Second,
	}

	// Set up gRPC health server
	healthServer := health.NewServer()
	grpcServer := apigrpc.NewServer(healthServer, tokenManager)
	reporter := apigrpc.NewHealthReporter(healthServer, store, time.Duration(cfg.Server.HealthCheckIntervalS)*time.Second)
	go reporter.Run(ctx)

	lis, err := net.Listen("tcp", cfg.GetGRPCAddress())
	if err != nil {
		logger.Error("Failed to listen", "error", err, "address", cfg.GetGRPCAddress())
		log.Fatalf("Failed to listen: %v", err)
	}

	errCh := make(chan error, 2)
	go func() {
		logger.Info("gRPC server listening", "address", cfg.GetGRPCAddress())
		if err := grpcServer.Serve(lis); err != nil {
			errCh <- err
		}
	}()
	go func() {
		logger.Info("HTTP server listening", "address", cfg.GetHTTPAddress())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	case err := <-errCh:
		logger.Error("Server error", "error", err)
	}

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeoutSecs)*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown failed", "error", err)
	}
	grpcServer.GracefulStop()
	logger.Info("Servers stopped. Goodbye!")
}

// openStore returns the configured store and a function releasing it.
func openStore(ctx context.Context, cfg *config.Config) (repository.Store, func()) {
	if cfg.Database.Driver == config.DriverMemory {
		logger.Warn("Using in-memory store, data is lost on restart")
		return memory.NewStore(), func() {}
	}

	logger.Info("Connecting to database...", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Minute)

	// Test database connection
	if err := db.PingContext(ctx); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	if cfg.Database.MigrateOnStart {
		m, err := migration.New(db)
		if err != nil {
			log.Fatalf("Failed to prepare migrations: %v", err)
		}
		if err := m.Up(ctx); err != nil {
			logger.Error("Failed to apply migrations", "error", err)
			log.Fatalf("Failed to apply migrations: %v", err)
		}
	}

	return postgres.NewStore(db), func() { _ = db.Close() }
}
