package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	_ "github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"eventrental-backend/internal/apperror"
	"eventrental-backend/internal/config"
	"eventrental-backend/internal/domain"
	"eventrental-backend/internal/logger"
	"eventrental-backend/internal/repository"
	"eventrental-backend/internal/repository/postgres"
	"eventrental-backend/internal/service"
)

type Customer struct {
	Name    string `yaml:"name"`
	Company string `yaml:"company"`
	Contact string `yaml:"contact"`
	Phone   string `yaml:"phone"`
	Address string `yaml:"address"`
	City    string `yaml:"city"`
	State   string `yaml:"state"`
	Zip     string `yaml:"zip"`
}

type Employee struct {
	Name   string `yaml:"name"`
	Email  string `yaml:"email"`
	Phone  string `yaml:"phone"`
	Role   string `yaml:"role"`
	Skills string `yaml:"skills"`
	Rate   string `yaml:"hourly_rate"`
}

type Equipment struct {
	Serial     string `yaml:"serial_number"`
	Name       string `yaml:"name"`
	Category   string `yaml:"category"`
	RentalRate string `yaml:"rental_rate"`
	SalePrice  string `yaml:"sale_price"`
}

type SetupData struct {
	Customers []Customer  `yaml:"customers"`
	Employees []Employee  `yaml:"employees"`
	Equipment []Equipment `yaml:"equipment"`
}

func main() {
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	dataPath := flag.String("data", "config/seed.dev.yaml", "Path to seed data file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)

	raw, err := os.ReadFile(*dataPath)
	if err != nil {
		log.Fatalf("Failed to read seed data: %v", err)
	}
	var data SetupData
	if err := yaml.Unmarshal(raw, &data); err != nil {
		log.Fatalf("Failed to parse seed data: %v", err)
	}

	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}

	store := postgres.NewStore(db)
	ctx := context.Background()
	if err := seed(ctx, store, data); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}
	logger.Info("Seed data loaded", "customers", len(data.Customers), "employees", len(data.Employees), "equipment", len(data.Equipment))
}

// seed creates the listed records, skipping ones that already exist.
func seed(ctx context.Context, store repository.Store, data SetupData) error {
	customers := service.NewCustomerService(store)
	employees := service.NewEmployeeService(store)
	equipment := service.NewEquipmentService(store)

	for _, c := range data.Customers {
		existing, err := customers.ListCustomers(ctx, repository.CustomerFilter{Search: c.Name})
		if err != nil {
			return err
		}
		if hasName(existing, c.Name, func(x domain.Customer) string { return x.Name }) {
			logger.Info("Customer exists, skipping", "name", c.Name)
			continue
		}
		if _, err := customers.CreateCustomer(ctx, &domain.Customer{
			Name: c.Name, Company: c.Company, ContactName: c.Contact, Phone: c.Phone,
			Address: c.Address, City: c.City, State: c.State, Zip: c.Zip,
		}); err != nil {
			return fmt.Errorf("customer %q: %w", c.Name, err)
		}
	}

	for _, e := range data.Employees {
		existing, err := employees.ListEmployees(ctx, repository.EmployeeFilter{Search: e.Name})
		if err != nil {
			return err
		}
		if hasName(existing, e.Name, func(x domain.Employee) string { return x.Name }) {
			logger.Info("Employee exists, skipping", "name", e.Name)
			continue
		}
		rate, err := parseMoney(e.Rate)
		if err != nil {
			return fmt.Errorf("employee %q hourly_rate: %w", e.Name, err)
		}
		if _, err := employees.CreateEmployee(ctx, &domain.Employee{
			Name: e.Name, Email: e.Email, Phone: e.Phone, Role: e.Role, Skills: e.Skills, HourlyRate: rate,
		}); err != nil {
			return fmt.Errorf("employee %q: %w", e.Name, err)
		}
	}

	for _, eq := range data.Equipment {
		rate, err := parseMoney(eq.RentalRate)
		if err != nil {
			return fmt.Errorf("equipment %q rental_rate: %w", eq.Serial, err)
		}
		price, err := parseMoney(eq.SalePrice)
		if err != nil {
			return fmt.Errorf("equipment %q sale_price: %w", eq.Serial, err)
		}
		_, err = equipment.CreateEquipment(ctx, &domain.Equipment{
			SerialNumber: eq.Serial, Name: eq.Name, Category: domain.EquipmentCategory(eq.Category),
			RentalRate: rate, SalePrice: price,
		})
		if apperror.IsKind(err, apperror.KindConflict) {
			logger.Info("Equipment exists, skipping", "serial_number", eq.Serial)
			continue
		}
		if err != nil {
			return fmt.Errorf("equipment %q: %w", eq.Serial, err)
		}
	}
	return nil
}

func hasName[T any](list []T, name string, nameOf func(T) string) bool {
	for _, x := range list {
		if strings.EqualFold(nameOf(x), name) {
			return true
		}
	}
	return false
}

func parseMoney(s string) (decimal.NullDecimal, error) {
	if s == "" {
		return decimal.NullDecimal{}, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}, err
	}
	return decimal.NewNullDecimal(d), nil
}
