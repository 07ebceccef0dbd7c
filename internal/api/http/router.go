package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"eventrental-backend/internal/apperror"
	"eventrental-backend/internal/domain"
	"eventrental-backend/internal/logger"
	"eventrental-backend/internal/security"
	"eventrental-backend/internal/service"
)

// Services are the operations the JSON API exposes.
type Services struct {
	Customers    service.CustomerService
	Employees    service.EmployeeService
	Equipment    service.EquipmentService
	Orders       service.OrderService
	Reservations service.ReservationService
	Schedules    service.ScheduleService
}

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// NewRouter builds the API router. A nil token manager disables
// authentication.
func NewRouter(svc Services, health Pinger, tm security.TokenManager) *mux.Router {
	r := mux.NewRouter()
	r.Use(requestIDMiddleware, loggingMiddleware)
	if tm != nil {
		r.Use(authMiddleware(tm))
	}
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, apperror.NotFound("Route not found"))
	})

	r.HandleFunc("/healthz", healthHandler(health)).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	newCustomerHandler(svc.Customers).register(api)
	newEmployeeHandler(svc.Employees, svc.Schedules).register(api)
	newEquipmentHandler(svc.Equipment).register(api)
	newOrderHandler(svc.Orders).register(api)
	newReservationHandler(svc.Reservations).register(api)
	newScheduleHandler(svc.Schedules).register(api)
	return r
}

func healthHandler(p Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if p != nil {
			if err := p.Ping(r.Context()); err != nil {
				logger.WarnContext(r.Context(), "Health check failed", "error", err)
				writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("Failed to encode response", "error", err)
	}
}

// writeError renders err as {"error": ..., "conflict": ...}. Internal causes
// are logged, never returned.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	appErr := apperror.From(err)
	body := map[string]any{"error": appErr.Message()}
	if c, ok := appErr.Detail(apperror.DetailConflict); ok {
		body["conflict"] = c
	}
	if appErr.Kind() == apperror.KindInternal {
		logger.ErrorContext(r.Context(), "Request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}
	writeJSON(w, appErr.HTTPStatus(), body)
}

func writeMessage(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusOK, map[string]string{"message": msg})
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return apperror.Validation("request body is required")
		}
		return apperror.Validationf("invalid request body: %v", err)
	}
	return nil
}

func pathID(r *http.Request, name string) (int64, error) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperror.Validationf("invalid %s %q", name, raw)
	}
	return id, nil
}

func queryID(r *http.Request, name string) (int64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 0 {
		return 0, apperror.Validationf("invalid %s %q", name, raw)
	}
	return id, nil
}

func queryDate(r *http.Request, name string) (domain.Date, error) {
	d, err := domain.ParseDate(r.URL.Query().Get(name))
	if err != nil {
		return domain.Date{}, apperror.Validationf("invalid %s: %v", name, err)
	}
	return d, nil
}
