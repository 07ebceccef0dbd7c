package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"eventrental-backend/internal/domain"
	"eventrental-backend/internal/repository"
	"eventrental-backend/internal/service"
)

type customerHandler struct {
	svc service.CustomerService
}

func newCustomerHandler(svc service.CustomerService) *customerHandler {
	return &customerHandler{svc: svc}
}

func (h *customerHandler) register(r *mux.Router) {
	r.HandleFunc("/customers", h.list).Methods(http.MethodGet)
	r.HandleFunc("/customers", h.create).Methods(http.MethodPost)
	r.HandleFunc("/customers/{id}", h.get).Methods(http.MethodGet)
	r.HandleFunc("/customers/{id}", h.update).Methods(http.MethodPut)
	r.HandleFunc("/customers/{id}", h.delete).Methods(http.MethodDelete)
}

func (h *customerHandler) list(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.ListCustomers(r.Context(), repository.CustomerFilter{Search: r.URL.Query().Get("search")})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *customerHandler) create(w http.ResponseWriter, r *http.Request) {
	var c domain.Customer
	if err := decodeJSON(r, &c); err != nil {
		writeError(w, r, err)
		return
	}
	out, err := h.svc.CreateCustomer(r.Context(), &c)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, out)
}

func (h *customerHandler) get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	out, err := h.svc.GetCustomer(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *customerHandler) update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var c domain.Customer
	if err := decodeJSON(r, &c); err != nil {
		writeError(w, r, err)
		return
	}
	c.ID = id
	out, err := h.svc.UpdateCustomer(r.Context(), &c)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *customerHandler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.svc.DeleteCustomer(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	writeMessage(w, "Customer deleted")
}

type employeeHandler struct {
	svc       service.EmployeeService
	schedules service.ScheduleService
}

func newEmployeeHandler(svc service.EmployeeService, schedules service.ScheduleService) *employeeHandler {
	return &employeeHandler{svc: svc, schedules: schedules}
}

func (h *employeeHandler) register(r *mux.Router) {
	r.HandleFunc("/employees", h.list).Methods(http.MethodGet)
	r.HandleFunc("/employees", h.create).Methods(http.MethodPost)
	r.HandleFunc("/employees/{id}", h.get).Methods(http.MethodGet)
	r.HandleFunc("/employees/{id}", h.update).Methods(http.MethodPut)
	r.HandleFunc("/employees/{id}", h.delete).Methods(http.MethodDelete)
	r.HandleFunc("/employees/{id}/availability", h.availability).Methods(http.MethodGet)
}

func (h *employeeHandler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	list, err := h.svc.ListEmployees(r.Context(), repository.EmployeeFilter{Search: q.Get("search"), Status: q.Get("status")})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *employeeHandler) create(w http.ResponseWriter, r *http.Request) {
	var e domain.Employee
	if err := decodeJSON(r, &e); err != nil {
		writeError(w, r, err)
		return
	}
	out, err := h.svc.CreateEmployee(r.Context(), &e)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, out)
}

func (h *employeeHandler) get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	out, err := h.svc.GetEmployee(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *employeeHandler) update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var e domain.Employee
	if err := decodeJSON(r, &e); err != nil {
		writeError(w, r, err)
		return
	}
	e.ID = id
	out, err := h.svc.UpdateEmployee(r.Context(), &e)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *employeeHandler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.svc.DeleteEmployee(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	writeMessage(w, "Employee deleted")
}

func (h *employeeHandler) availability(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	date, err := queryDate(r, "date")
	if err != nil {
		writeError(w, r, err)
		return
	}
	exclude, err := queryID(r, "exclude")
	if err != nil {
		writeError(w, r, err)
		return
	}
	out, err := h.schedules.CheckAvailability(r.Context(), id, date, exclude)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}
