package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"eventrental-backend/internal/domain"
	"eventrental-backend/internal/repository"
	"eventrental-backend/internal/service"
)

type reservationHandler struct {
	svc service.ReservationService
}

func newReservationHandler(svc service.ReservationService) *reservationHandler {
	return &reservationHandler{svc: svc}
}

func (h *reservationHandler) register(r *mux.Router) {
	r.HandleFunc("/reservations", h.list).Methods(http.MethodGet)
	r.HandleFunc("/reservations", h.create).Methods(http.MethodPost)
	r.HandleFunc("/reservations/{id}", h.get).Methods(http.MethodGet)
	r.HandleFunc("/reservations/{id}", h.update).Methods(http.MethodPut)
	r.HandleFunc("/reservations/{id}", h.delete).Methods(http.MethodDelete)
}

func (h *reservationHandler) list(w http.ResponseWriter, r *http.Request) {
	var f repository.ReservationFilter
	var err error
	if f.Start, err = queryDate(r, "start"); err != nil {
		writeError(w, r, err)
		return
	}
	if f.End, err = queryDate(r, "end"); err != nil {
		writeError(w, r, err)
		return
	}
	if f.EquipmentID, err = queryID(r, "equipment_id"); err != nil {
		writeError(w, r, err)
		return
	}
	list, err := h.svc.ListReservations(r.Context(), f)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *reservationHandler) create(w http.ResponseWriter, r *http.Request) {
	var rs domain.Reservation
	if err := decodeJSON(r, &rs); err != nil {
		writeError(w, r, err)
		return
	}
	out, err := h.svc.CreateReservation(r.Context(), &rs)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, out)
}

func (h *reservationHandler) get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	out, err := h.svc.GetReservation(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *reservationHandler) update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var patch service.ReservationPatch
	if err := decodeJSON(r, &patch); err != nil {
		writeError(w, r, err)
		return
	}
	out, err := h.svc.UpdateReservation(r.Context(), id, patch)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *reservationHandler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.svc.DeleteReservation(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	writeMessage(w, "Reservation deleted")
}

type scheduleHandler struct {
	svc service.ScheduleService
}

func newScheduleHandler(svc service.ScheduleService) *scheduleHandler {
	return &scheduleHandler{svc: svc}
}

func (h *scheduleHandler) register(r *mux.Router) {
	r.HandleFunc("/schedules", h.list).Methods(http.MethodGet)
	r.HandleFunc("/schedules", h.create).Methods(http.MethodPost)
	r.HandleFunc("/schedules/{id}", h.get).Methods(http.MethodGet)
	r.HandleFunc("/schedules/{id}", h.update).Methods(http.MethodPut)
	r.HandleFunc("/schedules/{id}", h.delete).Methods(http.MethodDelete)
}

func (h *scheduleHandler) list(w http.ResponseWriter, r *http.Request) {
	f := repository.ScheduleFilter{Status: domain.ScheduleStatus(r.URL.Query().Get("status"))}
	var err error
	if f.EmployeeID, err = queryID(r, "employee_id"); err != nil {
		writeError(w, r, err)
		return
	}
	if f.Start, err = queryDate(r, "start"); err != nil {
		writeError(w, r, err)
		return
	}
	if f.End, err = queryDate(r, "end"); err != nil {
		writeError(w, r, err)
		return
	}
	list, err := h.svc.ListSchedules(r.Context(), f)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *scheduleHandler) create(w http.ResponseWriter, r *http.Request) {
	var s domain.EmployeeSchedule
	if err := decodeJSON(r, &s); err != nil {
		writeError(w, r, err)
		return
	}
	out, err := h.svc.CreateSchedule(r.Context(), &s)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, out)
}

func (h *scheduleHandler) get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	out, err := h.svc.GetSchedule(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *scheduleHandler) update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var patch service.SchedulePatch
	if err := decodeJSON(r, &patch); err != nil {
		writeError(w, r, err)
		return
	}
	out, err := h.svc.UpdateSchedule(r.Context(), id, patch)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *scheduleHandler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.svc.DeleteSchedule(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	writeMessage(w, "Schedule deleted")
}
