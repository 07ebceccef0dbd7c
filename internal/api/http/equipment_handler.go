package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"eventrental-backend/internal/domain"
	"eventrental-backend/internal/repository"
	"eventrental-backend/internal/service"
)

type equipmentHandler struct {
	svc service.EquipmentService
}

func newEquipmentHandler(svc service.EquipmentService) *equipmentHandler {
	return &equipmentHandler{svc: svc}
}

func (h *equipmentHandler) register(r *mux.Router) {
	r.HandleFunc("/equipment", h.list).Methods(http.MethodGet)
	r.HandleFunc("/equipment", h.create).Methods(http.MethodPost)
	r.HandleFunc("/equipment/{id}", h.get).Methods(http.MethodGet)
	r.HandleFunc("/equipment/{id}", h.update).Methods(http.MethodPut)
	r.HandleFunc("/equipment/{id}", h.delete).Methods(http.MethodDelete)
	r.HandleFunc("/equipment/{id}/history", h.history).Methods(http.MethodGet)
	r.HandleFunc("/equipment/{id}/availability", h.availability).Methods(http.MethodGet)
	r.HandleFunc("/equipment/{id}/maintenance", h.maintenance(true)).Methods(http.MethodPut)
	r.HandleFunc("/equipment/{id}/maintenance", h.maintenance(false)).Methods(http.MethodDelete)
}

func (h *equipmentHandler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	list, err := h.svc.ListEquipment(r.Context(), repository.EquipmentFilter{
		Category: domain.EquipmentCategory(q.Get("category")),
		Status:   domain.EquipmentStatus(q.Get("status")),
		Search:   q.Get("search"),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *equipmentHandler) create(w http.ResponseWriter, r *http.Request) {
	var e domain.Equipment
	if err := decodeJSON(r, &e); err != nil {
		writeError(w, r, err)
		return
	}
	out, err := h.svc.CreateEquipment(r.Context(), &e)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, out)
}

func (h *equipmentHandler) get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	out, err := h.svc.GetEquipment(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *equipmentHandler) update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var e domain.Equipment
	if err := decodeJSON(r, &e); err != nil {
		writeError(w, r, err)
		return
	}
	e.ID = id
	out, err := h.svc.UpdateEquipment(r.Context(), &e)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *equipmentHandler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.svc.DeleteEquipment(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	writeMessage(w, "Equipment deleted")
}

func (h *equipmentHandler) history(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	out, err := h.svc.GetHistory(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *equipmentHandler) availability(w http.ResponseWriter, r *http.Request) {
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
	out, err := h.svc.CheckAvailability(r.Context(), id, date, exclude)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *equipmentHandler) maintenance(on bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "id")
		if err != nil {
			writeError(w, r, err)
			return
		}
		out, err := h.svc.SetMaintenance(r.Context(), id, on)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, out)
	}
}
