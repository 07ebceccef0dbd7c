package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"eventrental-backend/internal/domain"
	"eventrental-backend/internal/repository"
	"eventrental-backend/internal/service"
)

type orderHandler struct {
	svc service.OrderService
}

func newOrderHandler(svc service.OrderService) *orderHandler {
	return &orderHandler{svc: svc}
}

func (h *orderHandler) register(r *mux.Router) {
	r.HandleFunc("/orders", h.list).Methods(http.MethodGet)
	r.HandleFunc("/orders", h.create).Methods(http.MethodPost)
	r.HandleFunc("/orders/{id}", h.get).Methods(http.MethodGet)
	r.HandleFunc("/orders/{id}", h.update).Methods(http.MethodPut)
	r.HandleFunc("/orders/{id}", h.delete).Methods(http.MethodDelete)
	r.HandleFunc("/orders/{id}/recalculate", h.recalculate).Methods(http.MethodPost)

	r.HandleFunc("/orders/{id}/items", h.listItems).Methods(http.MethodGet)
	r.HandleFunc("/orders/{id}/items", h.addItem).Methods(http.MethodPost)
	r.HandleFunc("/orders/{id}/items/{itemId}", h.deleteItem).Methods(http.MethodDelete)

	r.HandleFunc("/orders/{id}/workers", h.listWorkers).Methods(http.MethodGet)
	r.HandleFunc("/orders/{id}/workers", h.assignWorker).Methods(http.MethodPost)
	r.HandleFunc("/orders/{id}/workers/{workerId}", h.removeWorker).Methods(http.MethodDelete)
}

func (h *orderHandler) list(w http.ResponseWriter, r *http.Request) {
	customerID, err := queryID(r, "customer_id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	q := r.URL.Query()
	list, err := h.svc.ListOrders(r.Context(), repository.OrderFilter{
		Type:       domain.OrderType(q.Get("type")),
		Status:     domain.OrderStatus(q.Get("status")),
		CustomerID: customerID,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *orderHandler) create(w http.ResponseWriter, r *http.Request) {
	var o domain.Order
	if err := decodeJSON(r, &o); err != nil {
		writeError(w, r, err)
		return
	}
	out, err := h.svc.CreateOrder(r.Context(), &o)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, out)
}

func (h *orderHandler) get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	out, err := h.svc.GetOrder(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *orderHandler) update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var o domain.Order
	if err := decodeJSON(r, &o); err != nil {
		writeError(w, r, err)
		return
	}
	o.ID = id
	out, err := h.svc.UpdateOrder(r.Context(), &o)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *orderHandler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.svc.DeleteOrder(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	writeMessage(w, "Order deleted")
}

func (h *orderHandler) recalculate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	out, err := h.svc.RecalculateTotals(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *orderHandler) listItems(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	items, err := h.svc.ListItems(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

type itemResponse struct {
	Item  *domain.OrderItem `json:"item"`
	Order *domain.Order     `json:"order"`
}

func (h *orderHandler) addItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var item domain.OrderItem
	if err := decodeJSON(r, &item); err != nil {
		writeError(w, r, err)
		return
	}
	item.OrderID = id
	created, order, err := h.svc.AddItem(r.Context(), &item)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, itemResponse{Item: created, Order: order})
}

func (h *orderHandler) deleteItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	itemID, err := pathID(r, "itemId")
	if err != nil {
		writeError(w, r, err)
		return
	}
	order, err := h.svc.DeleteItem(r.Context(), id, itemID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "Item deleted", "order": order})
}

func (h *orderHandler) listWorkers(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	workers, err := h.svc.ListWorkers(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, workers)
}

func (h *orderHandler) assignWorker(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var worker domain.OrderWorker
	if err := decodeJSON(r, &worker); err != nil {
		writeError(w, r, err)
		return
	}
	worker.OrderID = id
	out, err := h.svc.AssignWorker(r.Context(), &worker)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, out)
}

func (h *orderHandler) removeWorker(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	workerID, err := pathID(r, "workerId")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.svc.RemoveWorker(r.Context(), id, workerID); err != nil {
		writeError(w, r, err)
		return
	}
	writeMessage(w, "Worker removed")
}
