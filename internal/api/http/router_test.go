package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apihttp "eventrental-backend/internal/api/http"
	"eventrental-backend/internal/repository/memory"
	"eventrental-backend/internal/security"
	"eventrental-backend/internal/service"
)

type apiClient struct {
	t      *testing.T
	srv    *httptest.Server
	token  string
	header http.Header
}

func newServices(store *memory.Store) apihttp.Services {
	return apihttp.Services{
		Customers:    service.NewCustomerService(store),
		Employees:    service.NewEmployeeService(store),
		Equipment:    service.NewEquipmentService(store),
		Orders:       service.NewOrderService(store, nil),
		Reservations: service.NewReservationService(store),
		Schedules:    service.NewScheduleService(store),
	}
}

func newAPI(t *testing.T, tm security.TokenManager) *apiClient {
	t.Helper()
	store := memory.NewStore()
	srv := httptest.NewServer(apihttp.NewRouter(newServices(store), store, tm))
	t.Cleanup(srv.Close)
	return &apiClient{t: t, srv: srv}
}

func (c *apiClient) do(method, path string, body any) (int, map[string]any) {
	c.t.Helper()
	var rdr bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&rdr).Encode(body))
	}
	req, err := http.NewRequest(method, c.srv.URL+path, &rdr)
	require.NoError(c.t, err)
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(c.t, err)
	defer resp.Body.Close()
	c.header = resp.Header

	var out map[string]any
	var raw json.RawMessage
	require.NoError(c.t, json.NewDecoder(resp.Body).Decode(&raw))
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(c.t, json.Unmarshal(raw, &out))
	} else {
		out = map[string]any{"list": decodeList(c.t, raw)}
	}
	return resp.StatusCode, out
}

func decodeList(t *testing.T, raw json.RawMessage) []any {
	var list []any
	require.NoError(t, json.Unmarshal(raw, &list))
	return list
}

func idOf(t *testing.T, body map[string]any) string {
	t.Helper()
	id, ok := body["id"].(float64)
	require.True(t, ok, "response has no id: %v", body)
	return strconv.FormatInt(int64(id), 10)
}

// seed creates a customer, a unit and an order and returns their ids.
func (c *apiClient) seed() (customerID, equipmentID, orderID string) {
	c.t.Helper()
	status, body := c.do(http.MethodPost, "/api/customers", map[string]any{"name": "Acme Events"})
	require.Equal(c.t, http.StatusCreated, status)
	customerID = idOf(c.t, body)

	status, body = c.do(http.MethodPost, "/api/equipment", map[string]any{
		"name": "Line array", "serial_number": "LA-001", "category": "audio",
	})
	require.Equal(c.t, http.StatusCreated, status)
	equipmentID = idOf(c.t, body)

	cid, _ := strconv.ParseInt(customerID, 10, 64)
	status, body = c.do(http.MethodPost, "/api/orders", map[string]any{"customer_id": cid, "type": "order"})
	require.Equal(c.t, http.StatusCreated, status)
	orderID = idOf(c.t, body)
	return customerID, equipmentID, orderID
}

func TestHealthz(t *testing.T) {
	api := newAPI(t, nil)

	status, body := api.do(http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", body["status"])
	assert.NotEmpty(t, api.header.Get("X-Request-ID"))
}

type failingPinger struct{}

func (failingPinger) Ping(context.Context) error { return errors.New("connection refused") }

func TestHealthz_Unavailable(t *testing.T) {
	store := memory.NewStore()
	srv := httptest.NewServer(apihttp.NewRouter(newServices(store), failingPinger{}, nil))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestRequestIDIsEchoed(t *testing.T) {
	api := newAPI(t, nil)
	id := "4f8a2c1e-4c7b-4bde-9b0b-1f2d3c4b5a69"

	req, err := http.NewRequest(http.MethodGet, api.srv.URL+"/healthz", nil)
	require.NoError(t, err)
	req.Header.Set("X-Request-ID", id)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, id, resp.Header.Get("X-Request-ID"))
}

func TestUnknownRoute(t *testing.T) {
	api := newAPI(t, nil)

	status, body := api.do(http.MethodGet, "/api/nothing-here", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Route not found", body["error"])
}

func TestAuth(t *testing.T) {
	tm := security.NewTokenManager("0123456789abcdef0123456789abcdef", "eventrental-test", time.Hour)
	api := newAPI(t, tm)

	t.Run("HealthIsPublic", func(t *testing.T) {
		status, _ := api.do(http.MethodGet, "/healthz", nil)
		assert.Equal(t, http.StatusOK, status)
	})

	t.Run("MissingToken", func(t *testing.T) {
		status, body := api.do(http.MethodGet, "/api/customers", nil)
		assert.Equal(t, http.StatusUnauthorized, status)
		assert.NotEmpty(t, body["error"])
		assert.Contains(t, api.header.Get("WWW-Authenticate"), "Bearer")
	})

	t.Run("InvalidToken", func(t *testing.T) {
		api.token = "not-a-token"
		defer func() { api.token = "" }()
		status, _ := api.do(http.MethodGet, "/api/customers", nil)
		assert.Equal(t, http.StatusUnauthorized, status)
	})

	t.Run("ValidToken", func(t *testing.T) {
		token, err := tm.GenerateAccessToken("office-1", []string{"staff"})
		require.NoError(t, err)
		api.token = token
		defer func() { api.token = "" }()

		status, body := api.do(http.MethodGet, "/api/customers", nil)
		assert.Equal(t, http.StatusOK, status)
		assert.Empty(t, body["list"])
	})
}

func TestReservationLifecycle(t *testing.T) {
	api := newAPI(t, nil)
	_, equipmentID, _ := api.seed()
	eqID, _ := strconv.ParseInt(equipmentID, 10, 64)

	status, first := api.do(http.MethodPost, "/api/reservations", map[string]any{
		"equipment_id": eqID, "customer_name": "Acme Events", "event_date": "2025-07-04",
	})
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "reserved", first["status"])

	_, eq := api.do(http.MethodGet, "/api/equipment/"+equipmentID, nil)
	assert.Equal(t, "reserved", eq["status"])

	t.Run("DoubleBookingConflict", func(t *testing.T) {
		status, body := api.do(http.MethodPost, "/api/reservations", map[string]any{
			"equipment_id": eqID, "customer_name": "Other", "event_date": "2025-07-04",
		})
		assert.Equal(t, http.StatusConflict, status)
		assert.Equal(t, "Equipment is already reserved for this date", body["error"])
		conflict, ok := body["conflict"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, first["id"], conflict["id"])
	})

	t.Run("Availability", func(t *testing.T) {
		status, body := api.do(http.MethodGet, "/api/equipment/"+equipmentID+"/availability?date=2025-07-04", nil)
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, false, body["available"])

		status, body = api.do(http.MethodGet, "/api/equipment/"+equipmentID+"/availability?date=2025-07-04&exclude="+idOf(t, first), nil)
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, true, body["available"])
	})

	t.Run("MissingFields", func(t *testing.T) {
		status, body := api.do(http.MethodPost, "/api/reservations", map[string]any{"customer_name": "Nobody"})
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "Equipment and event date are required", body["error"])
	})

	t.Run("CancelReleasesEquipment", func(t *testing.T) {
		status, body := api.do(http.MethodPut, "/api/reservations/"+idOf(t, first), map[string]any{"status": "cancelled"})
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, "cancelled", body["status"])

		_, eq := api.do(http.MethodGet, "/api/equipment/"+equipmentID, nil)
		assert.Equal(t, "available", eq["status"])
	})

	t.Run("Delete", func(t *testing.T) {
		status, body := api.do(http.MethodDelete, "/api/reservations/"+idOf(t, first), nil)
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, "Reservation deleted", body["message"])

		status, _ = api.do(http.MethodGet, "/api/reservations/"+idOf(t, first), nil)
		assert.Equal(t, http.StatusNotFound, status)
	})
}

func TestOrderItems(t *testing.T) {
	api := newAPI(t, nil)
	_, _, orderID := api.seed()

	status, body := api.do(http.MethodPost, "/api/orders/"+orderID+"/items", map[string]any{
		"item_type": "sale", "description": "Gaffer tape", "quantity": 2, "unit_price": "12.50",
	})
	require.Equal(t, http.StatusCreated, status)
	item := body["item"].(map[string]any)
	order := body["order"].(map[string]any)
	assert.Equal(t, "25", item["total"])
	assert.Equal(t, "25", order["sales_total"])
	assert.Equal(t, "25", order["total_cost"])

	_, body = api.do(http.MethodPost, "/api/orders/"+orderID+"/items", map[string]any{
		"item_type": "operator", "skill": "A1", "unit_price": "50", "hours": "3",
	})
	order = body["order"].(map[string]any)
	assert.Equal(t, "175", order["total_cost"])

	status, body = api.do(http.MethodDelete, "/api/orders/"+orderID+"/items/"+idOf(t, item), nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Item deleted", body["message"])
	order = body["order"].(map[string]any)
	assert.Equal(t, "0", order["sales_total"])
	assert.Equal(t, "150", order["total_cost"])

	status, body = api.do(http.MethodPost, "/api/orders/"+orderID+"/recalculate", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "150", body["total_cost"])

	status, body = api.do(http.MethodPost, "/api/orders/"+orderID+"/items", map[string]any{"unit_price": "10"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.NotEmpty(t, body["error"])
}

func TestScheduleConflict(t *testing.T) {
	api := newAPI(t, nil)

	status, body := api.do(http.MethodPost, "/api/employees", map[string]any{"name": "Dana Reyes"})
	require.Equal(t, http.StatusCreated, status)
	empID, _ := strconv.ParseInt(idOf(t, body), 10, 64)

	status, first := api.do(http.MethodPost, "/api/schedules", map[string]any{"employee_id": empID, "schedule_date": "2025-07-04"})
	require.Equal(t, http.StatusCreated, status)

	status, body = api.do(http.MethodPost, "/api/schedules", map[string]any{"employee_id": empID, "schedule_date": "2025-07-04"})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "Employee already has a schedule for this date", body["error"])
	assert.NotNil(t, body["conflict"])

	status, body = api.do(http.MethodGet, "/api/employees/"+strconv.FormatInt(empID, 10)+"/availability?date=2025-07-04", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, false, body["available"])

	status, _ = api.do(http.MethodPut, "/api/schedules/"+idOf(t, first), map[string]any{"notes": "load-in at 6"})
	assert.Equal(t, http.StatusOK, status)
}

func TestBadInput(t *testing.T) {
	api := newAPI(t, nil)

	status, body := api.do(http.MethodGet, "/api/orders/abc", nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.NotEmpty(t, body["error"])

	req, err := http.NewRequest(http.MethodPost, api.srv.URL+"/api/customers", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	status, _ = api.do(http.MethodGet, "/api/reservations?start=07/04/2025", nil)
	assert.Equal(t, http.StatusBadRequest, status)
}
