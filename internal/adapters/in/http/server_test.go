package http_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	adapter "dispatch/internal/adapters/in/http"
	"dispatch/internal/adapters/out/memstore"
	"dispatch/internal/core/application/usecases"
	"dispatch/internal/jobs"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAPI(t *testing.T) *echo.Echo {
	t.Helper()

	store, err := memstore.NewStore()
	require.NoError(t, err)
	assignment, err := usecases.NewAssignmentService(store.OrderRepository(), store.CourierRepository())
	require.NoError(t, err)
	lifecycle, err := usecases.NewLifecycleService(store.OrderRepository(), store.CourierRepository(), assignment)
	require.NoError(t, err)
	couriers, err := usecases.NewCourierService(store.CourierRepository())
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	simulator, err := jobs.NewMovementSimulator(lifecycle, store.OrderRepository(), jobs.MaxIntervalMS, 0, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = simulator.Stop() })

	e := echo.New()
	adapter.NewServer(lifecycle, couriers, simulator, store).RegisterRoutes(e)
	return e
}

func do(t *testing.T, e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

const validOrderBody = `{
	"pickup": {"lat": 19.0760, "lng": 72.8777},
	"drop": {"lat": 19.0896, "lng": 72.8656},
	"deliveryType": "NORMAL",
	"package": {"weight": 2.5, "size": "medium"}
}`

func createTestOrder(t *testing.T, e *echo.Echo) string {
	t.Helper()

	rec := do(t, e, http.MethodPost, "/api/v1/orders", validOrderBody)
	require.Equal(t, http.StatusCreated, rec.Code)
	body := decode(t, rec)
	data := body["data"].(map[string]any)
	orderData := data["order"].(map[string]any)
	return orderData["id"].(string)
}

func Test_Server_Orders(t *testing.T) {
	t.Run("create assigns a courier and returns both results", func(t *testing.T) {
		e := newTestAPI(t)

		rec := do(t, e, http.MethodPost, "/api/v1/orders", validOrderBody)
		require.Equal(t, http.StatusCreated, rec.Code)

		body := decode(t, rec)
		assert.Equal(t, true, body["success"])

		data := body["data"].(map[string]any)
		orderData := data["order"].(map[string]any)
		assert.Equal(t, "ORD_0001", orderData["id"])
		assert.Equal(t, "ASSIGNED", orderData["state"])
		assert.Equal(t, "COU_001", orderData["courierId"])

		assignment := data["assignment"].(map[string]any)
		assert.Equal(t, "ASSIGNED", assignment["outcome"])
	})

	t.Run("create rejects an invalid payload with every violation", func(t *testing.T) {
		e := newTestAPI(t)

		rec := do(t, e, http.MethodPost, "/api/v1/orders",
			`{"deliveryType": "TELEPORT", "package": {"weight": -1, "size": "huge"}}`)
		require.Equal(t, http.StatusBadRequest, rec.Code)

		body := decode(t, rec)
		assert.Equal(t, false, body["success"])
		assert.Contains(t, body["error"], "invalid delivery type")
		assert.Contains(t, body["error"], "pickup location")
	})

	t.Run("get returns 404 for an unknown order", func(t *testing.T) {
		e := newTestAPI(t)

		rec := do(t, e, http.MethodGet, "/api/v1/orders/ORD_0404", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("list returns created orders", func(t *testing.T) {
		e := newTestAPI(t)
		createTestOrder(t, e)
		createTestOrder(t, e)

		rec := do(t, e, http.MethodGet, "/api/v1/orders", "")
		require.Equal(t, http.StatusOK, rec.Code)

		body := decode(t, rec)
		assert.Len(t, body["data"], 2)
	})

	t.Run("state endpoint refuses non-manual transitions", func(t *testing.T) {
		e := newTestAPI(t)
		id := createTestOrder(t, e)

		rec := do(t, e, http.MethodPatch, "/api/v1/orders/"+id+"/state", `{"state": "PICKED_UP"}`)
		require.Equal(t, http.StatusBadRequest, rec.Code)

		body := decode(t, rec)
		assert.Contains(t, body["error"], "must be automatic")
	})

	t.Run("state endpoint cancels through the allow-list", func(t *testing.T) {
		e := newTestAPI(t)
		id := createTestOrder(t, e)

		rec := do(t, e, http.MethodPatch, "/api/v1/orders/"+id+"/state", `{"state": "CANCELLED"}`)
		require.Equal(t, http.StatusOK, rec.Code)

		body := decode(t, rec)
		orderData := body["data"].(map[string]any)
		assert.Equal(t, "CANCELLED", orderData["state"])
		assert.Nil(t, orderData["courierId"])
	})

	t.Run("state endpoint validates the state value", func(t *testing.T) {
		e := newTestAPI(t)
		id := createTestOrder(t, e)

		rec := do(t, e, http.MethodPatch, "/api/v1/orders/"+id+"/state", `{"state": "LOST"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		rec = do(t, e, http.MethodPatch, "/api/v1/orders/"+id+"/state", `{}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("delete cancels once and only once", func(t *testing.T) {
		e := newTestAPI(t)
		id := createTestOrder(t, e)

		rec := do(t, e, http.MethodDelete, "/api/v1/orders/"+id, "")
		require.Equal(t, http.StatusOK, rec.Code)
		orderData := decode(t, rec)["data"].(map[string]any)
		assert.Equal(t, "CANCELLED", orderData["state"])

		rec = do(t, e, http.MethodDelete, "/api/v1/orders/"+id, "")
		require.Equal(t, http.StatusBadRequest, rec.Code)
		body := decode(t, rec)
		assert.Contains(t, body["error"], "terminal")
	})

	t.Run("progress advances the order one stage at a time", func(t *testing.T) {
		e := newTestAPI(t)
		id := createTestOrder(t, e)

		// Courier COU_001 starts on the pickup point, so the first call
		// transitions instead of moving.
		rec := do(t, e, http.MethodPost, "/api/v1/orders/"+id+"/progress", `{"stepSize": 0.01}`)
		require.Equal(t, http.StatusOK, rec.Code)

		body := decode(t, rec)
		data := body["data"].(map[string]any)
		orderData := data["order"].(map[string]any)
		assert.Equal(t, "PICKED_UP", orderData["state"])
	})
}

func Test_Server_Couriers(t *testing.T) {
	t.Run("lists the seeded fleet", func(t *testing.T) {
		e := newTestAPI(t)

		rec := do(t, e, http.MethodGet, "/api/v1/couriers", "")
		require.Equal(t, http.StatusOK, rec.Code)

		body := decode(t, rec)
		assert.Len(t, body["data"], 10)
	})

	t.Run("available excludes assigned couriers", func(t *testing.T) {
		e := newTestAPI(t)
		createTestOrder(t, e)

		rec := do(t, e, http.MethodGet, "/api/v1/couriers/available", "")
		require.Equal(t, http.StatusOK, rec.Code)

		body := decode(t, rec)
		assert.Len(t, body["data"], 9)
	})

	t.Run("location update persists", func(t *testing.T) {
		e := newTestAPI(t)

		rec := do(t, e, http.MethodPatch, "/api/v1/couriers/COU_003/location",
			`{"location": {"lat": 19.2, "lng": 72.95}}`)
		require.Equal(t, http.StatusOK, rec.Code)

		rec = do(t, e, http.MethodGet, "/api/v1/couriers/COU_003", "")
		require.Equal(t, http.StatusOK, rec.Code)
		body := decode(t, rec)
		location := body["data"].(map[string]any)["location"].(map[string]any)
		assert.Equal(t, 19.2, location["lat"])
		assert.Equal(t, 72.95, location["lng"])
	})

	t.Run("location update requires a location object", func(t *testing.T) {
		e := newTestAPI(t)

		rec := do(t, e, http.MethodPatch, "/api/v1/couriers/COU_003/location", `{}`)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		body := decode(t, rec)
		assert.Contains(t, body["error"], "location")
	})

	t.Run("move steps a courier towards a target", func(t *testing.T) {
		e := newTestAPI(t)

		rec := do(t, e, http.MethodPost, "/api/v1/couriers/COU_001/move",
			`{"targetLocation": {"lat": 20.0, "lng": 73.0}, "stepSize": 0.05}`)
		require.Equal(t, http.StatusOK, rec.Code)

		data := decode(t, rec)["data"].(map[string]any)
		assert.Equal(t, false, data["reached"])
		courierData := data["courier"].(map[string]any)
		assert.Greater(t, courierData["location"].(map[string]any)["lat"], 19.0760)
	})

	t.Run("move requires a target location", func(t *testing.T) {
		e := newTestAPI(t)

		rec := do(t, e, http.MethodPost, "/api/v1/couriers/COU_001/move", `{"stepSize": 0.05}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown courier returns 404", func(t *testing.T) {
		e := newTestAPI(t)

		rec := do(t, e, http.MethodGet, "/api/v1/couriers/COU_404", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func Test_Server_Simulation(t *testing.T) {
	t.Run("status reflects start and stop", func(t *testing.T) {
		e := newTestAPI(t)

		rec := do(t, e, http.MethodGet, "/api/v1/simulation/status", "")
		require.Equal(t, http.StatusOK, rec.Code)
		status := decode(t, rec)["data"].(map[string]any)
		assert.Equal(t, false, status["running"])

		rec = do(t, e, http.MethodPost, "/api/v1/simulation/start", "")
		require.Equal(t, http.StatusOK, rec.Code)
		status = decode(t, rec)["data"].(map[string]any)
		assert.Equal(t, true, status["running"])

		rec = do(t, e, http.MethodPost, "/api/v1/simulation/start", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		rec = do(t, e, http.MethodPost, "/api/v1/simulation/stop", "")
		require.Equal(t, http.StatusOK, rec.Code)

		rec = do(t, e, http.MethodPost, "/api/v1/simulation/stop", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("speed and step size validate their ranges", func(t *testing.T) {
		e := newTestAPI(t)

		rec := do(t, e, http.MethodPatch, "/api/v1/simulation/speed", `{"interval": 500}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		rec = do(t, e, http.MethodPatch, "/api/v1/simulation/speed", `{}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		rec = do(t, e, http.MethodPatch, "/api/v1/simulation/step-size", `{"stepSize": 0.5}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		rec = do(t, e, http.MethodPatch, "/api/v1/simulation/speed", `{"interval": 5000}`)
		require.Equal(t, http.StatusOK, rec.Code)
		status := decode(t, rec)["data"].(map[string]any)
		assert.Equal(t, float64(5000), status["intervalMs"])

		rec = do(t, e, http.MethodPatch, "/api/v1/simulation/step-size", `{"stepSize": 0.01}`)
		require.Equal(t, http.StatusOK, rec.Code)
		status = decode(t, rec)["data"].(map[string]any)
		assert.Equal(t, 0.01, status["stepSize"])
	})

	t.Run("force progress advances a specific order", func(t *testing.T) {
		e := newTestAPI(t)
		id := createTestOrder(t, e)

		rec := do(t, e, http.MethodPost, "/api/v1/simulation/orders/"+id+"/force-progress", "")
		require.Equal(t, http.StatusOK, rec.Code)

		data := decode(t, rec)["data"].(map[string]any)
		orderData := data["order"].(map[string]any)
		assert.Equal(t, "PICKED_UP", orderData["state"])
	})

	t.Run("force progress requires an assignable order", func(t *testing.T) {
		e := newTestAPI(t)

		rec := do(t, e, http.MethodPost, "/api/v1/simulation/orders/ORD_0404/force-progress", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("debug exposes the progression decision", func(t *testing.T) {
		e := newTestAPI(t)
		id := createTestOrder(t, e)

		rec := do(t, e, http.MethodGet, "/api/v1/simulation/orders/"+id+"/debug", "")
		require.Equal(t, http.StatusOK, rec.Code)

		data := decode(t, rec)["data"].(map[string]any)
		require.NotNil(t, data["courier"])
		progression := data["progression"].(map[string]any)
		assert.Equal(t, true, progression["allowed"])
		distances := data["distances"].(map[string]any)
		assert.Equal(t, 0.01, distances["threshold"])
	})
}

func Test_Server_HealthAndStats(t *testing.T) {
	t.Run("health reports ok", func(t *testing.T) {
		e := newTestAPI(t)

		rec := do(t, e, http.MethodGet, "/api/v1/health", "")
		require.Equal(t, http.StatusOK, rec.Code)
		data := decode(t, rec)["data"].(map[string]any)
		assert.Equal(t, "ok", data["status"])
	})

	t.Run("stats track fleet and order counts", func(t *testing.T) {
		e := newTestAPI(t)
		createTestOrder(t, e)

		rec := do(t, e, http.MethodGet, "/api/v1/stats", "")
		require.Equal(t, http.StatusOK, rec.Code)

		data := decode(t, rec)["data"].(map[string]any)
		assert.Equal(t, float64(1), data["totalOrders"])
		assert.Equal(t, float64(10), data["totalCouriers"])
		assert.Equal(t, float64(9), data["availableCouriers"])
		assert.Equal(t, float64(1), data["ordersInProgress"])
	})
}
