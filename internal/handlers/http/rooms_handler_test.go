package http_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"lawlink/internal/core/services"
	httphandlers "lawlink/internal/handlers/http"
	"lawlink/internal/infrastructure/middleware"
	"lawlink/internal/infrastructure/monitoring"
	"lawlink/internal/infrastructure/repositories/memory"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func passthrough(c *gin.Context) { c.Next() }

func newTestRouter(t *testing.T) (*gin.Engine, func()) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := zap.NewNop().Sugar()
	registry := services.NewRoomRegistry()
	store := memory.NewMemoryAppointmentStore()
	health := monitoring.NewHealthChecker()

	handler := httphandlers.NewRoomsHandler(registry, store, health)

	router := gin.New()
	router.Use(middleware.ErrorHandlerMiddleware(logger))
	handler.SetupRoutes(router, passthrough, passthrough)

	seed := func() {
		registry.Join("conn_a", "apt-1")
		registry.Join("conn_b", "apt-1")
		registry.Join("conn_c", "apt-2")
	}
	return router, seed
}

func doRequest(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRoomsHandler_ListRooms(t *testing.T) {
	router, seed := newTestRouter(t)
	seed()

	w := doRequest(router, http.MethodGet, "/api/rooms", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Rooms []struct {
			RoomID  string `json:"room_id"`
			Members int    `json:"members"`
		} `json:"rooms"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Rooms, 2)

	sizes := map[string]int{}
	for _, r := range resp.Rooms {
		sizes[r.RoomID] = r.Members
	}
	assert.Equal(t, map[string]int{"apt-1": 2, "apt-2": 1}, sizes)
}

func TestRoomsHandler_RoomMembers(t *testing.T) {
	router, seed := newTestRouter(t)
	seed()

	w := doRequest(router, http.MethodGet, "/api/rooms/apt-1/members", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		RoomID  string   `json:"room_id"`
		Members []string `json:"members"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "apt-1", resp.RoomID)
	assert.ElementsMatch(t, []string{"conn_a", "conn_b"}, resp.Members)
}

func TestRoomsHandler_Appointments(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doRequest(router, http.MethodPost, "/api/appointments/apt-7", `{"lawyer_id":"lawyer-1","client_id":"client-1"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	w = doRequest(router, http.MethodPost, "/api/appointments/apt-7", "")
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doRequest(router, http.MethodGet, "/api/appointments/apt-7", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Appointment struct {
			ID       string `json:"id"`
			LawyerID string `json:"lawyer_id"`
			Status   string `json:"status"`
		} `json:"appointment"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "apt-7", resp.Appointment.ID)
	assert.Equal(t, "lawyer-1", resp.Appointment.LawyerID)
	assert.Equal(t, "confirmed", resp.Appointment.Status)

	w = doRequest(router, http.MethodGet, "/api/appointments/apt-unknown", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRoomsHandler_Health(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doRequest(router, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")
}
