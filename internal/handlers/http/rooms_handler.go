package http

import (
	"errors"
	"net/http"

	"lawlink/internal/core/domain"
	"lawlink/internal/core/ports"
	"lawlink/internal/infrastructure/monitoring"
	apperrors "lawlink/pkg/errors"

	"github.com/gin-gonic/gin"
)

// RoomsHandler exposes the admin-facing view of live consultations and the
// internal appointment seeding surface.
type RoomsHandler struct {
	registry ports.RoomRegistry
	store    ports.AppointmentStore
	health   *monitoring.HealthChecker
}

func NewRoomsHandler(registry ports.RoomRegistry, store ports.AppointmentStore, health *monitoring.HealthChecker) *RoomsHandler {
	return &RoomsHandler{
		registry: registry,
		store:    store,
		health:   health,
	}
}

// SetupRoutes registers the API routes. The authenticated group is expected
// to already carry the auth middleware.
func (h *RoomsHandler) SetupRoutes(router *gin.Engine, authed gin.HandlerFunc, adminOnly gin.HandlerFunc) {
	router.GET("/health", h.Health)

	api := router.Group("/api", authed)
	{
		api.GET("/rooms", adminOnly, h.ListRooms)
		api.GET("/rooms/:id/members", adminOnly, h.RoomMembers)
		api.POST("/appointments/:id", h.CreateAppointment)
		api.GET("/appointments/:id", h.GetAppointment)
	}
}

func (h *RoomsHandler) Health(c *gin.Context) {
	status := h.health.CheckAll(c.Request.Context())
	code := http.StatusOK
	if status.Status != "healthy" {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, status)
}

func (h *RoomsHandler) ListRooms(c *gin.Context) {
	rooms := h.registry.Rooms()
	out := make([]gin.H, 0, len(rooms))
	for room, size := range rooms {
		out = append(out, gin.H{"room_id": room, "members": size})
	}
	c.JSON(http.StatusOK, gin.H{"rooms": out})
}

func (h *RoomsHandler) RoomMembers(c *gin.Context) {
	roomID := domain.RoomID(c.Param("id"))
	members := h.registry.Members(roomID)
	c.JSON(http.StatusOK, gin.H{
		"room_id": roomID,
		"members": members,
	})
}

func (h *RoomsHandler) CreateAppointment(c *gin.Context) {
	var req struct {
		LawyerID string `json:"lawyer_id"`
		ClientID string `json:"client_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.Error(apperrors.NewInvalidInputError(err.Error()))
		return
	}

	appt := &domain.Appointment{
		ID:       c.Param("id"),
		LawyerID: req.LawyerID,
		ClientID: req.ClientID,
	}
	if err := h.store.Create(c.Request.Context(), appt); err != nil {
		if errors.Is(err, domain.ErrAppointmentExists) {
			c.Error(apperrors.NewConflictError("appointment already exists"))
			return
		}
		c.Error(apperrors.WrapError(err, apperrors.ErrCodeInternal, "failed to create appointment", http.StatusInternalServerError))
		return
	}

	c.JSON(http.StatusCreated, gin.H{"appointment": appt})
}

func (h *RoomsHandler) GetAppointment(c *gin.Context) {
	appt, err := h.store.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrAppointmentNotFound) {
			c.Error(apperrors.NewNotFoundError("appointment"))
			return
		}
		c.Error(apperrors.WrapError(err, apperrors.ErrCodeInternal, "failed to load appointment", http.StatusInternalServerError))
		return
	}
	c.JSON(http.StatusOK, gin.H{"appointment": appt})
}
