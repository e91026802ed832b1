package signal

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"lawlink/internal/core/domain"
	"lawlink/internal/core/ports"
	"lawlink/internal/core/services"
	"lawlink/pkg/config"
	"lawlink/pkg/tracing"
	"lawlink/pkg/utils"
	"lawlink/pkg/validation"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// ServerMetrics is the slice of the metrics collector the server reports to.
type ServerMetrics interface {
	RecordConnectionOpened()
	RecordConnectionClosed()
	RecordRoomCreated()
	RecordRoomDeleted()
	RecordEventDropped(kind domain.EventKind, reason string)
}

type eventHandler func(conn *connection, env domain.Envelope) error

// connection is the per-handshake state threaded through event handlers.
type connection struct {
	id      domain.ConnectionID
	user    domain.Participant
	limiter *rate.Limiter
}

// WebSocketServer multiplexes consultation rooms over persistent websocket
// connections. Each inbound frame is dispatched through an explicit table
// keyed by event kind; room membership mutations go through the registry
// only, never through transport-level state.
type WebSocketServer struct {
	hub      *Hub
	registry ports.RoomRegistry
	relay    ports.EventRelay
	presence ports.PresenceTracker
	auth     services.AuthService
	metrics  ServerMetrics
	logger   *zap.SugaredLogger

	handlers   map[domain.EventKind]eventHandler
	newLimiter func() *rate.Limiter

	upgrader websocket.Upgrader

	pingInterval time.Duration
	readTimeout  time.Duration
	maxMsgSize   int64
}

func NewWebSocketServer(
	cfg *config.Config,
	hub *Hub,
	registry ports.RoomRegistry,
	relay ports.EventRelay,
	presence ports.PresenceTracker,
	auth services.AuthService,
	metrics ServerMetrics,
	newLimiter func() *rate.Limiter,
	logger *zap.SugaredLogger,
) *WebSocketServer {
	s := &WebSocketServer{
		hub:          hub,
		registry:     registry,
		relay:        relay,
		presence:     presence,
		auth:         auth,
		metrics:      metrics,
		logger:       logger,
		newLimiter:   newLimiter,
		pingInterval: cfg.Signal.PingInterval,
		readTimeout:  cfg.Signal.ReadTimeout,
		maxMsgSize:   cfg.RateLimiting.WebSocket.MaxMessageSizeBytes,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(cfg.Auth.AllowedOrigins),
		},
	}

	s.handlers = map[domain.EventKind]eventHandler{
		domain.EventJoinConsultation: s.handleJoin,
		domain.EventOffer:            s.handleOpaqueRelay,
		domain.EventAnswer:           s.handleOpaqueRelay,
		domain.EventICECandidate:     s.handleOpaqueRelay,
		domain.EventChatMessage:      s.handleOpaqueRelay,
		domain.EventTyping:           s.handleTyping,
	}

	return s
}

func originChecker(allowed []string) func(r *http.Request) bool {
	for _, o := range allowed {
		if o == "*" {
			return func(r *http.Request) bool { return true }
		}
	}
	set := make(map[string]struct{}, len(allowed))
	for _, o := range allowed {
		set[o] = struct{}{}
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		_, ok := set[origin]
		return ok
	}
}

func (s *WebSocketServer) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	displayName := "Participant"
	var userID string
	var role domain.UserRole
	if token := r.URL.Query().Get("token"); token != "" {
		claims, err := s.auth.ValidateToken(token)
		if err != nil {
			s.logger.Warnw("rejecting websocket handshake with bad token", "error", err)
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}
		if name := validation.SanitizeDisplayName(claims.DisplayName); name != "" {
			displayName = name
		}
		userID = claims.UserID
		role = claims.Role
	}

	wsConn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Errorw("websocket upgrade failed", "error", err)
		return
	}
	defer wsConn.Close()

	connID := domain.ConnectionID(utils.GenerateConnectionID())
	conn := &connection{
		id: connID,
		user: domain.Participant{
			ConnectionID: connID,
			UserID:       userID,
			DisplayName:  displayName,
			Role:         role,
		},
		limiter: s.newLimiter(),
	}

	s.hub.Register(conn.id, wsConn)
	s.metrics.RecordConnectionOpened()
	s.logger.Infow("client connected", "connection_id", conn.id, "display_name", displayName)

	if s.maxMsgSize > 0 {
		wsConn.SetReadLimit(s.maxMsgSize)
	}
	wsConn.SetReadDeadline(time.Now().Add(s.readTimeout))
	wsConn.SetPongHandler(func(string) error {
		wsConn.SetReadDeadline(time.Now().Add(s.readTimeout))
		return nil
	})

	pingTicker := time.NewTicker(s.pingInterval)
	defer pingTicker.Stop()

	messageChan := make(chan domain.Envelope, 10)
	errorChan := make(chan error, 1)

	go func() {
		for {
			var env domain.Envelope
			if err := wsConn.ReadJSON(&env); err != nil {
				errorChan <- err
				return
			}
			wsConn.SetReadDeadline(time.Now().Add(s.readTimeout))
			messageChan <- env
		}
	}()

loop:
	for {
		select {
		case env := <-messageChan:
			if conn.limiter != nil && !conn.limiter.Allow() {
				s.metrics.RecordEventDropped(env.Type, "rate_limited")
				s.sendError(conn.id, "message rate limit exceeded")
				continue
			}
			if err := s.dispatch(conn, env); err != nil {
				s.logger.Warnw("dropping event",
					"connection_id", conn.id,
					"event", env.Type,
					"error", err,
				)
				s.metrics.RecordEventDropped(env.Type, "malformed")
				s.sendError(conn.id, err.Error())
			}

		case <-pingTicker.C:
			if err := s.hub.Ping(conn.id); err != nil {
				s.logger.Infow("error sending ping", "connection_id", conn.id, "error", err)
				break loop
			}

		case err := <-errorChan:
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Infow("unexpected close", "connection_id", conn.id, "error", err)
			}
			break loop
		}
	}

	s.teardown(conn)
}

// teardown runs on every disconnect path, graceful or abrupt. The registry is
// the single source of truth for which rooms need cleanup; transport-level
// state is never consulted.
func (s *WebSocketServer) teardown(conn *connection) {
	s.hub.Unregister(conn.id)
	s.metrics.RecordConnectionClosed()

	left, drained := s.registry.LeaveAll(conn.id)
	for _, room := range left {
		s.relay.Forward(room, conn.id, domain.EventUserLeft, domain.UserLeftPayload{
			ConnectionID: conn.id,
		})
	}
	for _, room := range drained {
		s.metrics.RecordRoomDeleted()
		s.presence.RoomDrained(room)
	}

	s.logger.Infow("client disconnected",
		"connection_id", conn.id,
		"rooms_left", len(left),
		"rooms_drained", len(drained),
	)
}

func (s *WebSocketServer) dispatch(conn *connection, env domain.Envelope) error {
	if env.Type == "" {
		return domain.ErrUnknownEventKind
	}
	handler, ok := s.handlers[env.Type]
	if !ok {
		return domain.ErrUnknownEventKind
	}

	_, span := tracing.TraceSignalEvent(context.Background(), string(env.Type), string(conn.id))
	defer span.End()

	err := handler(conn, env)
	if err != nil {
		span.RecordError(err)
	}
	return err
}

func (s *WebSocketServer) handleJoin(conn *connection, env domain.Envelope) error {
	roomID := env.RoomID
	if roomID == "" {
		// Older clients send the consultation id as a bare payload string.
		var legacy string
		if err := json.Unmarshal(env.Payload, &legacy); err == nil {
			roomID = domain.RoomID(legacy)
		}
	}
	if err := validation.ValidateRoomID(string(roomID)); err != nil {
		return err
	}

	first := s.registry.Join(conn.id, roomID)
	if first {
		s.metrics.RecordRoomCreated()
		s.presence.RoomOccupied(roomID)
	}

	s.logger.Infow("client joined consultation",
		"connection_id", conn.id,
		"room_id", roomID,
		"first_joiner", first,
	)

	s.relay.Forward(roomID, conn.id, domain.EventUserJoined, domain.UserJoinedPayload{
		ConnectionID: conn.id,
		DisplayName:  conn.user.DisplayName,
		Role:         conn.user.Role,
	})
	return nil
}

// handleOpaqueRelay covers offer, answer, ice-candidate and chat-message:
// the payload is forwarded verbatim, decorated but never parsed.
func (s *WebSocketServer) handleOpaqueRelay(conn *connection, env domain.Envelope) error {
	if env.RoomID == "" {
		return domain.ErrRoomIDRequired
	}
	s.relay.Forward(env.RoomID, conn.id, env.Type, env.Payload)
	return nil
}

func (s *WebSocketServer) handleTyping(conn *connection, env domain.Envelope) error {
	if env.RoomID == "" {
		return domain.ErrRoomIDRequired
	}
	var payload domain.TypingPayload
	if err := json.Unmarshal(env.Payload, &payload); err != nil {
		return err
	}
	s.relay.Forward(env.RoomID, conn.id, domain.EventTyping, payload)
	return nil
}

func (s *WebSocketServer) sendError(id domain.ConnectionID, message string) {
	event := &domain.Outbound{
		Type:      domain.EventError,
		Timestamp: time.Now().UTC(),
		Payload:   map[string]string{"message": message},
	}
	if err := s.hub.Send(id, event); err != nil {
		s.logger.Debugw("failed to send error event", "connection_id", id, "error", err)
	}
}

// HealthCheck reports liveness plus the current connection count.
func (s *WebSocketServer) HealthCheck(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"status":      "healthy",
		"timestamp":   time.Now().Unix(),
		"connections": s.hub.Count(),
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}
