package services

import (
	"time"

	"lawlink/internal/core/domain"
	"lawlink/internal/core/ports"

	"go.uber.org/zap"
)

// RelayMetrics is the slice of the metrics collector the relay reports to.
type RelayMetrics interface {
	RecordEventRelayed(kind domain.EventKind, recipients int)
	RecordEventDropped(kind domain.EventKind, reason string)
}

// relayService forwards events between members of the same room. It reads
// membership through the registry only (a snapshot immediately before
// fan-out) and delivers through the connection sender. Nothing is queued or
// retried: negotiation traffic is meaningless once stale.
type relayService struct {
	registry ports.RoomRegistry
	sender   ports.ConnectionSender
	metrics  RelayMetrics
	logger   *zap.SugaredLogger
}

func NewRelayService(registry ports.RoomRegistry, sender ports.ConnectionSender, metrics RelayMetrics, logger *zap.SugaredLogger) ports.EventRelay {
	return &relayService{
		registry: registry,
		sender:   sender,
		metrics:  metrics,
		logger:   logger,
	}
}

func (s *relayService) Forward(room domain.RoomID, from domain.ConnectionID, kind domain.EventKind, payload interface{}) int {
	event := &domain.Outbound{
		Type:      kind,
		RoomID:    room,
		From:      from,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}

	delivered := 0
	for _, member := range s.registry.Members(room) {
		if member == from {
			continue
		}
		if err := s.sender.Send(member, event); err != nil {
			// Recipient disconnected between snapshot and send. Not an
			// error for the sender; just lost best-effort traffic.
			s.logger.Debugw("dropping event for gone recipient",
				"event", kind,
				"room_id", room,
				"to", member,
				"error", err,
			)
			if s.metrics != nil {
				s.metrics.RecordEventDropped(kind, "recipient_gone")
			}
			continue
		}
		delivered++
	}

	if s.metrics != nil {
		s.metrics.RecordEventRelayed(kind, delivered)
	}
	return delivered
}
