package services

import (
	"context"
	"time"

	"lawlink/internal/core/domain"
	"lawlink/internal/core/ports"

	"go.uber.org/zap"
)

// PresenceMetrics is the slice of the metrics collector presence reports to.
type PresenceMetrics interface {
	RecordSessionStart(room domain.RoomID)
	RecordSessionEnd(room domain.RoomID)
}

// presenceTracker turns membership transitions into session boundary writes.
// It holds no durable state of its own: whether a start or end was already
// recorded is the recorder's problem, guarded by its set-if-unset contract.
// A reconnect that re-crosses the 0-to-1 boundary therefore costs one no-op
// store call, nothing more.
type presenceTracker struct {
	recorder ports.SessionRecorder
	metrics  PresenceMetrics
	logger   *zap.SugaredLogger

	// Recorder calls run detached with this timeout so a slow store can
	// never stall signaling.
	callTimeout time.Duration
}

func NewPresenceTracker(recorder ports.SessionRecorder, metrics PresenceMetrics, logger *zap.SugaredLogger) ports.PresenceTracker {
	return &presenceTracker{
		recorder:    recorder,
		metrics:     metrics,
		logger:      logger,
		callTimeout: 5 * time.Second,
	}
}

func (t *presenceTracker) RoomOccupied(room domain.RoomID) {
	ts := time.Now().UTC()
	if t.metrics != nil {
		t.metrics.RecordSessionStart(room)
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), t.callTimeout)
		defer cancel()
		if err := t.recorder.RecordStartIfUnset(ctx, string(room), ts); err != nil {
			t.logger.Warnw("failed to record session start",
				"appointment_id", room,
				"error", err,
			)
			return
		}
		t.logger.Infow("session start recorded", "appointment_id", room, "timestamp", ts)
	}()
}

func (t *presenceTracker) RoomDrained(room domain.RoomID) {
	ts := time.Now().UTC()
	if t.metrics != nil {
		t.metrics.RecordSessionEnd(room)
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), t.callTimeout)
		defer cancel()
		if err := t.recorder.RecordEndIfUnset(ctx, string(room), ts); err != nil {
			t.logger.Warnw("failed to record session end",
				"appointment_id", room,
				"error", err,
			)
			return
		}
		t.logger.Infow("session end recorded", "appointment_id", room, "timestamp", ts)
	}()
}
