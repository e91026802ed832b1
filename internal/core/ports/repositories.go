package ports

import (
	"context"
	"time"

	"lawlink/internal/core/domain"
)

// SessionRecorder is the session boundary collaborator: the appointment
// store. Both operations are set-if-unset, so re-observing a boundary after a
// reconnect is a safe no-op rather than an overwrite. Calls against an
// unknown appointment return domain.ErrAppointmentNotFound; callers log and
// move on.
type SessionRecorder interface {
	RecordStartIfUnset(ctx context.Context, appointmentID string, ts time.Time) error
	RecordEndIfUnset(ctx context.Context, appointmentID string, ts time.Time) error
}

// AppointmentStore is the full store surface this service needs: the recorder
// contract plus the minimal CRUD the internal API exposes for seeding and
// inspection.
type AppointmentStore interface {
	SessionRecorder

	Create(ctx context.Context, appt *domain.Appointment) error
	GetByID(ctx context.Context, id string) (*domain.Appointment, error)
}
