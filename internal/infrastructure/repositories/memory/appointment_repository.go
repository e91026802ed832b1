package memory

import (
	"context"
	"sync"
	"time"

	"lawlink/internal/core/domain"
	"lawlink/internal/core/ports"
)

// MemoryAppointmentStore is the default store used when Redis is disabled or
// unreachable. Suitable for development and tests; records do not survive a
// restart.
type MemoryAppointmentStore struct {
	appointments map[string]*domain.Appointment
	mu           sync.RWMutex
}

func NewMemoryAppointmentStore() ports.AppointmentStore {
	return &MemoryAppointmentStore{
		appointments: make(map[string]*domain.Appointment),
	}
}

func (s *MemoryAppointmentStore) Create(ctx context.Context, appt *domain.Appointment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.appointments[appt.ID]; exists {
		return domain.ErrAppointmentExists
	}
	if appt.CreatedAt.IsZero() {
		appt.CreatedAt = time.Now().UTC()
	}
	if appt.Status == "" {
		appt.Status = domain.AppointmentConfirmed
	}
	stored := *appt
	s.appointments[appt.ID] = &stored
	return nil
}

func (s *MemoryAppointmentStore) GetByID(ctx context.Context, id string) (*domain.Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	appt, exists := s.appointments[id]
	if !exists {
		return nil, domain.ErrAppointmentNotFound
	}
	copied := *appt
	return &copied, nil
}

func (s *MemoryAppointmentStore) RecordStartIfUnset(ctx context.Context, appointmentID string, ts time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	appt, exists := s.appointments[appointmentID]
	if !exists {
		return domain.ErrAppointmentNotFound
	}
	if appt.StartTime != nil {
		return nil
	}
	stamped := ts
	appt.StartTime = &stamped
	return nil
}

func (s *MemoryAppointmentStore) RecordEndIfUnset(ctx context.Context, appointmentID string, ts time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	appt, exists := s.appointments[appointmentID]
	if !exists {
		return domain.ErrAppointmentNotFound
	}
	if appt.EndTime != nil {
		return nil
	}
	stamped := ts
	appt.EndTime = &stamped
	return nil
}
