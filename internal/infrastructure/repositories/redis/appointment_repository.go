package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"lawlink/internal/core/domain"
	"lawlink/internal/core/ports"

	"github.com/redis/go-redis/v9"
)

const (
	appointmentKeyPrefix = "lawlink:appointment:"

	fieldRecord    = "record"
	fieldStartTime = "start_time"
	fieldEndTime   = "end_time"
)

// RedisAppointmentStore keeps each appointment as a hash. The record body is
// one JSON field; start and end timestamps are separate fields written with
// HSETNX, which gives the set-if-unset contract atomically on the server
// side: a concurrent duplicate write loses and that is exactly the intent.
type RedisAppointmentStore struct {
	client *redis.Client
}

func NewRedisAppointmentStore(client *redis.Client) ports.AppointmentStore {
	return &RedisAppointmentStore{client: client}
}

func appointmentKey(id string) string {
	return appointmentKeyPrefix + id
}

func (s *RedisAppointmentStore) Create(ctx context.Context, appt *domain.Appointment) error {
	if appt.CreatedAt.IsZero() {
		appt.CreatedAt = time.Now().UTC()
	}
	if appt.Status == "" {
		appt.Status = domain.AppointmentConfirmed
	}

	data, err := json.Marshal(appt)
	if err != nil {
		return fmt.Errorf("failed to marshal appointment: %w", err)
	}

	created, err := s.client.HSetNX(ctx, appointmentKey(appt.ID), fieldRecord, data).Result()
	if err != nil {
		return fmt.Errorf("failed to store appointment: %w", err)
	}
	if !created {
		return domain.ErrAppointmentExists
	}
	return nil
}

func (s *RedisAppointmentStore) GetByID(ctx context.Context, id string) (*domain.Appointment, error) {
	fields, err := s.client.HGetAll(ctx, appointmentKey(id)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load appointment: %w", err)
	}
	raw, ok := fields[fieldRecord]
	if !ok {
		return nil, domain.ErrAppointmentNotFound
	}

	var appt domain.Appointment
	if err := json.Unmarshal([]byte(raw), &appt); err != nil {
		return nil, fmt.Errorf("failed to unmarshal appointment: %w", err)
	}

	if v, ok := fields[fieldStartTime]; ok {
		if ts, err := time.Parse(time.RFC3339Nano, v); err == nil {
			appt.StartTime = &ts
		}
	}
	if v, ok := fields[fieldEndTime]; ok {
		if ts, err := time.Parse(time.RFC3339Nano, v); err == nil {
			appt.EndTime = &ts
		}
	}
	return &appt, nil
}

func (s *RedisAppointmentStore) RecordStartIfUnset(ctx context.Context, appointmentID string, ts time.Time) error {
	return s.recordIfUnset(ctx, appointmentID, fieldStartTime, ts)
}

func (s *RedisAppointmentStore) RecordEndIfUnset(ctx context.Context, appointmentID string, ts time.Time) error {
	return s.recordIfUnset(ctx, appointmentID, fieldEndTime, ts)
}

func (s *RedisAppointmentStore) recordIfUnset(ctx context.Context, appointmentID, field string, ts time.Time) error {
	key := appointmentKey(appointmentID)

	exists, err := s.client.HExists(ctx, key, fieldRecord).Result()
	if err != nil {
		return fmt.Errorf("failed to check appointment: %w", err)
	}
	if !exists {
		return domain.ErrAppointmentNotFound
	}

	// HSETNX returning false means a timestamp is already there; that is the
	// idempotent no-op case, not an error.
	if _, err := s.client.HSetNX(ctx, key, field, ts.Format(time.RFC3339Nano)).Result(); err != nil {
		return fmt.Errorf("failed to record %s: %w", field, err)
	}
	return nil
}
