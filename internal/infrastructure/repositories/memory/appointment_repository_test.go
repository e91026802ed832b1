package memory_test

import (
	"context"
	"testing"
	"time"

	"lawlink/internal/core/domain"
	"lawlink/internal/infrastructure/repositories/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryAppointmentStore_Create(t *testing.T) {
	store := memory.NewMemoryAppointmentStore()
	ctx := context.Background()

	err := store.Create(ctx, &domain.Appointment{ID: "apt-1", LawyerID: "lawyer-1", ClientID: "client-1"})
	require.NoError(t, err)

	appt, err := store.GetByID(ctx, "apt-1")
	require.NoError(t, err)
	assert.Equal(t, "apt-1", appt.ID)
	assert.Equal(t, domain.AppointmentConfirmed, appt.Status)
	assert.False(t, appt.CreatedAt.IsZero())
	assert.Nil(t, appt.StartTime)
	assert.Nil(t, appt.EndTime)

	err = store.Create(ctx, &domain.Appointment{ID: "apt-1"})
	assert.ErrorIs(t, err, domain.ErrAppointmentExists)
}

func TestMemoryAppointmentStore_GetByID(t *testing.T) {
	store := memory.NewMemoryAppointmentStore()

	_, err := store.GetByID(context.Background(), "apt-unknown")
	assert.ErrorIs(t, err, domain.ErrAppointmentNotFound)
}

func TestMemoryAppointmentStore_RecordStartIfUnset(t *testing.T) {
	store := memory.NewMemoryAppointmentStore()
	ctx := context.Background()
	require.NoError(t, store.Create(ctx, &domain.Appointment{ID: "apt-1"}))

	firstTS := time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)
	require.NoError(t, store.RecordStartIfUnset(ctx, "apt-1", firstTS))

	// The second boundary observation must not move the recorded start.
	laterTS := firstTS.Add(5 * time.Minute)
	require.NoError(t, store.RecordStartIfUnset(ctx, "apt-1", laterTS))

	appt, err := store.GetByID(ctx, "apt-1")
	require.NoError(t, err)
	require.NotNil(t, appt.StartTime)
	assert.True(t, appt.StartTime.Equal(firstTS))

	err = store.RecordStartIfUnset(ctx, "apt-unknown", firstTS)
	assert.ErrorIs(t, err, domain.ErrAppointmentNotFound)
}

func TestMemoryAppointmentStore_RecordEndIfUnset(t *testing.T) {
	store := memory.NewMemoryAppointmentStore()
	ctx := context.Background()
	require.NoError(t, store.Create(ctx, &domain.Appointment{ID: "apt-1"}))

	start := time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)
	end := start.Add(30 * time.Minute)
	require.NoError(t, store.RecordStartIfUnset(ctx, "apt-1", start))
	require.NoError(t, store.RecordEndIfUnset(ctx, "apt-1", end))

	// A reconnect after the consultation ended re-drains the room; the
	// recorded end must survive it.
	require.NoError(t, store.RecordEndIfUnset(ctx, "apt-1", end.Add(time.Hour)))

	appt, err := store.GetByID(ctx, "apt-1")
	require.NoError(t, err)
	require.NotNil(t, appt.EndTime)
	assert.True(t, appt.EndTime.Equal(end))

	err = store.RecordEndIfUnset(ctx, "apt-unknown", end)
	assert.ErrorIs(t, err, domain.ErrAppointmentNotFound)
}

func TestMemoryAppointmentStore_ReturnsCopies(t *testing.T) {
	store := memory.NewMemoryAppointmentStore()
	ctx := context.Background()
	require.NoError(t, store.Create(ctx, &domain.Appointment{ID: "apt-1"}))

	appt, err := store.GetByID(ctx, "apt-1")
	require.NoError(t, err)
	appt.Status = domain.AppointmentCancelled

	again, err := store.GetByID(ctx, "apt-1")
	require.NoError(t, err)
	assert.Equal(t, domain.AppointmentConfirmed, again.Status)
}
