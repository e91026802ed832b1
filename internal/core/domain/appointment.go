package domain

import "time"

// AppointmentStatus mirrors the booking side's lifecycle. The signaling
// service only ever stamps StartTime/EndTime; the rest is owned elsewhere.
type AppointmentStatus string

const (
	AppointmentPending   AppointmentStatus = "pending"
	AppointmentConfirmed AppointmentStatus = "confirmed"
	AppointmentCompleted AppointmentStatus = "completed"
	AppointmentCancelled AppointmentStatus = "cancelled"
)

// Appointment is the stored consultation record. StartTime and EndTime are
// nil until the first session boundary is observed; once set they are never
// overwritten by this service.
type Appointment struct {
	ID        string            `json:"id"`
	LawyerID  string            `json:"lawyer_id,omitempty"`
	ClientID  string            `json:"client_id,omitempty"`
	Status    AppointmentStatus `json:"status"`
	StartTime *time.Time        `json:"start_time,omitempty"`
	EndTime   *time.Time        `json:"end_time,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}
