package domain

import "errors"

var (
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrAppointmentExists   = errors.New("appointment already exists")
	ErrConnectionNotFound  = errors.New("connection not found")
	ErrRoomIDRequired      = errors.New("room_id is required")
	ErrUnknownEventKind    = errors.New("unknown event kind")
)
