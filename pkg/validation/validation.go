package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

var (
	// RoomIDRegex validates consultation/room identifier format
	RoomIDRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

	// ConnectionIDRegex validates connection identifier format
	ConnectionIDRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
)

// ValidateRoomID validates a consultation/room identifier. Room identifiers
// come from clients, so a hard length cap keeps them out of log and metric
// label trouble.
func ValidateRoomID(roomID string) error {
	if roomID == "" {
		return fmt.Errorf("room ID is required")
	}
	if len(roomID) > 100 {
		return fmt.Errorf("room ID is too long (max 100 characters)")
	}
	if !RoomIDRegex.MatchString(roomID) {
		return fmt.Errorf("invalid room ID format")
	}
	return nil
}

// ValidateConnectionID validates a connection identifier
func ValidateConnectionID(connID string) error {
	if connID == "" {
		return fmt.Errorf("connection ID is required")
	}
	if len(connID) > 100 {
		return fmt.Errorf("connection ID is too long (max 100 characters)")
	}
	if !ConnectionIDRegex.MatchString(connID) {
		return fmt.Errorf("invalid connection ID format")
	}
	return nil
}

// SanitizeDisplayName strips control characters and trims a client-supplied
// display name before it is echoed to other room members.
func SanitizeDisplayName(name string) string {
	name = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, name)
	name = strings.TrimSpace(name)
	if len(name) > 120 {
		name = name[:120]
	}
	return name
}
