package models

import (
	"strings"
	"time"
	"unicode/utf8"
)

const (
	MaxEventNameLength        = 120
	MaxEventDescriptionLength = 200
)

// Event groups bills under a common name and time window.
type Event struct {
	// ID is the unique identifier for the event (UUID format).
	ID string

	// Name is the event title, at most 120 characters.
	Name string

	// Description is optional free text, at most 200 characters.
	Description string

	// CreatedAt is when the event started.
	CreatedAt time.Time

	// Until is when the event expires. Never before CreatedAt.
	Until time.Time

	// OwnerID references the user who created the event.
	OwnerID string

	// Owner is the resolved owner, populated by the store on reads.
	Owner *User

	// BillIDs lists the bills belonging to the event, populated on reads.
	BillIDs []string
}

// Validate checks the event invariants.
func (e *Event) Validate() error {
	if strings.TrimSpace(e.Name) == "" {
		return Invalid("name", "must not be empty")
	}
	if utf8.RuneCountInString(e.Name) > MaxEventNameLength {
		return Invalid("name", "must be at most 120 characters")
	}
	if utf8.RuneCountInString(e.Description) > MaxEventDescriptionLength {
		return Invalid("description", "must be at most 200 characters")
	}
	if e.OwnerID == "" {
		return Invalid("owner_id", "must not be empty")
	}
	if e.Until.Before(e.CreatedAt) {
		return Invalid("until", "must not be before created_at")
	}
	return nil
}
