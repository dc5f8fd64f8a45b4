package models

import "time"

// InviteStatus is the lifecycle state of an invite.
type InviteStatus string

const (
	InviteStatusPending  InviteStatus = "pending"
	InviteStatusAccepted InviteStatus = "accepted"
	InviteStatusDeclined InviteStatus = "declined"
)

// Valid reports whether s is a known status.
func (s InviteStatus) Valid() bool {
	switch s {
	case InviteStatusPending, InviteStatusAccepted, InviteStatusDeclined:
		return true
	}
	return false
}

// IsTerminal reports whether no further transitions leave s.
func (s InviteStatus) IsTerminal() bool {
	return s == InviteStatusAccepted || s == InviteStatusDeclined
}

// CanTransitionTo reports whether an invite in state s may move to next.
// Pending invites may be accepted or declined. Re-applying the current
// terminal state is allowed so repeated requests stay idempotent.
func (s InviteStatus) CanTransitionTo(next InviteStatus) bool {
	if s == next {
		return s.IsTerminal()
	}
	return s == InviteStatusPending && next.IsTerminal()
}

// Invite asks a user to join an event.
type Invite struct {
	ID            string
	EventID       string
	InvitedUserID string
	Status        InviteStatus
	CreatedAt     time.Time
}
