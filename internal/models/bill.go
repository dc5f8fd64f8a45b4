package models

import (
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

const (
	MaxBillNameLength = 1000
	MaxItemNameLength = 50
)

// Bill represents one expense inside an event.
// It owns its items; every item's BillID points back to it.
type Bill struct {
	// ID is the unique identifier for the bill (UUID format).
	ID string

	// Name is the human-readable name of the bill (e.g. "Dinner at Mario's").
	Name string

	// EventID references the event the bill belongs to. Optional.
	EventID string

	// PaidByID references the user who paid the bill. Optional.
	PaidByID string

	// Event is the resolved event, populated by the store on reads.
	Event *Event

	// PaidBy is the resolved payer, populated by the store on reads.
	PaidBy *User

	// Items are the line items on the bill, with users resolved on reads.
	Items []Item
}

// Validate checks the bill's own fields. Items are validated separately.
func (b *Bill) Validate() error {
	if strings.TrimSpace(b.Name) == "" {
		return Invalid("name", "must not be empty")
	}
	if utf8.RuneCountInString(b.Name) > MaxBillNameLength {
		return Invalid("name", "must be at most 1000 characters")
	}
	return nil
}

// Item represents a single priced line of a bill.
type Item struct {
	// ID is the unique identifier for the item (UUID format).
	ID string

	// Name describes the item (e.g. "Pizza", "Taxi").
	Name string

	// Price is the non-negative cost of the item.
	Price decimal.Decimal

	// AssignedUserID references the user the item is assigned to. Required.
	AssignedUserID string

	// AssignedUser is the resolved assignee, populated by the store on reads.
	AssignedUser *User

	// BillID references the owning bill. Required.
	BillID string

	// IsPaid records whether the payer has collected money for this item.
	// It does not reduce anybody's debt.
	IsPaid bool

	// ParticipantIDs lists the users sharing the cost of the item.
	// When empty, the whole price is attributed to the assigned user.
	ParticipantIDs []string

	// Participants are the resolved participant users, populated on reads.
	Participants []User
}

// Validate checks the item invariants that can be verified in isolation.
func (i *Item) Validate() error {
	if strings.TrimSpace(i.Name) == "" {
		return Invalid("name", "must not be empty")
	}
	if utf8.RuneCountInString(i.Name) > MaxItemNameLength {
		return Invalid("name", "must be at most 50 characters")
	}
	if i.Price.IsNegative() {
		return Invalid("price", "must not be negative")
	}
	if i.AssignedUserID == "" {
		return Invalid("assigned_user_id", "must not be empty")
	}
	return nil
}
