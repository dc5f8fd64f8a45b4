// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"

	"github.com/fadegor05/PROD-hack-moscow/internal/models"
)

// Store defines the persistence operations the services depend on.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
//
// Lookups of absent rows return a *models.NotFoundError. Each write is
// atomic on its own; CreateBill writes the bill and its items together.
type Store interface {
	// CreateUser persists a new user. A phone already in use yields a
	// validation error on the "phone" field.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUser retrieves a user by ID.
	GetUser(ctx context.Context, userID string) (*models.User, error)

	// GetUserByPhone retrieves a user by phone number.
	GetUserByPhone(ctx context.Context, phone string) (*models.User, error)

	// UpdateUser overwrites the mutable profile fields of an existing user.
	UpdateUser(ctx context.Context, user *models.User) error

	// CreateEvent persists a new event. The event.ID field will be populated
	// by the store when empty.
	CreateEvent(ctx context.Context, event *models.Event) error

	// GetEvent retrieves an event with its owner and bill IDs resolved.
	GetEvent(ctx context.Context, eventID string) (*models.Event, error)

	// ListEventIDsForUser returns the IDs of events the user takes part in,
	// ordered and paginated according to page.
	ListEventIDsForUser(ctx context.Context, userID string, page Page) ([]string, error)

	// CreateBill persists a bill together with its items in one transaction.
	// Missing bill and item IDs are generated.
	CreateBill(ctx context.Context, bill *models.Bill) error

	// GetBill retrieves a bill with its event, payer, items, assignees and
	// participants resolved. Items keep their insertion order.
	GetBill(ctx context.Context, billID string) (*models.Bill, error)

	// ListBillIDsForUser returns the IDs of bills the user takes part in,
	// ordered and paginated according to page.
	ListBillIDsForUser(ctx context.Context, userID string, page Page) ([]string, error)

	// CreateItem appends an item to an existing bill.
	CreateItem(ctx context.Context, item *models.Item) error

	// GetItem retrieves a single item with its participant IDs.
	GetItem(ctx context.Context, itemID string) (*models.Item, error)

	// SetItemPaid updates the paid flag of an item.
	SetItemPaid(ctx context.Context, itemID string, paid bool) error

	// CreateInvite persists a new invite.
	CreateInvite(ctx context.Context, invite *models.Invite) error

	// GetInvite retrieves an invite by ID.
	GetInvite(ctx context.Context, inviteID string) (*models.Invite, error)

	// UpdateInviteStatus overwrites the status of an invite. Last write wins.
	UpdateInviteStatus(ctx context.Context, inviteID string, status models.InviteStatus) error

	// ListInvitesForUser returns every invite addressed to the user, newest first.
	ListInvitesForUser(ctx context.Context, userID string) ([]models.Invite, error)

	// Ping verifies the backend is reachable.
	Ping(ctx context.Context) error

	// Close releases any resources held by the store.
	Close() error
}
