package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// UserView is the public projection of a user. It never carries credentials.
type UserView struct {
	ID        string `json:"id"`
	Phone     string `json:"phone"`
	FullName  string `json:"full_name"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// NewUserView projects u into a UserView.
func NewUserView(u *User) UserView {
	return UserView{
		ID:        u.ID,
		Phone:     u.Phone,
		FullName:  u.FullName,
		AvatarURL: u.AvatarURL,
	}
}

// ItemView is the projection of one bill item.
type ItemView struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Price          decimal.Decimal `json:"price"`
	AssignedUserID string          `json:"assigned_user_id"`
	BillID         string          `json:"bill_id"`
	IsPaid         bool            `json:"is_paid"`
	ParticipantIDs []string        `json:"participant_ids,omitempty"`
}

// NewItemView projects it into an ItemView.
func NewItemView(it *Item) ItemView {
	var participants []string
	if len(it.ParticipantIDs) > 0 {
		participants = append([]string(nil), it.ParticipantIDs...)
	}
	return ItemView{
		ID:             it.ID,
		Name:           it.Name,
		Price:          it.Price,
		AssignedUserID: it.AssignedUserID,
		BillID:         it.BillID,
		IsPaid:         it.IsPaid,
		ParticipantIDs: participants,
	}
}

// UserDebt is the amount one user owes within a bill or event.
type UserDebt struct {
	User   UserView        `json:"user"`
	Amount decimal.Decimal `json:"amount"`
}

// BillView is a bill as seen by one requesting user.
type BillView struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	TotalPrice     decimal.Decimal `json:"total_price"`
	CollectedPrice decimal.Decimal `json:"collected_price"`
	CreatedAt      string          `json:"created_at"`
	Until          string          `json:"until"`
	PaidBy         *UserView       `json:"paid_by,omitempty"`
	Members        []UserView      `json:"members"`
	Items          []ItemView      `json:"items"`
	Debts          []UserDebt      `json:"debts"`
	TotalDebt      decimal.Decimal `json:"total_debt"`
}

// EventView is an event with its bills as seen by one requesting user.
type EventView struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	CreatedAt   string          `json:"created_at"`
	Until       string          `json:"until"`
	Owner       UserView        `json:"owner"`
	Members     []UserView      `json:"members"`
	Bills       []BillView      `json:"bills"`
	TotalDebt   decimal.Decimal `json:"total_debt"`
}

// InviteView is an invite enriched with the event and owner it points at.
type InviteView struct {
	ID            string       `json:"id"`
	EventID       string       `json:"event_id"`
	EventName     string       `json:"event_name"`
	EventUntil    string       `json:"event_until"`
	OwnerFullName string       `json:"owner_full_name"`
	OwnerAvatar   string       `json:"owner_avatar,omitempty"`
	InvitedUserID string       `json:"invited_user_id"`
	Status        InviteStatus `json:"status"`
	CreatedAt     string       `json:"created_at"`
}

// NewInviteView projects inv together with its event. The event's Owner
// must be resolved.
func NewInviteView(inv *Invite, event *Event) InviteView {
	view := InviteView{
		ID:            inv.ID,
		EventID:       inv.EventID,
		EventName:     event.Name,
		EventUntil:    FormatTime(event.Until),
		InvitedUserID: inv.InvitedUserID,
		Status:        inv.Status,
		CreatedAt:     FormatTime(inv.CreatedAt),
	}
	if event.Owner != nil {
		view.OwnerFullName = event.Owner.FullName
		view.OwnerAvatar = event.Owner.AvatarURL
	}
	return view
}

// MemberBalance is one user's position across all bills of an event.
// Positive NetBalance means the user is owed money.
type MemberBalance struct {
	User       UserView        `json:"user"`
	TotalPaid  decimal.Decimal `json:"total_paid"`
	TotalOwed  decimal.Decimal `json:"total_owed"`
	NetBalance decimal.Decimal `json:"net_balance"`
}

// DebtEdge says that From should pay Amount to To.
type DebtEdge struct {
	From   UserView        `json:"from"`
	To     UserView        `json:"to"`
	Amount decimal.Decimal `json:"amount"`
}

// EventBalances summarises who owes whom within an event.
type EventBalances struct {
	EventID  string          `json:"event_id"`
	Balances []MemberBalance `json:"balances"`
	Debts    []DebtEdge      `json:"debts"`
}

// FormatTime renders t as an ISO-8601 string, or "" for the zero time.
func FormatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}
