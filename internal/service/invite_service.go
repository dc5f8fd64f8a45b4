package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/fadegor05/PROD-hack-moscow/internal/models"
	"github.com/fadegor05/PROD-hack-moscow/internal/storage"
)

// InviteService drives the invite lifecycle: pending, then accepted or declined.
type InviteService struct {
	store  storage.Store
	logger *slog.Logger
}

// NewInviteService creates a new InviteService.
func NewInviteService(store storage.Store, logger *slog.Logger) *InviteService {
	return &InviteService{store: store, logger: logger}
}

// CreateInvite invites a user to an event. Several pending invites for the
// same pair may coexist.
func (s *InviteService) CreateInvite(ctx context.Context, eventID, invitedUserID string) (*models.InviteView, error) {
	event, err := s.store.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if _, err := s.store.GetUser(ctx, invitedUserID); err != nil {
		return nil, err
	}

	invite := &models.Invite{
		EventID:       event.ID,
		InvitedUserID: invitedUserID,
		Status:        models.InviteStatusPending,
	}
	if err := s.store.CreateInvite(ctx, invite); err != nil {
		s.logger.Error("CreateInvite failed", "event_id", eventID, "error", err)
		return nil, fmt.Errorf("failed to create invite: %w", err)
	}
	s.logger.Info("Invite created", "invite_id", invite.ID, "event_id", eventID, "invited_user_id", invitedUserID)

	view := models.NewInviteView(invite, event)
	return &view, nil
}

// AcceptInvite accepts an invite on behalf of its invitee.
func (s *InviteService) AcceptInvite(ctx context.Context, inviteID, actorID string) (*models.InviteView, error) {
	return s.transition(ctx, inviteID, actorID, models.InviteStatusAccepted)
}

// DeclineInvite declines an invite on behalf of its invitee.
func (s *InviteService) DeclineInvite(ctx context.Context, inviteID, actorID string) (*models.InviteView, error) {
	return s.transition(ctx, inviteID, actorID, models.InviteStatusDeclined)
}

// transition moves an invite to next. Repeating the current terminal state
// succeeds without a write; moving between terminal states is rejected.
func (s *InviteService) transition(ctx context.Context, inviteID, actorID string, next models.InviteStatus) (*models.InviteView, error) {
	invite, err := s.store.GetInvite(ctx, inviteID)
	if err != nil {
		return nil, err
	}
	if invite.InvitedUserID != actorID {
		return nil, models.PermissionDenied("only the invited user can answer an invite")
	}
	if !invite.Status.CanTransitionTo(next) {
		return nil, models.Invalid("status", fmt.Sprintf("invite is already %s", invite.Status))
	}

	event, err := s.store.GetEvent(ctx, invite.EventID)
	if err != nil {
		return nil, err
	}

	if invite.Status != next {
		if err := s.store.UpdateInviteStatus(ctx, inviteID, next); err != nil {
			return nil, err
		}
		s.logger.Info("Invite answered", "invite_id", inviteID, "status", next)
	}
	invite.Status = next

	view := models.NewInviteView(invite, event)
	return &view, nil
}

// ListInvitesForUser returns every invite addressed to userID, newest first.
// Invites whose event is gone are left out.
func (s *InviteService) ListInvitesForUser(ctx context.Context, userID string) ([]models.InviteView, error) {
	invites, err := s.store.ListInvitesForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	events := make(map[string]*models.Event)
	views := make([]models.InviteView, 0, len(invites))
	for i := range invites {
		invite := &invites[i]
		event, ok := events[invite.EventID]
		if !ok {
			event, err = s.store.GetEvent(ctx, invite.EventID)
			if models.IsNotFoundKind(err, models.KindEvent) {
				continue
			}
			if err != nil {
				return nil, err
			}
			events[invite.EventID] = event
		}
		views = append(views, models.NewInviteView(invite, event))
	}
	return views, nil
}
