package server

import (
	"context"

	"connectrpc.com/connect"

	"github.com/fadegor05/PROD-hack-moscow/internal/models"
	"github.com/fadegor05/PROD-hack-moscow/internal/service"
)

type CreateInviteRequest struct {
	EventID string `json:"event_id"`
	UserID  string `json:"user_id"`
}

// AnswerInviteRequest is shared by AcceptInvite and DeclineInvite.
type AnswerInviteRequest struct {
	InviteID string `json:"invite_id"`
}

type ListInvitesRequest struct{}

type InviteResponse struct {
	Invite models.InviteView `json:"invite"`
}

type ListInvitesResponse struct {
	Invites []models.InviteView `json:"invites"`
}

// InviteHandler serves event invitations.
type InviteHandler struct {
	invites *service.InviteService
}

func NewInviteHandler(invites *service.InviteService) *InviteHandler {
	return &InviteHandler{invites: invites}
}

func (h *InviteHandler) CreateInvite(ctx context.Context, req *connect.Request[CreateInviteRequest]) (*connect.Response[InviteResponse], error) {
	invite, err := h.invites.CreateInvite(ctx, req.Msg.EventID, req.Msg.UserID)
	if err != nil {
		return nil, toConnectError(ctx, err)
	}
	return connect.NewResponse(&InviteResponse{Invite: *invite}), nil
}

func (h *InviteHandler) AcceptInvite(ctx context.Context, req *connect.Request[AnswerInviteRequest]) (*connect.Response[InviteResponse], error) {
	return h.answer(ctx, req.Msg.InviteID, h.invites.AcceptInvite)
}

func (h *InviteHandler) DeclineInvite(ctx context.Context, req *connect.Request[AnswerInviteRequest]) (*connect.Response[InviteResponse], error) {
	return h.answer(ctx, req.Msg.InviteID, h.invites.DeclineInvite)
}

func (h *InviteHandler) answer(
	ctx context.Context,
	inviteID string,
	fn func(ctx context.Context, inviteID, actorID string) (*models.InviteView, error),
) (*connect.Response[InviteResponse], error) {
	userID, err := requesterID(ctx)
	if err != nil {
		return nil, err
	}

	invite, err := fn(ctx, inviteID, userID)
	if err != nil {
		return nil, toConnectError(ctx, err)
	}
	return connect.NewResponse(&InviteResponse{Invite: *invite}), nil
}

// ListInvites returns the invites addressed to the caller.
func (h *InviteHandler) ListInvites(ctx context.Context, req *connect.Request[ListInvitesRequest]) (*connect.Response[ListInvitesResponse], error) {
	userID, err := requesterID(ctx)
	if err != nil {
		return nil, err
	}

	invites, err := h.invites.ListInvitesForUser(ctx, userID)
	if err != nil {
		return nil, toConnectError(ctx, err)
	}
	return connect.NewResponse(&ListInvitesResponse{Invites: invites}), nil
}
