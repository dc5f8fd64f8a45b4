package server

import (
	"context"

	"connectrpc.com/connect"

	"github.com/fadegor05/PROD-hack-moscow/internal/service"
)

type CreateUserRequest struct {
	Phone     string `json:"phone"`
	FullName  string `json:"full_name"`
	AvatarURL string `json:"avatar_url"`
}

type GetUserRequest struct {
	ID string `json:"id"`
}

type GetUserByPhoneRequest struct {
	Phone string `json:"phone"`
}

// UpdateProfileRequest changes only the fields that are present.
type UpdateProfileRequest struct {
	FullName  *string `json:"full_name,omitempty"`
	AvatarURL *string `json:"avatar_url,omitempty"`
}

// UserHandler serves user lookups and profile changes.
type UserHandler struct {
	users *service.UserService
}

func NewUserHandler(users *service.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// CreateUser adds a provisional user that can be put on bills before
// signing up.
func (h *UserHandler) CreateUser(ctx context.Context, req *connect.Request[CreateUserRequest]) (*connect.Response[UserResponse], error) {
	user, err := h.users.CreateProvisionalUser(ctx, req.Msg.Phone, req.Msg.FullName, req.Msg.AvatarURL)
	if err != nil {
		return nil, toConnectError(ctx, err)
	}
	return connect.NewResponse(&UserResponse{User: *user}), nil
}

func (h *UserHandler) GetUser(ctx context.Context, req *connect.Request[GetUserRequest]) (*connect.Response[UserResponse], error) {
	user, err := h.users.GetUser(ctx, req.Msg.ID)
	if err != nil {
		return nil, toConnectError(ctx, err)
	}
	return connect.NewResponse(&UserResponse{User: *user}), nil
}

func (h *UserHandler) GetUserByPhone(ctx context.Context, req *connect.Request[GetUserByPhoneRequest]) (*connect.Response[UserResponse], error) {
	user, err := h.users.GetUserByPhone(ctx, req.Msg.Phone)
	if err != nil {
		return nil, toConnectError(ctx, err)
	}
	return connect.NewResponse(&UserResponse{User: *user}), nil
}

// UpdateProfile edits the caller's own profile.
func (h *UserHandler) UpdateProfile(ctx context.Context, req *connect.Request[UpdateProfileRequest]) (*connect.Response[UserResponse], error) {
	userID, err := requesterID(ctx)
	if err != nil {
		return nil, err
	}

	user, err := h.users.UpdateProfile(ctx, userID, service.UpdateProfileInput{
		FullName:  req.Msg.FullName,
		AvatarURL: req.Msg.AvatarURL,
	})
	if err != nil {
		return nil, toConnectError(ctx, err)
	}
	return connect.NewResponse(&UserResponse{User: *user}), nil
}
