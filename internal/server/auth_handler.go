package server

import (
	"context"

	"connectrpc.com/connect"

	"github.com/fadegor05/PROD-hack-moscow/internal/auth"
	"github.com/fadegor05/PROD-hack-moscow/internal/middleware"
	"github.com/fadegor05/PROD-hack-moscow/internal/models"
	"github.com/fadegor05/PROD-hack-moscow/internal/service"
)

type RegisterRequest struct {
	Phone    string `json:"phone"`
	FullName string `json:"full_name"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

// AuthResponse carries the signed-in user and a bearer token.
type AuthResponse struct {
	User      models.UserView `json:"user"`
	Token     string          `json:"token"`
	ExpiresAt string          `json:"expires_at"`
}

func newAuthResponse(user *models.User, token auth.Token) *AuthResponse {
	return &AuthResponse{
		User:      models.NewUserView(user),
		Token:     token.Value,
		ExpiresAt: models.FormatTime(token.ExpiresAt),
	}
}

type GetCurrentUserRequest struct{}

type UserResponse struct {
	User models.UserView `json:"user"`
}

// AuthHandler serves registration, login and the current-user lookup.
type AuthHandler struct {
	authenticator auth.Authenticator
	jwtManager    *auth.JWTManager
	users         *service.UserService
}

// NewAuthHandler creates a new authentication handler.
func NewAuthHandler(authenticator auth.Authenticator, jwtManager *auth.JWTManager, users *service.UserService) *AuthHandler {
	return &AuthHandler{
		authenticator: authenticator,
		jwtManager:    jwtManager,
		users:         users,
	}
}

// Register creates a new user account.
func (h *AuthHandler) Register(ctx context.Context, req *connect.Request[RegisterRequest]) (*connect.Response[AuthResponse], error) {
	logger := middleware.Logger(ctx)

	user, err := h.authenticator.Register(ctx, req.Msg.Phone, req.Msg.FullName, req.Msg.Password)
	if err != nil {
		logger.Warn("Registration failed", "error", err)
		return nil, toConnectError(ctx, err)
	}

	token, err := h.jwtManager.Generate(user)
	if err != nil {
		return nil, toConnectError(ctx, err)
	}

	logger.Info("User registered", "user_id", user.ID)
	return connect.NewResponse(newAuthResponse(user, token)), nil
}

// Login authenticates a user and returns a JWT token.
func (h *AuthHandler) Login(ctx context.Context, req *connect.Request[LoginRequest]) (*connect.Response[AuthResponse], error) {
	logger := middleware.Logger(ctx)

	if req.Msg.Phone == "" || req.Msg.Password == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, auth.ErrInvalidCredentials)
	}

	user, err := h.authenticator.Authenticate(ctx, req.Msg.Phone, req.Msg.Password)
	if err != nil {
		logger.Warn("Login failed", "error", err)
		return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrInvalidCredentials)
	}

	token, err := h.jwtManager.Generate(user)
	if err != nil {
		return nil, toConnectError(ctx, err)
	}

	logger.Info("User logged in", "user_id", user.ID)
	return connect.NewResponse(newAuthResponse(user, token)), nil
}

// GetCurrentUser returns the profile behind the bearer token.
func (h *AuthHandler) GetCurrentUser(ctx context.Context, req *connect.Request[GetCurrentUserRequest]) (*connect.Response[UserResponse], error) {
	userID, err := requesterID(ctx)
	if err != nil {
		return nil, err
	}

	user, err := h.users.GetUser(ctx, userID)
	if err != nil {
		return nil, toConnectError(ctx, err)
	}
	return connect.NewResponse(&UserResponse{User: *user}), nil
}
