package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/fadegor05/PROD-hack-moscow/internal/models"
	"github.com/fadegor05/PROD-hack-moscow/internal/storage"
)

// UpdateProfileInput carries optional profile changes. Nil fields are left as is.
type UpdateProfileInput struct {
	FullName  *string
	AvatarURL *string
}

// UserService manages user profiles and placeholder users.
type UserService struct {
	store  storage.Store
	logger *slog.Logger
}

// NewUserService creates a new UserService.
func NewUserService(store storage.Store, logger *slog.Logger) *UserService {
	return &UserService{store: store, logger: logger}
}

// CreateProvisionalUser adds a placeholder user without credentials so bills
// can reference people who have not signed up yet. They can claim the
// account later by registering with the same phone.
func (s *UserService) CreateProvisionalUser(ctx context.Context, phone, fullName, avatarURL string) (*models.UserView, error) {
	user := models.NewUser(phone, fullName, avatarURL, "")
	if err := user.Validate(); err != nil {
		return nil, err
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	s.logger.Info("Provisional user created", "user_id", user.ID)

	view := models.NewUserView(user)
	return &view, nil
}

// GetUser returns the user with the given ID.
func (s *UserService) GetUser(ctx context.Context, userID string) (*models.UserView, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	view := models.NewUserView(user)
	return &view, nil
}

// GetUserByPhone returns the user registered with phone.
func (s *UserService) GetUserByPhone(ctx context.Context, phone string) (*models.UserView, error) {
	phone = strings.TrimSpace(phone)
	if err := models.ValidatePhone(phone); err != nil {
		return nil, err
	}
	user, err := s.store.GetUserByPhone(ctx, phone)
	if err != nil {
		return nil, err
	}
	view := models.NewUserView(user)
	return &view, nil
}

// UpdateProfile changes the requester's own name and avatar.
func (s *UserService) UpdateProfile(ctx context.Context, requesterID string, input UpdateProfileInput) (*models.UserView, error) {
	user, err := s.store.GetUser(ctx, requesterID)
	if err != nil {
		return nil, err
	}

	if input.FullName != nil {
		user.FullName = strings.TrimSpace(*input.FullName)
	}
	if input.AvatarURL != nil {
		user.AvatarURL = strings.TrimSpace(*input.AvatarURL)
	}
	if err := user.Validate(); err != nil {
		return nil, err
	}

	if err := s.store.UpdateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	view := models.NewUserView(user)
	return &view, nil
}
