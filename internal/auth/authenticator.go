package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/fadegor05/PROD-hack-moscow/internal/models"
)

// MinPasswordLength is the shortest accepted password.
const MinPasswordLength = 8

var (
	ErrInvalidCredentials = errors.New("invalid phone or password")
	ErrWeakPassword       = fmt.Errorf("password must be at least %d characters", MinPasswordLength)
	ErrPhoneExists        = errors.New("phone already registered")
)

// Authenticator turns a phone plus credential into a registered user.
// Handlers only see this interface, so the credential kind can change
// (passwords today, one-time SMS codes later) without touching transport code.
type Authenticator interface {
	// Register claims a provisional user holding the phone if one exists,
	// otherwise it creates a fresh account.
	Register(ctx context.Context, phone, fullName, credential string) (*models.User, error)

	// Authenticate returns ErrInvalidCredentials for unknown phones,
	// provisional users and wrong credentials alike.
	Authenticate(ctx context.Context, phone, credential string) (*models.User, error)

	ValidateCredential(credential string) error
}

// UserStorage is the slice of storage.Store the authenticators need.
type UserStorage interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByPhone(ctx context.Context, phone string) (*models.User, error)
	UpdateUser(ctx context.Context, user *models.User) error
}

var _ Authenticator = (*PasswordAuthenticator)(nil)
