package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/fadegor05/PROD-hack-moscow/internal/models"
)

// PasswordAuthenticator implements password-based authentication using bcrypt.
type PasswordAuthenticator struct {
	storage UserStorage
	cost    int
}

// NewPasswordAuthenticator creates a new password-based authenticator.
func NewPasswordAuthenticator(storage UserStorage) *PasswordAuthenticator {
	return &PasswordAuthenticator{
		storage: storage,
		cost:    bcrypt.DefaultCost,
	}
}

// SetCost changes the bcrypt work factor used for new hashes.
// Values outside bcrypt's accepted range fall back to the default.
func (a *PasswordAuthenticator) SetCost(cost int) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	a.cost = cost
}

// ValidateCredential checks if the password meets minimum requirements.
func (a *PasswordAuthenticator) ValidateCredential(credential string) error {
	if len(credential) < MinPasswordLength {
		return ErrWeakPassword
	}
	return nil
}

// Register creates a new user account with a hashed password. When another
// member already added the phone as a provisional user, that user is
// upgraded in place so existing bills keep pointing at it.
func (a *PasswordAuthenticator) Register(ctx context.Context, phone, fullName, credential string) (*models.User, error) {
	phone = strings.TrimSpace(phone)
	if err := models.ValidatePhone(phone); err != nil {
		return nil, err
	}
	if err := a.ValidateCredential(credential); err != nil {
		return nil, err
	}

	existing, err := a.storage.GetUserByPhone(ctx, phone)
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up phone: %w", err)
	}
	if existing != nil && !existing.IsProvisional() {
		return nil, ErrPhoneExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(credential), a.cost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	if existing != nil {
		existing.PasswordHash = string(hashedPassword)
		if name := strings.TrimSpace(fullName); name != "" {
			existing.FullName = name
		}
		if err := existing.Validate(); err != nil {
			return nil, err
		}
		if err := a.storage.UpdateUser(ctx, existing); err != nil {
			return nil, fmt.Errorf("failed to claim provisional user: %w", err)
		}
		return existing, nil
	}

	user := models.NewUser(phone, fullName, "", string(hashedPassword))
	if err := user.Validate(); err != nil {
		return nil, err
	}
	if err := a.storage.CreateUser(ctx, user); err != nil {
		if errors.Is(err, models.ErrValidation) {
			return nil, ErrPhoneExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// Authenticate verifies the phone and password, returning the user if valid.
// Provisional users have no password and can never authenticate.
func (a *PasswordAuthenticator) Authenticate(ctx context.Context, phone, credential string) (*models.User, error) {
	user, err := a.storage.GetUserByPhone(ctx, strings.TrimSpace(phone))
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if user.IsProvisional() {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(credential)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}
