package models

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

const (
	MaxFullNameLength  = 100
	MaxAvatarURLLength = 200
)

var phonePattern = regexp.MustCompile(`^\+[1-9][0-9\-().]{9,15}$`)

// User represents a person who can pay bills, be assigned items and own events.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string

	// Phone is the user's phone number in international format (e.g. "+79123456789").
	// Unique across all users.
	Phone string

	// FullName is the display name of the user. Never empty.
	FullName string

	// AvatarURL is an optional link to the user's picture.
	AvatarURL string

	// PasswordHash is the bcrypt hash of the user's password.
	// Empty for provisional users created as placeholders by other members.
	PasswordHash string

	// CreatedAt is the Unix timestamp when the user was created.
	CreatedAt int64
}

// NewUser creates a user with a fresh ID and creation time.
func NewUser(phone, fullName, avatarURL, passwordHash string) *User {
	return &User{
		ID:           uuid.New().String(),
		Phone:        strings.TrimSpace(phone),
		FullName:     strings.TrimSpace(fullName),
		AvatarURL:    strings.TrimSpace(avatarURL),
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().Unix(),
	}
}

// IsProvisional reports whether the user was created without credentials.
func (u *User) IsProvisional() bool { return u.PasswordHash == "" }

// Validate checks the user invariants: a well-formed phone and a full name.
func (u *User) Validate() error {
	if err := ValidatePhone(u.Phone); err != nil {
		return err
	}
	if strings.TrimSpace(u.FullName) == "" {
		return Invalid("full_name", "must not be empty")
	}
	if utf8.RuneCountInString(u.FullName) > MaxFullNameLength {
		return Invalid("full_name", "must be at most 100 characters")
	}
	if len(u.AvatarURL) > MaxAvatarURLLength {
		return Invalid("avatar_url", "must be at most 200 characters")
	}
	return nil
}

// ValidatePhone checks phone against the accepted international format.
func ValidatePhone(phone string) error {
	if phone == "" {
		return Invalid("phone", "must not be empty")
	}
	if !phonePattern.MatchString(phone) {
		return Invalid("phone", "must look like +79123456789")
	}
	return nil
}
