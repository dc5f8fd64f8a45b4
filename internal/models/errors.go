package models

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrPermissionDenied = errors.New("permission denied")
	ErrValidation       = errors.New("validation failed")
)

// EntityKind names the type of entity a NotFoundError refers to.
type EntityKind string

const (
	KindUser   EntityKind = "user"
	KindEvent  EntityKind = "event"
	KindBill   EntityKind = "bill"
	KindItem   EntityKind = "item"
	KindInvite EntityKind = "invite"
)

// NotFoundError reports that an entity of the given kind does not exist.
// errors.Is(err, ErrNotFound) holds for every NotFoundError.
type NotFoundError struct {
	Kind EntityKind
	ID   string
}

// NotFound returns a NotFoundError for the given kind and identifier.
func NotFound(kind EntityKind, id string) error {
	return &NotFoundError{Kind: kind, ID: id}
}

func (e *NotFoundError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s not found", e.Kind)
	}
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// IsNotFoundKind reports whether err is a NotFoundError for kind.
func IsNotFoundKind(err error, kind EntityKind) bool {
	var nf *NotFoundError
	return errors.As(err, &nf) && nf.Kind == kind
}

// ValidationError reports input that violates a data-model invariant.
// errors.Is(err, ErrValidation) holds for every ValidationError.
type ValidationError struct {
	Field  string
	Reason string
}

// Invalid returns a ValidationError for field.
func Invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// PermissionDenied wraps ErrPermissionDenied with a reason.
func PermissionDenied(reason string) error {
	return fmt.Errorf("%w: %s", ErrPermissionDenied, reason)
}
