package server

import (
	"context"
	"errors"

	"connectrpc.com/connect"

	"github.com/fadegor05/PROD-hack-moscow/internal/auth"
	"github.com/fadegor05/PROD-hack-moscow/internal/middleware"
	"github.com/fadegor05/PROD-hack-moscow/internal/models"
)

// toConnectError maps domain errors to Connect status codes. Internal
// failures are logged and replaced by a generic message.
func toConnectError(ctx context.Context, err error) error {
	var connectErr *connect.Error
	switch {
	case err == nil:
		return nil
	case errors.As(err, &connectErr):
		return connectErr
	case errors.Is(err, models.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, models.ErrPermissionDenied):
		return connect.NewError(connect.CodePermissionDenied, err)
	case errors.Is(err, auth.ErrPhoneExists):
		return connect.NewError(connect.CodeAlreadyExists, err)
	case errors.Is(err, auth.ErrWeakPassword), errors.Is(err, models.ErrValidation):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrMissingToken):
		return connect.NewError(connect.CodeUnauthenticated, err)
	case errors.Is(err, middleware.ErrRateLimited):
		return connect.NewError(connect.CodeResourceExhausted, err)
	case errors.Is(err, context.Canceled):
		return connect.NewError(connect.CodeCanceled, err)
	case errors.Is(err, context.DeadlineExceeded):
		return connect.NewError(connect.CodeDeadlineExceeded, err)
	}

	middleware.Logger(ctx).Error("internal error", "error", err)
	return connect.NewError(connect.CodeInternal, errors.New("internal error"))
}

// requesterID returns the authenticated caller or an Unauthenticated error.
func requesterID(ctx context.Context) (string, error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return "", connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
	}
	return userID, nil
}
