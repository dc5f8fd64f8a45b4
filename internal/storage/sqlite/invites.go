package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/fadegor05/PROD-hack-moscow/internal/models"
)

func scanInvite(row rowScanner) (*models.Invite, error) {
	invite := &models.Invite{}
	var status string
	var createdAt int64
	if err := row.Scan(&invite.ID, &invite.EventID, &invite.InvitedUserID, &status, &createdAt); err != nil {
		return nil, err
	}
	invite.Status = models.InviteStatus(status)
	invite.CreatedAt = unixTime(createdAt)
	return invite, nil
}

// CreateInvite persists a new invite.
func (s *SQLiteStore) CreateInvite(ctx context.Context, invite *models.Invite) error {
	if invite.ID == "" {
		invite.ID = uuid.New().String()
	}
	if invite.Status == "" {
		invite.Status = models.InviteStatusPending
	}
	if invite.CreatedAt.IsZero() {
		invite.CreatedAt = time.Now().UTC().Truncate(time.Second)
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO invites (id, event_id, invited_user_id, status, created_at) VALUES (?, ?, ?, ?, ?)",
		invite.ID, invite.EventID, invite.InvitedUserID, string(invite.Status), invite.CreatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert invite: %w", err)
	}

	return nil
}

// GetInvite retrieves an invite by ID.
func (s *SQLiteStore) GetInvite(ctx context.Context, inviteID string) (*models.Invite, error) {
	invite, err := scanInvite(s.db.QueryRowContext(ctx,
		"SELECT id, event_id, invited_user_id, status, created_at FROM invites WHERE id = ?",
		inviteID,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.NotFound(models.KindInvite, inviteID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get invite: %w", err)
	}

	return invite, nil
}

// UpdateInviteStatus overwrites the status of an invite.
func (s *SQLiteStore) UpdateInviteStatus(ctx context.Context, inviteID string, status models.InviteStatus) error {
	result, err := s.db.ExecContext(ctx,
		"UPDATE invites SET status = ? WHERE id = ?",
		string(status), inviteID,
	)
	if err != nil {
		return fmt.Errorf("failed to update invite: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if n == 0 {
		return models.NotFound(models.KindInvite, inviteID)
	}

	return nil
}

// ListInvitesForUser returns every invite addressed to the user, newest first.
func (s *SQLiteStore) ListInvitesForUser(ctx context.Context, userID string) ([]models.Invite, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, event_id, invited_user_id, status, created_at
		FROM invites WHERE invited_user_id = ?
		ORDER BY created_at DESC, rowid DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list invites: %w", err)
	}
	defer rows.Close()

	invites := []models.Invite{}
	for rows.Next() {
		invite, err := scanInvite(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan invite: %w", err)
		}
		invites = append(invites, *invite)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate invites: %w", err)
	}

	return invites, nil
}
