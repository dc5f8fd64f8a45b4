package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/fadegor05/PROD-hack-moscow/internal/models"
	"github.com/fadegor05/PROD-hack-moscow/internal/storage"
)

// eventOrderColumns whitelists the columns event listings may be ordered by.
var eventOrderColumns = storage.Columns{
	"id":         "e.id",
	"name":       "e.name",
	"title":      "e.name",
	"created_at": "e.created_at",
	"until":      "e.until",
}

// participatesInEvent matches events the user owns, paid a bill in, or
// holds an item in, either as assignee or as participant.
const participatesInEvent = `
	e.owner_id = :user
	OR EXISTS (
		SELECT 1 FROM bills b
		WHERE b.event_id = e.id
		AND (
			b.paid_by_id = :user
			OR EXISTS (
				SELECT 1 FROM items i
				WHERE i.bill_id = b.id
				AND (
					i.assigned_user_id = :user
					OR EXISTS (
						SELECT 1 FROM item_participants p
						WHERE p.item_id = i.id AND p.user_id = :user
					)
				)
			)
		)
	)`

// CreateEvent persists a new event.
func (s *SQLiteStore) CreateEvent(ctx context.Context, event *models.Event) error {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO events (id, name, description, created_at, until, owner_id) VALUES (?, ?, ?, ?, ?, ?)",
		event.ID, event.Name, event.Description, event.CreatedAt.Unix(), event.Until.Unix(), event.OwnerID,
	)
	if err != nil {
		return fmt.Errorf("failed to insert event: %w", err)
	}

	return nil
}

// GetEvent retrieves an event by ID, including its owner and bill IDs.
func (s *SQLiteStore) GetEvent(ctx context.Context, eventID string) (*models.Event, error) {
	event := &models.Event{}
	var createdAt, until int64
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, description, created_at, until, owner_id FROM events WHERE id = ?",
		eventID,
	).Scan(&event.ID, &event.Name, &event.Description, &createdAt, &until, &event.OwnerID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.NotFound(models.KindEvent, eventID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	event.CreatedAt = unixTime(createdAt)
	event.Until = unixTime(until)

	owner, err := s.GetUser(ctx, event.OwnerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get event owner: %w", err)
	}
	event.Owner = owner

	rows, err := s.db.QueryContext(ctx,
		"SELECT id FROM bills WHERE event_id = ? ORDER BY created_at, rowid",
		eventID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get event bills: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var billID string
		if err := rows.Scan(&billID); err != nil {
			return nil, fmt.Errorf("failed to scan bill ID: %w", err)
		}
		event.BillIDs = append(event.BillIDs, billID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate event bills: %w", err)
	}

	return event, nil
}

// ListEventIDsForUser returns one page of the events the user participates in.
func (s *SQLiteStore) ListEventIDsForUser(ctx context.Context, userID string, page storage.Page) ([]string, error) {
	page, orderBy, err := page.OrderClause(eventOrderColumns)
	if err != nil {
		return nil, err
	}

	query := `SELECT e.id FROM events e WHERE ` + participatesInEvent + ` ` + orderBy + ` LIMIT :limit OFFSET :offset`
	return s.queryIDs(ctx, query,
		sql.Named("user", userID),
		sql.Named("limit", page.Limit),
		sql.Named("offset", page.Skip),
	)
}

// queryIDs runs a query returning a single string column.
func (s *SQLiteStore) queryIDs(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list IDs: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan ID: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate IDs: %w", err)
	}

	return ids, nil
}
