package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/fadegor05/PROD-hack-moscow/internal/models"
	"github.com/fadegor05/PROD-hack-moscow/internal/storage"
)

// billOrderColumns whitelists the columns bill listings may be ordered by.
var billOrderColumns = storage.Columns{
	"id":         "b.id",
	"name":       "b.name",
	"created_at": "b.created_at",
}

// participatesInBill matches bills the user paid or holds an item in.
const participatesInBill = `
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
	)`

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// CreateBill persists a new bill and its items in a single transaction.
func (s *SQLiteStore) CreateBill(ctx context.Context, bill *models.Bill) error {
	if bill.ID == "" {
		bill.ID = uuid.New().String()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO bills (id, name, event_id, paid_by_id, created_at) VALUES (?, ?, ?, ?, ?)",
		bill.ID, bill.Name, nullString(bill.EventID), nullString(bill.PaidByID), time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert bill: %w", err)
	}

	for i := range bill.Items {
		item := &bill.Items[i]
		item.BillID = bill.ID
		if err := insertItem(ctx, tx, item, i); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// insertItem writes an item and its participant list at the given position.
func insertItem(ctx context.Context, db execer, item *models.Item, position int) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}

	_, err := db.ExecContext(ctx,
		"INSERT INTO items (id, bill_id, name, price, assigned_user_id, is_paid, position) VALUES (?, ?, ?, ?, ?, ?, ?)",
		item.ID, item.BillID, item.Name, item.Price.String(), item.AssignedUserID, boolToInt(item.IsPaid), position,
	)
	if err != nil {
		return fmt.Errorf("failed to insert item: %w", err)
	}

	for j, userID := range item.ParticipantIDs {
		_, err = db.ExecContext(ctx,
			"INSERT OR IGNORE INTO item_participants (item_id, user_id, position) VALUES (?, ?, ?)",
			item.ID, userID, j,
		)
		if err != nil {
			return fmt.Errorf("failed to insert item participant: %w", err)
		}
	}

	return nil
}

// GetBill retrieves a bill by ID, including its event, payer and items with
// their assigned users and participants.
func (s *SQLiteStore) GetBill(ctx context.Context, billID string) (*models.Bill, error) {
	bill := &models.Bill{}
	var eventID, paidByID sql.NullString
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, event_id, paid_by_id FROM bills WHERE id = ?",
		billID,
	).Scan(&bill.ID, &bill.Name, &eventID, &paidByID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.NotFound(models.KindBill, billID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get bill: %w", err)
	}
	bill.EventID = eventID.String
	bill.PaidByID = paidByID.String

	if bill.EventID != "" {
		event, err := s.GetEvent(ctx, bill.EventID)
		if err != nil && !errors.Is(err, models.ErrNotFound) {
			return nil, fmt.Errorf("failed to get bill event: %w", err)
		}
		bill.Event = event
	}

	items, err := s.listItems(ctx, "i.bill_id = ?", billID)
	if err != nil {
		return nil, err
	}
	bill.Items = items

	// Resolve every referenced user in one query
	userIDs := []string{}
	if bill.PaidByID != "" {
		userIDs = append(userIDs, bill.PaidByID)
	}
	for _, item := range items {
		userIDs = append(userIDs, item.AssignedUserID)
		userIDs = append(userIDs, item.ParticipantIDs...)
	}
	users, err := s.getUsersByIDs(ctx, userIDs)
	if err != nil {
		return nil, err
	}

	bill.PaidBy = users[bill.PaidByID]
	for i := range bill.Items {
		item := &bill.Items[i]
		item.AssignedUser = users[item.AssignedUserID]
		for _, participantID := range item.ParticipantIDs {
			if user, ok := users[participantID]; ok {
				item.Participants = append(item.Participants, *user)
			}
		}
	}

	return bill, nil
}

// ListBillIDsForUser returns one page of the bills the user participates in.
func (s *SQLiteStore) ListBillIDsForUser(ctx context.Context, userID string, page storage.Page) ([]string, error) {
	page, orderBy, err := page.OrderClause(billOrderColumns)
	if err != nil {
		return nil, err
	}

	query := `SELECT b.id FROM bills b WHERE ` + participatesInBill + ` ` + orderBy + ` LIMIT :limit OFFSET :offset`
	return s.queryIDs(ctx, query,
		sql.Named("user", userID),
		sql.Named("limit", page.Limit),
		sql.Named("offset", page.Skip),
	)
}

// CreateItem appends an item to the end of an existing bill.
func (s *SQLiteStore) CreateItem(ctx context.Context, item *models.Item) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var exists bool
	err = tx.QueryRowContext(ctx, "SELECT EXISTS (SELECT 1 FROM bills WHERE id = ?)", item.BillID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check bill: %w", err)
	}
	if !exists {
		return models.NotFound(models.KindBill, item.BillID)
	}

	var position int
	err = tx.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(position), -1) + 1 FROM items WHERE bill_id = ?",
		item.BillID,
	).Scan(&position)
	if err != nil {
		return fmt.Errorf("failed to get item position: %w", err)
	}

	if err := insertItem(ctx, tx, item, position); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetItem retrieves a single item by ID with its participant IDs.
func (s *SQLiteStore) GetItem(ctx context.Context, itemID string) (*models.Item, error) {
	items, err := s.listItems(ctx, "i.id = ?", itemID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, models.NotFound(models.KindItem, itemID)
	}
	return &items[0], nil
}

// SetItemPaid updates the paid flag of an item.
func (s *SQLiteStore) SetItemPaid(ctx context.Context, itemID string, paid bool) error {
	result, err := s.db.ExecContext(ctx,
		"UPDATE items SET is_paid = ? WHERE id = ?",
		boolToInt(paid), itemID,
	)
	if err != nil {
		return fmt.Errorf("failed to update item: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if n == 0 {
		return models.NotFound(models.KindItem, itemID)
	}

	return nil
}

// listItems loads the items matching where, in bill order, with participant
// IDs attached. The item rows are fully read before participants are queried.
func (s *SQLiteStore) listItems(ctx context.Context, where string, arg any) ([]models.Item, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT i.id, i.bill_id, i.name, i.price, i.assigned_user_id, i.is_paid
		FROM items i WHERE `+where+` ORDER BY i.position, i.rowid`,
		arg,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get items: %w", err)
	}
	defer rows.Close()

	var items []models.Item
	index := make(map[string]int)
	for rows.Next() {
		var item models.Item
		if err := rows.Scan(&item.ID, &item.BillID, &item.Name, &item.Price, &item.AssignedUserID, &item.IsPaid); err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		index[item.ID] = len(items)
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate items: %w", err)
	}
	rows.Close()

	if len(items) == 0 {
		return items, nil
	}

	partRows, err := s.db.QueryContext(ctx,
		`SELECT p.item_id, p.user_id
		FROM item_participants p JOIN items i ON i.id = p.item_id
		WHERE `+where+` ORDER BY p.position`,
		arg,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get item participants: %w", err)
	}
	defer partRows.Close()

	for partRows.Next() {
		var itemID, userID string
		if err := partRows.Scan(&itemID, &userID); err != nil {
			return nil, fmt.Errorf("failed to scan item participant: %w", err)
		}
		if i, ok := index[itemID]; ok {
			items[i].ParticipantIDs = append(items[i].ParticipantIDs, userID)
		}
	}
	if err := partRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate item participants: %w", err)
	}

	return items, nil
}
