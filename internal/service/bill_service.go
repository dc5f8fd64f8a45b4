package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/fadegor05/PROD-hack-moscow/internal/models"
	"github.com/fadegor05/PROD-hack-moscow/internal/storage"
)

// ItemInput describes an item to add to a bill.
type ItemInput struct {
	Name           string
	Price          decimal.Decimal
	AssignedUserID string
	ParticipantIDs []string
	IsPaid         bool
}

// CreateBillInput describes a new bill. PaidByID defaults to the requester.
type CreateBillInput struct {
	Name     string
	EventID  string
	PaidByID string
	Items    []ItemInput
}

// BillService assembles bill views and manages bills and their items.
type BillService struct {
	store  storage.Store
	logger *slog.Logger
}

// NewBillService creates a new BillService with the given storage backend.
func NewBillService(store storage.Store, logger *slog.Logger) *BillService {
	return &BillService{store: store, logger: logger}
}

// AssembleBillView returns the bill as seen by requesterID.
func (s *BillService) AssembleBillView(ctx context.Context, billID, requesterID string) (*models.BillView, error) {
	bill, err := s.store.GetBill(ctx, billID)
	if err != nil {
		return nil, err
	}

	view, err := assembleBillView(bill, requesterID)
	if err != nil {
		return nil, fmt.Errorf("bill %s: %w", billID, err)
	}
	return view, nil
}

// ListBillViewsForUser returns one page of the bills userID takes part in.
// Bills deleted between listing and assembly are skipped.
func (s *BillService) ListBillViewsForUser(ctx context.Context, userID string, page storage.Page) ([]models.BillView, error) {
	ids, err := s.store.ListBillIDsForUser(ctx, userID, page)
	if err != nil {
		return nil, err
	}

	views := make([]models.BillView, 0, len(ids))
	for _, id := range uniqueStrings(ids) {
		view, err := s.AssembleBillView(ctx, id, userID)
		if models.IsNotFoundKind(err, models.KindBill) {
			s.logger.Debug("Bill vanished during listing", "bill_id", id)
			continue
		}
		if err != nil {
			return nil, err
		}
		views = append(views, *view)
	}
	return views, nil
}

// CreateBill validates and stores a bill with its items, then returns the
// requester's view of it.
func (s *BillService) CreateBill(ctx context.Context, requesterID string, input CreateBillInput) (*models.BillView, error) {
	bill := &models.Bill{
		Name:     strings.TrimSpace(input.Name),
		EventID:  input.EventID,
		PaidByID: input.PaidByID,
	}
	if bill.PaidByID == "" {
		bill.PaidByID = requesterID
	}
	if err := bill.Validate(); err != nil {
		return nil, err
	}

	if bill.EventID != "" {
		if _, err := s.store.GetEvent(ctx, bill.EventID); err != nil {
			return nil, err
		}
	}

	known := map[string]bool{}
	if err := s.requireUsers(ctx, known, bill.PaidByID); err != nil {
		return nil, err
	}

	for i, in := range input.Items {
		item, err := s.buildItem(ctx, known, in)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		bill.Items = append(bill.Items, *item)
	}

	if err := s.store.CreateBill(ctx, bill); err != nil {
		s.logger.Error("CreateBill failed", "error", err)
		return nil, fmt.Errorf("failed to create bill: %w", err)
	}
	s.logger.Info("Bill created", "bill_id", bill.ID, "event_id", bill.EventID, "items", len(bill.Items))

	return s.AssembleBillView(ctx, bill.ID, requesterID)
}

// AddItem appends an item to a bill. Only the bill's payer may add items
// to a bill that has one.
func (s *BillService) AddItem(ctx context.Context, requesterID, billID string, input ItemInput) (*models.ItemView, error) {
	bill, err := s.store.GetBill(ctx, billID)
	if err != nil {
		return nil, err
	}
	if bill.PaidByID != "" && bill.PaidByID != requesterID {
		return nil, models.PermissionDenied("only the payer can add items to this bill")
	}

	item, err := s.buildItem(ctx, map[string]bool{}, input)
	if err != nil {
		return nil, err
	}
	item.BillID = bill.ID

	if err := s.store.CreateItem(ctx, item); err != nil {
		s.logger.Error("AddItem failed", "bill_id", billID, "error", err)
		return nil, fmt.Errorf("failed to add item: %w", err)
	}

	view := models.NewItemView(item)
	return &view, nil
}

// SetItemPaid marks an item as collected (or not) by the bill's payer.
func (s *BillService) SetItemPaid(ctx context.Context, requesterID, itemID string, paid bool) (*models.ItemView, error) {
	item, err := s.store.GetItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	bill, err := s.store.GetBill(ctx, item.BillID)
	if err != nil {
		return nil, err
	}
	if bill.PaidByID == "" || bill.PaidByID != requesterID {
		return nil, models.PermissionDenied("only the payer can change the paid flag")
	}

	if err := s.store.SetItemPaid(ctx, itemID, paid); err != nil {
		return nil, err
	}
	item.IsPaid = paid

	view := models.NewItemView(item)
	return &view, nil
}

// buildItem validates input and checks every referenced user exists.
// known caches users already checked within one request.
func (s *BillService) buildItem(ctx context.Context, known map[string]bool, in ItemInput) (*models.Item, error) {
	item := &models.Item{
		Name:           strings.TrimSpace(in.Name),
		Price:          in.Price,
		AssignedUserID: in.AssignedUserID,
		IsPaid:         in.IsPaid,
		ParticipantIDs: uniqueStrings(in.ParticipantIDs),
	}
	if len(item.ParticipantIDs) == 0 {
		item.ParticipantIDs = nil
	}
	if err := item.Validate(); err != nil {
		return nil, err
	}

	if err := s.requireUsers(ctx, known, item.AssignedUserID); err != nil {
		return nil, err
	}
	if err := s.requireUsers(ctx, known, item.ParticipantIDs...); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *BillService) requireUsers(ctx context.Context, known map[string]bool, ids ...string) error {
	for _, id := range ids {
		if known[id] {
			continue
		}
		if _, err := s.store.GetUser(ctx, id); err != nil {
			if errors.Is(err, models.ErrNotFound) {
				return err
			}
			return fmt.Errorf("failed to check user %s: %w", id, err)
		}
		known[id] = true
	}
	return nil
}
