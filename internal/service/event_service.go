package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fadegor05/PROD-hack-moscow/internal/calculator"
	"github.com/fadegor05/PROD-hack-moscow/internal/models"
	"github.com/fadegor05/PROD-hack-moscow/internal/storage"
)

// DefaultEventTTL is how long an event stays open when no end is given.
const DefaultEventTTL = 24 * time.Hour

// CreateEventInput describes a new event. A zero Until means
// created_at plus the service's default TTL.
type CreateEventInput struct {
	Name        string
	Description string
	Until       time.Time
}

// EventService assembles event views and balances.
type EventService struct {
	store      storage.Store
	bills      *BillService
	logger     *slog.Logger
	defaultTTL time.Duration
	now        func() time.Time
}

// NewEventService creates a new EventService. Bill views inside events are
// assembled by bills. A non-positive defaultTTL falls back to DefaultEventTTL.
func NewEventService(store storage.Store, bills *BillService, logger *slog.Logger, defaultTTL time.Duration) *EventService {
	if defaultTTL <= 0 {
		defaultTTL = DefaultEventTTL
	}
	return &EventService{
		store:      store,
		bills:      bills,
		logger:     logger,
		defaultTTL: defaultTTL,
		now:        time.Now,
	}
}

// CreateEvent creates an event owned by ownerID starting now.
func (s *EventService) CreateEvent(ctx context.Context, ownerID string, input CreateEventInput) (*models.EventView, error) {
	owner, err := s.store.GetUser(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC().Truncate(time.Second)
	event := &models.Event{
		Name:        strings.TrimSpace(input.Name),
		Description: strings.TrimSpace(input.Description),
		CreatedAt:   now,
		Until:       input.Until.UTC().Truncate(time.Second),
		OwnerID:     owner.ID,
		Owner:       owner,
	}
	if input.Until.IsZero() {
		event.Until = now.Add(s.defaultTTL)
	}
	if err := event.Validate(); err != nil {
		return nil, err
	}

	if err := s.store.CreateEvent(ctx, event); err != nil {
		s.logger.Error("CreateEvent failed", "owner_id", ownerID, "error", err)
		return nil, fmt.Errorf("failed to create event: %w", err)
	}
	s.logger.Info("Event created", "event_id", event.ID, "owner_id", ownerID)

	return s.assemble(ctx, event, ownerID)
}

// AssembleEventView returns the event with every available bill as seen by
// requesterID. Bills that cannot be found are left out.
func (s *EventService) AssembleEventView(ctx context.Context, eventID, requesterID string) (*models.EventView, error) {
	event, err := s.store.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	return s.assemble(ctx, event, requesterID)
}

func (s *EventService) assemble(ctx context.Context, event *models.Event, requesterID string) (*models.EventView, error) {
	view := &models.EventView{
		ID:          event.ID,
		Title:       event.Name,
		Description: event.Description,
		CreatedAt:   models.FormatTime(event.CreatedAt),
		Until:       models.FormatTime(event.Until),
		Members:     []models.UserView{},
		Bills:       []models.BillView{},
		TotalDebt:   decimal.Zero,
	}
	if event.Owner != nil {
		view.Owner = models.NewUserView(event.Owner)
	} else {
		view.Owner = models.UserView{ID: event.OwnerID}
	}

	seen := make(map[string]bool)
	for _, billID := range event.BillIDs {
		bill, err := s.bills.AssembleBillView(ctx, billID, requesterID)
		if models.IsNotFoundKind(err, models.KindBill) {
			s.logger.Debug("Skipping missing bill", "event_id", event.ID, "bill_id", billID)
			continue
		}
		if err != nil {
			return nil, err
		}

		view.Bills = append(view.Bills, *bill)
		view.TotalDebt = view.TotalDebt.Add(bill.TotalDebt)
		for _, member := range bill.Members {
			if !seen[member.ID] {
				seen[member.ID] = true
				view.Members = append(view.Members, member)
			}
		}
	}

	return view, nil
}

// ListEventViewsForUser returns one page of the events userID takes part in.
// Pagination and ordering are resolved by the store before any assembly.
func (s *EventService) ListEventViewsForUser(ctx context.Context, userID string, page storage.Page) ([]models.EventView, error) {
	ids, err := s.store.ListEventIDsForUser(ctx, userID, page)
	if err != nil {
		return nil, err
	}

	views := make([]models.EventView, 0, len(ids))
	for _, id := range uniqueStrings(ids) {
		view, err := s.AssembleEventView(ctx, id, userID)
		if models.IsNotFoundKind(err, models.KindEvent) {
			continue
		}
		if err != nil {
			return nil, err
		}
		views = append(views, *view)
	}
	return views, nil
}

// GetEventBalances computes who owes whom across the event's bills.
func (s *EventService) GetEventBalances(ctx context.Context, eventID string) (*models.EventBalances, error) {
	event, err := s.store.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	users := make(userDirectory)
	users.add(event.Owner)

	bills := make([]calculator.BillForBalance, 0, len(event.BillIDs))
	for _, billID := range event.BillIDs {
		bill, err := s.store.GetBill(ctx, billID)
		if models.IsNotFoundKind(err, models.KindBill) {
			continue
		}
		if err != nil {
			return nil, err
		}
		users.addBill(bill)
		bills = append(bills, calculator.BillForBalance{
			PayerID: bill.PaidByID,
			Items:   calculatorItems(bill.Items),
		})
	}

	balances, edges, err := calculator.CalculateEventBalances(bills)
	if err != nil {
		return nil, fmt.Errorf("event %s: %w", eventID, err)
	}

	result := &models.EventBalances{
		EventID:  event.ID,
		Balances: make([]models.MemberBalance, 0, len(balances)),
		Debts:    make([]models.DebtEdge, 0, len(edges)),
	}
	for _, b := range balances {
		result.Balances = append(result.Balances, models.MemberBalance{
			User:       users.view(b.UserID),
			TotalPaid:  b.TotalPaid,
			TotalOwed:  b.TotalOwed,
			NetBalance: b.NetBalance,
		})
	}
	for _, e := range edges {
		result.Debts = append(result.Debts, models.DebtEdge{
			From:   users.view(e.From),
			To:     users.view(e.To),
			Amount: e.Amount,
		})
	}

	return result, nil
}
