package sqlite

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fadegor05/PROD-hack-moscow/internal/models"
	"github.com/fadegor05/PROD-hack-moscow/internal/storage"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	// Create temp directory for test database
	tempDir, err := os.MkdirTemp("", "splitbill-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return store
}

func createUser(t *testing.T, store *SQLiteStore, phone, name string) *models.User {
	t.Helper()
	user := models.NewUser(phone, name, "", "")
	if err := store.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	return user
}

func createEvent(t *testing.T, store *SQLiteStore, name string, owner *models.User) *models.Event {
	t.Helper()
	now := time.Now().UTC().Truncate(time.Second)
	event := &models.Event{Name: name, CreatedAt: now, Until: now.Add(24 * time.Hour), OwnerID: owner.ID}
	if err := store.CreateEvent(context.Background(), event); err != nil {
		t.Fatalf("CreateEvent failed: %v", err)
	}
	return event
}

func TestMigrationsAreIdempotent(t *testing.T) {
	tempDir := t.TempDir()
	dbPath := filepath.Join(tempDir, "nested", "test.db")

	for i := 0; i < 2; i++ {
		store, err := New(dbPath)
		if err != nil {
			t.Fatalf("New() attempt %d failed: %v", i+1, err)
		}
		if err := store.Ping(context.Background()); err != nil {
			t.Fatalf("Ping failed: %v", err)
		}
		store.Close()
	}
}

func TestUsers(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	alice := createUser(t, store, "+79000000001", "Alice")

	t.Run("GetUser and GetUserByPhone", func(t *testing.T) {
		byID, err := store.GetUser(ctx, alice.ID)
		if err != nil {
			t.Fatalf("GetUser failed: %v", err)
		}
		if byID.Phone != alice.Phone || byID.FullName != "Alice" {
			t.Errorf("GetUser returned %+v", byID)
		}

		byPhone, err := store.GetUserByPhone(ctx, alice.Phone)
		if err != nil {
			t.Fatalf("GetUserByPhone failed: %v", err)
		}
		if byPhone.ID != alice.ID {
			t.Errorf("GetUserByPhone ID = %s, want %s", byPhone.ID, alice.ID)
		}
	})

	t.Run("duplicate phone is a validation error", func(t *testing.T) {
		dup := models.NewUser(alice.Phone, "Impostor", "", "")
		err := store.CreateUser(ctx, dup)
		var verr *models.ValidationError
		if !errors.As(err, &verr) || verr.Field != "phone" {
			t.Errorf("expected phone validation error, got %v", err)
		}
	})

	t.Run("missing user is NotFound", func(t *testing.T) {
		_, err := store.GetUser(ctx, "nonexistent-id")
		if !models.IsNotFoundKind(err, models.KindUser) {
			t.Errorf("expected user NotFound, got %v", err)
		}
		_, err = store.GetUserByPhone(ctx, "+79999999999")
		if !models.IsNotFoundKind(err, models.KindUser) {
			t.Errorf("expected user NotFound, got %v", err)
		}
	})

	t.Run("UpdateUser", func(t *testing.T) {
		alice.FullName = "Alice Smith"
		alice.AvatarURL = "https://example.com/a.png"
		if err := store.UpdateUser(ctx, alice); err != nil {
			t.Fatalf("UpdateUser failed: %v", err)
		}
		got, err := store.GetUser(ctx, alice.ID)
		if err != nil {
			t.Fatalf("GetUser failed: %v", err)
		}
		if got.FullName != "Alice Smith" || got.AvatarURL != "https://example.com/a.png" {
			t.Errorf("update not persisted: %+v", got)
		}

		ghost := models.NewUser("+79000000099", "Ghost", "", "")
		if err := store.UpdateUser(ctx, ghost); !errors.Is(err, models.ErrNotFound) {
			t.Errorf("expected NotFound updating unknown user, got %v", err)
		}
	})
}

func TestEventsAndBills(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	alice := createUser(t, store, "+79000000001", "Alice")
	bob := createUser(t, store, "+79000000002", "Bob")
	carol := createUser(t, store, "+79000000003", "Carol")
	event := createEvent(t, store, "Trip", alice)

	bill := &models.Bill{
		Name:     "Dinner",
		EventID:  event.ID,
		PaidByID: alice.ID,
		Items: []models.Item{
			{Name: "Pizza", Price: decimal.RequireFromString("33.335"), AssignedUserID: bob.ID, ParticipantIDs: []string{bob.ID, carol.ID, bob.ID}},
			{Name: "Wine", Price: decimal.RequireFromString("12.50"), AssignedUserID: carol.ID, IsPaid: true},
		},
	}
	if err := store.CreateBill(ctx, bill); err != nil {
		t.Fatalf("CreateBill failed: %v", err)
	}

	t.Run("CreateBill generates IDs", func(t *testing.T) {
		if bill.ID == "" {
			t.Error("Expected bill ID to be generated")
		}
		for i, item := range bill.Items {
			if item.ID == "" || item.BillID != bill.ID {
				t.Errorf("item %d not linked: %+v", i, item)
			}
		}
	})

	t.Run("GetEvent resolves owner and bills", func(t *testing.T) {
		got, err := store.GetEvent(ctx, event.ID)
		if err != nil {
			t.Fatalf("GetEvent failed: %v", err)
		}
		if got.Owner == nil || got.Owner.ID != alice.ID {
			t.Errorf("owner not resolved: %+v", got.Owner)
		}
		if !got.CreatedAt.Equal(event.CreatedAt) || !got.Until.Equal(event.Until) {
			t.Errorf("timestamps changed: got %v/%v, want %v/%v", got.CreatedAt, got.Until, event.CreatedAt, event.Until)
		}
		if len(got.BillIDs) != 1 || got.BillIDs[0] != bill.ID {
			t.Errorf("BillIDs = %v, want [%s]", got.BillIDs, bill.ID)
		}
	})

	t.Run("GetBill retrieves complete bill", func(t *testing.T) {
		got, err := store.GetBill(ctx, bill.ID)
		if err != nil {
			t.Fatalf("GetBill failed: %v", err)
		}
		if got.Event == nil || got.Event.ID != event.ID {
			t.Errorf("event not resolved")
		}
		if got.PaidBy == nil || got.PaidBy.ID != alice.ID {
			t.Errorf("payer not resolved")
		}
		if len(got.Items) != 2 {
			t.Fatalf("Items count mismatch: got %d, want 2", len(got.Items))
		}

		pizza := got.Items[0]
		if pizza.Name != "Pizza" {
			t.Errorf("items out of order: first is %s", pizza.Name)
		}
		if !pizza.Price.Equal(decimal.RequireFromString("33.335")) {
			t.Errorf("price lost precision: %s", pizza.Price)
		}
		if len(pizza.ParticipantIDs) != 2 || pizza.ParticipantIDs[0] != bob.ID || pizza.ParticipantIDs[1] != carol.ID {
			t.Errorf("ParticipantIDs = %v, want [%s %s]", pizza.ParticipantIDs, bob.ID, carol.ID)
		}
		if len(pizza.Participants) != 2 {
			t.Errorf("participants not resolved: %d", len(pizza.Participants))
		}
		if pizza.AssignedUser == nil || pizza.AssignedUser.ID != bob.ID {
			t.Errorf("assignee not resolved")
		}
		if !got.Items[1].IsPaid {
			t.Errorf("Wine should be paid")
		}
	})

	t.Run("CreateItem appends and SetItemPaid toggles", func(t *testing.T) {
		item := &models.Item{Name: "Dessert", Price: decimal.NewFromInt(7), AssignedUserID: alice.ID, BillID: bill.ID}
		if err := store.CreateItem(ctx, item); err != nil {
			t.Fatalf("CreateItem failed: %v", err)
		}
		if err := store.SetItemPaid(ctx, item.ID, true); err != nil {
			t.Fatalf("SetItemPaid failed: %v", err)
		}

		got, err := store.GetItem(ctx, item.ID)
		if err != nil {
			t.Fatalf("GetItem failed: %v", err)
		}
		if !got.IsPaid {
			t.Errorf("item should be paid")
		}

		full, err := store.GetBill(ctx, bill.ID)
		if err != nil {
			t.Fatalf("GetBill failed: %v", err)
		}
		if last := full.Items[len(full.Items)-1]; last.ID != item.ID {
			t.Errorf("new item should be last, got %s", last.Name)
		}
	})

	t.Run("missing rows are NotFound", func(t *testing.T) {
		if _, err := store.GetBill(ctx, "nonexistent-id"); !models.IsNotFoundKind(err, models.KindBill) {
			t.Errorf("GetBill: expected bill NotFound, got %v", err)
		}
		if _, err := store.GetEvent(ctx, "nonexistent-id"); !models.IsNotFoundKind(err, models.KindEvent) {
			t.Errorf("GetEvent: expected event NotFound, got %v", err)
		}
		if _, err := store.GetItem(ctx, "nonexistent-id"); !models.IsNotFoundKind(err, models.KindItem) {
			t.Errorf("GetItem: expected item NotFound, got %v", err)
		}
		if err := store.SetItemPaid(ctx, "nonexistent-id", true); !models.IsNotFoundKind(err, models.KindItem) {
			t.Errorf("SetItemPaid: expected item NotFound, got %v", err)
		}
		orphan := &models.Item{Name: "Orphan", Price: decimal.NewFromInt(1), AssignedUserID: alice.ID, BillID: "nonexistent-id"}
		if err := store.CreateItem(ctx, orphan); !models.IsNotFoundKind(err, models.KindBill) {
			t.Errorf("CreateItem: expected bill NotFound, got %v", err)
		}
	})

	t.Run("bill without event or payer", func(t *testing.T) {
		loose := &models.Bill{Name: "Loose", Items: []models.Item{
			{Name: "Gum", Price: decimal.NewFromInt(1), AssignedUserID: carol.ID},
		}}
		if err := store.CreateBill(ctx, loose); err != nil {
			t.Fatalf("CreateBill failed: %v", err)
		}
		got, err := store.GetBill(ctx, loose.ID)
		if err != nil {
			t.Fatalf("GetBill failed: %v", err)
		}
		if got.EventID != "" || got.Event != nil || got.PaidByID != "" || got.PaidBy != nil {
			t.Errorf("expected no event and no payer, got %+v", got)
		}
	})
}

func TestListingForUser(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	alice := createUser(t, store, "+79000000001", "Alice")
	bob := createUser(t, store, "+79000000002", "Bob")
	carol := createUser(t, store, "+79000000003", "Carol")
	dave := createUser(t, store, "+79000000004", "Dave")

	owned := createEvent(t, store, "A owned by alice", alice)
	assigned := createEvent(t, store, "B carol assigned", bob)
	participated := createEvent(t, store, "C carol participant", bob)
	createEvent(t, store, "D unrelated", dave)

	mustBill := func(bill *models.Bill) {
		t.Helper()
		if err := store.CreateBill(ctx, bill); err != nil {
			t.Fatalf("CreateBill failed: %v", err)
		}
	}
	mustBill(&models.Bill{Name: "b1", EventID: assigned.ID, PaidByID: bob.ID, Items: []models.Item{
		{Name: "x", Price: decimal.NewFromInt(1), AssignedUserID: carol.ID},
	}})
	mustBill(&models.Bill{Name: "b2", EventID: participated.ID, PaidByID: bob.ID, Items: []models.Item{
		{Name: "y", Price: decimal.NewFromInt(1), AssignedUserID: bob.ID, ParticipantIDs: []string{carol.ID}},
	}})
	mustBill(&models.Bill{Name: "b3", EventID: owned.ID, PaidByID: carol.ID})

	t.Run("participation covers owner, payer, assignee and participant", func(t *testing.T) {
		ids, err := store.ListEventIDsForUser(ctx, carol.ID, storage.Page{OrderBy: "name"})
		if err != nil {
			t.Fatalf("ListEventIDsForUser failed: %v", err)
		}
		want := []string{owned.ID, assigned.ID, participated.ID}
		if len(ids) != len(want) {
			t.Fatalf("got %d events, want %d", len(ids), len(want))
		}
		for i := range want {
			if ids[i] != want[i] {
				t.Errorf("ids[%d] = %s, want %s", i, ids[i], want[i])
			}
		}

		ids, err = store.ListEventIDsForUser(ctx, alice.ID, storage.Page{})
		if err != nil {
			t.Fatalf("ListEventIDsForUser failed: %v", err)
		}
		if len(ids) != 1 || ids[0] != owned.ID {
			t.Errorf("alice events = %v, want [%s]", ids, owned.ID)
		}
	})

	t.Run("pagination and descending order", func(t *testing.T) {
		ids, err := store.ListEventIDsForUser(ctx, carol.ID, storage.Page{Skip: 1, Limit: 1, OrderBy: "name", Order: storage.OrderDesc})
		if err != nil {
			t.Fatalf("ListEventIDsForUser failed: %v", err)
		}
		if len(ids) != 1 || ids[0] != assigned.ID {
			t.Errorf("page = %v, want [%s]", ids, assigned.ID)
		}
	})

	t.Run("unknown order column", func(t *testing.T) {
		_, err := store.ListEventIDsForUser(ctx, carol.ID, storage.Page{OrderBy: "owner_id; DROP TABLE events"})
		if !errors.Is(err, models.ErrValidation) {
			t.Errorf("expected validation error, got %v", err)
		}
	})

	t.Run("bills", func(t *testing.T) {
		ids, err := store.ListBillIDsForUser(ctx, carol.ID, storage.Page{OrderBy: "name"})
		if err != nil {
			t.Fatalf("ListBillIDsForUser failed: %v", err)
		}
		if len(ids) != 3 {
			t.Errorf("carol bills = %d, want 3", len(ids))
		}

		ids, err = store.ListBillIDsForUser(ctx, dave.ID, storage.Page{})
		if err != nil {
			t.Fatalf("ListBillIDsForUser failed: %v", err)
		}
		if len(ids) != 0 {
			t.Errorf("dave bills = %v, want none", ids)
		}
	})
}

func TestInvites(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	alice := createUser(t, store, "+79000000001", "Alice")
	bob := createUser(t, store, "+79000000002", "Bob")
	event := createEvent(t, store, "Party", alice)

	first := &models.Invite{EventID: event.ID, InvitedUserID: bob.ID}
	if err := store.CreateInvite(ctx, first); err != nil {
		t.Fatalf("CreateInvite failed: %v", err)
	}
	second := &models.Invite{EventID: event.ID, InvitedUserID: bob.ID}
	if err := store.CreateInvite(ctx, second); err != nil {
		t.Fatalf("duplicate CreateInvite failed: %v", err)
	}

	got, err := store.GetInvite(ctx, first.ID)
	if err != nil {
		t.Fatalf("GetInvite failed: %v", err)
	}
	if got.Status != models.InviteStatusPending {
		t.Errorf("Status = %s, want pending", got.Status)
	}

	if err := store.UpdateInviteStatus(ctx, first.ID, models.InviteStatusAccepted); err != nil {
		t.Fatalf("UpdateInviteStatus failed: %v", err)
	}
	got, err = store.GetInvite(ctx, first.ID)
	if err != nil {
		t.Fatalf("GetInvite failed: %v", err)
	}
	if got.Status != models.InviteStatusAccepted {
		t.Errorf("Status = %s, want accepted", got.Status)
	}

	invites, err := store.ListInvitesForUser(ctx, bob.ID)
	if err != nil {
		t.Fatalf("ListInvitesForUser failed: %v", err)
	}
	if len(invites) != 2 {
		t.Fatalf("got %d invites, want 2", len(invites))
	}
	if invites[0].ID != second.ID {
		t.Errorf("newest invite should come first")
	}

	if _, err := store.GetInvite(ctx, "nonexistent-id"); !models.IsNotFoundKind(err, models.KindInvite) {
		t.Errorf("expected invite NotFound, got %v", err)
	}
	if err := store.UpdateInviteStatus(ctx, "nonexistent-id", models.InviteStatusDeclined); !models.IsNotFoundKind(err, models.KindInvite) {
		t.Errorf("expected invite NotFound, got %v", err)
	}
}
