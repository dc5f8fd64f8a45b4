package calculator

import (
	"errors"
	"testing"

	"github.com/fadegor05/PROD-hack-moscow/internal/models"
)

func TestCalculateBillDebts(t *testing.T) {
	tests := []struct {
		name          string
		items         []Item
		wantTotal     string
		wantCollected string
		wantDebts     []Debt
		wantErr       bool
	}{
		{
			name:          "no items",
			items:         nil,
			wantTotal:     "0",
			wantCollected: "0",
			wantDebts:     []Debt{},
		},
		{
			name: "participants share, assignee pays alone otherwise",
			items: []Item{
				{Name: "Pizza", Price: dec("30.00"), AssigneeID: "alice", Participants: []string{"alice", "bob", "carol"}, IsPaid: true},
				{Name: "Wine", Price: dec("10.00"), AssigneeID: "bob"},
				{Name: "Taxi", Price: dec("10.00"), AssigneeID: "carol", Participants: []string{"bob", "bob", ""}},
			},
			wantTotal:     "50",
			wantCollected: "30",
			wantDebts: []Debt{
				{UserID: "alice", Amount: dec("10")},
				{UserID: "bob", Amount: dec("30")},
				{UserID: "carol", Amount: dec("10")},
			},
		},
		{
			name: "assignee outside participant list is not charged",
			items: []Item{
				{Name: "Gift", Price: dec("20"), AssigneeID: "alice", Participants: []string{"bob"}},
			},
			wantTotal:     "20",
			wantCollected: "0",
			wantDebts:     []Debt{{UserID: "bob", Amount: dec("20")}},
		},
		{
			name: "paid flag does not reduce debts",
			items: []Item{
				{Name: "Coffee", Price: dec("3.50"), AssigneeID: "alice", IsPaid: true},
				{Name: "Cake", Price: dec("4.50"), AssigneeID: "alice", IsPaid: true},
			},
			wantTotal:     "8",
			wantCollected: "8",
			wantDebts:     []Debt{{UserID: "alice", Amount: dec("8")}},
		},
		{
			name: "uneven split keeps the bill balanced",
			items: []Item{
				{Name: "Groceries", Price: dec("100"), AssigneeID: "alice", Participants: []string{"carol", "alice", "bob"}},
			},
			wantTotal:     "100",
			wantCollected: "0",
			wantDebts: []Debt{
				{UserID: "carol", Amount: dec("33.34")},
				{UserID: "alice", Amount: dec("33.33")},
				{UserID: "bob", Amount: dec("33.33")},
			},
		},
		{
			name: "zero-price item still counts toward the total",
			items: []Item{
				{Name: "Water", Price: dec("0"), AssigneeID: "alice", Participants: []string{"alice", "bob"}},
				{Name: "Bread", Price: dec("4.20"), AssigneeID: "bob"},
			},
			wantTotal:     "4.20",
			wantCollected: "0",
			wantDebts: []Debt{
				{UserID: "alice", Amount: dec("0")},
				{UserID: "bob", Amount: dec("4.20")},
			},
		},
		{
			name:    "negative price should error",
			items:   []Item{{Name: "Refund", Price: dec("-5"), AssigneeID: "alice"}},
			wantErr: true,
		},
		{
			name:    "item without participants or assignee should error",
			items:   []Item{{Name: "Orphan", Price: dec("5")}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CalculateBillDebts(tt.items)
			if (err != nil) != tt.wantErr {
				t.Fatalf("CalculateBillDebts() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, models.ErrValidation) {
					t.Errorf("CalculateBillDebts() error = %v, want a validation error", err)
				}
				return
			}

			if !got.TotalPrice.Equal(dec(tt.wantTotal)) {
				t.Errorf("TotalPrice = %s, want %s", got.TotalPrice, tt.wantTotal)
			}
			if !got.CollectedPrice.Equal(dec(tt.wantCollected)) {
				t.Errorf("CollectedPrice = %s, want %s", got.CollectedPrice, tt.wantCollected)
			}
			if !got.TotalDebt.Equal(got.TotalPrice) {
				t.Errorf("TotalDebt = %s, want it to equal TotalPrice %s", got.TotalDebt, got.TotalPrice)
			}
			if len(got.Debts) != len(tt.wantDebts) {
				t.Fatalf("got %d debts, want %d: %+v", len(got.Debts), len(tt.wantDebts), got.Debts)
			}
			for i, want := range tt.wantDebts {
				if got.Debts[i].UserID != want.UserID || !got.Debts[i].Amount.Equal(want.Amount) {
					t.Errorf("Debts[%d] = %s %s, want %s %s",
						i, got.Debts[i].UserID, got.Debts[i].Amount, want.UserID, want.Amount)
				}
			}
		})
	}
}

func TestCalculateBillDebtsErrorNamesItem(t *testing.T) {
	_, err := CalculateBillDebts([]Item{
		{Name: "Fine", Price: dec("1"), AssigneeID: "alice"},
		{Name: "Broken", Price: dec("-1"), AssigneeID: "alice"},
	})

	var verr *models.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Field != "price" {
		t.Errorf("Field = %q, want %q", verr.Field, "price")
	}
	if got := err.Error(); got != "item 1 (Broken): invalid price: must not be negative" {
		t.Errorf("unexpected error message: %s", got)
	}
}

func TestBillDebtsOwed(t *testing.T) {
	debts, err := CalculateBillDebts([]Item{
		{Name: "Soup", Price: dec("12"), AssigneeID: "alice"},
	})
	if err != nil {
		t.Fatalf("CalculateBillDebts() error = %v", err)
	}
	if !debts.Owed("alice").Equal(dec("12")) {
		t.Errorf("Owed(alice) = %s, want 12", debts.Owed("alice"))
	}
	if !debts.Owed("bob").IsZero() {
		t.Errorf("Owed(bob) = %s, want 0", debts.Owed("bob"))
	}
}
