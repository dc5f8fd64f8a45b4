package calculator

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestCalculateEventBalances(t *testing.T) {
	tests := []struct {
		name         string
		bills        []BillForBalance
		wantBalances map[string]string // user -> net balance
		wantEdges    []DebtEdge
	}{
		{
			name:         "no bills",
			bills:        nil,
			wantBalances: map[string]string{},
		},
		{
			name: "two bills collapse into one payment",
			bills: []BillForBalance{
				{PayerID: "alice", Items: []Item{
					{Name: "Dinner", Price: dec("90"), AssigneeID: "alice", Participants: []string{"alice", "bob", "carol"}},
				}},
				{PayerID: "bob", Items: []Item{
					{Name: "Taxi", Price: dec("30"), AssigneeID: "carol"},
				}},
			},
			wantBalances: map[string]string{"alice": "60", "bob": "0", "carol": "-60"},
			wantEdges: []DebtEdge{
				{From: "carol", To: "alice", Amount: dec("60")},
			},
		},
		{
			name: "bill without payer is skipped",
			bills: []BillForBalance{
				{Items: []Item{{Name: "Snacks", Price: dec("15"), AssigneeID: "bob"}}},
				{PayerID: "alice", Items: []Item{{Name: "Tickets", Price: dec("20"), AssigneeID: "bob"}}},
			},
			wantBalances: map[string]string{"alice": "20", "bob": "-20"},
			wantEdges: []DebtEdge{
				{From: "bob", To: "alice", Amount: dec("20")},
			},
		},
		{
			name: "payer's own share produces no edge",
			bills: []BillForBalance{
				{PayerID: "alice", Items: []Item{{Name: "Hotel", Price: dec("200"), AssigneeID: "alice"}}},
			},
			wantBalances: map[string]string{"alice": "0"},
		},
		{
			name: "largest debtor settles largest creditor first",
			bills: []BillForBalance{
				{PayerID: "alice", Items: []Item{
					{Name: "Flat", Price: dec("100"), AssigneeID: "carol"},
					{Name: "Fuel", Price: dec("20"), AssigneeID: "dave"},
				}},
				{PayerID: "bob", Items: []Item{
					{Name: "Boat", Price: dec("50"), AssigneeID: "carol"},
				}},
			},
			wantBalances: map[string]string{"alice": "120", "bob": "50", "carol": "-150", "dave": "-20"},
			wantEdges: []DebtEdge{
				{From: "carol", To: "alice", Amount: dec("120")},
				{From: "carol", To: "bob", Amount: dec("30")},
				{From: "dave", To: "bob", Amount: dec("20")},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			balances, edges, err := CalculateEventBalances(tt.bills)
			if err != nil {
				t.Fatalf("CalculateEventBalances() error = %v", err)
			}

			if len(balances) != len(tt.wantBalances) {
				t.Fatalf("got %d balances, want %d", len(balances), len(tt.wantBalances))
			}
			sum := decimal.Zero
			for _, bal := range balances {
				want, ok := tt.wantBalances[bal.UserID]
				if !ok {
					t.Errorf("unexpected balance for %s", bal.UserID)
					continue
				}
				if !bal.NetBalance.Equal(dec(want)) {
					t.Errorf("%s net balance = %s, want %s", bal.UserID, bal.NetBalance, want)
				}
				if !bal.NetBalance.Equal(bal.TotalPaid.Sub(bal.TotalOwed)) {
					t.Errorf("%s net balance %s != paid %s - owed %s", bal.UserID, bal.NetBalance, bal.TotalPaid, bal.TotalOwed)
				}
				sum = sum.Add(bal.NetBalance)
			}
			if !sum.IsZero() {
				t.Errorf("net balances sum to %s, want 0", sum)
			}

			if len(edges) != len(tt.wantEdges) {
				t.Fatalf("got %d edges %+v, want %d", len(edges), edges, len(tt.wantEdges))
			}
			for i, want := range tt.wantEdges {
				got := edges[i]
				if got.From != want.From || got.To != want.To || !got.Amount.Equal(want.Amount) {
					t.Errorf("edge[%d] = %s->%s %s, want %s->%s %s",
						i, got.From, got.To, got.Amount, want.From, want.To, want.Amount)
				}
			}
		})
	}
}

func TestCalculateEventBalancesRejectsInvalidItems(t *testing.T) {
	_, _, err := CalculateEventBalances([]BillForBalance{
		{PayerID: "alice", Items: []Item{{Name: "Bad", Price: dec("-3"), AssigneeID: "bob"}}},
	})
	if err == nil {
		t.Fatal("expected an error for a negative price")
	}
}
