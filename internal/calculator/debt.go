package calculator

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/fadegor05/PROD-hack-moscow/internal/models"
)

// Debt is the amount one user owes on a bill.
type Debt struct {
	UserID string
	Amount decimal.Decimal
}

// BillDebts is the result of the debt calculation for one bill.
type BillDebts struct {
	// TotalPrice is the sum of all item prices, paid or not.
	TotalPrice decimal.Decimal

	// CollectedPrice is the sum of prices of items marked as paid.
	CollectedPrice decimal.Decimal

	// Debts lists every user's owed amount, ordered by first appearance.
	Debts []Debt

	// TotalDebt is the sum of all owed amounts. It always equals TotalPrice.
	TotalDebt decimal.Decimal
}

// Owed returns the amount userID owes, or zero.
func (b *BillDebts) Owed(userID string) decimal.Decimal {
	for _, d := range b.Debts {
		if d.UserID == userID {
			return d.Amount
		}
	}
	return decimal.Zero
}

// CalculateBillDebts computes totals and per-user debts for a bill's items.
//
// An item with participants is split evenly between them (see SplitEvenly);
// its assignee is not charged unless listed as a participant. An item
// without participants is charged in full to its assignee. The paid flag
// only affects CollectedPrice: collection by the payer and settlement by
// the debtor are independent facts.
func CalculateBillDebts(items []Item) (*BillDebts, error) {
	result := &BillDebts{
		TotalPrice:     decimal.Zero,
		CollectedPrice: decimal.Zero,
		TotalDebt:      decimal.Zero,
	}

	owed := make(map[string]decimal.Decimal)
	var order []string
	credit := func(userID string, amount decimal.Decimal) {
		current, seen := owed[userID]
		if !seen {
			order = append(order, userID)
			current = decimal.Zero
		}
		owed[userID] = current.Add(amount)
	}

	for i, item := range items {
		if item.Price.IsNegative() {
			return nil, fmt.Errorf("item %d (%s): %w", i, item.Name, models.Invalid("price", "must not be negative"))
		}

		participants := uniqueIDs(item.Participants)
		if len(participants) == 0 {
			if item.AssigneeID == "" {
				return nil, fmt.Errorf("item %d (%s): %w", i, item.Name,
					models.Invalid("assigned_user", "item has neither participants nor an assignee"))
			}
			credit(item.AssigneeID, item.Price)
		} else {
			shares, err := SplitEvenly(item.Price, len(participants))
			if err != nil {
				return nil, fmt.Errorf("item %d (%s): %w", i, item.Name, err)
			}
			for j, participant := range participants {
				credit(participant, shares[j])
			}
		}

		result.TotalPrice = result.TotalPrice.Add(item.Price)
		if item.IsPaid {
			result.CollectedPrice = result.CollectedPrice.Add(item.Price)
		}
	}

	result.Debts = make([]Debt, 0, len(order))
	for _, userID := range order {
		amount := owed[userID]
		result.Debts = append(result.Debts, Debt{UserID: userID, Amount: amount})
		result.TotalDebt = result.TotalDebt.Add(amount)
	}

	return result, nil
}
