package calculator

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// BillForBalance represents a bill with the minimal information needed for balance calculations.
type BillForBalance struct {
	PayerID string
	Items   []Item
}

// MemberBalance represents the balance information for one event member.
type MemberBalance struct {
	UserID     string
	NetBalance decimal.Decimal // Positive = owed money, Negative = owes money
	TotalPaid  decimal.Decimal // Total amount paid across all bills
	TotalOwed  decimal.Decimal // Total amount this person owes
}

// DebtEdge represents a debt from one person to another.
type DebtEdge struct {
	From   string // Person who owes
	To     string // Person who is owed
	Amount decimal.Decimal
}

// CalculateEventBalances computes balances across multiple bills of an event.
// It aggregates who paid what and who owes what, returning both individual
// member balances and a simplified list of payments that settles everybody.
//
// Algorithm:
//   - For each bill: payer contributed +total, each debtor owes their share
//   - Aggregate: net_balance = total_paid - total_owed
//   - Debt edges: greedy matching of the largest debtor with the largest creditor
//
// Bills without a payer are skipped, so net balances always sum to zero.
// Balances are returned in order of first appearance.
func CalculateEventBalances(bills []BillForBalance) ([]MemberBalance, []DebtEdge, error) {
	balances := make(map[string]*MemberBalance)
	var order []string
	member := func(userID string) *MemberBalance {
		if bal, exists := balances[userID]; exists {
			return bal
		}
		bal := &MemberBalance{
			UserID:     userID,
			NetBalance: decimal.Zero,
			TotalPaid:  decimal.Zero,
			TotalOwed:  decimal.Zero,
		}
		balances[userID] = bal
		order = append(order, userID)
		return bal
	}

	for _, bill := range bills {
		if bill.PayerID == "" {
			continue
		}

		debts, err := CalculateBillDebts(bill.Items)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to calculate bill debts: %w", err)
		}

		payer := member(bill.PayerID)
		payer.TotalPaid = payer.TotalPaid.Add(debts.TotalPrice)

		for _, debt := range debts.Debts {
			bal := member(debt.UserID)
			bal.TotalOwed = bal.TotalOwed.Add(debt.Amount)
		}
	}

	memberBalances := make([]MemberBalance, 0, len(order))
	var creditors, debtors []*MemberBalance
	for _, userID := range order {
		bal := balances[userID]
		bal.NetBalance = bal.TotalPaid.Sub(bal.TotalOwed)
		memberBalances = append(memberBalances, *bal)

		switch bal.NetBalance.Sign() {
		case 1:
			creditors = append(creditors, bal)
		case -1:
			debtors = append(debtors, bal)
		}
	}

	// Largest amounts first; ties broken by user ID for stable output.
	sort.Slice(creditors, func(i, j int) bool {
		if c := creditors[i].NetBalance.Cmp(creditors[j].NetBalance); c != 0 {
			return c > 0
		}
		return creditors[i].UserID < creditors[j].UserID
	})
	sort.Slice(debtors, func(i, j int) bool {
		if c := debtors[i].NetBalance.Cmp(debtors[j].NetBalance); c != 0 {
			return c < 0
		}
		return debtors[i].UserID < debtors[j].UserID
	})

	debtorBalance := make(map[string]decimal.Decimal, len(debtors))
	creditorBalance := make(map[string]decimal.Decimal, len(creditors))
	for _, debtor := range debtors {
		debtorBalance[debtor.UserID] = debtor.NetBalance.Neg()
	}
	for _, creditor := range creditors {
		creditorBalance[creditor.UserID] = creditor.NetBalance
	}

	var debtEdges []DebtEdge
	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		debtor := debtors[i].UserID
		creditor := creditors[j].UserID

		// Amount to settle is minimum of what debtor owes and creditor is owed
		amount := decimal.Min(debtorBalance[debtor], creditorBalance[creditor])
		if amount.IsPositive() {
			debtEdges = append(debtEdges, DebtEdge{From: debtor, To: creditor, Amount: amount})
		}

		debtorBalance[debtor] = debtorBalance[debtor].Sub(amount)
		creditorBalance[creditor] = creditorBalance[creditor].Sub(amount)

		if !debtorBalance[debtor].IsPositive() {
			i++
		}
		if !creditorBalance[creditor].IsPositive() {
			j++
		}
	}

	return memberBalances, debtEdges, nil
}
