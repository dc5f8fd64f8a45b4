package calculator

import (
	"github.com/shopspring/decimal"

	"github.com/fadegor05/PROD-hack-moscow/internal/models"
)

// cent is the smallest amount handed out when distributing a remainder.
var cent = decimal.New(1, -2)

// Item represents a single priced line of a bill, reduced to what the
// debt calculation needs.
type Item struct {
	Name         string
	Price        decimal.Decimal
	AssigneeID   string
	Participants []string
	IsPaid       bool
}

// SplitEvenly divides amount into n shares that sum exactly to amount.
//
// Every share starts as amount/n rounded down to the cent. The leftover
// cents go one each to the first shares, in order. A sub-cent residue, only
// possible when amount itself has more than two decimal places, is added to
// the first share.
//
//	SplitEvenly(100.00, 3) = [33.34, 33.33, 33.33]
func SplitEvenly(amount decimal.Decimal, n int) ([]decimal.Decimal, error) {
	if n <= 0 {
		return nil, models.Invalid("participants", "must have at least one participant")
	}
	if amount.IsNegative() {
		return nil, models.Invalid("price", "must not be negative")
	}

	// amount = base*n + remainder, base a multiple of 0.01, 0 <= remainder < n*0.01
	base, remainder := amount.QuoRem(decimal.NewFromInt(int64(n)), 2)

	shares := make([]decimal.Decimal, n)
	for i := range shares {
		shares[i] = base
	}
	for i := 0; i < n && remainder.GreaterThanOrEqual(cent); i++ {
		shares[i] = shares[i].Add(cent)
		remainder = remainder.Sub(cent)
	}
	if !remainder.IsZero() {
		shares[0] = shares[0].Add(remainder)
	}

	return shares, nil
}

// uniqueIDs returns ids without blanks and duplicates, keeping first-seen order.
func uniqueIDs(ids []string) []string {
	if len(ids) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
