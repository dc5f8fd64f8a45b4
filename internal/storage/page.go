package storage

import (
	"fmt"
	"strings"

	"github.com/fadegor05/PROD-hack-moscow/internal/models"
)

const (
	DefaultLimit   = 20
	MaxLimit       = 100
	DefaultOrderBy = "id"
)

// Order is a sort direction.
type Order string

const (
	OrderAsc  Order = "asc"
	OrderDesc Order = "desc"
)

// ParseOrder accepts "asc"/"ascendent" and "desc"/"descendent" in any case.
// An empty string means ascending.
func ParseOrder(s string) (Order, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "asc", "ascendent":
		return OrderAsc, nil
	case "desc", "descendent":
		return OrderDesc, nil
	}
	return "", models.Invalid("order", fmt.Sprintf("unknown sort order %q", s))
}

// Page selects a window of a listing.
type Page struct {
	Skip    int
	Limit   int
	OrderBy string
	Order   Order
}

// Columns maps the public names a listing may be ordered by to the SQL
// expressions implementing them.
type Columns map[string]string

// Normalize fills in defaults and rejects out-of-range values.
// Limits above MaxLimit are clamped.
func (p Page) Normalize() (Page, error) {
	if p.Skip < 0 {
		return p, models.Invalid("skip", "must not be negative")
	}
	switch {
	case p.Limit < 0:
		return p, models.Invalid("limit", "must not be negative")
	case p.Limit == 0:
		p.Limit = DefaultLimit
	case p.Limit > MaxLimit:
		p.Limit = MaxLimit
	}

	p.OrderBy = strings.ToLower(strings.TrimSpace(p.OrderBy))
	if p.OrderBy == "" || p.OrderBy == "uuid" {
		p.OrderBy = DefaultOrderBy
	}

	order, err := ParseOrder(string(p.Order))
	if err != nil {
		return p, err
	}
	p.Order = order
	return p, nil
}

// OrderClause normalizes p and renders its ORDER BY clause against cols.
// The primary key of the listing must be registered under DefaultOrderBy;
// it is appended as a tie breaker so pages never overlap.
func (p Page) OrderClause(cols Columns) (Page, string, error) {
	p, err := p.Normalize()
	if err != nil {
		return p, "", err
	}
	expr, ok := cols[p.OrderBy]
	if !ok {
		return p, "", models.Invalid("order_by", fmt.Sprintf("cannot order by %q", p.OrderBy))
	}

	dir := "ASC"
	if p.Order == OrderDesc {
		dir = "DESC"
	}
	clause := fmt.Sprintf("ORDER BY %s %s", expr, dir)
	if key := cols[DefaultOrderBy]; key != "" && key != expr {
		clause += fmt.Sprintf(", %s %s", key, dir)
	}
	return p, clause, nil
}
