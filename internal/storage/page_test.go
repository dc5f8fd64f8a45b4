package storage

import (
	"errors"
	"testing"

	"github.com/fadegor05/PROD-hack-moscow/internal/models"
)

func TestPageNormalize(t *testing.T) {
	tests := []struct {
		name    string
		page    Page
		want    Page
		wantErr bool
	}{
		{
			name: "defaults",
			page: Page{},
			want: Page{Skip: 0, Limit: DefaultLimit, OrderBy: "id", Order: OrderAsc},
		},
		{
			name: "uuid is an alias for id",
			page: Page{Limit: 5, OrderBy: "uuid", Order: "descendent"},
			want: Page{Limit: 5, OrderBy: "id", Order: OrderDesc},
		},
		{
			name: "limit is clamped",
			page: Page{Skip: 3, Limit: 1000, OrderBy: "Name", Order: "ASC"},
			want: Page{Skip: 3, Limit: MaxLimit, OrderBy: "name", Order: OrderAsc},
		},
		{
			name:    "negative skip",
			page:    Page{Skip: -1},
			wantErr: true,
		},
		{
			name:    "negative limit",
			page:    Page{Limit: -1},
			wantErr: true,
		},
		{
			name:    "unknown order",
			page:    Page{Order: "sideways"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.page.Normalize()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Normalize() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, models.ErrValidation) {
					t.Errorf("Normalize() error = %v, want a validation error", err)
				}
				return
			}
			if got != tt.want {
				t.Errorf("Normalize() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestPageOrderClause(t *testing.T) {
	cols := Columns{"id": "e.id", "name": "e.name"}

	_, clause, err := Page{OrderBy: "name", Order: OrderDesc}.OrderClause(cols)
	if err != nil {
		t.Fatalf("OrderClause() error = %v", err)
	}
	if want := "ORDER BY e.name DESC, e.id DESC"; clause != want {
		t.Errorf("OrderClause() = %q, want %q", clause, want)
	}

	_, clause, err = Page{}.OrderClause(cols)
	if err != nil {
		t.Fatalf("OrderClause() error = %v", err)
	}
	if want := "ORDER BY e.id ASC"; clause != want {
		t.Errorf("OrderClause() = %q, want %q", clause, want)
	}

	_, _, err = Page{OrderBy: "password_hash"}.OrderClause(cols)
	var verr *models.ValidationError
	if !errors.As(err, &verr) || verr.Field != "order_by" {
		t.Errorf("OrderClause() error = %v, want invalid order_by", err)
	}
}
