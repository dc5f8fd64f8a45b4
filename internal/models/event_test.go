package models

import (
	"strings"
	"testing"
	"time"
)

func TestEventValidate(t *testing.T) {
	created := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		event     Event
		wantField string
	}{
		{
			name:  "until equal to created_at",
			event: Event{Name: "Trip", OwnerID: "alice", CreatedAt: created, Until: created},
		},
		{
			name:  "until after created_at",
			event: Event{Name: "Trip", OwnerID: "alice", CreatedAt: created, Until: created.Add(24 * time.Hour)},
		},
		{
			name:      "until before created_at",
			event:     Event{Name: "Trip", OwnerID: "alice", CreatedAt: created, Until: created.Add(-time.Second)},
			wantField: "until",
		},
		{
			name:  "cyrillic name at the limit",
			event: Event{Name: strings.Repeat("П", MaxEventNameLength), OwnerID: "alice", CreatedAt: created, Until: created},
		},
		{
			name:      "name over the limit",
			event:     Event{Name: strings.Repeat("П", MaxEventNameLength+1), OwnerID: "alice", CreatedAt: created, Until: created},
			wantField: "name",
		},
		{
			name:      "description over the limit",
			event:     Event{Name: "Trip", Description: strings.Repeat("д", MaxEventDescriptionLength+1), OwnerID: "alice", CreatedAt: created, Until: created},
			wantField: "description",
		},
		{
			name:      "missing owner",
			event:     Event{Name: "Trip", CreatedAt: created, Until: created},
			wantField: "owner_id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checkField(t, tt.event.Validate(), tt.wantField)
		})
	}
}
