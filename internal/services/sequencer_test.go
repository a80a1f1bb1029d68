package services

import (
	"errors"
	"testing"

	"sealed-pack-tracking-service/internal/domain"
)

func TestAllowedEventTypes(t *testing.T) {
	cases := []struct {
		name     string
		recorded []domain.EventType
		locked   bool
		want     []domain.EventType
	}{
		{
			name: "fresh task accepts everything",
			want: []domain.EventType{domain.EventPickup, domain.EventTransit, domain.EventFinal},
		},
		{
			name:     "pickup recorded",
			recorded: []domain.EventType{domain.EventPickup},
			want:     []domain.EventType{domain.EventTransit, domain.EventFinal},
		},
		{
			name:     "transit before pickup is allowed",
			recorded: []domain.EventType{domain.EventTransit},
			want:     []domain.EventType{domain.EventPickup, domain.EventFinal},
		},
		{
			name:     "final locks the task",
			recorded: []domain.EventType{domain.EventPickup, domain.EventFinal},
			want:     nil,
		},
		{
			name:   "explicit lock flag",
			locked: true,
			want:   nil,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := AllowedEventTypes(tc.recorded, tc.locked)
			if len(got) != len(tc.want) {
				t.Fatalf("allowed = %v, want %v", got, tc.want)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Fatalf("allowed = %v, want %v", got, tc.want)
				}
			}
		})
	}
}

func TestCheckEventAllowed(t *testing.T) {
	if err := CheckEventAllowed(nil, domain.EventPickup); err != nil {
		t.Fatalf("fresh task rejected pickup: %v", err)
	}

	err := CheckEventAllowed([]domain.EventType{domain.EventPickup}, domain.EventPickup)
	if !errors.Is(err, domain.ErrDuplicateEvent) {
		t.Fatalf("duplicate pickup: got %v, want ErrDuplicateEvent", err)
	}

	// Once FINAL exists every type is rejected as locked, even a would-be duplicate.
	recorded := []domain.EventType{domain.EventPickup, domain.EventFinal}
	for _, et := range []domain.EventType{domain.EventPickup, domain.EventTransit, domain.EventFinal} {
		if err := CheckEventAllowed(recorded, et); !errors.Is(err, domain.ErrTaskLocked) {
			t.Errorf("locked task accepted %s: got %v, want ErrTaskLocked", et, err)
		}
	}
}
