package core

import (
	"errors"
	"testing"
)

func percentages(owners []Owner) []int {
	out := make([]int, len(owners))
	for i, o := range owners {
		out[i] = o.Percentage
	}
	return out
}

func assertPercentages(t *testing.T, owners []Owner, want []int) {
	t.Helper()
	got := percentages(owners)
	if len(got) != len(want) {
		t.Fatalf("percentages = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("percentages = %v, want %v", got, want)
		}
	}
}

func TestAddOwnerEven(t *testing.T) {
	a := NewAllocator(DefaultMaxOwners)

	owners := []Owner{{UserID: "u1", Percentage: 100}}

	owners, err := a.AddOwnerEven(owners, "u2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertPercentages(t, owners, []int{50, 50})

	owners, err = a.AddOwnerEven(owners, "u3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Remainder goes to the first slot.
	assertPercentages(t, owners, []int{34, 33, 33})

	owners, err = a.AddOwnerEven(owners, "u4")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertPercentages(t, owners, []int{25, 25, 25, 25})

	owners, err = a.AddOwnerEven(owners, "u5")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertPercentages(t, owners, []int{20, 20, 20, 20, 20})

	if _, err := a.AddOwnerEven(owners, "u6"); !errors.Is(err, ErrOwnerLimitExceeded) {
		t.Errorf("expected ErrOwnerLimitExceeded, got %v", err)
	}
}

func TestAddOwnerEvenFromEmpty(t *testing.T) {
	a := NewAllocator(DefaultMaxOwners)
	owners, err := a.AddOwnerEven(nil, "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertPercentages(t, owners, []int{100})
}

func TestAddOwnerEvenDuplicateUser(t *testing.T) {
	a := NewAllocator(DefaultMaxOwners)
	owners := []Owner{{UserID: "u1", Percentage: 100}}
	if _, err := a.AddOwnerEven(owners, "u1"); !errors.Is(err, ErrDuplicateOwnerUser) {
		t.Errorf("expected ErrDuplicateOwnerUser, got %v", err)
	}
}

func TestRemoveOwnerRedistribute(t *testing.T) {
	a := NewAllocator(DefaultMaxOwners)
	owners := []Owner{
		{UserID: "u1", Percentage: 34},
		{UserID: "u2", Percentage: 33},
		{UserID: "u3", Percentage: 33},
	}

	owners, err := a.RemoveOwnerRedistribute(owners, "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertPercentages(t, owners, []int{50, 50})
	if owners[0].UserID != "u2" || owners[1].UserID != "u3" {
		t.Errorf("survivor order changed: %+v", owners)
	}

	if _, err := a.RemoveOwnerRedistribute(owners, "nobody"); !errors.Is(err, ErrOwnerNotFound) {
		t.Errorf("expected ErrOwnerNotFound, got %v", err)
	}

	owners, err = a.RemoveOwnerRedistribute(owners, "u3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertPercentages(t, owners, []int{100})

	if _, err := a.RemoveOwnerRedistribute(owners, "u2"); !errors.Is(err, ErrCannotRemoveLastOwner) {
		t.Errorf("expected ErrCannotRemoveLastOwner, got %v", err)
	}
}

func TestValidateTotal(t *testing.T) {
	tests := []struct {
		name        string
		percentages []int
		wantErr     bool
	}{
		{"exact hundred", []int{40, 35, 25}, false},
		{"sum 99 rejected", []int{40, 35, 24}, true},
		{"sum 101 rejected", []int{40, 35, 26}, true},
		{"single full owner", []int{100}, false},
		{"empty list rejected", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			owners := make([]Owner, len(tt.percentages))
			for i, p := range tt.percentages {
				owners[i] = Owner{UserID: "u", Percentage: p}
			}
			err := ValidateTotal(owners)
			if tt.wantErr && !errors.Is(err, ErrOwnershipTotalMismatch) {
				t.Errorf("expected ErrOwnershipTotalMismatch, got %v", err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestRebalance(t *testing.T) {
	a := NewAllocator(DefaultMaxOwners)

	tests := []struct {
		name    string
		edits   []OwnerEdit
		want    []int
		wantErr error
	}{
		{
			name: "all even",
			edits: []OwnerEdit{
				{UserID: "u1", Mode: EditEven},
				{UserID: "u2", Mode: EditEven},
				{UserID: "u3", Mode: EditEven},
			},
			want: []int{34, 33, 33},
		},
		{
			name: "manual plus even residue",
			edits: []OwnerEdit{
				{UserID: "u1", Mode: EditManual, Percentage: 60},
				{UserID: "u2", Mode: EditEven},
				{UserID: "u3", Mode: EditEven},
			},
			want: []int{60, 20, 20},
		},
		{
			name: "manual residue remainder to first even slot",
			edits: []OwnerEdit{
				{UserID: "u1", Mode: EditManual, Percentage: 55},
				{UserID: "u2", Mode: EditEven},
				{UserID: "u3", Mode: EditEven},
			},
			want: []int{55, 23, 22},
		},
		{
			name: "all manual valid",
			edits: []OwnerEdit{
				{UserID: "u1", Mode: EditManual, Percentage: 40},
				{UserID: "u2", Mode: EditManual, Percentage: 35},
				{UserID: "u3", Mode: EditManual, Percentage: 25},
			},
			want: []int{40, 35, 25},
		},
		{
			name: "all manual broken sum blocks",
			edits: []OwnerEdit{
				{UserID: "u1", Mode: EditManual, Percentage: 40},
				{UserID: "u2", Mode: EditManual, Percentage: 35},
				{UserID: "u3", Mode: EditManual, Percentage: 24},
			},
			wantErr: ErrOwnershipTotalMismatch,
		},
		{
			name: "manual leaves nothing for even slots",
			edits: []OwnerEdit{
				{UserID: "u1", Mode: EditManual, Percentage: 100},
				{UserID: "u2", Mode: EditEven},
			},
			wantErr: ErrOwnershipTotalMismatch,
		},
		{
			name: "duplicate user rejected",
			edits: []OwnerEdit{
				{UserID: "u1", Mode: EditEven},
				{UserID: "u1", Mode: EditEven},
			},
			wantErr: ErrDuplicateOwnerUser,
		},
		{
			name: "over the slot cap",
			edits: []OwnerEdit{
				{UserID: "u1", Mode: EditEven},
				{UserID: "u2", Mode: EditEven},
				{UserID: "u3", Mode: EditEven},
				{UserID: "u4", Mode: EditEven},
				{UserID: "u5", Mode: EditEven},
				{UserID: "u6", Mode: EditEven},
			},
			wantErr: ErrOwnerLimitExceeded,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			owners, err := a.Rebalance(tt.edits)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			assertPercentages(t, owners, tt.want)
		})
	}
}

func TestCandidateUsers(t *testing.T) {
	all := []User{{ID: "u1"}, {ID: "u2"}, {ID: "u3"}}
	owners := []Owner{
		{UserID: "u1", Percentage: 50},
		{UserID: "u2", Percentage: 50},
	}

	// For u1's own slot, u1 stays selectable but u2 is taken.
	got := CandidateUsers(all, owners, "u1")
	if len(got) != 2 || got[0].ID != "u1" || got[1].ID != "u3" {
		t.Errorf("CandidateUsers for u1's slot = %+v, want [u1 u3]", got)
	}

	// For a fresh slot, both assigned users are excluded.
	got = CandidateUsers(all, owners, "")
	if len(got) != 1 || got[0].ID != "u3" {
		t.Errorf("CandidateUsers for fresh slot = %+v, want [u3]", got)
	}
}
