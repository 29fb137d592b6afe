package core

import "strings"

const (
	// EditEven marks a slot whose percentage should be computed by the
	// allocator from whatever the manual slots leave over.
	EditEven OwnerEditMode = "even"
	// EditManual carries an explicit user-typed percentage. Manual values
	// are never auto-corrected; they are only checked at submission time.
	EditManual OwnerEditMode = "manual"
)

type (
	OwnerEditMode string

	// OwnerEdit is one row of an ownership form: a stable user identity plus
	// either an explicit percentage or a distribute-evenly marker.
	OwnerEdit struct {
		UserID     string
		Mode       OwnerEditMode
		Percentage int // meaningful only for EditManual
	}

	// Allocator recomputes per-item ownership percentages so they always sum
	// to exactly 100. All methods are pure over their inputs.
	Allocator struct {
		// MaxOwners caps the number of owner slots per item.
		MaxOwners int
	}
)

// DefaultMaxOwners matches the historical five-slot ownership form.
const DefaultMaxOwners = 5

// NewAllocator returns an allocator with the given slot cap; values below 1
// fall back to DefaultMaxOwners.
func NewAllocator(maxOwners int) Allocator {
	if maxOwners < 1 {
		maxOwners = DefaultMaxOwners
	}
	return Allocator{MaxOwners: maxOwners}
}

// evenSplit assigns floor(total/n) to every slot and the remainder to the
// first, so the result always sums to total exactly.
func evenSplit(total, n int) []int {
	shares := make([]int, n)
	if n == 0 {
		return shares
	}
	base := total / n
	rem := total - base*n
	for i := range shares {
		shares[i] = base
	}
	shares[0] += rem
	return shares
}

// AddOwnerEven appends a new owner slot for userID and redistributes all
// percentages evenly, remainder to the first slot. The input is not modified.
//
// Fails with ErrOwnerLimitExceeded when the cap is reached and with
// ErrDuplicateOwnerUser when the user already holds a slot.
func (a Allocator) AddOwnerEven(current []Owner, userID string) ([]Owner, error) {
	if len(current) >= a.MaxOwners {
		return nil, ErrOwnerLimitExceeded
	}
	for _, o := range current {
		if o.UserID == userID {
			return nil, ErrDuplicateOwnerUser
		}
	}

	next := make([]Owner, 0, len(current)+1)
	next = append(next, current...)
	next = append(next, Owner{UserID: userID})

	shares := evenSplit(100, len(next))
	for i := range next {
		next[i].Percentage = shares[i]
	}
	return next, nil
}

// RemoveOwnerRedistribute removes the slot held by removeUserID and applies
// the same even redistribution over the survivors.
//
// Fails with ErrCannotRemoveLastOwner when only one owner remains and with
// ErrOwnerNotFound when the target holds no slot.
func (a Allocator) RemoveOwnerRedistribute(current []Owner, removeUserID string) ([]Owner, error) {
	if len(current) <= 1 {
		return nil, ErrCannotRemoveLastOwner
	}

	next := make([]Owner, 0, len(current)-1)
	found := false
	for _, o := range current {
		if o.UserID == removeUserID {
			found = true
			continue
		}
		next = append(next, o)
	}
	if !found {
		return nil, ErrOwnerNotFound
	}

	shares := evenSplit(100, len(next))
	for i := range next {
		next[i].Percentage = shares[i]
	}
	return next, nil
}

// Rebalance resolves a full set of form edits into concrete owners. Manual
// percentages are honored verbatim; whatever they leave of the 100 total is
// floor-split across the even-marked slots with the remainder on the first
// even slot. The combined result must still total exactly 100.
func (a Allocator) Rebalance(edits []OwnerEdit) ([]Owner, error) {
	if len(edits) == 0 {
		return nil, ErrOwnerNotFound
	}
	if len(edits) > a.MaxOwners {
		return nil, ErrOwnerLimitExceeded
	}

	seen := make(map[string]struct{}, len(edits))
	manualTotal := 0
	evenCount := 0
	for _, e := range edits {
		id := strings.TrimSpace(e.UserID)
		if id == "" {
			return nil, ErrOwnerNotFound
		}
		if _, dup := seen[id]; dup {
			return nil, ErrDuplicateOwnerUser
		}
		seen[id] = struct{}{}
		switch e.Mode {
		case EditManual:
			manualTotal += e.Percentage
		case EditEven:
			evenCount++
		default:
			return nil, ErrInvalidPercentage
		}
	}

	residue := 100 - manualTotal
	if evenCount > 0 && residue < evenCount {
		// Even slots need at least 1% each.
		return nil, ErrOwnershipTotalMismatch
	}

	evenShares := evenSplit(residue, evenCount)
	owners := make([]Owner, len(edits))
	evenIdx := 0
	for i, e := range edits {
		owners[i] = Owner{UserID: e.UserID, Percentage: e.Percentage}
		if e.Mode == EditEven {
			owners[i].Percentage = evenShares[evenIdx]
			evenIdx++
		}
	}

	if err := ValidateTotal(owners); err != nil {
		return nil, err
	}
	for _, o := range owners {
		if err := o.Validate(); err != nil {
			return nil, err
		}
	}
	return owners, nil
}

// ValidateTotal reports whether owner percentages sum to exactly 100.
// Integer semantics, no tolerance band: a manual edit that breaks the sum is
// surfaced as ErrOwnershipTotalMismatch for the caller to block on, never
// silently corrected.
func ValidateTotal(owners []Owner) error {
	total := 0
	for _, o := range owners {
		total += o.Percentage
	}
	if total != 100 {
		return ErrOwnershipTotalMismatch
	}
	return nil
}

// CandidateUsers filters the selectable users for one owner slot: everyone
// not already assigned to a different slot on the same item. slotUserID is
// the slot's current assignment and remains selectable for itself.
func CandidateUsers(all []User, owners []Owner, slotUserID string) []User {
	taken := make(map[string]struct{}, len(owners))
	for _, o := range owners {
		if o.UserID != slotUserID {
			taken[o.UserID] = struct{}{}
		}
	}
	var out []User
	for _, u := range all {
		if _, ok := taken[u.ID]; ok {
			continue
		}
		out = append(out, u)
	}
	return out
}
