package core

// ConflictResult is the verdict for a proposed booking interval.
type ConflictResult struct {
	HasConflict bool
	// Conflicting holds every blocking booking whose inclusive range
	// intersects the proposed one, in input order.
	Conflicting []Booking
}

// rangesOverlap reports whether the inclusive day ranges [a1,a2] and [b1,b2]
// share at least one calendar day: a1 <= b2 && b1 <= a2.
//
// This is the single overlap predicate for the whole system. Calendar cell
// highlighting, date-picker disabling and submit-time validation all reduce
// to it at different granularities.
func rangesOverlap(a1, a2, b1, b2 Date) bool {
	return !a1.After(b2.Time) && !b1.After(a2.Time)
}

// CheckConflict decides whether a proposed inclusive interval may be accepted
// against an item's existing bookings. Only bookings in a blocking status
// (confirmed or pending) participate. excludeID lets an edit-in-place check
// ignore its own prior record; pass "" for new bookings.
//
// Adjacent bookings that share a boundary day DO conflict: the shared day is
// claimed twice under inclusive ranges. This is deliberate and matches the
// historical behavior; switching to half-open ranges is a product decision,
// not a bug fix.
//
// Returns ErrInvalidRange when either date is zero or end precedes start.
// For a well-formed range it never fails.
func CheckConflict(existing []Booking, start, end Date, excludeID string) (ConflictResult, error) {
	if start.IsZero() || end.IsZero() || start.After(end.Time) {
		return ConflictResult{}, ErrInvalidRange
	}

	var result ConflictResult
	for _, b := range existing {
		if excludeID != "" && b.ID == excludeID {
			continue
		}
		if !b.Status.Blocks() {
			continue
		}
		if rangesOverlap(start, end, b.StartDate, b.EndDate) {
			result.Conflicting = append(result.Conflicting, b)
		}
	}
	result.HasConflict = len(result.Conflicting) > 0
	return result, nil
}

// IsDateBlocked reports whether a single day falls inside any blocking
// booking. It is CheckConflict applied to the degenerate range [d, d].
func IsDateBlocked(existing []Booking, d Date) bool {
	res, err := CheckConflict(existing, d, d, "")
	if err != nil {
		return false
	}
	return res.HasConflict
}

// BlockedDays returns the days of the given calendar month (1-based) that are
// covered by a blocking booking, for calendar rendering.
func BlockedDays(existing []Booking, year, month int) []int {
	last := NewDate(year, month+1, 0).Day()
	var days []int
	for day := 1; day <= last; day++ {
		if IsDateBlocked(existing, NewDate(year, month, day)) {
			days = append(days, day)
		}
	}
	return days
}

// BookingAt returns the first blocking booking covering the given day, if any.
func BookingAt(existing []Booking, d Date) (Booking, bool) {
	for _, b := range existing {
		if !b.Status.Blocks() {
			continue
		}
		if rangesOverlap(d, d, b.StartDate, b.EndDate) {
			return b, true
		}
	}
	return Booking{}, false
}
