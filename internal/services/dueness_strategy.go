// Package services provides business logic and orchestration between the
// core rules, storage and the event pipeline.
//
// This file implements the strategy pattern for recurring bill dueness
// checking. Each period (monthly, yearly) has its own strategy encapsulating
// the logic for determining when a bill occurrence should be posted.
package services

import (
	"fmt"
	"time"

	"coown/internal/core"
)

// DuenessChecker is the strategy interface for checking if a recurring bill
// is due for posting.
type DuenessChecker interface {
	// IsDue returns true if an occurrence should be posted given the last
	// posting time, the current time and the bill's anchor date.
	IsDue(lastPosted, now time.Time, anchor core.Date) bool
}

// MonthlyChecker implements DuenessChecker for monthly bills.
type MonthlyChecker struct{}

// IsDue returns true if we're in a new month and have reached the anchor day.
func (MonthlyChecker) IsDue(lastPosted, now time.Time, anchor core.Date) bool {
	if lastPosted.IsZero() {
		return true
	}

	// Already posted this month?
	if lastPosted.Year() == now.Year() && lastPosted.Month() == now.Month() {
		return false
	}

	// Clamp the anchor day for short months (e.g. a bill anchored on the
	// 31st posts on Feb 28).
	targetDay := anchor.Day()
	lastDayOfMonth := time.Date(now.Year(), now.Month()+1, 0, 0, 0, 0, 0, time.UTC).Day()
	if targetDay > lastDayOfMonth {
		targetDay = lastDayOfMonth
	}

	return now.Day() >= targetDay
}

// YearlyChecker implements DuenessChecker for yearly bills.
type YearlyChecker struct{}

// IsDue returns true if we're in a new year and have reached the anchor month
// and day.
func (YearlyChecker) IsDue(lastPosted, now time.Time, anchor core.Date) bool {
	if lastPosted.IsZero() {
		return true
	}

	if lastPosted.Year() == now.Year() {
		return false
	}

	targetMonth := anchor.Month()
	targetDay := anchor.Day()

	if int(now.Month()) < targetMonth {
		return false
	}

	if int(now.Month()) == targetMonth {
		lastDayOfMonth := time.Date(now.Year(), now.Month()+1, 0, 0, 0, 0, 0, time.UTC).Day()
		if targetDay > lastDayOfMonth {
			targetDay = lastDayOfMonth
		}
		return now.Day() >= targetDay
	}

	return true
}

// duenessStrategies maps recurring periods to their checkers.
var duenessStrategies = map[core.RecurringPeriod]DuenessChecker{
	core.Monthly: MonthlyChecker{},
	core.Yearly:  YearlyChecker{},
}

// GetDuenessChecker returns the checker for a recurring period, or an error
// for unsupported periods.
func GetDuenessChecker(period core.RecurringPeriod) (DuenessChecker, error) {
	checker, ok := duenessStrategies[period]
	if !ok {
		return nil, fmt.Errorf("unsupported recurring period: %s", period)
	}
	return checker, nil
}
