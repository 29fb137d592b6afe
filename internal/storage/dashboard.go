package storage

import (
	"context"
	"fmt"
	"time"

	"coown/internal/core"
)

// ReadDashboardStats computes the headline numbers for every item the user
// co-owns: item count, combined value, recurring monthly spend and the number
// of blocking bookings that start on or after now.
func (r *SQLiteRepository) ReadDashboardStats(ctx context.Context, userID string, now time.Time) (DashboardStats, error) {
	var stats DashboardStats

	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(i.id), COALESCE(SUM(i.value_cents), 0)
		 FROM items i JOIN owners o ON o.item_id = i.id
		 WHERE o.user_id = ?`, userID).
		Scan(&stats.TotalItems, &stats.TotalValue.Cents)
	if err != nil {
		return DashboardStats{}, fmt.Errorf("dashboard items: %w", err)
	}

	err = r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(b.amount_cents), 0)
		 FROM bills b
		 JOIN owners o ON o.item_id = b.item_id
		 WHERE o.user_id = ? AND b.is_recurring = 1 AND b.period = ?`,
		userID, string(core.Monthly)).
		Scan(&stats.MonthlyExpenses.Cents)
	if err != nil {
		return DashboardStats{}, fmt.Errorf("dashboard expenses: %w", err)
	}

	today := encodeDate(core.NewDate(now.Year(), int(now.Month()), now.Day()))
	err = r.db.QueryRowContext(ctx,
		`SELECT COUNT(b.id)
		 FROM bookings b
		 JOIN owners o ON o.item_id = b.item_id
		 WHERE o.user_id = ? AND b.start_date >= ? AND b.status IN (?, ?)`,
		userID, today, string(core.BookingConfirmed), string(core.BookingPending)).
		Scan(&stats.UpcomingBookings)
	if err != nil {
		return DashboardStats{}, fmt.Errorf("dashboard bookings: %w", err)
	}

	return stats, nil
}
