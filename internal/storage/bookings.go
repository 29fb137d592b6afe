package storage

import (
	"context"
	"fmt"
	"time"

	"coown/internal/core"
	applog "coown/internal/log"
)

func (r *SQLiteRepository) CreateBooking(ctx context.Context, b core.Booking) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO bookings (id, item_id, user_id, title, start_date, end_date, status, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		b.ID, b.ItemID, b.UserID, b.Title,
		encodeDate(b.StartDate), encodeDate(b.EndDate), string(b.Status), time.Now().Unix())
	if err != nil {
		return fmt.Errorf("create booking: %w", err)
	}

	r.log.InfoContext(ctx, "Booking saved",
		applog.FieldBookingID, b.ID,
		applog.FieldItemID, b.ItemID,
		applog.FieldUserID, b.UserID,
		applog.FieldStartDate, encodeDate(b.StartDate),
		applog.FieldEndDate, encodeDate(b.EndDate),
		applog.FieldBookingStatus, string(b.Status))
	return nil
}

func (r *SQLiteRepository) ListBookings(ctx context.Context, itemID string) ([]core.Booking, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, item_id, user_id, title, start_date, end_date, status
		 FROM bookings WHERE item_id = ? ORDER BY start_date, id`, itemID)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	defer rows.Close()

	var bookings []core.Booking
	for rows.Next() {
		var (
			b          core.Booking
			start, end string
			status     string
		)
		if err := rows.Scan(&b.ID, &b.ItemID, &b.UserID, &b.Title, &start, &end, &status); err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		if b.StartDate, err = decodeDate(start); err != nil {
			return nil, err
		}
		if b.EndDate, err = decodeDate(end); err != nil {
			return nil, err
		}
		b.Status = core.BookingStatus(status)
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bookings: %w", err)
	}
	return bookings, nil
}
