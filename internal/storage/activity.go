package storage

import (
	"context"
	"fmt"
	"time"
)

func (r *SQLiteRepository) RecordActivity(ctx context.Context, e ActivityEntry) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO activity (event_type, item_id, user_id, detail, occurred_at)
		 VALUES (?, ?, ?, ?, ?)`,
		e.EventType, e.ItemID, e.UserID, e.Detail, e.OccurredAt.Unix())
	if err != nil {
		return fmt.Errorf("record activity: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) ListActivity(ctx context.Context, itemID string, limit int) ([]ActivityEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, event_type, item_id, user_id, detail, occurred_at
		 FROM activity WHERE item_id = ? ORDER BY occurred_at DESC, id DESC LIMIT ?`,
		itemID, limit)
	if err != nil {
		return nil, fmt.Errorf("list activity: %w", err)
	}
	defer rows.Close()

	var entries []ActivityEntry
	for rows.Next() {
		var (
			e          ActivityEntry
			occurredAt int64
		)
		if err := rows.Scan(&e.ID, &e.EventType, &e.ItemID, &e.UserID, &e.Detail, &occurredAt); err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		e.OccurredAt = time.Unix(occurredAt, 0).UTC()
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate activity: %w", err)
	}
	return entries, nil
}
