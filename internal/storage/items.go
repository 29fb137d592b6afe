package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"coown/internal/core"
	applog "coown/internal/log"
)

func (r *SQLiteRepository) CreateItem(ctx context.Context, item core.Item) error {
	err := r.inTx(ctx, func(tx *sql.Tx) error {
		createdAt := item.CreatedAt
		if createdAt.IsZero() {
			createdAt = time.Now()
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO items (id, title, description, value_cents, created_by, created_at)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			item.ID, item.Title, item.Description, item.Value.Cents, item.CreatedBy, createdAt.Unix())
		if err != nil {
			return fmt.Errorf("insert item: %w", err)
		}
		return insertOwners(ctx, tx, item.ID, item.Owners)
	})
	if err != nil {
		return fmt.Errorf("create item: %w", err)
	}

	r.log.InfoContext(ctx, "Item saved",
		applog.FieldItemID, item.ID,
		applog.FieldTitle, item.Title,
		applog.FieldValueCents, item.Value.Cents,
		applog.FieldOwnerCount, len(item.Owners))
	return nil
}

func insertOwners(ctx context.Context, tx *sql.Tx, itemID string, owners []core.Owner) error {
	for i, o := range owners {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO owners (item_id, user_id, percentage, position) VALUES (?, ?, ?, ?)`,
			itemID, o.UserID, o.Percentage, i)
		if err != nil {
			return fmt.Errorf("insert owner %s: %w", o.UserID, err)
		}
	}
	return nil
}

func (r *SQLiteRepository) GetItem(ctx context.Context, id string) (core.Item, error) {
	var (
		item      core.Item
		createdAt int64
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, title, description, value_cents, created_by, created_at FROM items WHERE id = ?`, id).
		Scan(&item.ID, &item.Title, &item.Description, &item.Value.Cents, &item.CreatedBy, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Item{}, fmt.Errorf("get item %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return core.Item{}, fmt.Errorf("get item %s: %w", id, err)
	}
	item.CreatedAt = time.Unix(createdAt, 0).UTC()

	if item.Owners, err = r.listOwners(ctx, id); err != nil {
		return core.Item{}, err
	}
	bills, err := r.ListBills(ctx, id)
	if err != nil {
		return core.Item{}, err
	}
	for _, b := range bills {
		if b.IsRecurring {
			item.RecurringBills = append(item.RecurringBills, b)
		} else {
			item.OneTimeBills = append(item.OneTimeBills, b)
		}
	}
	if item.Bookings, err = r.ListBookings(ctx, id); err != nil {
		return core.Item{}, err
	}
	if item.Documents, err = r.ListDocuments(ctx, id); err != nil {
		return core.Item{}, err
	}
	return item, nil
}

func (r *SQLiteRepository) listOwners(ctx context.Context, itemID string) ([]core.Owner, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT user_id, percentage FROM owners WHERE item_id = ? ORDER BY position`, itemID)
	if err != nil {
		return nil, fmt.Errorf("list owners: %w", err)
	}
	defer rows.Close()

	var owners []core.Owner
	for rows.Next() {
		var o core.Owner
		if err := rows.Scan(&o.UserID, &o.Percentage); err != nil {
			return nil, fmt.Errorf("scan owner: %w", err)
		}
		owners = append(owners, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate owners: %w", err)
	}
	return owners, nil
}

// ListItems returns the full aggregates for every item the user co-owns.
func (r *SQLiteRepository) ListItems(ctx context.Context, userID string) ([]core.Item, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT i.id FROM items i JOIN owners o ON o.item_id = i.id
		 WHERE o.user_id = ? ORDER BY i.created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan item id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate items: %w", err)
	}

	items := make([]core.Item, 0, len(ids))
	for _, id := range ids {
		item, err := r.GetItem(ctx, id)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

// ReplaceOwners swaps an item's owner rows atomically so that readers never
// observe a partial ownership list.
func (r *SQLiteRepository) ReplaceOwners(ctx context.Context, itemID string, owners []core.Owner) error {
	err := r.inTx(ctx, func(tx *sql.Tx) error {
		var exists int
		if err := tx.QueryRowContext(ctx, `SELECT COUNT(1) FROM items WHERE id = ?`, itemID).Scan(&exists); err != nil {
			return fmt.Errorf("check item: %w", err)
		}
		if exists == 0 {
			return fmt.Errorf("item %s: %w", itemID, ErrNotFound)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM owners WHERE item_id = ?`, itemID); err != nil {
			return fmt.Errorf("clear owners: %w", err)
		}
		return insertOwners(ctx, tx, itemID, owners)
	})
	if err != nil {
		return fmt.Errorf("replace owners: %w", err)
	}

	r.log.InfoContext(ctx, "Ownership replaced", applog.FieldItemID, itemID, applog.FieldOwnerCount, len(owners))
	return nil
}
