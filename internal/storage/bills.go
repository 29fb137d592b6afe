package storage

import (
	"context"
	"fmt"
	"time"

	"coown/internal/core"
	applog "coown/internal/log"
)

func (r *SQLiteRepository) CreateBill(ctx context.Context, itemID string, b core.Bill) error {
	isRecurring := 0
	if b.IsRecurring {
		isRecurring = 1
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO bills (id, item_id, title, amount_cents, is_recurring, period, bill_date, paid_by, source_bill_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		b.ID, itemID, b.Title, b.Amount.Cents, isRecurring, string(b.Period),
		encodeDate(b.Date), b.PaidBy, "", time.Now().Unix())
	if err != nil {
		return fmt.Errorf("create bill: %w", err)
	}

	r.log.InfoContext(ctx, "Bill saved",
		applog.FieldBillID, b.ID,
		applog.FieldItemID, itemID,
		applog.FieldTitle, b.Title,
		applog.FieldAmountCents, b.Amount.Cents,
		"is_recurring", b.IsRecurring,
		applog.FieldPeriod, string(b.Period))
	return nil
}

// CreatePostedBill inserts a one-time bill materialized from a recurring
// template, keeping the back-reference for audit.
func (r *SQLiteRepository) CreatePostedBill(ctx context.Context, itemID, sourceBillID string, b core.Bill) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO bills (id, item_id, title, amount_cents, is_recurring, period, bill_date, paid_by, source_bill_id, created_at)
		 VALUES (?, ?, ?, ?, 0, '', ?, ?, ?, ?)`,
		b.ID, itemID, b.Title, b.Amount.Cents, encodeDate(b.Date), b.PaidBy, sourceBillID, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("create posted bill: %w", err)
	}

	r.log.InfoContext(ctx, "Posted bill from recurring template",
		applog.FieldBillID, b.ID,
		applog.FieldItemID, itemID,
		"source_bill_id", sourceBillID,
		applog.FieldAmountCents, b.Amount.Cents)
	return nil
}

func (r *SQLiteRepository) ListBills(ctx context.Context, itemID string) ([]core.Bill, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, title, amount_cents, is_recurring, period, bill_date, paid_by
		 FROM bills WHERE item_id = ? ORDER BY bill_date, id`, itemID)
	if err != nil {
		return nil, fmt.Errorf("list bills: %w", err)
	}
	defer rows.Close()

	var bills []core.Bill
	for rows.Next() {
		var (
			b           core.Bill
			isRecurring int
			period      string
			billDate    string
		)
		if err := rows.Scan(&b.ID, &b.Title, &b.Amount.Cents, &isRecurring, &period, &billDate, &b.PaidBy); err != nil {
			return nil, fmt.Errorf("scan bill: %w", err)
		}
		b.IsRecurring = isRecurring == 1
		b.Period = core.RecurringPeriod(period)
		if b.Date, err = decodeDate(billDate); err != nil {
			return nil, err
		}
		bills = append(bills, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bills: %w", err)
	}
	return bills, nil
}

func (r *SQLiteRepository) ListRecurringTemplates(ctx context.Context) ([]RecurringTemplate, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, item_id, title, amount_cents, period, bill_date, paid_by, last_posted_at
		 FROM bills WHERE is_recurring = 1 ORDER BY item_id, bill_date`)
	if err != nil {
		return nil, fmt.Errorf("list recurring templates: %w", err)
	}
	defer rows.Close()

	var templates []RecurringTemplate
	for rows.Next() {
		var (
			t          RecurringTemplate
			period     string
			billDate   string
			lastPosted int64
		)
		if err := rows.Scan(&t.Bill.ID, &t.ItemID, &t.Bill.Title, &t.Bill.Amount.Cents,
			&period, &billDate, &t.Bill.PaidBy, &lastPosted); err != nil {
			return nil, fmt.Errorf("scan recurring template: %w", err)
		}
		t.Bill.IsRecurring = true
		t.Bill.Period = core.RecurringPeriod(period)
		if t.Bill.Date, err = decodeDate(billDate); err != nil {
			return nil, err
		}
		if lastPosted > 0 {
			t.LastPostedAt = time.Unix(lastPosted, 0).UTC()
		}
		templates = append(templates, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate recurring templates: %w", err)
	}
	return templates, nil
}

func (r *SQLiteRepository) MarkBillPosted(ctx context.Context, billID string, postedAt time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE bills SET last_posted_at = ? WHERE id = ?`, postedAt.Unix(), billID)
	if err != nil {
		return fmt.Errorf("mark bill posted: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("mark bill posted %s: %w", billID, ErrNotFound)
	}
	return nil
}
