// Package storage provides persistence for items, owners, bills, bookings,
// documents and the activity feed.
package storage

import (
	"context"
	"time"

	"coown/internal/core"
)

// ActivityEntry is one row of an item's activity feed, written by the
// activity worker from consumed events.
type ActivityEntry struct {
	ID         int64
	EventType  string
	ItemID     string
	UserID     string
	Detail     string
	OccurredAt time.Time
}

// RecurringTemplate pairs a recurring bill with its posting bookkeeping, for
// the billing processor.
type RecurringTemplate struct {
	Bill         core.Bill
	ItemID       string
	LastPostedAt time.Time
}

// DashboardStats are the portfolio-wide headline numbers.
type DashboardStats struct {
	TotalItems       int
	TotalValue       core.Money
	MonthlyExpenses  core.Money
	UpcomingBookings int
}

// Store is the persistence interface the services depend on. The abstraction
// keeps the service layer testable and allows swapping storage backends
// without changing it.
type Store interface {
	CreateUser(ctx context.Context, u core.User) error
	GetUser(ctx context.Context, id string) (core.User, error)
	ListUsers(ctx context.Context) ([]core.User, error)

	// CreateItem persists the item and its owner rows in one transaction.
	CreateItem(ctx context.Context, item core.Item) error
	// GetItem returns the full aggregate: owners, bills, bookings, documents.
	GetItem(ctx context.Context, id string) (core.Item, error)
	ListItems(ctx context.Context, userID string) ([]core.Item, error)
	// ReplaceOwners swaps the item's owner rows atomically.
	ReplaceOwners(ctx context.Context, itemID string, owners []core.Owner) error

	CreateBill(ctx context.Context, itemID string, b core.Bill) error
	// CreatePostedBill records a one-time occurrence materialized from a
	// recurring template, keeping the back-reference to the template.
	CreatePostedBill(ctx context.Context, itemID, sourceBillID string, b core.Bill) error
	ListBills(ctx context.Context, itemID string) ([]core.Bill, error)
	// ListRecurringTemplates returns every recurring bill with its last
	// posting time, across all items.
	ListRecurringTemplates(ctx context.Context) ([]RecurringTemplate, error)
	MarkBillPosted(ctx context.Context, billID string, postedAt time.Time) error

	CreateBooking(ctx context.Context, b core.Booking) error
	ListBookings(ctx context.Context, itemID string) ([]core.Booking, error)

	CreateDocument(ctx context.Context, itemID string, d core.Document) error
	ListDocuments(ctx context.Context, itemID string) ([]core.Document, error)

	RecordActivity(ctx context.Context, e ActivityEntry) error
	ListActivity(ctx context.Context, itemID string, limit int) ([]ActivityEntry, error)

	ReadDashboardStats(ctx context.Context, userID string, now time.Time) (DashboardStats, error)

	Close() error
}
