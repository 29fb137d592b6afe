package services

import (
	"context"
	"fmt"
	"time"

	"coown/internal/amqp"
	"coown/internal/core"
	"coown/internal/storage"
)

// fakeStore is an in-memory Store for service tests.
type fakeStore struct {
	users     map[string]core.User
	items     map[string]core.Item
	bills     map[string][]core.Bill // keyed by item ID
	posted    map[string]time.Time   // bill ID -> last posted
	sourceOf  map[string]string      // occurrence ID -> template ID
	bookings  map[string][]core.Booking
	documents map[string][]core.Document
	activity  []storage.ActivityEntry
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:     make(map[string]core.User),
		items:     make(map[string]core.Item),
		bills:     make(map[string][]core.Bill),
		posted:    make(map[string]time.Time),
		sourceOf:  make(map[string]string),
		bookings:  make(map[string][]core.Booking),
		documents: make(map[string][]core.Document),
	}
}

func (f *fakeStore) CreateUser(_ context.Context, u core.User) error {
	f.users[u.ID] = u
	return nil
}

func (f *fakeStore) GetUser(_ context.Context, id string) (core.User, error) {
	u, ok := f.users[id]
	if !ok {
		return core.User{}, storage.ErrNotFound
	}
	return u, nil
}

func (f *fakeStore) ListUsers(context.Context) ([]core.User, error) {
	users := make([]core.User, 0, len(f.users))
	for _, u := range f.users {
		users = append(users, u)
	}
	return users, nil
}

func (f *fakeStore) CreateItem(_ context.Context, item core.Item) error {
	f.items[item.ID] = item
	return nil
}

func (f *fakeStore) GetItem(_ context.Context, id string) (core.Item, error) {
	item, ok := f.items[id]
	if !ok {
		return core.Item{}, storage.ErrNotFound
	}
	item.Bookings = f.bookings[id]
	item.Documents = f.documents[id]
	item.RecurringBills = nil
	item.OneTimeBills = nil
	for _, b := range f.bills[id] {
		if b.IsRecurring {
			item.RecurringBills = append(item.RecurringBills, b)
		} else {
			item.OneTimeBills = append(item.OneTimeBills, b)
		}
	}
	return item, nil
}

func (f *fakeStore) ListItems(ctx context.Context, userID string) ([]core.Item, error) {
	var items []core.Item
	for id, item := range f.items {
		for _, o := range item.Owners {
			if o.UserID == userID {
				full, _ := f.GetItem(ctx, id)
				items = append(items, full)
				break
			}
		}
	}
	return items, nil
}

func (f *fakeStore) ReplaceOwners(_ context.Context, itemID string, owners []core.Owner) error {
	item, ok := f.items[itemID]
	if !ok {
		return storage.ErrNotFound
	}
	item.Owners = owners
	f.items[itemID] = item
	return nil
}

func (f *fakeStore) CreateBill(_ context.Context, itemID string, b core.Bill) error {
	f.bills[itemID] = append(f.bills[itemID], b)
	return nil
}

func (f *fakeStore) CreatePostedBill(_ context.Context, itemID, sourceBillID string, b core.Bill) error {
	f.bills[itemID] = append(f.bills[itemID], b)
	f.sourceOf[b.ID] = sourceBillID
	return nil
}

func (f *fakeStore) ListBills(_ context.Context, itemID string) ([]core.Bill, error) {
	return f.bills[itemID], nil
}

func (f *fakeStore) ListRecurringTemplates(context.Context) ([]storage.RecurringTemplate, error) {
	var templates []storage.RecurringTemplate
	for itemID, bills := range f.bills {
		for _, b := range bills {
			if b.IsRecurring {
				templates = append(templates, storage.RecurringTemplate{
					Bill:         b,
					ItemID:       itemID,
					LastPostedAt: f.posted[b.ID],
				})
			}
		}
	}
	return templates, nil
}

func (f *fakeStore) MarkBillPosted(_ context.Context, billID string, postedAt time.Time) error {
	f.posted[billID] = postedAt
	return nil
}

func (f *fakeStore) CreateBooking(_ context.Context, b core.Booking) error {
	f.bookings[b.ItemID] = append(f.bookings[b.ItemID], b)
	return nil
}

func (f *fakeStore) ListBookings(_ context.Context, itemID string) ([]core.Booking, error) {
	return f.bookings[itemID], nil
}

func (f *fakeStore) CreateDocument(_ context.Context, itemID string, d core.Document) error {
	f.documents[itemID] = append(f.documents[itemID], d)
	return nil
}

func (f *fakeStore) ListDocuments(_ context.Context, itemID string) ([]core.Document, error) {
	return f.documents[itemID], nil
}

func (f *fakeStore) RecordActivity(_ context.Context, e storage.ActivityEntry) error {
	e.ID = int64(len(f.activity) + 1)
	f.activity = append(f.activity, e)
	return nil
}

func (f *fakeStore) ListActivity(_ context.Context, itemID string, limit int) ([]storage.ActivityEntry, error) {
	var entries []storage.ActivityEntry
	for i := len(f.activity) - 1; i >= 0 && len(entries) < limit; i-- {
		if f.activity[i].ItemID == itemID {
			entries = append(entries, f.activity[i])
		}
	}
	return entries, nil
}

func (f *fakeStore) ReadDashboardStats(_ context.Context, userID string, _ time.Time) (storage.DashboardStats, error) {
	var stats storage.DashboardStats
	for _, item := range f.items {
		for _, o := range item.Owners {
			if o.UserID == userID {
				stats.TotalItems++
				stats.TotalValue = stats.TotalValue.Add(item.Value)
			}
		}
	}
	return stats, nil
}

func (f *fakeStore) Close() error { return nil }

var _ storage.Store = (*fakeStore)(nil)

// fakePublisher records published events and can be told to fail.
type fakePublisher struct {
	events []*amqp.Event
	fail   bool
}

func (f *fakePublisher) PublishEvent(_ context.Context, event *amqp.Event) error {
	if f.fail {
		return fmt.Errorf("publish: connection refused")
	}
	f.events = append(f.events, event)
	return nil
}
