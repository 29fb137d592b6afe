package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"coown/internal/core"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRepository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func seedUsers(t *testing.T, repo *SQLiteRepository, users ...core.User) {
	t.Helper()
	ctx := context.Background()
	for _, u := range users {
		if err := repo.CreateUser(ctx, u); err != nil {
			t.Fatalf("CreateUser(%s): %v", u.ID, err)
		}
	}
}

func TestUserRoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	want := core.User{ID: "u1", DisplayName: "Alice", Email: "alice@example.com"}
	seedUsers(t, repo, want)

	got, err := repo.GetUser(ctx, "u1")
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if got != want {
		t.Errorf("GetUser = %+v, want %+v", got, want)
	}

	if _, err := repo.GetUser(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetUser(missing) error = %v, want ErrNotFound", err)
	}
}

func TestItemAggregateRoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	seedUsers(t, repo,
		core.User{ID: "u1", DisplayName: "Alice", Email: "alice@example.com"},
		core.User{ID: "u2", DisplayName: "Bob", Email: "bob@example.com"},
	)

	item := core.Item{
		ID:    "item-1",
		Title: "Lake cabin",
		Value: core.Money{Cents: 2500000},
		Owners: []core.Owner{
			{UserID: "u1", Percentage: 60},
			{UserID: "u2", Percentage: 40},
		},
		CreatedBy: "u1",
	}
	if err := repo.CreateItem(ctx, item); err != nil {
		t.Fatalf("CreateItem: %v", err)
	}

	recurring := core.Bill{
		ID:          "bill-1",
		Title:       "Insurance",
		Amount:      core.Money{Cents: 18000},
		IsRecurring: true,
		Period:      core.Monthly,
		Date:        core.NewDate(2025, 1, 1),
		PaidBy:      "u1",
	}
	oneTime := core.Bill{
		ID:     "bill-2",
		Title:  "Roof repair",
		Amount: core.Money{Cents: 90000},
		Date:   core.NewDate(2025, 3, 10),
	}
	if err := repo.CreateBill(ctx, "item-1", recurring); err != nil {
		t.Fatalf("CreateBill recurring: %v", err)
	}
	if err := repo.CreateBill(ctx, "item-1", oneTime); err != nil {
		t.Fatalf("CreateBill one-time: %v", err)
	}

	booking := core.Booking{
		ID:        "bk-1",
		ItemID:    "item-1",
		UserID:    "u2",
		Title:     "Summer week",
		StartDate: core.NewDate(2025, 7, 1),
		EndDate:   core.NewDate(2025, 7, 7),
		Status:    core.BookingConfirmed,
	}
	if err := repo.CreateBooking(ctx, booking); err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}

	doc := core.Document{
		ID:         "doc-1",
		Name:       "deed.pdf",
		Type:       "application/pdf",
		URL:        "file:///docs/deed.pdf",
		UploadedBy: "u1",
		Size:       2048,
	}
	if err := repo.CreateDocument(ctx, "item-1", doc); err != nil {
		t.Fatalf("CreateDocument: %v", err)
	}

	got, err := repo.GetItem(ctx, "item-1")
	if err != nil {
		t.Fatalf("GetItem: %v", err)
	}

	if got.Title != "Lake cabin" || got.Value.Cents != 2500000 {
		t.Errorf("item header = %q/%d, want Lake cabin/2500000", got.Title, got.Value.Cents)
	}
	if len(got.Owners) != 2 || got.Owners[0].UserID != "u1" || got.Owners[0].Percentage != 60 {
		t.Errorf("owners = %+v, want u1@60 first", got.Owners)
	}
	if len(got.RecurringBills) != 1 || got.RecurringBills[0].ID != "bill-1" {
		t.Errorf("recurring bills = %+v, want [bill-1]", got.RecurringBills)
	}
	if len(got.OneTimeBills) != 1 || got.OneTimeBills[0].ID != "bill-2" {
		t.Errorf("one-time bills = %+v, want [bill-2]", got.OneTimeBills)
	}
	if len(got.Bookings) != 1 || got.Bookings[0].StartDate != core.NewDate(2025, 7, 1) {
		t.Errorf("bookings = %+v, want start 2025-07-01", got.Bookings)
	}
	if len(got.Documents) != 1 || got.Documents[0].Name != "deed.pdf" {
		t.Errorf("documents = %+v, want deed.pdf", got.Documents)
	}

	items, err := repo.ListItems(ctx, "u2")
	if err != nil {
		t.Fatalf("ListItems: %v", err)
	}
	if len(items) != 1 || items[0].ID != "item-1" {
		t.Errorf("ListItems(u2) = %+v, want [item-1]", items)
	}
}

func TestReplaceOwners(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	seedUsers(t, repo,
		core.User{ID: "u1", DisplayName: "Alice", Email: "alice@example.com"},
		core.User{ID: "u2", DisplayName: "Bob", Email: "bob@example.com"},
		core.User{ID: "u3", DisplayName: "Carol", Email: "carol@example.com"},
	)
	item := core.Item{
		ID:        "item-1",
		Title:     "Boat",
		Owners:    []core.Owner{{UserID: "u1", Percentage: 100}},
		CreatedBy: "u1",
	}
	if err := repo.CreateItem(ctx, item); err != nil {
		t.Fatalf("CreateItem: %v", err)
	}

	next := []core.Owner{
		{UserID: "u2", Percentage: 34},
		{UserID: "u1", Percentage: 33},
		{UserID: "u3", Percentage: 33},
	}
	if err := repo.ReplaceOwners(ctx, "item-1", next); err != nil {
		t.Fatalf("ReplaceOwners: %v", err)
	}

	got, err := repo.GetItem(ctx, "item-1")
	if err != nil {
		t.Fatalf("GetItem: %v", err)
	}
	if len(got.Owners) != 3 {
		t.Fatalf("owners = %+v, want 3 rows", got.Owners)
	}
	for i, want := range next {
		if got.Owners[i] != want {
			t.Errorf("owner[%d] = %+v, want %+v (position order must survive)", i, got.Owners[i], want)
		}
	}

	if err := repo.ReplaceOwners(ctx, "no-such-item", next); !errors.Is(err, ErrNotFound) {
		t.Errorf("ReplaceOwners(missing item) error = %v, want ErrNotFound", err)
	}
}

func TestRecurringTemplateLifecycle(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	seedUsers(t, repo, core.User{ID: "u1", DisplayName: "Alice", Email: "alice@example.com"})
	item := core.Item{
		ID:        "item-1",
		Title:     "Cabin",
		Owners:    []core.Owner{{UserID: "u1", Percentage: 100}},
		CreatedBy: "u1",
	}
	if err := repo.CreateItem(ctx, item); err != nil {
		t.Fatalf("CreateItem: %v", err)
	}

	template := core.Bill{
		ID:          "bill-1",
		Title:       "HOA dues",
		Amount:      core.Money{Cents: 12000},
		IsRecurring: true,
		Period:      core.Monthly,
		Date:        core.NewDate(2025, 1, 15),
	}
	if err := repo.CreateBill(ctx, "item-1", template); err != nil {
		t.Fatalf("CreateBill: %v", err)
	}

	templates, err := repo.ListRecurringTemplates(ctx)
	if err != nil {
		t.Fatalf("ListRecurringTemplates: %v", err)
	}
	if len(templates) != 1 {
		t.Fatalf("templates = %+v, want 1", templates)
	}
	if templates[0].ItemID != "item-1" || templates[0].Bill.ID != "bill-1" {
		t.Errorf("template = %+v, want item-1/bill-1", templates[0])
	}
	if !templates[0].LastPostedAt.IsZero() {
		t.Errorf("LastPostedAt = %v, want zero before first posting", templates[0].LastPostedAt)
	}

	posted := core.Bill{
		ID:     "bill-1-202502",
		Title:  "HOA dues",
		Amount: core.Money{Cents: 12000},
		Date:   core.NewDate(2025, 2, 15),
	}
	if err := repo.CreatePostedBill(ctx, "item-1", "bill-1", posted); err != nil {
		t.Fatalf("CreatePostedBill: %v", err)
	}
	postedAt := time.Date(2025, 2, 15, 9, 0, 0, 0, time.UTC)
	if err := repo.MarkBillPosted(ctx, "bill-1", postedAt); err != nil {
		t.Fatalf("MarkBillPosted: %v", err)
	}

	templates, err = repo.ListRecurringTemplates(ctx)
	if err != nil {
		t.Fatalf("ListRecurringTemplates after post: %v", err)
	}
	if len(templates) != 1 {
		t.Fatalf("templates after post = %+v, want still 1 (occurrences are not templates)", templates)
	}
	if !templates[0].LastPostedAt.Equal(postedAt) {
		t.Errorf("LastPostedAt = %v, want %v", templates[0].LastPostedAt, postedAt)
	}

	bills, err := repo.ListBills(ctx, "item-1")
	if err != nil {
		t.Fatalf("ListBills: %v", err)
	}
	if len(bills) != 2 {
		t.Errorf("bills = %+v, want template plus occurrence", bills)
	}

	if err := repo.MarkBillPosted(ctx, "missing", postedAt); !errors.Is(err, ErrNotFound) {
		t.Errorf("MarkBillPosted(missing) error = %v, want ErrNotFound", err)
	}
}

func TestActivityFeed(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		err := repo.RecordActivity(ctx, ActivityEntry{
			EventType:  "booking-created",
			ItemID:     "item-1",
			UserID:     "u1",
			Detail:     "Summer week",
			OccurredAt: base.Add(time.Duration(i) * time.Hour),
		})
		if err != nil {
			t.Fatalf("RecordActivity: %v", err)
		}
	}

	entries, err := repo.ListActivity(ctx, "item-1", 2)
	if err != nil {
		t.Fatalf("ListActivity: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("entries = %+v, want limit of 2", entries)
	}
	if !entries[0].OccurredAt.After(entries[1].OccurredAt) {
		t.Errorf("feed order = %v then %v, want newest first", entries[0].OccurredAt, entries[1].OccurredAt)
	}
}

func TestReadDashboardStats(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	seedUsers(t, repo,
		core.User{ID: "u1", DisplayName: "Alice", Email: "alice@example.com"},
		core.User{ID: "u2", DisplayName: "Bob", Email: "bob@example.com"},
	)

	items := []core.Item{
		{
			ID: "item-1", Title: "Cabin", Value: core.Money{Cents: 2500000},
			Owners:    []core.Owner{{UserID: "u1", Percentage: 50}, {UserID: "u2", Percentage: 50}},
			CreatedBy: "u1",
		},
		{
			ID: "item-2", Title: "Boat", Value: core.Money{Cents: 800000},
			Owners:    []core.Owner{{UserID: "u2", Percentage: 100}},
			CreatedBy: "u2",
		},
	}
	for _, it := range items {
		if err := repo.CreateItem(ctx, it); err != nil {
			t.Fatalf("CreateItem(%s): %v", it.ID, err)
		}
	}

	monthly := core.Bill{
		ID: "bill-1", Title: "Insurance", Amount: core.Money{Cents: 18000},
		IsRecurring: true, Period: core.Monthly, Date: core.NewDate(2025, 1, 1),
	}
	yearly := core.Bill{
		ID: "bill-2", Title: "Registration", Amount: core.Money{Cents: 30000},
		IsRecurring: true, Period: core.Yearly, Date: core.NewDate(2025, 1, 1),
	}
	if err := repo.CreateBill(ctx, "item-1", monthly); err != nil {
		t.Fatalf("CreateBill monthly: %v", err)
	}
	if err := repo.CreateBill(ctx, "item-1", yearly); err != nil {
		t.Fatalf("CreateBill yearly: %v", err)
	}

	now := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	bookings := []core.Booking{
		{ID: "bk-1", ItemID: "item-1", UserID: "u2", StartDate: core.NewDate(2025, 7, 1), EndDate: core.NewDate(2025, 7, 7), Status: core.BookingConfirmed},
		{ID: "bk-2", ItemID: "item-1", UserID: "u1", StartDate: core.NewDate(2025, 8, 1), EndDate: core.NewDate(2025, 8, 3), Status: core.BookingCancelled},
		{ID: "bk-3", ItemID: "item-1", UserID: "u1", StartDate: core.NewDate(2025, 5, 1), EndDate: core.NewDate(2025, 5, 3), Status: core.BookingConfirmed},
	}
	for _, b := range bookings {
		if err := repo.CreateBooking(ctx, b); err != nil {
			t.Fatalf("CreateBooking(%s): %v", b.ID, err)
		}
	}

	stats, err := repo.ReadDashboardStats(ctx, "u1", now)
	if err != nil {
		t.Fatalf("ReadDashboardStats: %v", err)
	}
	if stats.TotalItems != 1 {
		t.Errorf("TotalItems = %d, want 1", stats.TotalItems)
	}
	if stats.TotalValue.Cents != 2500000 {
		t.Errorf("TotalValue = %d, want 2500000", stats.TotalValue.Cents)
	}
	if stats.MonthlyExpenses.Cents != 18000 {
		t.Errorf("MonthlyExpenses = %d, want 18000 (yearly bills excluded)", stats.MonthlyExpenses.Cents)
	}
	if stats.UpcomingBookings != 1 {
		t.Errorf("UpcomingBookings = %d, want 1 (cancelled and past excluded)", stats.UpcomingBookings)
	}

	u2stats, err := repo.ReadDashboardStats(ctx, "u2", now)
	if err != nil {
		t.Fatalf("ReadDashboardStats(u2): %v", err)
	}
	if u2stats.TotalItems != 2 || u2stats.TotalValue.Cents != 3300000 {
		t.Errorf("u2 stats = %+v, want 2 items worth 3300000", u2stats)
	}
}
