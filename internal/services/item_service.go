package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"coown/internal/amqp"
	"coown/internal/core"
	applog "coown/internal/log"
	"coown/internal/storage"
)

// EventPublisher publishes activity events. The AMQP client satisfies it; a
// nil publisher disables the pipeline without failing requests.
type EventPublisher interface {
	PublishEvent(ctx context.Context, event *amqp.Event) error
}

// ItemService orchestrates item, ownership, bill and document operations
// across storage and the event pipeline.
type ItemService struct {
	store     storage.Store
	publisher EventPublisher
	allocator core.Allocator
	log       *applog.Logger
}

func NewItemService(store storage.Store, publisher EventPublisher, maxOwners int) *ItemService {
	return &ItemService{
		store:     store,
		publisher: publisher,
		allocator: core.NewAllocator(maxOwners),
		log:       applog.ForComponent(applog.ComponentItem),
	}
}

// CreateItem persists a new item. A missing owner list defaults to the
// creator holding 100 percent.
func (s *ItemService) CreateItem(ctx context.Context, item core.Item) (core.Item, error) {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	if len(item.Owners) == 0 {
		item.Owners = []core.Owner{{UserID: item.CreatedBy, Percentage: 100}}
	}
	if len(item.Owners) > s.allocator.MaxOwners {
		return core.Item{}, core.ErrOwnerLimitExceeded
	}
	if err := item.Validate(); err != nil {
		return core.Item{}, err
	}

	if err := s.store.CreateItem(ctx, item); err != nil {
		return core.Item{}, fmt.Errorf("create item: %w", err)
	}
	return item, nil
}

func (s *ItemService) GetItem(ctx context.Context, id string) (core.Item, error) {
	return s.store.GetItem(ctx, id)
}

func (s *ItemService) ListItems(ctx context.Context, userID string) ([]core.Item, error) {
	return s.store.ListItems(ctx, userID)
}

func (s *ItemService) CreateUser(ctx context.Context, u core.User) (core.User, error) {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.DisplayName == "" || u.Email == "" {
		return core.User{}, core.ErrInvalidValue
	}
	if err := s.store.CreateUser(ctx, u); err != nil {
		return core.User{}, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

func (s *ItemService) ListUsers(ctx context.Context) ([]core.User, error) {
	return s.store.ListUsers(ctx)
}

// AddOwner gives userID an even share of the item, shrinking everyone else's
// stake proportionally.
func (s *ItemService) AddOwner(ctx context.Context, itemID, userID string) ([]core.Owner, error) {
	item, err := s.store.GetItem(ctx, itemID)
	if err != nil {
		return nil, err
	}

	owners, err := s.allocator.AddOwnerEven(item.Owners, userID)
	if err != nil {
		return nil, err
	}
	if err := s.store.ReplaceOwners(ctx, itemID, owners); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, amqp.NewEvent(amqp.EventOwnershipChanged, itemID, userID,
		fmt.Sprintf("owner added, %d owners", len(owners))))
	return owners, nil
}

// RemoveOwner drops userID from the item and redistributes their stake evenly.
func (s *ItemService) RemoveOwner(ctx context.Context, itemID, userID string) ([]core.Owner, error) {
	item, err := s.store.GetItem(ctx, itemID)
	if err != nil {
		return nil, err
	}

	owners, err := s.allocator.RemoveOwnerRedistribute(item.Owners, userID)
	if err != nil {
		return nil, err
	}
	if err := s.store.ReplaceOwners(ctx, itemID, owners); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, amqp.NewEvent(amqp.EventOwnershipChanged, itemID, userID,
		fmt.Sprintf("owner removed, %d owners", len(owners))))
	return owners, nil
}

// RebalanceOwners applies a mixed manual and even percentage edit to the
// item's ownership.
func (s *ItemService) RebalanceOwners(ctx context.Context, itemID string, edits []core.OwnerEdit) ([]core.Owner, error) {
	if _, err := s.store.GetItem(ctx, itemID); err != nil {
		return nil, err
	}

	owners, err := s.allocator.Rebalance(edits)
	if err != nil {
		return nil, err
	}
	if err := s.store.ReplaceOwners(ctx, itemID, owners); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, amqp.NewEvent(amqp.EventOwnershipChanged, itemID, "",
		fmt.Sprintf("ownership rebalanced across %d owners", len(owners))))
	return owners, nil
}

func (s *ItemService) AddBill(ctx context.Context, itemID string, b core.Bill) (core.Bill, error) {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	if err := b.Validate(); err != nil {
		return core.Bill{}, err
	}
	if _, err := s.store.GetItem(ctx, itemID); err != nil {
		return core.Bill{}, err
	}
	if err := s.store.CreateBill(ctx, itemID, b); err != nil {
		return core.Bill{}, err
	}
	return b, nil
}

func (s *ItemService) AddDocument(ctx context.Context, itemID string, d core.Document) (core.Document, error) {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	if d.UploadedAt.IsZero() {
		d.UploadedAt = time.Now()
	}
	if err := d.Validate(); err != nil {
		return core.Document{}, err
	}
	if _, err := s.store.GetItem(ctx, itemID); err != nil {
		return core.Document{}, err
	}
	if err := s.store.CreateDocument(ctx, itemID, d); err != nil {
		return core.Document{}, err
	}
	return d, nil
}

// Finance computes the item's cost summary from its bills and ownership.
func (s *ItemService) Finance(ctx context.Context, itemID string) (core.FinanceSummary, error) {
	item, err := s.store.GetItem(ctx, itemID)
	if err != nil {
		return core.FinanceSummary{}, err
	}

	bills := make([]core.Bill, 0, len(item.RecurringBills)+len(item.OneTimeBills))
	bills = append(bills, item.RecurringBills...)
	bills = append(bills, item.OneTimeBills...)
	return core.Aggregate(bills, item.Owners), nil
}

func (s *ItemService) Dashboard(ctx context.Context, userID string, now time.Time) (storage.DashboardStats, error) {
	return s.store.ReadDashboardStats(ctx, userID, now)
}

func (s *ItemService) Activity(ctx context.Context, itemID string, limit int) ([]storage.ActivityEntry, error) {
	return s.store.ListActivity(ctx, itemID, limit)
}

func (s *ItemService) publishEvent(ctx context.Context, event *amqp.Event) {
	if s.publisher == nil {
		s.log.WarnContext(ctx, "Event publisher not available, skipping event",
			applog.FieldEventType, event.Type)
		return
	}
	if err := s.publisher.PublishEvent(ctx, event); err != nil {
		// The write already succeeded locally; the feed catches up later.
		s.log.ErrorContext(ctx, "Failed to publish event",
			applog.FieldEventType, event.Type,
			applog.FieldItemID, event.ItemID,
			applog.FieldError, err)
	}
}
