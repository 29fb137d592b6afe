// Package worker turns consumed activity events into persisted feed entries.
package worker

import (
	"context"
	"fmt"
	"time"

	"coown/internal/amqp"
	applog "coown/internal/log"
	"coown/internal/storage"
)

// ActivityWorker writes activity feed rows from events published by the API
// and the billing processor.
type ActivityWorker struct {
	store storage.Store
	log   *applog.Logger
}

func NewActivityWorker(store storage.Store) *ActivityWorker {
	return &ActivityWorker{
		store: store,
		log:   applog.ForComponent(applog.ComponentWorker),
	}
}

// HandleEvent processes one consumed event. Unknown event types are logged
// and acknowledged rather than requeued forever.
func (w *ActivityWorker) HandleEvent(ctx context.Context, event *amqp.Event) error {
	switch event.Type {
	case amqp.EventBookingCreated, amqp.EventBillPosted, amqp.EventOwnershipChanged:
	default:
		w.log.WarnContext(ctx, "Ignoring unknown event type",
			applog.FieldEventType, event.Type,
			applog.FieldItemID, event.ItemID)
		return nil
	}

	if event.ItemID == "" {
		w.log.WarnContext(ctx, "Ignoring event without item", applog.FieldEventType, event.Type)
		return nil
	}

	occurredAt := event.Timestamp
	if occurredAt.IsZero() {
		occurredAt = time.Now()
	}

	entry := storage.ActivityEntry{
		EventType:  event.Type,
		ItemID:     event.ItemID,
		UserID:     event.UserID,
		Detail:     event.Detail,
		OccurredAt: occurredAt,
	}
	if err := w.store.RecordActivity(ctx, entry); err != nil {
		return fmt.Errorf("record activity: %w", err)
	}

	w.log.InfoContext(ctx, "Recorded activity",
		applog.FieldEventType, event.Type,
		applog.FieldItemID, event.ItemID,
		applog.FieldUserID, event.UserID)
	return nil
}
