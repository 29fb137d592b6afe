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

// BillingProcessor posts one-time occurrences from recurring bill templates
// when they come due.
type BillingProcessor struct {
	store     storage.Store
	publisher EventPublisher
	log       *applog.Logger
}

func NewBillingProcessor(store storage.Store, publisher EventPublisher) *BillingProcessor {
	return &BillingProcessor{
		store:     store,
		publisher: publisher,
		log:       applog.ForComponent(applog.ComponentBilling),
	}
}

// ProcessDueBills checks every recurring template and posts an occurrence for
// each one that is due. It returns the number posted. A failure on one
// template does not stop the others.
func (p *BillingProcessor) ProcessDueBills(ctx context.Context, now time.Time) (int, error) {
	if p.store == nil {
		return 0, fmt.Errorf("processor not properly initialized")
	}

	templates, err := p.store.ListRecurringTemplates(ctx)
	if err != nil {
		return 0, fmt.Errorf("list recurring templates: %w", err)
	}

	p.log.InfoContext(ctx, "Processing recurring bills",
		"total_templates", len(templates),
		"processing_date", now.Format("2006-01-02"))

	posted := 0
	for _, t := range templates {
		checker, err := GetDuenessChecker(t.Bill.Period)
		if err != nil {
			p.log.ErrorContext(ctx, "Skipping template with bad period",
				applog.FieldBillID, t.Bill.ID,
				applog.FieldPeriod, string(t.Bill.Period),
				applog.FieldError, err)
			continue
		}
		if !checker.IsDue(t.LastPostedAt, now, t.Bill.Date) {
			continue
		}

		occurrence := core.Bill{
			ID:     uuid.NewString(),
			Title:  t.Bill.Title,
			Amount: t.Bill.Amount,
			Date:   core.NewDate(now.Year(), int(now.Month()), now.Day()),
			PaidBy: t.Bill.PaidBy,
		}
		if err := p.store.CreatePostedBill(ctx, t.ItemID, t.Bill.ID, occurrence); err != nil {
			p.log.ErrorContext(ctx, "Failed to post bill occurrence",
				applog.FieldBillID, t.Bill.ID,
				applog.FieldItemID, t.ItemID,
				applog.FieldError, err)
			continue
		}

		if err := p.store.MarkBillPosted(ctx, t.Bill.ID, now); err != nil {
			// The occurrence exists; the template will be retried and
			// the duplicate caught by the dueness check next cycle.
			p.log.ErrorContext(ctx, "Failed to update last posted time",
				applog.FieldBillID, t.Bill.ID,
				applog.FieldError, err)
		}

		p.publishEvent(ctx, amqp.NewEvent(amqp.EventBillPosted, t.ItemID, t.Bill.PaidBy,
			fmt.Sprintf("%s posted for %s", t.Bill.Title, occurrence.Date.Format("2006-01-02"))))

		posted++
		p.log.InfoContext(ctx, "Posted bill from recurring template",
			applog.FieldBillID, t.Bill.ID,
			"occurrence_id", occurrence.ID,
			applog.FieldItemID, t.ItemID,
			applog.FieldAmountCents, occurrence.Amount.Cents,
			"period", string(t.Bill.Period))
	}

	p.log.InfoContext(ctx, "Recurring bill processing complete",
		"posted", posted,
		"total_checked", len(templates))

	return posted, nil
}

// Run processes due bills on an interval until the context is cancelled. It
// runs one pass immediately at startup.
func (p *BillingProcessor) Run(ctx context.Context, interval time.Duration) error {
	if _, err := p.ProcessDueBills(ctx, time.Now()); err != nil {
		p.log.ErrorContext(ctx, "Billing pass failed", applog.FieldError, err)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, err := p.ProcessDueBills(ctx, time.Now()); err != nil {
				p.log.ErrorContext(ctx, "Billing pass failed", applog.FieldError, err)
			}
		}
	}
}

func (p *BillingProcessor) publishEvent(ctx context.Context, event *amqp.Event) {
	if p.publisher == nil {
		return
	}
	if err := p.publisher.PublishEvent(ctx, event); err != nil {
		p.log.ErrorContext(ctx, "Failed to publish event",
			applog.FieldEventType, event.Type,
			applog.FieldItemID, event.ItemID,
			applog.FieldError, err)
	}
}
