package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"coown/internal/amqp"
	"coown/internal/core"
	applog "coown/internal/log"
	"coown/internal/storage"
)

// ErrBookingConflict marks a booking rejected because its dates overlap an
// existing blocking reservation.
var ErrBookingConflict = errors.New("booking dates conflict with an existing reservation")

// ConflictError carries the reservations that blocked a booking attempt.
type ConflictError struct {
	Conflicts []core.Booking
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%v: %d overlapping", ErrBookingConflict, len(e.Conflicts))
}

func (e *ConflictError) Unwrap() error { return ErrBookingConflict }

// BookingService enforces exclusive use of an item's calendar.
type BookingService struct {
	store     storage.Store
	publisher EventPublisher
	log       *applog.Logger
}

func NewBookingService(store storage.Store, publisher EventPublisher) *BookingService {
	return &BookingService{
		store:     store,
		publisher: publisher,
		log:       applog.ForComponent(applog.ComponentBooking),
	}
}

// CreateBooking validates the request against the item's existing blocking
// reservations and persists it. A missing status defaults to confirmed. Only
// confirmed and pending can be created; cancelled and completed are reached
// by later lifecycle transitions, never at creation.
func (s *BookingService) CreateBooking(ctx context.Context, b core.Booking) (core.Booking, error) {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	if b.Status == "" {
		b.Status = core.BookingConfirmed
	}
	if b.Status != core.BookingConfirmed && b.Status != core.BookingPending {
		return core.Booking{}, fmt.Errorf("%w: cannot create a booking as %q", core.ErrInvalidStatus, b.Status)
	}
	if err := b.Validate(); err != nil {
		return core.Booking{}, err
	}

	existing, err := s.store.ListBookings(ctx, b.ItemID)
	if err != nil {
		return core.Booking{}, err
	}

	result, err := core.CheckConflict(existing, b.StartDate, b.EndDate, b.ID)
	if err != nil {
		return core.Booking{}, err
	}
	if result.HasConflict {
		s.log.InfoContext(ctx, "Booking rejected for conflict",
			applog.FieldItemID, b.ItemID,
			applog.FieldUserID, b.UserID,
			"conflict_count", len(result.Conflicting))
		return core.Booking{}, &ConflictError{Conflicts: result.Conflicting}
	}

	if err := s.store.CreateBooking(ctx, b); err != nil {
		return core.Booking{}, err
	}

	s.publishEvent(ctx, amqp.NewEvent(amqp.EventBookingCreated, b.ItemID, b.UserID, b.Title))
	return b, nil
}

func (s *BookingService) ListBookings(ctx context.Context, itemID string) ([]core.Booking, error) {
	return s.store.ListBookings(ctx, itemID)
}

// CheckAvailability reports the blocking reservations overlapping a range
// without persisting anything.
func (s *BookingService) CheckAvailability(ctx context.Context, itemID string, start, end core.Date) (core.ConflictResult, error) {
	existing, err := s.store.ListBookings(ctx, itemID)
	if err != nil {
		return core.ConflictResult{}, err
	}
	return core.CheckConflict(existing, start, end, "")
}

// BookingOn returns the blocking booking covering a single day, if one
// exists. Callers use it to show who holds a contested date.
func (s *BookingService) BookingOn(ctx context.Context, itemID string, day core.Date) (core.Booking, bool, error) {
	existing, err := s.store.ListBookings(ctx, itemID)
	if err != nil {
		return core.Booking{}, false, err
	}
	b, ok := core.BookingAt(existing, day)
	return b, ok, nil
}

// Calendar returns the blocked days of a month for rendering availability.
func (s *BookingService) Calendar(ctx context.Context, itemID string, year, month int) ([]int, error) {
	existing, err := s.store.ListBookings(ctx, itemID)
	if err != nil {
		return nil, err
	}
	return core.BlockedDays(existing, year, month), nil
}

func (s *BookingService) publishEvent(ctx context.Context, event *amqp.Event) {
	if s.publisher == nil {
		s.log.WarnContext(ctx, "Event publisher not available, skipping event",
			applog.FieldEventType, event.Type)
		return
	}
	if err := s.publisher.PublishEvent(ctx, event); err != nil {
		s.log.ErrorContext(ctx, "Failed to publish event",
			applog.FieldEventType, event.Type,
			applog.FieldItemID, event.ItemID,
			applog.FieldError, err)
	}
}
