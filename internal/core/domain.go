package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Monthly RecurringPeriod = "monthly"
	Yearly  RecurringPeriod = "yearly"
)

const (
	BookingConfirmed BookingStatus = "confirmed"
	BookingPending   BookingStatus = "pending"
	// Cancelled and completed exist in the persisted schema but are never
	// produced by the creation flow. They do not block new bookings.
	BookingCancelled BookingStatus = "cancelled"
	BookingCompleted BookingStatus = "completed"
)

type (
	RecurringPeriod string

	BookingStatus string

	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	// User is the reference shape provided by the profile store. Owners,
	// bills, bookings and documents hold only the ID, never the record.
	User struct {
		ID          string
		DisplayName string
		Email       string
	}

	// Owner is a user's percentage stake in an item. Percentages are
	// integers; a valid item's owners sum to exactly 100.
	Owner struct {
		UserID     string
		Percentage int
	}

	Bill struct {
		ID          string
		Title       string
		Amount      Money
		IsRecurring bool
		Period      RecurringPeriod // set only when IsRecurring
		Date        Date
		PaidBy      string // optional user ID
		Documents   []Document
	}

	// Booking is an exclusive-use reservation over an inclusive date range.
	Booking struct {
		ID        string
		ItemID    string
		UserID    string
		StartDate Date
		EndDate   Date
		Title     string
		Status    BookingStatus
	}

	Document struct {
		ID         string
		Name       string
		Type       string // MIME type tag
		URL        string // storage locator, opaque to the core
		UploadedBy string
		UploadedAt time.Time
		Size       int64
	}

	// Item is a shared asset. It owns its owner, bill, booking and document
	// lists exclusively; nothing in those lists is shared across items.
	Item struct {
		ID             string
		Title          string
		Description    string
		Value          Money
		Owners         []Owner
		RecurringBills []Bill
		OneTimeBills   []Bill
		Bookings       []Booking
		Documents      []Document
		CreatedBy      string
		CreatedAt      time.Time
	}
)

var (
	ErrInvalidRange           = errors.New("invalid date range")
	ErrOwnerLimitExceeded     = errors.New("owner limit exceeded")
	ErrCannotRemoveLastOwner  = errors.New("cannot remove last owner")
	ErrOwnershipTotalMismatch = errors.New("ownership percentages must total 100")
	ErrDuplicateOwnerUser     = errors.New("user already owns a share of this item")
	ErrOwnerNotFound          = errors.New("owner not found")
	ErrInvalidAmount          = errors.New("invalid amount")
	ErrInvalidValue           = errors.New("invalid item value")
	ErrEmptyTitle             = errors.New("empty title")
	ErrInvalidPercentage      = errors.New("invalid percentage")
	ErrInvalidPeriod          = errors.New("invalid recurring period")
	ErrInvalidStatus          = errors.New("invalid booking status")
	ErrInvalidDocumentSize    = errors.New("invalid document size")
)

// NewDate creates a Date at UTC midnight for the given calendar day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// Day returns the day of the month.
func (d Date) Day() int {
	return d.Time.Day()
}

// Month returns the month as an int in 1-12.
func (d Date) Month() int {
	return int(d.Time.Month())
}

// Year returns the year.
func (d Date) Year() int {
	return d.Time.Year()
}

func (d Date) Validate() error {
	if d.IsZero() {
		return errors.New("date cannot be zero")
	}
	return nil
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (s BookingStatus) Validate() error {
	switch s {
	case BookingConfirmed, BookingPending, BookingCancelled, BookingCompleted:
		return nil
	default:
		return ErrInvalidStatus
	}
}

// Blocks reports whether a booking in this status occupies its date range.
// Only non-terminal statuses participate in conflict checks.
func (s BookingStatus) Blocks() bool {
	return s == BookingConfirmed || s == BookingPending
}

func (o Owner) Validate() error {
	if strings.TrimSpace(o.UserID) == "" {
		return errors.New("owner missing user reference")
	}
	if o.Percentage < 1 || o.Percentage > 100 {
		return ErrInvalidPercentage
	}
	return nil
}

func (b Bill) Validate() error {
	if len(strings.TrimSpace(b.Title)) == 0 {
		return ErrEmptyTitle
	}
	if len(b.Title) > 200 {
		return errors.New("title too long (max 200 characters)")
	}
	if err := b.Amount.Validate(); err != nil {
		return err
	}
	if err := b.Date.Validate(); err != nil {
		return err
	}
	if b.IsRecurring {
		switch b.Period {
		case Monthly, Yearly:
		default:
			return ErrInvalidPeriod
		}
	} else if b.Period != "" {
		return ErrInvalidPeriod
	}
	return nil
}

func (b Booking) Validate() error {
	if len(strings.TrimSpace(b.Title)) == 0 {
		return ErrEmptyTitle
	}
	if strings.TrimSpace(b.UserID) == "" {
		return errors.New("booking missing user reference")
	}
	if err := b.StartDate.Validate(); err != nil {
		return errors.New("invalid start date: " + err.Error())
	}
	if err := b.EndDate.Validate(); err != nil {
		return errors.New("invalid end date: " + err.Error())
	}
	if b.EndDate.Before(b.StartDate.Time) {
		return ErrInvalidRange
	}
	return b.Status.Validate()
}

func (d Document) Validate() error {
	if len(strings.TrimSpace(d.Name)) == 0 {
		return errors.New("empty document name")
	}
	if d.Size < 0 {
		return ErrInvalidDocumentSize
	}
	return nil
}

func (i Item) Validate() error {
	if len(strings.TrimSpace(i.Title)) == 0 {
		return ErrEmptyTitle
	}
	if len(i.Title) > 200 {
		return errors.New("title too long (max 200 characters)")
	}
	if i.Value.Cents < 0 {
		return ErrInvalidValue
	}
	if len(i.Owners) == 0 {
		return errors.New("item needs at least one owner")
	}
	for _, o := range i.Owners {
		if err := o.Validate(); err != nil {
			return err
		}
	}
	return ValidateTotal(i.Owners)
}
