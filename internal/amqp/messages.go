package amqp

import (
	"encoding/json"
	"time"
)

// Event types carried on the activity exchange.
const (
	EventBookingCreated   = "booking-created"
	EventBillPosted       = "bill-posted"
	EventOwnershipChanged = "ownership-changed"
)

// Event is a lightweight activity notification. It carries identifiers and a
// short human detail; consumers that need the full record fetch it from the
// database.
type Event struct {
	Type      string    `json:"type"`
	ItemID    string    `json:"item_id"`
	UserID    string    `json:"user_id,omitempty"`
	Detail    string    `json:"detail,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

func NewEvent(eventType, itemID, userID, detail string) *Event {
	return &Event{
		Type:      eventType,
		ItemID:    itemID,
		UserID:    userID,
		Detail:    detail,
		Timestamp: time.Now(),
	}
}

func (e *Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

func EventFromJSON(data []byte) (*Event, error) {
	var e Event
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	return &e, nil
}
