package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

type EventType string

const (
	EventCreate EventType = "CREATE"
	EventUpdate EventType = "UPDATE"
	EventDelete EventType = "DELETE"
)

// EventTypes lists every event type in selector order.
var EventTypes = []EventType{EventCreate, EventUpdate, EventDelete}

func IsValidEventType(t string) bool {
	switch EventType(t) {
	case EventCreate, EventUpdate, EventDelete:
		return true
	default:
		return false
	}
}

// EventRecord is a single audit log entry as served by GET /api/events.
type EventRecord struct {
	ID        FlexID          `json:"id"`
	Timestamp time.Time       `json:"timestamp"`
	EventType EventType       `json:"event_type"`
	UserID    FlexID          `json:"user_id"`
	ProductID FlexID          `json:"product_id"`
	Details   json.RawMessage `json:"details,omitempty"`
}

// EventBucket is one point of the per-day activity series.
type EventBucket struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// DateRange bounds are calendar days; a zero value means unbounded.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

type FilterCriteria struct {
	EventType EventType `json:"eventType,omitempty"`
	UserID    string    `json:"userId,omitempty"`
	DateRange DateRange `json:"dateRange"`
}

// FlexID is an identifier that may arrive as a JSON string or number.
type FlexID string

func (id *FlexID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = FlexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id must be a string or number: %w", err)
	}
	*id = FlexID(n.String())
	return nil
}

func (id FlexID) String() string { return string(id) }
