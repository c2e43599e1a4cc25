package amqp

import (
	"encoding/json"
	"fmt"
	"time"
)

// EventType names an activity event.
type EventType string

const (
	EntryCreated      EventType = "ledger.entry_created"
	GoalStatusChanged EventType = "goal.status_changed"
)

// ActivityEvent is a lightweight notification. Consumers fetch the full
// record from the database by ID.
type ActivityEvent struct {
	Type      EventType `json:"type"`
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Status    string    `json:"status,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

func NewEntryCreated(id, userID int64) *ActivityEvent {
	return &ActivityEvent{Type: EntryCreated, ID: id, UserID: userID, Timestamp: time.Now().UTC()}
}

func NewGoalStatusChanged(id, userID int64, status string) *ActivityEvent {
	return &ActivityEvent{Type: GoalStatusChanged, ID: id, UserID: userID, Status: status, Timestamp: time.Now().UTC()}
}

// RoutingKey is the event type; queues bind to the types they care about.
func (e *ActivityEvent) RoutingKey() string {
	return string(e.Type)
}

func (e *ActivityEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

func ActivityEventFromJSON(data []byte) (*ActivityEvent, error) {
	var e ActivityEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	switch e.Type {
	case EntryCreated, GoalStatusChanged:
	default:
		return nil, fmt.Errorf("unknown event type %q", e.Type)
	}
	if e.ID <= 0 {
		return nil, fmt.Errorf("event %s without id", e.Type)
	}
	return &e, nil
}
