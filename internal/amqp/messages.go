package amqp

import (
	"encoding/json"
	"time"

	"tally/internal/core"
)

// Entry event actions.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// EntryEvent announces a ledger mutation. It carries the transaction
// kind so consumers can skip events that cannot affect budgets without
// a store round trip.
type EntryEvent struct {
	OwnerID   int64     `json:"owner_id"`
	EntryID   int64     `json:"entry_id"`
	Action    string    `json:"action"`
	Kind      core.Kind `json:"kind"`
	Timestamp time.Time `json:"timestamp"`
}

func NewEntryEvent(ownerID, entryID int64, action string, kind core.Kind) *EntryEvent {
	return &EntryEvent{
		OwnerID:   ownerID,
		EntryID:   entryID,
		Action:    action,
		Kind:      kind,
		Timestamp: time.Now().UTC(),
	}
}

func (e *EntryEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

func EntryEventFromJSON(data []byte) (*EntryEvent, error) {
	var ev EntryEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		return nil, err
	}
	return &ev, nil
}
