package eventbus

import "encoding/json"

// EventType identifies a blackboard lifecycle event flowing through the bus.
type EventType string

const (
	// EventEntryPosted fires after Store.Post accepts a new entry into
	// pending (before it becomes visible in a snapshot).
	EventEntryPosted EventType = "EntryPosted"
	// EventEntryTombstoned fires after Store.Tombstone marks an entry
	// dead, whether by explicit call or by supersession.
	EventEntryTombstoned EventType = "EntryTombstoned"
	// EventEpochAdvanced fires after Store.AdvanceEpoch promotes pending
	// entries into the live view.
	EventEpochAdvanced EventType = "EpochAdvanced"
	// EventCompacted fires after Store.Compact runs, whether or not it
	// removed anything.
	EventCompacted EventType = "Compacted"
	// EventPolicyDenied fires when a PolicyHook rejects a write.
	EventPolicyDenied EventType = "PolicyDenied"
)

// Event represents a single blackboard lifecycle event.
type Event struct {
	Type      EventType       `json:"type"`
	EntryHash string          `json:"entry_hash,omitempty"`
	Author    string          `json:"author,omitempty"`
	Epoch     uint64          `json:"epoch,omitempty"`
	Reason    string          `json:"reason,omitempty"`
	Raw       json.RawMessage `json:"-"`
}

// Result aggregates handler responses for an event.
type Result struct {
	Block    bool     `json:"block,omitempty"`
	Reason   string   `json:"reason,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}
