package logging

import (
	"encoding/json"
	"time"
)

// Event is the canonical structured event emitted for one hook run.
// Required fields: Timestamp, RunID, Hook, EventType, Summary.
// Optional fields use omitempty tags.
type Event struct {
	Timestamp time.Time       `json:"ts"`
	RunID     string          `json:"run_id"`
	Hook      string          `json:"hook"`
	EventType string          `json:"event_type"`
	Summary   string          `json:"summary"`
	Plugin    string          `json:"plugin,omitempty"`
	Tags      []string        `json:"tags,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
}

// Event type constants.
const (
	EventHookStart    = "hook_start"
	EventHookComplete = "hook_complete"
	EventGuestLog     = "guest_log"
	EventGuestTrap    = "guest_trap"
	EventLookupError  = "lookup_error"
)

// HookLifecycleData is the payload for hook_start/hook_complete events.
type HookLifecycleData struct {
	MapPath    string `json:"map_path,omitempty"`
	GuestPath  string `json:"guest_path,omitempty"`
	DurationMS int64  `json:"duration_ms,omitempty"`
}

// GuestLogData is the payload for guest_log events, one per
// log_info/log_error import call the guest makes.
type GuestLogData struct {
	Level   string `json:"level"` // "info" or "error"
	Message string `json:"message"`
}

// GuestTrapData is the payload for guest_trap events: a fatal ABI
// misuse or an out-of-bounds memory access the host detected and used
// to abort the guest instance.
type GuestTrapData struct {
	Reason string `json:"reason"`
}

// LookupErrorData is the payload for lookup_error events: a status
// code returned by an import in response to a map-lookup miss.
type LookupErrorData struct {
	Import string `json:"import"`
	Status string `json:"status"`
}
