package logging

import (
	"encoding/json"
	"time"

	"github.com/4lt/qmpp/internal/errx"
)

// EmitterConfig holds the static metadata stamped onto every event for one
// hook run (init or process).
type EmitterConfig struct {
	RunID string // Caller-supplied; one per run, shared by both hooks
	Hook  string // "init" or "process"
}

// Emitter provides convenience methods for emitting typed events.
// It holds static metadata and dispatches to one or more sinks.
//
// A nil *Emitter is safe to hold; callers guard emission with:
//
//	if emitter != nil {
//	    _ = emitter.Emit(...)
//	}
type Emitter struct {
	config EmitterConfig
	sinks  []Sink
}

// NewEmitter creates an emitter with the given configuration and sinks.
func NewEmitter(cfg EmitterConfig, sinks ...Sink) *Emitter {
	return &Emitter{
		config: cfg,
		sinks:  sinks,
	}
}

// WithHook returns an emitter sharing e's RunID and sinks but stamping
// hook onto every event it emits. hookrunner uses this to give the init
// and process hooks their own correctly labeled event stream from a
// single constructed Emitter.
func (e *Emitter) WithHook(hook string) *Emitter {
	if e == nil {
		return nil
	}
	return &Emitter{
		config: EmitterConfig{RunID: e.config.RunID, Hook: hook},
		sinks:  e.sinks,
	}
}

// Emit constructs an event with the emitter's static metadata and writes
// it to all registered sinks.
//
// Parameters:
//   - eventType: one of the Event* constants (e.g., EventGuestLog)
//   - summary: human-readable one-line summary
//   - plugin: the emitting plugin's registered name (empty if not yet registered)
//   - tags: optional tags for filtering (nil is fine)
//   - data: the typed data struct (e.g., *GuestLogData); nil for no payload
//
// Returns the first error encountered. Callers should discard errors
// with _ = (best-effort semantics).
func (e *Emitter) Emit(eventType, summary, plugin string, tags []string, data interface{}) error {
	var rawData json.RawMessage
	if data != nil {
		b, err := json.Marshal(data)
		if err != nil {
			return errx.Wrap(ErrMarshalData, err)
		}
		rawData = b
	}

	event := &Event{
		Timestamp: time.Now().UTC(),
		RunID:     e.config.RunID,
		Hook:      e.config.Hook,
		EventType: eventType,
		Summary:   summary,
		Plugin:    plugin,
		Tags:      tags,
		Data:      rawData,
	}

	for _, sink := range e.sinks {
		if err := sink.Write(event); err != nil {
			return err
		}
	}
	return nil
}

// Close closes all sinks. Returns the first error encountered.
func (e *Emitter) Close() error {
	var firstErr error
	for _, sink := range e.sinks {
		if err := sink.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
