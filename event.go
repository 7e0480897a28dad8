package launchtrc

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// Phase is the one-letter event type tag of the Trace Event Format.
type Phase string

// Phases supported by the recorder.
const (
	PhaseBegin          Phase = "B"
	PhaseEnd            Phase = "E"
	PhaseImmediate      Phase = "I"
	PhaseCounter        Phase = "C"
	PhaseAsyncStart     Phase = "S"
	PhaseAsyncFinish    Phase = "F"
	PhaseObjectSnapshot Phase = "O"
	PhaseObjectNew      Phase = "N"
	PhaseObjectDelete   Phase = "D"
	PhaseMetadata       Phase = "M"
)

var phaseNames = map[Phase]string{
	PhaseBegin:          "begin",
	PhaseEnd:            "end",
	PhaseImmediate:      "immediate",
	PhaseCounter:        "counter",
	PhaseAsyncStart:     "async-start",
	PhaseAsyncFinish:    "async-finish",
	PhaseObjectSnapshot: "object-snapshot",
	PhaseObjectNew:      "object-new",
	PhaseObjectDelete:   "object-delete",
	PhaseMetadata:       "metadata",
}

// Valid returns true if p is one of the known phases.
func (p Phase) Valid() bool {
	_, ok := phaseNames[p]
	return ok
}

// String returns a human-readable name for the phase.
func (p Phase) String() string {
	if name, ok := phaseNames[p]; ok {
		return name
	}
	return fmt.Sprintf("unknown(%q)", string(p))
}

// Args is the free-form payload of an event. Values must be serializable as
// JSON.
type Args map[string]any

// Event is a single observation in a trace. Events are immutable once
// appended to a buffer. In particular, the args map of a span is shared
// between its BEGIN and END events, and must not be modified by the caller
// after the span begins.
//
// Every field is present in the JSON encoding of an event, except for
// metadata events, which omit category, thread ID and timestamp when they're
// zero.
type Event struct {
	Category        string `json:"cat"`
	Name            string `json:"name"`
	Phase           Phase  `json:"ph"`
	ProcessID       int    `json:"pid"`
	ThreadID        int    `json:"tid"`
	TimestampMicros int64  `json:"ts"`
	Args            Args   `json:"args"`
}

// MarshalJSON implements json.Marshaler for the event.
func (ev Event) MarshalJSON() ([]byte, error) {
	if ev.Phase == PhaseMetadata {
		return json.Marshal(jsonMetadataEvent(ev))
	}
	return json.Marshal(jsonEvent(ev))
}

// jsonEvent has no methods, so marshaling it doesn't recurse.
type jsonEvent Event

type jsonMetadataEvent struct {
	Category        string `json:"cat,omitempty"`
	Name            string `json:"name"`
	Phase           Phase  `json:"ph"`
	ProcessID       int    `json:"pid"`
	ThreadID        int    `json:"tid,omitempty"`
	TimestampMicros int64  `json:"ts,omitempty"`
	Args            Args   `json:"args"`
}

// Encode writes the events to w as a single JSON array.
func Encode(w io.Writer, events []Event) error {
	if events == nil {
		events = []Event{} // never null
	}
	return json.NewEncoder(w).Encode(events)
}

// Decode reads a JSON array of events from r.
func Decode(r io.Reader) ([]Event, error) {
	var events []Event
	if err := json.NewDecoder(r).Decode(&events); err != nil {
		return nil, fmt.Errorf("decode events: %w", err)
	}
	for i, ev := range events {
		if !ev.Phase.Valid() {
			return nil, fmt.Errorf("event %d (%s): invalid phase %q", i+1, ev.Name, string(ev.Phase))
		}
	}
	return events, nil
}

// ReadFile parses the trace file at path.
func ReadFile(path string) ([]Event, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	events, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return events, nil
}
