package launchtrc

import (
	"sync"
)

const (
	// DefaultCategory is the category assigned to span events.
	DefaultCategory = "buck-launcher"

	// DefaultThreadID is the thread ID assigned to span events. The recorder
	// models a single logical thread, so every event carries the same value.
	DefaultThreadID = 1

	processNameEvent = "process_name"
)

// Buffer is an append-only, ordered collection of trace events for a single
// process. It's safe for concurrent use.
//
// A buffer is created once at process start, appended to throughout
// execution, and written once at the end.
type Buffer struct {
	clock    Clock
	category string
	threadID int

	mtx    sync.Mutex
	pid    int
	events []Event
}

// BufferOption configures a buffer in NewBuffer.
type BufferOption func(*Buffer)

// WithClock sets the clock used to timestamp span events. By default, the
// buffer uses a MonotonicClock.
func WithClock(c Clock) BufferOption {
	return func(b *Buffer) { b.clock = c }
}

// WithCategory sets the category of span events.
func WithCategory(category string) BufferOption {
	return func(b *Buffer) { b.category = category }
}

// WithThreadID overrides the fixed thread ID of span events.
func WithThreadID(tid int) BufferOption {
	return func(b *Buffer) { b.threadID = tid }
}

// NewBuffer returns a buffer seeded with a metadata event naming the process
// with pid as label.
func NewBuffer(pid int, label string, options ...BufferOption) *Buffer {
	b := &Buffer{
		clock:    MonotonicClock{},
		category: DefaultCategory,
		threadID: DefaultThreadID,
	}
	for _, option := range options {
		option(b)
	}
	b.Initialize(pid, label)
	return b
}

// Initialize appends the process metadata event, and sets the process ID used
// by subsequent spans. NewBuffer calls it once. Calling it again appends a
// second metadata event, it does not replace the first.
func (b *Buffer) Initialize(pid int, label string) {
	b.mtx.Lock()
	defer b.mtx.Unlock()
	b.pid = pid
	b.events = append(b.events, Event{
		Name:      processNameEvent,
		Phase:     PhaseMetadata,
		ProcessID: pid,
		Args:      Args{"name": label},
	})
}

// Append adds the event to the end of the buffer.
func (b *Buffer) Append(ev Event) {
	b.mtx.Lock()
	defer b.mtx.Unlock()
	b.events = append(b.events, ev)
}

// Events returns a copy of every event in the buffer, in the order they were
// appended.
func (b *Buffer) Events() []Event {
	b.mtx.Lock()
	defer b.mtx.Unlock()
	events := make([]Event, len(b.events))
	copy(events, b.events)
	return events
}

// Len returns the number of events in the buffer.
func (b *Buffer) Len() int {
	b.mtx.Lock()
	defer b.mtx.Unlock()
	return len(b.events)
}

// ProcessID returns the process ID given to the most recent Initialize.
func (b *Buffer) ProcessID() int {
	b.mtx.Lock()
	defer b.mtx.Unlock()
	return b.pid
}

// Instant records an event for a single moment in time.
func (b *Buffer) Instant(name string, args Args) {
	b.Append(b.makeEvent(name, PhaseImmediate, args))
}

// Counter records the current values of one or more named counters. Trace
// viewers render these as a stacked area chart.
func (b *Buffer) Counter(name string, values map[string]float64) {
	args := make(Args, len(values))
	for k, v := range values {
		args[k] = v
	}
	b.Append(b.makeEvent(name, PhaseCounter, args))
}

func (b *Buffer) makeEvent(name string, ph Phase, args Args) Event {
	if args == nil {
		args = Args{}
	}
	return Event{
		Category:        b.category,
		Name:            name,
		Phase:           ph,
		ProcessID:       b.ProcessID(),
		ThreadID:        b.threadID,
		TimestampMicros: micros(b.clock.Now()),
		Args:            args,
	}
}
