package launchtrc

import (
	"sync"
)

// Span is a named interval of execution, recorded as a BEGIN event when it's
// created and an END event when it's ended.
type Span struct {
	buf   *Buffer
	begin Event
	once  sync.Once
}

// Begin records a BEGIN event and returns the corresponding span. The caller
// must call End on the returned span, usually via defer. Args may be nil, and
// are shared with the END event, so they must not be modified afterwards.
//
//	sp := buf.Begin("parse", launchtrc.Args{"file": name})
//	defer sp.End()
func (b *Buffer) Begin(name string, args Args) *Span {
	ev := b.makeEvent(name, PhaseBegin, args)
	b.Append(ev)
	return &Span{buf: b, begin: ev}
}

// End records the END event of the span. Only the first call has any effect.
func (sp *Span) End() {
	sp.once.Do(func() {
		ev := sp.begin
		ev.Phase = PhaseEnd
		ev.TimestampMicros = micros(sp.buf.clock.Now())
		sp.buf.Append(ev)
	})
}

// Name returns the name of the span.
func (sp *Span) Name() string {
	return sp.begin.Name
}

// Do calls fn within a span. The span is ended when fn returns, whether it
// returns an error or panics.
func (b *Buffer) Do(name string, args Args, fn func() error) error {
	sp := b.Begin(name, args)
	defer sp.End()
	return fn()
}
