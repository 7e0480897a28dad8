package launchtrc

import (
	"time"
)

// SpanSummary describes a span reconstructed from a sequence of events.
type SpanSummary struct {
	Name     string
	Category string
	Depth    int
	Begin    int64 // micros
	Duration time.Duration
	Args     Args
	Open     bool // BEGIN without a matching END
}

type spanKey struct {
	name     string
	category string
	pid      int
	tid      int
}

// Spans pairs the BEGIN and END events in events, and returns one summary per
// BEGIN, in the order the spans began. An END is matched to the most recent
// unmatched BEGIN with the same name, category, process and thread. ENDs
// without a BEGIN are ignored.
//
// Spans on a thread are expected to nest. An END closes every span that began
// after its BEGIN on the same thread, as far as depth is concerned, so a
// BEGIN that's never ended doesn't push later spans deeper.
func Spans(events []Event) []SpanSummary {
	var (
		spans []SpanSummary
		open  = map[spanKey][]int{} // indexes into spans
		depth = map[[2]int]int{}    // per pid, tid
	)

	for _, ev := range events {
		var (
			key    = spanKey{ev.Name, ev.Category, ev.ProcessID, ev.ThreadID}
			thread = [2]int{ev.ProcessID, ev.ThreadID}
		)
		switch ev.Phase {
		case PhaseBegin:
			open[key] = append(open[key], len(spans))
			spans = append(spans, SpanSummary{
				Name:     ev.Name,
				Category: ev.Category,
				Depth:    depth[thread],
				Begin:    ev.TimestampMicros,
				Args:     ev.Args,
				Open:     true,
			})
			depth[thread]++

		case PhaseEnd:
			stack := open[key]
			if len(stack) <= 0 {
				continue
			}
			i := stack[len(stack)-1]
			open[key] = stack[:len(stack)-1]
			spans[i].Open = false
			spans[i].Duration = time.Duration(ev.TimestampMicros-spans[i].Begin) * time.Microsecond
			depth[thread] = spans[i].Depth
		}
	}

	return spans
}
