package launchtrc_test

import (
	"sync/atomic"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/peterbourgon/launchtrc"
)

func assertEqual[T any](t *testing.T, have, want T) {
	t.Helper()
	if !cmp.Equal(have, want) {
		t.Fatal(cmp.Diff(have, want))
	}
}

// stepClock advances by step nanoseconds every time it's read.
func stepClock(step int64) launchtrc.Clock {
	var now int64
	return launchtrc.ClockFunc(func() int64 {
		return atomic.AddInt64(&now, step)
	})
}
