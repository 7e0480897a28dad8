//go:build linux || darwin || freebsd || netbsd || openbsd

package launchtrc

import (
	"time"

	"golang.org/x/sys/unix"
)

var processStart = time.Now()

func monotonicNanos() int64 {
	var ts unix.Timespec
	if err := unix.ClockGettime(unix.CLOCK_MONOTONIC, &ts); err != nil {
		return int64(time.Since(processStart)) // unreachable for CLOCK_MONOTONIC
	}
	return ts.Nano()
}
