//go:build !(linux || darwin || freebsd || netbsd || openbsd)

package launchtrc

import "time"

// time.Since uses the monotonic reading captured in processStart.
var processStart = time.Now()

func monotonicNanos() int64 {
	return int64(time.Since(processStart))
}
