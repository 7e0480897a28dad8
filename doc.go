// Package launchtrc records trace events for a launcher process, and writes
// them to disk in the Trace Event Format understood by chrome://tracing and
// similar tools.
//
// The basic idea is to record spans of work into an explicitly owned
// [Buffer], rather than a package global. A span is opened with
// [Buffer.Begin] and closed with [Span.End], typically via defer, producing a
// pair of BEGIN and END events. The buffer is seeded at construction with a
// single metadata event naming the process.
//
// When the process is finished, a [Writer] dumps the buffer to a new file in
// a log directory, named by wall-clock time and build ID. It then atomically
// updates a "launch.trace" symlink to point at the new file, and deletes the
// oldest trace files beyond a retention limit. Only the dump itself can fail
// the write; the symlink and the cleanup are best-effort.
//
// A buffer is meant to be written exactly once. Writing it again produces a
// file that contains every previous event as well.
package launchtrc
