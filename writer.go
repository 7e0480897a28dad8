package launchtrc

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ErrInvalidBuildID is returned when a build ID can't be used as part of a
// trace file name.
var ErrInvalidBuildID = errors.New("invalid build ID")

// filenameTimeLayout renders wall-clock time as YYYY-MM-DD.HH-MM-SS.
const filenameTimeLayout = "2006-01-02.15-04-05"

// Writer writes buffers to trace files in a log directory. The zero value is
// ready to use.
type Writer struct {
	// Keep is the maximum number of trace files retained in the directory
	// after a write. Zero or negative means DefaultKeep.
	Keep int

	// Logger receives warnings about failures that don't fail the write,
	// i.e. updating the alias and pruning old trace files. Optional.
	Logger *log.Logger

	// Now returns the wall-clock time used in trace file names. Optional,
	// by default time.Now.
	Now func() time.Time

	// SkipAlias disables the alias on every platform. Optional.
	SkipAlias bool

	remove func(string) error // os.Remove if nil
}

// Result describes a successful write.
type Result struct {
	// Path of the new trace file.
	Path string

	// Alias is the path of the updated alias, or empty if the alias wasn't
	// updated.
	Alias string

	// AliasErr is set if the alias couldn't be updated.
	AliasErr error

	// Removed contains the trace files deleted by pruning.
	Removed []string

	// PruneErrs contains every error encountered while pruning.
	PruneErrs []error
}

// TraceFileName returns the base name of the trace file for the given time and
// build ID.
func TraceFileName(t time.Time, buildID string) string {
	return "launch." + t.Format(filenameTimeLayout) + "." + buildID + ".trace"
}

// WriteToDirectory is a helper function that calls WriteToDirectory on a
// zero-value Writer.
func WriteToDirectory(buf *Buffer, dir, buildID string) (*Result, error) {
	var w Writer
	return w.WriteToDirectory(buf, dir, buildID)
}

// WriteToDirectory writes every event in the buffer to a new trace file in
// dir, creating dir if necessary. It then updates the alias to point to the
// new file, and prunes the oldest trace files in dir.
//
// An error is returned only if the trace file couldn't be written. Failures to
// update the alias or to prune are logged, and reported in the result.
//
// Every call writes the complete contents of the buffer, so calling it more
// than once for the same buffer produces files with duplicate events.
func (w *Writer) WriteToDirectory(buf *Buffer, dir, buildID string) (*Result, error) {
	if err := validateBuildID(buildID); err != nil {
		return nil, err
	}

	now := time.Now
	if w.Now != nil {
		now = w.Now
	}

	path := filepath.Join(dir, TraceFileName(now(), buildID))

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}

	if err := writeFile(path, buf.Events()); err != nil {
		return nil, fmt.Errorf("write trace file: %w", err)
	}

	res := &Result{Path: path}

	if SymlinksSupported() && !w.SkipAlias {
		alias := filepath.Join(dir, AliasName)
		if err := PublishAlias(filepath.Base(path), alias); err != nil {
			w.logger().Printf("warning: update %s: %v", alias, err)
			res.AliasErr = err
		} else {
			res.Alias = alias
		}
	}

	keep := w.Keep
	if keep <= 0 {
		keep = DefaultKeep
	}
	remove := os.Remove
	if w.remove != nil {
		remove = w.remove
	}
	res.Removed, res.PruneErrs = pruneOldTraces(dir, keep, remove)
	for _, err := range res.PruneErrs {
		w.logger().Printf("warning: prune %s: %v", dir, err)
	}

	return res, nil
}

func (w *Writer) logger() *log.Logger {
	if w.Logger == nil {
		return log.New(io.Discard, "", 0)
	}
	return w.Logger
}

func validateBuildID(buildID string) error {
	switch {
	case buildID == "":
		return fmt.Errorf("%w: empty", ErrInvalidBuildID)
	case buildID == ".", buildID == "..":
		return fmt.Errorf("%w: %q", ErrInvalidBuildID, buildID)
	case strings.ContainsRune(buildID, '/'), strings.ContainsRune(buildID, filepath.Separator):
		return fmt.Errorf("%w: %q contains a path separator", ErrInvalidBuildID, buildID)
	}
	return nil
}

// writeFile creates or truncates path and writes the events to it. If the
// write fails, the partial file is removed, so it's never aliased.
func writeFile(path string, events []Event) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	defer func() {
		if err != nil {
			os.Remove(path)
		}
	}()

	if err := Encode(f, events); err != nil {
		f.Close()
		return err
	}

	return f.Close()
}
