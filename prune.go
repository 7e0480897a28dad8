package launchtrc

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// DefaultKeep is the number of trace files retained by a zero-value Writer.
const DefaultKeep = 25

const traceFileGlob = "launch.*.trace"

// PruneOldTraces deletes the oldest trace files in dir, by modification time,
// so that at most keep remain. Only regular files matching the trace file
// naming pattern are considered; the alias is never removed.
//
// Removal is best-effort. A failure to remove one file doesn't stop the
// others from being removed. The paths of removed files are returned, along
// with every error encountered along the way. A file that disappears before
// it can be removed, e.g. due to a concurrent prune, is not an error.
func PruneOldTraces(dir string, keep int) (removed []string, errs []error) {
	return pruneOldTraces(dir, keep, os.Remove)
}

func pruneOldTraces(dir string, keep int, remove func(string) error) (removed []string, errs []error) {
	if keep < 0 {
		keep = 0
	}

	candidates, errs := listTraceFiles(dir)
	if len(candidates) <= keep {
		return nil, errs
	}

	for _, c := range candidates[:len(candidates)-keep] {
		switch err := remove(c.path); {
		case err == nil:
			removed = append(removed, c.path)
		case errors.Is(err, fs.ErrNotExist):
			// already gone
		default:
			errs = append(errs, fmt.Errorf("remove: %w", err))
		}
	}

	return removed, errs
}

type traceFile struct {
	path    string
	modTime time.Time
}

// listTraceFiles returns the trace files in dir, oldest first.
func listTraceFiles(dir string) ([]traceFile, []error) {
	matches, err := filepath.Glob(filepath.Join(globEscape(dir), traceFileGlob))
	if err != nil {
		return nil, []error{fmt.Errorf("list trace files: %w", err)}
	}

	var (
		files []traceFile
		errs  []error
	)
	for _, path := range matches {
		fi, err := os.Lstat(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			continue
		case err != nil:
			errs = append(errs, fmt.Errorf("stat: %w", err))
			continue
		case !fi.Mode().IsRegular():
			continue
		}
		files = append(files, traceFile{path: path, modTime: fi.ModTime()})
	}

	// Glob returns matches in lexical order, which breaks ties.
	sort.SliceStable(files, func(i, j int) bool {
		return files[i].modTime.Before(files[j].modTime)
	})

	return files, errs
}

// globEscape escapes glob metacharacters in a literal path component.
func globEscape(path string) string {
	if filepath.Separator == '\\' {
		return path // backslash is the separator, not an escape
	}
	var escaped []rune
	for _, r := range path {
		switch r {
		case '*', '?', '[', '\\':
			escaped = append(escaped, '\\')
		}
		escaped = append(escaped, r)
	}
	return string(escaped)
}
