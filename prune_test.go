package launchtrc_test

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/peterbourgon/launchtrc"
)

// makeTraceFiles creates n trace files in dir, with modification times one
// minute apart, oldest first, and returns their paths in that order.
func makeTraceFiles(t *testing.T, dir string, n int) []string {
	t.Helper()

	base := time.Now().Add(-24 * time.Hour)
	paths := make([]string, n)
	for i := range paths {
		mtime := base.Add(time.Duration(i) * time.Minute)
		// Names sort opposite to mtime, so pruning can't get it right by accident.
		named := base.Add(-time.Duration(i) * time.Minute)
		path := filepath.Join(dir, launchtrc.TraceFileName(named, fmt.Sprintf("build%03d", i)))
		if err := os.WriteFile(path, []byte("[]"), 0o644); err != nil {
			t.Fatal(err)
		}
		if err := os.Chtimes(path, mtime, mtime); err != nil {
			t.Fatal(err)
		}
		paths[i] = path
	}
	return paths
}

func listTraces(t *testing.T, dir string) []string {
	t.Helper()

	matches, err := filepath.Glob(filepath.Join(dir, "launch.*.trace"))
	if err != nil {
		t.Fatal(err)
	}
	sort.Strings(matches)
	return matches
}

func sorted(paths []string) []string {
	res := append([]string(nil), paths...)
	sort.Strings(res)
	return res
}

func TestPruneOldTraces(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		total int
		keep  int
	}{
		{0, 5},
		{3, 5},
		{5, 5},
		{6, 5},
		{30, 25},
		{4, 0},
		{4, -1},
	} {
		tc := tc
		t.Run(fmt.Sprintf("%d keep %d", tc.total, tc.keep), func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			paths := makeTraceFiles(t, dir, tc.total)

			removed, errs := launchtrc.PruneOldTraces(dir, tc.keep)
			if len(errs) > 0 {
				t.Fatalf("errors: %v", errs)
			}

			keep := tc.keep
			if keep < 0 {
				keep = 0
			}
			cut := 0
			if len(paths) > keep {
				cut = len(paths) - keep
			}

			assertEqual(t, len(removed), cut)
			if cut > 0 {
				assertEqual(t, removed, paths[:cut])
			}
			assertEqual(t, listTraces(t, dir), sorted(paths[cut:]))
		})
	}
}

func TestPruneIgnoresOtherFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	paths := makeTraceFiles(t, dir, 3)

	var (
		subdir  = filepath.Join(dir, "launch.directory.trace")
		other   = filepath.Join(dir, "build.log")
		tempish = filepath.Join(dir, ".launch.trace.1234")
	)
	if err := os.Mkdir(subdir, 0o755); err != nil {
		t.Fatal(err)
	}
	for _, path := range []string{other, tempish} {
		if err := os.WriteFile(path, nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	old := time.Now().Add(-48 * time.Hour)
	for _, path := range []string{subdir, other, tempish} {
		if err := os.Chtimes(path, old, old); err != nil {
			t.Fatal(err)
		}
	}

	removed, errs := launchtrc.PruneOldTraces(dir, 1)
	if len(errs) > 0 {
		t.Fatalf("errors: %v", errs)
	}
	assertEqual(t, removed, paths[:2])

	for _, path := range []string{subdir, other, tempish, paths[2]} {
		if _, err := os.Lstat(path); err != nil {
			t.Errorf("%s: %v", path, err)
		}
	}
}

func TestPruneMissingDirectory(t *testing.T) {
	t.Parallel()

	removed, errs := launchtrc.PruneOldTraces(filepath.Join(t.TempDir(), "nonexistent"), 1)
	if len(removed) > 0 || len(errs) > 0 {
		t.Errorf("want nothing, have removed %v, errors %v", removed, errs)
	}
}
