package launchtrc

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/google/uuid"
)

// AliasName is the name of the symlink that points to the most recently
// written trace file in a log directory.
const AliasName = "launch.trace"

var symlinksSupported = runtime.GOOS != "windows"

// SymlinksSupported returns false on platforms where the alias is not
// maintained. Writers skip PublishAlias on those platforms.
func SymlinksSupported() bool {
	return symlinksSupported
}

// PublishAlias atomically points the symlink at alias to target. It creates
// a uniquely named temporary symlink in the same directory as alias, and
// renames it over alias, so concurrent readers always observe either the
// previous target or the new one. If multiple processes race, the last
// rename wins.
//
// A relative target is interpreted relative to the directory of alias, as
// with any symlink.
func PublishAlias(target, alias string) error {
	id, err := uuid.NewRandom()
	if err != nil {
		return fmt.Errorf("generate temporary link name: %w", err)
	}

	var (
		dir  = filepath.Dir(alias)
		temp = filepath.Join(dir, fmt.Sprintf(".%s.%s", filepath.Base(alias), id.String()))
	)

	if err := os.Symlink(target, temp); err != nil {
		return fmt.Errorf("create temporary link: %w", err)
	}

	if err := os.Rename(temp, alias); err != nil {
		os.Remove(temp)
		return fmt.Errorf("rename temporary link: %w", err)
	}

	return nil
}
