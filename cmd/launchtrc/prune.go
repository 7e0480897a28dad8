package main

import (
	"context"
	"fmt"

	"github.com/peterbourgon/launchtrc"
	"github.com/peterbourgon/launchtrc/internal/trcutil"
)

type pruneConfig struct {
	*rootConfig
}

func (cfg *pruneConfig) Exec(ctx context.Context, args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("unexpected arguments %v", args)
	}

	removed, errs := launchtrc.PruneOldTraces(cfg.dir, cfg.keep)
	for _, path := range removed {
		fmt.Fprintln(cfg.stdout, path)
	}

	cfg.info.Printf("removed %d trace file(s) from %s", len(removed), cfg.dir)

	if len(errs) > 0 {
		return fmt.Errorf("prune %s: %s", cfg.dir, trcutil.JoinErrors(errs...))
	}

	return nil
}
