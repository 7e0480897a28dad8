package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	osexec "os/exec"
	"syscall"

	"github.com/oklog/run"
	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffval"
	"github.com/peterbourgon/launchtrc"
)

type execConfig struct {
	*rootConfig

	buildID string
	label   string
	noAlias bool
}

func (cfg *execConfig) register(fs *ff.FlagSet) {
	fs.AddFlag(ff.FlagConfig{
		ShortName:   'b',
		LongName:    "build-id",
		Value:       ffval.NewValue(&cfg.buildID),
		Usage:       "build ID used in the trace file name (default: random ULID)",
		Placeholder: "ID",
	})
	fs.AddFlag(ff.FlagConfig{
		LongName:    "label",
		Value:       ffval.NewValueDefault(&cfg.label, "launchtrc"),
		Usage:       "process name recorded in the trace",
		Placeholder: "NAME",
	})
	fs.AddFlag(ff.FlagConfig{
		LongName: "no-alias",
		Value:    ffval.NewValue(&cfg.noAlias),
		Usage:    "don't update the launch.trace alias",
	})
}

func (cfg *execConfig) Exec(ctx context.Context, args []string) error {
	if len(args) <= 0 {
		return fmt.Errorf("command is required: %w", ff.ErrHelp)
	}

	buildID := cfg.buildID
	if buildID == "" {
		buildID = newBuildID()
	}

	buf := launchtrc.NewBuffer(os.Getpid(), cfg.label)
	ctx, _ = launchtrc.Put(ctx, buf)

	runErr := cfg.run(ctx, args)

	w := cfg.newWriter()
	w.SkipAlias = cfg.noAlias
	res, err := w.WriteToDirectory(buf, cfg.dir, buildID)
	if err != nil {
		if runErr == nil {
			return err
		}
		cfg.info.Printf("%v", err) // the command's error takes precedence
		return runErr
	}

	cfg.debug.Printf("wrote %s (%d events)", res.Path, buf.Len())
	if res.Alias != "" {
		cfg.debug.Printf("updated %s", res.Alias)
	}
	for _, path := range res.Removed {
		cfg.debug.Printf("pruned %s", path)
	}

	return runErr
}

// run executes the command within a span in the buffer in the context. An
// interrupt or termination signal stops the command, but the span is still
// ended, so the trace is complete.
func (cfg *execConfig) run(ctx context.Context, args []string) error {
	finish := launchtrc.Region(ctx, "exec", launchtrc.Args{"argv": args})
	defer finish()

	buf := launchtrc.Get(ctx)

	var path string
	if err := buf.Do("resolve", launchtrc.Args{"command": args[0]}, func() (err error) {
		path, err = osexec.LookPath(args[0])
		return err
	}); err != nil {
		return fmt.Errorf("resolve command: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	cmd := osexec.CommandContext(ctx, path, args[1:]...)
	cmd.Stdin = cfg.stdin
	cmd.Stdout = cfg.stdout
	cmd.Stderr = cfg.stderr

	var g run.Group
	{
		g.Add(func() error {
			cfg.debug.Printf("running %s", path)
			return cmd.Run()
		}, func(error) {
			cancel()
		})
	}
	{
		g.Add(run.SignalHandler(ctx, os.Interrupt, syscall.SIGTERM))
	}
	err := g.Run()

	code := 0
	var exitErr *osexec.ExitError
	switch {
	case err == nil:
	case errors.As(err, &exitErr):
		code = exitErr.ExitCode()
	default:
		code = -1
	}
	buf.Instant("exit", launchtrc.Args{"code": code})

	return err
}
