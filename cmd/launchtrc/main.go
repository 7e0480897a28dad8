// launchtrc runs a command inside a traced span and writes the trace to a log
// directory, and manages the trace files in that directory.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	osexec "os/exec"

	"github.com/oklog/run"
	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"
)

func main() {
	var (
		ctx    = context.Background()
		stdin  = os.Stdin
		stdout = os.Stdout
		stderr = os.Stderr
		args   = os.Args[1:]
	)
	err := exec(ctx, stdin, stdout, stderr, args)
	var exitErr *osexec.ExitError
	switch {
	case err == nil, errors.Is(err, context.Canceled), errors.As(err, &(run.SignalError{})):
		os.Exit(0)
	case errors.As(err, &exitErr):
		os.Exit(exitErr.ExitCode())
	case err != nil:
		fmt.Fprintf(stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func exec(ctx context.Context, stdin io.Reader, stdout, stderr io.Writer, args []string) (err error) {
	rootConfig := &rootConfig{
		stdin:  stdin,
		stdout: stdout,
		stderr: stderr,
	}

	rootFlags := ff.NewFlagSet("launchtrc")
	rootConfig.register(rootFlags)

	rootCommand := &ff.Command{
		Name:      "launchtrc",
		ShortHelp: "record and manage launcher trace files",
		Flags:     rootFlags,
	}

	// Config for `launchtrc exec`.
	execConfig := &execConfig{rootConfig: rootConfig}
	execFlags := ff.NewFlagSet("exec").SetParent(rootFlags)
	execConfig.register(execFlags)
	execCommand := &ff.Command{
		Name:      "exec",
		ShortHelp: "run a command and write a trace of its execution",
		LongHelp:  "launchtrc exec [FLAGS] -- COMMAND [ARGS...]\n\nRun the command inside a span, then write the trace to the log directory, update the launch.trace alias, and prune old traces.",
		Flags:     execFlags,
		Exec:      execConfig.Exec,
	}
	rootCommand.Subcommands = append(rootCommand.Subcommands, execCommand)

	// Config for `launchtrc prune`.
	pruneConfig := &pruneConfig{rootConfig: rootConfig}
	pruneFlags := ff.NewFlagSet("prune").SetParent(rootFlags)
	pruneCommand := &ff.Command{
		Name:      "prune",
		ShortHelp: "delete the oldest trace files in the log directory",
		Flags:     pruneFlags,
		Exec:      pruneConfig.Exec,
	}
	rootCommand.Subcommands = append(rootCommand.Subcommands, pruneCommand)

	// Config for `launchtrc show`.
	showConfig := &showConfig{rootConfig: rootConfig}
	showFlags := ff.NewFlagSet("show").SetParent(rootFlags)
	showConfig.register(showFlags)
	showCommand := &ff.Command{
		Name:      "show",
		ShortHelp: "summarize the spans in a trace file",
		LongHelp:  "launchtrc show [FLAGS] [FILE]\n\nSummarize the spans in FILE, or in the launch.trace alias of the log directory.",
		Flags:     showFlags,
		Exec:      showConfig.Exec,
	}
	rootCommand.Subcommands = append(rootCommand.Subcommands, showCommand)

	// Print help when appropriate.
	showHelp := true
	defer func() {
		errHelp := errors.Is(err, ff.ErrHelp) || errors.Is(err, ff.ErrNoExec)
		if showHelp || errHelp {
			fmt.Fprintf(stderr, "\n%s\n", ffhelp.Command(rootCommand))
		}
		if errHelp {
			err = nil
		}
	}()

	// Initial parsing.
	if err := rootCommand.Parse(args, ff.WithEnvVarPrefix("LAUNCHTRC")); err != nil {
		return err
	}

	// Validation and set-up.
	{
		var infodst, debugdst io.Writer
		switch rootConfig.logLevel {
		case "n", "none":
			infodst, debugdst = io.Discard, io.Discard
		case "i", "info":
			infodst, debugdst = stderr, io.Discard
		case "d", "debug":
			infodst, debugdst = stderr, stderr
		default:
			return fmt.Errorf("invalid log level %q", rootConfig.logLevel)
		}
		rootConfig.info = log.New(infodst, "", 0)
		rootConfig.debug = log.New(debugdst, "[DEBUG] ", log.Lmsgprefix)
	}

	if rootConfig.dir == "" {
		return fmt.Errorf("log directory is required")
	}

	if rootConfig.keep <= 0 {
		return fmt.Errorf("keep must be positive")
	}

	rootConfig.debug.Printf("log directory %s, keep %d", rootConfig.dir, rootConfig.keep)

	// Run errors shouldn't show help by default.
	showHelp = false

	// Run the selected command.
	return rootCommand.Run(ctx)
}
