package main

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffval"
	"github.com/peterbourgon/launchtrc"
	"github.com/peterbourgon/launchtrc/internal/trcutil"
)

type showConfig struct {
	*rootConfig

	output string
}

func (cfg *showConfig) register(fs *ff.FlagSet) {
	fs.AddFlag(ff.FlagConfig{
		ShortName:   'o',
		LongName:    "output",
		Value:       ffval.NewEnum(&cfg.output, "text", "ndjson", "prettyjson"),
		Usage:       "output format: text, ndjson, prettyjson",
		Placeholder: "FORMAT",
	})
}

func (cfg *showConfig) Exec(ctx context.Context, args []string) error {
	var path string
	switch len(args) {
	case 0:
		path = cfg.aliasPath()
	case 1:
		path = args[0]
	default:
		return fmt.Errorf("at most one file may be given")
	}

	events, err := launchtrc.ReadFile(path)
	if err != nil {
		return err
	}

	cfg.debug.Printf("%s: %d event(s)", path, len(events))

	spans := launchtrc.Spans(events)

	switch cfg.output {
	case "ndjson":
		enc := json.NewEncoder(cfg.stdout)
		for _, sp := range spans {
			if err := enc.Encode(newSpanJSON(sp)); err != nil {
				return err
			}
		}
		return nil

	case "prettyjson":
		res := make([]spanJSON, len(spans))
		for i := range spans {
			res[i] = newSpanJSON(spans[i])
		}
		enc := json.NewEncoder(cfg.stdout)
		enc.SetIndent("", "    ")
		return enc.Encode(res)

	default:
		tw := tabwriter.NewWriter(cfg.stdout, 0, 2, 2, ' ', 0)
		fmt.Fprintf(tw, "SPAN\tDURATION\tARGS\n")
		for _, sp := range spans {
			duration := trcutil.HumanizeDuration(sp.Duration)
			if sp.Open {
				duration = "(open)"
			}
			fmt.Fprintf(tw, "%s%s\t%s\t%s\n", strings.Repeat("  ", sp.Depth), sp.Name, duration, formatArgs(sp.Args))
		}
		return tw.Flush()
	}
}

type spanJSON struct {
	Name       string         `json:"name"`
	Category   string         `json:"category,omitempty"`
	Depth      int            `json:"depth"`
	BeginMicro int64          `json:"begin_us"`
	DurationMS float64        `json:"duration_ms"`
	Open       bool           `json:"open,omitempty"`
	Args       launchtrc.Args `json:"args,omitempty"`
}

func newSpanJSON(sp launchtrc.SpanSummary) spanJSON {
	return spanJSON{
		Name:       sp.Name,
		Category:   sp.Category,
		Depth:      sp.Depth,
		BeginMicro: sp.Begin,
		DurationMS: float64(sp.Duration.Microseconds()) / 1000,
		Open:       sp.Open,
		Args:       sp.Args,
	}
}

func formatArgs(args launchtrc.Args) string {
	keys := make([]string, 0, len(args))
	for k := range args {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, len(keys))
	for i, k := range keys {
		pairs[i] = fmt.Sprintf("%s=%v", k, args[k])
	}
	return strings.Join(pairs, " ")
}
