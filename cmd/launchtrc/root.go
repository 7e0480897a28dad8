package main

import (
	"io"
	"log"
	"path/filepath"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffval"
	"github.com/peterbourgon/launchtrc"
)

type rootConfig struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	dir      string
	keep     int
	logLevel string

	info, debug *log.Logger
}

func (cfg *rootConfig) register(fs *ff.FlagSet) {
	fs.AddFlag(ff.FlagConfig{
		ShortName:   'd',
		LongName:    "dir",
		Value:       ffval.NewValueDefault(&cfg.dir, filepath.Join("buck-out", "log")),
		Usage:       "log directory containing trace files",
		Placeholder: "DIR",
	})
	fs.AddFlag(ff.FlagConfig{
		ShortName:   'k',
		LongName:    "keep",
		Value:       ffval.NewValueDefault(&cfg.keep, launchtrc.DefaultKeep),
		Usage:       "number of trace files to retain",
		Placeholder: "N",
	})
	fs.AddFlag(ff.FlagConfig{
		ShortName:   'l',
		LongName:    "log",
		Value:       ffval.NewEnum(&cfg.logLevel, "info", "i", "debug", "d", "none", "n"),
		Usage:       "log level: i/info, d/debug, n/none",
		Placeholder: "LEVEL",
	})
}

func (cfg *rootConfig) newWriter() *launchtrc.Writer {
	return &launchtrc.Writer{
		Keep:   cfg.keep,
		Logger: cfg.info,
	}
}

func (cfg *rootConfig) aliasPath() string {
	return filepath.Join(cfg.dir, launchtrc.AliasName)
}

var buildIDEntropy = ulid.DefaultEntropy()

func newBuildID() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), buildIDEntropy).String()
}
