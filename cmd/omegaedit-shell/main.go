// Command omegaedit-shell is a line-oriented REPL over a single
// omegaedit.Session, exercising the library's verbs from the terminal:
// insert/overwrite/delete/read, undo/redo, transactions, search,
// viewports, byte transforms, and save.
package main

import (
	"fmt"
	"log/slog"
	"os"

	flag "github.com/spf13/pflag"

	omegaedit "github.com/omegaedit/core"
	"github.com/omegaedit/core/internal/config"
)

func main() {
	var (
		checkpointDir = flag.String("checkpoint-dir", "", "directory for transform checkpoint spill files (default: OS temp dir)")
		configPath    = flag.String("config", "", "path to a TOML config file")
		logLevel      = flag.String("log-level", "info", "log level: debug, info, warn, error")
	)
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: omegaedit-shell [options] [file]\n\n")
		fmt.Fprintf(os.Stderr, "Open file (or start with an empty in-memory document if omitted) and\n")
		fmt.Fprintf(os.Stderr, "drop into an interactive editing shell. Type 'help' for commands.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "omegaedit-shell: %v\n", err)
		os.Exit(1)
	}
	if *checkpointDir != "" {
		cfg.CheckpointDir = *checkpointDir
	}
	if lvl, err := parseLevel(*logLevel); err == nil {
		cfg.LogLevel = lvl
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	opts := []omegaedit.Option{omegaedit.WithConfig(cfg)}
	path := ""
	if flag.NArg() > 0 {
		path = flag.Arg(0)
	}

	var session *omegaedit.Session
	if path != "" {
		session, err = omegaedit.Open(path, opts...)
	} else {
		session, err = omegaedit.New(opts...)
	}
	if err != nil {
		logger.Error("opening session", "path", path, "error", err)
		os.Exit(1)
	}
	defer session.Close()

	shell := &Shell{session: session, path: path, logger: logger}
	if err := shell.Run(); err != nil {
		logger.Error("shell exited with error", "error", err)
		os.Exit(1)
	}
}

func parseLevel(s string) (slog.Level, error) {
	var l slog.Level
	err := l.UnmarshalText([]byte(s))
	return l, err
}
