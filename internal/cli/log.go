// Package cli implements the railtrack command-line interface.
//
// This package provides commands for drawing the commit graph of a git
// repository as a railway diagram, browsing it interactively, and exporting
// the layout or the graph for other tools. The CLI is built using cobra and
// supports verbose logging via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - log: Print the railway diagram
//   - tui: Browse the diagram and move the ancestry reference
//   - layout: Write the row stream as JSON
//   - dot: Export the commit graph as Graphviz DOT or SVG
//   - refs: List branches, tags and HEAD
//   - export: Write the history to a records file
//   - cache: Manage the history cache
//
// # Configuration
//
// Defaults can be set in ~/.config/railtrack/config.toml (or --config).
// Flags override the file.
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to the pipeline runner.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger returns the CLI logger. Debug output also reports the caller,
// which is what -v is mostly used for.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Prefix:          appName,
		Level:           level,
	})
	l.SetReportCaller(level <= log.DebugLevel)
	return l
}

// progress logs how long a step took. Not safe for concurrent use.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg with the elapsed time and any extra key/value pairs, e.g.
// "Rendered svg elapsed=12ms bytes=2048".
func (p *progress) done(msg string, keyvals ...any) {
	kv := append([]any{"elapsed", time.Since(p.start).Round(time.Millisecond)}, keyvals...)
	p.logger.Info(msg, kv...)
}

type ctxKey int

const loggerKey ctxKey = 0

// withLogger attaches l to ctx for the pipeline runner.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext returns the logger attached to ctx, or log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
