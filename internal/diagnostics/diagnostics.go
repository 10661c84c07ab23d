// Package diagnostics renders pipeline results and errors for the CLI:
// a run identifier, elapsed-time/size formatting, and color that is only
// emitted when the output stream is actually a terminal.
package diagnostics

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/mattn/go-isatty"
)

const (
	colorRed    = "\x1b[31m"
	colorGreen  = "\x1b[32m"
	colorYellow = "\x1b[33m"
	colorReset  = "\x1b[0m"
)

// Run tracks one toolchain invocation: a short identifier for tying
// together the log lines of a single `plc` command, and the wall-clock
// start time used to report elapsed durations.
type Run struct {
	ID      string
	started time.Time
	out     io.Writer
	color   bool
}

// NewRun starts a run, writing to out. Color is enabled only when out is
// a terminal, detected via isatty the way a CLI conventionally decides
// whether to emit ANSI escapes.
func NewRun(out io.Writer) *Run {
	color := false
	if f, ok := out.(*os.File); ok {
		color = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return &Run{ID: shortID(), started: time.Now(), out: out, color: color}
}

func shortID() string {
	return uuid.New().String()[:8]
}

func (r *Run) colorize(code, s string) string {
	if !r.color {
		return s
	}
	return code + s + colorReset
}

// Stage announces the start of a named step of the run (the CLI passes
// "cache lookup", "compile" and "check"; the individual lex/parse/
// analyze/generate passes are not announced separately), with the run's
// identifier prefixed to the line.
func (r *Run) Stage(name string) {
	fmt.Fprintf(r.out, "[%s] %s\n", r.ID, r.colorize(colorYellow, name))
}

// Done reports successful completion of the run, including elapsed time
// and the size of the generated output in human-readable units.
func (r *Run) Done(generated string) {
	elapsed := time.Since(r.started)
	fmt.Fprintf(r.out, "[%s] %s in %s (%s)\n", r.ID,
		r.colorize(colorGreen, "done"),
		elapsed.Round(time.Microsecond),
		humanize.Bytes(uint64(len(generated))),
	)
}

// Fail reports a pipeline error tagged with the stage that raised it.
func (r *Run) Fail(stage string, err error) {
	fmt.Fprintf(r.out, "[%s] %s: %v\n", r.ID, r.colorize(colorRed, stage+" error"), err)
}
