// Package ui renders run summaries, validation results and telemetry events
// for the terminal.
package ui

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/papapumpkin/pheno/internal/scenario"
	"github.com/papapumpkin/pheno/internal/sim"
	"github.com/papapumpkin/pheno/internal/telemetry"
)

// Printer writes coloured, human-readable output.
type Printer struct {
	w io.Writer

	bold   *color.Color
	dim    *color.Color
	cyan   *color.Color
	green  *color.Color
	yellow *color.Color
	red    *color.Color
}

// New returns a Printer writing to stderr.
func New(noColor bool) *Printer {
	return NewWriter(os.Stderr, noColor)
}

// NewWriter returns a Printer writing to w.
func NewWriter(w io.Writer, noColor bool) *Printer {
	p := &Printer{
		w:      w,
		bold:   color.New(color.Bold),
		dim:    color.New(color.FgHiBlack),
		cyan:   color.New(color.FgCyan, color.Bold),
		green:  color.New(color.FgGreen, color.Bold),
		yellow: color.New(color.FgYellow),
		red:    color.New(color.FgRed, color.Bold),
	}
	if noColor {
		for _, c := range []*color.Color{p.bold, p.dim, p.cyan, p.green, p.yellow, p.red} {
			c.DisableColor()
		}
	}
	return p
}

// Error prints msg with a red error prefix.
func (p *Printer) Error(msg string) {
	fmt.Fprintf(p.w, "%s%s\n", p.red.Sprint("error: "), msg)
}

// Info prints msg dimmed.
func (p *Printer) Info(msg string) {
	fmt.Fprintln(p.w, p.dim.Sprint(msg))
}

// ValidateResult reports the outcome of scenario validation.
func (p *Printer) ValidateResult(s *scenario.Scenario, errs []scenario.ValidationError) {
	if len(errs) == 0 {
		fmt.Fprintf(p.w, "%s — %d phase(s), %d day(s), %d event(s), no errors\n",
			p.green.Sprintf("✓ scenario %q", s.Crop.Name), len(s.Phases), s.Schedule.Days, len(s.Events))
		return
	}
	fmt.Fprintf(p.w, "%s — %d error(s):\n", p.red.Sprintf("✗ scenario %q", s.Crop.Name), len(errs))
	for _, e := range errs {
		fmt.Fprintf(p.w, "  %s%s\n", p.red.Sprint("• "), e.Error())
	}
}

// Phases lists the scenario's phases in developmental order.
func (p *Printer) Phases(s *scenario.Scenario) {
	fmt.Fprintln(p.w, p.bold.Sprint("phases:"))
	for i, ph := range s.Phases {
		detail := fmt.Sprintf("target %g", ph.Target)
		switch ph.Kind {
		case scenario.PhaseKindGoto:
			detail = "goto " + ph.Destination
		case scenario.PhaseKindEnd:
			detail = "end"
		}
		fmt.Fprintf(p.w, "  %2d %-20s %s → %s %s\n", i+1, ph.Name, ph.Start, ph.End, p.dim.Sprintf("(%s)", detail))
	}
}

// RunSummary prints the final state of a run and the day each stage was
// first reached.
func (p *Printer) RunSummary(res *sim.Result) {
	final := res.Final()
	fmt.Fprintf(p.w, "\n%s %s\n", p.cyan.Sprintf("run %s", shortID(res.RunID)), p.dim.Sprintf("(%s, %d day(s), %s)", res.Crop, len(res.Days), res.Duration.Round(time.Millisecond)))
	fmt.Fprintf(p.w, "  final stage:   %.3f\n", final.Stage)
	fmt.Fprintf(p.w, "  final phase:   %s\n", final.Phase)
	fmt.Fprintf(p.w, "  accumulated:   %.1f\n", final.Accumulated)
	alive := p.yellow.Sprint("no")
	if final.Alive {
		alive = p.green.Sprint("yes")
	}
	fmt.Fprintf(p.w, "  alive:         %s\n", alive)

	if len(res.Crossings) == 0 {
		fmt.Fprintln(p.w, p.dim.Sprint("  (no stages crossed)"))
		return
	}
	fmt.Fprintln(p.w, p.bold.Sprint("stages:"))
	for _, c := range res.Crossings {
		fmt.Fprintf(p.w, "  day %4d  %s\n", c.Day, c.Stage)
	}
}

// DayTable prints one row for every nth day, plus every day a stage was
// crossed. n <= 1 prints every day.
func (p *Printer) DayTable(res *sim.Result, n int) {
	fmt.Fprintln(p.w, p.bold.Sprintf("%5s %8s %-20s %10s  %s", "day", "stage", "phase", "accum", "crossed"))
	for _, d := range res.Days {
		if n > 1 && d.Day%n != 0 && len(d.Crossed) == 0 {
			continue
		}
		crossed := strings.Join(d.Crossed, ", ")
		if crossed != "" {
			crossed = p.green.Sprint(crossed)
		}
		fmt.Fprintf(p.w, "%5d %8.3f %-20s %10.2f  %s\n", d.Day, d.Stage, d.Phase, d.Accumulated, crossed)
	}
}

// Event prints one telemetry event on a single line.
func (p *Printer) Event(evt telemetry.RawEvent) {
	kind := evt.Kind
	switch evt.Kind {
	case telemetry.KindPhaseChanged:
		kind = p.green.Sprint(kind)
	case telemetry.KindPhaseRewound, telemetry.KindManagement:
		kind = p.yellow.Sprint(kind)
	case telemetry.KindRunStart, telemetry.KindRunDone:
		kind = p.cyan.Sprint(kind)
	}
	day := ""
	if evt.Day > 0 {
		day = fmt.Sprintf("day %d ", evt.Day)
	}
	fmt.Fprintf(p.w, "%s %s %s%s %s\n",
		p.dim.Sprint(evt.Timestamp.Format("15:04:05")), shortID(evt.RunID), day, kind, string(evt.Data))
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
