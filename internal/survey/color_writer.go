// ColorWriter prints human-friendly, colorized survey output to STDOUT.
package survey

import (
	"fmt"
	"io"
	"os"
	"sync"
	"text/tabwriter"
	"time"

	"golang.org/x/term"

	"skysurvey-sim/internal/astro"
	"skysurvey-sim/internal/program"
	"skysurvey-sim/internal/visit"
)

const (
	colorReset   = "\x1b[0m"
	colorRed     = "\x1b[31m"
	colorGreen   = "\x1b[32m"
	colorYellow  = "\x1b[33m"
	colorBlue    = "\x1b[34m"
	colorMagenta = "\x1b[35m"
	colorCyan    = "\x1b[36m"
	colorWhite   = "\x1b[37m"
	colorGray    = "\x1b[90m"
)

// filterColors maps the standard filters to fixed colors, bluest to reddest.
var filterColors = map[string]string{
	"u": colorBlue,
	"g": colorCyan,
	"r": colorGreen,
	"i": colorYellow,
	"z": colorRed,
	"y": colorMagenta,
}

var filterPalette = []string{colorRed, colorGreen, colorYellow, colorBlue, colorMagenta, colorCyan}

// ColorWriter prints visit rows using ANSI colors. Colors are dropped
// automatically when stdout is not a terminal.
type ColorWriter struct {
	prog        *program.Program
	out         io.Writer
	colorize    bool
	once        sync.Once
	extraColors map[string]string
	colorIdx    int
}

// NewColorWriter creates a ColorWriter writing to os.Stdout.
func NewColorWriter(prog *program.Program) *ColorWriter {
	return &ColorWriter{
		prog:        prog,
		out:         os.Stdout,
		colorize:    term.IsTerminal(int(os.Stdout.Fd())),
		extraColors: make(map[string]string),
	}
}

// SetColorize overrides the terminal autodetection.
func (w *ColorWriter) SetColorize(on bool) { w.colorize = on }

func (w *ColorWriter) c(code string) string {
	if !w.colorize {
		return ""
	}
	return code
}

func (w *ColorWriter) filterColor(filter string) string {
	if c, ok := filterColors[filter]; ok {
		return c
	}
	if c, ok := w.extraColors[filter]; ok {
		return c
	}
	c := filterPalette[w.colorIdx%len(filterPalette)]
	w.extraColors[filter] = c
	w.colorIdx++
	return c
}

func (w *ColorWriter) printOverview() {
	if w.prog == nil {
		return
	}

	fmt.Fprintf(w.out, "Program: %s\n", w.prog.Name)
	if w.prog.Description != "" {
		fmt.Fprintln(w.out, w.prog.Description)
	}
	fmt.Fprintln(w.out, "\nBlocks:")
	tw := tabwriter.NewWriter(w.out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Name\tFilters\tExposure\tFields\n")
	for _, b := range w.prog.Blocks {
		exptime, nexp := b.Exposure()
		where := fmt.Sprintf("dec %.0f..%.0f", b.Footprint.DecMinDeg, b.Footprint.DecMaxDeg)
		if len(b.Targets) > 0 {
			where = fmt.Sprintf("%d targets", len(b.Targets))
		}
		fmt.Fprintf(tw, "%s\t%v\t%.0fs x%d\t%s\n", b.Name, b.Filters, exptime, nexp, where)
	}
	tw.Flush()
	fmt.Fprintln(w.out)
}

// Write outputs a single visit record in colorized format.
func (w *ColorWriter) Write(rec visit.Record) error {
	w.once.Do(w.printOverview)

	fc := w.filterColor(rec.Filter)
	fmt.Fprintf(w.out, "%s[%s]%s ", w.c(colorGray), rec.Timestamp.Format(time.RFC3339), w.c(colorReset))
	fmt.Fprintf(w.out, "night=%d ", rec.Night)
	fmt.Fprintf(w.out, "%sfield=%s%s ", w.c(colorWhite), rec.Note, w.c(colorReset))
	fmt.Fprintf(w.out, "%sfilter=%s%s ", w.c(fc), rec.Filter, w.c(colorReset))
	fmt.Fprintf(w.out, "%salt=%.1f%s ", w.c(colorGreen), astro.Degrees(rec.Alt), w.c(colorReset))
	fmt.Fprintf(w.out, "%sX=%.2f%s ", w.c(colorYellow), rec.Airmass, w.c(colorReset))
	fmt.Fprintf(w.out, "%ssky=%.2f%s ", w.c(colorCyan), rec.SkyBrightness, w.c(colorReset))
	fmt.Fprintf(w.out, "%sm5=%.2f%s ", w.c(colorMagenta), rec.FiveSigmaDepth, w.c(colorReset))
	fmt.Fprintf(w.out, "%sslew=%.1fs%s ", w.c(colorBlue), rec.SlewTime, w.c(colorReset))
	if rec.FilterChangeTime > 0 {
		fmt.Fprintf(w.out, "%sswap=%.0fs%s ", w.c(colorRed), rec.FilterChangeTime, w.c(colorReset))
	}
	fmt.Fprintf(w.out, "exp=%.0fsx%d mjd=%.5f", rec.ExpTime, rec.NExp, rec.MJD)
	fmt.Fprintln(w.out)
	return nil
}

// WriteBatch outputs multiple visit records.
func (w *ColorWriter) WriteBatch(rows []visit.Record) error {
	for _, r := range rows {
		_ = w.Write(r)
	}
	return nil
}

// WriteRejection prints a rejection event.
func (w *ColorWriter) WriteRejection(rej visit.Rejection) error {
	w.once.Do(w.printOverview)
	fmt.Fprintf(w.out, "%s[%s]%s %sREJECT%s reason=%s night=%d mjd=%.5f next=%.5f",
		w.c(colorGray), rej.Timestamp.Format(time.RFC3339), w.c(colorReset),
		w.c(colorRed), w.c(colorReset), rej.Reason, rej.Night, rej.MJD, rej.NextMJD)
	if rej.Fallback {
		fmt.Fprintf(w.out, " %sfallback%s", w.c(colorMagenta), w.c(colorReset))
	}
	fmt.Fprintln(w.out)
	return nil
}

// WriteRejections prints multiple rejection events.
func (w *ColorWriter) WriteRejections(rows []visit.Rejection) error {
	for _, r := range rows {
		_ = w.WriteRejection(r)
	}
	return nil
}

// WriteStatus prints a survey status row.
func (w *ColorWriter) WriteStatus(st visit.StatusRow) error {
	w.once.Do(w.printOverview)
	fmt.Fprintf(w.out, "%s[%s]%s %sSTATUS%s night=%d visits=%d rejections=%d filter=%s clouds=%.2f sun=%.1f moon=%.1f phase=%.0f\n",
		w.c(colorGray), st.Timestamp.Format(time.RFC3339), w.c(colorReset),
		w.c(colorBlue), w.c(colorReset), st.Night, st.Visits, st.Rejections,
		st.Filter, st.Clouds, astro.Degrees(st.SunAlt), astro.Degrees(st.MoonAlt), st.MoonPhase)
	return nil
}

// WriteStatuses prints multiple survey status rows.
func (w *ColorWriter) WriteStatuses(rows []visit.StatusRow) error {
	for _, r := range rows {
		_ = w.WriteStatus(r)
	}
	return nil
}
