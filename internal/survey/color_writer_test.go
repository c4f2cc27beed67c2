package survey

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"skysurvey-sim/internal/program"
	"skysurvey-sim/internal/visit"
)

func colorTestProgram() *program.Program {
	return &program.Program{
		Name:        "test",
		Description: "two block test program",
		Blocks: []program.Block{
			{Name: "wide", Footprint: program.Footprint{DecMinDeg: -62, DecMaxDeg: 2}, Filters: []string{"r", "i"}},
			{Name: "deep", Targets: []program.Target{{Name: "cdf-s", RADeg: 53.12, DecDeg: -28.1}}, Filters: []string{"z"}},
		},
	}
}

func TestColorWriterOverviewOnce(t *testing.T) {
	buf := &bytes.Buffer{}
	w := &ColorWriter{prog: colorTestProgram(), out: buf, colorize: true, extraColors: make(map[string]string)}
	rec := visit.Record{Filter: "r", Night: 1, Note: "field-0001", Timestamp: time.Unix(0, 0).UTC()}
	if err := w.Write(rec); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	output := buf.String()
	if !strings.Contains(output, "Program: test") || !strings.Contains(output, "Blocks:") {
		t.Fatalf("overview not printed: %q", output)
	}
	if !strings.Contains(output, "1 targets") {
		t.Fatalf("expected target summary in overview: %q", output)
	}
	if !strings.Contains(output, "\x1b[") {
		t.Fatalf("expected color codes in output: %q", output)
	}

	buf.Reset()
	if err := w.Write(rec); err != nil {
		t.Fatalf("second write failed: %v", err)
	}
	if strings.Contains(buf.String(), "Program: test") {
		t.Fatalf("overview printed more than once")
	}
}

func TestColorWriterPlain(t *testing.T) {
	buf := &bytes.Buffer{}
	w := &ColorWriter{prog: colorTestProgram(), out: buf, colorize: false, extraColors: make(map[string]string)}
	rec := visit.Record{Filter: "r", Night: 2, Note: "field-0042", SlewTime: 4.5, ExpTime: 30, NExp: 2, Timestamp: time.Unix(0, 0).UTC()}
	if err := w.Write(rec); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	output := buf.String()
	if strings.Contains(output, "\x1b[") {
		t.Fatalf("unexpected color codes: %q", output)
	}
	if !strings.Contains(output, "field=field-0042") || !strings.Contains(output, "exp=30sx2") {
		t.Fatalf("unexpected visit line: %q", output)
	}
	if strings.Contains(output, "swap=") {
		t.Fatalf("swap printed without a filter change: %q", output)
	}

	buf.Reset()
	rec.FilterChangeTime = 140
	if err := w.Write(rec); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if !strings.Contains(buf.String(), "swap=140s") {
		t.Fatalf("expected swap cost in line: %q", buf.String())
	}
}

func TestColorWriterRejectionLine(t *testing.T) {
	buf := &bytes.Buffer{}
	w := &ColorWriter{out: buf, colorize: false, extraColors: make(map[string]string)}
	rej := visit.Rejection{Reason: visit.ReasonClouds, Night: 3, MJD: 59856.1, NextMJD: 59856.11, Timestamp: time.Unix(0, 0).UTC()}
	if err := w.WriteRejection(rej); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if !strings.Contains(buf.String(), "REJECT reason=clouds") {
		t.Fatalf("unexpected rejection line: %q", buf.String())
	}
	if strings.Contains(buf.String(), "fallback") {
		t.Fatalf("fallback printed for a normal rejection: %q", buf.String())
	}

	buf.Reset()
	rej.Fallback = true
	if err := w.WriteRejection(rej); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if !strings.Contains(buf.String(), "fallback") {
		t.Fatalf("expected fallback flag in line: %q", buf.String())
	}
}
