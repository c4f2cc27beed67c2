package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"skysurvey-sim/internal/observatory"
	"skysurvey-sim/internal/program"
	"skysurvey-sim/internal/survey"
	"skysurvey-sim/internal/visit"
)

func testProgram() *program.Program {
	return &program.Program{
		Name:   "test",
		Blocks: []program.Block{{Name: "wide", Filters: []string{"r"}}},
	}
}

func TestNewWritersPrintOnly(t *testing.T) {
	vw, rw, sw, cleanup, err := newWriters(testProgram(), observatory.DefaultOptions(), true, false, false, "")
	if err != nil {
		t.Fatalf("newWriters returned error: %v", err)
	}
	cleanup()
	if _, ok := vw.(*survey.ColorWriter); !ok {
		t.Fatalf("expected *survey.ColorWriter, got %T", vw)
	}
	if _, ok := rw.(*survey.ColorWriter); !ok {
		t.Fatalf("expected rejection writer *survey.ColorWriter, got %T", rw)
	}
	if _, ok := sw.(*survey.ColorWriter); !ok {
		t.Fatalf("expected status writer *survey.ColorWriter, got %T", sw)
	}
}

func TestNewWritersJSON(t *testing.T) {
	vw, _, _, cleanup, err := newWriters(testProgram(), observatory.DefaultOptions(), true, true, false, "")
	if err != nil {
		t.Fatalf("newWriters returned error: %v", err)
	}
	cleanup()
	if _, ok := vw.(*survey.StdoutWriter); !ok {
		t.Fatalf("expected *survey.StdoutWriter, got %T", vw)
	}
}

func TestNewWritersGreptimeFallback(t *testing.T) {
	t.Setenv("GREPTIMEDB_ENDPOINT", "")
	vw, _, _, cleanup, err := newWriters(testProgram(), observatory.DefaultOptions(), false, false, false, "")
	if err != nil {
		t.Fatalf("newWriters returned error: %v", err)
	}
	cleanup()
	if _, ok := vw.(*survey.ColorWriter); !ok {
		t.Fatalf("expected *survey.ColorWriter, got %T", vw)
	}
}

func TestNewWritersLogFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "visits.log")
	vw, rw, _, cleanup, err := newWriters(testProgram(), observatory.DefaultOptions(), true, true, false, path)
	if err != nil {
		t.Fatalf("newWriters returned error: %v", err)
	}
	if _, ok := vw.(*survey.MultiWriter); !ok {
		t.Fatalf("expected *survey.MultiWriter, got %T", vw)
	}
	if _, ok := rw.(*survey.MultiWriter); !ok {
		t.Fatalf("expected rejection writer *survey.MultiWriter, got %T", rw)
	}

	rec := visit.Record{ID: "v1", Filter: "r", Timestamp: time.Now()}
	if err := vw.Write(rec); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	rej := visit.Rejection{RequestID: "req1", Reason: visit.ReasonClouds, Timestamp: time.Now()}
	if err := rw.WriteRejection(rej); err != nil {
		t.Fatalf("write rejection failed: %v", err)
	}
	cleanup()

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat failed: %v", err)
	}
	if info.Size() == 0 {
		t.Fatalf("expected log file to be non-empty")
	}
	rejInfo, err := os.Stat(path + ".rejections")
	if err != nil {
		t.Fatalf("stat rejections failed: %v", err)
	}
	if rejInfo.Size() == 0 {
		t.Fatalf("expected rejection file to be non-empty")
	}
}

func TestNewVisitWriter(t *testing.T) {
	w, err := newVisitWriter(true)
	if err != nil {
		t.Fatalf("newVisitWriter returned error: %v", err)
	}
	if _, ok := w.(*survey.StdoutWriter); !ok {
		t.Fatalf("expected *survey.StdoutWriter, got %T", w)
	}
}
