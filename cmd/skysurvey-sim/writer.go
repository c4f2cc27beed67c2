package main

import (
	"os"

	"skysurvey-sim/internal/observatory"
	"skysurvey-sim/internal/program"
	"skysurvey-sim/internal/survey"
)

// newWriters sets up visit, rejection, and status writers based on flags
// and env vars. It returns the writers and a cleanup function to close
// any resources.
func newWriters(prog *program.Program, opts observatory.Options, printOnly, useJSON, useTUI bool, logFile string) (survey.VisitWriter, survey.RejectionWriter, survey.StatusWriter, func(), error) {
	vw, rw, sw, closeBase, err := baseWriters(prog, opts, printOnly, useJSON, useTUI)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	if logFile == "" {
		return vw, rw, sw, closeBase, nil
	}

	fw, err := survey.NewFileWriter(logFile, logFile+".rejections", logFile+".status")
	if err != nil {
		closeBase()
		return nil, nil, nil, nil, err
	}
	mw := survey.NewMultiWriter(
		[]survey.VisitWriter{vw, fw},
		[]survey.RejectionWriter{rw, fw},
		[]survey.StatusWriter{sw, fw},
	)
	cleanup := func() {
		fw.Close()
		closeBase()
	}
	return mw, mw, mw, cleanup, nil
}

// baseWriters chooses the primary writer from the TUI flag, the
// print-only flag, and the GreptimeDB env vars.
func baseWriters(prog *program.Program, opts observatory.Options, printOnly, useJSON, useTUI bool) (survey.VisitWriter, survey.RejectionWriter, survey.StatusWriter, func(), error) {
	if useTUI {
		w := survey.NewTUIWriter(prog, opts)
		return w, w, w, func() { w.Close() }, nil
	}
	if printOnly || os.Getenv("GREPTIMEDB_ENDPOINT") == "" {
		if useJSON {
			w := survey.NewStdoutWriter()
			return w, w, w, func() {}, nil
		}
		w := survey.NewColorWriter(prog)
		return w, w, w, func() {}, nil
	}

	endpoint := os.Getenv("GREPTIMEDB_ENDPOINT")
	database := os.Getenv("GREPTIMEDB_DATABASE")
	if database == "" {
		database = "public"
	}
	w, err := survey.NewGreptimeWriter(endpoint, database)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	return w, w, w, func() {}, nil
}

// newVisitWriter creates a visit writer without rejection or status
// handling, for replaying logs.
func newVisitWriter(printOnly bool) (survey.VisitWriter, error) {
	vw, _, _, _, err := newWriters(nil, observatory.Options{}, printOnly, true, false, "")
	return vw, err
}
