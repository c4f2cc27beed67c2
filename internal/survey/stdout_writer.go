// Writer implementation printing survey output to STDOUT
package survey

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"skysurvey-sim/internal/visit"
)

// StdoutWriter prints visit, rejection, and status rows as JSON lines.
type StdoutWriter struct {
	out io.Writer
}

// NewStdoutWriter creates a StdoutWriter writing to os.Stdout.
func NewStdoutWriter() *StdoutWriter {
	return &StdoutWriter{out: os.Stdout}
}

// Write outputs a single visit record.
func (w *StdoutWriter) Write(rec visit.Record) error {
	data, _ := json.Marshal(rec)
	fmt.Fprintln(w.out, string(data))
	return nil
}

// WriteBatch outputs multiple visit records.
func (w *StdoutWriter) WriteBatch(rows []visit.Record) error {
	for _, r := range rows {
		_ = w.Write(r)
	}
	return nil
}

// WriteRejection outputs a rejection event.
func (w *StdoutWriter) WriteRejection(rej visit.Rejection) error {
	data, _ := json.Marshal(rej)
	fmt.Fprintln(w.out, string(data))
	return nil
}

// WriteRejections outputs multiple rejection events.
func (w *StdoutWriter) WriteRejections(rows []visit.Rejection) error {
	for _, r := range rows {
		_ = w.WriteRejection(r)
	}
	return nil
}

// WriteStatus outputs a survey status row.
func (w *StdoutWriter) WriteStatus(st visit.StatusRow) error {
	data, _ := json.Marshal(st)
	fmt.Fprintln(w.out, string(data))
	return nil
}

// WriteStatuses outputs multiple survey status rows.
func (w *StdoutWriter) WriteStatuses(rows []visit.StatusRow) error {
	for _, r := range rows {
		_ = w.WriteStatus(r)
	}
	return nil
}
