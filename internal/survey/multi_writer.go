package survey

import "skysurvey-sim/internal/visit"

// MultiWriter fans visit, rejection, and status rows out to multiple writers.
type MultiWriter struct {
	visitWriters  []VisitWriter
	rejWriters    []RejectionWriter
	statusWriters []StatusWriter
}

// NewMultiWriter creates a new MultiWriter.
func NewMultiWriter(vws []VisitWriter, rws []RejectionWriter, sws []StatusWriter) *MultiWriter {
	return &MultiWriter{visitWriters: vws, rejWriters: rws, statusWriters: sws}
}

// Write sends a visit record to all writers.
func (mw *MultiWriter) Write(rec visit.Record) error {
	for _, w := range mw.visitWriters {
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return nil
}

// WriteBatch sends multiple visit records to all writers, using batch mode
// where supported.
func (mw *MultiWriter) WriteBatch(rows []visit.Record) error {
	for _, w := range mw.visitWriters {
		if bw, ok := w.(batchWriter); ok {
			if err := bw.WriteBatch(rows); err != nil {
				return err
			}
			continue
		}
		for _, r := range rows {
			if err := w.Write(r); err != nil {
				return err
			}
		}
	}
	return nil
}

// WriteRejection sends a rejection event to all rejection writers.
func (mw *MultiWriter) WriteRejection(rej visit.Rejection) error {
	for _, w := range mw.rejWriters {
		if err := w.WriteRejection(rej); err != nil {
			return err
		}
	}
	return nil
}

// WriteRejections sends multiple rejections to all rejection writers, using
// batch mode where supported.
func (mw *MultiWriter) WriteRejections(rows []visit.Rejection) error {
	for _, w := range mw.rejWriters {
		if bw, ok := w.(batchRejectionWriter); ok {
			if err := bw.WriteRejections(rows); err != nil {
				return err
			}
			continue
		}
		for _, r := range rows {
			if err := w.WriteRejection(r); err != nil {
				return err
			}
		}
	}
	return nil
}

// WriteStatus sends a status row to all status writers.
func (mw *MultiWriter) WriteStatus(st visit.StatusRow) error {
	for _, w := range mw.statusWriters {
		if err := w.WriteStatus(st); err != nil {
			return err
		}
	}
	return nil
}

// WriteStatuses sends multiple status rows to all status writers, using
// batch mode where supported.
func (mw *MultiWriter) WriteStatuses(rows []visit.StatusRow) error {
	for _, w := range mw.statusWriters {
		if bw, ok := w.(batchStatusWriter); ok {
			if err := bw.WriteStatuses(rows); err != nil {
				return err
			}
			continue
		}
		for _, r := range rows {
			if err := w.WriteStatus(r); err != nil {
				return err
			}
		}
	}
	return nil
}

// SetAdminStatus forwards the admin indicator to any writer supporting it.
func (mw *MultiWriter) SetAdminStatus(listening bool) {
	for _, w := range mw.visitWriters {
		if aw, ok := w.(AdminStatusWriter); ok {
			aw.SetAdminStatus(listening)
		}
	}
}
