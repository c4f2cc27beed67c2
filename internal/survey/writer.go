package survey

import "skysurvey-sim/internal/visit"

// VisitWriter is an interface to support different output writers.
type VisitWriter interface {
	Write(visit.Record) error
}

// Optional: writers may support batch mode for visit records.
type batchWriter interface {
	WriteBatch([]visit.Record) error
}

// RejectionWriter handles visibility rejection events.
type RejectionWriter interface {
	WriteRejection(visit.Rejection) error
}

// Optional: rejection writers may support batch mode.
type batchRejectionWriter interface {
	WriteRejections([]visit.Rejection) error
}

// StatusWriter handles periodic survey status rows.
type StatusWriter interface {
	WriteStatus(visit.StatusRow) error
}

// Optional: writers may support batch mode for status rows.
type batchStatusWriter interface {
	WriteStatuses([]visit.StatusRow) error
}

// AdminStatusWriter allows writers to receive admin UI status updates.
type AdminStatusWriter interface {
	SetAdminStatus(listening bool)
}
