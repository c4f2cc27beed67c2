package survey

import (
	"encoding/json"
	"os"

	"skysurvey-sim/internal/visit"
)

// FileWriter writes visit, rejection, and status rows to JSONL files.
type FileWriter struct {
	visitFile  *os.File
	rejFile    *os.File
	statusFile *os.File
	visitEnc   *json.Encoder
	rejEnc     *json.Encoder
	statusEnc  *json.Encoder
}

// NewFileWriter creates a FileWriter. rejectionPath or statusPath may be
// empty to skip those logs.
func NewFileWriter(visitPath, rejectionPath, statusPath string) (*FileWriter, error) {
	vf, err := os.Create(visitPath)
	if err != nil {
		return nil, err
	}
	fw := &FileWriter{visitFile: vf, visitEnc: json.NewEncoder(vf)}
	if rejectionPath != "" {
		rf, err := os.Create(rejectionPath)
		if err != nil {
			vf.Close()
			return nil, err
		}
		fw.rejFile = rf
		fw.rejEnc = json.NewEncoder(rf)
	}
	if statusPath != "" {
		sf, err := os.Create(statusPath)
		if err != nil {
			if fw.rejFile != nil {
				fw.rejFile.Close()
			}
			vf.Close()
			return nil, err
		}
		fw.statusFile = sf
		fw.statusEnc = json.NewEncoder(sf)
	}
	return fw, nil
}

// Write logs a single visit record.
func (f *FileWriter) Write(rec visit.Record) error {
	return f.visitEnc.Encode(rec)
}

// WriteBatch logs multiple visit records.
func (f *FileWriter) WriteBatch(rows []visit.Record) error {
	for _, r := range rows {
		if err := f.Write(r); err != nil {
			return err
		}
	}
	return nil
}

// WriteRejection logs a single rejection event, if enabled.
func (f *FileWriter) WriteRejection(rej visit.Rejection) error {
	if f.rejEnc == nil {
		return nil
	}
	return f.rejEnc.Encode(rej)
}

// WriteRejections logs multiple rejection events.
func (f *FileWriter) WriteRejections(rows []visit.Rejection) error {
	for _, r := range rows {
		if err := f.WriteRejection(r); err != nil {
			return err
		}
	}
	return nil
}

// WriteStatus logs a survey status row, if enabled.
func (f *FileWriter) WriteStatus(st visit.StatusRow) error {
	if f.statusEnc == nil {
		return nil
	}
	return f.statusEnc.Encode(st)
}

// WriteStatuses logs multiple survey status rows.
func (f *FileWriter) WriteStatuses(rows []visit.StatusRow) error {
	for _, r := range rows {
		if err := f.WriteStatus(r); err != nil {
			return err
		}
	}
	return nil
}

// Close closes any underlying files.
func (f *FileWriter) Close() error {
	var err error
	if f.visitFile != nil {
		if e := f.visitFile.Close(); e != nil && err == nil {
			err = e
		}
	}
	if f.rejFile != nil {
		if e := f.rejFile.Close(); e != nil && err == nil {
			err = e
		}
	}
	if f.statusFile != nil {
		if e := f.statusFile.Close(); e != nil && err == nil {
			err = e
		}
	}
	return err
}
