package survey

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"skysurvey-sim/internal/visit"
)

type collectWriter struct {
	records []visit.Record
}

func (c *collectWriter) Write(rec visit.Record) error {
	c.records = append(c.records, rec)
	return nil
}

func TestReplayLog(t *testing.T) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	recs := []visit.Record{
		{ID: "v1", Filter: "r", MJD: 59853.9, Timestamp: time.Unix(0, 0).UTC()},
		{ID: "v2", Filter: "g", MJD: 59853.91, Timestamp: time.Unix(1, 0).UTC()},
	}
	for _, rec := range recs {
		if err := enc.Encode(rec); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}

	cw := &collectWriter{}
	if err := ReplayLog(&buf, cw, 0); err != nil {
		t.Fatalf("replay: %v", err)
	}
	if len(cw.records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(cw.records))
	}
	if cw.records[0].ID != "v1" || cw.records[1].ID != "v2" {
		t.Fatalf("unexpected order: %q then %q", cw.records[0].ID, cw.records[1].ID)
	}
}

func TestReplayLogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "visits.json")
	data, err := json.Marshal(visit.Record{ID: "v1", Filter: "z"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	cw := &collectWriter{}
	if err := ReplayLogFile(path, cw, 0); err != nil {
		t.Fatalf("replay: %v", err)
	}
	if len(cw.records) != 1 || cw.records[0].Filter != "z" {
		t.Fatalf("unexpected records: %#v", cw.records)
	}
}

func TestReplayLogEmpty(t *testing.T) {
	cw := &collectWriter{}
	if err := ReplayLog(bytes.NewReader(nil), cw, 0); err != nil {
		t.Fatalf("empty replay should succeed: %v", err)
	}
	if len(cw.records) != 0 {
		t.Fatalf("expected no records, got %d", len(cw.records))
	}
}
