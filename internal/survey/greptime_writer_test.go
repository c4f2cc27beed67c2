package survey

import (
	"context"
	"testing"
	"time"

	gpb "github.com/GreptimeTeam/greptime-proto/go/greptime/v1"
	"github.com/GreptimeTeam/greptimedb-ingester-go/table"

	"skysurvey-sim/internal/visit"
)

type mockGreptimeClient struct {
	table *table.Table
}

func (m *mockGreptimeClient) Write(ctx context.Context, tables ...*table.Table) (*gpb.GreptimeResponse, error) {
	if len(tables) > 0 {
		m.table = tables[0]
	}
	return &gpb.GreptimeResponse{}, nil
}

func TestGreptimeWriterStatusFilterCountsJSON(t *testing.T) {
	ts := time.Unix(0, 0).UTC()
	rows := []visit.StatusRow{
		{
			RunID:        "r1",
			MJD:          59853.5,
			Night:        3,
			Filter:       "r",
			Visits:       3,
			Rejections:   1,
			FilterCounts: map[string]int{"g": 2, "r": 1},
			Timestamp:    ts,
		},
	}

	m := &mockGreptimeClient{}
	w := &GreptimeWriter{client: m, statusTable: "survey_status"}

	if err := w.WriteStatuses(rows); err != nil {
		t.Fatalf("WriteStatuses: %v", err)
	}
	if m.table == nil {
		t.Fatalf("expected table to be captured")
	}

	schema := m.table.GetRows().Schema
	if len(schema) < 14 {
		t.Fatalf("unexpected schema length: %d", len(schema))
	}
	if schema[13].Datatype != gpb.ColumnDataType_JSON {
		t.Fatalf("filter_counts column type = %v, want %v", schema[13].Datatype, gpb.ColumnDataType_JSON)
	}

	got := m.table.GetRows().Rows[0].Values[13].GetStringValue()
	want := "{\"g\":2,\"r\":1}"
	if got != want {
		t.Fatalf("filter_counts = %s, want %s", got, want)
	}
}

func TestGreptimeWriterVisits(t *testing.T) {
	rec := visit.Record{
		ID:        "v1",
		FieldID:   42,
		Filter:    "r",
		SurveyID:  "baseline",
		MJD:       59854.1,
		Night:     1,
		Note:      "field-0042",
		Timestamp: time.Unix(0, 0).UTC(),
	}

	m := &mockGreptimeClient{}
	w := &GreptimeWriter{client: m, visitsTable: "survey_visits"}

	if err := w.Write(rec); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if m.table == nil {
		t.Fatalf("expected table to be captured")
	}

	schema := m.table.GetRows().Schema
	if len(schema) != 26 {
		t.Fatalf("unexpected schema length: %d", len(schema))
	}
	values := m.table.GetRows().Rows[0].Values
	if got := values[1].GetStringValue(); got != "r" {
		t.Fatalf("filter = %s, want r", got)
	}
	if got := values[2].GetStringValue(); got != "v1" {
		t.Fatalf("visit_id = %s, want v1", got)
	}
	if got := values[24].GetStringValue(); got != "field-0042" {
		t.Fatalf("note = %s, want field-0042", got)
	}
}

func TestGreptimeWriterRejections(t *testing.T) {
	rows := []visit.Rejection{{
		RequestID: "req1",
		FieldID:   7,
		Filter:    "g",
		Reason:    visit.ReasonClouds,
		MJD:       59854.2,
		NextMJD:   59854.21,
		Night:     1,
		Fallback:  true,
		Timestamp: time.Unix(0, 0).UTC(),
	}}

	m := &mockGreptimeClient{}
	w := &GreptimeWriter{client: m, rejectionsTable: "visit_rejections"}

	if err := w.WriteRejections(rows); err != nil {
		t.Fatalf("WriteRejections: %v", err)
	}
	if m.table == nil {
		t.Fatalf("expected table to be captured")
	}

	values := m.table.GetRows().Rows[0].Values
	if got := values[0].GetStringValue(); got != "clouds" {
		t.Fatalf("reason = %s, want clouds", got)
	}
	if got := values[2].GetStringValue(); got != "req1" {
		t.Fatalf("request_id = %s, want req1", got)
	}
	if !values[7].GetBoolValue() {
		t.Fatalf("expected fallback to be true")
	}
}
