package survey

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"strconv"

	gpb "github.com/GreptimeTeam/greptime-proto/go/greptime/v1"
	greptime "github.com/GreptimeTeam/greptimedb-ingester-go"
	"github.com/GreptimeTeam/greptimedb-ingester-go/table"
	"github.com/GreptimeTeam/greptimedb-ingester-go/table/types"

	"skysurvey-sim/internal/visit"
)

// greptimeClient is the slice of the ingester client the writer needs,
// kept narrow so tests can capture the written tables.
type greptimeClient interface {
	Write(ctx context.Context, tables ...*table.Table) (*gpb.GreptimeResponse, error)
}

// GreptimeWriter writes survey output to GreptimeDB via the ingester client.
type GreptimeWriter struct {
	client          greptimeClient
	visitsTable     string
	rejectionsTable string
	statusTable     string
}

// NewGreptimeWriter connects to a GreptimeDB endpoint ("host" or
// "host:port") and database.
func NewGreptimeWriter(endpoint, database string) (*GreptimeWriter, error) {
	host, port := endpoint, 4001
	if h, p, err := net.SplitHostPort(endpoint); err == nil {
		host = h
		if n, err := strconv.Atoi(p); err == nil {
			port = n
		}
	}
	cfg := greptime.NewConfig(host).WithPort(port).WithDatabase(database)
	cli, err := greptime.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("greptime client: %w", err)
	}
	return &GreptimeWriter{
		client:          cli,
		visitsTable:     visit.VisitsTableName,
		rejectionsTable: visit.RejectionsTableName,
		statusTable:     visit.StatusTableName,
	}, nil
}

// Write inserts a single visit record.
func (w *GreptimeWriter) Write(rec visit.Record) error {
	return w.WriteBatch([]visit.Record{rec})
}

// WriteBatch inserts multiple visit records.
func (w *GreptimeWriter) WriteBatch(rows []visit.Record) error {
	if len(rows) == 0 {
		return nil
	}
	tbl, err := table.New(w.visitsTable)
	if err != nil {
		return err
	}
	err = errors.Join(
		tbl.AddTagColumn("field_id", types.INT64),
		tbl.AddTagColumn("filter", types.STRING),
		tbl.AddFieldColumn("visit_id", types.STRING),
		tbl.AddFieldColumn("survey_id", types.STRING),
		tbl.AddFieldColumn("block_id", types.INT64),
		tbl.AddFieldColumn("ra", types.FLOAT64),
		tbl.AddFieldColumn("dec", types.FLOAT64),
		tbl.AddFieldColumn("exptime", types.FLOAT64),
		tbl.AddFieldColumn("nexp", types.INT64),
		tbl.AddFieldColumn("mjd", types.FLOAT64),
		tbl.AddFieldColumn("night", types.INT64),
		tbl.AddFieldColumn("alt", types.FLOAT64),
		tbl.AddFieldColumn("az", types.FLOAT64),
		tbl.AddFieldColumn("slew_sec", types.FLOAT64),
		tbl.AddFieldColumn("filter_change_sec", types.FLOAT64),
		tbl.AddFieldColumn("sky_mag", types.FLOAT64),
		tbl.AddFieldColumn("fwhm_500", types.FLOAT64),
		tbl.AddFieldColumn("fwhm_eff", types.FLOAT64),
		tbl.AddFieldColumn("fwhm_geom", types.FLOAT64),
		tbl.AddFieldColumn("airmass", types.FLOAT64),
		tbl.AddFieldColumn("m5", types.FLOAT64),
		tbl.AddFieldColumn("clouds", types.FLOAT64),
		tbl.AddFieldColumn("sun_alt", types.FLOAT64),
		tbl.AddFieldColumn("moon_alt", types.FLOAT64),
		tbl.AddFieldColumn("note", types.STRING),
		tbl.AddTimestampColumn("ts", types.TIMESTAMP_MILLISECOND),
	)
	if err != nil {
		return err
	}
	for _, r := range rows {
		err := tbl.AddRow(int64(r.FieldID), r.Filter, r.ID, r.SurveyID,
			int64(r.BlockID), r.RA, r.Dec, r.ExpTime, int64(r.NExp), r.MJD,
			int64(r.Night), r.Alt, r.Az, r.SlewTime, r.FilterChangeTime,
			r.SkyBrightness, r.FWHM500, r.FWHMEff, r.FWHMGeom, r.Airmass,
			r.FiveSigmaDepth, r.Clouds, r.SunAlt, r.MoonAlt, r.Note, r.Timestamp)
		if err != nil {
			return err
		}
	}
	if _, err := w.client.Write(context.Background(), tbl); err != nil {
		return fmt.Errorf("write visits: %w", err)
	}
	return nil
}

// WriteRejection inserts a single rejection event.
func (w *GreptimeWriter) WriteRejection(rej visit.Rejection) error {
	return w.WriteRejections([]visit.Rejection{rej})
}

// WriteRejections inserts multiple rejection events.
func (w *GreptimeWriter) WriteRejections(rows []visit.Rejection) error {
	if len(rows) == 0 {
		return nil
	}
	tbl, err := table.New(w.rejectionsTable)
	if err != nil {
		return err
	}
	err = errors.Join(
		tbl.AddTagColumn("reason", types.STRING),
		tbl.AddTagColumn("filter", types.STRING),
		tbl.AddFieldColumn("request_id", types.STRING),
		tbl.AddFieldColumn("field_id", types.INT64),
		tbl.AddFieldColumn("mjd", types.FLOAT64),
		tbl.AddFieldColumn("next_mjd", types.FLOAT64),
		tbl.AddFieldColumn("night", types.INT64),
		tbl.AddFieldColumn("fallback", types.BOOLEAN),
		tbl.AddTimestampColumn("ts", types.TIMESTAMP_MILLISECOND),
	)
	if err != nil {
		return err
	}
	for _, r := range rows {
		err := tbl.AddRow(r.Reason, r.Filter, r.RequestID, int64(r.FieldID),
			r.MJD, r.NextMJD, int64(r.Night), r.Fallback, r.Timestamp)
		if err != nil {
			return err
		}
	}
	if _, err := w.client.Write(context.Background(), tbl); err != nil {
		return fmt.Errorf("write rejections: %w", err)
	}
	return nil
}

// WriteStatus inserts a single survey status row.
func (w *GreptimeWriter) WriteStatus(st visit.StatusRow) error {
	return w.WriteStatuses([]visit.StatusRow{st})
}

// WriteStatuses inserts multiple survey status rows. Per-filter visit
// counts land in a JSON column.
func (w *GreptimeWriter) WriteStatuses(rows []visit.StatusRow) error {
	if len(rows) == 0 {
		return nil
	}
	tbl, err := table.New(w.statusTable)
	if err != nil {
		return err
	}
	err = errors.Join(
		tbl.AddTagColumn("run_id", types.STRING),
		tbl.AddFieldColumn("mjd", types.FLOAT64),
		tbl.AddFieldColumn("night", types.INT64),
		tbl.AddFieldColumn("lmst", types.FLOAT64),
		tbl.AddFieldColumn("filter", types.STRING),
		tbl.AddFieldColumn("ra", types.FLOAT64),
		tbl.AddFieldColumn("dec", types.FLOAT64),
		tbl.AddFieldColumn("sun_alt", types.FLOAT64),
		tbl.AddFieldColumn("moon_alt", types.FLOAT64),
		tbl.AddFieldColumn("moon_phase", types.FLOAT64),
		tbl.AddFieldColumn("clouds", types.FLOAT64),
		tbl.AddFieldColumn("visits", types.INT64),
		tbl.AddFieldColumn("rejections", types.INT64),
		tbl.AddFieldColumn("filter_counts", types.JSON),
		tbl.AddTimestampColumn("ts", types.TIMESTAMP_MILLISECOND),
	)
	if err != nil {
		return err
	}
	for _, r := range rows {
		counts, err := json.Marshal(r.FilterCounts)
		if err != nil {
			return err
		}
		err = tbl.AddRow(r.RunID, r.MJD, int64(r.Night), r.LMST, r.Filter,
			r.RA, r.Dec, r.SunAlt, r.MoonAlt, r.MoonPhase, r.Clouds,
			int64(r.Visits), int64(r.Rejections), string(counts), r.Timestamp)
		if err != nil {
			return err
		}
	}
	if _, err := w.client.Write(context.Background(), tbl); err != nil {
		return fmt.Errorf("write statuses: %w", err)
	}
	return nil
}
