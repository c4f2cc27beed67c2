// Visit request/record structs with greptime tags
package visit

import (
	"os"
	"time"
)

// Request asks the observatory for one visit of a survey field.
// Angles are radians, exposure time seconds.
type Request struct {
	ID       string  `json:"id"`
	FieldID  int     `json:"field_id"`
	RA       float64 `json:"ra"`
	Dec      float64 `json:"dec"`
	Filter   string  `json:"filter"`
	ExpTime  float64 `json:"exptime"`
	NExp     int     `json:"nexp"`
	SurveyID string  `json:"survey_id"`
	BlockID  int     `json:"block_id"`
	Note     string  `json:"note"`
}

// Record is the committed outcome of a successful visit request, the
// request fields plus the charged costs and the sky conditions. MJD is
// the exposure start instant.
type Record struct {
	ID               string    `json:"id"`        // TAG
	FieldID          int       `json:"field_id"`  // TAG
	Filter           string    `json:"filter"`    // TAG
	SurveyID         string    `json:"survey_id"` // TAG
	BlockID          int       `json:"block_id"`  // FIELD
	RA               float64   `json:"ra"`        // FIELD, radians
	Dec              float64   `json:"dec"`       // FIELD, radians
	ExpTime          float64   `json:"exptime"`   // FIELD
	NExp             int       `json:"nexp"`      // FIELD
	MJD              float64   `json:"mjd"`       // FIELD
	Night            int       `json:"night"`     // FIELD
	Alt              float64   `json:"alt"`       // FIELD, radians
	Az               float64   `json:"az"`        // FIELD, radians
	SlewTime         float64   `json:"slewtime"`  // FIELD, seconds
	FilterChangeTime float64   `json:"filter_change_time"` // FIELD, seconds
	SkyBrightness    float64   `json:"sky_brightness"`     // FIELD, mag/arcsec^2
	FWHM500          float64   `json:"fwhm_500"`           // FIELD, arcsec
	FWHMEff          float64   `json:"fwhm_eff"`           // FIELD, arcsec
	FWHMGeom         float64   `json:"fwhm_geom"`          // FIELD, arcsec
	Airmass          float64   `json:"airmass"`            // FIELD
	FiveSigmaDepth   float64   `json:"five_sigma_depth"`   // FIELD, mag
	Clouds           float64   `json:"clouds"`             // FIELD
	SunAlt           float64   `json:"sun_alt"`            // FIELD, radians
	MoonAlt          float64   `json:"moon_alt"`           // FIELD, radians
	Note             string    `json:"note"`               // FIELD
	Timestamp        time.Time `json:"ts"`                 // TIME INDEX
}

// Rejection reports a visit request the observatory could not serve and
// where the clock jumped instead.
type Rejection struct {
	RequestID string    `json:"request_id"` // TAG
	FieldID   int       `json:"field_id"`   // TAG
	Filter    string    `json:"filter"`     // TAG
	Reason    string    `json:"reason"`     // TAG
	MJD       float64   `json:"mjd"`        // FIELD
	NextMJD   float64   `json:"next_mjd"`   // FIELD
	Night     int       `json:"night"`      // FIELD
	Fallback  bool      `json:"fallback"`   // FIELD
	Timestamp time.Time `json:"ts"`         // TIME INDEX
}

// Rejection reason constants.
const (
	ReasonClouds   = "clouds"
	ReasonDaylight = "daylight"
	ReasonDowntime = "downtime"
)

// StatusRow is a periodic snapshot of the running survey.
type StatusRow struct {
	RunID        string         `json:"run_id"` // TAG
	MJD          float64        `json:"mjd"`    // FIELD
	Night        int            `json:"night"`  // FIELD
	LMST         float64        `json:"lmst"`   // FIELD, radians
	Filter       string         `json:"filter"` // FIELD
	RA           float64        `json:"ra"`     // FIELD, radians
	Dec          float64        `json:"dec"`    // FIELD, radians
	SunAlt       float64        `json:"sun_alt"`  // FIELD, radians
	MoonAlt      float64        `json:"moon_alt"` // FIELD, radians
	MoonPhase    float64        `json:"moon_phase"`
	Clouds       float64        `json:"clouds"`
	Visits       int            `json:"visits"`
	Rejections   int            `json:"rejections"`
	FilterCounts map[string]int `json:"filter_counts"` // JSON column
	Timestamp    time.Time      `json:"ts"`            // TIME INDEX
}

// VisitsTableName holds the table name used when writing visit records to
// GreptimeDB. It defaults to "survey_visits" but can be overridden via
// the VISITS_TABLE environment variable.
var VisitsTableName = func() string {
	if env := os.Getenv("VISITS_TABLE"); env != "" {
		return env
	}
	return "survey_visits"
}()

// RejectionsTableName is the rejection table, overridable via
// REJECTIONS_TABLE.
var RejectionsTableName = func() string {
	if env := os.Getenv("REJECTIONS_TABLE"); env != "" {
		return env
	}
	return "visit_rejections"
}()

// StatusTableName is the survey status table, overridable via
// SURVEY_STATUS_TABLE.
var StatusTableName = func() string {
	if env := os.Getenv("SURVEY_STATUS_TABLE"); env != "" {
		return env
	}
	return "survey_status"
}()

func (Record) TableName() string    { return VisitsTableName }
func (Rejection) TableName() string { return RejectionsTableName }
func (StatusRow) TableName() string { return StatusTableName }
