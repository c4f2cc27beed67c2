package environment

import (
	"database/sql"
	"fmt"
	"math"
	"path/filepath"
	"sort"
	"time"

	_ "modernc.org/sqlite"

	"skysurvey-sim/internal/astro"
)

const secPerDay = 86400.0

// timeSeries is a time-indexed series sampled in seconds that loops back
// to the start when read past its end.
type timeSeries struct {
	dates  []float64
	values []float64
}

// at returns the value recorded nearest to sec, wrapping past the end of
// the series.
func (s *timeSeries) at(sec float64) float64 {
	span := s.dates[len(s.dates)-1]
	sec = math.Mod(sec, span)
	if sec < 0 {
		sec += span
	}
	i := sort.SearchFloat64s(s.dates, sec)
	if i == 0 {
		return s.values[0]
	}
	if i == len(s.dates) {
		return s.values[len(s.values)-1]
	}
	if sec-s.dates[i-1] < s.dates[i]-sec {
		return s.values[i-1]
	}
	return s.values[i]
}

// loadSeries reads a two-column time series out of a SQLite database.
func loadSeries(path, query string) (*timeSeries, error) {
	db, err := sql.Open("sqlite", filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer db.Close()

	rows, err := db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", path, err)
	}
	defer rows.Close()

	s := &timeSeries{}
	for rows.Next() {
		var date, value float64
		if err := rows.Scan(&date, &value); err != nil {
			return nil, fmt.Errorf("scan %s: %w", path, err)
		}
		s.dates = append(s.dates, date)
		s.values = append(s.values, value)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(s.dates) < 2 {
		return nil, fmt.Errorf("%s: need at least two samples", path)
	}
	return s, nil
}

// yearOffsetSeconds returns how far startMJD falls into its calendar year,
// so database series aligned to January 1 line up with the survey start.
func yearOffsetSeconds(startMJD float64) float64 {
	t := astro.MJDToTime(startMJD)
	jan1 := time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	return t.Sub(jan1).Seconds()
}
