package astro

import (
	"math"
	"time"
)

const (
	// mjdUnixEpoch is the Modified Julian Date of 1970-01-01T00:00:00Z.
	mjdUnixEpoch = 40587.0
	// mjdOffset converts a Modified Julian Date to a full Julian Date.
	mjdOffset = 2400000.5

	secPerDay = 86400.0
)

// TimeToMJD converts t to a Modified Julian Date.
func TimeToMJD(t time.Time) float64 {
	return float64(t.UnixMilli())/(secPerDay*1000) + mjdUnixEpoch
}

// MJDToTime converts a Modified Julian Date to UTC wall time,
// rounded to the nearest millisecond.
func MJDToTime(mjd float64) time.Time {
	ms := (mjd - mjdUnixEpoch) * secPerDay * 1000
	return time.UnixMilli(int64(math.Round(ms))).UTC()
}

// JulianDate returns the full Julian Date for a Modified Julian Date.
func JulianDate(mjd float64) float64 { return mjd + mjdOffset }
