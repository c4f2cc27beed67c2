// Package environment supplies cloud cover and atmospheric seeing to the
// simulator, from archival databases, generated series, or fixed values.
package environment

import "math/rand"

// FixedCloud always reports the same cloud fraction.
type FixedCloud float64

// Cloud returns the fixed fraction regardless of time.
func (f FixedCloud) Cloud(mjd float64) float64 { return float64(f) }

// CloudDB replays archival cloud cover from a SQLite database, wrapping
// when the survey outlives the archive. Dates in the archive are seconds
// from the start of its calendar year.
type CloudDB struct {
	series *timeSeries
	start  float64
	offset float64
}

// OpenCloudDB loads the full cloud archive at path into memory.
func OpenCloudDB(path string, startMJD float64) (*CloudDB, error) {
	s, err := loadSeries(path, `SELECT c_date, cloud FROM Cloud ORDER BY c_date`)
	if err != nil {
		return nil, err
	}
	return &CloudDB{series: s, start: startMJD, offset: yearOffsetSeconds(startMJD)}, nil
}

// Cloud returns the archived cloud fraction nearest to mjd.
func (c *CloudDB) Cloud(mjd float64) float64 {
	return c.series.at((mjd-c.start)*secPerDay + c.offset)
}

// SyntheticClouds is a seeded random walk over cloud fractions in [0, 1].
type SyntheticClouds struct {
	series *timeSeries
	start  float64
}

// NewSyntheticClouds generates days of cloud cover sampled every
// 30 minutes. The same seed always yields the same weather.
func NewSyntheticClouds(seed int64, startMJD, days float64) *SyntheticClouds {
	rng := rand.New(rand.NewSource(seed))
	const step = 1800.0
	n := int(days*secPerDay/step) + 2
	s := &timeSeries{dates: make([]float64, n), values: make([]float64, n)}
	v := rng.Float64()
	for i := 0; i < n; i++ {
		s.dates[i] = float64(i) * step
		v += (rng.Float64() - 0.5) * 0.2
		if v < 0 {
			v = 0
		} else if v > 1 {
			v = 1
		}
		s.values[i] = v
	}
	return &SyntheticClouds{series: s, start: startMJD}
}

// Cloud returns the generated cloud fraction nearest to mjd.
func (c *SyntheticClouds) Cloud(mjd float64) float64 {
	return c.series.at((mjd - c.start) * secPerDay)
}
