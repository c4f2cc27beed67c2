package environment

import (
	"math"
	"math/rand"
)

// EffectiveWavelengths maps each filter to its effective wavelength in
// nanometers.
var EffectiveWavelengths = map[string]float64{
	"u": 367.0,
	"g": 482.5,
	"r": 622.2,
	"i": 754.5,
	"z": 869.1,
	"y": 971.0,
}

// FixedSeeing always reports the same zenith FWHM at 500 nm, in arcseconds.
type FixedSeeing float64

// FWHM500 returns the fixed value regardless of time.
func (f FixedSeeing) FWHM500(mjd float64) float64 { return float64(f) }

// SeeingDB replays archival zenith seeing from a SQLite database, wrapping
// when the survey outlives the archive.
type SeeingDB struct {
	series *timeSeries
	start  float64
	offset float64
}

// OpenSeeingDB loads the full seeing archive at path into memory.
func OpenSeeingDB(path string, startMJD float64) (*SeeingDB, error) {
	s, err := loadSeries(path, `SELECT s_date, seeing FROM Seeing ORDER BY s_date`)
	if err != nil {
		return nil, err
	}
	return &SeeingDB{series: s, start: startMJD, offset: yearOffsetSeconds(startMJD)}, nil
}

// FWHM500 returns the archived zenith FWHM nearest to mjd.
func (d *SeeingDB) FWHM500(mjd float64) float64 {
	return d.series.at((mjd-d.start)*secPerDay + d.offset)
}

// SyntheticSeeing is a seeded random walk in log space around a median
// zenith FWHM of 0.62 arcseconds.
type SyntheticSeeing struct {
	series *timeSeries
	start  float64
}

// NewSyntheticSeeing generates days of zenith seeing sampled every
// 30 minutes. The same seed always yields the same series.
func NewSyntheticSeeing(seed int64, startMJD, days float64) *SyntheticSeeing {
	rng := rand.New(rand.NewSource(seed))
	const step = 1800.0
	n := int(days*secPerDay/step) + 2
	s := &timeSeries{dates: make([]float64, n), values: make([]float64, n)}
	lv := math.Log(0.62)
	for i := 0; i < n; i++ {
		s.dates[i] = float64(i) * step
		lv += (rng.Float64() - 0.5) * 0.1
		// Pull back toward the median so long surveys stay realistic.
		lv += (math.Log(0.62) - lv) * 0.02
		v := math.Exp(lv)
		if v < 0.3 {
			v = 0.3
		} else if v > 3.0 {
			v = 3.0
		}
		s.values[i] = v
	}
	return &SyntheticSeeing{series: s, start: startMJD}
}

// FWHM500 returns the generated zenith FWHM nearest to mjd.
func (s *SyntheticSeeing) FWHM500(mjd float64) float64 {
	return s.series.at((mjd - s.start) * secPerDay)
}

// Model converts zenith FWHM at 500 nm into delivered image quality for a
// given airmass and filter wavelength. Contributions are in arcseconds.
type Model struct {
	TelSeeing     float64
	OpticalDesign float64
	CameraSeeing  float64
}

// DefaultModel carries the as-built telescope contribution terms.
func DefaultModel() Model {
	return Model{TelSeeing: 0.25, OpticalDesign: 0.08, CameraSeeing: 0.30}
}

// Convert returns the effective and geometric FWHM in arcseconds for an
// observation at the given airmass and effective wavelength.
func (m Model) Convert(fwhm500, airmass, wavelengthNm float64) (eff, geom float64) {
	xPow := math.Pow(airmass, 0.6)
	sys := math.Sqrt(m.TelSeeing*m.TelSeeing+m.OpticalDesign*m.OpticalDesign+m.CameraSeeing*m.CameraSeeing) * xPow
	atm := fwhm500 * math.Pow(500.0/wavelengthNm, 0.3) * xPow
	eff = 1.16 * math.Sqrt(sys*sys+1.04*atm*atm)
	geom = 0.822*eff + 0.052
	return eff, geom
}
