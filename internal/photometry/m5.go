// Package photometry computes flat-SED limiting magnitudes from the
// published per-filter throughput coefficients.
package photometry

import (
	"fmt"
	"math"
)

// Per-filter coefficients for the five-sigma depth calculation.
var (
	cm = map[string]float64{
		"u": 22.74, "g": 24.38, "r": 24.43, "i": 24.30, "z": 24.15, "y": 23.70,
	}
	dCmInf = map[string]float64{
		"u": 0.75, "g": 0.19, "r": 0.10, "i": 0.07, "z": 0.05, "y": 0.04,
	}
	kAtm = map[string]float64{
		"u": 0.50, "g": 0.21, "r": 0.13, "i": 0.10, "z": 0.07, "y": 0.18,
	}
)

// DarkSkyMags holds the reference dark-sky zenith brightness per filter in
// mag per square arcsecond.
var DarkSkyMags = map[string]float64{
	"u": 22.95, "g": 22.24, "r": 21.20, "i": 20.47, "z": 19.60, "y": 18.63,
}

// Known reports whether depth coefficients exist for a filter.
func Known(filter string) bool {
	_, ok := cm[filter]
	return ok
}

// M5FlatSED returns the five-sigma limiting magnitude of a flat-spectrum
// source for one exposure. skyMag is the sky brightness in mag per square
// arcsecond, fwhmEff the delivered seeing in arcseconds, expTimeSec the
// open-shutter time, airmass the line-of-sight airmass.
func M5FlatSED(filter string, skyMag, fwhmEff, expTimeSec, airmass float64) (float64, error) {
	c, ok := cm[filter]
	if !ok {
		return 0, fmt.Errorf("unknown filter %q", filter)
	}
	dInf := dCmInf[filter]
	// Scale the read-noise correction by how background limited this
	// exposure is relative to a dark-sky 30 s visit.
	tScale := expTimeSec / 30.0 * math.Pow(10, -0.4*(skyMag-DarkSkyMags[filter]))
	dCm := dInf - 1.25*math.Log10(1+(math.Pow(10, 0.8*dInf)-1)/tScale)
	m5 := c + dCm +
		0.50*(skyMag-21.0) +
		2.5*math.Log10(0.7/fwhmEff) +
		1.25*math.Log10(expTimeSec/30.0) -
		kAtm[filter]*(airmass-1.0)
	return m5, nil
}
