// Low-precision solar position and altitude crossing searches.
package astro

import "math"

const (
	// crossingStep is the coarse bracketing step for crossing searches.
	crossingStep = 5.0 / 60.0 / 24.0
	// crossingTol bounds the bisection to about 0.1 seconds.
	crossingTol = 1e-6
	// crossingSpan limits how far a search walks before giving up.
	crossingSpan = 2.0
)

// SunRADec returns the apparent solar RA and Dec in radians.
// Accurate to roughly 0.01 degrees over the survey horizon.
func SunRADec(mjd float64) (ra, dec float64) {
	n := JulianDate(mjd) - j2000
	l := math.Mod(280.460+0.9856474*n, 360)
	g := Radians(math.Mod(357.528+0.9856003*n, 360))
	lambda := Radians(l + 1.915*math.Sin(g) + 0.020*math.Sin(2*g))
	eps := Radians(23.439 - 0.0000004*n)
	ra = normalizeAngle(math.Atan2(math.Cos(eps)*math.Sin(lambda), math.Cos(lambda)))
	dec = math.Asin(clamp(math.Sin(eps)*math.Sin(lambda), -1, 1))
	return ra, dec
}

// SunAltAz returns the solar altitude and azimuth in radians at the site.
func SunAltAz(mjd float64, site Site) (alt, az float64) {
	ra, dec := SunRADec(mjd)
	return EquatorialToHorizontal(ra, dec, mjd, site)
}

// SunAlt returns the solar altitude in radians at the site.
func SunAlt(mjd float64, site Site) float64 {
	alt, _ := SunAltAz(mjd, site)
	return alt
}

// PreviousSetting returns the last MJD at or before mjd when the sun crossed
// below the horizon altitude. Returns NaN if no crossing lies within two days.
func PreviousSetting(mjd float64, site Site, horizon float64) float64 {
	hi := mjd
	altHi := SunAlt(hi, site)
	for lo := hi - crossingStep; mjd-lo < crossingSpan; lo -= crossingStep {
		altLo := SunAlt(lo, site)
		if altLo > horizon && altHi <= horizon {
			return bisectAltCrossing(lo, hi, site, horizon)
		}
		hi, altHi = lo, altLo
	}
	return math.NaN()
}

// PreviousRising returns the last MJD at or before mjd when the sun crossed
// above the horizon altitude. Returns NaN if no crossing lies within two days.
func PreviousRising(mjd float64, site Site, horizon float64) float64 {
	hi := mjd
	altHi := SunAlt(hi, site)
	for lo := hi - crossingStep; mjd-lo < crossingSpan; lo -= crossingStep {
		altLo := SunAlt(lo, site)
		if altLo <= horizon && altHi > horizon {
			return bisectAltCrossing(lo, hi, site, horizon)
		}
		hi, altHi = lo, altLo
	}
	return math.NaN()
}

// NextSetting returns the first MJD after mjd when the sun crosses below the
// horizon altitude. Returns NaN if no crossing lies within two days.
func NextSetting(mjd float64, site Site, horizon float64) float64 {
	lo := mjd
	altLo := SunAlt(lo, site)
	for hi := lo + crossingStep; hi-mjd < crossingSpan; hi += crossingStep {
		altHi := SunAlt(hi, site)
		if altLo > horizon && altHi <= horizon {
			return bisectAltCrossing(lo, hi, site, horizon)
		}
		lo, altLo = hi, altHi
	}
	return math.NaN()
}

// NextRising returns the first MJD after mjd when the sun crosses above the
// horizon altitude. Returns NaN if no crossing lies within two days.
func NextRising(mjd float64, site Site, horizon float64) float64 {
	lo := mjd
	altLo := SunAlt(lo, site)
	for hi := lo + crossingStep; hi-mjd < crossingSpan; hi += crossingStep {
		altHi := SunAlt(hi, site)
		if altLo <= horizon && altHi > horizon {
			return bisectAltCrossing(lo, hi, site, horizon)
		}
		lo, altLo = hi, altHi
	}
	return math.NaN()
}

// bisectAltCrossing narrows a bracketed sun altitude crossing between lo
// and hi. The bracket must contain exactly one sign change.
func bisectAltCrossing(lo, hi float64, site Site, horizon float64) float64 {
	fLo := SunAlt(lo, site) - horizon
	for hi-lo > crossingTol {
		mid := 0.5 * (lo + hi)
		fMid := SunAlt(mid, site) - horizon
		if (fLo > 0) == (fMid > 0) {
			lo, fLo = mid, fMid
		} else {
			hi = mid
		}
	}
	return 0.5 * (lo + hi)
}
