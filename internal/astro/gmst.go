// Sidereal time from the IAU 1982 GMST expression.
package astro

import "math"

const j2000 = 2451545.0

// GMST returns Greenwich mean sidereal time in radians for the given MJD.
func GMST(mjd float64) float64 {
	t := (JulianDate(mjd) - j2000) / 36525.0
	sec := 67310.54841 + (876600.0*3600.0+8640184.812866)*t + 0.093104*t*t - 6.2e-6*t*t*t
	sec = math.Mod(sec, secPerDay)
	if sec < 0 {
		sec += secPerDay
	}
	return sec / secPerDay * 2 * math.Pi
}

// LMST returns local mean sidereal time in radians at the site.
func LMST(mjd float64, site Site) float64 {
	return normalizeAngle(GMST(mjd) + site.Longitude)
}
