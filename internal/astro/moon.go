package astro

import "math"

// MoonRADec returns the geocentric lunar RA and Dec in radians from a
// truncated ELP series, good to a few arcminutes.
func MoonRADec(mjd float64) (ra, dec float64) {
	n := JulianDate(mjd) - j2000
	t := n / 36525.0

	lp := Radians(math.Mod(218.316+481267.8813*t, 360))
	m := Radians(math.Mod(357.529+35999.050*t, 360))
	mp := Radians(math.Mod(134.963+477198.8676*t, 360))
	d := Radians(math.Mod(297.850+445267.1115*t, 360))
	f := Radians(math.Mod(93.272+483202.0175*t, 360))

	lambda := lp +
		Radians(6.289)*math.Sin(mp) +
		Radians(1.274)*math.Sin(2*d-mp) +
		Radians(0.658)*math.Sin(2*d) +
		Radians(0.214)*math.Sin(2*mp) -
		Radians(0.186)*math.Sin(m) -
		Radians(0.114)*math.Sin(2*f)
	beta := Radians(5.128)*math.Sin(f) +
		Radians(0.280)*math.Sin(mp+f) +
		Radians(0.277)*math.Sin(mp-f) +
		Radians(0.173)*math.Sin(2*d-f)
	eps := Radians(23.439 - 0.0000004*n)

	sinDec := math.Sin(beta)*math.Cos(eps) + math.Cos(beta)*math.Sin(eps)*math.Sin(lambda)
	dec = math.Asin(clamp(sinDec, -1, 1))
	y := math.Sin(lambda)*math.Cos(eps) - math.Tan(beta)*math.Sin(eps)
	x := math.Cos(lambda)
	ra = normalizeAngle(math.Atan2(y, x))
	return ra, dec
}

// MoonAltAz returns the lunar altitude and azimuth in radians at the site.
func MoonAltAz(mjd float64, site Site) (alt, az float64) {
	ra, dec := MoonRADec(mjd)
	return EquatorialToHorizontal(ra, dec, mjd, site)
}

// MoonPhase returns an illumination proxy in [0, 100] derived from the
// moon-sun angular separation. 0 is new, 100 is full.
func MoonPhase(mjd float64) float64 {
	sunRA, sunDec := SunRADec(mjd)
	moonRA, moonDec := MoonRADec(mjd)
	sep := AngularSeparation(moonRA, moonDec, sunRA, sunDec)
	return Degrees(sep) / 180 * 100
}
