package astro

import "math"

// normalizeAngle wraps a to [0, 2π).
func normalizeAngle(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// EquatorialToHorizontal converts RA/Dec to Alt/Az at the site and instant.
// All angles are radians; azimuth is measured from north through east.
func EquatorialToHorizontal(ra, dec, mjd float64, site Site) (alt, az float64) {
	ha := LMST(mjd, site) - ra
	sinAlt := math.Sin(dec)*math.Sin(site.Latitude) + math.Cos(dec)*math.Cos(site.Latitude)*math.Cos(ha)
	alt = math.Asin(clamp(sinAlt, -1, 1))
	y := -math.Sin(ha) * math.Cos(dec)
	x := math.Cos(site.Latitude)*math.Sin(dec) - math.Sin(site.Latitude)*math.Cos(dec)*math.Cos(ha)
	az = normalizeAngle(math.Atan2(y, x))
	return alt, az
}

// HorizontalToEquatorial converts Alt/Az back to RA/Dec at the site and instant.
func HorizontalToEquatorial(alt, az, mjd float64, site Site) (ra, dec float64) {
	sinDec := math.Sin(alt)*math.Sin(site.Latitude) + math.Cos(alt)*math.Cos(site.Latitude)*math.Cos(az)
	dec = math.Asin(clamp(sinDec, -1, 1))
	y := -math.Sin(az) * math.Cos(alt)
	x := math.Sin(alt)*math.Cos(site.Latitude) - math.Cos(alt)*math.Sin(site.Latitude)*math.Cos(az)
	ha := math.Atan2(y, x)
	ra = normalizeAngle(LMST(mjd, site) - ha)
	return ra, dec
}

// AngularSeparation returns the angle in radians between two sky positions.
func AngularSeparation(ra1, dec1, ra2, dec2 float64) float64 {
	dRA := ra2 - ra1
	num := math.Hypot(
		math.Cos(dec2)*math.Sin(dRA),
		math.Cos(dec1)*math.Sin(dec2)-math.Sin(dec1)*math.Cos(dec2)*math.Cos(dRA),
	)
	den := math.Sin(dec1)*math.Sin(dec2) + math.Cos(dec1)*math.Cos(dec2)*math.Cos(dRA)
	return math.Atan2(num, den)
}
