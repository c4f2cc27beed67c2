// Package skymodel estimates all-sky brightness, airmass, and sun and
// moon geometry on a healpix grid.
package skymodel

import (
	"math"

	"skysurvey-sim/internal/astro"
	"skysurvey-sim/internal/photometry"
)

const (
	// twilightDarkLimit is the sun altitude in degrees below which the
	// brightness model stops adding twilight light.
	twilightDarkLimit = -18.0
	// twilightRamp brightens the sky by this many magnitudes per degree
	// of sun altitude above the dark limit.
	twilightRamp = 1.0
)

// moonBase is the maximum moon brightening per filter in magnitudes, for
// a full moon at the zenith next to the target.
var moonBase = map[string]float64{
	"u": 2.6, "g": 2.4, "r": 1.8, "i": 1.4, "z": 1.1, "y": 0.9,
}

// SunMoon bundles solar and lunar geometry at one instant. Angles are
// radians; MoonPhase runs 0 (new) to 100 (full).
type SunMoon struct {
	SunRA      float64
	SunDec     float64
	SunAlt     float64
	SunAz      float64
	MoonRA     float64
	MoonDec    float64
	MoonAlt    float64
	MoonAz     float64
	MoonPhase  float64
	MoonSunSep float64
}

// Model evaluates sky conditions for every pixel of a RING-scheme healpix
// tessellation.
type Model struct {
	nside int
	npix  int
	site  astro.Site
	ra    []float64
	dec   []float64
}

// New precomputes pixel centers for the given tessellation.
func New(nside int, site astro.Site) *Model {
	npix := astro.NPix(nside)
	m := &Model{
		nside: nside,
		npix:  npix,
		site:  site,
		ra:    make([]float64, npix),
		dec:   make([]float64, npix),
	}
	for p := 0; p < npix; p++ {
		m.ra[p], m.dec[p] = astro.PixToRADec(nside, p)
	}
	return m
}

// Nside returns the tessellation resolution.
func (m *Model) Nside() int { return m.nside }

// Npix returns the number of pixels.
func (m *Model) Npix() int { return m.npix }

// PixelRADec returns the equatorial center of a pixel.
func (m *Model) PixelRADec(pix int) (ra, dec float64) {
	return m.ra[pix], m.dec[pix]
}

// Pixel returns the pixel containing an RA/Dec direction.
func (m *Model) Pixel(ra, dec float64) int {
	return astro.RADecToPix(m.nside, ra, dec)
}

// SunMoonGeometry evaluates solar and lunar positions at mjd.
func (m *Model) SunMoonGeometry(mjd float64) SunMoon {
	var g SunMoon
	g.SunRA, g.SunDec = astro.SunRADec(mjd)
	g.SunAlt, g.SunAz = astro.EquatorialToHorizontal(g.SunRA, g.SunDec, mjd, m.site)
	g.MoonRA, g.MoonDec = astro.MoonRADec(mjd)
	g.MoonAlt, g.MoonAz = astro.EquatorialToHorizontal(g.MoonRA, g.MoonDec, mjd, m.site)
	g.MoonSunSep = astro.AngularSeparation(g.MoonRA, g.MoonDec, g.SunRA, g.SunDec)
	g.MoonPhase = astro.Degrees(g.MoonSunSep) / 180 * 100
	return g
}

// HorizonMap converts every pixel center to alt/az at mjd.
func (m *Model) HorizonMap(mjd float64) (alt, az []float64) {
	alt = make([]float64, m.npix)
	az = make([]float64, m.npix)
	for p := 0; p < m.npix; p++ {
		alt[p], az[p] = astro.EquatorialToHorizontal(m.ra[p], m.dec[p], mjd, m.site)
	}
	return alt, az
}

// Airmass converts an altitude to a line-of-sight airmass.
func Airmass(alt float64) float64 {
	return 1 / math.Sin(alt)
}

// AirmassMap returns the airmass per pixel at mjd. Pixels at or below
// altLimit are NaN.
func (m *Model) AirmassMap(mjd, altLimit float64) []float64 {
	x := make([]float64, m.npix)
	for p := range x {
		alt, _ := astro.EquatorialToHorizontal(m.ra[p], m.dec[p], mjd, m.site)
		if alt <= altLimit {
			x[p] = math.NaN()
		} else {
			x[p] = Airmass(alt)
		}
	}
	return x
}

// Magnitude returns the sky brightness at one pixel in mag per square
// arcsecond for the given filter.
func (m *Model) Magnitude(mjd float64, pix int, filter string) float64 {
	g := m.SunMoonGeometry(mjd)
	alt, _ := astro.EquatorialToHorizontal(m.ra[pix], m.dec[pix], mjd, m.site)
	return m.magnitude(g, alt, m.ra[pix], m.dec[pix], filter)
}

// Magnitudes evaluates per-pixel brightness for several filters at once,
// sharing one geometry pass. Pixels below the horizon are NaN.
func (m *Model) Magnitudes(mjd float64, filters []string) map[string][]float64 {
	g := m.SunMoonGeometry(mjd)
	alt, _ := m.HorizonMap(mjd)
	out := make(map[string][]float64, len(filters))
	for _, f := range filters {
		vals := make([]float64, m.npix)
		for p := range vals {
			if alt[p] <= 0 {
				vals[p] = math.NaN()
				continue
			}
			vals[p] = m.magnitude(g, alt[p], m.ra[p], m.dec[p], f)
		}
		out[f] = vals
	}
	return out
}

// magnitude applies airmass, twilight, and moon brightening to the
// dark-sky zenith magnitude. A brighter sky is a smaller magnitude.
func (m *Model) magnitude(g SunMoon, alt, ra, dec float64, filter string) float64 {
	mag := photometry.DarkSkyMags[filter]
	if alt > 0 {
		mag -= 2.5 * math.Log10(Airmass(alt))
	}
	sunDeg := astro.Degrees(g.SunAlt)
	if sunDeg > twilightDarkLimit {
		mag -= twilightRamp * (sunDeg - twilightDarkLimit)
	}
	if g.MoonAlt > 0 {
		sep := astro.AngularSeparation(ra, dec, g.MoonRA, g.MoonDec)
		falloff := (1 + math.Cos(sep)) / 2
		mag -= g.MoonPhase / 100 * math.Sin(g.MoonAlt) * moonBase[filter] * falloff
	}
	return mag
}
