package skymodel

import (
	"math"
	"testing"

	"skysurvey-sim/internal/astro"
	"skysurvey-sim/internal/photometry"
)

const startMJD = 59853.5

func darkMJD(t *testing.T) float64 {
	t.Helper()
	set := astro.NextSetting(startMJD, astro.CerroPachon(), astro.Radians(-18))
	if math.IsNaN(set) {
		t.Fatal("no astronomical darkness found after the start epoch")
	}
	return set + 0.02
}

func TestPixelRoundTrip(t *testing.T) {
	m := New(16, astro.CerroPachon())
	if m.Npix() != 3072 {
		t.Fatalf("expected 3072 pixels at nside 16, got %d", m.Npix())
	}
	for _, pix := range []int{0, 7, 100, 1536, 3071} {
		ra, dec := m.PixelRADec(pix)
		if got := m.Pixel(ra, dec); got != pix {
			t.Errorf("pixel %d: round trip gave %d", pix, got)
		}
	}
}

func TestAirmassMap(t *testing.T) {
	m := New(16, astro.CerroPachon())
	limit := astro.Radians(20)
	x := m.AirmassMap(darkMJD(t), limit)
	alt, _ := m.HorizonMap(darkMJD(t))
	seen := 0
	minX := math.Inf(1)
	for p := range x {
		if alt[p] <= limit {
			if !math.IsNaN(x[p]) {
				t.Fatalf("pixel %d below the limit should be NaN, got %f", p, x[p])
			}
			continue
		}
		seen++
		if x[p] < 1 {
			t.Fatalf("airmass below 1 at pixel %d: %f", p, x[p])
		}
		if x[p] < minX {
			minX = x[p]
		}
	}
	if seen == 0 {
		t.Fatal("no pixels above the altitude limit")
	}
	// Some pixel center sits within a few degrees of the zenith.
	if minX > 1.01 {
		t.Errorf("expected a near-zenith pixel, best airmass %f", minX)
	}
}

func TestTwilightBrightensSky(t *testing.T) {
	m := New(16, astro.CerroPachon())
	dark := darkMJD(t)
	twilight := dark - 0.04
	if astro.SunAlt(twilight, astro.CerroPachon()) <= astro.Radians(-18) {
		t.Fatal("expected the earlier instant to be in twilight")
	}
	alt, _ := m.HorizonMap(dark)
	pix := 0
	for p := range alt {
		if alt[p] > alt[pix] {
			pix = p
		}
	}
	darkMag := m.Magnitude(dark, pix, "r")
	twilightMag := m.Magnitude(twilight, pix, "r")
	if twilightMag >= darkMag-1 {
		t.Errorf("twilight sky should be much brighter: %f vs %f", twilightMag, darkMag)
	}
}

func TestMoonBrightensNearbySky(t *testing.T) {
	m := New(16, astro.CerroPachon())
	var g SunMoon
	found := false
	for mjd := startMJD; mjd < startMJD+30; mjd += 0.05 {
		g = m.SunMoonGeometry(mjd)
		if g.MoonAlt > astro.Radians(30) && g.SunAlt < astro.Radians(-18) {
			found = true
			break
		}
	}
	if !found {
		t.Fatal("no moonlit dark instant found within a month")
	}
	alt := 1.0
	near := m.magnitude(g, alt, g.MoonRA, g.MoonDec, "g")
	farRA := math.Mod(g.MoonRA+math.Pi, 2*math.Pi)
	far := m.magnitude(g, alt, farRA, -g.MoonDec, "g")
	wantDelta := g.MoonPhase / 100 * math.Sin(g.MoonAlt) * moonBase["g"]
	if math.Abs((far-near)-wantDelta) > 1e-9 {
		t.Errorf("moon brightening: expected delta %f, got %f", wantDelta, far-near)
	}
	if near >= far {
		t.Errorf("sky next to the moon should be brighter: %f vs %f", near, far)
	}
}

func TestMagnitudesMapShape(t *testing.T) {
	m := New(16, astro.CerroPachon())
	mjd := darkMJD(t)
	mags := m.Magnitudes(mjd, []string{"u", "g", "r"})
	if len(mags) != 3 {
		t.Fatalf("expected 3 filters, got %d", len(mags))
	}
	alt, _ := m.HorizonMap(mjd)
	for f, vals := range mags {
		if len(vals) != m.Npix() {
			t.Fatalf("filter %s: expected %d pixels, got %d", f, m.Npix(), len(vals))
		}
		for p, v := range vals {
			if alt[p] <= 0 {
				if !math.IsNaN(v) {
					t.Fatalf("filter %s pixel %d below horizon should be NaN", f, p)
				}
			} else if math.IsNaN(v) || v > photometry.DarkSkyMags[f] {
				t.Fatalf("filter %s pixel %d: magnitude %f above the dark-sky ceiling", f, p, v)
			}
		}
	}
}

func TestSunMoonGeometry(t *testing.T) {
	m := New(16, astro.CerroPachon())
	g := m.SunMoonGeometry(startMJD)
	if g.MoonPhase < 0 || g.MoonPhase > 100 {
		t.Errorf("moon phase out of range: %f", g.MoonPhase)
	}
	if math.Abs(g.MoonPhase-astro.Degrees(g.MoonSunSep)/180*100) > 1e-12 {
		t.Errorf("phase %f inconsistent with separation %f", g.MoonPhase, g.MoonSunSep)
	}
	if g.SunRA < 0 || g.SunRA >= 2*math.Pi {
		t.Errorf("sun RA out of range: %f", g.SunRA)
	}
}
