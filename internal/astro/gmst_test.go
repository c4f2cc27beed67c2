package astro

import (
	"math"
	"testing"
)

func TestGMSTAtJ2000(t *testing.T) {
	// The IAU 1982 expression gives 67310.54841 seconds at J2000.0.
	want := 67310.54841 / secPerDay * 2 * math.Pi
	got := GMST(51544.5)
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("expected GMST %.9f at J2000, got %.9f", want, got)
	}
}

func TestGMSTDailyAdvance(t *testing.T) {
	// Sidereal time gains about 3m56.6s per solar day.
	d := math.Mod(GMST(51545.5)-GMST(51544.5)+2*math.Pi, 2*math.Pi)
	want := 2 * math.Pi * 0.0027379094
	if math.Abs(d-want) > 1e-4 {
		t.Errorf("expected daily sidereal advance %.6f, got %.6f", want, d)
	}
}

func TestLMSTWrapsLongitude(t *testing.T) {
	site := CerroPachon()
	mjd := 59853.5
	want := normalizeAngle(GMST(mjd) + site.Longitude)
	if got := LMST(mjd, site); math.Abs(got-want) > 1e-12 {
		t.Errorf("expected LMST %.9f, got %.9f", want, got)
	}
	if got := LMST(mjd, site); got < 0 || got >= 2*math.Pi {
		t.Errorf("LMST out of range: %f", got)
	}
}
