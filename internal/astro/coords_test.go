package astro

import (
	"math"
	"testing"
)

func TestZenithAltitude(t *testing.T) {
	site := CerroPachon()
	mjd := 59853.5
	// A source on the meridian at the site latitude sits at the zenith.
	ra := LMST(mjd, site)
	alt, _ := EquatorialToHorizontal(ra, site.Latitude, mjd, site)
	if math.Abs(alt-math.Pi/2) > 1e-6 {
		t.Errorf("expected zenith, got alt %.8f", alt)
	}
}

func TestHorizontalRoundTrip(t *testing.T) {
	site := CerroPachon()
	mjd := 59853.5
	tests := []struct{ ra, dec float64 }{
		{1.3, -0.6},
		{0.1, Radians(-30)},
		{5.9, Radians(10)},
		{3.2, Radians(-75)},
	}
	for _, tt := range tests {
		alt, az := EquatorialToHorizontal(tt.ra, tt.dec, mjd, site)
		ra, dec := HorizontalToEquatorial(alt, az, mjd, site)
		if math.Abs(ra-tt.ra) > 1e-9 || math.Abs(dec-tt.dec) > 1e-9 {
			t.Errorf("round trip (%.3f, %.3f) -> (%.9f, %.9f)", tt.ra, tt.dec, ra, dec)
		}
	}
}

func TestWesternHourAngleIsWest(t *testing.T) {
	site := CerroPachon()
	mjd := 59853.5
	// One hour past the meridian the source stands in the western half.
	ra := normalizeAngle(LMST(mjd, site) - Radians(15))
	_, az := EquatorialToHorizontal(ra, Radians(-10), mjd, site)
	if az <= math.Pi || az >= 2*math.Pi {
		t.Errorf("expected western azimuth, got %f", az)
	}
}

func TestAngularSeparation(t *testing.T) {
	if d := AngularSeparation(0, 0, math.Pi, 0); math.Abs(d-math.Pi) > 1e-12 {
		t.Errorf("antipodal separation: %f", d)
	}
	if d := AngularSeparation(1.1, 0.3, 1.1, 0.3); d > 1e-12 {
		t.Errorf("self separation: %f", d)
	}
	if d := AngularSeparation(0, 0, Radians(1), 0); math.Abs(d-Radians(1)) > 1e-9 {
		t.Errorf("one degree separation: %f", Degrees(d))
	}
}
