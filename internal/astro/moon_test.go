package astro

import (
	"math"
	"testing"
	"time"
)

func TestMoonPhaseExtremes(t *testing.T) {
	// Total lunar eclipse of 2000-01-21, the moon is exactly full.
	full := TimeToMJD(time.Date(2000, 1, 21, 4, 40, 0, 0, time.UTC))
	if phase := MoonPhase(full); phase < 90 {
		t.Errorf("expected near-full phase, got %f", phase)
	}
	// New moon of 2000-01-06.
	new := TimeToMJD(time.Date(2000, 1, 6, 18, 14, 0, 0, time.UTC))
	if phase := MoonPhase(new); phase > 10 {
		t.Errorf("expected near-new phase, got %f", phase)
	}
}

func TestMoonPhaseRange(t *testing.T) {
	for mjd := 59853.0; mjd < 59883.0; mjd++ {
		phase := MoonPhase(mjd)
		if phase < 0 || phase > 100 {
			t.Fatalf("phase out of range at %f: %f", mjd, phase)
		}
	}
}

func TestMoonRADecRange(t *testing.T) {
	for mjd := 59853.0; mjd < 59860.0; mjd += 0.37 {
		ra, dec := MoonRADec(mjd)
		if ra < 0 || ra >= 2*math.Pi {
			t.Fatalf("RA out of range at %f: %f", mjd, ra)
		}
		if math.Abs(dec) > Radians(29) {
			t.Fatalf("declination beyond lunar extremes at %f: %f", mjd, dec)
		}
	}
}
