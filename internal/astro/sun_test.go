package astro

import (
	"math"
	"testing"
	"time"

	"github.com/nathan-osman/go-sunrise"
)

func TestSunDecAtSeasons(t *testing.T) {
	tests := []struct {
		name    string
		instant time.Time
		wantDec float64
		tol     float64
	}{
		{"vernal equinox", time.Date(2000, 3, 20, 7, 35, 0, 0, time.UTC), 0, Radians(0.5)},
		{"june solstice", time.Date(2000, 6, 21, 1, 48, 0, 0, time.UTC), Radians(23.437), Radians(0.3)},
		{"december solstice", time.Date(2000, 12, 21, 13, 37, 0, 0, time.UTC), Radians(-23.437), Radians(0.3)},
	}
	for _, tt := range tests {
		_, dec := SunRADec(TimeToMJD(tt.instant))
		if math.Abs(dec-tt.wantDec) > tt.tol {
			t.Errorf("%s: expected dec %.4f, got %.4f", tt.name, tt.wantDec, dec)
		}
	}
}

func TestSunRAAtVernalEquinox(t *testing.T) {
	ra, _ := SunRADec(TimeToMJD(time.Date(2000, 3, 20, 7, 35, 0, 0, time.UTC)))
	// RA is near zero, allow for wrap.
	d := math.Min(ra, 2*math.Pi-ra)
	if d > Radians(1) {
		t.Errorf("expected RA near 0 at the equinox, got %.4f", ra)
	}
}

func TestCrossingsAgainstSunriseLib(t *testing.T) {
	site := CerroPachon()
	lat, lon := Degrees(site.Latitude), Degrees(site.Longitude)
	horizon := Radians(-0.8333)
	tol := 5.0 / 60.0 / 24.0

	days := []struct {
		year  int
		month time.Month
		day   int
	}{
		{2022, time.October, 1},
		{2023, time.January, 15},
		{2023, time.June, 21},
	}
	for _, d := range days {
		rise, set := sunrise.SunriseSunset(lat, lon, d.year, d.month, d.day)
		if rise.IsZero() || set.IsZero() {
			t.Fatalf("sunrise lib returned zero time for %v", d)
		}
		riseMJD := TimeToMJD(rise)
		if got := NextRising(riseMJD-0.1, site, horizon); math.Abs(got-riseMJD) > tol {
			t.Errorf("%v: rising at %.5f, reference %.5f", d, got, riseMJD)
		}
		setMJD := TimeToMJD(set)
		if got := NextSetting(setMJD-0.1, site, horizon); math.Abs(got-setMJD) > tol {
			t.Errorf("%v: setting at %.5f, reference %.5f", d, got, setMJD)
		}
	}
}

func TestPreviousSettingPrecedes(t *testing.T) {
	site := CerroPachon()
	mjd := 59853.5
	set := PreviousSetting(mjd, site, Radians(-0.8333))
	if math.IsNaN(set) {
		t.Fatal("expected a setting within the search span")
	}
	if set > mjd {
		t.Errorf("previous setting %.5f after query instant %.5f", set, mjd)
	}
	if mjd-set > 1.1 {
		t.Errorf("previous setting unexpectedly old: %.5f", set)
	}
	// Just below the crossing the sun must be under the horizon.
	if alt := SunAlt(set+1e-4, site); alt > Radians(-0.8333)+1e-3 {
		t.Errorf("sun still above horizon after setting: %f", alt)
	}
}

func TestPreviousRisingBeforeSetting(t *testing.T) {
	site := CerroPachon()
	mjd := 59853.5
	set := PreviousSetting(mjd, site, 0)
	rise := PreviousRising(set, site, 0)
	if math.IsNaN(rise) || rise >= set {
		t.Errorf("expected rising before setting, got rise=%.5f set=%.5f", rise, set)
	}
	if set-rise > 1 {
		t.Errorf("daylight span too long: %f days", set-rise)
	}
}
