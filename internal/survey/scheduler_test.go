package survey

import (
	"testing"

	"skysurvey-sim/internal/astro"
)

func TestSchedulerPickHighest(t *testing.T) {
	site := astro.CerroPachon()
	mjd := 59853.5
	lmst := astro.LMST(mjd, site)

	zenith := &Field{ID: 1, Name: "zenith", RA: lmst, Dec: site.Latitude}
	low := &Field{ID: 2, Name: "low", RA: lmst + astro.Radians(60), Dec: site.Latitude + astro.Radians(30)}

	s := NewScheduler(astro.Radians(20))
	got := s.Pick([]*Field{low, zenith}, mjd, site)
	if got == nil {
		t.Fatalf("expected a pick")
	}
	if got.ID != zenith.ID {
		t.Fatalf("expected the zenith field, got %q", got.Name)
	}
}

func TestSchedulerPickPrefersStale(t *testing.T) {
	site := astro.CerroPachon()
	mjd := 59853.5
	lmst := astro.LMST(mjd, site)

	fresh := &Field{ID: 1, Name: "fresh", RA: lmst, Dec: site.Latitude, LastVisit: 59853.4}
	stale := &Field{ID: 2, Name: "stale", RA: lmst, Dec: site.Latitude, LastVisit: 59850.0}

	s := NewScheduler(astro.Radians(20))
	if got := s.Pick([]*Field{fresh, stale}, mjd, site); got.ID != stale.ID {
		t.Fatalf("expected the stale field, got %q", got.Name)
	}
	if got := s.Pick([]*Field{stale, fresh}, mjd, site); got.ID != stale.ID {
		t.Fatalf("order should not matter, got %q", got.Name)
	}
}

func TestSchedulerPickNothingVisible(t *testing.T) {
	site := astro.CerroPachon()
	north := &Field{ID: 1, Name: "north", RA: 0, Dec: astro.Radians(80)}

	s := NewScheduler(astro.Radians(20))
	if got := s.Pick([]*Field{north}, 59853.5, site); got != nil {
		t.Fatalf("expected no pick for a field below the horizon, got %q", got.Name)
	}
}
