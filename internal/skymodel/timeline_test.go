package skymodel

import (
	"testing"

	"skysurvey-sim/internal/astro"
	"skysurvey-sim/internal/nights"
)

type downNights map[int]bool

func (d downNights) IsDown(night int) bool { return d[night] }

func buildIndex(t *testing.T) *nights.Index {
	t.Helper()
	ix, err := nights.Build(nights.Config{
		StartMJD: startMJD,
		Years:    0.03,
		PadDays:  2,
		StepDays: 0.25,
		Horizon:  astro.Radians(-0.8333),
		Site:     astro.CerroPachon(),
	})
	if err != nil {
		t.Fatalf("build night index: %v", err)
	}
	return ix
}

func TestNextDarkFindsDarkness(t *testing.T) {
	ix := buildIndex(t)
	tl := NewTimeline(ix, nil, astro.CerroPachon(), 11, 0)
	limit := astro.Radians(-13)
	got, ok := tl.NextDark(startMJD, limit)
	if !ok {
		t.Fatal("expected a dark instant")
	}
	if got <= startMJD {
		t.Fatalf("dark instant %f not after %f", got, startMJD)
	}
	if alt := astro.SunAlt(got, astro.CerroPachon()); alt > limit {
		t.Errorf("sun still up at %f: altitude %f", got, astro.Degrees(alt))
	}
	// Same evening, not days later.
	if got-startMJD > 1 {
		t.Errorf("dark instant %f unexpectedly far from start", got)
	}
}

func TestNextDarkStrictlyAfter(t *testing.T) {
	ix := buildIndex(t)
	tl := NewTimeline(ix, nil, astro.CerroPachon(), 11, 0)
	limit := astro.Radians(-13)
	first, ok := tl.NextDark(startMJD, limit)
	if !ok {
		t.Fatal("expected a dark instant")
	}
	// first is an exact timeline sample; the next query must move past it.
	second, ok := tl.NextDark(first, limit)
	if !ok {
		t.Fatal("expected a later dark instant")
	}
	if second <= first {
		t.Errorf("expected strictly later instant, got %f after %f", second, first)
	}
}

func TestNextDarkSkipsDownNights(t *testing.T) {
	ix := buildIndex(t)
	// The evening after the start belongs to night 1 (one sunset passed).
	tl := NewTimeline(ix, downNights{1: true}, astro.CerroPachon(), 11, 0)
	limit := astro.Radians(-13)
	got, ok := tl.NextDark(startMJD, limit)
	if !ok {
		t.Fatal("expected a dark instant")
	}
	if night := ix.NightOf(got); night != 2 {
		t.Errorf("expected the jump to land in night 2, got night %d", night)
	}
	if alt := astro.SunAlt(got, astro.CerroPachon()); alt > limit {
		t.Errorf("sun still up at %f", got)
	}
}

func TestNextDarkExhausted(t *testing.T) {
	ix := buildIndex(t)
	tl := NewTimeline(ix, nil, astro.CerroPachon(), 11, 0)
	if _, ok := tl.NextDark(tl.End(), astro.Radians(-13)); ok {
		t.Error("expected exhaustion at the end of the timeline")
	}
	if _, ok := tl.NextDark(tl.End()+5, astro.Radians(-13)); ok {
		t.Error("expected exhaustion past the end of the timeline")
	}
}

func TestTimelineNightsMonotone(t *testing.T) {
	ix := buildIndex(t)
	tl := NewTimeline(ix, nil, astro.CerroPachon(), 11, 0)
	for i := 1; i < tl.Len(); i++ {
		if tl.nights[i] < tl.nights[i-1] {
			t.Fatalf("night index decreased at sample %d", i)
		}
	}
}
