package skymodel

import (
	"sort"

	"skysurvey-sim/internal/astro"
	"skysurvey-sim/internal/nights"
)

// DefaultTimelineStep samples the availability timeline every 15 minutes.
const DefaultTimelineStep = 15.0 / 60.0 / 24.0

// DownChecker reports whether a night is lost to downtime.
type DownChecker interface {
	IsDown(night int) bool
}

// Timeline is a precomputed sweep of sun altitude and night availability
// across the whole survey, used to jump the clock over bright or closed
// stretches without searching.
type Timeline struct {
	mjds    []float64
	sunAlts []float64
	nights  []int
	good    []bool
}

// NewTimeline samples the span starting at the index start every stepDays.
// A step of zero or less selects the default.
func NewTimeline(ix *nights.Index, down DownChecker, site astro.Site, spanDays, stepDays float64) *Timeline {
	if stepDays <= 0 {
		stepDays = DefaultTimelineStep
	}
	n := int(spanDays/stepDays) + 1
	t := &Timeline{
		mjds:    make([]float64, n),
		sunAlts: make([]float64, n),
		nights:  make([]int, n),
		good:    make([]bool, n),
	}
	start := ix.Start()
	for i := 0; i < n; i++ {
		mjd := start + float64(i)*stepDays
		night := ix.NightOf(mjd)
		t.mjds[i] = mjd
		t.sunAlts[i] = astro.SunAlt(mjd, site)
		t.nights[i] = night
		t.good[i] = down == nil || !down.IsDown(night)
	}
	return t
}

// Len returns the number of samples.
func (t *Timeline) Len() int { return len(t.mjds) }

// End returns the last sampled instant.
func (t *Timeline) End() float64 { return t.mjds[len(t.mjds)-1] }

// NextDark returns the first sampled instant strictly after mjd where the
// sun sits at or below sunLimit and the night is not lost to downtime.
// The second return is false when the timeline is exhausted.
func (t *Timeline) NextDark(after, sunLimit float64) (float64, bool) {
	i := sort.SearchFloat64s(t.mjds, after)
	for ; i < len(t.mjds); i++ {
		if t.mjds[i] <= after {
			continue
		}
		if t.sunAlts[i] <= sunLimit && t.good[i] {
			return t.mjds[i], true
		}
	}
	return 0, false
}
