package survey

import "skysurvey-sim/internal/astro"

// altTieBand is the altitude window, in radians, within which two fields
// count as equally good and the visit history breaks the tie.
var altTieBand = astro.Radians(2)

// Scheduler picks the next field to observe: the highest field above the
// altitude limit, preferring the least recently visited among near ties.
type Scheduler struct {
	altLimit float64
}

// NewScheduler creates a scheduler with the given altitude limit in radians.
func NewScheduler(altLimit float64) *Scheduler {
	return &Scheduler{altLimit: altLimit}
}

// Pick scans the field list at the given instant. Returns nil when no
// field is above the limit.
func (s *Scheduler) Pick(fields []*Field, mjd float64, site astro.Site) *Field {
	var best *Field
	var bestAlt float64
	for _, f := range fields {
		alt, _ := astro.EquatorialToHorizontal(f.RA, f.Dec, mjd, site)
		if alt <= s.altLimit {
			continue
		}
		if best == nil {
			best, bestAlt = f, alt
			continue
		}
		switch {
		case alt > bestAlt+altTieBand:
			best, bestAlt = f, alt
		case alt > bestAlt-altTieBand && f.LastVisit < best.LastVisit:
			best, bestAlt = f, alt
		}
	}
	return best
}
