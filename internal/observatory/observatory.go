// Package observatory drives the discrete-event telescope simulation.
// Callers pull it forward one visit attempt at a time; unobservable sky
// jumps the virtual clock instead of blocking.
package observatory

import (
	"context"
	"errors"
	"fmt"
	"math"

	"skysurvey-sim/internal/astro"
	"skysurvey-sim/internal/environment"
	"skysurvey-sim/internal/logging"
	"skysurvey-sim/internal/nights"
	"skysurvey-sim/internal/photometry"
	"skysurvey-sim/internal/skymodel"
	"skysurvey-sim/internal/slew"
	"skysurvey-sim/internal/visit"
)

const secPerDay = 86400.0

// ErrInvalidRequest marks visit requests rejected before any state
// mutation.
var ErrInvalidRequest = errors.New("invalid visit request")

// Pointing is the tracked target in equatorial coordinates, radians.
type Pointing struct {
	RA  float64
	Dec float64
}

// Observatory owns the simulation clock, pointing, filter, night index,
// and the cached status snapshot. It is not safe for concurrent use.
type Observatory struct {
	opts     Options
	prov     Providers
	nights   *nights.Index
	timeline *skymodel.Timeline

	clock    float64
	night    int
	pointing *Pointing
	filter   string
	status   *Status
}

// New builds an observatory, filling any provider left nil with its
// default implementation.
func New(opts Options, prov Providers) (*Observatory, error) {
	if err := opts.validate(); err != nil {
		return nil, fmt.Errorf("observatory options: %w", err)
	}
	ix, err := nights.Build(nights.Config{
		StartMJD: opts.StartMJD,
		Years:    opts.SurveyYears,
		PadDays:  opts.PadDays,
		Horizon:  opts.NightHorizon,
		Site:     opts.Site,
	})
	if err != nil {
		return nil, fmt.Errorf("night boundaries: %w", err)
	}
	span := opts.SpanDays()
	if prov.Sky == nil {
		prov.Sky = skymodel.New(opts.Nside, opts.Site)
	}
	if prov.Clouds == nil {
		prov.Clouds = environment.NewSyntheticClouds(opts.Seed, opts.StartMJD, span)
	}
	if prov.Seeing == nil {
		prov.Seeing = environment.NewSyntheticSeeing(opts.Seed+1, opts.StartMJD, span)
	}
	if prov.Slews == nil {
		prov.Slews = slew.NewGrid(opts.Telescope, 0)
	}
	var down skymodel.DownChecker
	if prov.Down != nil {
		down = prov.Down
	}
	o := &Observatory{
		opts:     opts,
		prov:     prov,
		nights:   ix,
		timeline: skymodel.NewTimeline(ix, down, opts.Site, span, opts.TimelineStepDays),
		clock:    opts.StartMJD,
	}
	o.night = ix.NightOf(o.clock)
	return o, nil
}

// Clock returns the current simulation instant in MJD.
func (o *Observatory) Clock() float64 { return o.clock }

// Night returns the current night index.
func (o *Observatory) Night() int { return o.night }

// Filter returns the mounted filter, or "" when parked.
func (o *Observatory) Filter() string { return o.filter }

// Pointing returns a copy of the tracked target, or nil when parked.
func (o *Observatory) Pointing() *Pointing {
	if o.pointing == nil {
		return nil
	}
	p := *o.pointing
	return &p
}

// Options returns the active configuration.
func (o *Observatory) Options() Options { return o.opts }

// Nights returns the precomputed night boundary index.
func (o *Observatory) Nights() *nights.Index { return o.nights }

// AdvanceTo moves the clock forward and recomputes the night index.
func (o *Observatory) AdvanceTo(mjd float64) error {
	if mjd < o.clock {
		return fmt.Errorf("cannot move clock backward from %f to %f", o.clock, mjd)
	}
	o.clock = mjd
	o.night = o.nights.NightOf(mjd)
	return nil
}

// Park clears the pointing, filter, and cached status snapshot.
func (o *Observatory) Park() {
	o.pointing = nil
	o.filter = ""
	o.status = nil
}

// AttemptObserve runs one visit attempt to completion. On success the
// record is returned and the clock lands at the end of the visit. When
// the sky is unobservable the telescope parks, the clock jumps to the
// returned rejection's NextMJD, and both record and error are nil.
// Invalid requests error without touching any state.
func (o *Observatory) AttemptObserve(ctx context.Context, req *visit.Request) (*visit.Record, *visit.Rejection, error) {
	log := logging.FromContext(ctx)
	if err := o.validateRequest(req); err != nil {
		return nil, nil, err
	}

	entryAlt, entryAz := astro.EquatorialToHorizontal(req.RA, req.Dec, o.clock, o.opts.Site)
	filterChange, slewTime := o.slewCost(entryAlt, entryAz, req.Filter)
	totalSec := filterChange + slewTime +
		req.ExpTime +
		float64(req.NExp-1)*o.opts.ReadoutSec +
		float64(req.NExp)*o.opts.ShutterSec
	gate := o.clock + totalSec/secPerDay

	if next, reason, fallback := o.checkMJD(gate); reason != "" {
		rej := &visit.Rejection{
			RequestID: req.ID,
			FieldID:   req.FieldID,
			Filter:    req.Filter,
			Reason:    reason,
			MJD:       o.clock,
			NextMJD:   next,
			Night:     o.night,
			Fallback:  fallback,
			Timestamp: astro.MJDToTime(o.clock),
		}
		o.Park()
		o.clock = next
		o.night = o.nights.NightOf(next)
		if fallback {
			log.Warn("dark timeline exhausted, falling back to a fixed jump",
				"mjd", rej.MJD, "next_mjd", next, "reason", reason)
		} else {
			log.Debug("visit rejected", "reason", reason, "mjd", rej.MJD, "next_mjd", next)
		}
		return nil, rej, nil
	}

	wasParked := o.pointing == nil
	start := o.clock + (filterChange+slewTime)/secPerDay
	o.clock = start
	o.pointing = &Pointing{RA: req.RA, Dec: req.Dec}
	o.filter = req.Filter
	o.night = o.nights.NightOf(start)
	if wasParked {
		o.refreshStatus()
	}
	rec := o.buildRecord(req, start, entryAlt, entryAz, filterChange, slewTime)
	o.clock = gate
	o.night = o.nights.NightOf(gate)
	log.Debug("visit committed",
		"field", req.FieldID, "filter", req.Filter, "mjd", rec.MJD, "night", rec.Night)
	return rec, nil, nil
}

func (o *Observatory) validateRequest(req *visit.Request) error {
	if req == nil {
		return fmt.Errorf("%w: nil request", ErrInvalidRequest)
	}
	if req.NExp < 1 {
		return fmt.Errorf("%w: exposure count %d", ErrInvalidRequest, req.NExp)
	}
	if req.ExpTime <= 0 {
		return fmt.Errorf("%w: exposure time %f", ErrInvalidRequest, req.ExpTime)
	}
	if math.IsNaN(req.RA) || math.IsInf(req.RA, 0) || math.IsNaN(req.Dec) || math.IsInf(req.Dec, 0) {
		return fmt.Errorf("%w: non-finite coordinates", ErrInvalidRequest)
	}
	if !o.mounted(req.Filter) {
		return fmt.Errorf("%w: filter %q not mounted", ErrInvalidRequest, req.Filter)
	}
	return nil
}

func (o *Observatory) mounted(filter string) bool {
	for _, f := range o.opts.Filters {
		if f == filter {
			return true
		}
	}
	return false
}

// slewCost returns the filter change and slew seconds charged before the
// exposure. A parked telescope repositions for free; a filter change
// absorbs the slew entirely, a simplification of the cost model rather
// than hardware behavior.
func (o *Observatory) slewCost(targetAlt, targetAz float64, targetFilter string) (filterChange, slewTime float64) {
	if o.pointing == nil {
		return 0, 0
	}
	if targetFilter != o.filter {
		return o.opts.FilterChangeSec, 0
	}
	curAlt, curAz := astro.EquatorialToHorizontal(o.pointing.RA, o.pointing.Dec, o.clock, o.opts.Site)
	if curAlt == targetAlt && curAz == targetAz {
		// Interpolators are unreliable at zero displacement.
		return 0, o.opts.MinSlewSec
	}
	return 0, o.prov.Slews.Estimate(curAlt, curAz, targetAlt, targetAz)
}

// checkMJD decides whether an exposure ending at mjd can proceed. A
// non-empty reason carries the jump target; fallback marks a jump taken
// after the dark timeline ran out.
func (o *Observatory) checkMJD(mjd float64) (next float64, reason string, fallback bool) {
	if o.prov.Clouds.Cloud(mjd) >= o.opts.CloudLimit {
		return mjd + o.opts.CloudStepDays, visit.ReasonClouds, false
	}
	sunUp := astro.SunAlt(mjd, o.opts.Site) > o.opts.SunLimit
	down := o.isDown(o.nights.NightOf(mjd))
	if !sunUp && !down {
		return 0, "", false
	}
	reason = visit.ReasonDaylight
	if !sunUp {
		reason = visit.ReasonDowntime
	}
	if next, ok := o.timeline.NextDark(mjd, o.opts.SunLimit); ok {
		return next, reason, false
	}
	return mjd + o.opts.FallbackStepDays, reason, true
}

func (o *Observatory) isDown(night int) bool {
	return o.prov.Down != nil && o.prov.Down.IsDown(night)
}

// buildRecord enriches the request with costs and sky conditions. Sky
// brightness is evaluated fresh at the exposure start; seeing, airmass,
// clouds, and sun/moon altitudes come from the cached status snapshot.
func (o *Observatory) buildRecord(req *visit.Request, start, entryAlt, entryAz, filterChange, slewTime float64) *visit.Record {
	st := o.Status()
	pix := o.prov.Sky.Pixel(req.RA, req.Dec)
	rec := &visit.Record{
		ID:               req.ID,
		FieldID:          req.FieldID,
		Filter:           req.Filter,
		SurveyID:         req.SurveyID,
		BlockID:          req.BlockID,
		Note:             req.Note,
		RA:               req.RA,
		Dec:              req.Dec,
		ExpTime:          req.ExpTime,
		NExp:             req.NExp,
		MJD:              start,
		Night:            o.night,
		Alt:              entryAlt,
		Az:               entryAz,
		SlewTime:         slewTime,
		FilterChangeTime: filterChange,
		SkyBrightness:    o.prov.Sky.Magnitude(start, pix, req.Filter),
		FWHM500:          st.FWHM500,
		FWHMEff:          st.FWHMEff[req.Filter][pix],
		FWHMGeom:         st.FWHMGeom[req.Filter][pix],
		Airmass:          st.Airmass[pix],
		Clouds:           st.Clouds,
		SunAlt:           st.SunMoon.SunAlt,
		MoonAlt:          st.SunMoon.MoonAlt,
		Timestamp:        astro.MJDToTime(start),
	}
	m5, _ := photometry.M5FlatSED(req.Filter, rec.SkyBrightness, rec.FWHMEff, req.ExpTime, rec.Airmass)
	rec.FiveSigmaDepth = m5
	return rec
}
