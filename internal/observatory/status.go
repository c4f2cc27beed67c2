package observatory

import (
	"math"

	"skysurvey-sim/internal/astro"
	"skysurvey-sim/internal/environment"
	"skysurvey-sim/internal/skymodel"
)

// Status is the cached snapshot of sky and telescope state at one
// instant. Per-pixel maps follow the sky model's healpix tessellation;
// pixels below the altitude limit are NaN.
type Status struct {
	MJD      float64
	Night    int
	LMST     float64
	Filter   string
	Pointing *Pointing

	SkyBrightness map[string][]float64
	FWHM500       float64
	FWHMEff       map[string][]float64
	FWHMGeom      map[string][]float64
	Airmass       []float64
	// SlewTimes holds seconds from the current pointing to every pixel
	// center, nil while parked.
	SlewTimes []float64

	Clouds  float64
	SunMoon skymodel.SunMoon

	// Twilight boundaries at the configured twilight horizon.
	NextTwilightStart float64
	NextTwilightEnd   float64
	LastTwilightEnd   float64
}

// Status returns the cached snapshot, computing one first if the cache is
// empty. The cache refreshes only when a commit leaves the parked state,
// so consecutive tracking visits all see conditions from that transition
// instant.
func (o *Observatory) Status() *Status {
	if o.status == nil {
		o.refreshStatus()
	}
	return o.status
}

// refreshStatus rebuilds the snapshot at the current clock.
func (o *Observatory) refreshStatus() {
	mjd := o.clock
	s := &Status{
		MJD:    mjd,
		Night:  o.night,
		LMST:   astro.LMST(mjd, o.opts.Site),
		Filter: o.filter,
	}
	s.SunMoon = o.prov.Sky.SunMoonGeometry(mjd)
	s.Clouds = o.prov.Clouds.Cloud(mjd)
	s.FWHM500 = o.prov.Seeing.FWHM500(mjd)
	s.SkyBrightness = o.prov.Sky.Magnitudes(mjd, o.opts.Filters)
	s.Airmass = o.prov.Sky.AirmassMap(mjd, o.opts.AltLimit)

	alt, az := o.prov.Sky.HorizonMap(mjd)
	s.FWHMEff = make(map[string][]float64, len(o.opts.Filters))
	s.FWHMGeom = make(map[string][]float64, len(o.opts.Filters))
	for _, f := range o.opts.Filters {
		wl := environment.EffectiveWavelengths[f]
		eff := make([]float64, len(s.Airmass))
		geom := make([]float64, len(s.Airmass))
		for p, x := range s.Airmass {
			if math.IsNaN(x) {
				eff[p], geom[p] = math.NaN(), math.NaN()
				continue
			}
			eff[p], geom[p] = o.opts.Seeing.Convert(s.FWHM500, x, wl)
		}
		s.FWHMEff[f] = eff
		s.FWHMGeom[f] = geom
	}

	if o.pointing != nil {
		p := *o.pointing
		s.Pointing = &p
		curAlt, curAz := astro.EquatorialToHorizontal(p.RA, p.Dec, mjd, o.opts.Site)
		times := make([]float64, len(alt))
		for i := range times {
			if alt[i] <= o.opts.AltLimit {
				times[i] = math.NaN()
				continue
			}
			times[i] = o.prov.Slews.Estimate(curAlt, curAz, alt[i], az[i])
		}
		s.SlewTimes = times
	}

	s.NextTwilightStart = astro.NextSetting(mjd, o.opts.Site, o.opts.TwilightHorizon)
	s.NextTwilightEnd = astro.NextRising(mjd, o.opts.Site, o.opts.TwilightHorizon)
	s.LastTwilightEnd = astro.PreviousRising(mjd, o.opts.Site, o.opts.TwilightHorizon)
	o.status = s
}
