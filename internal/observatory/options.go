package observatory

import (
	"fmt"

	"skysurvey-sim/internal/astro"
	"skysurvey-sim/internal/environment"
	"skysurvey-sim/internal/photometry"
	"skysurvey-sim/internal/skymodel"
	"skysurvey-sim/internal/slew"
)

// Options configures the simulated observatory. Angles are radians;
// duration fields carry their unit in the name.
type Options struct {
	StartMJD    float64
	SurveyYears float64
	PadDays     float64

	// NightHorizon is the sun altitude defining night boundaries.
	// SunLimit is the darkness required before exposing. Twilight
	// boundaries reported in status use TwilightHorizon.
	NightHorizon    float64
	SunLimit        float64
	TwilightHorizon float64

	AltLimit         float64
	CloudLimit       float64
	CloudStepDays    float64
	FallbackStepDays float64
	TimelineStepDays float64

	ReadoutSec      float64
	ShutterSec      float64
	FilterChangeSec float64
	MinSlewSec      float64

	Filters []string
	Nside   int
	Seed    int64

	Site      astro.Site
	Telescope slew.Telescope
	Seeing    environment.Model
}

// DefaultOptions returns the baseline survey configuration.
func DefaultOptions() Options {
	return Options{
		StartMJD:         59853.5,
		SurveyYears:      13,
		PadDays:          50,
		NightHorizon:     astro.Radians(-0.8333),
		SunLimit:         astro.Radians(-13),
		TwilightHorizon:  astro.Radians(-18),
		AltLimit:         astro.Radians(20),
		CloudLimit:       0.699,
		CloudStepDays:    15.0 / 60.0 / 24.0,
		FallbackStepDays: 0.25,
		TimelineStepDays: skymodel.DefaultTimelineStep,
		ReadoutSec:       2,
		ShutterSec:       1,
		FilterChangeSec:  140,
		MinSlewSec:       2,
		Filters:          []string{"u", "g", "r", "i", "z", "y"},
		Nside:            32,
		Seed:             42,
		Site:             astro.CerroPachon(),
		Telescope:        slew.Default(),
		Seeing:           environment.DefaultModel(),
	}
}

// SpanDays is the full sweep the observatory precomputes tables for.
func (o Options) SpanDays() float64 {
	return o.SurveyYears*365.25 + o.PadDays
}

func (o Options) validate() error {
	if o.SurveyYears <= 0 {
		return fmt.Errorf("survey length must be positive, got %f years", o.SurveyYears)
	}
	if o.Nside < 1 {
		return fmt.Errorf("nside must be at least 1, got %d", o.Nside)
	}
	if len(o.Filters) == 0 {
		return fmt.Errorf("at least one filter must be mounted")
	}
	for _, f := range o.Filters {
		if !photometry.Known(f) {
			return fmt.Errorf("filter %q has no photometric coefficients", f)
		}
	}
	if o.CloudLimit <= 0 || o.CloudLimit > 1 {
		return fmt.Errorf("cloud limit must be in (0, 1], got %f", o.CloudLimit)
	}
	return nil
}

// CloudProvider yields the cloud fraction in [0, 1] at an instant.
type CloudProvider interface {
	Cloud(mjd float64) float64
}

// SeeingProvider yields the zenith FWHM at 500 nm in arcseconds.
type SeeingProvider interface {
	FWHM500(mjd float64) float64
}

// SlewEstimator yields seconds between two alt/az pointings.
type SlewEstimator interface {
	Estimate(fromAlt, fromAz, toAlt, toAz float64) float64
}

// DownProvider reports whether a night is lost to downtime.
type DownProvider interface {
	IsDown(night int) bool
}

// Providers injects the environment models. Nil fields get defaults:
// seeded synthetic clouds and seeing, a precomputed slew grid, an empty
// downtime calendar, and a sky model at the configured nside.
type Providers struct {
	Clouds CloudProvider
	Seeing SeeingProvider
	Slews  SlewEstimator
	Down   DownProvider
	Sky    *skymodel.Model
}
