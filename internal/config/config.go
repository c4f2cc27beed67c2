// YAML config loader with CUE validation integration
package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"skysurvey-sim/internal/astro"
	"skysurvey-sim/internal/downtime"
	"skysurvey-sim/internal/observatory"
)

// Site places the telescope on the Earth, angles in degrees.
type Site struct {
	Name         string  `yaml:"name"`
	LatitudeDeg  float64 `yaml:"latitude_deg"`
	LongitudeDeg float64 `yaml:"longitude_deg"`
	ElevationM   float64 `yaml:"elevation_m"`
}

// Observatory carries the visit gating and cost knobs, angles in degrees.
type Observatory struct {
	StartMJD           float64  `yaml:"start_mjd"`
	SurveyYears        float64  `yaml:"survey_years"`
	PadDays            float64  `yaml:"pad_days"`
	NightHorizonDeg    float64  `yaml:"night_horizon_deg"`
	SunLimitDeg        float64  `yaml:"sun_limit_deg"`
	TwilightHorizonDeg float64  `yaml:"twilight_horizon_deg"`
	AltLimitDeg        float64  `yaml:"alt_limit_deg"`
	CloudLimit         float64  `yaml:"cloud_limit"`
	CloudStepMin       float64  `yaml:"cloud_step_min"`
	ReadoutSec         float64  `yaml:"readout_sec"`
	ShutterSec         float64  `yaml:"shutter_sec"`
	FilterChangeSec    float64  `yaml:"filter_change_sec"`
	MinSlewSec         float64  `yaml:"min_slew_sec"`
	Filters            []string `yaml:"filters"`
	Nside              int      `yaml:"nside"`
	Seed               int64    `yaml:"seed"`
}

// Environment points at recorded weather inputs. Empty paths fall back
// to the seeded synthetic generators.
type Environment struct {
	CloudDB  string `yaml:"cloud_db"`
	SeeingDB string `yaml:"seeing_db"`
}

// Downtime lists scheduled closures and toggles generated outages.
type Downtime struct {
	Scheduled   []downtime.Window `yaml:"scheduled"`
	Unscheduled bool              `yaml:"unscheduled"`
}

// Run controls the survey driver cadence.
type Run struct {
	MaxNights   int `yaml:"max_nights"`
	StatusEvery int `yaml:"status_every"`
	RotateEvery int `yaml:"rotate_every"`
	BatchSize   int `yaml:"batch_size"`
}

// SurveyConfig is the root configuration for the site, observatory,
// environment, downtime calendar, and observing program.
type SurveyConfig struct {
	Site        Site        `yaml:"site"`
	Observatory Observatory `yaml:"observatory"`
	Environment Environment `yaml:"environment"`
	Downtime    Downtime    `yaml:"downtime"`
	Run         Run         `yaml:"run"`
	Program     string      `yaml:"program"`
	ProgramFile string      `yaml:"program_file"`
}

// Load reads the YAML config, validating it against the CUE schema first.
func Load(configPath, cueSchemaPath string) (*SurveyConfig, error) {
	if err := ValidateWithCue(configPath, cueSchemaPath); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}
	var cfg SurveyConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Options maps the degree-based YAML fields onto the baseline
// observatory options. Zero fields keep their defaults.
func (c *SurveyConfig) Options() observatory.Options {
	opts := observatory.DefaultOptions()
	if c.Site.LatitudeDeg != 0 || c.Site.LongitudeDeg != 0 {
		opts.Site = astro.Site{
			Latitude:  astro.Radians(c.Site.LatitudeDeg),
			Longitude: astro.Radians(c.Site.LongitudeDeg),
			Elevation: c.Site.ElevationM,
		}
	}
	o := c.Observatory
	if o.StartMJD != 0 {
		opts.StartMJD = o.StartMJD
	}
	if o.SurveyYears != 0 {
		opts.SurveyYears = o.SurveyYears
	}
	if o.PadDays != 0 {
		opts.PadDays = o.PadDays
	}
	if o.NightHorizonDeg != 0 {
		opts.NightHorizon = astro.Radians(o.NightHorizonDeg)
	}
	if o.SunLimitDeg != 0 {
		opts.SunLimit = astro.Radians(o.SunLimitDeg)
	}
	if o.TwilightHorizonDeg != 0 {
		opts.TwilightHorizon = astro.Radians(o.TwilightHorizonDeg)
	}
	if o.AltLimitDeg != 0 {
		opts.AltLimit = astro.Radians(o.AltLimitDeg)
	}
	if o.CloudLimit != 0 {
		opts.CloudLimit = o.CloudLimit
	}
	if o.CloudStepMin != 0 {
		opts.CloudStepDays = o.CloudStepMin / (24 * 60)
	}
	if o.ReadoutSec != 0 {
		opts.ReadoutSec = o.ReadoutSec
	}
	if o.ShutterSec != 0 {
		opts.ShutterSec = o.ShutterSec
	}
	if o.FilterChangeSec != 0 {
		opts.FilterChangeSec = o.FilterChangeSec
	}
	if o.MinSlewSec != 0 {
		opts.MinSlewSec = o.MinSlewSec
	}
	if len(o.Filters) > 0 {
		opts.Filters = o.Filters
	}
	if o.Nside != 0 {
		opts.Nside = o.Nside
	}
	if o.Seed != 0 {
		opts.Seed = o.Seed
	}
	return opts
}

// DowntimeSet assembles the closure calendar, merging generated outages
// into the scheduled windows when enabled. The seed should come from the
// resolved observatory options so repeat runs lose the same nights.
func (c *SurveyConfig) DowntimeSet(seed int64, totalNights int) *downtime.Set {
	set := downtime.NewSet(c.Downtime.Scheduled...)
	if c.Downtime.Unscheduled {
		set.Union(downtime.Generate(seed, totalNights))
	}
	return set
}
