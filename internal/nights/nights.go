// Night numbering from precomputed sunset boundaries.
package nights

import (
	"fmt"
	"math"
	"sort"

	"skysurvey-sim/internal/astro"
)

// Config controls how the boundary sweep is run.
type Config struct {
	StartMJD float64
	// Years is the survey horizon the index must cover.
	Years float64
	// PadDays extends the sweep past the nominal horizon.
	PadDays float64
	// StepDays is the sweep sampling interval.
	StepDays float64
	// Horizon is the sun altitude in radians that defines a sunset.
	Horizon float64
	Site    astro.Site
}

// Index holds the ordered sunset boundaries that number survey nights.
// An instant's night is the count of boundaries strictly before it:
// everything up to and including the first boundary is night 0, and each
// boundary starts the next night immediately after it.
type Index struct {
	start      float64
	boundaries []float64
}

// Build sweeps the survey horizon and collects sunset boundaries.
// Each sample contributes the most recent sunset at or before it; the
// collected instants are rounded to centi-days, deduplicated, and
// trimmed to the survey start.
func Build(cfg Config) (*Index, error) {
	if cfg.Years <= 0 {
		return nil, fmt.Errorf("nights: horizon must be positive, got %f years", cfg.Years)
	}
	if cfg.StepDays <= 0 {
		cfg.StepDays = 0.25
	}

	end := cfg.StartMJD + 365.25*cfg.Years + cfg.PadDays
	var raw []float64
	for mjd := cfg.StartMJD; mjd < end; mjd += cfg.StepDays {
		set := astro.PreviousSetting(mjd, cfg.Site, cfg.Horizon)
		if math.IsNaN(set) {
			return nil, fmt.Errorf("nights: no sunset within search span at MJD %f", mjd)
		}
		raw = append(raw, math.Round(set*100)/100)
	}

	sort.Float64s(raw)
	boundaries := raw[:0]
	var prev float64
	for i, b := range raw {
		if i > 0 && b == prev {
			continue
		}
		boundaries = append(boundaries, b)
		prev = b
	}
	// Drop boundaries before the survey start so its first night is 0.
	first := sort.SearchFloat64s(boundaries, cfg.StartMJD)
	boundaries = boundaries[first:]

	return &Index{start: cfg.StartMJD, boundaries: boundaries}, nil
}

// NightOf returns the night index for an instant: the number of sunset
// boundaries strictly before it.
func (ix *Index) NightOf(mjd float64) int {
	return sort.SearchFloat64s(ix.boundaries, mjd)
}

// Boundaries returns a copy of the sunset boundary instants.
func (ix *Index) Boundaries() []float64 {
	out := make([]float64, len(ix.boundaries))
	copy(out, ix.boundaries)
	return out
}

// Len returns how many boundaries the index holds.
func (ix *Index) Len() int { return len(ix.boundaries) }

// Start returns the survey start MJD the index was built for.
func (ix *Index) Start() float64 { return ix.start }
