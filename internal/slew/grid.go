package slew

import (
	"math"
	"sort"

	"skysurvey-sim/internal/astro"
)

// Grid answers slew time queries from precomputed single-axis matrices,
// one over altitude and one over azimuth, interpolated bilinearly. The
// estimate is the slower of the two axes and never drops below the
// readout floor.
type Grid struct {
	tel      Telescope
	altVals  []float64
	azVals   []float64
	altTimes [][]float64
	azTimes  [][]float64
}

// NewGrid precomputes the matrices at the given angular step in radians.
// A step of zero or less selects a one degree grid.
func NewGrid(tel Telescope, step float64) *Grid {
	if step <= 0 {
		step = astro.Radians(1.0)
	}
	g := &Grid{
		tel:     tel,
		altVals: axisValues(tel.MinAlt, tel.MaxAlt, step),
		azVals:  axisValues(0, 2*math.Pi, step),
	}
	midAlt := (tel.MinAlt + tel.MaxAlt) / 2
	g.altTimes = buildMatrix(g.altVals, func(a, b float64) float64 {
		return tel.CalcSlewTime(a, 0, "", b, 0, "")
	})
	g.azTimes = buildMatrix(g.azVals, func(a, b float64) float64 {
		return tel.CalcSlewTime(midAlt, a, "", midAlt, b, "")
	})
	return g
}

// Estimate interpolates the slew time between two pointings.
func (g *Grid) Estimate(fromAlt, fromAz, toAlt, toAz float64) float64 {
	altTime := bilinear(g.altTimes, g.altVals, fromAlt, toAlt)
	azTime := bilinear(g.azTimes, g.azVals, normalizeAz(fromAz), normalizeAz(toAz))
	return math.Max(math.Max(altTime, azTime), g.tel.Readout)
}

func axisValues(lo, hi, step float64) []float64 {
	var vals []float64
	for v := lo; v < hi; v += step {
		vals = append(vals, v)
	}
	return append(vals, hi)
}

func buildMatrix(vals []float64, slew func(a, b float64) float64) [][]float64 {
	m := make([][]float64, len(vals))
	for i, a := range vals {
		row := make([]float64, len(vals))
		for j, b := range vals {
			row[j] = slew(a, b)
		}
		m[i] = row
	}
	return m
}

// fracIndex locates x between two axis nodes, clamping outside the range.
func fracIndex(vals []float64, x float64) (int, float64) {
	n := len(vals)
	if x <= vals[0] {
		return 0, 0
	}
	if x >= vals[n-1] {
		return n - 2, 1
	}
	i := sort.SearchFloat64s(vals, x) - 1
	return i, (x - vals[i]) / (vals[i+1] - vals[i])
}

func bilinear(m [][]float64, vals []float64, from, to float64) float64 {
	i, fi := fracIndex(vals, from)
	j, fj := fracIndex(vals, to)
	return m[i][j]*(1-fi)*(1-fj) +
		m[i][j+1]*(1-fi)*fj +
		m[i+1][j]*fi*(1-fj) +
		m[i+1][j+1]*fi*fj
}

func normalizeAz(az float64) float64 {
	az = math.Mod(az, 2*math.Pi)
	if az < 0 {
		az += 2 * math.Pi
	}
	return az
}
