// Package slew models the time the telescope and dome need to move
// between pointings, directly or through a precomputed grid.
package slew

import (
	"math"

	"skysurvey-sim/internal/astro"
)

// Telescope holds the kinematic limits of the mount, dome, and optics.
// Angles are radians, rates radians per second, times seconds.
type Telescope struct {
	TelAltMaxSpeed float64
	TelAltAccel    float64
	TelAzMaxSpeed  float64
	TelAzAccel     float64

	DomeAltMaxSpeed float64
	DomeAltAccel    float64
	DomeAzMaxSpeed  float64
	DomeAzAccel     float64
	DomeAzSettle    float64

	MountSettle float64

	OpticsOLSpeed    float64
	OpticsCLDelay    float64
	OpticsCLAltLimit float64

	Readout      float64
	FilterChange float64

	MinAlt float64
	MaxAlt float64
}

// Default returns the as-built telescope parameters.
func Default() Telescope {
	return Telescope{
		TelAltMaxSpeed:   astro.Radians(3.5),
		TelAltAccel:      astro.Radians(3.5),
		TelAzMaxSpeed:    astro.Radians(7.0),
		TelAzAccel:       astro.Radians(7.0),
		DomeAltMaxSpeed:  astro.Radians(1.75),
		DomeAltAccel:     astro.Radians(0.875),
		DomeAzMaxSpeed:   astro.Radians(1.5),
		DomeAzAccel:      astro.Radians(0.75),
		DomeAzSettle:     1,
		MountSettle:      3,
		OpticsOLSpeed:    astro.Radians(3.5),
		OpticsCLDelay:    20,
		OpticsCLAltLimit: astro.Radians(9),
		Readout:          2,
		FilterChange:     120,
		MinAlt:           astro.Radians(20),
		MaxAlt:           astro.Radians(86.5),
	}
}

// uamSlewTime is the travel time for one axis that accelerates uniformly
// to its maximum speed and decelerates symmetrically.
func uamSlewTime(distance, maxSpeed, accel float64) float64 {
	if distance <= 0 {
		return 0
	}
	if distance < maxSpeed*maxSpeed/accel {
		return 2 * math.Sqrt(distance/accel)
	}
	return 2*maxSpeed/accel + (distance-maxSpeed*maxSpeed/accel)/maxSpeed
}

// CalcSlewTime returns the seconds needed to move between two pointings,
// including dome rotation, mount settle, optics corrections, the readout
// floor, and filter changes. Azimuth always takes the shortest arc.
func (t Telescope) CalcSlewTime(alt1, az1 float64, filter1 string, alt2, az2 float64, filter2 string) float64 {
	deltaAlt := math.Abs(alt2 - alt1)
	deltaAz := math.Abs(az2 - az1)
	if deltaAz > math.Pi {
		deltaAz = 2*math.Pi - deltaAz
	}

	telAltTime := uamSlewTime(deltaAlt, t.TelAltMaxSpeed, t.TelAltAccel)
	telAzTime := uamSlewTime(deltaAz, t.TelAzMaxSpeed, t.TelAzAccel)
	totTelTime := math.Max(telAltTime, telAzTime)

	// The open loop optics correction runs during the move itself.
	olTime := deltaAlt / t.OpticsOLSpeed
	totTelTime = math.Max(totTelTime, olTime)
	if deltaAlt > 1e-9 || deltaAz > 1e-9 {
		totTelTime += math.Max(0, t.MountSettle-olTime)
	}
	if deltaAlt >= t.OpticsCLAltLimit {
		totTelTime += t.OpticsCLDelay
	}

	domeAltTime := uamSlewTime(deltaAlt, t.DomeAltMaxSpeed, t.DomeAltAccel)
	domeAzTime := uamSlewTime(deltaAz, t.DomeAzMaxSpeed, t.DomeAzAccel)
	if deltaAz > 1e-9 {
		domeAzTime += t.DomeAzSettle
	}
	totDomeTime := math.Max(domeAltTime, domeAzTime)

	slewTime := math.Max(totTelTime, totDomeTime)
	slewTime = math.Max(slewTime, t.Readout)
	if filter1 != filter2 {
		slewTime = math.Max(slewTime, t.FilterChange)
	}
	return slewTime
}
