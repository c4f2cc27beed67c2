package astro

import "math"

// Site describes the geographic location of an observatory.
// Angles are radians, elevation is meters above sea level.
type Site struct {
	Latitude  float64
	Longitude float64
	Elevation float64
}

// CerroPachon returns the default survey site in northern Chile.
func CerroPachon() Site {
	return Site{
		Latitude:  Radians(-(30.0 + 14.0/60.0 + 40.7/3600.0)),
		Longitude: Radians(-(70.0 + 44.0/60.0 + 57.9/3600.0)),
		Elevation: 2650,
	}
}

// Radians converts degrees to radians.
func Radians(deg float64) float64 { return deg * math.Pi / 180 }

// Degrees converts radians to degrees.
func Degrees(rad float64) float64 { return rad * 180 / math.Pi }
