package downtime

import "math/rand"

// Outage tiers for unscheduled downtime. Probabilities are per night and
// a hit closes the observatory for the tier's full length.
var tiers = []struct {
	prob   float64
	nights int
	reason string
}{
	{prob: 0.0137, nights: 1, reason: "minor event"},
	{prob: 0.00548, nights: 3, reason: "intermediate event"},
	{prob: 0.00137, nights: 7, reason: "major event"},
	{prob: 0.000274, nights: 14, reason: "catastrophic event"},
}

// Generate draws unscheduled outages over totalNights nights. The same
// seed always yields the same outages.
func Generate(seed int64, totalNights int) *Set {
	rng := rand.New(rand.NewSource(seed))
	s := NewSet()
	night := 0
	for night < totalNights {
		r := rng.Float64()
		hit := false
		for _, tier := range tiers {
			if r < tier.prob {
				s.Add(Window{StartNight: night, Nights: tier.nights, Reason: tier.reason})
				night += tier.nights
				hit = true
				break
			}
			r -= tier.prob
		}
		if !hit {
			night++
		}
	}
	return s
}
