// Package downtime tracks nights on which the observatory cannot open,
// either from scheduled maintenance windows or from generated
// unscheduled outages.
package downtime

import "sort"

// Window is a contiguous block of full nights the observatory stays closed.
type Window struct {
	StartNight int    `yaml:"start_night" json:"start_night"`
	Nights     int    `yaml:"nights" json:"nights"`
	Reason     string `yaml:"reason" json:"reason"`
}

// Set answers whether a given night index falls inside any downtime window.
type Set struct {
	reasons map[int]string
}

// NewSet builds a set from explicit windows. Overlapping windows are merged
// and the earlier window's reason wins.
func NewSet(windows ...Window) *Set {
	s := &Set{reasons: make(map[int]string)}
	s.Add(windows...)
	return s
}

// Add inserts more windows into the set.
func (s *Set) Add(windows ...Window) {
	for _, w := range windows {
		for n := w.StartNight; n < w.StartNight+w.Nights; n++ {
			if n < 0 {
				continue
			}
			if _, ok := s.reasons[n]; !ok {
				s.reasons[n] = w.Reason
			}
		}
	}
}

// Union folds another set's nights into s, keeping existing reasons.
func (s *Set) Union(other *Set) {
	if other == nil {
		return
	}
	for n, r := range other.reasons {
		if _, ok := s.reasons[n]; !ok {
			s.reasons[n] = r
		}
	}
}

// IsDown reports whether the observatory is closed for the whole night.
func (s *Set) IsDown(night int) bool {
	if s == nil {
		return false
	}
	_, ok := s.reasons[night]
	return ok
}

// Reason returns the downtime reason for a night, if any.
func (s *Set) Reason(night int) (string, bool) {
	if s == nil {
		return "", false
	}
	r, ok := s.reasons[night]
	return r, ok
}

// Nights lists all down nights in ascending order.
func (s *Set) Nights() []int {
	out := make([]int, 0, len(s.reasons))
	for n := range s.reasons {
		out = append(out, n)
	}
	sort.Ints(out)
	return out
}

// Len returns the number of down nights in the set.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.reasons)
}
