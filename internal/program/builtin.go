package program

// BuiltIn returns predefined observing campaigns.
func BuiltIn() map[string]Program {
	return map[string]Program{
		"baseline": {
			Name:        "Baseline",
			Description: "Sweep the southern sky in six filters for a decade, after a short commissioning ramp.",
			Blocks: []Block{
				{
					Name:        "commissioning",
					Description: "Short exposures over a narrow band while the system is shaken out.",
					Footprint:   Footprint{DecMinDeg: -40, DecMaxDeg: -20},
					Filters:     []string{"r", "i"},
					ExpTimeSec:  15,
					NExp:        1,
					Triggers:    []Trigger{{Event: EventNightsElapsed, Value: 10, Next: "science-verification"}},
				},
				{
					Name:        "science-verification",
					Description: "Full-depth visits over a restricted band to verify image quality.",
					Footprint:   Footprint{DecMinDeg: -50, DecMaxDeg: -10},
					Filters:     []string{"g", "r", "i", "z"},
					Triggers:    []Trigger{{Event: EventNightsElapsed, Value: 40, Next: "wide-fast-deep"}},
				},
				{
					Name:        "wide-fast-deep",
					Description: "The main wide-area survey over the full accessible declination band.",
					Footprint:   Footprint{DecMinDeg: -62, DecMaxDeg: 2},
					Filters:     []string{"u", "g", "r", "i", "z", "y"},
				},
			},
		},
		"deep-drilling": {
			Name:        "Deep Drilling",
			Description: "Revisit a handful of well-studied extragalactic fields at high cadence.",
			Blocks: []Block{
				{
					Name:        "southern-pair",
					Description: "Dense coverage of the two fields that stay up all season.",
					Targets: []Target{
						{Name: "cdf-s", RADeg: 53.12, DecDeg: -28.10},
						{Name: "elais-s1", RADeg: 9.45, DecDeg: -44.00},
					},
					Filters:  []string{"r", "i", "z"},
					Triggers: []Trigger{{Event: EventVisitsCompleted, Value: 2000, Next: "full-rotation"}},
				},
				{
					Name:        "full-rotation",
					Description: "All four drilling fields share the cadence through the full filter set.",
					Targets: []Target{
						{Name: "cdf-s", RADeg: 53.12, DecDeg: -28.10},
						{Name: "elais-s1", RADeg: 9.45, DecDeg: -44.00},
						{Name: "xmm-lss", RADeg: 35.71, DecDeg: -4.75},
						{Name: "cosmos", RADeg: 150.12, DecDeg: 2.21},
					},
					Filters: []string{"g", "r", "i", "z", "y"},
				},
			},
		},
		"galactic-plane": {
			Name:        "Galactic Plane",
			Description: "Map the crowded plane and bulge fields through the red filters.",
			Blocks: []Block{
				{
					Name:        "bulge",
					Description: "Bulge season: crowded fields observed where extinction allows.",
					Footprint:   Footprint{DecMinDeg: -40, DecMaxDeg: -20},
					Filters:     []string{"i", "z", "y"},
					Triggers:    []Trigger{{Event: EventNightsElapsed, Value: 60, Next: "outer-plane"}},
				},
				{
					Name:        "outer-plane",
					Description: "Outer plane fields picked up once the bulge season ends.",
					Footprint:   Footprint{DecMinDeg: -65, DecMaxDeg: -40},
					Filters:     []string{"g", "r", "i"},
				},
			},
		},
	}
}
