package program

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Program defines a multi-year observing campaign as ordered blocks with an
// overall description.
type Program struct {
	Name        string  `yaml:"name,omitempty"`
	Description string  `yaml:"description,omitempty"`
	Blocks      []Block `yaml:"blocks"`
}

// Block describes a stage of the campaign: where to point, through which
// filters, and how to expose. A block without triggers is terminal.
type Block struct {
	Name        string    `yaml:"name"`
	Description string    `yaml:"description,omitempty"`
	Footprint   Footprint `yaml:"footprint,omitempty"`
	Targets     []Target  `yaml:"targets,omitempty"`
	Filters     []string  `yaml:"filters"`
	ExpTimeSec  float64   `yaml:"exptime_sec,omitempty"`
	NExp        int       `yaml:"nexp,omitempty"`
	Triggers    []Trigger `yaml:"triggers,omitempty"`
}

// Footprint is a declination band on the sky, in degrees.
type Footprint struct {
	DecMinDeg float64 `yaml:"dec_min_deg"`
	DecMaxDeg float64 `yaml:"dec_max_deg"`
}

// Target pins a named field at fixed equatorial coordinates, in degrees.
// When a block lists targets they replace the footprint tessellation.
type Target struct {
	Name   string  `yaml:"name"`
	RADeg  float64 `yaml:"ra_deg"`
	DecDeg float64 `yaml:"dec_deg"`
}

// Trigger moves the campaign to another block once a counter is reached.
type Trigger struct {
	Event string `yaml:"event"`
	Value int    `yaml:"value"`
	Next  string `yaml:"next"`
}

// Event represents a runtime counter that may advance the campaign.
type Event struct {
	Type  string
	Value int
}

// Counters the survey driver feeds to NextBlock. Values count from the
// start of the current block, not from the start of the survey.
const (
	EventNightsElapsed   = "nights_elapsed"
	EventVisitsCompleted = "visits_completed"
)

// Load reads a YAML program definition from disk.
func Load(path string) (*Program, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read program: %w", err)
	}
	var p Program
	if err := yaml.Unmarshal(b, &p); err != nil {
		return nil, fmt.Errorf("parse program: %w", err)
	}
	return &p, nil
}

// Find returns the named block.
func (p *Program) Find(name string) (Block, bool) {
	for _, b := range p.Blocks {
		if b.Name == name {
			return b, true
		}
	}
	return Block{}, false
}

// NextBlock returns the name of the next block given the current block and
// event. If no trigger matches, ok will be false.
func (p *Program) NextBlock(current string, ev Event) (next string, ok bool) {
	for _, b := range p.Blocks {
		if b.Name != current {
			continue
		}
		for _, tr := range b.Triggers {
			if tr.Event == ev.Type && ev.Value >= tr.Value {
				return tr.Next, true
			}
		}
	}
	return "", false
}

// Exposure returns the block's exposure settings with campaign defaults
// applied where the block leaves them unset.
func (b Block) Exposure() (expTimeSec float64, nexp int) {
	expTimeSec, nexp = b.ExpTimeSec, b.NExp
	if expTimeSec <= 0 {
		expTimeSec = 30
	}
	if nexp < 1 {
		nexp = 2
	}
	return expTimeSec, nexp
}
