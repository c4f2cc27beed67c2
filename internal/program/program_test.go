package program

import "testing"

func TestProgramTransition(t *testing.T) {
	p := Program{
		Blocks: []Block{{
			Name:     "warmup",
			Triggers: []Trigger{{Event: EventNightsElapsed, Value: 10, Next: "main"}},
		}, {
			Name: "main",
		}},
	}

	next, ok := p.NextBlock("warmup", Event{Type: EventNightsElapsed, Value: 10})
	if !ok || next != "main" {
		t.Fatalf("expected transition to main, got %s", next)
	}
	if _, ok := p.NextBlock("warmup", Event{Type: EventNightsElapsed, Value: 9}); ok {
		t.Fatal("transition fired below the trigger value")
	}
	if _, ok := p.NextBlock("main", Event{Type: EventNightsElapsed, Value: 1000}); ok {
		t.Fatal("terminal block must not transition")
	}
}

func TestLoadProgram(t *testing.T) {
	p, err := Load("testdata/wide.yaml")
	if err != nil {
		t.Fatalf("load program: %v", err)
	}
	if p.Name != "wide" {
		t.Fatalf("unexpected name %s", p.Name)
	}
	if p.Description != "basic test program" {
		t.Fatalf("unexpected description %s", p.Description)
	}
	if len(p.Blocks) != 2 {
		t.Fatalf("expected 2 blocks, got %d", len(p.Blocks))
	}
	if p.Blocks[0].Footprint.DecMinDeg != -40 {
		t.Fatalf("unexpected footprint %v", p.Blocks[0].Footprint)
	}
	if p.Blocks[1].Targets[0].Name != "cdf-s" {
		t.Fatalf("unexpected target %s", p.Blocks[1].Targets[0].Name)
	}
}

func TestLoadProgramMissingFile(t *testing.T) {
	if _, err := Load("testdata/absent.yaml"); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}

func TestExposureDefaults(t *testing.T) {
	exp, nexp := (Block{}).Exposure()
	if exp != 30 || nexp != 2 {
		t.Fatalf("expected defaults 30/2, got %f/%d", exp, nexp)
	}
	exp, nexp = (Block{ExpTimeSec: 15, NExp: 1}).Exposure()
	if exp != 15 || nexp != 1 {
		t.Fatalf("explicit settings overridden: %f/%d", exp, nexp)
	}
}

func TestBuiltInPrograms(t *testing.T) {
	valid := map[string]bool{"u": true, "g": true, "r": true, "i": true, "z": true, "y": true}
	programs := BuiltIn()
	for _, name := range []string{"baseline", "deep-drilling", "galactic-plane"} {
		p, ok := programs[name]
		if !ok {
			t.Fatalf("program %s not found", name)
		}
		if p.Description == "" {
			t.Fatalf("program %s missing description", name)
		}
		if len(p.Blocks) == 0 {
			t.Fatalf("program %s has no blocks", name)
		}
		for _, b := range p.Blocks {
			if len(b.Filters) == 0 {
				t.Fatalf("block %s/%s has no filters", name, b.Name)
			}
			for _, f := range b.Filters {
				if !valid[f] {
					t.Fatalf("block %s/%s uses unknown filter %s", name, b.Name, f)
				}
			}
			if len(b.Targets) == 0 && b.Footprint.DecMinDeg >= b.Footprint.DecMaxDeg {
				t.Fatalf("block %s/%s has neither targets nor a footprint band", name, b.Name)
			}
			for _, tr := range b.Triggers {
				if _, ok := p.Find(tr.Next); !ok {
					t.Fatalf("block %s/%s points at unknown block %s", name, b.Name, tr.Next)
				}
			}
		}
		last := p.Blocks[len(p.Blocks)-1]
		if len(last.Triggers) != 0 {
			t.Fatalf("program %s must end in a terminal block", name)
		}
	}
}
