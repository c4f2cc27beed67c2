package survey

import (
	"fmt"
	"math"
	"strings"
	"testing"

	"skysurvey-sim/internal/astro"
	"skysurvey-sim/internal/program"
)

func TestFieldsForBlockTessellation(t *testing.T) {
	equator := FieldsForBlock(program.Block{Footprint: program.Footprint{DecMinDeg: 0, DecMaxDeg: 0}})
	polar := FieldsForBlock(program.Block{Footprint: program.Footprint{DecMinDeg: -80, DecMaxDeg: -80}})
	if len(equator) == 0 || len(polar) == 0 {
		t.Fatalf("expected fields in both rings, got %d and %d", len(equator), len(polar))
	}
	if len(polar) >= len(equator) {
		t.Fatalf("polar ring should thin out, got %d vs %d at the equator", len(polar), len(equator))
	}

	for i, f := range equator {
		if f.RA < 0 || f.RA >= 2*math.Pi {
			t.Fatalf("field %d RA out of range: %f", f.ID, f.RA)
		}
		if f.ID != i+1 {
			t.Fatalf("expected sequential IDs, got %d at index %d", f.ID, i)
		}
		if f.Name != fmt.Sprintf("field-%04d", f.ID) {
			t.Fatalf("unexpected field name %q", f.Name)
		}
	}
}

func TestFieldsForBlockBand(t *testing.T) {
	band := FieldsForBlock(program.Block{Footprint: program.Footprint{DecMinDeg: -62, DecMaxDeg: 2}})
	if len(band) < 1000 {
		t.Fatalf("expected a dense band tessellation, got %d fields", len(band))
	}
	for _, f := range band {
		dec := astro.Degrees(f.Dec)
		if dec < -62.01 || dec > 2.01 {
			t.Fatalf("field %d outside declination band: %f", f.ID, dec)
		}
	}
}

func TestFieldsForBlockTargets(t *testing.T) {
	blk := program.Block{
		Targets: []program.Target{
			{Name: "cdf-s", RADeg: 53.0, DecDeg: -28.1},
			{Name: "cosmos", RADeg: 150.1, DecDeg: 2.2},
		},
		Footprint: program.Footprint{DecMinDeg: -90, DecMaxDeg: 90},
	}
	fields := FieldsForBlock(blk)
	if len(fields) != 2 {
		t.Fatalf("targets should override the footprint, got %d fields", len(fields))
	}
	if fields[0].Name != "cdf-s" || fields[1].Name != "cosmos" {
		t.Fatalf("unexpected names: %q, %q", fields[0].Name, fields[1].Name)
	}
	if got := astro.Degrees(fields[0].RA); math.Abs(got-53.0) > 1e-9 {
		t.Fatalf("expected RA 53.0 deg, got %f", got)
	}
	if got := astro.Degrees(fields[1].Dec); math.Abs(got-2.2) > 1e-9 {
		t.Fatalf("expected Dec 2.2 deg, got %f", got)
	}
}

func TestBuildRequest(t *testing.T) {
	blk := program.Block{Name: "deep", Filters: []string{"r"}}
	f := &Field{ID: 7, Name: "cdf-s", RA: 0.9, Dec: -0.5}

	req := buildRequest("baseline", 2, blk, f, "r")
	if !strings.HasPrefix(req.ID, "cdf-s-r-") {
		t.Fatalf("unexpected request ID %q", req.ID)
	}
	if req.FieldID != 7 || req.Note != "cdf-s" {
		t.Fatalf("field identity not carried: %#v", req)
	}
	if req.SurveyID != "baseline" || req.BlockID != 2 {
		t.Fatalf("survey identity not carried: %#v", req)
	}
	if req.ExpTime != 30 || req.NExp != 2 {
		t.Fatalf("expected default exposure 30sx2, got %.0fsx%d", req.ExpTime, req.NExp)
	}
	if req.RA != 0.9 || req.Dec != -0.5 {
		t.Fatalf("coordinates not carried: %#v", req)
	}

	other := buildRequest("baseline", 2, blk, f, "r")
	if other.ID == req.ID {
		t.Fatalf("request IDs should be unique, got %q twice", req.ID)
	}
}
