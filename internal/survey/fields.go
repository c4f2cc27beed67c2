package survey

import (
	"fmt"
	"math"

	"github.com/google/uuid"

	"skysurvey-sim/internal/astro"
	"skysurvey-sim/internal/program"
	"skysurvey-sim/internal/visit"
)

// fieldSpacing is the tessellation spacing in degrees, roughly the
// camera field of view.
const fieldSpacing = 3.5

// Field is one pointing of the survey tessellation, with its visit
// history updated in place as the survey runs.
type Field struct {
	ID        int
	Name      string
	RA        float64 // radians
	Dec       float64 // radians
	LastVisit float64 // MJD of the last committed visit, 0 before any
	Visits    int
}

// FieldsForBlock builds the pointing list for a program block. Explicit
// targets replace the footprint tessellation.
func FieldsForBlock(b program.Block) []*Field {
	if len(b.Targets) > 0 {
		fields := make([]*Field, len(b.Targets))
		for i, t := range b.Targets {
			fields[i] = &Field{
				ID:   i + 1,
				Name: t.Name,
				RA:   astro.Radians(t.RADeg),
				Dec:  astro.Radians(t.DecDeg),
			}
		}
		return fields
	}
	return tessellate(b.Footprint)
}

// tessellate covers a declination band with rings of pointings, thinning
// the rings toward the poles to keep the spacing roughly constant.
func tessellate(fp program.Footprint) []*Field {
	step := astro.Radians(fieldSpacing)
	decMin := astro.Radians(fp.DecMinDeg)
	decMax := astro.Radians(fp.DecMaxDeg)

	var fields []*Field
	id := 1
	for dec := decMin; dec <= decMax+1e-9; dec += step {
		n := int(math.Ceil(2 * math.Pi * math.Cos(dec) / step))
		if n < 1 {
			n = 1
		}
		for i := 0; i < n; i++ {
			fields = append(fields, &Field{
				ID:   id,
				Name: fmt.Sprintf("field-%04d", id),
				RA:   2 * math.Pi * float64(i) / float64(n),
				Dec:  dec,
			})
			id++
		}
	}
	return fields
}

// buildRequest turns a scheduled field into an observation request.
func buildRequest(surveyID string, blockID int, b program.Block, f *Field, filter string) *visit.Request {
	exptime, nexp := b.Exposure()
	return &visit.Request{
		ID:       fmt.Sprintf("%s-%s-%s", f.Name, filter, uuid.New().String()),
		FieldID:  f.ID,
		RA:       f.RA,
		Dec:      f.Dec,
		Filter:   filter,
		ExpTime:  exptime,
		NExp:     nexp,
		SurveyID: surveyID,
		BlockID:  blockID,
		Note:     f.Name,
	}
}
