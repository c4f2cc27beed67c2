package survey

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"skysurvey-sim/internal/astro"
	"skysurvey-sim/internal/logging"
	"skysurvey-sim/internal/metrics"
	"skysurvey-sim/internal/observatory"
	"skysurvey-sim/internal/program"
	"skysurvey-sim/internal/visit"
)

const (
	// idleStepDays nudges the clock when no field is above the altitude
	// limit, fifteen minutes.
	idleStepDays = 15.0 / (24 * 60)
	maxEvents    = 256
)

// RunnerConfig tunes the survey loop.
type RunnerConfig struct {
	RunID string
	// MaxNights stops the run after that night completes, 0 runs the
	// whole timeline.
	MaxNights int
	// StatusEvery emits a status row every N visits.
	StatusEvery int
	// RotateEvery advances the block's filter rotation every N visits.
	RotateEvery int
	// BatchSize flushes buffered records after N visits.
	BatchSize int
}

// Event is one survey decision recorded for the admin surface.
type Event struct {
	Timestamp time.Time `json:"ts"`
	Type      string    `json:"type"`
	Details   string    `json:"details"`
}

// Progress summarizes the run for the admin surface.
type Progress struct {
	RunID        string         `json:"run_id"`
	Program      string         `json:"program"`
	Block        string         `json:"block"`
	MJD          float64        `json:"mjd"`
	Night        int            `json:"night"`
	Filter       string         `json:"filter"`
	Visits       int            `json:"visits"`
	Rejections   int            `json:"rejections"`
	BlockVisits  int            `json:"block_visits"`
	Fields       int            `json:"fields"`
	FilterCounts map[string]int `json:"filter_counts"`
}

// Runner drives one simulated survey: it picks fields, requests visits
// from the observatory, and fans records out to writers.
type Runner struct {
	obs          *observatory.Observatory
	prog         *program.Program
	sched        *Scheduler
	writer       VisitWriter
	rejWriter    RejectionWriter
	statusWriter StatusWriter
	cfg          RunnerConfig
	runID        string

	mu              sync.Mutex
	fields          []*Field
	blockIdx        int
	blockStartNight int
	blockVisits     int
	filterIdx       int
	lastNight       int
	visits          int
	rejections      int
	filterCounts    map[string]int
	pending         []visit.Record
	events          []Event
	now             func() time.Time
}

// NewRunner validates the program against the observatory and prepares
// the first block's field grid.
func NewRunner(obs *observatory.Observatory, prog *program.Program, cfg RunnerConfig, w VisitWriter, rw RejectionWriter, sw StatusWriter) (*Runner, error) {
	if prog == nil || len(prog.Blocks) == 0 {
		return nil, fmt.Errorf("program has no blocks")
	}
	allowed := make(map[string]bool)
	for _, f := range obs.Options().Filters {
		allowed[f] = true
	}
	for _, b := range prog.Blocks {
		if len(b.Filters) == 0 {
			return nil, fmt.Errorf("block %q has no filters", b.Name)
		}
		for _, f := range b.Filters {
			if !allowed[f] {
				return nil, fmt.Errorf("block %q uses filter %q the observatory does not carry", b.Name, f)
			}
		}
	}
	if cfg.StatusEvery <= 0 {
		cfg.StatusEvery = 100
	}
	if cfg.RotateEvery <= 0 {
		cfg.RotateEvery = 25
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 50
	}
	if cfg.RunID == "" {
		cfg.RunID = uuid.New().String()
	}
	r := &Runner{
		obs:             obs,
		prog:            prog,
		sched:           NewScheduler(obs.Options().AltLimit),
		writer:          w,
		rejWriter:       rw,
		statusWriter:    sw,
		cfg:             cfg,
		runID:           cfg.RunID,
		fields:          FieldsForBlock(prog.Blocks[0]),
		blockStartNight: obs.Night(),
		lastNight:       obs.Night(),
		filterCounts:    make(map[string]int),
		now:             time.Now,
	}
	return r, nil
}

// RunID returns the identifier stamped on status rows.
func (r *Runner) RunID() string { return r.runID }

// Run drives the survey until the timeline runs out or the configured
// night limit is reached, or the context is cancelled.
func (r *Runner) Run(ctx context.Context) {
	log := logging.FromContext(ctx)
	log.Info("starting survey", "run_id", r.runID, "program", r.prog.Name, "block", r.prog.Blocks[r.blockIdx].Name, "fields", len(r.fields))
	for {
		select {
		case <-ctx.Done():
			log.Info("stopping survey", "visits", r.Visits())
			r.flush(ctx)
			return
		default:
		}
		if !r.step(ctx) {
			p := r.Progress()
			log.Info("survey complete", "visits", p.Visits, "rejections", p.Rejections, "night", p.Night)
			r.flush(ctx)
			return
		}
	}
}

// step performs one scheduling attempt. Returns false when the survey
// is over.
func (r *Runner) step(ctx context.Context) bool {
	log := logging.FromContext(ctx)
	r.mu.Lock()
	defer r.mu.Unlock()

	opts := r.obs.Options()
	if r.cfg.MaxNights > 0 && r.obs.Night() > r.cfg.MaxNights {
		return false
	}
	if r.obs.Clock() >= opts.StartMJD+opts.SurveyYears*365.25 {
		return false
	}

	if night := r.obs.Night(); night != r.lastNight {
		r.flushLocked(ctx)
		r.lastNight = night
		r.filterIdx++
		r.logEvent("night", fmt.Sprintf("night %d begins at mjd %.5f", night, r.obs.Clock()))
		if r.advanceBlock(ctx) {
			return true
		}
	}

	blk := r.prog.Blocks[r.blockIdx]
	f := r.sched.Pick(r.fields, r.obs.Clock(), opts.Site)
	if f == nil {
		// Nothing above the altitude limit right now. Nudge the clock and
		// let the next attempt's gate do the real jump.
		if err := r.obs.AdvanceTo(r.obs.Clock() + idleStepDays); err != nil {
			log.Error("idle advance failed", "err", err)
			return false
		}
		return true
	}

	filter := blk.Filters[r.filterIdx%len(blk.Filters)]
	req := buildRequest(r.prog.Name, r.blockIdx, blk, f, filter)
	rec, rej, err := r.obs.AttemptObserve(ctx, req)
	if err != nil {
		log.Error("attempt failed", "request_id", req.ID, "err", err)
		return false
	}
	metrics.SetClock(r.obs.Clock(), r.obs.Night())

	if rej != nil {
		r.rejections++
		metrics.RecordRejection(rej.Reason, rej.Fallback)
		r.logEvent("rejection", fmt.Sprintf("%s at mjd %.5f, resuming %.5f", rej.Reason, rej.MJD, rej.NextMJD))
		if r.rejWriter != nil {
			if err := r.rejWriter.WriteRejection(*rej); err != nil {
				log.Error("rejection write failed", "reason", rej.Reason, "err", err)
			}
		}
		return true
	}

	f.LastVisit = rec.MJD
	f.Visits++
	r.visits++
	r.blockVisits++
	r.filterCounts[rec.Filter]++
	metrics.RecordVisit(rec.Filter, rec.SlewTime)
	r.pending = append(r.pending, *rec)
	if len(r.pending) >= r.cfg.BatchSize {
		r.flushLocked(ctx)
	}
	if r.visits%r.cfg.StatusEvery == 0 {
		r.writeStatusLocked(ctx)
	}
	if r.blockVisits%r.cfg.RotateEvery == 0 {
		r.filterIdx++
	}
	r.advanceBlock(ctx)
	return true
}

// advanceBlock applies program triggers. Both elapsed nights within the
// block and completed block visits can fire a transition.
func (r *Runner) advanceBlock(ctx context.Context) bool {
	log := logging.FromContext(ctx)
	blk := r.prog.Blocks[r.blockIdx]
	evs := []program.Event{
		{Type: program.EventNightsElapsed, Value: r.obs.Night() - r.blockStartNight},
		{Type: program.EventVisitsCompleted, Value: r.blockVisits},
	}
	for _, ev := range evs {
		next, ok := r.prog.NextBlock(blk.Name, ev)
		if !ok {
			continue
		}
		for i, b := range r.prog.Blocks {
			if b.Name != next {
				continue
			}
			r.flushLocked(ctx)
			r.blockIdx = i
			r.blockStartNight = r.obs.Night()
			r.blockVisits = 0
			r.filterIdx = 0
			r.fields = FieldsForBlock(b)
			r.logEvent("block", fmt.Sprintf("%s to %s on %s", blk.Name, b.Name, ev.Type))
			log.Info("block transition", "from", blk.Name, "to", b.Name, "trigger", ev.Type, "night", r.obs.Night())
			return true
		}
		log.Error("program names unknown block", "block", next)
	}
	return false
}

func (r *Runner) flushLocked(ctx context.Context) {
	if len(r.pending) == 0 {
		return
	}
	log := logging.FromContext(ctx)
	batch := r.pending
	r.pending = nil
	if bw, ok := r.writer.(batchWriter); ok {
		if err := bw.WriteBatch(batch); err != nil {
			log.Error("batch write failed", "rows", len(batch), "err", err)
		}
		return
	}
	for _, rec := range batch {
		if err := r.writer.Write(rec); err != nil {
			log.Error("write failed", "visit_id", rec.ID, "err", err)
		}
	}
}

// flush writes buffered records, for shutdown paths.
func (r *Runner) flush(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.flushLocked(ctx)
}

func (r *Runner) writeStatusLocked(ctx context.Context) {
	if r.statusWriter == nil {
		return
	}
	row := r.statusRowLocked()
	if err := r.statusWriter.WriteStatus(row); err != nil {
		logging.FromContext(ctx).Error("status write failed", "err", err)
	}
}

// statusRowLocked merges live clock state with the cached sky snapshot.
func (r *Runner) statusRowLocked() visit.StatusRow {
	st := r.obs.Status()
	row := visit.StatusRow{
		RunID:        r.runID,
		MJD:          r.obs.Clock(),
		Night:        r.obs.Night(),
		LMST:         astro.LMST(r.obs.Clock(), r.obs.Options().Site),
		Filter:       r.obs.Filter(),
		SunAlt:       st.SunMoon.SunAlt,
		MoonAlt:      st.SunMoon.MoonAlt,
		MoonPhase:    st.SunMoon.MoonPhase,
		Clouds:       st.Clouds,
		Visits:       r.visits,
		Rejections:   r.rejections,
		FilterCounts: make(map[string]int, len(r.filterCounts)),
		Timestamp:    astro.MJDToTime(r.obs.Clock()),
	}
	if p := r.obs.Pointing(); p != nil {
		row.RA, row.Dec = p.RA, p.Dec
	}
	for f, n := range r.filterCounts {
		row.FilterCounts[f] = n
	}
	return row
}

func (r *Runner) logEvent(t, details string) {
	r.events = append(r.events, Event{Timestamp: r.now().UTC(), Type: t, Details: details})
	if len(r.events) > maxEvents {
		r.events = r.events[len(r.events)-maxEvents:]
	}
}

// Events returns a copy of recorded survey events.
func (r *Runner) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	events := make([]Event, len(r.events))
	copy(events, r.events)
	return events
}

// Progress reports current counters and clock state.
func (r *Runner) Progress() Progress {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := Progress{
		RunID:        r.runID,
		Program:      r.prog.Name,
		Block:        r.prog.Blocks[r.blockIdx].Name,
		MJD:          r.obs.Clock(),
		Night:        r.obs.Night(),
		Filter:       r.obs.Filter(),
		Visits:       r.visits,
		Rejections:   r.rejections,
		BlockVisits:  r.blockVisits,
		Fields:       len(r.fields),
		FilterCounts: make(map[string]int, len(r.filterCounts)),
	}
	for f, n := range r.filterCounts {
		p.FilterCounts[f] = n
	}
	return p
}

// StatusRow builds a status row outside the write cadence, for the
// admin endpoints.
func (r *Runner) StatusRow() visit.StatusRow {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.statusRowLocked()
}

// Visits returns the number of completed visits.
func (r *Runner) Visits() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.visits
}

// Rejections returns the number of rejected requests.
func (r *Runner) Rejections() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rejections
}
