package telemetry

import (
	"github.com/papapumpkin/pheno/internal/phenology"
)

// PhaseChangeData is the payload of a phase_changed event.
type PhaseChangeData struct {
	From  string  `json:"from"`
	To    string  `json:"to"`
	Stage string  `json:"stage"`
	Value float64 `json:"stage_number"`
}

// StageData is the payload of rewind, growth-stage and end-of-day events.
type StageData struct {
	Phase       string  `json:"phase"`
	Stage       float64 `json:"stage_number"`
	Accumulated float64 `json:"accumulated"`
}

// Recorder is a phenology.Observer that forwards engine notifications to an
// Emitter. Day must be kept current by the caller before each engine call.
type Recorder struct {
	emitter *Emitter
	engine  *phenology.Engine
	runID   string
	day     int
	err     error
}

// NewRecorder returns a Recorder for engine. A nil emitter records nothing.
func NewRecorder(em *Emitter, engine *phenology.Engine, runID string) *Recorder {
	return &Recorder{emitter: em, engine: engine, runID: runID}
}

// SetDay sets the simulated day stamped on subsequent events.
func (r *Recorder) SetDay(day int) { r.day = day }

// Err returns the first emit error seen, if any. Observer callbacks cannot
// return errors, so they are held here for the caller.
func (r *Recorder) Err() error { return r.err }

// Emit writes a run-level event stamped with the recorder's run and day.
func (r *Recorder) Emit(kind string, data any) {
	r.keep(r.emitter.Emit(Event{Kind: kind, RunID: r.runID, Day: r.day, Data: data}))
}

// PhaseChanged records a phase_changed event.
func (r *Recorder) PhaseChanged(c phenology.PhaseChange) {
	r.Emit(KindPhaseChanged, PhaseChangeData{
		From:  c.OldPhaseName,
		To:    c.NewPhaseName,
		Stage: c.EventStageName,
		Value: r.engine.Stage(),
	})
}

// PhaseRewound records a phase_rewound event.
func (r *Recorder) PhaseRewound() {
	r.Emit(KindPhaseRewound, r.stageData())
}

// GrowthStageReached records a growth_stage event.
func (r *Recorder) GrowthStageReached() {
	r.Emit(KindGrowthStage, r.stageData())
}

// PostPhenologyCompleted records a post_phenology event.
func (r *Recorder) PostPhenologyCompleted() {
	r.Emit(KindPostPhenology, r.stageData())
}

func (r *Recorder) stageData() StageData {
	return StageData{
		Phase:       r.engine.CurrentPhaseName(),
		Stage:       r.engine.Stage(),
		Accumulated: r.engine.AccumulatedDriver(),
	}
}

func (r *Recorder) keep(err error) {
	if err != nil && r.err == nil {
		r.err = err
	}
}
