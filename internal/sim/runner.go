package sim

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/papapumpkin/pheno/internal/driver"
	"github.com/papapumpkin/pheno/internal/logging"
	"github.com/papapumpkin/pheno/internal/scenario"
	"github.com/papapumpkin/pheno/internal/telemetry"
)

// DayRecord is the plant's phenological state at the end of one day.
type DayRecord struct {
	Day                int      `yaml:"day"`
	Alive              bool     `yaml:"alive"`
	Driver             float64  `yaml:"driver"`
	Stage              float64  `yaml:"stage"`
	Phase              string   `yaml:"phase"`
	StageName          string   `yaml:"stage_name"`
	Crossed            []string `yaml:"crossed,omitempty"`
	Accumulated        float64  `yaml:"accumulated"`
	AccumulatedEmerged float64  `yaml:"accumulated_since_emergence"`
	DaysAfterSowing    int      `yaml:"days_after_sowing"`
	Emerged            bool     `yaml:"emerged"`
}

// Crossing records the day a stage was first reached.
type Crossing struct {
	Day   int    `yaml:"day"`
	Stage string `yaml:"stage"`
}

// Result is the outcome of a run. Days holds one record per simulated day,
// including the days completed before a failure or cancellation.
type Result struct {
	RunID     string
	Crop      string
	Scenario  string
	Days      []DayRecord
	Crossings []Crossing
	Duration  time.Duration
}

// Final returns the last day's record, or the zero record for an empty run.
func (r *Result) Final() DayRecord {
	if len(r.Days) == 0 {
		return DayRecord{}
	}
	return r.Days[len(r.Days)-1]
}

// DayReached returns the first day stage was crossed, or 0 if never.
func (r *Result) DayReached(stage string) int {
	for _, c := range r.Crossings {
		if c.Stage == stage {
			return c.Day
		}
	}
	return 0
}

// Runner replays a scenario against a single plant.
type Runner struct {
	scenario *scenario.Scenario
	plant    *Plant
	source   driver.Source
	emitter  *telemetry.Emitter
	recorder *telemetry.Recorder
	logger   *logging.Logger
	runID    string
	days     int
	events   map[int][]scenario.EventSpec
}

// RunnerOption customizes a Runner.
type RunnerOption func(*Runner)

// WithEmitter records engine notifications and run boundaries to em.
func WithEmitter(em *telemetry.Emitter) RunnerOption {
	return func(r *Runner) { r.emitter = em }
}

// WithLogger sets the runner logger.
func WithLogger(l *logging.Logger) RunnerOption {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithDays overrides the scenario's schedule length. Non-positive values
// are ignored.
func WithDays(n int) RunnerOption {
	return func(r *Runner) {
		if n > 0 {
			r.days = n
		}
	}
}

// WithRunID sets the run identifier instead of generating one.
func WithRunID(id string) RunnerOption {
	return func(r *Runner) {
		if id != "" {
			r.runID = id
		}
	}
}

// NewRunner validates s and prepares a plant and driver source for it.
func NewRunner(s *scenario.Scenario, opts ...RunnerOption) (*Runner, error) {
	if err := scenario.Check(s); err != nil {
		return nil, err
	}
	r := &Runner{
		scenario: s,
		logger:   logging.NopLogger(),
		runID:    uuid.NewString(),
		days:     s.Schedule.Days,
		events:   make(map[int][]scenario.EventSpec),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = r.logger.WithRun(r.runID)

	phases, err := s.Build()
	if err != nil {
		return nil, err
	}
	src, err := s.Source()
	if err != nil {
		return nil, err
	}
	r.source = src

	plant, err := NewPlant(s.Crop.Name, phases, r.logger, s.EngineOptions()...)
	if err != nil {
		return nil, err
	}
	r.plant = plant
	r.recorder = telemetry.NewRecorder(r.emitter, plant.Engine(), r.runID)
	plant.Engine().Subscribe(r.recorder)

	for _, ev := range s.Events {
		r.events[ev.Day] = append(r.events[ev.Day], ev)
	}
	return r, nil
}

// RunID returns the run identifier stamped on telemetry and logs.
func (r *Runner) RunID() string { return r.runID }

// Plant returns the plant the runner drives.
func (r *Runner) Plant() *Plant { return r.plant }

// Run simulates days 1..N. Each day starts the engine's day, sows on the
// sow day, applies that day's scheduled events in file order, then feeds
// the day's driver value to the engine. Cancellation is checked between
// days. A failing day aborts the run; the returned Result still holds the
// days completed before it.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	start := time.Now()
	res := &Result{RunID: r.runID, Crop: r.plant.Name(), Scenario: r.scenario.SourceFile, Days: make([]DayRecord, 0, r.days)}
	seen := make(map[string]bool)

	r.logger.Info("run started", "crop", r.plant.Name(), "days", r.days, "scenario", r.scenario.SourceFile)
	r.recorder.Emit(telemetry.KindRunStart, map[string]any{
		"crop":     r.plant.Name(),
		"days":     r.days,
		"scenario": r.scenario.SourceFile,
		"phases":   r.plant.Engine().Phases().Names(),
	})

	finish := func(err error) (*Result, error) {
		res.Duration = time.Since(start)
		final := res.Final()
		data := map[string]any{
			"days_run": len(res.Days),
			"stage":    final.Stage,
			"phase":    final.Phase,
		}
		if err != nil {
			data["error"] = err.Error()
			r.logger.Error("run failed", "day", len(res.Days)+1, "error", err.Error())
		} else {
			r.logger.Info("run finished", "stage", final.Stage, "phase", final.Phase, "duration", res.Duration.String())
		}
		r.recorder.Emit(telemetry.KindRunDone, data)
		if terr := r.recorder.Err(); terr != nil {
			r.logger.Warn("telemetry write failed", "error", terr.Error())
		}
		return res, err
	}

	for day := 1; day <= r.days; day++ {
		if err := ctx.Err(); err != nil {
			return finish(fmt.Errorf("day %d: %w", day, err))
		}
		rec, err := r.step(day)
		if err != nil {
			return finish(fmt.Errorf("day %d: %w", day, err))
		}
		for _, stage := range rec.Crossed {
			if !seen[stage] {
				seen[stage] = true
				res.Crossings = append(res.Crossings, Crossing{Day: day, Stage: stage})
			}
		}
		res.Days = append(res.Days, rec)
	}
	return finish(nil)
}

func (r *Runner) step(day int) (DayRecord, error) {
	engine := r.plant.Engine()
	r.recorder.SetDay(day)

	if err := engine.DayStart(); err != nil {
		return DayRecord{}, err
	}
	if day == r.scenario.Schedule.SowDay && !r.plant.IsAlive() {
		if err := r.plant.Sow(); err != nil {
			return DayRecord{}, err
		}
	}
	for _, ev := range r.events[day] {
		if err := r.apply(ev); err != nil {
			return DayRecord{}, fmt.Errorf("%s: %w", ev.Action, err)
		}
		r.recorder.Emit(telemetry.KindManagement, map[string]any{"action": string(ev.Action)})
	}

	v, err := r.source.Value(day)
	if err != nil {
		return DayRecord{}, err
	}
	if err := engine.AdvanceDay(v); err != nil {
		return DayRecord{}, err
	}

	return DayRecord{
		Day:                day,
		Alive:              r.plant.IsAlive(),
		Driver:             v,
		Stage:              engine.Stage(),
		Phase:              engine.CurrentPhaseName(),
		StageName:          engine.CurrentStageName(),
		Crossed:            engine.StagesCrossedToday(),
		Accumulated:        engine.AccumulatedDriver(),
		AccumulatedEmerged: engine.AccumulatedDriverSinceEmergence(),
		DaysAfterSowing:    engine.DaysAfterSowing(),
		Emerged:            engine.Emerged(),
	}, nil
}

func (r *Runner) apply(ev scenario.EventSpec) error {
	switch ev.Action {
	case scenario.ActionSow:
		return r.plant.Sow()
	case scenario.ActionHarvest:
		return r.plant.Harvest()
	case scenario.ActionPrune:
		return r.plant.Prune()
	case scenario.ActionEnd:
		return r.plant.End()
	case scenario.ActionSetStage:
		return r.plant.Engine().ResetToStage(ev.Stage)
	case scenario.ActionSetPhase:
		return r.plant.Engine().SetCurrentPhaseByName(ev.Phase)
	default:
		return fmt.Errorf("%w: %q", scenario.ErrInvalidAction, ev.Action)
	}
}
