package phenology

import (
	"fmt"
	"math"

	"github.com/papapumpkin/pheno/internal/logging"
)

// Default stage names that drive the emerged flag and the above-ground total.
const (
	DefaultEmergenceStage   = "Emergence"
	DefaultGerminationStage = "Germination"
)

// maxCrossingsPerPhase bounds same-day cascades so a redirect loop over
// zero-target phases fails instead of spinning forever.
const maxCrossingsPerPhase = 4

// Host is the entity that owns the engine. Daily advancement is skipped
// while the host is not alive.
type Host interface {
	IsAlive() bool
}

// Engine advances development through a PhaseList one day at a time.
// It is single-threaded: callers must serialise access.
type Engine struct {
	phases           *PhaseList
	host             Host
	logger           *logging.Logger
	emergenceStage   string
	germinationStage string

	current            int
	stage              float64
	accumulated        float64
	accumulatedEmerged float64
	emerged            bool
	germinated         bool
	daysAfterSowing    int
	crossed            []string
	// provisional marks crossed as holding only the first phase's start
	// stage, recorded on the first day after Clear.
	provisional     bool
	justInitialised bool

	observers []subscription
	nextSubID uint64
	busy      bool
	pending   []notice
}

// Option customizes an Engine.
type Option func(*Engine)

// WithHost sets the liveness source. Without one the host is always alive.
func WithHost(h Host) Option {
	return func(e *Engine) { e.host = h }
}

// WithLogger sets the engine logger.
func WithLogger(l *logging.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithEmergenceStage names the stage whose crossing sets Emerged.
func WithEmergenceStage(name string) Option {
	return func(e *Engine) {
		if name != "" {
			e.emergenceStage = name
		}
	}
}

// WithGerminationStage names the end stage that separates below- and
// above-ground phases.
func WithGerminationStage(name string) Option {
	return func(e *Engine) {
		if name != "" {
			e.germinationStage = name
		}
	}
}

// New claims phases for a new engine and puts it in the cleared state.
func New(phases *PhaseList, opts ...Option) (*Engine, error) {
	if phases == nil || phases.Len() == 0 {
		return nil, fmt.Errorf("phenology engine: %w", ErrNoPhases)
	}
	if phases.owned {
		return nil, fmt.Errorf("phenology engine: %w", ErrPhaseListInUse)
	}
	e := &Engine{
		phases:           phases,
		logger:           logging.NopLogger(),
		emergenceStage:   DefaultEmergenceStage,
		germinationStage: DefaultGerminationStage,
	}
	for _, opt := range opts {
		opt(e)
	}
	phases.owned = true
	e.reset()
	return e, nil
}

// Subscribe registers an observer and returns a func that removes it.
func (e *Engine) Subscribe(o Observer) func() {
	e.nextSubID++
	id := e.nextSubID
	e.observers = append(e.observers, subscription{id: id, observer: o})
	return func() {
		for i, sub := range e.observers {
			if sub.id == id {
				e.observers = append(e.observers[:i:i], e.observers[i+1:]...)
				return
			}
		}
	}
}

// Clear returns the engine to its initial state: phase 0, stage 1, all
// counters zeroed and every phase reset. Clearing twice is the same as once.
func (e *Engine) Clear() error {
	return e.mutate("clear", func() error {
		e.reset()
		return nil
	})
}

// DayStart forgets the stages crossed yesterday and counts a day after
// sowing while the host is alive.
func (e *Engine) DayStart() error {
	return e.mutate("day start", func() error {
		e.crossed = e.crossed[:0]
		e.provisional = false
		if e.alive() {
			e.daysAfterSowing++
		}
		return nil
	})
}

// Pruning clears the germinated and emerged flags only.
func (e *Engine) Pruning() error {
	return e.mutate("pruning", func() error {
		e.germinated = false
		e.emerged = false
		return nil
	})
}

// AdvanceDay feeds one day's driver value into the current phase and
// cascades any leftover into the following phases. It is a no-op while the
// host is not alive. On error nothing is committed and no notifications fire.
func (e *Engine) AdvanceDay(driver float64) error {
	return e.mutate("advance day", func() error {
		if !e.alive() {
			return nil
		}
		if !(driver >= 0) {
			return fmt.Errorf("%w: %g", ErrNegativeDriver, driver)
		}
		if len(e.crossed) == 0 && e.justInitialised {
			e.crossed = append(e.crossed, e.phases.At(0).Start())
			e.provisional = true
			e.justInitialised = false
		}

		limit := e.phases.Len() * maxCrossingsPerPhase
		leftover := e.currentPhase().Advance(driver, 1.0)
		for crossings := 0; leftover > 0; crossings++ {
			next := e.current + 1
			if next >= e.phases.Len() {
				return fmt.Errorf("leaving %q: %w", e.currentPhase().Name(), ErrNoMorePhases)
			}
			if crossings >= limit {
				return fmt.Errorf("after %d transitions: %w", crossings, ErrCascadeLoop)
			}
			if e.stage >= 1 {
				e.germinated = true
			}
			if err := e.transition(next, true); err != nil {
				return err
			}
			e.raise(notice{kind: noticeGrowthStage})
			leftover = e.currentPhase().Advance(driver, leftover)
			e.updateStage()
		}
		e.updateStage()

		e.accumulated += driver
		if e.emerged {
			e.accumulatedEmerged += driver
		}
		if e.alive() {
			e.raise(notice{kind: noticePostPhenology})
		}
		return nil
	})
}

// Harvest jumps to the last phase. Moving there is never treated as a
// rewind, so accumulated driver is kept.
func (e *Engine) Harvest() error {
	return e.mutate("harvest", func() error {
		last := e.phases.Len() - 1
		if err := e.transition(last, false); err != nil {
			return err
		}
		e.logger.Info("phenology set to harvest phase", "phase", e.phases.At(last).Name())
		return nil
	})
}

// SetCurrentPhaseByName jumps to the named phase.
func (e *Engine) SetCurrentPhaseByName(name string) error {
	return e.mutate("set phase", func() error {
		idx := e.phases.IndexOf(name)
		if idx < 0 {
			return fmt.Errorf("cannot jump to phenology phase %q: %w", name, ErrPhaseNotFound)
		}
		if err := e.transition(idx, false); err != nil {
			return err
		}
		e.logger.Info("phenology phase set", "requested", name, "phase", e.currentPhase().Name())
		return nil
	})
}

// ResetToStage moves development to a one-based stage number: the integer
// part selects the phase, the fractional part its completion.
func (e *Engine) ResetToStage(newStage float64) error {
	return e.mutate("reset to stage", func() error {
		if !(newStage > 0) {
			return fmt.Errorf("%w: %g", ErrNonPositiveStage, newStage)
		}
		whole := math.Floor(newStage)
		idx := int(whole) - 1
		if idx < 0 || idx >= e.phases.Len() {
			return fmt.Errorf("stage %g maps to no phase: %w", newStage, ErrPhaseNotFound)
		}
		if err := e.transition(idx, false); err != nil {
			return err
		}
		e.currentPhase().SetFractionComplete(newStage - whole)
		e.updateStage()
		e.raise(notice{kind: noticePhaseRewound})
		e.logger.Info("phenology rewound", "stage", newStage, "phase", e.currentPhase().Name())
		return nil
	})
}

func (e *Engine) reset() {
	e.current = 0
	e.stage = 1
	e.accumulated = 0
	e.accumulatedEmerged = 0
	e.emerged = false
	e.germinated = false
	e.daysAfterSowing = 0
	e.crossed = make([]string, 0, e.phases.Len())
	e.provisional = false
	e.justInitialised = true
	e.phases.resetAll()
}

func (e *Engine) alive() bool {
	return e.host == nil || e.host.IsAlive()
}

func (e *Engine) currentPhase() Phase {
	return e.phases.At(e.current)
}

func (e *Engine) updateStage() {
	e.stage = float64(e.current+1) + e.currentPhase().FractionComplete()
}

func (e *Engine) raise(n notice) {
	e.pending = append(e.pending, n)
}

// engineState is everything a failed operation must put back.
type engineState struct {
	current            int
	stage              float64
	accumulated        float64
	accumulatedEmerged float64
	emerged            bool
	germinated         bool
	daysAfterSowing    int
	crossed            []string
	provisional        bool
	justInitialised    bool
	phases             []PhaseState
}

func (e *Engine) save() engineState {
	return engineState{
		current:            e.current,
		stage:              e.stage,
		accumulated:        e.accumulated,
		accumulatedEmerged: e.accumulatedEmerged,
		emerged:            e.emerged,
		germinated:         e.germinated,
		daysAfterSowing:    e.daysAfterSowing,
		crossed:            append([]string(nil), e.crossed...),
		provisional:        e.provisional,
		justInitialised:    e.justInitialised,
		phases:             e.phases.snapshot(),
	}
}

func (e *Engine) load(s engineState) {
	e.current = s.current
	e.stage = s.stage
	e.accumulated = s.accumulated
	e.accumulatedEmerged = s.accumulatedEmerged
	e.emerged = s.emerged
	e.germinated = s.germinated
	e.daysAfterSowing = s.daysAfterSowing
	e.crossed = append(e.crossed[:0], s.crossed...)
	e.provisional = s.provisional
	e.justInitialised = s.justInitialised
	e.phases.restore(s.phases)
}

// mutate runs fn as one atomic engine operation. Notifications raised by fn
// are delivered only after it succeeds; on failure state is rolled back.
// The busy flag stays set while observers run, so callbacks cannot re-enter.
func (e *Engine) mutate(op string, fn func() error) error {
	if e.busy {
		return fmt.Errorf("%s: %w", op, ErrReentrant)
	}
	e.busy = true
	defer func() { e.busy = false }()

	saved := e.save()
	e.pending = nil
	if err := fn(); err != nil {
		e.load(saved)
		e.pending = nil
		e.logger.Error("phenology operation failed", "op", op, "error", err.Error())
		return fmt.Errorf("%s: %w", op, err)
	}

	queued := e.pending
	e.pending = nil
	observers := append([]subscription(nil), e.observers...)
	for _, n := range queued {
		for _, sub := range observers {
			n.deliver(sub.observer)
		}
	}
	return nil
}
