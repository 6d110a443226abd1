package phenology

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Stage returns the one-based continuous stage number:
// current phase index + 1 + fraction complete.
func (e *Engine) Stage() float64 { return e.stage }

// CurrentPhase returns the phase development is in.
func (e *Engine) CurrentPhase() Phase { return e.currentPhase() }

// CurrentPhaseName returns the name of the current phase.
func (e *Engine) CurrentPhaseName() string { return e.currentPhase().Name() }

// CurrentPhaseIndex returns the zero-based index of the current phase.
func (e *Engine) CurrentPhaseIndex() int { return e.current }

// CurrentStageName returns the start stage of the current phase on the day
// it was entered, and "?" on every other day.
func (e *Engine) CurrentStageName() string {
	start := e.currentPhase().Start()
	if e.OnDayOf(start) {
		return start
	}
	return "?"
}

// FractionInCurrentPhase returns the fractional part of Stage.
func (e *Engine) FractionInCurrentPhase() float64 {
	return e.stage - math.Trunc(e.stage)
}

// AccumulatedDriver returns the driver accumulated over the run, net of rewinds.
func (e *Engine) AccumulatedDriver() float64 { return e.accumulated }

// AccumulatedDriverSinceEmergence returns the driver accumulated while emerged.
func (e *Engine) AccumulatedDriverSinceEmergence() float64 { return e.accumulatedEmerged }

// Emerged reports whether the daily cascade has carried development out of
// the phase ending at the emergence stage since the last Clear or Pruning.
func (e *Engine) Emerged() bool { return e.emerged }

// Germinated reports whether any phase has completed since the last Clear
// or Pruning.
func (e *Engine) Germinated() bool { return e.germinated }

// DaysAfterSowing counts DayStart calls made while the host was alive.
func (e *Engine) DaysAfterSowing() int { return e.daysAfterSowing }

// Phases returns the engine's phase list. Callers must not mutate phases
// directly.
func (e *Engine) Phases() *PhaseList { return e.phases }

// StagesCrossedToday returns a copy of the stage names passed today.
func (e *Engine) StagesCrossedToday() []string {
	out := make([]string, len(e.crossed))
	copy(out, e.crossed)
	return out
}

// DriverInAboveGroundPhases sums DriverInPhase from the first phase after
// the germination stage to the end of the list.
func (e *Engine) DriverInAboveGroundPhases() float64 {
	first := e.phases.IndexOfEnd(e.germinationStage) + 1
	total := 0.0
	for i := first; i < e.phases.Len(); i++ {
		total += e.phases.At(i).DriverInPhase()
	}
	return total
}

// OnDayOf reports whether stageName was crossed today.
func (e *Engine) OnDayOf(stageName string) bool {
	for _, s := range e.crossed {
		if s == stageName {
			return true
		}
	}
	return false
}

// InPhase reports whether the current phase is named phaseName.
func (e *Engine) InPhase(phaseName string) bool {
	return sameName(e.currentPhase().Name(), phaseName)
}

// Between reports whether development lies between the phase starting at
// start and the phase ending at end, inclusive. start may carry a fraction
// suffix such as "FloralInitiation(0.5)": while in that start phase the
// stage's fractional part must also have reached the fraction.
func (e *Engine) Between(start, end string) (bool, error) {
	startName, fraction, err := splitStageFraction(start)
	if err != nil {
		return false, err
	}
	startIdx := e.phases.IndexOfStart(startName)
	if startIdx < 0 {
		return false, fmt.Errorf("cannot find phase starting at %q: %w", startName, ErrPhaseNotFound)
	}
	endIdx := e.phases.IndexOfEnd(end)
	if endIdx < 0 {
		return false, fmt.Errorf("cannot find phase ending at %q: %w", end, ErrPhaseNotFound)
	}
	if startIdx > endIdx {
		return false, fmt.Errorf("%q after %q: %w", startName, end, ErrInvalidRange)
	}
	if e.current == startIdx && fraction > 0 {
		return e.stage >= math.Trunc(e.stage)+fraction, nil
	}
	return e.current >= startIdx && e.current <= endIdx, nil
}

// Beyond reports whether development is at or past the phase starting at
// start. A fraction suffix is parsed and validated but does not affect the
// result.
func (e *Engine) Beyond(start string) (bool, error) {
	startName, _, err := splitStageFraction(start)
	if err != nil {
		return false, err
	}
	startIdx := e.phases.IndexOfStart(startName)
	if startIdx < 0 {
		return false, fmt.Errorf("unable to find phase starting with %q: %w", startName, ErrPhaseNotFound)
	}
	return e.current >= startIdx, nil
}

// splitStageFraction splits "Name(0.5)" into "Name" and 0.5. A name
// without brackets has fraction 0.
func splitStageFraction(s string) (string, float64, error) {
	open := strings.IndexByte(s, '(')
	if open < 0 {
		return strings.TrimSpace(s), 0, nil
	}
	closing := strings.LastIndexByte(s, ')')
	if closing < open {
		return "", 0, fmt.Errorf("%q: unbalanced brackets: %w", s, ErrInvalidStageSuffix)
	}
	name := strings.TrimSpace(s[:open] + s[closing+1:])
	raw := strings.TrimSpace(s[open+1 : closing])
	if raw == "" {
		return name, 0, nil
	}
	fraction, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return "", 0, fmt.Errorf("%q: %w", s, ErrInvalidStageSuffix)
	}
	return name, fraction, nil
}
