package phenology

import "fmt"

// transition moves the current phase pointer to target.
//
// The move counts as a rewind when it goes backward (unless it lands on the
// last phase, which is how harvest is recognised), skips ahead more than one
// phase, or enters a redirect phase. A rewind resets every phase from target
// onward and, except for redirects, unwinds their driver from the running
// totals. Entering a redirect then resolves its destination once. Only the
// daily cascade passes advancing, and only then can the move set emerged.
func (e *Engine) transition(target int, advancing bool) error {
	if target < 0 || target >= e.phases.Len() {
		return fmt.Errorf("phase index %d: %w", target, ErrPhaseNotFound)
	}
	old := e.currentPhase()
	oldName, stageOnEvent := old.Name(), old.End()
	prior := e.current

	e.recordCrossing(e.phases.At(target).Start())

	harvestCall := target == e.phases.Len()-1
	destination, redirect := isRedirect(e.phases.At(target))
	if (target <= prior && !harvestCall) || target-prior > 1 || redirect {
		for i := target; i < e.phases.Len(); i++ {
			p := e.phases.At(i)
			if !redirect {
				e.accumulated -= p.DriverInPhase()
				if i >= 2 {
					e.accumulatedEmerged -= p.DriverInPhase()
				}
			}
			p.Reset()
		}
		if redirect {
			idx := e.phases.IndexOf(destination)
			if idx < 0 {
				return fmt.Errorf("cannot goto phase %q: %w", destination, ErrPhaseNotFound)
			}
			e.logger.Debug("phenology redirected", "from", e.phases.At(target).Name(), "to", destination)
			target = idx
		}
	}

	e.phases.At(target).Reset()
	e.current = target
	if advancing && target == prior+1 && sameName(stageOnEvent, e.emergenceStage) {
		e.emerged = true
	}
	e.updateStage()

	change := PhaseChange{
		OldPhaseName:   oldName,
		NewPhaseName:   e.currentPhase().Name(),
		EventStageName: stageOnEvent,
	}
	e.raise(notice{kind: noticePhaseChanged, change: change})
	e.logger.Debug("phenology phase changed",
		"old_phase", change.OldPhaseName,
		"new_phase", change.NewPhaseName,
		"stage", stageOnEvent,
	)
	return nil
}

// recordCrossing appends a stage to today's list, replacing the provisional
// first-day entry if that is all the list holds.
func (e *Engine) recordCrossing(stage string) {
	if e.provisional {
		e.crossed = e.crossed[:0]
		e.provisional = false
	}
	e.crossed = append(e.crossed, stage)
}
