package phenology

import "fmt"

// PhaseList is the ordered developmental sequence. Insertion order is
// developmental order. Name lookups are case-insensitive and resolve to the
// first match.
type PhaseList struct {
	phases []Phase
	owned  bool
}

// NewPhaseList builds a list from phases in developmental order.
func NewPhaseList(phases ...Phase) (*PhaseList, error) {
	for i, p := range phases {
		if p == nil {
			return nil, fmt.Errorf("phase list: phase %d is nil", i)
		}
	}
	out := make([]Phase, len(phases))
	copy(out, phases)
	return &PhaseList{phases: out}, nil
}

// Len returns the number of phases.
func (l *PhaseList) Len() int { return len(l.phases) }

// At returns the phase at index i.
func (l *PhaseList) At(i int) Phase { return l.phases[i] }

// Last returns the terminal phase, or nil for an empty list.
func (l *PhaseList) Last() Phase {
	if len(l.phases) == 0 {
		return nil
	}
	return l.phases[len(l.phases)-1]
}

// IndexOf returns the index of the phase with the given name, or -1.
func (l *PhaseList) IndexOf(name string) int {
	for i, p := range l.phases {
		if sameName(p.Name(), name) {
			return i
		}
	}
	return -1
}

// IndexOfStart returns the index of the first phase starting at stage, or -1.
func (l *PhaseList) IndexOfStart(stage string) int {
	for i, p := range l.phases {
		if sameName(p.Start(), stage) {
			return i
		}
	}
	return -1
}

// IndexOfEnd returns the index of the first phase ending at stage, or -1.
func (l *PhaseList) IndexOfEnd(stage string) int {
	for i, p := range l.phases {
		if sameName(p.End(), stage) {
			return i
		}
	}
	return -1
}

// Names returns the phase names in order.
func (l *PhaseList) Names() []string {
	names := make([]string, len(l.phases))
	for i, p := range l.phases {
		names[i] = p.Name()
	}
	return names
}

func (l *PhaseList) snapshot() []PhaseState {
	states := make([]PhaseState, len(l.phases))
	for i, p := range l.phases {
		states[i] = p.Snapshot()
	}
	return states
}

func (l *PhaseList) restore(states []PhaseState) {
	for i, p := range l.phases {
		p.Restore(states[i])
	}
}

func (l *PhaseList) resetAll() {
	for _, p := range l.phases {
		p.Reset()
	}
}
