package phenology

import "strings"

// tolerance absorbs floating-point noise when a phase lands on its target.
const tolerance = 1e-9

// Phase is one start-to-end stage segment in the developmental sequence.
//
// Advance receives the day's driver value and the fraction of that day's
// budget still available, and returns the fraction left over once the phase
// has completed (0 while the phase is still in progress). The leftover is a
// fraction of the driver budget, not of calendar time.
type Phase interface {
	Name() string
	Start() string
	End() string
	Advance(driver, fraction float64) float64
	FractionComplete() float64
	SetFractionComplete(fraction float64)
	// DriverInPhase is the driver accumulated during the current occupancy.
	DriverInPhase() float64
	// DriverToday is the driver consumed by the most recent Advance call.
	DriverToday() float64
	Reset()
	Snapshot() PhaseState
	Restore(PhaseState)
}

// Redirector is implemented by phases that send development to another
// phase instead of consuming driver budget.
type Redirector interface {
	Destination() string
}

// PhaseState is the mutable part of a phase, captured so a failed engine
// operation can be rolled back.
type PhaseState struct {
	Progress      float64
	DriverInPhase float64
	DriverToday   float64
}

// ThermalPhase completes once Target driver units have been accumulated.
type ThermalPhase struct {
	name   string
	start  string
	end    string
	target float64

	progress      float64
	driverInPhase float64
	driverToday   float64
}

// NewThermalPhase creates an ordinary phase. A negative target is treated as 0.
func NewThermalPhase(name, start, end string, target float64) *ThermalPhase {
	if target < 0 {
		target = 0
	}
	return &ThermalPhase{name: name, start: start, end: end, target: target}
}

// Name returns the phase name.
func (p *ThermalPhase) Name() string { return p.name }

// Start returns the stage the phase begins at.
func (p *ThermalPhase) Start() string { return p.start }

// End returns the stage the phase finishes at.
func (p *ThermalPhase) End() string { return p.end }

// Target returns the driver units needed to complete the phase.
func (p *ThermalPhase) Target() float64 { return p.target }

// Advance consumes driver*fraction. When the target is exceeded the consumed
// amount is capped at the target and the overshoot is handed back as a
// fraction of driver.
func (p *ThermalPhase) Advance(driver, fraction float64) float64 {
	available := driver * fraction
	if available <= 0 {
		p.driverToday = 0
		return 0
	}
	p.progress += available
	overshoot := p.progress - p.target
	if overshoot <= tolerance {
		if overshoot > 0 {
			p.progress = p.target
		}
		p.driverInPhase += available
		p.driverToday = available
		return 0
	}
	used := available - overshoot
	p.progress = p.target
	p.driverInPhase += used
	p.driverToday = used
	return overshoot / driver
}

// FractionComplete reports progress/target; a zero-target phase reports 0.
func (p *ThermalPhase) FractionComplete() float64 {
	if p.target <= 0 {
		return 0
	}
	return p.progress / p.target
}

// SetFractionComplete moves progress to fraction of the target without
// touching the driver accumulators.
func (p *ThermalPhase) SetFractionComplete(fraction float64) {
	p.progress = p.target * fraction
}

// DriverInPhase returns the driver consumed since the phase was entered.
func (p *ThermalPhase) DriverInPhase() float64 { return p.driverInPhase }

// DriverToday returns the driver consumed by the last Advance.
func (p *ThermalPhase) DriverToday() float64 { return p.driverToday }

// Reset zeroes progress and accumulators.
func (p *ThermalPhase) Reset() {
	p.progress = 0
	p.driverInPhase = 0
	p.driverToday = 0
}

// Snapshot captures progress and accumulators.
func (p *ThermalPhase) Snapshot() PhaseState {
	return PhaseState{Progress: p.progress, DriverInPhase: p.driverInPhase, DriverToday: p.driverToday}
}

// Restore puts back state captured by Snapshot.
func (p *ThermalPhase) Restore(s PhaseState) {
	p.progress = s.Progress
	p.driverInPhase = s.DriverInPhase
	p.driverToday = s.DriverToday
}

// RedirectPhase is a zero-duration "goto" phase. Entering it moves the
// engine to Destination without unwinding accumulated driver.
type RedirectPhase struct {
	name        string
	start       string
	end         string
	destination string
}

// NewRedirectPhase creates a goto phase that redirects to the named phase.
func NewRedirectPhase(name, start, end, destination string) *RedirectPhase {
	return &RedirectPhase{name: name, start: start, end: end, destination: destination}
}

// Name returns the phase name.
func (p *RedirectPhase) Name() string { return p.name }

// Start returns the stage that triggers the redirect.
func (p *RedirectPhase) Start() string { return p.start }

// End returns the nominal end stage. Development never reaches it.
func (p *RedirectPhase) End() string { return p.end }

// Destination returns the name of the phase development is sent to.
func (p *RedirectPhase) Destination() string { return p.destination }

// Advance completes immediately and returns the whole input fraction.
func (p *RedirectPhase) Advance(_, fraction float64) float64 { return fraction }

// FractionComplete is always 0.
func (p *RedirectPhase) FractionComplete() float64 { return 0 }

// SetFractionComplete is a no-op.
func (p *RedirectPhase) SetFractionComplete(float64) {}

// DriverInPhase is always 0; a redirect consumes nothing.
func (p *RedirectPhase) DriverInPhase() float64 { return 0 }

// DriverToday is always 0.
func (p *RedirectPhase) DriverToday() float64 { return 0 }

// Reset is a no-op.
func (p *RedirectPhase) Reset() {}

// Snapshot returns the zero state.
func (p *RedirectPhase) Snapshot() PhaseState { return PhaseState{} }

// Restore is a no-op.
func (p *RedirectPhase) Restore(PhaseState) {}

// isRedirect reports whether p redirects, returning its destination.
func isRedirect(p Phase) (string, bool) {
	r, ok := p.(Redirector)
	if !ok {
		return "", false
	}
	return r.Destination(), true
}

func sameName(a, b string) bool {
	return strings.EqualFold(a, b)
}

// EndPhase is a terminal phase that never completes. It accumulates driver
// so the ledger stays consistent, but always reports no leftover.
type EndPhase struct {
	name  string
	start string
	end   string

	driverInPhase float64
	driverToday   float64
}

// NewEndPhase creates a terminal phase.
func NewEndPhase(name, start, end string) *EndPhase {
	return &EndPhase{name: name, start: start, end: end}
}

// Name returns the phase name.
func (p *EndPhase) Name() string { return p.name }

// Start returns the stage the terminal phase begins at.
func (p *EndPhase) Start() string { return p.start }

// End returns the nominal end stage.
func (p *EndPhase) End() string { return p.end }

// Advance absorbs driver*fraction and returns 0.
func (p *EndPhase) Advance(driver, fraction float64) float64 {
	p.driverToday = driver * fraction
	p.driverInPhase += p.driverToday
	return 0
}

// FractionComplete is always 0; a terminal phase has no target.
func (p *EndPhase) FractionComplete() float64 { return 0 }

// SetFractionComplete is a no-op.
func (p *EndPhase) SetFractionComplete(float64) {}

// DriverInPhase returns the driver absorbed since the phase was entered.
func (p *EndPhase) DriverInPhase() float64 { return p.driverInPhase }

// DriverToday returns the driver absorbed by the last Advance.
func (p *EndPhase) DriverToday() float64 { return p.driverToday }

// Reset zeroes the accumulators.
func (p *EndPhase) Reset() {
	p.driverInPhase = 0
	p.driverToday = 0
}

// Snapshot captures the accumulators.
func (p *EndPhase) Snapshot() PhaseState {
	return PhaseState{DriverInPhase: p.driverInPhase, DriverToday: p.driverToday}
}

// Restore puts back state captured by Snapshot.
func (p *EndPhase) Restore(s PhaseState) {
	p.driverInPhase = s.DriverInPhase
	p.driverToday = s.DriverToday
}
