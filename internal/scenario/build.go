package scenario

import (
	"fmt"

	"github.com/papapumpkin/pheno/internal/driver"
	"github.com/papapumpkin/pheno/internal/phenology"
)

// Build returns a fresh phase list for one engine. Each call creates new
// phases, since a phase list may only be owned by a single engine.
func (s *Scenario) Build() (*phenology.PhaseList, error) {
	phases := make([]phenology.Phase, 0, len(s.Phases))
	for i, p := range s.Phases {
		switch p.Kind {
		case PhaseKindThermal, "":
			phases = append(phases, phenology.NewThermalPhase(p.Name, p.Start, p.End, p.Target))
		case PhaseKindGoto:
			phases = append(phases, phenology.NewRedirectPhase(p.Name, p.Start, p.End, p.Destination))
		case PhaseKindEnd:
			phases = append(phases, phenology.NewEndPhase(p.Name, p.Start, p.End))
		default:
			return nil, fmt.Errorf("phase[%d] %q: %w: %q", i, p.Name, ErrInvalidKind, p.Kind)
		}
	}
	return phenology.NewPhaseList(phases...)
}

// Source returns the driver source described by the [driver] table.
func (s *Scenario) Source() (driver.Source, error) {
	d := s.Driver
	switch {
	case d.Constant != nil:
		return driver.Constant(*d.Constant), nil
	case len(d.Values) > 0:
		return driver.NewSeries(d.Values, d.Cycle), nil
	default:
		return nil, fmt.Errorf("%s: %w: driver.constant or driver.values", s.SourceFile, ErrMissingField)
	}
}

// EngineOptions returns the engine options implied by the [crop] table.
func (s *Scenario) EngineOptions() []phenology.Option {
	return []phenology.Option{
		phenology.WithEmergenceStage(s.Crop.EmergenceStage),
		phenology.WithGerminationStage(s.Crop.GerminationStage),
	}
}

// Check runs Validate and folds the result into a single error wrapping
// ErrInvalid, or nil when the scenario is valid.
func Check(s *Scenario) error {
	errs := Validate(s)
	if len(errs) == 0 {
		return nil
	}
	if len(errs) == 1 {
		return fmt.Errorf("%w: %s", ErrInvalid, errs[0].Error())
	}
	return fmt.Errorf("%w: %s (and %d more)", ErrInvalid, errs[0].Error(), len(errs)-1)
}
