package phenology

import "errors"

// Sentinel errors returned by the engine. Callers match them with errors.Is;
// returned errors carry the offending name or value as context.
var (
	// ErrNegativeDriver indicates a negative daily driver value was supplied.
	ErrNegativeDriver = errors.New("negative driver value")
	// ErrPhaseNotFound indicates a phase or stage name did not resolve.
	ErrPhaseNotFound = errors.New("phase not found")
	// ErrNoMorePhases indicates the cascade ran past the last phase.
	ErrNoMorePhases = errors.New("cannot transition to the next phase: no more phases exist")
	// ErrCascadeLoop indicates a same-day cascade kept redirecting without settling.
	ErrCascadeLoop = errors.New("phase cascade did not settle")
	// ErrNonPositiveStage indicates ResetToStage was called with a stage <= 0.
	ErrNonPositiveStage = errors.New("stage must be positive")
	// ErrNoPhases indicates the engine was built from an empty phase list.
	ErrNoPhases = errors.New("phase list is empty")
	// ErrReentrant indicates a mutating call was made while another was in progress.
	ErrReentrant = errors.New("re-entrant engine call")
	// ErrPhaseListInUse indicates a phase list is already owned by another engine.
	ErrPhaseListInUse = errors.New("phase list already owned by an engine")
	// ErrInvalidStageSuffix indicates a malformed "Name(fraction)" suffix.
	ErrInvalidStageSuffix = errors.New("invalid stage fraction suffix")
	// ErrInvalidRange indicates Between was asked for a start after its end.
	ErrInvalidRange = errors.New("start phase is after end phase")
)
