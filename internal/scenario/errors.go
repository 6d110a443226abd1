package scenario

import "errors"

// Sentinel errors for scenario loading and validation.
var (
	// ErrNoManifest indicates the scenario file does not exist.
	ErrNoManifest = errors.New("scenario file not found")
	// ErrMissingField indicates a required field (e.g. name, start) is empty.
	ErrMissingField = errors.New("required field missing")
	// ErrDuplicateName indicates two phases share a name or a start stage.
	ErrDuplicateName = errors.New("duplicate name")
	// ErrUnknownPhase indicates a reference to a phase that does not exist.
	ErrUnknownPhase = errors.New("unknown phase")
	// ErrInvalidKind indicates an unrecognized phase kind.
	ErrInvalidKind = errors.New("invalid phase kind")
	// ErrInvalidAction indicates an unrecognized management action.
	ErrInvalidAction = errors.New("invalid action")
	// ErrOutOfBounds indicates a numeric field is outside its valid range.
	ErrOutOfBounds = errors.New("value out of bounds")
	// ErrInvalid indicates Validate returned at least one error.
	ErrInvalid = errors.New("invalid scenario")
)

// ValidationCategory classifies a validation error for programmatic handling.
type ValidationCategory string

const (
	ValCatMissingField       ValidationCategory = "missing_field"
	ValCatDuplicateName      ValidationCategory = "duplicate_name"
	ValCatUnknownDestination ValidationCategory = "unknown_destination"
	ValCatBoundsViolation    ValidationCategory = "bounds_violation"
	ValCatInvalidAction      ValidationCategory = "invalid_action"
	ValCatInvalidKind        ValidationCategory = "invalid_kind"
)

// ValidationError records a validation problem with source context.
type ValidationError struct {
	Category   ValidationCategory
	Phase      string // Phase name, when the problem belongs to one phase
	SourceFile string
	Field      string
	Err        error
}

// Error returns a human-readable string including source file and phase context.
func (e *ValidationError) Error() string {
	if e.Phase != "" {
		return e.SourceFile + ": phase " + e.Phase + ": " + e.Err.Error()
	}
	return e.SourceFile + ": " + e.Err.Error()
}

// Unwrap returns the underlying error for use with errors.Is/As.
func (e *ValidationError) Unwrap() error {
	return e.Err
}
