// Package scenario loads and validates TOML scenario manifests: the crop's
// phase list, the daily driver series and the management schedule that the
// simulation runner replays.
package scenario

// Scenario is parsed from a scenario TOML file.
type Scenario struct {
	Crop     Crop        `toml:"crop"`
	Phases   []PhaseSpec `toml:"phase"`
	Driver   DriverSpec  `toml:"driver"`
	Schedule Schedule    `toml:"schedule"`
	Events   []EventSpec `toml:"event"`

	SourceFile string `toml:"-"` // Path the scenario was loaded from, for error context
}

// Crop names the crop and the stages with special meaning to the engine.
type Crop struct {
	Name             string `toml:"name"`
	EmergenceStage   string `toml:"emergence_stage"`   // "" = "Emergence"
	GerminationStage string `toml:"germination_stage"` // "" = "Germination"
}

// PhaseKind selects the phase variant.
type PhaseKind string

const (
	// PhaseKindThermal completes after accumulating Target driver units.
	PhaseKindThermal PhaseKind = "thermal"
	// PhaseKindGoto redirects development to Destination.
	PhaseKindGoto PhaseKind = "goto"
	// PhaseKindEnd never completes; it is normally the last phase.
	PhaseKindEnd PhaseKind = "end"
)

// ValidPhaseKinds is the set of recognized phase kinds.
var ValidPhaseKinds = map[PhaseKind]bool{
	PhaseKindThermal: true,
	PhaseKindGoto:    true,
	PhaseKindEnd:     true,
}

// PhaseSpec is one [[phase]] table. Order in the file is developmental order.
type PhaseSpec struct {
	Name        string    `toml:"name"`
	Kind        PhaseKind `toml:"kind"` // "" = thermal
	Start       string    `toml:"start"`
	End         string    `toml:"end"`
	Target      float64   `toml:"target"`
	Destination string    `toml:"destination"` // goto only
}

// DriverSpec describes the daily driver values. Exactly one of Constant
// or Values is expected.
type DriverSpec struct {
	Constant *float64  `toml:"constant"`
	Values   []float64 `toml:"values"`
	Cycle    bool      `toml:"cycle"` // Repeat Values instead of running out
}

// Schedule bounds the simulated period.
type Schedule struct {
	Days   int `toml:"days"`
	SowDay int `toml:"sow_day"` // 0 = day 1
}

// Action is a management trigger sent to the plant on a given day.
type Action string

const (
	ActionSow      Action = "sow"
	ActionHarvest  Action = "harvest"
	ActionPrune    Action = "prune"
	ActionEnd      Action = "end"
	ActionSetStage Action = "set_stage"
	ActionSetPhase Action = "set_phase"
)

// ValidActions is the set of recognized management actions.
var ValidActions = map[Action]bool{
	ActionSow:      true,
	ActionHarvest:  true,
	ActionPrune:    true,
	ActionEnd:      true,
	ActionSetStage: true,
	ActionSetPhase: true,
}

// EventSpec is one [[event]] table.
type EventSpec struct {
	Day    int     `toml:"day"`
	Action Action  `toml:"action"`
	Stage  float64 `toml:"stage"` // set_stage only
	Phase  string  `toml:"phase"` // set_phase only
}
