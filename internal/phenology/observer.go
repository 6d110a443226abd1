package phenology

// PhaseChange describes a transition between phases.
type PhaseChange struct {
	OldPhaseName string
	NewPhaseName string
	// EventStageName is the end stage of the phase being left.
	EventStageName string
}

// Observer receives engine notifications. Callbacks run synchronously after
// the operation that raised them has committed its state; they may read the
// engine but any mutating call from inside a callback fails with ErrReentrant.
type Observer interface {
	PhaseChanged(change PhaseChange)
	PhaseRewound()
	GrowthStageReached()
	PostPhenologyCompleted()
}

// ObserverFuncs adapts optional funcs to the Observer interface.
type ObserverFuncs struct {
	OnPhaseChanged           func(PhaseChange)
	OnPhaseRewound           func()
	OnGrowthStageReached     func()
	OnPostPhenologyCompleted func()
}

// PhaseChanged calls OnPhaseChanged if set.
func (f ObserverFuncs) PhaseChanged(change PhaseChange) {
	if f.OnPhaseChanged != nil {
		f.OnPhaseChanged(change)
	}
}

// PhaseRewound calls OnPhaseRewound if set.
func (f ObserverFuncs) PhaseRewound() {
	if f.OnPhaseRewound != nil {
		f.OnPhaseRewound()
	}
}

// GrowthStageReached calls OnGrowthStageReached if set.
func (f ObserverFuncs) GrowthStageReached() {
	if f.OnGrowthStageReached != nil {
		f.OnGrowthStageReached()
	}
}

// PostPhenologyCompleted calls OnPostPhenologyCompleted if set.
func (f ObserverFuncs) PostPhenologyCompleted() {
	if f.OnPostPhenologyCompleted != nil {
		f.OnPostPhenologyCompleted()
	}
}

type noticeKind int

const (
	noticePhaseChanged noticeKind = iota
	noticePhaseRewound
	noticeGrowthStage
	noticePostPhenology
)

// notice is a queued notification, delivered once the raising operation commits.
type notice struct {
	kind   noticeKind
	change PhaseChange
}

func (n notice) deliver(o Observer) {
	switch n.kind {
	case noticePhaseChanged:
		o.PhaseChanged(n.change)
	case noticePhaseRewound:
		o.PhaseRewound()
	case noticeGrowthStage:
		o.GrowthStageReached()
	case noticePostPhenology:
		o.PostPhenologyCompleted()
	}
}

type subscription struct {
	id       uint64
	observer Observer
}
