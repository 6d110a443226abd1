// Package phenology simulates developmental progression through an ordered
// list of phases, each bounded by a start and an end stage and driven by a
// daily driver value such as thermal time.
//
// The Engine owns the PhaseList and all counters. A host calls DayStart,
// then AdvanceDay with the day's driver value; leftover driver cascades into
// following phases on the same day. ResetToStage, SetCurrentPhaseByName and
// Harvest jump development explicitly, unwinding accumulated driver when the
// jump is a rewind. Every mutating call is atomic: a fatal error rolls the
// engine back and suppresses the notifications it would have raised.
package phenology
