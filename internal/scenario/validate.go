package scenario

import (
	"fmt"
	"math"
	"strings"
)

// Validate checks a scenario for structural correctness: required fields,
// unique phase names, resolvable goto destinations, non-negative driver
// values and a schedule that fits the phase list.
func Validate(s *Scenario) []ValidationError {
	var errs []ValidationError
	add := func(cat ValidationCategory, phase, field string, err error) {
		errs = append(errs, ValidationError{
			Category:   cat,
			Phase:      phase,
			SourceFile: s.SourceFile,
			Field:      field,
			Err:        err,
		})
	}

	if s.Crop.Name == "" {
		add(ValCatMissingField, "", "crop.name", fmt.Errorf("%w: crop.name", ErrMissingField))
	}
	if len(s.Phases) == 0 {
		add(ValCatMissingField, "", "phase", fmt.Errorf("%w: at least one [[phase]]", ErrMissingField))
	}

	names := make(map[string]int)  // lower-cased name → index
	starts := make(map[string]int) // lower-cased start stage → index
	for i, p := range s.Phases {
		if p.Name == "" {
			add(ValCatMissingField, "", fmt.Sprintf("phase[%d].name", i), fmt.Errorf("%w: phase[%d].name", ErrMissingField, i))
			continue
		}
		if p.Start == "" {
			add(ValCatMissingField, p.Name, "start", fmt.Errorf("%w: start", ErrMissingField))
		}
		if p.End == "" {
			add(ValCatMissingField, p.Name, "end", fmt.Errorf("%w: end", ErrMissingField))
		}
		if !ValidPhaseKinds[p.Kind] {
			add(ValCatInvalidKind, p.Name, "kind", fmt.Errorf("%w: %q (valid: thermal, goto, end)", ErrInvalidKind, p.Kind))
		}
		if p.Kind == PhaseKindThermal && p.Target < 0 {
			add(ValCatBoundsViolation, p.Name, "target", fmt.Errorf("%w: target must be >= 0, got %g", ErrOutOfBounds, p.Target))
		}
		if p.Kind == PhaseKindGoto && p.Destination == "" {
			add(ValCatMissingField, p.Name, "destination", fmt.Errorf("%w: destination", ErrMissingField))
		}

		key := strings.ToLower(p.Name)
		if prev, ok := names[key]; ok {
			add(ValCatDuplicateName, p.Name, "name", fmt.Errorf("%w: %q already used by phase[%d]", ErrDuplicateName, p.Name, prev))
		} else {
			names[key] = i
		}
		if p.Start != "" {
			skey := strings.ToLower(p.Start)
			if prev, ok := starts[skey]; ok {
				add(ValCatDuplicateName, p.Name, "start", fmt.Errorf("%w: start stage %q already used by phase[%d]", ErrDuplicateName, p.Start, prev))
			} else {
				starts[skey] = i
			}
		}
	}

	for _, p := range s.Phases {
		if p.Kind != PhaseKindGoto || p.Destination == "" {
			continue
		}
		if _, ok := names[strings.ToLower(p.Destination)]; !ok {
			add(ValCatUnknownDestination, p.Name, "destination", fmt.Errorf("%w: goto destination %q", ErrUnknownPhase, p.Destination))
		}
	}

	errs = append(errs, validateDriver(s)...)
	errs = append(errs, validateSchedule(s, names)...)
	return errs
}

func validateDriver(s *Scenario) []ValidationError {
	var errs []ValidationError
	add := func(cat ValidationCategory, field string, err error) {
		errs = append(errs, ValidationError{Category: cat, SourceFile: s.SourceFile, Field: field, Err: err})
	}

	d := s.Driver
	switch {
	case d.Constant == nil && len(d.Values) == 0:
		add(ValCatMissingField, "driver", fmt.Errorf("%w: driver.constant or driver.values", ErrMissingField))
	case d.Constant != nil && len(d.Values) > 0:
		add(ValCatBoundsViolation, "driver", fmt.Errorf("%w: set driver.constant or driver.values, not both", ErrOutOfBounds))
	}
	if d.Constant != nil && (*d.Constant < 0 || math.IsNaN(*d.Constant)) {
		add(ValCatBoundsViolation, "driver.constant", fmt.Errorf("%w: driver.constant must be >= 0, got %g", ErrOutOfBounds, *d.Constant))
	}
	for i, v := range d.Values {
		if v < 0 || math.IsNaN(v) {
			add(ValCatBoundsViolation, fmt.Sprintf("driver.values[%d]", i), fmt.Errorf("%w: driver.values[%d] must be >= 0, got %g", ErrOutOfBounds, i, v))
		}
	}
	if d.Constant == nil && len(d.Values) > 0 && !d.Cycle && len(d.Values) < s.Schedule.Days {
		add(ValCatBoundsViolation, "driver.values", fmt.Errorf("%w: driver.values covers %d days, schedule.days is %d", ErrOutOfBounds, len(d.Values), s.Schedule.Days))
	}
	return errs
}

func validateSchedule(s *Scenario, names map[string]int) []ValidationError {
	var errs []ValidationError
	add := func(cat ValidationCategory, field string, err error) {
		errs = append(errs, ValidationError{Category: cat, SourceFile: s.SourceFile, Field: field, Err: err})
	}

	days := s.Schedule.Days
	if days <= 0 {
		add(ValCatBoundsViolation, "schedule.days", fmt.Errorf("%w: schedule.days must be > 0, got %d", ErrOutOfBounds, days))
	}
	if s.Schedule.SowDay < 1 || (days > 0 && s.Schedule.SowDay > days) {
		add(ValCatBoundsViolation, "schedule.sow_day", fmt.Errorf("%w: schedule.sow_day must be in [1, %d], got %d", ErrOutOfBounds, days, s.Schedule.SowDay))
	}

	for i, ev := range s.Events {
		field := fmt.Sprintf("event[%d]", i)
		if ev.Day < 1 || (days > 0 && ev.Day > days) {
			add(ValCatBoundsViolation, field+".day", fmt.Errorf("%w: %s.day must be in [1, %d], got %d", ErrOutOfBounds, field, days, ev.Day))
		}
		if !ValidActions[ev.Action] {
			add(ValCatInvalidAction, field+".action", fmt.Errorf("%w: %q", ErrInvalidAction, ev.Action))
			continue
		}
		switch ev.Action {
		case ActionSetStage:
			if ev.Stage < 1 || int(math.Floor(ev.Stage)) > len(s.Phases) {
				add(ValCatBoundsViolation, field+".stage", fmt.Errorf("%w: %s.stage must be in [1, %d), got %g", ErrOutOfBounds, field, len(s.Phases)+1, ev.Stage))
			}
		case ActionSetPhase:
			if _, ok := names[strings.ToLower(ev.Phase)]; !ok {
				add(ValCatUnknownDestination, field+".phase", fmt.Errorf("%w: %s.phase %q", ErrUnknownPhase, field, ev.Phase))
			}
		}
	}
	return errs
}
