package sim

import (
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"
)

// RunReport is the YAML summary of one run.
type RunReport struct {
	RunID      string        `yaml:"run_id"`
	Crop       string        `yaml:"crop"`
	Scenario   string        `yaml:"scenario"`
	Error      string        `yaml:"error,omitempty"`
	DaysRun    int           `yaml:"days_run"`
	Duration   time.Duration `yaml:"duration"`
	FinalStage float64       `yaml:"final_stage"`
	FinalPhase string        `yaml:"final_phase"`
	Stages     []Crossing    `yaml:"stages,omitempty"`
	Daily      []DayRecord   `yaml:"daily,omitempty"`
}

// NewRunReport summarises res. runErr, if any, is recorded alongside the
// days completed before it. daily includes every DayRecord.
func NewRunReport(res *Result, runErr error, daily bool) RunReport {
	var rep RunReport
	if res != nil {
		final := res.Final()
		rep = RunReport{
			RunID:      res.RunID,
			Crop:       res.Crop,
			Scenario:   res.Scenario,
			DaysRun:    len(res.Days),
			Duration:   res.Duration.Round(time.Millisecond),
			FinalStage: final.Stage,
			FinalPhase: final.Phase,
			Stages:     res.Crossings,
		}
		if daily {
			rep.Daily = res.Days
		}
	}
	if runErr != nil {
		rep.Error = runErr.Error()
	}
	return rep
}

// WriteReport encodes runs as a YAML document with a top-level runs list.
func WriteReport(w io.Writer, runs []RunReport) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	doc := struct {
		Runs []RunReport `yaml:"runs"`
	}{Runs: runs}
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("report: encode: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("report: close: %w", err)
	}
	return nil
}
