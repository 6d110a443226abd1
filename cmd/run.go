package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/pheno/internal/scenario"
	"github.com/papapumpkin/pheno/internal/sim"
	"github.com/papapumpkin/pheno/internal/telemetry"
)

var runCmd = &cobra.Command{
	Use:   "run [scenario.toml...]",
	Short: "Simulate one or more scenarios and print the phenology summary",
	Long: `Runs each scenario on its own plant. Several scenarios run concurrently,
up to --jobs at a time; summaries are printed in argument order.`,
	RunE: runRun,
}

func init() {
	runCmd.Flags().Int("days", 0, "override schedule.days")
	runCmd.Flags().String("telemetry", "", "append JSONL events to this file")
	runCmd.Flags().Int("table", 0, "print a day table, one row every N days (1 = every day)")
	runCmd.Flags().String("run-id", "", "run identifier (default: random UUID)")
	runCmd.Flags().IntP("jobs", "j", 4, "maximum scenarios to run at once")
	runCmd.Flags().String("report", "", "write a YAML report of every run to this file")
	runCmd.Flags().Bool("daily", false, "include every day's record in the YAML report")

	rootCmd.AddCommand(runCmd)
}

// runOptions are the per-invocation settings shared by run and watch.
type runOptions struct {
	runID  string
	table  int
	jobs   int
	report string
	daily  bool
}

func runRun(cmd *cobra.Command, args []string) error {
	sess, err := newSession()
	if err != nil {
		return err
	}
	defer sess.Close()
	applyRunFlags(cmd, sess)

	opts := runOptions{}
	opts.runID, _ = cmd.Flags().GetString("run-id")
	opts.table, _ = cmd.Flags().GetInt("table")
	opts.jobs, _ = cmd.Flags().GetInt("jobs")
	opts.report, _ = cmd.Flags().GetString("report")
	opts.daily, _ = cmd.Flags().GetBool("daily")

	ctx, cancel := setupSignalContext(sess.printer)
	defer cancel()

	paths := args
	if len(paths) == 0 {
		paths = []string{sess.cfg.Scenario}
	}
	scenarios := make([]*scenario.Scenario, 0, len(paths))
	for _, path := range paths {
		s, err := scenario.Load(path)
		if err != nil {
			return err
		}
		scenarios = append(scenarios, s)
	}
	_, err = runScenarios(ctx, sess, scenarios, opts)
	return err
}

// applyRunFlags lets run-specific flags override the loaded config.
func applyRunFlags(cmd *cobra.Command, sess *session) {
	if v, _ := cmd.Flags().GetInt("days"); v > 0 {
		sess.cfg.Days = v
	}
	if v, _ := cmd.Flags().GetString("telemetry"); v != "" {
		sess.cfg.TelemetryPath = v
	}
}

// runScenarios validates and runs every scenario, prints a summary for each
// in order and optionally writes the YAML report. The returned error joins
// every failed run.
func runScenarios(ctx context.Context, sess *session, scenarios []*scenario.Scenario, opts runOptions) ([]sim.BatchResult, error) {
	for _, s := range scenarios {
		if errs := scenario.Validate(s); len(errs) > 0 {
			sess.printer.ValidateResult(s, errs)
			return nil, fmt.Errorf("%s: %w", s.SourceFile, scenario.ErrInvalid)
		}
	}

	var em *telemetry.Emitter
	if sess.cfg.TelemetryPath != "" {
		var err error
		em, err = telemetry.NewEmitter(sess.cfg.TelemetryPath)
		if err != nil {
			return nil, err
		}
		defer em.Close()
	}

	items := make([]sim.BatchItem, len(scenarios))
	for i, s := range scenarios {
		runID := opts.runID
		if runID != "" && len(scenarios) > 1 {
			runID = fmt.Sprintf("%s-%d", runID, i+1)
		}
		items[i] = sim.BatchItem{Scenario: s, Options: []sim.RunnerOption{
			sim.WithEmitter(em),
			sim.WithLogger(sess.logger),
			sim.WithDays(sess.cfg.Days),
			sim.WithRunID(runID),
		}}
	}

	results := sim.RunBatch(ctx, items, opts.jobs)

	var errs []error
	reports := make([]sim.RunReport, 0, len(results))
	for i, br := range results {
		if br.Result != nil {
			if opts.table > 0 {
				sess.printer.DayTable(br.Result, opts.table)
			}
			sess.printer.RunSummary(br.Result)
		}
		if br.Err != nil {
			sess.printer.Error(fmt.Sprintf("%s: %v", scenarios[i].SourceFile, br.Err))
			errs = append(errs, br.Err)
		}
		reports = append(reports, sim.NewRunReport(br.Result, br.Err, opts.daily))
	}

	if opts.report != "" {
		if err := writeReport(opts.report, reports); err != nil {
			errs = append(errs, err)
		} else {
			sess.printer.Info("report written to " + opts.report)
		}
	}
	return results, errors.Join(errs...)
}

func writeReport(path string, reports []sim.RunReport) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("report: create %s: %w", path, err)
	}
	if err := sim.WriteReport(f, reports); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
