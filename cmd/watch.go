package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/pheno/internal/scenario"
)

var watchCmd = &cobra.Command{
	Use:   "watch [scenario.toml]",
	Short: "Re-run a scenario every time the file is saved",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runWatch,
}

func init() {
	watchCmd.Flags().Int("days", 0, "override schedule.days")
	watchCmd.Flags().String("telemetry", "", "append JSONL events to this file")
	watchCmd.Flags().Int("table", 0, "print a day table, one row every N days (1 = every day)")

	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	sess, err := newSession()
	if err != nil {
		return err
	}
	defer sess.Close()
	applyRunFlags(cmd, sess)
	opts := runOptions{jobs: 1}
	opts.table, _ = cmd.Flags().GetInt("table")

	ctx, cancel := setupSignalContext(sess.printer)
	defer cancel()

	path := sess.scenarioPath(args)
	w, err := scenario.NewWatcher(path)
	if err != nil {
		return fmt.Errorf("watch %s: %w", path, err)
	}
	if err := w.Start(); err != nil {
		return fmt.Errorf("watch %s: %w", path, err)
	}
	defer w.Stop()

	// Failed runs are reported and the watch continues.
	if s, err := scenario.Load(path); err != nil {
		sess.printer.Error(err.Error())
	} else {
		_, _ = runScenarios(ctx, sess, []*scenario.Scenario{s}, opts)
	}
	sess.printer.Info(fmt.Sprintf("watching %s (ctrl-c to stop)", w.File))

	for {
		select {
		case <-ctx.Done():
			return nil
		case change, ok := <-w.Changes:
			if !ok {
				return nil
			}
			if change.Err != nil {
				sess.printer.Error(change.Err.Error())
				continue
			}
			sess.printer.Info(fmt.Sprintf("%s changed, re-running", change.File))
			sess.logger.Info("scenario reloaded", "file", change.File)
			_, _ = runScenarios(ctx, sess, []*scenario.Scenario{change.Scenario}, opts)
		}
	}
}
