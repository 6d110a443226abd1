package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/pheno/internal/scenario"
)

var validateCmd = &cobra.Command{
	Use:   "validate [scenario.toml]",
	Short: "Check a scenario file for structural errors",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := newSession()
		if err != nil {
			return err
		}
		defer sess.Close()

		s, err := scenario.Load(sess.scenarioPath(args))
		if err != nil {
			return err
		}
		errs := scenario.Validate(s)
		sess.printer.ValidateResult(s, errs)
		if len(errs) > 0 {
			return fmt.Errorf("%s: %w", s.SourceFile, scenario.ErrInvalid)
		}
		if showPhases, _ := cmd.Flags().GetBool("phases"); showPhases {
			sess.printer.Phases(s)
		}
		return nil
	},
}

func init() {
	validateCmd.Flags().Bool("phases", false, "list the phases after a successful check")
	rootCmd.AddCommand(validateCmd)
}
