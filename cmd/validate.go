package cmd

import (
	"fmt"

	"fabric-sync/core/pipeline"

	"github.com/spf13/cobra"
)

// validateCmd represents the validate command
var validateCmd = &cobra.Command{
	Use:   "validate <pipeline>",
	Short: "Validate a stored pipeline",
	Long: `Checks a stored pipeline against the known collectors and sync rules.
Exits non-zero when the definition has problems.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, collectors, err := openDefinitionStore()
		if err != nil {
			return err
		}

		p, err := store.Get(args[0])
		if err != nil {
			return err
		}

		problems := pipeline.Validate(p, collectors)
		if len(problems) == 0 {
			fmt.Printf("Pipeline %q is valid (%d steps, %d enabled).\n",
				p.ID, len(p.Steps), len(p.EnabledSteps()))
			return nil
		}

		fmt.Printf("Pipeline %q has %d problem(s):\n", p.ID, len(problems))
		for _, problem := range problems {
			fmt.Printf("- %s\n", problem)
		}
		return fmt.Errorf("pipeline %q is invalid", p.ID)
	},
}

func init() {
	RootCmd.AddCommand(validateCmd)
}
