package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rpgo/fire-engine/internal/config"
	"github.com/rpgo/fire-engine/internal/output"
)

var initCmd = &cobra.Command{
	Use:   "init [plan.yaml]",
	Short: "Write an example plan and, if missing, a settings file",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	planPath := "plan.yaml"
	if len(args) == 1 {
		planPath = args[0]
	}
	if _, err := os.Stat(planPath); err == nil {
		return fmt.Errorf("%s already exists", planPath)
	}

	plan := config.NewInputParser().CreateExamplePlan(settings.Defaults)
	if err := output.SavePlan(plan, planPath); err != nil {
		return fmt.Errorf("writing plan: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "  Example plan written to %s\n", planPath)

	if _, err := os.Stat(flagSettings); os.IsNotExist(err) {
		if err := config.SaveSettings(flagSettings, settings); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "  Settings written to %s\n", flagSettings)
	}
	return nil
}
