package cmd

import (
	"github.com/spf13/cobra"

	"github.com/rpgo/fire-engine/internal/config"
	"github.com/rpgo/fire-engine/internal/output"
	"github.com/rpgo/fire-engine/internal/service"
)

var flagAsOf string

var projectCmd = &cobra.Command{
	Use:   "project <plan.yaml>",
	Short: "Project the household year by year for every scenario",
	Args:  cobra.ExactArgs(1),
	RunE:  runProject,
}

var targetsCmd = &cobra.Command{
	Use:   "targets <plan.yaml>",
	Short: "Show FI targets, shortfall and expected target dates",
	Args:  cobra.ExactArgs(1),
	RunE:  runTargets,
}

func init() {
	for _, c := range []*cobra.Command{projectCmd, targetsCmd} {
		c.Flags().StringVar(&flagAsOf, "as-of", "", "Valuation date (YYYY-MM-DD), defaults to today")
		rootCmd.AddCommand(c)
	}
}

func runProject(cmd *cobra.Command, args []string) error {
	plan, err := config.NewInputParser().LoadFromFile(args[0])
	if err != nil {
		return err
	}
	asOf, err := parseAsOf(flagAsOf)
	if err != nil {
		return err
	}

	svc, closeFn := newService(cmd.Context(), nil)
	defer closeFn()

	bundle, err := svc.ProjectPlan(cmd.Context(), plan, asOf)
	if err != nil {
		return err
	}
	return emit(cmd, &output.Report{Projection: bundle})
}

func runTargets(cmd *cobra.Command, args []string) error {
	plan, err := config.NewInputParser().LoadFromFile(args[0])
	if err != nil {
		return err
	}
	asOf, err := parseAsOf(flagAsOf)
	if err != nil {
		return err
	}

	svc, closeFn := newService(cmd.Context(), nil)
	defer closeFn()

	resp, err := svc.Targets(cmd.Context(), service.TargetsRequest{
		Household: plan.Household,
		Scenarios: plan.Scenarios,
		AsOf:      asOf,
	})
	if err != nil {
		return err
	}
	return emit(cmd, &output.Report{GeneratedAt: resp.AsOf, Targets: resp.Results})
}
