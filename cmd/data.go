package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/rpgo/fire-engine/internal/calculation"
	"github.com/rpgo/fire-engine/internal/output"
	"github.com/rpgo/fire-engine/internal/store"
)

var dataCmd = &cobra.Command{
	Use:   "data",
	Short: "Manage the historical returns series",
}

var dataImportCmd = &cobra.Command{
	Use:   "import <returns.csv>",
	Short: "Import a returns CSV into the SQLite store",
	Args:  cobra.ExactArgs(1),
	RunE:  runDataImport,
}

var dataStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show the range and statistics of the loaded series",
	RunE:  runDataStats,
}

var dataListCmd = &cobra.Command{
	Use:   "list",
	Short: "List datasets in the SQLite store",
	RunE:  runDataList,
}

func init() {
	dataCmd.AddCommand(dataImportCmd, dataStatsCmd, dataListCmd)
	rootCmd.AddCommand(dataCmd)
}

func openStore() (*store.SeriesStore, error) {
	if settings.Data.SQLitePath == "" {
		return nil, fmt.Errorf("no SQLite store configured (use --sqlite or data.sqlite_path)")
	}
	return store.Open(settings.Data.SQLitePath)
}

func runDataImport(cmd *cobra.Command, args []string) error {
	series, err := calculation.LoadSeriesCSV(args[0])
	if err != nil {
		return err
	}
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.ImportSeries(cmd.Context(), flagDataset, filepath.Base(args[0]), series); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "  Imported %d years (%d-%d) into dataset %q\n",
		series.Len(), series.FirstYear(), series.LastYear(), flagDataset)
	return nil
}

func runDataStats(cmd *cobra.Command, _ []string) error {
	series, err := loadSeries(cmd.Context())
	if err != nil {
		return err
	}
	stats := series.Statistics()
	return emit(cmd, &output.Report{History: &stats})
}

func runDataList(cmd *cobra.Command, _ []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	datasets, err := st.Datasets(cmd.Context())
	if err != nil {
		return err
	}
	if len(datasets) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "  No datasets imported.")
		return nil
	}
	for _, d := range datasets {
		fmt.Fprintf(cmd.OutOrStdout(), "  %-12s %d-%d  %s  (imported %s)\n",
			d.Name, d.FirstYear, d.LastYear, d.Source, d.ImportedAt.Format("2006-01-02 15:04"))
	}
	return nil
}
