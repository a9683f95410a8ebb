package output

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rpgo/fire-engine/internal/calculation"
	"github.com/rpgo/fire-engine/internal/domain"
)

var reportTime = time.Date(2025, 1, 1, 9, 30, 0, 0, time.UTC)

func buildTestReport(t *testing.T) *Report {
	t.Helper()
	h := domain.HouseholdInputs{
		CurrentAge:          35,
		CurrentPortfolio:    100000,
		AnnualIncome:        60000,
		AnnualSavings:       18000,
		TargetRetirementAge: 55,
	}
	scenarios := []domain.Scenario{
		{Name: "normal", AnnualSpend: 30000, WithdrawalRate: 4, ExpectedReturn: 7, InflationRate: 2.5},
		{Name: "fat", AnnualSpend: 50000, WithdrawalRate: 4, ExpectedReturn: 7, InflationRate: 2.5},
	}
	bundle := calculation.ProjectScenarios(h, scenarios,
		calculation.ProjectionOptions{HorizonAge: 90, AsOf: reportTime},
		&domain.CoastSettings{CoastAge: 45, MonthlyContribution: 0})

	rows := make([]calculation.MarketYear, 0, 30)
	for y := 1970; y < 2000; y++ {
		stock := 0.08
		if y%7 == 0 {
			stock = -0.25
		}
		rows = append(rows, calculation.MarketYear{Year: y, StockReturn: stock, BondReturn: 0.03, Inflation: 0.03})
	}
	series, err := calculation.NewSeries(rows)
	if err != nil {
		t.Fatalf("series: %v", err)
	}
	resp, err := calculation.NewEngine(series).Simulate(context.Background(), domain.RunRequest{
		Config: domain.SimulationConfig{
			RetirementDuration:    20,
			StockAllocation:       60,
			BondAllocation:        40,
			WithdrawalStrategy:    domain.ConstantDollar,
			InitialWithdrawalRate: 4,
			InitialPortfolio:      1000000,
			CurrentAge:            60,
		},
		IncludeYearlyData: true,
	})
	if err != nil {
		t.Fatalf("simulate: %v", err)
	}
	stats := series.Statistics()
	return &Report{GeneratedAt: reportTime, Projection: bundle, Simulation: resp, History: &stats}
}

func TestConsoleLiteFormatter(t *testing.T) {
	out, err := ConsoleFormatter{}.Format(buildTestReport(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	content := string(out)
	for _, want := range []string{"Next milestone: normal", "HISTORICAL BACKTEST", "Cycles: 11", "HISTORICAL DATA 1970-1999"} {
		if !strings.Contains(content, want) {
			t.Fatalf("expected %q in output, got:\n%s", want, content)
		}
	}
}

func TestConsoleVerboseFormatter(t *testing.T) {
	out, err := ConsoleVerboseFormatter{}.Format(buildTestReport(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	content := string(out)
	for _, want := range []string{
		"FIRE PROJECTION & HISTORICAL BACKTEST",
		"KEY ASSUMPTIONS",
		"SCENARIO: NORMAL",
		"SCENARIO: FAT",
		"£750,000",
		"Coast from now",
		"HISTORICAL BACKTEST",
		"Final portfolio",
		"Historical Data 1970-1999",
	} {
		if !strings.Contains(content, want) {
			t.Fatalf("expected %q in verbose output", want)
		}
	}
}

func TestCSVSummarizerCycles(t *testing.T) {
	out, err := CSVSummarizer{}.Format(buildTestReport(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	if len(lines) != 12 {
		t.Fatalf("expected header + 11 cycles, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[1], "1970,1989,") {
		t.Fatalf("first cycle row = %q", lines[1])
	}
}

func TestCSVSummarizerScenariosSorted(t *testing.T) {
	r := buildTestReport(t)
	r.Simulation = nil
	out, err := CSVSummarizer{}.Format(r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines (header+2 rows), got %d", len(lines))
	}
	if !strings.HasPrefix(lines[1], "fat,") || !strings.HasPrefix(lines[2], "normal,750000.00,") {
		t.Fatalf("rows not sorted deterministically: %v", lines)
	}
}

func TestCSVSummarizerUnreachableLeftBlank(t *testing.T) {
	r := &Report{Targets: []domain.TargetResult{{Scenario: "zero", TargetAmount: domain.Unreachable, Shortfall: domain.Unreachable}}}
	out, err := CSVSummarizer{}.Format(r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	if !strings.HasPrefix(lines[1], "zero,,,") {
		t.Fatalf("expected blank target columns, got %q", lines[1])
	}
}

func TestCSVDetailedExporter(t *testing.T) {
	r := buildTestReport(t)
	out, err := CSVDetailedExporter{}.Format(r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(string(out), "\nfat,0,2025,35,accumulating,") {
		t.Fatalf("missing first fat row:\n%s", truncate(string(out), 400))
	}

	r.Projection = nil
	out, err = CSVDetailedExporter{}.Format(r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	if len(lines) != 1+11*20 {
		t.Fatalf("expected %d lines, got %d", 1+11*20, len(lines))
	}

	r.Simulation.StripYearlyData()
	if _, err := (CSVDetailedExporter{}).Format(r); !errors.Is(err, errNoYearlyData) {
		t.Fatalf("expected errNoYearlyData, got %v", err)
	}
}

func TestPercentilesByYearCSV(t *testing.T) {
	r := buildTestReport(t)
	out, err := PercentilesByYearCSV{}.Format(r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	if len(lines) != 1+len(r.Simulation.PercentilesByYear) {
		t.Fatalf("expected one line per year index, got %d", len(lines))
	}

	if _, err := (PercentilesByYearCSV{}).Format(&Report{}); !errors.Is(err, ErrEmptyReport) {
		t.Fatalf("expected ErrEmptyReport, got %v", err)
	}
}

func TestJSONFormatterRendersUnreachableAsNull(t *testing.T) {
	r := &Report{Targets: []domain.TargetResult{{Scenario: "zero", TargetAmount: domain.Unreachable}}}
	out, err := JSONFormatter{}.Format(r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(string(out), `"targetAmount": null`) {
		t.Fatalf("expected null target amount, got %s", out)
	}
}

func TestHTMLFormatterBasic(t *testing.T) {
	out, err := HTMLFormatter{}.Format(buildTestReport(t))
	if err != nil {
		t.Fatalf("html format error: %v", err)
	}
	content := string(out)
	for _, want := range []string{"Scenario Summary", "Key Assumptions", "Projection: normal", "Historical Backtest", "window.fanChart"} {
		if !strings.Contains(content, want) {
			t.Fatalf("expected %q in HTML output", want)
		}
	}
}

func TestEmptyReportRejected(t *testing.T) {
	for _, name := range AvailableFormatterNames() {
		if name == "json" {
			continue
		}
		if _, err := GetFormatterByName(name).Format(&Report{}); !errors.Is(err, ErrEmptyReport) {
			t.Fatalf("%s: expected ErrEmptyReport, got %v", name, err)
		}
	}
}

// Golden snapshot tests (prefix-based) ensure key headers remain stable.
func TestGoldenSnapshots(t *testing.T) {
	cases := []struct {
		name      string
		golden    string
		formatter Formatter
	}{
		{"console_lite", "console_lite.golden", ConsoleFormatter{}},
		{"csv_summary", "csv_summary.golden", CSVSummarizer{}},
		{"csv_detailed", "csv_detailed.golden", CSVDetailedExporter{}},
		{"csv_by_year", "csv_by_year.golden", PercentilesByYearCSV{}},
		{"html", "html_prefix.golden", HTMLFormatter{}},
	}

	r := buildTestReport(t)
	update := os.Getenv("UPDATE_GOLDEN") == "1"
	for _, tc := range cases {
		out, err := tc.formatter.Format(r)
		if err != nil {
			t.Fatalf("%s: format error: %v", tc.name, err)
		}
		goldenPath := filepath.Join("testdata", tc.golden)
		if update {
			// only first line to keep golden small & stable
			line := firstLine(string(out)) + "\n"
			if err := os.WriteFile(goldenPath, []byte(line), 0644); err != nil {
				t.Fatalf("%s: update golden failed: %v", tc.name, err)
			}
		}
		data, err := os.ReadFile(goldenPath)
		if err != nil {
			t.Fatalf("%s: read golden: %v", tc.name, err)
		}
		if !strings.HasPrefix(string(out), strings.TrimSpace(string(data))) {
			t.Fatalf("%s: output does not match golden prefix %q", tc.name, strings.TrimSpace(string(data)))
		}
	}
}

func TestFormatterAliasResolution(t *testing.T) {
	cases := map[string]string{
		"console-verbose": "console",
		"TEXT":            "console-lite",
		" fan-chart ":     "csv-by-year",
		"csv-detailed":    "detailed-csv",
		"json":            "json",
	}
	for alias, want := range cases {
		f := GetFormatterByName(alias)
		if f == nil {
			t.Fatalf("alias %q did not resolve to a formatter", alias)
		}
		if f.Name() != want {
			t.Fatalf("alias %q resolved to %q, want %q", alias, f.Name(), want)
		}
	}
	if GetFormatterByName("pdf") != nil {
		t.Fatalf("unexpected formatter for pdf")
	}
}

func TestUnknownFormatErrorIncludesSuggestions(t *testing.T) {
	_, err := GenerateReport(&Report{}, "definitely-not-a-format", t.TempDir())
	if err == nil {
		t.Fatalf("expected error for unknown format")
	}
	msg := err.Error()
	if !errors.Is(err, ErrUnsupportedFormat) || !strings.Contains(msg, "Try one of:") {
		t.Fatalf("error message missing suggestions: %s", msg)
	}
}

func TestGenerateReportWritesFiles(t *testing.T) {
	dir := t.TempDir()
	paths, err := GenerateReport(buildTestReport(t), "all", dir)
	if err != nil {
		t.Fatalf("GenerateReport error: %v", err)
	}
	if len(paths) != 3 {
		t.Fatalf("expected 3 files, got %v", paths)
	}
	for _, p := range paths {
		if filepath.Dir(p) != dir {
			t.Fatalf("file %s written outside %s", p, dir)
		}
		if !strings.Contains(p, "20250101_093000") {
			t.Fatalf("file %s not stamped with report time", p)
		}
	}
	if got := Extension("fan-chart"); got != "csv" {
		t.Fatalf("Extension(fan-chart) = %q", got)
	}
}

func TestSavePlan(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.yaml")
	plan := &domain.Plan{
		Household: domain.HouseholdInputs{CurrentAge: 30, TargetRetirementAge: 50},
		Scenarios: []domain.Scenario{{Name: "normal", AnnualSpend: 30000, WithdrawalRate: 4}},
	}
	if err := SavePlan(plan, path); err != nil {
		t.Fatalf("SavePlan error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(data), "annual_spend: 30000") {
		t.Fatalf("plan YAML missing scenario: %s", data)
	}
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
