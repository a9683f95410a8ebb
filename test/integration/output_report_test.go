package integration

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpgo/fire-engine/internal/calculation"
	"github.com/rpgo/fire-engine/internal/config"
	"github.com/rpgo/fire-engine/internal/output"
)

func buildReport(t *testing.T) *output.Report {
	t.Helper()
	series, err := calculation.LoadSeriesCSV(sampleReturns)
	require.NoError(t, err)
	plan, err := config.NewInputParser().LoadFromFile(examplePlan)
	require.NoError(t, err)

	svc := newService(t, series)
	ctx := context.Background()
	bundle, err := svc.ProjectPlan(ctx, plan, &asOf)
	require.NoError(t, err)

	req := *plan.Simulation
	req.IncludeYearlyData = true
	run, err := svc.Simulate(ctx, req)
	require.NoError(t, err)

	stats := series.Statistics()
	r := &output.Report{
		GeneratedAt: asOf,
		Projection:  bundle,
		Simulation:  run.Response,
		History:     &stats,
	}
	r.Assumptions = output.GenerateAssumptions(r)
	return r
}

func TestFormatters(t *testing.T) {
	r := buildReport(t)
	for _, name := range output.AvailableFormatterNames() {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, output.Render(&buf, r, name))
			assert.NotEmpty(t, buf.String())
		})
	}
}

func TestJSONReportDecodes(t *testing.T) {
	r := buildReport(t)
	var buf bytes.Buffer
	require.NoError(t, output.Render(&buf, r, "json-pretty"))

	var decoded struct {
		Projection struct {
			Scenarios []json.RawMessage `json:"scenarios"`
		} `json:"projection"`
		Simulation struct {
			TotalSimulations int `json:"totalSimulations"`
		} `json:"simulation"`
		History struct {
			FirstYear int `json:"firstYear"`
		} `json:"history"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Len(t, decoded.Projection.Scenarios, 3)
	assert.Equal(t, 6, decoded.Simulation.TotalSimulations)
	assert.Equal(t, 1990, decoded.History.FirstYear)
}

func TestSavePlan_WritesFile(t *testing.T) {
	parser := config.NewInputParser()
	plan, err := parser.LoadFromFile(examplePlan)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "saved.yaml")
	require.NoError(t, output.SavePlan(plan, path))

	reloaded, err := parser.LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, plan, reloaded)
}

func TestGenerateReport_AllFormats(t *testing.T) {
	r := buildReport(t)
	dir := t.TempDir()

	paths, err := output.GenerateReport(r, "all", dir)
	require.NoError(t, err)
	require.Len(t, paths, 3)

	exts := make([]string, 0, len(paths))
	for _, p := range paths {
		info, err := os.Stat(p)
		require.NoError(t, err)
		assert.Positive(t, info.Size())
		assert.True(t, strings.HasPrefix(filepath.Base(p), "fire_report_"), p)
		exts = append(exts, filepath.Ext(p))
	}
	assert.ElementsMatch(t, []string{".txt", ".csv", ".json"}, exts)

	htmlPaths, err := output.GenerateReport(r, "html-report", dir)
	require.NoError(t, err)
	require.Len(t, htmlPaths, 1)
	data, err := os.ReadFile(htmlPaths[0])
	require.NoError(t, err)
	assert.Contains(t, string(data), "<html")
}
