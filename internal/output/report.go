package output

import (
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/rpgo/fire-engine/internal/calculation"
	"github.com/rpgo/fire-engine/internal/domain"
)

// Report is everything one command produced. Formatters render whichever
// sections are present.
type Report struct {
	GeneratedAt time.Time                     `json:"generatedAt"`
	Assumptions []string                      `json:"assumptions,omitempty"`
	Projection  *domain.ProjectionBundle      `json:"projection,omitempty"`
	Targets     []domain.TargetResult         `json:"targets,omitempty"`
	Simulation  *domain.SimulationResponse    `json:"simulation,omitempty"`
	History     *calculation.SeriesStatistics `json:"history,omitempty"`
}

// Empty reports whether the report has no sections.
func (r *Report) Empty() bool {
	return r.Projection == nil && len(r.Targets) == 0 && r.Simulation == nil && r.History == nil
}

// Render writes r to w in the named format.
func Render(w io.Writer, r *Report, format string) error {
	f, err := Lookup(format)
	if err != nil {
		return err
	}
	data, err := f.Format(r)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// GenerateReport writes r to a timestamped file in dir and returns its path.
// "all" writes the console, csv and json renderings.
func GenerateReport(r *Report, format, dir string) ([]string, error) {
	if NormalizeFormatName(format) == "all" {
		var paths []string
		for _, name := range []string{"console", "csv", "json"} {
			p, err := WriteFormatted(GetFormatterByName(name), r, dir)
			if err != nil {
				return paths, fmt.Errorf("%s report: %w", name, err)
			}
			paths = append(paths, p)
		}
		return paths, nil
	}
	f, err := Lookup(format)
	if err != nil {
		return nil, err
	}
	p, err := WriteFormatted(f, r, dir)
	if err != nil {
		return nil, err
	}
	return []string{p}, nil
}

// SavePlan writes a plan as YAML, e.g. for `init` style example files.
func SavePlan(plan *domain.Plan, filename string) error {
	b, err := yaml.Marshal(plan)
	if err != nil {
		return err
	}
	return os.WriteFile(filename, b, 0644)
}
