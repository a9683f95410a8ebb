package output

// PercentilesByYearCSV exports the per-year-index percentile series used to
// draw a fan chart.
type PercentilesByYearCSV struct{}

func (p PercentilesByYearCSV) Name() string { return "csv-by-year" }

func (p PercentilesByYearCSV) Format(r *Report) ([]byte, error) {
	if r.Simulation == nil {
		return nil, ErrEmptyReport
	}
	rows := make([][]string, 0, len(r.Simulation.PercentilesByYear))
	for _, y := range r.Simulation.PercentilesByYear {
		rows = append(rows, []string{
			intToString(y.YearIndex),
			intToString(y.Survivors),
			csvFloat(y.P10),
			csvFloat(y.P25),
			csvFloat(y.P50),
			csvFloat(y.P75),
			csvFloat(y.P90),
		})
	}
	return writeCSV([]string{"YearIndex", "Survivors", "P10", "P25", "P50", "P75", "P90"}, rows)
}
