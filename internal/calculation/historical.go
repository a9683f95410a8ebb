package calculation

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// MarketYear is one calendar year of historical market data. Returns and
// inflation are fractions (0.07 is 7%).
type MarketYear struct {
	Year        int     `json:"year"`
	StockReturn float64 `json:"stockReturn"`
	BondReturn  float64 `json:"bondReturn"`
	Inflation   float64 `json:"inflation"`
}

// Series is an immutable, gap-free run of market years. Lookups index the
// backing slice by year - first year. A Series is safe for concurrent readers.
type Series struct {
	first int
	years []MarketYear
}

// ErrEmptySeries is returned when a series has no rows.
var ErrEmptySeries = errors.New("historical series is empty")

// NewSeries sorts the rows by year and checks that they form one contiguous range.
func NewSeries(rows []MarketYear) (*Series, error) {
	if len(rows) == 0 {
		return nil, ErrEmptySeries
	}
	years := make([]MarketYear, len(rows))
	copy(years, rows)
	sort.Slice(years, func(i, j int) bool { return years[i].Year < years[j].Year })

	for i := 1; i < len(years); i++ {
		switch diff := years[i].Year - years[i-1].Year; {
		case diff == 0:
			return nil, fmt.Errorf("duplicate year %d in historical series", years[i].Year)
		case diff > 1:
			return nil, fmt.Errorf("historical series has a gap between %d and %d", years[i-1].Year, years[i].Year)
		}
	}
	for _, y := range years {
		if !finite(y.StockReturn) || !finite(y.BondReturn) || !finite(y.Inflation) {
			return nil, fmt.Errorf("non-finite value in year %d", y.Year)
		}
	}
	return &Series{first: years[0].Year, years: years}, nil
}

// FirstYear returns the earliest year in the series.
func (s *Series) FirstYear() int { return s.first }

// LastYear returns the latest year in the series.
func (s *Series) LastYear() int { return s.first + len(s.years) - 1 }

// Len returns the number of years covered.
func (s *Series) Len() int { return len(s.years) }

// At returns the data for a calendar year.
func (s *Series) At(year int) (MarketYear, bool) {
	i := year - s.first
	if i < 0 || i >= len(s.years) {
		return MarketYear{}, false
	}
	return s.years[i], true
}

// Years returns a copy of the rows in year order.
func (s *Series) Years() []MarketYear {
	out := make([]MarketYear, len(s.years))
	copy(out, s.years)
	return out
}

// StartYears lists every start year with a full window of the given length.
func (s *Series) StartYears(duration int) []int {
	if duration <= 0 || duration > len(s.years) {
		return nil
	}
	n := len(s.years) - duration + 1
	out := make([]int, n)
	for i := range out {
		out[i] = s.first + i
	}
	return out
}

// seriesHeader is the expected CSV header of a series file.
var seriesHeader = []string{"year", "stock_return", "bond_return", "inflation"}

// LoadSeriesCSV loads a series from a CSV file.
func LoadSeriesCSV(path string) (*Series, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", path, err)
	}
	defer file.Close()

	s, err := ReadSeriesCSV(file)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return s, nil
}

// ReadSeriesCSV parses rows of year,stock_return,bond_return,inflation. Values
// are fractions. Malformed rows are errors since skipping one leaves a gap.
func ReadSeriesCSV(r io.Reader) (*Series, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	if len(header) < len(seriesHeader) {
		return nil, fmt.Errorf("invalid CSV format: expected columns %s", strings.Join(seriesHeader, ","))
	}
	for i, want := range seriesHeader {
		if strings.ToLower(strings.TrimSpace(header[i])) != want {
			return nil, fmt.Errorf("invalid CSV header: column %d is %q, want %q", i+1, header[i], want)
		}
	}

	var rows []MarketYear
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("failed to read data row: %w", err)
		}
		row, err := parseMarketYear(record)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		rows = append(rows, row)
	}
	return NewSeries(rows)
}

func parseMarketYear(record []string) (MarketYear, error) {
	if len(record) < len(seriesHeader) {
		return MarketYear{}, fmt.Errorf("expected %d fields, got %d", len(seriesHeader), len(record))
	}
	year, err := strconv.Atoi(strings.TrimSpace(record[0]))
	if err != nil {
		return MarketYear{}, fmt.Errorf("invalid year %q: %w", record[0], err)
	}
	vals := make([]float64, 3)
	for i := range vals {
		d, err := decimal.NewFromString(strings.TrimSpace(record[i+1]))
		if err != nil {
			return MarketYear{}, fmt.Errorf("invalid %s %q: %w", seriesHeader[i+1], record[i+1], err)
		}
		vals[i], _ = d.Float64()
	}
	return MarketYear{Year: year, StockReturn: vals[0], BondReturn: vals[1], Inflation: vals[2]}, nil
}

// HistoricalStatistics provides statistical summary of one column of the series.
type HistoricalStatistics struct {
	Mean   decimal.Decimal `json:"mean"`
	Median decimal.Decimal `json:"median"`
	StdDev decimal.Decimal `json:"stdDev"`
	Min    decimal.Decimal `json:"min"`
	Max    decimal.Decimal `json:"max"`
	Count  int             `json:"count"`
}

// SeriesStatistics summarises every column of a series.
type SeriesStatistics struct {
	FirstYear   int                  `json:"firstYear"`
	LastYear    int                  `json:"lastYear"`
	StockReturn HistoricalStatistics `json:"stockReturn"`
	BondReturn  HistoricalStatistics `json:"bondReturn"`
	Inflation   HistoricalStatistics `json:"inflation"`
}

// Statistics calculates mean, median, population standard deviation and range per column.
func (s *Series) Statistics() SeriesStatistics {
	col := func(get func(MarketYear) float64) HistoricalStatistics {
		values := make([]decimal.Decimal, len(s.years))
		for i, y := range s.years {
			values[i] = decimal.NewFromFloat(get(y))
		}
		return calculateStatistics(values)
	}
	return SeriesStatistics{
		FirstYear:   s.FirstYear(),
		LastYear:    s.LastYear(),
		StockReturn: col(func(y MarketYear) float64 { return y.StockReturn }),
		BondReturn:  col(func(y MarketYear) float64 { return y.BondReturn }),
		Inflation:   col(func(y MarketYear) float64 { return y.Inflation }),
	}
}

func calculateStatistics(values []decimal.Decimal) HistoricalStatistics {
	if len(values) == 0 {
		return HistoricalStatistics{}
	}
	n := decimal.NewFromInt(int64(len(values)))

	sum := decimal.Sum(values[0], values[1:]...)
	mean := sum.Div(n)

	var varianceSum decimal.Decimal
	for _, v := range values {
		diff := v.Sub(mean)
		varianceSum = varianceSum.Add(diff.Mul(diff))
	}
	varianceFloat, _ := varianceSum.Div(n).Float64()
	stdDev := decimal.NewFromFloat(math.Sqrt(varianceFloat))

	sorted := make([]decimal.Decimal, len(values))
	copy(sorted, values)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].LessThan(sorted[j]) })
	mid := len(sorted) / 2
	median := sorted[mid]
	if len(sorted)%2 == 0 {
		median = sorted[mid-1].Add(sorted[mid]).Div(decimal.NewFromInt(2))
	}

	return HistoricalStatistics{
		Mean:   mean,
		Median: median,
		StdDev: stdDev,
		Min:    sorted[0],
		Max:    sorted[len(sorted)-1],
		Count:  len(values),
	}
}

func finite(v float64) bool {
	return !math.IsInf(v, 0) && !math.IsNaN(v)
}
