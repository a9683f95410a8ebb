package output

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

var (
	// ErrUnsupportedFormat is returned for format names with no registered formatter.
	ErrUnsupportedFormat = errors.New("unsupported report format")
	// ErrEmptyReport is returned when a formatter finds nothing it can render.
	ErrEmptyReport = errors.New("report has no data for this format")
)

// Formatter defines a pluggable output formatter that returns a byte slice.
// Implementations should be pure (no side effects besides deterministic formatting).
type Formatter interface {
	Format(r *Report) ([]byte, error)
	// Name returns a short identifier for logging / debugging.
	Name() string
}

// FormatterFunc adapter to allow ordinary functions to act as a Formatter.
type FormatterFunc struct {
	ID string
	F  func(*Report) ([]byte, error)
}

func (ff FormatterFunc) Format(r *Report) ([]byte, error) { return ff.F(r) }
func (ff FormatterFunc) Name() string                     { return ff.ID }

// WriteFormatted runs a formatter and writes output to a timestamped file in dir.
func WriteFormatted(f Formatter, r *Report, dir string) (string, error) {
	data, err := f.Format(r)
	if err != nil {
		return "", err
	}
	stamp := time.Now()
	if !r.GeneratedAt.IsZero() {
		stamp = r.GeneratedAt
	}
	filename := filepath.Join(dir, fmt.Sprintf("fire_report_%s_%s.%s", f.Name(), stamp.Format("20060102_150405"), Extension(f.Name())))
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return "", err
	}
	return filename, nil
}

// builtInFormatters stores available formatters.
var builtInFormatters = []Formatter{
	ConsoleVerboseFormatter{},
	ConsoleFormatter{},
	CSVSummarizer{},
	CSVDetailedExporter{},
	PercentilesByYearCSV{},
	HTMLFormatter{},
	JSONFormatter{},
}

// GetFormatterByName fetches a registered formatter.
func GetFormatterByName(name string) Formatter {
	n := NormalizeFormatName(name)
	for _, f := range builtInFormatters {
		if f.Name() == n {
			return f
		}
	}
	return nil
}

// Lookup is GetFormatterByName with an error listing the valid choices.
func Lookup(name string) (Formatter, error) {
	if f := GetFormatterByName(name); f != nil {
		return f, nil
	}
	return nil, fmt.Errorf("%w: %q. Try one of: %s (aliases: %s)", ErrUnsupportedFormat, name,
		strings.Join(AvailableFormatterNames(), ", "), strings.Join(AvailableFormatAliases(), ", "))
}

// aliasMap provides user-friendly synonyms for format names.
var aliasMap = map[string]string{
	"console-verbose": "console",
	"verbose":         "console",
	"text":            "console-lite",
	"csv-detailed":    "detailed-csv",
	"csv-summary":     "csv",
	"fan-chart":       "csv-by-year",
	"percentiles":     "csv-by-year",
	"html-report":     "html",
	"json-pretty":     "json",
}

// NormalizeFormatName lowers and resolves aliases.
func NormalizeFormatName(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	if mapped, ok := aliasMap[n]; ok {
		return mapped
	}
	return n
}

// Extension returns the file extension for a format.
func Extension(name string) string {
	n := NormalizeFormatName(name)
	switch {
	case strings.Contains(n, "csv"):
		return "csv"
	case n == "json", n == "html":
		return n
	default:
		return "txt"
	}
}

// AvailableFormatterNames returns the canonical formatter names.
func AvailableFormatterNames() []string {
	names := make([]string, 0, len(builtInFormatters))
	for _, f := range builtInFormatters {
		names = append(names, f.Name())
	}
	sort.Strings(names)
	return names
}

// AvailableFormatAliases returns the supported alias keys.
func AvailableFormatAliases() []string {
	keys := make([]string, 0, len(aliasMap))
	for k := range aliasMap {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
