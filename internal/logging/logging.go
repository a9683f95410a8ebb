package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// New builds a zerolog logger. Pretty output uses the console writer.
func New(w io.Writer, level string, pretty bool) (zerolog.Logger, error) {
	if w == nil {
		w = os.Stderr
	}
	lvl, err := ParseLevel(level)
	if err != nil {
		return zerolog.Nop(), err
	}
	if pretty {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger(), nil
}

// ParseLevel accepts zerolog level names; empty means info.
func ParseLevel(level string) (zerolog.Level, error) {
	if strings.TrimSpace(level) == "" {
		return zerolog.InfoLevel, nil
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("unknown log level %q", level)
	}
	return lvl, nil
}

// Adapter exposes a zerolog logger through the printf-style engine Logger.
type Adapter struct {
	zl zerolog.Logger
}

// NewAdapter wraps zl, tagging every event with the component name.
func NewAdapter(zl zerolog.Logger, component string) *Adapter {
	if component != "" {
		zl = zl.With().Str("component", component).Logger()
	}
	return &Adapter{zl: zl}
}

func (a *Adapter) Debugf(format string, args ...any) { a.zl.Debug().Msgf(format, args...) }
func (a *Adapter) Infof(format string, args ...any)  { a.zl.Info().Msgf(format, args...) }
func (a *Adapter) Warnf(format string, args ...any)  { a.zl.Warn().Msgf(format, args...) }
func (a *Adapter) Errorf(format string, args ...any) { a.zl.Error().Msgf(format, args...) }

// Zerolog returns the wrapped logger.
func (a *Adapter) Zerolog() zerolog.Logger { return a.zl }
