package domain

import (
	"math"
	"strconv"
)

// Figure is a calculated amount that may be non-finite. Unreachable targets
// are carried as +Inf inside the engine and encoded as JSON null.
type Figure float64

// Unreachable is the sentinel used for targets that can never be met.
var Unreachable = Figure(math.Inf(1))

// Finite reports whether the figure holds a usable number.
func (f Figure) Finite() bool {
	v := float64(f)
	return !math.IsInf(v, 0) && !math.IsNaN(v)
}

// Float returns the raw value.
func (f Figure) Float() float64 { return float64(f) }

func (f Figure) MarshalJSON() ([]byte, error) {
	if !f.Finite() {
		return []byte("null"), nil
	}
	return strconv.AppendFloat(nil, float64(f), 'f', -1, 64), nil
}

func (f *Figure) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*f = Unreachable
		return nil
	}
	v, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		return err
	}
	*f = Figure(v)
	return nil
}
