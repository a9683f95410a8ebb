package output

import (
	"math"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/rpgo/fire-engine/internal/domain"
)

func TestFormatCurrency(t *testing.T) {
	assert.Equal(t, "£1,234.57", FormatCurrency(decimal.NewFromFloat(1234.567)))
	assert.Equal(t, "-£50.00", FormatCurrency(decimal.NewFromInt(-50)))
}

func TestFormatPercentage(t *testing.T) {
	assert.Equal(t, "12.35%", FormatPercentage(decimal.NewFromFloat(12.3456)))
}

func TestValueHelpers(t *testing.T) {
	assert.Equal(t, "£750,000", formatFigure(750000))
	assert.Equal(t, "unreachable", formatFigure(domain.Unreachable))
	assert.Equal(t, "unreachable", formatMonths(domain.Figure(math.Inf(1))))
	assert.Equal(t, "150.5", formatMonths(150.5))
	assert.Equal(t, "-", formatAge(nil))
	age := 47
	assert.Equal(t, "47", formatAge(&age))
	assert.Equal(t, "-", formatDate(nil))
	d := time.Date(2037, 7, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "2037-07-01", formatDate(&d))
}

func TestCSVHelpers(t *testing.T) {
	assert.Equal(t, "1234.50", csvFloat(1234.5))
	assert.Equal(t, "", csvFloat(math.Inf(1)))
	assert.Equal(t, "", csvFloat(math.NaN()))
	assert.Equal(t, "0.070000", csvRate(0.07))
	assert.Equal(t, "", csvAge(nil))
	assert.Equal(t, "42", intToString(42))
	assert.Equal(t, "true", boolToString(true))
}
