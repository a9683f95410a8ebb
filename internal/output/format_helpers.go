package output

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rpgo/fire-engine/internal/domain"
	"github.com/rpgo/fire-engine/pkg/money"
)

// FormatCurrency formats a decimal as sterling with 2 decimals.
func FormatCurrency(amount decimal.Decimal) string { return money.Money{Decimal: amount}.Format() }

// FormatPercentage formats a decimal as a percentage with 2 decimals.
func FormatPercentage(amount decimal.Decimal) string { return amount.StringFixed(2) + "%" }

// formatAmount renders an engine value in whole pounds.
func formatAmount(v float64) string { return money.FormatWhole(v) }

func formatFigure(f domain.Figure) string { return money.FormatWhole(f.Float()) }

func formatPercent(v float64) string { return fmt.Sprintf("%.1f%%", v) }

func formatMonths(f domain.Figure) string {
	if !f.Finite() {
		return money.Unreachable
	}
	return fmt.Sprintf("%.1f", f.Float())
}

func formatAge(p *int) string {
	if p == nil {
		return "-"
	}
	return strconv.Itoa(*p)
}

func formatDate(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format("2006-01-02")
}

// csvFloat renders a value with pence precision; non-finite values are left blank.
func csvFloat(v float64) string {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return ""
	}
	return decimal.NewFromFloat(v).StringFixed(2)
}

func csvRate(v float64) string {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return ""
	}
	return decimal.NewFromFloat(v).StringFixed(6)
}

func csvAge(p *int) string {
	if p == nil {
		return ""
	}
	return strconv.Itoa(*p)
}

func csvDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}

func intToString(i int) string { return strconv.Itoa(i) }

func boolToString(b bool) string { return strconv.FormatBool(b) }
