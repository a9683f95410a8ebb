package dateutil

import (
	"math"
	"time"
)

// Age calculates the age at a given date
func Age(birthDate, atDate time.Time) int {
	age := atDate.Year() - birthDate.Year()
	if atDate.Month() < birthDate.Month() ||
		(atDate.Month() == birthDate.Month() && atDate.Day() < birthDate.Day()) {
		age--
	}
	return age
}

// AddFractionalMonths adds whole months by calendar and spreads the fractional
// remainder across the days of the following month. Non-finite or negative
// inputs return the date unchanged with ok=false.
func AddFractionalMonths(date time.Time, months float64) (time.Time, bool) {
	if math.IsInf(months, 0) || math.IsNaN(months) || months < 0 {
		return date, false
	}
	whole := math.Floor(months)
	base := date.AddDate(0, int(whole), 0)
	frac := months - whole
	if frac == 0 {
		return base, true
	}
	days := DaysInMonth(base.Year(), base.Month())
	return base.AddDate(0, 0, int(math.Round(frac*float64(days)))), true
}

// DaysInMonth returns the number of days in the given month
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
