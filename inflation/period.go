// Package inflation resolves price-index levels from published fixings or a
// bootstrapped zero-coupon inflation curve, and builds that curve from
// zero-coupon inflation swap quotes.
package inflation

import (
	"time"

	"github.com/meenmo/cpilib/market"
	"github.com/meenmo/cpilib/utils"
)

// Interpolation selects how a level is read between publication dates.
type Interpolation int

const (
	// AsIndex defers to the index's own interpolated flag.
	AsIndex Interpolation = iota
	// Flat uses the level at the start of the index period.
	Flat
	// Linear interpolates between the starts of this and the next period.
	Linear
)

func (m Interpolation) String() string {
	switch m {
	case Flat:
		return "flat"
	case Linear:
		return "linear"
	default:
		return "as-index"
	}
}

// PeriodOf returns the first and last day of the index period containing d.
func PeriodOf(d time.Time, freq market.Frequency) (start, end time.Time) {
	months := int(freq)
	if months <= 0 {
		months = 1
	}
	m := (int(d.Month())-1)/months*months + 1
	start = utils.Date(d.Year(), time.Month(m), 1)
	end = utils.AddMonth(start, months).AddDate(0, 0, -1)
	return start, end
}

// PeriodStart is the first day of the index period containing d.
func PeriodStart(d time.Time, freq market.Frequency) time.Time {
	s, _ := PeriodOf(d, freq)
	return s
}

// nextPeriodStart is the first day after the period containing d.
func nextPeriodStart(d time.Time, freq market.Frequency) time.Time {
	_, e := PeriodOf(d, freq)
	return e.AddDate(0, 0, 1)
}

// YearFraction is the accrual time between two observation dates. A
// non-interpolated index only moves at period starts, so both dates snap to
// them first.
func YearFraction(freq market.Frequency, interpolated bool, dc market.DayCount, from, to time.Time) float64 {
	if !interpolated {
		from = PeriodStart(from, freq)
		to = PeriodStart(to, freq)
	}
	return utils.YearFraction(from, to, string(dc))
}

// BaseDate is the curve base date for an evaluation date and observation lag.
func BaseDate(eval time.Time, lag utils.Period, freq market.Frequency, interpolated bool) time.Time {
	d := utils.SubPeriod(eval, lag)
	if interpolated {
		return d
	}
	return PeriodStart(d, freq)
}
