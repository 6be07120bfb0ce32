package market

import (
	"fmt"
	"math"
	"time"

	"github.com/meenmo/cpilib/utils"
)

// Valuation carries the evaluation date every pricing call is measured from.
// It is passed explicitly rather than held in package state.
type Valuation struct {
	EvaluationDate time.Time
}

// NewValuation normalises the date to midnight UTC.
func NewValuation(eval time.Time) Valuation {
	return Valuation{EvaluationDate: utils.Date(eval.Year(), eval.Month(), eval.Day())}
}

// InterestRate is a quoted rate together with the conventions needed to turn
// it into discount factors.
type InterestRate struct {
	Rate        float64
	DayCount    DayCount
	Compounding Compounding
	Frequency   Frequency
}

func (r InterestRate) String() string {
	return fmt.Sprintf("%.6f%% %s %s %s", r.Rate*100, r.DayCount, r.Compounding, r.Frequency)
}

func (r InterestRate) perYear() float64 {
	f := r.Frequency.PerYear()
	if f <= 0 {
		return 1
	}
	return float64(f)
}

// CompoundFactor returns the growth of one unit over t years.
func (r InterestRate) CompoundFactor(t float64) float64 {
	f := r.perYear()
	switch r.Compounding {
	case Simple:
		return 1 + r.Rate*t
	case Continuous:
		return math.Exp(r.Rate * t)
	case SimpleThenCompounded:
		if t <= 1/f {
			return 1 + r.Rate*t
		}
		return math.Pow(1+r.Rate/f, f*t)
	default:
		return math.Pow(1+r.Rate/f, f*t)
	}
}

// DiscountFactor is 1 / CompoundFactor(t).
func (r InterestRate) DiscountFactor(t float64) float64 {
	return 1 / r.CompoundFactor(t)
}

// DiscountFactorBetween measures t on the rate's day count; refStart and
// refEnd are only read by ACT/ACT ICMA.
func (r InterestRate) DiscountFactorBetween(start, end, refStart, refEnd time.Time) float64 {
	return r.DiscountFactor(utils.YearFractionRef(start, end, refStart, refEnd, string(r.DayCount)))
}

// DLogDiscount is d ln DF / d rate at time t.
func (r InterestRate) DLogDiscount(t float64) float64 {
	f := r.perYear()
	switch r.Compounding {
	case Simple:
		return -t / (1 + r.Rate*t)
	case Continuous:
		return -t
	case SimpleThenCompounded:
		if t <= 1/f {
			return -t / (1 + r.Rate*t)
		}
		return -t / (1 + r.Rate/f)
	default:
		return -t / (1 + r.Rate/f)
	}
}

// WithRate returns a copy carrying a different rate.
func (r InterestRate) WithRate(rate float64) InterestRate {
	r.Rate = rate
	return r
}
