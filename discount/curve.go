// Package discount provides the nominal discount curves inflation cashflows
// are valued against.
package discount

import (
	"math"
	"time"

	"github.com/meenmo/cpilib/errs"
	"github.com/meenmo/cpilib/market"
	"github.com/meenmo/cpilib/utils"
)

// Curve is a nominal discount curve anchored at a reference date.
type Curve interface {
	ReferenceDate() time.Time
	DF(t time.Time) float64
}

// FlatForward discounts at a single rate from its reference date.
type FlatForward struct {
	reference time.Time
	rate      market.InterestRate
}

// NewFlatForward builds a flat curve. The rate's day count measures time.
func NewFlatForward(reference time.Time, rate market.InterestRate) *FlatForward {
	return &FlatForward{reference: reference, rate: rate}
}

// ReferenceDate returns the date at which DF is 1.
func (c *FlatForward) ReferenceDate() time.Time {
	return c.reference
}

// Rate returns the curve's rate.
func (c *FlatForward) Rate() market.InterestRate {
	return c.rate
}

func (c *FlatForward) DF(t time.Time) float64 {
	return c.rate.DiscountFactor(utils.YearFraction(c.reference, t, string(c.rate.DayCount)))
}

// InterpolatedCurve holds pillar discount factors and interpolates log-linearly
// between them. Beyond the last pillar the last forward rate is extended.
type InterpolatedCurve struct {
	reference time.Time
	dayCount  market.DayCount
	pillars   []time.Time
	dfs       map[time.Time]float64
}

// NewInterpolatedCurve copies dfs and adds DF(reference) = 1 when absent.
func NewInterpolatedCurve(reference time.Time, dfs map[time.Time]float64, dayCount market.DayCount) (*InterpolatedCurve, error) {
	c := &InterpolatedCurve{
		reference: reference,
		dayCount:  dayCount,
		dfs:       make(map[time.Time]float64, len(dfs)+1),
	}
	for t, df := range dfs {
		if t.Before(reference) {
			return nil, errs.InvalidInput("NewInterpolatedCurve: pillar %s before reference date %s", utils.FormatDate(t), utils.FormatDate(reference))
		}
		if df <= 0 || math.IsNaN(df) {
			return nil, errs.InvalidInput("NewInterpolatedCurve: non-positive discount factor %g at %s", df, utils.FormatDate(t))
		}
		c.dfs[t] = df
	}
	if _, ok := c.dfs[reference]; !ok {
		c.dfs[reference] = 1.0
	}
	for t := range c.dfs {
		c.pillars = append(c.pillars, t)
	}
	utils.SortDates(c.pillars)
	return c, nil
}

func (c *InterpolatedCurve) ReferenceDate() time.Time {
	return c.reference
}

// Pillars returns the sorted node dates.
func (c *InterpolatedCurve) Pillars() []time.Time {
	out := make([]time.Time, len(c.pillars))
	copy(out, c.pillars)
	return out
}

func (c *InterpolatedCurve) DF(t time.Time) float64 {
	if df, ok := c.dfs[t]; ok {
		return df
	}
	if len(c.pillars) < 2 {
		return c.dfs[c.pillars[0]]
	}
	i := utils.AdjacentIndex(t, c.pillars)
	d1, d2 := c.pillars[i], c.pillars[i+1]
	df1, df2 := c.dfs[d1], c.dfs[d2]

	dc := string(c.dayCount)
	t1 := utils.YearFraction(c.reference, d1, dc)
	t2 := utils.YearFraction(c.reference, d2, dc)
	tt := utils.YearFraction(c.reference, t, dc)
	if t2 == t1 {
		return df1
	}
	forward := math.Log(df1/df2) / (t2 - t1)
	return df1 * math.Exp(-forward*(tt-t1))
}

// ZeroRate returns the continuously compounded zero rate to t.
func (c *InterpolatedCurve) ZeroRate(t time.Time) float64 {
	yf := utils.YearFraction(c.reference, t, string(c.dayCount))
	if yf == 0 {
		return 0
	}
	return -math.Log(c.DF(t)) / yf
}
