package inflation

import (
	"math"
	"time"

	"github.com/meenmo/cpilib/errs"
	"github.com/meenmo/cpilib/market"
	"github.com/meenmo/cpilib/utils"
)

// CurveSpec holds the conventions shared by a zero curve and its bootstrap.
type CurveSpec struct {
	ReferenceDate  time.Time
	ObservationLag utils.Period
	Frequency      market.Frequency
	Interpolated   bool
	DayCount       market.DayCount
	BaseZeroRate   float64
}

// Node is one (date, zero rate) pillar.
type Node struct {
	Date time.Time
	Rate float64
}

// ZeroCurve is a zero-coupon inflation term structure. Zero rates are linear in
// time from the reference date and extrapolate linearly past either end.
type ZeroCurve struct {
	spec     CurveSpec
	baseDate time.Time
	dates    []time.Time
	times    []float64
	rates    []float64
}

// NewZeroCurve builds a curve whose first node is (base date, BaseZeroRate)
// followed by nodes, which must be strictly increasing and after the base date.
func NewZeroCurve(spec CurveSpec, nodes []Node) (*ZeroCurve, error) {
	c := newBaseCurve(spec)
	for _, n := range nodes {
		if !n.Date.After(c.dates[len(c.dates)-1]) {
			return nil, errs.InvalidInput("NewZeroCurve: node %s not after %s",
				utils.FormatDate(n.Date), utils.FormatDate(c.dates[len(c.dates)-1]))
		}
		c.push(n.Date, n.Rate)
	}
	return c, nil
}

func newBaseCurve(spec CurveSpec) *ZeroCurve {
	c := &ZeroCurve{
		spec:     spec,
		baseDate: BaseDate(spec.ReferenceDate, spec.ObservationLag, spec.Frequency, spec.Interpolated),
	}
	c.push(c.baseDate, spec.BaseZeroRate)
	return c
}

func (c *ZeroCurve) push(d time.Time, rate float64) {
	c.dates = append(c.dates, d)
	c.times = append(c.times, c.timeFromReference(d))
	c.rates = append(c.rates, rate)
}

// extended returns a copy with one more node; the bootstrap moves its rate.
func (c *ZeroCurve) extended(d time.Time, rate float64) *ZeroCurve {
	out := &ZeroCurve{
		spec:     c.spec,
		baseDate: c.baseDate,
		dates:    append(make([]time.Time, 0, len(c.dates)+1), c.dates...),
		times:    append(make([]float64, 0, len(c.times)+1), c.times...),
		rates:    append(make([]float64, 0, len(c.rates)+1), c.rates...),
	}
	out.push(d, rate)
	return out
}

func (c *ZeroCurve) setLastRate(rate float64) {
	c.rates[len(c.rates)-1] = rate
}

func (c *ZeroCurve) timeFromReference(d time.Time) float64 {
	return utils.YearFraction(c.spec.ReferenceDate, d, string(c.spec.DayCount))
}

// ZeroRate returns the zero rate observed at d.
func (c *ZeroCurve) ZeroRate(d time.Time) float64 {
	return c.ZeroRateAt(c.timeFromReference(d))
}

// ZeroRateAt interpolates linearly in time.
func (c *ZeroCurve) ZeroRateAt(t float64) float64 {
	n := len(c.times)
	if n == 1 {
		return c.rates[0]
	}
	i := 1
	for i < n-1 && t > c.times[i] {
		i++
	}
	t0, t1 := c.times[i-1], c.times[i]
	z0, z1 := c.rates[i-1], c.rates[i]
	if t1 == t0 {
		return z0
	}
	return z0 + (z1-z0)*(t-t0)/(t1-t0)
}

// IndexRatio is the projected growth of the index from the base date to d. A
// zero rate at or below -100% projects a zero level.
func (c *ZeroCurve) IndexRatio(d time.Time) float64 {
	z := c.ZeroRate(d)
	if z <= -1 {
		return 0
	}
	t := utils.YearFraction(c.baseDate, d, string(c.spec.DayCount))
	return math.Pow(1+z, t)
}

func (c *ZeroCurve) ReferenceDate() time.Time { return c.spec.ReferenceDate }
func (c *ZeroCurve) BaseDate() time.Time { return c.baseDate }
func (c *ZeroCurve) ObservationLag() utils.Period { return c.spec.ObservationLag }
func (c *ZeroCurve) Frequency() market.Frequency { return c.spec.Frequency }
func (c *ZeroCurve) Interpolated() bool { return c.spec.Interpolated }
func (c *ZeroCurve) DayCount() market.DayCount { return c.spec.DayCount }
func (c *ZeroCurve) BaseRate() float64 { return c.rates[0] }
func (c *ZeroCurve) Spec() CurveSpec { return c.spec }

// MaxDate is the last node date.
func (c *ZeroCurve) MaxDate() time.Time {
	return c.dates[len(c.dates)-1]
}

// Nodes returns a copy of all pillars, base node first.
func (c *ZeroCurve) Nodes() []Node {
	out := make([]Node, len(c.dates))
	for i := range c.dates {
		out[i] = Node{Date: c.dates[i], Rate: c.rates[i]}
	}
	return out
}
