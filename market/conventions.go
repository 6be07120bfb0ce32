package market

import (
	"fmt"
	"strings"
)

// Frequency enumerates payment and publication frequencies in months.
type Frequency int

const (
	FreqAnnual    Frequency = 12
	FreqSemi      Frequency = 6
	FreqQuarterly Frequency = 3
	FreqMonthly   Frequency = 1
)

// PerYear returns the number of periods per year.
func (f Frequency) PerYear() int {
	if f <= 0 {
		return 0
	}
	return 12 / int(f)
}

func (f Frequency) String() string {
	switch f {
	case FreqAnnual:
		return "annual"
	case FreqSemi:
		return "semiannual"
	case FreqQuarterly:
		return "quarterly"
	case FreqMonthly:
		return "monthly"
	default:
		return fmt.Sprintf("%dM", int(f))
	}
}

// ParseFrequency accepts names ("monthly") and month counts ("6M").
func ParseFrequency(s string) (Frequency, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "annual", "1y", "12m":
		return FreqAnnual, nil
	case "semiannual", "semi", "6m":
		return FreqSemi, nil
	case "quarterly", "3m":
		return FreqQuarterly, nil
	case "monthly", "1m":
		return FreqMonthly, nil
	default:
		return 0, fmt.Errorf("ParseFrequency: unknown frequency %q", s)
	}
}

// DayCount enum.
type DayCount string

const (
	Act360     DayCount = "ACT/360"
	Act365     DayCount = "ACT/365"
	Act365F    DayCount = "ACT/365F"
	Dc30360    DayCount = "30/360"
	Dc30E360   DayCount = "30E/360"
	ActActISDA DayCount = "ACT/ACT"
	ActActICMA DayCount = "ACT/ACT ICMA"
)

// ParseDayCount validates a day count name.
func ParseDayCount(s string) (DayCount, error) {
	dc := DayCount(strings.ToUpper(strings.TrimSpace(s)))
	switch dc {
	case Act360, Act365, Act365F, Dc30360, Dc30E360, ActActISDA, ActActICMA, "ACT/ACT ISDA":
		return dc, nil
	default:
		return "", fmt.Errorf("ParseDayCount: unknown day count %q", s)
	}
}

// Compounding selects how a quoted rate turns into a discount factor.
type Compounding string

const (
	Simple               Compounding = "SIMPLE"
	Compounded           Compounding = "COMPOUNDED"
	Continuous           Compounding = "CONTINUOUS"
	SimpleThenCompounded Compounding = "SIMPLE_THEN_COMPOUNDED"
)

// ParseCompounding validates a compounding name.
func ParseCompounding(s string) (Compounding, error) {
	c := Compounding(strings.ToUpper(strings.TrimSpace(s)))
	switch c {
	case Simple, Compounded, Continuous, SimpleThenCompounded:
		return c, nil
	default:
		return "", fmt.Errorf("ParseCompounding: unknown compounding %q", s)
	}
}
