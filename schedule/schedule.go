// Package schedule generates coupon date schedules.
package schedule

import (
	"fmt"
	"math"
	"time"

	"github.com/meenmo/cpilib/calendar"
	"github.com/meenmo/cpilib/errs"
	"github.com/meenmo/cpilib/utils"
)

// Rule is the generation direction.
type Rule string

const (
	// Backward rolls from termination towards effective, leaving any stub at the front.
	Backward Rule = "BACKWARD"
	// Forward rolls from effective towards termination, leaving any stub at the back.
	Forward Rule = "FORWARD"
)

// Spec describes a schedule to generate.
type Spec struct {
	Effective             time.Time
	Termination           time.Time
	TenorMonths           int
	Calendar              calendar.CalendarID
	Convention            calendar.BusinessDayConvention
	TerminationConvention calendar.BusinessDayConvention
	Rule                  Rule
	EndOfMonth            bool
}

// Schedule is an ordered list of period boundaries. Regular[i] describes the
// period [Dates[i], Dates[i+1]].
type Schedule struct {
	Dates       []time.Time
	Regular     []bool
	TenorMonths int
	Calendar    calendar.CalendarID
	Convention  calendar.BusinessDayConvention
}

// Generate builds the schedule described by spec.
func Generate(spec Spec) (Schedule, error) {
	if !spec.Termination.After(spec.Effective) {
		return Schedule{}, errs.InvalidInput("schedule.Generate: termination %s not after effective %s",
			utils.FormatDate(spec.Termination), utils.FormatDate(spec.Effective))
	}
	if spec.TenorMonths <= 0 {
		return Schedule{}, errs.InvalidInput("schedule.Generate: unsupported tenor %dM", spec.TenorMonths)
	}

	var unadjusted []time.Time
	var regular []bool
	switch spec.Rule {
	case Forward:
		unadjusted, regular = rollForward(spec)
	case Backward, "":
		unadjusted, regular = rollBackward(spec)
	default:
		return Schedule{}, errs.InvalidInput("schedule.Generate: unknown rule %q", spec.Rule)
	}

	termConv := spec.TerminationConvention
	if termConv == "" {
		termConv = spec.Convention
	}

	dates := make([]time.Time, 0, len(unadjusted))
	regs := make([]bool, 0, len(regular))
	last := len(unadjusted) - 1
	merged := false
	for i, d := range unadjusted {
		conv := spec.Convention
		if i == last {
			conv = termConv
		}
		adj := calendar.AdjustWith(spec.Calendar, d, conv)
		// adjustment can collapse a short stub onto its neighbour
		if len(dates) > 0 && !adj.After(dates[len(dates)-1]) {
			if i == last {
				dates[len(dates)-1] = adj
				regs[len(regs)-1] = false
			} else {
				merged = true
			}
			continue
		}
		if i > 0 {
			regs = append(regs, regular[i-1] && !merged)
			merged = false
		}
		dates = append(dates, adj)
	}

	return Schedule{
		Dates:       dates,
		Regular:     regs,
		TenorMonths: spec.TenorMonths,
		Calendar:    spec.Calendar,
		Convention:  spec.Convention,
	}, nil
}

func roll(seed time.Time, months int, eom bool) time.Time {
	d := utils.AddMonth(seed, months)
	if eom {
		return utils.EndOfMonth(d)
	}
	return d
}

func rollBackward(spec Spec) ([]time.Time, []bool) {
	eom := spec.EndOfMonth && spec.Termination.Equal(utils.EndOfMonth(spec.Termination))
	dates := []time.Time{spec.Termination}
	var regular []bool
	for i := 1; ; i++ {
		d := roll(spec.Termination, -i*spec.TenorMonths, eom)
		if !d.After(spec.Effective) {
			regular = append([]bool{d.Equal(spec.Effective)}, regular...)
			break
		}
		dates = append([]time.Time{d}, dates...)
		regular = append([]bool{true}, regular...)
	}
	return append([]time.Time{spec.Effective}, dates...), regular
}

func rollForward(spec Spec) ([]time.Time, []bool) {
	eom := spec.EndOfMonth && spec.Effective.Equal(utils.EndOfMonth(spec.Effective))
	dates := []time.Time{spec.Effective}
	var regular []bool
	for i := 1; ; i++ {
		d := roll(spec.Effective, i*spec.TenorMonths, eom)
		if !d.Before(spec.Termination) {
			regular = append(regular, d.Equal(spec.Termination))
			break
		}
		dates = append(dates, d)
		regular = append(regular, true)
	}
	return append(dates, spec.Termination), regular
}

// FromDates wraps an explicit, strictly increasing date list. A period counts
// as regular when it spans exactly one tenor.
func FromDates(dates []time.Time, tenorMonths int, cal calendar.CalendarID, conv calendar.BusinessDayConvention) (Schedule, error) {
	if len(dates) < 2 {
		return Schedule{}, errs.InvalidInput("schedule.FromDates: need at least two dates, got %d", len(dates))
	}
	if tenorMonths <= 0 {
		return Schedule{}, errs.InvalidInput("schedule.FromDates: unsupported tenor %dM", tenorMonths)
	}
	regular := make([]bool, len(dates)-1)
	for i := 1; i < len(dates); i++ {
		if !dates[i].After(dates[i-1]) {
			return Schedule{}, errs.InvalidInput("schedule.FromDates: dates not strictly increasing at %s", utils.FormatDate(dates[i]))
		}
		expected := utils.AddMonth(dates[i-1], tenorMonths)
		regular[i-1] = math.Abs(utils.Days(expected, dates[i])) <= 3
	}
	out := make([]time.Time, len(dates))
	copy(out, dates)
	return Schedule{Dates: out, Regular: regular, TenorMonths: tenorMonths, Calendar: cal, Convention: conv}, nil
}

// Len is the number of periods.
func (s Schedule) Len() int {
	if len(s.Dates) == 0 {
		return 0
	}
	return len(s.Dates) - 1
}

// Period returns the boundaries of period i.
func (s Schedule) Period(i int) (start, end time.Time) {
	return s.Dates[i], s.Dates[i+1]
}

// ReferencePeriod returns the notional full-tenor period ACT/ACT ICMA measures
// period i against. Stubs extend to a full tenor away from the schedule edge.
func (s Schedule) ReferencePeriod(i int) (refStart, refEnd time.Time) {
	start, end := s.Period(i)
	if s.Regular == nil || s.Regular[i] {
		return start, end
	}
	if i == 0 {
		return utils.AddMonth(end, -s.TenorMonths), end
	}
	return start, utils.AddMonth(start, s.TenorMonths)
}

func (s Schedule) String() string {
	if len(s.Dates) == 0 {
		return "schedule{}"
	}
	return fmt.Sprintf("schedule{%s..%s, %d periods, %dM}",
		utils.FormatDate(s.Dates[0]), utils.FormatDate(s.Dates[len(s.Dates)-1]), s.Len(), s.TenorMonths)
}
