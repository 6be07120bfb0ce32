// Package bond prices inflation-linked (CPI) bonds off an inflation index and
// a nominal discount curve, or from a quoted yield.
package bond

import (
	"fmt"
	"time"

	"github.com/meenmo/cpilib/calendar"
	"github.com/meenmo/cpilib/errs"
	"github.com/meenmo/cpilib/inflation"
	"github.com/meenmo/cpilib/market"
	"github.com/meenmo/cpilib/schedule"
	"github.com/meenmo/cpilib/utils"
)

// CPIBondTerms are the contract terms of a CPI bond.
type CPIBondTerms struct {
	ID             string
	SettlementDays int
	// Calendar counts settlement days; it defaults to the schedule calendar.
	Calendar       calendar.CalendarID
	Notional       float64
	GrowthOnly     bool
	BaseCPI        float64
	ObservationLag utils.Period
	Index          *inflation.Index
	// Interpolation overrides the index's own rule for this contract.
	Interpolation inflation.Interpolation
	Schedule      schedule.Schedule
	// Rates apply per period; the last rate repeats for later periods.
	Rates    []float64
	DayCount market.DayCount
	// PaymentCalendar defaults to the schedule calendar.
	PaymentCalendar   calendar.CalendarID
	PaymentConvention calendar.BusinessDayConvention
	ExCoupon          *ExCouponFilter
}

// CPIBond is immutable once built.
type CPIBond struct {
	terms CPIBondTerms
}

// NewCPIBond validates and copies terms.
func NewCPIBond(t CPIBondTerms) (*CPIBond, error) {
	switch {
	case t.Notional <= 0:
		return nil, errs.InvalidInput("NewCPIBond %s: notional %g must be positive", t.ID, t.Notional)
	case t.BaseCPI <= 0:
		return nil, errs.InvalidInput("NewCPIBond %s: base CPI %g must be positive", t.ID, t.BaseCPI)
	case t.SettlementDays < 0:
		return nil, errs.InvalidInput("NewCPIBond %s: negative settlement days", t.ID)
	case t.Index == nil:
		return nil, errs.InvalidInput("NewCPIBond %s: no index", t.ID)
	case t.Schedule.Len() < 1:
		return nil, errs.InvalidInput("NewCPIBond %s: schedule has no periods", t.ID)
	case len(t.Rates) == 0:
		return nil, errs.InvalidInput("NewCPIBond %s: no coupon rates", t.ID)
	case t.ObservationLag.Length < 0:
		return nil, errs.InvalidInput("NewCPIBond %s: negative observation lag %s", t.ID, t.ObservationLag)
	}
	for i := 1; i < len(t.Schedule.Dates); i++ {
		if !t.Schedule.Dates[i].After(t.Schedule.Dates[i-1]) {
			return nil, errs.InvalidInput("NewCPIBond %s: schedule dates not increasing at %s", t.ID, utils.FormatDate(t.Schedule.Dates[i]))
		}
	}
	if _, ok := t.ObservationLag.Months(); !ok && !t.ObservationLag.IsZero() {
		return nil, errs.InvalidInput("NewCPIBond %s: observation lag %s must be in months or years", t.ID, t.ObservationLag)
	}
	if t.Calendar == "" {
		t.Calendar = t.Schedule.Calendar
	}
	if t.PaymentCalendar == "" {
		t.PaymentCalendar = t.Schedule.Calendar
	}
	if t.DayCount == "" {
		t.DayCount = market.ActActICMA
	}

	t.Rates = append([]float64(nil), t.Rates...)
	sched := t.Schedule
	sched.Dates = append([]time.Time(nil), sched.Dates...)
	sched.Regular = append([]bool(nil), sched.Regular...)
	t.Schedule = sched
	if t.ExCoupon != nil {
		ex := *t.ExCoupon
		t.ExCoupon = &ex
	}
	return &CPIBond{terms: t}, nil
}

func (b *CPIBond) ID() string { return b.terms.ID }

// Terms returns a copy of the contract terms.
func (b *CPIBond) Terms() CPIBondTerms { return b.terms }

func (b *CPIBond) Notional() float64 { return b.terms.Notional }

// MaturityDate is the last schedule date.
func (b *CPIBond) MaturityDate() time.Time {
	return b.terms.Schedule.Dates[len(b.terms.Schedule.Dates)-1]
}

// SettlementDate is the evaluation date plus settlement business days.
func (b *CPIBond) SettlementDate(val market.Valuation) time.Time {
	return calendar.Advance(b.terms.Calendar, val.EvaluationDate,
		utils.Period{Length: b.terms.SettlementDays, Unit: utils.Day}, calendar.Following)
}

func (b *CPIBond) rate(i int) float64 {
	if i < len(b.terms.Rates) {
		return b.terms.Rates[i]
	}
	return b.terms.Rates[len(b.terms.Rates)-1]
}

func (b *CPIBond) indexRatio(val market.Valuation, fixing time.Time) (float64, error) {
	level, err := b.terms.Index.LevelWith(val, fixing, b.terms.Interpolation)
	if err != nil {
		return 0, err
	}
	return level / b.terms.BaseCPI, nil
}

// Cashflows returns the flows still to be paid after settlement, coupons in
// schedule order followed by the redemption. Flows inside an ex-coupon window
// are kept with Payable false.
func (b *CPIBond) Cashflows(val market.Valuation, settlement time.Time) ([]Cashflow, error) {
	t := b.terms
	n := t.Schedule.Len()
	out := make([]Cashflow, 0, n+1)

	for i := 0; i < n; i++ {
		start, end := t.Schedule.Period(i)
		payment := calendar.AdjustWith(t.PaymentCalendar, end, t.PaymentConvention)
		if !payment.After(settlement) {
			continue
		}
		fixing := utils.SubPeriod(payment, t.ObservationLag)
		ratio, err := b.indexRatio(val, fixing)
		if err != nil {
			return nil, fmt.Errorf("bond %s: flow paying %s: %w", t.ID, utils.FormatDate(payment), err)
		}

		refStart, refEnd := t.Schedule.ReferencePeriod(i)
		cf := Cashflow{
			Kind:         Coupon,
			PaymentDate:  payment,
			AccrualStart: start,
			AccrualEnd:   end,
			RefStart:     refStart,
			RefEnd:       refEnd,
			FixingDate:   fixing,
			RecordDate:   t.ExCoupon.RecordDate(payment),
			Nominal:      t.Notional,
			Rate:         b.rate(i),
			IndexRatio:   ratio,
			Payable:      t.ExCoupon.IsPayable(payment, settlement),
		}
		cf.AccrualFraction = yearFraction(cf, start, end, string(t.DayCount))
		cf.BaseAmount = cf.Nominal * cf.Rate * cf.AccrualFraction
		cf.Amount = cf.BaseAmount * ratio
		out = append(out, cf)

		if i == n-1 {
			amount := t.Notional * ratio
			if t.GrowthOnly {
				amount = t.Notional * (ratio - 1)
			}
			out = append(out, Cashflow{
				Kind:         Redemption,
				PaymentDate:  payment,
				AccrualStart: start,
				AccrualEnd:   end,
				RefStart:     refStart,
				RefEnd:       refEnd,
				FixingDate:   fixing,
				Nominal:      t.Notional,
				IndexRatio:   ratio,
				BaseAmount:   t.Notional,
				Amount:       amount,
				Payable:      true,
			})
		}
	}
	return out, nil
}

// yearFraction measures [start, end] within the coupon's reference period.
func yearFraction(c Cashflow, start, end time.Time, dayCount string) float64 {
	return utils.YearFractionRef(start, end, c.RefStart, c.RefEnd, dayCount)
}
