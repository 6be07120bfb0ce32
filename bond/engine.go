package bond

import (
	"fmt"
	"time"

	"github.com/meenmo/cpilib/discount"
	"github.com/meenmo/cpilib/errs"
	"github.com/meenmo/cpilib/market"
	"github.com/meenmo/cpilib/utils"
)

// Engine prices a bond for a given settlement date, per 100 notional.
type Engine interface {
	DirtyPrice(val market.Valuation, b *CPIBond, settlement time.Time) (float64, error)
}

// DiscountingEngine values cashflows off a nominal discount curve.
type DiscountingEngine struct {
	Curve discount.Curve
}

// NewDiscountingEngine wraps curve.
func NewDiscountingEngine(curve discount.Curve) *DiscountingEngine {
	return &DiscountingEngine{Curve: curve}
}

func (e *DiscountingEngine) curve(id string) (discount.Curve, error) {
	if e == nil || e.Curve == nil {
		return nil, fmt.Errorf("bond %s: %w: no discount curve on engine", id, errs.ErrMissingCurve)
	}
	return e.Curve, nil
}

// DirtyPrice is the settlement value of the payable flows after settlement,
// quoted per 100 notional.
func (e *DiscountingEngine) DirtyPrice(val market.Valuation, b *CPIBond, settlement time.Time) (float64, error) {
	curve, err := e.curve(b.ID())
	if err != nil {
		return 0, err
	}
	flows, err := b.Cashflows(val, settlement)
	if err != nil {
		return 0, err
	}
	dfSettle := curve.DF(settlement)
	var pv float64
	for _, cf := range flows {
		if !cf.Payable {
			continue
		}
		pv += cf.Amount * curve.DF(cf.PaymentDate) / dfSettle
	}
	return pv * 100 / b.Notional(), nil
}

// NPV is the value in currency of the flows paid after the evaluation date,
// discounted to the curve's reference date. Ex-coupon status is judged at the
// evaluation date.
func (e *DiscountingEngine) NPV(val market.Valuation, b *CPIBond) (float64, error) {
	curve, err := e.curve(b.ID())
	if err != nil {
		return 0, err
	}
	flows, err := b.Cashflows(val, val.EvaluationDate)
	if err != nil {
		return 0, err
	}
	var npv float64
	for _, cf := range flows {
		if cf.Payable {
			npv += cf.Amount * curve.DF(cf.PaymentDate)
		}
	}
	return npv, nil
}

// AccruedAmount is the indexed coupon accrued at settlement per 100 notional.
// Coupons paying on the first payment date after settlement contribute. When
// that coupon is trading ex-coupon the buyer owes the seller the remainder of
// the period and the amount is negative.
func (b *CPIBond) AccruedAmount(val market.Valuation, settlement time.Time) (float64, error) {
	flows, err := b.Cashflows(val, settlement)
	if err != nil {
		return 0, err
	}
	return accrued(flows, settlement, string(b.terms.DayCount)) * 100 / b.Notional(), nil
}

// accrued works on flows already filtered to payment > settlement.
func accrued(flows []Cashflow, settlement time.Time, dayCount string) float64 {
	var next time.Time
	var total float64
	for _, cf := range flows {
		if cf.Kind != Coupon {
			continue
		}
		if next.IsZero() {
			next = cf.PaymentDate
		}
		if !cf.PaymentDate.Equal(next) {
			break
		}
		if !cf.Payable {
			if settlement.Before(cf.AccrualEnd) {
				total -= cf.Nominal * cf.Rate * cf.IndexRatio * yearFraction(cf, settlement, cf.AccrualEnd, dayCount)
			}
			continue
		}
		total += cf.AccruedAt(settlement, dayCount)
	}
	return total
}

// DirtyPrice prices at the bond's settlement date for val.
func (b *CPIBond) DirtyPrice(val market.Valuation, engine Engine) (float64, error) {
	if engine == nil {
		return 0, fmt.Errorf("bond %s: %w: no pricing engine", b.ID(), errs.ErrMissingCurve)
	}
	return engine.DirtyPrice(val, b, b.SettlementDate(val))
}

// CleanPrice is DirtyPrice less AccruedAmount, both at the settlement date.
func (b *CPIBond) CleanPrice(val market.Valuation, engine Engine) (float64, error) {
	dirty, err := b.DirtyPrice(val, engine)
	if err != nil {
		return 0, err
	}
	acc, err := b.AccruedAmount(val, b.SettlementDate(val))
	if err != nil {
		return 0, err
	}
	return dirty - acc, nil
}

// Quote bundles the prices of one bond at one settlement date.
type Quote struct {
	ID         string
	Settlement time.Time
	Dirty      float64
	Clean      float64
	Accrued    float64
}

func (q Quote) String() string {
	return fmt.Sprintf("%s settle %s clean %.8f dirty %.8f accrued %.8f",
		q.ID, utils.FormatDate(q.Settlement), q.Clean, q.Dirty, q.Accrued)
}

// Price returns the Quote at the bond's settlement date.
func (b *CPIBond) Price(val market.Valuation, engine Engine) (Quote, error) {
	settlement := b.SettlementDate(val)
	dirty, err := b.DirtyPrice(val, engine)
	if err != nil {
		return Quote{}, err
	}
	acc, err := b.AccruedAmount(val, settlement)
	if err != nil {
		return Quote{}, err
	}
	return Quote{ID: b.ID(), Settlement: settlement, Dirty: dirty, Clean: dirty - acc, Accrued: acc}, nil
}
