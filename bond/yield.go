package bond

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/meenmo/cpilib/config"
	"github.com/meenmo/cpilib/errs"
	"github.com/meenmo/cpilib/market"
	"github.com/meenmo/cpilib/solver"
	"github.com/meenmo/cpilib/utils"
)

// ---------------------------------------------------------------------------
// Pricing from yield
// ---------------------------------------------------------------------------

// DirtyPriceFromYield discounts the payable flows after settlement at y and
// returns the dirty price per 100 notional.
//
// Discounting is chained flow to flow starting at settlement; each step is
// measured on y's day count within the coupon's reference period, so
// ACT/ACT ICMA counts whole coupon periods between payment dates.
func DirtyPriceFromYield(val market.Valuation, b *CPIBond, y market.InterestRate, settlement time.Time) (float64, error) {
	flows, err := b.Cashflows(val, settlement)
	if err != nil {
		return 0, err
	}
	price, _ := dirtyPriceAndDeriv(flows, y, settlement)
	return price * 100 / b.Notional(), nil
}

// CleanPriceFromYield is DirtyPriceFromYield less the accrued amount.
func CleanPriceFromYield(val market.Valuation, b *CPIBond, y market.InterestRate, settlement time.Time) (float64, error) {
	flows, err := b.Cashflows(val, settlement)
	if err != nil {
		return 0, err
	}
	price, _ := dirtyPriceAndDeriv(flows, y, settlement)
	acc := accrued(flows, settlement, string(b.terms.DayCount))
	return (price - acc) * 100 / b.Notional(), nil
}

// Duration is the modified duration -(dP/dy)/P at yield y.
func Duration(val market.Valuation, b *CPIBond, y market.InterestRate, settlement time.Time) (float64, error) {
	flows, err := b.Cashflows(val, settlement)
	if err != nil {
		return 0, err
	}
	price, deriv := dirtyPriceAndDeriv(flows, y, settlement)
	if price == 0 {
		return 0, errs.InvalidInput("Duration %s: zero price at yield %s", b.ID(), y)
	}
	return -deriv / price, nil
}

// ---------------------------------------------------------------------------
// Yield solve
// ---------------------------------------------------------------------------

// YieldResult is the output of Yield.
type YieldResult struct {
	// Yield carries the conventions of the template rate passed to Yield.
	Yield      market.InterestRate
	Iterations int
}

// Yield solves for the rate r such that DirtyPriceFromYield at r equals
// dirty. The day count, compounding and frequency come from template.
//
// The solve is Newton-Raphson with the analytic derivative, falling back to
// bisection inside [cfg.MinYield, cfg.MaxYield].
func Yield(val market.Valuation, b *CPIBond, dirty float64, template market.InterestRate, settlement time.Time, cfg config.YieldConfig) (YieldResult, error) {
	const op = "bond.Yield"
	if math.IsNaN(dirty) || dirty <= 0 {
		return YieldResult{}, errs.InvalidInput("%s %s: target price %g must be positive", op, b.ID(), dirty)
	}
	if cfg.MaxIterations == 0 {
		cfg = config.Default().Yield
	}
	flows, err := b.Cashflows(val, settlement)
	if err != nil {
		return YieldResult{}, err
	}
	if len(flows) == 0 {
		return YieldResult{}, errs.InvalidInput("%s %s: no flows after %s", op, b.ID(), utils.FormatDate(settlement))
	}

	target := dirty * b.Notional() / 100
	objective := func(r float64) (float64, float64, error) {
		p, dp := dirtyPriceAndDeriv(flows, template.WithRate(r), settlement)
		return p - target, dp, nil
	}

	lo := lowerYieldBound(flows, template, settlement, cfg.MinYield, cfg.Guess)
	r, iter, err := solver.NewtonSafe(objective, cfg.Guess, lo, cfg.MaxYield, cfg.Accuracy, cfg.MaxIterations)
	if err != nil {
		var ce *errs.ConvergenceError
		if errors.As(err, &ce) {
			return YieldResult{}, errs.WithKind(err, fmt.Sprintf("%s %s", op, b.ID()), errs.ErrNoRoot)
		}
		return YieldResult{}, fmt.Errorf("%s %s: %w", op, b.ID(), err)
	}
	return YieldResult{Yield: template.WithRate(r), Iterations: iter}, nil
}

// lowerYieldBound pulls floor toward guess until the price there is finite. At
// -100% annual compounding the discount factor is unbounded.
func lowerYieldBound(flows []Cashflow, template market.InterestRate, settlement time.Time, floor, guess float64) float64 {
	lo := floor
	for i := 0; i < 60; i++ {
		p, dp := dirtyPriceAndDeriv(flows, template.WithRate(lo), settlement)
		if !math.IsNaN(p) && !math.IsInf(p, 0) && !math.IsNaN(dp) && !math.IsInf(dp, 0) {
			return lo
		}
		lo += 0.5 * (guess - lo)
	}
	return lo
}

// dirtyPriceAndDeriv returns (price, dPrice/dy) in currency units.
//
//	DF_k  = DF_{k-1} · df(pay_{k-1}, pay_k)     with pay_0 = settlement
//	price = Σ amount_k · DF_k
//	dP/dy = Σ amount_k · DF_k · Σ_{j<=k} dlnDF_j/dy
//
// Flows that are not payable keep their place in the chain with a zero amount.
func dirtyPriceAndDeriv(flows []Cashflow, y market.InterestRate, settlement time.Time) (float64, float64) {
	var price, deriv float64
	df, dlog := 1.0, 0.0
	last := settlement
	for _, cf := range flows {
		if !cf.PaymentDate.After(settlement) {
			continue
		}
		refStart, refEnd := cf.RefStart, cf.RefEnd
		if cf.Kind != Coupon {
			refStart, refEnd = last, cf.PaymentDate
		}
		t := utils.YearFractionRef(last, cf.PaymentDate, refStart, refEnd, string(y.DayCount))
		df *= y.DiscountFactor(t)
		dlog += y.DLogDiscount(t)
		last = cf.PaymentDate

		amount := cf.Amount
		if !cf.Payable {
			amount = 0
		}
		price += amount * df
		deriv += amount * df * dlog
	}
	return price, deriv
}
