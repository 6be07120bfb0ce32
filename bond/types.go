package bond

import "time"

// CashflowKind separates coupons from the final principal flow.
type CashflowKind int

const (
	Coupon CashflowKind = iota
	Redemption
)

func (k CashflowKind) String() string {
	if k == Redemption {
		return "redemption"
	}
	return "coupon"
}

// Cashflow is a single inflation-adjusted bond payment.
//
// Amounts are in currency units, not price-per-100.
type Cashflow struct {
	Kind         CashflowKind
	PaymentDate  time.Time
	AccrualStart time.Time
	AccrualEnd   time.Time
	// RefStart and RefEnd bound the notional coupon period ACT/ACT ICMA
	// measures against.
	RefStart   time.Time
	RefEnd     time.Time
	FixingDate time.Time
	// RecordDate is zero when the bond has no ex-coupon rule.
	RecordDate time.Time

	Nominal         float64
	Rate            float64
	AccrualFraction float64
	IndexRatio      float64
	// BaseAmount is the amount before indexation.
	BaseAmount float64
	Amount     float64
	// Payable is false when the buyer settling on the pricing date is not
	// entitled to the flow.
	Payable bool
}

// AccruedAt is the indexed coupon accrued from AccrualStart to d.
func (c Cashflow) AccruedAt(d time.Time, dayCount string) float64 {
	if c.Kind != Coupon || !d.After(c.AccrualStart) || d.After(c.PaymentDate) {
		return 0
	}
	end := d
	if end.After(c.AccrualEnd) {
		end = c.AccrualEnd
	}
	return c.Nominal * c.Rate * c.IndexRatio * yearFraction(c, c.AccrualStart, end, dayCount)
}
