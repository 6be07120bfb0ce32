package bond

import (
	"time"

	"github.com/meenmo/cpilib/calendar"
	"github.com/meenmo/cpilib/utils"
)

// ExCouponFilter decides whether a settling buyer receives a coupon. The
// record date is Period before payment; between the record date and the
// payment date the coupon stays with the seller.
type ExCouponFilter struct {
	Period     utils.Period
	Calendar   calendar.CalendarID
	Convention calendar.BusinessDayConvention
	// Adjusted rolls the record date with Convention. The shift itself always
	// runs on Calendar, so a day period counts business days; an unset
	// Calendar counts every day.
	Adjusted bool
}

// Enabled reports whether an ex-coupon period is set.
func (f *ExCouponFilter) Enabled() bool {
	return f != nil && !f.Period.IsZero()
}

// RecordDate is the ex-coupon date for a payment, or the zero time when the
// filter is disabled.
func (f *ExCouponFilter) RecordDate(payment time.Time) time.Time {
	if !f.Enabled() {
		return time.Time{}
	}
	cal, conv := f.Calendar, calendar.Unadjusted
	if cal == "" {
		cal = calendar.NULL
	}
	if f.Adjusted {
		conv = f.Convention
	}
	return calendar.Advance(cal, payment, f.Period.Neg(), conv)
}

// IsPayable is false iff record < settlement <= payment.
func (f *ExCouponFilter) IsPayable(payment, settlement time.Time) bool {
	if !f.Enabled() {
		return true
	}
	record := f.RecordDate(payment)
	return !(record.Before(settlement) && !settlement.After(payment))
}

// TradingExCoupon reports whether settlement falls inside the ex-coupon window
// of payment.
func (f *ExCouponFilter) TradingExCoupon(payment, settlement time.Time) bool {
	return !f.IsPayable(payment, settlement)
}
