package inflation

import (
	"math"
	"time"

	"github.com/meenmo/cpilib/calendar"
	"github.com/meenmo/cpilib/discount"
	"github.com/meenmo/cpilib/errs"
	"github.com/meenmo/cpilib/market"
	"github.com/meenmo/cpilib/utils"
)

// SwapQuote is a market zero-coupon inflation swap rate.
type SwapQuote struct {
	Maturity time.Time
	Rate     float64
}

// ZeroCouponSwapHelper is a zero-coupon inflation swap used as a calibration
// instrument. The swap starts on the evaluation date and exchanges
// (1+K)^T - 1 against I(obs)/I(base) - 1 at maturity.
type ZeroCouponSwapHelper struct {
	Maturity       time.Time
	Rate           float64
	Index          *Index
	ObservationLag utils.Period
	Calendar       calendar.CalendarID
	Convention     calendar.BusinessDayConvention
	DayCount       market.DayCount
}

// NewZeroCouponSwapHelper validates and builds a helper.
func NewZeroCouponSwapHelper(q SwapQuote, index *Index, lag utils.Period, cal calendar.CalendarID,
	conv calendar.BusinessDayConvention, dc market.DayCount) (*ZeroCouponSwapHelper, error) {
	if index == nil {
		return nil, errs.InvalidInput("NewZeroCouponSwapHelper: nil index")
	}
	if q.Maturity.IsZero() {
		return nil, errs.InvalidInput("NewZeroCouponSwapHelper: missing maturity")
	}
	if math.IsNaN(q.Rate) || q.Rate <= -1 {
		return nil, errs.InvalidInput("NewZeroCouponSwapHelper: rate %g at %s", q.Rate, utils.FormatDate(q.Maturity))
	}
	return &ZeroCouponSwapHelper{
		Maturity:       q.Maturity,
		Rate:           q.Rate,
		Index:          index,
		ObservationLag: lag,
		Calendar:       cal,
		Convention:     conv,
		DayCount:       dc,
	}, nil
}

// ObservationDate is maturity minus the observation lag.
func (h *ZeroCouponSwapHelper) ObservationDate() time.Time {
	return utils.SubPeriod(h.Maturity, h.ObservationLag)
}

// BaseObservationDate is the evaluation date minus the observation lag.
func (h *ZeroCouponSwapHelper) BaseObservationDate(eval time.Time) time.Time {
	return utils.SubPeriod(eval, h.ObservationLag)
}

// NodeDate is where the helper pins the curve. An interpolated level inside a
// period reads the projection at the next period start, so the node sits
// there; otherwise it is the observation period start.
func (h *ZeroCouponSwapHelper) NodeDate() time.Time {
	obs := h.ObservationDate()
	start := PeriodStart(obs, h.Index.Frequency())
	if h.Index.Interpolated() && obs.After(start) {
		return nextPeriodStart(obs, h.Index.Frequency())
	}
	return start
}

// PaymentDate is the maturity rolled on the swap calendar.
func (h *ZeroCouponSwapHelper) PaymentDate() time.Time {
	return calendar.AdjustWith(h.Calendar, h.Maturity, h.Convention)
}

// YearFraction is the fixed leg compounding time.
func (h *ZeroCouponSwapHelper) YearFraction(eval time.Time) float64 {
	return YearFraction(h.Index.Frequency(), h.Index.Interpolated(), h.DayCount, h.BaseObservationDate(eval), h.ObservationDate())
}

// indexGrowth is I(obs)/I(base) read through index.
func (h *ZeroCouponSwapHelper) indexGrowth(val market.Valuation, index *Index) (float64, error) {
	base, err := index.Level(val, h.BaseObservationDate(val.EvaluationDate))
	if err != nil {
		return 0, err
	}
	obs, err := index.Level(val, h.ObservationDate())
	if err != nil {
		return 0, err
	}
	return obs / base, nil
}

func (h *ZeroCouponSwapHelper) fairValue(val market.Valuation, index *Index, disc discount.Curve) (float64, error) {
	growth, err := h.indexGrowth(val, index)
	if err != nil {
		return 0, err
	}
	fixed := math.Pow(1+h.Rate, h.YearFraction(val.EvaluationDate))
	return disc.DF(h.PaymentDate()) * ((growth - 1) - (fixed - 1)), nil
}

// FairValue is the value per unit notional to the fixed payer when the index
// projects off curve. It is zero for a curve that reprices the helper.
func (h *ZeroCouponSwapHelper) FairValue(curve *ZeroCurve, disc discount.Curve) (float64, error) {
	if curve == nil || disc == nil {
		return 0, errs.ErrMissingCurve
	}
	val := market.NewValuation(curve.ReferenceDate())
	return h.fairValue(val, h.Index.Clone(NewCurveHandle(curve)), disc)
}

// ImpliedRate is the fixed rate that gives zero fair value against curve.
func (h *ZeroCouponSwapHelper) ImpliedRate(curve *ZeroCurve) (float64, error) {
	if curve == nil {
		return 0, errs.ErrMissingCurve
	}
	val := market.NewValuation(curve.ReferenceDate())
	growth, err := h.indexGrowth(val, h.Index.Clone(NewCurveHandle(curve)))
	if err != nil {
		return 0, err
	}
	t := h.YearFraction(val.EvaluationDate)
	if t <= 0 {
		return 0, errs.InvalidInput("ImpliedRate: non-positive accrual %g to %s", t, utils.FormatDate(h.Maturity))
	}
	return math.Pow(growth, 1/t) - 1, nil
}
