package inflation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/meenmo/cpilib/calendar"
	"github.com/meenmo/cpilib/config"
	"github.com/meenmo/cpilib/discount"
	"github.com/meenmo/cpilib/errs"
	"github.com/meenmo/cpilib/market"
	"github.com/meenmo/cpilib/solver"
	"github.com/meenmo/cpilib/utils"
)

// CurveParams are the inputs of a bootstrap besides the instruments.
type CurveParams struct {
	EvaluationDate time.Time
	Calendar       calendar.CalendarID
	Convention     calendar.BusinessDayConvention
	DayCount       market.DayCount
	ObservationLag utils.Period
	Frequency      market.Frequency
	Interpolated   bool
	BaseZeroRate   float64
	Discount       discount.Curve
	Solver         config.BootstrapConfig
}

func (p CurveParams) spec() CurveSpec {
	return CurveSpec{
		ReferenceDate:  p.EvaluationDate,
		ObservationLag: p.ObservationLag,
		Frequency:      p.Frequency,
		Interpolated:   p.Interpolated,
		DayCount:       p.DayCount,
		BaseZeroRate:   p.BaseZeroRate,
	}
}

func (p CurveParams) solverConfig() config.BootstrapConfig {
	if p.Solver.MaxIterations == 0 {
		return config.Default().Bootstrap
	}
	return p.Solver
}

// BootstrapError reports the instrument whose node could not be solved.
type BootstrapError struct {
	Maturity time.Time
	Err      error
}

func (e *BootstrapError) Error() string {
	return fmt.Sprintf("inflation.Bootstrap: instrument maturing %s: %v", utils.FormatDate(e.Maturity), e.Err)
}

func (e *BootstrapError) Unwrap() error {
	return e.Err
}

// Bootstrap solves one curve node per helper, in maturity order, so that each
// helper has zero fair value.
func Bootstrap(params CurveParams, helpers []*ZeroCouponSwapHelper) (*ZeroCurve, error) {
	if err := validate(params, helpers); err != nil {
		return nil, err
	}
	cfg := params.solverConfig()
	val := market.NewValuation(params.EvaluationDate)
	curve := newBaseCurve(params.spec())

	for _, h := range helpers {
		nodeDate := h.NodeDate()
		if !nodeDate.After(curve.MaxDate()) {
			return nil, errs.InvalidInput("inflation.Bootstrap: node %s for %s not after %s",
				utils.FormatDate(nodeDate), utils.FormatDate(h.Maturity), utils.FormatDate(curve.MaxDate()))
		}
		guess := curve.rates[len(curve.rates)-1]
		trial := curve.extended(nodeDate, guess)
		index := h.Index.Clone(NewCurveHandle(trial))

		objective := func(x float64) (float64, error) {
			trial.setLastRate(x)
			return h.fairValue(val, index, params.Discount)
		}
		x, _, err := solver.Brent(objective, guess, cfg.MinRate, cfg.MaxRate, cfg.Accuracy, cfg.MaxIterations)
		if err != nil {
			var ce *errs.ConvergenceError
			if errors.As(err, &ce) {
				err = errs.WithKind(err, "inflation.Bootstrap", errs.ErrBootstrapConvergence)
			}
			return nil, &BootstrapError{Maturity: h.Maturity, Err: err}
		}
		trial.setLastRate(x)
		curve = trial
	}
	return curve, nil
}

func validate(params CurveParams, helpers []*ZeroCouponSwapHelper) error {
	if len(helpers) == 0 {
		return errs.InvalidInput("inflation.Bootstrap: no instruments")
	}
	if params.Discount == nil {
		return fmt.Errorf("inflation.Bootstrap: %w: no discount curve", errs.ErrInvalidInput)
	}
	if params.Frequency <= 0 {
		return errs.InvalidInput("inflation.Bootstrap: frequency %d", params.Frequency)
	}
	for i, h := range helpers {
		if h == nil {
			return errs.InvalidInput("inflation.Bootstrap: nil instrument at %d", i)
		}
		if i > 0 && !h.Maturity.After(helpers[i-1].Maturity) {
			return errs.InvalidInput("inflation.Bootstrap: maturity %s does not follow %s",
				utils.FormatDate(h.Maturity), utils.FormatDate(helpers[i-1].Maturity))
		}
	}
	return nil
}

// BuildZeroCurve builds helpers from quotes using the conventions in params
// and bootstraps them against index.
func BuildZeroCurve(params CurveParams, index *Index, quotes []SwapQuote) (*ZeroCurve, error) {
	helpers := make([]*ZeroCouponSwapHelper, 0, len(quotes))
	for _, q := range quotes {
		h, err := NewZeroCouponSwapHelper(q, index, params.ObservationLag, params.Calendar, params.Convention, params.DayCount)
		if err != nil {
			return nil, err
		}
		helpers = append(helpers, h)
	}
	return Bootstrap(params, helpers)
}

// CurveJob is one independent curve for BootstrapAll.
type CurveJob struct {
	ID     string
	Params CurveParams
	Index  *Index
	Quotes []SwapQuote
}

// BootstrapAll builds independent curves concurrently. Each result lines up
// with its job; the first failure cancels the rest.
func BootstrapAll(ctx context.Context, jobs []CurveJob, concurrency int) ([]*ZeroCurve, error) {
	out := make([]*ZeroCurve, len(jobs))
	g, ctx := errgroup.WithContext(ctx)
	if concurrency > 0 {
		g.SetLimit(concurrency)
	}
	for i, job := range jobs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			c, err := BuildZeroCurve(job.Params, job.Index, job.Quotes)
			if err != nil {
				return fmt.Errorf("curve %s: %w", job.ID, err)
			}
			out[i] = c
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
