package inflation

import (
	"fmt"
	"time"

	"github.com/meenmo/cpilib/errs"
	"github.com/meenmo/cpilib/market"
	"github.com/meenmo/cpilib/utils"
)

// IndexSpec describes a published price index.
type IndexSpec struct {
	Name            string
	Region          string
	Frequency       market.Frequency
	Interpolated    bool
	AvailabilityLag utils.Period
}

// Index resolves index levels from its fixing history, or from the linked zero
// curve once a date lies beyond what can have been published.
type Index struct {
	spec    IndexSpec
	history *FixingHistory
	handle  *CurveHandle
}

// NewIndex binds spec to a history and a curve handle. A nil history or handle
// is replaced by an empty one.
func NewIndex(spec IndexSpec, history *FixingHistory, handle *CurveHandle) (*Index, error) {
	if spec.Frequency <= 0 || 12%int(spec.Frequency) != 0 {
		return nil, errs.InvalidInput("NewIndex: %s frequency %d does not divide a year", spec.Name, spec.Frequency)
	}
	if spec.AvailabilityLag.Length < 0 {
		return nil, errs.InvalidInput("NewIndex: %s availability lag %s is negative", spec.Name, spec.AvailabilityLag)
	}
	if history == nil {
		history = NewFixingHistory()
	}
	if handle == nil {
		handle = NewCurveHandle(nil)
	}
	return &Index{spec: spec, history: history, handle: handle}, nil
}

// Clone shares the fixing history but reads curves from handle.
func (i *Index) Clone(handle *CurveHandle) *Index {
	return &Index{spec: i.spec, history: i.history, handle: handle}
}

func (i *Index) Name() string { return i.spec.Name }
func (i *Index) Spec() IndexSpec { return i.spec }
func (i *Index) Frequency() market.Frequency { return i.spec.Frequency }
func (i *Index) Interpolated() bool { return i.spec.Interpolated }
func (i *Index) History() *FixingHistory { return i.history }
func (i *Index) Handle() *CurveHandle { return i.handle }

// AddFixing records a level for the period containing date.
func (i *Index) AddFixing(date time.Time, level float64) error {
	if err := i.history.Add(PeriodStart(date, i.spec.Frequency), level); err != nil {
		return fmt.Errorf("%s.AddFixing: %w", i.spec.Name, err)
	}
	return nil
}

// Level returns the index level observed at date, following the index's own
// interpolation.
func (i *Index) Level(val market.Valuation, date time.Time) (float64, error) {
	if i.needsForecast(val, date) {
		return i.forecast(date)
	}
	return i.historical(date)
}

// LevelWith overrides the index's interpolation with mode.
func (i *Index) LevelWith(val market.Valuation, date time.Time, mode Interpolation) (float64, error) {
	switch mode {
	case Flat:
		return i.Level(val, PeriodStart(date, i.spec.Frequency))
	case Linear:
		start, end := PeriodOf(date, i.spec.Frequency)
		l0, err := i.Level(val, start)
		if err != nil || date.Equal(start) {
			return l0, err
		}
		next := end.AddDate(0, 0, 1)
		l1, err := i.Level(val, next)
		if err != nil {
			return 0, err
		}
		return l0 + (l1-l0)*utils.Days(start, date)/utils.Days(start, next), nil
	default:
		return i.Level(val, date)
	}
}

// needsForecast decides whether date can only come from the curve. Periods
// ending before evaluation date minus the availability lag must be published;
// later dates up to the evaluation date are read from history when present.
func (i *Index) needsForecast(val market.Valuation, date time.Time) bool {
	today := val.EvaluationDate
	known := PeriodStart(utils.SubPeriod(today, i.spec.AvailabilityLag), i.spec.Frequency).AddDate(0, 0, -1)

	latest := date
	if i.spec.Interpolated && date.After(PeriodStart(date, i.spec.Frequency)) {
		latest = nextPeriodStart(date, i.spec.Frequency)
	}
	if !latest.After(known) {
		return false
	}
	if latest.After(today) {
		return true
	}
	_, ok := i.history.Get(PeriodStart(latest, i.spec.Frequency))
	return !ok
}

func (i *Index) fixing(start time.Time) (float64, error) {
	v, ok := i.history.Get(start)
	if !ok {
		return 0, fmt.Errorf("%w: %s has no fixing for %s", errs.ErrMissingFixing, i.spec.Name, utils.FormatDate(start))
	}
	return v, nil
}

func (i *Index) historical(date time.Time) (float64, error) {
	start, end := PeriodOf(date, i.spec.Frequency)
	f0, err := i.fixing(start)
	if err != nil || !i.spec.Interpolated || date.Equal(start) {
		return f0, err
	}
	next := end.AddDate(0, 0, 1)
	f1, err := i.fixing(next)
	if err != nil {
		return 0, err
	}
	return f0 + (f1-f0)*utils.Days(start, date)/utils.Days(start, next), nil
}

func (i *Index) forecast(date time.Time) (float64, error) {
	curve := i.handle.Curve()
	if curve == nil {
		return 0, fmt.Errorf("%w: %s level at %s needs a projection", errs.ErrMissingCurve, i.spec.Name, utils.FormatDate(date))
	}
	base, err := i.historical(curve.BaseDate())
	if err != nil {
		return 0, fmt.Errorf("%s base fixing: %w", i.spec.Name, err)
	}

	start, end := PeriodOf(date, i.spec.Frequency)
	l0 := base * curve.IndexRatio(start)
	if !i.spec.Interpolated || date.Equal(start) {
		return l0, nil
	}
	next := end.AddDate(0, 0, 1)
	l1 := base * curve.IndexRatio(next)
	return l0 + (l1-l0)*utils.Days(start, date)/utils.Days(start, next), nil
}
