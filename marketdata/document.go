package marketdata

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/meenmo/cpilib/bond"
	"github.com/meenmo/cpilib/calendar"
	"github.com/meenmo/cpilib/config"
	"github.com/meenmo/cpilib/discount"
	"github.com/meenmo/cpilib/errs"
	"github.com/meenmo/cpilib/inflation"
	"github.com/meenmo/cpilib/market"
	"github.com/meenmo/cpilib/schedule"
	"github.com/meenmo/cpilib/utils"
)

// Document is a market-data file: one index with its fixings, a nominal
// discount curve, the ZC swap quotes to bootstrap, and bonds to price.
type Document struct {
	EvaluationDate string      `yaml:"evaluation_date" validate:"required,datetime=2006-01-02"`
	Index          IndexDoc    `yaml:"index"`
	Fixings        []FixingDoc `yaml:"fixings"         validate:"dive"`
	Discount       DiscountDoc `yaml:"discount"`
	Curve          CurveDoc    `yaml:"curve"`
	Bonds          []BondDoc   `yaml:"bonds"           validate:"dive"`
}

type IndexDoc struct {
	Name            string `yaml:"name"             validate:"required"`
	Region          string `yaml:"region"`
	Frequency       string `yaml:"frequency"        validate:"required"`
	Interpolated    bool   `yaml:"interpolated"`
	AvailabilityLag string `yaml:"availability_lag" validate:"required"`
}

type FixingDoc struct {
	Date  string  `yaml:"date"  validate:"required,datetime=2006-01-02"`
	Level float64 `yaml:"level" validate:"gt=0"`
}

// DiscountDoc is either a flat rate or a set of pillar discount factors.
type DiscountDoc struct {
	Rate        float64     `yaml:"rate"`
	DayCount    string      `yaml:"day_count"   validate:"required"`
	Compounding string      `yaml:"compounding"`
	Frequency   string      `yaml:"frequency"`
	Pillars     []PillarDoc `yaml:"pillars"     validate:"dive"`
}

type PillarDoc struct {
	Date string  `yaml:"date" validate:"required,datetime=2006-01-02"`
	DF   float64 `yaml:"df"   validate:"gt=0"`
}

type CurveDoc struct {
	ObservationLag string     `yaml:"observation_lag" validate:"required"`
	DayCount       string     `yaml:"day_count"       validate:"required"`
	Calendar       string     `yaml:"calendar"`
	Convention     string     `yaml:"convention"`
	BaseZeroRate   float64    `yaml:"base_zero_rate"`
	Quotes         []QuoteDoc `yaml:"quotes"          validate:"required,min=1,dive"`
}

type QuoteDoc struct {
	Maturity string  `yaml:"maturity" validate:"required,datetime=2006-01-02"`
	Rate     float64 `yaml:"rate"     validate:"gt=-1"`
}

type BondDoc struct {
	ID                string       `yaml:"id"                 validate:"required"`
	SettlementDays    int          `yaml:"settlement_days"    validate:"gte=0"`
	Notional          float64      `yaml:"notional"           validate:"gt=0"`
	GrowthOnly        bool         `yaml:"growth_only"`
	BaseCPI           float64      `yaml:"base_cpi"           validate:"gt=0"`
	ObservationLag    string       `yaml:"observation_lag"    validate:"required"`
	Interpolation     string       `yaml:"interpolation"      validate:"omitempty,oneof=as_index flat linear"`
	Effective         string       `yaml:"effective"          validate:"required,datetime=2006-01-02"`
	Termination       string       `yaml:"termination"        validate:"required,datetime=2006-01-02"`
	Tenor             string       `yaml:"tenor"              validate:"required"`
	Calendar          string       `yaml:"calendar"`
	Convention        string       `yaml:"convention"`
	EndOfMonth        bool         `yaml:"end_of_month"`
	Rates             []float64    `yaml:"rates"              validate:"required,min=1"`
	DayCount          string       `yaml:"day_count"`
	PaymentCalendar   string       `yaml:"payment_calendar"`
	PaymentConvention string       `yaml:"payment_convention"`
	ExCoupon          *ExCouponDoc `yaml:"ex_coupon"`
	// Yield, when set, is the quoted yield the CLI prices from.
	Yield *YieldDoc `yaml:"yield"`
}

type ExCouponDoc struct {
	Period     string `yaml:"period"     validate:"required"`
	Calendar   string `yaml:"calendar"`
	Convention string `yaml:"convention"`
	Adjusted   bool   `yaml:"adjusted"`
}

type YieldDoc struct {
	Rate        float64 `yaml:"rate"`
	DayCount    string  `yaml:"day_count"   validate:"required"`
	Compounding string  `yaml:"compounding" validate:"required"`
	Frequency   string  `yaml:"frequency"   validate:"required"`
}

var validate = validator.New()

// LoadDocument reads and validates a YAML market-data file.
func LoadDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("LoadDocument: %w", err)
	}
	doc, err := ParseDocument(data)
	if err != nil {
		return nil, fmt.Errorf("LoadDocument %s: %w", path, err)
	}
	return doc, nil
}

// ParseDocument decodes YAML, rejecting unknown fields, and validates it.
func ParseDocument(data []byte) (*Document, error) {
	var doc Document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, errs.InvalidInput("ParseDocument: %v", err)
	}
	if err := validate.Struct(&doc); err != nil {
		return nil, errs.InvalidInput("ParseDocument: %v", err)
	}
	return &doc, nil
}

// Valuation is the document's evaluation date.
func (d *Document) Valuation() (market.Valuation, error) {
	eval, err := utils.ParseDate(d.EvaluationDate)
	if err != nil {
		return market.Valuation{}, errs.InvalidInput("evaluation_date: %v", err)
	}
	return market.NewValuation(eval), nil
}

// IndexSpec converts the index section.
func (d *Document) IndexSpec() (inflation.IndexSpec, error) {
	freq, err := market.ParseFrequency(d.Index.Frequency)
	if err != nil {
		return inflation.IndexSpec{}, errs.InvalidInput("index.frequency: %v", err)
	}
	lag, err := utils.ParsePeriod(d.Index.AvailabilityLag)
	if err != nil {
		return inflation.IndexSpec{}, errs.InvalidInput("index.availability_lag: %v", err)
	}
	return inflation.IndexSpec{
		Name:            d.Index.Name,
		Region:          d.Index.Region,
		Frequency:       freq,
		Interpolated:    d.Index.Interpolated,
		AvailabilityLag: lag,
	}, nil
}

// Feed serves the document's fixings under the index name.
func (d *Document) Feed() (*MapFeed, error) {
	series := make(map[string]float64, len(d.Fixings))
	for _, f := range d.Fixings {
		date, err := utils.ParseDate(f.Date)
		if err != nil {
			return nil, errs.InvalidInput("fixings: %v", err)
		}
		series[utils.FormatDate(date)] = f.Level
	}
	return NewMapFeed(map[string]map[string]float64{d.Index.Name: series}), nil
}

// DiscountCurve builds an interpolated curve when pillars are given and a
// flat curve otherwise, both anchored at the evaluation date.
func (d *Document) DiscountCurve() (discount.Curve, error) {
	val, err := d.Valuation()
	if err != nil {
		return nil, err
	}
	dc, err := market.ParseDayCount(d.Discount.DayCount)
	if err != nil {
		return nil, errs.InvalidInput("discount.day_count: %v", err)
	}
	if len(d.Discount.Pillars) > 0 {
		dfs := make(map[time.Time]float64, len(d.Discount.Pillars))
		for _, p := range d.Discount.Pillars {
			date, err := utils.ParseDate(p.Date)
			if err != nil {
				return nil, errs.InvalidInput("discount.pillars: %v", err)
			}
			dfs[date] = p.DF
		}
		return discount.NewInterpolatedCurve(val.EvaluationDate, dfs, dc)
	}
	rate, err := parseRate(d.Discount.Rate, dc, d.Discount.Compounding, d.Discount.Frequency)
	if err != nil {
		return nil, fmt.Errorf("discount: %w", err)
	}
	return discount.NewFlatForward(val.EvaluationDate, rate), nil
}

func parseRate(r float64, dc market.DayCount, compounding, frequency string) (market.InterestRate, error) {
	comp := market.Continuous
	if compounding != "" {
		c, err := market.ParseCompounding(compounding)
		if err != nil {
			return market.InterestRate{}, errs.InvalidInput("%v", err)
		}
		comp = c
	}
	freq := market.FreqAnnual
	if frequency != "" {
		f, err := market.ParseFrequency(frequency)
		if err != nil {
			return market.InterestRate{}, errs.InvalidInput("%v", err)
		}
		freq = f
	}
	return market.InterestRate{Rate: r, DayCount: dc, Compounding: comp, Frequency: freq}, nil
}

// CurveParams assembles the bootstrap parameters for disc.
func (d *Document) CurveParams(disc discount.Curve, solver config.BootstrapConfig) (inflation.CurveParams, error) {
	val, err := d.Valuation()
	if err != nil {
		return inflation.CurveParams{}, err
	}
	spec, err := d.IndexSpec()
	if err != nil {
		return inflation.CurveParams{}, err
	}
	lag, err := utils.ParsePeriod(d.Curve.ObservationLag)
	if err != nil {
		return inflation.CurveParams{}, errs.InvalidInput("curve.observation_lag: %v", err)
	}
	dc, err := market.ParseDayCount(d.Curve.DayCount)
	if err != nil {
		return inflation.CurveParams{}, errs.InvalidInput("curve.day_count: %v", err)
	}
	cal, err := calendar.ParseCalendarID(d.Curve.Calendar)
	if err != nil {
		return inflation.CurveParams{}, errs.InvalidInput("curve.calendar: %v", err)
	}
	conv, err := calendar.ParseConvention(d.Curve.Convention)
	if err != nil {
		return inflation.CurveParams{}, errs.InvalidInput("curve.convention: %v", err)
	}
	return inflation.CurveParams{
		EvaluationDate: val.EvaluationDate,
		Calendar:       cal,
		Convention:     conv,
		DayCount:       dc,
		ObservationLag: lag,
		Frequency:      spec.Frequency,
		Interpolated:   spec.Interpolated,
		BaseZeroRate:   d.Curve.BaseZeroRate,
		Discount:       disc,
		Solver:         solver,
	}, nil
}

// SwapQuotes returns the curve quotes in file order.
func (d *Document) SwapQuotes() ([]inflation.SwapQuote, error) {
	out := make([]inflation.SwapQuote, 0, len(d.Curve.Quotes))
	for _, q := range d.Curve.Quotes {
		m, err := utils.ParseDate(q.Maturity)
		if err != nil {
			return nil, errs.InvalidInput("curve.quotes: %v", err)
		}
		out = append(out, inflation.SwapQuote{Maturity: m, Rate: q.Rate})
	}
	return out, nil
}

var interpolations = map[string]inflation.Interpolation{
	"":         inflation.AsIndex,
	"as_index": inflation.AsIndex,
	"flat":     inflation.Flat,
	"linear":   inflation.Linear,
}

// Terms converts the bond section against index.
func (b BondDoc) Terms(index *inflation.Index) (bond.CPIBondTerms, error) {
	wrap := func(field string, err error) (bond.CPIBondTerms, error) {
		return bond.CPIBondTerms{}, errs.InvalidInput("bond %s: %s: %v", b.ID, field, err)
	}

	lag, err := utils.ParsePeriod(b.ObservationLag)
	if err != nil {
		return wrap("observation_lag", err)
	}
	effective, err := utils.ParseDate(b.Effective)
	if err != nil {
		return wrap("effective", err)
	}
	termination, err := utils.ParseDate(b.Termination)
	if err != nil {
		return wrap("termination", err)
	}
	tenor, err := utils.ParsePeriod(b.Tenor)
	if err != nil {
		return wrap("tenor", err)
	}
	months, ok := tenor.Months()
	if !ok {
		return wrap("tenor", fmt.Errorf("%s is not a whole number of months", tenor))
	}
	cal, err := calendar.ParseCalendarID(b.Calendar)
	if err != nil {
		return wrap("calendar", err)
	}
	conv, err := calendar.ParseConvention(b.Convention)
	if err != nil {
		return wrap("convention", err)
	}
	sched, err := schedule.Generate(schedule.Spec{
		Effective:   effective,
		Termination: termination,
		TenorMonths: months,
		Calendar:    cal,
		Convention:  conv,
		Rule:        schedule.Backward,
		EndOfMonth:  b.EndOfMonth,
	})
	if err != nil {
		return bond.CPIBondTerms{}, fmt.Errorf("bond %s: %w", b.ID, err)
	}

	terms := bond.CPIBondTerms{
		ID:             b.ID,
		SettlementDays: b.SettlementDays,
		Calendar:       cal,
		Notional:       b.Notional,
		GrowthOnly:     b.GrowthOnly,
		BaseCPI:        b.BaseCPI,
		ObservationLag: lag,
		Index:          index,
		Interpolation:  interpolations[b.Interpolation],
		Schedule:       sched,
		Rates:          b.Rates,
	}
	if b.DayCount != "" {
		if terms.DayCount, err = market.ParseDayCount(b.DayCount); err != nil {
			return wrap("day_count", err)
		}
	}
	if b.PaymentCalendar != "" {
		if terms.PaymentCalendar, err = calendar.ParseCalendarID(b.PaymentCalendar); err != nil {
			return wrap("payment_calendar", err)
		}
	}
	if terms.PaymentConvention, err = calendar.ParseConvention(b.PaymentConvention); err != nil {
		return wrap("payment_convention", err)
	}
	if b.ExCoupon != nil {
		ex, err := b.ExCoupon.filter(cal)
		if err != nil {
			return wrap("ex_coupon", err)
		}
		terms.ExCoupon = ex
	}
	return terms, nil
}

// Bond builds the CPI bond.
func (b BondDoc) Bond(index *inflation.Index) (*bond.CPIBond, error) {
	terms, err := b.Terms(index)
	if err != nil {
		return nil, err
	}
	return bond.NewCPIBond(terms)
}

func (e ExCouponDoc) filter(fallback calendar.CalendarID) (*bond.ExCouponFilter, error) {
	p, err := utils.ParsePeriod(e.Period)
	if err != nil {
		return nil, err
	}
	cal := fallback
	if e.Calendar != "" {
		if cal, err = calendar.ParseCalendarID(e.Calendar); err != nil {
			return nil, err
		}
	}
	conv, err := calendar.ParseConvention(e.Convention)
	if err != nil {
		return nil, err
	}
	return &bond.ExCouponFilter{Period: p, Calendar: cal, Convention: conv, Adjusted: e.Adjusted}, nil
}

// InterestRate converts the quoted yield.
func (y YieldDoc) InterestRate() (market.InterestRate, error) {
	dc, err := market.ParseDayCount(y.DayCount)
	if err != nil {
		return market.InterestRate{}, errs.InvalidInput("yield.day_count: %v", err)
	}
	return parseRate(y.Rate, dc, y.Compounding, y.Frequency)
}
