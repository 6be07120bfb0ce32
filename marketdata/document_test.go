package marketdata_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meenmo/cpilib/bond"
	"github.com/meenmo/cpilib/calendar"
	"github.com/meenmo/cpilib/config"
	"github.com/meenmo/cpilib/errs"
	"github.com/meenmo/cpilib/inflation"
	"github.com/meenmo/cpilib/market"
	"github.com/meenmo/cpilib/marketdata"
	"github.com/meenmo/cpilib/utils"
)

func TestLoadDocumentPricesUKBond(t *testing.T) {
	t.Parallel()

	doc, err := marketdata.LoadDocument("testdata/uk.yaml")
	require.NoError(t, err)

	val, err := doc.Valuation()
	require.NoError(t, err)
	assert.Equal(t, utils.Date(2009, 11, 25), val.EvaluationDate)

	spec, err := doc.IndexSpec()
	require.NoError(t, err)
	assert.Equal(t, marketdata.UKRPISpec, spec)

	idx, err := inflation.NewIndex(spec, nil, nil)
	require.NoError(t, err)
	feed, err := doc.Feed()
	require.NoError(t, err)
	n, err := marketdata.Load(t.Context(), feed, idx)
	require.NoError(t, err)
	assert.Equal(t, 27, n)

	disc, err := doc.DiscountCurve()
	require.NoError(t, err)
	params, err := doc.CurveParams(disc, config.Default().Bootstrap)
	require.NoError(t, err)
	assert.Equal(t, calendar.GBP, params.Calendar)
	assert.Equal(t, utils.MustPeriod("2M"), params.ObservationLag)

	quotes, err := doc.SwapQuotes()
	require.NoError(t, err)
	require.Len(t, quotes, 17)

	curve, err := inflation.BuildZeroCurve(params, idx, quotes)
	require.NoError(t, err)
	idx.Handle().LinkTo(curve)

	require.Len(t, doc.Bonds, 1)
	b, err := doc.Bonds[0].Bond(idx)
	require.NoError(t, err)
	clean, err := b.CleanPrice(val, bond.NewDiscountingEngine(disc))
	require.NoError(t, err)
	assert.InDelta(t, 383.01816406, clean, 1e-8)
}

const minimalDoc = `
evaluation_date: 2015-07-28
index: {name: ZACPI, frequency: monthly, availability_lag: 1M}
fixings:
  - {date: 2015-04-01, level: 100}
discount:
  day_count: ACT/ACT
  pillars:
    - {date: 2016-07-28, df: 0.94}
    - {date: 2018-07-30, df: 0.85}
curve:
  observation_lag: 3M
  day_count: ACT/ACT
  quotes:
    - {maturity: 2016-07-28, rate: 0.05}
bonds:
  - id: R211
    settlement_days: 3
    notional: 100
    base_cpi: 100
    observation_lag: 3M
    effective: 2010-06-09
    termination: 2017-01-31
    tenor: 6M
    calendar: SA
    end_of_month: true
    rates: [0.025]
    day_count: ACT/ACT ICMA
    ex_coupon: {period: 10D, adjusted: true, convention: preceding}
    yield: {rate: 0.00825, day_count: ACT/ACT ICMA, compounding: compounded, frequency: semiannual}
`

func TestParseDocumentConversions(t *testing.T) {
	t.Parallel()

	doc, err := marketdata.ParseDocument([]byte(minimalDoc))
	require.NoError(t, err)

	disc, err := doc.DiscountCurve()
	require.NoError(t, err)
	assert.InDelta(t, 0.94, disc.DF(utils.Date(2016, 7, 28)), 1e-15)

	idx, err := inflation.NewIndex(inflation.IndexSpec{Name: "ZACPI", Frequency: market.FreqMonthly}, nil, nil)
	require.NoError(t, err)
	terms, err := doc.Bonds[0].Terms(idx)
	require.NoError(t, err)
	assert.Equal(t, calendar.ZAR, terms.Calendar)
	assert.Equal(t, inflation.AsIndex, terms.Interpolation)
	assert.Equal(t, market.ActActICMA, terms.DayCount)
	assert.Equal(t, utils.Date(2017, 1, 31), terms.Schedule.Dates[len(terms.Schedule.Dates)-1])
	require.NotNil(t, terms.ExCoupon)
	assert.Equal(t, calendar.ZAR, terms.ExCoupon.Calendar)
	assert.Equal(t, utils.Date(2015, 7, 17), terms.ExCoupon.RecordDate(utils.Date(2015, 7, 31)))

	y, err := doc.Bonds[0].Yield.InterestRate()
	require.NoError(t, err)
	assert.Equal(t, market.InterestRate{
		Rate: 0.00825, DayCount: market.ActActICMA, Compounding: market.Compounded, Frequency: market.FreqSemi,
	}, y)
}

func TestParseDocumentRejects(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"unknown field":  strings.Replace(minimalDoc, "base_cpi: 100", "base_cpi: 100\n    coupon: 2.5", 1),
		"missing quotes": strings.Replace(minimalDoc, "    - {maturity: 2016-07-28, rate: 0.05}\n", "", 1),
		"bad date":       strings.Replace(minimalDoc, "2015-07-28", "28/07/2015", 1),
		"zero level":     strings.Replace(minimalDoc, "level: 100", "level: 0", 1),
		"interpolation":  strings.Replace(minimalDoc, "base_cpi: 100", "base_cpi: 100\n    interpolation: cubic", 1),
		"no bond id":     strings.Replace(minimalDoc, "id: R211", "id: \"\"", 1),
		"not yaml":       "evaluation_date: [",
	}
	for name, src := range cases {
		_, err := marketdata.ParseDocument([]byte(src))
		assert.True(t, errors.Is(err, errs.ErrInvalidInput), "%s: %v", name, err)
	}
}

func TestBondDocRejectsBadConventions(t *testing.T) {
	t.Parallel()

	doc, err := marketdata.ParseDocument([]byte(minimalDoc))
	require.NoError(t, err)
	idx, err := inflation.NewIndex(inflation.IndexSpec{Name: "ZACPI", Frequency: market.FreqMonthly}, nil, nil)
	require.NoError(t, err)

	mutations := map[string]func(*marketdata.BondDoc){
		"tenor in days": func(b *marketdata.BondDoc) { b.Tenor = "10D" },
		"calendar":      func(b *marketdata.BondDoc) { b.Calendar = "Atlantis" },
		"day count":     func(b *marketdata.BondDoc) { b.DayCount = "ACT/999" },
		"lag":           func(b *marketdata.BondDoc) { b.ObservationLag = "three months" },
	}
	for name, mutate := range mutations {
		b := doc.Bonds[0]
		mutate(&b)
		_, err := b.Terms(idx)
		assert.True(t, errors.Is(err, errs.ErrInvalidInput), "%s: %v", name, err)
	}
}
