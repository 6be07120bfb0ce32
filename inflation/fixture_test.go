package inflation_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/meenmo/cpilib/calendar"
	"github.com/meenmo/cpilib/discount"
	"github.com/meenmo/cpilib/inflation"
	"github.com/meenmo/cpilib/market"
	"github.com/meenmo/cpilib/marketdata"
	"github.com/meenmo/cpilib/utils"
)

var ukEvaluationDate = utils.Date(2009, 11, 25)

// ukQuotes are zero-coupon RPI swap rates on 25 Nov 2009.
var ukQuotes = []inflation.SwapQuote{
	{Maturity: utils.Date(2010, 11, 25), Rate: 0.030495},
	{Maturity: utils.Date(2011, 11, 25), Rate: 0.0293},
	{Maturity: utils.Date(2012, 11, 26), Rate: 0.029795},
	{Maturity: utils.Date(2013, 11, 25), Rate: 0.03029},
	{Maturity: utils.Date(2014, 11, 25), Rate: 0.031425},
	{Maturity: utils.Date(2015, 11, 25), Rate: 0.03211},
	{Maturity: utils.Date(2016, 11, 25), Rate: 0.032675},
	{Maturity: utils.Date(2017, 11, 25), Rate: 0.033625},
	{Maturity: utils.Date(2018, 11, 25), Rate: 0.03405},
	{Maturity: utils.Date(2019, 11, 25), Rate: 0.0348},
	{Maturity: utils.Date(2021, 11, 25), Rate: 0.03576},
	{Maturity: utils.Date(2024, 11, 25), Rate: 0.03649},
	{Maturity: utils.Date(2029, 11, 26), Rate: 0.03751},
	{Maturity: utils.Date(2034, 11, 27), Rate: 0.0377225},
	{Maturity: utils.Date(2039, 11, 25), Rate: 0.0377},
	{Maturity: utils.Date(2049, 11, 25), Rate: 0.03734},
	{Maturity: utils.Date(2059, 11, 25), Rate: 0.03714},
}

func ukValuation() market.Valuation {
	return market.NewValuation(ukEvaluationDate)
}

func ukDiscount() discount.Curve {
	return discount.NewFlatForward(ukEvaluationDate, market.InterestRate{
		Rate: 0.05, DayCount: market.ActActISDA, Compounding: market.Continuous, Frequency: market.FreqAnnual,
	})
}

func ukParams() inflation.CurveParams {
	return inflation.CurveParams{
		EvaluationDate: ukEvaluationDate,
		Calendar:       calendar.GBP,
		Convention:     calendar.ModifiedFollowing,
		DayCount:       market.ActActISDA,
		ObservationLag: utils.MustPeriod("2M"),
		Frequency:      market.FreqMonthly,
		Interpolated:   false,
		BaseZeroRate:   0.030495,
		Discount:       ukDiscount(),
	}
}

// ukIndex returns a UKRPI index loaded with the bundled fixings and no curve.
func ukIndex(t *testing.T) *inflation.Index {
	t.Helper()
	idx, err := inflation.NewIndex(marketdata.UKRPISpec, nil, nil)
	require.NoError(t, err)
	fixings, err := marketdata.DefaultFeed().Fixings(t.Context(), "UKRPI")
	require.NoError(t, err)
	n, err := marketdata.AddAll(idx, fixings)
	require.NoError(t, err)
	require.Equal(t, 27, n)
	return idx
}

// ukCurve bootstraps the UK curve and links it to a fresh index.
func ukCurve(t *testing.T) (*inflation.Index, *inflation.ZeroCurve) {
	t.Helper()
	idx := ukIndex(t)
	curve, err := inflation.BuildZeroCurve(ukParams(), idx, ukQuotes)
	require.NoError(t, err)
	idx.Handle().LinkTo(curve)
	return idx, curve
}
