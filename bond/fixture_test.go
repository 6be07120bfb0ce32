package bond_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/meenmo/cpilib/bond"
	"github.com/meenmo/cpilib/calendar"
	"github.com/meenmo/cpilib/discount"
	"github.com/meenmo/cpilib/inflation"
	"github.com/meenmo/cpilib/market"
	"github.com/meenmo/cpilib/marketdata"
	"github.com/meenmo/cpilib/schedule"
	"github.com/meenmo/cpilib/utils"
)

var ukEvaluationDate = utils.Date(2009, 11, 25)

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

func ukDiscount() discount.Curve {
	return discount.NewFlatForward(ukEvaluationDate, market.InterestRate{
		Rate: 0.05, DayCount: market.ActActISDA, Compounding: market.Continuous, Frequency: market.FreqAnnual,
	})
}

// ukIndex is UKRPI with the bundled fixings and a bootstrapped curve linked.
func ukIndex(t *testing.T) *inflation.Index {
	t.Helper()
	idx, err := inflation.NewIndex(marketdata.UKRPISpec, nil, nil)
	require.NoError(t, err)
	_, err = marketdata.Load(t.Context(), marketdata.DefaultFeed(), idx)
	require.NoError(t, err)

	params := inflation.CurveParams{
		EvaluationDate: ukEvaluationDate,
		Calendar:       calendar.GBP,
		Convention:     calendar.ModifiedFollowing,
		DayCount:       market.ActActISDA,
		ObservationLag: utils.MustPeriod("2M"),
		Frequency:      market.FreqMonthly,
		BaseZeroRate:   0.030495,
		Discount:       ukDiscount(),
	}
	curve, err := inflation.BuildZeroCurve(params, idx, ukQuotes)
	require.NoError(t, err)
	idx.Handle().LinkTo(curve)
	return idx
}

func ukTerms(t *testing.T, idx *inflation.Index) bond.CPIBondTerms {
	t.Helper()
	sched, err := schedule.Generate(schedule.Spec{
		Effective:   utils.Date(2007, 10, 2),
		Termination: utils.Date(2052, 10, 2),
		TenorMonths: 6,
		Calendar:    calendar.GBP,
		Convention:  calendar.Unadjusted,
		Rule:        schedule.Backward,
	})
	require.NoError(t, err)
	return bond.CPIBondTerms{
		ID:                "UK-CPI-2052",
		SettlementDays:    3,
		Notional:          1_000_000,
		GrowthOnly:        true,
		BaseCPI:           206.1,
		ObservationLag:    utils.MustPeriod("3M"),
		Index:             idx,
		Interpolation:     inflation.Flat,
		Schedule:          sched,
		Rates:             []float64{0.1},
		DayCount:          market.Act365F,
		PaymentCalendar:   calendar.GBP,
		PaymentConvention: calendar.ModifiedFollowing,
	}
}

// The South African case runs on R211 terms against a synthetic CPI: every
// published level is 100 and the curve projects at a flat zero rate, so index
// ratios are known in closed form. The published R211 dirty price of
// 134.22128 (within 2e-5) on this settlement date needs the real SA CPI
// history, which is not bundled, so no test asserts it.

var (
	zaEvaluationDate = utils.Date(2015, 7, 28)
	zaSettlement     = utils.Date(2015, 7, 31)
)

var zaSpec = inflation.IndexSpec{
	Name:            "ZACPI",
	Region:          "South Africa",
	Frequency:       market.FreqMonthly,
	AvailabilityLag: utils.MustPeriod("1M"),
}

func zaValuation() market.Valuation {
	return market.NewValuation(zaEvaluationDate)
}

// zaIndex links a single-node curve at zeroRate to a flat history.
func zaIndex(t *testing.T, zeroRate float64) *inflation.Index {
	t.Helper()
	idx, err := inflation.NewIndex(zaSpec, nil, nil)
	require.NoError(t, err)
	for m := time.January; m <= time.June; m++ {
		require.NoError(t, idx.AddFixing(utils.Date(2015, m, 1), 100))
	}
	curve, err := inflation.NewZeroCurve(inflation.CurveSpec{
		ReferenceDate:  zaEvaluationDate,
		ObservationLag: utils.MustPeriod("3M"),
		Frequency:      market.FreqMonthly,
		DayCount:       market.ActActISDA,
		BaseZeroRate:   zeroRate,
	}, nil)
	require.NoError(t, err)
	idx.Handle().LinkTo(curve)
	return idx
}

func r211Terms(t *testing.T, idx *inflation.Index) bond.CPIBondTerms {
	t.Helper()
	sched, err := schedule.Generate(schedule.Spec{
		Effective:   utils.Date(2010, 6, 9),
		Termination: utils.Date(2017, 1, 31),
		TenorMonths: 6,
		Calendar:    calendar.ZAR,
		Convention:  calendar.Unadjusted,
		Rule:        schedule.Backward,
		EndOfMonth:  true,
	})
	require.NoError(t, err)
	return bond.CPIBondTerms{
		ID:                "R211",
		SettlementDays:    3,
		Notional:          100,
		BaseCPI:           100,
		ObservationLag:    utils.MustPeriod("3M"),
		Index:             idx,
		Interpolation:     inflation.Flat,
		Schedule:          sched,
		Rates:             []float64{0.025},
		DayCount:          market.ActActICMA,
		PaymentConvention: calendar.Unadjusted,
	}
}

func r211(t *testing.T, zeroRate float64) *bond.CPIBond {
	t.Helper()
	b, err := bond.NewCPIBond(r211Terms(t, zaIndex(t, zeroRate)))
	require.NoError(t, err)
	return b
}

func semiAnnual(rate float64) market.InterestRate {
	return market.InterestRate{
		Rate: rate, DayCount: market.ActActICMA, Compounding: market.Compounded, Frequency: market.FreqSemi,
	}
}

// zeroDiscount has every discount factor equal to one.
func zeroDiscount() discount.Curve {
	return discount.NewFlatForward(zaEvaluationDate, market.InterestRate{
		DayCount: market.ActActISDA, Compounding: market.Continuous, Frequency: market.FreqAnnual,
	})
}
