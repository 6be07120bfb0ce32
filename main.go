package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/meenmo/cpilib/bond"
	"github.com/meenmo/cpilib/calendar"
	"github.com/meenmo/cpilib/discount"
	"github.com/meenmo/cpilib/inflation"
	"github.com/meenmo/cpilib/market"
	"github.com/meenmo/cpilib/marketdata"
	"github.com/meenmo/cpilib/schedule"
	"github.com/meenmo/cpilib/utils"
)

func main() {
	if err := run(context.Background()); err != nil {
		slog.Error("uk cpi bond", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	eval := utils.Date(2009, 11, 25)
	val := market.NewValuation(eval)

	quotes := []inflation.SwapQuote{
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

	flat := market.InterestRate{Rate: 0.05, DayCount: market.ActActISDA, Compounding: market.Continuous, Frequency: market.FreqAnnual}
	disc := discount.NewFlatForward(eval, flat)

	index, err := inflation.NewIndex(marketdata.UKRPISpec, nil, nil)
	if err != nil {
		return err
	}
	if _, err := marketdata.Load(ctx, marketdata.DefaultFeed(), index); err != nil {
		return err
	}

	curve, err := inflation.BuildZeroCurve(inflation.CurveParams{
		EvaluationDate: eval,
		Calendar:       calendar.GBP,
		Convention:     calendar.ModifiedFollowing,
		DayCount:       market.ActActISDA,
		ObservationLag: utils.MustPeriod("2M"),
		Frequency:      market.FreqMonthly,
		BaseZeroRate:   quotes[0].Rate,
		Discount:       disc,
	}, index, quotes)
	if err != nil {
		return err
	}
	index.Handle().LinkTo(curve)

	sched, err := schedule.Generate(schedule.Spec{
		Effective:   utils.Date(2007, 10, 2),
		Termination: utils.Date(2052, 10, 2),
		TenorMonths: 6,
		Calendar:    calendar.GBP,
		Convention:  calendar.Unadjusted,
		Rule:        schedule.Backward,
	})
	if err != nil {
		return err
	}
	b, err := bond.NewCPIBond(bond.CPIBondTerms{
		ID:                "UK-CPI-2052",
		SettlementDays:    3,
		Notional:          1_000_000,
		GrowthOnly:        true,
		BaseCPI:           206.1,
		ObservationLag:    utils.MustPeriod("3M"),
		Index:             index,
		Interpolation:     inflation.Flat,
		Schedule:          sched,
		Rates:             []float64{0.1},
		DayCount:          market.Act365F,
		PaymentCalendar:   calendar.GBP,
		PaymentConvention: calendar.ModifiedFollowing,
	})
	if err != nil {
		return err
	}

	q, err := b.Price(val, bond.NewDiscountingEngine(disc))
	if err != nil {
		return err
	}
	settlement := b.SettlementDate(val)
	dur, err := bond.Duration(val, b, flat, settlement)
	if err != nil {
		return err
	}

	fmt.Printf("Curve base: %s\n", utils.FormatDate(curve.BaseDate()))
	fmt.Printf("Clean price: %.8f\n", q.Clean)
	fmt.Printf("Dirty price: %.8f\n", q.Dirty)
	fmt.Printf("Accrued: %.8f\n", q.Accrued)
	fmt.Printf("Modified duration: %.4f\n", dur)
	return nil
}
