package market_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meenmo/cpilib/market"
)

func TestParseFrequency(t *testing.T) {
	t.Parallel()

	f, err := market.ParseFrequency("Semiannual")
	require.NoError(t, err)
	assert.Equal(t, market.FreqSemi, f)
	assert.Equal(t, 2, f.PerYear())

	f, err = market.ParseFrequency("1M")
	require.NoError(t, err)
	assert.Equal(t, market.FreqMonthly, f)

	_, err = market.ParseFrequency("weekly")
	assert.Error(t, err)
}

func TestParseDayCountKeepsThirty360Distinct(t *testing.T) {
	t.Parallel()

	us, err := market.ParseDayCount("30/360")
	require.NoError(t, err)
	euro, err := market.ParseDayCount("30e/360")
	require.NoError(t, err)
	assert.Equal(t, market.Dc30360, us)
	assert.Equal(t, market.Dc30E360, euro)
	assert.NotEqual(t, us, euro)
}

func TestInterestRateCompounding(t *testing.T) {
	t.Parallel()

	cont := market.InterestRate{Rate: 0.05, DayCount: market.ActActISDA, Compounding: market.Continuous, Frequency: market.FreqAnnual}
	assert.InDelta(t, math.Exp(-0.1), cont.DiscountFactor(2), 1e-15)
	assert.InDelta(t, -2.0, cont.DLogDiscount(2), 1e-15)

	semi := market.InterestRate{Rate: 0.04, DayCount: market.ActActICMA, Compounding: market.Compounded, Frequency: market.FreqSemi}
	assert.InDelta(t, math.Pow(1.02, -4), semi.DiscountFactor(2), 1e-15)

	simple := market.InterestRate{Rate: 0.04, Compounding: market.Simple, Frequency: market.FreqAnnual}
	assert.InDelta(t, 1/1.02, simple.DiscountFactor(0.5), 1e-15)

	stc := market.InterestRate{Rate: 0.04, Compounding: market.SimpleThenCompounded, Frequency: market.FreqSemi}
	assert.InDelta(t, 1/(1+0.04*0.25), stc.DiscountFactor(0.25), 1e-15)
	assert.InDelta(t, math.Pow(1.02, -2), stc.DiscountFactor(1), 1e-15)
}

func TestDLogDiscountMatchesFiniteDifference(t *testing.T) {
	t.Parallel()

	const h = 1e-7
	for _, c := range []market.Compounding{market.Simple, market.Compounded, market.Continuous} {
		r := market.InterestRate{Rate: 0.03, Compounding: c, Frequency: market.FreqSemi}
		up := math.Log(r.WithRate(0.03 + h).DiscountFactor(3.2))
		dn := math.Log(r.WithRate(0.03 - h).DiscountFactor(3.2))
		assert.InDelta(t, (up-dn)/(2*h), r.DLogDiscount(3.2), 1e-6, string(c))
	}
}
