package schedule_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meenmo/cpilib/calendar"
	"github.com/meenmo/cpilib/errs"
	"github.com/meenmo/cpilib/schedule"
	"github.com/meenmo/cpilib/utils"
)

func TestBackwardRegular(t *testing.T) {
	t.Parallel()

	s, err := schedule.Generate(schedule.Spec{
		Effective:   utils.Date(2007, 10, 2),
		Termination: utils.Date(2052, 4, 2),
		TenorMonths: 6,
		Calendar:    calendar.GBP,
		Convention:  calendar.Unadjusted,
		Rule:        schedule.Backward,
	})
	require.NoError(t, err)
	require.Equal(t, 89, s.Len())
	assert.Equal(t, utils.Date(2008, 4, 2), s.Dates[1])
	assert.Equal(t, utils.Date(2010, 4, 2), s.Dates[5]) // Good Friday, left unadjusted
	for i, r := range s.Regular {
		assert.True(t, r, "period %d", i)
	}
}

func TestBackwardFrontStubEndOfMonth(t *testing.T) {
	t.Parallel()

	s, err := schedule.Generate(schedule.Spec{
		Effective:   utils.Date(2010, 6, 9),
		Termination: utils.Date(2017, 1, 31),
		TenorMonths: 6,
		Calendar:    calendar.ZAR,
		Convention:  calendar.Unadjusted,
		Rule:        schedule.Backward,
		EndOfMonth:  true,
	})
	require.NoError(t, err)
	assert.Equal(t, utils.Date(2010, 6, 9), s.Dates[0])
	assert.Equal(t, utils.Date(2010, 7, 31), s.Dates[1])
	assert.Equal(t, utils.Date(2011, 1, 31), s.Dates[2])
	assert.False(t, s.Regular[0])
	assert.True(t, s.Regular[1])

	refStart, refEnd := s.ReferencePeriod(0)
	assert.Equal(t, utils.Date(2010, 1, 31), refStart)
	assert.Equal(t, utils.Date(2010, 7, 31), refEnd)
}

func TestForwardBackStub(t *testing.T) {
	t.Parallel()

	s, err := schedule.Generate(schedule.Spec{
		Effective:   utils.Date(2020, 1, 15),
		Termination: utils.Date(2021, 3, 15),
		TenorMonths: 6,
		Calendar:    calendar.NULL,
		Rule:        schedule.Forward,
	})
	require.NoError(t, err)
	assert.Equal(t, []time.Time{
		utils.Date(2020, 1, 15), utils.Date(2020, 7, 15), utils.Date(2021, 1, 15), utils.Date(2021, 3, 15),
	}, s.Dates)
	assert.Equal(t, []bool{true, true, false}, s.Regular)

	refStart, refEnd := s.ReferencePeriod(2)
	assert.Equal(t, utils.Date(2021, 1, 15), refStart)
	assert.Equal(t, utils.Date(2021, 7, 15), refEnd)
}

func TestAdjustedDates(t *testing.T) {
	t.Parallel()

	s, err := schedule.Generate(schedule.Spec{
		Effective:   utils.Date(2009, 10, 2),
		Termination: utils.Date(2011, 4, 2),
		TenorMonths: 6,
		Calendar:    calendar.GBP,
		Convention:  calendar.ModifiedFollowing,
	})
	require.NoError(t, err)
	assert.Equal(t, utils.Date(2010, 4, 6), s.Dates[1])
	assert.Equal(t, utils.Date(2011, 4, 4), s.Dates[3]) // 2 Apr 2011 is a Saturday
}

func TestInvalidInputs(t *testing.T) {
	t.Parallel()

	_, err := schedule.Generate(schedule.Spec{Effective: utils.Date(2020, 1, 1), Termination: utils.Date(2019, 1, 1), TenorMonths: 6})
	assert.True(t, errors.Is(err, errs.ErrInvalidInput))

	_, err = schedule.Generate(schedule.Spec{Effective: utils.Date(2019, 1, 1), Termination: utils.Date(2020, 1, 1)})
	assert.True(t, errors.Is(err, errs.ErrInvalidInput))

	_, err = schedule.FromDates([]time.Time{utils.Date(2020, 1, 1), utils.Date(2019, 1, 1)}, 6, calendar.NULL, calendar.Unadjusted)
	assert.True(t, errors.Is(err, errs.ErrInvalidInput))
}

func TestFromDates(t *testing.T) {
	t.Parallel()

	s, err := schedule.FromDates([]time.Time{
		utils.Date(2020, 3, 1), utils.Date(2020, 7, 31), utils.Date(2021, 1, 31),
	}, 6, calendar.NULL, calendar.Unadjusted)
	require.NoError(t, err)
	assert.Equal(t, 2, s.Len())
	assert.Equal(t, []bool{false, true}, s.Regular)
}
