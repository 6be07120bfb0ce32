package marketdata_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meenmo/cpilib/errs"
	"github.com/meenmo/cpilib/inflation"
	"github.com/meenmo/cpilib/marketdata"
	"github.com/meenmo/cpilib/utils"
)

func TestDefaultFeed(t *testing.T) {
	t.Parallel()

	feed := marketdata.DefaultFeed()
	fixings, err := feed.Fixings(t.Context(), "UKRPI")
	require.NoError(t, err)
	require.Len(t, fixings, 27)
	assert.Equal(t, utils.Date(2007, 7, 1), fixings[0].Date)
	assert.Equal(t, marketdata.Fixing{Date: utils.Date(2009, 9, 1), Level: 214.4}, fixings[26])
	for i := 1; i < len(fixings); i++ {
		assert.True(t, fixings[i].Date.After(fixings[i-1].Date))
	}

	level, ok := feed.LevelOn("UKRPI", utils.Date(2008, 9, 1))
	assert.True(t, ok)
	assert.Equal(t, 218.4, level)
	_, ok = feed.LevelOn("UKRPI", utils.Date(2010, 1, 1))
	assert.False(t, ok)

	_, err = feed.Fixings(t.Context(), "HICPxT")
	assert.Error(t, err)
}

func TestLoadIntoIndex(t *testing.T) {
	t.Parallel()

	idx, err := inflation.NewIndex(marketdata.UKRPISpec, nil, nil)
	require.NoError(t, err)
	n, err := marketdata.Load(t.Context(), marketdata.DefaultFeed(), idx)
	require.NoError(t, err)
	assert.Equal(t, 27, n)

	// reloading the same series is a no-op
	n, err = marketdata.Load(t.Context(), marketdata.DefaultFeed(), idx)
	require.NoError(t, err)
	assert.Equal(t, 27, n)
	assert.Equal(t, 27, idx.History().Len())

	revised := marketdata.NewMapFeed(map[string]map[string]float64{
		"UKRPI": {"2009-09-01": 215.0},
	})
	n, err = marketdata.Load(t.Context(), revised, idx)
	assert.True(t, errors.Is(err, errs.ErrFixingInconsistency), err)
	assert.Equal(t, 0, n)
}

func TestAddAllStopsAtFirstRejection(t *testing.T) {
	t.Parallel()

	idx, err := inflation.NewIndex(marketdata.UKRPISpec, nil, nil)
	require.NoError(t, err)
	n, err := marketdata.AddAll(idx, []marketdata.Fixing{
		{Date: utils.Date(2009, 1, 1), Level: 210.1},
		{Date: utils.Date(2009, 2, 1), Level: -1},
		{Date: utils.Date(2009, 3, 1), Level: 211.3},
	})
	assert.True(t, errors.Is(err, errs.ErrInvalidInput), err)
	assert.Equal(t, 1, n)
	assert.Equal(t, 1, idx.History().Len())
}

func TestLoadAllMergesFeeds(t *testing.T) {
	t.Parallel()

	// the second feed holds a month before the first feed's series starts
	earlier := marketdata.NewMapFeed(map[string]map[string]float64{
		"UKRPI": {"2007-06-01": 206.6, "2009-09-01": 214.4},
	})
	idx, err := inflation.NewIndex(marketdata.UKRPISpec, nil, nil)
	require.NoError(t, err)
	n, err := marketdata.LoadAll(t.Context(), idx, marketdata.DefaultFeed(), earlier)
	require.NoError(t, err)
	assert.Equal(t, 28, n)
	assert.Equal(t, 28, idx.History().Len())

	// sequential loads reject the same data because the second series starts earlier
	seq, err := inflation.NewIndex(marketdata.UKRPISpec, nil, nil)
	require.NoError(t, err)
	_, err = marketdata.Load(t.Context(), marketdata.DefaultFeed(), seq)
	require.NoError(t, err)
	_, err = marketdata.Load(t.Context(), earlier, seq)
	assert.True(t, errors.Is(err, errs.ErrInvalidInput), err)

	conflicting := marketdata.NewMapFeed(map[string]map[string]float64{
		"UKRPI": {"2009-09-01": 215.0},
	})
	fresh, err := inflation.NewIndex(marketdata.UKRPISpec, nil, nil)
	require.NoError(t, err)
	_, err = marketdata.LoadAll(t.Context(), fresh, marketdata.DefaultFeed(), conflicting)
	assert.True(t, errors.Is(err, errs.ErrFixingInconsistency), err)
	assert.Equal(t, 0, fresh.History().Len())
}

func TestMerge(t *testing.T) {
	t.Parallel()

	a := []marketdata.Fixing{
		{Date: utils.Date(2020, 2, 1), Level: 101},
		{Date: utils.Date(2020, 3, 1), Level: 102},
	}
	b := []marketdata.Fixing{
		{Date: utils.Date(2020, 3, 1), Level: 102},
		{Date: utils.Date(2020, 1, 1), Level: 100},
	}
	merged, err := marketdata.Merge(a, b)
	require.NoError(t, err)
	assert.Equal(t, []marketdata.Fixing{
		{Date: utils.Date(2020, 1, 1), Level: 100},
		{Date: utils.Date(2020, 2, 1), Level: 101},
		{Date: utils.Date(2020, 3, 1), Level: 102},
	}, merged)

	_, err = marketdata.Merge(a, []marketdata.Fixing{{Date: utils.Date(2020, 2, 1), Level: 101.5}})
	assert.True(t, errors.Is(err, errs.ErrFixingInconsistency), err)
}
