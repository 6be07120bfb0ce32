// Package marketdata supplies index fixings and market documents to the
// curve and bond engines.
package marketdata

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/meenmo/cpilib/errs"
	"github.com/meenmo/cpilib/inflation"
	"github.com/meenmo/cpilib/utils"
)

// Fixing is one published index level.
type Fixing struct {
	Date  time.Time
	Level float64
}

// FixingFeed supplies the published levels of an index in date order.
type FixingFeed interface {
	Fixings(ctx context.Context, index string) ([]Fixing, error)
}

// MapFeed is a static feed keyed by index name then ISO date.
type MapFeed struct {
	levels map[string]map[string]float64
}

// NewMapFeed wraps levels without copying.
func NewMapFeed(levels map[string]map[string]float64) *MapFeed {
	return &MapFeed{levels: levels}
}

// DefaultFeed serves the bundled series.
func DefaultFeed() *MapFeed {
	return NewMapFeed(map[string]map[string]float64{"UKRPI": UKRPIFixings})
}

func (m *MapFeed) Fixings(_ context.Context, index string) ([]Fixing, error) {
	series, ok := m.levels[index]
	if !ok {
		return nil, fmt.Errorf("MapFeed: unknown index %q", index)
	}
	out := make([]Fixing, 0, len(series))
	for k, v := range series {
		d, err := utils.ParseDate(k)
		if err != nil {
			return nil, fmt.Errorf("MapFeed: %s: %w", index, err)
		}
		out = append(out, Fixing{Date: d, Level: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

// LevelOn is a convenience lookup when a feed is not wired.
func (m *MapFeed) LevelOn(index string, date time.Time) (float64, bool) {
	v, ok := m.levels[index][utils.FormatDate(date)]
	return v, ok
}

// Load adds every fixing the feed has for the index's name.
func Load(ctx context.Context, feed FixingFeed, index *inflation.Index) (int, error) {
	fixings, err := feed.Fixings(ctx, index.Name())
	if err != nil {
		return 0, err
	}
	return AddAll(index, fixings)
}

// LoadAll merges the index's series from every feed and adds the result in
// date order, so one feed may fill months that precede another's last fixing.
func LoadAll(ctx context.Context, index *inflation.Index, feeds ...FixingFeed) (int, error) {
	series := make([][]Fixing, 0, len(feeds))
	for _, feed := range feeds {
		fixings, err := feed.Fixings(ctx, index.Name())
		if err != nil {
			return 0, err
		}
		series = append(series, fixings)
	}
	merged, err := Merge(series...)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", index.Name(), err)
	}
	return AddAll(index, merged)
}

// Merge unions several series by date. The same date with different levels
// is a conflict.
func Merge(series ...[]Fixing) ([]Fixing, error) {
	byDate := make(map[time.Time]float64)
	for _, fixings := range series {
		for _, f := range fixings {
			if prev, ok := byDate[f.Date]; ok && !sameLevel(prev, f.Level) {
				return nil, fmt.Errorf("%w: %s has levels %g and %g",
					errs.ErrFixingInconsistency, utils.FormatDate(f.Date), prev, f.Level)
			}
			byDate[f.Date] = f.Level
		}
	}
	out := make([]Fixing, 0, len(byDate))
	for d, v := range byDate {
		out = append(out, Fixing{Date: d, Level: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func sameLevel(a, b float64) bool {
	return math.Abs(a-b) <= 1e-12*math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
}

// AddAll adds fixings in order and stops at the first rejected one.
func AddAll(index *inflation.Index, fixings []Fixing) (int, error) {
	for i, f := range fixings {
		if err := index.AddFixing(f.Date, f.Level); err != nil {
			return i, err
		}
	}
	return len(fixings), nil
}
