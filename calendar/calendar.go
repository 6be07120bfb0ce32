package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/meenmo/cpilib/utils"
)

// CalendarID identifies a holiday calendar.
type CalendarID string

const (
	// NULL treats every day, weekends included, as a business day. Inflation
	// fixing dates live on it.
	NULL   CalendarID = "NULL"
	GBP    CalendarID = "GBP"
	ZAR    CalendarID = "ZAR"
	TARGET CalendarID = "TARGET"
)

// ParseCalendarID accepts a calendar name or a common alias ("UK", "SA").
func ParseCalendarID(s string) (CalendarID, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "NULL", "":
		return NULL, nil
	case "GBP", "UK", "GB", "UNITEDKINGDOM":
		return GBP, nil
	case "ZAR", "SA", "ZA", "SOUTHAFRICA":
		return ZAR, nil
	case "TARGET", "EUR":
		return TARGET, nil
	default:
		return "", fmt.Errorf("ParseCalendarID: unknown calendar %q", s)
	}
}

func isHoliday(cal CalendarID, t time.Time) bool {
	switch cal {
	case GBP:
		return isUKHoliday(t)
	case ZAR:
		return isZAHoliday(t)
	case TARGET:
		return isTargetHoliday(t)
	default:
		return false
	}
}

func isWeekend(t time.Time) bool {
	return t.Weekday() == time.Saturday || t.Weekday() == time.Sunday
}

// IsBusinessDay checks weekends and holiday sets.
func IsBusinessDay(cal CalendarID, t time.Time) bool {
	if cal == NULL {
		return true
	}
	if isWeekend(t) {
		return false
	}
	return !isHoliday(cal, t)
}

// Adjust applies Modified Following.
func Adjust(cal CalendarID, t time.Time) time.Time {
	origMonth := t.Month()
	for !IsBusinessDay(cal, t) {
		t = t.AddDate(0, 0, 1)
	}
	if t.Month() != origMonth {
		t = t.AddDate(0, 0, -1)
		for !IsBusinessDay(cal, t) {
			t = t.AddDate(0, 0, -1)
		}
	}
	return t
}

// AdjustFollowing applies a simple Following convention (no month preservation).
func AdjustFollowing(cal CalendarID, t time.Time) time.Time {
	for !IsBusinessDay(cal, t) {
		t = t.AddDate(0, 0, 1)
	}
	return t
}

// AdjustPreceding rolls t back to the previous business day.
func AdjustPreceding(cal CalendarID, t time.Time) time.Time {
	for !IsBusinessDay(cal, t) {
		t = t.AddDate(0, 0, -1)
	}
	return t
}

// AdjustWith rolls t according to conv.
func AdjustWith(cal CalendarID, t time.Time, conv BusinessDayConvention) time.Time {
	switch conv {
	case Following:
		return AdjustFollowing(cal, t)
	case ModifiedFollowing:
		return Adjust(cal, t)
	case Preceding:
		return AdjustPreceding(cal, t)
	case ModifiedPreceding:
		d := AdjustPreceding(cal, t)
		if d.Month() != t.Month() {
			return AdjustFollowing(cal, t)
		}
		return d
	default:
		return t
	}
}

// AddBusinessDays advances n business days (n can be negative).
func AddBusinessDays(cal CalendarID, t time.Time, n int) time.Time {
	step := 1
	if n < 0 {
		step = -1
	}
	for n != 0 {
		t = t.AddDate(0, 0, step)
		if IsBusinessDay(cal, t) {
			n -= step
		}
	}
	return t
}

// Advance moves t by p and rolls the result with conv. A day period counts
// business days on cal; longer periods shift in calendar time.
func Advance(cal CalendarID, t time.Time, p utils.Period, conv BusinessDayConvention) time.Time {
	if p.Unit == utils.Day && p.Length != 0 {
		t = AddBusinessDays(cal, t, p.Length)
	} else {
		t = utils.AddPeriod(t, p)
	}
	return AdjustWith(cal, t, conv)
}

// BusinessDaysBetween counts business days in (from, to].
func BusinessDaysBetween(cal CalendarID, from, to time.Time) int {
	n := 0
	for d := from.AddDate(0, 0, 1); !d.After(to); d = d.AddDate(0, 0, 1) {
		if IsBusinessDay(cal, d) {
			n++
		}
	}
	return n
}

// LastBusinessDayOfMonth returns the last business day of the month containing t.
func LastBusinessDayOfMonth(cal CalendarID, t time.Time) time.Time {
	// Move to first day of next month
	nextMonth := time.Date(t.Year(), t.Month()+1, 1, 0, 0, 0, 0, time.UTC)
	// Go back one day and find the prior business day
	return AddBusinessDays(cal, nextMonth, -1)
}

// IsEndOfMonth checks if t is the last business day of its month.
func IsEndOfMonth(cal CalendarID, t time.Time) bool {
	return t.Equal(LastBusinessDayOfMonth(cal, t))
}
