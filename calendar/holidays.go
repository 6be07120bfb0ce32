package calendar

import "time"

// easterSunday uses the anonymous Gregorian algorithm.
func easterSunday(year int) time.Time {
	a := year % 19
	b := year / 100
	c := year % 100
	d := b / 4
	e := b % 4
	f := (b + 8) / 25
	g := (b - f + 1) / 3
	h := (19*a + b - d - g + 15) % 30
	i := c / 4
	k := c % 4
	l := (32 + 2*e + 2*i - h - k) % 7
	m := (a + 11*h + 22*l) / 451
	month := (h + l - 7*m + 114) / 31
	day := (h+l-7*m+114)%31 + 1
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}

func isGoodFriday(t time.Time) bool {
	return t.Equal(easterSunday(t.Year()).AddDate(0, 0, -2))
}

func isEasterMonday(t time.Time) bool {
	return t.Equal(easterSunday(t.Year()).AddDate(0, 0, 1))
}

// observedOn reports whether t is the fixed-date holiday (m, d) or, when that
// falls on a weekend, its Monday substitute.
func observedOn(t time.Time, m time.Month, d int) bool {
	if t.Month() != m {
		return false
	}
	if t.Day() == d {
		return true
	}
	return t.Weekday() == time.Monday && (t.Day() == d+1 || t.Day() == d+2)
}

// isUKHoliday follows the UK settlement calendar (England and Wales bank holidays).
func isUKHoliday(t time.Time) bool {
	y, m, d := t.Date()
	w := t.Weekday()

	switch {
	case observedOn(t, time.January, 1):
		return true
	case isGoodFriday(t), isEasterMonday(t):
		return true
	// early May bank holiday, moved to VE day in 1995 and 2020
	case m == time.May && d <= 7 && w == time.Monday && y != 1995 && y != 2020:
		return true
	case m == time.May && d == 8 && (y == 1995 || y == 2020):
		return true
	// spring bank holiday, moved for jubilees
	case m == time.May && d >= 25 && w == time.Monday && y != 2002 && y != 2012 && y != 2022:
		return true
	case m == time.August && d >= 25 && w == time.Monday:
		return true
	// Christmas and Boxing Day roll to Monday/Tuesday together
	case m == time.December && (d == 25 || (d == 27 && (w == time.Monday || w == time.Tuesday))):
		return true
	case m == time.December && (d == 26 || (d == 28 && (w == time.Monday || w == time.Tuesday))):
		return true
	}

	return ukSpecial[t.Format("2006-01-02")]
}

var ukSpecial = map[string]bool{
	"1999-12-31": true, // millennium
	"2002-06-03": true, // golden jubilee
	"2002-06-04": true,
	"2011-04-29": true, // royal wedding
	"2012-06-04": true, // diamond jubilee
	"2012-06-05": true,
	"2022-06-02": true, // platinum jubilee
	"2022-06-03": true,
	"2022-09-19": true, // state funeral
	"2023-05-08": true, // coronation
}

// isZAHoliday follows the Johannesburg settlement calendar.
func isZAHoliday(t time.Time) bool {
	y, m, d := t.Date()
	w := t.Weekday()

	sundayRule := func(month time.Month, day int) bool {
		return m == month && (d == day || (d == day+1 && w == time.Monday))
	}

	switch {
	case sundayRule(time.January, 1):
		return true
	case isGoodFriday(t), isEasterMonday(t): // Family Day
		return true
	case sundayRule(time.March, 21): // Human Rights Day
		return true
	case y >= 1995 && sundayRule(time.April, 27): // Freedom Day
		return true
	case sundayRule(time.May, 1): // Workers' Day
		return true
	case y >= 1995 && sundayRule(time.June, 16): // Youth Day
		return true
	case y >= 1995 && sundayRule(time.August, 9): // National Women's Day
		return true
	case y >= 1995 && sundayRule(time.September, 24): // Heritage Day
		return true
	case sundayRule(time.December, 16): // Day of Reconciliation
		return true
	case m == time.December && d == 25:
		return true
	case sundayRule(time.December, 26): // Day of Goodwill
		return true
	}

	return zaSpecial[t.Format("2006-01-02")]
}

// election and one-off days
var zaSpecial = map[string]bool{
	"2004-04-14": true,
	"2006-03-01": true,
	"2008-05-02": true,
	"2009-04-22": true,
	"2011-05-18": true,
	"2011-12-27": true,
	"2014-05-07": true,
	"2016-08-03": true,
	"2016-12-27": true,
	"2019-05-08": true,
	"2021-11-01": true,
	"2022-12-27": true,
	"2023-08-28": true,
	"2024-05-29": true,
}

// isTargetHoliday follows the TARGET2 closing days.
func isTargetHoliday(t time.Time) bool {
	y, m, d := t.Date()
	switch {
	case m == time.January && d == 1:
		return true
	case y >= 2000 && (isGoodFriday(t) || isEasterMonday(t)):
		return true
	case y >= 2000 && m == time.May && d == 1:
		return true
	case m == time.December && d == 25:
		return true
	case y >= 2000 && m == time.December && d == 26:
		return true
	case m == time.December && d == 31 && (y == 1998 || y == 1999 || y == 2001):
		return true
	}
	return false
}
