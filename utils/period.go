package utils

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// TimeUnit is the unit of a Period.
type TimeUnit int

const (
	Day TimeUnit = iota
	Week
	Month
	Year
)

// Period is a signed length of time such as 3M or -10D.
type Period struct {
	Length int
	Unit   TimeUnit
}

// ParsePeriod converts tenor strings like "1W", "3M", "10Y", "2D" to a Period.
func ParsePeriod(s string) (Period, error) {
	s = strings.TrimSpace(strings.ToUpper(s))
	if s == "" {
		return Period{}, fmt.Errorf("ParsePeriod: empty tenor")
	}
	units := map[byte]TimeUnit{'D': Day, 'W': Week, 'M': Month, 'Y': Year}
	unit, ok := units[s[len(s)-1]]
	if !ok {
		return Period{}, fmt.Errorf("ParsePeriod: unknown unit in %q", s)
	}
	n, err := strconv.Atoi(s[:len(s)-1])
	if err != nil {
		return Period{}, fmt.Errorf("ParsePeriod: %q: %w", s, err)
	}
	return Period{Length: n, Unit: unit}, nil
}

// MustPeriod is ParsePeriod for literals known to be valid.
func MustPeriod(s string) Period {
	p, err := ParsePeriod(s)
	if err != nil {
		panic(err)
	}
	return p
}

// IsZero reports whether the period has no length.
func (p Period) IsZero() bool {
	return p.Length == 0
}

// Neg returns the period with its sign flipped.
func (p Period) Neg() Period {
	return Period{Length: -p.Length, Unit: p.Unit}
}

// Months returns the length in months for month and year units.
func (p Period) Months() (int, bool) {
	switch p.Unit {
	case Month:
		return p.Length, true
	case Year:
		return 12 * p.Length, true
	default:
		return 0, false
	}
}

func (p Period) String() string {
	return strconv.Itoa(p.Length) + string("DWMY"[p.Unit])
}

// AddPeriod shifts t by p in calendar time. Month and year shifts clamp to the
// end of the target month.
func AddPeriod(t time.Time, p Period) time.Time {
	switch p.Unit {
	case Day:
		return t.AddDate(0, 0, p.Length)
	case Week:
		return t.AddDate(0, 0, 7*p.Length)
	case Month:
		return AddMonth(t, p.Length)
	default:
		return AddMonth(t, 12*p.Length)
	}
}

// SubPeriod shifts t back by p.
func SubPeriod(t time.Time, p Period) time.Time {
	return AddPeriod(t, p.Neg())
}
