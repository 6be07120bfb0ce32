package utils

import (
	"math"
	"time"
)

// YearFraction computes year fraction between two dates using the specified day count convention.
// Supported conventions: ACT/360, ACT/365F, 30E/360, 30/360 (US bond basis), ACT/ACT (ISDA), ACT/ACT ICMA.
//
// ACT/ACT ICMA without reference dates treats [start, end] as the reference period.
func YearFraction(start, end time.Time, convention string) float64 {
	return YearFractionRef(start, end, time.Time{}, time.Time{}, convention)
}

// YearFractionRef is YearFraction with an explicit coupon reference period,
// which only ACT/ACT ICMA uses.
func YearFractionRef(start, end, refStart, refEnd time.Time, convention string) float64 {
	switch convention {
	case "ACT/360":
		return Days(start, end) / 360.0
	case "ACT/365F", "ACT/365":
		return Days(start, end) / 365.0
	case "30E/360":
		// Eurobond basis: both days capped at 30
		return thirty360(start, end, min(start.Day(), 30), min(end.Day(), 30))
	case "30/360":
		// US bond basis: D2 is capped only once D1 has been
		d1, d2 := min(start.Day(), 30), end.Day()
		if d2 == 31 && d1 == 30 {
			d2 = 30
		}
		return thirty360(start, end, d1, d2)
	case "ACT/ACT", "ACT/ACT ISDA":
		return actActISDA(start, end)
	case "ACT/ACT ICMA":
		return actActICMA(start, end, refStart, refEnd)
	default:
		return Days(start, end) / 365.0
	}
}

func thirty360(start, end time.Time, d1, d2 int) float64 {
	y1, m1 := start.Year(), int(start.Month())
	y2, m2 := end.Year(), int(end.Month())
	return float64(360*(y2-y1)+30*(m2-m1)+(d2-d1)) / 360.0
}

// actActISDA splits the interval at year boundaries and divides each piece by
// the length of its own year.
func actActISDA(start, end time.Time) float64 {
	if start.Equal(end) {
		return 0
	}
	if start.After(end) {
		return -actActISDA(end, start)
	}
	y1, y2 := start.Year(), end.Year()
	sum := float64(y2 - y1 - 1)
	sum += Days(start, Date(y1+1, time.January, 1)) / daysInYear(y1)
	sum += Days(Date(y2, time.January, 1), end) / daysInYear(y2)
	return sum
}

func daysInYear(y int) float64 {
	if IsLeapYear(y) {
		return 366
	}
	return 365
}

// actActICMA measures time in coupon periods, handling long first and last
// periods by stepping the reference period.
func actActICMA(d1, d2, refStart, refEnd time.Time) float64 {
	if d1.Equal(d2) {
		return 0
	}
	if d1.After(d2) {
		return -actActICMA(d2, d1, refStart, refEnd)
	}
	if refStart.IsZero() {
		refStart = d1
	}
	if refEnd.IsZero() {
		refEnd = d2
	}

	months := int(math.Round(12 * Days(refStart, refEnd) / 365))
	if months == 0 {
		refStart = d1
		refEnd = AddMonth(d1, 12)
		months = 12
	}
	period := float64(months) / 12.0

	if !d2.After(refEnd) {
		if !d1.Before(refStart) {
			return period * Days(d1, d2) / Days(refStart, refEnd)
		}
		// long first coupon
		prevRef := AddMonth(refStart, -months)
		if d2.After(refStart) {
			return actActICMA(d1, refStart, prevRef, refStart) + actActICMA(refStart, d2, refStart, refEnd)
		}
		return actActICMA(d1, d2, prevRef, refStart)
	}

	// long final coupon
	sum := actActICMA(d1, refEnd, refStart, refEnd)
	var newStart, newEnd time.Time
	for i := 0; ; i++ {
		newStart = AddMonth(refEnd, months*i)
		newEnd = AddMonth(refEnd, months*(i+1))
		if d2.Before(newEnd) {
			break
		}
		sum += period
	}
	return sum + actActICMA(newStart, d2, newStart, newEnd)
}
