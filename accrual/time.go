package accrual

import (
	"time"
)

// =============================================================================
// DATE - Day-granularity calendar date (all ledger math is date-based)
// =============================================================================

// Date is a calendar date, normalized to midnight UTC. The zero value is
// "no date" (see IsZero).
type Date struct {
	Time time.Time
}

// Constructors
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates a time.Time to its calendar date in UTC terms.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, err
	}
	return DateOf(t), nil
}

// Comparison
func (d Date) Before(other Date) bool        { return d.normalize().Before(other.normalize()) }
func (d Date) Equal(other Date) bool         { return d.normalize().Equal(other.normalize()) }
func (d Date) After(other Date) bool         { return d.normalize().After(other.normalize()) }
func (d Date) BeforeOrEqual(other Date) bool { return d.Before(other) || d.Equal(other) }
func (d Date) AfterOrEqual(other Date) bool  { return d.After(other) || d.Equal(other) }

func (d Date) normalize() time.Time {
	return time.Date(d.Time.Year(), d.Time.Month(), d.Time.Day(), 0, 0, 0, 0, time.UTC)
}

// Normalized returns the date truncated to midnight UTC. Dates must be
// normalized before use as map keys.
func (d Date) Normalized() Date { return Date{Time: d.normalize()} }

// Arithmetic
func (d Date) AddDays(n int) Date { return Date{Time: d.normalize().AddDate(0, 0, n)} }

// Properties
func (d Date) Year() int         { return d.Time.Year() }
func (d Date) Month() time.Month { return d.Time.Month() }
func (d Date) Day() int          { return d.Time.Day() }
func (d Date) IsZero() bool      { return d.Time.IsZero() }

func (d Date) String() string { return d.Time.Format("2006-01-02") }

// DaysBetween returns the number of whole days from one date to another
// (exclusive of the start day, so DaysBetween(d, d) == 0).
func DaysBetween(from, to Date) int {
	return int(to.normalize().Sub(from.normalize()).Hours() / 24)
}

// =============================================================================
// DAY-COUNT CONVENTION - Actual days over days-in-year
// =============================================================================

// DaysInYear returns 366 for Gregorian leap years (divisible by 4, not by
// 100 unless by 400) and 365 otherwise.
func DaysInYear(year int) int {
	if year%4 == 0 && (year%100 != 0 || year%400 == 0) {
		return 366
	}
	return 365
}

// =============================================================================
// QUARTER-END BOUNDARIES - Fixed compounding checkpoints
// =============================================================================

// quarterEndMonths maps a month to the closing month of its calendar quarter.
var quarterEndMonths = [13]time.Month{
	time.January:   time.March,
	time.February:  time.March,
	time.March:     time.March,
	time.April:     time.June,
	time.May:       time.June,
	time.June:      time.June,
	time.July:      time.September,
	time.August:    time.September,
	time.September: time.September,
	time.October:   time.December,
	time.November:  time.December,
	time.December:  time.December,
}

// quarterEndDay returns the last day of a quarter-closing month.
func quarterEndDay(m time.Month) int {
	if m == time.June || m == time.September {
		return 30
	}
	return 31 // March, December
}

// QuarterEnd returns the last calendar day of the quarter containing d
// (Mar 31 / Jun 30 / Sep 30 / Dec 31).
func QuarterEnd(d Date) Date {
	m := quarterEndMonths[d.Month()]
	return NewDate(d.Year(), m, quarterEndDay(m))
}

// NextQuarterEnd returns the first quarter-end strictly after d.
func NextQuarterEnd(d Date) Date {
	qe := QuarterEnd(d)
	if qe.After(d) {
		return qe
	}
	// d is itself a quarter end; step into the next quarter.
	// AddDate would normalize Mar 31 + 3 months into Jul 1, so advance
	// by quarter index instead.
	if qe.Month() == time.December {
		return NewDate(qe.Year()+1, time.March, 31)
	}
	m := quarterEndMonths[qe.Month()+1]
	return NewDate(qe.Year(), m, quarterEndDay(m))
}

// IsQuarterEnd reports whether d is a quarter-end boundary.
func IsQuarterEnd(d Date) bool {
	return QuarterEnd(d).Equal(d)
}
