package calendar

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidDate is returned for malformed dates, impossible day/month values,
// dates before the data floor and (when requested) dates in the future.
var ErrInvalidDate = errors.New("invalid date")

const (
	epochYear    = 1970
	secondsInDay = 60 * 60 * 24
)

// daysInMonth holds month lengths for a common year.
var daysInMonth = [12]int{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

// Date is a Gregorian calendar date without time of day.
type Date struct {
	Year  int
	Month int
	Day   int
}

// String formats the date as YYYY-MM-DD.
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// Time returns UTC midnight of the date.
func (d Date) Time() time.Time {
	return time.Date(d.Year, time.Month(d.Month), d.Day, 0, 0, 0, 0, time.UTC)
}

// FromTime truncates t (in UTC) to its calendar date.
func FromTime(t time.Time) Date {
	y, m, day := t.UTC().Date()
	return Date{Year: y, Month: int(m), Day: day}
}

// Parse reads a YYYY-MM-DD string. Parts do not need zero padding,
// so "2021-1-01" is accepted. Parse does not check the date is valid.
func Parse(s string) (Date, error) {
	parts := strings.Split(strings.TrimSpace(s), "-")
	if len(parts) != 3 {
		return Date{}, fmt.Errorf("%w: %q: the correct format is yyyy-mm-dd", ErrInvalidDate, s)
	}
	var vals [3]int
	for i, p := range parts {
		v, err := strconv.Atoi(p)
		if err != nil || v < 0 {
			return Date{}, fmt.Errorf("%w: %q: the correct format is yyyy-mm-dd", ErrInvalidDate, s)
		}
		vals[i] = v
	}
	return Date{Year: vals[0], Month: vals[1], Day: vals[2]}, nil
}

// IsLeapYear applies the Gregorian rule.
func IsLeapYear(year int) bool {
	if year%4 != 0 {
		return false
	}
	if year%100 != 0 {
		return true
	}
	return year%400 == 0
}

func daysInYear(year int) int {
	if IsLeapYear(year) {
		return 366
	}
	return 365
}

// monthLength returns the number of days of month (1-12) in year.
func monthLength(year, month int) int {
	if month == 2 && IsLeapYear(year) {
		return 29
	}
	return daysInMonth[month-1]
}

// DayCount returns the number of days between 1970-01-01 and d.
// Multiply by 86400 (or use Timestamp) to get the Unix time of UTC midnight.
func DayCount(d Date) int64 {
	var days int64
	for y := epochYear; y < d.Year; y++ {
		days += int64(daysInYear(y))
	}
	for m := 1; m < d.Month; m++ {
		days += int64(daysInMonth[m-1])
	}
	days += int64(d.Day - 1)
	if IsLeapYear(d.Year) && d.Month > 2 {
		days++
	}
	return days
}

// Timestamp returns the Unix timestamp of UTC midnight of d.
func Timestamp(d Date) int64 {
	return DayCount(d) * secondsInDay
}

// AddDays returns the date n days after d (n may be negative).
func AddDays(d Date, n int) Date {
	return fromDayCount(DayCount(d) + int64(n))
}

// fromDayCount decodes a day count back into a date: whole years first,
// then whole months, the remainder being the day of month.
func fromDayCount(days int64) Date {
	out := Date{Year: epochYear, Month: 1, Day: 1}
	for days < 0 {
		out.Year--
		days += int64(daysInYear(out.Year))
	}
	for days >= int64(daysInYear(out.Year)) {
		days -= int64(daysInYear(out.Year))
		out.Year++
	}
	for days >= int64(monthLength(out.Year, out.Month)) {
		days -= int64(monthLength(out.Year, out.Month))
		out.Month++
	}
	out.Day += int(days)
	return out
}

// DaysBetween returns the inclusive number of days from begin to end,
// so the same date yields 1. Both dates are checked with the default Validator.
func DaysBetween(begin, end Date) (uint32, error) {
	return DefaultValidator.DaysBetween(begin, end)
}
