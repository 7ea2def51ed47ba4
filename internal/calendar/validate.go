package calendar

import (
	"fmt"
	"time"
)

// DataFloor is the earliest date the upstream market data covers.
var DataFloor = Date{Year: 2013, Month: 4, Day: 28}

// KnownGap is the single day missing from the upstream daily history.
// Queries spanning it are processed like any other; see DESIGN.md.
var KnownGap = Date{Year: 2015, Month: 1, Day: 28}

// MaxYear is the last year accepted by Validate. Day counts are computed
// year by year, so the range has to stay bounded.
const MaxYear = 9999

// Validator checks dates against the supported range.
//
// RejectFuture enables the "not in the future" check. It relies on Now,
// which defaults to time.Now when nil.
type Validator struct {
	Floor        Date
	RejectFuture bool
	Now          func() time.Time
}

// DefaultValidator enforces the data floor only.
var DefaultValidator = Validator{Floor: DataFloor}

// Validate returns nil for a usable date, otherwise an error wrapping ErrInvalidDate.
func (v Validator) Validate(d Date) error {
	if d.Year > MaxYear {
		return fmt.Errorf("%w: %s: year after %d", ErrInvalidDate, d, MaxYear)
	}
	if d.Month < 1 || d.Month > 12 {
		return fmt.Errorf("%w: %s: invalid month", ErrInvalidDate, d)
	}
	if d.Month == 2 && d.Day == 29 && !IsLeapYear(d.Year) {
		return fmt.Errorf("%w: %s: %d is not a leap year", ErrInvalidDate, d, d.Year)
	}
	if d.Day < 1 || d.Day > monthLength(d.Year, d.Month) {
		return fmt.Errorf("%w: %s: invalid day", ErrInvalidDate, d)
	}
	if DayCount(d) < DayCount(v.Floor) {
		return fmt.Errorf("%w: %s: no records before %s", ErrInvalidDate, d, v.Floor)
	}
	if v.RejectFuture {
		now := time.Now
		if v.Now != nil {
			now = v.Now
		}
		if today := FromTime(now()); DayCount(d) > DayCount(today) {
			return fmt.Errorf("%w: %s: date can't be in the future (UTC)", ErrInvalidDate, d)
		}
	}
	return nil
}

// IsValid reports whether Validate accepts d.
func (v Validator) IsValid(d Date) bool {
	return v.Validate(d) == nil
}

// DaysBetween returns the inclusive day count between begin and end.
// An end before begin is rejected as well.
func (v Validator) DaysBetween(begin, end Date) (uint32, error) {
	if err := v.Validate(begin); err != nil {
		return 0, fmt.Errorf("date_begin: %w", err)
	}
	if err := v.Validate(end); err != nil {
		return 0, fmt.Errorf("date_end: %w", err)
	}
	diff := DayCount(end) - DayCount(begin)
	if diff < 0 {
		return 0, fmt.Errorf("%w: end %s is before begin %s", ErrInvalidDate, end, begin)
	}
	return uint32(diff + 1), nil
}

// Spans reports whether d lies within begin..end, both inclusive.
func Spans(begin, end, d Date) bool {
	day := DayCount(d)
	return DayCount(begin) <= day && day <= DayCount(end)
}

// IsValidDate checks d with DefaultValidator.
func IsValidDate(d Date) bool {
	return DefaultValidator.IsValid(d)
}
