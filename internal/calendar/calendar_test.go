package calendar

import (
	"errors"
	"testing"
	"time"
)

func TestIsLeapYear(t *testing.T) {
	cases := []struct {
		year int
		want bool
	}{
		{2000, true},
		{1900, false},
		{2024, true},
		{2023, false},
		{2100, false},
		{2016, true},
	}
	for _, c := range cases {
		if got := IsLeapYear(c.year); got != c.want {
			t.Fatalf("IsLeapYear(%d)=%v, want %v", c.year, got, c.want)
		}
	}
}

func TestDayCount_MatchesTimePackage(t *testing.T) {
	d := Date{Year: 1970, Month: 1, Day: 1}
	for i := 0; i < 366*60; i++ {
		want := d.Time().Unix() / secondsInDay
		if got := DayCount(d); got != want {
			t.Fatalf("DayCount(%s)=%d, want %d", d, got, want)
		}
		next := d.Time().AddDate(0, 0, 1)
		d = FromTime(next)
	}
}

func TestTimestamp(t *testing.T) {
	d := Date{Year: 2021, Month: 1, Day: 1}
	if got := Timestamp(d); got != 1609459200 {
		t.Fatalf("Timestamp(%s)=%d, want 1609459200", d, got)
	}
	leap := Date{Year: 2020, Month: 3, Day: 1}
	if got, want := Timestamp(leap), leap.Time().Unix(); got != want {
		t.Fatalf("Timestamp(%s)=%d, want %d", leap, got, want)
	}
}

func TestAddDays_ZeroIsIdentity(t *testing.T) {
	d := DataFloor
	end := Date{Year: 2030, Month: 12, Day: 31}
	for DayCount(d) <= DayCount(end) {
		if got := AddDays(d, 0); got != d {
			t.Fatalf("AddDays(%s, 0)=%s", d, got)
		}
		d = FromTime(d.Time().AddDate(0, 0, 1))
	}
}

func TestAddDays_Offsets(t *testing.T) {
	base := Date{Year: 2019, Month: 12, Day: 30}
	for n := 0; n < 2000; n += 7 {
		got := AddDays(base, n)
		if DayCount(got) != DayCount(base)+int64(n) {
			t.Fatalf("DayCount(AddDays(%s, %d)) = %d, want %d", base, n, DayCount(got), DayCount(base)+int64(n))
		}
		want := FromTime(base.Time().AddDate(0, 0, n))
		if got != want {
			t.Fatalf("AddDays(%s, %d)=%s, want %s", base, n, got, want)
		}
	}
}

func TestAddDays_TableDriven(t *testing.T) {
	cases := []struct {
		name string
		in   Date
		n    int
		want Date
	}{
		{"into leap day", Date{2020, 2, 28}, 1, Date{2020, 2, 29}},
		{"over leap day", Date{2020, 2, 28}, 2, Date{2020, 3, 1}},
		{"common february", Date{2021, 2, 28}, 1, Date{2021, 3, 1}},
		{"year end", Date{2021, 12, 31}, 1, Date{2022, 1, 1}},
		{"negative", Date{2021, 1, 1}, -1, Date{2020, 12, 31}},
		{"before epoch", Date{1970, 1, 1}, -1, Date{1969, 12, 31}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := AddDays(tc.in, tc.n); got != tc.want {
				t.Fatalf("AddDays(%s, %d)=%s, want %s", tc.in, tc.n, got, tc.want)
			}
		})
	}
}

func TestDaysBetween(t *testing.T) {
	cases := []struct {
		name    string
		begin   Date
		end     Date
		want    uint32
		wantErr bool
	}{
		{"same day", Date{2021, 1, 1}, Date{2021, 1, 1}, 1, false},
		{"january", Date{2021, 1, 1}, Date{2021, 1, 31}, 31, false},
		{"leap year", Date{2020, 1, 1}, Date{2020, 12, 31}, 366, false},
		{"reversed", Date{2021, 1, 2}, Date{2021, 1, 1}, 0, true},
		{"invalid begin", Date{2021, 2, 30}, Date{2021, 3, 1}, 0, true},
		{"before floor", Date{2013, 4, 27}, Date{2013, 5, 1}, 0, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := DaysBetween(tc.begin, tc.end)
			if tc.wantErr {
				if !errors.Is(err, ErrInvalidDate) {
					t.Fatalf("expected ErrInvalidDate, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected err: %v", err)
			}
			if got != tc.want {
				t.Fatalf("DaysBetween=%d, want %d", got, tc.want)
			}
		})
	}
}

func TestValidator_Validate(t *testing.T) {
	cases := []struct {
		name string
		d    Date
		ok   bool
	}{
		{"floor", Date{2013, 4, 28}, true},
		{"day before floor", Date{2013, 4, 27}, false},
		{"month before floor", Date{2013, 3, 30}, false},
		{"leap day", Date{2020, 2, 29}, true},
		{"not a leap year", Date{2021, 2, 29}, false},
		{"century not leap", Date{2100, 2, 29}, false},
		{"day zero", Date{2021, 5, 0}, false},
		{"day 31 in april", Date{2021, 4, 31}, false},
		{"month 13", Date{2021, 13, 1}, false},
		{"month 0", Date{2021, 0, 1}, false},
		{"last supported year", Date{MaxYear, 12, 31}, true},
		{"year after ceiling", Date{MaxYear + 1, 1, 1}, false},
		{"huge year", Date{9000000000, 1, 1}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsValidDate(tc.d); got != tc.ok {
				t.Fatalf("IsValidDate(%s)=%v, want %v", tc.d, got, tc.ok)
			}
		})
	}
}

func TestValidate_HugeYearReturnsPromptly(t *testing.T) {
	d, err := Parse("9000000000-01-01")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	done := make(chan error, 1)
	go func() {
		_, err := DaysBetween(Date{2021, 1, 1}, d)
		done <- err
	}()
	select {
	case err := <-done:
		if !errors.Is(err, ErrInvalidDate) {
			t.Fatalf("expected ErrInvalidDate, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatalf("DaysBetween(%s) did not return", d)
	}
}

func TestSpans(t *testing.T) {
	begin, end := Date{2015, 1, 1}, Date{2015, 2, 1}
	cases := []struct {
		d    Date
		want bool
	}{
		{KnownGap, true},
		{begin, true},
		{end, true},
		{Date{2014, 12, 31}, false},
		{Date{2015, 2, 2}, false},
	}
	for _, tc := range cases {
		if got := Spans(begin, end, tc.d); got != tc.want {
			t.Fatalf("Spans(%s..%s, %s)=%v, want %v", begin, end, tc.d, got, tc.want)
		}
	}
}

func TestValidator_RejectFuture(t *testing.T) {
	now := func() time.Time { return time.Date(2021, 6, 30, 23, 0, 0, 0, time.UTC) }
	v := Validator{Floor: DataFloor, RejectFuture: true, Now: now}

	if err := v.Validate(Date{2021, 6, 30}); err != nil {
		t.Fatalf("today should be valid: %v", err)
	}
	if err := v.Validate(Date{2021, 7, 1}); !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("tomorrow should be rejected, got %v", err)
	}

	// without the capability future dates pass
	if err := DefaultValidator.Validate(Date{2999, 1, 1}); err != nil {
		t.Fatalf("default validator should not check the clock: %v", err)
	}
}

func TestParse(t *testing.T) {
	cases := []struct {
		in      string
		want    Date
		wantErr bool
	}{
		{"2021-01-01", Date{2021, 1, 1}, false},
		{"2021-1-01", Date{2021, 1, 1}, false},
		{" 2021-12-5 ", Date{2021, 12, 5}, false},
		{"2021/01/01", Date{}, true},
		{"2021-01", Date{}, true},
		{"2021-aa-01", Date{}, true},
		{"", Date{}, true},
	}
	for _, c := range cases {
		got, err := Parse(c.in)
		if c.wantErr {
			if !errors.Is(err, ErrInvalidDate) {
				t.Fatalf("Parse(%q) expected ErrInvalidDate, got %v", c.in, err)
			}
			continue
		}
		if err != nil || got != c.want {
			t.Fatalf("Parse(%q)=%v,%v want %v", c.in, got, err, c.want)
		}
	}
}

func TestDate_String(t *testing.T) {
	if s := (Date{2021, 3, 7}).String(); s != "2021-03-07" {
		t.Fatalf("String()=%q", s)
	}
}
