package models

import "github.com/guttosm/coinpulse/internal/calendar"

// Granularity is the native sampling interval of the upstream data.
type Granularity string

const (
	GranularityDaily      Granularity = "daily"
	GranularityHourly     Granularity = "hourly"
	GranularityFiveMinute Granularity = "5m"
)

// SubDaily reports whether samples have to be bucketed into days.
func (g Granularity) SubDaily() bool {
	return g != GranularityDaily
}

// DailySeries holds one value per calendar day starting at Begin.
//
// Fields:
//   - Begin/End: the requested date range (inclusive).
//   - Requested: number of days in the range.
//   - Timestamps: Unix seconds of the sample used for each day.
//   - Price, Volume, MarketCap: parallel arrays, all of length Len().
//
// Len() can be smaller than Requested when the upstream returned fewer samples.
type DailySeries struct {
	Begin       calendar.Date
	End         calendar.Date
	Requested   int
	Granularity Granularity
	Timestamps  []int64
	Price       []float64
	Volume      []float64
	MarketCap   []float64
}

// Len returns the number of filled days.
func (s *DailySeries) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Price)
}

// DateAt returns the calendar date of day index i.
func (s *DailySeries) DateAt(i int) calendar.Date {
	return calendar.AddDays(s.Begin, i)
}
