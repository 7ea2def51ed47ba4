package series

import (
	"errors"
	"fmt"

	"github.com/guttosm/coinpulse/internal/calendar"
	"github.com/guttosm/coinpulse/internal/chart"
	"github.com/guttosm/coinpulse/internal/domain/models"
	"github.com/guttosm/coinpulse/internal/logger"
)

const secondsInDay = 60 * 60 * 24

// ErrInsufficientData marks a series shorter than the requested range.
var ErrInsufficientData = errors.New("insufficient data")

// InsufficientDataError is returned together with a usable, shortened series.
type InsufficientDataError struct {
	Requested int
	Received  int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("didn't receive enough data. recv: %d expected: %d", e.Received, e.Requested)
}

// Is makes errors.Is(err, ErrInsufficientData) match.
func (e *InsufficientDataError) Is(target error) bool {
	return target == ErrInsufficientData
}

// Options tune the sub-daily bucketing.
//
//   - SnapToClosest: use the last sample of the previous day when it is
//     strictly closer to midnight than the first sample of the new day.
type Options struct {
	SnapToClosest bool
}

// target maps a named sample array to the slice it fills.
type target struct {
	name string
	dst  *[]float64
}

// Build turns the price, volume and market-cap arrays of tree into one value
// per calendar day, starting at begin, for at most days days.
//
// Daily sources are copied positionally. Sub-daily sources take, for every day
// after the first, the first sample at or after that day's UTC midnight (or the
// last sample of the array).
//
// When fewer days could be filled than requested the shortened series is
// returned together with an *InsufficientDataError; callers treat it as a warning.
// Malformed arrays fail with chart.ErrParse.
func Build(begin calendar.Date, days int, tree chart.Tree, g models.Granularity, opts Options) (*models.DailySeries, error) {
	if days < 0 {
		days = 0
	}
	s := &models.DailySeries{
		Begin:       begin,
		End:         calendar.AddDays(begin, days-1),
		Requested:   days,
		Granularity: g,
		Timestamps:  make([]int64, days),
		Price:       make([]float64, days),
		Volume:      make([]float64, days),
		MarketCap:   make([]float64, days),
	}
	if days == 0 {
		s.End = begin
		return s, nil
	}

	targets := []target{
		{name: chart.Prices, dst: &s.Price},
		{name: chart.MarketCaps, dst: &s.MarketCap},
		{name: chart.TotalVolumes, dst: &s.Volume},
	}

	filled := days
	for _, tg := range targets {
		if !tree.Has(tg.name) {
			logger.L().Warn().Str("array", tg.name).Msg("array missing from response")
		}
		points, err := tree.Points(tg.name)
		if err != nil {
			return nil, err
		}

		var n int
		if g.SubDaily() {
			n = bucketByDay(begin, points, *tg.dst, s.Timestamps, opts)
		} else {
			n = copyDaily(points, *tg.dst, s.Timestamps)
		}
		logger.L().Debug().Str("array", tg.name).Int("samples", len(points)).Int("filled", n).Msg("array processed")

		if n < filled {
			filled = n
		}
	}

	if filled < days {
		s.Timestamps = s.Timestamps[:filled]
		s.Price = s.Price[:filled]
		s.Volume = s.Volume[:filled]
		s.MarketCap = s.MarketCap[:filled]
		return s, &InsufficientDataError{Requested: days, Received: filled}
	}
	return s, nil
}

// copyDaily trusts that daily data is consistent and copies it 1:1.
func copyDaily(points []chart.Point, values []float64, timestamps []int64) int {
	n := len(points)
	if n > len(values) {
		n = len(values)
	}
	for i := 0; i < n; i++ {
		timestamps[i] = points[i].Unix()
		values[i] = points[i].Value
	}
	return n
}

// bucketByDay fills values with one sample per day and returns how many days
// were filled. Day 0 always takes the first sample.
func bucketByDay(begin calendar.Date, points []chart.Point, values []float64, timestamps []int64, opts Options) int {
	if len(points) == 0 || len(values) == 0 {
		return 0
	}

	start := calendar.Timestamp(begin)
	day := 0
	timestamps[0] = points[0].Unix()
	values[0] = points[0].Value

	last := len(points) - 1
	for j := 1; j <= last; j++ {
		if day == len(values)-1 {
			break
		}

		cur := points[j].Unix()
		midnight := start + int64(day+1)*secondsInDay
		if cur < midnight && j != last {
			continue
		}

		day++
		chosen := points[j]
		if opts.SnapToClosest {
			prev := points[j-1]
			if abs64(midnight-prev.Unix()) < abs64(cur-midnight) {
				chosen = prev
			}
		}
		timestamps[day] = chosen.Unix()
		values[day] = chosen.Value

		logger.L().Debug().
			Int("day", day).
			Int("sample", j).
			Int64("midnight", midnight).
			Int64("timestamp", chosen.Unix()).
			Float64("value", chosen.Value).
			Msg("day boundary")
	}
	return day + 1
}

func abs64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
