package series

import "github.com/guttosm/coinpulse/internal/domain/models"

// Bytes per requested day below which a response is considered daily or hourly.
// Observed sizes: ~100 B/day for daily, ~2400 B/day for hourly and
// ~14000 B/day for 5 minute data.
const (
	dailyMaxBytesPerDay  = 200
	hourlyMaxBytesPerDay = 3000
)

// DetectGranularity infers the sampling interval from the response size,
// since the upstream does not state it.
func DetectGranularity(responseSize, days int) models.Granularity {
	if days <= 0 {
		return models.GranularityDaily
	}
	perDay := responseSize / days
	switch {
	case perDay < dailyMaxBytesPerDay:
		return models.GranularityDaily
	case perDay < hourlyMaxBytesPerDay:
		return models.GranularityHourly
	default:
		return models.GranularityFiveMinute
	}
}
