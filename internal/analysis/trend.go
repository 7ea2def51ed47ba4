package analysis

import (
	"errors"

	"github.com/guttosm/coinpulse/internal/domain/models"
	"github.com/guttosm/coinpulse/internal/logger"
)

// ErrEmptySeries is returned when there is no day to analyze.
var ErrEmptySeries = errors.New("empty series")

// LongestDecline finds the longest run of strictly decreasing prices.
// Days counts the decreasing steps; StartDay and EndDay are the first and last
// day of the run. The first of several equally long runs wins.
func LongestDecline(price []float64) (models.DeclineReport, error) {
	if len(price) == 0 {
		return models.DeclineReport{}, ErrEmptySeries
	}

	var best models.DeclineReport
	run, start := 0, 0
	for i := 0; i < len(price)-1; i++ {
		if price[i+1] < price[i] {
			run++
			continue
		}
		if run > best.Days {
			best = models.DeclineReport{Days: run, StartDay: start, EndDay: i}
		}
		run = 0
		start = i + 1
	}
	// a run can last until the final day
	if run > best.Days {
		best = models.DeclineReport{Days: run, StartDay: start, EndDay: len(price) - 1}
	}

	logger.L().Debug().Int("start", best.StartDay).Int("stop", best.EndDay).Int("days", best.Days).Msg("longest decline")
	return best, nil
}

// PeakVolume returns the first day holding the highest volume.
func PeakVolume(volume []float64) (models.VolumeReport, error) {
	if len(volume) == 0 {
		return models.VolumeReport{}, ErrEmptySeries
	}

	best := models.VolumeReport{Day: 0, Volume: volume[0]}
	for i := 1; i < len(volume); i++ {
		if volume[i] > best.Volume {
			best = models.VolumeReport{Day: i, Volume: volume[i]}
		}
	}

	logger.L().Debug().Int("day", best.Day).Float64("volume", best.Volume).Msg("peak volume")
	return best, nil
}
