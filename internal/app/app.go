package app

import (
	"fmt"

	"github.com/guttosm/coinpulse/config"
	"github.com/guttosm/coinpulse/internal/calendar"
	"github.com/guttosm/coinpulse/internal/coingecko"
	"github.com/guttosm/coinpulse/internal/logger"
	"github.com/guttosm/coinpulse/internal/series"
	"github.com/guttosm/coinpulse/internal/service"
	"github.com/guttosm/coinpulse/internal/storage"
)

const cachePrefix = "coinpulse"

// InitializeApp sets up all dependencies of an analysis run and returns
// the configured service and a cleanup function.
//
// Responsibilities:
//   - Creates the CoinGecko HTTP fetcher.
//   - Wraps it with the redis cache when CACHE_ENABLED is set. An unreachable
//     cache is logged and the run continues uncached.
//   - Connects to PostgreSQL and creates the runs repository when persistence
//     is enabled. A connection failure is returned as an error.
//   - Builds the analysis service from the calendar and series settings.
func InitializeApp(cfg config.Config) (service.AnalysisService, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	var fetcher coingecko.Fetcher = coingecko.NewHTTPFetcher(cfg.CoinGecko.Timeout, cfg.CoinGecko.APIKey)

	if cfg.Cache.Enabled {
		client, err := redisOpener(cfg)
		if err != nil {
			logger.L().Warn().Err(err).Str("addr", cfg.Cache.Addr).Msg("response cache disabled")
		} else {
			closers = append(closers, func() { _ = client.Close() })
			fetcher = coingecko.NewCachedFetcher(fetcher, coingecko.NewRedisStore(client, cachePrefix), cfg.Cache.TTL)
		}
	}

	var repo storage.RunsRepository
	if cfg.Persist {
		db, err := postgresOpener(cfg)
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("failed to initialize postgres: %w", err)
		}
		closers = append(closers, func() { _ = db.Close() })
		repo = storage.NewRunsRepository(db)
	}

	svc := service.NewAnalysisService(fetcher, repo, service.Options{
		BaseURL:    cfg.CoinGecko.BaseURL,
		Currency:   cfg.CoinGecko.Currency,
		EndPadding: cfg.CoinGecko.EndPadding,
		Series:     series.Options{SnapToClosest: cfg.Analysis.SnapToClosest},
		Validator: calendar.Validator{
			Floor:        calendar.DataFloor,
			RejectFuture: cfg.Analysis.RejectFutureDates,
		},
	})

	logger.L().Debug().
		Str("fetcher", fetcher.Name()).
		Bool("persist", repo != nil).
		Bool("snap", cfg.Analysis.SnapToClosest).
		Msg("app initialized")

	return svc, cleanup, nil
}
