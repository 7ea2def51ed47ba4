package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/guttosm/coinpulse/internal/analysis"
	"github.com/guttosm/coinpulse/internal/calendar"
	"github.com/guttosm/coinpulse/internal/chart"
	"github.com/guttosm/coinpulse/internal/coingecko"
	"github.com/guttosm/coinpulse/internal/domain/models"
	"github.com/guttosm/coinpulse/internal/logger"
	"github.com/guttosm/coinpulse/internal/series"
	"github.com/guttosm/coinpulse/internal/storage"
)

var (
	// ErrInvalidQuery wraps request validation failures other than dates.
	ErrInvalidQuery = errors.New("invalid query")
	// ErrNoData is returned when the upstream had nothing usable for the range.
	ErrNoData = errors.New("invalid response or no data")
)

// minResponseSize is the smallest body that can hold a market chart.
const minResponseSize = 100

var coinIDPattern = regexp.MustCompile(`^[a-z0-9-]+$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("coinid", func(fl validator.FieldLevel) bool {
		return coinIDPattern.MatchString(fl.Field().String())
	})
	return v
}

// AnalysisService defines the fetch → build → analyze pipeline for one query.
type AnalysisService interface {
	Analyze(ctx context.Context, q models.Query) (*models.Result, error)
}

// Options configure an analysisService.
type Options struct {
	BaseURL    string
	Currency   string
	EndPadding time.Duration
	Series     series.Options
	Validator  calendar.Validator
	Now        func() time.Time
}

type analysisService struct {
	fetcher coingecko.Fetcher
	repo    storage.RunsRepository
	opts    Options
}

// NewAnalysisService wires the pipeline. repo may be nil to skip persistence.
func NewAnalysisService(fetcher coingecko.Fetcher, repo storage.RunsRepository, opts Options) AnalysisService {
	if opts.BaseURL == "" {
		opts.BaseURL = coingecko.DefaultBaseURL
	}
	if opts.Currency == "" {
		opts.Currency = "eur"
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Validator.Floor == (calendar.Date{}) {
		opts.Validator.Floor = calendar.DataFloor
	}
	return &analysisService{fetcher: fetcher, repo: repo, opts: opts}
}

// PrepareQuery applies defaults and validates q. Date problems wrap
// calendar.ErrInvalidDate, everything else ErrInvalidQuery.
func PrepareQuery(q *models.Query) error {
	if err := defaults.Set(q); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidQuery, err)
	}
	if err := validate.Struct(q); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("%w: %s failed on %q", ErrInvalidQuery, fe.Field(), fe.Tag())
		}
		return fmt.Errorf("%w: %v", ErrInvalidQuery, err)
	}
	return nil
}

// Analyze validates the query, fetches the market chart, builds the daily
// series and runs the three analyses. An InsufficientData condition is
// reported in Result.Warnings, not as an error.
func (s *analysisService) Analyze(ctx context.Context, q models.Query) (*models.Result, error) {
	if err := PrepareQuery(&q); err != nil {
		return nil, err
	}
	days, err := s.opts.Validator.DaysBetween(q.Begin, q.End)
	if err != nil {
		return nil, err
	}

	res := &models.Result{
		RunID:     uuid.New(),
		Query:     q,
		BeginUnix: calendar.Timestamp(q.Begin),
		EndUnix:   calendar.Timestamp(q.End) + int64(s.opts.EndPadding/time.Second),
		CreatedAt: s.opts.Now().UTC(),
	}
	res.URL = coingecko.MarketChartRangeURL(s.opts.BaseURL, q.CoinID, s.opts.Currency, res.BeginUnix, res.EndUnix)

	log := logger.L().With().Str("run_id", res.RunID.String()).Str("coin", q.CoinID).Logger()
	log.Info().Str("begin", q.Begin.String()).Str("end", q.End.String()).Uint32("days", days).Str("fetcher", s.fetcher.Name()).Msg("analysis start")
	if calendar.Spans(q.Begin, q.End, calendar.KnownGap) {
		log.Warn().Str("gap", calendar.KnownGap.String()).Msg("range spans a day missing upstream; values around it are informational")
	}

	body, err := s.fetcher.Fetch(ctx, res.URL)
	if err != nil {
		return nil, fmt.Errorf("fetch market chart: %w", err)
	}
	res.ResponseSize = len(body)
	if len(body) < minResponseSize {
		return nil, fmt.Errorf("%w: %w (%d bytes)", chart.ErrParse, ErrNoData, len(body))
	}

	granularity := series.DetectGranularity(len(body), int(days))
	log.Info().Str("granularity", string(granularity)).Int("bytes_per_day", len(body)/int(days)).Msg("data format detected")

	tree, err := chart.Parse(body)
	if err != nil {
		return nil, fmt.Errorf("parse market chart: %w", err)
	}

	daily, err := series.Build(q.Begin, int(days), tree, granularity, s.opts.Series)
	if err != nil {
		if !errors.Is(err, series.ErrInsufficientData) {
			return nil, fmt.Errorf("build series: %w", err)
		}
		log.Warn().Err(err).Int("received", daily.Len()).Msg("series shortened")
		res.Warnings = append(res.Warnings, "warning: "+err.Error())
	}
	res.Series = daily
	if daily.Len() == 0 {
		return nil, fmt.Errorf("%w: no samples for %s..%s", ErrNoData, q.Begin, q.End)
	}

	if res.Decline, err = analysis.LongestDecline(daily.Price); err != nil {
		return nil, err
	}
	if res.Volume, err = analysis.PeakVolume(daily.Volume); err != nil {
		return nil, err
	}
	if res.Trade, err = analysis.BestTrade(daily.Price); err != nil {
		return nil, err
	}

	s.persist(res)
	log.Info().Int("decline_days", res.Decline.Days).Bool("trade_found", res.Trade.Found).Msg("analysis done")
	return res, nil
}

// persist stores the run when a repository is configured. Failures are
// logged; the reports are still produced.
func (s *analysisService) persist(res *models.Result) {
	if s.repo == nil {
		return
	}
	log := logger.L().With().Str("run_id", res.RunID.String()).Logger()
	if err := s.repo.SaveRun(res); err != nil {
		log.Warn().Err(err).Msg("persist run failed")
		res.Warnings = append(res.Warnings, "warning: run not stored: "+err.Error())
		return
	}
	log.Debug().Int("days", res.Series.Len()).Msg("run stored")
}
