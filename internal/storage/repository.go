package storage

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	pq "github.com/lib/pq"

	"github.com/guttosm/coinpulse/internal/domain/models"
)

// RunsRepository defines contract for DB operations.
type RunsRepository interface {
	SaveRun(res *models.Result) error
	CountRuns(coinID string) (int, error)
}

type runsRepository struct {
	db *sql.DB
}

func NewRunsRepository(db *sql.DB) RunsRepository {
	return &runsRepository{db: db}
}

// SaveRun stores the run row and its daily series in a single transaction.
func (r *runsRepository) SaveRun(res *models.Result) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}

	if err := insertRun(tx, res); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("insert run: %w", err)
	}
	if err := copyDailySeries(tx, res.RunID, res.Series); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("copy daily series: %w", err)
	}

	return tx.Commit()
}

// insertRun stores the three exercise results of one analysis.
// Buy/sell columns stay NULL when no profitable trade was found.
func insertRun(tx *sql.Tx, res *models.Result) error {
	s := res.Series
	date := func(i int) time.Time { return s.DateAt(i).Time() }

	var buyDate, sellDate, buyPrice, sellPrice interface{}
	if res.Trade.Found {
		buyDate = date(res.Trade.Trade.BuyDay)
		sellDate = date(res.Trade.Trade.SellDay)
		buyPrice = res.Trade.Trade.BuyPrice
		sellPrice = res.Trade.Trade.SellPrice
	}

	_, err := tx.Exec(`
		INSERT INTO analysis_runs (
			id, coin_id, date_begin, date_end, granularity, requested_days, received_days,
			decline_days, decline_start, decline_end, peak_volume_date, peak_volume,
			trade_found, buy_date, sell_date, buy_price, sell_price, principal, created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19)
	`,
		res.RunID,
		res.Query.CoinID,
		res.Query.Begin.Time(),
		res.Query.End.Time(),
		string(s.Granularity),
		s.Requested,
		s.Len(),
		res.Decline.Days,
		date(res.Decline.StartDay),
		date(res.Decline.EndDay),
		date(res.Volume.Day),
		res.Volume.Volume,
		res.Trade.Found,
		buyDate,
		sellDate,
		buyPrice,
		sellPrice,
		res.Query.Principal,
		res.CreatedAt,
	)
	return err
}

// copyDailySeries bulk-loads the daily values of a run with COPY.
func copyDailySeries(tx *sql.Tx, runID uuid.UUID, s *models.DailySeries) error {
	if s.Len() == 0 {
		return nil
	}

	stmt, err := tx.Prepare(pq.CopyIn(
		"daily_series",
		"run_id",
		"day_index",
		"day",
		"sample_ts",
		"price",
		"volume",
		"market_cap",
	))
	if err != nil {
		return err
	}

	for i := 0; i < s.Len(); i++ {
		if _, err := stmt.Exec(
			runID.String(),
			i,
			s.DateAt(i).Time(),
			s.Timestamps[i],
			s.Price[i],
			s.Volume[i],
			s.MarketCap[i],
		); err != nil {
			_ = stmt.Close()
			return err
		}
	}

	if _, err := stmt.Exec(); err != nil {
		_ = stmt.Close()
		return err
	}
	return stmt.Close()
}

// CountRuns returns how many runs were stored for a coin.
func (r *runsRepository) CountRuns(coinID string) (int, error) {
	var n int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM analysis_runs WHERE coin_id = $1`, coinID).Scan(&n)
	if err != nil {
		return 0, err
	}
	return n, nil
}
