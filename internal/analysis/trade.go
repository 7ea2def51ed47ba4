package analysis

import (
	"github.com/guttosm/coinpulse/internal/domain/models"
	"github.com/guttosm/coinpulse/internal/logger"
)

// candidate is a buy point that has not been paired with a sell day yet.
type candidate struct {
	day   int
	price float64
}

// tradeState is the value folded over the days: the cheapest buy seen so far
// and the best closed pair.
type tradeState struct {
	open  candidate
	best  models.TradePair
	found bool
}

// step advances the fold by one day without mutating s.
func (s tradeState) step(day int, price float64) tradeState {
	next := s
	if profit := price - s.open.price; profit > 0 && (!s.found || profit > s.best.Profit()) {
		next.best = models.TradePair{
			BuyDay:    s.open.day,
			SellDay:   day,
			BuyPrice:  s.open.price,
			SellPrice: price,
		}
		next.found = true
		logger.L().Debug().
			Int("buy_day", s.open.day).
			Int("sell_day", day).
			Float64("profit", profit).
			Msg("new best pair")
	}
	if price < s.open.price {
		next.open = candidate{day: day, price: price}
		logger.L().Debug().Int("day", day).Float64("price", price).Msg("new minimum")
	}
	return next
}

// BestTrade finds the buy day and later sell day with the highest profit.
// Found is false when no day is priced above an earlier one. Ties keep the
// earliest pair.
func BestTrade(price []float64) (models.TradeReport, error) {
	if len(price) == 0 {
		return models.TradeReport{}, ErrEmptySeries
	}

	state := tradeState{open: candidate{day: 0, price: price[0]}}
	for day := 1; day < len(price); day++ {
		state = state.step(day, price[day])
	}
	return models.TradeReport{Found: state.found, Trade: state.best}, nil
}

// ROI returns the profit and the return in percent of investing principal
// at the buy price and selling everything at the sell price.
func ROI(principal float64, p models.TradePair) (profit, pct float64) {
	if principal <= 0 || p.BuyPrice <= 0 {
		return 0, 0
	}
	units := principal / p.BuyPrice
	profit = units * (p.SellPrice - p.BuyPrice)
	return profit, profit / principal * 100
}
