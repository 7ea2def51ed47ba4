package models

// TradePair is a buy day followed (or matched) by a sell day.
type TradePair struct {
	BuyDay    int
	SellDay   int
	BuyPrice  float64
	SellPrice float64
}

// Profit is the price difference per unit.
func (p TradePair) Profit() float64 {
	return p.SellPrice - p.BuyPrice
}

// DeclineReport is the longest run of strictly decreasing daily prices.
// Days counts the decreasing steps, StartDay and EndDay are day indices.
type DeclineReport struct {
	Days     int
	StartDay int
	EndDay   int
}

// VolumeReport is the day with the highest trading volume.
type VolumeReport struct {
	Day    int
	Volume float64
}

// TradeReport is the best buy/sell pair, if any trade was profitable.
type TradeReport struct {
	Found bool
	Trade TradePair
}
