package dto

// Report is the machine-readable form of one analysis, written by
// `-format json` and `-format yaml`.
//
// Dates are formatted as yyyy-mm-dd and day indices are not exposed.
type Report struct {
	RunID        string   `json:"run_id" yaml:"run_id"`
	Coin         string   `json:"coin" yaml:"coin"`
	DateBegin    string   `json:"date_begin" yaml:"date_begin"`
	DateEnd      string   `json:"date_end" yaml:"date_end"`
	BeginUnix    int64    `json:"begin_unix" yaml:"begin_unix"`
	EndUnix      int64    `json:"end_unix" yaml:"end_unix"`
	Days         int      `json:"days" yaml:"days"`
	ReceivedDays int      `json:"received_days" yaml:"received_days"`
	Granularity  string   `json:"granularity" yaml:"granularity"`
	ResponseSize int      `json:"response_size" yaml:"response_size"`
	Decline      Decline  `json:"longest_decline" yaml:"longest_decline"`
	Volume       Volume   `json:"peak_volume" yaml:"peak_volume"`
	Trade        Trade    `json:"best_trade" yaml:"best_trade"`
	Warnings     []string `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// Decline is the longest bear trend.
type Decline struct {
	Days  int    `json:"days" yaml:"days"`
	Start string `json:"start" yaml:"start"`
	End   string `json:"end" yaml:"end"`
}

// Volume is the day with the highest trading volume.
type Volume struct {
	Date   string  `json:"date" yaml:"date"`
	Volume float64 `json:"volume" yaml:"volume"`
}

// Trade is the best buy/sell pair. Only Found and Principal are set when
// no profitable trade exists.
type Trade struct {
	Found     bool    `json:"found" yaml:"found"`
	BuyDate   string  `json:"buy_date,omitempty" yaml:"buy_date,omitempty"`
	SellDate  string  `json:"sell_date,omitempty" yaml:"sell_date,omitempty"`
	BuyPrice  float64 `json:"buy_price,omitempty" yaml:"buy_price,omitempty"`
	SellPrice float64 `json:"sell_price,omitempty" yaml:"sell_price,omitempty"`
	Diff      float64 `json:"diff,omitempty" yaml:"diff,omitempty"`
	Principal int     `json:"principal" yaml:"principal"`
	Profit    float64 `json:"profit,omitempty" yaml:"profit,omitempty"`
	ROIPct    float64 `json:"roi_pct,omitempty" yaml:"roi_pct,omitempty"`
}
