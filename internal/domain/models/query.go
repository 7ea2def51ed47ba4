package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/guttosm/coinpulse/internal/calendar"
)

// Query is one analysis request as given on the command line.
//
// Defaults are applied with creasty/defaults and constraints are checked with
// go-playground/validator before any network call. A zero Principal means
// "not given"; the CLI rejects an explicit 0 before building the query.
type Query struct {
	CoinID    string        `validate:"required,coinid"`
	Begin     calendar.Date `validate:"-"`
	End       calendar.Date `validate:"-"`
	Principal int           `default:"1000" validate:"gt=0"`
	Format    string        `default:"text" validate:"oneof=text json yaml"`
}

// Result is everything produced for one query.
type Result struct {
	RunID        uuid.UUID
	Query        Query
	URL          string
	BeginUnix    int64
	EndUnix      int64
	ResponseSize int
	Series       *DailySeries
	Decline      DeclineReport
	Volume       VolumeReport
	Trade        TradeReport
	Warnings     []string
	CreatedAt    time.Time
}
