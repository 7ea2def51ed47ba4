// Package report renders an analysis result as text, JSON or YAML.
package report

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/guttosm/coinpulse/internal/analysis"
	"github.com/guttosm/coinpulse/internal/domain/dto"
	"github.com/guttosm/coinpulse/internal/domain/models"
)

const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

var ErrUnknownFormat = errors.New("unknown output format")

// FromResult maps a result to its report DTO.
func FromResult(res *models.Result) dto.Report {
	s := res.Series
	out := dto.Report{
		RunID:        res.RunID.String(),
		Coin:         res.Query.CoinID,
		DateBegin:    res.Query.Begin.String(),
		DateEnd:      res.Query.End.String(),
		BeginUnix:    res.BeginUnix,
		EndUnix:      res.EndUnix,
		Days:         s.Requested,
		ReceivedDays: s.Len(),
		Granularity:  string(s.Granularity),
		ResponseSize: res.ResponseSize,
		Decline: dto.Decline{
			Days:  res.Decline.Days,
			Start: s.DateAt(res.Decline.StartDay).String(),
			End:   s.DateAt(res.Decline.EndDay).String(),
		},
		Volume: dto.Volume{
			Date:   s.DateAt(res.Volume.Day).String(),
			Volume: res.Volume.Volume,
		},
		Trade:    dto.Trade{Found: res.Trade.Found, Principal: res.Query.Principal},
		Warnings: res.Warnings,
	}
	if res.Trade.Found {
		p := res.Trade.Trade
		profit, pct := analysis.ROI(float64(res.Query.Principal), p)
		out.Trade.BuyDate = s.DateAt(p.BuyDay).String()
		out.Trade.SellDate = s.DateAt(p.SellDay).String()
		out.Trade.BuyPrice = p.BuyPrice
		out.Trade.SellPrice = p.SellPrice
		out.Trade.Diff = p.Profit()
		out.Trade.Profit = profit
		out.Trade.ROIPct = pct
	}
	return out
}

// Write renders res to w in the given format.
func Write(w io.Writer, format string, res *models.Result) error {
	switch format {
	case FormatText, "":
		_, err := io.WriteString(w, Text(res))
		return err
	case FormatJSON:
		return writeJSON(w, FromResult(res))
	case FormatYAML:
		return writeYAML(w, FromResult(res))
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// WriteError renders a failed run. Text output is a single line.
func WriteError(w io.Writer, format string, err error) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, dto.NewErrorResponse("analysis failed", err))
	case FormatYAML:
		return writeYAML(w, dto.NewErrorResponse("analysis failed", err))
	default:
		_, werr := fmt.Fprintf(w, "error: %v\n", err)
		return werr
	}
}

// Text builds the human readable report.
func Text(res *models.Result) string {
	r := FromResult(res)
	var b strings.Builder

	fmt.Fprintf(&b, "coin: %s\n", r.Coin)
	fmt.Fprintf(&b, "begin date: %s (%d)\n", r.DateBegin, r.BeginUnix)
	fmt.Fprintf(&b, "end date: %s (%d)\n", r.DateEnd, r.EndUnix)
	fmt.Fprintf(&b, "days: %d (granularity: %s, %d bytes)\n", r.Days, r.Granularity, r.ResponseSize)
	for _, w := range r.Warnings {
		b.WriteString(w)
		b.WriteByte('\n')
	}

	b.WriteString("\nExercise A\n")
	fmt.Fprintf(&b, "Longest bear trend of %d days between %s and %s\n", r.Decline.Days, r.Decline.Start, r.Decline.End)

	b.WriteString("\nExercise B\n")
	fmt.Fprintf(&b, "Highest trading volume %f on %s\n", r.Volume.Volume, r.Volume.Date)

	b.WriteString("\nExercise C\n")
	if !r.Trade.Found {
		b.WriteString("No opportunity for hodling but consider shorting if you're not afraid of margin calls!\n")
		return b.String()
	}
	fmt.Fprintf(&b, "Dates for the best deal at %.2f pct ROI (diff: %.2f)\n", r.Trade.ROIPct, r.Trade.Diff)
	fmt.Fprintf(&b, "            Buy on: %s\tSell on: %s\n", r.Trade.BuyDate, r.Trade.SellDate)
	fmt.Fprintf(&b, "Profit on %d invested: %.2f\n", r.Trade.Principal, r.Trade.Profit)
	return b.String()
}

func writeJSON(w io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}

func writeYAML(w io.Writer, v interface{}) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return enc.Close()
}
