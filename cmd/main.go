package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/guttosm/coinpulse/config"
	"github.com/guttosm/coinpulse/internal/app"
	"github.com/guttosm/coinpulse/internal/calendar"
	"github.com/guttosm/coinpulse/internal/domain/models"
	"github.com/guttosm/coinpulse/internal/logger"
	"github.com/guttosm/coinpulse/internal/report"
	"github.com/guttosm/coinpulse/internal/service"
)

const (
	exitOK    = 0
	exitFatal = 1
	exitUsage = 2
)

const usageLine = "usage: coinpulse [flags] <coin_id> <date_begin> <date_end> [principal]"

// main is the entry point of the coinpulse CLI.
//
// Arguments:
//   - coin_id:    CoinGecko coin id, e.g. "bitcoin".
//   - date_begin: first day of the range, yyyy-mm-dd (UTC).
//   - date_end:   last day of the range, inclusive.
//   - principal:  amount invested for the ROI figure. Default: 1000.
//
// Flags override the matching config keys; see run.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	// Load configuration from environment or .env file
	config.LoadConfig()

	// Initialize JSON logger (stderr)
	logger.Init()

	code := run(ctx, config.AppConfig, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes one analysis and returns the process exit status.
//
// Flags:
//   - -format:        text, json or yaml. Default: "text".
//   - -v:             debug tracing of the series builder and analyzers.
//   - -persist:       store the run in PostgreSQL (PERSIST_ENABLED).
//   - -snap:          pick the sample closest to midnight (SNAP_TO_CLOSEST).
//   - -reject-future: reject dates after today UTC (REJECT_FUTURE_DATES).
func run(ctx context.Context, cfg config.Config, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("coinpulse", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		_, _ = fmt.Fprintln(stderr, usageLine)
		fs.PrintDefaults()
	}

	format := fs.String("format", report.FormatText, "Output format: text, json or yaml")
	verbose := fs.Bool("v", false, "Verbose debug logging on stderr")
	persist := fs.Bool("persist", cfg.Persist, "Store the run in PostgreSQL")
	snap := fs.Bool("snap", cfg.Analysis.SnapToClosest, "Use the sample closest to midnight for each day")
	rejectFuture := fs.Bool("reject-future", cfg.Analysis.RejectFutureDates, "Reject dates in the future (UTC)")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}

	rest := fs.Args()
	if len(rest) < 3 || len(rest) > 4 {
		fs.Usage()
		return exitUsage
	}

	q := models.Query{CoinID: rest[0], Format: *format}
	var err error
	if q.Begin, err = calendar.Parse(rest[1]); err != nil {
		code := fail(stderr, *format, fmt.Errorf("date_begin: %w", err))
		fs.Usage()
		return code
	}
	if q.End, err = calendar.Parse(rest[2]); err != nil {
		code := fail(stderr, *format, fmt.Errorf("date_end: %w", err))
		fs.Usage()
		return code
	}
	// an explicit principal must be positive; only an omitted one defaults to 1000
	if len(rest) == 4 {
		if q.Principal, err = strconv.Atoi(rest[3]); err != nil || q.Principal <= 0 {
			_, _ = fmt.Fprintf(stderr, "error: principal must be a positive integer: %q\n", rest[3])
			fs.Usage()
			return exitUsage
		}
	}

	logger.SetVerbose(*verbose)
	cfg.Persist = *persist
	cfg.Analysis.SnapToClosest = *snap
	cfg.Analysis.RejectFutureDates = *rejectFuture

	svc, cleanup, err := app.InitializeApp(cfg)
	if err != nil {
		return fail(stderr, *format, err)
	}
	defer cleanup()

	res, err := svc.Analyze(ctx, q)
	if err != nil {
		return fail(stderr, *format, err)
	}

	if err := report.Write(stdout, res.Query.Format, res); err != nil {
		return fail(stderr, *format, err)
	}
	return exitOK
}

// fail reports err on stderr. Invalid queries are usage errors.
func fail(stderr io.Writer, format string, err error) int {
	logger.L().Error().Err(err).Msg("analysis failed")
	if werr := report.WriteError(stderr, format, err); werr != nil {
		_, _ = fmt.Fprintf(stderr, "error: %v\n", err)
	}
	if errors.Is(err, service.ErrInvalidQuery) {
		return exitUsage
	}
	return exitFatal
}
