package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/redis/go-redis/v9"

	"github.com/guttosm/coinpulse/config"
	"github.com/guttosm/coinpulse/internal/calendar"
	"github.com/guttosm/coinpulse/internal/domain/models"
)

func baseConfig(url string) config.Config {
	return config.Config{
		CoinGecko: config.CoinGeckoConfig{BaseURL: url, Timeout: 5 * time.Second, Currency: "eur", EndPadding: 6 * time.Hour},
		Cache:     config.CacheConfig{Addr: "127.0.0.1:1", TTL: time.Minute},
	}
}

func chartServer(t *testing.T) (*httptest.Server, *int) {
	t.Helper()
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		if r.URL.Path != "/coins/bitcoin/market_chart/range" || r.URL.Query().Get("vs_currency") != "eur" {
			http.NotFound(w, r)
			return
		}
		pts := func(a, b, c float64) string {
			return fmt.Sprintf("[[1609459200000,%g],[1609545600000,%g],[1609632000000,%g]]", a, b, c)
		}
		_, _ = fmt.Fprintf(w, `{"prices":%s,"market_caps":%s,"total_volumes":%s}`, pts(5, 4, 6), pts(5, 4, 6), pts(1, 9, 2))
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

var jan = models.Query{
	CoinID: "bitcoin",
	Begin:  calendar.Date{Year: 2021, Month: 1, Day: 1},
	End:    calendar.Date{Year: 2021, Month: 1, Day: 3},
}

func TestInitializeApp_EndToEnd(t *testing.T) {
	srv, hits := chartServer(t)

	svc, cleanup, err := InitializeApp(baseConfig(srv.URL))
	if err != nil || svc == nil || cleanup == nil {
		t.Fatalf("InitializeApp failed: %v", err)
	}
	defer cleanup()

	res, err := svc.Analyze(context.Background(), jan)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if *hits != 1 {
		t.Fatalf("hits=%d", *hits)
	}
	if res.Volume.Day != 1 || res.Decline.Days != 1 || !res.Trade.Found || res.Trade.Trade.SellDay != 2 {
		t.Fatalf("unexpected result %+v", res)
	}
}

// TestInitializeApp_DBFailure ensures InitializeApp returns error when DB cannot connect.
func TestInitializeApp_DBFailure(t *testing.T) {
	old := postgresOpener
	postgresOpener = func(config.Config) (*sql.DB, error) { return nil, errors.New("connection refused") }
	t.Cleanup(func() { postgresOpener = old })

	cfg := baseConfig("http://unused")
	cfg.Persist = true

	svc, cleanup, err := InitializeApp(cfg)
	if err == nil || svc != nil || cleanup != nil {
		if cleanup != nil {
			cleanup()
		}
		t.Fatalf("expected error from InitializeApp with invalid DB config")
	}
}

func TestInitializeApp_PersistHappyPath(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	mock.ExpectClose()

	old := postgresOpener
	postgresOpener = func(cfg config.Config) (*sql.DB, error) { return db, nil }
	t.Cleanup(func() { postgresOpener = old })

	cfg := baseConfig("http://unused")
	cfg.Persist = true

	svc, cleanup, err := InitializeApp(cfg)
	if err != nil || svc == nil || cleanup == nil {
		t.Fatalf("InitializeApp failed: %v", err)
	}

	cleanup()

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestInitializeApp_CacheUnavailableFallsBack(t *testing.T) {
	srv, hits := chartServer(t)

	old := redisOpener
	redisOpener = func(config.Config) (*redis.Client, error) { return nil, errors.New("redis down") }
	t.Cleanup(func() { redisOpener = old })

	cfg := baseConfig(srv.URL)
	cfg.Cache.Enabled = true

	svc, cleanup, err := InitializeApp(cfg)
	if err != nil {
		t.Fatalf("cache failures must not be fatal: %v", err)
	}
	defer cleanup()

	if _, err := svc.Analyze(context.Background(), jan); err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if *hits != 1 {
		t.Fatalf("hits=%d", *hits)
	}
}

func TestInitializeApp_CacheErrorsFallThrough(t *testing.T) {
	srv, hits := chartServer(t)

	// client that was never pinged: every GET/SET fails, requests still reach upstream
	old := redisOpener
	redisOpener = func(cfg config.Config) (*redis.Client, error) {
		return redis.NewClient(&redis.Options{Addr: cfg.Cache.Addr, DialTimeout: 200 * time.Millisecond, MaxRetries: -1}), nil
	}
	t.Cleanup(func() { redisOpener = old })

	cfg := baseConfig(srv.URL)
	cfg.Cache.Enabled = true

	svc, cleanup, err := InitializeApp(cfg)
	if err != nil {
		t.Fatalf("InitializeApp failed: %v", err)
	}
	defer cleanup()

	for i := 0; i < 2; i++ {
		if _, err := svc.Analyze(context.Background(), jan); err != nil {
			t.Fatalf("analyze #%d: %v", i, err)
		}
	}
	if *hits != 2 {
		t.Fatalf("expected both runs to hit upstream, hits=%d", *hits)
	}
}
