package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/tidwall/pretty"
	"go.uber.org/zap"

	"StockLens/internal/collector"
	"StockLens/internal/compare"
	"StockLens/internal/config"
	"StockLens/internal/directory"
	"StockLens/internal/logging"
	"StockLens/internal/metrics"
	"StockLens/internal/model"
)

var configPath = flag.String("config", "", "Path to the YAML config (defaults to $CONFIG_PATH or configs/config.yaml)")

// app is the wired object graph shared by every subcommand.
type app struct {
	cfg      *config.Config
	logger   *zap.Logger
	metrics  *metrics.Metrics
	resolver *directory.Resolver
	loader   *collector.Loader
	service  *compare.Service
}

func newApp() (*app, error) {
	path := *configPath
	if path == "" {
		path = config.Path()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	logger, err := logging.New(logging.Options{Level: cfg.Log.Level, Format: cfg.Log.Format, File: cfg.Log.File})
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	m := metrics.New()

	var source directory.Source
	var fetcher collector.Fetcher
	switch cfg.DataSource.Kind {
	case config.SourceStatic:
		names, series := demoData(time.Now())
		source = directory.NewStaticSource(names)
		fetcher = collector.NewStaticFetcher(series)
	case config.SourceYahoo:
		source = directory.NewKRXSource(cfg.Directory.URL, cfg.Proxy)
		fetcher = collector.NewYahooFetcher(cfg.DataSource.BaseURL, cfg.Proxy)
	case config.SourceHistoryAPI:
		source = directory.NewKRXSource(cfg.Directory.URL, cfg.Proxy)
		fetcher = collector.NewHistoryAPIFetcher(cfg.DataSource.BaseURL, cfg.DataSource.APIKey, cfg.Proxy)
	default:
		source = directory.NewKRXSource(cfg.Directory.URL, cfg.Proxy)
		fetcher = collector.NewNaverFetcher(cfg.DataSource.BaseURL, cfg.Proxy)
	}
	logger.Info("data source selected",
		zap.String("prices", fetcher.Name()),
		zap.String("directory", source.Name()),
	)

	resolver := directory.NewResolver(source, directory.Options{
		TTL:        cfg.Directory.TTL,
		ServeStale: cfg.Directory.ServeStale,
		Logger:     logger.Named("directory"),
		Metrics:    m,
	})
	loader := collector.NewLoader(fetcher, cfg.DataSource.CacheTTL, logger.Named("prices"), m)
	svc := compare.NewService(resolver, loader, logger.Named("compare"), m)

	return &app{cfg: cfg, logger: logger, metrics: m, resolver: resolver, loader: loader, service: svc}, nil
}

func (a *app) close() { _ = a.logger.Sync() }

// printJSON writes v as indented JSON, colored when stdout is a terminal.
func printJSON(v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	out := pretty.Pretty(raw)
	if isTerminal(os.Stdout) {
		out = pretty.Color(out, nil)
	}
	_, err = os.Stdout.Write(out)
	return err
}

func isTerminal(f *os.File) bool {
	fi, err := f.Stat()
	return err == nil && fi.Mode()&os.ModeCharDevice != 0
}

// demoData is the offline dataset behind data_source.kind=static: four
// well-known tickers with a smooth synthetic close over the last two years.
func demoData(now time.Time) (map[string]string, map[string][]model.PriceRecord) {
	names := map[string]string{
		"삼성전자":   "005930",
		"SK하이닉스": "000660",
		"NAVER":  "035420",
		"카카오":    "035720",
	}
	bases := map[string]float64{"005930": 71000, "000660": 130000, "035420": 190000, "035720": 48000}
	phases := map[string]float64{"005930": 0, "000660": 1.3, "035420": 2.1, "035720": 3.7}

	series := make(map[string][]model.PriceRecord, len(bases))
	start := model.Day(now).AddDate(-2, 0, 0)
	for code, base := range bases {
		phase := phases[code]
		var recs []model.PriceRecord
		for i, d := 0, start; !d.After(model.Day(now)); d = d.AddDate(0, 0, 1) {
			if d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
				continue
			}
			x := float64(i)
			closeP := math.Round(base * (1 + 0.15*math.Sin(x/40+phase) + 0.0004*x))
			vol := math.Round(1e6 * (1.5 + math.Cos(x/7+phase)))
			recs = append(recs, model.PriceRecord{
				Date:   d,
				Open:   math.Round(closeP * 0.995),
				High:   math.Round(closeP * 1.01),
				Low:    math.Round(closeP * 0.985),
				Close:  closeP,
				Volume: &vol,
			})
			i++
		}
		series[code] = recs
	}
	return names, series
}
