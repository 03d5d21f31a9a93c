package collector

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"StockLens/internal/apperr"
	"StockLens/internal/cache"
	"StockLens/internal/metrics"
	"StockLens/internal/model"
)

// DefaultTTL is how long a loaded series is reused for an identical request.
const DefaultTTL = 10 * time.Minute

type seriesKey struct {
	Code  string
	Start string
	End   string
}

// Loader retrieves price series through a Fetcher and memoizes them per
// exact (code, start, end) request.
type Loader struct {
	Fetcher Fetcher
	TTL     time.Duration

	cache   *cache.TTL[seriesKey, *model.PriceSeries]
	logger  *zap.Logger
	metrics *metrics.Metrics
}

// NewLoader creates a Loader. A zero ttl selects DefaultTTL.
func NewLoader(fetcher Fetcher, ttl time.Duration, logger *zap.Logger, m *metrics.Metrics, opts ...cache.Option) *Loader {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	opts = append([]cache.Option{cache.WithLogger(logger)}, opts...)
	if m != nil {
		opts = append(opts, cache.WithObserver(m))
	}
	return &Loader{
		Fetcher: fetcher,
		TTL:     ttl,
		cache:   cache.New[seriesKey, *model.PriceSeries]("prices", opts...),
		logger:  logger,
		metrics: m,
	}
}

// Load returns the daily series for code between start and end inclusive.
// A provider with no data yields an empty series. Failures are not retried.
func (l *Loader) Load(ctx context.Context, code, start, end string) (*model.PriceSeries, error) {
	from, err := parseDay(start)
	if err != nil {
		return nil, apperr.Validation("invalid start date %q, expected YYYYMMDD", start)
	}
	to, err := parseDay(end)
	if err != nil {
		return nil, apperr.Validation("invalid end date %q, expected YYYYMMDD", end)
	}
	if from.After(to) {
		return nil, apperr.Validation("start date %s is after end date %s", start, end)
	}

	key := seriesKey{Code: code, Start: start, End: end}
	return l.cache.GetOrFetch(ctx, key, l.TTL, func(ctx context.Context) (*model.PriceSeries, error) {
		started := time.Now()
		records, err := l.Fetcher.FetchHistory(ctx, code, start, end)
		l.metrics.ObserveFetch(l.Fetcher.Name(), started)
		if err != nil {
			l.logger.Error("price fetch failed",
				zap.String("source", l.Fetcher.Name()),
				zap.String("code", code),
				zap.String("start", start),
				zap.String("end", end),
				zap.Error(err),
			)
			return nil, apperr.Provider(code, fmt.Errorf("%s: %w", l.Fetcher.Name(), err))
		}

		series := &model.PriceSeries{Code: code, Start: start, End: end, Records: clip(records, from, to)}
		l.logger.Debug("price series loaded",
			zap.String("source", l.Fetcher.Name()),
			zap.String("code", code),
			zap.Int("records", len(series.Records)),
		)
		return series, nil
	})
}

// clip keeps records inside [from, to], normalized to calendar days and
// ordered ascending. Duplicate dates keep the last record seen.
func clip(records []model.PriceRecord, from, to time.Time) []model.PriceRecord {
	byDay := make(map[time.Time]int, len(records))
	out := make([]model.PriceRecord, 0, len(records))
	for _, r := range records {
		r.Date = model.Day(r.Date)
		if r.Date.Before(from) || r.Date.After(to) {
			continue
		}
		if i, ok := byDay[r.Date]; ok {
			out[i] = r
			continue
		}
		byDay[r.Date] = len(out)
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}
