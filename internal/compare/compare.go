// Package compare runs the request pipeline: symbols are resolved and loaded
// one at a time in input order, then aligned and summarized.
package compare

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"StockLens/internal/apperr"
	"StockLens/internal/calculator"
	"StockLens/internal/metrics"
	"StockLens/internal/model"
)

const (
	MinSymbols = 2
	MaxSymbols = 3
)

// Resolver maps user input to a ticker code.
type Resolver interface {
	Resolve(ctx context.Context, input string) (string, error)
}

// Loader retrieves a price series for an inclusive YYYYMMDD range.
type Loader interface {
	Load(ctx context.Context, code, start, end string) (*model.PriceSeries, error)
}

// Service wires the resolver and loader into the comparison pipeline.
type Service struct {
	Resolver Resolver
	Loader   Loader
	Now      func() time.Time

	logger  *zap.Logger
	metrics *metrics.Metrics
}

// NewService creates a Service.
func NewService(r Resolver, l Loader, logger *zap.Logger, m *metrics.Metrics) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{Resolver: r, Loader: l, Now: time.Now, logger: logger, metrics: m}
}

// Request is one comparison as entered by the user.
type Request struct {
	Symbols []string
	Start   string // YYYYMMDD or YYYY-MM-DD, blank for the default range
	End     string
	Mode    model.Mode
}

// Item is a symbol that survived resolution and loading.
type Item struct {
	Label  string
	Code   string
	Series *model.PriceSeries
}

// Result is everything the presentation layer needs.
type Result struct {
	Start    string
	End      string
	Mode     model.Mode
	Items    []Item
	Frame    *model.Frame
	Summary  []model.SummaryRow
	Warnings []string
}

// NormalizeSymbols trims inputs, drops blanks and removes duplicates while
// preserving first-occurrence order.
func NormalizeSymbols(raw []string) []string {
	seen := make(map[string]struct{}, len(raw))
	out := make([]string, 0, len(raw))
	for _, s := range raw {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

// ValidateSymbols checks the symbol count before any network access.
func ValidateSymbols(symbols []string) error {
	switch n := len(symbols); {
	case n == 0:
		return apperr.Validation("enter at least %d symbols to compare", MinSymbols)
	case n < MinSymbols:
		return apperr.Validation("at least %d symbols are required to compare, got %d", MinSymbols, n)
	case n > MaxSymbols:
		return apperr.Validation("at most %d symbols can be compared, got %d", MaxSymbols, n)
	}
	return nil
}

// Compare runs the pipeline. Unresolvable symbols and symbols without data
// are dropped with a warning; directory and provider failures abort.
func (s *Service) Compare(ctx context.Context, req Request) (res *Result, err error) {
	defer func() { s.observe("compare", err) }()

	symbols := NormalizeSymbols(req.Symbols)
	if err := ValidateSymbols(symbols); err != nil {
		return nil, err
	}
	start, end, err := ResolveRange(req.Start, req.End, s.Now())
	if err != nil {
		return nil, err
	}
	mode := req.Mode
	if mode == "" {
		mode = model.ModeNormalized
	}

	res = &Result{Start: start, End: end, Mode: mode}
	var dropped error
	for _, label := range symbols {
		code, err := s.Resolver.Resolve(ctx, label)
		if err != nil {
			if errors.Is(err, apperr.ErrNotFound) {
				res.Warnings = append(res.Warnings, err.Error())
				dropped = multierr.Append(dropped, err)
				continue
			}
			return nil, err
		}
		series, err := s.Loader.Load(ctx, code, start, end)
		if err != nil {
			return nil, err
		}
		if series.Empty() {
			msg := fmt.Sprintf("%s (%s): no price data between %s and %s, excluded", label, code, start, end)
			res.Warnings = append(res.Warnings, msg)
			dropped = multierr.Append(dropped, errors.New(msg))
			continue
		}
		res.Items = append(res.Items, Item{Label: label, Code: code, Series: series})
	}

	columns := make([]model.Column, 0, len(res.Items))
	kept := res.Items[:0]
	for _, it := range res.Items {
		closes := it.Series.Closes()
		var points []model.Point
		if mode == model.ModeNormalized {
			points = calculator.Rebase(closes)
		} else {
			points = calculator.DropNulls(closes)
		}
		if len(points) == 0 {
			msg := fmt.Sprintf("%s (%s): no valid close prices, excluded", it.Label, it.Code)
			res.Warnings = append(res.Warnings, msg)
			dropped = multierr.Append(dropped, errors.New(msg))
			continue
		}
		row, err := calculator.Summarize(it.Label, it.Code, closes)
		if err != nil {
			msg := fmt.Sprintf("%s (%s): %v, excluded", it.Label, it.Code, err)
			res.Warnings = append(res.Warnings, msg)
			dropped = multierr.Append(dropped, errors.New(msg))
			continue
		}
		kept = append(kept, it)
		columns = append(columns, model.Column{Label: it.Label, Points: points})
		res.Summary = append(res.Summary, row)
	}
	res.Items = kept

	if len(res.Items) < MinSymbols {
		return nil, apperr.ValidationWrap(dropped,
			"fewer than %d symbols have data to compare; check the symbols and the period", MinSymbols)
	}

	res.Frame = calculator.Align(columns)
	calculator.SortByReturn(res.Summary)

	s.logger.Info("comparison completed",
		zap.Strings("symbols", symbols),
		zap.String("start", start),
		zap.String("end", end),
		zap.String("mode", string(mode)),
		zap.Int("rows", len(res.Frame.Dates)),
		zap.Int("warnings", len(res.Warnings)),
	)
	return res, nil
}

func (s *Service) observe(op string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
		if k, ok := apperr.KindOf(err); ok {
			result = string(k)
		}
		s.logger.Warn("pipeline failed", zap.String("operation", op), zap.Error(err))
	}
	s.metrics.ObservePipeline(op, result)
}
