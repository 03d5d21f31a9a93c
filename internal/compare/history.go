package compare

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"StockLens/internal/apperr"
	"StockLens/internal/calculator"
	"StockLens/internal/model"
)

// TailSize is how many recent rows the history view lists.
const TailSize = 10

// HistoryRequest asks for the price history of one symbol.
type HistoryRequest struct {
	Symbol string
	Start  string
	End    string
}

// History is the single-symbol view: raw records plus moving averages and
// the high, low and last closes.
type History struct {
	Label          string
	Code           string
	Start          string
	End            string
	Series         *model.PriceSeries
	Tail           []model.PriceRecord
	MovingAverages map[int][]*float64
	Extremes       model.Extremes
	Warnings       []string
}

// Empty reports whether the period had no trading data.
func (h *History) Empty() bool { return h.Series == nil || h.Series.Empty() }

// HasVolume reports whether volume can be charted.
func (h *History) HasVolume() bool { return h.Series != nil && h.Series.HasVolume() }

// History resolves and loads a single symbol. An empty period is not an
// error; the result carries a warning instead.
func (s *Service) History(ctx context.Context, req HistoryRequest) (h *History, err error) {
	defer func() { s.observe("history", err) }()

	label := strings.TrimSpace(req.Symbol)
	if label == "" {
		return nil, apperr.Validation("enter a company name or 6-digit code")
	}
	start, end, err := ResolveRange(req.Start, req.End, s.Now())
	if err != nil {
		return nil, err
	}
	code, err := s.Resolver.Resolve(ctx, label)
	if err != nil {
		return nil, err
	}
	series, err := s.Loader.Load(ctx, code, start, end)
	if err != nil {
		return nil, err
	}

	h = &History{Label: label, Code: code, Start: start, End: end, Series: series}
	if series.Empty() {
		h.Warnings = append(h.Warnings,
			fmt.Sprintf("%s (%s): no price data between %s and %s", label, code, start, end))
		return h, nil
	}

	h.Tail = calculator.Tail(series.Records, TailSize)
	if h.MovingAverages, err = calculator.MovingAverages(series.Records, calculator.DefaultWindows); err != nil {
		return nil, err
	}
	if h.Extremes, err = calculator.CloseExtremes(series.Records); err != nil {
		return nil, err
	}

	s.logger.Info("history loaded",
		zap.String("symbol", label),
		zap.String("code", code),
		zap.Int("rows", len(series.Records)),
	)
	return h, nil
}
