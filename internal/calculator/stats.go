package calculator

import (
	"errors"
	"math"
	"sort"

	"github.com/shopspring/decimal"

	"StockLens/internal/model"
)

// PctChange returns the one-step fractional changes v[i]/v[i-1]-1.
func PctChange(values []float64) []float64 {
	if len(values) < 2 {
		return nil
	}
	out := make([]float64, 0, len(values)-1)
	for i := 1; i < len(values); i++ {
		out = append(out, values[i]/values[i-1]-1)
	}
	return out
}

// SampleStdDev is the n-1 standard deviation. Fewer than two samples yield 0.
func SampleStdDev(values []float64) float64 {
	n := len(values)
	if n < 2 {
		return 0
	}
	mean := 0.0
	for _, v := range values {
		mean += v
	}
	mean /= float64(n)
	ss := 0.0
	for _, v := range values {
		d := v - mean
		ss += d * d
	}
	return math.Sqrt(ss / float64(n-1))
}

// PeriodReturnPct is the percentage change from first to last.
func PeriodReturnPct(first, last float64) float64 {
	return (last/first - 1) * 100
}

// DailyVolatilityPct is the sample deviation of daily changes, in percent.
func DailyVolatilityPct(closes []float64) float64 {
	return SampleStdDev(PctChange(closes)) * 100
}

// Round2 rounds half away from zero to two decimals.
func Round2(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}

// Summarize computes the summary row from a symbol's own close series.
// Nulls are dropped first; the join and any rebasing play no part.
func Summarize(label, code string, closes []model.Point) (model.SummaryRow, error) {
	clean := DropNulls(closes)
	if len(clean) == 0 {
		return model.SummaryRow{}, errors.New("no close prices")
	}
	values := make([]float64, len(clean))
	for i, p := range clean {
		values[i] = *p.Value
	}
	first, last := values[0], values[len(values)-1]
	if first == 0 {
		return model.SummaryRow{}, errors.New("first close is zero")
	}
	return model.SummaryRow{
		Label:              label,
		Code:               code,
		StartClose:         Round2(first),
		EndClose:           Round2(last),
		PeriodReturnPct:    Round2(PeriodReturnPct(first, last)),
		DailyVolatilityPct: Round2(DailyVolatilityPct(values)),
	}, nil
}

// SortByReturn orders rows by period return, highest first. Ties keep input order.
func SortByReturn(rows []model.SummaryRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].PeriodReturnPct > rows[j].PeriodReturnPct
	})
}
