package calculator

import (
	"errors"

	"StockLens/internal/model"
)

// Windows used for the history chart overlays.
var DefaultWindows = []int{5, 20, 60}

// CalculateSMA computes the simple moving average of the last period prices.
func CalculateSMA(prices []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(prices) < period {
		return 0, errors.New("not enough data for SMA calculation")
	}
	sum := 0.0
	for i := len(prices) - period; i < len(prices); i++ {
		sum += prices[i]
	}
	return sum / float64(period), nil
}

// RollingSMA returns the trailing mean at every index. Entries are nil until
// the window holds period values.
func RollingSMA(prices []float64, period int) ([]*float64, error) {
	if period <= 0 {
		return nil, errors.New("period must be positive")
	}
	out := make([]*float64, len(prices))
	sum := 0.0
	for i, p := range prices {
		sum += p
		if i >= period {
			sum -= prices[i-period]
		}
		if i >= period-1 {
			avg := sum / float64(period)
			out[i] = &avg
		}
	}
	return out, nil
}

// MovingAverages computes a rolling close average for each window.
func MovingAverages(records []model.PriceRecord, windows []int) (map[int][]*float64, error) {
	closes := extractCloses(records)
	out := make(map[int][]*float64, len(windows))
	for _, w := range windows {
		ma, err := RollingSMA(closes, w)
		if err != nil {
			return nil, err
		}
		out[w] = ma
	}
	return out, nil
}

func extractCloses(records []model.PriceRecord) []float64 {
	closes := make([]float64, len(records))
	for i, r := range records {
		closes[i] = r.Close
	}
	return closes
}
