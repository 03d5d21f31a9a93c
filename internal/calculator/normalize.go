package calculator

import "StockLens/internal/model"

// Base is the value every rebased series starts at.
const Base = 100.0

// DropNulls removes missing observations, keeping order.
func DropNulls(points []model.Point) []model.Point {
	out := make([]model.Point, 0, len(points))
	for _, p := range points {
		if p.Value != nil {
			out = append(out, p)
		}
	}
	return out
}

// Rebase scales a series so its first non-null value equals 100.
// An empty result means the series had no valid data and should be excluded.
func Rebase(points []model.Point) []model.Point {
	clean := DropNulls(points)
	if len(clean) == 0 {
		return clean
	}
	base := *clean[0].Value
	if base == 0 {
		return nil
	}
	out := make([]model.Point, len(clean))
	for i, p := range clean {
		out[i] = model.Point{Date: p.Date, Value: model.Float(*p.Value / base * Base)}
	}
	return out
}
