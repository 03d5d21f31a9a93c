package model

import "time"

// Mode selects how close prices are presented in a comparison.
type Mode string

const (
	ModeNormalized Mode = "normalized"
	ModeAbsolute   Mode = "absolute"
)

// ParseMode maps user input onto a Mode. Unknown values fall back to normalized.
func ParseMode(s string) Mode {
	switch Mode(s) {
	case ModeAbsolute, "close":
		return ModeAbsolute
	default:
		return ModeNormalized
	}
}

// Column is one labelled series entering the comparison frame.
type Column struct {
	Label  string
	Points []Point
}

// Frame is a date-indexed table with one value column per symbol.
type Frame struct {
	Dates  []time.Time
	Labels []string
	Values [][]*float64 // Values[row][column]
}

// Column returns the values of the column with the given label.
func (f *Frame) Column(label string) []*float64 {
	idx := -1
	for i, l := range f.Labels {
		if l == label {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}
	out := make([]*float64, len(f.Values))
	for i, row := range f.Values {
		out[i] = row[idx]
	}
	return out
}

// SummaryRow holds per-symbol aggregate statistics.
type SummaryRow struct {
	Label              string  `json:"label"`
	Code               string  `json:"code"`
	StartClose         float64 `json:"start_close"`
	EndClose           float64 `json:"end_close"`
	PeriodReturnPct    float64 `json:"period_return_pct"`
	DailyVolatilityPct float64 `json:"daily_volatility_pct"`
}

// Extreme marks a notable close on a chart.
type Extreme struct {
	Date  time.Time `json:"date"`
	Close float64   `json:"close"`
}

// Extremes are the highest, lowest and most recent closes of a series.
type Extremes struct {
	High Extreme `json:"high"`
	Low  Extreme `json:"low"`
	Last Extreme `json:"last"`
}
