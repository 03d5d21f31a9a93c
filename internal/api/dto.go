package api

import (
	"strconv"
	"time"

	"StockLens/internal/compare"
	"StockLens/internal/model"
)

type ResolveDTO struct {
	Input string `json:"input"`
	Code  string `json:"code"`
}

type SymbolDTO struct {
	Label string `json:"label"`
	Code  string `json:"code"`
}

type FrameRowDTO struct {
	Date   string     `json:"date"`
	Values []*float64 `json:"values"`
}

type CompareDTO struct {
	Start    string             `json:"start"`
	End      string             `json:"end"`
	Mode     model.Mode         `json:"mode"`
	Symbols  []SymbolDTO        `json:"symbols"`
	Columns  []string           `json:"columns"`
	Rows     []FrameRowDTO      `json:"rows"`
	Summary  []model.SummaryRow `json:"summary"`
	Warnings []string           `json:"warnings"`
}

type RecordDTO struct {
	Date   string   `json:"date"`
	Open   float64  `json:"open"`
	High   float64  `json:"high"`
	Low    float64  `json:"low"`
	Close  float64  `json:"close"`
	Volume *float64 `json:"volume,omitempty"`
}

type ExtremeDTO struct {
	Date  string  `json:"date"`
	Close float64 `json:"close"`
}

type HistoryDTO struct {
	Label          string                `json:"label"`
	Code           string                `json:"code"`
	Start          string                `json:"start"`
	End            string                `json:"end"`
	Empty          bool                  `json:"empty"`
	HasVolume      bool                  `json:"has_volume"`
	Records        []RecordDTO           `json:"records"`
	Tail           []RecordDTO           `json:"tail"`
	MovingAverages map[string][]*float64 `json:"moving_averages,omitempty"`
	Extremes       map[string]ExtremeDTO `json:"extremes,omitempty"`
	Warnings       []string              `json:"warnings"`
}

func day(t time.Time) string { return t.Format(time.DateOnly) }

// NewCompareDTO flattens a comparison result for JSON output.
func NewCompareDTO(res *compare.Result) CompareDTO {
	out := CompareDTO{
		Start:    res.Start,
		End:      res.End,
		Mode:     res.Mode,
		Columns:  res.Frame.Labels,
		Summary:  res.Summary,
		Warnings: nonNil(res.Warnings),
	}
	for _, it := range res.Items {
		out.Symbols = append(out.Symbols, SymbolDTO{Label: it.Label, Code: it.Code})
	}
	out.Rows = make([]FrameRowDTO, len(res.Frame.Dates))
	for i, d := range res.Frame.Dates {
		out.Rows[i] = FrameRowDTO{Date: day(d), Values: res.Frame.Values[i]}
	}
	return out
}

// NewHistoryDTO flattens a history for JSON output.
func NewHistoryDTO(h *compare.History) HistoryDTO {
	out := HistoryDTO{
		Label:     h.Label,
		Code:      h.Code,
		Start:     h.Start,
		End:       h.End,
		Empty:     h.Empty(),
		HasVolume: h.HasVolume(),
		Records:   []RecordDTO{},
		Tail:      records(h.Tail),
		Warnings:  nonNil(h.Warnings),
	}
	if h.Series != nil {
		out.Records = records(h.Series.Records)
	}
	if !out.Empty {
		out.MovingAverages = make(map[string][]*float64, len(h.MovingAverages))
		for w, values := range h.MovingAverages {
			out.MovingAverages["ma"+strconv.Itoa(w)] = values
		}
		out.Extremes = map[string]ExtremeDTO{
			"high": {Date: day(h.Extremes.High.Date), Close: h.Extremes.High.Close},
			"low":  {Date: day(h.Extremes.Low.Date), Close: h.Extremes.Low.Close},
			"last": {Date: day(h.Extremes.Last.Date), Close: h.Extremes.Last.Close},
		}
	}
	return out
}

func records(in []model.PriceRecord) []RecordDTO {
	out := make([]RecordDTO, len(in))
	for i, r := range in {
		out[i] = RecordDTO{Date: day(r.Date), Open: r.Open, High: r.High, Low: r.Low, Close: r.Close, Volume: r.Volume}
	}
	return out
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
