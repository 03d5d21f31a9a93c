package calculator

import (
	"sort"
	"time"

	"StockLens/internal/model"
)

// Align outer-joins the columns on their dates. Every date present in any
// column becomes a row; cells a column lacks stay nil. Column order follows
// the input and rows are sorted by date ascending.
func Align(columns []model.Column) *model.Frame {
	frame := &model.Frame{Labels: make([]string, len(columns))}

	rowOf := make(map[time.Time]int)
	var dates []time.Time
	for _, col := range columns {
		for _, p := range col.Points {
			d := model.Day(p.Date)
			if _, ok := rowOf[d]; !ok {
				rowOf[d] = len(dates)
				dates = append(dates, d)
			}
		}
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	for i, d := range dates {
		rowOf[d] = i
	}

	frame.Dates = dates
	frame.Values = make([][]*float64, len(dates))
	for i := range frame.Values {
		frame.Values[i] = make([]*float64, len(columns))
	}
	for c, col := range columns {
		frame.Labels[c] = col.Label
		for _, p := range col.Points {
			if p.Value == nil {
				continue
			}
			v := *p.Value
			frame.Values[rowOf[model.Day(p.Date)]][c] = &v
		}
	}
	return frame
}
