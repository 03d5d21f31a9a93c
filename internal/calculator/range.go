package calculator

import (
	"errors"

	"StockLens/internal/model"
)

// CloseExtremes returns the highest, lowest and last close of the records.
// Ties resolve to the earliest occurrence.
func CloseExtremes(records []model.PriceRecord) (model.Extremes, error) {
	if len(records) == 0 {
		return model.Extremes{}, errors.New("no records provided")
	}
	first := records[0]
	ext := model.Extremes{
		High: model.Extreme{Date: first.Date, Close: first.Close},
		Low:  model.Extreme{Date: first.Date, Close: first.Close},
	}
	for _, r := range records[1:] {
		if r.Close > ext.High.Close {
			ext.High = model.Extreme{Date: r.Date, Close: r.Close}
		}
		if r.Close < ext.Low.Close {
			ext.Low = model.Extreme{Date: r.Date, Close: r.Close}
		}
	}
	last := records[len(records)-1]
	ext.Last = model.Extreme{Date: last.Date, Close: last.Close}
	return ext, nil
}

// Tail returns the last n records, or all of them when fewer exist.
func Tail(records []model.PriceRecord, n int) []model.PriceRecord {
	if n <= 0 {
		return nil
	}
	if len(records) <= n {
		return records
	}
	return records[len(records)-n:]
}
