// Package export writes comparison and history results as xlsx workbooks.
package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"StockLens/internal/compare"
	"StockLens/internal/model"
)

const (
	SheetCompare = "compare"
	SheetSummary = "summary"
	SheetPrices  = "prices"

	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	dateFormat = "yyyy-mm-dd"
)

// CompareFileName is the download name of a comparison workbook.
func CompareFileName(start, end string) string {
	return fmt.Sprintf("stock_compare_%s_%s.xlsx", start, end)
}

// HistoryFileName is the download name of a single-symbol workbook.
func HistoryFileName(label, start, end string) string {
	return fmt.Sprintf("%s_%s_%s.xlsx", safeName(label), start, end)
}

func safeName(s string) string {
	s = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|', ' ':
			return '_'
		}
		return r
	}, strings.TrimSpace(s))
	if s == "" {
		return "stock"
	}
	return s
}

// CompareWorkbook builds the two-sheet workbook: the aligned frame and the
// summary table.
func CompareWorkbook(res *compare.Result) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetCompare); err != nil {
		f.Close()
		return nil, err
	}
	if _, err := f.NewSheet(SheetSummary); err != nil {
		f.Close()
		return nil, err
	}
	dateStyle, err := newDateStyle(f)
	if err != nil {
		f.Close()
		return nil, err
	}

	header := make([]any, 0, len(res.Frame.Labels)+1)
	header = append(header, "date")
	for _, l := range res.Frame.Labels {
		header = append(header, l)
	}
	if err := f.SetSheetRow(SheetCompare, "A1", &header); err != nil {
		f.Close()
		return nil, err
	}
	for i, d := range res.Frame.Dates {
		row := make([]any, 0, len(header))
		row = append(row, d)
		for _, v := range res.Frame.Values[i] {
			row = append(row, cellValue(v))
		}
		if err := setRow(f, SheetCompare, i+2, row); err != nil {
			f.Close()
			return nil, err
		}
	}
	if n := len(res.Frame.Dates); n > 0 {
		if err := f.SetCellStyle(SheetCompare, "A2", fmt.Sprintf("A%d", n+1), dateStyle); err != nil {
			f.Close()
			return nil, err
		}
	}
	_ = f.SetColWidth(SheetCompare, "A", "A", 12)

	summaryHeader := []any{"label", "code", "start_close", "end_close", "period_return_pct", "daily_volatility_pct"}
	if err := f.SetSheetRow(SheetSummary, "A1", &summaryHeader); err != nil {
		f.Close()
		return nil, err
	}
	for i, s := range res.Summary {
		row := []any{s.Label, s.Code, s.StartClose, s.EndClose, s.PeriodReturnPct, s.DailyVolatilityPct}
		if err := setRow(f, SheetSummary, i+2, row); err != nil {
			f.Close()
			return nil, err
		}
	}
	return f, nil
}

// HistoryWorkbook builds a single "prices" sheet of the raw records.
func HistoryWorkbook(h *compare.History) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetPrices); err != nil {
		f.Close()
		return nil, err
	}
	dateStyle, err := newDateStyle(f)
	if err != nil {
		f.Close()
		return nil, err
	}

	header := []any{"date", "open", "high", "low", "close"}
	withVolume := h.HasVolume()
	if withVolume {
		header = append(header, "volume")
	}
	if err := f.SetSheetRow(SheetPrices, "A1", &header); err != nil {
		f.Close()
		return nil, err
	}
	var records []model.PriceRecord
	if h.Series != nil {
		records = h.Series.Records
	}
	for i, r := range records {
		row := []any{r.Date, r.Open, r.High, r.Low, r.Close}
		if withVolume {
			row = append(row, cellValue(r.Volume))
		}
		if err := setRow(f, SheetPrices, i+2, row); err != nil {
			f.Close()
			return nil, err
		}
	}
	if n := len(records); n > 0 {
		if err := f.SetCellStyle(SheetPrices, "A2", fmt.Sprintf("A%d", n+1), dateStyle); err != nil {
			f.Close()
			return nil, err
		}
	}
	_ = f.SetColWidth(SheetPrices, "A", "A", 12)
	return f, nil
}

// WriteCompare streams the comparison workbook to w.
func WriteCompare(w io.Writer, res *compare.Result) error {
	f, err := CompareWorkbook(res)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.WriteTo(w)
	return err
}

// WriteHistory streams the history workbook to w.
func WriteHistory(w io.Writer, h *compare.History) error {
	f, err := HistoryWorkbook(h)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.WriteTo(w)
	return err
}

// SaveCompare writes the comparison workbook to path.
func SaveCompare(path string, res *compare.Result) error {
	f, err := CompareWorkbook(res)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.SaveAs(path)
}

// SaveHistory writes the history workbook to path.
func SaveHistory(path string, h *compare.History) error {
	f, err := HistoryWorkbook(h)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.SaveAs(path)
}

func newDateStyle(f *excelize.File) (int, error) {
	format := dateFormat
	return f.NewStyle(&excelize.Style{CustomNumFmt: &format})
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}

// cellValue leaves missing observations as blank cells.
func cellValue(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}
