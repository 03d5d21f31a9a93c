package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"StockLens/internal/compare"
	"StockLens/internal/model"
)

func day(d int) time.Time { return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC) }

func sampleResult() *compare.Result {
	return &compare.Result{
		Start: "20240101",
		End:   "20240131",
		Mode:  model.ModeNormalized,
		Frame: &model.Frame{
			Dates:  []time.Time{day(2), day(3)},
			Labels: []string{"삼성전자", "SK하이닉스"},
			Values: [][]*float64{
				{model.Float(100), nil},
				{model.Float(103), model.Float(100)},
			},
		},
		Summary: []model.SummaryRow{
			{Label: "삼성전자", Code: "005930", StartClose: 100, EndClose: 103, PeriodReturnPct: 3, DailyVolatilityPct: 0},
			{Label: "SK하이닉스", Code: "000660", StartClose: 50, EndClose: 50, PeriodReturnPct: 0, DailyVolatilityPct: 0},
		},
	}
}

func TestFileNames(t *testing.T) {
	if got := CompareFileName("20240101", "20240131"); got != "stock_compare_20240101_20240131.xlsx" {
		t.Errorf("CompareFileName = %q", got)
	}
	if got := HistoryFileName("삼성전자", "20240101", "20240131"); got != "삼성전자_20240101_20240131.xlsx" {
		t.Errorf("HistoryFileName = %q", got)
	}
	if got := HistoryFileName("a/b c", "1", "2"); got != "a_b_c_1_2.xlsx" {
		t.Errorf("HistoryFileName sanitize = %q", got)
	}
}

func TestWriteCompare(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCompare(&buf, sampleResult()); err != nil {
		t.Fatalf("WriteCompare: %v", err)
	}
	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) != 2 || sheets[0] != SheetCompare || sheets[1] != SheetSummary {
		t.Fatalf("sheets = %v", sheets)
	}

	rows, err := f.GetRows(SheetCompare)
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d", len(rows))
	}
	if rows[0][1] != "삼성전자" || rows[0][2] != "SK하이닉스" {
		t.Errorf("header = %v", rows[0])
	}
	if rows[1][0] != "2024-01-02" {
		t.Errorf("date cell = %q", rows[1][0])
	}
	if len(rows[1]) > 2 && rows[1][2] != "" {
		t.Errorf("missing value should be blank, got %q", rows[1][2])
	}
	if rows[2][1] != "103" {
		t.Errorf("value cell = %q", rows[2][1])
	}

	summary, err := f.GetRows(SheetSummary)
	if err != nil {
		t.Fatalf("GetRows summary: %v", err)
	}
	if len(summary) != 3 || summary[1][1] != "005930" || summary[1][4] != "3" {
		t.Errorf("summary = %v", summary)
	}
}

func TestWriteHistory(t *testing.T) {
	vol := 1200.0
	h := &compare.History{
		Label: "삼성전자",
		Code:  "005930",
		Series: &model.PriceSeries{Code: "005930", Records: []model.PriceRecord{
			{Date: day(2), Open: 1, High: 2, Low: 1, Close: 2, Volume: &vol},
			{Date: day(3), Open: 2, High: 3, Low: 2, Close: 3},
		}},
	}
	var buf bytes.Buffer
	if err := WriteHistory(&buf, h); err != nil {
		t.Fatalf("WriteHistory: %v", err)
	}
	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(SheetPrices)
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	if len(rows[0]) != 6 || rows[0][5] != "volume" {
		t.Errorf("header = %v", rows[0])
	}
	if rows[1][5] != "1200" {
		t.Errorf("volume = %q", rows[1][5])
	}
}
