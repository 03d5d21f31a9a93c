package render

import (
	"bytes"
	"net/url"
	"strings"
	"testing"
	"time"

	"StockLens/internal/compare"
	"StockLens/internal/model"
)

func day(d int) time.Time { return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC) }

func sampleResult() *compare.Result {
	return &compare.Result{
		Start:    "20240101",
		End:      "20240131",
		Mode:     model.ModeNormalized,
		Warnings: []string{"없는회사: not found"},
		Frame: &model.Frame{
			Dates:  []time.Time{day(2), day(3)},
			Labels: []string{"삼성전자", "000660"},
			Values: [][]*float64{{model.Float(100), model.Float(100)}, {model.Float(103), model.Float(90)}},
		},
		Summary: []model.SummaryRow{
			{Label: "삼성전자", Code: "005930", StartClose: 71000, EndClose: 73130, PeriodReturnPct: 3, DailyVolatilityPct: 1.25},
			{Label: "000660", Code: "000660", StartClose: 130000, EndClose: 117000, PeriodReturnPct: -10, DailyVolatilityPct: 2},
		},
	}
}

func TestFormatters(t *testing.T) {
	tests := []struct {
		got, want string
	}{
		{KRW(71000), "₩71,000"},
		{KRW(1234.6), "₩1,235"},
		{Pct(3), "+3.00%"},
		{Pct(-10.456), "-10.46%"},
		{Num(model.Float(102.999)), "103.00"},
		{Num(nil), "-"},
		{Volume(model.Float(1234567)), "1,234,567"},
		{Volume(nil), "-"},
		{Period("20240101", "20240131"), "2024-01-01 ~ 2024-01-31"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("got %q, want %q", tt.got, tt.want)
		}
	}
}

func TestCompareMarkdown(t *testing.T) {
	out := CompareMarkdown(sampleResult())
	for _, want := range []string{
		"# Stock comparison",
		"2024-01-01 ~ 2024-01-31",
		"없는회사: not found",
		"| 삼성전자",
		"₩71,000",
		"+3.00%",
		"-10.00%",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("markdown missing %q:\n%s", want, out)
		}
	}
	if strings.Index(out, "005930") > strings.Index(out, "| 000660") {
		t.Errorf("rows should keep summary order")
	}
}

func TestHistoryMarkdown(t *testing.T) {
	vol := 15000.0
	recs := []model.PriceRecord{
		{Date: day(2), Open: 70000, High: 71000, Low: 69000, Close: 70500, Volume: &vol},
		{Date: day(3), Open: 70500, High: 72000, Low: 70000, Close: 71500},
	}
	h := &compare.History{
		Label: "삼성전자", Code: "005930", Start: "20240101", End: "20240131",
		Series: &model.PriceSeries{Code: "005930", Records: recs},
		Tail:   recs,
		Extremes: model.Extremes{
			High: model.Extreme{Date: day(3), Close: 71500},
			Low:  model.Extreme{Date: day(2), Close: 70500},
			Last: model.Extreme{Date: day(3), Close: 71500},
		},
	}
	out := HistoryMarkdown(h)
	for _, want := range []string{"# 삼성전자 (005930)", "Last 2 sessions", "Volume", "15,000", "₩71,500", "2024-01-03"} {
		if !strings.Contains(out, want) {
			t.Errorf("markdown missing %q:\n%s", want, out)
		}
	}

	empty := HistoryMarkdown(&compare.History{Label: "x", Code: "000001", Series: &model.PriceSeries{}})
	if !strings.Contains(empty, "No price data") {
		t.Errorf("empty history = %q", empty)
	}
}

func TestAboutHTML(t *testing.T) {
	out, err := AboutHTML()
	if err != nil {
		t.Fatalf("AboutHTML: %v", err)
	}
	if !strings.Contains(out, "<h1>StockLens</h1>") || !strings.Contains(out, "<table>") {
		t.Errorf("unexpected html:\n%s", out)
	}
}

func TestTerminal(t *testing.T) {
	out, err := Terminal("# Title\n\nhello", "notty")
	if err != nil {
		t.Fatalf("Terminal: %v", err)
	}
	if !strings.Contains(out, "Title") || !strings.Contains(out, "hello") {
		t.Errorf("unexpected output %q", out)
	}
}

func TestDashboard(t *testing.T) {
	page := NewDashboardPage([]string{"삼성전자"}, "", "", "")
	var buf bytes.Buffer
	if err := Dashboard(&buf, page); err != nil {
		t.Fatalf("Dashboard: %v", err)
	}
	if n := strings.Count(buf.String(), `name="symbol"`); n != compare.MaxSymbols {
		t.Errorf("expected %d symbol inputs, got %d", compare.MaxSymbols, n)
	}
	if strings.Contains(buf.String(), "Download Excel") {
		t.Errorf("empty form should not show a result")
	}

	q := url.Values{"symbol": {"삼성전자", "000660"}}
	page, err := page.WithResult(sampleResult(), q)
	if err != nil {
		t.Fatalf("WithResult: %v", err)
	}
	buf.Reset()
	if err := Dashboard(&buf, page); err != nil {
		t.Fatalf("Dashboard: %v", err)
	}
	html := buf.String()
	for _, want := range []string{"/api/v1/compare.png?", "/api/v1/compare.xlsx?", "<table>", "없는회사: not found", `value="2024-01-01"`} {
		if !strings.Contains(html, want) {
			t.Errorf("dashboard missing %q", want)
		}
	}
}

func TestAboutPage(t *testing.T) {
	var buf bytes.Buffer
	if err := AboutPage(&buf); err != nil {
		t.Fatalf("AboutPage: %v", err)
	}
	if !strings.Contains(buf.String(), "<title>StockLens - About</title>") {
		t.Errorf("unexpected page title")
	}
}
