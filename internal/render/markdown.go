package render

import (
	"bytes"
	"fmt"

	md "github.com/nao1215/markdown"

	"StockLens/internal/compare"
	"StockLens/internal/model"
)

// CompareMarkdown formats a comparison as a markdown report: period, any
// warnings and the summary table ordered by return.
func CompareMarkdown(res *compare.Result) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Stock comparison")
	doc.PlainText(fmt.Sprintf("Period: %s | Mode: %s", Period(res.Start, res.End), res.Mode))

	if len(res.Warnings) > 0 {
		doc.H2("Warnings")
		doc.BulletList(res.Warnings...)
	}

	doc.H2("Summary")
	doc.Table(SummaryTable(res.Summary))
	return doc.String()
}

// SummaryTable lays out summary rows; prices in won, returns in percent.
func SummaryTable(rows []model.SummaryRow) md.TableSet {
	table := md.TableSet{
		Header: []string{"Symbol", "Code", "Start close", "End close", "Return", "Daily volatility"},
		Alignment: []md.TableAlignment{
			md.AlignLeft,
			md.AlignLeft,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
		},
	}
	for _, r := range rows {
		table.Rows = append(table.Rows, []string{
			r.Label,
			r.Code,
			KRW(r.StartClose),
			KRW(r.EndClose),
			Pct(r.PeriodReturnPct),
			fmt.Sprintf("%.2f%%", r.DailyVolatilityPct),
		})
	}
	return table
}

// HistoryMarkdown formats the single-symbol view.
func HistoryMarkdown(h *compare.History) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(fmt.Sprintf("%s (%s)", h.Label, h.Code))
	doc.PlainText("Period: " + Period(h.Start, h.End))

	if h.Empty() {
		doc.PlainText("No price data for the selected period.")
		return doc.String()
	}

	doc.H2("Key prices")
	doc.Table(md.TableSet{
		Header:    []string{"", "Date", "Close"},
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignLeft, md.AlignRight},
		Rows: [][]string{
			{"High", Date(h.Extremes.High.Date), KRW(h.Extremes.High.Close)},
			{"Low", Date(h.Extremes.Low.Date), KRW(h.Extremes.Low.Close)},
			{"Last", Date(h.Extremes.Last.Date), KRW(h.Extremes.Last.Close)},
		},
	})

	doc.H2(fmt.Sprintf("Last %d sessions", len(h.Tail)))
	table := md.TableSet{
		Header: []string{"Date", "Open", "High", "Low", "Close"},
		Alignment: []md.TableAlignment{
			md.AlignLeft,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
		},
	}
	withVolume := h.HasVolume()
	if withVolume {
		table.Header = append(table.Header, "Volume")
		table.Alignment = append(table.Alignment, md.AlignRight)
	}
	for _, r := range h.Tail {
		row := []string{Date(r.Date), KRW(r.Open), KRW(r.High), KRW(r.Low), KRW(r.Close)}
		if withVolume {
			row = append(row, Volume(r.Volume))
		}
		table.Rows = append(table.Rows, row)
	}
	doc.Table(table)
	return doc.String()
}
