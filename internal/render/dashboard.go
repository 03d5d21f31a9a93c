package render

import (
	"embed"
	"html/template"
	"io"
	"net/url"

	"StockLens/internal/compare"
	"StockLens/internal/model"
)

//go:embed assets/*.html
var templateFS embed.FS

var (
	dashboardTmpl = template.Must(template.ParseFS(templateFS, "assets/layout.html", "assets/dashboard.html"))
	aboutTmpl     = template.Must(template.ParseFS(templateFS, "assets/layout.html", "assets/about.html"))
)

// DashboardPage is the data behind the comparison form and its result.
type DashboardPage struct {
	Title       string
	Symbols     []string
	Start       string // YYYY-MM-DD for the date inputs
	End         string
	Mode        model.Mode
	Error       string
	HasResult   bool
	Warnings    []string
	SummaryHTML template.HTML
	ChartURL    string
	ExportURL   string
}

// NewDashboardPage prepares an empty form holding the submitted values.
func NewDashboardPage(symbols []string, start, end string, mode model.Mode) DashboardPage {
	padded := make([]string, compare.MaxSymbols)
	copy(padded, symbols)
	return DashboardPage{Symbols: padded, Start: start, End: end, Mode: mode}
}

// WithResult fills the result section. query is the encoded request the
// chart and export links repeat.
func (p DashboardPage) WithResult(res *compare.Result, query url.Values) (DashboardPage, error) {
	summary, err := HTML(CompareMarkdown(res))
	if err != nil {
		return p, err
	}
	q := query.Encode()
	p.HasResult = true
	p.Warnings = res.Warnings
	p.SummaryHTML = template.HTML(summary)
	p.ChartURL = "/api/v1/compare.png?" + q
	p.ExportURL = "/api/v1/compare.xlsx?" + q
	p.Start = dashed(res.Start)
	p.End = dashed(res.End)
	p.Mode = res.Mode
	return p, nil
}

// Dashboard writes the comparison page.
func Dashboard(w io.Writer, p DashboardPage) error {
	if p.Mode == "" {
		p.Mode = model.ModeNormalized
	}
	return dashboardTmpl.ExecuteTemplate(w, "layout", p)
}

// AboutPage writes the info page.
func AboutPage(w io.Writer) error {
	body, err := AboutHTML()
	if err != nil {
		return err
	}
	return aboutTmpl.ExecuteTemplate(w, "layout", struct {
		Title string
		Body  template.HTML
	}{"About", template.HTML(body)})
}
