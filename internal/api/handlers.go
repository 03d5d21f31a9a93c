package api

import (
	"bytes"
	"fmt"
	"mime"
	"net/http"
	"net/url"
	"strings"

	"StockLens/internal/apperr"
	"StockLens/internal/chart"
	"StockLens/internal/compare"
	"StockLens/internal/export"
	"StockLens/internal/model"
	"StockLens/internal/render"
)

func compareRequest(q url.Values) compare.Request {
	symbols := q["symbol"]
	// Also accept symbols=a,b,c.
	if v := q.Get("symbols"); v != "" {
		symbols = append(symbols, strings.Split(v, ",")...)
	}
	return compare.Request{
		Symbols: symbols,
		Start:   q.Get("start"),
		End:     q.Get("end"),
		Mode:    model.ParseMode(q.Get("mode")),
	}
}

func historyRequest(q url.Values) compare.HistoryRequest {
	return compare.HistoryRequest{Symbol: q.Get("symbol"), Start: q.Get("start"), End: q.Get("end")}
}

func (s *Server) resolve(w http.ResponseWriter, r *http.Request) {
	input := strings.TrimSpace(r.URL.Query().Get("q"))
	code, err := s.Resolver.Resolve(r.Context(), input)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeData(w, ResolveDTO{Input: input, Code: code})
}

func (s *Server) compareJSON(w http.ResponseWriter, r *http.Request) {
	res, err := s.Service.Compare(r.Context(), compareRequest(r.URL.Query()))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeData(w, NewCompareDTO(res))
}

func (s *Server) compareXLSX(w http.ResponseWriter, r *http.Request) {
	res, err := s.Service.Compare(r.Context(), compareRequest(r.URL.Query()))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var buf bytes.Buffer
	if err := export.WriteCompare(&buf, res); err != nil {
		s.writeError(w, r, fmt.Errorf("build workbook: %w", err))
		return
	}
	writeAttachment(w, export.ContentType, export.CompareFileName(res.Start, res.End), buf.Bytes())
}

func (s *Server) comparePNG(w http.ResponseWriter, r *http.Request) {
	res, err := s.Service.Compare(r.Context(), compareRequest(r.URL.Query()))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var buf bytes.Buffer
	if err := chart.Compare(&buf, res); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeImage(w, buf.Bytes())
}

func (s *Server) historyJSON(w http.ResponseWriter, r *http.Request) {
	h, err := s.Service.History(r.Context(), historyRequest(r.URL.Query()))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeData(w, NewHistoryDTO(h))
}

func (s *Server) historyXLSX(w http.ResponseWriter, r *http.Request) {
	h, err := s.Service.History(r.Context(), historyRequest(r.URL.Query()))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if h.Empty() {
		s.writeError(w, r, &apperr.Error{Kind: apperr.KindNotFound, Msg: h.Warnings[0]})
		return
	}
	var buf bytes.Buffer
	if err := export.WriteHistory(&buf, h); err != nil {
		s.writeError(w, r, fmt.Errorf("build workbook: %w", err))
		return
	}
	writeAttachment(w, export.ContentType, export.HistoryFileName(h.Label, h.Start, h.End), buf.Bytes())
}

func (s *Server) historyPNG(w http.ResponseWriter, r *http.Request) {
	h, err := s.Service.History(r.Context(), historyRequest(r.URL.Query()))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if h.Empty() {
		s.writeError(w, r, &apperr.Error{Kind: apperr.KindNotFound, Msg: h.Warnings[0]})
		return
	}
	var buf bytes.Buffer
	if err := chart.History(&buf, h); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeImage(w, buf.Bytes())
}

func (s *Server) dashboard(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := compareRequest(q)
	start, end := compare.DefaultRange(s.Now())
	if req.Start != "" {
		start = req.Start
	}
	if req.End != "" {
		end = req.End
	}
	page := render.NewDashboardPage(req.Symbols, dateInput(start), dateInput(end), req.Mode)

	status := http.StatusOK
	if len(compare.NormalizeSymbols(req.Symbols)) > 0 {
		res, err := s.Service.Compare(r.Context(), req)
		if err != nil {
			status = statusFor(err)
			page.Error = err.Error()
		} else if page, err = page.WithResult(res, q); err != nil {
			s.writeError(w, r, err)
			return
		}
	}

	var buf bytes.Buffer
	if err := render.Dashboard(&buf, page); err != nil {
		s.writeError(w, r, fmt.Errorf("render dashboard: %w", err))
		return
	}
	writeHTML(w, status, buf.Bytes())
}

func (s *Server) about(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := render.AboutPage(&buf); err != nil {
		s.writeError(w, r, fmt.Errorf("render about: %w", err))
		return
	}
	writeHTML(w, http.StatusOK, buf.Bytes())
}

// dateInput converts YYYYMMDD to the YYYY-MM-DD form date inputs expect.
func dateInput(s string) string {
	if d, err := compare.ParseDate(s); err == nil {
		return d[:4] + "-" + d[4:6] + "-" + d[6:]
	}
	return s
}

func writeHTML(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func writeImage(w http.ResponseWriter, body []byte) {
	w.Header().Set("Content-Type", chart.ContentType)
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(body)
}

func writeAttachment(w http.ResponseWriter, contentType, name string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))
	_, _ = w.Write(body)
}
