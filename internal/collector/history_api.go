package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"StockLens/internal/model"
)

// HistoryAPIFetcher reads daily bars from a self-hosted history service exposing
// GET /api/v1/stock/hist/range (dates as YYYY-MM-DD, JSON envelope {"data": [...]}).
type HistoryAPIFetcher struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

// NewHistoryAPIFetcher creates a new fetcher with optional proxy support.
func NewHistoryAPIFetcher(baseURL, apiKey, proxyURL string) *HistoryAPIFetcher {
	return &HistoryAPIFetcher{
		BaseURL: strings.TrimRight(baseURL, "/"),
		APIKey:  apiKey,
		Client:  newHTTPClient(proxyURL),
	}
}

func (f *HistoryAPIFetcher) Name() string { return "history_api" }

// histBar is the expected JSON shape of one daily row.
type histBar struct {
	Date   string   `json:"date"`
	Code   string   `json:"code"`
	Open   float64  `json:"open"`
	High   float64  `json:"high"`
	Low    float64  `json:"low"`
	Close  float64  `json:"close"`
	Volume *float64 `json:"volume"`
}

const histPageLimit = 5000

func (f *HistoryAPIFetcher) FetchHistory(ctx context.Context, code, start, end string) ([]model.PriceRecord, error) {
	from, err := parseDay(start)
	if err != nil {
		return nil, fmt.Errorf("history api: start date: %w", err)
	}
	to, err := parseDay(end)
	if err != nil {
		return nil, fmt.Errorf("history api: end date: %w", err)
	}

	q := url.Values{}
	q.Set("code", code)
	q.Set("start_date", from.Format(time.DateOnly))
	q.Set("end_date", to.Format(time.DateOnly))
	q.Set("frequency", "daily")
	q.Set("limit", fmt.Sprint(histPageLimit))
	endpoint := f.BaseURL + "/api/v1/stock/hist/range?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	if f.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+f.APIKey)
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch bars: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("fetch bars: status %d, body: %s", resp.StatusCode, string(body))
	}

	var envelope struct {
		Data []histBar `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("decode bars: %w", err)
	}

	bars := make([]model.PriceRecord, 0, len(envelope.Data))
	for _, hb := range envelope.Data {
		d, err := parseHistDate(hb.Date)
		if err != nil {
			return nil, fmt.Errorf("decode bars: %w", err)
		}
		bars = append(bars, model.PriceRecord{
			Date:   d,
			Open:   hb.Open,
			High:   hb.High,
			Low:    hb.Low,
			Close:  hb.Close,
			Volume: hb.Volume,
		})
	}
	// Ensure chronological order
	sort.Slice(bars, func(i, j int) bool { return bars[i].Date.Before(bars[j].Date) })
	return bars, nil
}

// parseHistDate accepts YYYY-MM-DD (optionally followed by a time) or YYYYMMDD.
func parseHistDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if len(s) >= 10 && s[4] == '-' && s[7] == '-' {
		return time.Parse(time.DateOnly, s[:10])
	}
	return parseDay(s)
}
