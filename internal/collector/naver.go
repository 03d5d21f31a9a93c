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

	"github.com/kaptinlin/jsonrepair"

	"StockLens/internal/model"
)

const naverBaseURL = "https://api.finance.naver.com"

// NaverFetcher reads daily candles from Naver Finance's chart endpoint.
// The endpoint answers with a JavaScript array literal rather than strict JSON.
type NaverFetcher struct {
	BaseURL string
	Client  *http.Client
}

// NewNaverFetcher creates a fetcher with optional proxy support.
// An empty baseURL selects the public endpoint.
func NewNaverFetcher(baseURL, proxyURL string) *NaverFetcher {
	if baseURL == "" {
		baseURL = naverBaseURL
	}
	return &NaverFetcher{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client:  newHTTPClient(proxyURL),
	}
}

func (f *NaverFetcher) Name() string { return "naver" }

func (f *NaverFetcher) FetchHistory(ctx context.Context, code, start, end string) ([]model.PriceRecord, error) {
	q := url.Values{}
	q.Set("symbol", code)
	q.Set("requestType", "1")
	q.Set("startTime", start)
	q.Set("endTime", end)
	q.Set("timeframe", "day")
	endpoint := f.BaseURL + "/siseJson.naver?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("naver fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("naver read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("naver: status %d, body: %s", resp.StatusCode, string(body))
	}
	return parseNaverRows(string(body))
}

// parseNaverRows decodes the sise array. The first row holds localized column
// names: date, open, high, low, close, volume, then optional extras.
func parseNaverRows(body string) ([]model.PriceRecord, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, nil
	}
	repaired, err := jsonrepair.JSONRepair(body)
	if err != nil {
		return nil, fmt.Errorf("naver repair payload: %w", err)
	}

	var rows [][]any
	if err := json.Unmarshal([]byte(repaired), &rows); err != nil {
		return nil, fmt.Errorf("naver decode: %w", err)
	}
	if len(rows) <= 1 {
		return nil, nil
	}

	records := make([]model.PriceRecord, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if len(row) < 5 {
			return nil, fmt.Errorf("naver: row %d has %d columns", i+1, len(row))
		}
		ds, ok := row[0].(string)
		if !ok {
			return nil, fmt.Errorf("naver: row %d date is %T", i+1, row[0])
		}
		d, err := parseDay(strings.TrimSpace(ds))
		if err != nil {
			return nil, fmt.Errorf("naver: row %d date: %w", i+1, err)
		}
		rec := model.PriceRecord{Date: d}
		fields := []*float64{&rec.Open, &rec.High, &rec.Low, &rec.Close}
		for j, dst := range fields {
			v, ok := row[j+1].(float64)
			if !ok {
				return nil, fmt.Errorf("naver: row %d column %d is %T", i+1, j+1, row[j+1])
			}
			*dst = v
		}
		if len(row) > 5 {
			if v, ok := row[5].(float64); ok {
				rec.Volume = model.Float(v)
			}
		}
		records = append(records, rec)
	}
	sort.Slice(records, func(i, j int) bool { return records[i].Date.Before(records[j].Date) })
	return records, nil
}
