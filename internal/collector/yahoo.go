package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"StockLens/internal/model"
)

const yahooBaseURL = "https://query1.finance.yahoo.com"

// YahooFetcher implements Fetcher using the Yahoo Finance chart API.
// KRX codes are tried on the KOSPI suffix first, then KOSDAQ.
type YahooFetcher struct {
	BaseURL  string
	Client   *http.Client
	Suffixes []string
}

// NewYahooFetcher creates a new Yahoo Finance fetcher.
func NewYahooFetcher(baseURL, proxyURL string) *YahooFetcher {
	if baseURL == "" {
		baseURL = yahooBaseURL
	}
	return &YahooFetcher{
		BaseURL:  strings.TrimRight(baseURL, "/"),
		Client:   newHTTPClient(proxyURL),
		Suffixes: []string{".KS", ".KQ"},
	}
}

func (f *YahooFetcher) Name() string { return "yahoo" }

// yahooChart is the response structure from Yahoo Finance chart API.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Meta       struct {
				ExchangeTimezoneName string `json:"exchangeTimezoneName"`
				GMTOffset            int    `json:"gmtoffset"`
			} `json:"meta"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*float64 `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

func (f *YahooFetcher) FetchHistory(ctx context.Context, code, start, end string) ([]model.PriceRecord, error) {
	from, err := parseDay(start)
	if err != nil {
		return nil, fmt.Errorf("yahoo: start date: %w", err)
	}
	to, err := parseDay(end)
	if err != nil {
		return nil, fmt.Errorf("yahoo: end date: %w", err)
	}
	// period2 is exclusive
	to = to.AddDate(0, 0, 1)

	var lastErr error
	for _, suffix := range f.Suffixes {
		bars, err := f.fetchChart(ctx, code+suffix, from.Unix(), to.Unix())
		if err != nil {
			lastErr = err
			continue
		}
		if len(bars) > 0 {
			return bars, nil
		}
	}
	return nil, lastErr
}

func (f *YahooFetcher) fetchChart(ctx context.Context, symbol string, period1, period2 int64) ([]model.PriceRecord, error) {
	u := fmt.Sprintf("%s/v8/finance/chart/%s?interval=1d&period1=%s&period2=%s",
		f.BaseURL, url.PathEscape(symbol),
		strconv.FormatInt(period1, 10), strconv.FormatInt(period2, 10))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("yahoo fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("yahoo read body: %w", err)
	}
	if resp.StatusCode == http.StatusNotFound {
		// unknown symbol on this exchange
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("yahoo: status %d, body: %s", resp.StatusCode, string(body))
	}

	var chart yahooChart
	if err := json.Unmarshal(body, &chart); err != nil {
		return nil, fmt.Errorf("yahoo decode: %w", err)
	}
	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo api error: %s", chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, nil
	}

	result := chart.Chart.Result[0]
	quote := result.Indicators.Quote[0]
	offset := int64(result.Meta.GMTOffset)
	bars := make([]model.PriceRecord, 0, len(result.Timestamp))

	for i, ts := range result.Timestamp {
		c := at(quote.Close, i)
		if c == nil {
			continue // holidays and halted sessions
		}
		bar := model.PriceRecord{
			Date:   model.Day(unixLocal(ts, offset)),
			Close:  *c,
			Volume: at(quote.Volume, i),
		}
		if v := at(quote.Open, i); v != nil {
			bar.Open = *v
		}
		if v := at(quote.High, i); v != nil {
			bar.High = *v
		}
		if v := at(quote.Low, i); v != nil {
			bar.Low = *v
		}
		bars = append(bars, bar)
	}

	sort.Slice(bars, func(i, j int) bool { return bars[i].Date.Before(bars[j].Date) })
	return bars, nil
}

func at(values []*float64, i int) *float64 {
	if i >= len(values) {
		return nil
	}
	return values[i]
}
