package collector

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"StockLens/internal/model"
)

// Fetcher retrieves daily price history for a ticker code.
// start and end are inclusive YYYYMMDD dates. An empty result is not an error.
type Fetcher interface {
	FetchHistory(ctx context.Context, code, start, end string) ([]model.PriceRecord, error)
	Name() string
}

// newHTTPClient builds a client with optional proxy support.
func newHTTPClient(proxyURL string) *http.Client {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &http.Client{
		Timeout:   30 * time.Second,
		Transport: transport,
	}
}

// parseDay parses a YYYYMMDD date at UTC midnight.
func parseDay(s string) (time.Time, error) {
	return time.Parse(model.DateLayout, s)
}

// unixLocal converts a unix timestamp to the exchange's wall clock.
func unixLocal(ts, gmtOffset int64) time.Time {
	return time.Unix(ts+gmtOffset, 0).UTC()
}
