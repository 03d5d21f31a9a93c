package collector

import (
	"context"
	"sync"

	"StockLens/internal/model"
)

// StaticFetcher serves fixed in-memory histories, for development and tests.
type StaticFetcher struct {
	mu      sync.Mutex
	series  map[string][]model.PriceRecord
	errs    map[string]error
	calls   int
	byCodes map[string]int
}

// NewStaticFetcher creates a fetcher over the given per-code histories.
func NewStaticFetcher(series map[string][]model.PriceRecord) *StaticFetcher {
	if series == nil {
		series = map[string][]model.PriceRecord{}
	}
	return &StaticFetcher{
		series:  series,
		errs:    map[string]error{},
		byCodes: map[string]int{},
	}
}

func (s *StaticFetcher) Name() string { return "static" }

// Fail makes every fetch for code return err.
func (s *StaticFetcher) Fail(code string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errs[code] = err
}

// Calls returns the total number of fetches served.
func (s *StaticFetcher) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// CallsFor returns the number of fetches for one code.
func (s *StaticFetcher) CallsFor(code string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.byCodes[code]
}

func (s *StaticFetcher) FetchHistory(_ context.Context, code, start, end string) ([]model.PriceRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	s.byCodes[code]++
	if err := s.errs[code]; err != nil {
		return nil, err
	}

	from, err := parseDay(start)
	if err != nil {
		return nil, err
	}
	to, err := parseDay(end)
	if err != nil {
		return nil, err
	}
	var out []model.PriceRecord
	for _, r := range s.series[code] {
		d := model.Day(r.Date)
		if d.Before(from) || d.After(to) {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}
