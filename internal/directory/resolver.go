package directory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"StockLens/internal/apperr"
	"StockLens/internal/cache"
	"StockLens/internal/metrics"
	"StockLens/internal/model"
)

// DefaultTTL is the refresh cadence of the directory snapshot.
const DefaultTTL = 12 * time.Hour

const snapshotKey = "listing"

// Resolver maps company names or codes to ticker codes.
type Resolver struct {
	Source Source
	TTL    time.Duration

	clock   cache.Clock
	cache   *cache.TTL[string, *model.Listing]
	logger  *zap.Logger
	metrics *metrics.Metrics
}

// Options tune a Resolver.
type Options struct {
	TTL        time.Duration
	ServeStale bool
	Clock      cache.Clock
	Logger     *zap.Logger
	Metrics    *metrics.Metrics
}

// NewResolver creates a Resolver over source.
func NewResolver(source Source, o Options) *Resolver {
	if o.TTL <= 0 {
		o.TTL = DefaultTTL
	}
	if o.Clock == nil {
		o.Clock = cache.SystemClock
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	opts := []cache.Option{
		cache.WithClock(o.Clock),
		cache.WithServeStale(o.ServeStale),
		cache.WithLogger(o.Logger),
	}
	if o.Metrics != nil {
		opts = append(opts, cache.WithObserver(o.Metrics))
	}
	return &Resolver{
		Source:  source,
		TTL:     o.TTL,
		clock:   o.Clock,
		cache:   cache.New[string, *model.Listing]("directory", opts...),
		logger:  o.Logger,
		metrics: o.Metrics,
	}
}

// Resolve returns the ticker code for input. A six-digit input is returned
// unchanged without consulting the directory; anything else must match a
// company name exactly.
func (r *Resolver) Resolve(ctx context.Context, input string) (string, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return "", apperr.Validation("symbol is empty")
	}
	if IsCode(s) {
		return s, nil
	}

	listing, err := r.Snapshot(ctx)
	if err != nil {
		return "", err
	}
	code, ok := listing.Lookup(s)
	if !ok {
		return "", apperr.NotFound(s)
	}
	return code, nil
}

// Snapshot returns the cached listing, fetching a fresh one once it is older than TTL.
func (r *Resolver) Snapshot(ctx context.Context) (*model.Listing, error) {
	return r.cache.GetOrFetch(ctx, snapshotKey, r.TTL, r.fetch)
}

// Refresh fetches a new listing regardless of age. On failure the cached
// snapshot, if any, is left in place.
func (r *Resolver) Refresh(ctx context.Context) error {
	listing, err := r.fetch(ctx)
	if err != nil {
		return err
	}
	r.cache.Put(snapshotKey, listing)
	return nil
}

func (r *Resolver) fetch(ctx context.Context) (*model.Listing, error) {
	started := time.Now()
	rows, err := r.Source.FetchListing(ctx)
	r.metrics.ObserveFetch(r.Source.Name(), started)
	if err != nil {
		r.logger.Error("directory fetch failed", zap.String("source", r.Source.Name()), zap.Error(err))
		return nil, apperr.DirectoryUnavailable(err)
	}
	if len(rows) == 0 {
		return nil, apperr.DirectoryUnavailable(fmt.Errorf("%s: listing is empty", r.Source.Name()))
	}
	listing := BuildListing(rows, r.clock.Now(), r.logger)
	r.logger.Info("directory snapshot refreshed",
		zap.String("source", r.Source.Name()),
		zap.Int("companies", listing.Len()),
	)
	return listing, nil
}

// BuildListing enforces the snapshot invariants: every code is six digits,
// names and codes are unique. The first occurrence of a duplicate wins.
func BuildListing(rows []model.ListedCompany, fetchedAt time.Time, logger *zap.Logger) *model.Listing {
	if logger == nil {
		logger = zap.NewNop()
	}
	seenName := make(map[string]string, len(rows))
	seenCode := make(map[string]string, len(rows))
	kept := make([]model.ListedCompany, 0, len(rows))
	for _, c := range rows {
		c.Name = strings.TrimSpace(c.Name)
		c.Code = strings.TrimSpace(c.Code)
		if !IsCode(c.Code) {
			logger.Warn("dropping listing row with invalid code", zap.String("name", c.Name), zap.String("code", c.Code))
			continue
		}
		if prev, ok := seenName[c.Name]; ok {
			logger.Warn("duplicate company name in listing",
				zap.String("name", c.Name), zap.String("kept", prev), zap.String("dropped", c.Code))
			continue
		}
		if prev, ok := seenCode[c.Code]; ok {
			logger.Warn("duplicate code in listing",
				zap.String("code", c.Code), zap.String("kept", prev), zap.String("dropped", c.Name))
			continue
		}
		seenName[c.Name] = c.Code
		seenCode[c.Code] = c.Name
		kept = append(kept, c)
	}
	return model.NewListing(kept, fetchedAt)
}

// StaticSource serves a fixed listing, for development and tests.
type StaticSource struct {
	Companies []model.ListedCompany

	mu    sync.Mutex
	err   error
	calls int
}

// NewStaticSource builds a source from a name-to-code map. Map iteration order
// is not stable, so names are sorted to keep snapshots deterministic.
func NewStaticSource(byName map[string]string) *StaticSource {
	companies := make([]model.ListedCompany, 0, len(byName))
	for name, code := range byName {
		companies = append(companies, model.ListedCompany{Name: name, Code: code})
	}
	sort.Slice(companies, func(i, j int) bool { return companies[i].Name < companies[j].Name })
	return &StaticSource{Companies: companies}
}

func (s *StaticSource) Name() string { return "static" }

// Fail makes subsequent fetches return err; nil restores normal operation.
func (s *StaticSource) Fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

// Calls returns how many times the listing was fetched.
func (s *StaticSource) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func (s *StaticSource) FetchListing(context.Context) ([]model.ListedCompany, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	out := make([]model.ListedCompany, len(s.Companies))
	copy(out, s.Companies)
	return out, nil
}
