package country

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"country-voting/internal/cache"
	"country-voting/internal/domain/vote"
	"country-voting/internal/metrics"
	"country-voting/internal/platform/restcountries"
)

var ErrNotFound = errors.New("country not found")

const (
	DefaultLimit = 10
	MinLimit     = 1
	MaxLimit     = 50
)

// ParseLimit turns a raw query value into a usable limit: empty or unparsable
// input falls back to DefaultLimit, numeric input is clamped into
// [MinLimit, MaxLimit].
func ParseLimit(raw string) int {
	if raw == "" {
		return DefaultLimit
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return DefaultLimit
	}
	return clampLimit(n)
}

func clampLimit(n int) int {
	if n < MinLimit {
		return MinLimit
	}
	if n > MaxLimit {
		return MaxLimit
	}
	return n
}

type Service struct {
	votes    Aggregator
	lookup   Lookup
	cache    *cache.Store
	cacheTTL time.Duration
	log      *slog.Logger
}

func NewService(votes Aggregator, lookup Lookup, store *cache.Store, cacheTTL time.Duration) *Service {
	if cacheTTL <= 0 {
		cacheTTL = cache.DefaultTTL
	}
	return &Service{
		votes:    votes,
		lookup:   lookup,
		cache:    store,
		cacheTTL: cacheTTL,
		log:      slog.Default(),
	}
}

// TopCountries returns up to limit countries ranked by vote count, each
// enriched with metadata resolved through the cache. Metadata is fetched
// concurrently for all ranked countries; each result is written into the slot
// matching its rank, so output order always matches the aggregator's order
// no matter which lookup finishes first. A failed lookup degrades that single
// entry to fallback metadata and never fails the call.
func (s *Service) TopCountries(ctx context.Context, limit int) ([]Details, error) {
	counts, err := s.votes.CountByCountry(ctx, clampLimit(limit))
	if err != nil {
		return nil, err
	}

	results := make([]Details, len(counts))
	if len(counts) == 0 {
		return results, nil
	}

	var wg sync.WaitGroup
	for i, cv := range counts {
		wg.Add(1)
		go func(i int, cv vote.CountryVotes) {
			defer wg.Done()
			results[i] = s.resolve(ctx, cv.Country, cv.Votes)
		}(i, cv)
	}
	wg.Wait()

	return results, nil
}

// ByCode resolves metadata for a single country code through the same cache
// key the aggregate path uses. Votes is always 0 here; no aggregation runs.
//
// Unlike TopCountries this path does not degrade: any resolution failure is
// reported as ErrNotFound. The asymmetry mirrors long-standing observed
// behavior and is kept deliberately.
func (s *Service) ByCode(ctx context.Context, code string) (*Details, error) {
	c, err := s.fetchCached(ctx, code)
	if err != nil {
		s.log.Warn("country lookup failed", "code", code, "error", err)
		return nil, ErrNotFound
	}
	d := detailsFrom(c, 0)
	return &d, nil
}

func (s *Service) resolve(ctx context.Context, code string, votes int64) Details {
	c, err := s.fetchCached(ctx, code)
	if err != nil {
		metrics.IncLookupFailure(code)
		s.log.Warn("country lookup failed, using fallback", "code", code, "error", err)
		return fallbackDetails(code, votes)
	}
	return detailsFrom(c, votes)
}

// fetchCached reads through the cache under the `country:<code>` key, storing
// the raw lookup payload on a miss. Nothing is cached when the lookup fails.
func (s *Service) fetchCached(ctx context.Context, code string) (*restcountries.Country, error) {
	v, err := s.cache.GetOrSet(countryKey(code), s.cacheTTL, func() (any, error) {
		return s.lookup.ByCode(ctx, code)
	})
	if err != nil {
		return nil, err
	}
	c, ok := v.(*restcountries.Country)
	if !ok {
		return nil, errors.New("unexpected cached value type")
	}
	return c, nil
}

func countryKey(code string) string {
	return "country:" + code
}

func detailsFrom(c *restcountries.Country, votes int64) Details {
	capital := c.Capital
	if capital == nil {
		capital = []string{}
	}
	return Details{
		Name:         c.Name.Common,
		OfficialName: c.Name.Official,
		CCA2:         c.CCA2,
		CCA3:         c.CCA3,
		Capital:      capital,
		Region:       c.Region,
		SubRegion:    c.Subregion,
		Votes:        votes,
	}
}

// fallbackDetails stands in for a country whose metadata could not be
// resolved: the raw code fills the name and code fields, region data reads
// "Unknown" and the vote count is still accurate.
func fallbackDetails(code string, votes int64) Details {
	return Details{
		Name:         code,
		OfficialName: code,
		CCA2:         code,
		CCA3:         code,
		Capital:      []string{},
		Region:       "Unknown",
		SubRegion:    "Unknown",
		Votes:        votes,
	}
}
