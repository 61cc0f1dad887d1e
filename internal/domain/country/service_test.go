package country

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"country-voting/internal/cache"
	"country-voting/internal/domain/vote"
	"country-voting/internal/platform/restcountries"
)

type stubAggregator struct {
	counts []vote.CountryVotes
	err    error
	limit  int
}

func (a *stubAggregator) CountByCountry(ctx context.Context, limit int) ([]vote.CountryVotes, error) {
	a.limit = limit
	if a.err != nil {
		return nil, a.err
	}
	if limit < len(a.counts) {
		return a.counts[:limit], nil
	}
	return a.counts, nil
}

type stubLookup struct {
	mu      sync.Mutex
	calls   map[string]int
	failing map[string]bool
}

func newStubLookup() *stubLookup {
	return &stubLookup{calls: make(map[string]int), failing: make(map[string]bool)}
}

func (l *stubLookup) ByCode(ctx context.Context, code string) (*restcountries.Country, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls[code]++
	if l.failing[code] {
		return nil, errors.New("upstream unavailable")
	}
	c := &restcountries.Country{CCA2: code, CCA3: code + "X", Region: "Region-" + code}
	c.Name.Common = "Common-" + code
	c.Name.Official = "Official-" + code
	c.Capital = []string{"Capital-" + code}
	c.Subregion = "Sub-" + code
	return c, nil
}

func (l *stubLookup) callCount(code string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.calls[code]
}

func TestParseLimit(t *testing.T) {
	cases := []struct {
		raw  string
		want int
	}{
		{"", 10},
		{"abc", 10},
		{"1.5", 10},
		{"5", 5},
		{"0", 1},
		{"-3", 1},
		{"50", 50},
		{"500", 50},
	}
	for _, c := range cases {
		if got := ParseLimit(c.raw); got != c.want {
			t.Errorf("ParseLimit(%q) = %d, want %d", c.raw, got, c.want)
		}
	}
}

func TestTopCountriesEnriches(t *testing.T) {
	agg := &stubAggregator{counts: []vote.CountryVotes{
		{Country: "US", Votes: 3},
		{Country: "DE", Votes: 2},
	}}
	lookup := newStubLookup()
	svc := NewService(agg, lookup, cache.New(), time.Minute)

	got, err := svc.TopCountries(context.Background(), 10)
	if err != nil {
		t.Fatalf("TopCountries failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(got))
	}
	if got[0].Name != "Common-US" || got[0].Votes != 3 {
		t.Fatalf("unexpected first entry %+v", got[0])
	}
	if got[1].OfficialName != "Official-DE" || got[1].Votes != 2 {
		t.Fatalf("unexpected second entry %+v", got[1])
	}
}

func TestTopCountriesPerCountryFallback(t *testing.T) {
	agg := &stubAggregator{counts: []vote.CountryVotes{
		{Country: "US", Votes: 3},
		{Country: "ZZ", Votes: 2},
	}}
	lookup := newStubLookup()
	lookup.failing["ZZ"] = true
	svc := NewService(agg, lookup, cache.New(), time.Minute)

	got, err := svc.TopCountries(context.Background(), 10)
	if err != nil {
		t.Fatalf("expected overall success despite one failure, got %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected both entries, got %d", len(got))
	}
	if got[0].Name != "Common-US" {
		t.Fatalf("US entry should be fully populated, got %+v", got[0])
	}
	zz := got[1]
	if zz.Name != "ZZ" || zz.OfficialName != "ZZ" {
		t.Fatalf("ZZ name fields should carry the code, got %+v", zz)
	}
	if zz.Region != "Unknown" || zz.SubRegion != "Unknown" {
		t.Fatalf("ZZ region fields should read Unknown, got %+v", zz)
	}
	if len(zz.Capital) != 0 {
		t.Fatalf("ZZ capital should be empty, got %v", zz.Capital)
	}
	if zz.Votes != 2 {
		t.Fatalf("ZZ must keep its vote count, got %d", zz.Votes)
	}
}

func TestTopCountriesPreservesRankOrder(t *testing.T) {
	var counts []vote.CountryVotes
	for i := 0; i < 20; i++ {
		counts = append(counts, vote.CountryVotes{
			Country: fmt.Sprintf("C%02d", i),
			Votes:   int64(100 - i),
		})
	}
	agg := &stubAggregator{counts: counts}
	svc := NewService(agg, newStubLookup(), cache.New(), time.Minute)

	got, err := svc.TopCountries(context.Background(), 50)
	if err != nil {
		t.Fatalf("TopCountries failed: %v", err)
	}
	if len(got) != 20 {
		t.Fatalf("expected 20 entries, got %d", len(got))
	}
	for i, d := range got {
		want := fmt.Sprintf("C%02d", i)
		if d.CCA2 != want {
			t.Fatalf("rank %d: expected %s, got %s", i, want, d.CCA2)
		}
	}
}

func TestTopCountriesEmpty(t *testing.T) {
	agg := &stubAggregator{}
	lookup := newStubLookup()
	svc := NewService(agg, lookup, cache.New(), time.Minute)

	got, err := svc.TopCountries(context.Background(), 10)
	if err != nil {
		t.Fatalf("TopCountries failed: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %v", got)
	}
	if len(lookup.calls) != 0 {
		t.Fatal("no lookups should be issued for an empty ranking")
	}
}

func TestTopCountriesClampsLimitBeforeAggregator(t *testing.T) {
	agg := &stubAggregator{}
	svc := NewService(agg, newStubLookup(), cache.New(), time.Minute)

	if _, err := svc.TopCountries(context.Background(), 500); err != nil {
		t.Fatalf("TopCountries failed: %v", err)
	}
	if agg.limit != 50 {
		t.Fatalf("expected limit clamped to 50, got %d", agg.limit)
	}

	if _, err := svc.TopCountries(context.Background(), -1); err != nil {
		t.Fatalf("TopCountries failed: %v", err)
	}
	if agg.limit != 1 {
		t.Fatalf("expected limit clamped to 1, got %d", agg.limit)
	}
}

func TestTopCountriesAggregatorFailure(t *testing.T) {
	agg := &stubAggregator{err: vote.ErrAggregation}
	svc := NewService(agg, newStubLookup(), cache.New(), time.Minute)

	if _, err := svc.TopCountries(context.Background(), 10); !errors.Is(err, vote.ErrAggregation) {
		t.Fatalf("expected aggregation error to propagate, got %v", err)
	}
}

func TestLookupsAreCachedAcrossPaths(t *testing.T) {
	agg := &stubAggregator{counts: []vote.CountryVotes{{Country: "US", Votes: 1}}}
	lookup := newStubLookup()
	svc := NewService(agg, lookup, cache.New(), time.Minute)
	ctx := context.Background()

	if _, err := svc.TopCountries(ctx, 10); err != nil {
		t.Fatalf("TopCountries failed: %v", err)
	}
	// By-code path shares the same cache key, so no second upstream call.
	if _, err := svc.ByCode(ctx, "US"); err != nil {
		t.Fatalf("ByCode failed: %v", err)
	}
	if _, err := svc.TopCountries(ctx, 10); err != nil {
		t.Fatalf("TopCountries failed: %v", err)
	}

	if n := lookup.callCount("US"); n != 1 {
		t.Fatalf("expected a single upstream call, got %d", n)
	}
}

func TestByCode(t *testing.T) {
	svc := NewService(&stubAggregator{}, newStubLookup(), cache.New(), time.Minute)

	d, err := svc.ByCode(context.Background(), "FR")
	if err != nil {
		t.Fatalf("ByCode failed: %v", err)
	}
	if d.Name != "Common-FR" {
		t.Fatalf("unexpected details %+v", d)
	}
	if d.Votes != 0 {
		t.Fatalf("by-code lookups must report 0 votes, got %d", d.Votes)
	}
}

func TestByCodeFailureIsNotFound(t *testing.T) {
	lookup := newStubLookup()
	lookup.failing["ZZ"] = true
	svc := NewService(&stubAggregator{}, lookup, cache.New(), time.Minute)

	if _, err := svc.ByCode(context.Background(), "ZZ"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	// Nothing was cached from the failure, so a recovered upstream is
	// picked up immediately.
	lookup.failing["ZZ"] = false
	if _, err := svc.ByCode(context.Background(), "ZZ"); err != nil {
		t.Fatalf("expected success after upstream recovery, got %v", err)
	}
}
