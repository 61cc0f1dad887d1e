package country

import (
	"context"

	"country-voting/internal/domain/vote"
	"country-voting/internal/platform/restcountries"
)

// Details is the per-request merge of looked-up country metadata and a vote
// count. It has no identity of its own and is never persisted.
type Details struct {
	Name         string   `json:"name"`
	OfficialName string   `json:"official_name"`
	CCA2         string   `json:"cca2"`
	CCA3         string   `json:"cca3"`
	Capital      []string `json:"capital"`
	Region       string   `json:"region"`
	SubRegion    string   `json:"sub_region"`
	Votes        int64    `json:"votes"`
}

// Aggregator supplies ranked vote counts, normally *vote.Service.
type Aggregator interface {
	CountByCountry(ctx context.Context, limit int) ([]vote.CountryVotes, error)
}

// Lookup fetches country metadata from the external source.
type Lookup interface {
	ByCode(ctx context.Context, code string) (*restcountries.Country, error)
}
