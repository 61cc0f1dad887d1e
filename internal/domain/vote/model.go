package vote

import (
	"context"
	"time"
)

type Vote struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Country   string    `json:"country"`
	CreatedAt time.Time `json:"created_at"`
}

// CountryVotes is one row of the grouped count: votes per country code,
// ordered descending by count with country code ascending as the tie-break.
type CountryVotes struct {
	Country string `json:"country"`
	Votes   int64  `json:"votes"`
}

type Repository interface {
	Create(ctx context.Context, v *Vote) error
	FindByEmail(ctx context.Context, email string) (*Vote, error)
	CountAll(ctx context.Context) (int64, error)
	CountByCountry(ctx context.Context, limit int) ([]CountryVotes, error)
	DeleteAll(ctx context.Context) (int64, error)
}
