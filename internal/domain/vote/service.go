package vote

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrDuplicateEmail = errors.New("email has already been used to vote")
	ErrCreateVote     = errors.New("failed to create vote")
	ErrAggregation    = errors.New("failed to aggregate votes")
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateInput struct {
	Name    string
	Email   string
	Country string
}

// Create persists a new vote. Email is lower-cased and country upper-cased
// before both the duplicate check and the insert. The lookup is an early
// exit only; the storage unique constraint is the authoritative guard, so a
// concurrent submission racing past the check still surfaces as
// ErrDuplicateEmail.
func (s *Service) Create(ctx context.Context, in CreateInput) (*Vote, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	country := strings.ToUpper(strings.TrimSpace(in.Country))

	existing, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCreateVote, err)
	}
	if existing != nil {
		return nil, ErrDuplicateEmail
	}

	v := &Vote{
		Name:    strings.TrimSpace(in.Name),
		Email:   email,
		Country: country,
	}

	if err := s.repo.Create(ctx, v); err != nil {
		if errors.Is(err, ErrDuplicateEmail) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("%w: %w", ErrCreateVote, err)
	}

	return v, nil
}

// CountByCountry returns per-country vote counts, descending by count
// (ties broken by country code ascending), capped at limit groups. The limit
// is applied by the storage layer; callers are expected to clamp it first.
func (s *Service) CountByCountry(ctx context.Context, limit int) ([]CountryVotes, error) {
	counts, err := s.repo.CountByCountry(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAggregation, err)
	}
	return counts, nil
}

func (s *Service) TotalVotes(ctx context.Context) (int64, error) {
	total, err := s.repo.CountAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrAggregation, err)
	}
	return total, nil
}

// DeleteAll removes every vote. Administrative reset only.
func (s *Service) DeleteAll(ctx context.Context) (int64, error) {
	return s.repo.DeleteAll(ctx)
}
