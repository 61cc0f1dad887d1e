// Seeds the votes table with mock ballots for every country, so rankings have
// data to show in development. Seeded votes use @example.com emails and can be
// rolled back without touching real ones.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"country-voting/internal/config"
	"country-voting/internal/domain/vote"
	"country-voting/internal/platform/database"
	"country-voting/internal/platform/restcountries"
	"country-voting/internal/repository/postgres"
	"country-voting/internal/retry"
)

const seededEmailPattern = "%@example.com"

var firstNames = []string{"John", "Jane", "Maria", "Carlos", "Anna", "Pierre", "Yuki", "Ahmed", "Sofia", "Hans"}
var lastNames = []string{"Smith", "Garcia", "Silva", "Mueller", "Tanaka", "Kim", "Johnson", "Brown", "Lee", "Wang"}

func main() {
	action := flag.String("action", "seed", "seed | rollback | stats")
	flag.Parse()

	cfg := config.Load()

	db, err := database.NewPostgres(cfg.DB_DSN)
	if err != nil {
		log.Fatalf("db connect error: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	if err := database.EnsureSchema(ctx, db); err != nil {
		log.Fatalf("schema error: %v", err)
	}

	repo := postgres.NewVoteRepo(db)

	switch *action {
	case "seed":
		err = seed(ctx, cfg, repo)
	case "rollback":
		err = rollback(ctx, repo)
	case "stats":
		err = stats(ctx, repo)
	default:
		log.Fatalf("unknown action %q", *action)
	}
	if err != nil {
		log.Fatalf("%s failed: %v", *action, err)
	}
}

func seed(ctx context.Context, cfg config.Config, repo *postgres.VoteRepo) error {
	client := restcountries.NewClient(cfg.RestCountriesAPI, 30*time.Second)

	var countries []restcountries.Country
	err := retry.Do(ctx, 3, time.Second, func() error {
		var err error
		countries, err = client.All(ctx)
		return err
	})
	if err != nil {
		return fmt.Errorf("fetching country list: %w", err)
	}
	log.Printf("fetched %d countries", len(countries))

	created := 0
	emailIndex := 0
	for _, c := range countries {
		if c.CCA2 == "" {
			continue
		}
		// 1-3 votes per country for some ranking variety.
		for i := 0; i < rand.Intn(3)+1; i++ {
			v := &vote.Vote{
				Name:    mockName(c.Name.Common, emailIndex),
				Email:   mockEmail(c.CCA2, emailIndex),
				Country: c.CCA2,
			}
			emailIndex++

			err := retry.Do(ctx, 3, 200*time.Millisecond, func() error {
				err := repo.Create(ctx, v)
				if errors.Is(err, vote.ErrDuplicateEmail) {
					return nil
				}
				return err
			})
			if err != nil {
				return fmt.Errorf("inserting vote for %s: %w", c.CCA2, err)
			}
			created++
		}
	}

	log.Printf("seeded %d votes for %d countries", created, len(countries))
	return nil
}

func rollback(ctx context.Context, repo *postgres.VoteRepo) error {
	n, err := repo.DeleteByEmailLike(ctx, seededEmailPattern)
	if err != nil {
		return err
	}
	log.Printf("deleted %d seeded votes", n)
	return nil
}

func stats(ctx context.Context, repo *postgres.VoteRepo) error {
	total, err := repo.CountAll(ctx)
	if err != nil {
		return err
	}
	seeded, err := repo.CountByEmailLike(ctx, seededEmailPattern)
	if err != nil {
		return err
	}
	log.Printf("total votes: %d, seeded: %d, real: %d", total, seeded, total-seeded)
	return nil
}

func mockEmail(countryCode string, index int) string {
	return fmt.Sprintf("vote-%s-%d@example.com", strings.ToLower(countryCode), index)
}

func mockName(countryName string, index int) string {
	first := firstNames[index%len(firstNames)]
	last := lastNames[(index/len(firstNames))%len(lastNames)]
	return fmt.Sprintf("%s %s (%s)", first, last, countryName)
}
