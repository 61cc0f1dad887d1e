package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"country-voting/internal/domain/vote"
)

type VoteRepo struct {
	db *sql.DB
}

func NewVoteRepo(db *sql.DB) *VoteRepo {
	return &VoteRepo{db: db}
}

func (r *VoteRepo) Create(ctx context.Context, v *vote.Vote) error {
	query := `
        INSERT INTO votes (name, email, country)
        VALUES ($1, $2, $3)
        RETURNING id, created_at
    `
	err := r.db.QueryRowContext(ctx, query, v.Name, v.Email, v.Country).
		Scan(&v.ID, &v.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return vote.ErrDuplicateEmail
		}
		return err
	}
	return nil
}

func (r *VoteRepo) FindByEmail(ctx context.Context, email string) (*vote.Vote, error) {
	var v vote.Vote
	err := r.db.QueryRowContext(ctx, `
        SELECT id, name, email, country, created_at
        FROM votes
        WHERE email = $1
    `, email).Scan(&v.ID, &v.Name, &v.Email, &v.Country, &v.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &v, nil
}

func (r *VoteRepo) CountAll(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM votes`).Scan(&total)
	return total, err
}

// CountByCountry groups votes by country code, descending by count. Equal
// counts order by country code ascending so rankings are stable.
func (r *VoteRepo) CountByCountry(ctx context.Context, limit int) ([]vote.CountryVotes, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT country, COUNT(*) AS votes
        FROM votes
        GROUP BY country
        ORDER BY votes DESC, country ASC
        LIMIT $1
    `, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []vote.CountryVotes
	for rows.Next() {
		var cv vote.CountryVotes
		if err := rows.Scan(&cv.Country, &cv.Votes); err != nil {
			return nil, err
		}
		res = append(res, cv)
	}

	return res, rows.Err()
}

func (r *VoteRepo) DeleteAll(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM votes`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// DeleteByEmailLike removes votes whose email matches the given SQL LIKE
// pattern. Used by the seeder rollback.
func (r *VoteRepo) DeleteByEmailLike(ctx context.Context, pattern string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM votes WHERE email LIKE $1`, pattern)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *VoteRepo) CountByEmailLike(ctx context.Context, pattern string) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM votes WHERE email LIKE $1`, pattern).Scan(&n)
	return n, err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
