package api

import (
	"database/sql"
	"errors"
	"net/http"

	"country-voting/internal/domain/country"
	"country-voting/internal/domain/vote"
	"country-voting/internal/platform/apperr"
)

func errorResponse(w http.ResponseWriter, err error) {
	appErr := mapError(err)
	writeJSON(w, appErr.StatusCode(), map[string]string{
		"error":   appErr.Code,
		"message": appErr.Message,
	})
}

func mapError(err error) *apperr.AppError {
	if err == nil {
		return apperr.Internal("internal_error", "internal server error", nil)
	}

	var appErr *apperr.AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	switch {
	case errors.Is(err, vote.ErrDuplicateEmail):
		return apperr.Conflict("duplicate_email", "this email has already been used to vote", err)
	case errors.Is(err, vote.ErrCreateVote):
		return apperr.Internal("create_vote_failed", "failed to create vote", err)
	case errors.Is(err, vote.ErrAggregation):
		return apperr.Internal("aggregation_failed", "failed to aggregate votes", err)
	case errors.Is(err, country.ErrNotFound):
		return apperr.NotFound("country_not_found", "country not found", err)
	case errors.Is(err, sql.ErrNoRows):
		return apperr.NotFound("not_found", "resource not found", err)
	default:
		return apperr.Internal("internal_error", http.StatusText(http.StatusInternalServerError), err)
	}
}
