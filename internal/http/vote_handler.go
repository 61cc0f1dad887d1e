package api

import (
	"encoding/json"
	"net/http"
	"net/mail"
	"strings"

	"country-voting/internal/domain/vote"
	"country-voting/internal/platform/apperr"
)

type createVoteRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Country string `json:"country"`
}

// @Summary     Submit a vote
// @Tags        votes
// @Accept      json
// @Produce     json
// @Param       request  body      createVoteRequest  true  "Vote payload"
// @Success     201      {object}  vote.Vote
// @Failure     400      {object}  map[string]string  "invalid body or validation error"
// @Failure     409      {object}  map[string]string  "email already used"
// @Failure     429      {object}  map[string]string  "rate limited"
// @Failure     500      {object}  map[string]string  "server error"
// @Router      /api/v1/votes [post]
func (h *Handler) handleCreateVote(w http.ResponseWriter, r *http.Request) {
	var req createVoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errorResponse(w, apperr.BadRequest("invalid_input", "invalid body", err))
		return
	}

	if err := validateVoteRequest(req); err != nil {
		errorResponse(w, err)
		return
	}

	v, err := h.voteSvc.Create(r.Context(), vote.CreateInput{
		Name:    req.Name,
		Email:   req.Email,
		Country: req.Country,
	})
	if err != nil {
		errorResponse(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, v)
}

// @Summary     Total vote count
// @Tags        votes
// @Produce     json
// @Success     200  {object}  map[string]int64
// @Failure     500  {object}  map[string]string  "server error"
// @Router      /api/v1/votes/total [get]
func (h *Handler) handleTotalVotes(w http.ResponseWriter, r *http.Request) {
	total, err := h.voteSvc.TotalVotes(r.Context())
	if err != nil {
		errorResponse(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]int64{"total": total})
}

// @Summary     Delete all votes
// @Tags        votes
// @Security    BearerAuth
// @Produce     json
// @Success     200  {object}  map[string]int64
// @Failure     401  {object}  map[string]string  "unauthorized"
// @Failure     500  {object}  map[string]string  "server error"
// @Router      /api/v1/votes [delete]
func (h *Handler) handleResetVotes(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.voteSvc.DeleteAll(r.Context())
	if err != nil {
		errorResponse(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]int64{"deleted": deleted})
}

func validateVoteRequest(req createVoteRequest) *apperr.AppError {
	name := strings.TrimSpace(req.Name)
	if len(name) < 2 || len(name) > 100 {
		return apperr.BadRequest("validation_error", "name must be between 2 and 100 characters", nil)
	}

	email := strings.TrimSpace(req.Email)
	if email == "" {
		return apperr.BadRequest("validation_error", "email is required", nil)
	}
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		return apperr.BadRequest("validation_error", "email is not a valid address", nil)
	}

	code := strings.TrimSpace(req.Country)
	if len(code) < 2 || len(code) > 3 || !isAlpha(code) {
		return apperr.BadRequest("validation_error", "country must be a 2-3 letter code", nil)
	}

	return nil
}

func isAlpha(s string) bool {
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
			return false
		}
	}
	return true
}
