package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"country-voting/internal/domain/country"
)

// @Summary     Top countries by votes
// @Tags        countries
// @Produce     json
// @Param       limit  query     string  false  "Max groups to return (1-50, default 10)"
// @Success     200    {array}   country.Details
// @Failure     500    {object}  map[string]string  "server error"
// @Router      /api/v1/countries/top [get]
func (h *Handler) handleTopCountries(w http.ResponseWriter, r *http.Request) {
	limit := country.ParseLimit(r.URL.Query().Get("limit"))

	countries, err := h.countrySvc.TopCountries(r.Context(), limit)
	if err != nil {
		errorResponse(w, err)
		return
	}

	writeJSON(w, http.StatusOK, countries)
}

// @Summary     Country by code
// @Tags        countries
// @Produce     json
// @Param       code  path      string  true  "Alpha-2 or alpha-3 country code"
// @Success     200   {object}  country.Details
// @Failure     404   {object}  map[string]string  "country not found"
// @Failure     500   {object}  map[string]string  "server error"
// @Router      /api/v1/countries/{code} [get]
func (h *Handler) handleCountryByCode(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	details, err := h.countrySvc.ByCode(r.Context(), code)
	if err != nil {
		errorResponse(w, err)
		return
	}

	writeJSON(w, http.StatusOK, details)
}
