package api

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"golang.org/x/time/rate"

	"country-voting/internal/domain/country"
	"country-voting/internal/domain/vote"
	jwtpkg "country-voting/internal/platform/jwt"
)

type Handler struct {
	voteSvc    *vote.Service
	countrySvc *country.Service
	jwtMgr     *jwtpkg.Manager
	db         *sql.DB
}

func NewRouter(
	voteSvc *vote.Service,
	countrySvc *country.Service,
	jwtMgr *jwtpkg.Manager,
	corsOrigin string,
	db *sql.DB,
) http.Handler {
	h := &Handler{
		voteSvc:    voteSvc,
		countrySvc: countrySvc,
		jwtMgr:     jwtMgr,
		db:         db,
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(60 * time.Second))
	r.Use(RequestLogger)
	r.Use(CORSMiddleware(corsOrigin))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/ready", h.handleReady)
	r.Get("/swagger/*", httpSwagger.WrapHandler)
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	r.Route("/api/v1", func(r chi.Router) {
		r.With(RateLimitVotes(rate.Every(time.Minute/100), 10)).Post("/votes", h.handleCreateVote)
		r.Get("/votes/total", h.handleTotalVotes)

		r.Get("/countries/top", h.handleTopCountries)
		r.Get("/countries/{code}", h.handleCountryByCode)

		r.Group(func(r chi.Router) {
			r.Use(AdminAuth(jwtMgr))
			r.Delete("/votes", h.handleResetVotes)
		})
	})

	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (h *Handler) handleReady(w http.ResponseWriter, r *http.Request) {
	if h.db == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"error":   "db_unavailable",
			"message": "database not configured",
		})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"error":   "db_unavailable",
			"message": "database not ready",
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
