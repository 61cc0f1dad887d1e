package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	_ "country-voting/docs"
	"country-voting/internal/cache"
	"country-voting/internal/config"
	"country-voting/internal/domain/country"
	"country-voting/internal/domain/vote"
	api "country-voting/internal/http"
	"country-voting/internal/metrics"
	"country-voting/internal/platform/database"
	jwtpkg "country-voting/internal/platform/jwt"
	"country-voting/internal/platform/restcountries"
	"country-voting/internal/repository/postgres"
	"country-voting/internal/worker"
)

// @title           Country Voting API
// @version         1.0
// @description     Vote for a country and browse rankings enriched with country metadata
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in              header
// @name            Authorization
func main() {
	cfg := config.Load()

	metrics.Register()

	db, err := database.NewPostgres(cfg.DB_DSN)
	if err != nil {
		log.Fatalf("db connect error: %v", err)
	}
	defer db.Close()

	if err := database.EnsureSchema(context.Background(), db); err != nil {
		log.Fatalf("schema error: %v", err)
	}

	voteRepo := postgres.NewVoteRepo(db)
	voteSvc := vote.NewService(voteRepo)

	store := cache.New()
	lookup := restcountries.NewClient(cfg.RestCountriesAPI, cfg.LookupTimeout)
	countrySvc := country.NewService(voteSvc, lookup, store, cfg.CacheTTL)

	jwtMgr := jwtpkg.NewManager(cfg.AdminJWTSecret, "")

	sweeper := worker.NewCacheSweeper(store, time.Minute)

	router := api.NewRouter(voteSvc, countrySvc, jwtMgr, cfg.CORSOrigin, db)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go sweeper.Run(ctx)

	go func() {
		log.Printf("server listening on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen error: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)

	<-stop
	log.Println("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server shutdown error: %v", err)
	}

	log.Println("server stopped")
}
