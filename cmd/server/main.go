package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	analysishandler "ikigai/internal/analysis/handler"
	analysismetrics "ikigai/internal/analysis/metrics"
	analysisservice "ikigai/internal/analysis/service"
	analysisstore "ikigai/internal/analysis/store"
	"ikigai/internal/analysis/upstream"
	coachinghandler "ikigai/internal/coaching/handler"
	coachingmetrics "ikigai/internal/coaching/metrics"
	coachingservice "ikigai/internal/coaching/service"
	coachingstore "ikigai/internal/coaching/store"
	"ikigai/internal/email"
	"ikigai/internal/platform/config"
	"ikigai/internal/platform/database"
	"ikigai/internal/platform/health"
	"ikigai/internal/platform/logger"
	"ikigai/internal/platform/middleware"
	profilestore "ikigai/internal/profile/store"
	"ikigai/internal/scoring"
	"ikigai/internal/seeder"
)

// main wires dependencies and keeps the server lifecycle small. Business
// logic lives in the internal service packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	log.Info("initializing ikigai server",
		"addr", cfg.Addr,
		"environment", cfg.Environment,
		"postgres", cfg.DatabaseURL != "",
	)

	table, err := loadScoreTable(cfg, log)
	if err != nil {
		log.Error("invalid score table", "error", err, "path", cfg.ScoreTablePath)
		os.Exit(1)
	}

	dbCfg := database.DefaultConfig()
	dbCfg.URL = cfg.DatabaseURL
	pool, err := database.New(dbCfg)
	if err != nil {
		log.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	var (
		profiles      coachingservice.ProfileStore
		relationships coachingservice.RelationshipStore
		analyses      interface {
			coachingservice.AnalysisDirectory
			analysisservice.QuestionnaireStore
		}
		profileFinder analysisservice.ProfileFinder
	)
	if pool != nil {
		pg := profilestore.NewPostgres(pool.DB())
		profiles = pg
		profileFinder = pg
		relationships = coachingstore.NewPostgres(pool.DB())
		analyses = analysisstore.NewPostgres(pool.DB())
	} else {
		log.Warn("DATABASE_URL not set, using in-memory stores")
		mem := profilestore.NewInMemory()
		memRels := coachingstore.NewInMemory()
		memAnalyses := analysisstore.NewInMemory()
		profiles = mem
		profileFinder = mem
		relationships = memRels
		analyses = memAnalyses

		if cfg.Environment == "development" {
			if err := seeder.New(mem, memRels, memAnalyses, table, log).SeedAll(context.Background()); err != nil {
				log.Error("demo data seeding failed", "error", err)
				os.Exit(1)
			}
		}
	}

	sender := email.NewResend(cfg.ResendAPIKey)
	if cfg.ResendAPIKey == "" {
		log.Warn("RESEND_API_KEY not set, invitation emails will fail")
	}

	var analyzerOpts []upstream.Option
	if cfg.AnalyzerModel != "" {
		analyzerOpts = append(analyzerOpts, upstream.WithModel(cfg.AnalyzerModel))
	}
	analyzer := analysisservice.NewResilientAnalyzer(
		upstream.New(cfg.AnthropicAPIKey, analyzerOpts...), log)

	coachingSvc := coachingservice.New(profiles, relationships, analyses, sender,
		coachingservice.Config{
			InviteBaseURL:               cfg.InviteBaseURL,
			AllowMultiplePendingInvites: cfg.AllowMultiplePendingInvites,
		},
		coachingservice.WithLogger(log),
		coachingservice.WithMetrics(coachingmetrics.New()),
	)
	analysisSvc := analysisservice.New(analyzer, analyses, profileFinder, table,
		analysisservice.WithLogger(log),
		analysisservice.WithMetrics(analysismetrics.New()),
	)

	healthHandler := health.New(cfg.Environment,
		"score-aggregation", "coach-invitations", "coach-dashboard", "questionnaire-analysis")
	if pool != nil {
		healthHandler.RegisterCheck("database", func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return pool.Health(ctx)
		})
	}

	router := chi.NewRouter()
	router.Use(middleware.Recovery(log))
	router.Use(middleware.RequestID)
	router.Use(middleware.BodyLimit(1 << 20))
	router.Use(middleware.ContentTypeJSON)
	router.Use(middleware.Logger(log))
	router.Use(middleware.NewMetrics().Instrument)
	router.Use(middleware.Timeout(cfg.RequestTimeout))

	healthHandler.Register(router)
	router.Handle("/metrics", promhttp.Handler())
	coachinghandler.New(coachingSvc, log).Register(router)
	analysishandler.New(analysisSvc, log).Register(router)

	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.Info("starting http server", "addr", cfg.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server gracefully")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}

	log.Info("server stopped")
}

func loadScoreTable(cfg config.Server, log *slog.Logger) (*scoring.Table, error) {
	if cfg.ScoreTablePath == "" {
		return scoring.DefaultTable(), nil
	}
	log.Info("loading score table override", "path", cfg.ScoreTablePath)
	return scoring.LoadFile(cfg.ScoreTablePath)
}
