package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"

	"github.com/meditrack/visit-api/pkg/logger"
	"github.com/meditrack/visit-api/pkg/metrics"

	"github.com/meditrack/visit-api/internal/config"
	"github.com/meditrack/visit-api/internal/handler"
	visitHandler "github.com/meditrack/visit-api/internal/handler/visit"
	"github.com/meditrack/visit-api/internal/middleware"
	"github.com/meditrack/visit-api/internal/repository/postgres"
	"github.com/meditrack/visit-api/internal/router"
	visitService "github.com/meditrack/visit-api/internal/service/visit"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.NewLogger(&logger.Config{Level: cfg.Log.Level})

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	if err := postgres.RunMigrations(cfg.Database.URL()); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	registry := prometheus.NewRegistry()
	appMetrics := metrics.NewMetrics("meditrack", registry)

	doctorRepo := visitService.NewCachedDoctorRepository(
		postgres.NewDoctorRepository(db),
		cfg.DoctorCache.TTL,
		cfg.DoctorCache.CleanupInterval,
	)
	patientRepo := postgres.NewPatientRepository(db)
	visitRepo := postgres.NewVisitRepository(db)

	visitSvc := visitService.NewService(doctorRepo, patientRepo, visitRepo, appLogger, appMetrics)

	h := handler.NewHandler(db)
	visitH := visitHandler.NewHandler(visitSvc, appLogger)

	r := router.NewRouter(visitH, h, router.Config{
		RateLimitRPS:   cfg.RateLimit.RPS,
		RateLimitBurst: cfg.RateLimit.Burst,
		Timeout:        time.Duration(cfg.Server.TimeoutSeconds) * time.Second,
		CORS:           middleware.DefaultCORSConfig(),
		MetricsPrefix:  "meditrack",
		Registry:       registry,
	})
	r.Setup()

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: r.Engine(),
	}

	go func() {
		appLogger.Info("server starting", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}
