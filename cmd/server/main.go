// Command server runs the GrowEasy partner backend: the HTTP API over the
// seeded local dataset, the optional SQLite mirror of the hosted store, and
// the generative assistant.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/groweasy/groweasy-backend/internal/config"
	"github.com/groweasy/groweasy-backend/internal/genai"
	httpapi "github.com/groweasy/groweasy-backend/internal/http"
	"github.com/groweasy/groweasy-backend/internal/observability"
	"github.com/groweasy/groweasy-backend/internal/repo"
	"github.com/groweasy/groweasy-backend/internal/services"
	"github.com/groweasy/groweasy-backend/internal/store"
	"github.com/groweasy/groweasy-backend/internal/sysutil"
)

// version is stamped at build time via -ldflags.
var version = "dev"

func main() {
	_ = godotenv.Load()

	cfg := config.MustLoad()

	sysutil.SetLogLevel(cfg.LogLevel)
	if cfg.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownOTel, err := observability.SetupOTel(ctx, cfg.OTEL, version)
	if err != nil {
		log.Fatal().Err(err).Msg("otel setup failed")
	}
	defer func() {
		shCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownOTel(shCtx); err != nil {
			log.Warn().Err(err).Msg("otel shutdown")
		}
	}()

	// Local fallback dataset is always present; the SQLite mirror of the
	// hosted store is optional and its absence only closes the remote gate.
	var db *gorm.DB
	remote := services.NewRemote(false)
	if cfg.RemoteEnabled {
		db, err = repo.OpenSQLite(cfg.DBPath)
		if err == nil {
			err = repo.AutoMigrate(db)
		}
		if err != nil {
			log.Warn().Err(err).Str("path", cfg.DBPath).
				Msg("hosted store unavailable, serving fallback dataset only")
			db = nil
		} else {
			remote.SetAvailable(true)
		}
	}

	st := store.New()
	seeder := &services.Seeder{DB: db, Store: st, Remote: remote}
	seeder.Initialize(ctx)

	gen := genai.Disabled()
	if cfg.GenAI.Enabled {
		client, err := genai.NewClient(genai.Config{
			BaseURL: cfg.GenAI.BaseURL,
			Model:   cfg.GenAI.Model,
			APIKey:  cfg.GenAI.APIKey,
			Timeout: cfg.GenAI.Timeout,
			Retries: cfg.GenAI.Retries,
			Backoff: cfg.GenAI.Backoff,
		}, nil)
		if err != nil {
			log.Warn().Err(err).Msg("genai client misconfigured, using template fallbacks")
		} else {
			gen = client
		}
	}

	gin.SetMode(cfg.GinMode)
	r := gin.New()
	httpapi.RegisterRoutes(r, httpapi.Deps{
		DB:     db,
		Store:  st,
		Remote: remote,
		Gen:    gen,
	}, cfg)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Str("version", version).
			Bool("remote", remote.Available()).Bool("genai", cfg.GenAI.Enabled).
			Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}

	if db != nil {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	log.Info().Msg("stopped")
}
