// Package main is the entry point for the Ololeeye donation tracker
// service.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ololeeye/ololeeye/internal/api"
	"github.com/ololeeye/ololeeye/internal/config"
	"github.com/ololeeye/ololeeye/internal/database"
	"github.com/ololeeye/ololeeye/internal/exchange"
	"github.com/ololeeye/ololeeye/internal/facade"
	"github.com/ololeeye/ololeeye/internal/localstore"
	"github.com/ololeeye/ololeeye/internal/logger"
	"github.com/ololeeye/ololeeye/internal/repository"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "version" {
		fmt.Printf("ololeeye %s (commit: %s, built: %s)\n", version, commit, date)
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to load config")
	}

	logger.SetLevel(cfg.LogLevel)
	if cfg.LogJSON {
		logger.SetJSON()
	}
	logger.InitHashSalt()

	store, err := localstore.Open(cfg.DataDir)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to open local store")
	}

	var remote *facade.Remote
	if cfg.UseRemote {
		pool, err := database.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Log.Fatal().Err(err).Msg("Failed to connect to database")
		}
		defer pool.Close()

		if err := database.RunMigrations(ctx, pool); err != nil {
			logger.Log.Fatal().Err(err).Msg("Failed to run migrations")
		}
		logger.Log.Info().Msg("Database initialized successfully")

		remote = &facade.Remote{
			Campaigns:    repository.NewCampaignRepository(pool),
			Contributors: repository.NewContributorRepository(pool),
			Payments:     repository.NewPaymentRepository(pool),
		}
	}

	f := facade.New(store, remote, cfg.RemoteTimeout)
	f.SetConverter(exchange.NewCache(exchange.NewClient(cfg.ExchangeURL, 5*time.Second), cfg.ExchangeTTL))
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           api.New(f, cfg.APITokens).Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan
		logger.Log.Info().Msg("Shutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Log.Error().Err(err).Msg("Failed to shut down cleanly")
		}
		cancel()
	}()

	logger.Log.Info().
		Int("port", cfg.Port).
		Bool("remote", cfg.UseRemote).
		Msg("Starting server")
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Log.Fatal().Err(err).Msg("Server failed")
	}
}
