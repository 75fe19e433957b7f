// Movie Recommender - Content and Collaborative Filtering Engine
// Copyright 2026 Team 3 CPT contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/MJSteenberg/Unsupervised-Team-3-CPT

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MJSteenberg/Unsupervised-Team-3-CPT/internal/api"
	"github.com/MJSteenberg/Unsupervised-Team-3-CPT/internal/catalog"
	"github.com/MJSteenberg/Unsupervised-Team-3-CPT/internal/config"
	"github.com/MJSteenberg/Unsupervised-Team-3-CPT/internal/logging"
	"github.com/MJSteenberg/Unsupervised-Team-3-CPT/internal/recommend/storage"
	"github.com/MJSteenberg/Unsupervised-Team-3-CPT/internal/supervisor"
	"github.com/MJSteenberg/Unsupervised-Team-3-CPT/internal/supervisor/services"
)

//nolint:gocyclo // Main initialization function with sequential setup steps
func main() {
	// Load configuration first to get logging settings
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
	})

	logging.Info().
		Strs("algorithms", cfg.Recommend.Algorithms).
		Str("movies", cfg.Catalog.MoviesPath).
		Str("store", cfg.Store.Backend).
		Msg("Starting movie recommender with supervisor tree")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	table, err := catalog.Load(ctx, catalog.Source{
		MoviesPath:   cfg.Catalog.MoviesPath,
		MetadataPath: cfg.Catalog.MetadataPath,
		TagsPath:     cfg.Catalog.TagsPath,
		MaxCast:      cfg.Catalog.MaxCast,
	}, logging.Logger())
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load catalog")
	}

	var store storage.Store
	if needsStore(cfg) {
		store, err = storage.Open(cfg.Store.Backend, cfg.Store.Path)
		if err != nil {
			logging.Fatal().Err(err).Msg("Failed to open model store")
		}
		defer func() {
			if err := store.Close(); err != nil {
				logging.Error().Err(err).Msg("Error closing model store")
			}
		}()
		logging.Info().Str("backend", cfg.Store.Backend).Str("path", cfg.Store.Path).Msg("Model store opened")
	}

	agg, err := initRecommend(cfg, table, store, logging.Logger())
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create recommendation aggregator")
	}
	defer agg.Close()

	handler, err := api.NewHandler(agg, api.HandlerConfig{
		DefaultTopN:    cfg.Recommend.DefaultTopN,
		RequestTimeout: cfg.Server.Timeout,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create API handler")
	}

	mwConfig := api.DefaultChiMiddlewareConfig()
	mwConfig.CORSAllowedOrigins = cfg.Server.CORSOrigins
	mwConfig.RateLimitRequests = cfg.Server.RateLimitReqs
	mwConfig.RateLimitWindow = cfg.Server.RateLimitWindow
	router := api.NewRouter(handler, mwConfig)

	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router.SetupChi(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout + 5*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	// Bridge zerolog to slog for sutureslog
	treeConfig := supervisor.DefaultTreeConfig()
	treeConfig.ShutdownTimeout = cfg.Server.ShutdownTimeout + 5*time.Second
	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), treeConfig)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	// The server starts alongside the engine loader so probes answer
	// while models load.
	tree.AddEngineService(services.NewEngineLoaderService(agg, logging.WithComponent("engines")))
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout, logging.WithComponent("http")))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	// errCh receives exactly one value and is never closed.
	var treeErr error
	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish...")
		treeErr = <-errCh
	case treeErr = <-errCh:
	}
	if treeErr != nil && !errors.Is(treeErr, context.Canceled) {
		logging.Error().Err(treeErr).Msg("Supervisor tree error")
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	if len(unstopped) > 0 {
		logging.Warn().Int("count", len(unstopped)).Msg("Services failed to stop within timeout")
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
		}
	}

	stats := agg.Stats()
	logging.Info().
		Int64("requests", stats.Requests).
		Int64("errors", stats.Errors).
		Msg("Application stopped gracefully")
}
