// Movie Recommender - Content and Collaborative Filtering Engine
// Copyright 2026 Team 3 CPT contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/MJSteenberg/Unsupervised-Team-3-CPT

// Command train builds the serving artifacts ahead of time: the latent
// model from the ratings CSV and, optionally, the similarity index from
// the catalog. Both are written to the configured model store.
//
// Usage:
//
//	train [-config config.yaml] [-content-index]
//
// Settings come from the same layered configuration as the server
// (TRAIN_RATINGS_PATH, TRAIN_FACTORS, MODEL_STORE_PATH, ...).
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/goccy/go-json"

	"github.com/MJSteenberg/Unsupervised-Team-3-CPT/internal/config"
	"github.com/MJSteenberg/Unsupervised-Team-3-CPT/internal/logging"
)

func main() {
	var (
		configPath   string
		contentIndex bool
	)
	flag.StringVar(&configPath, "config", "", "config file (default: CONFIG_PATH or ./config.yaml)")
	flag.BoolVar(&contentIndex, "content-index", false, "also build the similarity index")
	flag.Parse()

	var (
		cfg *config.Config
		err error
	)
	if configPath != "" {
		cfg, err = config.LoadFile(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if contentIndex {
		cfg.Train.BuildContentIndex = true
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rep, err := run(ctx, cfg, logging.WithComponent("train"))
	if err != nil {
		logging.Fatal().Err(err).Msg("Training failed")
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rep); err != nil {
		logging.Fatal().Err(err).Msg("Failed to write report")
	}
}
