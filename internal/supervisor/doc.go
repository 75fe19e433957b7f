// Movie Recommender - Content and Collaborative Filtering Engine
// Copyright 2026 Team 3 CPT contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/MJSteenberg/Unsupervised-Team-3-CPT

/*
Package supervisor runs the server's long-lived services under a
suture v4 supervisor tree.

	movie-recommender (root)
	├── engine-layer
	│   └── engine-loader   loads every enabled engine once
	└── api-layer
	    └── http-server

Supervisor events (restarts, backoff, timeouts) are logged through
sutureslog into the zerolog-backed slog handler from internal/logging.

Usage:

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	tree.AddEngineService(services.NewEngineLoaderService(agg, logger))
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second, logger))
	err = tree.Serve(ctx)

The service wrappers live in the services subpackage.
*/
package supervisor
