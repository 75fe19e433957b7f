// Movie Recommender - Content and Collaborative Filtering Engine
// Copyright 2026 Team 3 CPT contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/MJSteenberg/Unsupervised-Team-3-CPT

/*
Package services provides suture.Service wrappers for the server's
components.

Each wrapper implements the suture.Service interface:

	type Service interface {
	    Serve(ctx context.Context) error
	}

and fmt.Stringer for supervisor event logs.

HTTPServerService wraps *http.Server. ListenAndServe runs in a goroutine;
when ctx ends, Shutdown drains connections within the configured timeout.

EngineLoaderService calls Init on the recommendation Aggregator once and
then leaves the tree with suture.ErrDoNotRestart. Requests that arrive
while it runs wait for the engine they need or fail with NOT_READY.
*/
package services
