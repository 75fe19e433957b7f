// Movie Recommender - Content and Collaborative Filtering Engine
// Copyright 2026 Team 3 CPT contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/MJSteenberg/Unsupervised-Team-3-CPT

package config

import "github.com/MJSteenberg/Unsupervised-Team-3-CPT/internal/recommend/content"

// EngineConfig maps the content settings onto the similarity engine config.
func (c ContentConfig) EngineConfig() content.Config {
	return content.Config{
		Metric:    content.Metric(c.Metric),
		Aggregate: content.Aggregate(c.Aggregate),
		Depth:     c.Depth,
		Workers:   c.Workers,
		Weights: content.Weights{
			Genre:    c.GenreWeight,
			Director: c.DirectorWeight,
			Cast:     c.CastWeight,
			Keyword:  c.KeywordWeight,
			Tag:      c.TagWeight,
		},
	}
}
