// Movie Recommender - Content and Collaborative Filtering Engine
// Copyright 2026 Team 3 CPT contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/MJSteenberg/Unsupervised-Team-3-CPT

package content

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/MJSteenberg/Unsupervised-Team-3-CPT/internal/catalog"
	"github.com/MJSteenberg/Unsupervised-Team-3-CPT/internal/recommend/storage"
)

// DefaultArtifactName is the store name of the similarity index.
const DefaultArtifactName = "similarity_index"

// IndexPayload is the stored form of an Index. Lists are parallel to
// ItemIDs, which are ascending.
type IndexPayload struct {
	Metric    string
	Depth     int
	ItemIDs   []int
	Neighbors [][]Neighbor
}

// Payload converts the index into its stored form.
func (x *Index) Payload() IndexPayload {
	ids := make([]int, 0, len(x.neighbors))
	for id := range x.neighbors {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	depth := x.limit
	if depth == 0 {
		depth = x.depth
	}
	p := IndexPayload{Metric: string(x.metric), Depth: depth, ItemIDs: ids, Neighbors: make([][]Neighbor, len(ids))}
	for i, id := range ids {
		p.Neighbors[i] = x.neighbors[id]
	}
	return p
}

// FromPayload validates a stored index. Lists must already be sorted; a
// list out of order means the artifact is not what Build wrote.
func FromPayload(p IndexPayload) (*Index, error) {
	if len(p.ItemIDs) != len(p.Neighbors) {
		return nil, fmt.Errorf("%w: %d ids for %d lists", ErrInvalidIndex, len(p.ItemIDs), len(p.Neighbors))
	}
	idx := &Index{neighbors: make(map[int][]Neighbor, len(p.ItemIDs)), metric: Metric(p.Metric), limit: p.Depth}
	for i, id := range p.ItemIDs {
		if _, dup := idx.neighbors[id]; dup {
			return nil, fmt.Errorf("%w: movie %d stored twice", ErrInvalidIndex, id)
		}
		list := p.Neighbors[i]
		if err := checkList(id, list); err != nil {
			return nil, err
		}
		idx.neighbors[id] = list
		idx.depth = max(idx.depth, len(list))
	}
	if idx.depth > p.Depth && p.Depth > 0 {
		return nil, fmt.Errorf("%w: list of %d exceeds stored depth %d", ErrInvalidIndex, idx.depth, p.Depth)
	}
	return idx, nil
}

// SaveIndex writes idx as the next version of name.
func SaveIndex(ctx context.Context, store storage.Store, name string, idx *Index, took time.Duration) (*storage.ModelMetadata, error) {
	version, err := storage.NextVersion(ctx, store, name)
	if err != nil {
		return nil, fmt.Errorf("next index version: %w", err)
	}
	return store.Save(ctx, name, version, idx.Payload(), storage.ModelMetadata{
		Kind:               storage.KindSimilarityIndex,
		TrainedAt:          time.Now().UTC(),
		ItemCount:          idx.Len(),
		TrainingDurationMS: took.Milliseconds(),
	})
}

// LoadIndex reads the latest index named name and checks it against table.
func LoadIndex(ctx context.Context, store storage.Store, name string, table *catalog.Table) (*Index, *storage.ModelMetadata, error) {
	var p IndexPayload
	meta, err := store.Load(ctx, name, 0, storage.KindSimilarityIndex, &p)
	if err != nil {
		return nil, nil, fmt.Errorf("load similarity index: %w", err)
	}
	idx, err := FromPayload(p)
	if err != nil {
		return nil, nil, fmt.Errorf("%s v%d: %w", meta.Name, meta.Version, err)
	}
	if err := idx.CheckCatalog(table); err != nil {
		return nil, nil, fmt.Errorf("%s v%d is stale: %w", meta.Name, meta.Version, err)
	}
	return idx, meta, nil
}
