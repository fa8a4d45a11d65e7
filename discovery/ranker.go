// Copyright 2026 The Donar Authors
// SPDX-License-Identifier: Apache-2.0

package discovery

import (
	"context"
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/jcodagnone/donar/spatial"
)

// DistanceBatchSize is the most destinations sent in one distance request.
const DistanceBatchSize = 25

// Ranker orders candidates by travel distance from the origin.
type Ranker struct {
	provider  DistanceProvider
	logger    logrus.FieldLogger
	metrics   *Metrics
	batchSize int
}

// NewRanker creates a Ranker over provider.
func NewRanker(provider DistanceProvider, logger logrus.FieldLogger, metrics *Metrics) *Ranker {
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	return &Ranker{
		provider:  provider,
		logger:    logger,
		metrics:   metrics,
		batchSize: DistanceBatchSize,
	}
}

// Rank attaches distances to candidates, sorts them ascending and keeps the
// first limit entries. Candidates without a location, or whose distance
// could not be computed, sort last in their input order. A failed batch
// leaves its candidates without distance. The only error returned is ctx's.
func (r *Ranker) Rank(ctx context.Context, origin spatial.Point, candidates []Candidate, limit int) (RankedResult, error) {
	entries := make(RankedResult, len(candidates))
	var located []int
	for i := range candidates {
		entries[i].Organization = candidates[i]
		if candidates[i].Location != nil {
			located = append(located, i)
		}
	}

	for start := 0; start < len(located); start += r.batchSize {
		end := min(start+r.batchSize, len(located))
		if err := r.measure(ctx, origin, entries, located[start:end]); err != nil {
			return nil, err
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].SortKey() < entries[j].SortKey()
	})

	if limit >= 0 && len(entries) > limit {
		entries = entries[:limit]
	}

	return entries, nil
}

func (r *Ranker) measure(ctx context.Context, origin spatial.Point, entries RankedResult, batch []int) error {
	destinations := make([]spatial.Point, len(batch))
	for i, idx := range batch {
		destinations[i] = *entries[idx].Organization.Location
	}

	distances, err := r.provider.DistanceMatrix(ctx, origin, destinations)
	if err == nil && len(distances) != len(destinations) {
		err = fmt.Errorf("distance matrix returned %d elements for %d destinations", len(distances), len(destinations))
	}
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		r.metrics.providerFailure("distance_matrix")
		r.logger.WithError(err).WithFields(logrus.Fields{
			"op":         "distance_matrix",
			"error_type": errorClass(err),
			"batch":      len(batch),
		}).Warn("distance computation failed, ranking batch last")

		return nil
	}

	for i, idx := range batch {
		entries[idx].Distance = distances[i]
	}

	return nil
}
