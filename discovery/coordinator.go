// Copyright 2026 The Donar Authors
// SPDX-License-Identifier: Apache-2.0

package discovery

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/jcodagnone/donar/category"
)

// Stage is a step of a discovery request.
type Stage int

const (
	// StageValidating checks the request before any lookup.
	StageValidating Stage = iota
	// StageFetchingRegistry reads registry organizations around the origin.
	StageFetchingRegistry
	// StageFetchingExternal searches the place provider and resolves details.
	StageFetchingExternal
	// StageFiltering applies the category tiers to registry candidates.
	StageFiltering
	// StageRanking attaches distances, sorts and truncates.
	StageRanking
	// StageDone is entered when a result is returned.
	StageDone
	// StageError is entered when Discover returns an error.
	StageError
)

var stageNames = [...]string{"validating", "fetching_registry", "fetching_external", "filtering", "ranking", "done", "error"}

func (s Stage) String() string {
	if int(s) < len(stageNames) {
		return stageNames[s]
	}

	return "unknown"
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithLogger sets the logger used by the coordinator and its stages.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(c *Coordinator) {
		c.logger = logger
	}
}

// WithMetrics sets the collectors updated by the coordinator and its stages.
func WithMetrics(m *Metrics) Option {
	return func(c *Coordinator) {
		c.metrics = m
	}
}

// Coordinator runs a discovery request through its stages: validation,
// registry fetch, external fetch, category filtering and ranking.
// It keeps no state between requests.
type Coordinator struct {
	registry   RegistrySource
	classifier *category.Classifier
	logger     logrus.FieldLogger
	metrics    *Metrics

	external *ExternalSource
	ranker   *Ranker
}

// NewCoordinator creates a Coordinator over the given sources.
func NewCoordinator(registry RegistrySource, places PlaceProvider, distances DistanceProvider, opts ...Option) *Coordinator {
	c := &Coordinator{
		registry:   registry,
		classifier: category.NewClassifier(),
		logger:     logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.external = NewExternalSource(places, c.classifier, c.logger, c.metrics)
	c.ranker = NewRanker(distances, c.logger, c.metrics)

	return c
}

// Discover returns the organizations closest to req.Origin that can take
// req.Category. External results are only consulted when req.VerifiedOnly
// is false. Provider failures degrade the result; registry failures, invalid
// input and cancellation are returned as *Error.
func (c *Coordinator) Discover(ctx context.Context, req SearchRequest) (RankedResult, error) {
	result, err := c.discover(ctx, req)
	if err != nil {
		c.enter(c.logger.WithError(err).WithField("kind", kindOf(err)), StageError)
		c.metrics.request(kindOf(err).String())

		return nil, err
	}
	c.metrics.request("ok")

	return result, nil
}

func (c *Coordinator) discover(ctx context.Context, req SearchRequest) (RankedResult, error) {
	log := c.logger.WithFields(logrus.Fields{
		"category":      req.Category,
		"verified_only": req.VerifiedOnly,
	})

	c.enter(log, StageValidating)
	req, err := normalize(req)
	if err != nil {
		return nil, err
	}
	origin := *req.Origin

	c.enter(log, StageFetchingRegistry)
	registry, err := c.registry.Fetch(ctx, origin, req.VerifiedOnly)
	if err != nil {
		if ctx.Err() != nil {
			return nil, canceled(StageFetchingRegistry, ctx.Err())
		}

		return nil, &Error{
			Kind:    ErrorKindRegistryUnavailable,
			Stage:   StageFetchingRegistry,
			Message: "registry unavailable",
			Err:     err,
		}
	}

	var external []Candidate
	if !req.VerifiedOnly {
		c.enter(log, StageFetchingExternal)
		external, err = c.external.Fetch(ctx, origin, req.Query, req.Category, req.Radius)
		if err != nil {
			return nil, canceled(StageFetchingExternal, err)
		}
	}

	c.enter(log, StageFiltering)
	registry = c.filterRegistry(log, registry, req)

	merged := make([]Candidate, 0, len(registry)+len(external))
	merged = append(merged, registry...)
	merged = append(merged, external...)
	c.metrics.observeCandidates(len(merged))

	c.enter(log, StageRanking)
	ranked, err := c.ranker.Rank(ctx, origin, merged, ResultLimit)
	if err != nil {
		return nil, canceled(StageRanking, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, canceled(StageRanking, err)
	}

	c.enter(log, StageDone)
	log.WithFields(logrus.Fields{
		"registry": len(registry),
		"external": len(external),
		"returned": len(ranked),
	}).Debug("discovery finished")

	return ranked, nil
}

func (c *Coordinator) enter(log logrus.FieldLogger, s Stage) {
	log.WithField("stage", s).Debug("discovery stage")
}

// filterRegistry applies the category tiers to registry candidates. When
// that leaves nothing, it falls back to matching organization type phrases
// in the name and description.
func (c *Coordinator) filterRegistry(log logrus.FieldLogger, candidates []Candidate, req SearchRequest) []Candidate {
	out := make([]Candidate, 0, len(candidates))
	for i := range candidates {
		if req.VerifiedOnly && (!candidates[i].Verified || candidates[i].IsExternal) {
			continue
		}
		if c.classifier.Accepts(candidates[i].Subject(), req.Category) {
			out = append(out, candidates[i])
		}
	}
	if len(out) > 0 || req.Category.IsZero() {
		return out
	}

	for i := range candidates {
		if req.VerifiedOnly && (!candidates[i].Verified || candidates[i].IsExternal) {
			continue
		}
		if c.classifier.MatchesOrgTypeText(candidates[i].Subject(), req.Category) {
			out = append(out, candidates[i])
		}
	}
	if len(out) > 0 {
		c.metrics.fallback("registry")
		log.WithField("matched", len(out)).Debug("registry category filter left nothing, matched organization types")
	}

	return out
}

func normalize(req SearchRequest) (SearchRequest, error) {
	if req.Origin == nil {
		return req, invalidInput("lat and lng are required")
	}
	if err := req.Origin.Validate(); err != nil {
		return req, &Error{Kind: ErrorKindInvalidInput, Stage: StageValidating, Message: "invalid origin", Err: err}
	}
	if !req.Category.IsZero() {
		if _, ok := category.RuleFor(req.Category); !ok {
			return req, invalidInput("unknown donation category %q", string(req.Category))
		}
	}

	switch {
	case req.Radius < 0:
		return req, invalidInput("radius must be positive")
	case req.Radius == 0:
		req.Radius = DefaultRadius
	case req.Radius > MaxRadius:
		req.Radius = MaxRadius
	}
	req.Query = strings.TrimSpace(req.Query)

	return req, nil
}
