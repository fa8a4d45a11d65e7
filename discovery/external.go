// Copyright 2026 The Donar Authors
// SPDX-License-Identifier: Apache-2.0

package discovery

import (
	"context"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/jcodagnone/donar/category"
	"github.com/jcodagnone/donar/spatial"
)

// ExternalSource turns place provider results into category filtered
// candidates. Provider failures never fail a search: they are logged and
// degrade to fewer or coarser results.
type ExternalSource struct {
	provider   PlaceProvider
	classifier *category.Classifier
	logger     logrus.FieldLogger
	metrics    *Metrics
}

// NewExternalSource creates an ExternalSource over provider.
func NewExternalSource(provider PlaceProvider, classifier *category.Classifier, logger logrus.FieldLogger, metrics *Metrics) *ExternalSource {
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	return &ExternalSource{
		provider:   provider,
		classifier: classifier,
		logger:     logger,
		metrics:    metrics,
	}
}

// Fetch searches around origin and returns at most MaxExternalPlaces
// candidates that can take cat. The only error returned is ctx's.
func (s *ExternalSource) Fetch(ctx context.Context, origin spatial.Point, query string, cat category.Category, radius float64) ([]Candidate, error) {
	keyword := category.SearchPhrase(cat, query)

	raw, err := s.provider.NearbySearch(ctx, origin, radius, keyword)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		s.metrics.providerFailure("nearby_search")
		s.logger.WithError(err).WithFields(logrus.Fields{
			"op":         "nearby_search",
			"error_type": errorClass(err),
			"keyword":    keyword,
		}).Warn("place search failed, continuing without external results")

		return nil, nil
	}
	if len(raw) > MaxExternalPlaces {
		raw = raw[:MaxExternalPlaces]
	}

	candidates, err := s.resolve(ctx, raw)
	if err != nil {
		return nil, err
	}
	if cat.IsZero() {
		return candidates, nil
	}

	filtered := s.filter(candidates, func(c *Candidate) bool {
		return s.classifier.Accepts(c.Subject(), cat)
	})
	if len(filtered) > 0 || len(raw) == 0 {
		return filtered, nil
	}

	// Nothing survived. Resolve the raw set again and keep whatever the
	// provider typed as a matching organization.
	s.metrics.fallback("external")
	s.logger.WithFields(logrus.Fields{
		"category": cat,
		"raw":      len(raw),
	}).Debug("external category filter left nothing, retrying with type tokens")

	candidates, err = s.resolve(ctx, raw)
	if err != nil {
		return nil, err
	}

	return s.filter(candidates, func(c *Candidate) bool {
		return s.classifier.MatchesTypeTokens(c.TypeTokens, cat)
	}), nil
}

func (s *ExternalSource) filter(candidates []Candidate, keep func(*Candidate) bool) []Candidate {
	out := make([]Candidate, 0, len(candidates))
	for i := range candidates {
		if keep(&candidates[i]) {
			out = append(out, candidates[i])
		}
	}

	return out
}

// resolve fetches details for every raw place concurrently. The output keeps
// the order of raw. A failed detail call falls back to the raw data.
func (s *ExternalSource) resolve(ctx context.Context, raw []RawPlace) ([]Candidate, error) {
	if len(raw) == 0 {
		return nil, ctx.Err()
	}

	out := make([]Candidate, len(raw))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(len(raw))

	for i, place := range raw {
		g.Go(func() error {
			details, err := s.provider.PlaceDetails(gctx, place.PlaceID)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				s.metrics.providerFailure("place_details")
				s.logger.WithError(err).WithFields(logrus.Fields{
					"op":         "place_details",
					"error_type": errorClass(err),
					"place_id":   place.PlaceID,
				}).Warn("place details failed, using search data")
				out[i] = fromRawPlace(place)

				return nil
			}
			out[i] = fromPlaceDetails(place, details)

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return out, ctx.Err()
}

func fromRawPlace(p RawPlace) Candidate {
	return Candidate{
		ID:          p.PlaceID,
		Name:        p.Name,
		Address:     p.Vicinity,
		Location:    p.Location,
		IsExternal:  true,
		TypeTokens:  p.Types,
		Rating:      p.Rating,
		RatingCount: p.UserRatingsTotal,
	}
}

func fromPlaceDetails(p RawPlace, d *PlaceDetails) Candidate {
	c := fromRawPlace(p)
	if d == nil {
		return c
	}
	if d.Name != "" {
		c.Name = d.Name
	}
	if d.FormattedAddress != "" {
		c.Address = d.FormattedAddress
	}
	if d.Location != nil {
		c.Location = d.Location
	}
	if len(d.Types) > 0 {
		c.TypeTokens = d.Types
	}
	if d.UserRatingsTotal > 0 {
		c.Rating = d.Rating
		c.RatingCount = d.UserRatingsTotal
	}
	c.Description = d.Summary
	c.Phone = d.Phone
	c.Website = d.Website

	return c
}
