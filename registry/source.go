// Copyright 2026 The Donar Authors
// SPDX-License-Identifier: Apache-2.0

package registry

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/jcodagnone/donar/discovery"
	"github.com/jcodagnone/donar/spatial"
	"github.com/jcodagnone/donar/utils/htmlutils"
)

// Source adapts a Store to discovery.RegistrySource.
type Source struct {
	store     Store
	maxRadius float64
	logger    logrus.FieldLogger
}

// NewSource creates a Source. A positive maxRadius bounds the registry
// query around the origin.
func NewSource(store Store, maxRadius float64, logger logrus.FieldLogger) *Source {
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	return &Source{store: store, maxRadius: maxRadius, logger: logger}
}

// Fetch returns the registry organizations with coordinates, only verified
// ones when verifiedOnly is set.
func (s *Source) Fetch(ctx context.Context, origin spatial.Point, verifiedOnly bool) ([]discovery.Candidate, error) {
	orgs, err := s.store.FindByGeoExtent(ctx, Filter{
		Origin:       origin,
		VerifiedOnly: verifiedOnly,
		MaxRadius:    s.maxRadius,
	})
	if err != nil {
		return nil, fmt.Errorf("querying registry: %w", err)
	}

	out := make([]discovery.Candidate, 0, len(orgs))
	for _, o := range orgs {
		out = append(out, s.candidate(o))
	}

	return out, nil
}

func (s *Source) candidate(o *Organization) discovery.Candidate {
	description, err := htmlutils.PlainText(o.Description)
	if err != nil {
		s.logger.WithError(err).WithField("id", o.ID).Debug("keeping raw description")
		description = o.Description
	}

	c := discovery.Candidate{
		ID:                 o.ID,
		Name:               o.Name,
		Address:            o.Address,
		Description:        description,
		Verified:           o.Verified,
		AcceptedCategories: o.AcceptedCategories,
		Phone:              o.Phone,
		Email:              o.Email,
		Website:            o.Website,
	}
	if o.Point != nil {
		p := *o.Point
		c.Location = &p
	}

	return c
}
