// Copyright 2026 The Donar Authors
// SPDX-License-Identifier: Apache-2.0

package discovery

import (
	"context"

	"github.com/jcodagnone/donar/spatial"
)

// RegistrySource fetches candidates from the curated registry.
type RegistrySource interface {
	Fetch(ctx context.Context, origin spatial.Point, verifiedOnly bool) ([]Candidate, error)
}

// RawPlace is a nearby search hit, before details are resolved.
type RawPlace struct {
	PlaceID          string
	Name             string
	Vicinity         string
	Location         *spatial.Point
	Types            []string
	Rating           float64
	UserRatingsTotal int
}

// PlaceDetails is the detail record of a single place.
type PlaceDetails struct {
	PlaceID          string
	Name             string
	FormattedAddress string
	Phone            string
	Website          string
	Summary          string
	Location         *spatial.Point
	Types            []string
	Rating           float64
	UserRatingsTotal int
}

// PlaceProvider is the external place search service.
type PlaceProvider interface {
	NearbySearch(ctx context.Context, origin spatial.Point, radius float64, keyword string) ([]RawPlace, error)
	PlaceDetails(ctx context.Context, placeID string) (*PlaceDetails, error)
}

// DistanceProvider computes travel distances from one origin to many
// destinations. The result is aligned with destinations; a nil element means
// no route was found for that destination.
type DistanceProvider interface {
	DistanceMatrix(ctx context.Context, origin spatial.Point, destinations []spatial.Point) ([]*DistanceInfo, error)
}
