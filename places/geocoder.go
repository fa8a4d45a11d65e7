// Copyright 2026 The Donar Authors
// SPDX-License-Identifier: Apache-2.0

package places

import (
	"context"
	"net/url"

	"github.com/jcodagnone/donar/spatial"
)

// GeocodingResult is the best match for an address.
type GeocodingResult struct {
	Point       spatial.Point
	Confidence  string // high, medium, low
	DisplayName string
}

type geocodeResponse struct {
	apiStatus
	Results []struct {
		Geometry struct {
			Location     latLng `json:"location"`
			LocationType string `json:"location_type"` // ROOFTOP, RANGE_INTERPOLATED, GEOMETRIC_CENTER, APPROXIMATE
		} `json:"geometry"`
		FormattedAddress string `json:"formatted_address"`
	} `json:"results"`
}

// Geocode resolves a free-form address to a point.
func (c *Client) Geocode(ctx context.Context, address string) (*GeocodingResult, error) {
	const op = "geocode"

	params := url.Values{}
	params.Set("address", address)
	if c.region != "" {
		params.Set("region", c.region)
	}

	var resp geocodeResponse
	if err := c.get(ctx, op, "/geocode/json", params, &resp); err != nil {
		return nil, err
	}

	if err := resp.check(op); err != nil {
		return nil, err
	}

	if len(resp.Results) == 0 {
		return nil, &ProviderError{Type: ErrorTypeNotFound, Op: op, Message: "no results found for address: " + address}
	}

	result := resp.Results[0]

	p := result.Geometry.Location.point()
	if p == nil {
		return nil, &ProviderError{Type: ErrorTypeUnknown, Op: op, Message: "invalid coordinates in response", Err: spatial.ErrInvalidCoordinates}
	}

	confidence := "low"

	switch result.Geometry.LocationType {
	case "ROOFTOP", "RANGE_INTERPOLATED":
		confidence = "high"
	case "GEOMETRIC_CENTER":
		confidence = "medium"
	}

	return &GeocodingResult{
		Point:       *p,
		Confidence:  confidence,
		DisplayName: result.FormattedAddress,
	}, nil
}
