// Copyright 2026 The Donar Authors
// SPDX-License-Identifier: Apache-2.0

package places

import (
	"context"
	"net/url"
	"strconv"

	"github.com/jcodagnone/donar/discovery"
	"github.com/jcodagnone/donar/spatial"
)

type latLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

func (l *latLng) point() *spatial.Point {
	if l == nil {
		return nil
	}

	return spatial.NewPoint(&l.Lat, &l.Lng)
}

type geometry struct {
	Location *latLng `json:"location"`
}

type nearbyResponse struct {
	apiStatus
	Results []struct {
		PlaceID          string    `json:"place_id"`
		Name             string    `json:"name"`
		Vicinity         string    `json:"vicinity"`
		Geometry         *geometry `json:"geometry"`
		Types            []string  `json:"types"`
		Rating           float64   `json:"rating"`
		UserRatingsTotal int       `json:"user_ratings_total"`
	} `json:"results"`
}

// NearbySearch returns the places within radius meters of origin matching
// keyword, in provider order.
func (c *Client) NearbySearch(ctx context.Context, origin spatial.Point, radius float64, keyword string) ([]discovery.RawPlace, error) {
	const op = "nearby_search"

	params := url.Values{}
	params.Set("location", origin.LatLng())
	params.Set("radius", strconv.Itoa(int(radius)))
	if keyword != "" {
		params.Set("keyword", keyword)
	}

	var resp nearbyResponse
	if err := c.get(ctx, op, "/place/nearbysearch/json", params, &resp); err != nil {
		return nil, err
	}

	if err := resp.check(op); err != nil {
		return nil, err
	}

	out := make([]discovery.RawPlace, 0, len(resp.Results))
	for _, r := range resp.Results {
		p := discovery.RawPlace{
			PlaceID:          r.PlaceID,
			Name:             r.Name,
			Vicinity:         r.Vicinity,
			Types:            r.Types,
			Rating:           r.Rating,
			UserRatingsTotal: r.UserRatingsTotal,
		}
		if r.Geometry != nil {
			p.Location = r.Geometry.Location.point()
		}

		out = append(out, p)
	}

	return out, nil
}
