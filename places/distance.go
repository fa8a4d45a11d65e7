// Copyright 2026 The Donar Authors
// SPDX-License-Identifier: Apache-2.0

package places

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/jcodagnone/donar/discovery"
	"github.com/jcodagnone/donar/spatial"
)

// MaxDestinations is the most destinations accepted per distance request.
const MaxDestinations = 25

type distanceResponse struct {
	apiStatus
	Rows []struct {
		Elements []struct {
			Status   string `json:"status"`
			Distance struct {
				Value float64 `json:"value"`
				Text  string  `json:"text"`
			} `json:"distance"`
			Duration struct {
				Value float64 `json:"value"`
				Text  string  `json:"text"`
			} `json:"duration"`
		} `json:"elements"`
	} `json:"rows"`
}

// DistanceMatrix returns driving distances from origin to each destination,
// aligned with destinations. Elements without a route are nil.
func (c *Client) DistanceMatrix(ctx context.Context, origin spatial.Point, destinations []spatial.Point) ([]*discovery.DistanceInfo, error) {
	const op = "distance_matrix"

	if len(destinations) == 0 {
		return nil, nil
	}

	if len(destinations) > MaxDestinations {
		return nil, &ProviderError{
			Type:    ErrorTypeInvalidRequest,
			Op:      op,
			Message: fmt.Sprintf("%d destinations, at most %d allowed", len(destinations), MaxDestinations),
		}
	}

	dest := make([]string, len(destinations))
	for i, d := range destinations {
		dest[i] = d.LatLng()
	}

	params := url.Values{}
	params.Set("origins", origin.LatLng())
	params.Set("destinations", strings.Join(dest, "|"))
	params.Set("mode", "driving")
	params.Set("units", "metric")

	var resp distanceResponse
	if err := c.get(ctx, op, "/distancematrix/json", params, &resp); err != nil {
		return nil, err
	}

	if err := resp.check(op); err != nil {
		return nil, err
	}

	if len(resp.Rows) != 1 || len(resp.Rows[0].Elements) != len(destinations) {
		return nil, &ProviderError{
			Type:    ErrorTypeUnknown,
			Op:      op,
			Message: fmt.Sprintf("unexpected matrix shape for %d destinations", len(destinations)),
		}
	}

	out := make([]*discovery.DistanceInfo, len(destinations))
	for i, e := range resp.Rows[0].Elements {
		if e.Status != "OK" {
			continue
		}

		out[i] = &discovery.DistanceInfo{
			Meters:   e.Distance.Value,
			Text:     e.Distance.Text,
			Duration: e.Duration.Text,
		}
	}

	return out, nil
}
