// Copyright 2026 The Donar Authors
// SPDX-License-Identifier: Apache-2.0

package places

import (
	"context"
	"net/url"
	"strings"

	"github.com/jcodagnone/donar/discovery"
)

// detailFields keeps the request in the Basic, Contact and Atmosphere SKUs.
var detailFields = []string{
	"place_id",
	"name",
	"formatted_address",
	"formatted_phone_number",
	"website",
	"geometry/location",
	"types",
	"rating",
	"user_ratings_total",
	"editorial_summary",
}

type detailsResponse struct {
	apiStatus
	Result struct {
		PlaceID              string    `json:"place_id"`
		Name                 string    `json:"name"`
		FormattedAddress     string    `json:"formatted_address"`
		FormattedPhoneNumber string    `json:"formatted_phone_number"`
		Website              string    `json:"website"`
		Geometry             *geometry `json:"geometry"`
		Types                []string  `json:"types"`
		Rating               float64   `json:"rating"`
		UserRatingsTotal     int       `json:"user_ratings_total"`
		EditorialSummary     *struct {
			Overview string `json:"overview"`
		} `json:"editorial_summary"`
	} `json:"result"`
}

// PlaceDetails resolves the detail record of placeID.
func (c *Client) PlaceDetails(ctx context.Context, placeID string) (*discovery.PlaceDetails, error) {
	const op = "place_details"

	params := url.Values{}
	params.Set("place_id", placeID)
	params.Set("fields", strings.Join(detailFields, ","))

	var resp detailsResponse
	if err := c.get(ctx, op, "/place/details/json", params, &resp); err != nil {
		return nil, err
	}

	if err := resp.check(op); err != nil {
		return nil, err
	}

	if resp.Status == "ZERO_RESULTS" {
		return nil, &ProviderError{Type: ErrorTypeNotFound, Op: op, Message: "no details for " + placeID}
	}

	r := resp.Result
	d := &discovery.PlaceDetails{
		PlaceID:          r.PlaceID,
		Name:             r.Name,
		FormattedAddress: r.FormattedAddress,
		Phone:            r.FormattedPhoneNumber,
		Website:          r.Website,
		Types:            r.Types,
		Rating:           r.Rating,
		UserRatingsTotal: r.UserRatingsTotal,
	}
	if d.PlaceID == "" {
		d.PlaceID = placeID
	}
	if r.Geometry != nil {
		d.Location = r.Geometry.Location.point()
	}
	if r.EditorialSummary != nil {
		d.Summary = r.EditorialSummary.Overview
	}

	return d, nil
}
