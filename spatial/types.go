// Copyright 2026 The Donar Authors
// SPDX-License-Identifier: Apache-2.0

package spatial

import (
	"errors"
	"fmt"
	"math"
	"strconv"
)

const earthRadius = 6371e3 // meters

// ErrInvalidCoordinates is returned when a latitude or longitude is out of range.
var ErrInvalidCoordinates = errors.New("invalid coordinates")

// Point represents a geographical point with latitude and longitude.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// String returns a string representation of the Point.
func (p Point) String() string {
	return fmt.Sprintf("POINT(%f %f)", p.Lng, p.Lat)
}

// LatLng renders the point as "lat,lng", the form the Google web services expect.
func (p Point) LatLng() string {
	return strconv.FormatFloat(p.Lat, 'f', -1, 64) + "," + strconv.FormatFloat(p.Lng, 'f', -1, 64)
}

// Validate verifies that both coordinates are finite and within range.
func (p Point) Validate() error {
	if math.IsNaN(p.Lat) || math.IsNaN(p.Lng) || math.IsInf(p.Lat, 0) || math.IsInf(p.Lng, 0) {
		return fmt.Errorf("%w: not a number", ErrInvalidCoordinates)
	}

	if p.Lat < -90 || p.Lat > 90 {
		return fmt.Errorf("%w: latitude must be between -90 and 90 (got %f)", ErrInvalidCoordinates, p.Lat)
	}

	if p.Lng < -180 || p.Lng > 180 {
		return fmt.Errorf("%w: longitude must be between -180 and 180 (got %f)", ErrInvalidCoordinates, p.Lng)
	}

	return nil
}

// NewPoint builds a Point from nullable coordinates. Both must be present and
// valid, otherwise nil is returned.
func NewPoint(lat, lng *float64) *Point {
	if lat == nil || lng == nil {
		return nil
	}

	p := &Point{Lat: *lat, Lng: *lng}
	if p.Validate() != nil {
		return nil
	}

	return p
}

// HaversineDistance calculates the distance between two points on Earth in meters.
func (p *Point) HaversineDistance(other *Point) float64 {
	lat1 := p.Lat * math.Pi / 180
	lat2 := other.Lat * math.Pi / 180
	dLat := (other.Lat - p.Lat) * math.Pi / 180
	dLng := (other.Lng - p.Lng) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*
			math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadius * c
}
