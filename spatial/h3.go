// Copyright 2026 The Donar Authors
// SPDX-License-Identifier: Apache-2.0

package spatial

import (
	"errors"
	"fmt"
	"math"

	"github.com/uber/h3-go/v4"
)

// Resolutions stored alongside every registry point.
const (
	MinExtentResolution = 5
	MaxExtentResolution = 7
)

// maxExtentRings bounds the size of the cell set handed to the database.
const maxExtentRings = 10

// ErrExtentTooLarge is returned by ExtentOf when even the coarsest
// resolution needs more than maxExtentRings rings to cover the radius.
var ErrExtentTooLarge = errors.New("radius too large for an h3 extent")

// average hexagon edge length in meters, per resolution.
var avgEdgeLength = map[int]float64{
	5: 8544.408276,
	6: 3229.482772,
	7: 1220.629759,
}

// Cells holds the h3 cell of a point at every extent resolution.
type Cells map[int]int64

// CellsOf computes the h3 cells of p for MinExtentResolution..MaxExtentResolution.
func CellsOf(p Point) (Cells, error) {
	latLng := h3.NewLatLng(p.Lat, p.Lng)
	cells := make(Cells, MaxExtentResolution-MinExtentResolution+1)

	for res := MinExtentResolution; res <= MaxExtentResolution; res++ {
		cell, err := h3.LatLngToCell(latLng, res)
		if err != nil {
			return nil, fmt.Errorf("error converting to h3 cell at res %d: %w", res, err)
		}

		cells[res] = int64(cell)
	}

	return cells, nil
}

// Extent is a set of h3 cells at a single resolution covering a circle.
type Extent struct {
	Resolution int
	Cells      []int64
}

// ExtentOf returns the cells covering a circle of radius meters around the
// center. It picks the finest resolution whose disk stays within
// maxExtentRings rings, or fails with ErrExtentTooLarge when none does. The
// disk is a superset of the circle: callers refine with HaversineDistance.
func ExtentOf(center Point, radius float64) (*Extent, error) {
	if radius <= 0 {
		return nil, fmt.Errorf("radius must be positive (got %f)", radius)
	}

	res, k := MinExtentResolution, 0

	for r := MaxExtentResolution; r >= MinExtentResolution; r-- {
		res = r
		// a k ring disk reaches at least 1.5*edge*k from its center; one
		// extra ring absorbs edge length distortion
		k = int(math.Ceil(radius/(1.5*avgEdgeLength[r]))) + 1

		if k <= maxExtentRings {
			break
		}
	}

	if k > maxExtentRings {
		return nil, fmt.Errorf("%w: %.0f m", ErrExtentTooLarge, radius)
	}

	origin, err := h3.LatLngToCell(h3.NewLatLng(center.Lat, center.Lng), res)
	if err != nil {
		return nil, fmt.Errorf("error converting to h3 cell at res %d: %w", res, err)
	}

	disk, err := h3.GridDisk(origin, k)
	if err != nil {
		return nil, fmt.Errorf("computing grid disk: %w", err)
	}

	extent := &Extent{Resolution: res, Cells: make([]int64, 0, len(disk))}
	for _, c := range disk {
		extent.Cells = append(extent.Cells, int64(c))
	}

	return extent, nil
}
