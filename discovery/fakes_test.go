// Copyright 2026 The Donar Authors
// SPDX-License-Identifier: Apache-2.0

package discovery

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/jcodagnone/donar/spatial"
)

var sanFrancisco = spatial.Point{Lat: 37.7749, Lng: -122.4194}

// offset returns a point roughly meters north of sanFrancisco.
func offset(meters float64) *spatial.Point {
	return &spatial.Point{Lat: sanFrancisco.Lat + meters/111_195, Lng: sanFrancisco.Lng}
}

// classifiedErr is a provider error carrying a failure type.
type classifiedErr struct {
	class string
	msg   string
}

func (e *classifiedErr) Error() string      { return e.msg }
func (e *classifiedErr) ErrorClass() string { return e.class }

type fakeRegistry struct {
	candidates []Candidate
	err        error

	mu    sync.Mutex
	calls int
}

func (f *fakeRegistry) Fetch(_ context.Context, _ spatial.Point, verifiedOnly bool) ([]Candidate, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()

	if f.err != nil {
		return nil, f.err
	}

	out := make([]Candidate, 0, len(f.candidates))
	for _, c := range f.candidates {
		if verifiedOnly && !c.Verified {
			continue
		}
		out = append(out, c)
	}

	return out, nil
}

type fakePlaces struct {
	raw       []RawPlace
	nearbyErr error
	details   map[string]*PlaceDetails
	// failFirst makes the first detail call of every place fail.
	failFirst bool
	detailErr error
	// onDetails runs inside every detail call; a non nil error is returned.
	onDetails func(ctx context.Context, placeID string) error

	mu          sync.Mutex
	keywords    []string
	radii       []float64
	attempts    map[string]int
	detailCalls int
}

func (f *fakePlaces) NearbySearch(ctx context.Context, _ spatial.Point, radius float64, keyword string) ([]RawPlace, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f.mu.Lock()
	f.keywords = append(f.keywords, keyword)
	f.radii = append(f.radii, radius)
	f.mu.Unlock()

	if f.nearbyErr != nil {
		return nil, f.nearbyErr
	}

	return f.raw, nil
}

func (f *fakePlaces) PlaceDetails(ctx context.Context, placeID string) (*PlaceDetails, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f.mu.Lock()
	if f.attempts == nil {
		f.attempts = map[string]int{}
	}
	f.attempts[placeID]++
	attempt := f.attempts[placeID]
	f.detailCalls++
	f.mu.Unlock()

	if f.onDetails != nil {
		if err := f.onDetails(ctx, placeID); err != nil {
			return nil, err
		}
	}

	switch {
	case f.detailErr != nil:
		return nil, f.detailErr
	case f.failFirst && attempt == 1:
		return nil, errors.New("backend error")
	}

	d, ok := f.details[placeID]
	if !ok {
		return nil, errors.New("NOT_FOUND")
	}

	return d, nil
}

func (f *fakePlaces) searches() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return len(f.keywords)
}

type fakeDistances struct {
	failCalls   map[int]bool
	unreachable map[spatial.Point]bool
	short       bool

	mu      sync.Mutex
	batches []int
}

func (f *fakeDistances) DistanceMatrix(ctx context.Context, origin spatial.Point, destinations []spatial.Point) ([]*DistanceInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f.mu.Lock()
	call := len(f.batches)
	f.batches = append(f.batches, len(destinations))
	f.mu.Unlock()

	if f.failCalls[call] {
		return nil, &classifiedErr{class: "quota_exceeded", msg: "OVER_QUERY_LIMIT"}
	}

	out := make([]*DistanceInfo, len(destinations))
	for i := range destinations {
		if f.unreachable[destinations[i]] {
			continue
		}
		meters := math.Round(origin.HaversineDistance(&destinations[i]))
		out[i] = &DistanceInfo{
			Meters:   meters,
			Text:     fmt.Sprintf("%.1f km", meters/1000),
			Duration: fmt.Sprintf("%d mins", int(meters/500)+1),
		}
	}
	if f.short {
		out = out[:len(out)-1]
	}

	return out, nil
}
