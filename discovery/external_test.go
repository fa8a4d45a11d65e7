// Copyright 2026 The Donar Authors
// SPDX-License-Identifier: Apache-2.0

package discovery

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcodagnone/donar/category"
)

func rawPlaces(n int) []RawPlace {
	out := make([]RawPlace, n)
	for i := range out {
		out[i] = RawPlace{
			PlaceID:  fmt.Sprintf("place-%02d", i),
			Name:     fmt.Sprintf("Place %d", i),
			Vicinity: fmt.Sprintf("%d Market St", 100+i),
			Location: offset(float64(200 * (i + 1))),
		}
	}

	return out
}

func newExternal(t *testing.T, places PlaceProvider) (*ExternalSource, *logtest.Hook, *Metrics) {
	t.Helper()

	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	metrics := newTestMetrics(t)

	return NewExternalSource(places, category.NewClassifier(), logger, metrics), hook, metrics
}

func candidateIDs(cs []Candidate) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.ID
	}

	return out
}

func TestExternalSource_NoCategoryKeepsEverything(t *testing.T) {
	raw := rawPlaces(3)
	places := &fakePlaces{raw: raw, details: map[string]*PlaceDetails{
		"place-00": {Name: "Glide Memorial", FormattedAddress: "330 Ellis St, San Francisco", Phone: "+1 415-674-6000", Types: []string{"church"}},
		"place-01": {Name: "Corner Cafe"},
		"place-02": {Name: "Tool Library", Website: "https://tools.example.org"},
	}}
	src, _, _ := newExternal(t, places)

	got, err := src.Fetch(context.Background(), sanFrancisco, "", category.None, DefaultRadius)
	require.NoError(t, err)

	require.Equal(t, []string{"place-00", "place-01", "place-02"}, candidateIDs(got))
	assert.Equal(t, "Glide Memorial", got[0].Name)
	assert.Equal(t, "330 Ellis St, San Francisco", got[0].Address)
	assert.Equal(t, "+1 415-674-6000", got[0].Phone)
	assert.Equal(t, []string{"church"}, got[0].TypeTokens)
	assert.True(t, got[0].IsExternal)
	assert.False(t, got[0].Verified)
	assert.Equal(t, "101 Market St", got[1].Address, "raw vicinity kept when details have no address")
	assert.Equal(t, "https://tools.example.org", got[2].Website)
	assert.Equal(t, []string{"homeless shelter OR food bank OR community center"}, places.keywords)
}

func TestExternalSource_SearchPhraseAndRadius(t *testing.T) {
	places := &fakePlaces{}
	src, _, _ := newExternal(t, places)

	got, err := src.Fetch(context.Background(), sanFrancisco, "Mission", category.Books, 1200)
	require.NoError(t, err)

	assert.Empty(t, got)
	assert.Equal(t, []string{"mission library OR school OR literacy nonprofit"}, places.keywords)
	assert.Equal(t, []float64{1200}, places.radii)
	assert.Zero(t, places.detailCalls)
}

func TestExternalSource_CapsRawResults(t *testing.T) {
	raw := rawPlaces(20)
	details := map[string]*PlaceDetails{}
	for _, p := range raw {
		details[p.PlaceID] = &PlaceDetails{Name: p.Name}
	}
	places := &fakePlaces{raw: raw, details: details}
	src, _, _ := newExternal(t, places)

	got, err := src.Fetch(context.Background(), sanFrancisco, "", category.None, DefaultRadius)
	require.NoError(t, err)

	assert.Len(t, got, MaxExternalPlaces)
	assert.Equal(t, MaxExternalPlaces, places.detailCalls)
}

func TestExternalSource_DetailFailureFallsBackToSearchData(t *testing.T) {
	raw := rawPlaces(2)
	raw[1].Types = []string{"food_bank", "establishment"}
	raw[1].Rating = 4.5
	raw[1].UserRatingsTotal = 12
	places := &fakePlaces{raw: raw, details: map[string]*PlaceDetails{
		"place-00": {Name: "SF-Marin Food Bank", Types: []string{"food_bank"}},
	}}
	src, hook, metrics := newExternal(t, places)

	got, err := src.Fetch(context.Background(), sanFrancisco, "", category.Food, DefaultRadius)
	require.NoError(t, err)

	require.Equal(t, []string{"place-00", "place-01"}, candidateIDs(got))
	assert.Equal(t, "Place 1", got[1].Name)
	assert.Equal(t, "101 Market St", got[1].Address)
	assert.Equal(t, []string{"food_bank", "establishment"}, got[1].TypeTokens)
	assert.InDelta(t, 4.5, got[1].Rating, 0)
	assert.Equal(t, 12, got[1].RatingCount)

	var warned bool
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.WarnLevel && e.Data["place_id"] == "place-01" {
			warned = true
		}
	}
	assert.True(t, warned)
	assert.InDelta(t, 1, counterValue(t, metrics.providerFailures, "place_details"), 0)
}

func TestExternalSource_SearchFailureIsAbsorbed(t *testing.T) {
	places := &fakePlaces{nearbyErr: errors.New("REQUEST_DENIED")}
	src, hook, metrics := newExternal(t, places)

	got, err := src.Fetch(context.Background(), sanFrancisco, "", category.Food, DefaultRadius)
	require.NoError(t, err)

	assert.Empty(t, got)
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
	assert.Equal(t, "nearby_search", hook.LastEntry().Data["op"])
	assert.Equal(t, "unknown", hook.LastEntry().Data["error_type"])
	assert.InDelta(t, 1, counterValue(t, metrics.providerFailures, "nearby_search"), 0)
}

func TestExternalSource_LogsProviderErrorType(t *testing.T) {
	denied := &classifiedErr{class: "denied", msg: "REQUEST_DENIED"}
	places := &fakePlaces{raw: rawPlaces(2), detailErr: fmt.Errorf("details: %w", denied)}
	src, hook, _ := newExternal(t, places)

	_, err := src.Fetch(context.Background(), sanFrancisco, "", category.None, DefaultRadius)
	require.NoError(t, err)

	var warned int
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.WarnLevel && e.Data["op"] == "place_details" {
			assert.Equal(t, "denied", e.Data["error_type"])
			warned++
		}
	}
	assert.Equal(t, 2, warned)
}

func TestExternalSource_DetailsResolveConcurrently(t *testing.T) {
	raw := rawPlaces(MaxExternalPlaces)
	details := map[string]*PlaceDetails{}
	for _, p := range raw {
		details[p.PlaceID] = &PlaceDetails{Name: p.Name}
	}

	// every lookup waits until all of them are in flight
	var (
		arrived       sync.WaitGroup
		current, peak atomic.Int32
	)
	arrived.Add(len(raw))
	all := make(chan struct{})
	go func() {
		arrived.Wait()
		close(all)
	}()

	places := &fakePlaces{raw: raw, details: details, onDetails: func(ctx context.Context, _ string) error {
		n := current.Add(1)
		defer current.Add(-1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		arrived.Done()

		select {
		case <-all:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Second):
			return errors.New("lookups did not overlap")
		}
	}}
	src, _, metrics := newExternal(t, places)

	got, err := src.Fetch(context.Background(), sanFrancisco, "", category.None, DefaultRadius)
	require.NoError(t, err)

	assert.Len(t, got, MaxExternalPlaces)
	assert.Equal(t, int32(MaxExternalPlaces), peak.Load())
	assert.Zero(t, counterValue(t, metrics.providerFailures, "place_details"))
}

func TestExternalSource_CanceledDuringDetails(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	places := &fakePlaces{raw: rawPlaces(6), details: map[string]*PlaceDetails{}, onDetails: func(ctx context.Context, placeID string) error {
		if placeID == "place-03" {
			cancel()

			return ctx.Err()
		}

		return nil
	}}
	for _, p := range places.raw {
		places.details[p.PlaceID] = &PlaceDetails{Name: p.Name}
	}
	src, hook, metrics := newExternal(t, places)

	got, err := src.Fetch(ctx, sanFrancisco, "", category.None, DefaultRadius)
	require.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, got)
	assert.Zero(t, counterValue(t, metrics.providerFailures, "place_details"))
	for _, e := range hook.AllEntries() {
		assert.NotEqual(t, logrus.WarnLevel, e.Level)
	}
}

func TestExternalSource_CategoryFilter(t *testing.T) {
	raw := rawPlaces(3)
	places := &fakePlaces{raw: raw, details: map[string]*PlaceDetails{
		"place-00": {Name: "Sunset Youth Services", Summary: "Free tutoring and school supplies drive"},
		"place-01": {Name: "Noe Valley Bakery", Types: []string{"bakery", "food"}},
		"place-02": {Name: "Lincoln High", Types: []string{"secondary_school"}},
	}}
	src, _, metrics := newExternal(t, places)

	got, err := src.Fetch(context.Background(), sanFrancisco, "", category.SchoolSupplies, DefaultRadius)
	require.NoError(t, err)

	assert.Equal(t, []string{"place-00", "place-02"}, candidateIDs(got))
	assert.Equal(t, 3, places.detailCalls, "no second pass when the first one matched")
	assert.Zero(t, counterValue(t, metrics.fallbacks, "external"))
}

func TestExternalSource_TypeTokenFallback(t *testing.T) {
	raw := rawPlaces(10)
	details := map[string]*PlaceDetails{}
	for _, p := range raw {
		details[p.PlaceID] = &PlaceDetails{Name: p.Name, Types: []string{"restaurant", "point_of_interest"}}
	}
	details["place-02"].Types = []string{"primary_school", "establishment"}
	details["place-05"].Types = []string{"library"}
	details["place-07"].Types = []string{"education_nonprofit"}

	// The first detail pass fails for every place, so only coarse search
	// data without types is available and no tier accepts anything.
	places := &fakePlaces{raw: raw, details: details, failFirst: true}
	src, _, metrics := newExternal(t, places)

	got, err := src.Fetch(context.Background(), sanFrancisco, "", category.Books, DefaultRadius)
	require.NoError(t, err)

	assert.Equal(t, []string{"place-02", "place-05", "place-07"}, candidateIDs(got))
	assert.Equal(t, 20, places.detailCalls, "raw set resolved twice")
	assert.InDelta(t, 1, counterValue(t, metrics.fallbacks, "external"), 0)
}

func TestExternalSource_FallbackCanReturnNothing(t *testing.T) {
	raw := rawPlaces(2)
	places := &fakePlaces{raw: raw, details: map[string]*PlaceDetails{
		"place-00": {Name: "Joe's Garage", Types: []string{"car_repair"}},
		"place-01": {Name: "Pier 39", Types: []string{"tourist_attraction"}},
	}}
	src, _, _ := newExternal(t, places)

	got, err := src.Fetch(context.Background(), sanFrancisco, "", category.Books, DefaultRadius)
	require.NoError(t, err)

	assert.Empty(t, got)
	assert.Equal(t, 4, places.detailCalls)
}

func TestExternalSource_Canceled(t *testing.T) {
	places := &fakePlaces{raw: rawPlaces(3)}
	src, _, metrics := newExternal(t, places)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := src.Fetch(ctx, sanFrancisco, "", category.Food, DefaultRadius)
	require.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, counterValue(t, metrics.providerFailures, "nearby_search"))
}
