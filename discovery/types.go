// Copyright 2026 The Donar Authors
// SPDX-License-Identifier: Apache-2.0

// Package discovery finds organizations near a point that can receive an
// in-kind donation. It fuses the curated registry with an external place
// provider, filters by donation category and ranks by travel distance.
package discovery

import (
	"math"

	"github.com/jcodagnone/donar/category"
	"github.com/jcodagnone/donar/spatial"
)

const (
	// DefaultRadius is the search radius in meters when none is given.
	DefaultRadius = 50000
	// MaxRadius is the largest radius the place provider accepts.
	MaxRadius = 50000
	// ResultLimit caps the length of every ranked result.
	ResultLimit = 15
	// MaxExternalPlaces caps how many raw provider results get resolved.
	MaxExternalPlaces = 15
)

// SearchRequest is the input of a discovery call.
type SearchRequest struct {
	Origin       *spatial.Point
	Query        string
	VerifiedOnly bool
	Category     category.Category
	// Radius in meters, zero means DefaultRadius.
	Radius float64
}

// Candidate is the source-agnostic view of an organization.
type Candidate struct {
	ID                 string              `json:"id"`
	Name               string              `json:"name"`
	Address            string              `json:"address"`
	Location           *spatial.Point      `json:"location"`
	Description        string              `json:"description"`
	IsExternal         bool                `json:"isExternal"`
	Verified           bool                `json:"verified"`
	AcceptedCategories []category.Category `json:"acceptedCategories,omitempty"`
	TypeTokens         []string            `json:"types,omitempty"`
	Rating             float64             `json:"rating"`
	RatingCount        int                 `json:"ratingCount"`
	Phone              string              `json:"phone,omitempty"`
	Email              string              `json:"email,omitempty"`
	Website            string              `json:"website,omitempty"`
}

// Subject returns what the category classifier needs from c.
func (c *Candidate) Subject() category.Subject {
	return category.Subject{
		Name:        c.Name,
		Description: c.Description,
		External:    c.IsExternal,
		Accepted:    c.AcceptedCategories,
		TypeTokens:  c.TypeTokens,
	}
}

// DistanceInfo is the travel distance from the search origin.
type DistanceInfo struct {
	Meters   float64 `json:"meters"`
	Text     string  `json:"text"`
	Duration string  `json:"duration"`
}

// RankedEntry pairs a candidate with its distance, nil when unknown.
type RankedEntry struct {
	Organization Candidate     `json:"organization"`
	Distance     *DistanceInfo `json:"distance"`
}

// SortKey is the distance in meters, or +Inf when unknown.
func (e RankedEntry) SortKey() float64 {
	if e.Distance == nil {
		return math.Inf(1)
	}

	return e.Distance.Meters
}

// RankedResult is ordered by ascending SortKey and never longer than ResultLimit.
type RankedResult []RankedEntry
