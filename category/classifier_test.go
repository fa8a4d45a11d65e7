// Copyright 2026 The Donar Authors
// SPDX-License-Identifier: Apache-2.0

package category

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifier_Match(t *testing.T) {
	cl := NewClassifier()

	tests := []struct {
		name     string
		subject  Subject
		category Category
		expected Tier
	}{
		{
			name:     "no category accepts anything",
			subject:  Subject{Name: "Bike Repair Co-op"},
			category: None,
			expected: TierUnrestricted,
		},
		{
			name:     "generic category accepts anything",
			subject:  Subject{Name: "Bike Repair Co-op", External: true},
			category: Other,
			expected: TierUnrestricted,
		},
		{
			name:     "explicit tag",
			subject:  Subject{Name: "Hope House", Accepted: []Category{Clothing}},
			category: Clothing,
			expected: TierExplicit,
		},
		{
			name:     "explicit generic tag",
			subject:  Subject{Name: "Hope House", Accepted: []Category{Other}},
			category: Books,
			expected: TierExplicit,
		},
		{
			name:     "hygiene tag covers menstrual products",
			subject:  Subject{Name: "Hope House", Accepted: []Category{Hygiene}},
			category: MenstrualProducts,
			expected: TierExplicit,
		},
		{
			name:     "menstrual tag does not cover hygiene",
			subject:  Subject{Name: "Hope House", Accepted: []Category{MenstrualProducts}},
			category: Hygiene,
			expected: TierNone,
		},
		{
			name:     "explicit tags ignored for external candidates",
			subject:  Subject{Name: "Corner Store", External: true, Accepted: []Category{Food}},
			category: Food,
			expected: TierNone,
		},
		{
			name:     "keyword in description is case and accent insensitive",
			subject:  Subject{Name: "St. Anthony", Description: "Weekly FOOD PANTRY and hot meals"},
			category: Food,
			expected: TierKeyword,
		},
		{
			name:     "keyword in name",
			subject:  Subject{Name: "Bayview Literacy Project", External: true},
			category: Books,
			expected: TierKeyword,
		},
		{
			name:     "type token contained in org type",
			subject:  Subject{Name: "Glide", External: true, TypeTokens: []string{"church", "point_of_interest"}},
			category: Food,
			expected: TierTypeToken,
		},
		{
			name:     "org type contained in type token",
			subject:  Subject{Name: "Lincoln Elementary", External: true, TypeTokens: []string{"primary_school"}},
			category: Books,
			expected: TierTypeToken,
		},
		{
			name:     "type tokens ignored for registry candidates",
			subject:  Subject{Name: "Lincoln Elementary", TypeTokens: []string{"primary_school"}},
			category: Books,
			expected: TierNone,
		},
		{
			name:     "community fallback accepts hygiene",
			subject:  Subject{Name: "Tenderloin Resource Hub"},
			category: Hygiene,
			expected: TierCommunity,
		},
		{
			name:     "community fallback for food needs a food word",
			subject:  Subject{Name: "Eastside Community Hall", Description: "community kitchen every Sunday"},
			category: Food,
			expected: TierCommunity,
		},
		{
			name:     "community fallback for food rejects without a food word",
			subject:  Subject{Name: "Eastside Community Hall", Description: "after school art classes"},
			category: Food,
			expected: TierNone,
		},
		{
			name:     "community fallback for books needs an education word",
			subject:  Subject{Name: "Mission Youth Center"},
			category: Books,
			expected: TierCommunity,
		},
		{
			name:     "community fallback for school supplies rejects without education word",
			subject:  Subject{Name: "Harbor Housing Nonprofit"},
			category: SchoolSupplies,
			expected: TierNone,
		},
		{
			name:     "nothing matches",
			subject:  Subject{Name: "Joe's Garage", External: true, TypeTokens: []string{"car_repair"}},
			category: Clothing,
			expected: TierNone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := cl.Match(tt.subject, tt.category)
			assert.Equal(t, tt.expected, got, "got tier %s", got)
			assert.Equal(t, tt.expected != TierNone, cl.Accepts(tt.subject, tt.category))
		})
	}
}

func TestClassifier_CommunityKitchenScenario(t *testing.T) {
	cl := NewClassifier()

	registry := []Subject{
		{Name: "Downtown Youth Center", Description: "after school tutoring"},
		{Name: "Harbor Clinic", Description: "free dental checkups"},
		{Name: "Eastside Mutual Aid", Description: "runs a community kitchen on weekends"},
		{Name: "Sunset Collective", Description: "Community Kitchen and garden"},
		{Name: "Bike Kitchen", Description: "repairs bicycles"},
	}

	var accepted []string

	for _, s := range registry {
		if cl.Accepts(s, Food) {
			accepted = append(accepted, s.Name)
		}
	}

	assert.Equal(t, []string{"Eastside Mutual Aid", "Sunset Collective"}, accepted)
}

func TestClassifier_MatchesTypeTokens(t *testing.T) {
	cl := NewClassifier()

	assert.True(t, cl.MatchesTypeTokens([]string{"LIBRARY"}, Books))
	assert.True(t, cl.MatchesTypeTokens([]string{"establishment", "secondary_school"}, SchoolSupplies))
	assert.False(t, cl.MatchesTypeTokens([]string{"establishment", "point_of_interest"}, Books))
	assert.False(t, cl.MatchesTypeTokens([]string{"", "  "}, Books))
	assert.False(t, cl.MatchesTypeTokens(nil, Food))
}

func TestClassifier_MatchesOrgTypeText(t *testing.T) {
	cl := NewClassifier()

	assert.True(t, cl.MatchesOrgTypeText(Subject{Name: "Glide Memorial Church"}, Food))
	assert.True(t, cl.MatchesOrgTypeText(Subject{Name: "Friends", Description: "an education nonprofit"}, Books))
	assert.False(t, cl.MatchesOrgTypeText(Subject{Name: "Harbor Clinic"}, Clothing))
}

func TestTierString(t *testing.T) {
	assert.Equal(t, "community", TierCommunity.String())
	assert.Equal(t, "unknown", Tier(42).String())
}
