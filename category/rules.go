// Copyright 2026 The Donar Authors
// SPDX-License-Identifier: Apache-2.0

package category

import (
	"strings"

	"github.com/jcodagnone/donar/utils/textutils"
)

// Rule describes how to recognize organizations that take one category.
// Every string is stored folded (lowercase, no accents).
type Rule struct {
	// Keywords searched in name and description.
	Keywords []string
	// SearchKeywords feed the external provider search phrase.
	SearchKeywords []string
	// OrgTypes are organization-type phrases matched against provider type
	// tokens, and against text in the registry fallback.
	OrgTypes []string
	// CommunityServed categories are accepted by any generic community
	// organization in the last tier.
	CommunityServed bool
	// CommunitySubKeywords must also appear for the last tier to accept a
	// category that is not CommunityServed.
	CommunitySubKeywords []string
}

// communityKeywords mark generic institutions (shelters, community centers)
// that usually take a wide range of goods.
var communityKeywords = fold([]string{
	"shelter", "housing", "resource", "center", "centre",
	"community", "nonprofit", "non-profit", "charity", "donation",
})

// genericSearchPhrase is used when there is nothing better to search for.
var genericSearchPhrase = []string{"homeless shelter", "food bank", "community center"}

var (
	foodSubKeywords      = []string{"pantry", "kitchen", "church", "meal"}
	educationSubKeywords = []string{"school", "youth", "library", "education"}
)

// rules is built once at process start and never mutated.
var rules = map[Category]Rule{
	MenstrualProducts: {
		Keywords:        []string{"menstrual", "period product", "tampon", "sanitary pad", "feminine hygiene", "women's shelter", "women's center"},
		SearchKeywords:  []string{"women's shelter", "homeless shelter", "community center"},
		OrgTypes:        []string{"women's shelter", "homeless shelter", "community center", "health"},
		CommunityServed: true,
	},
	Food: {
		Keywords:             []string{"food bank", "food pantry", "food shelf", "soup kitchen", "meal program", "hunger", "groceries", "nutrition"},
		SearchKeywords:       []string{"food bank", "food pantry", "soup kitchen"},
		OrgTypes:             []string{"food bank", "food pantry", "soup kitchen", "church", "place of worship"},
		CommunitySubKeywords: foodSubKeywords,
	},
	Clothing: {
		Keywords:        []string{"clothing", "clothes", "apparel", "coat drive", "thrift"},
		SearchKeywords:  []string{"clothing donation", "homeless shelter", "thrift store"},
		OrgTypes:        []string{"clothing donation center", "homeless shelter", "church", "place of worship"},
		CommunityServed: true,
	},
	Hygiene: {
		Keywords:        []string{"hygiene", "toiletries", "soap", "shampoo", "toothpaste", "shower"},
		SearchKeywords:  []string{"homeless shelter", "community center", "hygiene bank"},
		OrgTypes:        []string{"homeless shelter", "community center", "social services", "health"},
		CommunityServed: true,
	},
	Books: {
		Keywords:             []string{"book", "library", "literacy", "reading"},
		SearchKeywords:       []string{"library", "school", "literacy nonprofit"},
		OrgTypes:             []string{"school", "library", "education nonprofit"},
		CommunitySubKeywords: educationSubKeywords,
	},
	SchoolSupplies: {
		Keywords:             []string{"school supplies", "backpack", "stationery", "classroom", "tutoring"},
		SearchKeywords:       []string{"school", "youth center", "education nonprofit"},
		OrgTypes:             []string{"school", "youth center", "education nonprofit"},
		CommunitySubKeywords: educationSubKeywords,
	},
	Other: {
		SearchKeywords: genericSearchPhrase,
	},
}

func init() {
	for c, r := range rules {
		r.Keywords = fold(r.Keywords)
		r.SearchKeywords = fold(r.SearchKeywords)
		r.OrgTypes = fold(r.OrgTypes)
		r.CommunitySubKeywords = fold(r.CommunitySubKeywords)
		rules[c] = r
	}
}

func fold(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = textutils.LowerASCIIFolding(s)
	}

	return out
}

// RuleFor returns the rule of c. Unknown categories yield an empty rule.
func RuleFor(c Category) (Rule, bool) {
	r, ok := rules[c]

	return r, ok
}

// SearchPhrase builds the keyword phrase sent to the external place search.
// With a category, up to three of its search keywords are OR-joined and
// appended to query; otherwise query is used as is, or a generic phrase when
// empty.
func SearchPhrase(c Category, query string) string {
	const maxKeywords = 3

	query = textutils.LowerASCIIFolding(query)

	r, ok := rules[c]
	if c.IsZero() || !ok || len(r.SearchKeywords) == 0 {
		if query != "" {
			return query
		}

		return joinOr(genericSearchPhrase)
	}

	phrase := joinOr(r.SearchKeywords[:min(maxKeywords, len(r.SearchKeywords))])
	if query != "" {
		return query + " " + phrase
	}

	return phrase
}

func joinOr(words []string) string {
	return strings.Join(words, " OR ")
}
