// Copyright 2026 The Donar Authors
// SPDX-License-Identifier: Apache-2.0

package category

import (
	"strings"

	"github.com/jcodagnone/donar/utils/textutils"
)

// Subject is the part of a candidate organization the classifier looks at.
type Subject struct {
	Name        string
	Description string
	// External is true for candidates coming from the place provider.
	External bool
	// Accepted holds the categories a registry organization declared.
	Accepted []Category
	// TypeTokens are the provider type tokens of an external candidate.
	TypeTokens []string
}

func (s Subject) text() string {
	return textutils.LowerASCIIFolding(s.Name + " " + s.Description)
}

// Tier identifies which rule accepted a subject.
type Tier int

const (
	// TierNone means the subject was rejected.
	TierNone Tier = iota
	// TierUnrestricted means no specific category was requested.
	TierUnrestricted
	// TierExplicit matched the declared categories of a registry organization.
	TierExplicit
	// TierKeyword matched a category keyword in name or description.
	TierKeyword
	// TierTypeToken matched a provider type token against an organization type.
	TierTypeToken
	// TierCommunity matched the generic community organization fallback.
	TierCommunity
)

var tierNames = [...]string{"none", "unrestricted", "explicit", "keyword", "type_token", "community"}

func (t Tier) String() string {
	if int(t) < len(tierNames) {
		return tierNames[t]
	}

	return "unknown"
}

// Classifier decides whether a candidate organization can take a category.
// Tiers are evaluated in order and the first match wins. The later tiers
// trade precision for recall, since a sparse registry would otherwise hide
// usable organizations.
type Classifier struct {
	rules map[Category]Rule
}

// NewClassifier creates a classifier over the static rule table.
func NewClassifier() *Classifier {
	return &Classifier{rules: rules}
}

// Accepts reports whether s can take c.
func (cl *Classifier) Accepts(s Subject, c Category) bool {
	return cl.Match(s, c) != TierNone
}

// Match returns the first tier accepting s for c, or TierNone.
func (cl *Classifier) Match(s Subject, c Category) Tier {
	if c.IsZero() || c.IsGeneric() {
		return TierUnrestricted
	}

	rule := cl.rules[c]

	if !s.External && acceptsExplicitly(s.Accepted, c) {
		return TierExplicit
	}

	text := s.text()
	if _, ok := textutils.FirstContained(text, rule.Keywords); ok {
		return TierKeyword
	}

	if s.External && cl.MatchesTypeTokens(s.TypeTokens, c) {
		return TierTypeToken
	}

	if _, ok := textutils.FirstContained(text, communityKeywords); ok {
		if rule.CommunityServed {
			return TierCommunity
		}

		if _, ok := textutils.FirstContained(text, rule.CommunitySubKeywords); ok {
			return TierCommunity
		}
	}

	return TierNone
}

func acceptsExplicitly(accepted []Category, c Category) bool {
	for _, a := range accepted {
		switch {
		case a == c, a.IsGeneric():
			return true
		case c == MenstrualProducts && a == Hygiene:
			return true
		}
	}

	return false
}

// MatchesTypeTokens is the type-token tier on its own: a token matches when
// it contains, or is contained by, one of the organization types of c.
func (cl *Classifier) MatchesTypeTokens(tokens []string, c Category) bool {
	orgTypes := cl.rules[c].OrgTypes

	for _, token := range tokens {
		token = textutils.NormalizeToken(token)
		if token == "" {
			continue
		}

		for _, orgType := range orgTypes {
			if strings.Contains(token, orgType) || strings.Contains(orgType, token) {
				return true
			}
		}
	}

	return false
}

// MatchesOrgTypeText looks for the organization types of c inside the name
// and description. It is the loose pass used when a registry subset has no
// match at all.
func (cl *Classifier) MatchesOrgTypeText(s Subject, c Category) bool {
	_, ok := textutils.FirstContained(s.text(), cl.rules[c].OrgTypes)

	return ok
}
