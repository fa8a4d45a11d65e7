// Copyright 2026 The Donar Authors
// SPDX-License-Identifier: Apache-2.0

// Package category holds the donation categories, the static rule table used
// to recognize which organizations can take each of them, and the classifier
// that applies those rules.
package category

import (
	"errors"
	"fmt"
	"strings"
)

// Category is a class of in-kind donation. The zero value means no category
// was requested.
type Category string

// Known donation categories.
const (
	None              Category = ""
	MenstrualProducts Category = "menstrual_products"
	Food              Category = "food"
	Clothing          Category = "clothing"
	Hygiene           Category = "hygiene"
	Books             Category = "books"
	SchoolSupplies    Category = "school_supplies"
	Other             Category = "other"
)

// All lists every known category in display order.
var All = []Category{MenstrualProducts, Food, Clothing, Hygiene, Books, SchoolSupplies, Other}

// ErrUnknownCategory is returned by Parse for values outside All.
var ErrUnknownCategory = errors.New("unknown donation category")

// Parse maps user input to a Category. It is case-insensitive and tolerates
// dashes or spaces instead of underscores. Empty input yields None.
func Parse(s string) (Category, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return None, nil
	}

	s = strings.NewReplacer("-", "_", " ", "_").Replace(s)
	for _, c := range All {
		if string(c) == s {
			return c, nil
		}
	}

	return None, fmt.Errorf("%w: %q", ErrUnknownCategory, s)
}

// ParseAll parses a list of categories, failing on the first unknown one.
// Empty entries are skipped.
func ParseAll(values []string) ([]Category, error) {
	out := make([]Category, 0, len(values))

	for _, v := range values {
		c, err := Parse(v)
		if err != nil {
			return nil, err
		}

		if c != None {
			out = append(out, c)
		}
	}

	return out, nil
}

// IsZero reports whether no category was requested.
func (c Category) IsZero() bool {
	return c == None
}

// IsGeneric reports whether c is the catch-all category every organization accepts.
func (c Category) IsGeneric() bool {
	return c == Other
}

func (c Category) String() string {
	return string(c)
}
