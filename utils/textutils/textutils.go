// Copyright 2026 The Donar Authors
// SPDX-License-Identifier: Apache-2.0

// Package textutils provides text normalization helpers shared by the matchers.
package textutils

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// LowerASCIIFolding normalizes a string by removing accents, lowercasing, and trimming spaces.
func LowerASCIIFolding(s string) string {
	s, _, _ = transform.String(
		transform.Chain(
			norm.NFD,
			runes.Remove(runes.In(unicode.Mn)),
			norm.NFC,
		),
		strings.TrimSpace(strings.ToLower(s)),
	)

	return s
}

// NormalizeToken folds a provider type token such as "place_of_worship" into
// "place of worship".
func NormalizeToken(s string) string {
	return LowerASCIIFolding(strings.NewReplacer("_", " ", "-", " ").Replace(s))
}

// FirstContained returns the first needle contained in haystack. Both sides are
// expected to be folded already.
func FirstContained(haystack string, needles []string) (string, bool) {
	for _, needle := range needles {
		if needle != "" && strings.Contains(haystack, needle) {
			return needle, true
		}
	}

	return "", false
}

// FormatInt formats an integer with commas for human readability.
func FormatInt(n int64) string {
	in := strconv.FormatInt(n, 10)

	numOfDigits := len(in)
	if n < 0 {
		numOfDigits-- // First character is the - sign (not a digit)
	}

	numOfCommas := (numOfDigits - 1) / 3

	out := make([]byte, len(in)+numOfCommas)
	if n < 0 {
		in, out[0] = in[1:], '-'
	}

	for i, j, k := len(in)-1, len(out)-1, 0; ; i, j = i-1, j-1 {
		out[j] = in[i]
		if i == 0 {
			return string(out)
		}

		if k++; k == 3 {
			j, k = j-1, 0
			out[j] = ','
		}
	}
}
