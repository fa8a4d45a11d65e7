// Copyright 2026 The Donar Authors
// SPDX-License-Identifier: Apache-2.0

// Package htmlutils provides utility functions for working with HTML.
package htmlutils

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Node2string appends the text content of n to sb, separating text nodes with
// a single space. Script and style elements are skipped.
func Node2string(n *html.Node, sb *strings.Builder) {
	switch n.Type {
	case html.TextNode:
		tmp := strings.Join(strings.Fields(n.Data), " ")
		if len(tmp) > 0 {
			if sb.Len() != 0 {
				sb.WriteByte(' ')
			}

			sb.WriteString(tmp)
		}
	case html.ElementNode:
		if strings.EqualFold(n.Data, "script") || strings.EqualFold(n.Data, "style") {
			return
		}

		fallthrough
	default:
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			Node2string(child, sb)
		}
	}
}

// PlainText reduces an HTML fragment to its visible text. Inputs without
// markup are only whitespace-collapsed.
func PlainText(s string) (string, error) {
	if !strings.ContainsAny(s, "<&") {
		return strings.Join(strings.Fields(s), " "), nil
	}

	nodes, err := html.ParseFragment(strings.NewReader(s), &html.Node{
		Type:     html.ElementNode,
		Data:     "body",
		DataAtom: atom.Body,
	})
	if err != nil {
		return "", fmt.Errorf("parsing HTML fragment: %w", err)
	}

	sb := strings.Builder{}
	for _, n := range nodes {
		Node2string(n, &sb)
	}

	return sb.String(), nil
}
