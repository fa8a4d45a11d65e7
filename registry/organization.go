// Copyright 2026 The Donar Authors
// SPDX-License-Identifier: Apache-2.0

// Package registry is the curated store of donation recipients. It persists
// organizations in DuckDB or PostgreSQL and feeds them to discovery.
package registry

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jcodagnone/donar/category"
	"github.com/jcodagnone/donar/spatial"
)

// Organization is a registry record.
type Organization struct {
	ID                 string              `json:"id"`
	Name               string              `json:"name"`
	Address            string              `json:"address"`
	Point              *spatial.Point      `json:"point,omitempty"`
	Verified           bool                `json:"verified"`
	Description        string              `json:"description"`
	AcceptedCategories []category.Category `json:"accepted_categories,omitempty"`
	Phone              string              `json:"phone,omitempty"`
	Email              string              `json:"email,omitempty"`
	Website            string              `json:"website,omitempty"`
	UpdatedAt          time.Time           `json:"updated_at"`
	cells              spatial.Cells
}

// ErrInvalidOrganization is returned when a record can't be stored.
var ErrInvalidOrganization = errors.New("invalid organization")

// Validate checks the record and normalizes its categories.
func (o *Organization) Validate() error {
	o.ID = strings.TrimSpace(o.ID)
	if o.ID == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidOrganization)
	}

	if strings.TrimSpace(o.Name) == "" {
		return fmt.Errorf("%w: %s: name is required", ErrInvalidOrganization, o.ID)
	}

	if o.Point != nil {
		if err := o.Point.Validate(); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrInvalidOrganization, o.ID, err)
		}
	}

	values := make([]string, len(o.AcceptedCategories))
	for i, c := range o.AcceptedCategories {
		values[i] = string(c)
	}

	accepted, err := category.ParseAll(values)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrInvalidOrganization, o.ID, err)
	}
	o.AcceptedCategories = accepted

	return nil
}

func (o *Organization) computeH3() error {
	o.cells = nil
	if o.Point == nil {
		return nil
	}

	cells, err := spatial.CellsOf(*o.Point)
	if err != nil {
		return err
	}
	o.cells = cells

	return nil
}

// h3 returns the cell at res, or nil when the organization has no point.
func (o *Organization) h3(res int) any {
	if o.cells == nil {
		return nil
	}

	return o.cells[res]
}

func joinCategories(cs []category.Category) string {
	values := make([]string, len(cs))
	for i, c := range cs {
		values[i] = string(c)
	}

	return strings.Join(values, ",")
}

// splitCategories parses a stored list, dropping values no longer known.
func splitCategories(s string) []category.Category {
	if s == "" {
		return nil
	}

	var out []category.Category
	for _, v := range strings.Split(s, ",") {
		if c, err := category.Parse(v); err == nil && !c.IsZero() {
			out = append(out, c)
		}
	}

	return out
}
