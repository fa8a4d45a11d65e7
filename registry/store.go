// Copyright 2026 The Donar Authors
// SPDX-License-Identifier: Apache-2.0

package registry

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jcodagnone/donar/spatial"
)

// Filter selects organizations around an origin.
type Filter struct {
	Origin       spatial.Point
	VerifiedOnly bool
	// MaxRadius in meters, zero means unbounded.
	MaxRadius float64
}

// Store persists registry organizations.
type Store interface {
	// CreateSchema creates the organizations table.
	CreateSchema(ctx context.Context) error

	// Upsert inserts or replaces organizations by id.
	Upsert(ctx context.Context, orgs []*Organization) error

	// List returns every organization ordered by id.
	List(ctx context.Context) ([]*Organization, error)

	// Count returns the number of organizations.
	Count(ctx context.Context) (int, error)

	// FindByGeoExtent returns the organizations with coordinates matching f,
	// ordered by id.
	FindByGeoExtent(ctx context.Context, f Filter) ([]*Organization, error)
}

// SQLStore is a Store over database/sql. Statements use $n placeholders so
// the same SQL runs on DuckDB and PostgreSQL.
type SQLStore struct {
	db *sql.DB
}

// NewSQLStore creates a store over db.
func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db}
}

// DB returns the underlying database connection.
func (s *SQLStore) DB() *sql.DB {
	return s.db
}

// DuckDB rejects ON CONFLICT updates of indexed columns, so the h3 columns
// stay unindexed and rely on zone maps.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS organizations (
		id VARCHAR PRIMARY KEY,
		name VARCHAR NOT NULL,
		address VARCHAR NOT NULL DEFAULT '',
		lat DOUBLE PRECISION,
		lng DOUBLE PRECISION,
		verified BOOLEAN NOT NULL DEFAULT FALSE,
		description TEXT NOT NULL DEFAULT '',
		accepted_categories VARCHAR NOT NULL DEFAULT '',
		phone VARCHAR NOT NULL DEFAULT '',
		email VARCHAR NOT NULL DEFAULT '',
		website VARCHAR NOT NULL DEFAULT '',
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		h3_res5 BIGINT,
		h3_res6 BIGINT,
		h3_res7 BIGINT
	)`,
}

func (s *SQLStore) CreateSchema(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("creating schema: %w", err)
		}
	}

	return nil
}

func (s *SQLStore) Upsert(ctx context.Context, orgs []*Organization) error {
	if len(orgs) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO organizations (
			id, name, address, lat, lng, verified, description,
			accepted_categories, phone, email, website, updated_at,
			h3_res5, h3_res6, h3_res7
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			address = EXCLUDED.address,
			lat = EXCLUDED.lat,
			lng = EXCLUDED.lng,
			verified = EXCLUDED.verified,
			description = EXCLUDED.description,
			accepted_categories = EXCLUDED.accepted_categories,
			phone = EXCLUDED.phone,
			email = EXCLUDED.email,
			website = EXCLUDED.website,
			updated_at = EXCLUDED.updated_at,
			h3_res5 = EXCLUDED.h3_res5,
			h3_res6 = EXCLUDED.h3_res6,
			h3_res7 = EXCLUDED.h3_res7
	`)
	if err != nil {
		_ = tx.Rollback()

		return err
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for _, o := range orgs {
		if err := o.Validate(); err != nil {
			_ = tx.Rollback()

			return err
		}

		if err := o.computeH3(); err != nil {
			_ = tx.Rollback()

			return fmt.Errorf("organization %s: %w", o.ID, err)
		}

		var lat, lng sql.NullFloat64
		if o.Point != nil {
			lat = sql.NullFloat64{Float64: o.Point.Lat, Valid: true}
			lng = sql.NullFloat64{Float64: o.Point.Lng, Valid: true}
		}

		if o.UpdatedAt.IsZero() {
			o.UpdatedAt = now
		}

		_, err := stmt.ExecContext(ctx,
			o.ID,
			o.Name,
			o.Address,
			lat,
			lng,
			o.Verified,
			o.Description,
			joinCategories(o.AcceptedCategories),
			o.Phone,
			o.Email,
			o.Website,
			o.UpdatedAt,
			o.h3(5),
			o.h3(6),
			o.h3(7),
		)
		if err != nil {
			_ = tx.Rollback()

			return fmt.Errorf("saving organization %s: %w", o.ID, err)
		}
	}

	return tx.Commit()
}

const selectColumns = `id, name, address, lat, lng, verified, description,
	accepted_categories, phone, email, website, updated_at`

func (s *SQLStore) List(ctx context.Context) ([]*Organization, error) {
	return s.query(ctx, `SELECT `+selectColumns+` FROM organizations ORDER BY id`)
}

func (s *SQLStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM organizations`).Scan(&n); err != nil {
		return 0, err
	}

	return n, nil
}

func (s *SQLStore) FindByGeoExtent(ctx context.Context, f Filter) ([]*Organization, error) {
	where := []string{"lat IS NOT NULL", "lng IS NOT NULL"}
	var args []any

	if f.VerifiedOnly {
		where = append(where, "verified = TRUE")
	}

	if f.MaxRadius > 0 {
		// radii past the coarsest disk are filtered by distance alone
		extent, err := spatial.ExtentOf(f.Origin, f.MaxRadius)
		switch {
		case errors.Is(err, spatial.ErrExtentTooLarge):
		case err != nil:
			return nil, err
		default:
			placeholders := make([]string, len(extent.Cells))
			for i, cell := range extent.Cells {
				args = append(args, cell)
				placeholders[i] = fmt.Sprintf("$%d", len(args))
			}
			where = append(where, fmt.Sprintf("h3_res%d IN (%s)", extent.Resolution, strings.Join(placeholders, ", ")))
		}
	}

	orgs, err := s.query(ctx,
		`SELECT `+selectColumns+` FROM organizations WHERE `+strings.Join(where, " AND ")+` ORDER BY id`,
		args...)
	if err != nil {
		return nil, err
	}

	if f.MaxRadius <= 0 {
		return orgs, nil
	}

	// the h3 disk over-covers the circle
	out := orgs[:0]
	for _, o := range orgs {
		if f.Origin.HaversineDistance(o.Point) <= f.MaxRadius {
			out = append(out, o)
		}
	}

	return out, nil
}

func (s *SQLStore) query(ctx context.Context, query string, args ...any) ([]*Organization, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orgs []*Organization

	for rows.Next() {
		var (
			o          Organization
			lat, lng   sql.NullFloat64
			categories string
		)

		err := rows.Scan(
			&o.ID,
			&o.Name,
			&o.Address,
			&lat,
			&lng,
			&o.Verified,
			&o.Description,
			&categories,
			&o.Phone,
			&o.Email,
			&o.Website,
			&o.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}

		if lat.Valid && lng.Valid {
			o.Point = &spatial.Point{Lat: lat.Float64, Lng: lng.Float64}
		}
		o.AcceptedCategories = splitCategories(categories)

		orgs = append(orgs, &o)
	}

	return orgs, rows.Err()
}
