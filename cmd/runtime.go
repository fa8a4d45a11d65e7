// Copyright 2026 The Donar Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"

	_ "github.com/duckdb/duckdb-go/v2" // register duckdb driver
	_ "github.com/jackc/pgx/v5/stdlib" // register pgx driver
	"github.com/jcodagnone/donar/config"
	"github.com/jcodagnone/donar/discovery"
	"github.com/jcodagnone/donar/places"
	"github.com/jcodagnone/donar/registry"
	"github.com/jcodagnone/donar/utils/httputils"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

// openStore opens the registry database and makes sure the schema exists.
func openStore(ctx context.Context, c *config.Config) (*registry.SQLStore, error) {
	if c.DBDriver == "duckdb" && c.DBDSN != "" {
		if dir := filepath.Dir(c.DBDSN); dir != "." {
			if err := os.MkdirAll(dir, 0o750); err != nil {
				return nil, fmt.Errorf("creating database directory: %w", err)
			}
		}
	}

	db, err := sql.Open(c.DBDriver, c.DBDSN)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	store := registry.NewSQLStore(db)
	if err := store.CreateSchema(ctx); err != nil {
		db.Close()

		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return store, nil
}

// newPlacesClient builds the Google client. A missing key is not fatal: the
// client then fails every call and discovery degrades to the registry.
func newPlacesClient(ctx context.Context, c *config.Config, logger logrus.FieldLogger, extra ...places.Option) *places.Client {
	key, err := places.ResolveAPIKey(ctx, c.GoogleMapsAPIKey, c.GCPProject, logger)
	if err != nil {
		logger.WithError(err).Warn("No Google Maps API key; external places disabled")
	}

	var trace io.Writer
	if c.HTTPTrace {
		trace = os.Stderr
	}

	opts := []places.Option{
		places.WithHTTPClient(httputils.NewClient(places.DefaultTimeout, places.UserAgent, trace, "key")),
	}
	if c.MapsLanguage != "" {
		opts = append(opts, places.WithLanguage(c.MapsLanguage))
	}
	if c.MapsRegion != "" {
		opts = append(opts, places.WithRegion(c.MapsRegion))
	}

	return places.NewClient(key, append(opts, extra...)...)
}

func newCoordinator(c *config.Config, store registry.Store, client *places.Client, logger logrus.FieldLogger, reg prometheus.Registerer) *discovery.Coordinator {
	source := registry.NewSource(store, float64(c.RegistryMaxRadiusM), logger)

	return discovery.NewCoordinator(source, client, client,
		discovery.WithLogger(logger),
		discovery.WithMetrics(discovery.NewMetrics(reg)),
	)
}
