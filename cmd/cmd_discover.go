// Copyright 2026 The Donar Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jcodagnone/donar/category"
	"github.com/jcodagnone/donar/discovery"
	"github.com/jcodagnone/donar/places"
	"github.com/jcodagnone/donar/spatial"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var discoverOptions = struct {
	lat          float64
	lng          float64
	address      string
	query        string
	category     string
	verifiedOnly bool
	radius       float64
	json         bool
}{}

var (
	errNoOrigin        = errors.New("either --lat and --lng or --address is required")
	errAddressNotFound = errors.New("address not found, try --lat and --lng")
)

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Finds donation recipients around a point or an address",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		logger := logrus.StandardLogger()

		cat, err := category.Parse(discoverOptions.category)
		if err != nil {
			return err
		}

		store, err := openStore(ctx, cfg)
		if err != nil {
			return err
		}
		defer store.DB().Close()

		client := newPlacesClient(ctx, cfg, logger)

		var origin *spatial.Point

		switch {
		case cmd.Flags().Changed("lat") && cmd.Flags().Changed("lng"):
			origin = &spatial.Point{Lat: discoverOptions.lat, Lng: discoverOptions.lng}
		case discoverOptions.address != "":
			res, err := client.Geocode(ctx, discoverOptions.address)
			if places.IsNotFoundError(err) {
				return fmt.Errorf("%w: %q", errAddressNotFound, discoverOptions.address)
			}
			if err != nil {
				return fmt.Errorf("geocoding %q: %w", discoverOptions.address, err)
			}

			logger.WithFields(logrus.Fields{
				"address":    res.DisplayName,
				"confidence": res.Confidence,
			}).Info("Geocoded origin")

			origin = &res.Point
		default:
			return errNoOrigin
		}

		coordinator := newCoordinator(cfg, store, client, logger, prometheus.NewRegistry())

		result, err := coordinator.Discover(ctx, discovery.SearchRequest{
			Origin:       origin,
			Query:        discoverOptions.query,
			VerifiedOnly: discoverOptions.verifiedOnly,
			Category:     cat,
			Radius:       discoverOptions.radius,
		})
		if err != nil {
			return err
		}

		if discoverOptions.json {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")

			return enc.Encode(result)
		}

		printResult(os.Stdout, result)

		return nil
	},
}

func init() {
	f := discoverCmd.Flags()
	f.Float64Var(&discoverOptions.lat, "lat", 0, "Origin latitude")
	f.Float64Var(&discoverOptions.lng, "lng", 0, "Origin longitude")
	f.StringVar(&discoverOptions.address, "address", "", "Origin address, geocoded when --lat/--lng are absent")
	f.StringVar(&discoverOptions.query, "query", "", "Extra search keywords")
	f.StringVar(&discoverOptions.category, "category", "", "Donation category ("+categoryNames()+")")
	f.BoolVar(&discoverOptions.verifiedOnly, "verified-only", false, "Only verified registry organizations")
	f.Float64Var(&discoverOptions.radius, "radius", 0, "Search radius in meters")
	f.BoolVar(&discoverOptions.json, "json", false, "Print the result as JSON")
	rootCmd.AddCommand(discoverCmd)
}

func categoryNames() string {
	names := make([]string, len(category.All))
	for i, c := range category.All {
		names[i] = string(c)
	}

	return strings.Join(names, ", ")
}

func printResult(w io.Writer, result discovery.RankedResult) {
	if len(result) == 0 {
		fmt.Fprintln(w, "No organizations found.")

		return
	}

	a, b, c, d := strings.Repeat("─", 2), strings.Repeat("─", 40), strings.Repeat("─", 10), strings.Repeat("─", 8)
	fmt.Fprintf(w, "╭─%2s─┬─%-40s─┬─%-10s─┬─%-8s─╮\n", a, b, c, d)
	fmt.Fprintf(w, "│ %2s │ %-40s │ %-10s │ %-8s │\n", "#", "Name", "Distance", "Source")
	fmt.Fprintf(w, "├─%2s─┼─%-40s─┼─%-10s─┼─%-8s─┤\n", a, b, c, d)

	for i, e := range result {
		distance := "-"
		if e.Distance != nil {
			distance = e.Distance.Text
		}

		source := "registry"
		if e.Organization.IsExternal {
			source = "google"
		}

		fmt.Fprintf(w, "│ %2d │ %-40s │ %-10s │ %-8s │\n", i+1, truncate(e.Organization.Name, 40), distance, source)
	}

	fmt.Fprintf(w, "╰─%2s─┴─%-40s─┴─%-10s─┴─%-8s─╯\n", a, b, c, d)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}

	return string(r[:n-1]) + "…"
}
