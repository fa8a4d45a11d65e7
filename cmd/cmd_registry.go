// Copyright 2026 The Donar Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jcodagnone/donar/registry"
	"github.com/jcodagnone/donar/utils/textutils"
	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const seedBatchSize = 100

var registryCmd = &cobra.Command{
	Use:   "registry",
	Short: "Manages the local registry of organizations",
}

var registrySeedCmd = &cobra.Command{
	Use:   "seed <file.json>",
	Short: "Loads organizations from a seed file, replacing records with the same id",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		store, err := openStore(ctx, cfg)
		if err != nil {
			return err
		}
		defer store.DB().Close()

		var (
			bar         *progressbar.ProgressBar
			newProgress func(int) func(int)
		)

		if isatty.IsTerminal(os.Stderr.Fd()) {
			newProgress = func(total int) func(int) {
				bar = progressbar.NewOptions(total,
					progressbar.OptionSetDescription("Seeding registry"),
					progressbar.OptionSetWriter(os.Stderr),
					progressbar.OptionShowCount(),
					progressbar.OptionClearOnFinish(),
				)

				return func(n int) { _ = bar.Add(n) }
			}
		}

		n, err := registry.ImportFromJSON(ctx, store, args[0], seedBatchSize, newProgress)
		if bar != nil {
			_ = bar.Finish()
		}
		if err != nil {
			return fmt.Errorf("seeding from %s after %d organizations: %w", args[0], n, err)
		}

		logrus.WithFields(logrus.Fields{
			"file":          args[0],
			"organizations": n,
		}).Info("Registry seeded")

		return nil
	},
}

var registryExportCmd = &cobra.Command{
	Use:   "export <file.json>",
	Short: "Writes every organization to a seed file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		store, err := openStore(ctx, cfg)
		if err != nil {
			return err
		}
		defer store.DB().Close()

		n, err := registry.ExportToJSON(ctx, store, args[0])
		if err != nil {
			return err
		}

		logrus.WithFields(logrus.Fields{
			"file":          args[0],
			"organizations": n,
		}).Info("Registry exported")

		return nil
	},
}

var registryListCmd = &cobra.Command{
	Use:   "list",
	Short: "Lists the organizations in the registry",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		store, err := openStore(ctx, cfg)
		if err != nil {
			return err
		}
		defer store.DB().Close()

		orgs, err := store.List(ctx)
		if err != nil {
			return err
		}

		printOrganizations(cmd.OutOrStdout(), orgs)

		return nil
	},
}

func init() {
	registryCmd.AddCommand(registrySeedCmd)
	registryCmd.AddCommand(registryExportCmd)
	registryCmd.AddCommand(registryListCmd)
	rootCmd.AddCommand(registryCmd)
}

func printOrganizations(w io.Writer, orgs []*registry.Organization) {
	a, b, c, d := strings.Repeat("─", 16), strings.Repeat("─", 36), strings.Repeat("─", 3), strings.Repeat("─", 30)
	fmt.Fprintf(w, "╭─%-16s─┬─%-36s─┬─%-3s─┬─%-30s─╮\n", a, b, c, d)
	fmt.Fprintf(w, "│ %-16s │ %-36s │ %-3s │ %-30s │\n", "Id", "Name", "Ok", "Categories")
	fmt.Fprintf(w, "├─%-16s─┼─%-36s─┼─%-3s─┼─%-30s─┤\n", a, b, c, d)

	for _, o := range orgs {
		verified := ""
		if o.Verified {
			verified = "✓"
		}

		cats := make([]string, len(o.AcceptedCategories))
		for i, cat := range o.AcceptedCategories {
			cats[i] = string(cat)
		}

		fmt.Fprintf(w, "│ %-16s │ %-36s │ %-3s │ %-30s │\n",
			truncate(o.ID, 16), truncate(o.Name, 36), verified, truncate(strings.Join(cats, ","), 30))
	}

	fmt.Fprintf(w, "╰─%-16s─┴─%-36s─┴─%-3s─┴─%-30s─╯\n", a, b, c, d)
	fmt.Fprintf(w, "%s organizations\n", textutils.FormatInt(int64(len(orgs))))
}
