// Copyright 2026 The Donar Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/jcodagnone/donar/server"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var serveOptions = struct {
	addr string
}{}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves the discovery HTTP API",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		logger := logrus.StandardLogger()

		addr := cfg.ListenAddr
		if cmd.Flags().Changed("addr") {
			addr = serveOptions.addr
		}

		store, err := openStore(ctx, cfg)
		if err != nil {
			return err
		}
		defer store.DB().Close()

		if n, err := store.Count(ctx); err == nil {
			logger.WithField("organizations", n).Info("Registry ready")
		}

		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)

		client := newPlacesClient(ctx, cfg, logger)
		coordinator := newCoordinator(cfg, store, client, logger, reg)

		if logger.GetLevel() < logrus.DebugLevel {
			gin.SetMode(gin.ReleaseMode)
		}

		return server.New(coordinator, logger, reg).Run(ctx, addr)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveOptions.addr, "addr", "", "Listen address (defaults to DONAR_LISTEN_ADDR)")
	rootCmd.AddCommand(serveCmd)
}
