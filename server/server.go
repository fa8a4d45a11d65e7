// Copyright 2026 The Donar Authors
// SPDX-License-Identifier: Apache-2.0

// Package server exposes discovery over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/jcodagnone/donar/category"
	"github.com/jcodagnone/donar/discovery"
	"github.com/jcodagnone/donar/spatial"
)

// Discoverer runs a discovery request.
type Discoverer interface {
	Discover(ctx context.Context, req discovery.SearchRequest) (discovery.RankedResult, error)
}

// Server is the HTTP front of discovery.
type Server struct {
	discoverer Discoverer
	logger     logrus.FieldLogger
	gatherer   prometheus.Gatherer
	metrics    *httpMetrics
}

// New creates a Server. HTTP metrics are registered on reg, and /metrics
// serves everything reg gathers.
func New(discoverer Discoverer, logger logrus.FieldLogger, reg *prometheus.Registry) *Server {
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	return &Server{
		discoverer: discoverer,
		logger:     logger,
		gatherer:   reg,
		metrics:    newHTTPMetrics(reg),
	}
}

// Router builds the gin engine with every route and middleware.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.Use(LoggingMiddleware(s.logger))
	r.Use(RecoveryMiddleware(s.logger))
	r.Use(s.metrics.middleware())

	r.GET("/discover", s.discover)
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	metrics := promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})
	r.GET("/metrics", func(c *gin.Context) {
		metrics.ServeHTTP(c.Writer, c.Request)
	})

	return r
}

// Run serves on addr until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.Router(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)

	go func() {
		s.logger.WithField("addr", addr).Info("Starting HTTP server")

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}

		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	s.logger.Info("Server stopped")

	return nil
}

type discoverQuery struct {
	Lat              *float64 `form:"lat" binding:"required"`
	Lng              *float64 `form:"lng" binding:"required"`
	Query            string   `form:"query"`
	VerifiedOnly     bool     `form:"verifiedOnly"`
	DonationCategory string   `form:"donationCategory"`
	Radius           float64  `form:"radius"`
}

type discoverResponse struct {
	Success       bool                   `json:"success"`
	Organizations discovery.RankedResult `json:"organizations"`
	Count         int                    `json:"count"`
}

type errorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func (s *Server) discover(c *gin.Context) {
	var q discoverQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Message: "invalid query parameters: " + err.Error()})

		return
	}

	cat, err := category.Parse(q.DonationCategory)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Message: err.Error()})

		return
	}

	result, err := s.discoverer.Discover(c.Request.Context(), discovery.SearchRequest{
		Origin:       &spatial.Point{Lat: *q.Lat, Lng: *q.Lng},
		Query:        q.Query,
		VerifiedOnly: q.VerifiedOnly,
		Category:     cat,
		Radius:       q.Radius,
	})
	if err != nil {
		status, message := errorStatus(err)
		s.logger.WithError(err).WithFields(logrus.Fields{
			"request_id": c.GetString(requestIDKey),
			"status":     status,
		}).Warn("discovery failed")
		c.JSON(status, errorResponse{Message: message})

		return
	}

	if result == nil {
		result = discovery.RankedResult{}
	}

	c.JSON(http.StatusOK, discoverResponse{
		Success:       true,
		Organizations: result,
		Count:         len(result),
	})
}

func errorStatus(err error) (int, string) {
	var derr *discovery.Error

	switch {
	case discovery.IsInvalidInput(err):
		if errors.As(err, &derr) {
			return http.StatusBadRequest, derr.Message
		}

		return http.StatusBadRequest, "invalid request"
	case discovery.IsRegistryUnavailable(err):
		return http.StatusInternalServerError, "registry unavailable"
	case discovery.IsCanceled(err):
		return http.StatusServiceUnavailable, "request canceled"
	default:
		return http.StatusInternalServerError, "internal error"
	}
}
