// Copyright 2026 The Donar Authors
// SPDX-License-Identifier: Apache-2.0

package discovery

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the discovery collectors. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	requests         *prometheus.CounterVec
	providerFailures *prometheus.CounterVec
	fallbacks        *prometheus.CounterVec
	candidates       prometheus.Histogram
}

// NewMetrics creates the collectors and registers them on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "donar_discover_requests_total",
				Help: "Total number of discovery requests by outcome",
			},
			[]string{"outcome"},
		),
		providerFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "donar_provider_failures_total",
				Help: "External provider calls that failed and were absorbed",
			},
			[]string{"op"},
		),
		fallbacks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "donar_category_fallbacks_total",
				Help: "Times a category filter left nothing and a fallback was applied",
			},
			[]string{"source"},
		),
		candidates: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "donar_discover_candidates",
				Help:    "Candidates reaching the ranking stage",
				Buckets: []float64{0, 1, 5, 10, 15, 20, 30, 50, 100},
			},
		),
	}

	reg.MustRegister(m.requests, m.providerFailures, m.fallbacks, m.candidates)

	return m
}

func (m *Metrics) request(outcome string) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(outcome).Inc()
}

func (m *Metrics) providerFailure(op string) {
	if m == nil {
		return
	}
	m.providerFailures.WithLabelValues(op).Inc()
}

func (m *Metrics) fallback(source string) {
	if m == nil {
		return
	}
	m.fallbacks.WithLabelValues(source).Inc()
}

func (m *Metrics) observeCandidates(n int) {
	if m == nil {
		return
	}
	m.candidates.Observe(float64(n))
}
