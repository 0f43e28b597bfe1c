// Package metrics exposes the service's domain counters. Request-level
// metrics come from the fiberprometheus middleware; these cover what it
// can't see.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// WinsRecorded counts celebratory win notifications emitted by the
	// day-record store.
	WinsRecorded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mat_wins_recorded_total",
		Help: "Number of win notifications recorded.",
	})

	// PendingUpserts counts day-record writes whose remote confirmation
	// failed and whose optimistic local value is awaiting reconciliation.
	PendingUpserts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mat_day_upserts_pending_total",
		Help: "Number of day-record upserts that failed remote confirmation.",
	})

	// SuggestionFetches counts calls to the AI suggestion gateway by outcome.
	SuggestionFetches = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mat_suggestion_fetches_total",
		Help: "Number of AI suggestion fetches.",
	}, []string{"outcome"})
)
