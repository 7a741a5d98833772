package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	CacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "scorecard_cache_hits_total",
		Help: "Scorecard reads served from the TTL cache.",
	})

	CacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "scorecard_cache_misses_total",
		Help: "Scorecard reads recomputed from the store.",
	})

	ScorecardOps = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "scorecard_operations_total",
		Help: "Scorecard engine operations by type and outcome.",
	}, []string{"op", "outcome"})
)

// Outcome labels for ScorecardOps.
const (
	OutcomeOK        = "ok"
	OutcomeForbidden = "forbidden"
	OutcomeError     = "error"
)
