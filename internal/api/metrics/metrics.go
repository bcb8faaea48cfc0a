// Package metrics defines and registers all custom Prometheus metrics for the
// proximity service. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics are registered with the default Prometheus registry through promauto
// when the package is imported.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "proximity"

// ── Pipeline metrics ──────────────────────────────────────────────────────────

// PipelineRunsTotal counts completed proximity pipeline runs.
// Labels:
//   - source: point source backend ("local", "remote", "mongo")
//   - outcome: "ok", "road_not_found", "invalid_argument", "network", "parse"
var PipelineRunsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "pipeline_runs_total",
		Help:      "Total number of proximity pipeline runs, by point source and outcome.",
	},
	[]string{"source", "outcome"},
)

// PipelineDuration measures a pipeline run from road lookup to filtered result.
var PipelineDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "pipeline_duration_seconds",
		Help:      "Duration of a proximity pipeline run.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"outcome"},
)

// PointsReturned observes how many points survive the radius filter per run.
var PointsReturned = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "pipeline_points_returned",
		Help:      "Number of reference points within radius per successful run.",
		Buckets:   []float64{0, 1, 2, 5, 10, 25, 50},
	},
)

// ── Geocoding metrics ─────────────────────────────────────────────────────────

// GeocodeLookupsTotal counts reverse-geocoding lookups.
// Label:
//   - result: "found", "not_found" or "error"
var GeocodeLookupsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "geocode_lookups_total",
		Help:      "Total number of reverse-geocoding lookups, by result.",
	},
	[]string{"result"},
)

// GeocodeCacheTotal counts geocode cache decisions.
// Label:
//   - result: "hit" or "miss"
var GeocodeCacheTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "geocode_cache_total",
		Help:      "Total number of geocode cache lookups, labelled by result (hit/miss).",
	},
	[]string{"result"},
)

// ── Session metrics ───────────────────────────────────────────────────────────

// FixesReceivedTotal counts location fixes handed to the dispatcher.
var FixesReceivedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "fixes_received_total",
		Help:      "Total number of location fixes received.",
	},
)

// FixesCoalescedTotal counts fixes superseded by a newer fix before being run.
var FixesCoalescedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "fixes_coalesced_total",
		Help:      "Total number of location fixes replaced by a newer fix while a run was in flight.",
	},
)

// ── Backend metrics ───────────────────────────────────────────────────────────

// BackendActionsTotal counts location backend actions.
// Labels:
//   - action: "calculateDistance", "checkNearby", "storeRoadPoint" or "unknown"
//   - status: HTTP status code class ("2xx", "4xx", "5xx")
var BackendActionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "backend_actions_total",
		Help:      "Total number of location backend actions, by action and status class.",
	},
	[]string{"action", "status"},
)
