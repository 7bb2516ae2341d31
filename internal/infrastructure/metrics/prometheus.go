// Package metrics provides Prometheus metrics for observability.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "shortreel"

var (
	// CacheOperationsTotal tracks cache operations against the video cache.
	// Labels:
	//   - operation: get, set, delete, marker
	//   - status: hit, miss, success, error
	CacheOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_operations_total",
			Help:      "Total number of cache operations",
		},
		[]string{"operation", "status"},
	)

	// ViewIncrementsTotal counts view-counter increments that were
	// actually committed to the store (after the debounce window).
	ViewIncrementsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "view_increments_total",
			Help:      "Total number of committed view-count increments",
		},
	)

	// DBQueriesTotal tracks durable-store queries by shape and table.
	// Labels:
	//   - query_type: select, insert, update, delete
	//   - table: videos, users, engagements
	DBQueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "db_queries_total",
			Help:      "Total number of database queries",
		},
		[]string{"query_type", "table"},
	)

	// LikeTogglesTotal tracks like toggle outcomes.
	// Labels:
	//   - action: like, unlike, conflict
	LikeTogglesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "like_toggles_total",
			Help:      "Total number of like toggle operations",
		},
		[]string{"action"},
	)

	// SingleflightRequestsTotal tracks read-path singleflight behavior.
	// Labels:
	//   - result: initiated (new execution), shared (reused result)
	SingleflightRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "singleflight_requests_total",
			Help:      "Total number of singleflight requests",
		},
		[]string{"result"},
	)
)

// Cache operation status constants.
const (
	CacheStatusHit     = "hit"
	CacheStatusMiss    = "miss"
	CacheStatusSuccess = "success"
	CacheStatusError   = "error"
)

// Cache operation type constants.
const (
	CacheOpGet    = "get"
	CacheOpSet    = "set"
	CacheOpDelete = "delete"
	CacheOpMarker = "marker"
)

// DB query type constants.
const (
	DBQuerySelect = "select"
	DBQueryInsert = "insert"
	DBQueryUpdate = "update"
	DBQueryDelete = "delete"
)

// Table name constants.
const (
	TableVideos      = "videos"
	TableUsers       = "users"
	TableEngagements = "engagements"
)

// Like toggle action constants.
const (
	LikeActionLike     = "like"
	LikeActionUnlike   = "unlike"
	LikeActionConflict = "conflict"
)

// Singleflight result constants.
const (
	SingleflightInitiated = "initiated"
	SingleflightShared    = "shared"
)
