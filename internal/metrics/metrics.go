package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// MirrorInconsistencies counts writes whose store half committed while
	// the mirror half failed.
	MirrorInconsistencies = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_mirror_inconsistencies_total",
			Help: "Writes that committed to the store but failed on the asset mirror",
		},
		[]string{"operation"},
	)

	// CascadeDeleted counts rows removed by cascade deletes.
	CascadeDeleted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_cascade_deleted_total",
			Help: "Rows removed by cascade deletes, by collection",
		},
		[]string{"collection"},
	)

	OrdersIngested = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "catalog_orders_ingested_total",
			Help: "Orders recorded from the order event stream",
		},
	)

	QueryDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "catalog_query_duration_seconds",
			Help:    "Catalog read query duration",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"query"},
	)
)

func init() {
	prometheus.MustRegister(
		MirrorInconsistencies,
		CascadeDeleted,
		OrdersIngested,
		QueryDuration,
	)
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

// TrackQuery starts a timer for a catalog read; call ObserveDuration when
// the query returns.
func TrackQuery(query string) *prometheus.Timer {
	return prometheus.NewTimer(QueryDuration.WithLabelValues(query))
}
