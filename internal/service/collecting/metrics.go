package collecting

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	adapterRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "trendlab_adapter_requests_total",
		Help: "Total number of platform adapter searches",
	}, []string{"platform", "source", "status"})

	adapterLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "trendlab_adapter_latency_seconds",
		Help:    "Latency of platform adapter searches",
		Buckets: prometheus.DefBuckets,
	}, []string{"platform"})

	normalizationDropped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "trendlab_normalization_dropped_total",
		Help: "Raw records dropped because they could not be normalized",
	}, []string{"platform"})

	duplicatesRemoved = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "trendlab_duplicates_removed_total",
		Help: "Videos removed by deduplication",
	}, []string{"pass"})

	collectionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "trendlab_collections_total",
		Help: "Completed trend collections by outcome",
	}, []string{"outcome"})
)
