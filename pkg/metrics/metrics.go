// Package metrics holds the relay's prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	requestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "web3relay_requests_total",
			Help: "Relay requests by kind and outcome",
		},
		[]string{"kind", "outcome"},
	)
	requestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "web3relay_request_duration_seconds",
			Help:    "Relay request latency by kind",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"kind"},
	)
	cacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "web3relay_cache_lookups_total",
			Help: "Cache store lookups by collection and result",
		},
		[]string{"collection", "result"},
	)
	nodeReconnects = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "web3relay_node_reconnects_total",
			Help: "Node reconnect attempts by result",
		},
		[]string{"result"},
	)
	nodeConnected = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "web3relay_node_connected",
			Help: "1 when the node connection is up",
		},
	)
)

func init() {
	prometheus.MustRegister(requestCounter)
	prometheus.MustRegister(requestDuration)
	prometheus.MustRegister(cacheLookups)
	prometheus.MustRegister(nodeReconnects)
	prometheus.MustRegister(nodeConnected)
}

// ObserveRequest records one finished relay request.
func ObserveRequest(kind, outcome string, seconds float64) {
	requestCounter.WithLabelValues(kind, outcome).Inc()
	requestDuration.WithLabelValues(kind).Observe(seconds)
}

// CacheLookup records a cache hit or miss for a collection.
func CacheLookup(collection string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	cacheLookups.WithLabelValues(collection, result).Inc()
}

// NodeReconnect records a reconnect attempt outcome.
func NodeReconnect(ok bool) {
	result := "failed"
	if ok {
		result = "ok"
	}
	nodeReconnects.WithLabelValues(result).Inc()
}

// SetNodeConnected updates the connection gauge.
func SetNodeConnected(up bool) {
	if up {
		nodeConnected.Set(1)
		return
	}
	nodeConnected.Set(0)
}
