package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveRequest(t *testing.T) {
	before := testutil.ToFloat64(requestCounter.WithLabelValues("tx", "ok"))
	ObserveRequest("tx", "ok", 0.01)
	ObserveRequest("tx", "ok", 0.02)
	assert.Equal(t, before+2, testutil.ToFloat64(requestCounter.WithLabelValues("tx", "ok")))
}

func TestCacheLookup(t *testing.T) {
	CacheLookup("blocks", true)
	CacheLookup("blocks", false)
	CacheLookup("blocks", false)
	assert.Equal(t, 1.0, testutil.ToFloat64(cacheLookups.WithLabelValues("blocks", "hit")))
	assert.Equal(t, 2.0, testutil.ToFloat64(cacheLookups.WithLabelValues("blocks", "miss")))
}

func TestNodeGauge(t *testing.T) {
	SetNodeConnected(true)
	assert.Equal(t, 1.0, testutil.ToFloat64(nodeConnected))
	SetNodeConnected(false)
	assert.Equal(t, 0.0, testutil.ToFloat64(nodeConnected))

	NodeReconnect(false)
	assert.Equal(t, 1.0, testutil.ToFloat64(nodeReconnects.WithLabelValues("failed")))
}
