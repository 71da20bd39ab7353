package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestMetrics(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	m := New(reg)

	m.Cycle("ok", 3*time.Second)
	m.Cycle("partial", time.Second)
	m.SourceFetch("feed", true)
	m.SourceFetch("feed", false)
	m.SourceFetch("feed", false)
	m.Inserted(5)
	m.Inserted(0)
	m.Summary("ai")

	require.Equal(t, 1.0, testutil.ToFloat64(m.cycles.WithLabelValues("ok")))
	require.Equal(t, 2.0, testutil.ToFloat64(m.sourceFetch.WithLabelValues("feed", "error")))
	require.Equal(t, 5.0, testutil.ToFloat64(m.inserted))
	require.Equal(t, 1.0, testutil.ToFloat64(m.summaries.WithLabelValues("ai")))

	n, err := testutil.GatherAndCount(reg, "newsradar_cycle_duration_seconds")
	require.NoError(t, err)
	require.Equal(t, 1, n)

	m.HTTPRequest("GET", "/api/articles/{id}", "200", 10*time.Millisecond)
	m.HTTPRequest("GET", "/api/articles/{id}", "404", time.Millisecond)
	require.Equal(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "/api/articles/{id}", "404")))
}

func TestMetrics_NilSafe(t *testing.T) {
	t.Parallel()

	var m *Metrics
	require.NotPanics(t, func() {
		m.Cycle("ok", time.Second)
		m.SourceFetch("api", true)
		m.Inserted(1)
		m.Summary("fallback")
		m.HTTPRequest("GET", "/livez", "200", time.Millisecond)
	})
}
