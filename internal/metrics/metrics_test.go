package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager(t *testing.T) {
	m := New(WithNamespace("test"))

	m.ObserveHTTP("/health", "GET", 200, 5*time.Millisecond)
	m.ObserveHTTP("/health", "GET", 200, 7*time.Millisecond)
	m.ObserveQuery("count_all_entities", time.Millisecond, nil)
	m.ObserveQuery("count_all_entities", time.Millisecond, errors.New("boom"))
	m.SetTotalEntities(2025, "purchase", 22)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("/health", "GET", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.queryErrors.WithLabelValues("count_all_entities")))
	assert.Equal(t, 22.0, testutil.ToFloat64(m.totalEntities.WithLabelValues("2025", "purchase")))

	families, err := m.Registry().Gather()
	require.NoError(t, err)

	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "test_http_requests_total")
	assert.Contains(t, names, "test_evaluations_query_duration_seconds")
}

func TestManager_WithRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())

	m := New(WithRegistry(reg))
	assert.Same(t, reg, m.Registry())

	m.ObserveQuery("completed_details", time.Millisecond, nil)

	families, err := reg.Gather()
	require.NoError(t, err)

	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "go_goroutines")
	assert.Contains(t, names, "sqe_evaluations_query_duration_seconds")

	// nil оставляет собственный реестр
	own := New(WithRegistry(nil))
	assert.NotNil(t, own.Registry())
	assert.NotSame(t, reg, own.Registry())
}
