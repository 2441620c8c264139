package metrics_test

import (
	"testing"

	"go-rotc/internal/shared/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestNewRegistry_RegistersCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewRegistry(reg)

	m.CheckIns.WithLabelValues("present").Inc()
	m.CheckIns.WithLabelValues("out_of_range").Add(2)

	assert.Equal(t, float64(1), testutil.ToFloat64(m.CheckIns.WithLabelValues("present")))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.CheckIns.WithLabelValues("out_of_range")))

	families, err := reg.Gather()
	assert.NoError(t, err)
	assert.NotEmpty(t, families)
}

func TestNop_DoesNotPanicOnDoubleCreate(t *testing.T) {
	assert.NotPanics(t, func() {
		metrics.Nop()
		metrics.Nop()
	})
}
