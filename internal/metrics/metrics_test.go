package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var metric dto.Metric
	require.NoError(t, c.Write(&metric))
	return metric.GetCounter().GetValue()
}

func TestObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.Observe("upload", Result(nil))
	m.Observe("upload", Result(nil))
	m.Observe("upload", Result(errors.New("x")))

	assert.Equal(t, 2.0, counterValue(t, m.Operations.WithLabelValues("upload", ResultSuccess)))
	assert.Equal(t, 1.0, counterValue(t, m.Operations.WithLabelValues("upload", ResultFailure)))
}

func TestObserveNilReceiver(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() { m.Observe("upload", ResultSuccess) })
}
