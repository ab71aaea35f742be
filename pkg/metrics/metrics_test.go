package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetricsRegisterOnGivenRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg, "hospital")

	m.ImportRows.WithLabelValues("patients", OutcomePersisted).Add(3)
	m.ImportRows.WithLabelValues("patients", OutcomeRejected).Inc()

	assert.Equal(t, float64(3), testutil.ToFloat64(m.ImportRows.WithLabelValues("patients", OutcomePersisted)))
	assert.Equal(t, 0, testutil.CollectAndCount(m.ImportBatches))

	// a second set on another registry must not panic on duplicate registration
	assert.NotPanics(t, func() { NewTestMetrics() })
}
