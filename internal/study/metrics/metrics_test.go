package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetricsRecord(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.IncStudyCreated()
	m.AddGenomesRegistered(3)
	m.AddImported("skipped", 2)
	m.RecordCacheLookup("hit")
	m.SetCacheBreakerOpen(true)
	m.ObserveOperation("create_study", time.Now())

	assert.Equal(t, 1.0, testutil.ToFloat64(m.StudiesCreated))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.GenomesRegistered))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.ImportedValues.WithLabelValues("skipped")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheLookups.WithLabelValues("hit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheBreakerOpen))
}

func TestNilMetricsAreSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.IncStudyCreated()
		m.IncFieldUpdated()
		m.AddImported("updated", 1)
		m.RecordCacheLookup("miss")
		m.SetCacheBreakerOpen(false)
		m.RecordValidation("ok")
		m.ObserveOperation("x", time.Now())
	})
}
