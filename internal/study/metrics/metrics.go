package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var durationBuckets = []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5}

// Metrics provides observability for the study catalog.
type Metrics struct {
	StudiesCreated    prometheus.Counter
	FieldUpdates      prometheus.Counter
	GenomesRegistered prometheus.Counter
	ImportedValues    *prometheus.CounterVec
	OperationDuration *prometheus.HistogramVec
	CacheLookups      *prometheus.CounterVec
	CacheBreakerOpen  prometheus.Gauge
	RecordsValidated  *prometheus.CounterVec
}

// New registers the study metrics with reg. A nil reg uses the default registry.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &Metrics{
		StudiesCreated: f.NewCounter(prometheus.CounterOpts{
			Name: "studycat_studies_created_total",
			Help: "Total number of studies created",
		}),
		FieldUpdates: f.NewCounter(prometheus.CounterOpts{
			Name: "studycat_study_field_updates_total",
			Help: "Total number of study record field updates",
		}),
		GenomesRegistered: f.NewCounter(prometheus.CounterOpts{
			Name: "studycat_genomes_registered_total",
			Help: "Total number of genomes newly registered",
		}),
		ImportedValues: f.NewCounterVec(prometheus.CounterOpts{
			Name: "studycat_genome_field_values_total",
			Help: "Genome metadata values processed by imports, by outcome",
		}, []string{"outcome"}),
		OperationDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "studycat_study_operation_duration_seconds",
			Help:    "Duration of study service operations",
			Buckets: durationBuckets,
		}, []string{"operation"}),
		CacheLookups: f.NewCounterVec(prometheus.CounterOpts{
			Name: "studycat_study_cache_lookups_total",
			Help: "Study cache lookups by result (hit, miss, error, bypass)",
		}, []string{"result"}),
		CacheBreakerOpen: f.NewGauge(prometheus.GaugeOpts{
			Name: "studycat_study_cache_breaker_open",
			Help: "1 while the study cache circuit breaker is open",
		}),
		RecordsValidated: f.NewCounterVec(prometheus.CounterOpts{
			Name: "studycat_records_validated_total",
			Help: "Records validated, by result (ok, invalid, unparseable)",
		}, []string{"result"}),
	}
}

func (m *Metrics) IncStudyCreated() {
	if m == nil {
		return
	}
	m.StudiesCreated.Inc()
}

func (m *Metrics) IncFieldUpdated() {
	if m == nil {
		return
	}
	m.FieldUpdates.Inc()
}

func (m *Metrics) AddGenomesRegistered(n int) {
	if m == nil {
		return
	}
	m.GenomesRegistered.Add(float64(n))
}

// AddImported records import outcomes: "updated" or "skipped".
func (m *Metrics) AddImported(outcome string, n int) {
	if m == nil {
		return
	}
	m.ImportedValues.WithLabelValues(outcome).Add(float64(n))
}

// ObserveOperation records the duration of a service operation.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveOperation(op string, start time.Time) {
	if m == nil {
		return
	}
	m.OperationDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

func (m *Metrics) RecordCacheLookup(result string) {
	if m == nil {
		return
	}
	m.CacheLookups.WithLabelValues(result).Inc()
}

func (m *Metrics) SetCacheBreakerOpen(open bool) {
	if m == nil {
		return
	}
	if open {
		m.CacheBreakerOpen.Set(1)
		return
	}
	m.CacheBreakerOpen.Set(0)
}

func (m *Metrics) RecordValidation(result string) {
	if m == nil {
		return
	}
	m.RecordsValidated.WithLabelValues(result).Inc()
}
