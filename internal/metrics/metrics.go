// Package metrics exposes Prometheus counters for sample reads and generated results.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics groups the counters elmchart updates. A nil *Metrics is valid and records nothing.
type Metrics struct {
	Registry       *prometheus.Registry
	ResultsCreated prometheus.Counter
	SampleReads    prometheus.Counter
}

// New registers the elmchart counters on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		ResultsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "elmchart",
			Name:      "results_created_total",
			Help:      "Result rows written by the sample generator.",
		}),
		SampleReads: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "elmchart",
			Name:      "sample_reads_total",
			Help:      "Population samples read.",
		}),
	}
	m.Registry.MustRegister(m.ResultsCreated, m.SampleReads)
	return m
}

// IncResultsCreated is safe on a nil receiver.
func (m *Metrics) IncResultsCreated() {
	if m == nil {
		return
	}
	m.ResultsCreated.Inc()
}

// IncSampleReads is safe on a nil receiver.
func (m *Metrics) IncSampleReads() {
	if m == nil {
		return
	}
	m.SampleReads.Inc()
}

// WriteTextfile writes the registry in the node-exporter textfile format.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, m.Registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
