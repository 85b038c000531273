package observability

import (
	"context"
	"net/http"

	"github.com/codenameuriel/exo-intel/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "exointel"

// Metrics holds the simulation collectors.
type Metrics struct {
	registry *prometheus.Registry

	Runs     *prometheus.CounterVec
	Duration *prometheus.HistogramVec
	InFlight *prometheus.GaugeVec
	Tasks    *prometheus.CounterVec
}

// NewMetrics registers the simulation collectors, plus the Go runtime and
// process collectors, on reg.
func NewMetrics(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		registry: reg,
		Runs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "simulations_total",
				Help:      "Finished simulation runs by kind and terminal status.",
			},
			[]string{"kind", "status"},
		),
		Duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "simulation_duration_seconds",
				Help:      "Wall time of simulation runs, including any artificial delay.",
				Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
			},
			[]string{"kind"},
		),
		InFlight: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "simulations_in_flight",
				Help:      "Simulation runs currently executing.",
			},
			[]string{"kind"},
		),
		Tasks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "tasks_submitted_total",
				Help:      "Tasks accepted by the API by kind.",
			},
			[]string{"kind"},
		),
	}
	reg.MustRegister(
		m.Runs, m.Duration, m.InFlight, m.Tasks,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Hooks returns lifecycle hooks that record run metrics.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnRunStart: func(_ context.Context, e *domain.RunEvent) {
			m.InFlight.WithLabelValues(string(e.Kind)).Inc()
		},
		OnRunFinish: func(_ context.Context, e *domain.RunEvent) {
			kind := string(e.Kind)
			m.InFlight.WithLabelValues(kind).Dec()
			// A run whose terminal write failed has no outcome to count.
			if !e.Status.IsTerminal() {
				return
			}
			m.Runs.WithLabelValues(kind, string(e.Status)).Inc()
			m.Duration.WithLabelValues(kind).Observe(e.Duration.Seconds())
		},
	}
}

// TaskSubmitted counts an accepted task.
func (m *Metrics) TaskSubmitted(kind domain.Kind) {
	m.Tasks.WithLabelValues(string(kind)).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
