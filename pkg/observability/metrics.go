package observability

import (
	"context"
	"errors"
	"net/http"

	"github.com/aretw0/contrib/pkg/domain"
	"github.com/aretw0/contrib/pkg/when"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "contrib"

// Metrics holds the Prometheus collectors fed by the hooks.
type Metrics struct {
	gatherer prometheus.Gatherer

	compiles        *prometheus.CounterVec
	compilePasses   prometheus.Histogram
	compileAtoms    prometheus.Histogram
	compileDuration prometheus.Histogram

	commandRegistrations *prometheus.CounterVec
	commandExecutions    *prometheus.CounterVec
	commandDuration      *prometheus.HistogramVec
	contextSets          *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them on reg.
// A nil reg uses a fresh registry.
func NewMetrics(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	m := &Metrics{
		gatherer: reg,
		compiles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "when",
			Name:      "compiles_total",
			Help:      "Total when-clause compilations by result (ok, non_deterministic, depth_exceeded, misuse)",
		}, []string{"result"}),
		compilePasses: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "when",
			Name:      "passes",
			Help:      "Executions of the predicate function per compilation",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 12),
		}),
		compileAtoms: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "when",
			Name:      "atoms",
			Help:      "Distinct predicate reads discovered per compilation",
			Buckets:   prometheus.LinearBuckets(1, 2, 16),
		}),
		compileDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "when",
			Name:      "compile_duration_seconds",
			Help:      "Time spent compiling a when-clause",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 10),
		}),
		commandRegistrations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "commands",
			Name:      "registrations_total",
			Help:      "Total command registrations",
		}, []string{"command"}),
		commandExecutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "commands",
			Name:      "executions_total",
			Help:      "Total command executions by status (success, error)",
		}, []string{"command", "status"}),
		commandDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "commands",
			Name:      "duration_seconds",
			Help:      "Duration of command executions",
		}, []string{"command"}),
		contextSets: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "context",
			Name:      "sets_total",
			Help:      "Total context key updates pushed to the host",
		}, []string{"key"}),
	}

	reg.MustRegister(
		m.compiles, m.compilePasses, m.compileAtoms, m.compileDuration,
		m.commandRegistrations, m.commandExecutions, m.commandDuration, m.contextSets,
	)
	return m
}

// CompilerHooks returns hooks for when.WithHooks.
func (m *Metrics) CompilerHooks() when.Hooks {
	return when.Hooks{
		OnCompile: func(stats when.Stats, err error) {
			m.compiles.WithLabelValues(compileResult(err)).Inc()
			if err != nil {
				return
			}
			m.compilePasses.Observe(float64(stats.Passes))
			m.compileAtoms.Observe(float64(stats.Atoms))
			m.compileDuration.Observe(stats.Duration.Seconds())
		},
	}
}

// LifecycleHooks returns hooks for contrib.WithLifecycleHooks.
func (m *Metrics) LifecycleHooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnCommandRegister: func(ctx context.Context, e *domain.CommandEvent) {
			m.commandRegistrations.WithLabelValues(e.CommandID).Inc()
		},
		OnCommandExecute: func(ctx context.Context, e *domain.CommandEvent) {
			status := "success"
			if e.IsError {
				status = "error"
			}
			m.commandExecutions.WithLabelValues(e.CommandID, status).Inc()
			m.commandDuration.WithLabelValues(e.CommandID).Observe(e.Duration.Seconds())
		},
		OnContextSet: func(ctx context.Context, e *domain.ContextEvent) {
			m.contextSets.WithLabelValues(e.Key).Inc()
		},
	}
}

// Handler serves the collected metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

func compileResult(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, when.ErrNonDeterministic):
		return "non_deterministic"
	case errors.Is(err, when.ErrDepthExceeded):
		return "depth_exceeded"
	default:
		return "misuse"
	}
}
