package observability

import (
	"context"
	"net/http"

	"github.com/aretw0/txgraph/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Namespace prefixes every metric name.
const Namespace = "txgraph"

// Metrics holds the collectors of one process.
type Metrics struct {
	registry *prometheus.Registry

	Resolutions *prometheus.CounterVec
	Expansions  prometheus.Counter
	Edges       prometheus.Counter
	Frontier    prometheus.Histogram
	Seeds       *prometheus.CounterVec
}

// NewMetrics creates the collectors on a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		Resolutions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "resolutions_total",
				Help:      "Total number of record resolutions by kind and source",
			},
			[]string{"kind", "source"},
		),
		Expansions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "expansions_total",
			Help:      "Total number of address expansions",
		}),
		Edges: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "edges_total",
			Help:      "Total number of distinct edges collected",
		}),
		Frontier: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "frontier_size",
			Help:      "Frontier size after each expansion",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
		}),
		Seeds: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "seeds_total",
				Help:      "Total number of processed seeds by outcome",
			},
			[]string{"outcome"},
		),
	}
	m.registry.MustRegister(m.Resolutions, m.Expansions, m.Edges, m.Frontier, m.Seeds)
	return m
}

// Registry returns the registry the collectors live on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Hooks returns lifecycle hooks that record into m.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnResolve: func(_ context.Context, e *domain.ResolveEvent) {
			m.Resolutions.WithLabelValues(string(e.Kind), string(e.Source)).Inc()
		},
		OnExpand: func(_ context.Context, e *domain.ExpandEvent) {
			m.Expansions.Inc()
			m.Edges.Add(float64(e.EdgesAdded))
			m.Frontier.Observe(float64(e.FrontierSize))
		},
	}
}

// ObserveSeed counts a finished seed. Outcome is "ok", "empty", "skipped" or "failed".
func (m *Metrics) ObserveSeed(outcome string) {
	m.Seeds.WithLabelValues(outcome).Inc()
}

// Combine returns hooks that call every non-nil callback of each set, in order.
func Combine(sets ...domain.LifecycleHooks) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnResolve: func(ctx context.Context, e *domain.ResolveEvent) {
			for _, h := range sets {
				h.EmitResolve(ctx, e)
			}
		},
		OnExpand: func(ctx context.Context, e *domain.ExpandEvent) {
			for _, h := range sets {
				h.EmitExpand(ctx, e)
			}
		},
	}
}

// LoggingHooks returns hooks that log every event at debug level.
func LoggingHooks(log func(msg string, args ...any)) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnResolve: func(_ context.Context, e *domain.ResolveEvent) {
			log("resolve", "kind", e.Kind, "hash", e.Hash, "source", e.Source)
		},
		OnExpand: func(_ context.Context, e *domain.ExpandEvent) {
			log("expand",
				"iteration", e.Iteration,
				"address", e.Address,
				"frontier", e.FrontierSize,
				"edges_added", e.EdgesAdded,
			)
		},
	}
}
