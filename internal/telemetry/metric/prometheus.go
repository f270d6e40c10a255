package metric

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Namespace prefixes every metric name.
const Namespace = "teataster"

// Registry holds all application metrics.
type Registry struct {
	registry *prometheus.Registry

	ActionsTotal        *prometheus.CounterVec
	EffectFailures      *prometheus.CounterVec
	RequestsTotal       *prometheus.CounterVec
	RequestDuration     *prometheus.HistogramVec
	VaultUnlockAttempts *prometheus.CounterVec
}

// NewRegistry creates a registry with Go runtime and process collectors
// plus the application metrics.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	r := &Registry{
		registry: reg,
		ActionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "store",
			Name:      "actions_total",
			Help:      "Actions reduced by the store, by action type",
		}, []string{"type"}),
		EffectFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "store",
			Name:      "effect_failures_total",
			Help:      "Effects that ended in a failure action, by effect",
		}, []string{"effect"}),
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests served, by method, route and status",
		}, []string{"method", "route", "status"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: Namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		VaultUnlockAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "vault",
			Name:      "unlock_attempts_total",
			Help:      "Vault unlock attempts, by result",
		}, []string{"result"}),
	}

	reg.MustRegister(
		r.ActionsTotal,
		r.EffectFailures,
		r.RequestsTotal,
		r.RequestDuration,
		r.VaultUnlockAttempts,
	)
	return r
}

var (
	globalOnce sync.Once
	global     *Registry
)

// Global returns the process-wide registry.
func Global() *Registry {
	globalOnce.Do(func() {
		global = NewRegistry()
	})
	return global
}

// Registerer exposes the underlying registry for components that register
// their own collectors (the Badger engine).
func (r *Registry) Registerer() prometheus.Registerer {
	return r.registry
}

// Gatherer exposes the underlying registry for tests and handlers.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.registry
}

// Handler returns the /metrics handler for this registry.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// IncAction counts a reduced action.
func (r *Registry) IncAction(actionType string) {
	r.ActionsTotal.WithLabelValues(actionType).Inc()
}

// IncEffectFailure counts an effect that produced a failure action.
func (r *Registry) IncEffectFailure(effect string) {
	r.EffectFailures.WithLabelValues(effect).Inc()
}

// ObserveRequest records one served HTTP request.
func (r *Registry) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	r.RequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	r.RequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// IncUnlockAttempt counts a vault unlock attempt ("success", "failure",
// "cancelled").
func (r *Registry) IncUnlockAttempt(result string) {
	r.VaultUnlockAttempts.WithLabelValues(result).Inc()
}
