// Package metrics provides observability for the craftbook logic service.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/solatis/craftbook/internal/types"
)

// Result labels for ParseTotal.
const (
	ResultOK    = "ok"
	ResultError = "error"
)

// Metrics holds the service collectors on a private registry, so several
// instances can coexist in one process.
type Metrics struct {
	registry *prometheus.Registry

	ParseTotal          *prometheus.CounterVec
	RenderTotal         prometheus.Counter
	LookupFailuresTotal *prometheus.CounterVec
	RequestDuration     *prometheus.HistogramVec
}

// New creates a Metrics instance with process and Go runtime collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		ParseTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "craftbook_parse_total",
			Help: "Expressions parsed, by grammar and result",
		}, []string{"grammar", "result"}),
		RenderTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "craftbook_render_total",
			Help: "Expressions rendered",
		}),
		LookupFailuresTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "craftbook_lookup_failures_total",
			Help: "Dictionary lookups that failed, by namespace",
		}, []string{"meaning"}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "craftbook_request_duration_seconds",
			Help:    "Duration of logic service calls",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}, []string{"method"}),
	}
}

// ObserveParse records one parse attempt for grammar.
func (m *Metrics) ObserveParse(grammar string, err error) {
	result := ResultOK
	if err != nil {
		result = ResultError
	}
	m.ParseTotal.WithLabelValues(grammar, result).Inc()
}

// IncrementRender records one rendered expression.
func (m *Metrics) IncrementRender() {
	m.RenderTotal.Inc()
}

// IncrementLookupFailure records a failed dictionary lookup.
func (m *Metrics) IncrementLookupFailure(meaning types.Meaning) {
	m.LookupFailuresTotal.WithLabelValues(meaning.String()).Inc()
}

// ObserveRequest records the duration of a service call.
// Call with time.Now() at the start of the call.
func (m *Metrics) ObserveRequest(method string, start time.Time) {
	m.RequestDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())
}

// Registry exposes the underlying registry for tests and custom exporters.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
