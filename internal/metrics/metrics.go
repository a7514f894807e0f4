package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
)

const namespace = "cms_oauth_bridge"

// Metrics holds the Prometheus collectors of the bridge. Each instance owns
// its registry so several can coexist in tests.
type Metrics struct {
	registry         *prometheus.Registry
	Requests         *prometheus.CounterVec
	TokenExchanges   *prometheus.CounterVec
	ExchangeDuration prometheus.Histogram
}

// New creates and registers all collectors
func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		Requests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_total",
			Help:      "HTTP requests handled, by route, method and status code",
		}, []string{"handler", "method", "status"}),
		TokenExchanges: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "token_exchanges_total",
			Help:      "Authorization code exchanges with the provider, by outcome",
		}, []string{"outcome"}),
		ExchangeDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "token_exchange_duration_seconds",
			Help:      "Latency of the provider token endpoint",
			Buckets:   prometheus.DefBuckets,
		}),
	}
}

// ObserveRequest counts a handled HTTP request
func (m *Metrics) ObserveRequest(handler, method string, status int) {
	m.Requests.WithLabelValues(handler, method, strconv.Itoa(status)).Inc()
}

// ObserveExchange records the outcome and latency of a token exchange
func (m *Metrics) ObserveExchange(outcome string, took time.Duration) {
	m.TokenExchanges.WithLabelValues(outcome).Inc()
	m.ExchangeDuration.Observe(took.Seconds())
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Module provides the metrics dependencies
var Module = fx.Module("metrics",
	fx.Provide(New),
)
