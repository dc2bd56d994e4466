package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "storefront"

// Metrics owns a private registry so tests and multiple fx apps never clash
// on the global one.
type Metrics struct {
	registry *prometheus.Registry

	Requests        *prometheus.CounterVec
	LatencyMS       *prometheus.HistogramVec
	Validations     *prometheus.CounterVec
	OrdersPlaced    *prometheus.CounterVec
	Transitions     *prometheus.CounterVec
	PaymentsChecked *prometheus.CounterVec
	EventsRelayed   *prometheus.CounterVec
}

// New registers every collector on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests.",
		}, []string{"handler", "status"}),
		LatencyMS: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_ms",
			Help:      "HTTP request latency in milliseconds.",
			Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
		}, []string{"handler"}),
		Validations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cart_validations_total",
			Help:      "Cart validations by verdict.",
		}, []string{"result"}),
		OrdersPlaced: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_placed_total",
			Help:      "Orders placed per store.",
		}, []string{"store"}),
		Transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "order_status_transitions_total",
			Help:      "Order status transitions by target status.",
		}, []string{"status"}),
		PaymentsChecked: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payment_checks_total",
			Help:      "Payment processor lookups by outcome.",
		}, []string{"outcome"}),
		EventsRelayed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "order_events_relayed_total",
			Help:      "Outbox events relayed to the stream by outcome.",
		}, []string{"outcome"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.Requests, m.LatencyMS, m.Validations, m.OrdersPlaced,
		m.Transitions, m.PaymentsChecked, m.EventsRelayed,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveRequest records one served HTTP request.
func (m *Metrics) ObserveRequest(handler string, status int, elapsed time.Duration) {
	m.Requests.WithLabelValues(handler, strconv.Itoa(status)).Inc()
	m.LatencyMS.WithLabelValues(handler).Observe(float64(elapsed.Milliseconds()))
}

func (m *Metrics) ValidationCompleted(result string) {
	m.Validations.WithLabelValues(result).Inc()
}

func (m *Metrics) OrderPlaced(store string) {
	m.OrdersPlaced.WithLabelValues(store).Inc()
}

func (m *Metrics) OrderTransitioned(status string) {
	m.Transitions.WithLabelValues(status).Inc()
}

func (m *Metrics) PaymentChecked(outcome string) {
	m.PaymentsChecked.WithLabelValues(outcome).Inc()
}

func (m *Metrics) EventRelayed(outcome string) {
	m.EventsRelayed.WithLabelValues(outcome).Inc()
}
