package metrics

import (
	"context"
	"net/http"

	"mimi-order/models"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "mimi"

type Metrics struct {
	Orders    *prometheus.CounterVec
	Revenue   prometheus.Counter
	Exports   prometheus.Counter
	Requests  *prometheus.CounterVec
	LatencyMS *prometheus.HistogramVec

	gatherer prometheus.Gatherer
}

// New registers the collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		Orders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_submitted_total",
			Help:      "Orders appended to the order log.",
		}, []string{"type"}),
		Revenue: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "order_revenue_won_total",
			Help:      "Sum of submitted order totals in won.",
		}),
		Exports: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "exports_total",
			Help:      "CSV exports served.",
		}),
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
		gatherer: reg,
	}
	reg.MustRegister(m.Orders, m.Revenue, m.Exports, m.Requests, m.LatencyMS)
	return m
}

// OrderSubmitted lets Metrics be registered as an order notifier.
func (m *Metrics) OrderSubmitted(ctx context.Context, o models.Order) error {
	m.Orders.WithLabelValues(string(o.Type)).Inc()
	m.Revenue.Add(float64(o.Total))
	return nil
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
