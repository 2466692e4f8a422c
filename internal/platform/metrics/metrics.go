package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"hrportal/internal/domain/notifications"
)

const namespace = "hrportal"

// Collector owns a private registry so several servers can coexist in one
// process (tests do this).
type Collector struct {
	registry *prometheus.Registry

	requests      *prometheus.CounterVec
	duration      *prometheus.HistogramVec
	deliveries    *prometheus.CounterVec
	broadcastRuns *prometheus.CounterVec
}

var _ notifications.Recorder = (*Collector)(nil)

func New() *Collector {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Collector{
		registry: reg,
		requests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "HTTP requests by method, route and status code",
			},
			[]string{"method", "route", "status"},
		),
		duration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency in seconds",
				Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
			},
			[]string{"method", "route"},
		),
		deliveries: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "notification_deliveries_total",
				Help:      "Live notification outcomes by message type",
			},
			[]string{"type", "outcome"},
		),
		broadcastRuns: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "performance_broadcast_runs_total",
				Help:      "Periodic department performance broadcasts by result",
			},
			[]string{"result"},
		),
	}
}

func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}

func (c *Collector) Record(method, route string, status int, duration time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	c.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.duration.WithLabelValues(method, route).Observe(duration.Seconds())
}

func (c *Collector) Delivered(t notifications.Type) {
	c.deliveries.WithLabelValues(string(t), "delivered").Inc()
}

func (c *Collector) Failed(t notifications.Type) {
	c.deliveries.WithLabelValues(string(t), "failed").Inc()
}

func (c *Collector) Dropped(t notifications.Type) {
	c.deliveries.WithLabelValues(string(t), "dropped").Inc()
}

func (c *Collector) BroadcastRun(err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	c.broadcastRuns.WithLabelValues(result).Inc()
}

// TrackRegistry exposes live connection counts as gauges read on scrape.
func (c *Collector) TrackRegistry(r *notifications.Registry) {
	factory := promauto.With(c.registry)
	factory.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "live_connections",
		Help:      "Open live update connections",
	}, func() float64 { return float64(r.Stats().Connections) })
	factory.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "live_users",
		Help:      "Users with at least one open live connection",
	}, func() float64 { return float64(r.Stats().Users) })
	factory.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "live_departments",
		Help:      "Departments with at least one open live connection",
	}, func() float64 { return float64(r.Stats().Departments) })
}
