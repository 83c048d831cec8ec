package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"stockroom-api/internal/ai"
)

// Collector owns the service registry and its metrics.
type Collector struct {
	registry *prometheus.Registry

	aiTasks      *prometheus.CounterVec
	aiDuration   *prometheus.HistogramVec
	mutations    *prometheus.CounterVec
	records      prometheus.GaugeFunc
	degraded     prometheus.GaugeFunc
	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
}

// StoreState exposes the store figures sampled at scrape time.
type StoreState interface {
	Len() int
	Degraded() (bool, error)
}

// NewCollector registers every metric on a fresh registry. store may be nil.
func NewCollector(store StoreState) *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		aiTasks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockroom_ai_tasks_total",
				Help: "AI tasks dispatched, by task and outcome",
			},
			[]string{"task", "outcome"},
		),
		aiDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "stockroom_ai_task_duration_seconds",
				Help:    "Time spent waiting on the text generator",
				Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
			},
			[]string{"task"},
		),
		mutations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockroom_inventory_mutations_total",
				Help: "Inventory mutations, by operation and result",
			},
			[]string{"op", "result"},
		),
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockroom_http_requests_total",
				Help: "HTTP requests, by method and status",
			},
			[]string{"method", "status"},
		),
		httpDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "stockroom_http_request_duration_seconds",
				Help:    "HTTP request latency",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method"},
		),
	}

	c.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		c.aiTasks, c.aiDuration, c.mutations, c.httpRequests, c.httpDuration,
	)

	if store != nil {
		c.records = prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Name: "stockroom_inventory_records",
				Help: "Records currently held by the store",
			},
			func() float64 { return float64(store.Len()) },
		)
		c.degraded = prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Name: "stockroom_inventory_degraded",
				Help: "1 when the store has stopped persisting snapshots",
			},
			func() float64 {
				if d, _ := store.Degraded(); d {
					return 1
				}
				return 0
			},
		)
		c.registry.MustRegister(c.records, c.degraded)
	}

	return c
}

// ObserveTask implements ai.Observer.
func (c *Collector) ObserveTask(kind ai.Kind, outcome string, elapsed time.Duration) {
	c.aiTasks.WithLabelValues(string(kind), outcome).Inc()
	c.aiDuration.WithLabelValues(string(kind)).Observe(elapsed.Seconds())
}

// ObserveMutation counts one inventory mutation.
func (c *Collector) ObserveMutation(op, result string) {
	c.mutations.WithLabelValues(op, result).Inc()
}

// ObserveRequest records one served HTTP request.
func (c *Collector) ObserveRequest(method, status string, elapsed time.Duration) {
	c.httpRequests.WithLabelValues(method, status).Inc()
	c.httpDuration.WithLabelValues(method).Observe(elapsed.Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

var _ ai.Observer = (*Collector)(nil)
