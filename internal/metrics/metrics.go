package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors of one process. Each instance owns its registry
// so tests can build as many as they like.
type Metrics struct {
	registry          *prometheus.Registry
	requests          *prometheus.CounterVec
	requestDuration   *prometheus.HistogramVec
	submissions       prometheus.Counter
	transitions       *prometheus.CounterVec
	roleGrantFailures prometheus.Counter
	messagesSent      *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		submissions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "landtrust_applications_submitted_total",
			Help: "Applications submitted by applicants",
		}),
		transitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "landtrust_status_transitions_total",
				Help: "Application status changes made by staff",
			},
			[]string{"to"},
		),
		roleGrantFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "landtrust_role_grant_failures_total",
			Help: "Approvals whose homeowner role grant did not complete",
		}),
		messagesSent: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "landtrust_messages_sent_total",
				Help: "Messages posted to application threads",
			},
			[]string{"sender"},
		),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requests,
		m.requestDuration,
		m.submissions,
		m.transitions,
		m.roleGrantFailures,
		m.messagesSent,
	)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Middleware records request counts and latency labelled by route pattern.
func (m *Metrics) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if fiberErr, ok := err.(*fiber.Error); ok {
			status = fiberErr.Code
		}
		path := c.Route().Path
		m.requests.WithLabelValues(c.Method(), path, strconv.Itoa(status)).Inc()
		m.requestDuration.WithLabelValues(c.Method(), path).Observe(time.Since(start).Seconds())
		return err
	}
}

func (m *Metrics) Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}

func (m *Metrics) ApplicationSubmitted() {
	m.submissions.Inc()
}

func (m *Metrics) StatusChanged(status string) {
	m.transitions.WithLabelValues(status).Inc()
}

func (m *Metrics) RoleGrantFailed() {
	m.roleGrantFailures.Inc()
}

func (m *Metrics) MessageSent(isAdmin bool) {
	sender := "applicant"
	if isAdmin {
		sender = "admin"
	}
	m.messagesSent.WithLabelValues(sender).Inc()
}
