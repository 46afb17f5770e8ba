package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/arloliu/jspull/types"
)

// PrometheusCollector implements types.MetricsCollector backed by Prometheus.
//
// Collectors are created and registered lazily on first use, so constructing
// one never panics even when the registerer already holds other metrics.
type PrometheusCollector struct {
	reg       prometheus.Registerer
	namespace string
	once      sync.Once

	published       *prometheus.CounterVec
	publishFailures *prometheus.CounterVec
	reads           *prometheus.CounterVec
	acks            *prometheus.CounterVec
	readDuration    prometheus.Histogram
	streamsCreated  prometheus.Counter
}

// Compile-time assertion that PrometheusCollector implements MetricsCollector.
var _ types.MetricsCollector = (*PrometheusCollector)(nil)

// NewPrometheus creates a new Prometheus-backed metrics collector.
//
// Parameters:
//   - reg: Prometheus registerer (uses prometheus.DefaultRegisterer if nil)
//   - namespace: Metrics namespace (defaults to "jspull" if empty)
//
// Returns:
//   - *PrometheusCollector: A MetricsCollector implementation using Prometheus
func NewPrometheus(reg prometheus.Registerer, namespace string) *PrometheusCollector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if namespace == "" {
		namespace = "jspull"
	}

	return &PrometheusCollector{reg: reg, namespace: namespace}
}

func (p *PrometheusCollector) ensureRegistered() {
	p.once.Do(func() {
		p.published = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "publisher",
			Name:      "messages_total",
			Help:      "Total messages published by mode (sync, async).",
		}, []string{"mode"})

		p.publishFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "publisher",
			Name:      "failures_total",
			Help:      "Total failed publish attempts by mode (sync, async).",
		}, []string{"mode"})

		p.reads = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "reader",
			Name:      "messages_total",
			Help:      "Total messages read from pull subscriptions by origin (jetstream, status, plain).",
		}, []string{"origin"})

		p.acks = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "reader",
			Name:      "acks_total",
			Help:      "Total acknowledgement attempts by result (success, failure).",
		}, []string{"result"})

		p.readDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Subsystem: "reader",
			Name:      "drain_duration_seconds",
			Help:      "Wall time of one subscription drain in seconds, including the final empty wait.",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 10), // 50ms .. ~25s
		})

		p.streamsCreated = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "provisioner",
			Name:      "streams_created_total",
			Help:      "Total streams created by provisioners.",
		})

		p.reg.MustRegister(p.published)
		p.reg.MustRegister(p.publishFailures)
		p.reg.MustRegister(p.reads)
		p.reg.MustRegister(p.acks)
		p.reg.MustRegister(p.readDuration)
		p.reg.MustRegister(p.streamsCreated)
	})
}

// RecordPublish increments the published counter for mode.
func (p *PrometheusCollector) RecordPublish(mode string) {
	p.ensureRegistered()
	p.published.WithLabelValues(mode).Inc()
}

// RecordPublishFailure increments the failure counter for mode.
func (p *PrometheusCollector) RecordPublishFailure(mode string) {
	p.ensureRegistered()
	p.publishFailures.WithLabelValues(mode).Inc()
}

// RecordRead increments the read counter for origin.
func (p *PrometheusCollector) RecordRead(origin types.Origin) {
	p.ensureRegistered()
	p.reads.WithLabelValues(origin.String()).Inc()
}

// RecordAck increments the ack counter.
func (p *PrometheusCollector) RecordAck(success bool) {
	p.ensureRegistered()
	if success {
		p.acks.WithLabelValues("success").Inc()
	} else {
		p.acks.WithLabelValues("failure").Inc()
	}
}

// ObserveReadDuration observes one drain duration.
func (p *PrometheusCollector) ObserveReadDuration(seconds float64) {
	p.ensureRegistered()
	p.readDuration.Observe(seconds)
}

// RecordStreamCreated increments the stream creation counter.
func (p *PrometheusCollector) RecordStreamCreated() {
	p.ensureRegistered()
	p.streamsCreated.Inc()
}
