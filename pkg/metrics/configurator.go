package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Submission outcomes recorded on the submit counter.
const (
	OutcomeSuccess    = "success"
	OutcomeInvalid    = "invalid"
	OutcomeBusy       = "busy"
	OutcomeEncodeFail = "encode_failed"
	OutcomeRejected   = "rejected"
)

// ConfiguratorMetrics records submission and gallery activity for draft sessions.
type ConfiguratorMetrics struct {
	submitDuration  *prometheus.HistogramVec
	submitTotal     *prometheus.CounterVec
	imageRejections *prometheus.CounterVec
	activeSessions  prometheus.Gauge
}

// NewConfiguratorMetrics registers the configurator metrics on the provided registerer.
func NewConfiguratorMetrics(reg prometheus.Registerer) *ConfiguratorMetrics {
	if reg == nil {
		return &ConfiguratorMetrics{}
	}
	submitDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "draft_submit_duration_seconds",
		Help:    "Duration of draft submissions in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})
	submitTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "draft_submit_total",
		Help: "Draft submissions by outcome.",
	}, []string{"outcome"})
	imageRejections := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "draft_image_rejections_total",
		Help: "Image batches rejected by the gallery.",
	}, []string{"reason"})
	activeSessions := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "draft_sessions_active",
		Help: "Configurator sessions currently held in memory.",
	})
	reg.MustRegister(submitDuration, submitTotal, imageRejections, activeSessions)
	return &ConfiguratorMetrics{
		submitDuration:  submitDuration,
		submitTotal:     submitTotal,
		imageRejections: imageRejections,
		activeSessions:  activeSessions,
	}
}

// ObserveSubmit records one submission attempt.
func (c *ConfiguratorMetrics) ObserveSubmit(outcome string, duration time.Duration) {
	if c == nil || c.submitTotal == nil {
		return
	}
	label := normalizeLabel(outcome)
	c.submitTotal.WithLabelValues(label).Inc()
	c.submitDuration.WithLabelValues(label).Observe(duration.Seconds())
}

// IncImageRejection counts a rejected image batch.
func (c *ConfiguratorMetrics) IncImageRejection(reason string) {
	if c == nil || c.imageRejections == nil {
		return
	}
	c.imageRejections.WithLabelValues(normalizeLabel(reason)).Inc()
}

// SetActiveSessions publishes the current registry size.
func (c *ConfiguratorMetrics) SetActiveSessions(count int) {
	if c == nil || c.activeSessions == nil {
		return
	}
	c.activeSessions.Set(float64(count))
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
