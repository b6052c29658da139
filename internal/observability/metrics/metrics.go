package metrics

import "github.com/prometheus/client_golang/prometheus"

// ScheduleMetrics exposes counters/histograms for the calendar pipeline.
type ScheduleMetrics struct {
	upstreamTotal   *prometheus.CounterVec
	upstreamLatency *prometheus.HistogramVec
	cacheTotal      *prometheus.CounterVec
}

func NewScheduleMetrics(reg prometheus.Registerer) *ScheduleMetrics {
	m := &ScheduleMetrics{
		upstreamTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "studio",
			Subsystem: "square",
			Name:      "upstream_total",
			Help:      "Total Square upstream fetches",
		}, []string{"side", "status"}),
		upstreamLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "studio",
			Subsystem: "square",
			Name:      "upstream_latency_seconds",
			Help:      "Latency of Square upstream fetches",
			Buckets:   prometheus.DefBuckets,
		}, []string{"side"}),
		cacheTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "studio",
			Subsystem: "schedule",
			Name:      "dataset_cache_total",
			Help:      "Calendar dataset cache lookups",
		}, []string{"outcome"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.upstreamTotal, m.upstreamLatency, m.cacheTotal)
	return m
}

func (m *ScheduleMetrics) ObserveUpstream(side, status string, seconds float64) {
	if m == nil {
		return
	}
	m.upstreamTotal.WithLabelValues(side, status).Inc()
	m.upstreamLatency.WithLabelValues(side).Observe(seconds)
}

func (m *ScheduleMetrics) ObserveCache(outcome string) {
	if m == nil {
		return
	}
	m.cacheTotal.WithLabelValues(outcome).Inc()
}
