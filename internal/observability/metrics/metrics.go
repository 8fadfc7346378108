package metrics

import "github.com/prometheus/client_golang/prometheus"

// ConsultationMetrics exposes counters/histograms for symptom consultations.
type ConsultationMetrics struct {
	classificationsTotal *prometheus.CounterVec
	turnsTotal           *prometheus.CounterVec
	completionsTotal     *prometheus.CounterVec
	speechAdvisoryTotal  *prometheus.CounterVec
	responseLatency      *prometheus.HistogramVec
}

func NewConsultationMetrics(reg prometheus.Registerer) *ConsultationMetrics {
	m := &ConsultationMetrics{
		classificationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "swasthya",
			Subsystem: "triage",
			Name:      "classifications_total",
			Help:      "Total symptom classifications by urgency and matched tier",
		}, []string{"urgency", "tier", "language"}),
		turnsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "swasthya",
			Subsystem: "conversation",
			Name:      "turns_total",
			Help:      "Total completed conversation turns by resulting state",
		}, []string{"state"}),
		completionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "swasthya",
			Subsystem: "conversation",
			Name:      "completions_total",
			Help:      "Total conversations that ended, by reason",
		}, []string{"reason"}),
		speechAdvisoryTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "swasthya",
			Subsystem: "speech",
			Name:      "advisory_total",
			Help:      "Total speech capability advisories raised",
		}, []string{"kind"}),
		responseLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "swasthya",
			Subsystem: "conversation",
			Name:      "response_latency_seconds",
			Help:      "Latency of a full response cycle including simulated delays",
			Buckets:   prometheus.DefBuckets,
		}, []string{"kind"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.classificationsTotal, m.turnsTotal, m.completionsTotal, m.speechAdvisoryTotal, m.responseLatency)
	return m
}

func (m *ConsultationMetrics) ObserveClassification(urgency, tier, language string) {
	if m == nil {
		return
	}
	m.classificationsTotal.WithLabelValues(urgency, tier, language).Inc()
}

func (m *ConsultationMetrics) ObserveTurn(state string) {
	if m == nil {
		return
	}
	m.turnsTotal.WithLabelValues(state).Inc()
}

func (m *ConsultationMetrics) ObserveCompletion(reason string) {
	if m == nil {
		return
	}
	m.completionsTotal.WithLabelValues(reason).Inc()
}

func (m *ConsultationMetrics) ObserveSpeechAdvisory(kind string) {
	if m == nil {
		return
	}
	m.speechAdvisoryTotal.WithLabelValues(kind).Inc()
}

func (m *ConsultationMetrics) ObserveResponseLatency(kind string, seconds float64) {
	if m == nil {
		return
	}
	m.responseLatency.WithLabelValues(kind).Observe(seconds)
}
