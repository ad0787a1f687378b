package web

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics are the quiz counters exported on /metrics.
type Metrics struct {
	SessionsStarted   prometheus.Counter
	SessionsCompleted prometheus.Counter
	Answers           *prometheus.CounterVec
	Skips             prometheus.Counter
	RequestDuration   *prometheus.HistogramVec
}

func NewMetrics(reg prometheus.Registerer, live func() float64) *Metrics {
	m := &Metrics{
		SessionsStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "quiz_sessions_started_total",
			Help: "Sessions created or reset",
		}),
		SessionsCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "quiz_sessions_completed_total",
			Help: "Sessions that reached the last question",
		}),
		Answers: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "quiz_answers_total",
			Help: "Scored answers by result",
		}, []string{"result"}),
		Skips: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "quiz_skips_total",
			Help: "Questions skipped without an answer",
		}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}, []string{"method", "route", "status"}),
	}
	reg.MustRegister(
		m.SessionsStarted,
		m.SessionsCompleted,
		m.Answers,
		m.Skips,
		m.RequestDuration,
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "quiz_sessions_live",
			Help: "Sessions currently held in memory",
		}, live),
	)
	return m
}

func (m *Metrics) observeRequest(method, route string, status int, seconds float64) {
	m.RequestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(seconds)
}
