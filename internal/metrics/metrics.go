// Package metrics exposes the prometheus instruments of the quiz service.
// All methods are safe to call on a nil *Metrics, which records nothing.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Search outcomes.
const (
	OutcomeFound   = "found"
	OutcomeEmpty   = "empty"
	OutcomeInvalid = "invalid"
	OutcomeError   = "error"
)

type Metrics struct {
	searches        *prometheus.CounterVec
	answers         *prometheus.CounterVec
	expirations     prometheus.Counter
	resultsRecorded prometheus.Counter
	sourceDuration  *prometheus.HistogramVec
}

// New creates the instruments and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		searches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "quiz_searches_total",
			Help: "Quote searches by outcome.",
		}, []string{"outcome"}),
		answers: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "quiz_answers_total",
			Help: "Submitted answers by correctness.",
		}, []string{"correct"}),
		expirations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "quiz_timer_expirations_total",
			Help: "Countdown timers that ran out.",
		}),
		resultsRecorded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "quiz_results_recorded_total",
			Help: "Finished games written to the results board.",
		}),
		sourceDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "quote_source_request_duration_seconds",
			Help:    "Latency of quote provider requests.",
			Buckets: prometheus.DefBuckets,
		}, []string{"status"}),
	}
	reg.MustRegister(m.searches, m.answers, m.expirations, m.resultsRecorded, m.sourceDuration)
	return m
}

func (m *Metrics) Search(outcome string) {
	if m == nil {
		return
	}
	m.searches.WithLabelValues(outcome).Inc()
}

func (m *Metrics) Answer(correct bool) {
	if m == nil {
		return
	}
	m.answers.WithLabelValues(strconv.FormatBool(correct)).Inc()
}

func (m *Metrics) TimerExpired() {
	if m == nil {
		return
	}
	m.expirations.Inc()
}

func (m *Metrics) ResultRecorded() {
	if m == nil {
		return
	}
	m.resultsRecorded.Inc()
}

// ObserveSource records one provider call. status is the HTTP status, or 0 for transport failures.
func (m *Metrics) ObserveSource(status int, d time.Duration) {
	if m == nil {
		return
	}
	m.sourceDuration.WithLabelValues(strconv.Itoa(status)).Observe(d.Seconds())
}

// Searches returns the search counter, for tests.
func (m *Metrics) Searches() *prometheus.CounterVec { return m.searches }

// Answers returns the answer counter, for tests.
func (m *Metrics) Answers() *prometheus.CounterVec { return m.answers }

// Expirations returns the timer expiration counter, for tests.
func (m *Metrics) Expirations() prometheus.Counter { return m.expirations }
