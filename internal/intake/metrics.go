package intake

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the intake collectors. A nil *Metrics records nothing.
type Metrics struct {
	submissions *prometheus.CounterVec
	dispatch    *prometheus.HistogramVec
}

// NewMetrics registers the collectors on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "formrelay",
			Name:      "submissions_total",
			Help:      "Form submissions by terminal outcome.",
		}, []string{"outcome"}),
		dispatch: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "formrelay",
			Name:      "dispatch_duration_seconds",
			Help:      "Time spent handing a notification to the mail provider.",
			Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		}, []string{"provider", "result"}),
	}
	reg.MustRegister(m.submissions, m.dispatch)
	return m
}

// ObserveOutcome counts one submission outcome.
func (m *Metrics) ObserveOutcome(o Outcome) {
	if m == nil {
		return
	}
	m.submissions.WithLabelValues(string(o)).Inc()
}

func (m *Metrics) observeDispatch(provider string, ok bool, d time.Duration) {
	if m == nil {
		return
	}
	result := "ok"
	if !ok {
		result = "error"
	}
	m.dispatch.WithLabelValues(provider, result).Observe(d.Seconds())
}
