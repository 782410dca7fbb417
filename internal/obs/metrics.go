package obs

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Engine-level metrics.
var (
	sessionsOpen = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "countersign_sessions_open",
		Help: "Authorization sessions currently collecting approvals.",
	})

	approvalAttempts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "countersign_approval_attempts_total",
			Help: "Approval attempts by module and result.",
		},
		[]string{"module", "result"},
	)

	sessionsFinalized = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "countersign_sessions_finalized_total",
			Help: "Finalized authorization sessions by module and outcome.",
		},
		[]string{"module", "outcome"},
	)

	timeToQuorum = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "countersign_time_to_quorum_seconds",
			Help:    "Seconds from session open until quorum was first reached.",
			Buckets: prometheus.ExponentialBuckets(1, 4, 10), // 1s .. ~3 days
		},
		[]string{"module"},
	)
)

// Init registers the engine metrics in the default registry.
func Init() {
	prometheus.MustRegister(sessionsOpen, approvalAttempts, sessionsFinalized, timeToQuorum)
}

// SessionOpened records a newly opened session.
func SessionOpened() {
	sessionsOpen.Inc()
}

// SessionFinalized records a terminal transition for a session.
func SessionFinalized(module, outcome string) {
	sessionsOpen.Dec()
	sessionsFinalized.WithLabelValues(module, outcome).Inc()
}

// ApprovalAttempt records one approval attempt and its result.
func ApprovalAttempt(module, result string) {
	approvalAttempts.WithLabelValues(module, result).Inc()
}

// QuorumReached records how long a session took to collect a valid quorum.
func QuorumReached(module string, seconds float64) {
	timeToQuorum.WithLabelValues(module).Observe(seconds)
}
