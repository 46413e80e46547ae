package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var (
	// Registry is the dedicated Prometheus registry for the API
	Registry = prometheus.NewRegistry()
	// HTTPRequests counts requests by method, path, and status
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "http_requests_total", Help: "Total HTTP requests."},
		[]string{"method", "path", "status"},
	)
	// HTTPDuration records request durations in seconds
	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "http_request_duration_seconds", Help: "HTTP request duration in seconds.", Buckets: prometheus.DefBuckets},
		[]string{"method", "path", "status"},
	)

	// SuggestionsComputed counts suggestion requests by requested role
	SuggestionsComputed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "rota_suggestions_total", Help: "Staffing suggestions computed, by role."},
		[]string{"role"},
	)
	// Assignments counts assignment attempts by result
	Assignments = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "rota_assignments_total", Help: "Assignment attempts by result."},
		[]string{"result"},
	)
	// Imports counts bulk imports by outcome
	Imports = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "rota_imports_total", Help: "Bulk shift imports by outcome."},
		[]string{"outcome"},
	)
	// AutoFillRuns counts scheduler passes by whether they committed
	AutoFillRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "rota_autofill_runs_total", Help: "Auto-fill passes by outcome."},
		[]string{"outcome"},
	)
)

// Label values recorded against the domain counters.
const (
	ResultAssigned   = "assigned"
	ResultRejected   = "rejected"
	ResultOverridden = "overridden"

	OutcomeApplied = "applied"
	OutcomeSkipped = "skipped"
	OutcomeFailed  = "failed"
)

var regOnce sync.Once

// RegisterDefault registers collectors to the dedicated registry.
func RegisterDefault() {
	regOnce.Do(func() {
		Registry.MustRegister(HTTPRequests)
		Registry.MustRegister(HTTPDuration)
		Registry.MustRegister(SuggestionsComputed)
		Registry.MustRegister(Assignments)
		Registry.MustRegister(Imports)
		Registry.MustRegister(AutoFillRuns)
		// Go/process collectors on our registry
		Registry.MustRegister(collectors.NewGoCollector())
		Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	})
}
