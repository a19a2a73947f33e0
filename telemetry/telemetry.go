// Package telemetry exposes advisory Prometheus counters and gauges for
// plans created, chunks certified/rejected, executions succeeded/failed,
// and the current ZMP score (spec.md §6's "balance telemetry" and "robot
// status" resources). Nothing in the core pipeline reads these back.
package telemetry

import "github.com/prometheus/client_golang/prometheus"

// Telemetry is a small bundle of Prometheus collectors. The zero value is
// not usable; construct with New.
type Telemetry struct {
	PlansCreated        prometheus.Counter
	ChunksCertified     prometheus.Counter
	ChunksRejected      prometheus.Counter
	ExecutionsSucceeded prometheus.Counter
	ExecutionsFailed    prometheus.Counter
	ZMPScore            prometheus.Gauge
}

// New registers a fresh set of collectors against registry. Pass
// prometheus.NewRegistry() in tests to avoid colliding with the default
// global registry across parallel test binaries.
func New(registry *prometheus.Registry) *Telemetry {
	t := &Telemetry{
		PlansCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "mcp_robot_plans_created_total",
			Help: "Total number of task plans generated.",
		}),
		ChunksCertified: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "mcp_robot_chunks_certified_total",
			Help: "Total number of joint trajectory chunks certified safe.",
		}),
		ChunksRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "mcp_robot_chunks_rejected_total",
			Help: "Total number of joint trajectory chunks rejected by the verifier.",
		}),
		ExecutionsSucceeded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "mcp_robot_executions_succeeded_total",
			Help: "Total number of chunk executions that reported success.",
		}),
		ExecutionsFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "mcp_robot_executions_failed_total",
			Help: "Total number of chunk executions that reported failure.",
		}),
		ZMPScore: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "mcp_robot_zmp_score",
			Help: "Most recently computed zero-moment-point stability score.",
		}),
	}

	registry.MustRegister(
		t.PlansCreated,
		t.ChunksCertified,
		t.ChunksRejected,
		t.ExecutionsSucceeded,
		t.ExecutionsFailed,
		t.ZMPScore,
	)
	return t
}

// ObserveCertification records a verifier outcome.
func (t *Telemetry) ObserveCertification(safe bool) {
	if safe {
		t.ChunksCertified.Inc()
	} else {
		t.ChunksRejected.Inc()
	}
}

// ObserveExecution records an adapter outcome.
func (t *Telemetry) ObserveExecution(success bool) {
	if success {
		t.ExecutionsSucceeded.Inc()
	} else {
		t.ExecutionsFailed.Inc()
	}
}
