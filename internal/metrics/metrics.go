package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	configsGeneratedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "nginxadmin_configs_generated_total",
		Help: "Total number of nginx configurations generated",
	})
	validationFailuresTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "nginxadmin_config_validation_failures_total",
		Help: "Total number of generated configurations that failed validation",
	})
	commandRunsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "nginxadmin_command_runs_total",
		Help: "Total number of test/reload command executions by outcome",
	}, []string{"outcome"})
)

// Register registers Prometheus collectors. Call once at startup.
func Register(registry *prometheus.Registry) {
	registry.MustRegister(configsGeneratedTotal, validationFailuresTotal, commandRunsTotal)
}

// IncConfigGenerated increments the generated configurations counter.
func IncConfigGenerated() { configsGeneratedTotal.Inc() }

// IncValidationFailure increments the validation failures counter.
func IncValidationFailure() { validationFailuresTotal.Inc() }

// IncCommandRun increments the command executions counter for the outcome.
func IncCommandRun(success bool) {
	outcome := "failure"
	if success {
		outcome = "success"
	}
	commandRunsTotal.WithLabelValues(outcome).Inc()
}
