package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	metricPrefix = "jalraksha_"

	resultSuccess = "success"
	resultError   = "error"
)

var (
	registerOnce sync.Once

	predictionsTotal *prometheus.CounterVec

	dispatchTotal   *prometheus.CounterVec
	dispatchLatency *prometheus.HistogramVec

	sosTotal *prometheus.CounterVec

	monitorRunsTotal  *prometheus.CounterVec
	monitorRunLatency prometheus.Histogram

	notifyTotal *prometheus.CounterVec
)

// Init registers the service metrics. Safe to call more than once.
func Init() {
	registerOnce.Do(func() {
		predictionsTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "predictions_total",
				Help: "Total risk predictions by level",
			},
			[]string{"level"},
		)

		dispatchTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "dispatch_total",
				Help: "Total rescue dispatch attempts by outcome",
			},
			[]string{"outcome"},
		)
		dispatchLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "dispatch_latency_seconds",
				Help:    "Rescue dispatch latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"outcome"},
		)

		sosTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "sos_requests_total",
				Help: "Total accepted SOS requests by priority",
			},
			[]string{"priority"},
		)

		monitorRunsTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "monitor_runs_total",
				Help: "Total city monitoring sweeps by result",
			},
			[]string{"result"},
		)
		monitorRunLatency = prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "monitor_run_latency_seconds",
				Help:    "City monitoring sweep latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
		)

		notifyTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "notifications_total",
				Help: "Total outbound notifications by result",
			},
			[]string{"result"},
		)

		prometheus.MustRegister(
			predictionsTotal,
			dispatchTotal,
			dispatchLatency,
			sosTotal,
			monitorRunsTotal,
			monitorRunLatency,
			notifyTotal,
		)
	})
}

// Handler exposes the default registry for a /metrics route.
func Handler() http.Handler {
	return promhttp.Handler()
}

// IncPrediction counts one classified reading.
func IncPrediction(level string) {
	if level == "" {
		level = "unknown"
	}
	if predictionsTotal != nil {
		predictionsTotal.WithLabelValues(level).Inc()
	}
}

// ObserveDispatch records one dispatch attempt and its duration.
func ObserveDispatch(outcome string, duration time.Duration) {
	if outcome == "" {
		outcome = resultSuccess
	}
	if dispatchTotal != nil {
		dispatchTotal.WithLabelValues(outcome).Inc()
	}
	if dispatchLatency != nil {
		dispatchLatency.WithLabelValues(outcome).Observe(duration.Seconds())
	}
}

// IncSOS counts one accepted distress request.
func IncSOS(priority string) {
	if priority == "" {
		priority = "unknown"
	}
	if sosTotal != nil {
		sosTotal.WithLabelValues(priority).Inc()
	}
}

// ObserveMonitorRun records one monitoring sweep.
func ObserveMonitorRun(result string, duration time.Duration) {
	if result == "" {
		result = resultSuccess
	}
	if monitorRunsTotal != nil {
		monitorRunsTotal.WithLabelValues(result).Inc()
	}
	if monitorRunLatency != nil {
		monitorRunLatency.Observe(duration.Seconds())
	}
}

// IncNotify counts one outbound notification attempt.
func IncNotify(result string) {
	if result == "" {
		result = resultSuccess
	}
	if notifyTotal != nil {
		notifyTotal.WithLabelValues(result).Inc()
	}
}

// Exported constants for callers.
const (
	ResultSuccess = resultSuccess
	ResultError   = resultError

	DispatchOutcomeAssigned = "assigned"
	DispatchOutcomeNoUnits  = "no_units"
	DispatchOutcomeRaceLost = "race_lost"
)
