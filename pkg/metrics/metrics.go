package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	shortsmith = "shortsmith"

	// Job metrics
	JobStatusCount      = "job_status_count"
	jobsSubmittedTotal  = "jobs_submitted_total"
	videosProducedTotal = "videos_produced_total"
	stageDurationName   = "pipeline_stage_duration_seconds"

	// Labels
	jobStateLabel = "state"
	stageLabel    = "stage"
	uploadedLabel = "uploaded"
)

/**
* Metrics definition
**/
var jobsSubmittedTotalMetric = prometheus.NewCounter(
	prometheus.CounterOpts{
		Subsystem: shortsmith,
		Name:      jobsSubmittedTotal,
		Help:      "number of automation jobs submitted since process start",
	},
)

var jobStatusCountMetric = prometheus.NewGaugeVec(
	prometheus.GaugeOpts{
		Subsystem: shortsmith,
		Name:      JobStatusCount,
		Help:      "number of jobs currently in each status",
	},
	[]string{jobStateLabel},
)

var videosProducedTotalMetric = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Subsystem: shortsmith,
		Name:      videosProducedTotal,
		Help:      "number of videos produced by the pipeline",
	},
	[]string{uploadedLabel},
)

var stageDurationMetric = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Subsystem: shortsmith,
		Name:      stageDurationName,
		Help:      "wall time spent in each pipeline stage",
		Buckets:   []float64{1, 5, 15, 30, 60, 120, 300},
	},
	[]string{stageLabel},
)

func IncreaseJobsSubmittedMetric() {
	jobsSubmittedTotalMetric.Inc()
}

func UpdateJobStateCountMetric(state string, count int) {
	jobStatusCountMetric.With(prometheus.Labels{jobStateLabel: state}).Set(float64(count))
}

func IncreaseVideosProducedMetric(uploaded bool) {
	label := "false"
	if uploaded {
		label = "true"
	}
	videosProducedTotalMetric.With(prometheus.Labels{uploadedLabel: label}).Inc()
}

func ObserveStageDuration(stage string, seconds float64) {
	stageDurationMetric.With(prometheus.Labels{stageLabel: stage}).Observe(seconds)
}

// NewPrometheusMetricsHandler exposes the default registry over HTTP.
func NewPrometheusMetricsHandler() http.Handler {
	return promhttp.Handler()
}

func init() {
	registerMetrics()
}

func registerMetrics() {
	prometheus.MustRegister(jobsSubmittedTotalMetric)
	prometheus.MustRegister(jobStatusCountMetric)
	prometheus.MustRegister(videosProducedTotalMetric)
	prometheus.MustRegister(stageDurationMetric)
}
