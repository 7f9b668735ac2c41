package surveyd

//
// Metrics definitions
//

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// metricsSummaryObjectives returns the summary objectives for promauto.NewSummary.
func metricsSummaryObjectives() map[float64]float64 {
	return map[float64]float64{
		0.25: 0.010,
		0.5:  0.010,
		0.75: 0.010,
		0.9:  0.010,
		0.99: 0.001,
	}
}

var (
	// metricRunsCount counts the finished survey runs by outcome.
	metricRunsCount = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "surveyd_runs_count",
		Help: "Total number of finished survey runs",
	}, []string{"outcome"})

	// metricRunsInflight gauges the number of runs currently inflight.
	metricRunsInflight = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "surveyd_runs_inflight_gauge",
		Help: "The number of survey runs currently inflight",
	})

	// metricRunDurationSeconds summarizes the duration of a survey run.
	metricRunDurationSeconds = promauto.NewSummary(prometheus.SummaryOpts{
		Name:       "surveyd_run_duration_seconds",
		Help:       "Summarizes the time to complete a survey run (in seconds)",
		Objectives: metricsSummaryObjectives(),
	})

	// metricWebsocketClients gauges the connected event stream clients.
	metricWebsocketClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "surveyd_websocket_clients_gauge",
		Help: "The number of connected websocket clients",
	})
)
