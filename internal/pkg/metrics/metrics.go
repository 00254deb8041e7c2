package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Registry is served on /metrics. A dedicated registry keeps library
// defaults out of the exposition and lets tests inspect values.
var Registry = prometheus.NewRegistry()

var (
	// PingsTotal counts ingested pings.
	// transport: http/mqtt, result: accepted/invalid/failed
	PingsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sentinel_pings_total",
			Help: "Total number of telemetry pings received.",
		},
		[]string{"transport", "result"},
	)

	// StateWritesTotal counts live-state partial updates.
	// step: telemetry/assessment, result: success/failed
	StateWritesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sentinel_state_writes_total",
			Help: "Total number of live-state partial updates.",
		},
		[]string{"step", "result"},
	)

	ClassificationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sentinel_classifications_total",
			Help: "Total number of classified reports by verdict.",
		},
		[]string{"verdict"},
	)

	ClassificationDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "sentinel_classification_duration_seconds",
			Help:    "Latency of report classification, including timeouts.",
			Buckets: prometheus.DefBuckets,
		},
	)

	// AlertsTotal counts alert dispatches.
	// result: sent/failed/dropped
	AlertsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sentinel_alerts_total",
			Help: "Total number of threat alerts by dispatch result.",
		},
		[]string{"result"},
	)

	AlertQueueDepth = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "sentinel_alert_queue_depth",
			Help: "Number of alerts waiting for a dispatch worker.",
		},
	)

	// MQTTConnectivityStatus 1 = connected, 0 = disconnected.
	MQTTConnectivityStatus = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "sentinel_mqtt_connectivity_status",
			Help: "The connectivity status to the MQTT broker (1=Connected, 0=Disconnected).",
		},
	)
)

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		PingsTotal,
		StateWritesTotal,
		ClassificationsTotal,
		ClassificationDuration,
		AlertsTotal,
		AlertQueueDepth,
		MQTTConnectivityStatus,
	)
}
