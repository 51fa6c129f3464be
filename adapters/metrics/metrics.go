package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Canvas metrics
var (
	BroadcastsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "webbuddy",
			Subsystem: "realtime",
			Name:      "broadcasts_total",
			Help:      "Total canvas events fanned out to subscribers",
		},
		[]string{"event"},
	)

	Subscribers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "webbuddy",
			Subsystem: "realtime",
			Name:      "subscribers",
			Help:      "Currently connected subscribers",
		},
	)

	DroppedSubscribersTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "webbuddy",
			Subsystem: "realtime",
			Name:      "dropped_subscribers_total",
			Help:      "Subscribers disconnected after a failed delivery",
		},
	)

	UploadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "webbuddy",
			Subsystem: "media",
			Name:      "uploads_total",
			Help:      "Total file uploads",
		},
		[]string{"media_type", "status"},
	)

	UploadBytesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "webbuddy",
			Subsystem: "media",
			Name:      "upload_bytes_total",
			Help:      "Total bytes accepted into upload storage",
		},
		[]string{"media_type"},
	)

	ProbeDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "webbuddy",
			Subsystem: "media",
			Name:      "probe_duration_seconds",
			Help:      "Time spent extracting metadata from uploaded bytes",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 30},
		},
		[]string{"media_type"},
	)

	RelayCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "webbuddy",
			Subsystem: "relay",
			Name:      "calls_total",
			Help:      "Calls made to the external screen relay",
		},
		[]string{"operation", "status"},
	)
)

// RecordUpload records a file upload
func RecordUpload(mediaType, status string, bytes int64) {
	UploadsTotal.WithLabelValues(mediaType, status).Inc()
	if status == "success" {
		UploadBytesTotal.WithLabelValues(mediaType).Add(float64(bytes))
	}
}

func RecordProbe(mediaType string, durationSec float64) {
	ProbeDuration.WithLabelValues(mediaType).Observe(durationSec)
}

func RecordRelayCall(operation, status string) {
	RelayCallsTotal.WithLabelValues(operation, status).Inc()
}

func RecordBroadcast(event string) {
	BroadcastsTotal.WithLabelValues(event).Inc()
}
