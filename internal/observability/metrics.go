package observability

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	ResultOK    = "ok"
	ResultError = "error"
)

var (
	registerOnce sync.Once

	decodeMessages = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "otrwire",
			Subsystem: "decode",
			Name:      "messages_total",
			Help:      "Decoded messages by message type and result.",
		},
		[]string{"message_type", "result"},
	)
	decodeBytes = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "otrwire",
			Subsystem: "decode",
			Name:      "message_bytes",
			Help:      "Size of decoded message payloads in bytes.",
			Buckets:   prometheus.ExponentialBuckets(64, 2, 12),
		},
		[]string{"message_type"},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(decodeMessages, decodeBytes)
	})
}

func RecordDecode(messageType string, size int, err error) {
	RegisterMetrics()
	result := ResultOK
	if err != nil {
		result = ResultError
	}
	decodeMessages.WithLabelValues(messageType, result).Inc()
	decodeBytes.WithLabelValues(messageType).Observe(float64(size))
}

// Handler serves the default registry in the Prometheus text format.
func Handler() http.Handler {
	RegisterMetrics()
	return promhttp.Handler()
}
