package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// RPCMetrics records per-procedure request outcomes and connection
// lifecycle events.
type RPCMetrics interface {
	// RecordRequest records one completed procedure call. status is the
	// textual outcome ("ok", an NFS status name, "mismatch", ...).
	RecordRequest(program, procedure, status string, duration time.Duration)

	// ConnectionOpened and ConnectionClosed track the TCP connection
	// gauge.
	ConnectionOpened()
	ConnectionClosed()
}

// NewRPCMetrics returns a Prometheus-backed implementation, or a no-op
// when the registry has not been initialized.
func NewRPCMetrics() RPCMetrics {
	if !IsEnabled() {
		return noopRPCMetrics{}
	}

	reg := GetRegistry()

	return &rpcMetrics{
		requestsTotal: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "nfs2d_rpc_requests_total",
				Help: "Total RPC requests by program, procedure, and status",
			},
			[]string{"program", "procedure", "status"},
		),
		requestDuration: promauto.With(reg).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "nfs2d_rpc_request_duration_seconds",
				Help:    "Duration of RPC request handling",
				Buckets: []float64{0.0001, 0.001, 0.01, 0.1, 1, 10},
			},
			[]string{"program", "procedure"},
		),
		activeConnections: promauto.With(reg).NewGauge(
			prometheus.GaugeOpts{
				Name: "nfs2d_tcp_active_connections",
				Help: "Current number of open TCP connections",
			},
		),
		connectionsAccepted: promauto.With(reg).NewCounter(
			prometheus.CounterOpts{
				Name: "nfs2d_tcp_connections_accepted_total",
				Help: "Total TCP connections accepted",
			},
		),
	}
}

type rpcMetrics struct {
	requestsTotal       *prometheus.CounterVec
	requestDuration     *prometheus.HistogramVec
	activeConnections   prometheus.Gauge
	connectionsAccepted prometheus.Counter
}

func (m *rpcMetrics) RecordRequest(program, procedure, status string, duration time.Duration) {
	m.requestsTotal.WithLabelValues(program, procedure, status).Inc()
	m.requestDuration.WithLabelValues(program, procedure).Observe(duration.Seconds())
}

func (m *rpcMetrics) ConnectionOpened() {
	m.connectionsAccepted.Inc()
	m.activeConnections.Inc()
}

func (m *rpcMetrics) ConnectionClosed() {
	m.activeConnections.Dec()
}

type noopRPCMetrics struct{}

func (noopRPCMetrics) RecordRequest(string, string, string, time.Duration) {}
func (noopRPCMetrics) ConnectionOpened()                                   {}
func (noopRPCMetrics) ConnectionClosed()                                   {}
