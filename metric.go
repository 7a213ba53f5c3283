package xnames

import (
	"github.com/everFinance/xnames/schema"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	MetricNameSpace = "xnames"
)

var (
	registryEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: MetricNameSpace,
			Name:      "registry_events_total",
			Help:      "committed mint, burn and transfer notifications",
		},
		[]string{"event"},
	)

	tokenStatus = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: MetricNameSpace,
			Name:      "tokens",
			Help:      "live tokens by subscription status",
		},
		[]string{"status"},
	)

	requestErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: MetricNameSpace,
			Name:      "request_errors_total",
			Help:      "rejected requests by error code",
		},
		[]string{"code"},
	)
)

func init() {
	prometheus.MustRegister(
		registryEvents,
		tokenStatus,
		requestErrors,
	)
}

func metricEvent(name string) {
	registryEvents.WithLabelValues(name).Inc()
}

func metricTokenStatus(counts map[schema.ExpiryKind]int) {
	for _, k := range []schema.ExpiryKind{schema.Owned, schema.Grace, schema.Expired} {
		tokenStatus.WithLabelValues(k.String()).Set(float64(counts[k]))
	}
}

func metricRequestError(code string) {
	requestErrors.WithLabelValues(code).Inc()
}
