package apiclient

import (
	"errors"
	"time"

	"github.com/son-changwook/routepick/internal/contract"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	requestCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "routepick",
		Subsystem: "client",
		Name:      "requests_total",
		Help:      "API calls by operation and resulting error code.",
	}, []string{"op", "code"})

	requestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "routepick",
		Subsystem: "client",
		Name:      "request_duration_seconds",
		Help:      "API call latency including retries and token refresh.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"op"})
)

func init() {
	prometheus.MustRegister(requestCounter, requestDuration)
}

func observe(op string, err error, elapsed time.Duration) {
	requestCounter.WithLabelValues(op, resultCode(err)).Inc()
	requestDuration.WithLabelValues(op).Observe(elapsed.Seconds())
}

func resultCode(err error) string {
	if err == nil {
		return "OK"
	}
	var apiErr *contract.APIError
	if errors.As(err, &apiErr) {
		return string(apiErr.Code)
	}
	if errors.Is(err, contract.ErrValidation) {
		return string(contract.CodeValidation)
	}
	return string(contract.CodeNetwork)
}
